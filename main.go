package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"travel-backend/cache"
	"travel-backend/config"
	"travel-backend/controllers"
	"travel-backend/routes"
	"travel-backend/services"
	"travel-backend/tasks"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}

	secretKey := os.Getenv("CHAPA_SECRET_KEY")
	if secretKey == "" {
		log.Fatal("❌ ERROR: CHAPA_SECRET_KEY environment variable is not set. Cannot initialize payment gateway.")
	}
	log.Println("✅ CHAPA_SECRET_KEY detected.")

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("❌ Database connect failed: %v", err)
	}
	db := config.DB
	log.Println("✅ Database connection established and migrations applied.")

	// Gateway client: config read once here and injected
	appBase := strings.TrimRight(config.EnvOrDefault("APP_BASE_URL", "http://127.0.0.1:8080"), "/")
	chapa := services.NewChapaClient(services.ChapaConfig{
		SecretKey:   secretKey,
		BaseURL:     os.Getenv("CHAPA_BASE_URL"),
		CallbackURL: appBase + "/api/payments/verify",
		ReturnURL:   appBase + "/payment-success",
	})

	// Email task queue: Kafka when a broker is configured, in-process otherwise
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var queue tasks.Queue
	var memQueue *tasks.MemoryQueue
	if broker := os.Getenv("KAFKA_BROKER"); broker != "" {
		kq, err := tasks.NewKafkaQueue(broker, tasks.EmailTopic)
		if err != nil {
			log.Fatalf("❌ Kafka connect failed: %v", err)
		}
		defer kq.Close()
		queue = kq

		go func() {
			if err := tasks.StartConsumer(ctx, broker, tasks.EmailTopic, tasks.HandleEmailTask); err != nil {
				log.Printf("email consumer stopped: %v", err)
			}
		}()
		log.Println("✅ Kafka task queue ready.")
	} else {
		memQueue = tasks.NewMemoryQueue(64, tasks.HandleEmailTask)
		memQueue.Start()
		queue = memQueue
		log.Println("⚠️  KAFKA_BROKER not set; using in-process task queue")
	}

	// Optional redis cache for listing reads
	var listingCache *cache.ListingCache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb, err := cache.Connect(addr)
		if err != nil {
			log.Fatalf("❌ Redis connect failed: %v", err)
		}
		listingCache = cache.NewListingCache(rdb)
		log.Println("✅ Redis cache connected.")
	}

	// Services
	userService := services.NewUserService(db)
	listingService := services.NewListingService(db, listingCache)
	bookingService := services.NewBookingService(db, chapa)
	paymentService := services.NewPaymentService(db, chapa, queue)

	// Controllers
	authController := controllers.NewAuthController(userService)
	listingController := controllers.NewListingController(listingService)
	bookingController := controllers.NewBookingController(bookingService, userService)
	paymentController := controllers.NewPaymentController(paymentService)

	router := routes.SetupRouter(authController, listingController, bookingController, paymentController)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      40 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⚠️  Shutdown signal received, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	cancel()
	if memQueue != nil {
		memQueue.Stop()
	}

	log.Println("✅ Server stopped gracefully")
}
