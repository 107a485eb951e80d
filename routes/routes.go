package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"travel-backend/controllers"
	"travel-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func SetupRouter(
	ac *controllers.AuthController,
	lc *controllers.ListingController,
	bc *controllers.BookingController,
	pc *controllers.PaymentController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", ac.Register)
			auth.POST("/login", ac.Login)
		}

		listings := api.Group("/listings")
		{
			listings.GET("", lc.GetListings)
			listings.GET("/:id", lc.GetListingByID)

			listings.POST("", middleware.Auth(), lc.CreateListing)
			listings.PUT("/:id", middleware.Auth(), lc.UpdateListing)
			listings.DELETE("/:id", middleware.Auth(), lc.DeleteListing)
		}

		bookings := api.Group("/bookings", middleware.Auth())
		{
			bookings.GET("", bc.GetBookings)
			bookings.GET("/:id", bc.GetBookingByID)
			bookings.POST("", bc.CreateBooking)
			bookings.POST("/:id/pay", bc.InitiatePayment)
		}

		// gateway callback; Any so non-GET methods get a 405, not a 404
		api.Any("/payments/verify", pc.Verify)
		api.GET("/payments", middleware.Auth(), pc.GetUserPayments)
	}

	return r
}
