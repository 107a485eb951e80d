package controllers_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"travel-backend/controllers"
	"travel-backend/models"
	"travel-backend/routes"
	"travel-backend/services"
	"travel-backend/tasks"
	"travel-backend/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Listing{},
		&models.Booking{},
		&models.Payment{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

type fakeGateway struct {
	InitiateFunc func(ctx context.Context, req services.InitiateRequest) (*services.InitiateResult, error)
	VerifyFunc   func(ctx context.Context, txRef string) (*services.VerifyResponse, error)
}

func (g *fakeGateway) Initiate(ctx context.Context, req services.InitiateRequest) (*services.InitiateResult, error) {
	if g.InitiateFunc != nil {
		return g.InitiateFunc(ctx, req)
	}
	return &services.InitiateResult{CheckoutURL: "https://pay/x", TxRef: req.TxRef}, nil
}

func (g *fakeGateway) Verify(ctx context.Context, txRef string) (*services.VerifyResponse, error) {
	if g.VerifyFunc != nil {
		return g.VerifyFunc(ctx, txRef)
	}
	return &services.VerifyResponse{Status: "success", Data: []byte(`{"status":"success"}`)}, nil
}

type fakeQueue struct {
	Tasks []tasks.Task
}

func (q *fakeQueue) Enqueue(_ context.Context, task tasks.Task) (string, error) {
	q.Tasks = append(q.Tasks, task)
	return "task-1", nil
}

type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
	GW     *fakeGateway
	Queue  *fakeQueue
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	db := newTestDB(t)
	gw := &fakeGateway{}
	queue := &fakeQueue{}

	userService := services.NewUserService(db)
	listingService := services.NewListingService(db, nil)
	bookingService := services.NewBookingService(db, gw)
	paymentService := services.NewPaymentService(db, gw, queue)

	router := routes.SetupRouter(
		controllers.NewAuthController(userService),
		controllers.NewListingController(listingService),
		controllers.NewBookingController(bookingService, userService),
		controllers.NewPaymentController(paymentService),
	)

	return &testApp{DB: db, Router: router, GW: gw, Queue: queue}
}

func (a *testApp) seedUser(t *testing.T) (models.User, string) {
	t.Helper()
	user := models.User{
		Email:     "guest@example.com",
		FirstName: "Guest",
		LastName:  "User",
	}
	if err := a.DB.Create(&user).Error; err != nil {
		t.Fatal(err)
	}
	token, err := utils.CreateToken(user.ID, user.Email, user.Role)
	if err != nil {
		t.Fatalf("create token: %v", err)
	}
	return user, token
}

func (a *testApp) seedListing(t *testing.T, price float64) models.Listing {
	t.Helper()
	listing := models.Listing{
		Title:         "Lakeside Cottage",
		Location:      "Bahir Dar",
		PricePerNight: price,
	}
	if err := a.DB.Create(&listing).Error; err != nil {
		t.Fatal(err)
	}
	return listing
}
