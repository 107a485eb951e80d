package services

import (
	"context"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"travel-backend/models"
	"travel-backend/tasks"
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

func seedUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	user := models.User{
		Email:     "guest@example.com",
		FirstName: "Guest",
		LastName:  "User",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedListing(t *testing.T, db *gorm.DB, pricePerNight float64) models.Listing {
	t.Helper()
	listing := models.Listing{
		Title:         "Lakeside Cottage",
		Location:      "Bahir Dar",
		PricePerNight: pricePerNight,
	}
	if err := db.Create(&listing).Error; err != nil {
		t.Fatalf("seed listing: %v", err)
	}
	return listing
}

// fakeGateway implements PaymentGateway with overridable funcs.
type fakeGateway struct {
	InitiateFunc func(ctx context.Context, req InitiateRequest) (*InitiateResult, error)
	VerifyFunc   func(ctx context.Context, txRef string) (*VerifyResponse, error)

	InitiateCalls []InitiateRequest
	VerifyCalls   []string
}

func (g *fakeGateway) Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error) {
	g.InitiateCalls = append(g.InitiateCalls, req)
	if g.InitiateFunc != nil {
		return g.InitiateFunc(ctx, req)
	}
	return &InitiateResult{CheckoutURL: "https://pay/x", TxRef: req.TxRef}, nil
}

func (g *fakeGateway) Verify(ctx context.Context, txRef string) (*VerifyResponse, error) {
	g.VerifyCalls = append(g.VerifyCalls, txRef)
	if g.VerifyFunc != nil {
		return g.VerifyFunc(ctx, txRef)
	}
	return &VerifyResponse{Status: "success", Data: []byte(`{"status":"success"}`)}, nil
}

// fakeQueue records enqueued tasks.
type fakeQueue struct {
	Tasks []tasks.Task
}

func (q *fakeQueue) Enqueue(_ context.Context, task tasks.Task) (string, error) {
	q.Tasks = append(q.Tasks, task)
	return "task-1", nil
}
