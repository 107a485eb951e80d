package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"travel-backend/models"
)

func dates(t *testing.T, start, end string) (time.Time, time.Time) {
	t.Helper()
	s, err := time.Parse("2006-01-02", start)
	if err != nil {
		t.Fatal(err)
	}
	e, err := time.Parse("2006-01-02", end)
	if err != nil {
		t.Fatal(err)
	}
	return s, e
}

func TestCreateBookingSuccess(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	listing := seedListing(t, db, 250)

	gw := &fakeGateway{
		InitiateFunc: func(_ context.Context, req InitiateRequest) (*InitiateResult, error) {
			return &InitiateResult{CheckoutURL: "https://pay/x", TxRef: req.TxRef}, nil
		},
	}
	svc := NewBookingService(db, gw)

	start, end := dates(t, "2026-09-01", "2026-09-03")
	result, err := svc.Create(context.Background(), user, CreateBookingInput{
		ListingID: listing.ID,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if result.CheckoutURL != "https://pay/x" {
		t.Errorf("CheckoutURL = %q", result.CheckoutURL)
	}
	if result.Booking.TotalPrice != 500 {
		t.Errorf("TotalPrice = %v, want 500 (2 nights * 250)", result.Booking.TotalPrice)
	}
	if !strings.HasPrefix(result.Booking.ReferenceCode, "BK-") {
		t.Errorf("ReferenceCode = %q", result.Booking.ReferenceCode)
	}

	var booking models.Booking
	if err := db.First(&booking, result.Booking.ID).Error; err != nil {
		t.Fatalf("booking not persisted: %v", err)
	}
	if booking.Status != models.BookingStatusPending {
		t.Errorf("booking status = %q, want pending", booking.Status)
	}

	var payments []models.Payment
	db.Find(&payments)
	if len(payments) != 1 {
		t.Fatalf("payments = %d, want 1", len(payments))
	}
	p := payments[0]
	if p.Status != models.PaymentStatusPending {
		t.Errorf("payment status = %q, want Pending", p.Status)
	}
	if p.TransactionRef != booking.ReferenceCode {
		t.Errorf("TransactionRef = %q, want %q", p.TransactionRef, booking.ReferenceCode)
	}
	if p.Amount != 500 {
		t.Errorf("payment amount = %v, want 500", p.Amount)
	}

	if len(gw.InitiateCalls) != 1 {
		t.Fatalf("gateway calls = %d, want 1", len(gw.InitiateCalls))
	}
	if gw.InitiateCalls[0].Email != user.Email {
		t.Errorf("initiate email = %q", gw.InitiateCalls[0].Email)
	}
}

// The gateway may echo a different reference; the stored payment must carry
// the gateway's value, never the caller's original.
func TestCreateBookingStoresGatewayTxRef(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	listing := seedListing(t, db, 100)

	gw := &fakeGateway{
		InitiateFunc: func(_ context.Context, req InitiateRequest) (*InitiateResult, error) {
			return &InitiateResult{CheckoutURL: "https://pay/x", TxRef: "CHAPA-" + req.TxRef}, nil
		},
	}
	svc := NewBookingService(db, gw)

	start, end := dates(t, "2026-09-01", "2026-09-02")
	result, err := svc.Create(context.Background(), user, CreateBookingInput{
		ListingID: listing.ID, StartDate: start, EndDate: end,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	var payment models.Payment
	if err := db.First(&payment).Error; err != nil {
		t.Fatalf("payment not persisted: %v", err)
	}
	want := "CHAPA-" + result.Booking.ReferenceCode
	if payment.TransactionRef != want {
		t.Errorf("TransactionRef = %q, want %q", payment.TransactionRef, want)
	}
}

// Gateway failure keeps the pending booking and persists no payment.
func TestCreateBookingGatewayFailure(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	listing := seedListing(t, db, 100)

	gw := &fakeGateway{
		InitiateFunc: func(_ context.Context, _ InitiateRequest) (*InitiateResult, error) {
			return nil, &PaymentInitiationError{Message: "Invalid API Key"}
		},
	}
	svc := NewBookingService(db, gw)

	start, end := dates(t, "2026-09-01", "2026-09-02")
	_, err := svc.Create(context.Background(), user, CreateBookingInput{
		ListingID: listing.ID, StartDate: start, EndDate: end,
	})

	var initErr *PaymentInitiationError
	if !errors.As(err, &initErr) {
		t.Fatalf("want *PaymentInitiationError, got %v", err)
	}

	var bookings []models.Booking
	db.Find(&bookings)
	if len(bookings) != 1 {
		t.Fatalf("bookings = %d, want 1 (orphaned pending booking)", len(bookings))
	}
	if bookings[0].Status != models.BookingStatusPending {
		t.Errorf("booking status = %q, want pending", bookings[0].Status)
	}

	var count int64
	db.Model(&models.Payment{}).Count(&count)
	if count != 0 {
		t.Errorf("payments = %d, want 0", count)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	listing := seedListing(t, db, 100)
	gw := &fakeGateway{}
	svc := NewBookingService(db, gw)

	start, end := dates(t, "2026-09-01", "2026-09-02")

	t.Run("unknown listing", func(t *testing.T) {
		_, err := svc.Create(context.Background(), user, CreateBookingInput{
			ListingID: listing.ID + 99, StartDate: start, EndDate: end,
		})
		if !errors.Is(err, ErrListingNotFound) {
			t.Fatalf("want ErrListingNotFound, got %v", err)
		}
	})

	t.Run("reversed dates", func(t *testing.T) {
		_, err := svc.Create(context.Background(), user, CreateBookingInput{
			ListingID: listing.ID, StartDate: end, EndDate: start,
		})
		if !errors.Is(err, ErrInvalidDateRange) {
			t.Fatalf("want ErrInvalidDateRange, got %v", err)
		}
	})

	// validation failures never reach the gateway
	if len(gw.InitiateCalls) != 0 {
		t.Errorf("gateway calls = %d, want 0", len(gw.InitiateCalls))
	}
	var count int64
	db.Model(&models.Booking{}).Count(&count)
	if count != 0 {
		t.Errorf("bookings = %d, want 0", count)
	}
}

func TestInitiatePaymentRejectsActivePayment(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	listing := seedListing(t, db, 100)
	gw := &fakeGateway{}
	svc := NewBookingService(db, gw)

	start, end := dates(t, "2026-09-01", "2026-09-02")
	result, err := svc.Create(context.Background(), user, CreateBookingInput{
		ListingID: listing.ID, StartDate: start, EndDate: end,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for _, status := range []string{models.PaymentStatusPending, models.PaymentStatusCompleted} {
		db.Model(&models.Payment{}).
			Where("booking_reference = ?", result.Booking.ReferenceCode).
			Update("status", status)

		_, err = svc.InitiatePayment(context.Background(), user, result.Booking.ID)
		if !errors.Is(err, ErrPaymentAlreadyInitiated) {
			t.Errorf("status %s: want ErrPaymentAlreadyInitiated, got %v", status, err)
		}
	}
}

func TestInitiatePaymentAfterFailure(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	listing := seedListing(t, db, 100)
	gw := &fakeGateway{}
	svc := NewBookingService(db, gw)

	start, end := dates(t, "2026-09-01", "2026-09-02")
	result, err := svc.Create(context.Background(), user, CreateBookingInput{
		ListingID: listing.ID, StartDate: start, EndDate: end,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	ref := result.Booking.ReferenceCode

	// first attempt failed; a retry is allowed and gets a fresh tx_ref
	db.Model(&models.Payment{}).
		Where("booking_reference = ?", ref).
		Update("status", models.PaymentStatusFailed)

	retry, err := svc.InitiatePayment(context.Background(), user, result.Booking.ID)
	if err != nil {
		t.Fatalf("InitiatePayment: %v", err)
	}
	if retry.CheckoutURL == "" {
		t.Error("no checkout URL on retry")
	}

	wantRef := fmt.Sprintf("%s-2", ref)
	if got := gw.InitiateCalls[len(gw.InitiateCalls)-1].TxRef; got != wantRef {
		t.Errorf("retry tx_ref = %q, want %q", got, wantRef)
	}

	var count int64
	db.Model(&models.Payment{}).Where("booking_reference = ?", ref).Count(&count)
	if count != 2 {
		t.Errorf("payments for booking = %d, want 2", count)
	}
}

func TestInitiatePaymentConfirmedBooking(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	listing := seedListing(t, db, 100)
	svc := NewBookingService(db, &fakeGateway{})

	booking := models.Booking{
		ReferenceCode: "BK-done",
		UserID:        user.ID,
		ListingID:     listing.ID,
		Status:        models.BookingStatusConfirmed,
	}
	if err := db.Create(&booking).Error; err != nil {
		t.Fatal(err)
	}

	_, err := svc.InitiatePayment(context.Background(), user, booking.ID)
	if !errors.Is(err, ErrBookingNotPending) {
		t.Fatalf("want ErrBookingNotPending, got %v", err)
	}
}
