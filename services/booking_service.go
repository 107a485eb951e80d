package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"travel-backend/models"
)

var (
	ErrListingNotFound         = errors.New("listing_not_found")
	ErrInvalidDateRange        = errors.New("invalid_date_range")
	ErrBookingNotFound         = errors.New("booking_not_found")
	ErrBookingNotPending       = errors.New("booking_not_pending")
	ErrPaymentAlreadyInitiated = errors.New("payment_already_initiated")
)

// BookingService owns the booking lifecycle: creation with payment
// initiation, re-initiation, and reads.
type BookingService struct {
	DB      *gorm.DB
	Gateway PaymentGateway
}

func NewBookingService(db *gorm.DB, gateway PaymentGateway) *BookingService {
	return &BookingService{DB: db, Gateway: gateway}
}

type CreateBookingInput struct {
	ListingID uint
	StartDate time.Time
	EndDate   time.Time
}

type CreateBookingResult struct {
	Booking     models.Booking
	CheckoutURL string
}

func newBookingReference() string {
	return "BK-" + uuid.NewString()
}

// Create persists a pending booking, then initiates payment and persists a
// Pending payment row carrying the gateway's transaction reference.
//
// When initiation fails the booking is deliberately kept: the caller gets
// the gateway's message and can retry via InitiatePayment.
func (s *BookingService) Create(ctx context.Context, user models.User, in CreateBookingInput) (*CreateBookingResult, error) {
	var listing models.Listing
	if err := s.DB.First(&listing, in.ListingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to load listing: %w", err)
	}

	nights := int(in.EndDate.Sub(in.StartDate).Hours() / 24)
	if nights < 1 {
		return nil, ErrInvalidDateRange
	}
	total := float64(nights) * listing.PricePerNight

	booking := models.Booking{
		ReferenceCode: newBookingReference(),
		UserID:        user.ID,
		ListingID:     listing.ID,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		TotalPrice:    total,
		Status:        models.BookingStatusPending,
	}
	if err := s.DB.Create(&booking).Error; err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	result, err := s.initiateAndRecord(ctx, user, booking, booking.ReferenceCode)
	if err != nil {
		// booking stays pending with no payment attached
		return nil, err
	}
	result.Booking = booking
	return result, nil
}

// InitiatePayment starts a fresh payment attempt for an existing pending
// booking. A booking with a Pending or Completed payment is rejected; only
// bookings with no payment, or only Failed ones, can re-initiate.
func (s *BookingService) InitiatePayment(ctx context.Context, user models.User, bookingID uint) (*CreateBookingResult, error) {
	var booking models.Booking
	err := s.DB.Where("id = ? AND user_id = ?", bookingID, user.ID).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if booking.Status != models.BookingStatusPending {
		return nil, ErrBookingNotPending
	}

	var active int64
	err = s.DB.Model(&models.Payment{}).
		Where("booking_reference = ? AND status IN ?", booking.ReferenceCode,
			[]string{models.PaymentStatusPending, models.PaymentStatusCompleted}).
		Count(&active).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check existing payments: %w", err)
	}
	if active > 0 {
		return nil, ErrPaymentAlreadyInitiated
	}

	// the gateway rejects reused tx_refs, so retries get a numbered one
	var attempts int64
	if err := s.DB.Model(&models.Payment{}).
		Where("booking_reference = ?", booking.ReferenceCode).
		Count(&attempts).Error; err != nil {
		return nil, fmt.Errorf("failed to count payment attempts: %w", err)
	}
	txRef := fmt.Sprintf("%s-%d", booking.ReferenceCode, attempts+1)

	result, err := s.initiateAndRecord(ctx, user, booking, txRef)
	if err != nil {
		return nil, err
	}
	result.Booking = booking
	return result, nil
}

func (s *BookingService) initiateAndRecord(ctx context.Context, user models.User, booking models.Booking, txRef string) (*CreateBookingResult, error) {
	initRes, err := s.Gateway.Initiate(ctx, InitiateRequest{
		Amount:      booking.TotalPrice,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		TxRef:       txRef,
		Title:       "Trip Booking",
		Description: fmt.Sprintf("Payment for booking %s", booking.ReferenceCode),
	})
	if err != nil {
		return nil, err
	}

	payment := models.Payment{
		UserID:           user.ID,
		BookingReference: booking.ReferenceCode,
		Amount:           booking.TotalPrice,
		TransactionRef:   initRes.TxRef,
		Status:           models.PaymentStatusPending,
	}
	if err := s.DB.Create(&payment).Error; err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	return &CreateBookingResult{CheckoutURL: initRes.CheckoutURL}, nil
}

func (s *BookingService) GetForUser(userID, bookingID uint) (models.Booking, error) {
	var booking models.Booking
	err := s.DB.Preload("Listing").
		Where("id = ? AND user_id = ?", bookingID, userID).
		First(&booking).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return booking, ErrBookingNotFound
	}
	return booking, err
}

func (s *BookingService) ListForUser(userID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.DB.Preload("Listing").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}
