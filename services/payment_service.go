package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"travel-backend/models"
	"travel-backend/tasks"
)

var ErrPaymentNotFound = errors.New("payment_not_found")

// PaymentService reconciles gateway verification results with the local
// Payment and Booking rows.
type PaymentService struct {
	DB      *gorm.DB
	Gateway PaymentGateway
	Queue   tasks.Queue
}

func NewPaymentService(db *gorm.DB, gateway PaymentGateway, queue tasks.Queue) *PaymentService {
	return &PaymentService{DB: db, Gateway: gateway, Queue: queue}
}

// VerifyOutcome reports what the reconciliation did.
type VerifyOutcome struct {
	Succeeded bool
	Payment   models.Payment
	Booking   *models.Booking
}

// VerifyTransaction asks the gateway about txRef and applies the result:
// nested success moves the Payment to Completed and the referenced Booking
// to confirmed; anything else moves the Payment to Failed and leaves the
// Booking alone. An unknown reference does no writes — the remote result is
// discarded in that case.
func (s *PaymentService) VerifyTransaction(ctx context.Context, txRef string) (*VerifyOutcome, error) {
	resp, err := s.Gateway.Verify(ctx, txRef)
	if err != nil {
		return nil, fmt.Errorf("gateway verify failed: %w", err)
	}

	var payment models.Payment
	if err := s.DB.Where("transaction_ref = ?", txRef).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}

	if resp.Status == "success" && resp.DataStatus() == "success" {
		payment.Status = models.PaymentStatusCompleted
		if err := s.DB.Save(&payment).Error; err != nil {
			return nil, fmt.Errorf("failed to update payment: %w", err)
		}

		var booking models.Booking
		err := s.DB.Preload("Listing").Preload("User").
			Where("reference_code = ?", payment.BookingReference).
			First(&booking).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrBookingNotFound
			}
			return nil, fmt.Errorf("failed to load booking: %w", err)
		}

		booking.Status = models.BookingStatusConfirmed
		if err := s.DB.Save(&booking).Error; err != nil {
			return nil, fmt.Errorf("failed to update booking: %w", err)
		}

		s.enqueueConfirmationEmail(ctx, booking)

		return &VerifyOutcome{Succeeded: true, Payment: payment, Booking: &booking}, nil
	}

	payment.Status = models.PaymentStatusFailed
	if err := s.DB.Save(&payment).Error; err != nil {
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}
	return &VerifyOutcome{Succeeded: false, Payment: payment}, nil
}

func (s *PaymentService) enqueueConfirmationEmail(ctx context.Context, booking models.Booking) {
	if s.Queue == nil {
		return
	}
	task, err := tasks.NewBookingConfirmationTask(tasks.BookingConfirmationPayload{
		Email:            booking.User.Email,
		BookingReference: booking.ReferenceCode,
		FirstName:        booking.User.FirstName,
		ListingTitle:     booking.Listing.Title,
		StartDate:        booking.StartDate,
		EndDate:          booking.EndDate,
	})
	if err != nil {
		log.Printf("failed to build confirmation email task for %s: %v", booking.ReferenceCode, err)
		return
	}
	if _, err := s.Queue.Enqueue(ctx, task); err != nil {
		// fire and forget: a lost email never fails the verification
		log.Printf("failed to enqueue confirmation email for %s: %v", booking.ReferenceCode, err)
	}
}

// ListForUser returns the caller's payments, newest first.
func (s *PaymentService) ListForUser(userID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}
