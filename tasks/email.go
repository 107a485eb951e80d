package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"travel-backend/utils"
)

const TypeBookingConfirmationEmail = "booking_confirmation_email"

// BookingConfirmationPayload is everything the confirmation email needs.
type BookingConfirmationPayload struct {
	Email            string    `json:"email"`
	BookingReference string    `json:"booking_reference"`
	FirstName        string    `json:"first_name"`
	ListingTitle     string    `json:"listing_title"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
}

func NewBookingConfirmationTask(p BookingConfirmationPayload) (Task, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return Task{}, err
	}
	return Task{Type: TypeBookingConfirmationEmail, Payload: b}, nil
}

// HandleEmailTask dispatches email tasks to the SMTP mailer.
func HandleEmailTask(_ context.Context, task Task) error {
	switch task.Type {
	case TypeBookingConfirmationEmail:
		var p BookingConfirmationPayload
		if err := json.Unmarshal(task.Payload, &p); err != nil {
			return fmt.Errorf("bad payload for %s: %w", task.Type, err)
		}
		return utils.SendBookingConfirmationEmail(
			p.Email, p.BookingReference, p.FirstName, p.ListingTitle, p.StartDate, p.EndDate,
		)
	default:
		return fmt.Errorf("unknown task type %q", task.Type)
	}
}
