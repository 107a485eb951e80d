package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment status values as stored. A payment is created Pending right after
// gateway initiation and transitioned exactly once by verification.
const (
	PaymentStatusPending   = "Pending"
	PaymentStatusCompleted = "Completed"
	PaymentStatusFailed    = "Failed"
)

type Payment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID uint `gorm:"column:user_id;index" json:"user_id"`

	// BookingReference links back to Booking.ReferenceCode by value; the
	// schema does not enforce the FK.
	BookingReference string  `gorm:"column:booking_reference;size:64;index;not null" json:"booking_reference"`
	Amount           float64 `gorm:"column:amount;type:decimal(10,2)" json:"amount"`

	// TransactionRef is the gateway's reference. Usually equal to the
	// booking reference we submitted, but the gateway's echo wins.
	TransactionRef string `gorm:"column:transaction_ref;size:128;uniqueIndex;not null" json:"transaction_ref"`
	Status         string `gorm:"column:status;size:32;default:'Pending'" json:"status"`

	User User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}
