package models

import (
	"time"

	"gorm.io/gorm"
)

// Booking status values. A booking starts out pending and is flipped to
// confirmed only by payment verification.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
)

type Booking struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// ReferenceCode doubles as the payment transaction reference (tx_ref)
	// handed to the gateway on initiation.
	ReferenceCode string `gorm:"column:reference_code;size:64;uniqueIndex;not null" json:"reference_code"`

	UserID    uint `gorm:"column:user_id;index;not null" json:"user_id"`
	ListingID uint `gorm:"column:listing_id;index;not null" json:"listing_id"`

	StartDate  time.Time `gorm:"column:start_date" json:"start_date"`
	EndDate    time.Time `gorm:"column:end_date" json:"end_date"`
	TotalPrice float64   `gorm:"column:total_price;type:decimal(10,2)" json:"total_price"`
	Status     string    `gorm:"column:status;size:32;default:'pending'" json:"status"`

	User    User    `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	Listing Listing `gorm:"foreignKey:ListingID;references:ID" json:"listing,omitempty"`
}
