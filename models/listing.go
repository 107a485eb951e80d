package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Listing struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title         string  `gorm:"column:title;size:255;not null" json:"title"`
	Description   string  `gorm:"column:description;type:text" json:"description"`
	Location      string  `gorm:"column:location;size:255" json:"location"`
	PricePerNight float64 `gorm:"column:price_per_night;type:decimal(10,2)" json:"price_per_night"`

	// Free-form amenity list, e.g. ["wifi","parking"]
	Amenities datatypes.JSON `gorm:"column:amenities" json:"amenities,omitempty"`

	HostID uint `gorm:"column:host_id;index" json:"host_id"`
	Host   User `gorm:"foreignKey:HostID;references:ID" json:"host,omitempty"`
}
