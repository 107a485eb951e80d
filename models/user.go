package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Email     string `gorm:"column:email;size:255;uniqueIndex;not null" json:"email"`
	FirstName string `gorm:"column:first_name;size:128" json:"first_name"`
	LastName  string `gorm:"column:last_name;size:128" json:"last_name"`
	Password  string `gorm:"column:password;size:255" json:"-"`
	Role      string `gorm:"column:role;size:32;default:'user'" json:"role"`
}
