package domain

import (
	"github.com/google/uuid" // UUID generation for primary keys
	"gorm.io/gorm"           // GORM ORM library
)

// User Model
type User struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`  // Primary key (UUID)
	Email         string    `gorm:"unique;not null" json:"email"`  // Unique email
	Password      string    `gorm:"not null" json:"-"`             // Hashed password, never serialized
	Role          string    `gorm:"default:user" json:"role"`      // Role: user or admin
	EmailVerified bool      `json:"emailVerified"`                 // Email verification flag
	Addresses     []Address `json:"addresses,omitempty"`           // Saved service locations
	Orders        []Order   `json:"orders,omitempty"`              // Bookings owned by this user
}

// BeforeCreate assigns a UUID primary key when none is set
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString() // Generate a new UUID
	}
	return nil
}
