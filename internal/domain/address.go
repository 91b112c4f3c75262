package domain

import (
	"time" // Timestamps

	"github.com/google/uuid" // UUID generation for primary keys
	"gorm.io/gorm"           // GORM ORM library
)

// Address Model: a saved delivery/service location.
// At most one address per user carries IsDefault = true; the handler flips
// the previous default inside the same transaction that inserts a new one.
type Address struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"` // Primary key (UUID)
	UserID    string    `gorm:"size:36;index;not null" json:"userId"` // Owning user
	Name      string    `gorm:"not null" json:"name"`                 // Display name, e.g. "Home"
	Address   string    `gorm:"not null" json:"address"`              // Free-text address
	IsDefault bool      `json:"isDefault"`                            // Default-location flag
	CreatedAt time.Time `json:"createdAt"`                            // Creation timestamp
}

// BeforeCreate assigns a UUID primary key when none is set
func (a *Address) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString() // Generate a new UUID
	}
	return nil
}
