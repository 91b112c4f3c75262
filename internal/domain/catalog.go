package domain

import (
	"time" // Timestamps

	"github.com/google/uuid" // UUID generation for primary keys
	"gorm.io/gorm"           // GORM ORM library
)

// ServiceCategory Model: grouping of purchasable services
type ServiceCategory struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"` // Primary key (UUID)
	Name        string    `gorm:"unique;not null" json:"name"`  // Unique category name
	Description string    `gorm:"not null" json:"description"`  // Category description
	ImageURL    *string   `json:"imageURL"`                     // Optional image reference
	Services    []Service `json:"services,omitempty"`           // Services in this category
	CreatedAt   time.Time `json:"createdAt"`                    // Creation timestamp
}

// BeforeCreate assigns a UUID primary key when none is set
func (sc *ServiceCategory) BeforeCreate(tx *gorm.DB) error {
	if sc.ID == "" {
		sc.ID = uuid.NewString() // Generate a new UUID
	}
	return nil
}

// Service Model: a purchasable unit of work belonging to one category
type Service struct {
	ID                string          `gorm:"primaryKey;size:36" json:"id"`                 // Primary key (UUID)
	Name              string          `gorm:"unique;not null" json:"name"`                  // Unique service name
	Description       string          `gorm:"not null" json:"description"`                  // Service description
	Amount            float64         `gorm:"not null;default:0" json:"amount"`             // Unit price, non-negative
	ImageURL          *string         `json:"imageURL"`                                     // Optional image reference
	ServiceCategoryID string          `gorm:"size:36;index;not null" json:"serviceCategoryId"` // Owning category
	ServiceCategory   ServiceCategory `json:"serviceCategory"`                              // Category relation
	CreatedAt         time.Time       `json:"createdAt"`                                    // Creation timestamp
}

// BeforeCreate assigns a UUID primary key when none is set
func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString() // Generate a new UUID
	}
	return nil
}
