package domain

import (
	"time" // Timestamps

	"github.com/google/uuid" // UUID generation for primary keys
	"gorm.io/gorm"           // GORM ORM library
)

// Order status lifecycle: PENDING is the initial state, COMPLETED and
// CANCELLED are terminal. Advancement to BOOKED/COMPLETED happens outside
// this service; the API only creates orders and reschedules them.
const (
	OrderStatusPending   = "PENDING"   // Initial status
	OrderStatusBooked    = "BOOKED"    // Confirmed by an operator
	OrderStatusCompleted = "COMPLETED" // Work finished, terminal
	OrderStatusCancelled = "CANCELLED" // Called off, terminal
)

// ValidOrderStatus reports whether s is one of the known lifecycle states
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusBooked, OrderStatusCompleted, OrderStatusCancelled:
		return true // Known status
	}
	return false // Anything else is rejected
}

// Order Model: one booking transaction owned by a single user
type Order struct {
	ID            string         `gorm:"primaryKey;size:36" json:"id"`          // Primary key (UUID)
	UserID        string         `gorm:"size:36;index;not null" json:"userId"`  // Owning user, immutable after creation
	Address       string         `gorm:"not null" json:"address"`               // Service address, denormalized at booking time
	Date          time.Time      `gorm:"not null" json:"date"`                  // Service date
	Time          string         `gorm:"not null" json:"time"`                  // Free-text slot label, e.g. "10:00 AM"
	Status        string         `gorm:"default:PENDING" json:"status"`         // Lifecycle status
	Description   *string        `json:"description"`                           // Optional booking notes
	OrderServices []OrderService `json:"orderServices,omitempty"`               // Line items
	Booking       *Booking       `json:"booking,omitempty"`                     // Lower-level schedule record
	CreatedAt     time.Time      `json:"createdAt"`                             // Creation timestamp
}

// BeforeCreate assigns a UUID primary key when none is set
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString() // Generate a new UUID
	}
	return nil
}

// CanReschedule reports whether the order's current status still allows a
// date/time change. Only PENDING and BOOKED orders may move.
func (o *Order) CanReschedule() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusBooked
}

// OrderService Model: a line item linking an Order to a catalog Service
type OrderService struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`          // Primary key (UUID)
	OrderID   string    `gorm:"size:36;index;not null" json:"orderId"` // Parent order
	ServiceID string    `gorm:"size:36;index;not null" json:"serviceId"` // Referenced catalog service
	Units     int       `gorm:"not null" json:"units"`                 // Quantity, positive
	Cost      float64   `gorm:"not null" json:"cost"`                  // Total price for this line, caller-supplied
	Service   Service   `json:"service"`                               // Service relation
	CreatedAt time.Time `json:"createdAt"`                             // Creation timestamp
}

// BeforeCreate assigns a UUID primary key when none is set
func (os *OrderService) BeforeCreate(tx *gorm.DB) error {
	if os.ID == "" {
		os.ID = uuid.NewString() // Generate a new UUID
	}
	return nil
}

// Booking Model: the schedule record kept alongside an order; its timestamp
// is updated in the same transaction as a reschedule
type Booking struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`               // Primary key (UUID)
	OrderID     string    `gorm:"size:36;uniqueIndex;not null" json:"orderId"` // Parent order, one booking per order
	ScheduledAt time.Time `gorm:"not null" json:"scheduledAt"`                // Scheduled service timestamp
	CreatedAt   time.Time `json:"createdAt"`                                  // Creation timestamp
}

// BeforeCreate assigns a UUID primary key when none is set
func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString() // Generate a new UUID
	}
	return nil
}
