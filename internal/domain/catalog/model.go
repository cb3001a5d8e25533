package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Service maps to the services table. DurationMin drives slot math and Price
// seeds the pending payment created at booking time.
type Service struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	DurationMin int       `db:"duration_min" json:"duration_min"`
	Price       float64   `db:"price" json:"price"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
