package staff

import (
	"time"

	"github.com/google/uuid"
)

// Worker maps to the workers table. Position orders the roster; the
// assignment resolver breaks load ties by that order, so it is stable and
// admin-controlled.
type Worker struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Position  int       `db:"position" json:"position"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
