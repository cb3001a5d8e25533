package billing

import (
	"time"

	"github.com/google/uuid"
)

// Payment statuses.
const (
	StatusPending  = "pending"
	StatusPaid     = "paid"
	StatusRefunded = "refunded"
	StatusVoided   = "voided"
)

// Payment maps to the payments table. A pending payment is created in the
// same transaction as its appointment; processing it is out of scope.
type Payment struct {
	ID            uuid.UUID `db:"id" json:"id"`
	AppointmentID uuid.UUID `db:"appointment_id" json:"appointment_id"`
	Amount        float64   `db:"amount" json:"amount"`
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// allowedTransitions holds the payment status machine. Refunds only follow
// paid; voiding only applies to money never taken.
var allowedTransitions = map[string][]string{
	StatusPending:  {StatusPaid, StatusVoided},
	StatusPaid:     {StatusRefunded},
	StatusRefunded: {},
	StatusVoided:   {},
}

// CanTransition reports whether a payment may move from one status to
// another.
func CanTransition(from, to string) bool {
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is a known payment status.
func ValidStatus(s string) bool {
	_, ok := allowedTransitions[s]
	return ok
}
