package entity

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// Payment is one confirmation event received for a reservation.
type Payment struct {
	BaseSimple
	ReservationID uuid.UUID `db:"reservation_id"`
	Amount        Money     `db:"amount_cents"`
	Method        string    `db:"method"`
	TransactionID string    `db:"transaction_id"`
	PaidAt        time.Time `db:"paid_at"`
}
