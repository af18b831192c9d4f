package usecase

import (
	"context"
	"time"

	"rental-booking/internal/data/entity"

	"github.com/google/uuid"
)

// Notifier hands status-change intents to the notification service.
type Notifier interface {
	Notify(ctx context.Context, intent entity.NotificationIntent) error
}

type ChargeRequest struct {
	ReservationID   uuid.UUID
	ReservationCode string
	Amount          entity.Money
	Method          string
	Token           string
}

type ChargeResult struct {
	TransactionID string
	Method        string
	PaidAt        time.Time
}

// PaymentGateway charges a guest synchronously for instant bookings. Void
// releases a charge whose reservation never committed.
type PaymentGateway interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
	Void(ctx context.Context, transactionID string) error
}
