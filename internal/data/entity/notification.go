package entity

import (
	"time"

	"github.com/google/uuid"
)

type NotificationEvent string

const (
	EventReservationCreated     NotificationEvent = "reservation.created"
	EventReservationConfirmed   NotificationEvent = "reservation.confirmed"
	EventReservationCancelled   NotificationEvent = "reservation.cancelled"
	EventReservationRescheduled NotificationEvent = "reservation.rescheduled"
)

// NotificationIntent is emitted on every reservation status change. Delivery
// belongs to the notification service.
type NotificationIntent struct {
	ReservationID   uuid.UUID         `json:"reservation_id"`
	ReservationCode string            `json:"reservation_code"`
	GuestID         uuid.UUID         `json:"guest_id"`
	HostID          uuid.UUID         `json:"host_id"`
	EventType       NotificationEvent `json:"event_type"`
	OccurredAt      time.Time         `json:"occurred_at"`
}
