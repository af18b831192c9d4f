package request

import (
	"time"

	"rental-booking/internal/data/entity"
)

// StayDates is shared by every request that names a stay; dates are YYYY-MM-DD.
type StayDates struct {
	CheckIn  string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut string `json:"check_out" validate:"required,datetime=2006-01-02"`
}

type Occupancy struct {
	Adults   int `json:"adults" validate:"required,min=1"`
	Children int `json:"children" validate:"min=0"`
	Infants  int `json:"infants" validate:"min=0"`
}

type CreateReservationRequest struct {
	PropertyID string `json:"property_id" validate:"required,uuid4"`
	StayDates
	Occupancy
}

type InstantReservationRequest struct {
	CreateReservationRequest
	PaymentMethod string `json:"payment_method" validate:"required,oneof=card pix boleto"`
	PaymentToken  string `json:"payment_token" validate:"required,max=255"`
}

type RescheduleReservationRequest struct {
	StayDates
}

type CancelReservationRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

// PaymentConfirmationRequest is posted by the payment provider once a charge settles.
type PaymentConfirmationRequest struct {
	ReservationID string       `json:"reservation_id" validate:"required,uuid4"`
	AmountPaid    entity.Money `json:"amount_paid" validate:"gt=0"`
	TransactionID string       `json:"transaction_id" validate:"required,max=128"`
	Method        string       `json:"method" validate:"omitempty,max=32"`
	PaidAt        *time.Time   `json:"paid_at" validate:"required"`
}
