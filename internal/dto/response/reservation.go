package response

import (
	"time"

	"rental-booking/internal/data/entity"
	"rental-booking/pkg/utils"
)

type ReservationResponse struct {
	ID              string `json:"id"`
	ReservationCode string `json:"reservation_code"`
	PropertyID      string `json:"property_id"`
	GuestID         string `json:"guest_id"`
	CheckIn         string `json:"check_in"`
	CheckOut        string `json:"check_out"`
	Adults          int    `json:"adults"`
	Children        int    `json:"children"`
	Infants         int    `json:"infants"`

	Price              PriceResponse             `json:"price"`
	CancellationPolicy entity.CancellationPolicy `json:"cancellation_policy"`

	PaymentStatus entity.PaymentStatus `json:"payment_status"`
	AmountPaid    entity.Money         `json:"amount_paid"`
	PaymentDate   *time.Time           `json:"payment_date,omitempty"`
	TransactionID *string              `json:"transaction_id,omitempty"`

	// Status is the stored status; EffectiveStatus also reflects the calendar.
	Status             entity.ReservationStatus `json:"status"`
	EffectiveStatus    entity.ReservationStatus `json:"effective_status"`
	ConfirmedAt        *time.Time               `json:"confirmed_at,omitempty"`
	CancelledAt        *time.Time               `json:"cancelled_at,omitempty"`
	CancellationReason *string                  `json:"cancellation_reason,omitempty"`
	CancelledBy        *entity.CancelInitiator  `json:"cancelled_by,omitempty"`
	RefundPercent      int                      `json:"refund_percent"`
	RefundAmount       entity.Money             `json:"refund_amount"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CancellationResponse struct {
	ReservationID string                   `json:"reservation_id"`
	NewStatus     entity.ReservationStatus `json:"new_status"`
	RefundPercent int                      `json:"refund_percent"`
	RefundAmount  entity.Money             `json:"refund_amount"`
}

// Helper converters
func ReservationToResponse(r *entity.Reservation, now time.Time) ReservationResponse {
	return ReservationResponse{
		ID:              r.ID.String(),
		ReservationCode: r.ReservationCode,
		PropertyID:      r.PropertyID.String(),
		GuestID:         r.GuestID.String(),
		CheckIn:         utils.FormatDate(r.CheckIn),
		CheckOut:        utils.FormatDate(r.CheckOut),
		Adults:          r.Adults,
		Children:        r.Children,
		Infants:         r.Infants,
		Price: PriceResponse{
			Nights:          r.Nights,
			PricePerNight:   r.PricePerNight,
			Subtotal:        r.Subtotal,
			CleaningFee:     r.CleaningFee,
			ServiceFee:      r.ServiceFee,
			SecurityDeposit: r.SecurityDeposit,
			Total:           r.TotalAmount,
		},
		CancellationPolicy: r.CancellationPolicy,
		PaymentStatus:      r.PaymentStatus,
		AmountPaid:         r.AmountPaid,
		PaymentDate:        r.PaymentDate,
		TransactionID:      r.TransactionID,
		Status:             r.Status,
		EffectiveStatus:    r.EffectiveStatus(now),
		ConfirmedAt:        r.ConfirmedAt,
		CancelledAt:        r.CancelledAt,
		CancellationReason: r.CancellationReason,
		CancelledBy:        r.CancelledBy,
		RefundPercent:      r.RefundPercent,
		RefundAmount:       r.RefundAmount,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

func CancellationToResponse(r *entity.Reservation) CancellationResponse {
	return CancellationResponse{
		ReservationID: r.ID.String(),
		NewStatus:     r.Status,
		RefundPercent: r.RefundPercent,
		RefundAmount:  r.RefundAmount,
	}
}
