package entity

import (
	"fmt"
	"time"

	"rental-booking/pkg/utils"

	"github.com/google/uuid"
)

// ReservationStatus ids match the reservation_statuses lookup table.
type ReservationStatus int16

const (
	StatusPending    ReservationStatus = 1
	StatusConfirmed  ReservationStatus = 2
	StatusInProgress ReservationStatus = 3
	StatusCompleted  ReservationStatus = 4
	StatusCancelled  ReservationStatus = 5
)

var statusNames = map[ReservationStatus]string{
	StatusPending:    "pending",
	StatusConfirmed:  "confirmed",
	StatusInProgress: "in_progress",
	StatusCompleted:  "completed",
	StatusCancelled:  "cancelled",
}

var validTransitions = map[ReservationStatus][]ReservationStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// OccupyingStatuses block the calendar; cancelled and completed stays do not.
var OccupyingStatuses = []ReservationStatus{StatusPending, StatusConfirmed, StatusInProgress}

func (s ReservationStatus) IsValid() bool {
	_, ok := statusNames[s]
	return ok
}

func (s ReservationStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int16(s))
}

func (s ReservationStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s ReservationStatus) CanTransitionTo(target ReservationStatus) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

func (s ReservationStatus) CanBeCancelled() bool {
	return s.CanTransitionTo(StatusCancelled)
}

func (s ReservationStatus) IsOccupying() bool {
	for _, o := range OccupyingStatuses {
		if s == o {
			return true
		}
	}
	return false
}

type CancelInitiator string

const (
	CancelledByGuest CancelInitiator = "guest"
	CancelledByHost  CancelInitiator = "host"
)

type Reservation struct {
	Base
	ReservationCode string    `db:"reservation_code"`
	PropertyID      uuid.UUID `db:"property_id"`
	GuestID         uuid.UUID `db:"guest_id"`

	CheckIn  time.Time `db:"check_in"`
	CheckOut time.Time `db:"check_out"`
	Nights   int       `db:"nights"`

	Adults   int `db:"adults"`
	Children int `db:"children"`
	Infants  int `db:"infants"`

	// Pricing snapshot, frozen when the reservation is created.
	PricePerNight      Money              `db:"price_per_night_cents"`
	CleaningFee        Money              `db:"cleaning_fee_cents"`
	ServiceFee         Money              `db:"service_fee_cents"`
	SecurityDeposit    Money              `db:"security_deposit_cents"`
	Subtotal           Money              `db:"subtotal_cents"`
	TotalAmount        Money              `db:"total_amount_cents"`
	CancellationPolicy CancellationPolicy `db:"cancellation_policy"`

	AmountPaid    Money         `db:"amount_paid_cents"`
	PaymentStatus PaymentStatus `db:"payment_status"`
	PaymentDate   *time.Time    `db:"payment_date"`
	TransactionID *string       `db:"transaction_id"`

	Status             ReservationStatus `db:"status_id"`
	ConfirmedAt        *time.Time        `db:"confirmed_at"`
	CancelledAt        *time.Time        `db:"cancelled_at"`
	CancellationReason *string           `db:"cancellation_reason"`
	CancelledBy        *CancelInitiator  `db:"cancelled_by"`
	RefundPercent      int               `db:"refund_percent"`
	RefundAmount       Money             `db:"refund_amount_cents"`
}

func (r *Reservation) Guests() int {
	return r.Adults + r.Children + r.Infants
}

// SetDates moves the stay and recomputes nights and totals from the frozen
// nightly price.
func (r *Reservation) SetDates(checkIn, checkOut time.Time) {
	r.CheckIn = utils.DateOnly(checkIn)
	r.CheckOut = utils.DateOnly(checkOut)
	r.Nights = utils.DaysBetween(r.CheckIn, r.CheckOut)
	r.Subtotal = r.PricePerNight.Times(r.Nights)
	r.TotalAmount = r.Subtotal + r.CleaningFee + r.ServiceFee
}

// Overlaps reports whether [checkIn, checkOut) intersects the stay.
// Touching ranges (one check-out equal to the other check-in) do not overlap.
func (r *Reservation) Overlaps(checkIn, checkOut time.Time) bool {
	return checkIn.Before(r.CheckOut) && checkOut.After(r.CheckIn)
}

// EffectiveStatus derives in-progress and completed from the calendar for
// confirmed stays; stored statuses are returned as is otherwise.
func (r *Reservation) EffectiveStatus(now time.Time) ReservationStatus {
	today := utils.DateOnly(now)
	switch r.Status {
	case StatusConfirmed, StatusInProgress:
		if !today.Before(r.CheckOut) {
			return StatusCompleted
		}
		if !today.Before(r.CheckIn) {
			return StatusInProgress
		}
	}
	return r.Status
}

func (r *Reservation) IsUpcoming(now time.Time) bool {
	return utils.DateOnly(now).Before(r.CheckIn)
}

func (r *Reservation) IsCurrent(now time.Time) bool {
	today := utils.DateOnly(now)
	return !today.Before(r.CheckIn) && today.Before(r.CheckOut)
}

func (r *Reservation) IsPast(now time.Time) bool {
	return !utils.DateOnly(now).Before(r.CheckOut)
}
