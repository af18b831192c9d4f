package usecase

import (
	"errors"
	"fmt"
	"time"

	"rental-booking/pkg/utils"
)

var (
	ErrInvalidDateRange        = errors.New("invalid date range")
	ErrBelowMinNights          = errors.New("stay is shorter than the minimum nights")
	ErrAboveMaxNights          = errors.New("stay is longer than the maximum nights")
	ErrCapacityExceeded        = errors.New("guest count exceeds property capacity")
	ErrNotAvailable            = errors.New("property is not available for the requested dates")
	ErrNotCancellable          = errors.New("reservation is not cancellable")
	ErrAlreadyCancelled        = errors.New("reservation is already cancelled")
	ErrIllegalStatusTransition = errors.New("illegal reservation status transition")
	ErrUnauthorized            = errors.New("requester is not allowed to act on this reservation")
	ErrNotFound                = errors.New("not found")
	ErrValidation              = errors.New("validation failed")
	ErrPaymentMismatch         = errors.New("payment does not match reservation total")
	ErrPaymentFailed           = errors.New("payment was declined")
	ErrAlreadyReviewed         = errors.New("reservation already reviewed")
	ErrNotEligibleForReview    = errors.New("reservation is not eligible for review")
	ErrCodeGeneration          = errors.New("could not generate a unique reservation code")
)

// ErrDatesNoLongerAvailable is the losing side of a concurrent booking race.
// It matches ErrNotAvailable too.
var ErrDatesNoLongerAvailable = fmt.Errorf("%w: dates no longer available", ErrNotAvailable)

// AvailabilityConflict names the reservation blocking a requested stay.
type AvailabilityConflict struct {
	ReservationCode string
	CheckIn         time.Time
	CheckOut        time.Time
}

func (c *AvailabilityConflict) Error() string {
	return fmt.Sprintf("%s: conflicts with %s (%s to %s)", ErrNotAvailable,
		c.ReservationCode, utils.FormatDate(c.CheckIn), utils.FormatDate(c.CheckOut))
}

func (c *AvailabilityConflict) Unwrap() error {
	return ErrNotAvailable
}

// ValidationError carries field messages from request validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation, utils.FormatValidationErrors(e.Fields))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func validationFailed(fields map[string]string) error {
	return &ValidationError{Fields: fields}
}

// errorKinds is ordered so the most specific kind wins.
var errorKinds = []struct {
	err  error
	kind string
}{
	{ErrDatesNoLongerAvailable, "DatesNoLongerAvailable"},
	{ErrInvalidDateRange, "InvalidDateRange"},
	{ErrBelowMinNights, "BelowMinNights"},
	{ErrAboveMaxNights, "AboveMaxNights"},
	{ErrCapacityExceeded, "CapacityExceeded"},
	{ErrNotAvailable, "NotAvailable"},
	{ErrNotCancellable, "NotCancellable"},
	{ErrAlreadyCancelled, "AlreadyCancelled"},
	{ErrIllegalStatusTransition, "IllegalStatusTransition"},
	{ErrUnauthorized, "Unauthorized"},
	{ErrNotFound, "NotFound"},
	{ErrValidation, "Validation"},
	{ErrPaymentMismatch, "PaymentMismatch"},
	{ErrPaymentFailed, "PaymentFailed"},
	{ErrAlreadyReviewed, "AlreadyReviewed"},
	{ErrNotEligibleForReview, "NotEligibleForReview"},
}

// ErrorKind returns the taxonomy name of err, or "" for unexpected errors.
func ErrorKind(err error) string {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return ""
}
