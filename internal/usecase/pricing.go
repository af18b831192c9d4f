package usecase

import (
	"fmt"
	"time"

	"rental-booking/internal/data/entity"
	"rental-booking/pkg/utils"
)

// ComputePrice prices a stay at the property's current rates. Fees are copied
// as is; the security deposit is reported but never part of the total.
func ComputePrice(property *entity.Property, checkIn, checkOut time.Time) (entity.PriceBreakdown, error) {
	if err := validateStayRange(checkIn, checkOut); err != nil {
		return entity.PriceBreakdown{}, err
	}

	nights := utils.DaysBetween(checkIn, checkOut)
	minNights := max(property.MinNights, 1)
	if nights < minNights {
		return entity.PriceBreakdown{}, fmt.Errorf("%w: %d night(s) requested, minimum is %d", ErrBelowMinNights, nights, minNights)
	}
	if property.MaxNights > 0 && nights > property.MaxNights {
		return entity.PriceBreakdown{}, fmt.Errorf("%w: %d night(s) requested, maximum is %d", ErrAboveMaxNights, nights, property.MaxNights)
	}

	subtotal := property.PricePerNight.Times(nights)
	return entity.PriceBreakdown{
		Nights:          nights,
		PricePerNight:   property.PricePerNight,
		Subtotal:        subtotal,
		CleaningFee:     property.CleaningFee,
		ServiceFee:      property.ServiceFee,
		SecurityDeposit: property.SecurityDeposit,
		Total:           subtotal + property.CleaningFee + property.ServiceFee,
	}, nil
}

// PriceFromSnapshot re-derives the breakdown from a stored reservation's frozen fields.
func PriceFromSnapshot(r *entity.Reservation) entity.PriceBreakdown {
	nights := utils.DaysBetween(r.CheckIn, r.CheckOut)
	subtotal := r.PricePerNight.Times(nights)
	return entity.PriceBreakdown{
		Nights:          nights,
		PricePerNight:   r.PricePerNight,
		Subtotal:        subtotal,
		CleaningFee:     r.CleaningFee,
		ServiceFee:      r.ServiceFee,
		SecurityDeposit: r.SecurityDeposit,
		Total:           subtotal + r.CleaningFee + r.ServiceFee,
	}
}

func validateOccupancy(property *entity.Property, adults, children, infants int) error {
	if adults < 1 || children < 0 || infants < 0 {
		return fmt.Errorf("%w: at least one adult is required", ErrValidation)
	}
	if guests := adults + children + infants; guests > property.MaxGuests {
		return fmt.Errorf("%w: %d guests requested, maximum is %d", ErrCapacityExceeded, guests, property.MaxGuests)
	}
	return nil
}
