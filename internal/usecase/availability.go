package usecase

import (
	"context"
	"fmt"
	"time"

	"rental-booking/internal/data/entity"
	"rental-booking/internal/data/repository"
	"rental-booking/pkg/utils"

	"github.com/google/uuid"
)

// AvailabilityResult is one property's answer in a batch check.
type AvailabilityResult struct {
	Available bool
	Reason    string
}

// AvailabilityChecker answers calendar questions. It never writes.
type AvailabilityChecker struct {
	repo *repository.Repository
}

func NewAvailabilityChecker(repo *repository.Repository) *AvailabilityChecker {
	return &AvailabilityChecker{repo: repo}
}

func validateStayRange(checkIn, checkOut time.Time) error {
	if checkIn.IsZero() || checkOut.IsZero() {
		return fmt.Errorf("%w: check-in and check-out are required", ErrInvalidDateRange)
	}
	if !utils.DateOnly(checkOut).After(utils.DateOnly(checkIn)) {
		return fmt.Errorf("%w: check-out must be after check-in", ErrInvalidDateRange)
	}
	return nil
}

// IsAvailable reports whether [checkIn, checkOut) is free on the property.
// excludeID (uuid.Nil for none) lets a reservation ignore itself when moving.
func (a *AvailabilityChecker) IsAvailable(ctx context.Context, propertyID uuid.UUID, checkIn, checkOut time.Time, excludeID uuid.UUID) (bool, error) {
	conflict, err := a.FindConflict(ctx, propertyID, checkIn, checkOut, excludeID)
	if err != nil {
		return false, err
	}
	return conflict == nil, nil
}

// FindConflict returns the first occupying reservation overlapping the range.
func (a *AvailabilityChecker) FindConflict(ctx context.Context, propertyID uuid.UUID, checkIn, checkOut time.Time, excludeID uuid.UUID) (*AvailabilityConflict, error) {
	if err := validateStayRange(checkIn, checkOut); err != nil {
		return nil, err
	}
	checkIn, checkOut = utils.DateOnly(checkIn), utils.DateOnly(checkOut)

	existing, err := a.repo.Reservation.FindOccupying(ctx, propertyID, checkIn, checkOut, excludeID)
	if err != nil {
		return nil, fmt.Errorf("load reservations for property %s: %w", propertyID, err)
	}

	for _, r := range existing {
		if r.ID == excludeID || !r.Status.IsOccupying() {
			continue
		}
		if r.Overlaps(checkIn, checkOut) {
			return &AvailabilityConflict{
				ReservationCode: r.ReservationCode,
				CheckIn:         r.CheckIn,
				CheckOut:        r.CheckOut,
			}, nil
		}
	}

	return nil, nil
}

// CheckMultiple evaluates each property on its own; unknown properties and
// capacity problems are reported per entry, not as an error.
func (a *AvailabilityChecker) CheckMultiple(ctx context.Context, propertyIDs []uuid.UUID, checkIn, checkOut time.Time, adults int) (map[uuid.UUID]AvailabilityResult, error) {
	if err := validateStayRange(checkIn, checkOut); err != nil {
		return nil, err
	}
	checkIn, checkOut = utils.DateOnly(checkIn), utils.DateOnly(checkOut)

	properties, err := a.repo.Property.FindByIDs(ctx, propertyIDs)
	if err != nil {
		return nil, fmt.Errorf("load properties: %w", err)
	}
	byID := make(map[uuid.UUID]*entity.Property, len(properties))
	for _, p := range properties {
		byID[p.ID] = p
	}

	existing, err := a.repo.Reservation.FindOccupyingByProperties(ctx, propertyIDs, checkIn, checkOut)
	if err != nil {
		return nil, fmt.Errorf("load reservations: %w", err)
	}
	blocked := make(map[uuid.UUID]*entity.Reservation)
	for _, r := range existing {
		if _, seen := blocked[r.PropertyID]; seen {
			continue
		}
		if r.Status.IsOccupying() && r.Overlaps(checkIn, checkOut) {
			blocked[r.PropertyID] = r
		}
	}

	results := make(map[uuid.UUID]AvailabilityResult, len(propertyIDs))
	for _, id := range propertyIDs {
		p, ok := byID[id]
		switch {
		case !ok:
			results[id] = AvailabilityResult{Reason: "property not found"}
		case adults > p.MaxGuests:
			results[id] = AvailabilityResult{Reason: fmt.Sprintf("maximum %d guests", p.MaxGuests)}
		case blocked[id] != nil:
			r := blocked[id]
			results[id] = AvailabilityResult{Reason: fmt.Sprintf("booked from %s to %s",
				utils.FormatDate(r.CheckIn), utils.FormatDate(r.CheckOut))}
		default:
			results[id] = AvailabilityResult{Available: true}
		}
	}

	return results, nil
}
