package entity

import (
	"fmt"

	"github.com/google/uuid"
)

type CancellationPolicy string

const (
	PolicyFlexible CancellationPolicy = "flexible"
	PolicyModerate CancellationPolicy = "moderate"
	PolicyStrict   CancellationPolicy = "strict"
)

func (p CancellationPolicy) IsValid() bool {
	switch p {
	case PolicyFlexible, PolicyModerate, PolicyStrict:
		return true
	}
	return false
}

func ParseCancellationPolicy(s string) (CancellationPolicy, error) {
	p := CancellationPolicy(s)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid cancellation policy: %s", s)
	}
	return p, nil
}

type Property struct {
	Base
	HostID             uuid.UUID          `db:"host_id"`
	Title              string             `db:"title"`
	PricePerNight      Money              `db:"price_per_night_cents"`
	CleaningFee        Money              `db:"cleaning_fee_cents"`
	ServiceFee         Money              `db:"service_fee_cents"`
	SecurityDeposit    Money              `db:"security_deposit_cents"`
	MaxGuests          int                `db:"max_guests"`
	MinNights          int                `db:"min_nights"`
	MaxNights          int                `db:"max_nights"` // 0 = no upper bound
	CancellationPolicy CancellationPolicy `db:"cancellation_policy"`
	Rating             float64            `db:"rating"`
}
