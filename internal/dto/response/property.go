package response

import (
	"rental-booking/internal/data/entity"
)

type PriceResponse struct {
	Nights          int          `json:"nights"`
	PricePerNight   entity.Money `json:"price_per_night"`
	Subtotal        entity.Money `json:"subtotal"`
	CleaningFee     entity.Money `json:"cleaning_fee"`
	ServiceFee      entity.Money `json:"service_fee"`
	SecurityDeposit entity.Money `json:"security_deposit"`
	Total           entity.Money `json:"total"`
}

type PropertyResponse struct {
	ID                 string                    `json:"id"`
	HostID             string                    `json:"host_id"`
	Title              string                    `json:"title"`
	PricePerNight      entity.Money              `json:"price_per_night"`
	CleaningFee        entity.Money              `json:"cleaning_fee"`
	ServiceFee         entity.Money              `json:"service_fee"`
	SecurityDeposit    entity.Money              `json:"security_deposit"`
	MaxGuests          int                       `json:"max_guests"`
	MinNights          int                       `json:"min_nights"`
	MaxNights          int                       `json:"max_nights,omitempty"`
	CancellationPolicy entity.CancellationPolicy `json:"cancellation_policy"`
	Rating             float64                   `json:"rating"`
}

type ConflictResponse struct {
	ReservationCode string `json:"reservation_code"`
	CheckIn         string `json:"check_in"`
	CheckOut        string `json:"check_out"`
}

type AvailabilityResponse struct {
	PropertyID string            `json:"property_id"`
	CheckIn    string            `json:"check_in"`
	CheckOut   string            `json:"check_out"`
	Available  bool              `json:"available"`
	Conflict   *ConflictResponse `json:"conflict,omitempty"`
}

type PropertyAvailability struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

type QuoteResponse struct {
	PropertyID string        `json:"property_id"`
	CheckIn    string        `json:"check_in"`
	CheckOut   string        `json:"check_out"`
	Guests     int           `json:"guests"`
	Available  bool          `json:"available"`
	Price      PriceResponse `json:"price"`
}

// Helper converters
func PriceToResponse(p entity.PriceBreakdown) PriceResponse {
	return PriceResponse{
		Nights:          p.Nights,
		PricePerNight:   p.PricePerNight,
		Subtotal:        p.Subtotal,
		CleaningFee:     p.CleaningFee,
		ServiceFee:      p.ServiceFee,
		SecurityDeposit: p.SecurityDeposit,
		Total:           p.Total,
	}
}

func PropertyToResponse(p *entity.Property) PropertyResponse {
	return PropertyResponse{
		ID:                 p.ID.String(),
		HostID:             p.HostID.String(),
		Title:              p.Title,
		PricePerNight:      p.PricePerNight,
		CleaningFee:        p.CleaningFee,
		ServiceFee:         p.ServiceFee,
		SecurityDeposit:    p.SecurityDeposit,
		MaxGuests:          p.MaxGuests,
		MinNights:          p.MinNights,
		MaxNights:          p.MaxNights,
		CancellationPolicy: p.CancellationPolicy,
		Rating:             p.Rating,
	}
}
