package request

type AvailabilityRequest struct {
	StayDates
}

type QuoteRequest struct {
	StayDates
	Occupancy
}

type MultiAvailabilityRequest struct {
	PropertyIDs []string `json:"property_ids" validate:"required,min=1,max=50,dive,uuid4"`
	StayDates
	Adults int `json:"adults" validate:"required,min=1"`
}
