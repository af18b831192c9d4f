package request

type CreateReviewRequest struct {
	ReservationID string  `json:"reservation_id" validate:"required,uuid4"`
	Rating        int     `json:"rating" validate:"required,min=1,max=5"`
	Comment       *string `json:"comment,omitempty" validate:"omitempty,max=500"`
}
