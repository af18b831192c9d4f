package response

import (
	"time"

	"rental-booking/internal/data/entity"
)

type ReviewResponse struct {
	ID            string    `json:"id"`
	ReservationID string    `json:"reservation_id"`
	PropertyID    string    `json:"property_id"`
	UserID        string    `json:"user_id"`
	Username      string    `json:"username,omitempty"`
	Rating        int       `json:"rating"`
	Comment       *string   `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type PropertyReviewStats struct {
	PropertyID    string  `json:"property_id"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

type ReviewEligibilityResponse struct {
	ReservationID string `json:"reservation_id"`
	Eligible      bool   `json:"eligible"`
	Reason        string `json:"reason,omitempty"`
}

// Helper converter
func ReviewToResponse(review *entity.Review, username string) ReviewResponse {
	return ReviewResponse{
		ID:            review.ID.String(),
		ReservationID: review.ReservationID.String(),
		PropertyID:    review.PropertyID.String(),
		UserID:        review.UserID.String(),
		Username:      username,
		Rating:        review.Rating,
		Comment:       review.Comment,
		CreatedAt:     review.CreatedAt,
	}
}
