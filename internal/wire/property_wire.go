package wire

import (
	"rental-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireProperty exposes the public catalogue: detail, calendar, quotes and reviews
func wireProperty(
	r chi.Router,
	propertyHandler *adaptor.PropertyHandler,
	reviewHandler *adaptor.ReviewHandler,
	log *zap.Logger,
) {
	log.Debug("Wiring property routes")

	// ==================== PUBLIC ROUTES ====================
	r.Route("/api/properties", func(r chi.Router) {
		// POST /api/properties/availability - batch availability for up to 50 properties
		r.Post("/availability", propertyHandler.CheckMultipleAvailability)

		r.Get("/{id}", propertyHandler.GetProperty)
		r.Get("/{id}/availability", propertyHandler.CheckAvailability) // ?check_in=&check_out=
		r.Get("/{id}/quote", propertyHandler.GetQuote)
		r.Get("/{id}/reviews", reviewHandler.GetPropertyReviews) // ?page=1&per_page=10
		r.Get("/{id}/review-stats", reviewHandler.GetPropertyReviewStats)
	})
}
