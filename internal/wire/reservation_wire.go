package wire

import (
	"rental-booking/internal/adaptor"
	"rental-booking/internal/data/repository"
	"rental-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReservation(
	r chi.Router,
	reservationHandler *adaptor.ReservationHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		// POST /api/reservations - Create a pending reservation
		r.Post("/api/reservations", reservationHandler.CreateReservation)

		// POST /api/reservations/instant - Create, charge and confirm in one step
		r.Post("/api/reservations/instant", reservationHandler.CreateInstantReservation)

		// GET /api/reservations/{id} - Guest or host of the reservation
		r.Get("/api/reservations/{id}", reservationHandler.GetReservation)

		// PUT /api/reservations/{id}/confirm - Host accepts the request
		r.Put("/api/reservations/{id}/confirm", reservationHandler.ConfirmReservation)

		// PUT /api/reservations/{id}/cancel - Guest or host cancels
		r.Put("/api/reservations/{id}/cancel", reservationHandler.CancelReservation)

		// PUT /api/reservations/{id}/dates - Guest moves a pending stay
		r.Put("/api/reservations/{id}/dates", reservationHandler.RescheduleReservation)

		// GET /api/user/reservations - Reservation history of the current guest
		r.Get("/api/user/reservations", reservationHandler.GetUserReservations)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/reservations", func(r chi.Router) {
		// Require both authentication AND admin role
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Admin(log))

		// DELETE /api/admin/reservations/{id} - Archive a finished or cancelled reservation
		r.Delete("/{id}", reservationHandler.ArchiveReservation)
	})
}
