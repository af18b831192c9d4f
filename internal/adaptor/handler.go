package adaptor

import (
	"rental-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	User        *UserHandler
	Property    *PropertyHandler
	Reservation *ReservationHandler
	Payment     *PaymentHandler
	Review      *ReviewHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		User:        NewUserHandler(service.User, log),
		Property:    NewPropertyHandler(service.Property, log),
		Reservation: NewReservationHandler(service.Reservation, log),
		Payment:     NewPaymentHandler(service.Reservation, log),
		Review:      NewReviewHandler(service.Review, log),
	}
}
