package usecase

import (
	"rental-booking/internal/data/repository"
	"rental-booking/pkg/utils"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "rental-booking/usecase"

type Service struct {
	User        UserService
	Property    PropertyService
	Reservation ReservationService
	Review      ReviewService
}

// Collaborators are the outside systems the services talk to.
type Collaborators struct {
	Clock    utils.Clock
	Gateway  PaymentGateway
	Notifier Notifier
	// Tracing falls back to the global provider when nil
	Tracing trace.TracerProvider
}

func NewService(repo *repository.Repository, config *utils.Config, deps Collaborators, log *zap.Logger) *Service {
	tracing := deps.Tracing
	if tracing == nil {
		tracing = otel.GetTracerProvider()
	}
	tracer := tracing.Tracer(tracerName)

	return &Service{
		User:        NewUserService(repo.User, log),
		Property:    NewPropertyService(repo, log),
		Reservation: NewReservationService(repo, config.Booking, deps.Clock, deps.Gateway, deps.Notifier, tracer, log),
		Review:      NewReviewService(repo, deps.Clock, log),
	}
}
