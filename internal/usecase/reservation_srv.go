package usecase

import (
	"context"
	"fmt"
	"time"

	"rental-booking/internal/data/entity"
	"rental-booking/internal/data/repository"
	"rental-booking/internal/dto/request"
	"rental-booking/internal/dto/response"
	"rental-booking/pkg/utils"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ReservationService interface {
	// Guest endpoints
	CreateReservation(ctx context.Context, guestID string, req *request.CreateReservationRequest) (*response.ReservationResponse, error)
	CreateWithInstantPayment(ctx context.Context, guestID string, req *request.InstantReservationRequest) (*response.ReservationResponse, error)
	RescheduleReservation(ctx context.Context, reservationID, requesterID string, req *request.RescheduleReservationRequest) (*response.ReservationResponse, error)
	GetGuestReservations(ctx context.Context, guestID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReservationResponse], error)

	// Guest or host
	GetReservation(ctx context.Context, reservationID, requesterID string) (*response.ReservationResponse, error)
	CancelReservation(ctx context.Context, reservationID, requesterID string, req *request.CancelReservationRequest) (*response.CancellationResponse, error)

	// Host
	ConfirmReservation(ctx context.Context, reservationID, requesterID string) (*response.ReservationResponse, error)

	// Payment provider callback
	RecordPayment(ctx context.Context, req *request.PaymentConfirmationRequest) (*response.ReservationResponse, error)

	// Admin
	ArchiveReservation(ctx context.Context, reservationID string) error
}

type reservationService struct {
	repo     *repository.Repository
	policy   *CancellationPolicyEngine
	gateway  PaymentGateway
	notifier Notifier
	clock    utils.Clock
	config   utils.BookingConfig
	newCode  func(prefix string) string
	tracer   trace.Tracer
	log      *zap.Logger
}

func NewReservationService(
	repo *repository.Repository,
	config utils.BookingConfig,
	clock utils.Clock,
	gateway PaymentGateway,
	notifier Notifier,
	tracer trace.Tracer,
	log *zap.Logger,
) ReservationService {
	return &reservationService{
		repo:     repo,
		policy:   NewCancellationPolicyEngine(clock, config.CancelMinLeadTime),
		gateway:  gateway,
		notifier: notifier,
		clock:    clock,
		config:   config,
		newCode:  utils.GenerateReservationCode,
		tracer:   tracer,
		log:      log.With(zap.String("service", "reservation")),
	}
}

// afterInsertFunc runs inside the create transaction once the row exists.
type afterInsertFunc func(ctx context.Context, repos *repository.Repository, r *entity.Reservation) error

func (s *reservationService) CreateReservation(ctx context.Context, guestID string, req *request.CreateReservationRequest) (*response.ReservationResponse, error) {
	reservation, hostID, err := s.create(ctx, guestID, req, nil)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, reservation, hostID, entity.EventReservationCreated)

	resp := response.ReservationToResponse(reservation, s.clock.Now())
	return &resp, nil
}

func (s *reservationService) CreateWithInstantPayment(ctx context.Context, guestID string, req *request.InstantReservationRequest) (*response.ReservationResponse, error) {
	if err := validateRequest(s.log, "Instant reservation", req); err != nil {
		return nil, err
	}

	// set once the gateway has taken the money, so a failed commit can void it
	var chargedTxID string

	chargeAndConfirm := func(ctx context.Context, repos *repository.Repository, r *entity.Reservation) error {
		charge, err := s.gateway.Charge(ctx, ChargeRequest{
			ReservationID:   r.ID,
			ReservationCode: r.ReservationCode,
			Amount:          r.TotalAmount,
			Method:          req.PaymentMethod,
			Token:           req.PaymentToken,
		})
		if err != nil {
			s.log.Warn("Instant payment declined",
				zap.Error(err),
				zap.String("reservation_code", r.ReservationCode),
			)
			return fmt.Errorf("%w: %v", ErrPaymentFailed, err)
		}
		chargedTxID = charge.TransactionID

		return s.confirmPaid(ctx, repos, r, r.TotalAmount, charge.TransactionID, charge.Method, charge.PaidAt)
	}

	reservation, hostID, err := s.create(ctx, guestID, &req.CreateReservationRequest, chargeAndConfirm)
	if err != nil {
		if chargedTxID != "" {
			s.voidCharge(ctx, chargedTxID, err)
		}
		return nil, err
	}

	s.notify(ctx, reservation, hostID, entity.EventReservationCreated)
	s.notify(ctx, reservation, hostID, entity.EventReservationConfirmed)

	resp := response.ReservationToResponse(reservation, s.clock.Now())
	return &resp, nil
}

// create validates, prices and inserts a Pending reservation while holding the
// property row lock, so concurrent requests for the same property serialize.
func (s *reservationService) create(ctx context.Context, guestID string, req *request.CreateReservationRequest, afterInsert afterInsertFunc) (*entity.Reservation, uuid.UUID, error) {
	ctx, span := s.tracer.Start(ctx, "reservation.create",
		trace.WithAttributes(
			attribute.String("property.id", req.PropertyID),
			attribute.Bool("instant_payment", afterInsert != nil),
		))
	defer span.End()

	reservation, hostID, err := s.createTx(ctx, guestID, req, afterInsert)
	finishSpan(span, err, "reservation created")
	if err != nil {
		return nil, uuid.Nil, err
	}

	span.SetAttributes(attribute.String("reservation.code", reservation.ReservationCode))
	s.log.Info("Reservation created",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("reservation_code", reservation.ReservationCode),
		zap.String("property_id", reservation.PropertyID.String()),
		zap.Stringer("status", reservation.Status),
	)

	return reservation, hostID, nil
}

// voidCharge releases a charge after the reservation it paid for rolled back.
// A failed void is logged for manual follow-up; the caller still gets cause.
func (s *reservationService) voidCharge(ctx context.Context, transactionID string, cause error) {
	if err := s.gateway.Void(context.WithoutCancel(ctx), transactionID); err != nil {
		s.log.Error("Failed to void charge of rolled back reservation",
			zap.Error(err),
			zap.String("transaction_id", transactionID),
			zap.NamedError("cause", cause),
		)
		return
	}
	s.log.Warn("Voided charge of rolled back reservation",
		zap.String("transaction_id", transactionID),
		zap.NamedError("cause", cause),
	)
}

func (s *reservationService) createTx(ctx context.Context, guestID string, req *request.CreateReservationRequest, afterInsert afterInsertFunc) (*entity.Reservation, uuid.UUID, error) {
	if err := validateRequest(s.log, "Create reservation", req); err != nil {
		return nil, uuid.Nil, err
	}

	guestUUID, err := parseID(guestID, "guest_id")
	if err != nil {
		return nil, uuid.Nil, err
	}
	propertyID, err := parseID(req.PropertyID, "property_id")
	if err != nil {
		return nil, uuid.Nil, err
	}

	checkIn, checkOut, err := parseStay(req.StayDates)
	if err != nil {
		return nil, uuid.Nil, err
	}
	if err := rejectPastCheckIn(checkIn, s.clock.Now()); err != nil {
		return nil, uuid.Nil, err
	}

	var (
		reservation *entity.Reservation
		hostID      uuid.UUID
	)

	err = s.repo.Tx.WithinTx(ctx, func(ctx context.Context, repos *repository.Repository) error {
		property, err := repos.Property.LockByID(ctx, propertyID)
		if err != nil {
			return err
		}
		if property == nil {
			return fmt.Errorf("%w: property %s", ErrNotFound, propertyID)
		}

		if err := validateOccupancy(property, req.Adults, req.Children, req.Infants); err != nil {
			return err
		}

		price, err := ComputePrice(property, checkIn, checkOut)
		if err != nil {
			return err
		}

		conflict, err := NewAvailabilityChecker(repos).FindConflict(ctx, propertyID, checkIn, checkOut, uuid.Nil)
		if err != nil {
			return err
		}
		if conflict != nil {
			return conflict
		}

		code, err := s.generateCode(ctx, repos)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		r := &entity.Reservation{
			Base: entity.Base{
				ID:        uuid.New(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			ReservationCode:    code,
			PropertyID:         property.ID,
			GuestID:            guestUUID,
			Adults:             req.Adults,
			Children:           req.Children,
			Infants:            req.Infants,
			PricePerNight:      price.PricePerNight,
			CleaningFee:        price.CleaningFee,
			ServiceFee:         price.ServiceFee,
			SecurityDeposit:    price.SecurityDeposit,
			CancellationPolicy: property.CancellationPolicy,
			PaymentStatus:      entity.PaymentStatusPending,
			Status:             entity.StatusPending,
		}
		r.SetDates(checkIn, checkOut)

		if err := repos.Reservation.Create(ctx, r); err != nil {
			return err
		}

		if afterInsert != nil {
			if err := afterInsert(ctx, repos, r); err != nil {
				return err
			}
		}

		reservation = r
		hostID = property.HostID
		return nil
	})
	if err != nil {
		return nil, uuid.Nil, translateRepoError(err)
	}

	return reservation, hostID, nil
}

func (s *reservationService) generateCode(ctx context.Context, repos *repository.Repository) (string, error) {
	attempts := max(s.config.CodeMaxAttempts, 1)
	for i := 1; i <= attempts; i++ {
		code := s.newCode(s.config.CodePrefix)
		exists, err := repos.Reservation.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
		s.log.Warn("Reservation code collision", zap.String("code", code), zap.Int("attempt", i))
	}
	return "", fmt.Errorf("%w after %d attempts", ErrCodeGeneration, attempts)
}

// confirmPaid moves a Pending reservation to Confirmed, stamps the payment
// fields and records the payment row. It must run inside a transaction.
func (s *reservationService) confirmPaid(ctx context.Context, repos *repository.Repository, r *entity.Reservation, amount entity.Money, transactionID, method string, paidAt time.Time) error {
	if err := s.transition(ctx, repos, r, entity.StatusConfirmed); err != nil {
		return err
	}

	paidAt = paidAt.UTC()
	r.AmountPaid = amount
	r.PaymentStatus = entity.PaymentStatusPaid
	r.PaymentDate = &paidAt
	r.TransactionID = &transactionID
	if err := repos.Reservation.UpdatePayment(ctx, r); err != nil {
		return err
	}

	return repos.Payment.Create(ctx, &entity.Payment{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: s.clock.Now(),
		},
		ReservationID: r.ID,
		Amount:        amount,
		Method:        method,
		TransactionID: transactionID,
		PaidAt:        paidAt,
	})
}

// transition applies a status change guarded by the status the row had when read.
func (s *reservationService) transition(ctx context.Context, repos *repository.Repository, r *entity.Reservation, to entity.ReservationStatus) error {
	from := r.Status
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s to %s", ErrIllegalStatusTransition, from, to)
	}

	now := s.clock.Now()
	next := *r
	next.Status = to
	next.UpdatedAt = now
	if to == entity.StatusConfirmed {
		next.ConfirmedAt = &now
	}

	if err := repos.Reservation.TransitionStatus(ctx, &next, from); err != nil {
		return err
	}

	*r = next
	return nil
}

func (s *reservationService) ConfirmReservation(ctx context.Context, reservationID, requesterID string) (*response.ReservationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "reservation.confirm",
		trace.WithAttributes(attribute.String("reservation.id", reservationID)))
	defer span.End()

	resID, err := parseID(reservationID, "reservation_id")
	if err != nil {
		finishSpan(span, err, "")
		return nil, err
	}
	requester, err := parseID(requesterID, "requester_id")
	if err != nil {
		finishSpan(span, err, "")
		return nil, err
	}

	var (
		reservation *entity.Reservation
		hostID      uuid.UUID
	)
	err = s.repo.Tx.WithinTx(ctx, func(ctx context.Context, repos *repository.Repository) error {
		r, err := repos.Reservation.FindByIDForUpdate(ctx, resID)
		if err != nil {
			return err
		}
		if r == nil {
			return fmt.Errorf("%w: reservation %s", ErrNotFound, resID)
		}

		property, err := repos.Property.FindByID(ctx, r.PropertyID)
		if err != nil {
			return err
		}
		if property == nil || property.HostID != requester {
			return fmt.Errorf("%w: only the host can confirm", ErrUnauthorized)
		}

		if err := s.transition(ctx, repos, r, entity.StatusConfirmed); err != nil {
			return err
		}

		reservation = r
		hostID = property.HostID
		return nil
	})
	err = translateRepoError(err)
	finishSpan(span, err, "reservation confirmed")
	if err != nil {
		s.log.Warn("Confirm reservation rejected",
			zap.Error(err),
			zap.String("reservation_id", reservationID),
		)
		return nil, err
	}

	s.log.Info("Reservation confirmed", zap.String("reservation_id", reservationID))
	s.notify(ctx, reservation, hostID, entity.EventReservationConfirmed)

	resp := response.ReservationToResponse(reservation, s.clock.Now())
	return &resp, nil
}

func (s *reservationService) RecordPayment(ctx context.Context, req *request.PaymentConfirmationRequest) (*response.ReservationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "reservation.record_payment",
		trace.WithAttributes(
			attribute.String("reservation.id", req.ReservationID),
			attribute.String("payment.transaction_id", req.TransactionID),
		))
	defer span.End()

	if err := validateRequest(s.log, "Payment confirmation", req); err != nil {
		finishSpan(span, err, "")
		return nil, err
	}
	resID, err := parseID(req.ReservationID, "reservation_id")
	if err != nil {
		finishSpan(span, err, "")
		return nil, err
	}

	method := req.Method
	if method == "" {
		method = "external"
	}

	var (
		reservation *entity.Reservation
		hostID      uuid.UUID
		replayed    bool
	)
	err = s.repo.Tx.WithinTx(ctx, func(ctx context.Context, repos *repository.Repository) error {
		r, err := repos.Reservation.FindByIDForUpdate(ctx, resID)
		if err != nil {
			return err
		}
		if r == nil {
			return fmt.Errorf("%w: reservation %s", ErrNotFound, resID)
		}

		existing, err := repos.Payment.FindByTransactionID(ctx, req.TransactionID)
		if err != nil {
			return err
		}
		if existing != nil {
			if existing.ReservationID != r.ID {
				return fmt.Errorf("%w: transaction %s belongs to another reservation", ErrPaymentMismatch, req.TransactionID)
			}
			reservation = r
			replayed = true
			return nil
		}

		if r.Status != entity.StatusPending {
			return fmt.Errorf("%w: cannot record payment on a %s reservation", ErrIllegalStatusTransition, r.Status)
		}
		if req.AmountPaid != r.TotalAmount {
			return fmt.Errorf("%w: paid %s, total is %s", ErrPaymentMismatch, req.AmountPaid, r.TotalAmount)
		}

		property, err := repos.Property.FindByID(ctx, r.PropertyID)
		if err != nil {
			return err
		}
		if property != nil {
			hostID = property.HostID
		}

		if err := s.confirmPaid(ctx, repos, r, req.AmountPaid, req.TransactionID, method, *req.PaidAt); err != nil {
			return err
		}

		reservation = r
		return nil
	})
	err = translateRepoError(err)
	finishSpan(span, err, "payment recorded")
	if err != nil {
		s.log.Warn("Payment confirmation rejected",
			zap.Error(err),
			zap.String("reservation_id", req.ReservationID),
			zap.String("transaction_id", req.TransactionID),
		)
		return nil, err
	}

	if replayed {
		s.log.Info("Payment confirmation replayed",
			zap.String("reservation_id", req.ReservationID),
			zap.String("transaction_id", req.TransactionID),
		)
	} else {
		s.log.Info("Payment recorded",
			zap.String("reservation_id", req.ReservationID),
			zap.String("transaction_id", req.TransactionID),
		)
		s.notify(ctx, reservation, hostID, entity.EventReservationConfirmed)
	}

	resp := response.ReservationToResponse(reservation, s.clock.Now())
	return &resp, nil
}

func (s *reservationService) CancelReservation(ctx context.Context, reservationID, requesterID string, req *request.CancelReservationRequest) (*response.CancellationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "reservation.cancel",
		trace.WithAttributes(attribute.String("reservation.id", reservationID)))
	defer span.End()

	if err := validateRequest(s.log, "Cancel reservation", req); err != nil {
		finishSpan(span, err, "")
		return nil, err
	}
	resID, err := parseID(reservationID, "reservation_id")
	if err != nil {
		finishSpan(span, err, "")
		return nil, err
	}
	requester, err := parseID(requesterID, "requester_id")
	if err != nil {
		finishSpan(span, err, "")
		return nil, err
	}

	var (
		reservation *entity.Reservation
		hostID      uuid.UUID
	)
	err = s.repo.Tx.WithinTx(ctx, func(ctx context.Context, repos *repository.Repository) error {
		r, err := repos.Reservation.FindByIDForUpdate(ctx, resID)
		if err != nil {
			return err
		}
		if r == nil {
			return fmt.Errorf("%w: reservation %s", ErrNotFound, resID)
		}

		property, err := repos.Property.FindByID(ctx, r.PropertyID)
		if err != nil {
			return err
		}
		if property != nil {
			hostID = property.HostID
		}

		var by entity.CancelInitiator
		switch {
		case requester == r.GuestID:
			by = entity.CancelledByGuest
		case hostID != uuid.Nil && requester == hostID:
			by = entity.CancelledByHost
		default:
			return fmt.Errorf("%w: only the guest or the host can cancel", ErrUnauthorized)
		}

		if r.Status == entity.StatusCancelled {
			return ErrAlreadyCancelled
		}
		if effective := r.EffectiveStatus(s.clock.Now()); !effective.CanBeCancelled() {
			return fmt.Errorf("%w: reservation is %s", ErrNotCancellable, effective)
		}

		refund, cancelledAt, err := s.policy.Assess(r, by)
		if err != nil {
			return err
		}

		from := r.Status
		next := *r
		reason := req.Reason
		next.Status = entity.StatusCancelled
		next.CancelledAt = &cancelledAt
		next.CancellationReason = &reason
		next.CancelledBy = &by
		next.RefundPercent = refund.Percent
		next.RefundAmount = min(refund.Amount, r.AmountPaid)
		next.UpdatedAt = cancelledAt

		if err := repos.Reservation.TransitionStatus(ctx, &next, from); err != nil {
			return err
		}

		reservation = &next
		return nil
	})
	err = translateRepoError(err)
	finishSpan(span, err, "reservation cancelled")
	if err != nil {
		s.log.Warn("Cancel reservation rejected",
			zap.Error(err),
			zap.String("reservation_id", reservationID),
			zap.String("requester_id", requesterID),
		)
		return nil, err
	}

	span.SetAttributes(attribute.Int("refund.percent", reservation.RefundPercent))
	s.log.Info("Reservation cancelled",
		zap.String("reservation_id", reservationID),
		zap.String("cancelled_by", string(*reservation.CancelledBy)),
		zap.Int("refund_percent", reservation.RefundPercent),
		zap.Stringer("refund_amount", reservation.RefundAmount),
	)
	s.notify(ctx, reservation, hostID, entity.EventReservationCancelled)

	resp := response.CancellationToResponse(reservation)
	return &resp, nil
}

func (s *reservationService) RescheduleReservation(ctx context.Context, reservationID, requesterID string, req *request.RescheduleReservationRequest) (*response.ReservationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "reservation.reschedule",
		trace.WithAttributes(attribute.String("reservation.id", reservationID)))
	defer span.End()

	reservation, hostID, err := s.rescheduleTx(ctx, reservationID, requesterID, req)
	finishSpan(span, err, "reservation rescheduled")
	if err != nil {
		s.log.Warn("Reschedule reservation rejected",
			zap.Error(err),
			zap.String("reservation_id", reservationID),
		)
		return nil, err
	}

	s.log.Info("Reservation rescheduled",
		zap.String("reservation_id", reservationID),
		zap.String("check_in", utils.FormatDate(reservation.CheckIn)),
		zap.String("check_out", utils.FormatDate(reservation.CheckOut)),
	)
	s.notify(ctx, reservation, hostID, entity.EventReservationRescheduled)

	resp := response.ReservationToResponse(reservation, s.clock.Now())
	return &resp, nil
}

func (s *reservationService) rescheduleTx(ctx context.Context, reservationID, requesterID string, req *request.RescheduleReservationRequest) (*entity.Reservation, uuid.UUID, error) {
	if err := validateRequest(s.log, "Reschedule reservation", req); err != nil {
		return nil, uuid.Nil, err
	}
	resID, err := parseID(reservationID, "reservation_id")
	if err != nil {
		return nil, uuid.Nil, err
	}
	requester, err := parseID(requesterID, "requester_id")
	if err != nil {
		return nil, uuid.Nil, err
	}

	checkIn, checkOut, err := parseStay(req.StayDates)
	if err != nil {
		return nil, uuid.Nil, err
	}
	if err := rejectPastCheckIn(checkIn, s.clock.Now()); err != nil {
		return nil, uuid.Nil, err
	}

	var (
		reservation *entity.Reservation
		hostID      uuid.UUID
	)
	err = s.repo.Tx.WithinTx(ctx, func(ctx context.Context, repos *repository.Repository) error {
		r, err := repos.Reservation.FindByIDForUpdate(ctx, resID)
		if err != nil {
			return err
		}
		if r == nil {
			return fmt.Errorf("%w: reservation %s", ErrNotFound, resID)
		}
		if r.GuestID != requester {
			return fmt.Errorf("%w: only the guest can change dates", ErrUnauthorized)
		}
		if r.Status != entity.StatusPending {
			return fmt.Errorf("%w: only pending reservations can change dates", ErrIllegalStatusTransition)
		}

		property, err := repos.Property.LockByID(ctx, r.PropertyID)
		if err != nil {
			return err
		}
		if property == nil {
			return fmt.Errorf("%w: property %s", ErrNotFound, r.PropertyID)
		}

		// Current stay rules apply; the frozen nightly price does not change.
		if _, err := ComputePrice(property, checkIn, checkOut); err != nil {
			return err
		}

		conflict, err := NewAvailabilityChecker(repos).FindConflict(ctx, r.PropertyID, checkIn, checkOut, r.ID)
		if err != nil {
			return err
		}
		if conflict != nil {
			return conflict
		}

		next := *r
		next.SetDates(checkIn, checkOut)
		next.UpdatedAt = s.clock.Now()
		if err := repos.Reservation.UpdateDates(ctx, &next, entity.StatusPending); err != nil {
			return err
		}

		reservation = &next
		hostID = property.HostID
		return nil
	})
	if err != nil {
		return nil, uuid.Nil, translateRepoError(err)
	}

	return reservation, hostID, nil
}

func (s *reservationService) GetReservation(ctx context.Context, reservationID, requesterID string) (*response.ReservationResponse, error) {
	resID, err := parseID(reservationID, "reservation_id")
	if err != nil {
		return nil, err
	}
	requester, err := parseID(requesterID, "requester_id")
	if err != nil {
		return nil, err
	}

	r, err := s.repo.Reservation.FindByID(ctx, resID)
	if err != nil {
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	if r == nil {
		return nil, fmt.Errorf("%w: reservation %s", ErrNotFound, resID)
	}

	if r.GuestID != requester {
		property, err := s.repo.Property.FindByID(ctx, r.PropertyID)
		if err != nil {
			return nil, fmt.Errorf("get reservation property: %w", err)
		}
		if property == nil || property.HostID != requester {
			return nil, ErrUnauthorized
		}
	}

	resp := response.ReservationToResponse(r, s.clock.Now())
	return &resp, nil
}

func (s *reservationService) GetGuestReservations(ctx context.Context, guestID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReservationResponse], error) {
	guestUUID, err := parseID(guestID, "guest_id")
	if err != nil {
		return nil, err
	}

	reservations, err := s.repo.Reservation.FindByGuestID(ctx, guestUUID, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get guest reservations", zap.Error(err), zap.String("guest_id", guestID))
		return nil, fmt.Errorf("get guest reservations: %w", err)
	}

	total, err := s.repo.Reservation.CountByGuestID(ctx, guestUUID)
	if err != nil {
		return nil, fmt.Errorf("count guest reservations: %w", err)
	}

	now := s.clock.Now()
	items := make([]response.ReservationResponse, 0, len(reservations))
	for _, r := range reservations {
		items = append(items, response.ReservationToResponse(r, now))
	}

	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total), nil
}

func (s *reservationService) ArchiveReservation(ctx context.Context, reservationID string) error {
	resID, err := parseID(reservationID, "reservation_id")
	if err != nil {
		return err
	}

	r, err := s.repo.Reservation.FindByID(ctx, resID)
	if err != nil {
		return fmt.Errorf("archive reservation: %w", err)
	}
	if r == nil {
		return fmt.Errorf("%w: reservation %s", ErrNotFound, resID)
	}
	if effective := r.EffectiveStatus(s.clock.Now()); effective.IsOccupying() {
		return fmt.Errorf("%w: cannot archive a %s reservation", ErrIllegalStatusTransition, effective)
	}

	if err := s.repo.Reservation.SoftDelete(ctx, resID); err != nil {
		return fmt.Errorf("archive reservation: %w", err)
	}

	return nil
}

// notify runs after commit. Delivery failures are logged, never returned.
func (s *reservationService) notify(ctx context.Context, r *entity.Reservation, hostID uuid.UUID, event entity.NotificationEvent) {
	if s.notifier == nil {
		return
	}

	intent := entity.NotificationIntent{
		ReservationID:   r.ID,
		ReservationCode: r.ReservationCode,
		GuestID:         r.GuestID,
		HostID:          hostID,
		EventType:       event,
		OccurredAt:      s.clock.Now(),
	}

	if err := s.notifier.Notify(ctx, intent); err != nil {
		s.log.Error("Failed to publish notification intent",
			zap.Error(err),
			zap.String("reservation_id", r.ID.String()),
			zap.String("event", string(event)),
		)
	}
}
