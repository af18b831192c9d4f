package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rental-booking/internal/data/entity"
	"rental-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReservationRepository interface {
	Create(ctx context.Context, reservation *entity.Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)
	FindByCode(ctx context.Context, code string) (*entity.Reservation, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	FindByGuestID(ctx context.Context, guestID uuid.UUID, limit, offset int) ([]*entity.Reservation, error)
	CountByGuestID(ctx context.Context, guestID uuid.UUID) (int64, error)

	// Business queries
	// FindOccupying returns occupying reservations of a property that overlap
	// [checkIn, checkOut). excludeID (uuid.Nil for none) is left out.
	FindOccupying(ctx context.Context, propertyID uuid.UUID, checkIn, checkOut time.Time, excludeID uuid.UUID) ([]*entity.Reservation, error)
	FindOccupyingByProperties(ctx context.Context, propertyIDs []uuid.UUID, checkIn, checkOut time.Time) ([]*entity.Reservation, error)

	// Writes guarded by the expected current status; ErrStaleStatus when it moved.
	UpdateDates(ctx context.Context, reservation *entity.Reservation, expected entity.ReservationStatus) error
	TransitionStatus(ctx context.Context, reservation *entity.Reservation, from entity.ReservationStatus) error
	UpdatePayment(ctx context.Context, reservation *entity.Reservation) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type reservationRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewReservationRepository(db database.Querier, log *zap.Logger) ReservationRepository {
	return &reservationRepository{
		db:  db,
		log: log.With(zap.String("repository", "reservation")),
	}
}

const reservationColumns = `
	id, reservation_code, property_id, guest_id, check_in, check_out, nights,
	adults, children, infants,
	price_per_night_cents, cleaning_fee_cents, service_fee_cents, security_deposit_cents,
	subtotal_cents, total_amount_cents, cancellation_policy,
	amount_paid_cents, payment_status, payment_date, transaction_id,
	status_id, confirmed_at, cancelled_at, cancellation_reason, cancelled_by,
	refund_percent, refund_amount_cents,
	created_at, updated_at, deleted_at`

func scanReservation(row pgx.Row) (*entity.Reservation, error) {
	var res entity.Reservation
	err := row.Scan(
		&res.ID,
		&res.ReservationCode,
		&res.PropertyID,
		&res.GuestID,
		&res.CheckIn,
		&res.CheckOut,
		&res.Nights,
		&res.Adults,
		&res.Children,
		&res.Infants,
		&res.PricePerNight,
		&res.CleaningFee,
		&res.ServiceFee,
		&res.SecurityDeposit,
		&res.Subtotal,
		&res.TotalAmount,
		&res.CancellationPolicy,
		&res.AmountPaid,
		&res.PaymentStatus,
		&res.PaymentDate,
		&res.TransactionID,
		&res.Status,
		&res.ConfirmedAt,
		&res.CancelledAt,
		&res.CancellationReason,
		&res.CancelledBy,
		&res.RefundPercent,
		&res.RefundAmount,
		&res.CreatedAt,
		&res.UpdatedAt,
		&res.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func scanReservations(rows pgx.Rows) ([]*entity.Reservation, error) {
	defer rows.Close()

	var reservations []*entity.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation row: %w", err)
		}
		reservations = append(reservations, res)
	}

	return reservations, rows.Err()
}

func occupyingStatusIDs() []int16 {
	ids := make([]int16, 0, len(entity.OccupyingStatuses))
	for _, s := range entity.OccupyingStatuses {
		ids = append(ids, int16(s))
	}
	return ids
}

func (r *reservationRepository) Create(ctx context.Context, res *entity.Reservation) error {
	query := `
		INSERT INTO reservations (
			id, reservation_code, property_id, guest_id, check_in, check_out, nights,
			adults, children, infants,
			price_per_night_cents, cleaning_fee_cents, service_fee_cents, security_deposit_cents,
			subtotal_cents, total_amount_cents, cancellation_policy,
			amount_paid_cents, payment_status, status_id, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	`

	_, err := r.db.Exec(ctx, query,
		res.ID,
		res.ReservationCode,
		res.PropertyID,
		res.GuestID,
		res.CheckIn,
		res.CheckOut,
		res.Nights,
		res.Adults,
		res.Children,
		res.Infants,
		int64(res.PricePerNight),
		int64(res.CleaningFee),
		int64(res.ServiceFee),
		int64(res.SecurityDeposit),
		int64(res.Subtotal),
		int64(res.TotalAmount),
		string(res.CancellationPolicy),
		int64(res.AmountPaid),
		string(res.PaymentStatus),
		int16(res.Status),
		res.CreatedAt,
		res.UpdatedAt,
	)

	if err != nil {
		err = mapConstraintError(err)
		if errors.Is(err, ErrReservationOverlap) || errors.Is(err, ErrDuplicateCode) {
			r.log.Warn("Reservation insert rejected by constraint",
				zap.Error(err),
				zap.String("property_id", res.PropertyID.String()),
				zap.String("reservation_code", res.ReservationCode),
			)
			return err
		}
		r.log.Error("Failed to create reservation",
			zap.Error(err),
			zap.String("reservation_code", res.ReservationCode),
			zap.String("guest_id", res.GuestID.String()),
		)
		return fmt.Errorf("create reservation %s: %w", res.ReservationCode, err)
	}

	return nil
}

func (r *reservationRepository) findOne(ctx context.Context, query string, arg any) (*entity.Reservation, error) {
	res, err := scanReservation(r.db.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return res, err
}

func (r *reservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + `
		FROM reservations
		WHERE id = $1 AND deleted_at IS NULL
	`

	res, err := r.findOne(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to find reservation by ID",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
		)
		return nil, fmt.Errorf("find reservation by ID %s: %w", id, err)
	}

	return res, nil
}

func (r *reservationRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + `
		FROM reservations
		WHERE id = $1 AND deleted_at IS NULL
		FOR UPDATE
	`

	res, err := r.findOne(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to lock reservation",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
		)
		return nil, fmt.Errorf("lock reservation %s: %w", id, err)
	}

	return res, nil
}

func (r *reservationRepository) FindByCode(ctx context.Context, code string) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + `
		FROM reservations
		WHERE reservation_code = $1 AND deleted_at IS NULL
	`

	res, err := r.findOne(ctx, query, code)
	if err != nil {
		r.log.Error("Failed to find reservation by code",
			zap.Error(err),
			zap.String("reservation_code", code),
		)
		return nil, fmt.Errorf("find reservation by code %s: %w", code, err)
	}

	return res, nil
}

// CodeExists also sees soft-deleted rows; codes are never reused.
func (r *reservationRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM reservations WHERE reservation_code = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, code).Scan(&exists); err != nil {
		r.log.Error("Failed to check reservation code",
			zap.Error(err),
			zap.String("reservation_code", code),
		)
		return false, fmt.Errorf("check reservation code %s: %w", code, err)
	}

	return exists, nil
}

func (r *reservationRepository) FindByGuestID(ctx context.Context, guestID uuid.UUID, limit, offset int) ([]*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + `
		FROM reservations
		WHERE guest_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, guestID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find reservations by guest ID",
			zap.Error(err),
			zap.String("guest_id", guestID.String()),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find reservations by guest ID %s: %w", guestID, err)
	}

	reservations, err := scanReservations(rows)
	if err != nil {
		r.log.Error("Failed to scan reservation rows", zap.Error(err))
		return nil, err
	}

	return reservations, nil
}

func (r *reservationRepository) CountByGuestID(ctx context.Context, guestID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM reservations WHERE guest_id = $1 AND deleted_at IS NULL`

	var count int64
	if err := r.db.QueryRow(ctx, query, guestID).Scan(&count); err != nil {
		r.log.Error("Failed to count reservations by guest ID",
			zap.Error(err),
			zap.String("guest_id", guestID.String()),
		)
		return 0, fmt.Errorf("count reservations by guest ID %s: %w", guestID, err)
	}

	return count, nil
}

func (r *reservationRepository) FindOccupying(ctx context.Context, propertyID uuid.UUID, checkIn, checkOut time.Time, excludeID uuid.UUID) ([]*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + `
		FROM reservations
		WHERE property_id = $1
		  AND check_in < $3
		  AND check_out > $2
		  AND status_id = ANY($4)
		  AND id <> $5
		  AND deleted_at IS NULL
		ORDER BY check_in
	`

	rows, err := r.db.Query(ctx, query, propertyID, checkIn, checkOut, occupyingStatusIDs(), excludeID)
	if err != nil {
		r.log.Error("Failed to find occupying reservations",
			zap.Error(err),
			zap.String("property_id", propertyID.String()),
		)
		return nil, fmt.Errorf("find occupying reservations for property %s: %w", propertyID, err)
	}

	reservations, err := scanReservations(rows)
	if err != nil {
		r.log.Error("Failed to scan reservation rows", zap.Error(err))
		return nil, err
	}

	return reservations, nil
}

func (r *reservationRepository) FindOccupyingByProperties(ctx context.Context, propertyIDs []uuid.UUID, checkIn, checkOut time.Time) ([]*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + `
		FROM reservations
		WHERE property_id = ANY($1)
		  AND check_in < $3
		  AND check_out > $2
		  AND status_id = ANY($4)
		  AND deleted_at IS NULL
		ORDER BY property_id, check_in
	`

	rows, err := r.db.Query(ctx, query, propertyIDs, checkIn, checkOut, occupyingStatusIDs())
	if err != nil {
		r.log.Error("Failed to find occupying reservations for properties",
			zap.Error(err),
			zap.Int("properties", len(propertyIDs)),
		)
		return nil, fmt.Errorf("find occupying reservations: %w", err)
	}

	reservations, err := scanReservations(rows)
	if err != nil {
		r.log.Error("Failed to scan reservation rows", zap.Error(err))
		return nil, err
	}

	return reservations, nil
}

func (r *reservationRepository) UpdateDates(ctx context.Context, res *entity.Reservation, expected entity.ReservationStatus) error {
	query := `
		UPDATE reservations
		SET check_in = $3, check_out = $4, nights = $5,
		    subtotal_cents = $6, total_amount_cents = $7, updated_at = $8
		WHERE id = $1 AND status_id = $2 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query,
		res.ID,
		int16(expected),
		res.CheckIn,
		res.CheckOut,
		res.Nights,
		int64(res.Subtotal),
		int64(res.TotalAmount),
		res.UpdatedAt,
	)
	if err != nil {
		err = mapConstraintError(err)
		if errors.Is(err, ErrReservationOverlap) {
			return err
		}
		r.log.Error("Failed to update reservation dates",
			zap.Error(err),
			zap.String("reservation_id", res.ID.String()),
		)
		return fmt.Errorf("update reservation dates %s: %w", res.ID, err)
	}

	if result.RowsAffected() == 0 {
		return ErrStaleStatus
	}

	return nil
}

func (r *reservationRepository) TransitionStatus(ctx context.Context, res *entity.Reservation, from entity.ReservationStatus) error {
	query := `
		UPDATE reservations
		SET status_id = $3, confirmed_at = $4, cancelled_at = $5,
		    cancellation_reason = $6, cancelled_by = $7,
		    refund_percent = $8, refund_amount_cents = $9, updated_at = $10
		WHERE id = $1 AND status_id = $2 AND deleted_at IS NULL
	`

	var cancelledBy *string
	if res.CancelledBy != nil {
		by := string(*res.CancelledBy)
		cancelledBy = &by
	}

	result, err := r.db.Exec(ctx, query,
		res.ID,
		int16(from),
		int16(res.Status),
		res.ConfirmedAt,
		res.CancelledAt,
		res.CancellationReason,
		cancelledBy,
		res.RefundPercent,
		int64(res.RefundAmount),
		res.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update reservation status",
			zap.Error(err),
			zap.String("reservation_id", res.ID.String()),
			zap.Stringer("from", from),
			zap.Stringer("to", res.Status),
		)
		return fmt.Errorf("update reservation status %s: %w", res.ID, err)
	}

	if result.RowsAffected() == 0 {
		return ErrStaleStatus
	}

	return nil
}

func (r *reservationRepository) UpdatePayment(ctx context.Context, res *entity.Reservation) error {
	query := `
		UPDATE reservations
		SET amount_paid_cents = $2, payment_status = $3, payment_date = $4,
		    transaction_id = $5, updated_at = $6
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query,
		res.ID,
		int64(res.AmountPaid),
		string(res.PaymentStatus),
		res.PaymentDate,
		res.TransactionID,
		res.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update reservation payment",
			zap.Error(err),
			zap.String("reservation_id", res.ID.String()),
		)
		return fmt.Errorf("update reservation payment %s: %w", res.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("reservation %s not found", res.ID)
	}

	return nil
}

func (r *reservationRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE reservations
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to archive reservation",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
		)
		return fmt.Errorf("archive reservation %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("reservation %s not found", id)
	}

	r.log.Info("Reservation archived", zap.String("reservation_id", id.String()))
	return nil
}
