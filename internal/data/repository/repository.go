package repository

import (
	"context"
	"errors"
	"fmt"

	"rental-booking/pkg/database"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

var (
	// ErrReservationOverlap is returned when the reservations_no_overlap
	// exclusion constraint rejects a write.
	ErrReservationOverlap = errors.New("reservation dates overlap an existing reservation")

	// ErrStaleStatus means the row was not in the expected status when updated.
	ErrStaleStatus = errors.New("reservation status changed concurrently")

	ErrDuplicateCode   = errors.New("reservation code already exists")
	ErrDuplicateReview = errors.New("reservation already reviewed")
)

const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
)

type Repository struct {
	User        UserRepository
	Session     SessionRepository
	Property    PropertyRepository
	Reservation ReservationRepository
	Payment     PaymentRepository
	Review      ReviewRepository
	Tx          TxManager
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	repo := newRepositories(db, log)
	repo.Tx = &pgTxManager{db: db, log: log.With(zap.String("repository", "tx"))}
	return repo
}

func newRepositories(q database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		User:        NewUserRepository(q, log),
		Session:     NewSessionRepository(q, log),
		Property:    NewPropertyRepository(q, log),
		Reservation: NewReservationRepository(q, log),
		Payment:     NewPaymentRepository(q, log),
		Review:      NewReviewRepository(q, log),
	}
}

// TxManager runs fn with repositories bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos *Repository) error) error
}

type pgTxManager struct {
	db  database.PgxIface
	log *zap.Logger
}

func (m *pgTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, repos *Repository) error) error {
	tx, err := m.db.Begin(ctx)
	if err != nil {
		m.log.Error("Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("begin transaction: %w", err)
	}

	repos := newRepositories(tx, m.log)
	repos.Tx = nestedTx{repos: repos}

	if err := fn(ctx, repos); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			m.log.Error("Failed to rollback transaction", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		m.log.Error("Failed to commit transaction", zap.Error(err))
		return fmt.Errorf("commit transaction: %w", mapConstraintError(err))
	}

	return nil
}

// nestedTx joins the enclosing transaction.
type nestedTx struct {
	repos *Repository
}

func (n nestedTx) WithinTx(ctx context.Context, fn func(ctx context.Context, repos *Repository) error) error {
	return fn(ctx, n.repos)
}

// mapConstraintError turns known constraint violations into repository errors.
func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch {
	case pgErr.Code == pgExclusionViolation:
		return fmt.Errorf("%w: %s", ErrReservationOverlap, pgErr.ConstraintName)
	case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == "reservations_reservation_code_key":
		return ErrDuplicateCode
	case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == "reviews_reservation_id_key":
		return ErrDuplicateReview
	}
	return err
}
