package repository

import (
	"context"
	"errors"
	"fmt"

	"rental-booking/internal/data/entity"
	"rental-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// PropertyRepository is read-only apart from the rating aggregate kept by reviews.
type PropertyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Property, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Property, error)
	// LockByID takes a row lock that serializes reservation writes per property.
	// Only meaningful inside a transaction.
	LockByID(ctx context.Context, id uuid.UUID) (*entity.Property, error)
	UpdateRating(ctx context.Context, id uuid.UUID, rating float64) error
}

type propertyRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewPropertyRepository(db database.Querier, log *zap.Logger) PropertyRepository {
	return &propertyRepository{
		db:  db,
		log: log.With(zap.String("repository", "property")),
	}
}

const propertyColumns = `
	id, host_id, title, price_per_night_cents, cleaning_fee_cents, service_fee_cents,
	security_deposit_cents, max_guests, min_nights, max_nights, cancellation_policy,
	rating, created_at, updated_at, deleted_at`

func scanProperty(row pgx.Row) (*entity.Property, error) {
	var p entity.Property
	err := row.Scan(
		&p.ID,
		&p.HostID,
		&p.Title,
		&p.PricePerNight,
		&p.CleaningFee,
		&p.ServiceFee,
		&p.SecurityDeposit,
		&p.MaxGuests,
		&p.MinNights,
		&p.MaxNights,
		&p.CancellationPolicy,
		&p.Rating,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *propertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Property, error) {
	query := `SELECT ` + propertyColumns + `
		FROM properties
		WHERE id = $1 AND deleted_at IS NULL
	`

	property, err := scanProperty(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find property by ID",
			zap.Error(err),
			zap.String("property_id", id.String()),
		)
		return nil, fmt.Errorf("find property by ID %s: %w", id, err)
	}

	return property, nil
}

func (r *propertyRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Property, error) {
	query := `SELECT ` + propertyColumns + `
		FROM properties
		WHERE id = ANY($1) AND deleted_at IS NULL
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		r.log.Error("Failed to find properties by IDs",
			zap.Error(err),
			zap.Int("count", len(ids)),
		)
		return nil, fmt.Errorf("find properties by IDs: %w", err)
	}
	defer rows.Close()

	var properties []*entity.Property
	for rows.Next() {
		property, err := scanProperty(rows)
		if err != nil {
			r.log.Error("Failed to scan property row", zap.Error(err))
			return nil, fmt.Errorf("scan property row: %w", err)
		}
		properties = append(properties, property)
	}

	return properties, rows.Err()
}

func (r *propertyRepository) LockByID(ctx context.Context, id uuid.UUID) (*entity.Property, error) {
	query := `SELECT ` + propertyColumns + `
		FROM properties
		WHERE id = $1 AND deleted_at IS NULL
		FOR UPDATE
	`

	property, err := scanProperty(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to lock property",
			zap.Error(err),
			zap.String("property_id", id.String()),
		)
		return nil, fmt.Errorf("lock property %s: %w", id, err)
	}

	return property, nil
}

func (r *propertyRepository) UpdateRating(ctx context.Context, id uuid.UUID, rating float64) error {
	query := `
		UPDATE properties
		SET rating = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id, rating)
	if err != nil {
		r.log.Error("Failed to update property rating",
			zap.Error(err),
			zap.String("property_id", id.String()),
		)
		return fmt.Errorf("update property rating %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("property %s not found", id)
	}

	return nil
}
