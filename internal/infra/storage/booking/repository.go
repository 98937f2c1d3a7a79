package booking

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	"github.com/m04kA/SMC-SlotEngine/pkg/dbmetrics"
	"github.com/m04kA/SMC-SlotEngine/pkg/psqlbuilder"
)

// Repository репозиторий подтвержденных бронирований
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет подтвержденное бронирование.
// Вызывается из сериализуемой транзакции подтверждения черновика:
// в контексте передается активная транзакция, репозиторий достает ее
// через dbmetrics.GetExecutor.
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	breakdown, err := json.Marshal(b.PriceBreakdown)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - price breakdown: %v", ErrMarshal, err)
	}
	extras, err := json.Marshal(b.Extras)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - extras: %v", ErrMarshal, err)
	}

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"draft_id",
			"resource_id",
			"user_id",
			"service_id",
			"start_at",
			"end_at",
			"price",
			"price_breakdown",
			"extras",
			"coupon",
			"status",
		).
		Values(
			b.DraftID,
			b.ResourceID,
			b.UserID,
			b.ServiceID,
			b.StartAt,
			b.EndAt,
			b.Price,
			breakdown,
			extras,
			b.Coupon,
			b.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&b.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return b, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"draft_id",
		"resource_id",
		"user_id",
		"service_id",
		"start_at",
		"end_at",
		"price",
		"price_breakdown",
		"extras",
		"coupon",
		"status",
		"created_at",
		"updated_at",
	).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var b domain.Booking
	var breakdown, extras []byte
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&b.ID,
		&b.DraftID,
		&b.ResourceID,
		&b.UserID,
		&b.ServiceID,
		&b.StartAt,
		&b.EndAt,
		&b.Price,
		&breakdown,
		&extras,
		&b.Coupon,
		&b.Status,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan row: %v", ErrScanRow, err)
	}

	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &b.PriceBreakdown); err != nil {
			return nil, fmt.Errorf("%w: GetByID - price breakdown: %v", ErrScanRow, err)
		}
	}
	if len(extras) > 0 {
		if err := json.Unmarshal(extras, &b.Extras); err != nil {
			return nil, fmt.Errorf("%w: GetByID - extras: %v", ErrScanRow, err)
		}
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}
