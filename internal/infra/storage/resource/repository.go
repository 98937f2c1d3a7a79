package resource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	"github.com/m04kA/SMC-SlotEngine/pkg/dbmetrics"
	"github.com/m04kA/SMC-SlotEngine/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SlotEngine/pkg/types"
)

// Repository репозиторий конфигурации ресурсов и их услуг
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория ресурсов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetResourceContext получает снимок настроек ресурса
func (r *Repository) GetResourceContext(ctx context.Context, resourceID int64) (*domain.ResourceContext, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"opening_minutes",
		"closing_minutes",
		"step_minutes",
		"min_duration_minutes",
		"max_duration_minutes",
		"spacing_minutes",
		"timezone",
		"future_limit_days",
		"created_at",
		"updated_at",
	).
		From("resources").
		Where(squirrel.Eq{"id": resourceID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetResourceContext - build select query: %v", ErrBuildQuery, err)
	}

	var rctx domain.ResourceContext
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rctx.ResourceID,
		&rctx.OpeningMinutes,
		&rctx.ClosingMinutes,
		&rctx.StepMinutes,
		&rctx.MinDurationMinutes,
		&rctx.MaxDurationMinutes,
		&rctx.SpacingMinutes,
		&rctx.Timezone,
		&rctx.FutureLimitDays,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetResourceContext - scan row: %v", ErrScanRow, err)
	}

	rctx.CreatedAt = createdAt.Time
	rctx.UpdatedAt = updatedAt.Time

	return &rctx, nil
}

// GetService получает услугу ресурса по идентификатору
func (r *Repository) GetService(ctx context.Context, resourceID, serviceID int64) (*domain.ServiceDescriptor, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"resource_id",
		"title",
		"duration_steps",
		"availability_mode",
		"available_from",
		"available_to",
		"created_at",
		"updated_at",
	).
		From("services").
		Where(squirrel.Eq{"id": serviceID, "resource_id": resourceID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	var svc domain.ServiceDescriptor
	var mode string
	var from, to sql.NullString
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&svc.ID,
		&svc.ResourceID,
		&svc.Title,
		&svc.DurationSteps,
		&mode,
		&from,
		&to,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan row: %v", ErrScanRow, err)
	}

	svc.Availability.Mode = domain.AvailabilityMode(mode)
	if from.Valid {
		svc.Availability.From = truncateTime(from.String)
	}
	if to.Valid {
		svc.Availability.To = truncateTime(to.String)
	}
	svc.CreatedAt = createdAt.Time
	svc.UpdatedAt = updatedAt.Time

	return &svc, nil
}

// truncateTime обрезает значение колонки TIME ("10:00:00") до формата HH:MM
func truncateTime(s string) types.TimeString {
	if len(s) > 5 {
		s = s[:5]
	}
	return types.TimeString(s)
}
