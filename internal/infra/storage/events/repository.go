package events

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	"github.com/m04kA/SMC-SlotEngine/pkg/dbmetrics"
	"github.com/m04kA/SMC-SlotEngine/pkg/psqlbuilder"
)

// Repository репозиторий занятых интервалов календаря ресурса.
// Календарь хранит все занятые интервалы: подтвержденные бронирования
// (строка создается при подтверждении черновика) и внешние блокировки
// вида unavailable.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория событий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByResourceAndDate возвращает снимок занятых интервалов ресурса,
// пересекающих указанные сутки (read-only снимок на момент валидации;
// живых обновлений в процессе оценки нет)
func (r *Repository) GetByResourceAndDate(ctx context.Context, resourceID int64, date time.Time) ([]domain.OccupiedInterval, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	query, args, err := psqlbuilder.Select(
		"start_at",
		"end_at",
		"kind",
	).
		From("calendar_events").
		Where(squirrel.Eq{"resource_id": resourceID}).
		Where(squirrel.Lt{"start_at": dayEnd}).
		Where(squirrel.Gt{"end_at": dayStart}).
		OrderBy("start_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByResourceAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByResourceAndDate - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	intervals := make([]domain.OccupiedInterval, 0)
	for rows.Next() {
		var iv domain.OccupiedInterval
		var kind string
		if err := rows.Scan(&iv.Start, &iv.End, &kind); err != nil {
			return nil, fmt.Errorf("%w: GetByResourceAndDate - scan row: %v", ErrScanRow, err)
		}
		iv.Kind = domain.EventKind(kind)
		intervals = append(intervals, iv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByResourceAndDate - rows iteration: %v", ErrExecQuery, err)
	}

	return intervals, nil
}

// Create добавляет занятый интервал в календарь ресурса.
// Вызывается при подтверждении черновика внутри сериализуемой транзакции.
func (r *Repository) Create(ctx context.Context, resourceID int64, interval domain.OccupiedInterval) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("calendar_events").
		Columns("resource_id", "start_at", "end_at", "kind").
		Values(resourceID, interval.Start, interval.End, string(interval.Kind)).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}
