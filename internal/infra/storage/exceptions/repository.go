package exceptions

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
	"github.com/m04kA/SMC-AllocationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AllocationService/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий блокирующих исключений расписания
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория исключений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListBlocking получает все исключения (клиники и специалистов),
// пересекающиеся с указанным окном. Пересечение полуоткрытое:
// касание границ пересечением не считается.
func (r *Repository) ListBlocking(ctx context.Context, window domain.TimeWindow) ([]*domain.ScheduleException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"professional_id",
		"starts_at",
		"ends_at",
		"reason",
		"created_at",
	).
		From("schedule_exceptions").
		Where(squirrel.Lt{"starts_at": window.EndsAt}).
		Where(squirrel.Gt{"ends_at": window.StartsAt}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListBlocking - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBlocking - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.ScheduleException, 0)
	for rows.Next() {
		var exc domain.ScheduleException
		if err := rows.Scan(
			&exc.ID,
			&exc.ProfessionalID,
			&exc.StartsAt,
			&exc.EndsAt,
			&exc.Reason,
			&exc.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: ListBlocking - scan row: %v", ErrScanRow, err)
		}
		result = append(result, &exc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBlocking - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}
