package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
	"github.com/m04kA/SMC-AllocationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AllocationService/pkg/psqlbuilder"
)

// Repository реестр занятости: активные записи аллокаций специалистов и ресурсов
//
// Записи читаются для подсчета занятости (доли специалистов, эксклюзивность
// ресурсов) и пишутся только наборами: вставка набора, атомарная замена набора
// брони, деактивация набора брони. Частичное состояние никогда не видно —
// пишущие операции выполняются внутри сериализуемой транзакции вызывающего.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр реестра занятости
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Overlapping получает активные записи аллокаций, пересекающиеся с окном.
// Пересечение полуоткрытое: касание границ пересечением не считается.
//
// Внутри транзакции добавляет FOR UPDATE, чтобы закрыть гонку
// "прочитали - решили - записали" между конкурентными бронированиями.
func (r *Repository) Overlapping(ctx context.Context, window domain.TimeWindow, filter Filter) ([]*domain.AllocationRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"appointment_id",
		"phase_id",
		"professional_id",
		"physical_resource_id",
		"starts_at",
		"ends_at",
		"fraction",
		"is_active",
		"created_at",
	).
		From("allocations").
		Where(squirrel.Eq{"is_active": true}).
		Where(squirrel.Lt{"starts_at": window.EndsAt}).
		Where(squirrel.Gt{"ends_at": window.StartsAt})

	if filter.ProfessionalID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"professional_id": *filter.ProfessionalID})
	}
	if filter.PhysicalResourceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"physical_resource_id": *filter.PhysicalResourceID})
	}
	if filter.ExcludeAppointmentID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"appointment_id": *filter.ExcludeAppointmentID})
	}

	selectBuilder = selectBuilder.OrderBy("id ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Overlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Overlapping - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanRecords(rows)
}

// InsertSet вставляет набор записей аллокаций одной брони
// Должен вызываться внутри транзакции создания/переноса брони
func (r *Repository) InsertSet(ctx context.Context, records []*domain.AllocationRecord) error {
	if len(records) == 0 {
		return ErrEmptySet
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("allocations").
		Columns(
			"appointment_id",
			"phase_id",
			"professional_id",
			"physical_resource_id",
			"starts_at",
			"ends_at",
			"fraction",
			"is_active",
		)

	for _, rec := range records {
		insertBuilder = insertBuilder.Values(
			rec.AppointmentID,
			rec.PhaseID,
			rec.ProfessionalID,
			rec.PhysicalResourceID,
			rec.StartsAt,
			rec.EndsAt,
			rec.Fraction,
			true,
		)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: InsertSet - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: InsertSet - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// ReplaceForAppointment атомарно заменяет набор аллокаций брони:
// деактивирует старые записи и вставляет новые. Обе операции выполняются
// одним executor'ом; атомарность обеспечивает объемлющая транзакция.
func (r *Repository) ReplaceForAppointment(ctx context.Context, appointmentID int64, records []*domain.AllocationRecord) error {
	if len(records) == 0 {
		return ErrEmptySet
	}

	if err := r.DeactivateByAppointment(ctx, appointmentID); err != nil {
		return err
	}

	return r.InsertSet(ctx, records)
}

// DeactivateByAppointment деактивирует все активные записи аллокаций брони
// Деактивированные записи сразу исключаются из всех расчетов занятости
func (r *Repository) DeactivateByAppointment(ctx context.Context, appointmentID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("allocations").
		Set("is_active", false).
		Where(squirrel.Eq{"appointment_id": appointmentID, "is_active": true}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeactivateByAppointment - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeactivateByAppointment - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// scanRecords сканирует результаты запроса в слайс записей аллокаций
func (r *Repository) scanRecords(rows *sql.Rows) ([]*domain.AllocationRecord, error) {
	records := make([]*domain.AllocationRecord, 0)

	for rows.Next() {
		var rec domain.AllocationRecord
		var createdAt sql.NullTime

		if err := rows.Scan(
			&rec.ID,
			&rec.AppointmentID,
			&rec.PhaseID,
			&rec.ProfessionalID,
			&rec.PhysicalResourceID,
			&rec.StartsAt,
			&rec.EndsAt,
			&rec.Fraction,
			&rec.IsActive,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanRecords - scan row: %v", ErrScanRow, err)
		}

		rec.CreatedAt = createdAt.Time
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanRecords - rows error: %v", ErrScanRow, err)
	}

	return records, nil
}
