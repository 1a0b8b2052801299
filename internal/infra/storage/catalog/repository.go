package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
	"github.com/m04kA/SMC-AllocationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AllocationService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AllocationService/pkg/types"
)

// Repository репозиторий справочных данных: услуги, фазы, специалисты,
// физические ресурсы и рабочие часы
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetServiceWithPhases получает услугу вместе с её фазами, отсортированными по phase_order
func (r *Repository) GetServiceWithPhases(ctx context.Context, serviceID int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("services").
		Where(squirrel.Eq{"id": serviceID, "is_active": true}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceWithPhases - build service query: %v", ErrBuildQuery, err)
	}

	var service domain.Service
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&service.ID,
		&service.Name,
		&service.IsActive,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceWithPhases - scan service: %v", ErrScanRow, err)
	}

	service.CreatedAt = createdAt.Time
	service.UpdatedAt = updatedAt.Time

	phases, err := r.getPhases(ctx, executor, serviceID)
	if err != nil {
		return nil, err
	}
	if len(phases) == 0 {
		// Услуга без фаз не может быть запланирована
		return nil, ErrServiceNotFound
	}
	service.Phases = phases

	return &service, nil
}

func (r *Repository) getPhases(ctx context.Context, executor DBExecutor, serviceID int64) ([]*domain.ServicePhase, error) {
	query, args, err := psqlbuilder.Select(
		"id",
		"service_id",
		"phase_order",
		"duration_minutes",
		"professional_fraction",
		"resource_type",
	).
		From("service_phases").
		Where(squirrel.Eq{"service_id": serviceID}).
		OrderBy("phase_order ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getPhases - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getPhases - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	phases := make([]*domain.ServicePhase, 0)
	for rows.Next() {
		var phase domain.ServicePhase
		if err := rows.Scan(
			&phase.ID,
			&phase.ServiceID,
			&phase.PhaseOrder,
			&phase.DurationMinutes,
			&phase.ProfessionalFraction,
			&phase.ResourceType,
		); err != nil {
			return nil, fmt.Errorf("%w: getPhases - scan row: %v", ErrScanRow, err)
		}
		phases = append(phases, &phase)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getPhases - rows error: %v", ErrScanRow, err)
	}

	return phases, nil
}

// ListActiveProfessionals получает активных специалистов вместе с их рабочими
// часами, отсортированных по ID (стабильный порядок для детерминизма планировщика)
func (r *Repository) ListActiveProfessionals(ctx context.Context) ([]*domain.Professional, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("professionals").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveProfessionals - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveProfessionals - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	professionals := make([]*domain.Professional, 0)
	byID := make(map[int64]*domain.Professional)

	for rows.Next() {
		var p domain.Professional
		var createdAt, updatedAt sql.NullTime

		if err := rows.Scan(&p.ID, &p.Name, &p.IsActive, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListActiveProfessionals - scan row: %v", ErrScanRow, err)
		}

		p.CreatedAt = createdAt.Time
		p.UpdatedAt = updatedAt.Time
		professionals = append(professionals, &p)
		byID[p.ID] = &p
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActiveProfessionals - rows error: %v", ErrScanRow, err)
	}

	if err := r.attachDutyHours(ctx, executor, byID); err != nil {
		return nil, err
	}

	return professionals, nil
}

func (r *Repository) attachDutyHours(ctx context.Context, executor DBExecutor, byID map[int64]*domain.Professional) error {
	if len(byID) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	query, args, err := psqlbuilder.Select(
		"professional_id",
		"weekday",
		"opens_at",
		"closes_at",
	).
		From("working_hours").
		Where(squirrel.Eq{"professional_id": ids}).
		OrderBy("professional_id ASC, weekday ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: attachDutyHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: attachDutyHours - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var professionalID int64
		var weekday int
		var opensAt, closesAt string

		if err := rows.Scan(&professionalID, &weekday, &opensAt, &closesAt); err != nil {
			return fmt.Errorf("%w: attachDutyHours - scan row: %v", ErrScanRow, err)
		}

		p, ok := byID[professionalID]
		if !ok {
			continue
		}
		p.DutyHours = append(p.DutyHours, domain.DutyWindow{
			Weekday:  time.Weekday(weekday),
			OpensAt:  types.TimeString(opensAt),
			ClosesAt: types.TimeString(closesAt),
		})
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: attachDutyHours - rows error: %v", ErrScanRow, err)
	}

	return nil
}

// ListActiveResourcesByType получает активные физические ресурсы указанного
// типа, отсортированные по ID (стабильный порядок для детерминизма планировщика)
func (r *Repository) ListActiveResourcesByType(ctx context.Context, resourceType string) ([]*domain.PhysicalResource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"type",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("physical_resources").
		Where(squirrel.Eq{"type": resourceType, "is_active": true}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveResourcesByType - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveResourcesByType - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	resources := make([]*domain.PhysicalResource, 0)
	for rows.Next() {
		var res domain.PhysicalResource
		var createdAt, updatedAt sql.NullTime

		if err := rows.Scan(&res.ID, &res.Name, &res.Type, &res.IsActive, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListActiveResourcesByType - scan row: %v", ErrScanRow, err)
		}

		res.CreatedAt = createdAt.Time
		res.UpdatedAt = updatedAt.Time
		resources = append(resources, &res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActiveResourcesByType - rows error: %v", ErrScanRow, err)
	}

	return resources, nil
}

// ClinicHours получает рабочие часы клиники (строки working_hours без специалиста)
func (r *Repository) ClinicHours(ctx context.Context) ([]domain.DutyWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"weekday",
		"opens_at",
		"closes_at",
	).
		From("working_hours").
		Where("professional_id IS NULL").
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ClinicHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ClinicHours - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	windows := make([]domain.DutyWindow, 0)
	for rows.Next() {
		var weekday int
		var opensAt, closesAt string

		if err := rows.Scan(&weekday, &opensAt, &closesAt); err != nil {
			return nil, fmt.Errorf("%w: ClinicHours - scan row: %v", ErrScanRow, err)
		}

		windows = append(windows, domain.DutyWindow{
			Weekday:  time.Weekday(weekday),
			OpensAt:  types.TimeString(opensAt),
			ClosesAt: types.TimeString(closesAt),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ClinicHours - rows error: %v", ErrScanRow, err)
	}

	return windows, nil
}
