package plan_allocation

import (
	"context"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
	"github.com/m04kA/SMC-AllocationService/internal/infra/storage/ledger"
)

// CatalogStore интерфейс справочника услуг, специалистов и ресурсов
type CatalogStore interface {
	GetServiceWithPhases(ctx context.Context, serviceID int64) (*domain.Service, error)
	ListActiveProfessionals(ctx context.Context) ([]*domain.Professional, error)
	ListActiveResourcesByType(ctx context.Context, resourceType string) ([]*domain.PhysicalResource, error)
}

// ExceptionStore интерфейс чтения блокирующих исключений расписания
type ExceptionStore interface {
	ListBlocking(ctx context.Context, window domain.TimeWindow) ([]*domain.ScheduleException, error)
}

// OccupancyLedger интерфейс чтения реестра занятости
type OccupancyLedger interface {
	Overlapping(ctx context.Context, window domain.TimeWindow, filter ledger.Filter) ([]*domain.AllocationRecord, error)
}

// WorkingHoursResolver интерфейс проверки рабочих часов и исключений
type WorkingHoursResolver interface {
	CoversAllWindows(duty []domain.DutyWindow, windows []domain.TimeWindow) bool
	ClinicBlocked(excs []*domain.ScheduleException, window domain.TimeWindow) *domain.ScheduleException
	ProfessionalBlocked(excs []*domain.ScheduleException, professionalID int64, windows []domain.TimeWindow) bool
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
