package search_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
	planAllocation "github.com/m04kA/SMC-AllocationService/internal/usecase/plan_allocation"
)

// Planner интерфейс планировщика аллокаций (dry-run, без записей)
type Planner interface {
	Execute(ctx context.Context, req *planAllocation.Request) (*domain.AllocationPlan, error)
}

// CatalogStore интерфейс справочника услуг и рабочих часов клиники
type CatalogStore interface {
	GetServiceWithPhases(ctx context.Context, serviceID int64) (*domain.Service, error)
	ClinicHours(ctx context.Context) ([]domain.DutyWindow, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
