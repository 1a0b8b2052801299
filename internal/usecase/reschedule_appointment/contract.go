package reschedule_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
	planAllocation "github.com/m04kA/SMC-AllocationService/internal/usecase/plan_allocation"
)

// Planner интерфейс планировщика аллокаций
type Planner interface {
	Execute(ctx context.Context, req *planAllocation.Request) (*domain.AllocationPlan, error)
}

// CatalogStore интерфейс справочника услуг (за кешем)
type CatalogStore interface {
	GetServiceWithPhases(ctx context.Context, serviceID int64) (*domain.Service, error)
}

// AppointmentRepository интерфейс репозитория броней
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	UpdateSchedule(ctx context.Context, id int64, serviceID, professionalID int64, startsAt, endsAt time.Time, serviceName string) error
}

// OccupancyLedger интерфейс атомарной замены набора аллокаций
type OccupancyLedger interface {
	ReplaceForAppointment(ctx context.Context, appointmentID int64, records []*domain.AllocationRecord) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
