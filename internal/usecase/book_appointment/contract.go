package book_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
	"github.com/m04kA/SMC-AllocationService/internal/integrations/patientservice"
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
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
}

// OccupancyLedger интерфейс записи в реестр занятости
type OccupancyLedger interface {
	InsertSet(ctx context.Context, records []*domain.AllocationRecord) error
}

// PatientServiceClient интерфейс клиента PatientService
type PatientServiceClient interface {
	GetPatientWithGracefulDegradation(ctx context.Context, patientID int64) (*patientservice.Patient, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
