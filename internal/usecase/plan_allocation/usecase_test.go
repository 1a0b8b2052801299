package plan_allocation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AllocationService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AllocationService/internal/infra/storage/ledger"
	"github.com/m04kA/SMC-AllocationService/internal/service/workinghours"
	"github.com/m04kA/SMC-AllocationService/pkg/ptr"
)

// Понедельник
var monday = time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeCatalog struct {
	services      map[int64]*domain.Service
	professionals []*domain.Professional
	resources     map[string][]*domain.PhysicalResource
}

func (f *fakeCatalog) GetServiceWithPhases(_ context.Context, serviceID int64) (*domain.Service, error) {
	service, ok := f.services[serviceID]
	if !ok {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return service, nil
}

func (f *fakeCatalog) ListActiveProfessionals(_ context.Context) ([]*domain.Professional, error) {
	return f.professionals, nil
}

func (f *fakeCatalog) ListActiveResourcesByType(_ context.Context, resourceType string) ([]*domain.PhysicalResource, error) {
	return f.resources[resourceType], nil
}

type fakeExceptions struct {
	excs []*domain.ScheduleException
}

func (f *fakeExceptions) ListBlocking(_ context.Context, window domain.TimeWindow) ([]*domain.ScheduleException, error) {
	result := make([]*domain.ScheduleException, 0)
	for _, exc := range f.excs {
		if exc.Window().Overlaps(window) {
			result = append(result, exc)
		}
	}
	return result, nil
}

type fakeLedger struct {
	records []*domain.AllocationRecord
}

func (f *fakeLedger) Overlapping(_ context.Context, window domain.TimeWindow, filter ledger.Filter) ([]*domain.AllocationRecord, error) {
	result := make([]*domain.AllocationRecord, 0)
	for _, rec := range f.records {
		if !rec.IsActive || !rec.Window().Overlaps(window) {
			continue
		}
		if filter.ProfessionalID != nil && rec.ProfessionalID != *filter.ProfessionalID {
			continue
		}
		if filter.PhysicalResourceID != nil &&
			(rec.PhysicalResourceID == nil || *rec.PhysicalResourceID != *filter.PhysicalResourceID) {
			continue
		}
		if filter.ExcludeAppointmentID != nil && rec.AppointmentID == *filter.ExcludeAppointmentID {
			continue
		}
		result = append(result, rec)
	}
	return result, nil
}

func weekdayDuty(weekday time.Weekday) []domain.DutyWindow {
	return []domain.DutyWindow{
		{Weekday: weekday, OpensAt: "09:00", ClosesAt: "18:00"},
	}
}

func singlePhaseService(fraction float64, resourceType *string) *domain.Service {
	return &domain.Service{
		ID:       1,
		Name:     "Consultation",
		IsActive: true,
		Phases: []*domain.ServicePhase{
			{ID: 11, ServiceID: 1, PhaseOrder: 1, DurationMinutes: 30,
				ProfessionalFraction: fraction, ResourceType: resourceType},
		},
	}
}

func newPlanner(catalog *fakeCatalog, excs *fakeExceptions, led *fakeLedger) *UseCase {
	return NewUseCase(catalog, excs, led, workinghours.NewResolver(), nopLogger{})
}

func TestExecute_ServiceNotFound(t *testing.T) {
	uc := newPlanner(&fakeCatalog{services: map[int64]*domain.Service{}}, &fakeExceptions{}, &fakeLedger{})

	_, err := uc.Execute(context.Background(), &Request{ServiceID: 99, StartsAt: monday})

	fail, ok := AsFail(err)
	require.True(t, ok)
	assert.Equal(t, CodeNotFound, fail.Code)
	assert.Equal(t, "Service not found", fail.Message)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newPlanner(&fakeCatalog{}, &fakeExceptions{}, &fakeLedger{})

	tests := []struct {
		name string
		req  *Request
	}{
		{"zero service id", &Request{ServiceID: 0, StartsAt: monday}},
		{"zero time", &Request{ServiceID: 1}},
		{"second precision", &Request{ServiceID: 1, StartsAt: monday.Add(30 * time.Second)}},
		{"bad exclude id", &Request{ServiceID: 1, StartsAt: monday, ExcludeAppointmentID: ptr.Ptr(int64(0))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_ClinicBlocked(t *testing.T) {
	catalog := &fakeCatalog{
		services: map[int64]*domain.Service{1: singlePhaseService(1.0, nil)},
		professionals: []*domain.Professional{
			{ID: 1, Name: "Anna", IsActive: true, DutyHours: weekdayDuty(time.Monday)},
		},
	}
	excs := &fakeExceptions{excs: []*domain.ScheduleException{
		{ID: 1, ProfessionalID: nil, StartsAt: monday.Add(-time.Hour), EndsAt: monday.Add(time.Hour)},
	}}

	uc := newPlanner(catalog, excs, &fakeLedger{})

	_, err := uc.Execute(context.Background(), &Request{ServiceID: 1, StartsAt: monday})

	fail, ok := AsFail(err)
	require.True(t, ok)
	assert.Equal(t, CodeClinicBlocked, fail.Code)
}

func TestExecute_OutOfSchedule(t *testing.T) {
	catalog := &fakeCatalog{
		services: map[int64]*domain.Service{1: singlePhaseService(1.0, nil)},
		professionals: []*domain.Professional{
			// Работает только по вторникам
			{ID: 1, Name: "Anna", IsActive: true, DutyHours: weekdayDuty(time.Tuesday)},
		},
	}

	uc := newPlanner(catalog, &fakeExceptions{}, &fakeLedger{})

	_, err := uc.Execute(context.Background(), &Request{ServiceID: 1, StartsAt: monday})

	fail, ok := AsFail(err)
	require.True(t, ok)
	assert.Equal(t, CodeOutOfSchedule, fail.Code)
	assert.Equal(t, "No professional on duty at this specific time frame", fail.Message)
}

func TestExecute_PersonalExceptionExcludesProfessional(t *testing.T) {
	catalog := &fakeCatalog{
		services: map[int64]*domain.Service{1: singlePhaseService(1.0, nil)},
		professionals: []*domain.Professional{
			{ID: 1, Name: "Anna", IsActive: true, DutyHours: weekdayDuty(time.Monday)},
			{ID: 2, Name: "Boris", IsActive: true, DutyHours: weekdayDuty(time.Monday)},
		},
	}
	// Личное исключение у первого специалиста
	excs := &fakeExceptions{excs: []*domain.ScheduleException{
		{ID: 1, ProfessionalID: ptr.Ptr(int64(1)), StartsAt: monday, EndsAt: monday.Add(time.Hour)},
	}}

	uc := newPlanner(catalog, excs, &fakeLedger{})

	plan, err := uc.Execute(context.Background(), &Request{ServiceID: 1, StartsAt: monday})
	require.NoError(t, err)
	assert.Equal(t, int64(2), plan.ProfessionalID)
}

func TestExecute_ProfessionalBusy(t *testing.T) {
	catalog := &fakeCatalog{
		services: map[int64]*domain.Service{1: singlePhaseService(0.5, nil)},
		professionals: []*domain.Professional{
			{ID: 1, Name: "Anna", IsActive: true, DutyHours: weekdayDuty(time.Monday)},
		},
	}
	// Занято 0.6: с долей фазы 0.5 превышает полную занятость
	led := &fakeLedger{records: []*domain.AllocationRecord{
		{ID: 1, AppointmentID: 100, ProfessionalID: 1,
			StartsAt: monday, EndsAt: monday.Add(30 * time.Minute), Fraction: 0.6, IsActive: true},
	}}

	uc := newPlanner(catalog, &fakeExceptions{}, led)

	_, err := uc.Execute(context.Background(), &Request{ServiceID: 1, StartsAt: monday})

	fail, ok := AsFail(err)
	require.True(t, ok)
	assert.Equal(t, CodeProfessionalBusy, fail.Code)
	assert.Equal(t, "No professional has available capacity", fail.Message)
}

func TestExecute_FractionsSumToExactlyFull(t *testing.T) {
	catalog := &fakeCatalog{
		services: map[int64]*domain.Service{1: singlePhaseService(0.5, nil)},
		professionals: []*domain.Professional{
			{ID: 1, Name: "Anna", IsActive: true, DutyHours: weekdayDuty(time.Monday)},
		},
	}
	// 0.5 занято + 0.5 фазы = ровно 1.0: допустимо
	led := &fakeLedger{records: []*domain.AllocationRecord{
		{ID: 1, AppointmentID: 100, ProfessionalID: 1,
			StartsAt: monday, EndsAt: monday.Add(30 * time.Minute), Fraction: 0.5, IsActive: true},
	}}

	uc := newPlanner(catalog, &fakeExceptions{}, led)

	plan, err := uc.Execute(context.Background(), &Request{ServiceID: 1, StartsAt: monday})
	require.NoError(t, err)
	assert.Equal(t, int64(1), plan.ProfessionalID)
}

func TestExecute_TouchingWindowsDoNotConflict(t *testing.T) {
	catalog := &fakeCatalog{
		services: map[int64]*domain.Service{1: singlePhaseService(1.0, nil)},
		professionals: []*domain.Professional{
			{ID: 1, Name: "Anna", IsActive: true, DutyHours: weekdayDuty(time.Monday)},
		},
	}
	// Запись заканчивается ровно в начале запрошенного окна
	led := &fakeLedger{records: []*domain.AllocationRecord{
		{ID: 1, AppointmentID: 100, ProfessionalID: 1,
			StartsAt: monday.Add(-time.Hour), EndsAt: monday, Fraction: 1.0, IsActive: true},
	}}

	uc := newPlanner(catalog, &fakeExceptions{}, led)

	plan, err := uc.Execute(context.Background(), &Request{ServiceID: 1, StartsAt: monday})
	require.NoError(t, err)
	assert.Equal(t, int64(1), plan.ProfessionalID)
}

func TestExecute_DeterministicLowestIDWins(t *testing.T) {
	catalog := &fakeCatalog{
		services: map[int64]*domain.Service{1: singlePhaseService(1.0, ptr.Ptr("laser"))},
		professionals: []*domain.Professional{
			// Нарочно в обратном порядке
			{ID: 3, Name: "Vera", IsActive: true, DutyHours: weekdayDuty(time.Monday)},
			{ID: 1, Name: "Anna", IsActive: true, DutyHours: weekdayDuty(time.Monday)},
		},
		resources: map[string][]*domain.PhysicalResource{
			"laser": {
				{ID: 7, Name: "Laser B", Type: "laser", IsActive: true},
				{ID: 4, Name: "Laser A", Type: "laser", IsActive: true},
			},
		},
	}

	uc := newPlanner(catalog, &fakeExceptions{}, &fakeLedger{})

	plan, err := uc.Execute(context.Background(), &Request{ServiceID: 1, StartsAt: monday})
	require.NoError(t, err)
	assert.Equal(t, int64(1), plan.ProfessionalID)
	require.Len(t, plan.Allocations, 1)
	require.NotNil(t, plan.Allocations[0].PhysicalResourceID)
	assert.Equal(t, int64(4), *plan.Allocations[0].PhysicalResourceID)
}

func TestExecute_RepeatedCallsProduceIdenticalPlans(t *testing.T) {
	catalog := &fakeCatalog{
		services: map[int64]*domain.Service{1: singlePhaseService(0.5, ptr.Ptr("laser"))},
		professionals: []*domain.Professional{
			{ID: 2, Name: "Boris", IsActive: true, DutyHours: weekdayDuty(time.Monday)},
			{ID: 1, Name: "Anna", IsActive: true, DutyHours: weekdayDuty(time.Monday)},
		},
		resources: map[string][]*domain.PhysicalResource{
			"laser": {
				{ID: 7, Name: "Laser B", Type: "laser", IsActive: true},
				{ID: 4, Name: "Laser A", Type: "laser", IsActive: true},
			},
		},
	}

	uc := newPlanner(catalog, &fakeExceptions{}, &fakeLedger{})

	// Планирование ничего не пишет: повторный вызов на неизменном состоянии
	// дает в точности тот же план
	first, err := uc.Execute(context.Background(), &Request{ServiceID: 1, StartsAt: monday})
	require.NoError(t, err)

	second, err := uc.Execute(context.Background(), &Request{ServiceID: 1, StartsAt: monday})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExecute_ResourceBusy(t *testing.T) {
	catalog := &fakeCatalog{
		services: map[int64]*domain.Service{1: singlePhaseService(1.0, ptr.Ptr("laser"))},
		professionals: []*domain.Professional{
			{ID: 1, Name: "Anna", IsActive: true, DutyHours: weekdayDuty(time.Monday)},
		},
		resources: map[string][]*domain.PhysicalResource{
			"laser": {{ID: 4, Name: "Laser A", Type: "laser", IsActive: true}},
		},
	}
	// Единственный лазер занят другим специалистом с пересечением окна
	led := &fakeLedger{records: []*domain.AllocationRecord{
		{ID: 1, AppointmentID: 100, ProfessionalID: 2, PhysicalResourceID: ptr.Ptr(int64(4)),
			StartsAt: monday.Add(15 * time.Minute), EndsAt: monday.Add(45 * time.Minute),
			Fraction: 1.0, IsActive: true},
	}}

	uc := newPlanner(catalog, &fakeExceptions{}, led)

	_, err := uc.Execute(context.Background(), &Request{ServiceID: 1, StartsAt: monday})

	fail, ok := AsFail(err)
	require.True(t, ok)
	assert.Equal(t, CodeResourceBusy, fail.Code)
	assert.Equal(t, "No laser available at this specific time frame", fail.Message)
}

func TestExecute_MultiPhaseLayout(t *testing.T) {
	service := &domain.Service{
		ID:       1,
		Name:     "Laser treatment",
		IsActive: true,
		Phases: []*domain.ServicePhase{
			{ID: 11, ServiceID: 1, PhaseOrder: 1, DurationMinutes: 30,
				ProfessionalFraction: 1.0, ResourceType: ptr.Ptr("laser")},
			{ID: 12, ServiceID: 1, PhaseOrder: 2, DurationMinutes: 15,
				ProfessionalFraction: 0.25},
		},
	}
	catalog := &fakeCatalog{
		services: map[int64]*domain.Service{1: service},
		professionals: []*domain.Professional{
			{ID: 1, Name: "Anna", IsActive: true, DutyHours: weekdayDuty(time.Monday)},
		},
		resources: map[string][]*domain.PhysicalResource{
			"laser": {{ID: 4, Name: "Laser A", Type: "laser", IsActive: true}},
		},
	}

	uc := newPlanner(catalog, &fakeExceptions{}, &fakeLedger{})

	plan, err := uc.Execute(context.Background(), &Request{ServiceID: 1, StartsAt: monday})
	require.NoError(t, err)

	require.Len(t, plan.Allocations, 2)

	// Окна фаз стыкуются без зазоров, специалист один на все фазы
	first, second := plan.Allocations[0], plan.Allocations[1]
	assert.Equal(t, monday, first.StartsAt)
	assert.Equal(t, monday.Add(30*time.Minute), first.EndsAt)
	assert.Equal(t, first.EndsAt, second.StartsAt)
	assert.Equal(t, monday.Add(45*time.Minute), second.EndsAt)
	assert.Equal(t, first.ProfessionalID, second.ProfessionalID)

	// Ресурс только у фазы с требованием типа
	assert.NotNil(t, first.PhysicalResourceID)
	assert.Nil(t, second.PhysicalResourceID)

	// Границы плана - объединение окон фаз
	assert.Equal(t, monday, plan.StartsAt)
	assert.Equal(t, monday.Add(45*time.Minute), plan.EndsAt)
}

func TestExecute_ExcludeAppointmentFreesOwnRecords(t *testing.T) {
	catalog := &fakeCatalog{
		services: map[int64]*domain.Service{1: singlePhaseService(1.0, nil)},
		professionals: []*domain.Professional{
			{ID: 1, Name: "Anna", IsActive: true, DutyHours: weekdayDuty(time.Monday)},
		},
	}
	// Полная занятость записью брони 42
	led := &fakeLedger{records: []*domain.AllocationRecord{
		{ID: 1, AppointmentID: 42, ProfessionalID: 1,
			StartsAt: monday, EndsAt: monday.Add(30 * time.Minute), Fraction: 1.0, IsActive: true},
	}}

	uc := newPlanner(catalog, &fakeExceptions{}, led)

	// Без исключения - занято
	_, err := uc.Execute(context.Background(), &Request{ServiceID: 1, StartsAt: monday})
	fail, ok := AsFail(err)
	require.True(t, ok)
	assert.Equal(t, CodeProfessionalBusy, fail.Code)

	// С исключением собственной брони - свободно
	plan, err := uc.Execute(context.Background(), &Request{
		ServiceID:            1,
		StartsAt:             monday,
		ExcludeAppointmentID: ptr.Ptr(int64(42)),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), plan.ProfessionalID)
}

func TestExecute_InternalErrorIsNotAFail(t *testing.T) {
	uc := NewUseCase(
		&failingCatalog{},
		&fakeExceptions{},
		&fakeLedger{},
		workinghours.NewResolver(),
		nopLogger{},
	)

	_, err := uc.Execute(context.Background(), &Request{ServiceID: 1, StartsAt: monday})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternal)
	_, ok := AsFail(err)
	assert.False(t, ok)
}

type failingCatalog struct{}

func (failingCatalog) GetServiceWithPhases(context.Context, int64) (*domain.Service, error) {
	return nil, errors.New("connection refused")
}

func (failingCatalog) ListActiveProfessionals(context.Context) ([]*domain.Professional, error) {
	return nil, errors.New("connection refused")
}

func (failingCatalog) ListActiveResourcesByType(context.Context, string) ([]*domain.PhysicalResource, error) {
	return nil, errors.New("connection refused")
}
