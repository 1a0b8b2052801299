package search_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AllocationService/internal/infra/storage/catalog"
	planAllocation "github.com/m04kA/SMC-AllocationService/internal/usecase/plan_allocation"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time {
	return f.now
}

// stubPlanner отвечает успехом для времен из available, доменным отказом
// для остальных
type stubPlanner struct {
	available map[time.Time]bool
	calls     []time.Time
}

func (p *stubPlanner) Execute(_ context.Context, req *planAllocation.Request) (*domain.AllocationPlan, error) {
	p.calls = append(p.calls, req.StartsAt)
	if p.available[req.StartsAt] {
		return &domain.AllocationPlan{
			ServiceID:      req.ServiceID,
			ProfessionalID: 1,
			StartsAt:       req.StartsAt,
			EndsAt:         req.StartsAt.Add(30 * time.Minute),
		}, nil
	}
	return nil, &planAllocation.Fail{
		Code:    planAllocation.CodeProfessionalBusy,
		Message: "No professional has available capacity",
	}
}

type stubCatalog struct {
	service *domain.Service
	hours   []domain.DutyWindow
}

func (c *stubCatalog) GetServiceWithPhases(_ context.Context, serviceID int64) (*domain.Service, error) {
	if c.service == nil || c.service.ID != serviceID {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return c.service, nil
}

func (c *stubCatalog) ClinicHours(_ context.Context) ([]domain.DutyWindow, error) {
	return c.hours, nil
}

func testService() *domain.Service {
	return &domain.Service{
		ID:       1,
		Name:     "Consultation",
		IsActive: true,
		Phases: []*domain.ServicePhase{
			{ID: 11, ServiceID: 1, PhaseOrder: 1, DurationMinutes: 30, ProfessionalFraction: 1.0},
		},
	}
}

// Понедельник
var slotsMonday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

func at(day time.Time, hour, minute int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func newSearch(planner Planner, catalog CatalogStore, horizon int) *UseCase {
	uc := NewUseCase(planner, catalog, 30, horizon, nopLogger{})
	uc.timeProvider = fixedTime{now: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)}
	return uc
}

func TestExecute_EnumeratesDay(t *testing.T) {
	catalog := &stubCatalog{
		service: testService(),
		hours: []domain.DutyWindow{
			{Weekday: time.Monday, OpensAt: "09:00", ClosesAt: "11:00"},
		},
	}
	planner := &stubPlanner{available: map[time.Time]bool{
		at(slotsMonday, 9, 0):   true,
		at(slotsMonday, 10, 0):  true,
		at(slotsMonday, 10, 30): true,
	}}

	uc := newSearch(planner, catalog, 7)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: slotsMonday})
	require.NoError(t, err)

	// Кандидаты с шагом 30 минут: 09:00, 09:30, 10:00, 10:30
	// (10:30 + 30 минут услуги заканчивается ровно в закрытие)
	assert.Len(t, planner.calls, 4)

	assert.Equal(t, []time.Time{
		at(slotsMonday, 9, 0),
		at(slotsMonday, 10, 0),
		at(slotsMonday, 10, 30),
	}, resp.Slots)
	assert.Nil(t, resp.Hint)
	assert.Empty(t, resp.Blocks)
}

func TestExecute_MidnightClosingHours(t *testing.T) {
	// Клиника работает до конца суток: closes_at = "24:00"
	catalog := &stubCatalog{
		service: testService(),
		hours: []domain.DutyWindow{
			{Weekday: time.Monday, OpensAt: "22:00", ClosesAt: "24:00"},
		},
	}
	planner := &stubPlanner{available: map[time.Time]bool{
		at(slotsMonday, 22, 0):  true,
		at(slotsMonday, 23, 30): true,
	}}

	uc := newSearch(planner, catalog, 7)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: slotsMonday})
	require.NoError(t, err)

	// Кандидаты 22:00, 22:30, 23:00, 23:30 (23:30 + 30 минут - ровно полночь)
	assert.Len(t, planner.calls, 4)
	assert.Equal(t, []time.Time{
		at(slotsMonday, 22, 0),
		at(slotsMonday, 23, 30),
	}, resp.Slots)
}

func TestExecute_ServiceTooLongForWindow(t *testing.T) {
	service := testService()
	service.Phases[0].DurationMinutes = 180

	catalog := &stubCatalog{
		service: service,
		hours: []domain.DutyWindow{
			{Weekday: time.Monday, OpensAt: "09:00", ClosesAt: "11:00"},
		},
	}
	planner := &stubPlanner{}

	uc := newSearch(planner, catalog, 7)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: slotsMonday})
	require.NoError(t, err)

	// Услуга не помещается до закрытия: ни одного кандидата
	assert.Empty(t, planner.calls)
	assert.Empty(t, resp.Slots)
}

func TestExecute_PastDateReturnsEmpty(t *testing.T) {
	catalog := &stubCatalog{
		service: testService(),
		hours: []domain.DutyWindow{
			{Weekday: time.Monday, OpensAt: "09:00", ClosesAt: "11:00"},
		},
	}
	planner := &stubPlanner{}

	uc := newSearch(planner, catalog, 7)

	resp, err := uc.Execute(context.Background(), &Request{
		ServiceID: 1,
		Date:      time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
	assert.Empty(t, planner.calls)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	uc := newSearch(&stubPlanner{}, &stubCatalog{}, 7)

	_, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: slotsMonday})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_SmartShiftsToNearestOpenDay(t *testing.T) {
	// Клиника работает только по понедельникам; запрошен вторник
	tuesday := slotsMonday.AddDate(0, 0, 1)
	nextMonday := slotsMonday.AddDate(0, 0, 7)

	catalog := &stubCatalog{
		service: testService(),
		hours: []domain.DutyWindow{
			{Weekday: time.Monday, OpensAt: "09:00", ClosesAt: "10:30"},
		},
	}
	planner := &stubPlanner{available: map[time.Time]bool{
		at(nextMonday, 9, 0):  true,
		at(nextMonday, 9, 30): true,
	}}

	uc := newSearch(planner, catalog, 7)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: tuesday, Smart: true})
	require.NoError(t, err)

	assert.Equal(t, nextMonday, resp.Date)
	assert.Equal(t, []time.Time{at(nextMonday, 9, 0), at(nextMonday, 9, 30)}, resp.Slots)

	require.NotNil(t, resp.Hint)
	assert.Equal(t, "No availability on 2026-09-08; the nearest open day is 2026-09-14", *resp.Hint)

	// Два подряд идущих слота - один блок
	require.Len(t, resp.Blocks, 1)
	assert.Equal(t, at(nextMonday, 9, 0), resp.Blocks[0].StartsAt)
	assert.Equal(t, at(nextMonday, 10, 0), resp.Blocks[0].EndsAt)
}

func TestExecute_SmartNoAvailabilityWithinHorizon(t *testing.T) {
	catalog := &stubCatalog{
		service: testService(),
		hours: []domain.DutyWindow{
			{Weekday: time.Monday, OpensAt: "09:00", ClosesAt: "10:00"},
		},
	}
	planner := &stubPlanner{} // всё занято

	uc := newSearch(planner, catalog, 7)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: slotsMonday, Smart: true})
	require.NoError(t, err)

	assert.Equal(t, slotsMonday, resp.Date)
	assert.Empty(t, resp.Slots)
	assert.Nil(t, resp.Hint)
}

func TestGroupIntoBlocks(t *testing.T) {
	slots := []time.Time{
		at(slotsMonday, 9, 0),
		at(slotsMonday, 9, 30),
		at(slotsMonday, 11, 0),
	}

	blocks := groupIntoBlocks(slots, 30)

	require.Len(t, blocks, 2)

	assert.Equal(t, at(slotsMonday, 9, 0), blocks[0].StartsAt)
	assert.Equal(t, at(slotsMonday, 10, 0), blocks[0].EndsAt)
	assert.Len(t, blocks[0].Slots, 2)

	assert.Equal(t, at(slotsMonday, 11, 0), blocks[1].StartsAt)
	assert.Equal(t, at(slotsMonday, 11, 30), blocks[1].EndsAt)
	assert.Len(t, blocks[1].Slots, 1)
}

func TestGroupIntoBlocks_Empty(t *testing.T) {
	assert.Empty(t, groupIntoBlocks(nil, 30))
}
