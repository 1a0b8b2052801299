package book_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AllocationService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AllocationService/internal/integrations/patientservice"
	planAllocation "github.com/m04kA/SMC-AllocationService/internal/usecase/plan_allocation"
	"github.com/m04kA/SMC-AllocationService/pkg/ptr"
)

var bookingStart = time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)

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

type stubPlanner struct {
	plan *domain.AllocationPlan
	err  error
}

func (p *stubPlanner) Execute(_ context.Context, req *planAllocation.Request) (*domain.AllocationPlan, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.plan, nil
}

type stubCatalog struct {
	service *domain.Service
}

func (c *stubCatalog) GetServiceWithPhases(_ context.Context, serviceID int64) (*domain.Service, error) {
	if c.service == nil {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return c.service, nil
}

type fakeApptRepo struct {
	created *domain.Appointment
}

func (r *fakeApptRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	appt.ID = 55
	appt.CreatedAt = time.Now()
	appt.UpdatedAt = appt.CreatedAt
	r.created = appt
	return appt, nil
}

type fakeLedger struct {
	inserted []*domain.AllocationRecord
}

func (l *fakeLedger) InsertSet(_ context.Context, records []*domain.AllocationRecord) error {
	l.inserted = append(l.inserted, records...)
	return nil
}

type stubPatientClient struct {
	patient *patientservice.Patient
	err     error
}

func (c *stubPatientClient) GetPatientWithGracefulDegradation(_ context.Context, _ int64) (*patientservice.Patient, error) {
	return c.patient, c.err
}

// fakeTx выполняет функцию без реальной транзакции
type fakeTx struct{}

func (fakeTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func testPlan() *domain.AllocationPlan {
	return &domain.AllocationPlan{
		ServiceID:      1,
		ProfessionalID: 2,
		StartsAt:       bookingStart,
		EndsAt:         bookingStart.Add(45 * time.Minute),
		Allocations: []domain.PlannedAllocation{
			{PhaseID: 11, PhaseOrder: 1, ProfessionalID: 2,
				StartsAt: bookingStart, EndsAt: bookingStart.Add(30 * time.Minute), Fraction: 1.0},
			{PhaseID: 12, PhaseOrder: 2, ProfessionalID: 2, PhysicalResourceID: ptr.Ptr(int64(4)),
				StartsAt: bookingStart.Add(30 * time.Minute), EndsAt: bookingStart.Add(45 * time.Minute), Fraction: 0.5},
		},
	}
}

func newBooking(planner Planner, patientClient PatientServiceClient, apptRepo *fakeApptRepo, led *fakeLedger) *UseCase {
	uc := NewUseCase(
		planner,
		&stubCatalog{service: &domain.Service{ID: 1, Name: "Laser treatment", IsActive: true,
			Phases: []*domain.ServicePhase{{ID: 11, DurationMinutes: 45, ProfessionalFraction: 1.0}}}},
		apptRepo,
		led,
		patientClient,
		fakeTx{},
		nopLogger{},
	)
	uc.timeProvider = fixedTime{now: bookingStart.Add(-24 * time.Hour)}
	return uc
}

func TestExecute_Success(t *testing.T) {
	apptRepo := &fakeApptRepo{}
	led := &fakeLedger{}
	patientClient := &stubPatientClient{patient: &patientservice.Patient{ID: 7, FullName: "Ivan Petrov"}}

	uc := newBooking(&stubPlanner{plan: testPlan()}, patientClient, apptRepo, led)

	resp, err := uc.Execute(context.Background(), &Request{
		PatientID: 7,
		ServiceID: 1,
		StartsAt:  bookingStart,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(55), resp.ID)
	assert.Equal(t, "scheduled", resp.Status)
	assert.Equal(t, int64(2), resp.ProfessionalID)
	assert.Equal(t, "Laser treatment", resp.ServiceName)
	require.NotNil(t, resp.PatientName)
	assert.Equal(t, "Ivan Petrov", *resp.PatientName)
	assert.Len(t, resp.Allocations, 2)

	// Записи реестра привязаны к созданной брони и активны
	require.Len(t, led.inserted, 2)
	for _, rec := range led.inserted {
		assert.Equal(t, int64(55), rec.AppointmentID)
		assert.True(t, rec.IsActive)
	}

	require.NotNil(t, apptRepo.created)
	assert.Equal(t, domain.StatusScheduled, apptRepo.created.Status)
}

func TestExecute_PatientNotFound(t *testing.T) {
	apptRepo := &fakeApptRepo{}
	led := &fakeLedger{}
	patientClient := &stubPatientClient{err: patientservice.ErrPatientNotFound}

	uc := newBooking(&stubPlanner{plan: testPlan()}, patientClient, apptRepo, led)

	_, err := uc.Execute(context.Background(), &Request{
		PatientID: 7,
		ServiceID: 1,
		StartsAt:  bookingStart,
	})
	assert.ErrorIs(t, err, ErrPatientNotFound)
	assert.Nil(t, apptRepo.created)
	assert.Empty(t, led.inserted)
}

func TestExecute_PatientServiceDegradedStillBooks(t *testing.T) {
	apptRepo := &fakeApptRepo{}
	led := &fakeLedger{}
	patientClient := &stubPatientClient{err: patientservice.ErrServiceDegraded}

	uc := newBooking(&stubPlanner{plan: testPlan()}, patientClient, apptRepo, led)

	resp, err := uc.Execute(context.Background(), &Request{
		PatientID: 7,
		ServiceID: 1,
		StartsAt:  bookingStart,
	})
	require.NoError(t, err)

	// Бронь создана без имени пациента
	assert.Nil(t, resp.PatientName)
	assert.Equal(t, int64(55), resp.ID)
}

func TestExecute_PlannerFailPropagatesVerbatim(t *testing.T) {
	apptRepo := &fakeApptRepo{}
	led := &fakeLedger{}
	patientClient := &stubPatientClient{patient: &patientservice.Patient{ID: 7, FullName: "Ivan Petrov"}}

	plannerFail := &planAllocation.Fail{
		Code:    planAllocation.CodeResourceBusy,
		Message: "No laser available at this specific time frame",
	}

	uc := newBooking(&stubPlanner{err: plannerFail}, patientClient, apptRepo, led)

	_, err := uc.Execute(context.Background(), &Request{
		PatientID: 7,
		ServiceID: 1,
		StartsAt:  bookingStart,
	})

	fail, ok := planAllocation.AsFail(err)
	require.True(t, ok)
	assert.Equal(t, plannerFail.Code, fail.Code)
	assert.Equal(t, plannerFail.Message, fail.Message)

	// Ничего не записано
	assert.Nil(t, apptRepo.created)
	assert.Empty(t, led.inserted)
}

func TestExecute_PastStart(t *testing.T) {
	apptRepo := &fakeApptRepo{}
	led := &fakeLedger{}
	patientClient := &stubPatientClient{patient: &patientservice.Patient{ID: 7, FullName: "Ivan Petrov"}}

	uc := newBooking(&stubPlanner{plan: testPlan()}, patientClient, apptRepo, led)
	uc.timeProvider = fixedTime{now: bookingStart.Add(time.Hour)}

	_, err := uc.Execute(context.Background(), &Request{
		PatientID: 7,
		ServiceID: 1,
		StartsAt:  bookingStart,
	})
	assert.ErrorIs(t, err, ErrInvalidDate)
}
