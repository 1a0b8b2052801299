package book_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AllocationService/internal/infra/storage/catalog"
	patientClient "github.com/m04kA/SMC-AllocationService/internal/integrations/patientservice"
	planAllocation "github.com/m04kA/SMC-AllocationService/internal/usecase/plan_allocation"
)

// UseCase use case создания брони (commit-режим планировщика)
//
// Чтения планировщика и запись набора аллокаций выполняются внутри одной
// сериализуемой транзакции: два конкурентных бронирования не могут оба
// пройти проверку занятости по устаревшему срезу реестра.
type UseCase struct {
	planner       Planner
	catalog       CatalogStore
	apptRepo      AppointmentRepository
	ledger        OccupancyLedger
	patientClient PatientServiceClient
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	planner Planner,
	catalog CatalogStore,
	apptRepo AppointmentRepository,
	occupancy OccupancyLedger,
	patientClient PatientServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		planner:       planner,
		catalog:       catalog,
		apptRepo:      apptRepo,
		ledger:        occupancy,
		patientClient: patientClient,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case создания брони
// Доменные отказы планировщика (plan_allocation.Fail) пробрасываются без
// изменений - вызывающий различает их по коду таксономии
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BookAppointment: patient=%d, service=%d, startsAt=%s",
		req.PatientID, req.ServiceID, req.StartsAt.Format("2006-01-02 15:04"))

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("BookAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем услугу для денормализации названия
	service, err := uc.catalog.GetServiceWithPhases(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("BookAppointment: service id=%d not found", req.ServiceID)
			return nil, &planAllocation.Fail{Code: planAllocation.CodeNotFound, Message: "Service not found"}
		}
		uc.logger.Error("BookAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 3. Получаем пациента (с graceful degradation - недоступность
	// PatientService не должна блокировать бронирование)
	var patientName *string
	patient, err := uc.patientClient.GetPatientWithGracefulDegradation(ctx, req.PatientID)
	switch {
	case err == nil:
		patientName = &patient.FullName
	case errors.Is(err, patientClient.ErrPatientNotFound):
		uc.logger.Warn("BookAppointment: patient id=%d not found", req.PatientID)
		return nil, ErrPatientNotFound
	case errors.Is(err, patientClient.ErrServiceDegraded):
		uc.logger.Warn("BookAppointment: patient service degraded, booking without patient name: %v", err)
	default:
		uc.logger.Error("BookAppointment: failed to get patient id=%d: %v", req.PatientID, err)
		return nil, fmt.Errorf("%w: failed to get patient: %v", ErrInternal, err)
	}

	var result *domain.Appointment
	var plan *domain.AllocationPlan

	// 4. Планирование и запись в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var planErr error
		plan, planErr = uc.planner.Execute(txCtx, &planAllocation.Request{
			ServiceID: req.ServiceID,
			StartsAt:  req.StartsAt,
		})
		if planErr != nil {
			return planErr
		}

		appt := &domain.Appointment{
			PatientID:      req.PatientID,
			ServiceID:      plan.ServiceID,
			ProfessionalID: plan.ProfessionalID,
			StartsAt:       plan.StartsAt,
			EndsAt:         plan.EndsAt,
			Status:         domain.StatusScheduled,
			ServiceName:    service.Name,
			PatientName:    patientName,
		}

		created, createErr := uc.apptRepo.Create(txCtx, appt)
		if createErr != nil {
			uc.logger.Error("BookAppointment: failed to create appointment: %v", createErr)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, createErr)
		}

		if insertErr := uc.ledger.InsertSet(txCtx, plan.ToRecords(created.ID)); insertErr != nil {
			uc.logger.Error("BookAppointment: failed to insert allocations: %v", insertErr)
			return fmt.Errorf("%w: failed to insert allocations: %v", ErrInternal, insertErr)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("BookAppointment: successfully created appointment id=%d, professional=%d",
		result.ID, result.ProfessionalID)

	return toResponse(result, plan), nil
}

func toResponse(appt *domain.Appointment, plan *domain.AllocationPlan) *Response {
	resp := &Response{
		ID:             appt.ID,
		PatientID:      appt.PatientID,
		ServiceID:      appt.ServiceID,
		ProfessionalID: appt.ProfessionalID,
		StartsAt:       appt.StartsAt,
		EndsAt:         appt.EndsAt,
		Status:         string(appt.Status),
		ServiceName:    appt.ServiceName,
		PatientName:    appt.PatientName,
		CreatedAt:      appt.CreatedAt,
		UpdatedAt:      appt.UpdatedAt,
	}

	for _, a := range plan.Allocations {
		resp.Allocations = append(resp.Allocations, Allocation{
			PhaseID:            a.PhaseID,
			ProfessionalID:     a.ProfessionalID,
			PhysicalResourceID: a.PhysicalResourceID,
			StartsAt:           a.StartsAt,
			EndsAt:             a.EndsAt,
		})
	}

	return resp
}
