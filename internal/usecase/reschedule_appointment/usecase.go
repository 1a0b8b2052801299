package reschedule_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
	apptRepo "github.com/m04kA/SMC-AllocationService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-AllocationService/internal/infra/storage/catalog"
	planAllocation "github.com/m04kA/SMC-AllocationService/internal/usecase/plan_allocation"
)

// UseCase координатор переноса брони
//
// Новый план строится с исключением собственных записей брони из расчетов
// занятости: бронь может двигаться внутри собственного окна. Замена набора
// аллокаций выполняется только при успешном планировании; при любом отказе
// транзакция откатывается и исходные записи остаются нетронутыми -
// промежуточное состояние никогда не видно.
type UseCase struct {
	planner      Planner
	catalog      CatalogStore
	appointments AppointmentRepository
	ledger       OccupancyLedger
	txManager    TransactionManager
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	planner Planner,
	catalog CatalogStore,
	appointments AppointmentRepository,
	occupancy OccupancyLedger,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		planner:      planner,
		catalog:      catalog,
		appointments: appointments,
		ledger:       occupancy,
		txManager:    txManager,
		logger:       logger,
	}
}

// Execute выполняет перенос брони
// Доменные отказы планировщика пробрасываются без изменений
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleAppointment: appointment=%d", req.AppointmentID)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleAppointment: validation failed: %v", err)
		return nil, err
	}

	var result *Response

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Загружаем бронь с блокировкой строки
		appt, err := uc.appointments.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("RescheduleAppointment: appointment id=%d not found", req.AppointmentID)
				return ErrAppointmentNotFound
			}
			uc.logger.Error("RescheduleAppointment: failed to get appointment id=%d: %v",
				req.AppointmentID, err)
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		if !appt.CanBeRescheduled() {
			uc.logger.Warn("RescheduleAppointment: appointment id=%d in status %s cannot be rescheduled",
				appt.ID, appt.Status)
			return ErrCannotReschedule
		}

		// 2. Подставляем значения по умолчанию из текущей брони
		serviceID := appt.ServiceID
		if req.NewServiceID != nil {
			serviceID = *req.NewServiceID
		}
		startsAt := appt.StartsAt
		if req.NewStartsAt != nil {
			startsAt = *req.NewStartsAt
		}

		// 3. Планируем, исключив собственные записи брони из расчетов
		plan, err := uc.planner.Execute(txCtx, &planAllocation.Request{
			ServiceID:            serviceID,
			StartsAt:             startsAt,
			ExcludeAppointmentID: &appt.ID,
		})
		if err != nil {
			// Отказ планирования: транзакция откатывается, исходные
			// аллокации остаются нетронутыми
			return err
		}

		serviceName := appt.ServiceName
		if serviceID != appt.ServiceID {
			service, err := uc.catalog.GetServiceWithPhases(txCtx, serviceID)
			if err != nil && !errors.Is(err, catalogRepo.ErrServiceNotFound) {
				uc.logger.Error("RescheduleAppointment: failed to get service id=%d: %v", serviceID, err)
				return fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
			}
			if service != nil {
				serviceName = service.Name
			}
		}

		// 4. Атомарно заменяем набор аллокаций и обновляем бронь
		if err := uc.ledger.ReplaceForAppointment(txCtx, appt.ID, plan.ToRecords(appt.ID)); err != nil {
			uc.logger.Error("RescheduleAppointment: failed to replace allocations: %v", err)
			return fmt.Errorf("%w: failed to replace allocations: %v", ErrInternal, err)
		}

		if err := uc.appointments.UpdateSchedule(txCtx, appt.ID, serviceID,
			plan.ProfessionalID, plan.StartsAt, plan.EndsAt, serviceName); err != nil {
			uc.logger.Error("RescheduleAppointment: failed to update appointment: %v", err)
			return fmt.Errorf("%w: failed to update appointment: %v", ErrInternal, err)
		}

		result = toResponse(appt, serviceID, serviceName, plan)
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("RescheduleAppointment: successfully rescheduled appointment id=%d to %s",
		result.ID, result.StartsAt.Format("2006-01-02 15:04"))

	return result, nil
}

func toResponse(appt *domain.Appointment, serviceID int64, serviceName string, plan *domain.AllocationPlan) *Response {
	resp := &Response{
		ID:             appt.ID,
		PatientID:      appt.PatientID,
		ServiceID:      serviceID,
		ProfessionalID: plan.ProfessionalID,
		StartsAt:       plan.StartsAt,
		EndsAt:         plan.EndsAt,
		Status:         string(appt.Status),
		ServiceName:    serviceName,
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
