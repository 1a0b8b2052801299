package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
	apptRepo "github.com/m04kA/SMC-AllocationService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AllocationService/internal/service/appointments/models"
)

// Service сервис работы с жизненным циклом броней
type Service struct {
	appointments AppointmentRepository
	ledger       OccupancyLedger
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый сервис броней
func NewService(
	appointments AppointmentRepository,
	ledger OccupancyLedger,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		appointments: appointments,
		ledger:       ledger,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetByID возвращает бронь по идентификатору
func (s *Service) GetByID(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: id must be positive", ErrInvalidInput)
	}

	appt, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: failed to get appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}

	return models.FromDomainAppointment(appt), nil
}

// GetPatientAppointments возвращает брони пациента с опциональным фильтром по статусу
func (s *Service) GetPatientAppointments(ctx context.Context, patientID int64, status *string) (*models.AppointmentListResponse, error) {
	if patientID <= 0 {
		return nil, fmt.Errorf("%w: patientID must be positive", ErrInvalidInput)
	}

	var domainStatus *domain.AppointmentStatus
	if status != nil {
		parsed, err := models.ToDomainStatus(*status)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		domainStatus = &parsed
	}

	appts, err := s.appointments.GetByPatientID(ctx, patientID, domainStatus)
	if err != nil {
		s.logger.Error("GetPatientAppointments: failed to list appointments for patient=%d: %v",
			patientID, err)
		return nil, fmt.Errorf("%w: failed to list appointments: %v", ErrInternal, err)
	}

	return models.FromDomainAppointmentList(appts), nil
}

// Cancel отменяет бронь и освобождает все связанные аллокации
//
// Записи аллокаций деактивируются, а не удаляются: история занятости
// сохраняется, но освобожденные окна сразу доступны новым броням.
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelRequest) (*models.AppointmentResponse, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: id must be positive", ErrInvalidInput)
	}

	targetStatus := domain.StatusCancelled
	if req != nil && req.NoShow {
		targetStatus = domain.StatusNoShow
	}

	var reason *string
	if req != nil {
		reason = req.Reason
	}

	var result *models.AppointmentResponse

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		appt, err := s.appointments.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			s.logger.Error("Cancel: failed to get appointment id=%d: %v", id, err)
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		if !appt.CanBeCancelled() {
			s.logger.Warn("Cancel: appointment id=%d in status %s cannot be cancelled", appt.ID, appt.Status)
			return ErrCannotCancel
		}

		if err := s.appointments.Cancel(txCtx, id, targetStatus, reason); err != nil {
			s.logger.Error("Cancel: failed to cancel appointment id=%d: %v", id, err)
			return fmt.Errorf("%w: failed to cancel appointment: %v", ErrInternal, err)
		}

		if err := s.ledger.DeactivateByAppointment(txCtx, id); err != nil {
			s.logger.Error("Cancel: failed to release allocations for appointment id=%d: %v", id, err)
			return fmt.Errorf("%w: failed to release allocations: %v", ErrInternal, err)
		}

		appt.Status = targetStatus
		appt.CancellationReason = reason
		result = models.FromDomainAppointment(appt)
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: appointment id=%d moved to status %s", id, targetStatus)

	return result, nil
}

// UpdateStatus переводит бронь в новый статус с проверкой допустимости перехода
//
// Переход в терминальный статус cancelled/no_show дополнительно освобождает
// аллокации, как и явная отмена.
func (s *Service) UpdateStatus(ctx context.Context, id int64, newStatus string) (*models.AppointmentResponse, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: id must be positive", ErrInvalidInput)
	}

	target, err := models.ToDomainStatus(newStatus)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var result *models.AppointmentResponse

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		appt, err := s.appointments.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			s.logger.Error("UpdateStatus: failed to get appointment id=%d: %v", id, err)
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		if !appt.CanTransitionTo(target) {
			s.logger.Warn("UpdateStatus: appointment id=%d transition %s -> %s is not allowed",
				appt.ID, appt.Status, target)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, target)
		}

		if target == domain.StatusCancelled || target == domain.StatusNoShow {
			if err := s.appointments.Cancel(txCtx, id, target, nil); err != nil {
				s.logger.Error("UpdateStatus: failed to cancel appointment id=%d: %v", id, err)
				return fmt.Errorf("%w: failed to cancel appointment: %v", ErrInternal, err)
			}
			if err := s.ledger.DeactivateByAppointment(txCtx, id); err != nil {
				s.logger.Error("UpdateStatus: failed to release allocations for appointment id=%d: %v", id, err)
				return fmt.Errorf("%w: failed to release allocations: %v", ErrInternal, err)
			}
		} else {
			if err := s.appointments.UpdateStatus(txCtx, id, target); err != nil {
				s.logger.Error("UpdateStatus: failed to update appointment id=%d: %v", id, err)
				return fmt.Errorf("%w: failed to update status: %v", ErrInternal, err)
			}
		}

		appt.Status = target
		result = models.FromDomainAppointment(appt)
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateStatus: appointment id=%d moved to status %s", id, target)

	return result, nil
}
