package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AllocationService/internal/api/handlers"
	bookAppointment "github.com/m04kA/SMC-AllocationService/internal/usecase/book_appointment"
	planAllocation "github.com/m04kA/SMC-AllocationService/internal/usecase/plan_allocation"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStartsAt    = "некорректный формат времени начала, ожидается RFC3339"
	msgPatientNotFound    = "пациент не найден"
	msgInvalidDate        = "время начала в прошлом"
	msgInvalidInput       = "некорректные входные данные"
)

type Handler struct {
	useCase BookAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase BookAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse startsAt: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartsAt)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		// Отказы планирования различаются по коду таксономии:
		// NOT_FOUND -> 404, занятость -> 409, расписание -> 400
		if fail, ok := planAllocation.AsFail(err); ok {
			h.respondFail(w, &req, fail)
			return
		}

		switch {
		case errors.Is(err, bookAppointment.ErrPatientNotFound):
			h.logger.Warn("POST /appointments - Patient not found: patient_id=%d", req.PatientID)
			handlers.RespondNotFound(w, msgPatientNotFound)

		case errors.Is(err, bookAppointment.ErrInvalidDate):
			h.logger.Warn("POST /appointments - Start time in the past: patient_id=%d", req.PatientID)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, bookAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: patient_id=%d, error=%v", req.PatientID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: patient_id=%d, service_id=%d, error=%v",
				req.PatientID, req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, patient_id=%d, professional_id=%d",
		result.ID, req.PatientID, result.ProfessionalID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

func (h *Handler) respondFail(w http.ResponseWriter, req *CreateAppointmentRequest, fail *planAllocation.Fail) {
	h.logger.Warn("POST /appointments - Planning failed: patient_id=%d, service_id=%d, code=%s",
		req.PatientID, req.ServiceID, fail.Code)

	switch fail.Code {
	case planAllocation.CodeNotFound:
		handlers.RespondNotFound(w, fail.Message)
	case planAllocation.CodeProfessionalBusy, planAllocation.CodeResourceBusy:
		handlers.RespondConflict(w, fail.Message)
	default:
		// CLINIC_BLOCKED, OUT_OF_SCHEDULE
		handlers.RespondBadRequest(w, fail.Message)
	}
}
