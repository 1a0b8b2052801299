package check_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AllocationService/internal/api/handlers"
	planAllocation "github.com/m04kA/SMC-AllocationService/internal/usecase/plan_allocation"
)

const (
	msgInvalidServiceID = "некорректный ID услуги"
	msgMissingAt        = "параметр at обязателен"
	msgInvalidAt        = "некорректный формат времени, ожидается RFC3339"
	msgInvalidInput     = "некорректные входные данные"
)

type Handler struct {
	useCase PlanAllocationUseCase
	logger  Logger
}

func NewHandler(useCase PlanAllocationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/services/{serviceId}/availability
// Query params: at (required, RFC3339)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	serviceID, err := strconv.ParseInt(vars["serviceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /services/{id}/availability - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	atStr := r.URL.Query().Get("at")
	if atStr == "" {
		h.logger.Warn("GET /services/{id}/availability - Missing at parameter")
		handlers.RespondBadRequest(w, msgMissingAt)
		return
	}

	at, err := time.Parse(time.RFC3339, atStr)
	if err != nil {
		h.logger.Warn("GET /services/{id}/availability - Invalid at parameter: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAt)
		return
	}

	plan, err := h.useCase.Execute(r.Context(), &planAllocation.Request{
		ServiceID: serviceID,
		StartsAt:  at.UTC(),
	})
	if err != nil {
		// Доменный отказ - мягкий ответ available=false, а не HTTP ошибка
		if fail, ok := planAllocation.AsFail(err); ok {
			h.logger.Info("GET /services/{id}/availability - Not available: service_id=%d, code=%s",
				serviceID, fail.Code)
			handlers.RespondJSON(w, http.StatusOK, FromFail(fail))
			return
		}

		if errors.Is(err, planAllocation.ErrInvalidInput) {
			h.logger.Warn("GET /services/{id}/availability - Invalid input: service_id=%d, error=%v", serviceID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)
			return
		}

		h.logger.Error("GET /services/{id}/availability - Failed to check availability: service_id=%d, error=%v",
			serviceID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /services/{id}/availability - Available: service_id=%d, professional_id=%d",
		serviceID, plan.ProfessionalID)
	handlers.RespondJSON(w, http.StatusOK, FromPlan(plan))
}
