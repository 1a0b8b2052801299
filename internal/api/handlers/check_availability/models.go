package check_availability

import (
	"time"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
	planAllocation "github.com/m04kA/SMC-AllocationService/internal/usecase/plan_allocation"
)

// AvailabilityResponse HTTP response model
// При доменном отказе планирования available=false с кодом и сообщением,
// HTTP статус остается 200: отказ по занятости - ответ, а не ошибка
type AvailabilityResponse struct {
	Available bool    `json:"available"`
	Code      *string `json:"code,omitempty"`
	Message   *string `json:"message,omitempty"`
	Plan      *Plan   `json:"plan,omitempty"`
}

// Plan предполагаемый план аллокаций (без записи)
type Plan struct {
	ServiceID      int64        `json:"serviceId"`
	ProfessionalID int64        `json:"professionalId"`
	StartsAt       string       `json:"startsAt"`
	EndsAt         string       `json:"endsAt"`
	Allocations    []Allocation `json:"allocations"`
}

// Allocation одна аллокация плана
type Allocation struct {
	PhaseID            int64  `json:"phaseId"`
	ProfessionalID     int64  `json:"professionalId"`
	PhysicalResourceID *int64 `json:"physicalResourceId,omitempty"`
	StartsAt           string `json:"startsAt"`
	EndsAt             string `json:"endsAt"`
}

// FromPlan конвертирует план аллокаций в HTTP response
func FromPlan(plan *domain.AllocationPlan) *AvailabilityResponse {
	resp := &AvailabilityResponse{
		Available: true,
		Plan: &Plan{
			ServiceID:      plan.ServiceID,
			ProfessionalID: plan.ProfessionalID,
			StartsAt:       plan.StartsAt.Format(time.RFC3339),
			EndsAt:         plan.EndsAt.Format(time.RFC3339),
		},
	}

	for _, a := range plan.Allocations {
		resp.Plan.Allocations = append(resp.Plan.Allocations, Allocation{
			PhaseID:            a.PhaseID,
			ProfessionalID:     a.ProfessionalID,
			PhysicalResourceID: a.PhysicalResourceID,
			StartsAt:           a.StartsAt.Format(time.RFC3339),
			EndsAt:             a.EndsAt.Format(time.RFC3339),
		})
	}

	return resp
}

// FromFail конвертирует доменный отказ планирования в HTTP response
func FromFail(fail *planAllocation.Fail) *AvailabilityResponse {
	code := string(fail.Code)
	message := fail.Message
	return &AvailabilityResponse{
		Available: false,
		Code:      &code,
		Message:   &message,
	}
}
