package reschedule_appointment

import (
	"time"

	rescheduleAppointment "github.com/m04kA/SMC-AllocationService/internal/usecase/reschedule_appointment"
)

// RescheduleAppointmentRequest HTTP request model
// Оба поля опциональны, но хотя бы одно должно быть задано
type RescheduleAppointmentRequest struct {
	NewServiceID *int64  `json:"newServiceId,omitempty"`
	NewStartsAt  *string `json:"newStartsAt,omitempty"` // RFC3339
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID             int64        `json:"id"`
	PatientID      int64        `json:"patientId"`
	ServiceID      int64        `json:"serviceId"`
	ProfessionalID int64        `json:"professionalId"`
	StartsAt       string       `json:"startsAt"`
	EndsAt         string       `json:"endsAt"`
	Status         string       `json:"status"`
	ServiceName    string       `json:"serviceName"`
	Allocations    []Allocation `json:"allocations"`
}

// Allocation одна аллокация нового плана
type Allocation struct {
	PhaseID            int64  `json:"phaseId"`
	ProfessionalID     int64  `json:"professionalId"`
	PhysicalResourceID *int64 `json:"physicalResourceId,omitempty"`
	StartsAt           string `json:"startsAt"`
	EndsAt             string `json:"endsAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleAppointmentRequest) ToUseCaseRequest(appointmentID int64) (*rescheduleAppointment.Request, error) {
	req := &rescheduleAppointment.Request{
		AppointmentID: appointmentID,
		NewServiceID:  r.NewServiceID,
	}

	if r.NewStartsAt != nil {
		startsAt, err := time.Parse(time.RFC3339, *r.NewStartsAt)
		if err != nil {
			return nil, err
		}
		utc := startsAt.UTC()
		req.NewStartsAt = &utc
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleAppointment.Response) *AppointmentResponse {
	out := &AppointmentResponse{
		ID:             resp.ID,
		PatientID:      resp.PatientID,
		ServiceID:      resp.ServiceID,
		ProfessionalID: resp.ProfessionalID,
		StartsAt:       resp.StartsAt.Format(time.RFC3339),
		EndsAt:         resp.EndsAt.Format(time.RFC3339),
		Status:         resp.Status,
		ServiceName:    resp.ServiceName,
	}

	for _, a := range resp.Allocations {
		out.Allocations = append(out.Allocations, Allocation{
			PhaseID:            a.PhaseID,
			ProfessionalID:     a.ProfessionalID,
			PhysicalResourceID: a.PhysicalResourceID,
			StartsAt:           a.StartsAt.Format(time.RFC3339),
			EndsAt:             a.EndsAt.Format(time.RFC3339),
		})
	}

	return out
}
