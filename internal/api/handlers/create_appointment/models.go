package create_appointment

import (
	"time"

	bookAppointment "github.com/m04kA/SMC-AllocationService/internal/usecase/book_appointment"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	PatientID int64  `json:"patientId"`
	ServiceID int64  `json:"serviceId"`
	StartsAt  string `json:"startsAt"` // RFC3339, например "2026-09-01T10:00:00Z"
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
	PatientName    *string      `json:"patientName,omitempty"`
	Allocations    []Allocation `json:"allocations"`
	CreatedAt      string       `json:"createdAt"`
	UpdatedAt      string       `json:"updatedAt"`
}

// Allocation одна аллокация брони
type Allocation struct {
	PhaseID            int64  `json:"phaseId"`
	ProfessionalID     int64  `json:"professionalId"`
	PhysicalResourceID *int64 `json:"physicalResourceId,omitempty"`
	StartsAt           string `json:"startsAt"`
	EndsAt             string `json:"endsAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest() (*bookAppointment.Request, error) {
	startsAt, err := time.Parse(time.RFC3339, r.StartsAt)
	if err != nil {
		return nil, err
	}

	return &bookAppointment.Request{
		PatientID: r.PatientID,
		ServiceID: r.ServiceID,
		StartsAt:  startsAt.UTC(),
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *bookAppointment.Response) *AppointmentResponse {
	out := &AppointmentResponse{
		ID:             resp.ID,
		PatientID:      resp.PatientID,
		ServiceID:      resp.ServiceID,
		ProfessionalID: resp.ProfessionalID,
		StartsAt:       resp.StartsAt.Format(time.RFC3339),
		EndsAt:         resp.EndsAt.Format(time.RFC3339),
		Status:         resp.Status,
		ServiceName:    resp.ServiceName,
		PatientName:    resp.PatientName,
		CreatedAt:      resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      resp.UpdatedAt.Format(time.RFC3339),
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
