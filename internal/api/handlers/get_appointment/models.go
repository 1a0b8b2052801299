package get_appointment

import (
	"time"

	"github.com/m04kA/SMC-AllocationService/internal/service/appointments/models"
)

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID                 int64   `json:"id"`
	PatientID          int64   `json:"patientId"`
	ServiceID          int64   `json:"serviceId"`
	ProfessionalID     int64   `json:"professionalId"`
	StartsAt           string  `json:"startsAt"`
	EndsAt             string  `json:"endsAt"`
	Status             string  `json:"status"`
	ServiceName        string  `json:"serviceName"`
	PatientName        *string `json:"patientName,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"`
	CreatedAt          string  `json:"createdAt"`
	UpdatedAt          string  `json:"updatedAt"`
}

// FromServiceResponse конвертирует модель сервиса в HTTP response
func FromServiceResponse(resp *models.AppointmentResponse) *AppointmentResponse {
	out := &AppointmentResponse{
		ID:                 resp.ID,
		PatientID:          resp.PatientID,
		ServiceID:          resp.ServiceID,
		ProfessionalID:     resp.ProfessionalID,
		StartsAt:           resp.StartsAt.Format(time.RFC3339),
		EndsAt:             resp.EndsAt.Format(time.RFC3339),
		Status:             resp.Status,
		ServiceName:        resp.ServiceName,
		PatientName:        resp.PatientName,
		CancellationReason: resp.CancellationReason,
		CreatedAt:          resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          resp.UpdatedAt.Format(time.RFC3339),
	}

	if resp.CancelledAt != nil {
		cancelledAt := resp.CancelledAt.Format(time.RFC3339)
		out.CancelledAt = &cancelledAt
	}

	return out
}
