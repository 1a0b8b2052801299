package get_patient_appointments

import (
	"time"

	"github.com/m04kA/SMC-AllocationService/internal/service/appointments/models"
)

// AppointmentListResponse HTTP response model
type AppointmentListResponse struct {
	Appointments []AppointmentItem `json:"appointments"`
	Total        int               `json:"total"`
}

// AppointmentItem одна бронь в списке
type AppointmentItem struct {
	ID             int64   `json:"id"`
	ServiceID      int64   `json:"serviceId"`
	ProfessionalID int64   `json:"professionalId"`
	StartsAt       string  `json:"startsAt"`
	EndsAt         string  `json:"endsAt"`
	Status         string  `json:"status"`
	ServiceName    string  `json:"serviceName"`
	CreatedAt      string  `json:"createdAt"`
	CancelledAt    *string `json:"cancelledAt,omitempty"`
}

// FromServiceResponse конвертирует модель сервиса в HTTP response
func FromServiceResponse(resp *models.AppointmentListResponse) *AppointmentListResponse {
	out := &AppointmentListResponse{
		Appointments: make([]AppointmentItem, 0, len(resp.Appointments)),
		Total:        resp.Total,
	}

	for _, appt := range resp.Appointments {
		item := AppointmentItem{
			ID:             appt.ID,
			ServiceID:      appt.ServiceID,
			ProfessionalID: appt.ProfessionalID,
			StartsAt:       appt.StartsAt.Format(time.RFC3339),
			EndsAt:         appt.EndsAt.Format(time.RFC3339),
			Status:         appt.Status,
			ServiceName:    appt.ServiceName,
			CreatedAt:      appt.CreatedAt.Format(time.RFC3339),
		}
		if appt.CancelledAt != nil {
			cancelledAt := appt.CancelledAt.Format(time.RFC3339)
			item.CancelledAt = &cancelledAt
		}
		out.Appointments = append(out.Appointments, item)
	}

	return out
}
