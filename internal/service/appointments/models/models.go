package models

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
)

// AppointmentResponse модель брони для отдачи наружу
type AppointmentResponse struct {
	ID             int64
	PatientID      int64
	ServiceID      int64
	ProfessionalID int64
	StartsAt       time.Time
	EndsAt         time.Time
	Status         string

	ServiceName string
	PatientName *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AppointmentListResponse список броней
type AppointmentListResponse struct {
	Appointments []*AppointmentResponse
	Total        int
}

// CancelRequest модель запроса отмены
type CancelRequest struct {
	Reason *string
	// NoShow пометить как неявку вместо отмены
	NoShow bool
}

// FromDomainAppointment конвертирует domain.Appointment в response-модель
func FromDomainAppointment(appt *domain.Appointment) *AppointmentResponse {
	return &AppointmentResponse{
		ID:                 appt.ID,
		PatientID:          appt.PatientID,
		ServiceID:          appt.ServiceID,
		ProfessionalID:     appt.ProfessionalID,
		StartsAt:           appt.StartsAt,
		EndsAt:             appt.EndsAt,
		Status:             string(appt.Status),
		ServiceName:        appt.ServiceName,
		PatientName:        appt.PatientName,
		CancellationReason: appt.CancellationReason,
		CancelledAt:        appt.CancelledAt,
		CreatedAt:          appt.CreatedAt,
		UpdatedAt:          appt.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует список броней
func FromDomainAppointmentList(appts []*domain.Appointment) *AppointmentListResponse {
	result := &AppointmentListResponse{
		Appointments: make([]*AppointmentResponse, 0, len(appts)),
		Total:        len(appts),
	}
	for _, appt := range appts {
		result.Appointments = append(result.Appointments, FromDomainAppointment(appt))
	}
	return result
}

// ToDomainStatus конвертирует строку статуса в domain.AppointmentStatus
func ToDomainStatus(status string) (domain.AppointmentStatus, error) {
	switch domain.AppointmentStatus(status) {
	case domain.StatusScheduled, domain.StatusConfirmed, domain.StatusCompleted,
		domain.StatusCancelled, domain.StatusNoShow:
		return domain.AppointmentStatus(status), nil
	default:
		return "", fmt.Errorf("unknown appointment status %q", status)
	}
}
