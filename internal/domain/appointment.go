package domain

import "time"

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

// Appointment groups the allocation records produced for one booking
type Appointment struct {
	ID             int64
	PatientID      int64
	ServiceID      int64
	ProfessionalID int64
	StartsAt       time.Time
	EndsAt         time.Time
	Status         AppointmentStatus

	// Denormalized data for history
	ServiceName string
	PatientName *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment still holds its allocations
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled && a.Status != StatusNoShow && a.Status != StatusCompleted
}

// IsTerminal returns true if no further transitions are allowed
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusCancelled || a.Status == StatusNoShow || a.Status == StatusCompleted
}

// CanBeCancelled returns true if the appointment can still be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return !a.IsTerminal()
}

// CanBeRescheduled returns true if the appointment can still be moved
func (a *Appointment) CanBeRescheduled() bool {
	return a.Status == StatusScheduled || a.Status == StatusConfirmed
}

// CanTransitionTo validates the status lifecycle:
// scheduled → confirmed → completed, cancelled/no_show from any non-terminal state
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	if a.IsTerminal() {
		return false
	}
	switch next {
	case StatusConfirmed:
		return a.Status == StatusScheduled
	case StatusCompleted:
		return a.Status == StatusConfirmed
	case StatusCancelled, StatusNoShow:
		return true
	default:
		return false
	}
}

// Window returns the full appointment window
func (a *Appointment) Window() TimeWindow {
	return TimeWindow{StartsAt: a.StartsAt, EndsAt: a.EndsAt}
}
