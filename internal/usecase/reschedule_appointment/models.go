package reschedule_appointment

import "time"

// Request модель запроса на перенос брони
// NewServiceID и NewStartsAt опциональны: отсутствующее значение означает
// "оставить как есть"
type Request struct {
	AppointmentID int64
	NewServiceID  *int64
	NewStartsAt   *time.Time
}

// Response модель ответа с перенесенной бронью
type Response struct {
	ID             int64
	PatientID      int64
	ServiceID      int64
	ProfessionalID int64
	StartsAt       time.Time
	EndsAt         time.Time
	Status         string
	ServiceName    string

	// Allocations новые аллокации по фазам
	Allocations []Allocation
}

// Allocation одна аллокация нового плана
type Allocation struct {
	PhaseID            int64
	ProfessionalID     int64
	PhysicalResourceID *int64
	StartsAt           time.Time
	EndsAt             time.Time
}
