package book_appointment

import "time"

// Request модель запроса на создание брони
type Request struct {
	PatientID int64     // ID пациента
	ServiceID int64     // ID услуги
	StartsAt  time.Time // Время начала (UTC, точность до минуты)
}

// Response модель ответа с созданной бронью
type Response struct {
	ID             int64
	PatientID      int64
	ServiceID      int64
	ProfessionalID int64
	StartsAt       time.Time
	EndsAt         time.Time
	Status         string

	// Денормализованные данные
	ServiceName string
	PatientName *string

	// Allocations аллокации по фазам услуги
	Allocations []Allocation

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Allocation одна аллокация плана в ответе
type Allocation struct {
	PhaseID            int64
	ProfessionalID     int64
	PhysicalResourceID *int64
	StartsAt           time.Time
	EndsAt             time.Time
}
