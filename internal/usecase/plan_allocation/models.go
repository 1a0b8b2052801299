package plan_allocation

import "time"

// Request запрос на планирование брони
type Request struct {
	// ServiceID ID услуги
	ServiceID int64
	// StartsAt запрошенное время начала (UTC, точность до минуты)
	StartsAt time.Time
	// ExcludeAppointmentID бронь, чьи записи занятости исключаются из расчетов
	// Используется при переносе: бронь может двигаться внутри собственного окна
	ExcludeAppointmentID *int64
}
