package domain

// Capacity constants
const (
	// FullCapacity максимальная суммарная занятость специалиста в любой момент времени
	FullCapacity = 1.0

	// FractionEpsilon допуск для сравнения сумм долей (floating point)
	FractionEpsilon = 1e-9
)

// Default booking configuration values
const (
	DefaultSlotStepMinutes      = 30
	DefaultSearchHorizonDays    = 7
	MinSlotStepMinutes          = 5
	MaxSlotStepMinutes          = 120
	MaxSearchHorizonDays        = 60
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов, при которых записи аллокаций неактивны
// Используется при фильтрации занятости
var InactiveStatuses = []AppointmentStatus{
	StatusCancelled,
	StatusNoShow,
}

// ActiveStatuses список статусов, при которых бронь удерживает свои аллокации
var ActiveStatuses = []AppointmentStatus{
	StatusScheduled,
	StatusConfirmed,
}
