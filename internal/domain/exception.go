package domain

import "time"

// ScheduleException is a blocking time window for the whole clinic or for
// one professional (ProfessionalID = nil means clinic-wide)
type ScheduleException struct {
	ID             int64
	ProfessionalID *int64
	StartsAt       time.Time
	EndsAt         time.Time
	Reason         *string

	CreatedAt time.Time
}

// IsClinicWide returns true if the exception blocks the whole clinic
func (e *ScheduleException) IsClinicWide() bool {
	return e.ProfessionalID == nil
}

// Window returns the blocked time window
func (e *ScheduleException) Window() TimeWindow {
	return TimeWindow{StartsAt: e.StartsAt, EndsAt: e.EndsAt}
}
