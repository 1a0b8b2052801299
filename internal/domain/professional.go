package domain

import (
	"time"

	"github.com/m04kA/SMC-AllocationService/pkg/types"
)

// Professional is a staff member with fractional concurrent capacity.
// Total concurrent commitment across all allocations must never exceed
// FullCapacity at any instant.
type Professional struct {
	ID       int64
	Name     string
	IsActive bool
	// DutyHours рабочие окна специалиста по дням недели
	DutyHours []DutyWindow

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DutyWindow is one weekday working window (HH:MM, end-exclusive)
type DutyWindow struct {
	Weekday  time.Weekday
	OpensAt  types.TimeString
	ClosesAt types.TimeString
}
