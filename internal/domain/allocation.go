package domain

import "time"

// AllocationRecord is the persisted assignment of a professional (and
// optionally a physical resource) to one phase's concrete time window.
// Fraction is copied from the phase at plan time, denormalized for fast
// summation during capacity checks.
type AllocationRecord struct {
	ID                 int64
	AppointmentID      int64
	PhaseID            int64
	ProfessionalID     int64
	PhysicalResourceID *int64
	StartsAt           time.Time
	EndsAt             time.Time
	Fraction           float64
	IsActive           bool

	CreatedAt time.Time
}

// Window returns the record's half-open time window
func (r *AllocationRecord) Window() TimeWindow {
	return TimeWindow{StartsAt: r.StartsAt, EndsAt: r.EndsAt}
}

// PlannedAllocation is one not-yet-committed allocation tuple of a plan
type PlannedAllocation struct {
	PhaseID            int64
	PhaseOrder         int
	ProfessionalID     int64
	PhysicalResourceID *int64
	StartsAt           time.Time
	EndsAt             time.Time
	Fraction           float64
}

// AllocationPlan is the full set of allocations computed for one
// appointment request. All entries share the same professional.
type AllocationPlan struct {
	ServiceID      int64
	ProfessionalID int64
	StartsAt       time.Time
	EndsAt         time.Time
	Allocations    []PlannedAllocation
}

// Span returns the union of all phase windows of the plan
func (p *AllocationPlan) Span() TimeWindow {
	return TimeWindow{StartsAt: p.StartsAt, EndsAt: p.EndsAt}
}

// ToRecords converts the plan into allocation records for persistence
func (p *AllocationPlan) ToRecords(appointmentID int64) []*AllocationRecord {
	records := make([]*AllocationRecord, 0, len(p.Allocations))
	for _, a := range p.Allocations {
		records = append(records, &AllocationRecord{
			AppointmentID:      appointmentID,
			PhaseID:            a.PhaseID,
			ProfessionalID:     a.ProfessionalID,
			PhysicalResourceID: a.PhysicalResourceID,
			StartsAt:           a.StartsAt,
			EndsAt:             a.EndsAt,
			Fraction:           a.Fraction,
			IsActive:           true,
		})
	}
	return records
}
