package domain

import "time"

// Service represents a bookable clinical service composed of sequential phases
type Service struct {
	ID       int64
	Name     string
	IsActive bool
	Phases   []*ServicePhase // ordered by PhaseOrder, contiguous

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TotalDurationMinutes returns the summed duration of all phases
func (s *Service) TotalDurationMinutes() int {
	total := 0
	for _, phase := range s.Phases {
		total += phase.DurationMinutes
	}
	return total
}

// ServicePhase is one sequential segment of a service with its own duration,
// staff-fraction requirement and optional physical resource requirement
type ServicePhase struct {
	ID              int64
	ServiceID       int64
	PhaseOrder      int
	DurationMinutes int
	// ProfessionalFraction доля занятости специалиста на фазе, (0, 1]
	ProfessionalFraction float64
	// ResourceType тип требуемого физического ресурса (nil = ресурс не нужен)
	ResourceType *string
}

// RequiresResource returns true if the phase needs an exclusive physical resource
func (p *ServicePhase) RequiresResource() bool {
	return p.ResourceType != nil && *p.ResourceType != ""
}
