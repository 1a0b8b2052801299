package domain

import "time"

// PhysicalResource is an exclusively-bookable physical asset of a given type
// (e.g. a treatment box or a chamber). At most one active allocation may
// hold a resource at any instant.
type PhysicalResource struct {
	ID       int64
	Name     string
	Type     string
	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
