package domain

import "time"

// TimeWindow is a half-open time interval [StartsAt, EndsAt)
type TimeWindow struct {
	StartsAt time.Time
	EndsAt   time.Time
}

// NewTimeWindow создает окно из начала и длительности в минутах
func NewTimeWindow(startsAt time.Time, durationMinutes int) TimeWindow {
	return TimeWindow{
		StartsAt: startsAt,
		EndsAt:   startsAt.Add(time.Duration(durationMinutes) * time.Minute),
	}
}

// Overlaps returns true if the two half-open windows actually intersect.
// Windows that merely touch at a boundary do not overlap:
// [10:00, 10:30) and [10:30, 11:00) → false.
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.StartsAt.Before(other.EndsAt) && other.StartsAt.Before(w.EndsAt)
}

// Contains returns true if instant t lies inside the half-open window
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.StartsAt) && t.Before(w.EndsAt)
}

// DurationMinutes возвращает длительность окна в минутах
func (w TimeWindow) DurationMinutes() int {
	return int(w.EndsAt.Sub(w.StartsAt) / time.Minute)
}

// Union returns the smallest window covering both w and other
func (w TimeWindow) Union(other TimeWindow) TimeWindow {
	result := w
	if other.StartsAt.Before(result.StartsAt) {
		result.StartsAt = other.StartsAt
	}
	if other.EndsAt.After(result.EndsAt) {
		result.EndsAt = other.EndsAt
	}
	return result
}
