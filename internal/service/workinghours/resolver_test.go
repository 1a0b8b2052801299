package workinghours

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
	"github.com/m04kA/SMC-AllocationService/pkg/ptr"
	"github.com/m04kA/SMC-AllocationService/pkg/types"
)

// Понедельник
var monday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

func window(day time.Time, startHour, startMin, durationMinutes int) domain.TimeWindow {
	start := day.Add(time.Duration(startHour)*time.Hour + time.Duration(startMin)*time.Minute)
	return domain.TimeWindow{StartsAt: start, EndsAt: start.Add(time.Duration(durationMinutes) * time.Minute)}
}

func mondayDuty(opens, closes string) []domain.DutyWindow {
	return []domain.DutyWindow{
		{Weekday: time.Monday, OpensAt: types.TimeString(opens), ClosesAt: types.TimeString(closes)},
	}
}

func TestCoversWindow(t *testing.T) {
	r := NewResolver()

	tests := []struct {
		name   string
		duty   []domain.DutyWindow
		window domain.TimeWindow
		want   bool
	}{
		{
			name:   "inside working hours",
			duty:   mondayDuty("09:00", "18:00"),
			window: window(monday, 10, 0, 60),
			want:   true,
		},
		{
			name:   "exactly at opening",
			duty:   mondayDuty("09:00", "18:00"),
			window: window(monday, 9, 0, 30),
			want:   true,
		},
		{
			name:   "ends exactly at closing",
			duty:   mondayDuty("09:00", "18:00"),
			window: window(monday, 17, 30, 30),
			want:   true,
		},
		{
			name:   "starts before opening",
			duty:   mondayDuty("09:00", "18:00"),
			window: window(monday, 8, 30, 60),
			want:   false,
		},
		{
			name:   "runs past closing",
			duty:   mondayDuty("09:00", "18:00"),
			window: window(monday, 17, 45, 30),
			want:   false,
		},
		{
			name:   "wrong weekday",
			duty:   mondayDuty("09:00", "18:00"),
			window: window(monday.AddDate(0, 0, 1), 10, 0, 30),
			want:   false,
		},
		{
			name:   "no duty windows at all",
			duty:   nil,
			window: window(monday, 10, 0, 30),
			want:   false,
		},
		{
			name: "second window of the same day",
			duty: []domain.DutyWindow{
				{Weekday: time.Monday, OpensAt: "09:00", ClosesAt: "13:00"},
				{Weekday: time.Monday, OpensAt: "14:00", ClosesAt: "18:00"},
			},
			window: window(monday, 15, 0, 60),
			want:   true,
		},
		{
			name: "falls into the lunch gap",
			duty: []domain.DutyWindow{
				{Weekday: time.Monday, OpensAt: "09:00", ClosesAt: "13:00"},
				{Weekday: time.Monday, OpensAt: "14:00", ClosesAt: "18:00"},
			},
			window: window(monday, 12, 30, 60),
			want:   false,
		},
		{
			name:   "ends exactly at midnight of a 24:00 window",
			duty:   mondayDuty("20:00", "24:00"),
			window: window(monday, 23, 0, 60),
			want:   true,
		},
		{
			name:   "crosses midnight into the next day",
			duty:   mondayDuty("09:00", "24:00"),
			window: window(monday, 23, 30, 60),
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.CoversWindow(tt.duty, tt.window))
		})
	}
}

func TestCoversAllWindows(t *testing.T) {
	r := NewResolver()
	duty := mondayDuty("09:00", "18:00")

	assert.True(t, r.CoversAllWindows(duty, []domain.TimeWindow{
		window(monday, 9, 0, 30),
		window(monday, 9, 30, 30),
	}))

	assert.False(t, r.CoversAllWindows(duty, []domain.TimeWindow{
		window(monday, 9, 0, 30),
		window(monday, 17, 45, 30),
	}))
}

func TestClinicBlocked(t *testing.T) {
	r := NewResolver()

	clinicWide := &domain.ScheduleException{
		ID:       1,
		StartsAt: monday.Add(10 * time.Hour),
		EndsAt:   monday.Add(12 * time.Hour),
	}
	personal := &domain.ScheduleException{
		ID:             2,
		ProfessionalID: ptr.Ptr(int64(5)),
		StartsAt:       monday.Add(14 * time.Hour),
		EndsAt:         monday.Add(15 * time.Hour),
	}
	excs := []*domain.ScheduleException{personal, clinicWide}

	got := r.ClinicBlocked(excs, window(monday, 11, 0, 60))
	assert.Equal(t, clinicWide, got)

	// Персональное исключение клинику не блокирует
	assert.Nil(t, r.ClinicBlocked(excs, window(monday, 14, 0, 30)))

	// Соприкосновение границами не считается пересечением
	assert.Nil(t, r.ClinicBlocked(excs, window(monday, 12, 0, 60)))
}

func TestProfessionalBlocked(t *testing.T) {
	r := NewResolver()

	excs := []*domain.ScheduleException{
		{ID: 1, StartsAt: monday.Add(10 * time.Hour), EndsAt: monday.Add(12 * time.Hour)},
		{ID: 2, ProfessionalID: ptr.Ptr(int64(5)), StartsAt: monday.Add(14 * time.Hour), EndsAt: monday.Add(15 * time.Hour)},
	}

	windows := []domain.TimeWindow{window(monday, 14, 30, 30)}

	assert.True(t, r.ProfessionalBlocked(excs, 5, windows))

	// Чужое исключение не блокирует
	assert.False(t, r.ProfessionalBlocked(excs, 6, windows))

	// Вне блокировки
	assert.False(t, r.ProfessionalBlocked(excs, 5, []domain.TimeWindow{window(monday, 16, 0, 30)}))
}
