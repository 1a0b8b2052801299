package workinghours

import (
	"time"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
	"github.com/m04kA/SMC-AllocationService/pkg/types"
)

// Resolver отвечает на вопрос "находится ли окно внутри рабочих часов"
// для клиники или специалиста с учетом блокирующих исключений.
// Не имеет состояния: все данные передаются вызывающим.
type Resolver struct{}

// NewResolver создает новый resolver
func NewResolver() *Resolver {
	return &Resolver{}
}

// CoversWindow проверяет, что окно целиком лежит внутри одного из рабочих
// окон соответствующего дня недели. Окно, пересекающее полночь, рабочими
// часами не покрывается.
func (r *Resolver) CoversWindow(duty []domain.DutyWindow, window domain.TimeWindow) bool {
	startDay := window.StartsAt.Truncate(24 * time.Hour)
	endDay := window.EndsAt.Truncate(24 * time.Hour)

	var endTime types.TimeString
	switch {
	case endDay.Equal(startDay):
		endTime = types.NewTimeString(window.EndsAt)
	case endDay.Equal(startDay.AddDate(0, 0, 1)) && window.EndsAt.Equal(endDay):
		// Окно заканчивается ровно в полночь следующего дня
		endTime = types.TimeString("24:00")
	default:
		return false
	}

	startTime := types.NewTimeString(window.StartsAt)
	weekday := window.StartsAt.Weekday()

	for _, w := range duty {
		if w.Weekday != weekday {
			continue
		}
		if !startTime.IsBefore(w.OpensAt) && !endTime.IsAfter(w.ClosesAt) {
			return true
		}
	}

	return false
}

// CoversAllWindows проверяет, что каждое из окон покрыто рабочими часами
func (r *Resolver) CoversAllWindows(duty []domain.DutyWindow, windows []domain.TimeWindow) bool {
	for _, window := range windows {
		if !r.CoversWindow(duty, window) {
			return false
		}
	}
	return true
}

// ClinicBlocked возвращает первое общеклиническое исключение,
// пересекающее окно, либо nil
func (r *Resolver) ClinicBlocked(excs []*domain.ScheduleException, window domain.TimeWindow) *domain.ScheduleException {
	for _, exc := range excs {
		if exc.IsClinicWide() && exc.Window().Overlaps(window) {
			return exc
		}
	}
	return nil
}

// ProfessionalBlocked возвращает true, если у специалиста есть исключение,
// пересекающее хотя бы одно из окон
func (r *Resolver) ProfessionalBlocked(excs []*domain.ScheduleException, professionalID int64, windows []domain.TimeWindow) bool {
	for _, exc := range excs {
		if exc.IsClinicWide() || *exc.ProfessionalID != professionalID {
			continue
		}
		for _, window := range windows {
			if exc.Window().Overlaps(window) {
				return true
			}
		}
	}
	return false
}
