package search_slots

import (
	"time"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
)

// candidateStarts генерирует кандидатные времена начала на дату с фиксированным
// шагом по рабочим часам клиники. Кандидат отбрасывается, если полная
// длительность услуги не помещается до закрытия.
func candidateStarts(
	clinicHours []domain.DutyWindow,
	date time.Time,
	stepMinutes int,
	serviceDurationMinutes int,
) ([]time.Time, error) {
	weekday := date.Weekday()

	candidates := make([]time.Time, 0)

	for _, window := range clinicHours {
		if window.Weekday != weekday {
			continue
		}

		openMinutes, err := window.OpensAt.Minutes()
		if err != nil {
			return nil, err
		}
		closeMinutes, err := window.ClosesAt.Minutes()
		if err != nil {
			return nil, err
		}

		dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

		for m := openMinutes; m+serviceDurationMinutes <= closeMinutes; m += stepMinutes {
			candidates = append(candidates, dayStart.Add(time.Duration(m)*time.Minute))
		}
	}

	return candidates, nil
}

// groupIntoBlocks группирует отсортированные слоты в максимальные серии подряд
// идущих кандидатов: слот продолжает серию, если отстоит от предыдущего ровно
// на шаг. Конец блока - начало последнего слота плюс шаг.
func groupIntoBlocks(slots []time.Time, stepMinutes int) []Block {
	if len(slots) == 0 {
		return []Block{}
	}

	step := time.Duration(stepMinutes) * time.Minute
	blocks := make([]Block, 0)

	current := Block{
		StartsAt: slots[0],
		Slots:    []time.Time{slots[0]},
	}

	for _, slot := range slots[1:] {
		last := current.Slots[len(current.Slots)-1]
		if slot.Equal(last.Add(step)) {
			current.Slots = append(current.Slots, slot)
			continue
		}

		current.EndsAt = last.Add(step)
		blocks = append(blocks, current)
		current = Block{
			StartsAt: slot,
			Slots:    []time.Time{slot},
		}
	}

	last := current.Slots[len(current.Slots)-1]
	current.EndsAt = last.Add(step)
	blocks = append(blocks, current)

	return blocks
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return dateOnly.Before(nowOnly)
}
