package search_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AllocationService/internal/infra/storage/catalog"
	planAllocation "github.com/m04kA/SMC-AllocationService/internal/usecase/plan_allocation"
)

// UseCase поиск доступных слотов: перебирает кандидатные времена начала с
// фиксированным шагом по рабочим часам клиники и прогоняет планировщик в
// dry-run режиме для каждого кандидата. Пустой результат - валидный ответ.
//
// Умный режим: при пустом результате поиск сдвигается вперед по дням в
// пределах горизонта; возвращается первая дата с результатами, подсказка и
// слоты, сгруппированные в непрерывные блоки.
type UseCase struct {
	planner           Planner
	catalog           CatalogStore
	stepMinutes       int
	searchHorizonDays int
	timeProvider      TimeProvider
	logger            Logger
}

// NewUseCase создает новый экземпляр use case поиска слотов
func NewUseCase(
	planner Planner,
	catalog CatalogStore,
	stepMinutes int,
	searchHorizonDays int,
	logger Logger,
) *UseCase {
	return &UseCase{
		planner:           planner,
		catalog:           catalog,
		stepMinutes:       stepMinutes,
		searchHorizonDays: searchHorizonDays,
		timeProvider:      &RealTimeProvider{},
		logger:            logger,
	}
}

// Execute выполняет поиск доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SearchSlots: service=%d, date=%s, smart=%v",
		req.ServiceID, req.Date.Format(domain.DateFormat), req.Smart)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("SearchSlots: validation failed: %v", err)
		return nil, err
	}

	service, err := uc.catalog.GetServiceWithPhases(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("SearchSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("SearchSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	clinicHours, err := uc.catalog.ClinicHours(ctx)
	if err != nil {
		uc.logger.Error("SearchSlots: failed to get clinic hours: %v", err)
		return nil, fmt.Errorf("%w: failed to get clinic hours: %v", ErrInternal, err)
	}

	slots, err := uc.enumerateDay(ctx, service, clinicHours, req.Date)
	if err != nil {
		return nil, err
	}

	response := &Response{
		ServiceID: req.ServiceID,
		Date:      req.Date,
		Slots:     slots,
	}

	if len(slots) > 0 || !req.Smart {
		uc.logger.Info("SearchSlots: found %d slots for service=%d on %s",
			len(slots), req.ServiceID, req.Date.Format(domain.DateFormat))
		return response, nil
	}

	// Умный режим: двигаемся вперед по дням до первого дня с результатами
	for shift := 1; shift <= uc.searchHorizonDays; shift++ {
		date := req.Date.AddDate(0, 0, shift)

		slots, err = uc.enumerateDay(ctx, service, clinicHours, date)
		if err != nil {
			return nil, err
		}
		if len(slots) == 0 {
			continue
		}

		hint := fmt.Sprintf("No availability on %s; the nearest open day is %s",
			req.Date.Format(domain.DateFormat), date.Format(domain.DateFormat))

		uc.logger.Info("SearchSlots: smart search shifted to %s, found %d slots for service=%d",
			date.Format(domain.DateFormat), len(slots), req.ServiceID)

		return &Response{
			ServiceID: req.ServiceID,
			Date:      date,
			Slots:     slots,
			Hint:      &hint,
			Blocks:    groupIntoBlocks(slots, uc.stepMinutes),
		}, nil
	}

	uc.logger.Info("SearchSlots: no availability for service=%d within %d days of %s",
		req.ServiceID, uc.searchHorizonDays, req.Date.Format(domain.DateFormat))

	return response, nil
}

// enumerateDay возвращает времена начала на дату, для которых планировщик
// успешно строит полный план. Доменные отказы планировщика означают
// "слот недоступен"; внутренние ошибки всегда поднимаются наверх.
func (uc *UseCase) enumerateDay(
	ctx context.Context,
	service *domain.Service,
	clinicHours []domain.DutyWindow,
	date time.Time,
) ([]time.Time, error) {
	now := uc.timeProvider.Now().UTC()
	if isDateInPast(date, now) {
		return []time.Time{}, nil
	}

	candidates, err := candidateStarts(clinicHours, date, uc.stepMinutes, service.TotalDurationMinutes())
	if err != nil {
		uc.logger.Error("SearchSlots: failed to generate candidates: %v", err)
		return nil, fmt.Errorf("%w: failed to generate candidates: %v", ErrInternal, err)
	}

	slots := make([]time.Time, 0, len(candidates))

	for _, candidate := range candidates {
		// Слоты, начинающиеся в прошлом, не предлагаем
		if candidate.Before(now) {
			continue
		}

		_, err := uc.planner.Execute(ctx, &planAllocation.Request{
			ServiceID: service.ID,
			StartsAt:  candidate,
		})
		if err == nil {
			slots = append(slots, candidate)
			continue
		}

		if _, ok := planAllocation.AsFail(err); ok {
			// Доменный отказ: кандидат просто недоступен
			continue
		}

		uc.logger.Error("SearchSlots: planner failed for candidate %s: %v", candidate, err)
		return nil, fmt.Errorf("%w: planner error: %v", ErrInternal, err)
	}

	return slots, nil
}
