package plan_allocation

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AllocationService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AllocationService/internal/infra/storage/ledger"
)

// UseCase планировщик аллокаций: по услуге и времени начала строит полный
// план назначения специалиста и физических ресурсов на все фазы, либо
// возвращает типизированный отказ
//
// Планирование - чистое вычисление над консистентным срезом каталога и
// реестра занятости: никаких записей, никакого внутреннего состояния.
// Детерминизм обязателен: идентичный срез всегда дает идентичный план
// (кандидаты перебираются в порядке возрастания ID, побеждает первый
// подходящий). От этого зависят поиск слотов и воспроизводимость тестов.
type UseCase struct {
	catalog    CatalogStore
	exceptions ExceptionStore
	ledger     OccupancyLedger
	resolver   WorkingHoursResolver
	logger     Logger
}

// NewUseCase создает новый экземпляр планировщика
func NewUseCase(
	catalog CatalogStore,
	exceptions ExceptionStore,
	occupancy OccupancyLedger,
	resolver WorkingHoursResolver,
	logger Logger,
) *UseCase {
	return &UseCase{
		catalog:    catalog,
		exceptions: exceptions,
		ledger:     occupancy,
		resolver:   resolver,
		logger:     logger,
	}
}

// Execute строит план аллокаций для запрошенной услуги и времени начала
//
// Шаги:
//  1. Фазы услуги раскладываются последовательно от StartsAt
//     (фаза i+1 начинается ровно там, где заканчивается фаза i)
//  2. Общеклиническое исключение, пересекающее окно брони → CLINIC_BLOCKED
//  3. Специалист подбирается один на все фазы: рабочие часы должны покрывать
//     каждое окно фазы, личные исключения не должны пересекать ни одно из них,
//     и на каждой фазе сумма занятых долей + доля фазы не превышает 1.0
//  4. Для фаз с требованием ресурса подбирается первый свободный ресурс типа
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.AllocationPlan, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("PlanAllocation: validation failed: %v", err)
		return nil, err
	}

	// 1. Загружаем услугу с фазами (отсортированы по phase_order)
	service, err := uc.catalog.GetServiceWithPhases(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("PlanAllocation: service id=%d not found", req.ServiceID)
			return nil, newFail(CodeNotFound, msgServiceNotFound)
		}
		uc.logger.Error("PlanAllocation: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 2. Раскладываем окна фаз последовательно от запрошенного начала
	windows := layoutPhaseWindows(service.Phases, req)
	span := windows[0]
	for _, w := range windows[1:] {
		span = span.Union(w)
	}

	// 3. Загружаем исключения, пересекающие окно брони
	excs, err := uc.exceptions.ListBlocking(ctx, span)
	if err != nil {
		uc.logger.Error("PlanAllocation: failed to list exceptions: %v", err)
		return nil, fmt.Errorf("%w: failed to list exceptions: %v", ErrInternal, err)
	}

	if exc := uc.resolver.ClinicBlocked(excs, span); exc != nil {
		uc.logger.Info("PlanAllocation: clinic blocked by exception id=%d for service=%d at %s",
			exc.ID, req.ServiceID, req.StartsAt.Format(domain.DateFormat))
		return nil, newFail(CodeClinicBlocked, msgClinicBlocked)
	}

	// 4. Строим множество подходящих по расписанию специалистов
	eligible, err := uc.eligibleProfessionals(ctx, excs, windows)
	if err != nil {
		return nil, err
	}
	if len(eligible) == 0 {
		uc.logger.Info("PlanAllocation: no professional on duty for service=%d at %s",
			req.ServiceID, req.StartsAt)
		return nil, newFail(CodeOutOfSchedule, msgOutOfSchedule)
	}

	// 5. Первый специалист с достаточной свободной долей на каждой фазе
	chosen, err := uc.selectProfessional(ctx, eligible, service.Phases, windows, req.ExcludeAppointmentID)
	if err != nil {
		return nil, err
	}
	if chosen == nil {
		uc.logger.Info("PlanAllocation: no professional has capacity for service=%d at %s",
			req.ServiceID, req.StartsAt)
		return nil, newFail(CodeProfessionalBusy, msgProfessionalBusy)
	}

	// 6. Для каждой фазы с требованием ресурса - первый свободный ресурс типа
	resourceIDs, fail, err := uc.selectResources(ctx, service.Phases, windows, req.ExcludeAppointmentID)
	if err != nil {
		return nil, err
	}
	if fail != nil {
		uc.logger.Info("PlanAllocation: %s for service=%d at %s", fail.Message, req.ServiceID, req.StartsAt)
		return nil, fail
	}

	// 7. Собираем план: по одной аллокации на фазу, все с выбранным специалистом
	plan := &domain.AllocationPlan{
		ServiceID:      service.ID,
		ProfessionalID: chosen.ID,
		StartsAt:       span.StartsAt,
		EndsAt:         span.EndsAt,
	}
	for i, phase := range service.Phases {
		plan.Allocations = append(plan.Allocations, domain.PlannedAllocation{
			PhaseID:            phase.ID,
			PhaseOrder:         phase.PhaseOrder,
			ProfessionalID:     chosen.ID,
			PhysicalResourceID: resourceIDs[i],
			StartsAt:           windows[i].StartsAt,
			EndsAt:             windows[i].EndsAt,
			Fraction:           phase.ProfessionalFraction,
		})
	}

	uc.logger.Info("PlanAllocation: planned service=%d professional=%d phases=%d span=[%s, %s)",
		service.ID, chosen.ID, len(plan.Allocations),
		plan.StartsAt.Format("2006-01-02 15:04"), plan.EndsAt.Format("2006-01-02 15:04"))

	return plan, nil
}

// layoutPhaseWindows раскладывает абсолютные окна фаз последовательно от начала
func layoutPhaseWindows(phases []*domain.ServicePhase, req *Request) []domain.TimeWindow {
	windows := make([]domain.TimeWindow, 0, len(phases))
	cursor := req.StartsAt.UTC()
	for _, phase := range phases {
		window := domain.NewTimeWindow(cursor, phase.DurationMinutes)
		windows = append(windows, window)
		cursor = window.EndsAt
	}
	return windows
}

// eligibleProfessionals возвращает активных специалистов, чьи рабочие часы
// покрывают каждое окно фазы и у кого нет личных исключений на эти окна.
// Порядок стабильный: по возрастанию ID.
func (uc *UseCase) eligibleProfessionals(
	ctx context.Context,
	excs []*domain.ScheduleException,
	windows []domain.TimeWindow,
) ([]*domain.Professional, error) {
	professionals, err := uc.catalog.ListActiveProfessionals(ctx)
	if err != nil {
		uc.logger.Error("PlanAllocation: failed to list professionals: %v", err)
		return nil, fmt.Errorf("%w: failed to list professionals: %v", ErrInternal, err)
	}

	sort.Slice(professionals, func(i, j int) bool {
		return professionals[i].ID < professionals[j].ID
	})

	eligible := make([]*domain.Professional, 0, len(professionals))
	for _, p := range professionals {
		if !uc.resolver.CoversAllWindows(p.DutyHours, windows) {
			continue
		}
		if uc.resolver.ProfessionalBlocked(excs, p.ID, windows) {
			continue
		}
		eligible = append(eligible, p)
	}

	return eligible, nil
}

// selectProfessional возвращает первого кандидата, у которого на КАЖДОЙ фазе
// сумма занятых долей плюс доля фазы не превышает полную занятость.
// Возвращает nil без ошибки, если ни один кандидат не подходит.
func (uc *UseCase) selectProfessional(
	ctx context.Context,
	candidates []*domain.Professional,
	phases []*domain.ServicePhase,
	windows []domain.TimeWindow,
	excludeAppointmentID *int64,
) (*domain.Professional, error) {
	for _, candidate := range candidates {
		fits := true

		for i, phase := range phases {
			records, err := uc.ledger.Overlapping(ctx, windows[i], ledger.Filter{
				ProfessionalID:       &candidate.ID,
				ExcludeAppointmentID: excludeAppointmentID,
			})
			if err != nil {
				uc.logger.Error("PlanAllocation: failed to read ledger for professional id=%d: %v",
					candidate.ID, err)
				return nil, fmt.Errorf("%w: failed to read occupancy ledger: %v", ErrInternal, err)
			}

			existing := 0.0
			for _, rec := range records {
				existing += rec.Fraction
			}

			if existing+phase.ProfessionalFraction > domain.FullCapacity+domain.FractionEpsilon {
				fits = false
				break
			}
		}

		if fits {
			return candidate, nil
		}
	}

	return nil, nil
}

// selectResources подбирает по свободному ресурсу на каждую фазу с требованием
// типа. Результат индексирован по фазам; nil - фазе ресурс не нужен.
// Ресурсы эксклюзивны: любое пересечение окна делает ресурс недоступным.
func (uc *UseCase) selectResources(
	ctx context.Context,
	phases []*domain.ServicePhase,
	windows []domain.TimeWindow,
	excludeAppointmentID *int64,
) ([]*int64, *Fail, error) {
	resourceIDs := make([]*int64, len(phases))

	for i, phase := range phases {
		if !phase.RequiresResource() {
			continue
		}

		resources, err := uc.catalog.ListActiveResourcesByType(ctx, *phase.ResourceType)
		if err != nil {
			uc.logger.Error("PlanAllocation: failed to list resources of type %q: %v",
				*phase.ResourceType, err)
			return nil, nil, fmt.Errorf("%w: failed to list resources: %v", ErrInternal, err)
		}

		sort.Slice(resources, func(a, b int) bool {
			return resources[a].ID < resources[b].ID
		})

		var chosen *int64
		for _, res := range resources {
			records, err := uc.ledger.Overlapping(ctx, windows[i], ledger.Filter{
				PhysicalResourceID:   &res.ID,
				ExcludeAppointmentID: excludeAppointmentID,
			})
			if err != nil {
				uc.logger.Error("PlanAllocation: failed to read ledger for resource id=%d: %v", res.ID, err)
				return nil, nil, fmt.Errorf("%w: failed to read occupancy ledger: %v", ErrInternal, err)
			}
			if len(records) == 0 {
				id := res.ID
				chosen = &id
				break
			}
		}

		if chosen == nil {
			return nil, newFail(CodeResourceBusy, fmt.Sprintf(msgResourceBusyFmt, *phase.ResourceType)), nil
		}
		resourceIDs[i] = chosen
	}

	return resourceIDs, nil, nil
}
