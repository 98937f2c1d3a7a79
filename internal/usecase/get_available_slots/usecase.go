package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	resourceRepo "github.com/m04kA/SMC-SlotEngine/internal/infra/storage/resource"
	"github.com/m04kA/SMC-SlotEngine/internal/rules"
)

// UseCase use case для перечисления бронируемых слотов услуги на день
type UseCase struct {
	resourceRepo ResourceRepository
	eventRepo    EventRepository
	pipeline     RulePipeline
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	resourceRepo ResourceRepository,
	eventRepo EventRepository,
	pipeline RulePipeline,
	logger Logger,
) *UseCase {
	return &UseCase{
		resourceRepo: resourceRepo,
		eventRepo:    eventRepo,
		pipeline:     pipeline,
		logger:       logger,
	}
}

// Execute выполняет use case перечисления слотов.
// Сложность O(минут рабочего окна / шаг), на каждом шаге O(событий дня)
// внутри правил пересечения и отступа - приемлемо для одного ресурса на один день.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: user=%d, resource=%d, service=%d, date=%s",
		req.UserID, req.ResourceID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем конфигурацию ресурса
	rctx, err := uc.resourceRepo.GetResourceContext(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			uc.logger.Warn("GetAvailableSlots: resource id=%d not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get resource id=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}

	// 3. Получаем услугу
	svc, err := uc.resourceRepo.GetService(ctx, req.ResourceID, req.ServiceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 4. Получаем снимок занятых интервалов на дату
	events, err := uc.eventRepo.GetByResourceAndDate(ctx, req.ResourceID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get events: %v", err)
		return nil, fmt.Errorf("%w: failed to get events: %v", ErrInternal, err)
	}

	// 5. Генерируем кандидатов и фильтруем их пайплайном правил.
	// Ошибка конфигурации останавливает перечисление целиком;
	// отказ правила просто исключает кандидата из результата.
	candidates := buildCandidates(req.Date, rctx, svc)
	slots := make([]Slot, 0, len(candidates))

	for _, candidate := range candidates {
		result, err := uc.pipeline.Evaluate(candidate, events, rctx, svc)
		if err != nil {
			if errors.Is(err, rules.ErrInvalidContext) {
				uc.logger.Warn("GetAvailableSlots: invalid config for resource=%d: %v", req.ResourceID, err)
				return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
			}
			uc.logger.Error("GetAvailableSlots: pipeline failed: %v", err)
			return nil, fmt.Errorf("%w: pipeline: %v", ErrInternal, err)
		}
		if result.OK() {
			slots = append(slots, Slot{
				Start:           candidate.Start,
				End:             candidate.End,
				DurationMinutes: candidate.DurationMinutes(),
			})
		}
	}

	uc.logger.Info("GetAvailableSlots: %d of %d candidates bookable for resource=%d, service=%d, date=%s",
		len(slots), len(candidates), req.ResourceID, req.ServiceID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:       req.Date,
		ResourceID: req.ResourceID,
		ServiceID:  req.ServiceID,
		Slots:      slots,
	}, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ResourceID <= 0 {
		return fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}
