package validate_candidate

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	resourceRepo "github.com/m04kA/SMC-SlotEngine/internal/infra/storage/resource"
	"github.com/m04kA/SMC-SlotEngine/internal/rules"
)

// UseCase use case интерактивной валидации выделенного интервала
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

// Execute выполняет use case интерактивной валидации.
// Вызывается на каждое движение курсора при выделении, поэтому первым делом
// коротко замыкается на кандидате, совпадающем с предыдущим: повторное событие
// не должно перезапускать побочные эффекты.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ValidateCandidate: validation failed: %v", err)
		return nil, err
	}

	// 2. Совпадение с предыдущим кандидатом - не принятие и не отказ
	if req.Prior != nil && req.Candidate.Equal(*req.Prior) {
		return &Response{Outcome: OutcomeUnchanged, Candidate: req.Candidate}, nil
	}

	// 3. Получаем конфигурацию ресурса
	rctx, err := uc.resourceRepo.GetResourceContext(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			uc.logger.Warn("ValidateCandidate: resource id=%d not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("ValidateCandidate: failed to get resource id=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}

	// 4. Получаем активную услугу, если она выбрана
	var svc *domain.ServiceDescriptor
	if req.ServiceID != nil {
		svc, err = uc.resourceRepo.GetService(ctx, req.ResourceID, *req.ServiceID)
		if err != nil {
			if errors.Is(err, resourceRepo.ErrServiceNotFound) {
				uc.logger.Warn("ValidateCandidate: service id=%d not found", *req.ServiceID)
				return nil, ErrServiceNotFound
			}
			uc.logger.Error("ValidateCandidate: failed to get service id=%d: %v", *req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
	}

	// 5. Получаем снимок занятых интервалов на сутки кандидата
	events, err := uc.eventRepo.GetByResourceAndDate(ctx, req.ResourceID, req.Candidate.Start)
	if err != nil {
		uc.logger.Error("ValidateCandidate: failed to get events: %v", err)
		return nil, fmt.Errorf("%w: failed to get events: %v", ErrInternal, err)
	}

	// 6. Прогоняем кандидата через пайплайн правил
	result, err := uc.pipeline.Evaluate(req.Candidate, events, rctx, svc)
	if err != nil {
		if errors.Is(err, rules.ErrInvalidContext) {
			uc.logger.Warn("ValidateCandidate: invalid config for resource=%d: %v", req.ResourceID, err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		uc.logger.Error("ValidateCandidate: pipeline failed: %v", err)
		return nil, fmt.Errorf("%w: pipeline: %v", ErrInternal, err)
	}

	if !result.OK() {
		uc.logger.Info("ValidateCandidate: rejected for resource=%d: %s", req.ResourceID, result.Reason())
		return &Response{
			Outcome:   OutcomeRejected,
			Reason:    result.Reason(),
			Candidate: req.Candidate,
		}, nil
	}

	uc.logger.Info("ValidateCandidate: accepted %s - %s for resource=%d",
		req.Candidate.Start.Format(domain.DateTimeFormat),
		req.Candidate.End.Format(domain.DateTimeFormat),
		req.ResourceID)

	return &Response{Outcome: OutcomeAccepted, Candidate: req.Candidate}, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ResourceID <= 0 {
		return fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}

	if req.Candidate.Start.IsZero() || req.Candidate.End.IsZero() {
		return fmt.Errorf("%w: candidate start and end are required", ErrInvalidInput)
	}

	if req.ServiceID != nil && *req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	return nil
}
