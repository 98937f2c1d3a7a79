package validate_candidate

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
)

// ResourceRepository интерфейс источника конфигурации ресурсов
type ResourceRepository interface {
	GetResourceContext(ctx context.Context, resourceID int64) (*domain.ResourceContext, error)
	GetService(ctx context.Context, resourceID, serviceID int64) (*domain.ServiceDescriptor, error)
}

// EventRepository интерфейс источника занятых интервалов
type EventRepository interface {
	GetByResourceAndDate(ctx context.Context, resourceID int64, date time.Time) ([]domain.OccupiedInterval, error)
}

// RulePipeline интерфейс пайплайна правил валидации
type RulePipeline interface {
	Evaluate(candidate domain.CandidateInterval, events []domain.OccupiedInterval, rctx *domain.ResourceContext, svc *domain.ServiceDescriptor) (domain.ValidationResult, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
