package drafts

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	"github.com/m04kA/SMC-SlotEngine/internal/integrations/pricingservice"
)

// PricingClient интерфейс клиента pricing-сервиса
type PricingClient interface {
	ResolvePrice(ctx context.Context, req *pricingservice.QuoteRequest) (*pricingservice.Quote, error)
}

// ResourceRepository интерфейс источника конфигурации ресурсов
type ResourceRepository interface {
	GetResourceContext(ctx context.Context, resourceID int64) (*domain.ResourceContext, error)
	GetService(ctx context.Context, resourceID, serviceID int64) (*domain.ServiceDescriptor, error)
}

// EventRepository интерфейс календаря занятых интервалов
type EventRepository interface {
	GetByResourceAndDate(ctx context.Context, resourceID int64, date time.Time) ([]domain.OccupiedInterval, error)
	Create(ctx context.Context, resourceID int64, interval domain.OccupiedInterval) error
}

// BookingRepository интерфейс репозитория подтвержденных бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// RulePipeline интерфейс пайплайна правил (повторная проверка при подтверждении)
type RulePipeline interface {
	Evaluate(candidate domain.CandidateInterval, events []domain.OccupiedInterval, rctx *domain.ResourceContext, svc *domain.ServiceDescriptor) (domain.ValidationResult, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics интерфейс счетчиков разрешения цены
type Metrics interface {
	IncPriceResolution(result string)
	SetDraftsActive(n int)
}

// nopMetrics используется, когда метрики выключены
type nopMetrics struct{}

func (nopMetrics) IncPriceResolution(string) {}
func (nopMetrics) SetDraftsActive(int)       {}
