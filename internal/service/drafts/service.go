package drafts

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	resourceRepo "github.com/m04kA/SMC-SlotEngine/internal/infra/storage/resource"
)

// DefaultDebounce окно откладывания для низкоприоритетных мутаций (опции, купон)
const DefaultDebounce = 1000 * time.Millisecond

// notifyBuffer размер буфера канала подписчика.
// Отправка неблокирующая: медленный подписчик теряет уведомления,
// но никогда не тормозит писателя.
const notifyBuffer = 16

// Service владеет черновиками бронирований и их машиной состояний.
//
// Единственный писатель: все мутации черновика проходят через сервис под
// общим мьютексом. Мутация интервала или услуги запускает немедленный
// пересчет цены, мутация опций или купона - отложенный (debounce).
// Устаревшие результаты отбрасываются по счетчику поколений (см. resolver.go).
type Service struct {
	pricing      PricingClient
	resourceRepo ResourceRepository
	eventRepo    EventRepository
	bookingRepo  BookingRepository
	pipeline     RulePipeline
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
	metrics      Metrics

	debounce time.Duration
	ttl      time.Duration // 0 = черновики не истекают

	mu     sync.Mutex
	drafts map[string]*entry
	subs   map[chan Notification]struct{}
	closed bool
}

// Option настройка сервиса черновиков
type Option func(*Service)

// WithDebounce задает окно откладывания для низкоприоритетных мутаций
func WithDebounce(d time.Duration) Option {
	return func(s *Service) { s.debounce = d }
}

// WithTTL задает время жизни неактивного черновика
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) { s.ttl = ttl }
}

// WithTimeProvider задает внешний источник времени (для тестирования)
func WithTimeProvider(tp TimeProvider) Option {
	return func(s *Service) { s.timeProvider = tp }
}

// WithMetrics подключает счетчики разрешения цены
func WithMetrics(m Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService создает новый экземпляр сервиса черновиков
func NewService(
	pricing PricingClient,
	resourceRepository ResourceRepository,
	eventRepo EventRepository,
	bookingRepo BookingRepository,
	pipeline RulePipeline,
	txManager TransactionManager,
	logger Logger,
	opts ...Option,
) *Service {
	s := &Service{
		pricing:      pricing,
		resourceRepo: resourceRepository,
		eventRepo:    eventRepo,
		bookingRepo:  bookingRepo,
		pipeline:     pipeline,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		metrics:      nopMetrics{},
		debounce:     DefaultDebounce,
		drafts:       make(map[string]*entry),
		subs:         make(map[chan Notification]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe возвращает канал уведомлений о переходах состояний.
// Канал закрывается при Close сервиса.
func (s *Service) Subscribe() <-chan Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Notification, notifyBuffer)
	s.subs[ch] = struct{}{}
	return ch
}

// Unsubscribe отписывает канал, полученный из Subscribe
func (s *Service) Unsubscribe(ch <-chan Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sub := range s.subs {
		if sub == ch {
			delete(s.subs, sub)
			close(sub)
			return
		}
	}
}

// Close отменяет отложенные запросы цены и закрывает каналы подписчиков
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for _, e := range s.drafts {
		e.gen++
		s.stopTimerLocked(e)
	}
	for sub := range s.subs {
		close(sub)
		delete(s.subs, sub)
	}
}

// SelectInterval создает черновик из первого принятого интервала или меняет
// интервал существующего черновика. Интервал обязан быть предварительно
// принят интерактивной валидацией - сервис доверяет вызывающей стороне.
// Мутация сбрасывает цену и запускает немедленный пересчет.
func (s *Service) SelectInterval(ctx context.Context, req *SelectIntervalRequest) (*DraftView, error) {
	if req.ResourceID <= 0 {
		return nil, fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}
	if !req.End.After(req.Start) {
		return nil, fmt.Errorf("%w: end must be after start", ErrInvalidInput)
	}

	var svc *domain.ServiceDescriptor
	if req.ServiceID != nil {
		loaded, err := s.loadService(ctx, req.ResourceID, *req.ServiceID)
		if err != nil {
			return nil, err
		}
		svc = loaded
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var e *entry
	if req.DraftID == "" {
		now := s.timeProvider.Now()
		e = &entry{
			draft: &domain.BookingDraft{
				ID:         uuid.NewString(),
				ResourceID: req.ResourceID,
				UserID:     req.UserID,
				CreatedAt:  now,
			},
			state: domain.StateEmpty,
		}
		s.drafts[e.draft.ID] = e
		s.metrics.SetDraftsActive(len(s.drafts))

		// Первый валидный интервал: Empty -> Selecting
		e.draft.Interval = domain.CandidateInterval{Start: req.Start, End: req.End}
		e.draft.Service = svc
		s.touchLocked(e)
		e.state = domain.StateSelecting
		s.notifyLocked(e)
		s.logger.Info("SelectInterval: draft %s created for resource=%d user=%d", e.draft.ID, req.ResourceID, req.UserID)
	} else {
		var err error
		e, err = s.entryLocked(req.DraftID)
		if err != nil {
			return nil, err
		}
		e.draft.Interval = domain.CandidateInterval{Start: req.Start, End: req.End}
		if req.ServiceID != nil {
			e.draft.Service = svc
		}
		s.touchLocked(e)
		s.logger.Info("SelectInterval: draft %s interval changed", e.draft.ID)
	}

	s.markStaleLocked(e)
	s.scheduleImmediateLocked(e)

	return s.viewLocked(e), nil
}

// SetService устанавливает или сбрасывает (serviceID == nil) услугу черновика.
// Смена услуги меняет ценовые входы, поэтому цена сбрасывается и
// пересчитывается немедленно.
func (s *Service) SetService(ctx context.Context, draftID string, serviceID *int64) (*DraftView, error) {
	var svc *domain.ServiceDescriptor
	if serviceID != nil {
		s.mu.Lock()
		e, err := s.entryLocked(draftID)
		if err != nil {
			s.mu.Unlock()
			return nil, err
		}
		resourceID := e.draft.ResourceID
		s.mu.Unlock()

		loaded, err := s.loadService(ctx, resourceID, *serviceID)
		if err != nil {
			return nil, err
		}
		svc = loaded
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.entryLocked(draftID)
	if err != nil {
		return nil, err
	}

	e.draft.Service = svc
	s.touchLocked(e)
	s.markStaleLocked(e)
	s.scheduleImmediateLocked(e)

	return s.viewLocked(e), nil
}

// SetExtras заменяет опции черновика. Низкоприоритетная мутация:
// пересчет цены откладывается на окно debounce.
func (s *Service) SetExtras(ctx context.Context, draftID string, extras map[string]interface{}) (*DraftView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.entryLocked(draftID)
	if err != nil {
		return nil, err
	}

	e.draft.Extras = extras
	s.touchLocked(e)
	s.markStaleLocked(e)
	s.scheduleDebouncedLocked(e)

	return s.viewLocked(e), nil
}

// SetCoupon устанавливает или сбрасывает (coupon == nil) купон черновика.
// Низкоприоритетная мутация: пересчет цены откладывается на окно debounce.
func (s *Service) SetCoupon(ctx context.Context, draftID string, coupon *string) (*DraftView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.entryLocked(draftID)
	if err != nil {
		return nil, err
	}

	e.draft.Coupon = coupon
	s.touchLocked(e)
	s.markStaleLocked(e)
	s.scheduleDebouncedLocked(e)

	return s.viewLocked(e), nil
}

// Get возвращает снимок черновика с его текущим состоянием
func (s *Service) Get(ctx context.Context, draftID string) (*DraftView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.entryLocked(draftID)
	if err != nil {
		return nil, err
	}
	return s.viewLocked(e), nil
}

// RetryPrice повторяет неудавшийся запрос цены по немедленному пути
// с текущим снимком черновика
func (s *Service) RetryPrice(ctx context.Context, draftID string) (*DraftView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.entryLocked(draftID)
	if err != nil {
		return nil, err
	}
	if !e.draft.Pricable() {
		return nil, ErrNotPricable
	}
	if !e.draft.PriceStale() {
		return nil, ErrPriceUpToDate
	}

	s.touchLocked(e)
	s.scheduleImmediateLocked(e)

	return s.viewLocked(e), nil
}

// Discard сбрасывает черновик: отложенные запросы отменяются,
// результаты запросов в полете будут отброшены
func (s *Service) Discard(ctx context.Context, draftID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.entryLocked(draftID)
	if err != nil {
		return err
	}

	s.removeLocked(e)
	s.logger.Info("Discard: draft %s discarded", draftID)
	return nil
}

// Confirm подтверждает черновик с актуальной ценой: внутри сериализуемой
// транзакции интервал перепроверяется пайплайном по свежему снимку календаря,
// бронирование и занятый интервал сохраняются, черновик сбрасывается
func (s *Service) Confirm(ctx context.Context, draftID string) (*domain.Booking, error) {
	s.mu.Lock()
	e, err := s.entryLocked(draftID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if e.state != domain.StatePriced || e.draft.PriceStale() {
		s.mu.Unlock()
		return nil, ErrPriceNotResolved
	}
	snap := e.draft.Clone()
	s.mu.Unlock()

	rctx, err := s.resourceRepo.GetResourceContext(ctx, snap.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			return nil, fmt.Errorf("%w: resource %d disappeared", ErrInternal, snap.ResourceID)
		}
		s.logger.Error("Confirm: failed to get resource id=%d: %v", snap.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}

	var created *domain.Booking
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Свежий снимок календаря под блокировкой сериализуемой транзакции
		events, err := s.eventRepo.GetByResourceAndDate(txCtx, snap.ResourceID, snap.Interval.Start)
		if err != nil {
			return fmt.Errorf("%w: failed to get events: %v", ErrInternal, err)
		}

		result, err := s.pipeline.Evaluate(snap.Interval, events, rctx, snap.Service)
		if err != nil {
			return fmt.Errorf("%w: pipeline: %v", ErrInternal, err)
		}
		if !result.OK() {
			s.logger.Warn("Confirm: draft %s lost its slot: %s", draftID, result.Reason())
			return fmt.Errorf("%w: %s", ErrSlotNotAvailable, result.Reason())
		}

		booking := &domain.Booking{
			DraftID:        snap.ID,
			ResourceID:     snap.ResourceID,
			UserID:         snap.UserID,
			StartAt:        snap.Interval.Start,
			EndAt:          snap.Interval.End,
			Price:          *snap.Price,
			PriceBreakdown: snap.PriceBreakdown,
			Extras:         snap.Extras,
			Coupon:         snap.Coupon,
			Status:         domain.StatusConfirmed,
		}
		if snap.Service != nil {
			booking.ServiceID = &snap.Service.ID
		}

		created, err = s.bookingRepo.Create(txCtx, booking)
		if err != nil {
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		return s.eventRepo.Create(txCtx, snap.ResourceID, created.OccupiedInterval())
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if e, ok := s.drafts[draftID]; ok {
		s.removeLocked(e)
	}
	s.mu.Unlock()

	s.logger.Info("Confirm: draft %s confirmed as booking id=%d", draftID, created.ID)
	return created, nil
}

// loadService получает дескриптор услуги для черновика
func (s *Service) loadService(ctx context.Context, resourceID, serviceID int64) (*domain.ServiceDescriptor, error) {
	svc, err := s.resourceRepo.GetService(ctx, resourceID, serviceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrServiceNotFound) {
			return nil, fmt.Errorf("%w: service %d", ErrInvalidInput, serviceID)
		}
		s.logger.Error("loadService: failed to get service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	return svc, nil
}

// entryLocked находит живой черновик; истекший по TTL удаляется как сброшенный
func (s *Service) entryLocked(draftID string) (*entry, error) {
	e, ok := s.drafts[draftID]
	if !ok {
		return nil, ErrDraftNotFound
	}
	if s.ttl > 0 && s.timeProvider.Now().Sub(e.touched) > s.ttl {
		s.removeLocked(e)
		s.logger.Info("entry: draft %s expired", draftID)
		return nil, ErrDraftNotFound
	}
	return e, nil
}

func (s *Service) touchLocked(e *entry) {
	now := s.timeProvider.Now()
	e.touched = now
	e.draft.UpdatedAt = now
}

// removeLocked убирает черновик: любой state -> Empty
func (s *Service) removeLocked(e *entry) {
	e.gen++
	s.stopTimerLocked(e)
	delete(s.drafts, e.draft.ID)
	s.metrics.SetDraftsActive(len(s.drafts))
	e.state = domain.StateEmpty
	s.notifyLocked(e)
}

func (s *Service) viewLocked(e *entry) *DraftView {
	view := &DraftView{
		State: e.state,
		Draft: e.draft.Clone(),
	}
	if e.lastErr != nil {
		view.PriceErr = e.lastErr.Error()
	}
	return view
}

// notifyLocked рассылает уведомление о переходе состояния.
// Отправка неблокирующая: переполненный подписчик пропускает переход.
func (s *Service) notifyLocked(e *entry) {
	n := Notification{
		State: e.state,
		Draft: *e.draft.Clone(),
	}
	if e.lastErr != nil {
		n.PriceErr = e.lastErr.Error()
	}
	for sub := range s.subs {
		select {
		case sub <- n:
		default:
		}
	}
}
