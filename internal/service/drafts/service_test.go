package drafts

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	"github.com/m04kA/SMC-SlotEngine/internal/integrations/pricingservice"
	"github.com/m04kA/SMC-SlotEngine/pkg/metrics"
)

const waitFor = 2 * time.Second
const tick = 5 * time.Millisecond

type mockPricing struct {
	mu     sync.Mutex
	calls  int
	reqs   []*pricingservice.QuoteRequest
	quote  pricingservice.Quote
	err    error
	prices map[string]float64 // цена по началу интервала, если задано
}

func (m *mockPricing) ResolvePrice(ctx context.Context, req *pricingservice.QuoteRequest) (*pricingservice.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.reqs = append(m.reqs, req)
	if m.err != nil {
		return nil, m.err
	}
	quote := m.quote
	if m.prices != nil {
		if price, ok := m.prices[req.Start]; ok {
			quote.Price = price
		}
	}
	return &quote, nil
}

func (m *mockPricing) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockPricing) lastRequest() *pricingservice.QuoteRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.reqs) == 0 {
		return nil
	}
	return m.reqs[len(m.reqs)-1]
}

func (m *mockPricing) setErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// gatedPricing блокирует каждый вызов до явного освобождения из теста
type gatedPricing struct {
	mu      sync.Mutex
	release []chan struct{}
	started chan int
	prices  map[string]float64
}

func newGatedPricing(prices map[string]float64) *gatedPricing {
	return &gatedPricing{
		started: make(chan int, 8),
		prices:  prices,
	}
}

func (g *gatedPricing) ResolvePrice(ctx context.Context, req *pricingservice.QuoteRequest) (*pricingservice.Quote, error) {
	g.mu.Lock()
	idx := len(g.release)
	ch := make(chan struct{})
	g.release = append(g.release, ch)
	price := g.prices[req.Start]
	g.mu.Unlock()

	g.started <- idx
	<-ch
	return &pricingservice.Quote{Price: price}, nil
}

func (g *gatedPricing) releaseCall(idx int) {
	g.mu.Lock()
	ch := g.release[idx]
	g.mu.Unlock()
	close(ch)
}

type mockResourceRepo struct {
	rctx *domain.ResourceContext
	svc  *domain.ServiceDescriptor
}

func (m *mockResourceRepo) GetResourceContext(ctx context.Context, resourceID int64) (*domain.ResourceContext, error) {
	return m.rctx, nil
}

func (m *mockResourceRepo) GetService(ctx context.Context, resourceID, serviceID int64) (*domain.ServiceDescriptor, error) {
	return m.svc, nil
}

type mockEventRepo struct {
	mu      sync.Mutex
	events  []domain.OccupiedInterval
	created []domain.OccupiedInterval
}

func (m *mockEventRepo) GetByResourceAndDate(ctx context.Context, resourceID int64, date time.Time) ([]domain.OccupiedInterval, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events, nil
}

func (m *mockEventRepo) Create(ctx context.Context, resourceID int64, interval domain.OccupiedInterval) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, interval)
	return nil
}

type mockBookingRepo struct {
	mu      sync.Mutex
	created []*domain.Booking
}

func (m *mockBookingRepo) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	booking.ID = int64(len(m.created) + 1)
	booking.CreatedAt = time.Now()
	m.created = append(m.created, booking)
	return booking, nil
}

type stubPipeline struct {
	result domain.ValidationResult
}

func (s *stubPipeline) Evaluate(candidate domain.CandidateInterval, events []domain.OccupiedInterval, rctx *domain.ResourceContext, svc *domain.ServiceDescriptor) (domain.ValidationResult, error) {
	return s.result, nil
}

type passTxManager struct{}

func (passTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type countingMetrics struct {
	mu      sync.Mutex
	results map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{results: make(map[string]int)}
}

func (c *countingMetrics) IncPriceResolution(result string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[result]++
}

func (c *countingMetrics) SetDraftsActive(n int) {}

func (c *countingMetrics) count(result string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.results[result]
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func civil(hour, minute int) time.Time {
	return time.Date(2026, 9, 1, hour, minute, 0, 0, time.UTC)
}

type fixture struct {
	service  *Service
	pricing  PricingClient
	events   *mockEventRepo
	bookings *mockBookingRepo
	pipeline *stubPipeline
}

func newFixture(t *testing.T, pricing PricingClient, opts ...Option) *fixture {
	t.Helper()

	events := &mockEventRepo{}
	bookings := &mockBookingRepo{}
	pipeline := &stubPipeline{result: domain.Valid}
	resources := &mockResourceRepo{
		rctx: &domain.ResourceContext{ResourceID: 1, OpeningMinutes: 9 * 60, ClosingMinutes: 17 * 60, StepMinutes: 30},
		svc:  &domain.ServiceDescriptor{ID: 5, ResourceID: 1, DurationSteps: 2},
	}

	svc := NewService(pricing, resources, events, bookings, pipeline, passTxManager{}, nopLogger{}, opts...)
	t.Cleanup(svc.Close)

	return &fixture{
		service:  svc,
		pricing:  pricing,
		events:   events,
		bookings: bookings,
		pipeline: pipeline,
	}
}

func (f *fixture) createDraft(t *testing.T) string {
	t.Helper()
	view, err := f.service.SelectInterval(context.Background(), &SelectIntervalRequest{
		UserID:     7,
		ResourceID: 1,
		Start:      civil(10, 0),
		End:        civil(11, 0),
	})
	require.NoError(t, err)
	return view.Draft.ID
}

func (f *fixture) waitForState(t *testing.T, draftID string, want domain.DraftState) *DraftView {
	t.Helper()
	var view *DraftView
	require.Eventually(t, func() bool {
		v, err := f.service.Get(context.Background(), draftID)
		if err != nil {
			return false
		}
		view = v
		return v.State == want
	}, waitFor, tick, "draft %s never reached state %s", draftID, want)
	return view
}

func TestSelectInterval_CreatesAndPricesDraft(t *testing.T) {
	pricing := &mockPricing{quote: pricingservice.Quote{
		Price:        1500,
		Breakdown:    []pricingservice.BreakdownLine{{Label: "base", Amount: 1500}},
		InfoMessages: []string{"standard rate"},
	}}
	f := newFixture(t, pricing)

	view, err := f.service.SelectInterval(context.Background(), &SelectIntervalRequest{
		UserID:     7,
		ResourceID: 1,
		Start:      civil(10, 0),
		End:        civil(11, 0),
	})

	require.NoError(t, err)
	assert.NotEmpty(t, view.Draft.ID)
	assert.Nil(t, view.Draft.Price)

	priced := f.waitForState(t, view.Draft.ID, domain.StatePriced)
	require.NotNil(t, priced.Draft.Price)
	assert.Equal(t, 1500.0, *priced.Draft.Price)
	assert.Equal(t, []domain.PriceLine{{Label: "base", Amount: 1500}}, priced.Draft.PriceBreakdown)
	assert.Equal(t, []string{"standard rate"}, priced.Draft.InfoMessages)
}

func TestSelectInterval_InvalidInput(t *testing.T) {
	f := newFixture(t, &mockPricing{})

	_, err := f.service.SelectInterval(context.Background(), &SelectIntervalRequest{
		ResourceID: 1,
		Start:      civil(11, 0),
		End:        civil(10, 0),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.service.SelectInterval(context.Background(), &SelectIntervalRequest{
		Start: civil(10, 0),
		End:   civil(11, 0),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMutation_ResetsPriceBeforeRefetch(t *testing.T) {
	pricing := &mockPricing{quote: pricingservice.Quote{Price: 1000}}
	f := newFixture(t, pricing, WithDebounce(50*time.Millisecond))

	draftID := f.createDraft(t)
	f.waitForState(t, draftID, domain.StatePriced)

	// Мутация опций мгновенно сбрасывает цену, пересчет откладывается
	view, err := f.service.SetExtras(context.Background(), draftID, map[string]interface{}{"cleaning": true})
	require.NoError(t, err)
	assert.Nil(t, view.Draft.Price)
	assert.Equal(t, domain.StatePriceUnknown, view.State)

	f.waitForState(t, draftID, domain.StatePriced)
	require.NotNil(t, pricing.lastRequest().Extras)
}

func TestDebounce_CollapsesRapidMutations(t *testing.T) {
	pricing := &mockPricing{quote: pricingservice.Quote{Price: 1000}}
	f := newFixture(t, pricing, WithDebounce(100*time.Millisecond))

	draftID := f.createDraft(t)
	f.waitForState(t, draftID, domain.StatePriced)
	require.Equal(t, 1, pricing.callCount())

	// Серия быстрых мутаций внутри окна debounce: сетевой вызов один
	coupon := "SAVE10"
	_, err := f.service.SetExtras(context.Background(), draftID, map[string]interface{}{"cleaning": true})
	require.NoError(t, err)
	_, err = f.service.SetCoupon(context.Background(), draftID, &coupon)
	require.NoError(t, err)

	f.waitForState(t, draftID, domain.StatePriced)
	assert.Equal(t, 2, pricing.callCount())

	// Выстреливший запрос собран с последнего снимка: и опции, и купон
	last := pricing.lastRequest()
	require.NotNil(t, last.Coupon)
	assert.Equal(t, "SAVE10", *last.Coupon)
	assert.Equal(t, true, last.Extras["cleaning"])
}

func TestSupersession_StaleResultDiscarded(t *testing.T) {
	pricing := newGatedPricing(map[string]float64{
		civil(10, 0).Format(domain.DateTimeFormat): 1000,
		civil(12, 0).Format(domain.DateTimeFormat): 2000,
	})
	m := newCountingMetrics()
	f := newFixture(t, pricing, WithMetrics(m))

	draftID := f.createDraft(t)

	// Первый запрос цены ушел в сеть и завис
	firstCall := <-pricing.started
	f.waitForState(t, draftID, domain.StatePriceFetching)

	// Смена интервала, пока первый запрос в полете
	_, err := f.service.SelectInterval(context.Background(), &SelectIntervalRequest{
		DraftID:    draftID,
		UserID:     7,
		ResourceID: 1,
		Start:      civil(12, 0),
		End:        civil(13, 0),
	})
	require.NoError(t, err)

	secondCall := <-pricing.started

	// Устаревший ответ приходит первым и молча отбрасывается
	pricing.releaseCall(firstCall)
	require.Eventually(t, func() bool {
		return m.count(metrics.PriceSuperseded) == 1
	}, waitFor, tick)

	view, err := f.service.Get(context.Background(), draftID)
	require.NoError(t, err)
	assert.Nil(t, view.Draft.Price, "stale price must not be committed")

	// Ответ актуального запроса коммитится
	pricing.releaseCall(secondCall)
	priced := f.waitForState(t, draftID, domain.StatePriced)
	require.NotNil(t, priced.Draft.Price)
	assert.Equal(t, 2000.0, *priced.Draft.Price)
}

func TestFetchFailure_KeepsDraftAndReportsError(t *testing.T) {
	pricing := &mockPricing{err: fmt.Errorf("%w: connection refused", pricingservice.ErrUnavailable)}
	f := newFixture(t, pricing)

	draftID := f.createDraft(t)

	view := f.waitForState(t, draftID, domain.StatePriceUnknown)
	require.Eventually(t, func() bool {
		v, err := f.service.Get(context.Background(), draftID)
		return err == nil && v.PriceErr != ""
	}, waitFor, tick)

	// Все остальные поля черновика целы: повтор не требует перевыбора
	assert.Equal(t, civil(10, 0), view.Draft.Interval.Start)
	assert.Nil(t, view.Draft.Price)
}

func TestRetryPrice_AfterFailure(t *testing.T) {
	pricing := &mockPricing{err: fmt.Errorf("%w: timeout", pricingservice.ErrUnavailable)}
	f := newFixture(t, pricing)

	draftID := f.createDraft(t)
	require.Eventually(t, func() bool {
		v, err := f.service.Get(context.Background(), draftID)
		return err == nil && v.PriceErr != ""
	}, waitFor, tick)

	pricing.setErr(nil)
	pricing.mu.Lock()
	pricing.quote = pricingservice.Quote{Price: 900}
	pricing.mu.Unlock()

	_, err := f.service.RetryPrice(context.Background(), draftID)
	require.NoError(t, err)

	priced := f.waitForState(t, draftID, domain.StatePriced)
	require.NotNil(t, priced.Draft.Price)
	assert.Equal(t, 900.0, *priced.Draft.Price)
	assert.Empty(t, priced.PriceErr)
}

func TestRetryPrice_UpToDate(t *testing.T) {
	pricing := &mockPricing{quote: pricingservice.Quote{Price: 1000}}
	f := newFixture(t, pricing)

	draftID := f.createDraft(t)
	f.waitForState(t, draftID, domain.StatePriced)

	_, err := f.service.RetryPrice(context.Background(), draftID)
	assert.ErrorIs(t, err, ErrPriceUpToDate)
}

func TestDiscard_RemovesDraft(t *testing.T) {
	pricing := &mockPricing{quote: pricingservice.Quote{Price: 1000}}
	f := newFixture(t, pricing)

	draftID := f.createDraft(t)
	f.waitForState(t, draftID, domain.StatePriced)

	require.NoError(t, f.service.Discard(context.Background(), draftID))

	_, err := f.service.Get(context.Background(), draftID)
	assert.ErrorIs(t, err, ErrDraftNotFound)

	err = f.service.Discard(context.Background(), draftID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestSubscribe_ReceivesTransitions(t *testing.T) {
	pricing := &mockPricing{quote: pricingservice.Quote{Price: 1000}}
	f := newFixture(t, pricing)

	ch := f.service.Subscribe()
	draftID := f.createDraft(t)
	f.waitForState(t, draftID, domain.StatePriced)

	seen := make(map[domain.DraftState]bool)
	timeout := time.After(waitFor)
	for !seen[domain.StatePriced] {
		select {
		case n := <-ch:
			seen[n.State] = true
		case <-timeout:
			t.Fatalf("did not observe priced transition, saw %v", seen)
		}
	}

	assert.True(t, seen[domain.StateSelecting])
	assert.True(t, seen[domain.StatePriceUnknown])
	assert.True(t, seen[domain.StatePriceFetching])

	f.service.Unsubscribe(ch)
}

func TestConfirm_CreatesBookingAndOccupiesInterval(t *testing.T) {
	pricing := &mockPricing{quote: pricingservice.Quote{Price: 1000}}
	f := newFixture(t, pricing)

	draftID := f.createDraft(t)
	f.waitForState(t, draftID, domain.StatePriced)

	booking, err := f.service.Confirm(context.Background(), draftID)

	require.NoError(t, err)
	assert.Equal(t, draftID, booking.DraftID)
	assert.Equal(t, domain.StatusConfirmed, booking.Status)
	assert.Equal(t, 1000.0, booking.Price)
	assert.Equal(t, civil(10, 0), booking.StartAt)

	// Занятый интервал попал в календарь
	require.Len(t, f.events.created, 1)
	assert.Equal(t, civil(10, 0), f.events.created[0].Start)
	assert.Equal(t, domain.KindNormal, f.events.created[0].Kind)

	// Черновик сброшен
	_, err = f.service.Get(context.Background(), draftID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestConfirm_PriceNotResolved(t *testing.T) {
	pricing := &mockPricing{err: fmt.Errorf("%w: down", pricingservice.ErrUnavailable)}
	f := newFixture(t, pricing)

	draftID := f.createDraft(t)
	f.waitForState(t, draftID, domain.StatePriceUnknown)

	_, err := f.service.Confirm(context.Background(), draftID)
	assert.ErrorIs(t, err, ErrPriceNotResolved)
}

func TestConfirm_SlotLostDuringCheckout(t *testing.T) {
	pricing := &mockPricing{quote: pricingservice.Quote{Price: 1000}}
	f := newFixture(t, pricing)

	draftID := f.createDraft(t)
	f.waitForState(t, draftID, domain.StatePriced)

	// Интервал заняли между выбором и подтверждением
	f.pipeline.result = "выбранное время пересекается с существующим бронированием"

	_, err := f.service.Confirm(context.Background(), draftID)

	require.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Empty(t, f.bookings.created)

	// Черновик остается живым: пользователь может выбрать другой интервал
	_, err = f.service.Get(context.Background(), draftID)
	assert.NoError(t, err)
}

func TestTTL_ExpiredDraftBehavesLikeDiscarded(t *testing.T) {
	pricing := &mockPricing{quote: pricingservice.Quote{Price: 1000}}
	now := civil(10, 0)
	var mu sync.Mutex
	tp := timeProviderFunc(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	})
	f := newFixture(t, pricing, WithTTL(30*time.Minute), WithTimeProvider(tp))

	draftID := f.createDraft(t)
	f.waitForState(t, draftID, domain.StatePriced)

	mu.Lock()
	now = now.Add(31 * time.Minute)
	mu.Unlock()

	_, err := f.service.Get(context.Background(), draftID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

type timeProviderFunc func() time.Time

func (f timeProviderFunc) Now() time.Time {
	return f()
}

func TestClose_StopsPendingWork(t *testing.T) {
	pricing := &mockPricing{quote: pricingservice.Quote{Price: 1000}}
	f := newFixture(t, pricing, WithDebounce(time.Hour))

	draftID := f.createDraft(t)
	f.waitForState(t, draftID, domain.StatePriced)

	// Отложенный на час запрос не переживает Close
	_, err := f.service.SetCoupon(context.Background(), draftID, nil)
	require.NoError(t, err)

	ch := f.service.Subscribe()
	f.service.Close()

	_, open := <-ch
	assert.False(t, open, "subscriber channel must be closed")
	assert.Equal(t, 1, f.pricing.(*mockPricing).callCount())
}
