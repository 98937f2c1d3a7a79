package drafts

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	"github.com/m04kA/SMC-SlotEngine/internal/integrations/pricingservice"
	"github.com/m04kA/SMC-SlotEngine/pkg/metrics"
)

// Получение цены устроено как сменяемые задачи с подавлением устаревших:
//
//   - каждая мутация ценовых входов увеличивает счетчик поколений e.gen
//     и планирует задачу со своим поколением и снимком черновика;
//   - отложенная (debounce) задача, не успевшая выстрелить, отменяется
//     следующим запросом целиком - сетевой вызов даже не начинается;
//   - задача в полете не прерывается, но ее результат коммитится только
//     если поколение все еще актуально; устаревший результат отбрасывается
//     молча, без мутаций состояния и без ошибок.
//
// Для одного черновика коммитится только результат последнего выданного
// запроса (последний выигрывает на уровне задач, а не отдельных ответов).

// markStaleLocked сбрасывает цену после мутации ценовых входов:
// любое состояние с интервалом -> PriceUnknown
func (s *Service) markStaleLocked(e *entry) {
	e.draft.ResetPrice()
	e.lastErr = nil
	e.state = domain.StatePriceUnknown
	s.notifyLocked(e)
}

// scheduleImmediateLocked запускает запрос цены без задержки.
// Ожидающая отложенная задача при этом отменяется.
func (s *Service) scheduleImmediateLocked(e *entry) {
	if !e.draft.Pricable() || s.closed {
		return
	}
	s.stopTimerLocked(e)

	e.gen++
	gen := e.gen
	snap := e.draft.Clone()

	go s.fetch(snap.ID, gen, snap)
}

// scheduleDebouncedLocked откладывает запрос цены на окно debounce.
// Более ранняя отложенная задача того же черновика отменяется целиком.
func (s *Service) scheduleDebouncedLocked(e *entry) {
	if !e.draft.Pricable() || s.closed {
		return
	}
	s.stopTimerLocked(e)

	e.gen++
	gen := e.gen
	snap := e.draft.Clone()

	e.timer = time.AfterFunc(s.debounce, func() {
		s.fetch(snap.ID, gen, snap)
	})
}

// stopTimerLocked отменяет невыстреливший отложенный запрос
func (s *Service) stopTimerLocked(e *entry) {
	if e.timer == nil {
		return
	}
	if e.timer.Stop() {
		s.metrics.IncPriceResolution(metrics.PriceDebounceCanceled)
	}
	e.timer = nil
}

// fetch выполняет один запрос цены поколения gen для снимка snap.
// Проверка поколения выполняется дважды: до сетевого вызова (задача,
// пережившая гонку с отменой таймера, не начинает вызов) и после него
// (результат обогнавшего запроса не затирается устаревшим).
func (s *Service) fetch(draftID string, gen uint64, snap *domain.BookingDraft) {
	s.mu.Lock()
	e, ok := s.drafts[draftID]
	if !ok || e.gen != gen {
		s.mu.Unlock()
		s.metrics.IncPriceResolution(metrics.PriceSuperseded)
		return
	}
	e.state = domain.StatePriceFetching
	s.notifyLocked(e)
	s.mu.Unlock()

	quote, err := s.pricing.ResolvePrice(context.Background(), quoteRequest(snap))

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok = s.drafts[draftID]
	if !ok || e.gen != gen {
		// Запрос устарел, пока был в полете: результат отбрасывается молча
		s.metrics.IncPriceResolution(metrics.PriceSuperseded)
		return
	}

	if err != nil {
		// Цена осталась неизвестной, все остальные поля черновика целы:
		// повтор не требует перевыбора интервала
		e.state = domain.StatePriceUnknown
		e.lastErr = err
		s.metrics.IncPriceResolution(metrics.PriceFailed)
		s.logger.Warn("fetch: price resolution failed for draft %s: %v", draftID, err)
		s.notifyLocked(e)
		return
	}

	price := quote.Price
	e.draft.Price = &price
	e.draft.PriceBreakdown = breakdownLines(quote)
	e.draft.InfoMessages = quote.InfoMessages
	e.state = domain.StatePriced
	e.lastErr = nil
	s.metrics.IncPriceResolution(metrics.PriceResolved)
	s.logger.Info("fetch: draft %s priced at %.2f", draftID, price)
	s.notifyLocked(e)
}

// quoteRequest строит запрос pricing-сервиса из снимка черновика
func quoteRequest(snap *domain.BookingDraft) *pricingservice.QuoteRequest {
	req := &pricingservice.QuoteRequest{
		ResourceID: snap.ResourceID,
		Start:      snap.Interval.Start.Format(domain.DateTimeFormat),
		End:        snap.Interval.End.Format(domain.DateTimeFormat),
		Extras:     snap.Extras,
		Coupon:     snap.Coupon,
	}
	if snap.Service != nil {
		req.ServiceID = &snap.Service.ID
	}
	return req
}

// breakdownLines конвертирует детализацию цены в доменную модель
func breakdownLines(quote *pricingservice.Quote) []domain.PriceLine {
	if len(quote.Breakdown) == 0 {
		return nil
	}
	lines := make([]domain.PriceLine, len(quote.Breakdown))
	for i, b := range quote.Breakdown {
		lines[i] = domain.PriceLine{Label: b.Label, Amount: b.Amount}
	}
	return lines
}
