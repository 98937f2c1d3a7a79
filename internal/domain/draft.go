package domain

import "time"

// DraftState состояние черновика бронирования
type DraftState string

const (
	// StateEmpty черновик отсутствует (сброшен или еще не создан)
	StateEmpty DraftState = "empty"

	// StateSelecting принят первый валидный интервал
	StateSelecting DraftState = "selecting"

	// StatePriceUnknown цена устарела и должна быть пересчитана
	StatePriceUnknown DraftState = "price_unknown"

	// StatePriceFetching запрос цены выполняется
	StatePriceFetching DraftState = "price_fetching"

	// StatePriced цена актуальна для текущих параметров черновика
	StatePriced DraftState = "priced"
)

// PriceLine строка детализации цены от pricing-сервиса
type PriceLine struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// BookingDraft черновик бронирования: интервал, услуга, опции и купон
// вместе с вычисленной для них ценой.
//
// Инвариант: Price == nil означает "цена устарела и должна быть пересчитана".
// Любая мутация интервала, услуги, опций или купона обязана сбросить Price в nil
// до запуска нового запроса цены. Единственный писатель - сервис черновиков.
type BookingDraft struct {
	ID         string
	ResourceID int64
	UserID     int64

	Interval CandidateInterval
	Service  *ServiceDescriptor
	Extras   map[string]interface{}
	Coupon   *string

	Price          *float64
	PriceBreakdown []PriceLine
	InfoMessages   []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PriceStale возвращает true, если цена должна быть пересчитана
func (d *BookingDraft) PriceStale() bool {
	return d.Price == nil
}

// Pricable возвращает true, если черновик содержит минимум полей
// для запроса цены (ресурс и интервал)
func (d *BookingDraft) Pricable() bool {
	return d.ResourceID > 0 && !d.Interval.IsZero()
}

// ResetPrice сбрасывает цену и все производные от нее поля
func (d *BookingDraft) ResetPrice() {
	d.Price = nil
	d.PriceBreakdown = nil
	d.InfoMessages = nil
}

// Clone возвращает глубокую копию черновика.
// Используется для снимков в задачах получения цены и в уведомлениях,
// чтобы читатели не видели черновик посреди мутации.
func (d *BookingDraft) Clone() *BookingDraft {
	clone := *d

	if d.Service != nil {
		svc := *d.Service
		clone.Service = &svc
	}
	if d.Coupon != nil {
		coupon := *d.Coupon
		clone.Coupon = &coupon
	}
	if d.Price != nil {
		price := *d.Price
		clone.Price = &price
	}
	if d.Extras != nil {
		clone.Extras = make(map[string]interface{}, len(d.Extras))
		for k, v := range d.Extras {
			clone.Extras[k] = v
		}
	}
	if d.PriceBreakdown != nil {
		clone.PriceBreakdown = make([]PriceLine, len(d.PriceBreakdown))
		copy(clone.PriceBreakdown, d.PriceBreakdown)
	}
	if d.InfoMessages != nil {
		clone.InfoMessages = make([]string, len(d.InfoMessages))
		copy(clone.InfoMessages, d.InfoMessages)
	}

	return &clone
}
