package handlers

import (
	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	"github.com/m04kA/SMC-SlotEngine/internal/service/drafts"
)

// PriceLine строка детализации цены в HTTP-ответе
type PriceLine struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// DraftResponse HTTP-модель черновика бронирования.
// Price == null означает, что цена пересчитывается или ее получение не удалось;
// поле priceError отличает второе от первого.
type DraftResponse struct {
	ID         string                 `json:"id"`
	State      string                 `json:"state"`
	ResourceID int64                  `json:"resourceId"`
	UserID     int64                  `json:"userId"`
	Start      string                 `json:"start"`
	End        string                 `json:"end"`
	ServiceID  *int64                 `json:"serviceId,omitempty"`
	Extras     map[string]interface{} `json:"extras,omitempty"`
	Coupon     *string                `json:"coupon,omitempty"`

	Price          *float64    `json:"price"`
	PriceBreakdown []PriceLine `json:"priceBreakdown,omitempty"`
	InfoMessages   []string    `json:"infoMessages,omitempty"`
	PriceError     string      `json:"priceError,omitempty"`
}

// FromDraftView конвертирует снимок черновика в HTTP-модель
func FromDraftView(view *drafts.DraftView) *DraftResponse {
	d := view.Draft

	resp := &DraftResponse{
		ID:         d.ID,
		State:      string(view.State),
		ResourceID: d.ResourceID,
		UserID:     d.UserID,
		Start:      d.Interval.Start.Format(domain.DateTimeFormat),
		End:        d.Interval.End.Format(domain.DateTimeFormat),
		Extras:     d.Extras,
		Coupon:     d.Coupon,
		Price:      d.Price,
		PriceError: view.PriceErr,
	}

	if d.Service != nil {
		resp.ServiceID = &d.Service.ID
	}
	if len(d.PriceBreakdown) > 0 {
		resp.PriceBreakdown = make([]PriceLine, len(d.PriceBreakdown))
		for i, line := range d.PriceBreakdown {
			resp.PriceBreakdown[i] = PriceLine{Label: line.Label, Amount: line.Amount}
		}
	}
	resp.InfoMessages = d.InfoMessages

	return resp
}
