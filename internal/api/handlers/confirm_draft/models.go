package confirm_draft

import (
	"time"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
)

// PriceLine строка детализации цены подтвержденного бронирования
type PriceLine struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// BookingResponse HTTP-модель подтвержденного бронирования
type BookingResponse struct {
	ID         int64  `json:"id"`
	DraftID    string `json:"draftId"`
	ResourceID int64  `json:"resourceId"`
	UserID     int64  `json:"userId"`
	ServiceID  *int64 `json:"serviceId,omitempty"`

	Start string `json:"start"`
	End   string `json:"end"`

	Price          float64                `json:"price"`
	PriceBreakdown []PriceLine            `json:"priceBreakdown,omitempty"`
	Extras         map[string]interface{} `json:"extras,omitempty"`
	Coupon         *string                `json:"coupon,omitempty"`

	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// FromBooking конвертирует доменное бронирование в HTTP response
func FromBooking(b *domain.Booking) *BookingResponse {
	resp := &BookingResponse{
		ID:         b.ID,
		DraftID:    b.DraftID,
		ResourceID: b.ResourceID,
		UserID:     b.UserID,
		ServiceID:  b.ServiceID,
		Start:      b.StartAt.Format(domain.DateTimeFormat),
		End:        b.EndAt.Format(domain.DateTimeFormat),
		Price:      b.Price,
		Extras:     b.Extras,
		Coupon:     b.Coupon,
		Status:     string(b.Status),
		CreatedAt:  b.CreatedAt,
	}

	if len(b.PriceBreakdown) > 0 {
		resp.PriceBreakdown = make([]PriceLine, len(b.PriceBreakdown))
		for i, line := range b.PriceBreakdown {
			resp.PriceBreakdown[i] = PriceLine{Label: line.Label, Amount: line.Amount}
		}
	}

	return resp
}
