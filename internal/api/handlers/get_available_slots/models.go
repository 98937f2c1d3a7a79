package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-SlotEngine/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date       string `json:"date"`
	ResourceID int64  `json:"resourceId"`
	ServiceID  int64  `json:"serviceId"`
	Slots      []Slot `json:"slots"`
}

// Slot модель бронируемого интервала
type Slot struct {
	Start           string `json:"start"`
	End             string `json:"end"`
	DurationMinutes int    `json:"durationMinutes"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]Slot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = Slot{
			Start:           slot.Start.Format(domain.DateTimeFormat),
			End:             slot.End.Format(domain.DateTimeFormat),
			DurationMinutes: slot.DurationMinutes,
		}
	}

	return &AvailableSlotsResponse{
		Date:       resp.Date.Format(domain.DateFormat),
		ResourceID: resp.ResourceID,
		ServiceID:  resp.ServiceID,
		Slots:      slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(resourceID, serviceID int64, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		ResourceID: resourceID,
		ServiceID:  serviceID,
		Date:       date,
	}, nil
}
