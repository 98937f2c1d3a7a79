package update_draft

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
)

var jsonNull = []byte("null")

// UpdateDraftRequest HTTP-модель частичного обновления черновика.
// Отсутствующее поле не трогается; serviceId и coupon принимают явный null
// как сброс значения, поэтому хранятся сырым JSON до применения.
type UpdateDraftRequest struct {
	Start     *string                 `json:"start,omitempty"`
	End       *string                 `json:"end,omitempty"`
	ServiceID json.RawMessage         `json:"serviceId,omitempty"`
	Extras    *map[string]interface{} `json:"extras,omitempty"`
	Coupon    json.RawMessage         `json:"coupon,omitempty"`
}

// HasInterval сообщает, меняет ли запрос интервал черновика
func (r *UpdateDraftRequest) HasInterval() bool {
	return r.Start != nil || r.End != nil
}

// Interval парсит новые границы интервала; оба конца обязательны вместе
func (r *UpdateDraftRequest) Interval() (domain.CandidateInterval, error) {
	if r.Start == nil || r.End == nil {
		return domain.CandidateInterval{}, fmt.Errorf("start and end must be set together")
	}
	start, err := time.Parse(domain.DateTimeFormat, *r.Start)
	if err != nil {
		return domain.CandidateInterval{}, fmt.Errorf("start: %w", err)
	}
	end, err := time.Parse(domain.DateTimeFormat, *r.End)
	if err != nil {
		return domain.CandidateInterval{}, fmt.Errorf("end: %w", err)
	}
	return domain.CandidateInterval{Start: start, End: end}, nil
}

// ParsedServiceID возвращает (новая услуга, поле присутствует).
// Явный null означает сброс услуги.
func (r *UpdateDraftRequest) ParsedServiceID() (*int64, bool, error) {
	if len(r.ServiceID) == 0 {
		return nil, false, nil
	}
	if bytes.Equal(r.ServiceID, jsonNull) {
		return nil, true, nil
	}
	var id int64
	if err := json.Unmarshal(r.ServiceID, &id); err != nil {
		return nil, false, fmt.Errorf("serviceId: %w", err)
	}
	return &id, true, nil
}

// ParsedCoupon возвращает (новый купон, поле присутствует).
// Явный null означает сброс купона.
func (r *UpdateDraftRequest) ParsedCoupon() (*string, bool, error) {
	if len(r.Coupon) == 0 {
		return nil, false, nil
	}
	if bytes.Equal(r.Coupon, jsonNull) {
		return nil, true, nil
	}
	var coupon string
	if err := json.Unmarshal(r.Coupon, &coupon); err != nil {
		return nil, false, fmt.Errorf("coupon: %w", err)
	}
	return &coupon, true, nil
}
