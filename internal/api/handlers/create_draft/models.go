package create_draft

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
)

// CreateDraftRequest HTTP-модель создания черновика из принятого интервала
type CreateDraftRequest struct {
	ResourceID int64  `json:"resourceId"`
	Start      string `json:"start"` // "2006-01-02T15:04", гражданское время ресурса
	End        string `json:"end"`
	ServiceID  *int64 `json:"serviceId,omitempty"`
}

// RejectedResponse ответ при отклонении интервала правилами
type RejectedResponse struct {
	Outcome string `json:"outcome"`
	Reason  string `json:"reason"`
}

// Interval парсит границы интервала из гражданских меток времени
func (r *CreateDraftRequest) Interval() (domain.CandidateInterval, error) {
	start, err := time.Parse(domain.DateTimeFormat, r.Start)
	if err != nil {
		return domain.CandidateInterval{}, fmt.Errorf("start: %w", err)
	}
	end, err := time.Parse(domain.DateTimeFormat, r.End)
	if err != nil {
		return domain.CandidateInterval{}, fmt.Errorf("end: %w", err)
	}
	return domain.CandidateInterval{Start: start, End: end}, nil
}
