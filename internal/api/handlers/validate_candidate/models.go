package validate_candidate

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	validateCandidate "github.com/m04kA/SMC-SlotEngine/internal/usecase/validate_candidate"
)

// ValidateRequest HTTP-модель запроса интерактивной валидации.
// priorStart/priorEnd - предыдущий провалидированный кандидат (если был):
// совпадающий с ним кандидат не перевалидируется.
type ValidateRequest struct {
	Start      string  `json:"start"` // "2006-01-02T15:04", гражданское время ресурса
	End        string  `json:"end"`
	ServiceID  *int64  `json:"serviceId,omitempty"`
	PriorStart *string `json:"priorStart,omitempty"`
	PriorEnd   *string `json:"priorEnd,omitempty"`
}

// ValidateResponse HTTP-модель результата валидации
type ValidateResponse struct {
	Outcome string `json:"outcome"` // accepted | rejected | unchanged
	Reason  string `json:"reason,omitempty"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

// ToUseCaseRequest конвертирует HTTP-запрос в запрос use case
func (r *ValidateRequest) ToUseCaseRequest(userID, resourceID int64) (*validateCandidate.Request, error) {
	start, err := parseCivil(r.Start)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	end, err := parseCivil(r.End)
	if err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}

	req := &validateCandidate.Request{
		UserID:     userID,
		ResourceID: resourceID,
		ServiceID:  r.ServiceID,
		Candidate:  domain.CandidateInterval{Start: start, End: end},
	}

	if r.PriorStart != nil && r.PriorEnd != nil {
		priorStart, err := parseCivil(*r.PriorStart)
		if err != nil {
			return nil, fmt.Errorf("priorStart: %w", err)
		}
		priorEnd, err := parseCivil(*r.PriorEnd)
		if err != nil {
			return nil, fmt.Errorf("priorEnd: %w", err)
		}
		req.Prior = &domain.CandidateInterval{Start: priorStart, End: priorEnd}
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *validateCandidate.Response) *ValidateResponse {
	return &ValidateResponse{
		Outcome: string(resp.Outcome),
		Reason:  resp.Reason,
		Start:   resp.Candidate.Start.Format(domain.DateTimeFormat),
		End:     resp.Candidate.End.Format(domain.DateTimeFormat),
	}
}

func parseCivil(s string) (time.Time, error) {
	return time.Parse(domain.DateTimeFormat, s)
}
