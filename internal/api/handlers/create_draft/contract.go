package create_draft

import (
	"context"

	"github.com/m04kA/SMC-SlotEngine/internal/service/drafts"
	validateCandidate "github.com/m04kA/SMC-SlotEngine/internal/usecase/validate_candidate"
)

type DraftService interface {
	SelectInterval(ctx context.Context, req *drafts.SelectIntervalRequest) (*drafts.DraftView, error)
}

type ValidateCandidateUseCase interface {
	Execute(ctx context.Context, req *validateCandidate.Request) (*validateCandidate.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
