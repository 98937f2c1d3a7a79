package validate_candidate

import (
	"context"

	validateCandidate "github.com/m04kA/SMC-SlotEngine/internal/usecase/validate_candidate"
)

type ValidateCandidateUseCase interface {
	Execute(ctx context.Context, req *validateCandidate.Request) (*validateCandidate.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
