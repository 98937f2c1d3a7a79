package update_draft

import (
	"context"

	"github.com/m04kA/SMC-SlotEngine/internal/service/drafts"
	validateCandidate "github.com/m04kA/SMC-SlotEngine/internal/usecase/validate_candidate"
)

type DraftService interface {
	Get(ctx context.Context, draftID string) (*drafts.DraftView, error)
	SelectInterval(ctx context.Context, req *drafts.SelectIntervalRequest) (*drafts.DraftView, error)
	SetService(ctx context.Context, draftID string, serviceID *int64) (*drafts.DraftView, error)
	SetExtras(ctx context.Context, draftID string, extras map[string]interface{}) (*drafts.DraftView, error)
	SetCoupon(ctx context.Context, draftID string, coupon *string) (*drafts.DraftView, error)
}

type ValidateCandidateUseCase interface {
	Execute(ctx context.Context, req *validateCandidate.Request) (*validateCandidate.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
