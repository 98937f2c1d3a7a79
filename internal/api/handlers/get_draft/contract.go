package get_draft

import (
	"context"

	"github.com/m04kA/SMC-SlotEngine/internal/service/drafts"
)

type DraftService interface {
	Get(ctx context.Context, draftID string) (*drafts.DraftView, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
