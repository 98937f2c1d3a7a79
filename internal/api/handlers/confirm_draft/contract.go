package confirm_draft

import (
	"context"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
)

type DraftService interface {
	Confirm(ctx context.Context, draftID string) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
