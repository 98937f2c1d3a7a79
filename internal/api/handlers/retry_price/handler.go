package retry_price

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SlotEngine/internal/api/handlers"
	"github.com/m04kA/SMC-SlotEngine/internal/service/drafts"
)

const (
	msgDraftNotFound = "черновик не найден"
	msgPriceUpToDate = "цена уже актуальна"
	msgNotPricable   = "в черновике нет интервала для расчета цены"
)

type Handler struct {
	service DraftService
	logger  Logger
}

func NewHandler(service DraftService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/drafts/{draftId}/price/retry
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	draftID := mux.Vars(r)["draftId"]

	view, err := h.service.RetryPrice(r.Context(), draftID)
	if err != nil {
		switch {
		case errors.Is(err, drafts.ErrDraftNotFound):
			h.logger.Warn("POST /drafts/{id}/price/retry - Draft not found: draft_id=%s", draftID)
			handlers.RespondNotFound(w, msgDraftNotFound)

		case errors.Is(err, drafts.ErrNotPricable):
			h.logger.Warn("POST /drafts/{id}/price/retry - Draft not pricable: draft_id=%s", draftID)
			handlers.RespondUnprocessable(w, msgNotPricable)

		case errors.Is(err, drafts.ErrPriceUpToDate):
			h.logger.Info("POST /drafts/{id}/price/retry - Price already resolved: draft_id=%s", draftID)
			handlers.RespondConflict(w, msgPriceUpToDate)

		default:
			h.logger.Error("POST /drafts/{id}/price/retry - Failed to retry: draft_id=%s, error=%v", draftID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /drafts/{id}/price/retry - Retry scheduled: draft_id=%s", draftID)
	handlers.RespondJSON(w, http.StatusAccepted, handlers.FromDraftView(view))
}
