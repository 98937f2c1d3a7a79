package confirm_draft

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SlotEngine/internal/api/handlers"
	"github.com/m04kA/SMC-SlotEngine/internal/service/drafts"
)

const (
	msgDraftNotFound    = "черновик не найден"
	msgPriceNotResolved = "цена еще не получена"
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

// Handle POST /api/v1/drafts/{draftId}/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	draftID := mux.Vars(r)["draftId"]

	booking, err := h.service.Confirm(r.Context(), draftID)
	if err != nil {
		switch {
		case errors.Is(err, drafts.ErrDraftNotFound):
			h.logger.Warn("POST /drafts/{id}/confirm - Draft not found: draft_id=%s", draftID)
			handlers.RespondNotFound(w, msgDraftNotFound)

		case errors.Is(err, drafts.ErrPriceNotResolved):
			h.logger.Warn("POST /drafts/{id}/confirm - Price not resolved: draft_id=%s", draftID)
			handlers.RespondConflict(w, msgPriceNotResolved)

		case errors.Is(err, drafts.ErrSlotNotAvailable):
			// Интервал перестал проходить правила между выбором и подтверждением
			h.logger.Warn("POST /drafts/{id}/confirm - Slot not available: draft_id=%s, error=%v", draftID, err)
			handlers.RespondConflict(w, err.Error())

		default:
			h.logger.Error("POST /drafts/{id}/confirm - Failed to confirm: draft_id=%s, error=%v", draftID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /drafts/{id}/confirm - Booking created: draft_id=%s, booking_id=%d", draftID, booking.ID)
	handlers.RespondJSON(w, http.StatusCreated, FromBooking(booking))
}
