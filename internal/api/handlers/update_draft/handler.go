package update_draft

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SlotEngine/internal/api/handlers"
	"github.com/m04kA/SMC-SlotEngine/internal/api/middleware"
	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	"github.com/m04kA/SMC-SlotEngine/internal/service/drafts"
	validateCandidate "github.com/m04kA/SMC-SlotEngine/internal/usecase/validate_candidate"
)

const (
	msgInvalidBody      = "некорректное тело запроса"
	msgInvalidInterval  = "некорректный формат интервала, ожидается YYYY-MM-DDTHH:MM"
	msgDraftNotFound    = "черновик не найден"
	msgResourceNotFound = "ресурс не найден"
	msgServiceNotFound  = "услуга не найдена"
	msgInvalidConfig    = "некорректная конфигурация ресурса"
)

type Handler struct {
	service   DraftService
	validator ValidateCandidateUseCase
	logger    Logger
}

func NewHandler(service DraftService, validator ValidateCandidateUseCase, logger Logger) *Handler {
	return &Handler{
		service:   service,
		validator: validator,
		logger:    logger,
	}
}

// Handle PATCH /api/v1/drafts/{draftId}
// Смена интервала прогоняется через пайплайн правил до мутации черновика;
// кандидат, совпадающий с текущим интервалом, не перевалидируется.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	draftID := mux.Vars(r)["draftId"]

	var req UpdateDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("PATCH /drafts/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	newServiceID, serviceSet, err := req.ParsedServiceID()
	if err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}
	newCoupon, couponSet, err := req.ParsedCoupon()
	if err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	view, err := h.service.Get(r.Context(), draftID)
	if err != nil {
		h.respondServiceError(w, draftID, err)
		return
	}

	if req.HasInterval() {
		interval, err := req.Interval()
		if err != nil {
			h.logger.Warn("PATCH /drafts/{id} - Invalid interval: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInterval)
			return
		}

		activeServiceID := activeService(view.Draft, newServiceID, serviceSet)
		prior := view.Draft.Interval

		validation, err := h.validator.Execute(r.Context(), &validateCandidate.Request{
			UserID:     userID,
			ResourceID: view.Draft.ResourceID,
			ServiceID:  activeServiceID,
			Candidate:  interval,
			Prior:      &prior,
		})
		if err != nil {
			h.respondValidationError(w, draftID, err)
			return
		}

		if validation.Outcome == validateCandidate.OutcomeRejected {
			h.logger.Info("PATCH /drafts/{id} - Interval rejected: draft_id=%s, reason=%s", draftID, validation.Reason)
			handlers.RespondUnprocessable(w, validation.Reason)
			return
		}

		if validation.Outcome == validateCandidate.OutcomeAccepted {
			view, err = h.service.SelectInterval(r.Context(), &drafts.SelectIntervalRequest{
				DraftID:    draftID,
				UserID:     userID,
				ResourceID: view.Draft.ResourceID,
				Start:      interval.Start,
				End:        interval.End,
				ServiceID:  activeServiceID,
			})
			if err != nil {
				h.respondServiceError(w, draftID, err)
				return
			}
			// Услуга применена вместе с интервалом
			serviceSet = false
		}
	}

	if serviceSet {
		view, err = h.service.SetService(r.Context(), draftID, newServiceID)
		if err != nil {
			h.respondServiceError(w, draftID, err)
			return
		}
	}

	if req.Extras != nil {
		view, err = h.service.SetExtras(r.Context(), draftID, *req.Extras)
		if err != nil {
			h.respondServiceError(w, draftID, err)
			return
		}
	}

	if couponSet {
		view, err = h.service.SetCoupon(r.Context(), draftID, newCoupon)
		if err != nil {
			h.respondServiceError(w, draftID, err)
			return
		}
	}

	h.logger.Info("PATCH /drafts/{id} - Draft updated: draft_id=%s, state=%s", draftID, view.State)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromDraftView(view))
}

// activeService выбирает услугу, с которой валидируется новый интервал:
// пришедшую в этом же запросе или текущую услугу черновика
func activeService(draft *domain.BookingDraft, newServiceID *int64, serviceSet bool) *int64 {
	if serviceSet {
		return newServiceID
	}
	if draft.Service != nil {
		id := draft.Service.ID
		return &id
	}
	return nil
}

func (h *Handler) respondValidationError(w http.ResponseWriter, draftID string, err error) {
	switch {
	case errors.Is(err, validateCandidate.ErrResourceNotFound):
		h.logger.Warn("PATCH /drafts/{id} - Resource not found: draft_id=%s", draftID)
		handlers.RespondNotFound(w, msgResourceNotFound)

	case errors.Is(err, validateCandidate.ErrServiceNotFound):
		h.logger.Warn("PATCH /drafts/{id} - Service not found: draft_id=%s", draftID)
		handlers.RespondNotFound(w, msgServiceNotFound)

	case errors.Is(err, validateCandidate.ErrInvalidInput):
		handlers.RespondBadRequest(w, err.Error())

	case errors.Is(err, validateCandidate.ErrInvalidConfig):
		h.logger.Error("PATCH /drafts/{id} - Invalid config: draft_id=%s, error=%v", draftID, err)
		handlers.RespondUnprocessable(w, msgInvalidConfig)

	default:
		h.logger.Error("PATCH /drafts/{id} - Failed to validate interval: draft_id=%s, error=%v", draftID, err)
		handlers.RespondInternalError(w)
	}
}

func (h *Handler) respondServiceError(w http.ResponseWriter, draftID string, err error) {
	switch {
	case errors.Is(err, drafts.ErrDraftNotFound):
		h.logger.Warn("PATCH /drafts/{id} - Draft not found: draft_id=%s", draftID)
		handlers.RespondNotFound(w, msgDraftNotFound)

	case errors.Is(err, drafts.ErrInvalidInput):
		handlers.RespondBadRequest(w, err.Error())

	default:
		h.logger.Error("PATCH /drafts/{id} - Failed to update draft: draft_id=%s, error=%v", draftID, err)
		handlers.RespondInternalError(w)
	}
}
