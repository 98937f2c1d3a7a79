package create_draft

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SlotEngine/internal/api/handlers"
	"github.com/m04kA/SMC-SlotEngine/internal/api/middleware"
	"github.com/m04kA/SMC-SlotEngine/internal/service/drafts"
	validateCandidate "github.com/m04kA/SMC-SlotEngine/internal/usecase/validate_candidate"
)

const (
	msgInvalidBody      = "некорректное тело запроса"
	msgInvalidInterval  = "некорректный формат интервала, ожидается YYYY-MM-DDTHH:MM"
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

// Handle POST /api/v1/drafts
// Интервал прогоняется через пайплайн правил до создания черновика:
// отклоненный интервал возвращает 422 с причиной, черновик не создается.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var req CreateDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("POST /drafts - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	interval, err := req.Interval()
	if err != nil {
		h.logger.Warn("POST /drafts - Invalid interval: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInterval)
		return
	}

	validation, err := h.validator.Execute(r.Context(), &validateCandidate.Request{
		UserID:     userID,
		ResourceID: req.ResourceID,
		ServiceID:  req.ServiceID,
		Candidate:  interval,
	})
	if err != nil {
		switch {
		case errors.Is(err, validateCandidate.ErrResourceNotFound):
			h.logger.Warn("POST /drafts - Resource not found: resource_id=%d", req.ResourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, validateCandidate.ErrServiceNotFound):
			h.logger.Warn("POST /drafts - Service not found: resource_id=%d", req.ResourceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, validateCandidate.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, validateCandidate.ErrInvalidConfig):
			h.logger.Error("POST /drafts - Invalid config: resource_id=%d, error=%v", req.ResourceID, err)
			handlers.RespondUnprocessable(w, msgInvalidConfig)

		default:
			h.logger.Error("POST /drafts - Failed to validate interval: resource_id=%d, error=%v", req.ResourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	if validation.Outcome == validateCandidate.OutcomeRejected {
		h.logger.Info("POST /drafts - Interval rejected: resource_id=%d, reason=%s", req.ResourceID, validation.Reason)
		handlers.RespondJSON(w, http.StatusUnprocessableEntity, &RejectedResponse{
			Outcome: string(validation.Outcome),
			Reason:  validation.Reason,
		})
		return
	}

	view, err := h.service.SelectInterval(r.Context(), &drafts.SelectIntervalRequest{
		UserID:     userID,
		ResourceID: req.ResourceID,
		Start:      interval.Start,
		End:        interval.End,
		ServiceID:  req.ServiceID,
	})
	if err != nil {
		switch {
		case errors.Is(err, drafts.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /drafts - Failed to create draft: resource_id=%d, error=%v", req.ResourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /drafts - Draft created: draft_id=%s, resource_id=%d, user_id=%d",
		view.Draft.ID, req.ResourceID, userID)
	handlers.RespondJSON(w, http.StatusCreated, handlers.FromDraftView(view))
}
