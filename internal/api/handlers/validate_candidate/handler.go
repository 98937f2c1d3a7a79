package validate_candidate

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SlotEngine/internal/api/handlers"
	validateCandidate "github.com/m04kA/SMC-SlotEngine/internal/usecase/validate_candidate"
)

const (
	msgInvalidResourceID = "некорректный ID ресурса"
	msgInvalidBody       = "некорректное тело запроса"
	msgInvalidInterval   = "некорректный формат интервала, ожидается YYYY-MM-DDTHH:MM"
	msgResourceNotFound  = "ресурс не найден"
	msgServiceNotFound   = "услуга не найдена"
	msgInvalidConfig     = "некорректная конфигурация ресурса"
)

type Handler struct {
	useCase ValidateCandidateUseCase
	logger  Logger
}

func NewHandler(useCase ValidateCandidateUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/resources/{resourceId}/candidates/validate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	resourceIDStr := vars["resourceId"]
	resourceID, err := strconv.ParseInt(resourceIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("POST /resources/{id}/candidates/validate - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("POST /resources/{id}/candidates/validate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(0, resourceID)
	if err != nil {
		h.logger.Warn("POST /resources/{id}/candidates/validate - Invalid interval: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInterval)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, validateCandidate.ErrResourceNotFound):
			h.logger.Warn("POST /resources/{id}/candidates/validate - Resource not found: resource_id=%d", resourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, validateCandidate.ErrServiceNotFound):
			h.logger.Warn("POST /resources/{id}/candidates/validate - Service not found: resource_id=%d", resourceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, validateCandidate.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, validateCandidate.ErrInvalidConfig):
			h.logger.Error("POST /resources/{id}/candidates/validate - Invalid config: resource_id=%d, error=%v",
				resourceID, err)
			handlers.RespondUnprocessable(w, msgInvalidConfig)

		default:
			h.logger.Error("POST /resources/{id}/candidates/validate - Failed to validate: resource_id=%d, error=%v",
				resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /resources/{id}/candidates/validate - Candidate validated: resource_id=%d, outcome=%s",
		resourceID, response.Outcome)
	handlers.RespondJSON(w, http.StatusOK, response)
}
