package get_model_settings

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingWizard/internal/api/handlers"
	"github.com/m04kA/SMC-BookingWizard/internal/service/settings"
)

const (
	msgModelNotFound = "модель не найдена"
	msgInvalidParams = "некорректные параметры запроса"
)

type Handler struct {
	service SettingsService
	logger  Logger
}

func NewHandler(service SettingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/models/{modelId}/settings
// Query params: serviceId (опционально)
// Публичный endpoint - без авторизации. Без сохраненных настроек возвращаются значения по умолчанию.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	modelID := mux.Vars(r)["modelId"]
	serviceReq := ToServiceRequest(modelID, r.URL.Query().Get("serviceId"))

	result, err := h.service.GetWithHierarchy(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, settings.ErrModelNotFound):
			h.logger.Warn("GET /models/{id}/settings - Model not found: model_id=%s", modelID)
			handlers.RespondNotFound(w, msgModelNotFound)

		case errors.Is(err, settings.ErrInvalidInput):
			h.logger.Warn("GET /models/{id}/settings - Invalid parameters: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /models/{id}/settings - Failed to get settings: model_id=%s, error=%v", modelID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /models/{id}/settings - Settings retrieved successfully: model_id=%s, settings_id=%d, default=%t",
		modelID, result.ID, result.IsDefault)
	handlers.RespondJSON(w, http.StatusOK, result)
}
