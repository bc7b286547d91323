package list_model_settings

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingWizard/internal/api/handlers"
	"github.com/m04kA/SMC-BookingWizard/internal/api/middleware"
	"github.com/m04kA/SMC-BookingWizard/internal/service/settings"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgModelNotFound = "модель не найдена"
	msgForbidden     = "доступ запрещен"
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

// Handle GET /api/v1/models/{modelId}/settings/all
// Все сохраненные настройки модели: общие и по услугам
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	modelID := mux.Vars(r)["modelId"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /models/{id}/settings/all - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.List(r.Context(), modelID, userID)
	if err != nil {
		switch {
		case errors.Is(err, settings.ErrModelNotFound):
			h.logger.Warn("GET /models/{id}/settings/all - Model not found: model_id=%s", modelID)
			handlers.RespondNotFound(w, msgModelNotFound)

		case errors.Is(err, settings.ErrAccessDenied):
			h.logger.Warn("GET /models/{id}/settings/all - Access denied: model_id=%s, user_id=%d", modelID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /models/{id}/settings/all - Failed to list settings: model_id=%s, error=%v", modelID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /models/{id}/settings/all - Settings listed: model_id=%s, count=%d", modelID, len(result.Settings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
