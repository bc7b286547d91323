package update_model_settings

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingWizard/internal/api/handlers"
	"github.com/m04kA/SMC-BookingWizard/internal/api/middleware"
	"github.com/m04kA/SMC-BookingWizard/internal/service/settings"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgModelNotFound      = "модель не найдена"
	msgServiceNotFound    = "услуга не найдена"
	msgForbidden          = "доступ запрещен"
	msgInvalidData        = "некорректные значения настроек"
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

// Handle PUT /api/v1/models/{modelId}/settings
// Создает настройки, если их еще нет, иначе обновляет указанные поля.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	modelID := mux.Vars(r)["modelId"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /models/{id}/settings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateModelSettingsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /models/{id}/settings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Сервис сам проверит, что пользователь владелец модели
	result, err := h.service.Upsert(r.Context(), req.ToServiceRequest(modelID, userID))
	if err != nil {
		switch {
		case errors.Is(err, settings.ErrModelNotFound):
			h.logger.Warn("PUT /models/{id}/settings - Model not found: model_id=%s", modelID)
			handlers.RespondNotFound(w, msgModelNotFound)

		case errors.Is(err, settings.ErrServiceNotFound):
			h.logger.Warn("PUT /models/{id}/settings - Service not found: model_id=%s, service_id=%v", modelID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, settings.ErrAccessDenied):
			h.logger.Warn("PUT /models/{id}/settings - Access denied: model_id=%s, user_id=%d", modelID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, settings.ErrInvalidInput):
			h.logger.Warn("PUT /models/{id}/settings - Invalid data: model_id=%s, error=%v", modelID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("PUT /models/{id}/settings - Failed to save settings: model_id=%s, error=%v", modelID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /models/{id}/settings - Settings saved successfully: model_id=%s, settings_id=%d",
		modelID, result.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
