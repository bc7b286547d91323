package get_model_bookings

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingWizard/internal/api/handlers"
	"github.com/m04kA/SMC-BookingWizard/internal/api/middleware"
	"github.com/m04kA/SMC-BookingWizard/internal/service/bookings"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgInvalidParams = "некорректные параметры запроса"
	msgForbidden     = "доступ запрещен"
	msgModelNotFound = "модель не найдена"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/models/{modelId}/bookings
// Query params: date | startDate, endDate, status, includeInactive (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	modelID := mux.Vars(r)["modelId"]

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /models/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	query := r.URL.Query()
	serviceReq, err := ToServiceRequest(modelID, userID, QueryParams{
		Date:            query.Get("date"),
		StartDate:       query.Get("startDate"),
		EndDate:         query.Get("endDate"),
		Status:          query.Get("status"),
		IncludeInactive: query.Get("includeInactive"),
	})
	if err != nil {
		h.logger.Warn("GET /models/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	// Сервис сам проверит, что пользователь владелец модели
	result, err := h.service.GetModelBookings(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /models/{id}/bookings - Invalid filter: model_id=%s, error=%v", modelID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, bookings.ErrModelNotFound):
			h.logger.Warn("GET /models/{id}/bookings - Model not found: model_id=%s", modelID)
			handlers.RespondNotFound(w, msgModelNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /models/{id}/bookings - Access denied: model_id=%s, user_id=%d", modelID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /models/{id}/bookings - Failed to get bookings: model_id=%s, error=%v", modelID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /models/{id}/bookings - Bookings retrieved successfully: model_id=%s, count=%d",
		modelID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
