package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingWizard/internal/api/handlers"
	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-BookingWizard/internal/usecase/get_available_slots"
)

const (
	msgMissingServiceID = "ID услуги обязателен"
	msgMissingDate      = "дата обязательна"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgServiceNotFound  = "услуга не найдена"
	msgPastDate         = "нельзя записаться на прошедшую дату"
	msgDateTooFar       = "на эту дату запись пока не открыта"
	msgInvalidInput     = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/models/{modelId}/available-slots
// Query params: serviceId (required), date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	modelID := mux.Vars(r)["modelId"]

	serviceID := r.URL.Query().Get("serviceId")
	if serviceID == "" {
		h.logger.Warn("GET /models/{id}/available-slots - Missing service ID: model_id=%s", modelID)
		handlers.RespondBadRequest(w, msgMissingServiceID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /models/{id}/available-slots - Missing date: model_id=%s", modelID)
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(modelID, serviceID, dateStr)
	if err != nil {
		h.logger.Warn("GET /models/{id}/available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /models/{id}/available-slots - Service not found: model_id=%s, service_id=%s", modelID, serviceID)
			respondSlotUnavailable(w, http.StatusNotFound, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /models/{id}/available-slots - Date in the past: model_id=%s, date=%s", modelID, dateStr)
			respondSlotUnavailable(w, http.StatusBadRequest, msgPastDate)

		case errors.Is(err, getAvailableSlots.ErrDateTooFarInFuture):
			h.logger.Warn("GET /models/{id}/available-slots - Date too far in future: model_id=%s, date=%s", modelID, dateStr)
			respondSlotUnavailable(w, http.StatusBadRequest, msgDateTooFar)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /models/{id}/available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /models/{id}/available-slots - Failed to get slots: model_id=%s, service_id=%s, error=%v",
				modelID, serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /models/{id}/available-slots - Slots retrieved successfully: model_id=%s, service_id=%s, slots_count=%d",
		modelID, serviceID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

func respondSlotUnavailable(w http.ResponseWriter, status int, message string) {
	handlers.RespondJSON(w, status, handlers.ErrorResponse{
		Code:    string(domain.RejectionSlotUnavailable),
		Message: message,
	})
}
