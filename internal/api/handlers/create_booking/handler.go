package create_booking

import (
	"net/http"

	"github.com/m04kA/SMC-BookingWizard/internal/api/handlers"
	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	createBooking "github.com/m04kA/SMC-BookingWizard/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidFields      = "проверьте введенные данные"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
// Отказы возвращаются структурированно: 409 slot_unavailable, 400/422 invalid_details, 500 backend_error.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, fields := req.ToUseCaseRequest()
	if fields != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: model_id=%s, fields=%v", req.ModelID, fields)
		handlers.RespondJSON(w, http.StatusBadRequest, handlers.ErrorResponse{
			Code:    string(domain.RejectionInvalidDetails),
			Message: msgInvalidFields,
			Fields:  fields,
		})
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		rejection := createBooking.ToRejection(err)
		if rejection.Code == domain.RejectionBackendError {
			h.logger.Error("POST /bookings - Failed to create booking: model_id=%s, service_id=%s, error=%v",
				useCaseReq.ModelID, useCaseReq.ServiceID, err)
		} else {
			h.logger.Warn("POST /bookings - Booking rejected: model_id=%s, service_id=%s, code=%s, error=%v",
				useCaseReq.ModelID, useCaseReq.ServiceID, rejection.Code, err)
		}
		handlers.RespondRejection(w, rejection)
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, model_id=%s, service_id=%s",
		result.ID, result.ModelID, result.ServiceID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
