package get_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingWizard/internal/api/handlers"
	"github.com/m04kA/SMC-BookingWizard/internal/api/middleware"
	"github.com/m04kA/SMC-BookingWizard/internal/service/bookings"
)

const (
	msgInvalidBookingID = "ID бронирования должен быть положительным числом"
	msgBookingNotFound  = "бронирование не найдено"
	msgNoUser           = "требуется заголовок X-User-ID"
	msgNotOwner         = "бронирование принадлежит другой модели"
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

// Handle GET /api/v1/bookings/{bookingId}
// Карточка бронирования для владельца модели.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgNoUser)
		return
	}

	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil || bookingID <= 0 {
		h.logger.Warn("GET /bookings/{bookingId} - Bad booking ID: raw=%q", mux.Vars(r)["bookingId"])
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	booking, err := h.service.GetByID(r.Context(), bookingID, userID)
	switch {
	case err == nil:
	case errors.Is(err, bookings.ErrBookingNotFound):
		handlers.RespondNotFound(w, msgBookingNotFound)
		return
	case errors.Is(err, bookings.ErrAccessDenied):
		h.logger.Warn("GET /bookings/{bookingId} - Not an owner: booking=%d, user=%d", bookingID, userID)
		handlers.RespondForbidden(w, msgNotOwner)
		return
	default:
		h.logger.Error("GET /bookings/{bookingId} - Lookup failed: booking=%d, err=%v", bookingID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /bookings/{bookingId} - Booking %d shown to owner %d (status=%s)",
		booking.ID, userID, booking.Status)
	handlers.RespondJSON(w, http.StatusOK, FromServiceResponse(booking))
}
