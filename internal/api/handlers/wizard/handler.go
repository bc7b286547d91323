package wizard

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingWizard/internal/api/handlers"
	"github.com/m04kA/SMC-BookingWizard/internal/service/wizard/models"
	fsm "github.com/m04kA/SMC-BookingWizard/internal/wizard"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingDate        = "дата обязательна"
	msgInvalidDetails     = "проверьте введенные данные"
)

// Handler HTTP-обработчики сессий мастера бронирования
type Handler struct {
	service WizardService
	logger  Logger
}

func NewHandler(service WizardService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Start POST /api/v1/wizard/sessions
// Тело необязательно: {"modelId": "..."} или {"modelSlug": "..."} открывают мастер с выбранной моделью.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	var req models.StartRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, handlers.ErrEmptyBody) {
		h.logger.Warn("POST /wizard/sessions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	view, err := h.service.Start(r.Context(), req)
	if err != nil {
		h.fail(w, "POST /wizard/sessions", "", err)
		return
	}

	h.logger.Info("POST /wizard/sessions - Session started: session_id=%s, state=%s", view.SessionID, view.State)
	handlers.RespondJSON(w, http.StatusCreated, view)
}

// Get GET /api/v1/wizard/sessions/{sessionId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	view, err := h.service.Get(r.Context(), sessionID)
	if err != nil {
		h.fail(w, "GET /wizard/sessions/{id}", sessionID, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, view)
}

// ApplyEvent POST /api/v1/wizard/sessions/{sessionId}/events
func (h *Handler) ApplyEvent(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req models.EventRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /wizard/sessions/{id}/events - Invalid request body: session_id=%s, error=%v", sessionID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	view, err := h.service.Apply(r.Context(), sessionID, req)
	if err != nil {
		h.fail(w, "POST /wizard/sessions/{id}/events", sessionID, err)
		return
	}

	h.logger.Info("POST /wizard/sessions/{id}/events - Event applied: session_id=%s, type=%s, state=%s",
		sessionID, req.Type, view.State)
	handlers.RespondJSON(w, http.StatusOK, view)
}

// ReloadCatalog POST /api/v1/wizard/sessions/{sessionId}/catalog/reload
func (h *Handler) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	view, err := h.service.ReloadCatalog(r.Context(), sessionID)
	if err != nil {
		h.fail(w, "POST /wizard/sessions/{id}/catalog/reload", sessionID, err)
		return
	}

	h.logger.Info("POST /wizard/sessions/{id}/catalog/reload - Catalog status=%s: session_id=%s",
		view.Catalog.Status, sessionID)
	handlers.RespondJSON(w, http.StatusOK, view)
}

// LoadSlots GET /api/v1/wizard/sessions/{sessionId}/slots?date=YYYY-MM-DD
func (h *Handler) LoadSlots(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	date := r.URL.Query().Get("date")
	if date == "" {
		h.logger.Warn("GET /wizard/sessions/{id}/slots - Missing date: session_id=%s", sessionID)
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	view, err := h.service.LoadSlots(r.Context(), sessionID, date)
	if err != nil {
		h.fail(w, "GET /wizard/sessions/{id}/slots", sessionID, err)
		return
	}

	h.logger.Info("GET /wizard/sessions/{id}/slots - Slots status=%s, count=%d: session_id=%s, date=%s",
		view.Slots.Status, len(view.Slots.Items), sessionID, date)
	handlers.RespondJSON(w, http.StatusOK, view)
}

// Submit POST /api/v1/wizard/sessions/{sessionId}/submit
// Отказ бэкенда не является ошибкой запроса: он возвращается в представлении сессии.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req models.ClientDetailsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /wizard/sessions/{id}/submit - Invalid request body: session_id=%s, error=%v", sessionID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	view, err := h.service.Submit(r.Context(), sessionID, req.ToDomain())
	if err != nil {
		var vErr *fsm.ValidationError
		if errors.As(err, &vErr) && view != nil {
			h.logger.Warn("POST /wizard/sessions/{id}/submit - Invalid client details: session_id=%s, error=%v", sessionID, err)
			handlers.RespondJSON(w, http.StatusUnprocessableEntity, ValidationErrorResponse{
				Code:    codeInvalidDetails,
				Message: msgInvalidDetails,
				Fields:  vErr.Fields,
				Session: view,
			})
			return
		}
		h.fail(w, "POST /wizard/sessions/{id}/submit", sessionID, err)
		return
	}

	h.logSubmission("POST /wizard/sessions/{id}/submit", sessionID, view)
	handlers.RespondJSON(w, http.StatusOK, view)
}

// Retry POST /api/v1/wizard/sessions/{sessionId}/retry
func (h *Handler) Retry(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	view, err := h.service.Retry(r.Context(), sessionID)
	if err != nil {
		h.fail(w, "POST /wizard/sessions/{id}/retry", sessionID, err)
		return
	}

	h.logSubmission("POST /wizard/sessions/{id}/retry", sessionID, view)
	handlers.RespondJSON(w, http.StatusOK, view)
}

func (h *Handler) logSubmission(op, sessionID string, view *models.SessionView) {
	switch {
	case view.Confirmation != nil:
		h.logger.Info("%s - Booking confirmed: session_id=%s, booking_id=%d", op, sessionID, view.Confirmation.BookingID)
	case view.Rejection != nil:
		h.logger.Warn("%s - Booking rejected: session_id=%s, code=%s", op, sessionID, view.Rejection.Code)
	}
}

func (h *Handler) fail(w http.ResponseWriter, op, sessionID string, err error) {
	if respondServiceError(w, err) {
		h.logger.Warn("%s - Request rejected: session_id=%s, error=%v", op, sessionID, err)
		return
	}
	h.logger.Error("%s - Failed: session_id=%s, error=%v", op, sessionID, err)
}
