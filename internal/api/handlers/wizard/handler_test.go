package wizard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingWizard/internal/api/handlers"
	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	wizardService "github.com/m04kA/SMC-BookingWizard/internal/service/wizard"
	"github.com/m04kA/SMC-BookingWizard/internal/service/wizard/models"
	fsm "github.com/m04kA/SMC-BookingWizard/internal/wizard"
	"github.com/m04kA/SMC-BookingWizard/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) view(args mock.Arguments) (*models.SessionView, error) {
	v, _ := args.Get(0).(*models.SessionView)
	return v, args.Error(1)
}

func (m *mockService) Start(ctx context.Context, req models.StartRequest) (*models.SessionView, error) {
	return m.view(m.Called(ctx, req))
}

func (m *mockService) Get(ctx context.Context, sessionID string) (*models.SessionView, error) {
	return m.view(m.Called(ctx, sessionID))
}

func (m *mockService) Apply(ctx context.Context, sessionID string, req models.EventRequest) (*models.SessionView, error) {
	return m.view(m.Called(ctx, sessionID, req))
}

func (m *mockService) ReloadCatalog(ctx context.Context, sessionID string) (*models.SessionView, error) {
	return m.view(m.Called(ctx, sessionID))
}

func (m *mockService) LoadSlots(ctx context.Context, sessionID, date string) (*models.SessionView, error) {
	return m.view(m.Called(ctx, sessionID, date))
}

func (m *mockService) Submit(ctx context.Context, sessionID string, details domain.ClientDetails) (*models.SessionView, error) {
	return m.view(m.Called(ctx, sessionID, details))
}

func (m *mockService) Retry(ctx context.Context, sessionID string) (*models.SessionView, error) {
	return m.view(m.Called(ctx, sessionID))
}

func newRouter(svc WizardService) *mux.Router {
	h := NewHandler(svc, logger.NewNop())
	r := mux.NewRouter()
	r.HandleFunc("/wizard/sessions", h.Start).Methods(http.MethodPost)
	r.HandleFunc("/wizard/sessions/{sessionId}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/wizard/sessions/{sessionId}/events", h.ApplyEvent).Methods(http.MethodPost)
	r.HandleFunc("/wizard/sessions/{sessionId}/catalog/reload", h.ReloadCatalog).Methods(http.MethodPost)
	r.HandleFunc("/wizard/sessions/{sessionId}/slots", h.LoadSlots).Methods(http.MethodGet)
	r.HandleFunc("/wizard/sessions/{sessionId}/submit", h.Submit).Methods(http.MethodPost)
	r.HandleFunc("/wizard/sessions/{sessionId}/retry", h.Retry).Methods(http.MethodPost)
	return r
}

func do(router *mux.Router, method, target string, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, target, body))
	return w
}

func TestStart(t *testing.T) {
	t.Run("empty body opens a fresh wizard", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Start", mock.Anything, models.StartRequest{}).
			Return(&models.SessionView{SessionID: "sess-1", State: "choose_model"}, nil)

		w := do(newRouter(svc), http.MethodPost, "/wizard/sessions", nil)

		require.Equal(t, http.StatusCreated, w.Code)
		var view models.SessionView
		require.NoError(t, json.NewDecoder(w.Body).Decode(&view))
		assert.Equal(t, "sess-1", view.SessionID)
	})

	t.Run("slug preselection", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Start", mock.Anything, models.StartRequest{ModelSlug: "anna"}).
			Return(&models.SessionView{SessionID: "sess-2", State: "choose_location", Preselected: true}, nil)

		w := do(newRouter(svc), http.MethodPost, "/wizard/sessions", bytes.NewBufferString(`{"modelSlug":"anna"}`))

		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("unknown slug", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Start", mock.Anything, mock.Anything).Return(nil, wizardService.ErrModelNotFound)

		w := do(newRouter(svc), http.MethodPost, "/wizard/sessions", bytes.NewBufferString(`{"modelSlug":"ghost"}`))

		assert.Equal(t, http.StatusNotFound, w.Code)
		var resp handlers.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, codeModelNotFound, resp.Code)
	})
}

func TestApplyEvent_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"expired session", wizardService.ErrSessionNotFound, http.StatusNotFound, codeSessionNotFound},
		{"bad event", wizardService.ErrInvalidInput, http.StatusBadRequest, codeInvalidInput},
		{"wrong step", fsm.ErrInvalidTransition, http.StatusConflict, codeInvalidStep},
		{"back disabled", fsm.ErrBackDisabled, http.StatusConflict, codeInvalidStep},
		{"service filtered out", fsm.ErrServiceNotAvailable, http.StatusUnprocessableEntity, codeInvalidSelection},
		{"slot not offered", fsm.ErrSlotNotOffered, http.StatusUnprocessableEntity, codeInvalidSelection},
		{"concurrent", wizardService.ErrConcurrentUpdate, http.StatusConflict, codeConcurrentUpdate},
		{"internal", errors.New("boom"), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockService)
			svc.On("Apply", mock.Anything, "sess-1", models.EventRequest{Type: "back"}).Return(nil, tt.err)

			w := do(newRouter(svc), http.MethodPost, "/wizard/sessions/sess-1/events", bytes.NewBufferString(`{"type":"back"}`))

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp handlers.ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}
}

func TestApplyEvent_Success(t *testing.T) {
	svc := new(mockService)
	req := models.EventRequest{Type: models.EventSelectDateTime, Date: "2026-11-12", Time: "10:00"}
	svc.On("Apply", mock.Anything, "sess-1", req).
		Return(&models.SessionView{SessionID: "sess-1", State: "enter_client_details"}, nil)

	body, _ := json.Marshal(req)
	w := do(newRouter(svc), http.MethodPost, "/wizard/sessions/sess-1/events", bytes.NewBuffer(body))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"state":"enter_client_details"`)
}

func TestLoadSlots(t *testing.T) {
	svc := new(mockService)
	svc.On("LoadSlots", mock.Anything, "sess-1", "2026-11-12").
		Return(&models.SessionView{Slots: models.SlotsView{Status: "loaded", Items: []models.SlotView{{StartTime: "10:00"}}}}, nil)

	router := newRouter(svc)
	w := do(router, http.MethodGet, "/wizard/sessions/sess-1/slots?date=2026-11-12", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(router, http.MethodGet, "/wizard/sessions/sess-1/slots", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNumberOfCalls(t, "LoadSlots", 1)
}

func TestSubmit(t *testing.T) {
	t.Run("rejection is returned in the view", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Submit", mock.Anything, "sess-1", domain.ClientDetails{Name: "Анна", Contact: "+7999"}).
			Return(&models.SessionView{
				State:     "enter_client_details",
				Rejection: &models.RejectionView{Code: "slot_unavailable", Message: "занято"},
				CanRetry:  true,
			}, nil)

		w := do(newRouter(svc), http.MethodPost, "/wizard/sessions/sess-1/submit",
			bytes.NewBufferString(`{"name":"Анна","contact":"+7999"}`))

		require.Equal(t, http.StatusOK, w.Code)
		var view models.SessionView
		require.NoError(t, json.NewDecoder(w.Body).Decode(&view))
		require.NotNil(t, view.Rejection)
		assert.Equal(t, "slot_unavailable", view.Rejection.Code)
	})

	t.Run("invalid details carry field errors and the session", func(t *testing.T) {
		svc := new(mockService)
		fields := map[string]string{"address": "укажите адрес"}
		svc.On("Submit", mock.Anything, "sess-1", mock.Anything).
			Return(&models.SessionView{State: "enter_client_details", FieldErrors: fields}, &fsm.ValidationError{Fields: fields})

		w := do(newRouter(svc), http.MethodPost, "/wizard/sessions/sess-1/submit",
			bytes.NewBufferString(`{"name":"Анна","contact":"+7999"}`))

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		var resp ValidationErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, codeInvalidDetails, resp.Code)
		assert.Equal(t, "укажите адрес", resp.Fields["address"])
		require.NotNil(t, resp.Session)
		assert.Equal(t, "enter_client_details", resp.Session.State)
	})

	t.Run("double submit", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Submit", mock.Anything, "sess-1", mock.Anything).Return(nil, fsm.ErrSubmissionInFlight)

		w := do(newRouter(svc), http.MethodPost, "/wizard/sessions/sess-1/submit",
			bytes.NewBufferString(`{"name":"Анна","contact":"+7999"}`))

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestRetryAndReload(t *testing.T) {
	svc := new(mockService)
	svc.On("Retry", mock.Anything, "sess-1").Return(nil, fsm.ErrNothingToRetry)
	svc.On("ReloadCatalog", mock.Anything, "sess-1").
		Return(&models.SessionView{Catalog: models.CatalogView{Status: "loaded"}}, nil)
	svc.On("Get", mock.Anything, "sess-1").Return(&models.SessionView{SessionID: "sess-1"}, nil)

	router := newRouter(svc)
	assert.Equal(t, http.StatusConflict, do(router, http.MethodPost, "/wizard/sessions/sess-1/retry", nil).Code)
	assert.Equal(t, http.StatusOK, do(router, http.MethodPost, "/wizard/sessions/sess-1/catalog/reload", nil).Code)
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/wizard/sessions/sess-1", nil).Code)
}
