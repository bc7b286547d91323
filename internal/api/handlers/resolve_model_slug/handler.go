package resolve_model_slug

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingWizard/internal/api/handlers"
	"github.com/m04kA/SMC-BookingWizard/internal/service/catalog"
)

const (
	msgInvalidSlug   = "некорректная ссылка на модель"
	msgModelNotFound = "модель не найдена"
)

// SlugResponse HTTP response model
type SlugResponse struct {
	ModelID string `json:"modelId"`
}

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/catalog/models/by-slug/{slug}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	modelID, err := h.service.ResolveSlug(r.Context(), slug)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrInvalidInput):
			h.logger.Warn("GET /catalog/models/by-slug/{slug} - Invalid slug: %q", slug)
			handlers.RespondBadRequest(w, msgInvalidSlug)

		case errors.Is(err, catalog.ErrModelNotFound):
			h.logger.Warn("GET /catalog/models/by-slug/{slug} - Model not found: slug=%q", slug)
			handlers.RespondNotFound(w, msgModelNotFound)

		default:
			h.logger.Error("GET /catalog/models/by-slug/{slug} - Failed to resolve slug=%q: %v", slug, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /catalog/models/by-slug/{slug} - Slug resolved: slug=%q, model_id=%s", slug, modelID)
	handlers.RespondJSON(w, http.StatusOK, SlugResponse{ModelID: modelID})
}
