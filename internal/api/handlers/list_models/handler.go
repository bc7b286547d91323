package list_models

import (
	"net/http"

	"github.com/m04kA/SMC-BookingWizard/internal/api/handlers"
)

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

// Handle GET /api/v1/catalog/models
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	models, err := h.service.ListModels(r.Context())
	if err != nil {
		h.logger.Error("GET /catalog/models - Failed to list models: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /catalog/models - Models retrieved successfully: count=%d", len(models))
	handlers.RespondJSON(w, http.StatusOK, FromDomain(models))
}
