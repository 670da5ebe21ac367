package adaptor

import (
	"net/http"
	"strings"

	"yoga-studio/internal/usecase"
	"yoga-studio/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	service usecase.CatalogService
	log     *zap.Logger
}

func NewCatalogHandler(service usecase.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		log:     log.With(zap.String("handler", "catalog")),
	}
}

// GetStudioCatalog handles GET /api/studios/{subdomain}/classes (public)
func (h *CatalogHandler) GetStudioCatalog(w http.ResponseWriter, r *http.Request) {
	subdomain := chi.URLParam(r, "subdomain")
	if subdomain == "" {
		utils.ResponseBadRequest(w, "Subdomain is required", nil)
		return
	}

	catalog, err := h.service.GetStudioCatalog(r.Context(), strings.ToLower(subdomain))
	if err != nil {
		h.handleServiceError(w, err, "get studio catalog")
		return
	}

	utils.ResponseSuccess(w, "success", catalog)
}

// handleServiceError handles errors for catalog operations
func (h *CatalogHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "not found"):
		h.log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, errMsg)

	default:
		h.log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
