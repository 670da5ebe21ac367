package wire

import (
	"yoga-studio/internal/adaptor"
	"yoga-studio/internal/data/repository"
	"yoga-studio/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCatalog(
	r chi.Router,
	catalogHandler *adaptor.CatalogHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/studios/{subdomain}/classes - Storefront catalog (public)
	r.Get("/api/studios/{subdomain}/classes", catalogHandler.GetStudioCatalog)
}
