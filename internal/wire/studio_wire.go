package wire

import (
	"yoga-studio/internal/adaptor"
	"yoga-studio/internal/data/repository"
	"yoga-studio/pkg/middleware"
	"yoga-studio/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireStudio(
	r chi.Router,
	studioHandler *adaptor.StudioHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== INSTRUCTOR ROUTES ====================
	r.Group(func(r chi.Router) {
		// Require both authentication AND instructor role
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Instructor(log))

		// POST /api/studio - Claim subdomain and create studio profile
		r.Post("/api/studio", studioHandler.CreateStudio)

		// GET /api/studio - Own studio profile
		r.Get("/api/studio", studioHandler.GetMyStudio)

		// PUT /api/studio - Update profile (subdomain is immutable)
		r.Put("/api/studio", studioHandler.UpdateStudio)

		// GET /api/studio/stats - Booking and revenue aggregates
		r.Get("/api/studio/stats", studioHandler.GetStudioStats)
	})
}
