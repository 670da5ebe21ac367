package wire

import (
	"yoga-studio/internal/adaptor"
	"yoga-studio/internal/data/repository"
	"yoga-studio/pkg/middleware"
	"yoga-studio/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireClass(
	r chi.Router,
	classHandler *adaptor.ClassHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== INSTRUCTOR ROUTES ====================
	r.Group(func(r chi.Router) {
		// Require both authentication AND instructor role
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Instructor(log))

		// POST /api/classes - Create a class under own studio
		r.Post("/api/classes", classHandler.CreateClass)

		// GET /api/classes - List own classes (paginated)
		r.Get("/api/classes", classHandler.GetMyClasses)

		// PUT /api/classes/{id} - Update own class
		r.Put("/api/classes/{id}", classHandler.UpdateClass)

		// DELETE /api/classes/{id} - Deactivate own class
		r.Delete("/api/classes/{id}", classHandler.DeactivateClass)
	})
}
