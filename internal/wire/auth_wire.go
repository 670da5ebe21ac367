package wire

import (
	"yoga-studio/internal/adaptor"
	"yoga-studio/internal/data/repository"
	"yoga-studio/pkg/middleware"
	"yoga-studio/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// POST /api/auth/register - Create account (student or instructor)
	r.Post("/api/auth/register", authHandler.Register)

	// POST /api/auth/login - Exchange credentials for session token
	r.Post("/api/auth/login", authHandler.Login)

	// POST /api/auth/otp - Issue email verification code
	r.Post("/api/auth/otp", authHandler.SendOTP)

	// POST /api/auth/verify-email - Redeem verification code
	r.Post("/api/auth/verify-email", authHandler.VerifyEmail)

	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		// POST /api/auth/logout - Revoke current session
		r.Post("/api/auth/logout", authHandler.Logout)
	})
}
