package wire

import (
	"yoga-studio/internal/adaptor"
	"yoga-studio/internal/data/repository"
	"yoga-studio/pkg/middleware"
	"yoga-studio/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		// POST /api/checkout - Start hosted checkout for a paid class
		r.Post("/api/checkout", bookingHandler.InitiateCheckout)

		// POST /api/checkout/verify - Confirm payment and commit the booking
		r.Post("/api/checkout/verify", bookingHandler.VerifyCheckout)

		// POST /api/bookings - Book a free class directly
		r.Post("/api/bookings", bookingHandler.CreateBooking)

		// GET /api/me/bookings - Own booking history (paginated)
		r.Get("/api/me/bookings", bookingHandler.GetMyBookings)

		// POST /api/me/bookings/{id}/cancel - Cancel own booking
		r.Post("/api/me/bookings/{id}/cancel", bookingHandler.CancelBooking)
	})

	// ==================== INSTRUCTOR ROUTES ====================
	r.Group(func(r chi.Router) {
		// Require both authentication AND instructor role
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Instructor(log))

		// GET /api/studio/bookings - Bookings across own classes (paginated)
		r.Get("/api/studio/bookings", bookingHandler.GetStudioBookings)
	})
}
