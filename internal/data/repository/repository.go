package repository

import (
	"yoga-studio/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User       UserRepository
	Session    SessionRepository
	OTP        OTPRepository
	Instructor InstructorRepository
	Class      ClassRepository
	Booking    BookingRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:       NewUserRepository(db, log),
		Session:    NewSessionRepository(db, log),
		OTP:        NewOTPRepository(db, log),
		Instructor: NewInstructorRepository(db, log),
		Class:      NewClassRepository(db, log),
		Booking:    NewBookingRepository(db, log),
	}
}
