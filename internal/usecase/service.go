package usecase

import (
	"yoga-studio/internal/data/repository"
	"yoga-studio/pkg/cache"
	"yoga-studio/pkg/mailer"
	"yoga-studio/pkg/payment"
	"yoga-studio/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth    AuthService
	Studio  StudioService
	Class   ClassService
	Catalog CatalogService
	Booking BookingService
}

func NewService(
	repo *repository.Repository,
	config *utils.Config,
	store *cache.Cache,
	mail mailer.Mailer,
	provider payment.Provider,
	log *zap.Logger,
) *Service {
	return &Service{
		Auth:    NewAuthService(repo, config, mail, log),
		Studio:  NewStudioService(repo, store, log),
		Class:   NewClassService(repo, store, log),
		Catalog: NewCatalogService(repo, store, log),
		Booking: NewBookingService(repo, config, provider, mail, log),
	}
}
