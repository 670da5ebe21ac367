package usecase

import (
	"context"
	"fmt"
	"time"

	"yoga-studio/internal/data/entity"
	"yoga-studio/internal/data/repository"
	"yoga-studio/internal/dto/request"
	"yoga-studio/internal/dto/response"
	"yoga-studio/pkg/cache"
	"yoga-studio/pkg/utils"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

type StudioService interface {
	CreateStudio(ctx context.Context, userID string, req *request.CreateStudioRequest) (*response.StudioResponse, error)
	GetMyStudio(ctx context.Context, userID string) (*response.StudioResponse, error)
	UpdateStudio(ctx context.Context, userID string, req *request.UpdateStudioRequest) (*response.StudioResponse, error)
	GetStudioStats(ctx context.Context, userID string) (*response.StudioStatsResponse, error)
}

type studioService struct {
	repo  *repository.Repository
	store *cache.Cache
	log   *zap.Logger
}

func NewStudioService(repo *repository.Repository, store *cache.Cache, log *zap.Logger) StudioService {
	return &studioService{
		repo:  repo,
		store: store,
		log:   log.With(zap.String("service", "studio")),
	}
}

func (s *studioService) CreateStudio(ctx context.Context, userID string, req *request.CreateStudioRequest) (*response.StudioResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create studio validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	existing, err := s.repo.Instructor.FindByUserID(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("check existing studio: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("studio already exists for this account")
	}

	subdomain, err := s.resolveSubdomain(ctx, req.Subdomain, req.DisplayName)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	instructor := &entity.Instructor{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:       userUUID,
		Subdomain:    subdomain,
		DisplayName:  req.DisplayName,
		Bio:          req.Bio,
		BrandColor:   req.BrandColor,
		AvatarURL:    req.AvatarURL,
		ContactEmail: req.ContactEmail,
		WhatsApp:     req.WhatsApp,
		Instagram:    req.Instagram,
		Website:      req.Website,
	}

	if err := s.repo.Instructor.Create(ctx, instructor); err != nil {
		s.log.Error("Failed to create studio",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("subdomain", subdomain),
		)
		return nil, fmt.Errorf("create studio: %w", err)
	}

	s.log.Info("Studio created",
		zap.String("instructor_id", instructor.ID.String()),
		zap.String("subdomain", subdomain),
	)

	resp := response.StudioToResponse(instructor)
	return &resp, nil
}

func (s *studioService) GetMyStudio(ctx context.Context, userID string) (*response.StudioResponse, error) {
	instructor, err := s.findOwnStudio(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := response.StudioToResponse(instructor)
	return &resp, nil
}

func (s *studioService) UpdateStudio(ctx context.Context, userID string, req *request.UpdateStudioRequest) (*response.StudioResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	instructor, err := s.findOwnStudio(ctx, userID)
	if err != nil {
		return nil, err
	}

	instructor.DisplayName = req.DisplayName
	instructor.Bio = req.Bio
	instructor.BrandColor = req.BrandColor
	instructor.AvatarURL = req.AvatarURL
	instructor.ContactEmail = req.ContactEmail
	instructor.WhatsApp = req.WhatsApp
	instructor.Instagram = req.Instagram
	instructor.Website = req.Website
	instructor.UpdatedAt = time.Now()

	if err := s.repo.Instructor.Update(ctx, instructor); err != nil {
		s.log.Error("Failed to update studio",
			zap.Error(err),
			zap.String("instructor_id", instructor.ID.String()),
		)
		return nil, fmt.Errorf("update studio: %w", err)
	}

	// Storefront shows profile fields; drop the cached catalog
	s.store.Delete(ctx, catalogCacheKey(instructor.Subdomain))

	s.log.Info("Studio updated", zap.String("instructor_id", instructor.ID.String()))

	resp := response.StudioToResponse(instructor)
	return &resp, nil
}

func (s *studioService) GetStudioStats(ctx context.Context, userID string) (*response.StudioStatsResponse, error) {
	instructor, err := s.findOwnStudio(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats, err := s.repo.Booking.StatsByInstructorID(ctx, instructor.ID)
	if err != nil {
		return nil, fmt.Errorf("load studio stats: %w", err)
	}

	resp := response.StatsToResponse(stats)
	return &resp, nil
}

// ==================== HELPER METHODS ====================

func (s *studioService) findOwnStudio(ctx context.Context, userID string) (*entity.Instructor, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	instructor, err := s.repo.Instructor.FindByUserID(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("find studio: %w", err)
	}
	if instructor == nil {
		return nil, fmt.Errorf("studio not found")
	}

	return instructor, nil
}

// resolveSubdomain slugifies the requested or derived subdomain and checks
// uniqueness. An explicit request that collides is an error; a derived one
// gets a short suffix instead.
func (s *studioService) resolveSubdomain(ctx context.Context, requested, displayName string) (string, error) {
	derived := requested == ""
	base := requested
	if derived {
		base = displayName
	}

	candidate := slug.Make(base)
	if candidate == "" {
		return "", fmt.Errorf("invalid subdomain")
	}

	taken, err := s.repo.Instructor.FindBySubdomain(ctx, candidate)
	if err != nil {
		return "", fmt.Errorf("check subdomain: %w", err)
	}
	if taken == nil {
		return candidate, nil
	}
	if !derived {
		return "", fmt.Errorf("subdomain %s already taken", candidate)
	}

	for i := 2; i <= 50; i++ {
		next := fmt.Sprintf("%s-%d", candidate, i)
		taken, err := s.repo.Instructor.FindBySubdomain(ctx, next)
		if err != nil {
			return "", fmt.Errorf("check subdomain: %w", err)
		}
		if taken == nil {
			return next, nil
		}
	}

	return "", fmt.Errorf("subdomain %s already taken", candidate)
}
