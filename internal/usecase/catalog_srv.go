package usecase

import (
	"context"
	"fmt"

	"yoga-studio/internal/data/repository"
	"yoga-studio/internal/dto/response"
	"yoga-studio/pkg/cache"

	"go.uber.org/zap"
)

type CatalogService interface {
	// GetStudioCatalog resolves a subdomain to the studio's public profile
	// plus its upcoming active classes. An unknown subdomain is a not-found
	// result; a known studio with no classes returns an empty list.
	GetStudioCatalog(ctx context.Context, subdomain string) (*response.CatalogResponse, error)
}

type catalogService struct {
	repo  *repository.Repository
	store *cache.Cache
	log   *zap.Logger
}

func NewCatalogService(repo *repository.Repository, store *cache.Cache, log *zap.Logger) CatalogService {
	return &catalogService{
		repo:  repo,
		store: store,
		log:   log.With(zap.String("service", "catalog")),
	}
}

func catalogCacheKey(subdomain string) string {
	return "catalog:" + subdomain
}

func (s *catalogService) GetStudioCatalog(ctx context.Context, subdomain string) (*response.CatalogResponse, error) {
	key := catalogCacheKey(subdomain)

	var cached response.CatalogResponse
	if s.store.Get(ctx, key, &cached) {
		return &cached, nil
	}

	instructor, err := s.repo.Instructor.FindBySubdomain(ctx, subdomain)
	if err != nil {
		s.log.Error("Failed to resolve subdomain",
			zap.Error(err),
			zap.String("subdomain", subdomain),
		)
		return nil, fmt.Errorf("resolve subdomain %s: %w", subdomain, err)
	}
	if instructor == nil {
		return nil, fmt.Errorf("studio %s not found", subdomain)
	}

	classes, err := s.repo.Class.FindUpcomingByInstructorID(ctx, instructor.ID)
	if err != nil {
		return nil, fmt.Errorf("load catalog for %s: %w", subdomain, err)
	}

	// Empty slice, not null: zero classes is a valid storefront
	classResponses := make([]response.ClassResponse, len(classes))
	for i, class := range classes {
		classResponses[i] = response.ClassToResponse(class)
	}

	catalog := &response.CatalogResponse{
		Instructor: response.StudioToResponse(instructor),
		Classes:    classResponses,
	}

	s.store.Set(ctx, key, catalog)

	s.log.Info("Catalog served",
		zap.String("subdomain", subdomain),
		zap.Int("class_count", len(classResponses)),
	)

	return catalog, nil
}
