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
	"go.uber.org/zap"
)

type ClassService interface {
	CreateClass(ctx context.Context, userID string, req *request.CreateClassRequest) (*response.ClassResponse, error)
	GetMyClasses(ctx context.Context, userID string, p *request.PaginatedRequest) (*response.PaginatedResponse[response.ClassResponse], error)
	UpdateClass(ctx context.Context, userID, classID string, req *request.UpdateClassRequest) (*response.ClassResponse, error)
	DeactivateClass(ctx context.Context, userID, classID string) error
}

type classService struct {
	repo  *repository.Repository
	store *cache.Cache
	log   *zap.Logger
}

func NewClassService(repo *repository.Repository, store *cache.Cache, log *zap.Logger) ClassService {
	return &classService{
		repo:  repo,
		store: store,
		log:   log.With(zap.String("service", "class")),
	}
}

func (s *classService) CreateClass(ctx context.Context, userID string, req *request.CreateClassRequest) (*response.ClassResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create class validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	instructor, err := s.ownStudio(ctx, userID)
	if err != nil {
		return nil, err
	}

	parsed, err := parseClassPayload(&req.ClassPayload)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	class := &entity.Class{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		InstructorID:      instructor.ID,
		Title:             req.Title,
		Description:       req.Description,
		Category:          entity.ClassCategory(req.Category),
		CustomCategory:    req.CustomCategory,
		Difficulty:        entity.Difficulty(req.Difficulty),
		DurationMinutes:   req.DurationMinutes,
		MaxStudents:       req.MaxStudents,
		PriceCents:        req.PriceCents,
		StartDate:         parsed.startDate,
		StartTime:         req.StartTime,
		Timezone:          req.Timezone,
		Recurrence:        parsed.recurrence,
		RecurrenceDays:    req.RecurrenceDays,
		RecurrenceEndDate: parsed.recurrenceEnd,
		MeetingLink:       req.MeetingLink,
		MeetingID:         req.MeetingID,
		MeetingPassword:   req.MeetingPassword,
		IsActive:          true,
	}

	if err := s.repo.Class.Create(ctx, class); err != nil {
		return nil, fmt.Errorf("create class: %w", err)
	}

	s.store.Delete(ctx, catalogCacheKey(instructor.Subdomain))

	s.log.Info("Class created",
		zap.String("class_id", class.ID.String()),
		zap.String("instructor_id", instructor.ID.String()),
		zap.String("title", class.Title),
		zap.Int64("price_cents", class.PriceCents),
	)

	resp := response.ClassToResponse(class)
	return &resp, nil
}

func (s *classService) GetMyClasses(ctx context.Context, userID string, p *request.PaginatedRequest) (*response.PaginatedResponse[response.ClassResponse], error) {
	instructor, err := s.ownStudio(ctx, userID)
	if err != nil {
		return nil, err
	}

	classes, err := s.repo.Class.FindByInstructorID(ctx, instructor.ID, p.Limit(), p.Offset())
	if err != nil {
		return nil, fmt.Errorf("get classes: %w", err)
	}

	total, err := s.repo.Class.CountByInstructorID(ctx, instructor.ID)
	if err != nil {
		return nil, fmt.Errorf("count classes: %w", err)
	}

	classResponses := make([]response.ClassResponse, len(classes))
	for i, class := range classes {
		classResponses[i] = response.ClassToResponse(class)
	}

	return response.NewPaginatedResponse(classResponses, p.Page, p.PerPage, total), nil
}

func (s *classService) UpdateClass(ctx context.Context, userID, classID string, req *request.UpdateClassRequest) (*response.ClassResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	instructor, class, err := s.ownClass(ctx, userID, classID)
	if err != nil {
		return nil, err
	}

	parsed, err := parseClassPayload(&req.ClassPayload)
	if err != nil {
		return nil, err
	}

	class.Title = req.Title
	class.Description = req.Description
	class.Category = entity.ClassCategory(req.Category)
	class.CustomCategory = req.CustomCategory
	class.Difficulty = entity.Difficulty(req.Difficulty)
	class.DurationMinutes = req.DurationMinutes
	class.MaxStudents = req.MaxStudents
	class.PriceCents = req.PriceCents
	class.StartDate = parsed.startDate
	class.StartTime = req.StartTime
	class.Timezone = req.Timezone
	class.Recurrence = parsed.recurrence
	class.RecurrenceDays = req.RecurrenceDays
	class.RecurrenceEndDate = parsed.recurrenceEnd
	class.MeetingLink = req.MeetingLink
	class.MeetingID = req.MeetingID
	class.MeetingPassword = req.MeetingPassword
	if req.IsActive != nil {
		class.IsActive = *req.IsActive
	}
	class.UpdatedAt = time.Now()

	if err := s.repo.Class.Update(ctx, class); err != nil {
		return nil, fmt.Errorf("update class: %w", err)
	}

	s.store.Delete(ctx, catalogCacheKey(instructor.Subdomain))

	s.log.Info("Class updated", zap.String("class_id", class.ID.String()))

	resp := response.ClassToResponse(class)
	return &resp, nil
}

func (s *classService) DeactivateClass(ctx context.Context, userID, classID string) error {
	instructor, class, err := s.ownClass(ctx, userID, classID)
	if err != nil {
		return err
	}

	if err := s.repo.Class.Deactivate(ctx, class.ID); err != nil {
		return fmt.Errorf("deactivate class: %w", err)
	}

	s.store.Delete(ctx, catalogCacheKey(instructor.Subdomain))

	return nil
}

// ==================== HELPER METHODS ====================

func (s *classService) ownStudio(ctx context.Context, userID string) (*entity.Instructor, error) {
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

func (s *classService) ownClass(ctx context.Context, userID, classID string) (*entity.Instructor, *entity.Class, error) {
	instructor, err := s.ownStudio(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	classUUID, err := uuid.Parse(classID)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid class ID format %s: %w", classID, err)
	}

	class, err := s.repo.Class.FindByID(ctx, classUUID)
	if err != nil {
		return nil, nil, fmt.Errorf("find class: %w", err)
	}
	if class == nil || class.InstructorID != instructor.ID {
		return nil, nil, fmt.Errorf("class %s not found", classID)
	}

	return instructor, class, nil
}

type parsedClassPayload struct {
	startDate     time.Time
	recurrence    *entity.RecurrencePattern
	recurrenceEnd *time.Time
}

// parseClassPayload checks the cross-field rules the validator tags cannot
// express: weekly recurrence needs weekdays, the recurrence end must be after
// the start, custom category needs a label, and the timezone must resolve.
func parseClassPayload(req *request.ClassPayload) (*parsedClassPayload, error) {
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %s", req.StartDate)
	}

	if _, err := time.LoadLocation(req.Timezone); err != nil {
		return nil, fmt.Errorf("invalid timezone %s", req.Timezone)
	}

	if req.Category == string(entity.CategoryCustom) && req.CustomCategory == nil {
		return nil, fmt.Errorf("custom category requires a label")
	}

	parsed := &parsedClassPayload{startDate: startDate}

	if req.Recurrence != nil {
		pattern := entity.RecurrencePattern(*req.Recurrence)
		if pattern == entity.RecurrenceWeekly && len(req.RecurrenceDays) == 0 {
			return nil, fmt.Errorf("weekly recurrence requires at least one weekday")
		}
		parsed.recurrence = &pattern
	}

	if req.RecurrenceEndDate != nil {
		endDate, err := time.Parse("2006-01-02", *req.RecurrenceEndDate)
		if err != nil {
			return nil, fmt.Errorf("invalid recurrence end date %s", *req.RecurrenceEndDate)
		}
		if !endDate.After(startDate) {
			return nil, fmt.Errorf("recurrence end date must be after start date")
		}
		parsed.recurrenceEnd = &endDate
	}

	return parsed, nil
}
