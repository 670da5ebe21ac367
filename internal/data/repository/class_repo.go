package repository

import (
	"context"
	"fmt"

	"yoga-studio/internal/data/entity"
	"yoga-studio/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ClassRepository interface {
	Create(ctx context.Context, class *entity.Class) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Class, error)
	FindByInstructorID(ctx context.Context, instructorID uuid.UUID, limit, offset int) ([]*entity.Class, error)
	CountByInstructorID(ctx context.Context, instructorID uuid.UUID) (int64, error)
	Update(ctx context.Context, class *entity.Class) error
	Deactivate(ctx context.Context, id uuid.UUID) error

	// FindUpcomingByInstructorID returns active classes whose start date is
	// today or later, ordered ascending by start date. Feeds the public
	// storefront catalog.
	FindUpcomingByInstructorID(ctx context.Context, instructorID uuid.UUID) ([]*entity.Class, error)
}

type classRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewClassRepository(db database.PgxIface, log *zap.Logger) ClassRepository {
	return &classRepository{
		db:  db,
		log: log.With(zap.String("repository", "class")),
	}
}

const classColumns = `id, instructor_id, title, description, category, custom_category, difficulty,
	duration_minutes, max_students, price_cents, start_date, start_time, timezone,
	recurrence, recurrence_days, recurrence_end_date,
	meeting_link, meeting_id, meeting_password, is_active, created_at, updated_at`

func scanClass(row pgx.Row) (*entity.Class, error) {
	var class entity.Class
	err := row.Scan(
		&class.ID,
		&class.InstructorID,
		&class.Title,
		&class.Description,
		&class.Category,
		&class.CustomCategory,
		&class.Difficulty,
		&class.DurationMinutes,
		&class.MaxStudents,
		&class.PriceCents,
		&class.StartDate,
		&class.StartTime,
		&class.Timezone,
		&class.Recurrence,
		&class.RecurrenceDays,
		&class.RecurrenceEndDate,
		&class.MeetingLink,
		&class.MeetingID,
		&class.MeetingPassword,
		&class.IsActive,
		&class.CreatedAt,
		&class.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &class, nil
}

func (r *classRepository) Create(ctx context.Context, class *entity.Class) error {
	query := `
		INSERT INTO classes (id, instructor_id, title, description, category, custom_category, difficulty,
		                     duration_minutes, max_students, price_cents, start_date, start_time, timezone,
		                     recurrence, recurrence_days, recurrence_end_date,
		                     meeting_link, meeting_id, meeting_password, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	`

	_, err := r.db.Exec(ctx, query,
		class.ID,
		class.InstructorID,
		class.Title,
		class.Description,
		class.Category,
		class.CustomCategory,
		class.Difficulty,
		class.DurationMinutes,
		class.MaxStudents,
		class.PriceCents,
		class.StartDate,
		class.StartTime,
		class.Timezone,
		class.Recurrence,
		class.RecurrenceDays,
		class.RecurrenceEndDate,
		class.MeetingLink,
		class.MeetingID,
		class.MeetingPassword,
		class.IsActive,
		class.CreatedAt,
		class.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create class",
			zap.Error(err),
			zap.String("instructor_id", class.InstructorID.String()),
			zap.String("title", class.Title),
		)
		return fmt.Errorf("create class %s: %w", class.Title, err)
	}

	return nil
}

func (r *classRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Class, error) {
	query := `SELECT ` + classColumns + ` FROM classes WHERE id = $1`

	class, err := scanClass(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find class by ID",
			zap.Error(err),
			zap.String("class_id", id.String()),
		)
		return nil, fmt.Errorf("find class by ID %s: %w", id.String(), err)
	}

	return class, nil
}

func (r *classRepository) FindByInstructorID(ctx context.Context, instructorID uuid.UUID, limit, offset int) ([]*entity.Class, error) {
	query := `
		SELECT ` + classColumns + `
		FROM classes
		WHERE instructor_id = $1
		ORDER BY start_date, start_time
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, instructorID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find classes by instructor ID",
			zap.Error(err),
			zap.String("instructor_id", instructorID.String()),
		)
		return nil, fmt.Errorf("find classes by instructor ID %s: %w", instructorID.String(), err)
	}
	defer rows.Close()

	return collectClasses(rows)
}

func (r *classRepository) CountByInstructorID(ctx context.Context, instructorID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM classes WHERE instructor_id = $1`

	var count int64
	err := r.db.QueryRow(ctx, query, instructorID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count classes",
			zap.Error(err),
			zap.String("instructor_id", instructorID.String()),
		)
		return 0, fmt.Errorf("count classes for instructor %s: %w", instructorID.String(), err)
	}

	return count, nil
}

func (r *classRepository) Update(ctx context.Context, class *entity.Class) error {
	query := `
		UPDATE classes
		SET title = $2, description = $3, category = $4, custom_category = $5, difficulty = $6,
		    duration_minutes = $7, max_students = $8, price_cents = $9,
		    start_date = $10, start_time = $11, timezone = $12,
		    recurrence = $13, recurrence_days = $14, recurrence_end_date = $15,
		    meeting_link = $16, meeting_id = $17, meeting_password = $18,
		    is_active = $19, updated_at = $20
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		class.ID,
		class.Title,
		class.Description,
		class.Category,
		class.CustomCategory,
		class.Difficulty,
		class.DurationMinutes,
		class.MaxStudents,
		class.PriceCents,
		class.StartDate,
		class.StartTime,
		class.Timezone,
		class.Recurrence,
		class.RecurrenceDays,
		class.RecurrenceEndDate,
		class.MeetingLink,
		class.MeetingID,
		class.MeetingPassword,
		class.IsActive,
		class.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update class",
			zap.Error(err),
			zap.String("class_id", class.ID.String()),
		)
		return fmt.Errorf("update class %s: %w", class.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("class %s not found", class.ID.String())
	}

	return nil
}

// Deactivate soft-deletes: booking history keeps joining against the row.
func (r *classRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE classes SET is_active = FALSE, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to deactivate class",
			zap.Error(err),
			zap.String("class_id", id.String()),
		)
		return fmt.Errorf("deactivate class %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("class %s not found", id.String())
	}

	r.log.Info("Class deactivated", zap.String("class_id", id.String()))
	return nil
}

func (r *classRepository) FindUpcomingByInstructorID(ctx context.Context, instructorID uuid.UUID) ([]*entity.Class, error) {
	query := `
		SELECT ` + classColumns + `
		FROM classes
		WHERE instructor_id = $1
		  AND is_active = TRUE
		  AND start_date >= CURRENT_DATE
		ORDER BY start_date, start_time
	`

	rows, err := r.db.Query(ctx, query, instructorID)
	if err != nil {
		r.log.Error("Failed to find upcoming classes",
			zap.Error(err),
			zap.String("instructor_id", instructorID.String()),
		)
		return nil, fmt.Errorf("find upcoming classes for instructor %s: %w", instructorID.String(), err)
	}
	defer rows.Close()

	return collectClasses(rows)
}

func collectClasses(rows pgx.Rows) ([]*entity.Class, error) {
	var classes []*entity.Class
	for rows.Next() {
		class, err := scanClass(rows)
		if err != nil {
			return nil, fmt.Errorf("scan class row: %w", err)
		}
		classes = append(classes, class)
	}
	return classes, rows.Err()
}
