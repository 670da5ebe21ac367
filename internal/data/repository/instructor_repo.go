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

type InstructorRepository interface {
	Create(ctx context.Context, instructor *entity.Instructor) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Instructor, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Instructor, error)
	FindBySubdomain(ctx context.Context, subdomain string) (*entity.Instructor, error)
	Update(ctx context.Context, instructor *entity.Instructor) error
}

type instructorRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewInstructorRepository(db database.PgxIface, log *zap.Logger) InstructorRepository {
	return &instructorRepository{
		db:  db,
		log: log.With(zap.String("repository", "instructor")),
	}
}

const instructorColumns = `id, user_id, subdomain, display_name, bio, brand_color, avatar_url,
	contact_email, whatsapp, instagram, website, created_at, updated_at`

func (r *instructorRepository) scanInstructor(row pgx.Row) (*entity.Instructor, error) {
	var instructor entity.Instructor
	err := row.Scan(
		&instructor.ID,
		&instructor.UserID,
		&instructor.Subdomain,
		&instructor.DisplayName,
		&instructor.Bio,
		&instructor.BrandColor,
		&instructor.AvatarURL,
		&instructor.ContactEmail,
		&instructor.WhatsApp,
		&instructor.Instagram,
		&instructor.Website,
		&instructor.CreatedAt,
		&instructor.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &instructor, nil
}

func (r *instructorRepository) Create(ctx context.Context, instructor *entity.Instructor) error {
	query := `
		INSERT INTO instructors (id, user_id, subdomain, display_name, bio, brand_color, avatar_url,
		                         contact_email, whatsapp, instagram, website, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.Exec(ctx, query,
		instructor.ID,
		instructor.UserID,
		instructor.Subdomain,
		instructor.DisplayName,
		instructor.Bio,
		instructor.BrandColor,
		instructor.AvatarURL,
		instructor.ContactEmail,
		instructor.WhatsApp,
		instructor.Instagram,
		instructor.Website,
		instructor.CreatedAt,
		instructor.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create instructor",
			zap.Error(err),
			zap.String("subdomain", instructor.Subdomain),
		)
		return fmt.Errorf("create instructor %s: %w", instructor.Subdomain, err)
	}

	return nil
}

func (r *instructorRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Instructor, error) {
	query := `SELECT ` + instructorColumns + ` FROM instructors WHERE id = $1`

	instructor, err := r.scanInstructor(r.db.QueryRow(ctx, query, id))
	if err != nil {
		r.log.Error("Failed to find instructor by ID",
			zap.Error(err),
			zap.String("instructor_id", id.String()),
		)
		return nil, fmt.Errorf("find instructor by ID %s: %w", id.String(), err)
	}

	return instructor, nil
}

func (r *instructorRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Instructor, error) {
	query := `SELECT ` + instructorColumns + ` FROM instructors WHERE user_id = $1`

	instructor, err := r.scanInstructor(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		r.log.Error("Failed to find instructor by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find instructor by user ID %s: %w", userID.String(), err)
	}

	return instructor, nil
}

func (r *instructorRepository) FindBySubdomain(ctx context.Context, subdomain string) (*entity.Instructor, error) {
	query := `SELECT ` + instructorColumns + ` FROM instructors WHERE subdomain = $1`

	instructor, err := r.scanInstructor(r.db.QueryRow(ctx, query, subdomain))
	if err != nil {
		r.log.Error("Failed to find instructor by subdomain",
			zap.Error(err),
			zap.String("subdomain", subdomain),
		)
		return nil, fmt.Errorf("find instructor by subdomain %s: %w", subdomain, err)
	}

	return instructor, nil
}

// Update never touches the subdomain; it is immutable once the studio exists.
func (r *instructorRepository) Update(ctx context.Context, instructor *entity.Instructor) error {
	query := `
		UPDATE instructors
		SET display_name = $2, bio = $3, brand_color = $4, avatar_url = $5,
		    contact_email = $6, whatsapp = $7, instagram = $8, website = $9, updated_at = $10
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		instructor.ID,
		instructor.DisplayName,
		instructor.Bio,
		instructor.BrandColor,
		instructor.AvatarURL,
		instructor.ContactEmail,
		instructor.WhatsApp,
		instructor.Instagram,
		instructor.Website,
		instructor.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update instructor",
			zap.Error(err),
			zap.String("instructor_id", instructor.ID.String()),
		)
		return fmt.Errorf("update instructor %s: %w", instructor.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("instructor %s not found", instructor.ID.String())
	}

	return nil
}
