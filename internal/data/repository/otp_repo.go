package repository

import (
	"context"
	"fmt"

	"yoga-studio/internal/data/entity"
	"yoga-studio/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type OTPRepository interface {
	Create(ctx context.Context, otp *entity.OTP) error
	FindValid(ctx context.Context, email, code string, otpType entity.OTPType) (*entity.OTP, error)
	MarkUsed(ctx context.Context, otp *entity.OTP) error
	InvalidateForEmail(ctx context.Context, email string, otpType entity.OTPType) error
}

type otpRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewOTPRepository(db database.PgxIface, log *zap.Logger) OTPRepository {
	return &otpRepository{
		db:  db,
		log: log.With(zap.String("repository", "otp")),
	}
}

func (r *otpRepository) Create(ctx context.Context, otp *entity.OTP) error {
	query := `
		INSERT INTO otps (id, email, code, type, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		otp.ID,
		otp.Email,
		otp.Code,
		otp.Type,
		otp.ExpiresAt,
		otp.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create OTP",
			zap.Error(err),
			zap.String("email", otp.Email),
		)
		return fmt.Errorf("create OTP for %s: %w", otp.Email, err)
	}

	return nil
}

func (r *otpRepository) FindValid(ctx context.Context, email, code string, otpType entity.OTPType) (*entity.OTP, error) {
	query := `
		SELECT id, email, code, type, expires_at, used_at, created_at
		FROM otps
		WHERE email = $1 AND code = $2 AND type = $3
		  AND used_at IS NULL
		  AND expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT 1
	`

	var otp entity.OTP
	err := r.db.QueryRow(ctx, query, email, code, otpType).Scan(
		&otp.ID,
		&otp.Email,
		&otp.Code,
		&otp.Type,
		&otp.ExpiresAt,
		&otp.UsedAt,
		&otp.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find OTP",
			zap.Error(err),
			zap.String("email", email),
		)
		return nil, fmt.Errorf("find OTP for %s: %w", email, err)
	}

	return &otp, nil
}

func (r *otpRepository) MarkUsed(ctx context.Context, otp *entity.OTP) error {
	query := `UPDATE otps SET used_at = NOW() WHERE id = $1 AND used_at IS NULL`

	result, err := r.db.Exec(ctx, query, otp.ID)
	if err != nil {
		r.log.Error("Failed to mark OTP used",
			zap.Error(err),
			zap.String("otp_id", otp.ID.String()),
		)
		return fmt.Errorf("mark OTP used: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("OTP already used or not found")
	}

	return nil
}

func (r *otpRepository) InvalidateForEmail(ctx context.Context, email string, otpType entity.OTPType) error {
	query := `UPDATE otps SET used_at = NOW() WHERE email = $1 AND type = $2 AND used_at IS NULL`

	_, err := r.db.Exec(ctx, query, email, otpType)
	if err != nil {
		r.log.Error("Failed to invalidate OTPs",
			zap.Error(err),
			zap.String("email", email),
		)
		return fmt.Errorf("invalidate OTPs for %s: %w", email, err)
	}

	return nil
}
