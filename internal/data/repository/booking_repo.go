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

type BookingRepository interface {
	// NextReference asks the database for a fresh unique booking reference.
	// Generation is a single atomic call; there is no client-side fallback.
	NextReference(ctx context.Context) (string, error)

	// CreateReserving inserts the booking only while the occurrence still has
	// room. Returns an error containing "full" when capacity is exhausted.
	CreateReserving(ctx context.Context, booking *entity.Booking, maxStudents int) error

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByPaymentSessionID(ctx context.Context, sessionID string) (*entity.Booking, error)
	FindByStudentID(ctx context.Context, studentID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByStudentID(ctx context.Context, studentID uuid.UUID) (int64, error)
	FindByInstructorID(ctx context.Context, instructorID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByInstructorID(ctx context.Context, instructorID uuid.UUID) (int64, error)
	Cancel(ctx context.Context, id uuid.UUID, reason string) error
	StatsByInstructorID(ctx context.Context, instructorID uuid.UUID) (*entity.StudioStats, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, class_id, student_id, student_name, student_email,
	booking_date, booking_time, booking_reference, payment_amount_cents,
	payment_status, status, special_requests, cancellation_reason, cancelled_at,
	payment_session_id, payment_intent_id, created_at, updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.ClassID,
		&booking.StudentID,
		&booking.StudentName,
		&booking.StudentEmail,
		&booking.BookingDate,
		&booking.BookingTime,
		&booking.BookingReference,
		&booking.PaymentAmountCents,
		&booking.PaymentStatus,
		&booking.Status,
		&booking.SpecialRequests,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&booking.PaymentSessionID,
		&booking.PaymentIntentID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) NextReference(ctx context.Context) (string, error) {
	var reference string
	err := r.db.QueryRow(ctx, `SELECT generate_booking_reference()`).Scan(&reference)
	if err != nil {
		r.log.Error("Failed to generate booking reference", zap.Error(err))
		return "", fmt.Errorf("generate booking reference: %w", err)
	}

	return reference, nil
}

func (r *bookingRepository) CreateReserving(ctx context.Context, booking *entity.Booking, maxStudents int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin reservation: %w", err)
	}
	defer tx.Rollback(ctx)

	// Serialize concurrent inserts for the same occurrence so the capacity
	// count below cannot be read stale by a racing transaction.
	_, err = tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1 || $2))`,
		booking.ClassID.String(), booking.BookingDate.Format("2006-01-02"),
	)
	if err != nil {
		return fmt.Errorf("lock occurrence: %w", err)
	}

	query := `
		INSERT INTO bookings (id, class_id, student_id, student_name, student_email,
		                      booking_date, booking_time, booking_reference, payment_amount_cents,
		                      payment_status, status, special_requests,
		                      payment_session_id, payment_intent_id, created_at, updated_at)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		WHERE (
			SELECT COUNT(*) FROM bookings
			WHERE class_id = $2
			  AND booking_date = $6
			  AND status IN ('pending', 'confirmed')
		) < $17
	`

	result, err := tx.Exec(ctx, query,
		booking.ID,
		booking.ClassID,
		booking.StudentID,
		booking.StudentName,
		booking.StudentEmail,
		booking.BookingDate,
		booking.BookingTime,
		booking.BookingReference,
		booking.PaymentAmountCents,
		booking.PaymentStatus,
		booking.Status,
		booking.SpecialRequests,
		booking.PaymentSessionID,
		booking.PaymentIntentID,
		booking.CreatedAt,
		booking.UpdatedAt,
		maxStudents,
	)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_reference", booking.BookingReference),
			zap.String("class_id", booking.ClassID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.BookingReference, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("class is full for %s", booking.BookingDate.Format("2006-01-02"))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit booking %s: %w", booking.BookingReference, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByPaymentSessionID(ctx context.Context, sessionID string) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE payment_session_id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, sessionID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by payment session",
			zap.Error(err),
			zap.String("session_id", sessionID),
		)
		return nil, fmt.Errorf("find booking by payment session %s: %w", sessionID, err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByStudentID(ctx context.Context, studentID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE student_id = $1
		ORDER BY booking_date, booking_time
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, studentID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by student ID",
			zap.Error(err),
			zap.String("student_id", studentID.String()),
		)
		return nil, fmt.Errorf("find bookings by student ID %s: %w", studentID.String(), err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (r *bookingRepository) CountByStudentID(ctx context.Context, studentID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE student_id = $1`

	var count int64
	err := r.db.QueryRow(ctx, query, studentID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings by student ID",
			zap.Error(err),
			zap.String("student_id", studentID.String()),
		)
		return 0, fmt.Errorf("count bookings by student ID %s: %w", studentID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) FindByInstructorID(ctx context.Context, instructorID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT b.id, b.class_id, b.student_id, b.student_name, b.student_email,
		       b.booking_date, b.booking_time, b.booking_reference, b.payment_amount_cents,
		       b.payment_status, b.status, b.special_requests, b.cancellation_reason, b.cancelled_at,
		       b.payment_session_id, b.payment_intent_id, b.created_at, b.updated_at
		FROM bookings b
		JOIN classes c ON c.id = b.class_id
		WHERE c.instructor_id = $1
		ORDER BY b.booking_date, b.booking_time
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, instructorID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by instructor ID",
			zap.Error(err),
			zap.String("instructor_id", instructorID.String()),
		)
		return nil, fmt.Errorf("find bookings by instructor ID %s: %w", instructorID.String(), err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (r *bookingRepository) CountByInstructorID(ctx context.Context, instructorID uuid.UUID) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings b
		JOIN classes c ON c.id = b.class_id
		WHERE c.instructor_id = $1
	`

	var count int64
	err := r.db.QueryRow(ctx, query, instructorID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings by instructor ID",
			zap.Error(err),
			zap.String("instructor_id", instructorID.String()),
		)
		return 0, fmt.Errorf("count bookings by instructor ID %s: %w", instructorID.String(), err)
	}

	return count, nil
}

// Cancel is a state transition, never a delete; reason and timestamp are kept.
func (r *bookingRepository) Cancel(ctx context.Context, id uuid.UUID, reason string) error {
	query := `
		UPDATE bookings
		SET status = 'cancelled', cancellation_reason = $2, cancelled_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status IN ('pending', 'confirmed')
	`

	result, err := r.db.Exec(ctx, query, id, reason)
	if err != nil {
		r.log.Error("Failed to cancel booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("cancel booking %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s cannot be cancelled", id.String())
	}

	r.log.Info("Booking cancelled", zap.String("booking_id", id.String()))
	return nil
}

func (r *bookingRepository) StatsByInstructorID(ctx context.Context, instructorID uuid.UUID) (*entity.StudioStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM classes WHERE instructor_id = $1 AND is_active = TRUE),
			(SELECT COUNT(*) FROM bookings b JOIN classes c ON c.id = b.class_id
			 WHERE c.instructor_id = $1),
			(SELECT COUNT(*) FROM bookings b JOIN classes c ON c.id = b.class_id
			 WHERE c.instructor_id = $1 AND b.status = 'confirmed' AND b.booking_date >= CURRENT_DATE),
			(SELECT COALESCE(SUM(b.payment_amount_cents), 0) FROM bookings b JOIN classes c ON c.id = b.class_id
			 WHERE c.instructor_id = $1 AND b.status = 'confirmed' AND b.payment_status = 'paid'),
			(SELECT COUNT(*) FROM bookings b JOIN classes c ON c.id = b.class_id
			 WHERE c.instructor_id = $1 AND b.status = 'cancelled')
	`

	var stats entity.StudioStats
	err := r.db.QueryRow(ctx, query, instructorID).Scan(
		&stats.ActiveClasses,
		&stats.TotalBookings,
		&stats.UpcomingBookings,
		&stats.RevenueCentsPaid,
		&stats.CancelledBookings,
	)
	if err != nil {
		r.log.Error("Failed to load studio stats",
			zap.Error(err),
			zap.String("instructor_id", instructorID.String()),
		)
		return nil, fmt.Errorf("load studio stats for %s: %w", instructorID.String(), err)
	}

	return &stats, nil
}

func collectBookings(rows pgx.Rows) ([]*entity.Booking, error) {
	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}
