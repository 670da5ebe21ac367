package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

type PaymentStatus string

const (
	PaymentStatusNotRequired PaymentStatus = "not_required"
	PaymentStatusPending     PaymentStatus = "pending"
	PaymentStatusPaid        PaymentStatus = "paid"
	PaymentStatusFailed      PaymentStatus = "failed"
)

// Booking snapshots the occurrence date/time and the amount at creation time.
// Later edits to the class never rewrite these fields.
type Booking struct {
	Base
	ClassID            uuid.UUID     `db:"class_id"`
	StudentID          uuid.UUID     `db:"student_id"`
	StudentName        string        `db:"student_name"`
	StudentEmail       string        `db:"student_email"`
	BookingDate        time.Time     `db:"booking_date"`
	BookingTime        string        `db:"booking_time"`
	BookingReference   string        `db:"booking_reference"`
	PaymentAmountCents int64         `db:"payment_amount_cents"`
	PaymentStatus      PaymentStatus `db:"payment_status"`
	Status             BookingStatus `db:"status"`
	SpecialRequests    *string       `db:"special_requests"`
	CancellationReason *string       `db:"cancellation_reason"`
	CancelledAt        *time.Time    `db:"cancelled_at"`
	PaymentSessionID   *string       `db:"payment_session_id"`
	PaymentIntentID    *string       `db:"payment_intent_id"`
}

// CanCancel reports whether the booking is still in a cancellable state.
// Cancellation is terminal; completed and already-cancelled bookings stay put.
func (b *Booking) CanCancel() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}
