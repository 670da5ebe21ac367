package payment

import (
	"context"
	"fmt"
	"time"
)

// Session payment status values surfaced by the provider.
const (
	SessionPaid   = "paid"
	SessionUnpaid = "unpaid"
)

// CheckoutMetadata is the booking intent carried across the redirect
// boundary. It is a fixed schema, validated on read-back, never an open map.
type CheckoutMetadata struct {
	ClassID     string
	StudentID   string
	BookingDate string // 2006-01-02
	BookingTime string // 15:04
}

func (m CheckoutMetadata) Validate() error {
	if m.ClassID == "" || m.StudentID == "" {
		return fmt.Errorf("invalid checkout metadata: missing class or student id")
	}
	if _, err := time.Parse("2006-01-02", m.BookingDate); err != nil {
		return fmt.Errorf("invalid checkout metadata: bad booking date %q", m.BookingDate)
	}
	if _, err := time.Parse("15:04", m.BookingTime); err != nil {
		return fmt.Errorf("invalid checkout metadata: bad booking time %q", m.BookingTime)
	}
	return nil
}

func (m CheckoutMetadata) ToMap() map[string]string {
	return map[string]string{
		"class_id":     m.ClassID,
		"student_id":   m.StudentID,
		"booking_date": m.BookingDate,
		"booking_time": m.BookingTime,
	}
}

func MetadataFromMap(raw map[string]string) (CheckoutMetadata, error) {
	m := CheckoutMetadata{
		ClassID:     raw["class_id"],
		StudentID:   raw["student_id"],
		BookingDate: raw["booking_date"],
		BookingTime: raw["booking_time"],
	}
	if err := m.Validate(); err != nil {
		return CheckoutMetadata{}, err
	}
	return m, nil
}

// CreateSessionParams describes a single-line-item hosted checkout session.
// AmountCents is always server-computed from the class row, never client input.
type CreateSessionParams struct {
	CustomerID  string
	ProductName string
	AmountCents int64
	Currency    string
	SuccessURL  string
	CancelURL   string
	Metadata    CheckoutMetadata
}

// Session is the residual handle the system keeps of a provider-hosted
// checkout session.
type Session struct {
	ID              string
	URL             string
	PaymentStatus   string
	AmountTotal     int64
	Currency        string
	PaymentIntentID string
	Metadata        map[string]string
}

func (s *Session) IsPaid() bool {
	return s.PaymentStatus == SessionPaid
}

// Provider is the hosted payment provider. All session state beyond the id
// lives with the provider; the system only correlates through metadata.
type Provider interface {
	// EnsureCustomer resolves or creates a provider customer for the
	// student's verified email and returns its id.
	EnsureCustomer(ctx context.Context, email, name string) (string, error)
	CreateCheckoutSession(ctx context.Context, params CreateSessionParams) (*Session, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (*Session, error)
}
