package response

import (
	"time"

	"yoga-studio/internal/data/entity"
)

type BookingResponse struct {
	ID                 string     `json:"id"`
	ClassID            string     `json:"class_id"`
	ClassTitle         string     `json:"class_title,omitempty"`
	StudioName         string     `json:"studio_name,omitempty"`
	BookingReference   string     `json:"booking_reference"`
	BookingDate        string     `json:"booking_date"`
	BookingTime        string     `json:"booking_time"`
	PaymentAmountCents int64      `json:"payment_amount_cents"`
	PaymentStatus      string     `json:"payment_status"`
	Status             string     `json:"status"`
	SpecialRequests    *string    `json:"special_requests,omitempty"`
	CancellationReason *string    `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// CheckoutSessionResponse is returned by checkout initiation: the hosted
// payment page URL plus the session id the client brings back on success.
type CheckoutSessionResponse struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
}

type VerifyCheckoutResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message,omitempty"`
	Booking *BookingResponse `json:"booking,omitempty"`
}

func BookingToResponse(booking *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:                 booking.ID.String(),
		ClassID:            booking.ClassID.String(),
		BookingReference:   booking.BookingReference,
		BookingDate:        booking.BookingDate.Format("2006-01-02"),
		BookingTime:        booking.BookingTime,
		PaymentAmountCents: booking.PaymentAmountCents,
		PaymentStatus:      string(booking.PaymentStatus),
		Status:             string(booking.Status),
		SpecialRequests:    booking.SpecialRequests,
		CancellationReason: booking.CancellationReason,
		CancelledAt:        booking.CancelledAt,
		CreatedAt:          booking.CreatedAt,
	}
}
