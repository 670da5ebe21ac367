package request

// InitiateCheckoutRequest starts the paid reservation flow. The price is
// never part of the request; the server reads it from the class row.
type InitiateCheckoutRequest struct {
	ClassID     string `json:"class_id" validate:"required,uuid4"`
	BookingDate string `json:"booking_date" validate:"required,datetime=2006-01-02"`
	BookingTime string `json:"booking_time" validate:"required,datetime=15:04"`
}

// VerifyCheckoutRequest carries the opaque session id returned to the client
// on the success redirect.
type VerifyCheckoutRequest struct {
	SessionID string `json:"session_id" validate:"required,min=10,max=255"`
}

// CreateBookingRequest is the direct path for free classes.
type CreateBookingRequest struct {
	ClassID         string  `json:"class_id" validate:"required,uuid4"`
	BookingDate     string  `json:"booking_date" validate:"required,datetime=2006-01-02"`
	BookingTime     string  `json:"booking_time" validate:"required,datetime=15:04"`
	SpecialRequests *string `json:"special_requests,omitempty" validate:"omitempty,max=1000"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"required,min=2,max=500"`
}
