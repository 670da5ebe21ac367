package usecase

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"yoga-studio/internal/data/entity"
	"yoga-studio/internal/data/repository"
	"yoga-studio/internal/dto/request"
	"yoga-studio/internal/dto/response"
	"yoga-studio/pkg/mailer"
	"yoga-studio/pkg/payment"
	"yoga-studio/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	// Paid path: hosted checkout session, then verification after redirect.
	InitiateCheckout(ctx context.Context, userID string, req *request.InitiateCheckoutRequest) (*response.CheckoutSessionResponse, error)
	VerifyCheckout(ctx context.Context, userID string, req *request.VerifyCheckoutRequest) (*response.VerifyCheckoutResponse, error)

	// Direct path for free classes; no payment provider involved.
	CreateBooking(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.BookingResponse, error)

	GetMyBookings(ctx context.Context, userID string, p *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	CancelBooking(ctx context.Context, userID, bookingID string, req *request.CancelBookingRequest) error

	// Instructor side
	GetStudioBookings(ctx context.Context, userID string, p *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
}

type bookingService struct {
	repo     *repository.Repository
	config   *utils.Config
	provider payment.Provider
	mail     mailer.Mailer
	log      *zap.Logger
}

func NewBookingService(
	repo *repository.Repository,
	config *utils.Config,
	provider payment.Provider,
	mail mailer.Mailer,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		repo:     repo,
		config:   config,
		provider: provider,
		mail:     mail,
		log:      log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) InitiateCheckout(ctx context.Context, userID string, req *request.InitiateCheckoutRequest) (*response.CheckoutSessionResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Initiate checkout validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	user, err := s.findStudent(ctx, userID)
	if err != nil {
		return nil, err
	}

	// The provider customer is keyed on the student's verified email
	if !user.EmailVerified {
		return nil, fmt.Errorf("unverified email cannot start checkout")
	}

	// The price is re-read server-side; client input never reaches the
	// line item.
	class, err := s.findBookableClass(ctx, req.ClassID)
	if err != nil {
		return nil, err
	}

	if class.IsFree() {
		return nil, fmt.Errorf("free class cannot be checked out, book it directly")
	}

	instructor, err := s.repo.Instructor.FindByID(ctx, class.InstructorID)
	if err != nil || instructor == nil {
		return nil, fmt.Errorf("studio not found for class %s", req.ClassID)
	}

	customerID, err := s.provider.EnsureCustomer(ctx, user.Email, user.FullName)
	if err != nil {
		return nil, fmt.Errorf("prepare payment customer: %w", err)
	}

	studioURL := fmt.Sprintf("https://%s.%s", instructor.Subdomain, s.config.App.PublicDomain)

	session, err := s.provider.CreateCheckoutSession(ctx, payment.CreateSessionParams{
		CustomerID:  customerID,
		ProductName: fmt.Sprintf("%s with %s", class.Title, instructor.DisplayName),
		AmountCents: class.PriceCents,
		Currency:    s.config.Stripe.Currency,
		SuccessURL:  s.config.Stripe.SuccessURL + "?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   s.config.Stripe.CancelURL + "?return_url=" + url.QueryEscape(studioURL),
		Metadata: payment.CheckoutMetadata{
			ClassID:     class.ID.String(),
			StudentID:   user.ID.String(),
			BookingDate: req.BookingDate,
			BookingTime: req.BookingTime,
		},
	})
	if err != nil {
		// No booking side effects exist at this point; the caller may retry.
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	s.log.Info("Checkout initiated",
		zap.String("session_id", session.ID),
		zap.String("class_id", class.ID.String()),
		zap.String("student_id", user.ID.String()),
		zap.Int64("amount_cents", class.PriceCents),
	)

	return &response.CheckoutSessionResponse{
		URL:       session.URL,
		SessionID: session.ID,
	}, nil
}

func (s *bookingService) VerifyCheckout(ctx context.Context, userID string, req *request.VerifyCheckoutRequest) (*response.VerifyCheckoutResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	session, err := s.provider.GetCheckoutSession(ctx, req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("retrieve payment session: %w", err)
	}

	// Unpaid is a normal outcome (abandoned or still-open session), not a
	// fault. No booking row may exist for it.
	if !session.IsPaid() {
		s.log.Info("Checkout verification: session not paid",
			zap.String("session_id", session.ID),
			zap.String("payment_status", session.PaymentStatus),
		)
		return &response.VerifyCheckoutResponse{
			Success: false,
			Message: "payment not completed",
		}, nil
	}

	meta, err := payment.MetadataFromMap(session.Metadata)
	if err != nil {
		s.log.Error("Paid session carries invalid metadata",
			zap.Error(err), zap.String("session_id", session.ID))
		return nil, fmt.Errorf("invalid session metadata: %w", err)
	}

	if meta.StudentID != userID {
		return nil, fmt.Errorf("unauthorized to verify this payment session")
	}

	// Repeat verification (page refresh, client retry) returns the booking
	// that already exists instead of committing twice.
	existing, err := s.repo.Booking.FindByPaymentSessionID(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("check existing booking: %w", err)
	}
	if existing != nil {
		s.log.Info("Repeat verification for committed session",
			zap.String("session_id", session.ID),
			zap.String("booking_reference", existing.BookingReference),
		)
		resp := response.BookingToResponse(existing)
		s.enrichBookingResponse(ctx, &resp, existing.ClassID)
		return &response.VerifyCheckoutResponse{Success: true, Booking: &resp}, nil
	}

	booking, err := s.commitPaidBooking(ctx, userID, session, meta)
	if err != nil {
		return nil, err
	}

	resp := response.BookingToResponse(booking)
	s.enrichBookingResponse(ctx, &resp, booking.ClassID)
	return &response.VerifyCheckoutResponse{Success: true, Booking: &resp}, nil
}

// commitPaidBooking inserts the booking row for a paid session. Everything
// that fails in here happens after money has been captured, so errors are
// reported as a distinct recording failure and logged for reconciliation.
func (s *bookingService) commitPaidBooking(ctx context.Context, userID string, session *payment.Session, meta payment.CheckoutMetadata) (*entity.Booking, error) {
	user, err := s.findStudent(ctx, userID)
	if err != nil {
		return nil, s.recordingFailure(session.ID, err)
	}

	classID, err := uuid.Parse(meta.ClassID)
	if err != nil {
		return nil, s.recordingFailure(session.ID, fmt.Errorf("bad class id in metadata: %w", err))
	}

	class, err := s.repo.Class.FindByID(ctx, classID)
	if err != nil {
		return nil, s.recordingFailure(session.ID, err)
	}
	if class == nil {
		return nil, s.recordingFailure(session.ID, fmt.Errorf("class %s no longer exists", meta.ClassID))
	}

	reference, err := s.repo.Booking.NextReference(ctx)
	if err != nil {
		return nil, s.recordingFailure(session.ID, err)
	}

	bookingDate, _ := time.Parse("2006-01-02", meta.BookingDate)

	now := time.Now()
	sessionID := session.ID
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		ClassID:      class.ID,
		StudentID:    user.ID,
		StudentName:  user.FullName,
		StudentEmail: user.Email,
		BookingDate:  bookingDate,
		BookingTime:  meta.BookingTime,
		// The amount is what the provider actually charged, not the class's
		// current price; the class may have been repriced since checkout.
		BookingReference:   reference,
		PaymentAmountCents: session.AmountTotal,
		PaymentStatus:      entity.PaymentStatusPaid,
		Status:             entity.BookingStatusConfirmed,
		PaymentSessionID:   &sessionID,
	}
	if session.PaymentIntentID != "" {
		intentID := session.PaymentIntentID
		booking.PaymentIntentID = &intentID
	}

	if err := s.repo.Booking.CreateReserving(ctx, booking, class.MaxStudents); err != nil {
		// A racing verification of the same session may have won, either
		// through the unique session index or by filling the last seat with
		// its own row. Either way the payment is recorded exactly once, so
		// look the session up again before declaring a failure.
		existing, lookupErr := s.repo.Booking.FindByPaymentSessionID(ctx, session.ID)
		if lookupErr == nil && existing != nil {
			return existing, nil
		}
		return nil, s.recordingFailure(session.ID, err)
	}

	s.log.Info("Paid booking committed",
		zap.String("booking_reference", booking.BookingReference),
		zap.String("session_id", session.ID),
		zap.String("payment_intent_id", session.PaymentIntentID),
		zap.Int64("amount_cents", session.AmountTotal),
	)

	go s.sendConfirmation(booking, class)

	return booking, nil
}

func (s *bookingService) CreateBooking(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	user, err := s.findStudent(ctx, userID)
	if err != nil {
		return nil, err
	}

	class, err := s.findBookableClass(ctx, req.ClassID)
	if err != nil {
		return nil, err
	}

	if !class.IsFree() {
		return nil, fmt.Errorf("paid class cannot be booked directly, use checkout")
	}

	reference, err := s.repo.Booking.NextReference(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate booking reference: %w", err)
	}

	bookingDate, _ := time.Parse("2006-01-02", req.BookingDate)

	now := time.Now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		ClassID:            class.ID,
		StudentID:          user.ID,
		StudentName:        user.FullName,
		StudentEmail:       user.Email,
		BookingDate:        bookingDate,
		BookingTime:        req.BookingTime,
		BookingReference:   reference,
		PaymentAmountCents: 0,
		PaymentStatus:      entity.PaymentStatusNotRequired,
		Status:             entity.BookingStatusConfirmed,
		SpecialRequests:    req.SpecialRequests,
	}

	if err := s.repo.Booking.CreateReserving(ctx, booking, class.MaxStudents); err != nil {
		return nil, err
	}

	s.log.Info("Free booking created",
		zap.String("booking_reference", booking.BookingReference),
		zap.String("class_id", class.ID.String()),
		zap.String("student_id", user.ID.String()),
	)

	go s.sendConfirmation(booking, class)

	resp := response.BookingToResponse(booking)
	s.enrichBookingResponse(ctx, &resp, class.ID)
	return &resp, nil
}

func (s *bookingService) GetMyBookings(ctx context.Context, userID string, p *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	bookings, err := s.repo.Booking.FindByStudentID(ctx, userUUID, p.Limit(), p.Offset())
	if err != nil {
		return nil, fmt.Errorf("get bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByStudentID(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	bookingResponses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		bookingResponses[i] = response.BookingToResponse(booking)
		s.enrichBookingResponse(ctx, &bookingResponses[i], booking.ClassID)
	}

	return response.NewPaginatedResponse(bookingResponses, p.Page, p.PerPage, total), nil
}

func (s *bookingService) CancelBooking(ctx context.Context, userID, bookingID string, req *request.CancelBookingRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	id, err := uuid.Parse(bookingID)
	if err != nil {
		return fmt.Errorf("invalid booking ID format %s: %w", bookingID, err)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find booking: %w", err)
	}
	if booking == nil {
		return fmt.Errorf("booking %s not found", bookingID)
	}

	if booking.StudentID != userUUID {
		return fmt.Errorf("unauthorized to cancel this booking")
	}

	if !booking.CanCancel() {
		return fmt.Errorf("booking status is %s, cannot cancel", booking.Status)
	}

	if err := s.repo.Booking.Cancel(ctx, booking.ID, req.Reason); err != nil {
		return fmt.Errorf("cancel booking %s: %w", bookingID, err)
	}

	s.log.Info("Booking cancelled",
		zap.String("booking_id", bookingID),
		zap.String("booking_reference", booking.BookingReference),
	)

	return nil
}

func (s *bookingService) GetStudioBookings(ctx context.Context, userID string, p *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
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

	bookings, err := s.repo.Booking.FindByInstructorID(ctx, instructor.ID, p.Limit(), p.Offset())
	if err != nil {
		return nil, fmt.Errorf("get studio bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByInstructorID(ctx, instructor.ID)
	if err != nil {
		return nil, fmt.Errorf("count studio bookings: %w", err)
	}

	bookingResponses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		bookingResponses[i] = response.BookingToResponse(booking)
		s.enrichBookingResponse(ctx, &bookingResponses[i], booking.ClassID)
	}

	return response.NewPaginatedResponse(bookingResponses, p.Page, p.PerPage, total), nil
}

// ==================== HELPER METHODS ====================

func (s *bookingService) findStudent(ctx context.Context, userID string) (*entity.User, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	user, err := s.repo.User.FindByID(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, fmt.Errorf("unauthorized: account not found or inactive")
	}

	return user, nil
}

func (s *bookingService) findBookableClass(ctx context.Context, classID string) (*entity.Class, error) {
	classUUID, err := uuid.Parse(classID)
	if err != nil {
		return nil, fmt.Errorf("invalid class ID format %s: %w", classID, err)
	}

	class, err := s.repo.Class.FindByID(ctx, classUUID)
	if err != nil {
		return nil, fmt.Errorf("find class: %w", err)
	}
	if class == nil || !class.IsActive {
		return nil, fmt.Errorf("class %s not found", classID)
	}

	return class, nil
}

// recordingFailure marks the worst failure class of the flow: the provider
// reports the session paid but no booking row could be written. These need
// operator follow-up, never silent loss.
func (s *bookingService) recordingFailure(sessionID string, err error) error {
	s.log.Error("Payment captured but booking could not be recorded",
		zap.Error(err),
		zap.String("session_id", sessionID),
	)
	return fmt.Errorf("payment received but booking could not be recorded, support has been notified (session %s): %w", sessionID, err)
}

func (s *bookingService) enrichBookingResponse(ctx context.Context, resp *response.BookingResponse, classID uuid.UUID) {
	class, err := s.repo.Class.FindByID(ctx, classID)
	if err != nil || class == nil {
		return
	}
	resp.ClassTitle = class.Title

	instructor, err := s.repo.Instructor.FindByID(ctx, class.InstructorID)
	if err == nil && instructor != nil {
		resp.StudioName = instructor.DisplayName
	}
}

func (s *bookingService) sendConfirmation(booking *entity.Booking, class *entity.Class) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	studioName := ""
	instructor, err := s.repo.Instructor.FindByID(ctx, class.InstructorID)
	if err == nil && instructor != nil {
		studioName = instructor.DisplayName
	}

	s.mail.SendBookingConfirmation(booking.StudentEmail, mailer.BookingConfirmationData{
		StudentName: booking.StudentName,
		ClassTitle:  class.Title,
		StudioName:  studioName,
		Reference:   booking.BookingReference,
		Date:        booking.BookingDate.Format("2006-01-02"),
		Time:        booking.BookingTime,
		AmountCents: booking.PaymentAmountCents,
	})
}
