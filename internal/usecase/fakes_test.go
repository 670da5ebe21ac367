package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"yoga-studio/internal/data/entity"
	"yoga-studio/internal/data/repository"
	"yoga-studio/pkg/cache"
	"yoga-studio/pkg/mailer"
	"yoga-studio/pkg/payment"
	"yoga-studio/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// In-memory repository fakes. Each one mirrors the SQL behaviour the real
// repository promises, including the nil-on-missing convention.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*entity.User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id], nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) MarkEmailVerified(ctx context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			u.EmailVerified = true
		}
	}
	return nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*entity.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*entity.Session{}}
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.Token.String()] = session
	return nil
}

func (r *fakeSessionRepo) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[token]
	if !ok || s.ExpiresAt.Before(time.Now()) {
		return nil, nil
	}
	return s, nil
}

func (r *fakeSessionRepo) Revoke(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	return nil
}

func (r *fakeSessionRepo) RevokeAllUserSessions(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for token, s := range r.sessions {
		if s.UserID == userID {
			delete(r.sessions, token)
		}
	}
	return nil
}

func (r *fakeSessionRepo) CleanExpiredSessions(ctx context.Context) error {
	return nil
}

type fakeOTPRepo struct {
	mu   sync.Mutex
	otps []*entity.OTP
}

func newFakeOTPRepo() *fakeOTPRepo {
	return &fakeOTPRepo{}
}

func (r *fakeOTPRepo) Create(ctx context.Context, otp *entity.OTP) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.otps = append(r.otps, otp)
	return nil
}

func (r *fakeOTPRepo) FindValid(ctx context.Context, email, code string, otpType entity.OTPType) (*entity.OTP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.otps {
		if o.Email == email && o.Code == code && o.Type == otpType &&
			o.UsedAt == nil && o.ExpiresAt.After(time.Now()) {
			return o, nil
		}
	}
	return nil, nil
}

func (r *fakeOTPRepo) MarkUsed(ctx context.Context, otp *entity.OTP) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	otp.UsedAt = &now
	return nil
}

func (r *fakeOTPRepo) InvalidateForEmail(ctx context.Context, email string, otpType entity.OTPType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, o := range r.otps {
		if o.Email == email && o.Type == otpType && o.UsedAt == nil {
			o.UsedAt = &now
		}
	}
	return nil
}

type fakeInstructorRepo struct {
	mu          sync.Mutex
	instructors map[uuid.UUID]*entity.Instructor
}

func newFakeInstructorRepo() *fakeInstructorRepo {
	return &fakeInstructorRepo{instructors: map[uuid.UUID]*entity.Instructor{}}
}

func (r *fakeInstructorRepo) Create(ctx context.Context, instructor *entity.Instructor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, i := range r.instructors {
		if i.Subdomain == instructor.Subdomain {
			return fmt.Errorf("duplicate subdomain %s", instructor.Subdomain)
		}
	}
	r.instructors[instructor.ID] = instructor
	return nil
}

func (r *fakeInstructorRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Instructor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.instructors[id], nil
}

func (r *fakeInstructorRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Instructor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, i := range r.instructors {
		if i.UserID == userID {
			return i, nil
		}
	}
	return nil, nil
}

func (r *fakeInstructorRepo) FindBySubdomain(ctx context.Context, subdomain string) (*entity.Instructor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, i := range r.instructors {
		if i.Subdomain == subdomain {
			return i, nil
		}
	}
	return nil, nil
}

func (r *fakeInstructorRepo) Update(ctx context.Context, instructor *entity.Instructor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instructors[instructor.ID] = instructor
	return nil
}

type fakeClassRepo struct {
	mu      sync.Mutex
	classes map[uuid.UUID]*entity.Class
}

func newFakeClassRepo() *fakeClassRepo {
	return &fakeClassRepo{classes: map[uuid.UUID]*entity.Class{}}
}

func (r *fakeClassRepo) Create(ctx context.Context, class *entity.Class) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classes[class.ID] = class
	return nil
}

func (r *fakeClassRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Class, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.classes[id], nil
}

func (r *fakeClassRepo) FindByInstructorID(ctx context.Context, instructorID uuid.UUID, limit, offset int) ([]*entity.Class, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Class
	for _, c := range r.classes {
		if c.InstructorID == instructorID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeClassRepo) CountByInstructorID(ctx context.Context, instructorID uuid.UUID) (int64, error) {
	classes, _ := r.FindByInstructorID(ctx, instructorID, 0, 0)
	return int64(len(classes)), nil
}

func (r *fakeClassRepo) Update(ctx context.Context, class *entity.Class) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classes[class.ID] = class
	return nil
}

func (r *fakeClassRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.classes[id]; ok {
		c.IsActive = false
	}
	return nil
}

func (r *fakeClassRepo) FindUpcomingByInstructorID(ctx context.Context, instructorID uuid.UUID) ([]*entity.Class, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	today := time.Now().Truncate(24 * time.Hour)
	var out []*entity.Class
	for _, c := range r.classes {
		if c.InstructorID == instructorID && c.IsActive && !c.StartDate.Before(today) {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*entity.Booking
	refSeq   int
	// owner resolves a class id to its instructor id, standing in for the
	// bookings-to-classes join.
	owner func(classID uuid.UUID) uuid.UUID
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[uuid.UUID]*entity.Booking{}}
}

func (r *fakeBookingRepo) NextReference(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refSeq++
	return fmt.Sprintf("REF%05d", r.refSeq), nil
}

func (r *fakeBookingRepo) CreateReserving(ctx context.Context, booking *entity.Booking, maxStudents int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Postgres evaluates the conditional insert's capacity clause before the
	// unique session index, so the fake checks in the same order.
	taken := 0
	for _, b := range r.bookings {
		if b.ClassID == booking.ClassID && b.BookingDate.Equal(booking.BookingDate) &&
			(b.Status == entity.BookingStatusPending || b.Status == entity.BookingStatusConfirmed) {
			taken++
		}
	}
	if taken >= maxStudents {
		return fmt.Errorf("class is full for %s", booking.BookingDate.Format("2006-01-02"))
	}

	if booking.PaymentSessionID != nil {
		for _, b := range r.bookings {
			if b.PaymentSessionID != nil && *b.PaymentSessionID == *booking.PaymentSessionID {
				return &pgconn.PgError{Code: "23505", ConstraintName: "idx_bookings_payment_session"}
			}
		}
	}

	r.bookings[booking.ID] = booking
	return nil
}

func (r *fakeBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bookings[id], nil
}

func (r *fakeBookingRepo) FindByPaymentSessionID(ctx context.Context, sessionID string) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.PaymentSessionID != nil && *b.PaymentSessionID == sessionID {
			return b, nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) FindByStudentID(ctx context.Context, studentID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Booking
	for _, b := range r.bookings {
		if b.StudentID == studentID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) CountByStudentID(ctx context.Context, studentID uuid.UUID) (int64, error) {
	bookings, _ := r.FindByStudentID(ctx, studentID, 0, 0)
	return int64(len(bookings)), nil
}

func (r *fakeBookingRepo) FindByInstructorID(ctx context.Context, instructorID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Booking
	for _, b := range r.bookings {
		if r.instructorOf(b) == instructorID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) CountByInstructorID(ctx context.Context, instructorID uuid.UUID) (int64, error) {
	bookings, _ := r.FindByInstructorID(ctx, instructorID, 0, 0)
	return int64(len(bookings)), nil
}

func (r *fakeBookingRepo) Cancel(ctx context.Context, id uuid.UUID, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || !b.CanCancel() {
		return fmt.Errorf("booking %s cannot be cancelled", id)
	}
	now := time.Now()
	b.Status = entity.BookingStatusCancelled
	b.CancellationReason = &reason
	b.CancelledAt = &now
	return nil
}

func (r *fakeBookingRepo) StatsByInstructorID(ctx context.Context, instructorID uuid.UUID) (*entity.StudioStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &entity.StudioStats{}
	for _, b := range r.bookings {
		if r.instructorOf(b) != instructorID {
			continue
		}
		stats.TotalBookings++
		if b.Status == entity.BookingStatusCancelled {
			stats.CancelledBookings++
		}
		if b.Status == entity.BookingStatusConfirmed && !b.BookingDate.Before(time.Now().Truncate(24*time.Hour)) {
			stats.UpcomingBookings++
		}
		if b.PaymentStatus == entity.PaymentStatusPaid && b.Status != entity.BookingStatusCancelled {
			stats.RevenueCentsPaid += b.PaymentAmountCents
		}
	}
	return stats, nil
}

func (r *fakeBookingRepo) instructorOf(b *entity.Booking) uuid.UUID {
	if r.owner == nil {
		return uuid.Nil
	}
	return r.owner(b.ClassID)
}

// fakeProvider simulates the hosted checkout provider in memory.
type fakeProvider struct {
	mu          sync.Mutex
	sessions    map[string]*payment.Session
	seq         int
	createCalls int
	lastParams  payment.CreateSessionParams
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{sessions: map[string]*payment.Session{}}
}

func (p *fakeProvider) EnsureCustomer(ctx context.Context, email, name string) (string, error) {
	return "cus_" + email, nil
}

func (p *fakeProvider) CreateCheckoutSession(ctx context.Context, params payment.CreateSessionParams) (*payment.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq++
	p.createCalls++
	p.lastParams = params
	// Padded so fake ids clear the session id length validation
	id := fmt.Sprintf("cs_test_%07d", p.seq)
	session := &payment.Session{
		ID:            id,
		URL:           "https://pay.example.test/" + id,
		PaymentStatus: payment.SessionUnpaid,
		AmountTotal:   params.AmountCents,
		Currency:      params.Currency,
		Metadata:      params.Metadata.ToMap(),
	}
	p.sessions[id] = session
	return session, nil
}

func (p *fakeProvider) GetCheckoutSession(ctx context.Context, sessionID string) (*payment.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	session, ok := p.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("no such session %s", sessionID)
	}
	copied := *session
	return &copied, nil
}

func (p *fakeProvider) markPaid(sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.sessions[sessionID]; ok {
		s.PaymentStatus = payment.SessionPaid
		s.PaymentIntentID = "pi_" + sessionID
	}
}

// fakeMailer records sends; services fire it from goroutines so it locks.
type fakeMailer struct {
	mu            sync.Mutex
	otps          int
	confirmations int
}

func (m *fakeMailer) SendOTP(to, code string, expiryMinutes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.otps++
}

func (m *fakeMailer) SendBookingConfirmation(to string, data mailer.BookingConfirmationData) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmations++
}

type testEnv struct {
	repo     *repository.Repository
	users    *fakeUserRepo
	classes  *fakeClassRepo
	bookings *fakeBookingRepo
	provider *fakeProvider
	mail     *fakeMailer
	config   *utils.Config
	service  *Service
}

func newTestEnv() *testEnv {
	users := newFakeUserRepo()
	classes := newFakeClassRepo()
	bookings := newFakeBookingRepo()
	instructors := newFakeInstructorRepo()

	bookings.owner = func(classID uuid.UUID) uuid.UUID {
		c, _ := classes.FindByID(context.Background(), classID)
		if c == nil {
			return uuid.Nil
		}
		return c.InstructorID
	}

	repo := &repository.Repository{
		User:       users,
		Session:    newFakeSessionRepo(),
		OTP:        newFakeOTPRepo(),
		Instructor: instructors,
		Class:      classes,
		Booking:    bookings,
	}

	config := &utils.Config{
		App: utils.AppConfig{
			PublicDomain: "yogastudio.test",
		},
		Session: utils.SessionConfig{ExpiryHours: 24},
		OTP:     utils.OTPConfig{ExpiryMinutes: 10, Length: 6},
		Stripe: utils.StripeConfig{
			Currency:   "usd",
			SuccessURL: "https://app.yogastudio.test/checkout/success",
			CancelURL:  "https://app.yogastudio.test/checkout/cancel",
		},
	}

	logger := zap.NewNop()
	provider := newFakeProvider()
	mail := &fakeMailer{}
	store := cache.New(utils.RedisConfig{}, logger)

	return &testEnv{
		repo:     repo,
		users:    users,
		classes:  classes,
		bookings: bookings,
		provider: provider,
		mail:     mail,
		config:   config,
		service:  NewService(repo, config, store, mail, provider, logger),
	}
}

func (e *testEnv) addStudent(name, email string) *entity.User {
	now := time.Now()
	user := &entity.User{
		Base:          entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		FullName:      name,
		Email:         email,
		PasswordHash:  "x",
		Role:          entity.RoleStudent,
		EmailVerified: true,
		IsActive:      true,
	}
	e.users.Create(context.Background(), user)
	return user
}

func (e *testEnv) addStudio(subdomain, displayName string) *entity.Instructor {
	now := time.Now()
	owner := &entity.User{
		Base:          entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		FullName:      displayName,
		Email:         subdomain + "@example.test",
		PasswordHash:  "x",
		Role:          entity.RoleInstructor,
		EmailVerified: true,
		IsActive:      true,
	}
	e.users.Create(context.Background(), owner)

	instructor := &entity.Instructor{
		Base:        entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		UserID:      owner.ID,
		Subdomain:   subdomain,
		DisplayName: displayName,
	}
	e.repo.Instructor.Create(context.Background(), instructor)
	return instructor
}

func (e *testEnv) addClass(instructor *entity.Instructor, title string, priceCents int64, maxStudents int) *entity.Class {
	now := time.Now()
	class := &entity.Class{
		Base:            entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		InstructorID:    instructor.ID,
		Title:           title,
		Category:        entity.CategoryVinyasa,
		Difficulty:      entity.DifficultyBeginner,
		DurationMinutes: 60,
		MaxStudents:     maxStudents,
		PriceCents:      priceCents,
		StartDate:       now.AddDate(0, 0, 7),
		StartTime:       "09:00",
		Timezone:        "UTC",
		IsActive:        true,
	}
	e.classes.Create(context.Background(), class)
	return class
}
