package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"yoga-studio/internal/data/entity"
	"yoga-studio/internal/dto/request"
	"yoga-studio/pkg/payment"
)

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

func TestInitiateCheckoutBuildsSessionFromClassPrice(t *testing.T) {
	env := newTestEnv()
	studio := env.addStudio("luna-flow", "Luna Flow Yoga")
	class := env.addClass(studio, "Morning Vinyasa", 2500, 10)
	student := env.addStudent("Maya Patel", "maya@example.test")

	resp, err := env.service.Booking.InitiateCheckout(context.Background(), student.ID.String(), &request.InitiateCheckoutRequest{
		ClassID:     class.ID.String(),
		BookingDate: futureDate(7),
		BookingTime: "09:00",
	})
	if err != nil {
		t.Fatalf("InitiateCheckout: %v", err)
	}
	if resp.SessionID == "" || resp.URL == "" {
		t.Fatalf("expected session id and url, got %+v", resp)
	}

	params := env.provider.lastParams
	if params.AmountCents != 2500 {
		t.Errorf("amount = %d, want 2500", params.AmountCents)
	}
	if params.ProductName != "Morning Vinyasa with Luna Flow Yoga" {
		t.Errorf("product name = %q", params.ProductName)
	}
	if params.Metadata.ClassID != class.ID.String() || params.Metadata.StudentID != student.ID.String() {
		t.Errorf("metadata ids wrong: %+v", params.Metadata)
	}
	if !strings.Contains(params.SuccessURL, "{CHECKOUT_SESSION_ID}") {
		t.Errorf("success url missing session placeholder: %s", params.SuccessURL)
	}
	if !strings.Contains(params.CancelURL, "luna-flow.yogastudio.test") {
		t.Errorf("cancel url missing studio return: %s", params.CancelURL)
	}

	// Nothing is reserved until payment is verified
	if n, _ := env.bookings.CountByStudentID(context.Background(), student.ID); n != 0 {
		t.Errorf("bookings before payment = %d, want 0", n)
	}
}

func TestInitiateCheckoutRejectsFreeAndMissingClasses(t *testing.T) {
	env := newTestEnv()
	studio := env.addStudio("luna-flow", "Luna Flow Yoga")
	free := env.addClass(studio, "Community Flow", 0, 10)
	inactive := env.addClass(studio, "Retired", 2000, 10)
	inactive.IsActive = false
	student := env.addStudent("Maya Patel", "maya@example.test")

	tests := []struct {
		name    string
		classID string
		wantErr string
	}{
		{"free class", free.ID.String(), "book it directly"},
		{"inactive class", inactive.ID.String(), "not found"},
		{"unknown class", "0b36e161-9f6a-4c39-9a3f-24e526fc03d4", "not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.service.Booking.InitiateCheckout(context.Background(), student.ID.String(), &request.InitiateCheckoutRequest{
				ClassID:     tt.classID,
				BookingDate: futureDate(7),
				BookingTime: "09:00",
			})
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestInitiateCheckoutRequiresVerifiedEmail(t *testing.T) {
	env := newTestEnv()
	studio := env.addStudio("luna-flow", "Luna Flow Yoga")
	class := env.addClass(studio, "Morning Vinyasa", 2500, 10)
	student := env.addStudent("Maya Patel", "maya@example.test")
	student.EmailVerified = false

	_, err := env.service.Booking.InitiateCheckout(context.Background(), student.ID.String(), &request.InitiateCheckoutRequest{
		ClassID:     class.ID.String(),
		BookingDate: futureDate(7),
		BookingTime: "09:00",
	})
	if err == nil || !strings.Contains(err.Error(), "unverified email") {
		t.Fatalf("err = %v, want unverified email rejection", err)
	}
	if env.provider.createCalls != 0 {
		t.Errorf("provider called %d times for unverified student", env.provider.createCalls)
	}
}

func TestVerifyCheckoutUnpaidSessionCreatesNothing(t *testing.T) {
	env := newTestEnv()
	studio := env.addStudio("luna-flow", "Luna Flow Yoga")
	class := env.addClass(studio, "Morning Vinyasa", 2500, 10)
	student := env.addStudent("Maya Patel", "maya@example.test")

	checkout, err := env.service.Booking.InitiateCheckout(context.Background(), student.ID.String(), &request.InitiateCheckoutRequest{
		ClassID:     class.ID.String(),
		BookingDate: futureDate(7),
		BookingTime: "09:00",
	})
	if err != nil {
		t.Fatalf("InitiateCheckout: %v", err)
	}

	result, err := env.service.Booking.VerifyCheckout(context.Background(), student.ID.String(), &request.VerifyCheckoutRequest{
		SessionID: checkout.SessionID,
	})
	if err != nil {
		t.Fatalf("VerifyCheckout: %v", err)
	}
	if result.Success {
		t.Fatal("unpaid session verified as success")
	}
	if result.Message != "payment not completed" {
		t.Errorf("message = %q", result.Message)
	}
	if n, _ := env.bookings.CountByStudentID(context.Background(), student.ID); n != 0 {
		t.Errorf("bookings after unpaid verify = %d, want 0", n)
	}
}

func TestVerifyCheckoutCommitsPaidBooking(t *testing.T) {
	env := newTestEnv()
	studio := env.addStudio("luna-flow", "Luna Flow Yoga")
	class := env.addClass(studio, "Morning Vinyasa", 2500, 10)
	student := env.addStudent("Maya Patel", "maya@example.test")

	checkout, err := env.service.Booking.InitiateCheckout(context.Background(), student.ID.String(), &request.InitiateCheckoutRequest{
		ClassID:     class.ID.String(),
		BookingDate: futureDate(7),
		BookingTime: "09:00",
	})
	if err != nil {
		t.Fatalf("InitiateCheckout: %v", err)
	}
	env.provider.markPaid(checkout.SessionID)

	result, err := env.service.Booking.VerifyCheckout(context.Background(), student.ID.String(), &request.VerifyCheckoutRequest{
		SessionID: checkout.SessionID,
	})
	if err != nil {
		t.Fatalf("VerifyCheckout: %v", err)
	}
	if !result.Success || result.Booking == nil {
		t.Fatalf("expected committed booking, got %+v", result)
	}

	booking := result.Booking
	if booking.Status != string(entity.BookingStatusConfirmed) {
		t.Errorf("status = %s", booking.Status)
	}
	if booking.PaymentStatus != string(entity.PaymentStatusPaid) {
		t.Errorf("payment status = %s", booking.PaymentStatus)
	}
	if booking.PaymentAmountCents != 2500 {
		t.Errorf("amount = %d, want 2500", booking.PaymentAmountCents)
	}
	if len(booking.BookingReference) == 0 {
		t.Error("empty booking reference")
	}
	if booking.ClassTitle != "Morning Vinyasa" || booking.StudioName != "Luna Flow Yoga" {
		t.Errorf("enrichment missing: %+v", booking)
	}
}

func TestVerifyCheckoutIsIdempotent(t *testing.T) {
	env := newTestEnv()
	studio := env.addStudio("luna-flow", "Luna Flow Yoga")
	class := env.addClass(studio, "Morning Vinyasa", 2500, 10)
	student := env.addStudent("Maya Patel", "maya@example.test")

	checkout, _ := env.service.Booking.InitiateCheckout(context.Background(), student.ID.String(), &request.InitiateCheckoutRequest{
		ClassID:     class.ID.String(),
		BookingDate: futureDate(7),
		BookingTime: "09:00",
	})
	env.provider.markPaid(checkout.SessionID)

	req := &request.VerifyCheckoutRequest{SessionID: checkout.SessionID}
	first, err := env.service.Booking.VerifyCheckout(context.Background(), student.ID.String(), req)
	if err != nil {
		t.Fatalf("first verify: %v", err)
	}
	second, err := env.service.Booking.VerifyCheckout(context.Background(), student.ID.String(), req)
	if err != nil {
		t.Fatalf("second verify: %v", err)
	}

	if !second.Success || second.Booking == nil {
		t.Fatalf("repeat verify failed: %+v", second)
	}
	if first.Booking.ID != second.Booking.ID || first.Booking.BookingReference != second.Booking.BookingReference {
		t.Errorf("repeat verify returned a different booking: %s vs %s",
			first.Booking.BookingReference, second.Booking.BookingReference)
	}
	if n, _ := env.bookings.CountByStudentID(context.Background(), student.ID); n != 1 {
		t.Errorf("bookings after double verify = %d, want 1", n)
	}
}

func TestVerifyCheckoutRejectsOtherStudents(t *testing.T) {
	env := newTestEnv()
	studio := env.addStudio("luna-flow", "Luna Flow Yoga")
	class := env.addClass(studio, "Morning Vinyasa", 2500, 10)
	owner := env.addStudent("Maya Patel", "maya@example.test")
	intruder := env.addStudent("Sam Lee", "sam@example.test")

	checkout, _ := env.service.Booking.InitiateCheckout(context.Background(), owner.ID.String(), &request.InitiateCheckoutRequest{
		ClassID:     class.ID.String(),
		BookingDate: futureDate(7),
		BookingTime: "09:00",
	})
	env.provider.markPaid(checkout.SessionID)

	_, err := env.service.Booking.VerifyCheckout(context.Background(), intruder.ID.String(), &request.VerifyCheckoutRequest{
		SessionID: checkout.SessionID,
	})
	if err == nil || !strings.Contains(err.Error(), "unauthorized") {
		t.Fatalf("err = %v, want unauthorized", err)
	}
}

func TestVerifyCheckoutFreezesSessionAmount(t *testing.T) {
	env := newTestEnv()
	studio := env.addStudio("luna-flow", "Luna Flow Yoga")
	class := env.addClass(studio, "Morning Vinyasa", 2500, 10)
	student := env.addStudent("Maya Patel", "maya@example.test")

	checkout, _ := env.service.Booking.InitiateCheckout(context.Background(), student.ID.String(), &request.InitiateCheckoutRequest{
		ClassID:     class.ID.String(),
		BookingDate: futureDate(7),
		BookingTime: "09:00",
	})
	env.provider.markPaid(checkout.SessionID)

	// Instructor reprices between checkout and verification
	class.PriceCents = 3000

	result, err := env.service.Booking.VerifyCheckout(context.Background(), student.ID.String(), &request.VerifyCheckoutRequest{
		SessionID: checkout.SessionID,
	})
	if err != nil {
		t.Fatalf("VerifyCheckout: %v", err)
	}
	if result.Booking.PaymentAmountCents != 2500 {
		t.Errorf("amount = %d, want the 2500 actually charged", result.Booking.PaymentAmountCents)
	}
}

func TestVerifyCheckoutSurfacesRecordingFailure(t *testing.T) {
	env := newTestEnv()
	studio := env.addStudio("luna-flow", "Luna Flow Yoga")
	class := env.addClass(studio, "Tiny Workshop", 2500, 1)
	payer := env.addStudent("Maya Patel", "maya@example.test")
	other := env.addStudent("Sam Lee", "sam@example.test")

	date := futureDate(7)

	checkout, _ := env.service.Booking.InitiateCheckout(context.Background(), payer.ID.String(), &request.InitiateCheckoutRequest{
		ClassID:     class.ID.String(),
		BookingDate: date,
		BookingTime: "09:00",
	})
	env.provider.markPaid(checkout.SessionID)

	// The last seat goes to someone else while the payer sits on the
	// payment page
	class.PriceCents = 0
	if _, err := env.service.Booking.CreateBooking(context.Background(), other.ID.String(), &request.CreateBookingRequest{
		ClassID:     class.ID.String(),
		BookingDate: date,
		BookingTime: "09:00",
	}); err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	class.PriceCents = 2500

	_, err := env.service.Booking.VerifyCheckout(context.Background(), payer.ID.String(), &request.VerifyCheckoutRequest{
		SessionID: checkout.SessionID,
	})
	if err == nil || !strings.Contains(err.Error(), "could not be recorded") {
		t.Fatalf("err = %v, want recording failure", err)
	}
}

func TestCommitRecoversWhenRacingDuplicateFillsClass(t *testing.T) {
	env := newTestEnv()
	studio := env.addStudio("luna-flow", "Luna Flow Yoga")
	class := env.addClass(studio, "Tiny Workshop", 2500, 1)
	student := env.addStudent("Maya Patel", "maya@example.test")

	checkout, _ := env.service.Booking.InitiateCheckout(context.Background(), student.ID.String(), &request.InitiateCheckoutRequest{
		ClassID:     class.ID.String(),
		BookingDate: futureDate(7),
		BookingTime: "09:00",
	})
	env.provider.markPaid(checkout.SessionID)

	first, err := env.service.Booking.VerifyCheckout(context.Background(), student.ID.String(), &request.VerifyCheckoutRequest{
		SessionID: checkout.SessionID,
	})
	if err != nil {
		t.Fatalf("winning verify: %v", err)
	}

	// A concurrent verification of the same session passed the existing-row
	// check before the winner's insert landed; its commit now finds the
	// winner's row occupying the last seat. It must return that booking, not
	// a recording failure.
	sess, err := env.provider.GetCheckoutSession(context.Background(), checkout.SessionID)
	if err != nil {
		t.Fatalf("GetCheckoutSession: %v", err)
	}
	meta, err := payment.MetadataFromMap(sess.Metadata)
	if err != nil {
		t.Fatalf("MetadataFromMap: %v", err)
	}

	svc := env.service.Booking.(*bookingService)
	got, err := svc.commitPaidBooking(context.Background(), student.ID.String(), sess, meta)
	if err != nil {
		t.Fatalf("losing commit: %v", err)
	}
	if got.BookingReference != first.Booking.BookingReference {
		t.Errorf("losing commit returned %s, want winner's %s",
			got.BookingReference, first.Booking.BookingReference)
	}
	if n, _ := env.bookings.CountByStudentID(context.Background(), student.ID); n != 1 {
		t.Errorf("bookings after racing commits = %d, want 1", n)
	}
}

func TestCreateBookingFreeClassSkipsProvider(t *testing.T) {
	env := newTestEnv()
	studio := env.addStudio("luna-flow", "Luna Flow Yoga")
	class := env.addClass(studio, "Community Flow", 0, 10)
	student := env.addStudent("Maya Patel", "maya@example.test")

	booking, err := env.service.Booking.CreateBooking(context.Background(), student.ID.String(), &request.CreateBookingRequest{
		ClassID:     class.ID.String(),
		BookingDate: futureDate(3),
		BookingTime: "18:00",
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	if booking.Status != string(entity.BookingStatusConfirmed) {
		t.Errorf("status = %s", booking.Status)
	}
	if booking.PaymentStatus != string(entity.PaymentStatusNotRequired) {
		t.Errorf("payment status = %s", booking.PaymentStatus)
	}
	if booking.PaymentAmountCents != 0 {
		t.Errorf("amount = %d", booking.PaymentAmountCents)
	}
	if booking.BookingReference == "" {
		t.Error("empty booking reference")
	}
	if env.provider.createCalls != 0 {
		t.Errorf("provider called %d times for a free class", env.provider.createCalls)
	}
}

func TestCreateBookingRejectsPaidClass(t *testing.T) {
	env := newTestEnv()
	studio := env.addStudio("luna-flow", "Luna Flow Yoga")
	class := env.addClass(studio, "Morning Vinyasa", 2500, 10)
	student := env.addStudent("Maya Patel", "maya@example.test")

	_, err := env.service.Booking.CreateBooking(context.Background(), student.ID.String(), &request.CreateBookingRequest{
		ClassID:     class.ID.String(),
		BookingDate: futureDate(3),
		BookingTime: "18:00",
	})
	if err == nil || !strings.Contains(err.Error(), "cannot") {
		t.Fatalf("err = %v, want rejection of direct paid booking", err)
	}
}

func TestCreateBookingEnforcesCapacityPerDate(t *testing.T) {
	env := newTestEnv()
	studio := env.addStudio("luna-flow", "Luna Flow Yoga")
	class := env.addClass(studio, "Small Group", 0, 2)

	date := futureDate(5)
	for i, email := range []string{"a@example.test", "b@example.test"} {
		student := env.addStudent("Student", email)
		if _, err := env.service.Booking.CreateBooking(context.Background(), student.ID.String(), &request.CreateBookingRequest{
			ClassID:     class.ID.String(),
			BookingDate: date,
			BookingTime: "09:00",
		}); err != nil {
			t.Fatalf("booking %d: %v", i, err)
		}
	}

	third := env.addStudent("Student", "c@example.test")
	_, err := env.service.Booking.CreateBooking(context.Background(), third.ID.String(), &request.CreateBookingRequest{
		ClassID:     class.ID.String(),
		BookingDate: date,
		BookingTime: "09:00",
	})
	if err == nil || !strings.Contains(err.Error(), "full") {
		t.Fatalf("err = %v, want full", err)
	}

	// A different date is a separate occurrence with fresh capacity
	if _, err := env.service.Booking.CreateBooking(context.Background(), third.ID.String(), &request.CreateBookingRequest{
		ClassID:     class.ID.String(),
		BookingDate: futureDate(12),
		BookingTime: "09:00",
	}); err != nil {
		t.Fatalf("other date: %v", err)
	}
}

func TestCancelBooking(t *testing.T) {
	env := newTestEnv()
	studio := env.addStudio("luna-flow", "Luna Flow Yoga")
	class := env.addClass(studio, "Community Flow", 0, 10)
	student := env.addStudent("Maya Patel", "maya@example.test")
	other := env.addStudent("Sam Lee", "sam@example.test")

	booking, err := env.service.Booking.CreateBooking(context.Background(), student.ID.String(), &request.CreateBookingRequest{
		ClassID:     class.ID.String(),
		BookingDate: futureDate(3),
		BookingTime: "18:00",
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	cancelReq := &request.CancelBookingRequest{Reason: "schedule conflict"}

	if err := env.service.Booking.CancelBooking(context.Background(), other.ID.String(), booking.ID, cancelReq); err == nil ||
		!strings.Contains(err.Error(), "unauthorized") {
		t.Fatalf("foreign cancel err = %v, want unauthorized", err)
	}

	if err := env.service.Booking.CancelBooking(context.Background(), student.ID.String(), booking.ID, cancelReq); err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}

	// Cancelling again is an invalid state transition
	if err := env.service.Booking.CancelBooking(context.Background(), student.ID.String(), booking.ID, cancelReq); err == nil ||
		!strings.Contains(err.Error(), "cannot") {
		t.Fatalf("repeat cancel err = %v, want cannot", err)
	}
}

func TestGetStudioBookingsScopedToOwnClasses(t *testing.T) {
	env := newTestEnv()
	mine := env.addStudio("luna-flow", "Luna Flow Yoga")
	theirs := env.addStudio("zen-den", "Zen Den")
	myClass := env.addClass(mine, "Community Flow", 0, 10)
	theirClass := env.addClass(theirs, "Evening Yin", 0, 10)
	student := env.addStudent("Maya Patel", "maya@example.test")

	for _, c := range []string{myClass.ID.String(), theirClass.ID.String()} {
		if _, err := env.service.Booking.CreateBooking(context.Background(), student.ID.String(), &request.CreateBookingRequest{
			ClassID:     c,
			BookingDate: futureDate(3),
			BookingTime: "18:00",
		}); err != nil {
			t.Fatalf("seed booking: %v", err)
		}
	}

	page := &request.PaginatedRequest{Page: 1, PerPage: 10}
	result, err := env.service.Booking.GetStudioBookings(context.Background(), mine.UserID.String(), page)
	if err != nil {
		t.Fatalf("GetStudioBookings: %v", err)
	}
	if len(result.Data) != 1 {
		t.Fatalf("bookings = %d, want only own studio's 1", len(result.Data))
	}
	if result.Data[0].ClassTitle != "Community Flow" {
		t.Errorf("wrong booking surfaced: %+v", result.Data[0])
	}
}
