package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"yoga-studio/internal/data/entity"
	"yoga-studio/internal/dto/request"

	"github.com/google/uuid"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv()

	auth, err := env.service.Auth.Register(context.Background(), &request.RegisterRequest{
		FullName: "Maya Patel",
		Email:    "maya@example.test",
		Password: "correct-horse-battery",
		Role:     "student",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if auth.Token == "" {
		t.Error("no session token after register")
	}
	if auth.User.EmailVerified {
		t.Error("email verified before OTP")
	}

	login, err := env.service.Auth.Login(context.Background(), &request.LoginRequest{
		Email:    "maya@example.test",
		Password: "correct-horse-battery",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.Token == "" {
		t.Error("no session token after login")
	}

	_, err = env.service.Auth.Login(context.Background(), &request.LoginRequest{
		Email:    "maya@example.test",
		Password: "wrong",
	})
	if err == nil || !strings.Contains(err.Error(), "invalid email or password") {
		t.Fatalf("bad password err = %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv()
	env.addStudent("Maya Patel", "maya@example.test")

	_, err := env.service.Auth.Register(context.Background(), &request.RegisterRequest{
		FullName: "Maya Again",
		Email:    "maya@example.test",
		Password: "correct-horse-battery",
		Role:     "student",
	})
	if err == nil || !strings.Contains(err.Error(), "already registered") {
		t.Fatalf("err = %v, want already registered", err)
	}
}

func TestVerifyEmail(t *testing.T) {
	env := newTestEnv()
	user := env.addStudent("Maya Patel", "maya@example.test")
	user.EmailVerified = false

	now := time.Now()
	env.repo.OTP.Create(context.Background(), &entity.OTP{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
		Email:      "maya@example.test",
		Code:       "482913",
		Type:       entity.OTPTypeEmailVerification,
		ExpiresAt:  now.Add(10 * time.Minute),
	})

	if err := env.service.Auth.VerifyEmail(context.Background(), &request.VerifyEmailRequest{
		Email: "maya@example.test",
		Code:  "000000",
	}); err == nil || !strings.Contains(err.Error(), "invalid or expired") {
		t.Fatalf("wrong code err = %v", err)
	}

	if err := env.service.Auth.VerifyEmail(context.Background(), &request.VerifyEmailRequest{
		Email: "maya@example.test",
		Code:  "482913",
	}); err != nil {
		t.Fatalf("VerifyEmail: %v", err)
	}

	if !user.EmailVerified {
		t.Error("email not marked verified")
	}

	// Codes are single use
	if err := env.service.Auth.VerifyEmail(context.Background(), &request.VerifyEmailRequest{
		Email: "maya@example.test",
		Code:  "482913",
	}); err == nil {
		t.Error("reused code accepted")
	}
}
