package usecase

import (
	"context"
	"strings"
	"testing"

	"yoga-studio/internal/dto/request"
)

func validClassPayload() request.ClassPayload {
	return request.ClassPayload{
		Title:           "Morning Vinyasa",
		Category:        "vinyasa",
		Difficulty:      "beginner",
		DurationMinutes: 60,
		MaxStudents:     10,
		PriceCents:      2500,
		StartDate:       futureDate(7),
		StartTime:       "09:00",
		Timezone:        "Europe/Berlin",
	}
}

func strPtr(s string) *string { return &s }

func TestCreateClass(t *testing.T) {
	env := newTestEnv()
	studio := env.addStudio("luna-flow", "Luna Flow Yoga")

	class, err := env.service.Class.CreateClass(context.Background(), studio.UserID.String(), &request.CreateClassRequest{
		ClassPayload: validClassPayload(),
	})
	if err != nil {
		t.Fatalf("CreateClass: %v", err)
	}
	if !class.IsActive {
		t.Error("new class not active")
	}
	if class.PriceCents != 2500 {
		t.Errorf("price = %d", class.PriceCents)
	}
	if class.InstructorID != studio.ID.String() {
		t.Errorf("instructor id = %s, want %s", class.InstructorID, studio.ID)
	}
}

func TestCreateClassCrossFieldRules(t *testing.T) {
	env := newTestEnv()
	studio := env.addStudio("luna-flow", "Luna Flow Yoga")

	tests := []struct {
		name    string
		mutate  func(*request.ClassPayload)
		wantErr string
	}{
		{
			"weekly recurrence without weekdays",
			func(p *request.ClassPayload) { p.Recurrence = strPtr("weekly") },
			"at least one weekday",
		},
		{
			"custom category without label",
			func(p *request.ClassPayload) { p.Category = "custom" },
			"requires a label",
		},
		{
			"unknown timezone",
			func(p *request.ClassPayload) { p.Timezone = "Mars/Olympus" },
			"invalid timezone",
		},
		{
			"recurrence end before start",
			func(p *request.ClassPayload) {
				p.Recurrence = strPtr("monthly")
				p.RecurrenceEndDate = strPtr(futureDate(2))
			},
			"must be after start",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validClassPayload()
			tt.mutate(&payload)
			_, err := env.service.Class.CreateClass(context.Background(), studio.UserID.String(), &request.CreateClassRequest{
				ClassPayload: payload,
			})
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestUpdateClassScopedToOwner(t *testing.T) {
	env := newTestEnv()
	mine := env.addStudio("luna-flow", "Luna Flow Yoga")
	theirs := env.addStudio("zen-den", "Zen Den")
	class := env.addClass(theirs, "Evening Yin", 1500, 10)

	_, err := env.service.Class.UpdateClass(context.Background(), mine.UserID.String(), class.ID.String(), &request.UpdateClassRequest{
		ClassPayload: validClassPayload(),
	})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("err = %v, want not found for foreign class", err)
	}
}

func TestDeactivateClassDropsItFromCatalog(t *testing.T) {
	env := newTestEnv()
	studio := env.addStudio("luna-flow", "Luna Flow Yoga")
	class := env.addClass(studio, "Morning Vinyasa", 2500, 10)

	if err := env.service.Class.DeactivateClass(context.Background(), studio.UserID.String(), class.ID.String()); err != nil {
		t.Fatalf("DeactivateClass: %v", err)
	}

	catalog, err := env.service.Catalog.GetStudioCatalog(context.Background(), "luna-flow")
	if err != nil {
		t.Fatalf("GetStudioCatalog: %v", err)
	}
	if len(catalog.Classes) != 0 {
		t.Errorf("deactivated class still in catalog: %+v", catalog.Classes)
	}
}
