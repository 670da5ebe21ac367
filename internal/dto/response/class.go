package response

import (
	"yoga-studio/internal/data/entity"
)

type ClassResponse struct {
	ID              string  `json:"id"`
	InstructorID    string  `json:"instructor_id"`
	Title           string  `json:"title"`
	Description     *string `json:"description,omitempty"`
	Category        string  `json:"category"`
	CustomCategory  *string `json:"custom_category,omitempty"`
	Difficulty      string  `json:"difficulty"`
	DurationMinutes int     `json:"duration_minutes"`
	MaxStudents     int     `json:"max_students"`
	PriceCents      int64   `json:"price_cents"`
	StartDate       string  `json:"start_date"`
	StartTime       string  `json:"start_time"`
	Timezone        string  `json:"timezone"`

	Recurrence        *string `json:"recurrence,omitempty"`
	RecurrenceDays    []int32 `json:"recurrence_days,omitempty"`
	RecurrenceEndDate *string `json:"recurrence_end_date,omitempty"`

	MeetingLink *string `json:"meeting_link,omitempty"`
	IsActive    bool    `json:"is_active"`
}

func ClassToResponse(class *entity.Class) ClassResponse {
	resp := ClassResponse{
		ID:              class.ID.String(),
		InstructorID:    class.InstructorID.String(),
		Title:           class.Title,
		Description:     class.Description,
		Category:        string(class.Category),
		CustomCategory:  class.CustomCategory,
		Difficulty:      string(class.Difficulty),
		DurationMinutes: class.DurationMinutes,
		MaxStudents:     class.MaxStudents,
		PriceCents:      class.PriceCents,
		StartDate:       class.StartDate.Format("2006-01-02"),
		StartTime:       class.StartTime,
		Timezone:        class.Timezone,
		RecurrenceDays:  class.RecurrenceDays,
		MeetingLink:     class.MeetingLink,
		IsActive:        class.IsActive,
	}

	if class.Recurrence != nil {
		pattern := string(*class.Recurrence)
		resp.Recurrence = &pattern
	}
	if class.RecurrenceEndDate != nil {
		end := class.RecurrenceEndDate.Format("2006-01-02")
		resp.RecurrenceEndDate = &end
	}

	return resp
}
