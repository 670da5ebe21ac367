package entity

import (
	"time"

	"github.com/google/uuid"
)

type ClassCategory string

const (
	CategoryHatha      ClassCategory = "hatha"
	CategoryVinyasa    ClassCategory = "vinyasa"
	CategoryYin        ClassCategory = "yin"
	CategoryMeditation ClassCategory = "meditation"
	CategoryPranayama  ClassCategory = "pranayama"
	CategoryCustom     ClassCategory = "custom"
)

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

type RecurrencePattern string

const (
	RecurrenceWeekly  RecurrencePattern = "weekly"
	RecurrenceMonthly RecurrencePattern = "monthly"
)

// Class is a schedulable session or the head of a recurring series.
// Soft-deleted by flipping IsActive so booking history keeps its join target.
type Class struct {
	Base
	InstructorID      uuid.UUID          `db:"instructor_id"`
	Title             string             `db:"title"`
	Description       *string            `db:"description"`
	Category          ClassCategory      `db:"category"`
	CustomCategory    *string            `db:"custom_category"`
	Difficulty        Difficulty         `db:"difficulty"`
	DurationMinutes   int                `db:"duration_minutes"`
	MaxStudents       int                `db:"max_students"`
	PriceCents        int64              `db:"price_cents"`
	StartDate         time.Time          `db:"start_date"`
	StartTime         string             `db:"start_time"`
	Timezone          string             `db:"timezone"`
	Recurrence        *RecurrencePattern `db:"recurrence"`
	RecurrenceDays    []int32            `db:"recurrence_days"`
	RecurrenceEndDate *time.Time         `db:"recurrence_end_date"`
	MeetingLink       *string            `db:"meeting_link"`
	MeetingID         *string            `db:"meeting_id"`
	MeetingPassword   *string            `db:"meeting_password"`
	IsActive          bool               `db:"is_active"`
}

func (c *Class) IsFree() bool {
	return c.PriceCents == 0
}
