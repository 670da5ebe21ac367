package request

type ClassPayload struct {
	Title           string  `json:"title" validate:"required,min=2,max=150"`
	Description     *string `json:"description,omitempty" validate:"omitempty,max=5000"`
	Category        string  `json:"category" validate:"required,oneof=hatha vinyasa yin meditation pranayama custom"`
	CustomCategory  *string `json:"custom_category,omitempty" validate:"omitempty,min=2,max=50"`
	Difficulty      string  `json:"difficulty" validate:"required,oneof=beginner intermediate advanced"`
	DurationMinutes int     `json:"duration_minutes" validate:"required,min=15,max=180"`
	MaxStudents     int     `json:"max_students" validate:"required,min=1,max=50"`
	PriceCents      int64   `json:"price_cents" validate:"min=0"`
	StartDate       string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	StartTime       string  `json:"start_time" validate:"required,datetime=15:04"`
	Timezone        string  `json:"timezone" validate:"required"`

	Recurrence        *string `json:"recurrence,omitempty" validate:"omitempty,oneof=weekly monthly"`
	RecurrenceDays    []int32 `json:"recurrence_days,omitempty" validate:"omitempty,dive,min=0,max=6"`
	RecurrenceEndDate *string `json:"recurrence_end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`

	MeetingLink     *string `json:"meeting_link,omitempty" validate:"omitempty,url"`
	MeetingID       *string `json:"meeting_id,omitempty" validate:"omitempty,max=100"`
	MeetingPassword *string `json:"meeting_password,omitempty" validate:"omitempty,max=100"`
}

type CreateClassRequest struct {
	ClassPayload
}

type UpdateClassRequest struct {
	ClassPayload
	IsActive *bool `json:"is_active,omitempty"`
}
