package entity

import (
	"github.com/google/uuid"
)

// Instructor is the tenant row: one studio per owning user, routed publicly
// by its unique subdomain. The subdomain is immutable after creation.
type Instructor struct {
	Base
	UserID       uuid.UUID `db:"user_id"`
	Subdomain    string    `db:"subdomain"`
	DisplayName  string    `db:"display_name"`
	Bio          *string   `db:"bio"`
	BrandColor   *string   `db:"brand_color"`
	AvatarURL    *string   `db:"avatar_url"`
	ContactEmail *string   `db:"contact_email"`
	WhatsApp     *string   `db:"whatsapp"`
	Instagram    *string   `db:"instagram"`
	Website      *string   `db:"website"`
}
