package response

import (
	"yoga-studio/internal/data/entity"
)

type StudioResponse struct {
	ID           string  `json:"id"`
	Subdomain    string  `json:"subdomain"`
	DisplayName  string  `json:"display_name"`
	Bio          *string `json:"bio,omitempty"`
	BrandColor   *string `json:"brand_color,omitempty"`
	AvatarURL    *string `json:"avatar_url,omitempty"`
	ContactEmail *string `json:"contact_email,omitempty"`
	WhatsApp     *string `json:"whatsapp,omitempty"`
	Instagram    *string `json:"instagram,omitempty"`
	Website      *string `json:"website,omitempty"`
}

type StudioStatsResponse struct {
	ActiveClasses     int64 `json:"active_classes"`
	TotalBookings     int64 `json:"total_bookings"`
	UpcomingBookings  int64 `json:"upcoming_bookings"`
	RevenueCentsPaid  int64 `json:"revenue_cents_paid"`
	CancelledBookings int64 `json:"cancelled_bookings"`
}

func StudioToResponse(instructor *entity.Instructor) StudioResponse {
	return StudioResponse{
		ID:           instructor.ID.String(),
		Subdomain:    instructor.Subdomain,
		DisplayName:  instructor.DisplayName,
		Bio:          instructor.Bio,
		BrandColor:   instructor.BrandColor,
		AvatarURL:    instructor.AvatarURL,
		ContactEmail: instructor.ContactEmail,
		WhatsApp:     instructor.WhatsApp,
		Instagram:    instructor.Instagram,
		Website:      instructor.Website,
	}
}

func StatsToResponse(stats *entity.StudioStats) StudioStatsResponse {
	return StudioStatsResponse{
		ActiveClasses:     stats.ActiveClasses,
		TotalBookings:     stats.TotalBookings,
		UpcomingBookings:  stats.UpcomingBookings,
		RevenueCentsPaid:  stats.RevenueCentsPaid,
		CancelledBookings: stats.CancelledBookings,
	}
}
