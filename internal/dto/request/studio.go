package request

type CreateStudioRequest struct {
	DisplayName string  `json:"display_name" validate:"required,min=2,max=100"`
	// Subdomain is optional; when empty it is derived from the display name.
	Subdomain    string  `json:"subdomain,omitempty" validate:"omitempty,min=3,max=63"`
	Bio          *string `json:"bio,omitempty" validate:"omitempty,max=2000"`
	BrandColor   *string `json:"brand_color,omitempty" validate:"omitempty,hexcolor"`
	AvatarURL    *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
	ContactEmail *string `json:"contact_email,omitempty" validate:"omitempty,email"`
	WhatsApp     *string `json:"whatsapp,omitempty" validate:"omitempty,min=6,max=20"`
	Instagram    *string `json:"instagram,omitempty" validate:"omitempty,max=100"`
	Website      *string `json:"website,omitempty" validate:"omitempty,url"`
}

type UpdateStudioRequest struct {
	DisplayName  string  `json:"display_name" validate:"required,min=2,max=100"`
	Bio          *string `json:"bio,omitempty" validate:"omitempty,max=2000"`
	BrandColor   *string `json:"brand_color,omitempty" validate:"omitempty,hexcolor"`
	AvatarURL    *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
	ContactEmail *string `json:"contact_email,omitempty" validate:"omitempty,email"`
	WhatsApp     *string `json:"whatsapp,omitempty" validate:"omitempty,min=6,max=20"`
	Instagram    *string `json:"instagram,omitempty" validate:"omitempty,max=100"`
	Website      *string `json:"website,omitempty" validate:"omitempty,url"`
}
