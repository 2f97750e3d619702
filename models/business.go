package models

type BusinessSettings struct {
	ID             int        `json:"id"`
	BusinessName   string     `json:"business_name"`
	ContactEmail   *string    `json:"contact_email"`
	ContactPhone   *string    `json:"contact_phone"`
	WhatsappNumber *string    `json:"whatsapp_number"`
	Address        *string    `json:"address"`
	BankDetails    *string    `json:"bank_details"`
	UpdatedAt      *Timestamp `json:"updated_at"`
}

type BusinessSettingsUpdate struct {
	BusinessName   *string `json:"business_name,omitempty"`
	ContactEmail   *string `json:"contact_email,omitempty" binding:"omitempty,email"`
	ContactPhone   *string `json:"contact_phone,omitempty"`
	WhatsappNumber *string `json:"whatsapp_number,omitempty"`
	Address        *string `json:"address,omitempty"`
	BankDetails    *string `json:"bank_details,omitempty"`
}

// BusinessDetail is a free-form section of business information.
type BusinessDetail struct {
	ID        int        `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	UpdatedAt *Timestamp `json:"updated_at,omitempty"`
}

type BusinessDetailInput struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}
