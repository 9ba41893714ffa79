package entity

// Tenant status values, mirrored from the back-office.
const (
	TenantStatusActive   = "active"
	TenantStatusInactive = "inactive"
	TenantStatusPending  = "pending"
)

// FormField describes one field of a tenant's landing-page form.
// The schema is owned by the back-office; the pipeline only reads it
// to decide which fields are required and which ones get validated.
type FormField struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Required bool   `json:"required"`
	Enabled  bool   `json:"enabled"`
}

// Tenant is a customer of the platform: one landing page, one lead table,
// its own notification targets.
type Tenant struct {
	ID     string `json:"id"`
	Slug   string `json:"slug"`
	Name   string `json:"name"`
	Status string `json:"status"`

	// LeadTableID is the Airtable table holding this tenant's leads.
	// Empty means the tenant was never fully provisioned.
	LeadTableID string `json:"lead_table_id"`

	TelegramChatID string `json:"telegram_chat_id,omitempty"`
	SlackChannel   string `json:"slack_channel,omitempty"`
	SMSEnabled     bool   `json:"sms_enabled"`
	SMSRecipient   string `json:"sms_recipient,omitempty"`
	EmailEnabled   bool   `json:"email_enabled"`
	NotifyEmail    string `json:"notify_email,omitempty"`

	FormFields []FormField `json:"form_fields,omitempty"`
}

func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}
