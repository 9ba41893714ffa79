package usecase

// SubmitLeadInput is one landing-page submission plus request metadata.
// Custom carries the tenant-specific extra form fields as-is.
type SubmitLeadInput struct {
	TenantID     string `json:"tenantId"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email,omitempty"`
	BusinessName string `json:"businessName,omitempty"`
	Address      string `json:"address,omitempty"`
	Birthdate    string `json:"birthdate,omitempty"`
	Memo         string `json:"memo,omitempty"`
	KakaoID      string `json:"kakaoId,omitempty"`

	Custom map[string]string `json:"-"`

	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// SubmitLeadOutput is what the submitter sees. A silently dropped
// submission produces the exact same output as an accepted one.
type SubmitLeadOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// KakaoLoginInput is the identity payload from the OAuth callback.
type KakaoLoginInput struct {
	TenantID  string
	KakaoID   string
	Nickname  string
	Email     string
	Phone     string
	IP        string
	UserAgent string
}
