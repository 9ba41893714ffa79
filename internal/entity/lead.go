package entity

import "time"

// Lead status values. KakaoLogin is a pseudo-status: the visitor verified
// their identity through Kakao but hasn't submitted the full form yet.
const (
	LeadStatusNew        = "new"
	LeadStatusContacted  = "contacted"
	LeadStatusConverted  = "converted"
	LeadStatusSpam       = "spam"
	LeadStatusKakaoLogin = "kakao_login"
)

// MaxUserAgentLen is the hard truncation cap applied to stored user
// agents, counted in characters.
const MaxUserAgentLen = 500

// TruncateUserAgent caps s at MaxUserAgentLen characters. Truncation
// happens on rune boundaries so a multibyte sequence is never split.
func TruncateUserAgent(s string) string {
	runes := []rune(s)
	if len(runes) <= MaxUserAgentLen {
		return s
	}
	return string(runes[:MaxUserAgentLen])
}

// Lead is the persisted outcome of an accepted submission.
type Lead struct {
	ID           string            `json:"id"`
	TenantID     string            `json:"tenant_id"`
	Name         string            `json:"name"`
	Phone        string            `json:"phone"`
	Email        string            `json:"email,omitempty"`
	BusinessName string            `json:"business_name,omitempty"`
	Address      string            `json:"address,omitempty"`
	Birthdate    string            `json:"birthdate,omitempty"`
	Memo         string            `json:"memo,omitempty"`
	KakaoID      string            `json:"kakao_id,omitempty"`
	Custom       map[string]string `json:"custom,omitempty"`
	Status       string            `json:"status"`
	IPAddress    string            `json:"ip_address"`
	UserAgent    string            `json:"user_agent"`
	CreatedAt    time.Time         `json:"created_at"`

	// RecordURL points at the Airtable row. Filled in after persistence,
	// used only in notification messages.
	RecordURL string `json:"-"`
}

// ValidLeadStatus reports whether s is a status the portal/admin may set.
// kakao_login is excluded: it is only ever written by the OAuth callback.
func ValidLeadStatus(s string) bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusConverted, LeadStatusSpam:
		return true
	}
	return false
}
