package entity

// Blacklist entry types. Values match the back-office's `type` column.
const (
	BlacklistTypePhone   = "phone"
	BlacklistTypeKakaoID = "kakaoId"
	BlacklistTypeIP      = "ip"
	BlacklistTypeKeyword = "keyword"
)

// BlacklistEntry is a tenant-scoped deny rule. The pipeline only ever
// reads these; they are written from the back-office.
type BlacklistEntry struct {
	Type   string `json:"type"`
	Value  string `json:"value"`
	Reason string `json:"reason,omitempty"`
}

// BlacklistQuery carries the identifiers of one submission to be matched
// against a tenant's deny list. Empty fields are not consulted.
type BlacklistQuery struct {
	Phone   string
	IP      string
	KakaoID string
}
