package usecase

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Korean mobile carrier prefixes. 010 is the only one still issued, but
// numbers on the legacy prefixes are alive and must keep validating.
var mobilePrefixes = []string{"010", "011", "016", "017", "018", "019"}

// NormalizePhone strips every non-digit character. Total function: any
// input, including the empty string, yields a digits-only string.
func NormalizePhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidatePhone reports whether s is a plausible Korean mobile number:
// a carrier prefix followed by 7 or 8 more digits, 10-11 digits total,
// regardless of hyphen/dot/space separators.
func ValidatePhone(s string) bool {
	n := NormalizePhone(s)
	if len(n) < 10 || len(n) > 11 {
		return false
	}
	for _, p := range mobilePrefixes {
		if strings.HasPrefix(n, p) {
			return true
		}
	}
	return false
}

// FormatPhone renders a normalized number as 3-3-4 (10 digits) or 3-4-4
// (11 digits). Anything else comes back unchanged.
func FormatPhone(s string) string {
	n := NormalizePhone(s)
	switch len(n) {
	case 10:
		return n[:3] + "-" + n[3:6] + "-" + n[6:]
	case 11:
		return n[:3] + "-" + n[3:7] + "-" + n[7:]
	}
	return s
}

// FormatPhoneInput is the incremental formatter for live typing: strips
// non-digits, keeps at most 11 digits, inserts hyphens after the 3rd and
// 7th digit. Never produces a leading or trailing hyphen.
func FormatPhoneInput(s string) string {
	n := NormalizePhone(s)
	if len(n) > 11 {
		n = n[:11]
	}
	if len(n) <= 3 {
		return n
	}
	if len(n) <= 7 {
		return n[:3] + "-" + n[3:]
	}
	return n[:3] + "-" + n[3:7] + "-" + n[7:]
}

// IsPhoneComplete is the looser "is this submittable" hint used by the
// landing-page UI. Server-side trust stays with ValidatePhone.
func IsPhoneComplete(s string) bool {
	n := NormalizePhone(s)
	return strings.HasPrefix(n, "01") && len(n) >= 10 && len(n) <= 11
}

// ValidateName requires at least 2 characters after trimming. Counted in
// runes so multibyte names work.
func ValidateName(s string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(s)) >= 2
}

// ValidateEmail accepts anything net/mail can parse as an address.
func ValidateEmail(s string) bool {
	_, err := mail.ParseAddress(s)
	return err == nil
}
