// Package guard holds the in-memory, best-effort admission mechanisms:
// profanity screening, short-window duplicate suppression and per-IP abuse
// counting. All state is process-local and intentionally non-durable; a
// restart resets it. None of this is a security boundary.
package guard

import "strings"

// blockedTokens is the fixed deny list applied to free-text fields.
// Mixed script on purpose: Korean profanity, jamo shorthand, romanized
// spellings and common leetspeak variants. Matching is substring-based
// after lowercasing and stripping all whitespace, so spacing tricks
// ("시 발") are still caught. False positives are accepted.
var blockedTokens = []string{
	"시발", "씨발", "씨팔", "개시발", "병신", "지랄", "염병",
	"개새끼", "새끼", "좆", "존나", "꺼져", "닥쳐",
	"ㅅㅂ", "ㅆㅂ", "ㅂㅅ", "ㅄ", "ㅈㄹ",
	"tlqkf", "qudtls", "sibal", "ssibal", "shibal",
	"fuck", "f*ck", "fck", "fuk", "shit", "sh1t", "bitch", "b1tch",
}

// Field pairs a form field name with its submitted value. CheckFields
// reports the first offending field in slice order, so callers fix the
// order once when building the slice.
type Field struct {
	Name  string
	Value string
}

// ContainsProfanity reports whether text contains any blocked token.
func ContainsProfanity(text string) bool {
	if text == "" {
		return false
	}
	normalized := strings.ToLower(text)
	normalized = strings.Join(strings.Fields(normalized), "")
	for _, token := range blockedTokens {
		if strings.Contains(normalized, token) {
			return true
		}
	}
	return false
}

// CheckFields screens every field and returns the name of the first one
// containing profanity, or "" when all fields are clean. The input slice
// is never mutated.
func CheckFields(fields []Field) string {
	for _, f := range fields {
		if ContainsProfanity(f.Value) {
			return f.Name
		}
	}
	return ""
}
