package entity

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateUserAgent(t *testing.T) {
	assert.Equal(t, "Mozilla/5.0", TruncateUserAgent("Mozilla/5.0"))
	assert.Equal(t, "", TruncateUserAgent(""))

	long := strings.Repeat("x", MaxUserAgentLen+1)
	assert.Equal(t, MaxUserAgentLen, len(TruncateUserAgent(long)))

	// Exactly at the cap stays untouched.
	exact := strings.Repeat("x", MaxUserAgentLen)
	assert.Equal(t, exact, TruncateUserAgent(exact))
}

func TestTruncateUserAgentKeepsRunesWhole(t *testing.T) {
	korean := strings.Repeat("한", MaxUserAgentLen+50)
	out := TruncateUserAgent(korean)

	assert.Equal(t, MaxUserAgentLen, utf8.RuneCountInString(out))
	assert.True(t, utf8.ValidString(out))
	assert.True(t, strings.HasSuffix(out, "한"))
}

func TestValidLeadStatus(t *testing.T) {
	assert.True(t, ValidLeadStatus(LeadStatusNew))
	assert.True(t, ValidLeadStatus(LeadStatusContacted))
	assert.True(t, ValidLeadStatus(LeadStatusConverted))
	assert.True(t, ValidLeadStatus(LeadStatusSpam))
	// Only the OAuth callback may write this one.
	assert.False(t, ValidLeadStatus(LeadStatusKakaoLogin))
	assert.False(t, ValidLeadStatus("deleted"))
}
