package guard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAbuseBlocksAtThreshold(t *testing.T) {
	a := NewAbuseCounter()

	assert.False(t, a.RecordViolation("1.2.3.4"), "first violation must not block")
	assert.True(t, a.RecordViolation("1.2.3.4"), "second violation inside window blocks")
	assert.True(t, a.IsBlocked("1.2.3.4"))
}

func TestAbuseIsBlockedDoesNotMutate(t *testing.T) {
	a := NewAbuseCounter()

	a.RecordViolation("1.2.3.4")
	for i := 0; i < 5; i++ {
		assert.False(t, a.IsBlocked("1.2.3.4"), "one violation must never block, however often checked")
	}
}

func TestAbuseCountResetsAfterWindow(t *testing.T) {
	a := NewAbuseCounter()
	now := time.Now()
	a.now = func() time.Time { return now }

	assert.False(t, a.RecordViolation("1.2.3.4"))

	// A violation after the window lapsed starts a fresh count.
	now = now.Add(AbuseResetWindow)
	assert.False(t, a.RecordViolation("1.2.3.4"))
	assert.False(t, a.IsBlocked("1.2.3.4"))
}

func TestAbuseBlockExpiresAfterWindow(t *testing.T) {
	a := NewAbuseCounter()
	now := time.Now()
	a.now = func() time.Time { return now }

	a.RecordViolation("1.2.3.4")
	a.RecordViolation("1.2.3.4")
	assert.True(t, a.IsBlocked("1.2.3.4"))

	now = now.Add(AbuseResetWindow)
	assert.False(t, a.IsBlocked("1.2.3.4"))
}

func TestAbuseCountersAreIndependentPerIP(t *testing.T) {
	a := NewAbuseCounter()

	a.RecordViolation("1.2.3.4")
	assert.False(t, a.IsBlocked("5.6.7.8"))
	assert.False(t, a.RecordViolation("5.6.7.8"))
}

func TestAbuseSweep(t *testing.T) {
	a := NewAbuseCounter()
	now := time.Now()
	a.now = func() time.Time { return now }

	a.RecordViolation("1.2.3.4")
	now = now.Add(AbuseResetWindow)
	a.Sweep()

	a.mu.Lock()
	defer a.mu.Unlock()
	assert.Empty(t, a.entries)
}
