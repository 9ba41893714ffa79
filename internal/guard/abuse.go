package guard

import (
	"sync"
	"time"
)

const (
	// AbuseThreshold is the number of profanity violations inside the
	// reset window that hard-blocks an IP.
	AbuseThreshold = 2

	// AbuseResetWindow is how long a violation counter survives without
	// new violations before it resets.
	AbuseResetWindow = 30 * time.Minute
)

type abuseEntry struct {
	count         int
	lastViolation time.Time
}

// AbuseCounter tracks profanity violations per IP. Keyed by IP alone, not
// by tenant: abuse on one landing page blocks the same IP everywhere.
type AbuseCounter struct {
	mu        sync.Mutex
	entries   map[string]*abuseEntry
	threshold int
	window    time.Duration
	now       func() time.Time
}

func NewAbuseCounter() *AbuseCounter {
	return &AbuseCounter{
		entries:   make(map[string]*abuseEntry),
		threshold: AbuseThreshold,
		window:    AbuseResetWindow,
		now:       time.Now,
	}
}

// RecordViolation counts one profanity violation for ip and reports
// whether the IP is now hard-blocked. A violation after the reset window
// has lapsed starts a fresh count of 1; the old count does not carry over.
func (a *AbuseCounter) RecordViolation(ip string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	e, ok := a.entries[ip]
	if !ok || now.Sub(e.lastViolation) >= a.window {
		e = &abuseEntry{}
		a.entries[ip] = e
	}
	e.count++
	e.lastViolation = now
	return e.count >= a.threshold
}

// IsBlocked reports whether ip is currently hard-blocked, without mutating
// any state. The pipeline runs this as its first gate so blocked IPs never
// reach the profanity screen again.
func (a *AbuseCounter) IsBlocked(ip string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	e, ok := a.entries[ip]
	if !ok {
		return false
	}
	if a.now().Sub(e.lastViolation) >= a.window {
		return false
	}
	return e.count >= a.threshold
}

// Clear drops all counters.
func (a *AbuseCounter) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = make(map[string]*abuseEntry)
}

// Sweep purges counters whose reset window has lapsed.
func (a *AbuseCounter) Sweep() {
	a.mu.Lock()
	defer a.mu.Unlock()
	now := a.now()
	for ip, e := range a.entries {
		if now.Sub(e.lastViolation) >= a.window {
			delete(a.entries, ip)
		}
	}
}
