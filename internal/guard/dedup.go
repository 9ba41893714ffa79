package guard

import (
	"strings"
	"sync"
	"time"
)

// DedupWindow is how long a repeat submission from the same
// (tenant, phone) pair is rejected as a duplicate.
const DedupWindow = 5 * time.Minute

// DuplicateSuppressor de-duplicates submissions keyed by tenant id and
// normalized phone number. State is per-instance only: concurrent or
// geographically separate instances do not share it.
type DuplicateSuppressor struct {
	mu      sync.Mutex
	entries map[string]time.Time
	window  time.Duration
	now     func() time.Time
}

func NewDuplicateSuppressor() *DuplicateSuppressor {
	return &DuplicateSuppressor{
		entries: make(map[string]time.Time),
		window:  DedupWindow,
		now:     time.Now,
	}
}

// Check reports whether (tenantID, phone) already submitted inside the
// window. The first call of a window records the current time and returns
// false. A duplicate does NOT refresh the timestamp: the original
// submission anchors the window, so a burst of retries can't keep
// extending the block.
func (d *DuplicateSuppressor) Check(tenantID, phone string) bool {
	key := tenantID + "|" + digitsOnly(phone)

	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	last, ok := d.entries[key]
	if ok && now.Sub(last) < d.window {
		return true
	}
	d.entries[key] = now
	return false
}

// Clear drops all recorded entries.
func (d *DuplicateSuppressor) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries = make(map[string]time.Time)
}

// Sweep purges entries older than the window. Expired entries behave as
// absent either way; this only bounds memory on long-running instances.
func (d *DuplicateSuppressor) Sweep() {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	for key, last := range d.entries {
		if now.Sub(last) >= d.window {
			delete(d.entries, key)
		}
	}
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
