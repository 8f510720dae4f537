package session

import (
	"sync"
	"time"
)

// Tracker owns the active session. At most one card is present at a
// time; a scan of a different card replaces the current session.
// Staleness is evaluated lazily at read time, so no background timer is
// needed.
type Tracker struct {
	mu          sync.Mutex
	timeout     time.Duration
	now         func() time.Time
	sess        *Session
	everScanned bool
}

// NewTracker returns a tracker with the given presence timeout. A nil
// clock uses time.Now.
func NewTracker(timeout time.Duration, clock func() time.Time) *Tracker {
	if clock == nil {
		clock = time.Now
	}
	return &Tracker{timeout: timeout, now: clock}
}

// OnScan records a scan of cardID and reports whether it started a new
// presence. Scanning the same card while present only refreshes the
// timeout; a new or different card, or a re-scan after expiry, resets
// the playlist position to the start.
func (t *Tracker) OnScan(cardID string) (inserted bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.everScanned = true
	t.expireLocked(now)

	if t.sess != nil && t.sess.CardID == cardID {
		t.sess.LastScanAt = now
		return false
	}

	t.sess = &Session{
		CardID:     cardID,
		AssetIndex: 0,
		InsertedAt: now,
		LastScanAt: now,
	}
	return true
}

// Active returns a copy of the current session, or nil when no card is
// present or the last scan is older than the presence timeout.
func (t *Tracker) Active() *Session {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.expireLocked(t.now())
	if t.sess == nil {
		return nil
	}
	copied := *t.sess
	return &copied
}

// Navigate moves the active session's playlist position. assetCount is
// queried under the tracker lock so the count always belongs to the
// session being moved, even when a scan races the navigation. The index
// clamps at both ends rather than wrapping, and navigation without an
// active session or with an empty playlist is a no-op. It reports
// whether a session was active.
func (t *Tracker) Navigate(direction Direction, assetCount func(cardID string) int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.expireLocked(t.now())
	if t.sess == nil {
		return false
	}

	count := 0
	if assetCount != nil {
		count = assetCount(t.sess.CardID)
	}
	if count <= 0 {
		return true
	}

	switch direction {
	case DirectionNext:
		if t.sess.AssetIndex < count-1 {
			t.sess.AssetIndex++
		}
	case DirectionPrev:
		if t.sess.AssetIndex > 0 {
			t.sess.AssetIndex--
		}
	}
	return true
}

// EverScanned reports whether any card has ever been scanned since the
// process started. The display shows a welcome screen until then.
func (t *Tracker) EverScanned() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.everScanned
}

// Timeout returns the configured presence timeout.
func (t *Tracker) Timeout() time.Duration {
	return t.timeout
}

func (t *Tracker) expireLocked(now time.Time) {
	if t.sess == nil {
		return
	}
	if now.Sub(t.sess.LastScanAt) > t.timeout {
		t.sess = nil
	}
}
