// Package presence tracks which users are currently online. It is an
// explicit service injected where online counts are needed, not a global.
package presence

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// Tracker keeps a TTL entry per online user. A user stays online as long as
// heartbeats keep arriving within the TTL; entries lapse on their own, so a
// vanished client needs no explicit cleanup.
type Tracker struct {
	entries *cache.Cache
}

// NewTracker creates a tracker whose entries expire after ttl.
func NewTracker(ttl time.Duration) *Tracker {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &Tracker{
		entries: cache.New(ttl, ttl),
	}
}

// Heartbeat marks the user online, refreshing the expiry.
func (t *Tracker) Heartbeat(userID string) {
	t.entries.SetDefault(userID, time.Now().UTC())
}

// Offline removes the user immediately, e.g. on an explicit sign-out.
func (t *Tracker) Offline(userID string) {
	t.entries.Delete(userID)
}

// Count returns the number of users with a live heartbeat.
func (t *Tracker) Count() int {
	return t.entries.ItemCount()
}
