// internal/reader/debounce.go
package reader

import "time"

// Debouncer suppresses repeated reads of the same card inside a time
// window. A different card is always accepted; the same card is accepted
// again only once the window has elapsed since its last acceptance.
type Debouncer struct {
	window     time.Duration
	lastCardID string
	lastAccept time.Time
}

// NewDebouncer creates a debouncer with the given suppression window
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{window: window}
}

// Accept reports whether the scan should be processed. State updates only
// on acceptance.
func (d *Debouncer) Accept(cardID string, now time.Time) bool {
	if cardID == "" {
		return false
	}

	if cardID == d.lastCardID && now.Sub(d.lastAccept) < d.window {
		return false
	}

	d.lastCardID = cardID
	d.lastAccept = now
	return true
}
