package ui

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// page_state.go provides shared state management for TUI pages.
// Embed PageState in a page model to get consistent state handling.

// PageState contains common state that pages need.
type PageState struct {
	Layout       Layout
	Clock        clockwork.Clock
	StatusMsg    string
	StatusExpiry time.Time
	Quitting     bool
}

// NewPageState creates a new PageState with the given layout and clock.
// A nil clock means the real wall clock.
func NewPageState(layout Layout, clock clockwork.Clock) PageState {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return PageState{
		Layout: layout,
		Clock:  clock,
	}
}

// SetStatus sets a status message that will expire after the given duration.
// If duration is 0, the status message will not expire.
func (p *PageState) SetStatus(msg string, duration time.Duration) {
	p.StatusMsg = msg
	if duration > 0 {
		p.StatusExpiry = p.Clock.Now().Add(duration)
	} else {
		p.StatusExpiry = time.Time{} // Zero time = no expiry
	}
}

// ClearExpiredStatus clears the status message if it has expired.
// Call this in Update() to automatically clear old messages.
func (p *PageState) ClearExpiredStatus() {
	if !p.StatusExpiry.IsZero() && p.Clock.Now().After(p.StatusExpiry) {
		p.StatusMsg = ""
		p.StatusExpiry = time.Time{}
	}
}

// HasStatus returns true if there is a non-empty status message.
func (p *PageState) HasStatus() bool {
	return p.StatusMsg != ""
}

// UpdateLayout updates the layout and returns true if it changed.
func (p *PageState) UpdateLayout(width, height int) bool {
	newLayout := NewLayout(width, height)
	if newLayout != p.Layout {
		p.Layout = newLayout
		return true
	}
	return false
}
