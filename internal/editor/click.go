package editor

import "time"

// clickTracker pairs consecutive clicks on the same target into double
// clicks. The stage is the empty target.
type clickTracker struct {
	target string
	at     time.Time
	valid  bool
}

// click records a click on target at t and reports whether it completes a
// double click within window. A completed pair is consumed so a third click
// starts over.
func (c *clickTracker) click(target string, at time.Time, window time.Duration) bool {
	if c.valid && c.target == target && !at.Before(c.at) && at.Sub(c.at) <= window {
		c.valid = false
		return true
	}
	c.target, c.at, c.valid = target, at, true
	return false
}

func (c *clickTracker) forget() {
	c.valid = false
}
