package controller

import "time"

// DefaultDebounce is the minimum spacing between accepted lines
const DefaultDebounce = 100 * time.Millisecond

// Debouncer drops any line that arrives less than Interval after the last accepted one,
// whatever its content.
type Debouncer struct {
	Interval time.Duration
	last     time.Time
	seen     bool
}

// NewDebouncer returns a debouncer; a non-positive interval uses DefaultDebounce
func NewDebouncer(interval time.Duration) *Debouncer {
	if interval <= 0 {
		interval = DefaultDebounce
	}
	return &Debouncer{Interval: interval}
}

// Accept reports whether a line arriving at t passes, and if so records t
func (d *Debouncer) Accept(t time.Time) bool {
	if d.seen && t.Sub(d.last) < d.Interval {
		return false
	}
	d.last = t
	d.seen = true
	return true
}

// Reset forgets the last accepted time
func (d *Debouncer) Reset() {
	d.seen = false
	d.last = time.Time{}
}
