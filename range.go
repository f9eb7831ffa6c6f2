package costbasis

import (
	"fmt"
	"time"
)

// Range is a reporting window. A zero From or To leaves that side of the
// window unbounded; the zero Range covers everything.
type Range struct {
	From time.Time `json:"from,omitzero"`
	To   time.Time `json:"to,omitzero"`
}

// Contains reports whether t falls inside the window, bounds included.
func (r Range) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

// IsZero reports whether the range is unbounded on both sides.
func (r Range) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

func (r Range) String() string {
	from, to := "...", "..."
	if !r.From.IsZero() {
		from = r.From.Format(time.RFC3339)
	}
	if !r.To.IsZero() {
		to = r.To.Format(time.RFC3339)
	}
	return fmt.Sprintf("[%s, %s]", from, to)
}
