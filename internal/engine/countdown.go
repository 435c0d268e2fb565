package engine

import "time"

// Remaining returns the whole seconds left on a countdown anchored at start
// with the given total duration. Every observer derives the countdown from
// the same anchor fields instead of decrementing a local counter, so all
// clients stay in sync across reconnects and pause/resume.
func Remaining(now, start time.Time, durationSec int) int {
	elapsed := int(now.Sub(start) / time.Second)
	remaining := durationSec - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}
