package engine

import (
	"testing"
	"time"

	"github.com/peterldowns/testy/check"
)

func TestRemaining(t *testing.T) {
	start := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

	check.Equal(t, 30, Remaining(start, start, 30))
	check.Equal(t, 18, Remaining(start.Add(12*time.Second), start, 30))
	check.Equal(t, 0, Remaining(start.Add(30*time.Second), start, 30))
	// Past the deadline it floors at zero instead of going negative.
	check.Equal(t, 0, Remaining(start.Add(5*time.Minute), start, 30))
	// Sub-second elapsed time truncates toward the full remaining count.
	check.Equal(t, 30, Remaining(start.Add(900*time.Millisecond), start, 30))
}
