// File: api/signals.go
// Author: momentics <momentics@gmail.com>
//
// Signal queue contract for the event loop's per-iteration signal drain.

package api

import (
	"os"
	"time"
)

// SignalQueue hands pending process signals to the event loop and arms the
// one-shot alarm that drives periodic work.
type SignalQueue interface {
	// Next pops one pending signal without blocking. The second return value
	// is false when no signal is pending.
	Next() (os.Signal, bool)

	// Alarm schedules a single SIGALRM (or an equivalent synthetic tick on
	// platforms without interval timers) after the given duration.
	Alarm(period time.Duration)
}
