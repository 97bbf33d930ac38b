//go:build linux
// +build linux

// File: internal/signals/alarm_linux.go
// Author: momentics <momentics@gmail.com>
//
// One-shot alarm via setitimer(2). The kernel raises SIGALRM, the runtime
// forwards it to the arbiter's channel.

package signals

import (
	"time"

	"golang.org/x/sys/unix"
)

// Alarm schedules a single SIGALRM after the given duration. The timer is
// one-shot: the event loop rearms it each time the alarm is observed.
func (a *Arbiter) Alarm(period time.Duration) {
	it := unix.MakeItimerval(0, period)
	_, _ = unix.Setitimer(unix.ItimerReal, it)
}
