// File: reactor/reactor.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral event reactor interface for IO multiplexing.

package reactor

// Interest selects which readiness notifications a descriptor subscribes to.
type Interest uint32

const (
	// Readable requests notification when the descriptor can be read.
	Readable Interest = 1 << iota
	// Writable requests notification when the descriptor can be written.
	Writable
)

// EventReactor defines basic reactor operations across OS platforms.
type EventReactor interface {
	// Register adds a file descriptor with the given interest set.
	Register(fd int, interest Interest) error

	// Modify replaces the interest set of an already registered descriptor.
	Modify(fd int, interest Interest) error

	// Unregister removes a file descriptor from the watch list.
	Unregister(fd int) error

	// Wait blocks until events are available or timeoutMs elapses and writes
	// them into the output slice. timeoutMs < 0 blocks indefinitely. A wait
	// interrupted by a signal returns zero events and no error.
	Wait(events []Event, timeoutMs int) (n int, err error)

	// Close cleans up the multiplexer handle.
	Close() error
}

// Event contains readiness information returned by a Wait call.
type Event struct {
	FD       int  // File descriptor.
	Readable bool // Descriptor has bytes to read (or a pending accept).
	Writable bool // Descriptor can accept writes.
	Closed   bool // Error or hangup reported by the OS.
}
