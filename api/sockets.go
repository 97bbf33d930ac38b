// File: api/sockets.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Socket service contract consumed by the rendezvous event loop.
// The service owns descriptor lifetimes and byte buffers; the core owns
// pairing state and reacts to the event queues exposed here.

package api

// Descriptor is an opaque handle for a socket issued by the SocketService.
type Descriptor int

// NoDescriptor is the reserved "no descriptor" value.
const NoDescriptor Descriptor = -1

// SocketService abstracts the low-level socket I/O layer.
//
// Serve advances I/O by one multiplexer step and refills the three event
// queues. The queues are drained one element at a time through the Next*
// methods, which return NoDescriptor when empty. Disconnect is an idempotent
// close request: the descriptor is placed on the disconnection queue right
// away, so the next NextDisconnection call can return it, and its identity
// (host, port, listener) stays queryable until that event has been consumed.
type SocketService interface {
	// Listen opens a TCP listening socket on the given port. Port 0 binds an
	// ephemeral port; GetPort reports the bound port either way.
	Listen(port uint16) (Descriptor, error)

	// Serve advances I/O one step. A non-nil error is fatal to the caller.
	Serve() error

	// NextConnection drains one freshly accepted descriptor.
	NextConnection() Descriptor

	// NextDisconnection drains one closed descriptor.
	NextDisconnection() Descriptor

	// NextIncoming drains one descriptor that has unread incoming bytes.
	NextIncoming() Descriptor

	// GetListener reports which listening descriptor accepted d.
	GetListener(d Descriptor) Descriptor

	// Freeze suppresses reads from d; Unfreeze resumes them.
	Freeze(d Descriptor)
	Unfreeze(d Descriptor)

	// SwapIncoming moves d's incoming bytes into *buf, leaving d's incoming
	// buffer empty. The previous contents of *buf are recycled.
	SwapIncoming(d Descriptor, buf *[]byte)

	// AppendOutgoing queues bytes for write to d.
	AppendOutgoing(d Descriptor, data []byte)

	// Writef appends a formatted string to d's outgoing queue.
	Writef(d Descriptor, format string, args ...any)

	// GetHost and GetPort report the peer identity of d for logging.
	GetHost(d Descriptor) string
	GetPort(d Descriptor) string

	// Disconnect requests that d be closed. Safe to call repeatedly and with
	// NoDescriptor or unknown descriptors, which are ignored.
	Disconnect(d Descriptor)

	// Close tears down every descriptor and the multiplexer.
	Close() error
}
