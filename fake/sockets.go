// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake implementations for testing and development.
// Provides predictable, controllable behavior for the core contracts.

package fake

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/momentics/pairflow/api"
)

// SocketService is an in-memory implementation of api.SocketService.
// Tests script it through Connect, Deliver and CloseRemote, and inspect
// results through Sent, IsFrozen and IsClosed.
type SocketService struct {
	mu     sync.Mutex
	nextFD int
	socks  map[api.Descriptor]*fakeSocket

	connQ []api.Descriptor
	discQ []api.Descriptor
	incQ  []api.Descriptor

	serveFunc  func(step int)
	serveErr   error
	listenErrs map[uint16]error

	step   int
	closed bool
}

type fakeSocket struct {
	listener  api.Descriptor
	host      string
	port      string
	incoming  []byte
	sent      []byte
	frozen    bool
	closed    bool
	listening bool
	queued    bool
}

// NewSocketService creates a fake socket service with no scripted behavior.
func NewSocketService() *SocketService {
	return &SocketService{
		nextFD:     3,
		socks:      make(map[api.Descriptor]*fakeSocket),
		listenErrs: make(map[uint16]error),
	}
}

// OnServe installs a script invoked on every Serve call with a step
// counter starting at 1.
func (f *SocketService) OnServe(fn func(step int)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.serveFunc = fn
}

// FailListen configures Listen to fail for the given port.
func (f *SocketService) FailListen(port uint16, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listenErrs[port] = err
}

// FailServe configures every subsequent Serve call to return err.
func (f *SocketService) FailServe(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.serveErr = err
}

// Listen implements api.SocketService.
func (f *SocketService) Listen(port uint16) (api.Descriptor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.listenErrs[port]; err != nil {
		return api.NoDescriptor, err
	}
	d := f.alloc()
	f.socks[d] = &fakeSocket{
		listener:  api.NoDescriptor,
		host:      "0.0.0.0",
		port:      strconv.Itoa(int(port)),
		listening: true,
	}
	return d, nil
}

// Serve implements api.SocketService by running the scripted step.
func (f *SocketService) Serve() error {
	f.mu.Lock()
	f.step++
	step := f.step
	fn := f.serveFunc
	err := f.serveErr
	f.mu.Unlock()

	if err != nil {
		return err
	}
	if fn != nil {
		fn(step)
	}
	return nil
}

// Connect scripts a freshly accepted peer on the given listener.
func (f *SocketService) Connect(listener api.Descriptor) api.Descriptor {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := f.alloc()
	f.socks[d] = &fakeSocket{
		listener: listener,
		host:     "127.0.0.1",
		port:     strconv.Itoa(40000 + int(d)),
	}
	f.connQ = append(f.connQ, d)
	return d
}

// Deliver scripts incoming bytes on a descriptor.
func (f *SocketService) Deliver(d api.Descriptor, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sock := f.socks[d]
	if sock == nil || sock.closed {
		return
	}
	sock.incoming = append(sock.incoming, data...)
	if !sock.queued {
		sock.queued = true
		f.incQ = append(f.incQ, d)
	}
}

// CloseRemote scripts a peer-initiated close.
func (f *SocketService) CloseRemote(d api.Descriptor) {
	f.Disconnect(d)
}

// NextConnection implements api.SocketService.
func (f *SocketService) NextConnection() api.Descriptor {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.connQ) == 0 {
		return api.NoDescriptor
	}
	d := f.connQ[0]
	f.connQ = f.connQ[1:]
	return d
}

// NextDisconnection implements api.SocketService.
func (f *SocketService) NextDisconnection() api.Descriptor {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.discQ) == 0 {
		return api.NoDescriptor
	}
	d := f.discQ[0]
	f.discQ = f.discQ[1:]
	return d
}

// NextIncoming implements api.SocketService.
func (f *SocketService) NextIncoming() api.Descriptor {
	f.mu.Lock()
	defer f.mu.Unlock()
	for len(f.incQ) > 0 {
		d := f.incQ[0]
		f.incQ = f.incQ[1:]
		sock := f.socks[d]
		if sock == nil || sock.closed || len(sock.incoming) == 0 {
			continue
		}
		sock.queued = false
		return d
	}
	return api.NoDescriptor
}

// GetListener implements api.SocketService.
func (f *SocketService) GetListener(d api.Descriptor) api.Descriptor {
	f.mu.Lock()
	defer f.mu.Unlock()
	if sock := f.socks[d]; sock != nil {
		return sock.listener
	}
	return api.NoDescriptor
}

// Freeze implements api.SocketService.
func (f *SocketService) Freeze(d api.Descriptor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if sock := f.socks[d]; sock != nil {
		sock.frozen = true
	}
}

// Unfreeze implements api.SocketService.
func (f *SocketService) Unfreeze(d api.Descriptor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if sock := f.socks[d]; sock != nil {
		sock.frozen = false
	}
}

// SwapIncoming implements api.SocketService.
func (f *SocketService) SwapIncoming(d api.Descriptor, buf *[]byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sock := f.socks[d]
	if sock == nil {
		*buf = (*buf)[:0]
		return
	}
	spare := *buf
	*buf = sock.incoming
	sock.incoming = spare[:0]
}

// AppendOutgoing implements api.SocketService by capturing the bytes.
func (f *SocketService) AppendOutgoing(d api.Descriptor, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sock := f.socks[d]
	if sock == nil || sock.closed {
		return
	}
	sock.sent = append(sock.sent, data...)
}

// Writef implements api.SocketService.
func (f *SocketService) Writef(d api.Descriptor, format string, args ...any) {
	f.AppendOutgoing(d, fmt.Appendf(nil, format, args...))
}

// GetHost implements api.SocketService.
func (f *SocketService) GetHost(d api.Descriptor) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if sock := f.socks[d]; sock != nil {
		return sock.host
	}
	return ""
}

// GetPort implements api.SocketService.
func (f *SocketService) GetPort(d api.Descriptor) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if sock := f.socks[d]; sock != nil {
		return sock.port
	}
	return ""
}

// Disconnect implements api.SocketService. Idempotent; unknown descriptors
// and NoDescriptor are ignored.
func (f *SocketService) Disconnect(d api.Descriptor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sock := f.socks[d]
	if sock == nil || sock.closed {
		return
	}
	sock.closed = true
	sock.queued = false
	f.discQ = append(f.discQ, d)
}

// Close implements api.SocketService.
func (f *SocketService) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Sent returns all bytes queued for write to d.
func (f *SocketService) Sent(d api.Descriptor) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	if sock := f.socks[d]; sock != nil {
		out := make([]byte, len(sock.sent))
		copy(out, sock.sent)
		return out
	}
	return nil
}

// IsFrozen reports whether d is currently frozen.
func (f *SocketService) IsFrozen(d api.Descriptor) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	sock := f.socks[d]
	return sock != nil && sock.frozen
}

// IsClosed reports whether d has been disconnected.
func (f *SocketService) IsClosed(d api.Descriptor) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	sock := f.socks[d]
	return sock == nil || sock.closed
}

// Listener returns the descriptor of the listener bound to port.
func (f *SocketService) Listener(port uint16) api.Descriptor {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := strconv.Itoa(int(port))
	for d, sock := range f.socks {
		if sock.listening && sock.port == want {
			return d
		}
	}
	return api.NoDescriptor
}

func (f *SocketService) alloc() api.Descriptor {
	d := api.Descriptor(f.nextFD)
	f.nextFD++
	return d
}
