// File: internal/sockets/service.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Production SocketService: nonblocking TCP listeners and connections
// multiplexed through the reactor. Serve advances I/O one step and refills
// the connection, disconnection and incoming event queues that the event
// loop drains one element at a time.
//
// The service is single-threaded by contract: every method is called from
// the event-loop goroutine only, so no locking is required here.

package sockets

import (
	"fmt"
	"time"

	"github.com/eapache/queue"

	"github.com/momentics/pairflow/api"
	"github.com/momentics/pairflow/pool"
	"github.com/momentics/pairflow/reactor"
)

const (
	readBufferSize = 64 * 1024
	maxEvents      = 128
)

// socket is the per-descriptor state.
type socket struct {
	fd        int
	listener  api.Descriptor // accepting listener, NoDescriptor for listeners
	host      string
	port      string
	incoming  []byte
	outgoing  []byte
	frozen    bool
	listening bool
	closing   bool // Disconnect requested; fd closes after the event surfaces
	surfaced  bool // disconnection event consumed by the caller
	queued    bool // present in the incoming queue
}

// Service implements api.SocketService on top of the platform reactor.
type Service struct {
	reactor  reactor.EventReactor
	readBufs *pool.BytePool
	socks    map[int]*socket
	connQ    *queue.Queue
	discQ    *queue.Queue
	incQ     *queue.Queue
	events   []reactor.Event
	waitMs   int
	closed   bool
}

// New creates a socket service whose Serve call waits at most waitTimeout
// for I/O readiness. A bounded wait keeps the caller's signal drain
// responsive on platforms where signals do not interrupt the multiplexer.
func New(waitTimeout time.Duration) (*Service, error) {
	r, err := reactor.NewReactor()
	if err != nil {
		return nil, fmt.Errorf("socket service: %w", err)
	}
	waitMs := int(waitTimeout / time.Millisecond)
	if waitMs <= 0 {
		waitMs = 250
	}
	return &Service{
		reactor:  r,
		readBufs: pool.NewBytePool(readBufferSize),
		socks:    make(map[int]*socket),
		connQ:    queue.New(),
		discQ:    queue.New(),
		incQ:     queue.New(),
		events:   make([]reactor.Event, maxEvents),
		waitMs:   waitMs,
	}, nil
}

// Listen opens a nonblocking TCP listener on the given port.
func (s *Service) Listen(port uint16) (api.Descriptor, error) {
	if s.closed {
		return api.NoDescriptor, api.ErrClosed
	}
	fd, bound, err := sysListen(port)
	if err != nil {
		return api.NoDescriptor, fmt.Errorf("listen on port %d: %w", port, err)
	}
	if err := s.reactor.Register(fd, reactor.Readable); err != nil {
		sysClose(fd)
		return api.NoDescriptor, fmt.Errorf("register listener: %w", err)
	}
	s.socks[fd] = &socket{
		fd:        fd,
		listener:  api.NoDescriptor,
		host:      "0.0.0.0",
		port:      bound,
		listening: true,
	}
	return api.Descriptor(fd), nil
}

// Serve advances I/O one multiplexer step.
func (s *Service) Serve() error {
	if s.closed {
		return api.ErrClosed
	}
	s.sweep()

	n, err := s.reactor.Wait(s.events, s.waitMs)
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	for i := 0; i < n; i++ {
		ev := s.events[i]
		sock := s.socks[ev.FD]
		if sock == nil || sock.closing {
			continue
		}
		if sock.listening {
			if ev.Readable {
				s.acceptAll(sock)
			}
			continue
		}
		if ev.Readable && !sock.frozen {
			s.readAll(sock)
		}
		if sock.closing {
			continue
		}
		if ev.Writable {
			s.flush(sock)
		}
		if ev.Closed && !sock.closing && len(sock.incoming) == 0 {
			s.requestDisconnect(sock)
		}
	}
	return nil
}

// NextConnection drains one freshly accepted descriptor.
func (s *Service) NextConnection() api.Descriptor {
	if s.connQ.Length() == 0 {
		return api.NoDescriptor
	}
	return s.connQ.Remove().(api.Descriptor)
}

// NextDisconnection drains one closed descriptor. The descriptor's metadata
// stays available until the next Serve call.
func (s *Service) NextDisconnection() api.Descriptor {
	if s.discQ.Length() == 0 {
		return api.NoDescriptor
	}
	d := s.discQ.Remove().(api.Descriptor)
	if sock := s.socks[int(d)]; sock != nil {
		sock.surfaced = true
	}
	return d
}

// NextIncoming drains one descriptor with unread incoming bytes.
func (s *Service) NextIncoming() api.Descriptor {
	for s.incQ.Length() > 0 {
		d := s.incQ.Remove().(api.Descriptor)
		sock := s.socks[int(d)]
		if sock == nil || sock.closing || len(sock.incoming) == 0 {
			continue
		}
		sock.queued = false
		return d
	}
	return api.NoDescriptor
}

// GetListener reports which listener accepted d.
func (s *Service) GetListener(d api.Descriptor) api.Descriptor {
	if sock := s.socks[int(d)]; sock != nil {
		return sock.listener
	}
	return api.NoDescriptor
}

// Freeze suppresses reads from d.
func (s *Service) Freeze(d api.Descriptor) {
	if sock := s.socks[int(d)]; sock != nil && !sock.closing && !sock.frozen {
		sock.frozen = true
		s.updateInterest(sock)
	}
}

// Unfreeze resumes reads from d.
func (s *Service) Unfreeze(d api.Descriptor) {
	if sock := s.socks[int(d)]; sock != nil && !sock.closing && sock.frozen {
		sock.frozen = false
		s.updateInterest(sock)
	}
}

// SwapIncoming moves d's incoming bytes into *buf. The previous contents of
// *buf are handed back to the socket as spare capacity.
func (s *Service) SwapIncoming(d api.Descriptor, buf *[]byte) {
	sock := s.socks[int(d)]
	if sock == nil {
		*buf = (*buf)[:0]
		return
	}
	spare := *buf
	*buf = sock.incoming
	sock.incoming = spare[:0]
}

// AppendOutgoing queues bytes for write to d.
func (s *Service) AppendOutgoing(d api.Descriptor, data []byte) {
	sock := s.socks[int(d)]
	if sock == nil || sock.closing || len(data) == 0 {
		return
	}
	hadPending := len(sock.outgoing) > 0
	sock.outgoing = append(sock.outgoing, data...)
	if !hadPending {
		s.updateInterest(sock)
	}
}

// Writef appends a formatted string to d's outgoing queue.
func (s *Service) Writef(d api.Descriptor, format string, args ...any) {
	s.AppendOutgoing(d, fmt.Appendf(nil, format, args...))
}

// GetHost reports the peer host of d.
func (s *Service) GetHost(d api.Descriptor) string {
	if sock := s.socks[int(d)]; sock != nil {
		return sock.host
	}
	return ""
}

// GetPort reports the peer port of d. For listeners this is the bound port.
func (s *Service) GetPort(d api.Descriptor) string {
	if sock := s.socks[int(d)]; sock != nil {
		return sock.port
	}
	return ""
}

// Disconnect requests that d be closed. Unknown descriptors and
// NoDescriptor are ignored, and repeated requests are no-ops.
func (s *Service) Disconnect(d api.Descriptor) {
	if sock := s.socks[int(d)]; sock != nil {
		s.requestDisconnect(sock)
	}
}

// Close tears down all descriptors and the reactor.
func (s *Service) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	for fd := range s.socks {
		sysClose(fd)
	}
	s.socks = make(map[int]*socket)
	return s.reactor.Close()
}

// sweep releases descriptors whose disconnection event has been consumed.
// Deferring the close keeps the OS from reusing the fd number while the
// caller may still query the dying descriptor's identity.
func (s *Service) sweep() {
	for fd, sock := range s.socks {
		if sock.closing && sock.surfaced {
			sysClose(fd)
			delete(s.socks, fd)
		}
	}
}

func (s *Service) acceptAll(lsock *socket) {
	for {
		fd, host, port, err := sysAccept(lsock.fd)
		if err != nil {
			return
		}
		if err := s.reactor.Register(fd, reactor.Readable); err != nil {
			sysClose(fd)
			continue
		}
		s.socks[fd] = &socket{
			fd:       fd,
			listener: api.Descriptor(lsock.fd),
			host:     host,
			port:     port,
		}
		s.connQ.Add(api.Descriptor(fd))
	}
}

func (s *Service) readAll(sock *socket) {
	buf := s.readBufs.Get()
	defer s.readBufs.Put(buf)
	for {
		n, err := sysRead(sock.fd, buf)
		if n > 0 {
			sock.incoming = append(sock.incoming, buf[:n]...)
			if !sock.queued {
				sock.queued = true
				s.incQ.Add(api.Descriptor(sock.fd))
			}
		}
		if err == errWouldBlock {
			return
		}
		if err != nil || n == 0 {
			s.requestDisconnect(sock)
			return
		}
		if n < len(buf) {
			return
		}
	}
}

func (s *Service) flush(sock *socket) {
	for len(sock.outgoing) > 0 {
		n, err := sysWrite(sock.fd, sock.outgoing)
		if err == errWouldBlock {
			return
		}
		if err != nil {
			s.requestDisconnect(sock)
			return
		}
		sock.outgoing = sock.outgoing[n:]
	}
	sock.outgoing = nil
	s.updateInterest(sock)
}

func (s *Service) updateInterest(sock *socket) {
	var interest reactor.Interest
	if !sock.frozen {
		interest |= reactor.Readable
	}
	if len(sock.outgoing) > 0 {
		interest |= reactor.Writable
	}
	_ = s.reactor.Modify(sock.fd, interest)
}

func (s *Service) requestDisconnect(sock *socket) {
	if sock.closing {
		return
	}
	// Best-effort flush of anything already queued for the peer.
	if !sock.listening && len(sock.outgoing) > 0 {
		if n, err := sysWrite(sock.fd, sock.outgoing); err == nil {
			sock.outgoing = sock.outgoing[n:]
		}
	}
	sock.closing = true
	sock.queued = false
	_ = s.reactor.Unregister(sock.fd)
	s.discQ.Add(api.Descriptor(sock.fd))
}
