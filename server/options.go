// File: server/options.go
// Package server defines functional options for the Server facade.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"time"

	"github.com/momentics/pairflow/api"
	"github.com/momentics/pairflow/internal/logging"
)

// ServerOption customizes server initialization.
type ServerOption func(*Server)

// WithVerbose enables per-chunk forwarding and timeout logging.
func WithVerbose() ServerOption {
	return func(s *Server) {
		s.cfg.Verbose = true
	}
}

// WithDriverPort enables the driver endpoint on the given port.
func WithDriverPort(port uint16) ServerOption {
	return func(s *Server) {
		s.cfg.DriverPort = port
	}
}

// WithIdleTimeout sets the idle-reaping threshold in seconds.
func WithIdleTimeout(seconds uint32) ServerOption {
	return func(s *Server) {
		s.cfg.IdleTimeout = seconds
	}
}

// WithDriverPeriod sets the periodic driver-update interval in seconds.
func WithDriverPeriod(seconds uint32) ServerOption {
	return func(s *Server) {
		s.cfg.DriverPeriod = seconds
	}
}

// WithWaitTimeout bounds a single multiplexer wait.
func WithWaitTimeout(d time.Duration) ServerOption {
	return func(s *Server) {
		s.cfg.WaitTimeout = d
	}
}

// WithLogger overrides the stderr logger.
func WithLogger(log *logging.Logger) ServerOption {
	return func(s *Server) {
		s.log = log
	}
}

// WithSocketService substitutes the socket layer, typically with a fake.
func WithSocketService(sock api.SocketService) ServerOption {
	return func(s *Server) {
		s.sock = sock
	}
}

// WithSignalQueue substitutes the signal source, typically with a fake.
func WithSignalQueue(sig api.SignalQueue) ServerOption {
	return func(s *Server) {
		s.sig = sig
	}
}
