// File: server/server.go
// Package server provides the pairflow daemon facade: it wires the socket
// service, the signal arbiter and the logger into the rendezvous broker.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"fmt"
	"os"

	"github.com/momentics/pairflow/api"
	"github.com/momentics/pairflow/core/broker"
	"github.com/momentics/pairflow/internal/logging"
	"github.com/momentics/pairflow/internal/signals"
	"github.com/momentics/pairflow/internal/sockets"
)

// Server is the facade encapsulating configuration and collaborators.
type Server struct {
	cfg  *Config
	log  *logging.Logger
	sock api.SocketService
	sig  api.SignalQueue
}

// New constructs a Server with the given Config and options.
func New(cfg *Config, opts ...ServerOption) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	s := &Server{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}
	if s.log == nil {
		s.log = logging.New(os.Stderr)
	}
	if s.sock == nil {
		svc, err := sockets.New(s.cfg.WaitTimeout)
		if err != nil {
			return nil, fmt.Errorf("socket service init: %w", err)
		}
		s.sock = svc
	}
	if s.sig == nil {
		arbiter := signals.NewArbiter()
		s.sig = arbiter
	}
	return s, nil
}

// Run drives the rendezvous loop until a terminating signal or a fatal
// serve error. The returned error is nil on a clean signal shutdown.
func (s *Server) Run() error {
	defer s.sock.Close()
	if arbiter, ok := s.sig.(*signals.Arbiter); ok {
		defer arbiter.Stop()
	}

	b := broker.New(broker.Config{
		SupplyPort:   s.cfg.SupplyPort,
		DemandPort:   s.cfg.DemandPort,
		DriverPort:   s.cfg.DriverPort,
		Verbose:      s.cfg.Verbose,
		IdleTimeout:  s.cfg.IdleTimeout,
		DriverPeriod: s.cfg.DriverPeriod,
	}, s.sock, s.sig, s.log)

	return b.Run()
}
