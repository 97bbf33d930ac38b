// File: core/broker/broker.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Broker is the rendezvous core: it accepts supply, demand and driver
// connections, pairs supply with demand, relays bytes between paired peers,
// reports unmet-demand backlog to drivers and ages out idle descriptors.
// All state lives on this struct and is touched only by the event loop.

package broker

import (
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/momentics/pairflow/api"
	"github.com/momentics/pairflow/internal/logging"
)

// Config carries the rendezvous parameters.
type Config struct {
	SupplyPort   uint16
	DemandPort   uint16
	DriverPort   uint16 // 0 disables the driver endpoint
	Verbose      bool
	IdleTimeout  uint32 // seconds, 0 disables idle reaping
	DriverPeriod uint32 // seconds, 0 disables periodic driver updates
}

// Broker runs the matcher/relay event loop over a SocketService.
type Broker struct {
	cfg  Config
	sock api.SocketService
	sig  api.SignalQueue
	log  *logging.Logger

	// now samples the wall clock in whole seconds. Swappable in tests.
	now func() int64

	supplyListener api.Descriptor
	demandListener api.Descriptor
	driverListener api.Descriptor

	// supplyMap and demandMap together form the bidirectional pairing:
	// supplyMap keys are supply-side descriptors, demandMap keys demand-side.
	// During a disconnect cascade the surviving half maps to NoDescriptor.
	supplyMap map[api.Descriptor]api.Descriptor
	demandMap map[api.Descriptor]api.Descriptor

	unmetSupply map[api.Descriptor]struct{}
	unmetDemand map[api.Descriptor]struct{}
	drivers     map[api.Descriptor]struct{}

	// lastActivity has one entry per live non-listener descriptor.
	lastActivity map[api.Descriptor]int64

	terminated bool
	failed     bool
}

// New wires a broker to its collaborators.
func New(cfg Config, sock api.SocketService, sig api.SignalQueue, log *logging.Logger) *Broker {
	return &Broker{
		cfg:  cfg,
		sock: sock,
		sig:  sig,
		log:  log,
		now: func() int64 {
			return time.Now().Unix()
		},
		supplyListener: api.NoDescriptor,
		demandListener: api.NoDescriptor,
		driverListener: api.NoDescriptor,
		supplyMap:      make(map[api.Descriptor]api.Descriptor),
		demandMap:      make(map[api.Descriptor]api.Descriptor),
		unmetSupply:    make(map[api.Descriptor]struct{}),
		unmetDemand:    make(map[api.Descriptor]struct{}),
		drivers:        make(map[api.Descriptor]struct{}),
		lastActivity:   make(map[api.Descriptor]int64),
	}
}

// Run opens the listening endpoints and drives the event loop until a
// terminating signal or a serve failure.
func (b *Broker) Run() error {
	var err error
	if b.supplyListener, err = b.sock.Listen(b.cfg.SupplyPort); err != nil {
		return fmt.Errorf("supply port %d: %w", b.cfg.SupplyPort, err)
	}
	if b.demandListener, err = b.sock.Listen(b.cfg.DemandPort); err != nil {
		return fmt.Errorf("demand port %d: %w", b.cfg.DemandPort, err)
	}
	if b.cfg.DriverPort != 0 {
		if b.driverListener, err = b.sock.Listen(b.cfg.DriverPort); err != nil {
			return fmt.Errorf("driver port %d: %w", b.cfg.DriverPort, err)
		}
	}

	b.log.EnableTime()
	if b.driverListener == api.NoDescriptor {
		b.log.Printf(
			"Listening on ports %d and %d...",
			b.cfg.SupplyPort, b.cfg.DemandPort,
		)
	} else {
		b.log.Printf(
			"Listening on ports %d, %d and %d...",
			b.cfg.SupplyPort, b.cfg.DemandPort, b.cfg.DriverPort,
		)
	}

	b.loop()

	if b.failed {
		return api.ErrServe
	}
	return nil
}

// forbidden logs an internal invariant violation with its call site. It is
// a bug indicator, never a runtime error: the loop keeps going.
func (b *Broker) forbidden() {
	_, file, line, _ := runtime.Caller(1)
	b.log.Printf("Forbidden condition met (%s:%d).", filepath.Base(file), line)
}
