// File: core/broker/loop.go
// Author: momentics <momentics@gmail.com>
//
// The event-loop iteration. Phase order is a contract: signals, serve,
// disconnections, connections, driver updates, incoming bytes, idle reap.
// Disconnections drain before connections so a descriptor number reused by
// the OS cannot be confused with a dying one.

package broker

import (
	"syscall"
	"time"
)

// alarmPeriod is the interval of the one-shot SIGALRM timer.
const alarmPeriod = time.Second

func (b *Broker) loop() {
	var buffer []byte

	b.sig.Alarm(alarmPeriod)

	for {
		alarmed := b.drainSignals()
		if alarmed {
			b.sig.Alarm(alarmPeriod)
		}

		if b.terminated {
			b.sock.Disconnect(b.demandListener)
			b.sock.Disconnect(b.supplyListener)
			b.sock.Disconnect(b.driverListener)

			// One more serve so the service observes the closures.
			_ = b.sock.Serve()
			return
		}

		if !alarmed {
			if err := b.sock.Serve(); err != nil {
				b.log.Printf("Error while serving the listening descriptors.")
				b.failed = true
				b.terminated = true
				continue
			}
		}

		now := b.now()

		b.drainDisconnections()
		newDemand := b.drainConnections(now)

		if newDemand > 0 || alarmed {
			b.notifyDrivers(now, newDemand)
		}

		b.drainIncoming(now, &buffer)

		if b.cfg.IdleTimeout > 0 && alarmed {
			b.reapIdle(now)
		}
	}
}

// drainSignals consumes every pending signal and reports whether a SIGALRM
// was among them. Terminating signals flip the sticky terminated flag.
// Every signal observed, the alarm included, is logged.
func (b *Broker) drainSignals() bool {
	alarmed := false
	for {
		sig, ok := b.sig.Next()
		if !ok {
			return alarmed
		}
		switch sig {
		case syscall.SIGALRM:
			alarmed = true
		case syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT:
			b.terminated = true
		}

		num := 0
		if s, ok := sig.(syscall.Signal); ok {
			num = int(s)
		}
		b.log.Separator()
		b.log.Printf("Caught signal %d (%s).", num, sig.String())
	}
}
