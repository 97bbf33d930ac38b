// File: core/broker/pairing.go
// Author: momentics <momentics@gmail.com>
//
// Accept classification, the waiting queues and the disconnect cascade.
//
// An unmet peer is frozen so its bytes stay in the kernel until a partner
// exists; that is the daemon's only backpressure primitive. Pairing picks
// an arbitrary member of the unmet set (map iteration order); consumers
// must not rely on any particular choice.

package broker

import "github.com/momentics/pairflow/api"

// drainDisconnections consumes the disconnection queue. A paired peer's
// death cascades to its partner: the partner's mapping is first broken with
// the NoDescriptor sentinel so the second pass finds a half-open pair and
// stops instead of cascading forever.
func (b *Broker) drainDisconnections() {
	for {
		d := b.sock.NextDisconnection()
		if d == api.NoDescriptor {
			return
		}

		b.log.Printf(
			"Disconnected %s:%s (descriptor %d).",
			b.sock.GetHost(d), b.sock.GetPort(d), d,
		)

		delete(b.lastActivity, d)

		if _, ok := b.drivers[d]; ok {
			delete(b.drivers, d)
			continue
		}

		other := api.NoDescriptor
		if partner, ok := b.supplyMap[d]; ok {
			other = partner
			delete(b.supplyMap, d)
		} else if partner, ok := b.demandMap[d]; ok {
			other = partner
			delete(b.demandMap, d)
		} else {
			delete(b.unmetSupply, d)
			delete(b.unmetDemand, d)
		}

		if other != api.NoDescriptor {
			if _, ok := b.supplyMap[other]; ok {
				b.supplyMap[other] = api.NoDescriptor
			} else if _, ok := b.demandMap[other]; ok {
				b.demandMap[other] = api.NoDescriptor
			}
			b.sock.Disconnect(other)
		}
	}
}

// drainConnections consumes the new-connection queue, classifying each
// descriptor by its accepting listener. Returns how many demand peers were
// queued unmatched this iteration.
func (b *Broker) drainConnections(now int64) int {
	newDemand := 0
	for {
		d := b.sock.NextConnection()
		if d == api.NoDescriptor {
			return newDemand
		}

		b.log.Printf(
			"New connection from %s:%s (descriptor %d).",
			b.sock.GetHost(d), b.sock.GetPort(d), d,
		)

		b.lastActivity[d] = now

		switch listener := b.sock.GetListener(d); {
		case listener == b.supplyListener:
			if other, ok := b.takeUnmet(b.unmetDemand); ok {
				b.supplyMap[d] = other
				b.demandMap[other] = d
				b.sock.Unfreeze(other)
				b.lastActivity[other] = now
			} else {
				b.unmetSupply[d] = struct{}{}
				b.sock.Freeze(d)
			}

		case listener == b.demandListener:
			if other, ok := b.takeUnmet(b.unmetSupply); ok {
				b.demandMap[d] = other
				b.supplyMap[other] = d
				b.sock.Unfreeze(other)
				b.lastActivity[other] = now
			} else {
				b.unmetDemand[d] = struct{}{}
				b.sock.Freeze(d)
				newDemand++
			}

		case listener == b.driverListener && b.driverListener != api.NoDescriptor:
			b.drivers[d] = struct{}{}

			// One-time marker: a brand-new driver is told the backlog right
			// here, so the notifier must skip it for the rest of this
			// iteration. See notifyDrivers.
			b.lastActivity[d] = now + 1

			b.sock.Writef(d, "%d\n", len(b.unmetDemand))

		default:
			b.forbidden()
		}
	}
}

// takeUnmet pops an arbitrary member of an unmet set.
func (b *Broker) takeUnmet(set map[api.Descriptor]struct{}) (api.Descriptor, bool) {
	for d := range set {
		delete(set, d)
		return d, true
	}
	return api.NoDescriptor, false
}
