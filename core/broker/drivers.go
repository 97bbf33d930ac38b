// File: core/broker/drivers.go
// Author: momentics <momentics@gmail.com>
//
// Driver backlog notifications. Drivers receive ASCII decimal counts, one
// per line: the new-demand delta when demand arrived this iteration, or
// the absolute backlog on the periodic timer. The protocol does not tag
// which is which; drivers tolerate both.

package broker

// notifyDrivers runs when demand arrived this iteration or on an alarmed
// iteration. newDemand is zero on the purely periodic path.
func (b *Broker) notifyDrivers(now int64, newDemand int) {
	for d := range b.drivers {
		if b.lastActivity[d] > now {
			// Brand-new driver: it was told the current backlog at accept
			// time, so only normalize its marker timestamp.
			b.lastActivity[d] = now
			continue
		}

		if newDemand == 0 {
			period := int64(b.cfg.DriverPeriod)
			if period == 0 || now-b.lastActivity[d] < period {
				continue
			}
			b.sock.Writef(d, "%d\n", len(b.unmetDemand))
		} else {
			b.sock.Writef(d, "%d\n", newDemand)
		}

		b.lastActivity[d] = now
	}
}
