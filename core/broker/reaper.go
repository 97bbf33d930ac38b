// File: core/broker/reaper.go
// Author: momentics <momentics@gmail.com>
//
// Idle reaping. Runs on alarmed iterations only. Disconnection is issued
// here; the actual state removal happens in the next disconnection drain,
// so iterating the activity map stays safe.

package broker

func (b *Broker) reapIdle(now int64) {
	timeout := int64(b.cfg.IdleTimeout)
	for d, ts := range b.lastActivity {
		if now-ts < timeout {
			continue
		}
		if b.cfg.Verbose {
			b.log.Printf(
				"Connection %s:%s has timed out (descriptor %d).",
				b.sock.GetHost(d), b.sock.GetPort(d), d,
			)
		}
		b.sock.Disconnect(d)
	}
}
