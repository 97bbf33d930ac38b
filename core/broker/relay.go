// File: core/broker/relay.go
// Author: momentics <momentics@gmail.com>
//
// Byte relay between paired peers. Whole incoming buffers are swapped out
// of the socket service and appended to the partner's outgoing queue; no
// framing, parsing or rewriting happens anywhere on this path.

package broker

import "github.com/momentics/pairflow/api"

func (b *Broker) drainIncoming(now int64, buffer *[]byte) {
	for {
		d := b.sock.NextIncoming()
		if d == api.NoDescriptor {
			return
		}

		b.sock.SwapIncoming(d, buffer)

		if _, isDriver := b.drivers[d]; !isDriver {
			forwardTo, mapped := b.supplyMap[d]
			if !mapped {
				forwardTo, mapped = b.demandMap[d]
			}

			switch {
			case !mapped:
				// Bytes from a descriptor that is neither paired, queued
				// nor a driver: queued peers are frozen, so this cannot
				// happen under valid inputs.
				b.forbidden()
			case forwardTo == api.NoDescriptor:
				// Partner died earlier this iteration; the cascade will
				// collect d shortly. Drop the bytes.
			default:
				if b.cfg.Verbose {
					n := len(*buffer)
					plural, verb := "s", "are"
					if n == 1 {
						plural, verb = "", "is"
					}
					b.log.Printf(
						"%d byte%s from %s:%s %s sent to %s:%s.",
						n, plural,
						b.sock.GetHost(d), b.sock.GetPort(d), verb,
						b.sock.GetHost(forwardTo), b.sock.GetPort(forwardTo),
					)
				}

				b.sock.AppendOutgoing(forwardTo, *buffer)
				b.lastActivity[forwardTo] = now
			}
		}

		b.lastActivity[d] = now
	}
}
