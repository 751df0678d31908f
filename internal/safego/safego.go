// Package safego launches background goroutines that survive panics. Audit
// writes and shipper deliveries run fire-and-forget after the response is
// sent, so a panic there must not take the whole portal down or vanish
// without a trace in the logs.
package safego

import (
	"log/slog"
	"runtime/debug"
)

// Go launches fn in a new goroutine under the given name. A panic in fn is
// recovered and logged with its stack; the name identifies which background
// task blew up when reading the logs.
func Go(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("background goroutine panicked",
					"name", name,
					"panic", r,
					"stack", string(debug.Stack()),
				)
			}
		}()
		fn()
	}()
}
