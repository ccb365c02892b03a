// Package interrupt implements the cooperative shutdown flag. The first
// signal sets the flag, which the processing loop polls at section and
// node boundaries; the handler then hands the signal back to the
// runtime, so a second signal terminates the process immediately.
package interrupt

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/rs/zerolog"
)

// Flag is a write-once-true cancellation token.
type Flag struct {
	set atomic.Bool
}

// Set marks the flag. Idempotent; never reset within a run.
func (f *Flag) Set() {
	f.set.Store(true)
}

// Interrupted reports whether the flag has been set.
func (f *Flag) Interrupted() bool {
	return f.set.Load()
}

// Install registers the one-shot signal handler and returns the flag it
// sets. After the first SIGINT/SIGTERM the default disposition is
// restored, so repeating the signal kills the process outright.
func Install(log zerolog.Logger) *Flag {
	f := &Flag{}
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-ch
		f.Set()
		signal.Stop(ch)
		signal.Reset(os.Interrupt, syscall.SIGTERM)
		log.Warn().Str("signal", sig.String()).
			Msg("interrupt received; finishing current request, then stopping (repeat to terminate immediately)")
	}()
	return f
}
