package gracedown

import (
	"os"
	"os/signal"
)

// SignalSource abstracts process-level signal subscription so tests can
// inject deliveries without raising real signals.
type SignalSource interface {
	// Notify registers the provided channel to receive the given signals.
	Notify(chan<- os.Signal, ...os.Signal)
}

// osSignalSource is the production implementation, delegating to the
// standard library's signal.Notify.
type osSignalSource struct{}

func (*osSignalSource) Notify(c chan<- os.Signal, sig ...os.Signal) {
	signal.Notify(c, sig...)
}
