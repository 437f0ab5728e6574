package gracedown

import (
	"os"
	"syscall"
)

// terminationSignals are the two conventional ways of asking a process to
// stop: interrupt (kill -2, Ctrl-C) and terminate (kill -15, the default for
// kill and for most supervisors).
var terminationSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// InstallHandlers subscribes the coordinator to SIGINT and SIGTERM and starts
// the dispatch goroutine. The OS-level handler only forwards each delivery
// onto a buffered channel; the dispatch goroutine consumes it and calls
// Trigger, so no shutdown logic ever runs in signal-delivery context.
//
// Call once at startup, before serving begins. A second call returns
// ErrAlreadyInstalled.
func (c *Coordinator) InstallHandlers() error {
	c.mu.Lock()
	if c.installed {
		c.mu.Unlock()
		return ErrAlreadyInstalled
	}
	c.installed = true
	c.sigch = make(chan os.Signal, 2)
	src := c.source
	sigch := c.sigch
	c.mu.Unlock()

	src.Notify(sigch, terminationSignals...)

	go func() {
		for sig := range sigch {
			c.mu.Lock()
			logf := c.logf
			c.mu.Unlock()
			logf("gracedown: caught signal %v", sig)
			c.Trigger()
		}
	}()
	return nil
}
