package gracedown

import "time"

// LoggerFunc is a printf-style logging hook. The zero value used by
// NewCoordinator discards everything.
type LoggerFunc func(format string, args ...any)

type Option func(*Coordinator)

// WithPolicy replaces the whole policy.
func WithPolicy(p Policy) Option {
	return func(c *Coordinator) { c.policy = p }
}

// WithDeadline overrides only the deadline, keeping the rest of the policy.
func WithDeadline(d time.Duration) Option {
	return func(c *Coordinator) { c.policy.Deadline = d }
}

// WithLogger sets the logging hook.
func WithLogger(l LoggerFunc) Option {
	return func(c *Coordinator) { c.logf = l }
}

// WithSignalSource injects an alternative signal subscription mechanism.
// Intended for tests.
func WithSignalSource(src SignalSource) Option {
	return func(c *Coordinator) { c.source = src }
}

// WithExitFunc replaces os.Exit. Intended for tests and for embedders that
// need to run their own teardown after the coordinator decides the exit path.
func WithExitFunc(exit func(code int)) Option {
	return func(c *Coordinator) { c.exit = exit }
}
