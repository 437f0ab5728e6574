// Package gracedown coordinates graceful shutdown of a long-running process.
// It intercepts SIGINT and SIGTERM, runs a registered set of cleanup callbacks
// in registration order, and guarantees the process exits: cleanly when every
// callback settles before the deadline, forcibly when the deadline elapses
// first. A repeated termination signal escalates to an immediate forced exit.
package gracedown

import (
	"os"
	"runtime/debug"
	"sync"
	"time"
)

// Callback is a single unit of cleanup work run during shutdown. Callbacks
// take no arguments and return nothing; a panic inside a callback is
// recovered, logged, and does not stop the remaining callbacks or the exit.
type Callback func()

// shutdownState tracks the coordinator lifecycle. The idle to inProgress
// transition happens at most once per process.
type shutdownState int

const (
	stateIdle shutdownState = iota
	stateInProgress
	stateCompleted
)

// Coordinator owns the callback registry, the shutdown state machine, and the
// deadline race. All exported methods are safe for concurrent use, though the
// expected pattern is single-threaded registration during startup followed by
// signal-driven triggering.
type Coordinator struct {
	mu sync.Mutex

	// configuration
	policy Policy
	logf   LoggerFunc
	source SignalSource
	exit   func(int)

	// state
	callbacks []Callback
	state     shutdownState
	installed bool
	sigch     chan os.Signal

	exitOnce sync.Once
	done     chan struct{}
}

// NewCoordinator builds a Coordinator with the default policy (deadline from
// the environment, escalation on a repeated signal) and applies any options.
func NewCoordinator(opts ...Option) *Coordinator {
	c := &Coordinator{
		policy: defaultPolicy(),
		logf:   func(string, ...any) {},
		source: &osSignalSource{},
		exit:   os.Exit,
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AtShutdown appends cb to the registry. The registry is append-only and
// preserves registration order; there is no removal. Registration is expected
// to complete during startup — calling AtShutdown after the shutdown sequence
// has been triggered is unsupported and the callback may never run.
func (c *Coordinator) AtShutdown(cb Callback) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.callbacks = append(c.callbacks, cb)
}

// Trigger begins the shutdown sequence. The first call transitions the
// coordinator from idle to in-progress, snapshots the registry, and starts
// the callback runner and the deadline timer as two independent goroutines
// racing to decide the exit path. While shutdown is in progress a further
// call is a no-op for callbacks; with Policy.ForceOnRepeat it escalates to
// an immediate forced exit instead. After completion Trigger does nothing.
//
// Signal delivery and Trigger share these semantics: the interceptor calls
// Trigger once per delivered signal.
func (c *Coordinator) Trigger() {
	c.mu.Lock()
	switch c.state {
	case stateIdle:
		c.state = stateInProgress
		cbs := append([]Callback(nil), c.callbacks...)
		policy := c.policy
		logf := c.logf
		c.mu.Unlock()
		go c.run(cbs, policy, logf)
	case stateInProgress:
		policy := c.policy
		logf := c.logf
		c.mu.Unlock()
		if policy.ForceOnRepeat {
			logf("gracedown: repeated signal during shutdown, forcing exit")
			c.finish(policy.ForcedExitCode)
		}
	default:
		c.mu.Unlock()
	}
}

// Done returns a channel closed once the coordinator has decided its exit
// path (clean completion, deadline expiry, or escalation). Useful for
// embedders that install a non-exiting exit function.
func (c *Coordinator) Done() <-chan struct{} {
	return c.done
}

// run executes the snapshot of callbacks sequentially while a deadline timer
// counts down alongside. Whichever settles first picks the exit code. With an
// empty snapshot the settled channel closes immediately and no deadline wait
// occurs.
func (c *Coordinator) run(cbs []Callback, policy Policy, logf LoggerFunc) {
	logf("gracedown: shutdown started, %d callbacks, forcing exit in %s", len(cbs), policy.Deadline)

	settled := make(chan struct{})
	go func() {
		for i, cb := range cbs {
			invoke(i, cb, policy, logf)
		}
		close(settled)
	}()

	timer := time.NewTimer(policy.Deadline)
	defer timer.Stop()

	select {
	case <-settled:
		c.mu.Lock()
		c.state = stateCompleted
		c.mu.Unlock()
		logf("gracedown: shutdown complete")
		c.finish(policy.CleanExitCode)
	case <-timer.C:
		logf("gracedown: deadline passed, forcing exit")
		c.finish(policy.ForcedExitCode)
	}
}

// finish terminates the process through the configured exit function. The
// first caller wins; escalation and the deadline timer may both reach here.
func (c *Coordinator) finish(code int) {
	c.exitOnce.Do(func() {
		close(c.done)
		c.exit(code)
	})
}

// invoke runs one callback with panic recovery so a failing callback cannot
// take down the shutdown sequence.
func invoke(idx int, cb Callback, policy Policy, logf LoggerFunc) {
	defer func() {
		if rec := recover(); rec != nil {
			if policy.LogPanics {
				logf("gracedown: callback %d panicked: %v\n%s", idx, rec, string(debug.Stack()))
			}
		}
	}()
	cb()
}
