package gracedown

import "time"

// Policy defines the coordinator's shutdown behavior.
type Policy struct {
	// Deadline bounds the whole shutdown sequence. When it elapses before
	// every callback has settled, the process is terminated forcibly.
	Deadline time.Duration

	// ForceOnRepeat makes a second termination signal (or Trigger call)
	// during an in-progress shutdown exit immediately with ForcedExitCode.
	ForceOnRepeat bool

	// LogPanics controls whether callback panics are logged before being
	// swallowed.
	LogPanics bool

	// CleanExitCode is used when all callbacks settle before the deadline.
	CleanExitCode int

	// ForcedExitCode is used on deadline expiry or escalation, so process
	// supervisors can tell a forced exit from a graceful one.
	ForcedExitCode int
}

func defaultPolicy() Policy {
	return Policy{
		Deadline:       DeadlineFromEnv(),
		ForceOnRepeat:  true,
		LogPanics:      true,
		CleanExitCode:  0,
		ForcedExitCode: 1,
	}
}
