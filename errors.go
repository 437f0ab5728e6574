package gracedown

import "errors"

var (
	// ErrAlreadyInstalled is returned by InstallHandlers when the
	// coordinator is already subscribed to termination signals.
	ErrAlreadyInstalled = errors.New("gracedown: handlers already installed")
)
