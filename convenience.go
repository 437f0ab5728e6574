package gracedown

// Default is the process-wide coordinator used by the package-level helpers.
// Libraries should accept a *Coordinator instead of reaching for Default;
// the helpers exist for applications that want the one-singleton usage the
// package was designed around.
var Default = NewCoordinator()

// InstallHandlers subscribes the Default coordinator to SIGINT and SIGTERM.
func InstallHandlers() error { return Default.InstallHandlers() }

// AtShutdown appends a cleanup callback to the Default coordinator.
func AtShutdown(cb Callback) { Default.AtShutdown(cb) }

// Trigger begins shutdown on the Default coordinator.
func Trigger() { Default.Trigger() }

// Done exposes the Default coordinator's terminal-decision channel.
func Done() <-chan struct{} { return Default.Done() }

// SetLogger sets the logging hook on the Default coordinator. Safe for
// concurrent use; the value is snapshotted when shutdown is triggered.
func SetLogger(l LoggerFunc) {
	Default.mu.Lock()
	Default.logf = l
	Default.mu.Unlock()
}

// SetPolicy replaces the policy on the Default coordinator. Safe for
// concurrent use; the value is snapshotted when shutdown is triggered.
func SetPolicy(p Policy) {
	Default.mu.Lock()
	Default.policy = p
	Default.mu.Unlock()
}
