// Package restart coordinates server rebuilds. Listener scheme changes
// (ports, TLS, unix socket) cannot be applied to running listeners, so
// the config handler triggers a restart and the main loop rebuilds the
// server with the merged configuration.
package restart

import "sync"

var (
	restartChan chan struct{}
	mu          sync.Mutex
)

// SetChan sets the channel the next Trigger closes. The main loop
// installs a fresh channel before each server generation.
func SetChan(ch chan struct{}) {
	mu.Lock()
	defer mu.Unlock()
	restartChan = ch
}

// Trigger requests a restart. Safe to call more than once per
// generation; only the first call closes the channel. A Trigger with no
// channel installed is a no-op.
func Trigger() {
	mu.Lock()
	defer mu.Unlock()
	if restartChan != nil {
		close(restartChan)
		restartChan = nil
	}
}
