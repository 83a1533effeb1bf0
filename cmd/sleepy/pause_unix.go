//go:build !windows

package main

import (
	"os"
	"os/signal"
	"syscall"
)

// pauseSignals delivers SIGUSR1, which pauses or resumes a headless
// session (`kill -USR1 <pid>`). The returned func stops delivery.
func pauseSignals() (<-chan os.Signal, func()) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGUSR1)
	return sigs, func() { signal.Stop(sigs) }
}
