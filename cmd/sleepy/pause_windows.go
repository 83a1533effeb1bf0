//go:build windows

package main

import "os"

// pauseSignals has no pause signal on Windows; the nil channel never fires.
func pauseSignals() (<-chan os.Signal, func()) {
	return nil, func() {}
}
