// Package breath defines the fixed Inhale/Hold/Exhale cycle and the pure
// session state machine that walks through it one tick at a time.
package breath

import "strings"

// PhaseName identifies one segment of the breathing cycle.
type PhaseName string

const (
	Inhale PhaseName = "Inhale"
	Hold   PhaseName = "Hold"
	Exhale PhaseName = "Exhale"
)

// Cue returns the lower-case cue name played when the phase begins.
func (n PhaseName) Cue() string {
	return strings.ToLower(string(n))
}

// Phase is one named, fixed-duration segment of the cycle.
type Phase struct {
	Name     PhaseName
	Duration int // seconds
}

// cycle is the 4-7-8 breathing pattern. Order matters: index 0 starts every
// session and every wrap.
var cycle = [...]Phase{
	{Name: Inhale, Duration: 4},
	{Name: Hold, Duration: 7},
	{Name: Exhale, Duration: 8},
}

// PhaseAt returns the phase at index i, wrapping out-of-range indexes.
func PhaseAt(i int) Phase {
	i %= len(cycle)
	if i < 0 {
		i += len(cycle)
	}
	return cycle[i]
}

// Next returns the index following i, wrapping after the last phase.
func Next(i int) int {
	return (i + 1) % len(cycle)
}

// TotalCycleDuration returns the sum of all phase durations in seconds.
func TotalCycleDuration() int {
	total := 0
	for _, p := range cycle {
		total += p.Duration
	}
	return total
}

// Phases returns a copy of the full cycle in order.
func Phases() []Phase {
	out := make([]Phase, len(cycle))
	copy(out, cycle[:])
	return out
}
