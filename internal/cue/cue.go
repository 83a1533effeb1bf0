// Package cue turns phase transitions into audio cue requests. The core only
// speaks cue names; binding a name to a sound is the Player's business.
package cue

import (
	"errors"
	"log"

	"github.com/LISSConsulting/LISSTech.Sleepy/internal/breath"
)

// Cue names.
const (
	Inhale = "inhale"
	Hold   = "hold"
	Exhale = "exhale"
	Finish = "finish"
)

// Names lists every cue the dispatcher may request.
var Names = []string{Inhale, Hold, Exhale, Finish}

// ErrNoCue is returned by players that have no resource bound to a name.
var ErrNoCue = errors.New("cue: no resource for cue")

// Player plays named cues. Play starts playback from the beginning at full
// volume and must not block until playback ends. Stop silences one cue and
// is a no-op when that cue is not playing.
type Player interface {
	Play(name string) error
	Stop(name string)
}

// Preloader is implemented by players that can prepare cues ahead of time.
type Preloader interface {
	Preload(name string) error
}

// Dispatcher maps session transitions onto a Player and keeps at most one
// cue audible at a time. It is not safe for concurrent use; the session
// controller calls it from its single event loop.
type Dispatcher struct {
	player  Player
	log     *log.Logger
	playing string
}

// NewDispatcher wraps player. A nil logger uses log.Default().
func NewDispatcher(player Player, logger *log.Logger) *Dispatcher {
	if player == nil {
		player = NopPlayer{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Dispatcher{player: player, log: logger}
}

// Playing returns the name of the cue most recently started, or "" after
// SilenceAll.
func (d *Dispatcher) Playing() string { return d.playing }

// Preload asks the player to prepare every cue. Failures are logged.
func (d *Dispatcher) Preload() {
	pl, ok := d.player.(Preloader)
	if !ok {
		return
	}
	for _, name := range Names {
		if err := pl.Preload(name); err != nil {
			d.log.Printf("cue: preload %s: %v", name, err)
		}
	}
}

// OnPhaseEnter silences everything and plays the cue for phase.
func (d *Dispatcher) OnPhaseEnter(phase breath.PhaseName) {
	d.SilenceAll()
	d.play(phase.Cue())
}

// OnComplete silences everything and plays the finish cue alone.
func (d *Dispatcher) OnComplete() {
	d.SilenceAll()
	d.play(Finish)
}

// SilenceAll stops every cue immediately.
func (d *Dispatcher) SilenceAll() {
	for _, name := range Names {
		d.player.Stop(name)
	}
	d.playing = ""
}

// play starts a cue. Playback failures never reach the session.
func (d *Dispatcher) play(name string) {
	if err := d.player.Play(name); err != nil {
		d.log.Printf("cue: play %s interrupted: %v", name, err)
		return
	}
	d.playing = name
}
