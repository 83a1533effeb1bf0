package cue

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
)

// NopPlayer discards every request.
type NopPlayer struct{}

// Play does nothing.
func (NopPlayer) Play(string) error { return nil }

// Stop does nothing.
func (NopPlayer) Stop(string) {}

// BellPlayer rings the terminal bell. The finish cue rings twice. A bell
// cannot be interrupted, so Stop is a no-op.
type BellPlayer struct {
	W  io.Writer
	mu sync.Mutex
}

// NewBellPlayer returns a BellPlayer writing to w.
func NewBellPlayer(w io.Writer) *BellPlayer {
	return &BellPlayer{W: w}
}

// Play writes BEL characters for the cue.
func (b *BellPlayer) Play(name string) error {
	bell := "\a"
	if name == Finish {
		bell = "\a\a"
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := io.WriteString(b.W, bell); err != nil {
		return fmt.Errorf("cue: bell: %w", err)
	}
	return nil
}

// Stop is a no-op.
func (b *BellPlayer) Stop(string) {}

// CommandPlayer plays a cue by running an external audio command (for
// example "paplay" or "afplay") with the cue's sound file as its argument.
// Each cue has at most one process; Stop kills it.
type CommandPlayer struct {
	Command string
	Files   map[string]string // cue name -> sound file

	mu      sync.Mutex
	running map[string]context.CancelFunc
}

// NewCommandPlayer returns a CommandPlayer running command for the given
// cue files.
func NewCommandPlayer(command string, files map[string]string) *CommandPlayer {
	return &CommandPlayer{
		Command: command,
		Files:   files,
		running: make(map[string]context.CancelFunc),
	}
}

// Preload checks that the cue's sound file exists.
func (p *CommandPlayer) Preload(name string) error {
	file, ok := p.Files[name]
	if !ok || file == "" {
		return fmt.Errorf("%w %q", ErrNoCue, name)
	}
	if _, err := os.Stat(file); err != nil {
		return fmt.Errorf("cue: preload %s: %w", name, err)
	}
	return nil
}

// Play stops any previous run of the cue and starts the command again,
// without waiting for it to finish.
func (p *CommandPlayer) Play(name string) error {
	file, ok := p.Files[name]
	if !ok || file == "" {
		return fmt.Errorf("%w %q", ErrNoCue, name)
	}

	p.Stop(name)

	ctx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(ctx, p.Command, file)
	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("cue: start %s: %w", p.Command, err)
	}

	p.mu.Lock()
	if p.running == nil {
		p.running = make(map[string]context.CancelFunc)
	}
	p.running[name] = cancel
	p.mu.Unlock()

	go func() {
		_ = cmd.Wait()
		cancel()
	}()
	return nil
}

// Stop kills the cue's process, if any.
func (p *CommandPlayer) Stop(name string) {
	p.mu.Lock()
	cancel, ok := p.running[name]
	delete(p.running, name)
	p.mu.Unlock()
	if ok {
		cancel()
	}
}
