// Package notify sends fire-and-forget HTTP notifications for session
// events. The primary target is ntfy.sh, but any HTTP webhook works.
package notify

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cbroglie/mustache"
	"github.com/dustin/go-humanize"

	"github.com/LISSConsulting/LISSTech.Sleepy/internal/session"
)

// DefaultTemplate renders the completion message.
const DefaultTemplate = "Breathing session complete: {{minutes}} min. Today: {{today}} min."

// DefaultTitle is sent as X-Title when none is configured.
const DefaultTitle = "Sleepy"

// Options configures a Notifier.
type Options struct {
	URL        string
	Title      string
	OnComplete bool
	OnAbandon  bool
	Template   string // mustache; DefaultTemplate when empty
}

// Notifier posts plain-text HTTP notifications for selected session events.
type Notifier struct {
	opts   Options
	client *http.Client
	wg     sync.WaitGroup
}

// New creates a Notifier. The template is parsed up front so a broken one
// fails at startup instead of on the first completed session.
func New(opts Options) (*Notifier, error) {
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.Template == "" {
		opts.Template = DefaultTemplate
	}
	if _, err := mustache.ParseString(opts.Template); err != nil {
		return nil, fmt.Errorf("notify: parse template: %w", err)
	}
	return &Notifier{
		opts:   opts,
		client: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Message renders the notification text for ev.
func (n *Notifier) Message(ev session.Event) string {
	if ev.Kind == session.EventAbandoned {
		return fmt.Sprintf("Breathing session stopped after %s of %d min.",
			clockString(ev.Elapsed), ev.TargetMinutes)
	}
	msg, err := mustache.Render(n.opts.Template, map[string]any{
		"minutes": ev.TargetMinutes,
		"today":   humanize.Ftoa(ev.TodayMinutes),
		"elapsed": clockString(ev.Elapsed),
		"session": ev.SessionID,
	})
	if err != nil {
		return fmt.Sprintf("Breathing session complete: %d min.", ev.TargetMinutes)
	}
	return msg
}

// Hook is a session.Options.Hook-compatible function. It fires an
// asynchronous POST for events matching the configured flags.
func (n *Notifier) Hook(ev session.Event) {
	switch ev.Kind {
	case session.EventCompleted:
		if n.opts.OnComplete {
			n.send(n.Message(ev))
		}
	case session.EventAbandoned:
		if n.opts.OnAbandon {
			n.send(n.Message(ev))
		}
	}
}

// Wait blocks until every in-flight POST has finished.
func (n *Notifier) Wait() { n.wg.Wait() }

func (n *Notifier) send(message string) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.post(message)
	}()
}

// post sends a plain-text POST to the configured URL. Errors are discarded
// so notification failures never interrupt a session.
func (n *Notifier) post(message string) {
	req, err := http.NewRequest(http.MethodPost, n.opts.URL, strings.NewReader(message))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("X-Title", n.opts.Title)
	resp, err := n.client.Do(req)
	if err != nil {
		return
	}
	resp.Body.Close()
}

// clockString formats seconds as m:ss.
func clockString(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
