package notify

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/LISSConsulting/LISSTech.Sleepy/internal/session"
)

// captureServer starts an httptest.Server that records incoming requests.
// It returns the server and a function to collect all captured requests.
func captureServer(t *testing.T) (*httptest.Server, func() []capturedReq) {
	t.Helper()
	var mu sync.Mutex
	var reqs []capturedReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, capturedReq{
			method:      r.Method,
			body:        string(body),
			contentType: r.Header.Get("Content-Type"),
			title:       r.Header.Get("X-Title"),
		})
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []capturedReq {
		mu.Lock()
		defer mu.Unlock()
		out := make([]capturedReq, len(reqs))
		copy(out, reqs)
		return out
	}
}

type capturedReq struct {
	method      string
	body        string
	contentType string
	title       string
}

func mustNew(t *testing.T, opts Options) *Notifier {
	t.Helper()
	n, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return n
}

func completed(target int, today float64) session.Event {
	return session.Event{
		Kind:          session.EventCompleted,
		Timestamp:     time.Now(),
		SessionID:     "20240101T213000-1",
		TargetMinutes: target,
		Elapsed:       76,
		TodayMinutes:  today,
	}
}

func TestHook_OnComplete(t *testing.T) {
	srv, collect := captureServer(t)

	n := mustNew(t, Options{URL: srv.URL, Title: "bedtime", OnComplete: true})
	n.Hook(completed(1, 3))
	n.Wait()

	reqs := collect()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
	r := reqs[0]
	if r.method != http.MethodPost {
		t.Errorf("method = %q, want POST", r.method)
	}
	want := "Breathing session complete: 1 min. Today: 3 min."
	if r.body != want {
		t.Errorf("body = %q, want %q", r.body, want)
	}
	if r.contentType != "text/plain" {
		t.Errorf("Content-Type = %q, want text/plain", r.contentType)
	}
	if r.title != "bedtime" {
		t.Errorf("X-Title = %q, want bedtime", r.title)
	}
}

func TestHook_OnComplete_Disabled(t *testing.T) {
	srv, collect := captureServer(t)

	n := mustNew(t, Options{URL: srv.URL})
	n.Hook(completed(1, 1))
	n.Wait()

	if got := collect(); len(got) != 0 {
		t.Errorf("expected no requests, got %d", len(got))
	}
}

func TestHook_OnAbandon(t *testing.T) {
	srv, collect := captureServer(t)

	n := mustNew(t, Options{URL: srv.URL, OnAbandon: true})
	n.Hook(session.Event{Kind: session.EventAbandoned, TargetMinutes: 5, Elapsed: 95})
	n.Wait()

	reqs := collect()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
	want := "Breathing session stopped after 1:35 of 5 min."
	if reqs[0].body != want {
		t.Errorf("body = %q, want %q", reqs[0].body, want)
	}
}

func TestHook_IgnoresOtherKinds(t *testing.T) {
	srv, collect := captureServer(t)

	n := mustNew(t, Options{URL: srv.URL, OnComplete: true})
	for _, kind := range []session.EventKind{
		session.EventStarted, session.EventPhase, session.EventPaused,
		session.EventResumed, session.EventAbandoned,
	} {
		n.Hook(session.Event{Kind: kind})
	}
	n.Wait()

	if got := collect(); len(got) != 0 {
		t.Errorf("expected no requests for non-notification kinds, got %d", len(got))
	}
}

func TestHook_FallbackTitle(t *testing.T) {
	srv, collect := captureServer(t)

	n := mustNew(t, Options{URL: srv.URL, OnComplete: true})
	n.Hook(completed(1, 1))
	n.Wait()

	reqs := collect()
	if len(reqs) != 1 || reqs[0].title != DefaultTitle {
		t.Errorf("requests = %+v, want one with X-Title %q", reqs, DefaultTitle)
	}
}

func TestHook_PostFailureSilent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	n := mustNew(t, Options{URL: srv.URL, OnComplete: true, OnAbandon: true})
	n.Hook(completed(1, 1))
	n.Hook(session.Event{Kind: session.EventAbandoned})
	n.Wait()
}

func TestMessage_Template(t *testing.T) {
	tests := []struct {
		name     string
		template string
		ev       session.Event
		want     string
	}{
		{
			name: "default, whole minutes",
			ev:   completed(10, 25),
			want: "Breathing session complete: 10 min. Today: 25 min.",
		},
		{
			name: "default, fractional today",
			ev:   completed(1, 2.5),
			want: "Breathing session complete: 1 min. Today: 2.5 min.",
		},
		{
			name:     "custom fields",
			template: "{{session}} took {{elapsed}}",
			ev:       completed(1, 1),
			want:     "20240101T213000-1 took 1:16",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := mustNew(t, Options{Template: tt.template})
			if got := n.Message(tt.ev); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNew_BadTemplate(t *testing.T) {
	if _, err := New(Options{Template: "{{#open}} never closed"}); err == nil {
		t.Fatal("expected error for unterminated section")
	}
}
