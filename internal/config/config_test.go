package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"session.default_minutes", cfg.Session.DefaultMinutes, 1},
		{"session.accounting", cfg.Session.Accounting, "compat"},
		{"audio.player", cfg.Audio.Player, PlayerBell},
		{"history.backend", cfg.History.Backend, BackendFile},
		{"journal.retention", cfg.Journal.Retention, 50},
		{"tui.accent_color", cfg.TUI.AccentColor, DefaultAccentColor},
		{"notifications.on_complete", cfg.Notifications.OnComplete, true},
		{"notifications.on_abandon", cfg.Notifications.OnAbandon, false},
		{"notifications.template", cfg.Notifications.Template, DefaultTemplate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), `
[session]
default_minutes = 10
accounting = "ticks"

[audio]
player = "command"
command = "paplay"

[audio.cues]
inhale = "/sounds/in.ogg"
finish = "/sounds/bowl.ogg"

[history]
backend = "sqlite"
path = "/tmp/h.db"

[journal]
dir = "/tmp/journal"
retention = 5

[tui]
accent_color = "#FF8800"

[notifications]
url = "https://ntfy.sh/bedtime"
on_complete = false
on_abandon = true
template = "done {{minutes}}"
`)

		cfg, err := Load(path)
		if err != nil {
			t.Fatal(err)
		}

		tests := []struct {
			name string
			got  any
			want any
		}{
			{"session.default_minutes", cfg.Session.DefaultMinutes, 10},
			{"session.accounting", cfg.Session.Accounting, "ticks"},
			{"audio.player", cfg.Audio.Player, "command"},
			{"audio.command", cfg.Audio.Command, "paplay"},
			{"audio.cues.inhale", cfg.Audio.Cues.Inhale, "/sounds/in.ogg"},
			{"audio.cues.hold", cfg.Audio.Cues.Hold, ""},
			{"history.backend", cfg.History.Backend, "sqlite"},
			{"history.path", cfg.History.Path, "/tmp/h.db"},
			{"journal.dir", cfg.Journal.Dir, "/tmp/journal"},
			{"journal.retention", cfg.Journal.Retention, 5},
			{"tui.accent_color", cfg.TUI.AccentColor, "#FF8800"},
			{"notifications.url", cfg.Notifications.URL, "https://ntfy.sh/bedtime"},
			{"notifications.on_complete", cfg.Notifications.OnComplete, false},
			{"notifications.on_abandon", cfg.Notifications.OnAbandon, true},
			{"notifications.template", cfg.Notifications.Template, "done {{minutes}}"},
			{"path", cfg.Path, path},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if tt.got != tt.want {
					t.Errorf("got %v, want %v", tt.got, tt.want)
				}
			})
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate: %v", err)
		}
	})

	t.Run("partial config uses defaults", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "[session]\ndefault_minutes = 3\n")

		cfg, err := Load(path)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Session.DefaultMinutes != 3 {
			t.Errorf("session.default_minutes: got %d, want 3", cfg.Session.DefaultMinutes)
		}
		if cfg.Audio.Player != PlayerBell {
			t.Errorf("audio.player: got %q, want %q (default)", cfg.Audio.Player, PlayerBell)
		}
		if cfg.Journal.Retention != 50 {
			t.Errorf("journal.retention: got %d, want 50 (default)", cfg.Journal.Retention)
		}
	})

	t.Run("unknown keys rejected", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "[session]\ndefault_minuts = 3\n")

		_, err := Load(path)
		if err == nil || !strings.Contains(err.Error(), "session.default_minuts") {
			t.Errorf("expected unknown key error naming session.default_minuts, got %v", err)
		}
	})

	t.Run("missing file returns error", func(t *testing.T) {
		if _, err := Load("/nonexistent/sleepy.toml"); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("invalid toml returns error", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "not valid [[[ toml")
		if _, err := Load(path); err == nil {
			t.Error("expected error for invalid TOML")
		}
	})
}

// isolate points every search location at empty temp dirs.
func isolate(t *testing.T) (cwd, configHome string) {
	t.Helper()
	cwd = t.TempDir()
	configHome = t.TempDir()
	t.Setenv(EnvConfig, "")
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("HOME", t.TempDir())

	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	if err := os.Chdir(cwd); err != nil {
		t.Fatal(err)
	}
	return cwd, configHome
}

func TestLoadSearch(t *testing.T) {
	t.Run("no config anywhere yields defaults", func(t *testing.T) {
		isolate(t)
		cfg, err := Load("")
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Path != "" || cfg.Session.DefaultMinutes != 1 {
			t.Errorf("expected built-in defaults, got %+v", cfg)
		}
	})

	t.Run("working directory", func(t *testing.T) {
		cwd, _ := isolate(t)
		writeConfig(t, cwd, "[session]\ndefault_minutes = 4\n")

		cfg, err := Load("")
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Session.DefaultMinutes != 4 {
			t.Errorf("default_minutes = %d, want 4", cfg.Session.DefaultMinutes)
		}
	})

	t.Run("user config dir", func(t *testing.T) {
		_, configHome := isolate(t)
		dir := filepath.Join(configHome, "sleepy")
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
		writeConfig(t, dir, "[session]\ndefault_minutes = 6\n")

		cfg, err := Load("")
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Session.DefaultMinutes != 6 {
			t.Errorf("default_minutes = %d, want 6", cfg.Session.DefaultMinutes)
		}
	})

	t.Run("env var wins", func(t *testing.T) {
		cwd, _ := isolate(t)
		writeConfig(t, cwd, "[session]\ndefault_minutes = 4\n")
		other := writeConfig(t, t.TempDir(), "[session]\ndefault_minutes = 9\n")
		t.Setenv(EnvConfig, other)

		cfg, err := Load("")
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Session.DefaultMinutes != 9 || cfg.Path != other {
			t.Errorf("got %d from %q, want 9 from %q", cfg.Session.DefaultMinutes, cfg.Path, other)
		}
	})

	t.Run("env var pointing nowhere is an error", func(t *testing.T) {
		isolate(t)
		t.Setenv(EnvConfig, filepath.Join(t.TempDir(), "missing.toml"))
		if _, err := Load(""); err == nil {
			t.Error("expected error for missing $SLEEPY_CONFIG target")
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero minutes", func(c *Config) { c.Session.DefaultMinutes = 0 }, "session.default_minutes"},
		{"bad accounting", func(c *Config) { c.Session.Accounting = "double" }, "session.accounting"},
		{"bad player", func(c *Config) { c.Audio.Player = "mp3" }, "audio.player"},
		{"command without binary", func(c *Config) { c.Audio.Player = PlayerCommand }, "audio.command"},
		{"bad backend", func(c *Config) { c.History.Backend = "redis" }, "history.backend"},
		{"negative retention", func(c *Config) { c.Journal.Retention = -1 }, "journal.retention"},
		{"bad color", func(c *Config) { c.TUI.AccentColor = "purple" }, "tui.accent_color"},
		{"bad url", func(c *Config) { c.Notifications.URL = "ftp://example.com" }, "notifications.url"},
		{"empty accounting is compat", func(c *Config) { c.Session.Accounting = "" }, ""},
		{"empty color allowed", func(c *Config) { c.TUI.AccentColor = "" }, ""},
		{"none player", func(c *Config) { c.Audio.Player = PlayerNone }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}

	t.Run("joins every problem", func(t *testing.T) {
		cfg := Defaults()
		cfg.Session.DefaultMinutes = 0
		cfg.Journal.Retention = -2
		err := cfg.Validate()
		if err == nil {
			t.Fatal("expected error")
		}
		for _, want := range []string{"session.default_minutes", "journal.retention"} {
			if !strings.Contains(err.Error(), want) {
				t.Errorf("error %q missing %q", err, want)
			}
		}
	})
}

func TestCuesFiles(t *testing.T) {
	c := CuesConfig{Inhale: "in.wav", Finish: "bowl.wav"}
	got := c.Files()
	if len(got) != 2 || got["inhale"] != "in.wav" || got["finish"] != "bowl.wav" {
		t.Errorf("Files() = %v", got)
	}
}

func TestPaths(t *testing.T) {
	t.Run("state dir precedence", func(t *testing.T) {
		t.Setenv(EnvHome, "/opt/sleepy")
		if got, _ := StateDir(); got != "/opt/sleepy" {
			t.Errorf("StateDir() = %q with %s set", got, EnvHome)
		}

		t.Setenv(EnvHome, "")
		t.Setenv("XDG_STATE_HOME", "/xdg/state")
		if got, _ := StateDir(); got != filepath.Join("/xdg/state", "sleepy") {
			t.Errorf("StateDir() = %q with XDG_STATE_HOME set", got)
		}

		t.Setenv("XDG_STATE_HOME", "")
		t.Setenv("HOME", "/home/dreamer")
		if got, _ := StateDir(); got != filepath.Join("/home/dreamer", ".local", "state", "sleepy") {
			t.Errorf("StateDir() = %q from HOME", got)
		}
	})

	t.Run("derived paths", func(t *testing.T) {
		cfg := Defaults()
		if got := cfg.HistoryPath("/s"); got != filepath.Join("/s", "history.json") {
			t.Errorf("file HistoryPath = %q", got)
		}
		cfg.History.Backend = BackendSQLite
		if got := cfg.HistoryPath("/s"); got != filepath.Join("/s", "history.db") {
			t.Errorf("sqlite HistoryPath = %q", got)
		}
		cfg.History.Path = "/custom.db"
		if got := cfg.HistoryPath("/s"); got != "/custom.db" {
			t.Errorf("explicit HistoryPath = %q", got)
		}
		if got := cfg.JournalDir("/s"); got != filepath.Join("/s", "sessions") {
			t.Errorf("JournalDir = %q", got)
		}
		cfg.Journal.Dir = "/j"
		if got := cfg.JournalDir("/s"); got != "/j" {
			t.Errorf("explicit JournalDir = %q", got)
		}
		if got := LogPath("/s"); got != filepath.Join("/s", "sleepy.log") {
			t.Errorf("LogPath = %q", got)
		}
	})
}

func TestInitFile(t *testing.T) {
	t.Run("creates sleepy.toml", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested")
		path, err := InitFile(dir)
		if err != nil {
			t.Fatal(err)
		}
		if filepath.Base(path) != FileName {
			t.Errorf("expected %s, got %s", FileName, filepath.Base(path))
		}

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("generated file is not valid: %v", err)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("generated file does not validate: %v", err)
		}
		defaults := Defaults()
		if cfg.Session != defaults.Session || cfg.Notifications != defaults.Notifications {
			t.Errorf("generated file diverges from Defaults(): %+v", cfg)
		}
	})

	t.Run("refuses to overwrite existing", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "existing")
		if _, err := InitFile(dir); err == nil {
			t.Error("expected error when sleepy.toml already exists")
		}
	})
}
