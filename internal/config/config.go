// Package config parses sleepy.toml.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/LISSConsulting/LISSTech.Sleepy/internal/breath"
)

// FileName is the config file name searched for and written by InitFile.
const FileName = "sleepy.toml"

// EnvConfig names an explicit config file path.
const EnvConfig = "SLEEPY_CONFIG"

// DefaultAccentColor is the default TUI accent color (indigo).
const DefaultAccentColor = "#7D56F4"

// DefaultTemplate is the default completion notification message.
const DefaultTemplate = "Breathing session complete: {{minutes}} min. Today: {{today}} min."

// Audio players.
const (
	PlayerBell    = "bell"
	PlayerCommand = "command"
	PlayerNone    = "none"
)

// History backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// hexColorRe matches a 6-digit hex color string like "#7D56F4".
var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Config is the top-level sleepy.toml configuration.
type Config struct {
	Session       SessionConfig       `toml:"session"`
	Audio         AudioConfig         `toml:"audio"`
	History       HistoryConfig       `toml:"history"`
	Journal       JournalConfig       `toml:"journal"`
	TUI           TUIConfig           `toml:"tui"`
	Notifications NotificationsConfig `toml:"notifications"`

	// Path is the file the config was loaded from, "" for built-in defaults.
	Path string `toml:"-"`
}

// SessionConfig controls session defaults.
type SessionConfig struct {
	DefaultMinutes int    `toml:"default_minutes"`
	Accounting     string `toml:"accounting"` // "compat" or "ticks"
}

// AudioConfig selects how cues are made audible.
type AudioConfig struct {
	Player  string     `toml:"player"`
	Command string     `toml:"command"`
	Cues    CuesConfig `toml:"cues"`
}

// CuesConfig binds cue names to sound files for the command player.
type CuesConfig struct {
	Inhale string `toml:"inhale"`
	Hold   string `toml:"hold"`
	Exhale string `toml:"exhale"`
	Finish string `toml:"finish"`
}

// Files returns the configured cue-to-file bindings, skipping empty ones.
func (c CuesConfig) Files() map[string]string {
	files := make(map[string]string)
	for name, path := range map[string]string{
		"inhale": c.Inhale,
		"hold":   c.Hold,
		"exhale": c.Exhale,
		"finish": c.Finish,
	} {
		if path != "" {
			files[name] = path
		}
	}
	return files
}

// HistoryConfig selects the practice history backend.
type HistoryConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"` // default: <state dir>/history.json or history.db
}

// JournalConfig controls the JSONL session journal.
type JournalConfig struct {
	Dir       string `toml:"dir"`       // default: <state dir>/sessions
	Retention int    `toml:"retention"` // journal files kept; 0 = unlimited
}

// TUIConfig controls the terminal UI appearance.
type TUIConfig struct {
	AccentColor string `toml:"accent_color"`
}

// NotificationsConfig controls webhook/ntfy.sh notifications.
type NotificationsConfig struct {
	URL        string `toml:"url"`
	OnComplete bool   `toml:"on_complete"`
	OnAbandon  bool   `toml:"on_abandon"`
	Template   string `toml:"template"`
}

// Validate checks the configuration for issues that would cause confusing
// runtime failures. It returns all found issues joined together.
func (c *Config) Validate() error {
	var errs []error

	if c.Session.DefaultMinutes < 1 {
		errs = append(errs, fmt.Errorf("session.default_minutes must be >= 1"))
	}
	if _, err := breath.ParseAccounting(c.Session.Accounting); err != nil {
		errs = append(errs, fmt.Errorf("session.accounting must be \"compat\" or \"ticks\""))
	}

	switch c.Audio.Player {
	case PlayerBell, PlayerNone:
	case PlayerCommand:
		if c.Audio.Command == "" {
			errs = append(errs, fmt.Errorf("audio.command must be set when audio.player is \"command\""))
		}
	default:
		errs = append(errs, fmt.Errorf("audio.player must be one of bell, command, none"))
	}

	switch c.History.Backend {
	case BackendFile, BackendSQLite:
	default:
		errs = append(errs, fmt.Errorf("history.backend must be \"file\" or \"sqlite\""))
	}

	if c.Journal.Retention < 0 {
		errs = append(errs, fmt.Errorf("journal.retention must be >= 0 (0 = unlimited)"))
	}

	if c.TUI.AccentColor != "" && !hexColorRe.MatchString(c.TUI.AccentColor) {
		errs = append(errs, fmt.Errorf("tui.accent_color must be a hex color (e.g. \"#7D56F4\")"))
	}

	if c.Notifications.URL != "" {
		u, parseErr := url.ParseRequestURI(c.Notifications.URL)
		if parseErr != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fmt.Errorf("notifications.url must be a valid http or https URL"))
		}
	}

	return errors.Join(errs...)
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Session: SessionConfig{
			DefaultMinutes: 1,
			Accounting:     breath.AccountCompat.String(),
		},
		Audio: AudioConfig{
			Player: PlayerBell,
		},
		History: HistoryConfig{
			Backend: BackendFile,
		},
		Journal: JournalConfig{
			Retention: 50,
		},
		TUI: TUIConfig{
			AccentColor: DefaultAccentColor,
		},
		Notifications: NotificationsConfig{
			OnComplete: true,
			Template:   DefaultTemplate,
		},
	}
}

// Load reads sleepy.toml from path. If path is empty it searches
// $SLEEPY_CONFIG, ./sleepy.toml and the user config dir in that order, and
// returns Defaults() when none exists. Unknown keys (likely typos) are an
// error.
func Load(path string) (*Config, error) {
	if path == "" {
		found, err := findConfig()
		if err != nil {
			return nil, err
		}
		if found == "" {
			cfg := Defaults()
			return &cfg, nil
		}
		path = found
	}

	cfg := Defaults()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config: unknown keys in %s: %s (possible typos?)", path, joinKeys(keys))
	}

	cfg.Path = path
	return &cfg, nil
}

// joinKeys formats a slice of key names for display.
func joinKeys(keys []string) string {
	return strings.Join(keys, ", ")
}

// findConfig returns the first existing candidate config path, or "" when
// there is none. $SLEEPY_CONFIG must exist when set.
func findConfig() (string, error) {
	if env := os.Getenv(EnvConfig); env != "" {
		if _, err := os.Stat(env); err != nil {
			return "", fmt.Errorf("config: %s=%s: %w", EnvConfig, env, err)
		}
		return env, nil
	}

	var candidates []string
	if wd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(wd, FileName))
	}
	if dir, err := ConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, FileName))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	return "", nil
}

// InitFile writes a default sleepy.toml template to dir.
func InitFile(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config: %s already exists at %s", FileName, path)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("config: mkdir %s: %w", dir, err)
	}

	content := `# sleepy.toml: breathing timer configuration

[session]
default_minutes = 1     # prefilled session length
accounting = "compat"   # "compat" counts each full 4-7-8 cycle twice; "ticks" counts wall seconds

[audio]
player = "bell"   # bell | command | none
command = ""      # player binary for "command", e.g. "paplay" or "afplay"

[audio.cues]
inhale = ""
hold = ""
exhale = ""
finish = ""

[history]
backend = "file"  # file | sqlite
path = ""         # empty = state dir

[journal]
dir = ""          # empty = <state dir>/sessions
retention = 50    # number of journal files to keep; 0 = unlimited

[tui]
accent_color = "#7D56F4"  # hex color for header/accent elements

[notifications]
url = ""            # ntfy.sh topic URL or any HTTP webhook (empty = disabled)
on_complete = true  # notify when a session completes
on_abandon = false  # notify when a session is stopped early
template = "Breathing session complete: {{minutes}} min. Today: {{today}} min."
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("config: write %s: %w", path, err)
	}
	return path, nil
}
