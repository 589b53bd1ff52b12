// Package prefs handles PeakHODLer user preferences persistence.
// Preferences are stored in ~/.config/peakhodler/prefs.toml.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds the persisted user settings.
type Prefs struct {
	APIKey         string `toml:"api_key"`
	RefreshMinutes int    `toml:"refresh_minutes"`
	LaunchAtLogin  bool   `toml:"launch_at_login"`
}

const (
	defaultPrefsPath = "~/.config/peakhodler/prefs.toml"

	// DefaultRefreshMinutes is the poll interval used until the user picks
	// their own.
	DefaultRefreshMinutes = 30

	// MinRefreshMinutes is the floor enforced on every stored interval.
	MinRefreshMinutes = 15
)

// ClampRefresh raises an interval to the permitted minimum.
func ClampRefresh(minutes int) int {
	if minutes < MinRefreshMinutes {
		return MinRefreshMinutes
	}
	return minutes
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Store owns the preferences file. Every mutation persists immediately;
// last write wins.
type Store struct {
	mu   sync.Mutex
	path string
	cur  Prefs
}

// Open loads preferences from path, or the default location when path is
// empty. A missing, unreadable, or corrupt file degrades to defaults rather
// than failing startup.
func Open(path string) (*Store, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, fmt.Errorf("resolve prefs path: %w", err)
	}

	s := &Store{path: resolved, cur: defaults()}

	raw, err := os.ReadFile(resolved)
	if err != nil {
		return s, nil
	}

	var loaded Prefs
	if err := toml.Unmarshal(raw, &loaded); err != nil {
		return s, nil
	}

	loaded.APIKey = strings.TrimSpace(loaded.APIKey)
	if loaded.RefreshMinutes == 0 {
		loaded.RefreshMinutes = DefaultRefreshMinutes
	}
	loaded.RefreshMinutes = ClampRefresh(loaded.RefreshMinutes)

	s.cur = loaded
	return s, nil
}

func defaults() Prefs {
	return Prefs{RefreshMinutes: DefaultRefreshMinutes}
}

// Current returns a copy of the current preferences.
func (s *Store) Current() Prefs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// Path returns the resolved preferences file location.
func (s *Store) Path() string {
	return s.path
}

// SetAPIKey stores and persists a new API key.
func (s *Store) SetAPIKey(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur.APIKey = strings.TrimSpace(key)
	return s.save()
}

// SetRefreshMinutes clamps, stores, and persists the refresh interval. It
// returns the value actually stored.
func (s *Store) SetRefreshMinutes(minutes int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur.RefreshMinutes = ClampRefresh(minutes)
	return s.cur.RefreshMinutes, s.save()
}

// SetLaunchAtLogin stores and persists the login-item flag.
func (s *Store) SetLaunchAtLogin(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur.LaunchAtLogin = enabled
	return s.save()
}

func (s *Store) save() error {
	raw, err := toml.Marshal(s.cur)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	// 0600: the file holds the API key
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
