// Package settings persists the user's Quill preferences as a flat JSON object.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"quillgo/logging"
)

// Setting keys as they appear in settings.json.
const (
	KeyTheme        = "theme"
	KeyFontSize     = "font_size"
	KeyWordWrap     = "word_wrap"
	KeyWindowWidth  = "window_width"
	KeyWindowHeight = "window_height"
	KeyWindowX      = "window_x"
	KeyWindowY      = "window_y"
	KeyRecentFiles  = "recent_files"
)

const (
	MinFontSize    = 8
	MaxFontSize    = 32
	MaxRecentFiles = 10
)

// Themes accepted by SetTheme.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// ErrUnknownTheme is returned by SetTheme for values outside the theme enum.
var ErrUnknownTheme = errors.New("unknown theme")

// Defaults returns a fresh copy of the compiled-in settings.
func Defaults() map[string]any {
	return map[string]any{
		KeyTheme:        ThemeDark,
		KeyFontSize:     14,
		KeyWordWrap:     true,
		KeyWindowWidth:  1000,
		KeyWindowHeight: 700,
		KeyWindowX:      nil,
		KeyWindowY:      nil,
		KeyRecentFiles:  []string{},
	}
}

// Geometry is the outer window rectangle captured at close.
type Geometry struct {
	X, Y          int
	Width, Height int
}

// Store holds the merged settings in memory and rewrites the whole file on
// every change. Geometry is the only state callers should defer writing.
type Store struct {
	path   string
	logger *slog.Logger

	mu     sync.Mutex
	values map[string]any
}

// New creates a store backed by path holding only defaults. Call Load to merge
// the file contents in.
func New(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Store{
		path:   path,
		logger: logger,
		values: Defaults(),
	}
}

// Open creates a store for path and loads it. It never fails: a missing or
// corrupt file leaves the defaults in place.
func Open(path string, logger *slog.Logger) *Store {
	s := New(path, logger)
	s.Load()
	return s
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Load merges the saved JSON object over the defaults, key by key. Unknown
// keys are kept so they survive the next write.
func (s *Store) Load() {
	merged := Defaults()

	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.replace(merged)
		return
	case err != nil:
		s.logger.Error("could not read settings file, using defaults", slog.String("path", s.path), slog.Any("error", err))
		s.replace(merged)
		return
	}

	var saved map[string]any
	if err := json.Unmarshal(data, &saved); err != nil || saved == nil {
		if err == nil {
			err = errors.New("settings root is not a JSON object")
		}
		s.logger.Error("settings file corrupted, using defaults", slog.String("path", s.path), slog.Any("error", err))
		s.replace(merged)
		return
	}

	for k, v := range saved {
		merged[k] = v
	}
	s.replace(merged)
	s.logger.Info("settings loaded", slog.String("path", s.path))
}

func (s *Store) replace(values map[string]any) {
	s.mu.Lock()
	s.values = values
	s.mu.Unlock()
}

// Get returns the stored value for key, or def when the key is absent.
func (s *Store) Get(key string, def any) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.values[key]; ok {
		return v
	}
	return def
}

// Set stores value under key and persists the whole file.
func (s *Store) Set(key string, value any) {
	s.SetMany(map[string]any{key: value})
}

// SetMany stores several keys with a single write.
func (s *Store) SetMany(kv map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range kv {
		s.values[k] = v
	}
	s.saveLocked()
}

// Snapshot returns a shallow copy of every stored key.
func (s *Store) Snapshot() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// saveLocked writes settings to disk as pretty-printed JSON. Failures are
// logged and swallowed; settings are best-effort.
func (s *Store) saveLocked() {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		s.logger.Error("could not create settings directory", slog.Any("error", err))
		return
	}

	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		s.logger.Error("failed to serialize settings", slog.Any("error", err))
		return
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		s.logger.Error("could not save settings", slog.Any("error", err))
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		s.logger.Error("could not save settings", slog.Any("error", err))
	}
}

// Theme returns the current theme, falling back to dark for anything outside
// the theme enum.
func (s *Store) Theme() string {
	v, _ := s.Get(KeyTheme, nil).(string)
	switch v {
	case ThemeDark, ThemeLight:
		return v
	default:
		return ThemeDark
	}
}

// SetTheme validates and persists the theme.
func (s *Store) SetTheme(theme string) error {
	theme = strings.ToLower(strings.TrimSpace(theme))
	switch theme {
	case ThemeDark, ThemeLight:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTheme, theme)
	}
	s.Set(KeyTheme, theme)
	return nil
}

// FontSize returns the font size, clamped into the supported range.
func (s *Store) FontSize() int {
	n, ok := intValue(s.Get(KeyFontSize, nil))
	if !ok {
		return 14
	}
	return clampFontSize(n)
}

// SetFontSize clamps size to [8,32], persists it and returns the stored value.
func (s *Store) SetFontSize(size int) int {
	size = clampFontSize(size)
	s.Set(KeyFontSize, size)
	return size
}

func clampFontSize(n int) int {
	return max(MinFontSize, min(MaxFontSize, n))
}

// WordWrap reports whether word wrap is enabled.
func (s *Store) WordWrap() bool {
	if v, ok := s.Get(KeyWordWrap, nil).(bool); ok {
		return v
	}
	return true
}

// SetWordWrap persists the word-wrap flag.
func (s *Store) SetWordWrap(enabled bool) {
	s.Set(KeyWordWrap, enabled)
}

// ToggleWordWrap flips word wrap and returns the new value.
func (s *Store) ToggleWordWrap() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.values[KeyWordWrap].(bool)
	if !ok {
		cur = true
	}
	s.values[KeyWordWrap] = !cur
	s.saveLocked()
	return !cur
}

// WindowSize returns the saved outer window size.
func (s *Store) WindowSize() (width, height int) {
	width, ok := intValue(s.Get(KeyWindowWidth, nil))
	if !ok || width <= 0 {
		width = 1000
	}
	height, ok = intValue(s.Get(KeyWindowHeight, nil))
	if !ok || height <= 0 {
		height = 700
	}
	return width, height
}

// SetWindowSize persists the window size.
func (s *Store) SetWindowSize(width, height int) {
	s.SetMany(map[string]any{KeyWindowWidth: width, KeyWindowHeight: height})
}

// WindowPosition returns the saved window position; nil means "let the OS decide".
func (s *Store) WindowPosition() (x, y *int) {
	if v, ok := intValue(s.Get(KeyWindowX, nil)); ok {
		x = &v
	}
	if v, ok := intValue(s.Get(KeyWindowY, nil)); ok {
		y = &v
	}
	return x, y
}

// SetWindowPosition persists the window position.
func (s *Store) SetWindowPosition(x, y int) {
	s.SetMany(map[string]any{KeyWindowX: x, KeyWindowY: y})
}

// SetGeometry persists size and position in one write.
func (s *Store) SetGeometry(g Geometry) {
	s.SetMany(map[string]any{
		KeyWindowX:      g.X,
		KeyWindowY:      g.Y,
		KeyWindowWidth:  g.Width,
		KeyWindowHeight: g.Height,
	})
}

// RecentFiles returns a copy of the recent-files list, most recent first.
func (s *Store) RecentFiles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return stringList(s.values[KeyRecentFiles])
}

// AddRecentFile moves path to the front of the list, dropping any previous
// occurrence and truncating to MaxRecentFiles.
func (s *Store) AddRecentFile(path string) {
	if path == "" {
		return
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	recent := stringList(s.values[KeyRecentFiles])
	next := make([]string, 0, len(recent)+1)
	next = append(next, path)
	for _, p := range recent {
		if p != path {
			next = append(next, p)
		}
	}
	if len(next) > MaxRecentFiles {
		next = next[:MaxRecentFiles]
	}
	s.values[KeyRecentFiles] = next
	s.saveLocked()
}

// RemoveRecentFile drops path from the list. It reports whether anything changed.
func (s *Store) RemoveRecentFile(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	recent := stringList(s.values[KeyRecentFiles])
	filtered := recent[:0]
	for _, p := range recent {
		if p != path {
			filtered = append(filtered, p)
		}
	}
	if len(filtered) == len(recent) {
		return false
	}
	s.values[KeyRecentFiles] = filtered
	s.saveLocked()
	return true
}

// ClearRecentFiles empties the list.
func (s *Store) ClearRecentFiles() {
	s.Set(KeyRecentFiles, []string{})
}

// intValue accepts the numeric shapes a value can take after a JSON round trip.
func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || math.IsNaN(n) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	default:
		return 0, false
	}
}

func stringList(v any) []string {
	switch list := v.(type) {
	case []string:
		out := make([]string, len(list))
		copy(out, list)
		return out
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}
