package settings

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// EnvConfigDir overrides the platform config directory when set.
const EnvConfigDir = "QUILL_CONFIG_DIR"

const (
	appDirName   = "Quill"
	dotDirName   = ".quill"
	settingsFile = "settings.json"
)

// ConfigDir returns the platform config directory for Quill.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return configDirFor(runtime.GOOS, home, os.Getenv)
}

// Path returns the full path to settings.json.
func Path() string {
	return filepath.Join(ConfigDir(), settingsFile)
}

// configDirFor resolves the directory for one OS family:
//   - darwin:  ~/Library/Application Support/Quill
//   - windows: %APPDATA%\Quill, falling back to the home directory
//   - others:  ~/.quill
func configDirFor(goos, home string, getenv func(string) string) string {
	if dir := strings.TrimSpace(getenv(EnvConfigDir)); dir != "" {
		return filepath.Clean(dir)
	}
	switch goos {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", appDirName)
	case "windows":
		if appData := strings.TrimSpace(getenv("APPDATA")); appData != "" {
			return filepath.Join(appData, appDirName)
		}
		return filepath.Join(home, appDirName)
	default:
		return filepath.Join(home, dotDirName)
	}
}
