package store

import (
	"os"
	"path/filepath"
	"runtime"
)

// DataDirEnv overrides the data directory when set.
const DataDirEnv = "TANDEM_DIR"

// ResolveDataDir picks the data directory: TANDEM_DIR, then the explicit
// override (usually --dir or the config file), then the OS default.
func ResolveDataDir(override string) string {
	if dir := os.Getenv(DataDirEnv); dir != "" {
		return dir
	}
	if override != "" {
		return override
	}
	return DefaultDataDir()
}

// DefaultDataDir returns the OS-appropriate default data directory for tandem.
//
//   - macOS:   ~/Library/Application Support/tandem
//   - Linux:   $XDG_DATA_HOME/tandem (fallback ~/.local/share/tandem)
//   - Windows: %LOCALAPPDATA%\tandem (fallback %APPDATA%\tandem)
func DefaultDataDir() string {
	return defaultDataDirForOS(runtime.GOOS)
}

func defaultDataDirForOS(goos string) string {
	home, _ := os.UserHomeDir()

	switch goos {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "tandem")
	case "windows":
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return filepath.Join(dir, "tandem")
		}
		if dir := os.Getenv("APPDATA"); dir != "" {
			return filepath.Join(dir, "tandem")
		}
		return filepath.Join(home, "tandem")
	default: // linux, freebsd, etc.
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			return filepath.Join(dir, "tandem")
		}
		return filepath.Join(home, ".local", "share", "tandem")
	}
}
