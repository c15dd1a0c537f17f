package files

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	// AppDirName is the folder created inside the platform data directory.
	AppDirName = "MTBTimeTracker"

	// EnvHome overrides the data directory entirely when set.
	EnvHome = "MTBTIMER_HOME"
)

// ResolveBasePath determines where session data is stored: MTBTIMER_HOME if
// exported, otherwise the conventional per-OS application data directory
// (APPDATA on Windows, Library/Application Support on macOS, XDG_DATA_HOME
// or ~/.local/share elsewhere).
func ResolveBasePath() (string, error) {
	if override, ok := os.LookupEnv(EnvHome); ok {
		override = strings.TrimSpace(override)
		if override != "" {
			path, err := normalizePath(override)
			if err != nil {
				return "", err
			}
			return path, nil
		}
	}

	base, err := platformDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, AppDirName), nil
}

func platformDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	switch runtime.GOOS {
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return appData, nil
		}
		return filepath.Join(home, "AppData", "Roaming"), nil
	case "darwin":
		return filepath.Join(home, "Library", "Application Support"), nil
	default:
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return xdg, nil
		}
		return filepath.Join(home, ".local", "share"), nil
	}
}

func normalizePath(input string) (string, error) {
	if strings.HasPrefix(input, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		input = filepath.Join(home, strings.TrimPrefix(input, "~"))
	}
	return input, nil
}
