package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	dirPermissions = 0o755

	sessionsDirName = "sessions"
	backupsDirName  = "backups"
)

// Manager centralizes where session files and their backups live on disk.
type Manager struct {
	basePath string
}

// NewManager constructs a Manager rooted at the provided directory. If
// basePath is empty, it falls back to the per-OS application data directory
// (or MTBTIMER_HOME, see ResolveBasePath).
func NewManager(basePath string) (*Manager, error) {
	var err error
	if basePath == "" {
		basePath, err = ResolveBasePath()
		if err != nil {
			return nil, err
		}
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, err
	}

	return &Manager{basePath: abs}, nil
}

// BasePath returns the root directory storing all session data.
func (m *Manager) BasePath() string {
	return m.basePath
}

// SessionsDir returns the directory holding live session files, creating it
// if needed.
func (m *Manager) SessionsDir() (string, error) {
	return m.ensureDir(sessionsDirName)
}

// BackupsDir returns the directory holding rotated backups, creating it if
// needed.
func (m *Manager) BackupsDir() (string, error) {
	return m.ensureDir(backupsDirName)
}

func (m *Manager) ensureDir(name string) (string, error) {
	if m == nil {
		return "", errors.New("files.Manager is nil")
	}
	dir := filepath.Join(m.basePath, name)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return "", fmt.Errorf("create directories: %w", err)
	}
	return dir, nil
}

// SessionPath resolves the absolute path for a named session file. The name
// is sanitized so race names typed by organizers cannot escape the sessions
// directory or trip over platform filename rules.
func (m *Manager) SessionPath(name string) (string, error) {
	dir, err := m.SessionsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SafeFilename(name)+".json"), nil
}

// SafeFilename replaces characters that are invalid on at least one
// supported platform and trims leading/trailing dots and spaces.
func SafeFilename(name string) string {
	const invalid = `<>:"/\|?*`
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if strings.ContainsRune(invalid, r) || r < 0x20 {
			b.WriteRune('_')
			continue
		}
		b.WriteRune(r)
	}
	cleaned := strings.Trim(b.String(), ". ")
	if cleaned == "" {
		return "unnamed"
	}
	return cleaned
}
