package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/a-aigner/mtb-timetracking/internal/files"
	"github.com/a-aigner/mtb-timetracking/internal/race"
)

// ErrNoSession is returned when no saved session exists to resume.
var ErrNoSession = errors.New("no saved session")

// DefaultRetainBackups is how many rotated backups are kept per session.
const DefaultRetainBackups = 5

// Store persists session snapshots as JSON files under the manager's
// sessions directory and keeps rotated backups alongside them.
type Store struct {
	manager *files.Manager
	retain  int
}

// New wires a Store. retain bounds how many backups survive rotation per
// session; values below one fall back to DefaultRetainBackups.
func New(manager *files.Manager, retain int) *Store {
	if retain < 1 {
		retain = DefaultRetainBackups
	}
	return &Store{manager: manager, retain: retain}
}

// Save writes the snapshot to its session slot, backing up any previous file
// into the backups directory first. It returns the path written.
func (s *Store) Save(snap race.Snapshot) (string, error) {
	path, err := s.manager.SessionPath(sessionFileName(snap))
	if err != nil {
		return "", err
	}
	if err := s.SaveTo(snap, path); err != nil {
		return "", err
	}
	return path, nil
}

// SaveTo writes the snapshot to an explicit path. An existing file at that
// path is copied into the backups directory before being replaced, and old
// backups beyond the retention limit are pruned.
func (s *Store) SaveTo(snap race.Snapshot, path string) error {
	if _, err := os.Stat(path); err == nil {
		if err := s.backup(path); err != nil {
			return fmt.Errorf("backup previous session: %w", err)
		}
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return writeAtomic(path, data)
}

// Load reads a session file and rebuilds a live session from it. Unreadable
// or inconsistent files fail with race.ErrCorruptSession.
func (s *Store) Load(path string) (*race.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var snap race.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", race.ErrCorruptSession, err)
	}
	return race.Restore(snap)
}

// Latest returns the most recently modified session file, for resume at
// startup. ErrNoSession when the sessions directory holds nothing.
func (s *Store) Latest() (string, error) {
	paths, err := s.List()
	if err != nil {
		return "", err
	}
	if len(paths) == 0 {
		return "", ErrNoSession
	}
	return paths[0], nil
}

// List returns all session files, newest first by modification time.
func (s *Store) List() ([]string, error) {
	dir, err := s.manager.SessionsDir()
	if err != nil {
		return nil, err
	}
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Slice(paths, func(i, j int) bool {
		return modTime(paths[i]).After(modTime(paths[j]))
	})
	return paths, nil
}

// backup copies the live session file into the backups directory and prunes
// backups beyond the retention limit. The live file stays in place; the
// caller replaces it afterwards.
func (s *Store) backup(path string) error {
	dir, err := s.manager.BackupsDir()
	if err != nil {
		return err
	}

	stem := strings.TrimSuffix(filepath.Base(path), ".json")
	stamp := time.Now().Format("20060102_150405")
	target := filepath.Join(dir, fmt.Sprintf("%s_backup_%s.json", stem, stamp))
	for n := 1; ; n++ {
		if _, err := os.Stat(target); os.IsNotExist(err) {
			break
		}
		target = filepath.Join(dir, fmt.Sprintf("%s_backup_%s_%d.json", stem, stamp, n))
	}

	if err := copyFile(path, target); err != nil {
		return err
	}
	return s.pruneBackups(dir, stem)
}

func (s *Store) pruneBackups(dir, stem string) error {
	backups, err := filepath.Glob(filepath.Join(dir, stem+"_backup_*.json"))
	if err != nil {
		return err
	}
	if len(backups) <= s.retain {
		return nil
	}
	sort.Slice(backups, func(i, j int) bool {
		return modTime(backups[i]).After(modTime(backups[j]))
	})
	for _, old := range backups[s.retain:] {
		if err := os.Remove(old); err != nil {
			return err
		}
	}
	return nil
}

func sessionFileName(snap race.Snapshot) string {
	if strings.TrimSpace(snap.Name) != "" {
		return snap.Name
	}
	created := snap.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	return "session_" + created.Format("20060102_150405")
}

func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// writeAtomic stages the payload in a temp file and renames it into place so
// a crash mid-write never leaves a truncated session file.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	temp, err := os.CreateTemp(dir, "mtbtimer-*")
	if err != nil {
		return err
	}
	defer os.Remove(temp.Name())

	if _, err := temp.Write(data); err != nil {
		temp.Close()
		return err
	}
	if err := temp.Sync(); err != nil {
		temp.Close()
		return err
	}
	if err := temp.Close(); err != nil {
		return err
	}

	if info, err := os.Stat(path); err == nil {
		if err := os.Chmod(temp.Name(), info.Mode()); err != nil {
			return err
		}
	}

	return os.Rename(temp.Name(), path)
}
