package files

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSessionPath(t *testing.T) {
	tmp := t.TempDir()

	mgr, err := NewManager(tmp)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	path, err := mgr.SessionPath("spring_cup_2025")
	if err != nil {
		t.Fatalf("SessionPath: %v", err)
	}

	want := filepath.Join(tmp, "sessions", "spring_cup_2025.json")
	if path != want {
		t.Fatalf("SessionPath() = %q, want %q", path, want)
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Fatalf("sessions dir not created: %v", err)
	}
}

func TestBackupsDirCreated(t *testing.T) {
	tmp := t.TempDir()

	mgr, err := NewManager(tmp)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	dir, err := mgr.BackupsDir()
	if err != nil {
		t.Fatalf("BackupsDir: %v", err)
	}
	if dir != filepath.Join(tmp, "backups") {
		t.Fatalf("BackupsDir() = %q", dir)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("backups dir not created: %v", err)
	}
}

func TestSafeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Spring Cup 2025", "Spring Cup 2025"},
		{`race<>:"/\|?*day`, "race_________day"},
		{"  .hidden.  ", "hidden"},
		{"", "unnamed"},
		{"...", "unnamed"},
	}
	for _, tc := range cases {
		if got := SafeFilename(tc.in); got != tc.want {
			t.Errorf("SafeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
