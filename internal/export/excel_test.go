package export

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/a-aigner/mtb-timetracking/internal/race"
)

func exportSession(t *testing.T) *race.Session {
	t.Helper()
	s := race.New("export-test")
	mtb := [][]string{
		{"101", "John", "Doe", "Trail Blazers"},
		{"102", "Jane", "Roe", "Gravel Gang"},
		{"103", "Max", "Muster", ""},
	}
	road := [][]string{
		{"201", "Bob", "Builder", "Road Runners"},
	}
	if err := s.AddCategory("MTB", mtb, 0); err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	if err := s.AddCategory("Road", road, 0); err != nil {
		t.Fatalf("AddCategory: %v", err)
	}

	t0 := time.Date(2025, time.June, 14, 9, 0, 0, 0, time.UTC)
	if _, err := s.StartTimer("MTB", t0); err != nil {
		t.Fatalf("StartTimer: %v", err)
	}
	if _, err := s.StartTimer("Road", t0); err != nil {
		t.Fatalf("StartTimer: %v", err)
	}

	// Recorded out of finish order on purpose.
	if _, err := s.RecordIn("MTB", "102", t0.Add(12*time.Minute)); err != nil {
		t.Fatalf("RecordIn: %v", err)
	}
	if _, err := s.RecordIn("MTB", "101", t0.Add(10*time.Minute)); err != nil {
		t.Fatalf("RecordIn: %v", err)
	}
	dnf, err := s.RecordIn("MTB", "103", t0.Add(5*time.Minute))
	if err != nil {
		t.Fatalf("RecordIn: %v", err)
	}
	if err := s.MarkDNF(dnf.Seq); err != nil {
		t.Fatalf("MarkDNF: %v", err)
	}
	if _, err := s.RecordIn("Road", "999", t0.Add(11*time.Minute)); err != nil {
		t.Fatalf("RecordIn: %v", err)
	}
	return s
}

func TestWriteWorkbook(t *testing.T) {
	s := exportSession(t)
	path := filepath.Join(t.TempDir(), "results.xlsx")

	if err := Write(s.Snapshot(), path); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()

	for _, sheet := range []string{"MTB", "Road", "All Results", "Invalid IDs"} {
		if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
			t.Fatalf("sheet %q missing (idx=%d, err=%v)", sheet, idx, err)
		}
	}

	rows, err := f.GetRows("MTB")
	if err != nil {
		t.Fatalf("GetRows MTB: %v", err)
	}
	// Header plus three entries: 101 and 102 ranked by finish instant, the
	// DNF last even though it has the earliest instant.
	if len(rows) != 4 {
		t.Fatalf("MTB rows = %d, want 4", len(rows))
	}
	if rows[0][0] != "Rank" || rows[0][1] != "ID" {
		t.Fatalf("header = %v", rows[0])
	}
	if rows[1][0] != "1" || rows[1][1] != "101" {
		t.Fatalf("first place = %v", rows[1])
	}
	if rows[1][len(rows[1])-1] != "normal" {
		t.Fatalf("first place status = %v", rows[1])
	}
	if rows[2][0] != "2" || rows[2][1] != "102" {
		t.Fatalf("second place = %v", rows[2])
	}
	if rows[3][0] != "DNF" || rows[3][1] != "103" {
		t.Fatalf("dnf row = %v", rows[3])
	}

	// Elapsed of the winner is finish minus category start.
	if rows[1][len(rows[1])-2] != "00:10:00.000" {
		t.Fatalf("winner elapsed = %v", rows[1])
	}
}

func TestWriteInvalidIDsSheet(t *testing.T) {
	s := exportSession(t)
	path := filepath.Join(t.TempDir(), "results.xlsx")

	if err := Write(s.Snapshot(), path); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Invalid IDs")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("invalid rows = %d, want header plus one", len(rows))
	}
	if rows[1][0] != "Road" || rows[1][1] != "999" {
		t.Fatalf("invalid row = %v", rows[1])
	}
}

func TestWriteCombinedSortsAcrossCategories(t *testing.T) {
	s := exportSession(t)
	path := filepath.Join(t.TempDir(), "results.xlsx")

	if err := Write(s.Snapshot(), path); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("All Results")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("combined rows = %d, want 5", len(rows))
	}

	// Sorted by elapsed across categories, DNF last: MTB/101 at 10:00,
	// Road/999 at 11:00, MTB/102 at 12:00, then the DNF.
	wantIDs := []string{"101", "999", "102", "103"}
	for i, id := range wantIDs {
		if rows[i+1][2] != id {
			t.Fatalf("combined order = %v, want ids %v", rows[1:], wantIDs)
		}
	}
	if rows[4][1] != "DNF" {
		t.Fatalf("last combined row = %v", rows[4])
	}
}

func TestDefaultFilename(t *testing.T) {
	now := time.Date(2025, time.June, 14, 18, 30, 9, 0, time.UTC)
	if got := DefaultFilename(now); got != "race_results_20250614_183009.xlsx" {
		t.Fatalf("DefaultFilename = %q", got)
	}
}

func TestSheetNameSanitizedAndDeduplicated(t *testing.T) {
	used := map[string]bool{}
	if got := sheetName("U15 / Boys", used); got != "U15 _ Boys" {
		t.Fatalf("sheetName = %q", got)
	}

	long := "An Extremely Long Category Name That Overflows"
	a := sheetName(long, used)
	b := sheetName(long, used)
	if len(a) > 31 || len(b) > 31 {
		t.Fatalf("sheet names too long: %q, %q", a, b)
	}
	if a == b {
		t.Fatalf("duplicate sheet names: %q", a)
	}
}
