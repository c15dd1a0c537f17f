// Package export turns a session snapshot into an Excel results workbook:
// one sheet per category, a combined sheet across categories, and a sheet
// listing entries whose IDs matched no roster. It works on a frozen snapshot
// so race-day recording is never stalled by an export.
package export

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/a-aigner/mtb-timetracking/internal/race"
	"github.com/a-aigner/mtb-timetracking/internal/roster"
)

const (
	combinedSheet = "All Results"
	invalidSheet  = "Invalid IDs"

	// Excel refuses sheet names longer than 31 characters.
	maxSheetName = 31
)

// Write renders the snapshot to an .xlsx workbook at path.
func Write(snap race.Snapshot, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	used := map[string]bool{}
	for _, cat := range snap.Categories {
		entries := categoryEntries(snap, cat.Name)
		if len(entries) == 0 {
			continue
		}
		name := sheetName(cat.Name, used)
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %q: %w", name, err)
		}
		if err := writeCategorySheet(f, name, cat, entries); err != nil {
			return err
		}
	}

	if err := writeCombinedSheet(f, snap); err != nil {
		return err
	}
	if err := writeInvalidSheet(f, snap); err != nil {
		return err
	}

	// The workbook opens on the combined results, and the default empty
	// sheet goes away.
	if idx, err := f.GetSheetIndex(combinedSheet); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// DefaultFilename proposes a timestamped workbook name.
func DefaultFilename(now time.Time) string {
	return "race_results_" + now.Format("20060102_150405") + ".xlsx"
}

func writeCategorySheet(f *excelize.File, sheet string, cat race.CategorySnapshot, entries []race.Entry) error {
	header := []any{"Rank", "ID"}
	for i := 0; i < maxFields(cat); i++ {
		if i == cat.IDColumn {
			continue
		}
		header = append(header, roster.ColumnLetter(i))
	}
	header = append(header, "Finish Time", "Elapsed Time", "Status")
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	rank := 0
	for i, e := range entries {
		cells := []any{rankCell(&rank, e)}
		id, fields := entryFields(cat, e)
		cells = append(cells, id)
		for _, field := range fields {
			cells = append(cells, field)
		}
		for len(cells) < len(header)-3 {
			cells = append(cells, "")
		}
		cells = append(cells, timeCells(cat, e)...)
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &cells); err != nil {
			return err
		}
	}
	return nil
}

func writeCombinedSheet(f *excelize.File, snap race.Snapshot) error {
	if _, err := f.NewSheet(combinedSheet); err != nil {
		return err
	}

	type combinedRow struct {
		cells   []any
		elapsed time.Duration
		dnf     bool
	}
	var rows []combinedRow

	for _, cat := range snap.Categories {
		entries := categoryEntries(snap, cat.Name)
		rank := 0
		for _, e := range entries {
			id, fields := entryFields(cat, e)
			cells := []any{cat.Name, rankCell(&rank, e), id, strings.Join(fields, " ")}
			cells = append(cells, timeCells(cat, e)...)
			rows = append(rows, combinedRow{
				cells:   cells,
				elapsed: elapsedFor(cat, e),
				dnf:     e.Status == race.StatusDNF,
			})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].dnf != rows[j].dnf {
			return rows[j].dnf
		}
		return rows[i].elapsed < rows[j].elapsed
	})

	header := []any{"Category", "Rank", "ID", "Participant", "Finish Time", "Elapsed Time", "Status"}
	if err := f.SetSheetRow(combinedSheet, "A1", &header); err != nil {
		return err
	}
	for i, row := range rows {
		if err := f.SetSheetRow(combinedSheet, fmt.Sprintf("A%d", i+2), &row.cells); err != nil {
			return err
		}
	}
	return nil
}

func writeInvalidSheet(f *excelize.File, snap race.Snapshot) error {
	var rows [][]any
	for _, cat := range snap.Categories {
		for _, e := range snap.Entries {
			if !strings.EqualFold(e.Category, cat.Name) || e.Status != race.StatusUnresolved {
				continue
			}
			cells := []any{cat.Name, e.RawID}
			cells = append(cells, timeCells(cat, e)...)
			rows = append(rows, cells)
		}
	}
	if len(rows) == 0 {
		return nil
	}

	if _, err := f.NewSheet(invalidSheet); err != nil {
		return err
	}
	header := []any{"Category", "ID", "Finish Time", "Elapsed Time", "Status"}
	if err := f.SetSheetRow(invalidSheet, "A1", &header); err != nil {
		return err
	}
	for i, cells := range rows {
		if err := f.SetSheetRow(invalidSheet, fmt.Sprintf("A%d", i+2), &cells); err != nil {
			return err
		}
	}
	return nil
}

func categoryEntries(snap race.Snapshot, category string) []race.Entry {
	var out []race.Entry
	for _, e := range snap.Entries {
		if strings.EqualFold(e.Category, category) {
			out = append(out, e)
		}
	}
	race.SortForResults(out)
	return out
}

// rankCell numbers finishers sequentially; DNF entries show "DNF" and do not
// consume a rank.
func rankCell(rank *int, e race.Entry) any {
	if e.Status == race.StatusDNF {
		return "DNF"
	}
	*rank++
	return *rank
}

// entryFields returns the ID to display and the remaining roster field
// values in column order. Unresolved entries keep their raw typed ID and
// have no roster fields.
func entryFields(cat race.CategorySnapshot, e race.Entry) (string, []string) {
	if e.RowIndex < 0 || e.RowIndex >= len(cat.Rows) {
		return e.RawID, nil
	}
	row := cat.Rows[e.RowIndex]
	var fields []string
	for i, v := range row.Fields {
		if i == cat.IDColumn {
			continue
		}
		fields = append(fields, v)
	}
	return row.ID, fields
}

func timeCells(cat race.CategorySnapshot, e race.Entry) []any {
	elapsed := ""
	if d := elapsedFor(cat, e); d >= 0 {
		elapsed = race.FormatDuration(d)
	}
	return []any{e.FinishedAt.Format("15:04:05"), elapsed, e.Status.String()}
}

// elapsedFor derives the entry's race time from the snapshot's timer; -1
// when the timer never started.
func elapsedFor(cat race.CategorySnapshot, e race.Entry) time.Duration {
	if cat.Timer.StartedAt == nil {
		return -1
	}
	d := e.FinishedAt.Sub(*cat.Timer.StartedAt)
	if d < 0 {
		d = 0
	}
	return d
}

func maxFields(cat race.CategorySnapshot) int {
	n := 0
	for _, row := range cat.Rows {
		if len(row.Fields) > n {
			n = len(row.Fields)
		}
	}
	return n
}

func sheetName(category string, used map[string]bool) string {
	name := category
	for _, c := range `[]:*?/\` {
		name = strings.ReplaceAll(name, string(c), "_")
	}
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	base := name
	for n := 2; used[strings.ToLower(name)]; n++ {
		suffix := fmt.Sprintf("_%d", n)
		name = base
		if len(base)+len(suffix) > maxSheetName {
			name = base[:maxSheetName-len(suffix)]
		}
		name += suffix
	}
	used[strings.ToLower(name)] = true
	return name
}
