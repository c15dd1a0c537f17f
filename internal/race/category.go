package race

import "strings"

// Row is one imported roster record: the participant ID extracted from the
// configured ID column plus every field value preserved verbatim.
type Row struct {
	ID     string   `json:"id"`
	Fields []string `json:"fields"`
}

// Category is a named race division with its own roster and timer.
type Category struct {
	Name     string
	IDColumn int
	Rows     []Row
	Timer    Timer
}

// NewCategory builds a category from imported roster rows. Each row's ID is
// the trimmed string value of the idColumn field; rows whose ID column is
// empty or out of range are kept with an empty ID and simply never match.
func NewCategory(name string, rows [][]string, idColumn int) *Category {
	c := &Category{Name: name, IDColumn: idColumn}
	for _, fields := range rows {
		row := Row{Fields: append([]string(nil), fields...)}
		if idColumn >= 0 && idColumn < len(fields) {
			row.ID = strings.TrimSpace(fields[idColumn])
		}
		c.Rows = append(c.Rows, row)
	}
	return c
}

// Find returns the index of the roster row matching the raw ID, or -1.
// Matching is exact on the trimmed string form with no numeric coercion, so
// "007" and "7" stay distinct. Duplicate IDs are tolerated: first match wins.
func (c *Category) Find(rawID string) int {
	rawID = strings.TrimSpace(rawID)
	if rawID == "" {
		return -1
	}
	for i := range c.Rows {
		if c.Rows[i].ID == rawID {
			return i
		}
	}
	return -1
}

// Has reports whether the raw ID resolves to a roster row in this category.
func (c *Category) Has(rawID string) bool {
	return c.Find(rawID) >= 0
}
