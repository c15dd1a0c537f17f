package race

// ResolutionKind classifies the outcome of mapping a raw typed ID to a
// category. None of these are errors: an unresolved ID still gets recorded.
type ResolutionKind uint8

const (
	// Unresolved means no started category's roster contains the ID.
	Unresolved ResolutionKind = iota
	// Resolved means exactly one started category's roster contains the ID.
	Resolved
	// Ambiguous means two or more started categories contain the ID. The
	// caller must disambiguate unless auto-resolution is enabled.
	Ambiguous
)

// Resolution is the outcome of resolving a raw ID. Category and RowIndex are
// set for Resolved; Candidates lists every matching category for Ambiguous.
type Resolution struct {
	Kind       ResolutionKind
	RawID      string
	Category   string
	RowIndex   int
	Candidates []string
}

// resolve scans started categories only: a category whose timer never ran
// cannot receive finishes. Callers hold the session lock.
func (s *Session) resolve(rawID string) Resolution {
	res := Resolution{Kind: Unresolved, RawID: rawID, RowIndex: -1}
	for _, c := range s.categories {
		if !c.Timer.Started() {
			continue
		}
		if idx := c.Find(rawID); idx >= 0 {
			res.Candidates = append(res.Candidates, c.Name)
			if len(res.Candidates) == 1 {
				res.Category = c.Name
				res.RowIndex = idx
			}
		}
	}
	switch len(res.Candidates) {
	case 0:
	case 1:
		res.Kind = Resolved
		res.Candidates = nil
	default:
		res.Kind = Ambiguous
		res.Category = ""
		res.RowIndex = -1
	}
	return res
}
