package roster

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseSemicolonDelimited(t *testing.T) {
	content := "101;John;Doe;Trail Blazers;1990;M\n102;Jane;Roe;Gravel Gang;1992;F\n"

	rows, err := Parse(content)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	want := []string{"101", "John", "Doe", "Trail Blazers", "1990", "M"}
	for i, f := range want {
		if rows[0][i] != f {
			t.Fatalf("row 0 = %v, want %v", rows[0], want)
		}
	}
}

func TestParseCommaAndTabDelimited(t *testing.T) {
	cases := map[string]string{
		"comma": "101,John,Doe\n102,Jane,Roe\n",
		"tab":   "101\tJohn\tDoe\n102\tJane\tRoe\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			rows, err := Parse(content)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if len(rows) != 2 || rows[1][1] != "Jane" {
				t.Fatalf("rows = %v", rows)
			}
		})
	}
}

func TestParseCleansQuotesAndWhitespace(t *testing.T) {
	content := `"007";" James ";"Bond"` + "\n" + `008;Jane;  Moneypenny  ` + "\n"

	rows, err := Parse(content)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if rows[0][0] != "007" {
		t.Fatalf("id = %q, want 007 with leading zeros intact", rows[0][0])
	}
	if rows[0][1] != "James" || rows[1][2] != "Moneypenny" {
		t.Fatalf("rows = %v", rows)
	}
}

func TestParseSkipsEmptyRows(t *testing.T) {
	content := "101;John;Doe\n;;\n\n102;Jane;Roe\n"

	rows, err := Parse(content)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2 (empty rows dropped)", len(rows))
	}
}

func TestParseRejectsSingleColumnContent(t *testing.T) {
	if _, err := Parse("just a line of prose\nanother line\n"); !errors.Is(err, ErrUnparsable) {
		t.Fatalf("Parse: %v, want ErrUnparsable", err)
	}
}

func TestLoadReadsFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mtb.csv")
	if err := os.WriteFile(path, []byte("101;John;Doe\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	rows, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(rows) != 1 || rows[0][0] != "101" {
		t.Fatalf("rows = %v", rows)
	}
}

func TestColumnLetter(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "A"}, {1, "B"}, {25, "Z"}, {26, "AA"}, {27, "AB"}, {51, "AZ"},
	}
	for _, tc := range cases {
		if got := ColumnLetter(tc.in); got != tc.want {
			t.Errorf("ColumnLetter(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
