package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/pedigraph/pkg/pedigree/qc"
)

func TestPrintIDsTruncates(t *testing.T) {
	var buf bytes.Buffer
	ids := make([]string, 13)
	for i := range ids {
		ids[i] = string(rune('a' + i))
	}
	printIDs(&buf, "Missing sires", ids)
	out := buf.String()
	if !strings.Contains(out, "(13)") || !strings.Contains(out, "and 3 more") {
		t.Errorf("output = %q", out)
	}
	if strings.Contains(out, ", k") {
		t.Error("ids past the limit should not be printed")
	}

	buf.Reset()
	printIDs(&buf, "Duplicate ids", nil)
	if buf.Len() != 0 {
		t.Error("empty sets should print nothing")
	}
}

func TestRenderHistogram(t *testing.T) {
	out := renderHistogram([]int{4, 2, 0, 1, 0}, 8)
	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want buckets 0..3:\n%s", len(lines), out)
	}
	if strings.Count(lines[0], "█") != 8 || strings.Count(lines[1], "█") != 4 {
		t.Errorf("bars not scaled to the peak:\n%s", out)
	}
	if strings.Count(lines[3], "█") != 2 {
		t.Errorf("bucket 3 bar:\n%s", lines[3])
	}

	if !strings.Contains(renderHistogram([]int{0, 0}, 8), "empty") {
		t.Error("all-zero histogram should render as empty")
	}
}

func TestTopProgeny(t *testing.T) {
	counts := []qc.ProgenyCount{{ID: "a", Count: 1}, {ID: "b", Count: 3}, {ID: "c", Count: 3}, {ID: "d", Count: 2}}
	got := topProgeny(counts, 3)
	if len(got) != 3 || got[0].ID != "b" || got[1].ID != "c" || got[2].ID != "d" {
		t.Errorf("topProgeny = %v", got)
	}
	if counts[0].ID != "a" {
		t.Error("topProgeny should not reorder its input")
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"ID", "F"}, [][]string{{"C", "0.25"}})
	for _, want := range []string{"ID", "C", "0.25"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestTitleCase(t *testing.T) {
	if titleCase("sire") != "Sire" || titleCase("") != "" || titleCase("Dam") != "Dam" {
		t.Error("titleCase")
	}
}
