package cli

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/pedigraph/pkg/errors"
	"github.com/matzehuels/pedigraph/pkg/pedigree/cycle"
	"github.com/matzehuels/pedigraph/pkg/pedigree/qc"
)

func decode[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	return v
}

func TestQCCommand(t *testing.T) {
	env := newTestEnv(t)
	path := env.writePedigree(`{"ids":["X","Y","A","B"],"sires":["0","0","X","Y"],"dams":["0","0","Y","X"]}`)

	out, err := env.run("qc", path)
	if err != nil {
		t.Fatalf("qc: %v", err)
	}
	for _, want := range []string{"Pedigree QC", "Dual-role ids", "X, Y"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out, err = env.run("qc", "--json", path)
	if err != nil {
		t.Fatalf("qc --json: %v", err)
	}
	r := decode[qc.Report](t, out)
	if r.Total != 4 || len(r.DualRoleIDs) != 2 {
		t.Errorf("report = %+v", r)
	}
}

func TestQCCommandMissingTokens(t *testing.T) {
	env := newTestEnv(t)
	path := env.writePedigree(`{"ids":["A","B"],"sires":["-","A"],"dams":["-","-"]}`)

	out, err := env.run("qc", "--json", "--missing", "-", path)
	if err != nil {
		t.Fatalf("qc: %v", err)
	}
	r := decode[qc.Report](t, out)
	if r.Founders != 1 || len(r.MissingSires) != 0 {
		t.Errorf("with --missing -: founders=%d missing sires=%v", r.Founders, r.MissingSires)
	}

	out, _ = env.run("qc", "--json", path)
	r = decode[qc.Report](t, out)
	if len(r.MissingSires) != 1 {
		t.Errorf("without --missing, '-' should be a missing sire id: %v", r.MissingSires)
	}
}

func TestQCCommandFileNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run("qc", env.dir+"/nope.json")
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestQCCommandShapeMismatch(t *testing.T) {
	env := newTestEnv(t)
	path := env.writePedigree(`{"ids":["A","B"],"sires":["0"],"dams":["0","0"]}`)
	if _, err := env.run("qc", path); !errors.Is(err, errors.ErrCodeShapeMismatch) {
		t.Errorf("err = %v, want SHAPE_MISMATCH", err)
	}
}

func TestInbreedingCommand(t *testing.T) {
	env := newTestEnv(t)
	path := env.writePedigree(fullSibJSON)

	out, err := env.run("inbreeding", "--json", "--verify", path)
	if err != nil {
		t.Fatalf("inbreeding: %v", err)
	}
	type output struct {
		Summary      struct{ Inbred int }
		IDs          []string `json:"ids"`
		F            []float64
		Cached       bool
		MaxDeviation *float64 `json:"max_deviation"`
	}
	first := decode[output](t, out)
	if math.Abs(first.F[4]-0.25) > 1e-12 || first.IDs[4] != "C" {
		t.Errorf("F = %v, want C at 0.25", first.F)
	}
	if first.Summary.Inbred != 1 {
		t.Errorf("inbred = %d, want 1", first.Summary.Inbred)
	}
	if first.MaxDeviation == nil || *first.MaxDeviation > 1e-9 {
		t.Errorf("max deviation = %v", first.MaxDeviation)
	}
	if first.Cached {
		t.Error("first run should not be cached")
	}

	out, _ = env.run("inbreeding", "--json", path)
	if !decode[output](t, out).Cached {
		t.Error("second run should hit the cache")
	}
	out, _ = env.run("inbreeding", "--json", "--no-cache", path)
	if decode[output](t, out).Cached {
		t.Error("--no-cache should bypass the cache")
	}

	out, err = env.run("inbreeding", "--method", "tabular", path)
	if err != nil {
		t.Fatalf("inbreeding --method tabular: %v", err)
	}
	if !strings.Contains(out, "0.250000") {
		t.Errorf("text output should list C:\n%s", out)
	}
}

func TestInbreedingCommandFailures(t *testing.T) {
	env := newTestEnv(t)

	dup := env.writeFile("dup.json", `{"ids":["A","A","B"],"sires":["0","0","A"],"dams":["0","0","0"]}`)
	_, err := env.run("inbreeding", dup)
	if !errors.Is(err, errors.ErrCodeDuplicateID) {
		t.Errorf("err = %v, want DUPLICATE_ID", err)
	}
	if err != nil && !strings.Contains(err.Error(), "A") {
		t.Errorf("error should name the duplicate id: %v", err)
	}

	cyc := env.writeFile("cycle.json", `{"ids":["A","B"],"sires":["B","A"],"dams":["0","0"]}`)
	if _, err := env.run("inbreeding", cyc); !errors.Is(err, errors.ErrCodeCycleDetected) {
		t.Errorf("err = %v, want CYCLE_DETECTED", err)
	}

	if _, err := env.run("inbreeding", "--method", "bogus", cyc); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestCyclesCommand(t *testing.T) {
	env := newTestEnv(t)
	path := env.writePedigree(`{"ids":["A","B","C"],"sires":["C","A","B"],"dams":["0","0","0"]}`)

	out, err := env.run("cycles", "--json", path)
	if err != nil {
		t.Fatalf("cycles: %v", err)
	}
	r := decode[cycle.Result](t, out)
	if r.Count != 1 || len(r.Cycles[0]) != 4 {
		t.Errorf("cycles = %+v", r)
	}

	out, _ = env.run("cycles", path)
	if !strings.Contains(out, "1 cycles found") {
		t.Errorf("output:\n%s", out)
	}
}

func TestChronologyCommand(t *testing.T) {
	env := newTestEnv(t)

	noDates := env.writeFile("plain.json", fullSibJSON)
	if _, err := env.run("chronology", noDates); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT without birth dates", err)
	}

	path := env.writePedigree(`{"ids":["S","D","A"],"sires":["0","0","S"],"dams":["0","0","D"],"birth_dates":[10,1,10]}`)
	out, err := env.run("chronology", "--json", path)
	if err != nil {
		t.Fatalf("chronology: %v", err)
	}
	c := decode[qc.Chronology](t, out)
	if c.Count != 1 || c.InvalidSireCount != 1 || c.Violations[0].Offspring != "A" {
		t.Errorf("chronology = %+v", c)
	}
}

func TestLineageCommand(t *testing.T) {
	env := newTestEnv(t)
	path := env.writePedigree(fullSibJSON)

	out, err := env.run("lineage", "--json", "--max-depth", "4", path)
	if err != nil {
		t.Fatalf("lineage: %v", err)
	}
	l := decode[struct {
		Deepest      struct{ ID string; Depth int }
		Distribution []int
	}](t, out)
	if l.Deepest.ID != "C" || l.Deepest.Depth != 2 {
		t.Errorf("deepest = %+v", l.Deepest)
	}
	if len(l.Distribution) != 4 || l.Distribution[0] != 2 || l.Distribution[2] != 1 {
		t.Errorf("distribution = %v", l.Distribution)
	}

	out, err = env.run("lineage", path)
	if err != nil {
		t.Fatalf("lineage: %v", err)
	}
	if !strings.Contains(out, "C (2 generations)") {
		t.Errorf("output:\n%s", out)
	}
}

func TestDescendantsCommand(t *testing.T) {
	env := newTestEnv(t)
	path := env.writePedigree(fullSibJSON)

	out, err := env.run("descendants", "--json", "--role", "dam", "--max-depth", "3", path)
	if err != nil {
		t.Fatalf("descendants: %v", err)
	}
	r := decode[struct {
		Role      string
		MaxDepth  int `json:"max_depth"`
		Summaries []struct {
			Parent        string
			Total         int
			PerGeneration []int `json:"per_generation"`
		}
	}](t, out)
	if r.Role != "dam" || r.MaxDepth != 3 {
		t.Errorf("role/depth = %s/%d", r.Role, r.MaxDepth)
	}
	// Dams: D (of A, B) and B (of C). Dam lines from D continue through B.
	if len(r.Summaries) != 2 || r.Summaries[0].Parent != "D" || r.Summaries[0].Total != 3 {
		t.Errorf("summaries = %+v", r.Summaries)
	}

	if _, err := env.run("descendants", "--role", "mother", path); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT for bad role", err)
	}
}

func TestReportCommand(t *testing.T) {
	env := newTestEnv(t)
	path := env.writePedigree(`{"ids":["A","B","F"],"sires":["B","A","0"],"dams":["0","0","0"]}`)

	out, err := env.run("report", "--json", path)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	r := decode[struct {
		RunID    string `json:"run_id"`
		QC       *qc.Report
		Cycles   *cycle.Result
		Failures []struct {
			Analysis string
			Code     string
		}
	}](t, out)
	if r.RunID == "" || r.QC == nil || r.Cycles == nil || r.Cycles.Count != 1 {
		t.Errorf("report = %+v", r)
	}
	if len(r.Failures) != 1 || r.Failures[0].Analysis != "inbreeding" || r.Failures[0].Code != "CYCLE_DETECTED" {
		t.Errorf("failures = %+v", r.Failures)
	}

	out, err = env.run("report", path)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	for _, want := range []string{"Pedigree QC", "Ancestry cycles", "Lineage depth", "inbreeding:"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestCompletionCommand(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run("completion", "bash")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out, "pedigraph") {
		t.Error("bash completion should mention the program")
	}
	if _, err := env.run("completion", "tcsh"); err == nil {
		t.Error("unsupported shell should fail")
	}
}
