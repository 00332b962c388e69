// Package pipeline runs pedigree analyses for the CLI and other front ends.
//
// A [Runner] takes one immutable pedigree and a set of [Options] and runs
// the selected analyses:
//
//   - qc: record counts and validation anomalies
//   - chronology: birth-order violations (when birth dates are present)
//   - cycles: diagnostic cycle report
//   - inbreeding: per-individual coefficients, cached by pedigree content
//   - lineage: deepest sampled ancestry and the population depth histogram
//   - descendants: per-parent descendant counts by generation
//
// Analyses are independent and run concurrently; each keeps its own
// per-call state. A structural precondition failure in one analysis
// (duplicate ids or a cycle for inbreeding) is recorded in
// [Result.Failures] and does not stop the others.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.DefaultOptions()
//	opts.Analyses = []string{pipeline.AnalysisQC, pipeline.AnalysisInbreeding}
//	result, err := runner.Execute(ctx, p, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Inbreeding.Summary().Mean)
package pipeline

import (
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pedigraph/pkg/errors"
	"github.com/matzehuels/pedigraph/pkg/pedigree/cycle"
	"github.com/matzehuels/pedigraph/pkg/pedigree/descendants"
	"github.com/matzehuels/pedigraph/pkg/pedigree/inbreeding"
	"github.com/matzehuels/pedigraph/pkg/pedigree/lineage"
	"github.com/matzehuels/pedigraph/pkg/pedigree/qc"
)

// Analysis names.
const (
	AnalysisQC          = "qc"
	AnalysisChronology  = "chronology"
	AnalysisCycles      = "cycles"
	AnalysisInbreeding  = "inbreeding"
	AnalysisLineage     = "lineage"
	AnalysisDescendants = "descendants"
)

// AllAnalyses lists every analysis in report order.
var AllAnalyses = []string{
	AnalysisQC,
	AnalysisChronology,
	AnalysisCycles,
	AnalysisInbreeding,
	AnalysisLineage,
	AnalysisDescendants,
}

// Inbreeding methods.
const (
	MethodMeuwissenLuo = "meuwissen-luo"
	MethodTabular      = "tabular"
)

// DefaultSeed seeds the lineage samplers.
const DefaultSeed = uint64(42)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options selects analyses and configures them. Zero values of numeric
// fields select the package defaults of the underlying analysis.
type Options struct {
	// Analyses to run. Empty means all.
	Analyses []string `json:"analyses,omitempty" toml:"analyses"`

	// Inbreeding
	Method string `json:"method,omitempty" toml:"method"`

	// Lineage
	DeepestSample         int    `json:"deepest_sample,omitempty" toml:"deepest_sample"`
	DeepestCap            int    `json:"deepest_cap,omitempty" toml:"deepest_cap"`
	DistributionThreshold int    `json:"distribution_threshold,omitempty" toml:"distribution_threshold"`
	DistributionSample    int    `json:"distribution_sample,omitempty" toml:"distribution_sample"`
	MaxDepth              int    `json:"max_depth,omitempty" toml:"max_depth"`
	Seed                  uint64 `json:"seed,omitempty" toml:"seed"`

	// Descendants
	Role            string `json:"role,omitempty" toml:"role"`
	DescendantDepth int    `json:"descendant_depth,omitempty" toml:"descendant_depth"`
	Lines           string `json:"lines,omitempty" toml:"lines"`

	// Refresh ignores cached results and recomputes them.
	Refresh bool `json:"refresh,omitempty" toml:"-"`

	Logger *log.Logger `json:"-" toml:"-"`

	validated bool
}

// DefaultOptions returns options with every analysis enabled and the
// package defaults spelled out.
func DefaultOptions() Options {
	return Options{
		Analyses:              append([]string(nil), AllAnalyses...),
		Method:                MethodMeuwissenLuo,
		DeepestSample:         lineage.DefaultDeepestSample,
		DeepestCap:            lineage.DefaultDeepestCap,
		DistributionThreshold: lineage.DefaultDistributionThreshold,
		DistributionSample:    lineage.DefaultDistributionSample,
		MaxDepth:              lineage.DefaultMaxDepth,
		Seed:                  DefaultSeed,
		Role:                  descendants.Sire.String(),
		DescendantDepth:       descendants.DefaultMaxDepth,
		Lines:                 descendants.SameRole.String(),
	}
}

// ValidateAndSetDefaults checks option values and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Analyses) == 0 {
		o.Analyses = append([]string(nil), AllAnalyses...)
	}
	for i, a := range o.Analyses {
		if strings.TrimSpace(a) == "" {
			return errors.New(errors.ErrCodeInvalidInput, "analysis name cannot be empty")
		}
		if err := errors.ValidateOneOf("analysis", a, AllAnalyses...); err != nil {
			return err
		}
		o.Analyses[i] = strings.ToLower(strings.TrimSpace(a))
	}

	if err := errors.ValidateOneOf("method", o.Method, MethodMeuwissenLuo, MethodTabular); err != nil {
		return err
	}
	o.Method = strings.ToLower(strings.TrimSpace(o.Method))
	if o.Method == "" {
		o.Method = MethodMeuwissenLuo
	}

	for _, f := range []struct {
		name string
		v    int
	}{
		{"deepest_sample", o.DeepestSample},
		{"deepest_cap", o.DeepestCap},
		{"distribution_threshold", o.DistributionThreshold},
		{"distribution_sample", o.DistributionSample},
		{"max_depth", o.MaxDepth},
		{"descendant_depth", o.DescendantDepth},
	} {
		if err := errors.ValidateNonNegative(f.name, f.v); err != nil {
			return err
		}
	}

	o.setDefaults()

	if _, err := o.role(); err != nil {
		return err
	}
	if _, err := o.lines(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

func (o *Options) setDefaults() {
	def := DefaultOptions()
	for _, f := range []struct {
		v   *int
		def int
	}{
		{&o.DeepestSample, def.DeepestSample},
		{&o.DeepestCap, def.DeepestCap},
		{&o.DistributionThreshold, def.DistributionThreshold},
		{&o.DistributionSample, def.DistributionSample},
		{&o.MaxDepth, def.MaxDepth},
		{&o.DescendantDepth, def.DescendantDepth},
	} {
		if *f.v == 0 {
			*f.v = f.def
		}
	}
}

// Enabled reports whether the named analysis is selected.
func (o *Options) Enabled(analysis string) bool {
	if len(o.Analyses) == 0 {
		return true
	}
	for _, a := range o.Analyses {
		if a == analysis {
			return true
		}
	}
	return false
}

func (o *Options) role() (descendants.Role, error) {
	return descendants.ParseRole(strings.ToLower(strings.TrimSpace(o.Role)))
}

func (o *Options) lines() (descendants.Lines, error) {
	return descendants.ParseLines(strings.ToLower(strings.TrimSpace(o.Lines)))
}

func (o *Options) deepestOptions() lineage.DeepestOptions {
	return lineage.DeepestOptions{SampleSize: o.DeepestSample, Cap: o.DeepestCap, Seed: o.Seed}
}

func (o *Options) distributionOptions() lineage.DistributionOptions {
	return lineage.DistributionOptions{
		Threshold:  o.DistributionThreshold,
		SampleSize: o.DistributionSample,
		MaxDepth:   o.MaxDepth,
		Seed:       o.Seed,
	}
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run. Fields of analyses that
// were not selected, or that failed, are nil.
type Result struct {
	RunID        string `json:"run_id"`
	PedigreeHash string `json:"pedigree_hash,omitempty"`
	Individuals  int    `json:"individuals"`

	QC          *qc.Report          `json:"qc,omitempty"`
	Chronology  *qc.Chronology      `json:"chronology,omitempty"`
	Cycles      *cycle.Result       `json:"cycles,omitempty"`
	Inbreeding  *inbreeding.Result  `json:"inbreeding,omitempty"`
	Lineage     *Lineage            `json:"lineage,omitempty"`
	Descendants *descendants.Result `json:"descendants,omitempty"`

	// Failures lists analyses that could not complete, in analysis order.
	Failures []Failure `json:"failures,omitempty"`

	Stats     Stats     `json:"stats"`
	CacheInfo CacheInfo `json:"cache"`
}

// Lineage groups the depth analyses.
type Lineage struct {
	Deepest      lineage.DeepestResult `json:"deepest"`
	Distribution []int                 `json:"distribution"`
}

// Failure records an analysis that failed a structural precondition.
type Failure struct {
	Analysis string      `json:"analysis"`
	Code     errors.Code `json:"code,omitempty"`
	Message  string      `json:"message"`
}

// Failed returns the failure of the named analysis, if any.
func (r *Result) Failed(analysis string) (Failure, bool) {
	for _, f := range r.Failures {
		if f.Analysis == analysis {
			return f, true
		}
	}
	return Failure{}, false
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Duration  time.Duration            `json:"duration"`
	Durations map[string]time.Duration `json:"durations"`
}

// CacheInfo tracks which cached results were reused.
type CacheInfo struct {
	InbreedingHit   bool `json:"inbreeding_hit"`
	DistributionHit bool `json:"distribution_hit"`
}
