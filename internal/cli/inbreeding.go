package cli

import (
	"cmp"
	"fmt"
	"io"
	"math"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	pedio "github.com/matzehuels/pedigraph/pkg/io"
	"github.com/matzehuels/pedigraph/pkg/pedigree/inbreeding"
	"github.com/matzehuels/pedigraph/pkg/pipeline"
)

// inbreedingOutput is the JSON shape of the inbreeding command.
type inbreedingOutput struct {
	Summary inbreeding.Summary `json:"summary"`
	*inbreeding.Result
	Cached bool `json:"cached"`
	// MaxDeviation is set by --verify.
	MaxDeviation *float64 `json:"max_deviation,omitempty"`
}

func (c *CLI) inbreedingCommand() *cobra.Command {
	var (
		f           commonFlags
		method      string
		top         int
		verify      bool
		interactive bool
	)
	cmd := &cobra.Command{
		Use:   "inbreeding <pedigree.json>",
		Short: "Compute inbreeding coefficients",
		Long: `Compute the inbreeding coefficient F of every individual.

The default method is the Meuwissen-Luo recursion, which scales to millions
of records. --verify recomputes F from the full relationship matrix (up to
5000 individuals) and reports the largest deviation.

Duplicate ids or ancestry cycles make the computation impossible; the
command then fails with DUPLICATE_ID or CYCLE_DETECTED. Run "pedigraph qc"
or "pedigraph cycles" to locate the problem.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tune := func(o *pipeline.Options) { override(cmd, "method", &o.Method, method) }
			a, err := c.analyze(cmd, args[0], &f, tune, pipeline.AnalysisInbreeding)
			if err != nil {
				return err
			}
			if fail, ok := a.result.Failed(pipeline.AnalysisInbreeding); ok {
				return failureError(fail)
			}
			res := a.result.Inbreeding

			out := inbreedingOutput{Summary: res.Summary(), Result: res, Cached: a.result.CacheInfo.InbreedingHit}
			if verify {
				ref, err := inbreeding.Tabular(a.ped)
				if err != nil {
					return err
				}
				dev := maxDeviation(res.F, ref.F)
				out.MaxDeviation = &dev
			}

			if f.json {
				return pedio.WriteResult(out, c.out)
			}
			if interactive {
				_, err := tea.NewProgram(newCoefficientModel(res), tea.WithContext(cmd.Context())).Run()
				return err
			}
			printInbreeding(c.out, out, top)
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&method, "method", pipeline.MethodMeuwissenLuo, "method: meuwissen-luo or tabular")
	cmd.Flags().IntVar(&top, "top", 10, "number of most inbred individuals to list")
	cmd.Flags().BoolVar(&verify, "verify", false, "check against the tabular relationship matrix")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse coefficients interactively")
	return cmd
}

func printInbreeding(w io.Writer, out inbreedingOutput, top int) {
	s := out.Summary
	printTitle(w, "Inbreeding")
	printKeyValue(w, "Individuals", s.Individuals)
	printKeyValue(w, "Inbred (F > 0)", s.Inbred)
	printKeyValue(w, "Mean F", fmt.Sprintf("%.6f", s.Mean))
	if s.MaxID != "" {
		printKeyValue(w, "Max F", fmt.Sprintf("%.6f (%s)", s.Max, s.MaxID))
	}
	printCacheStatus(w, out.Cached)
	if out.MaxDeviation != nil {
		if *out.MaxDeviation < 1e-9 {
			printSuccess(w, "Matches the relationship matrix (max |ΔF| = %.2g)", *out.MaxDeviation)
		} else {
			printWarning(w, "Deviates from the relationship matrix (max |ΔF| = %.2g)", *out.MaxDeviation)
		}
	}

	ranked := rankCoefficients(out.Result)
	ranked = slices.DeleteFunc(ranked, func(e coefficient) bool { return e.f == 0 })
	if top > 0 && len(ranked) > 0 {
		fmt.Fprintln(w)
		rows := make([][]string, 0, top)
		for _, e := range ranked[:min(top, len(ranked))] {
			rows = append(rows, []string{e.id, fmt.Sprintf("%.6f", e.f)})
		}
		fmt.Fprintln(w, renderTable([]string{"ID", "F"}, rows))
	}
}

type coefficient struct {
	id string
	f  float64
}

// rankCoefficients orders individuals by descending F; ties keep input order.
func rankCoefficients(r *inbreeding.Result) []coefficient {
	out := make([]coefficient, len(r.F))
	for i, f := range r.F {
		out[i] = coefficient{id: r.IDs[i], f: f}
	}
	slices.SortStableFunc(out, func(a, b coefficient) int { return cmp.Compare(b.f, a.f) })
	return out
}

func maxDeviation(a, b []float64) float64 {
	var d float64
	for i := range min(len(a), len(b)) {
		d = max(d, math.Abs(a[i]-b[i]))
	}
	return d
}
