package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	pedio "github.com/matzehuels/pedigraph/pkg/io"
	"github.com/matzehuels/pedigraph/pkg/pipeline"
)

func (c *CLI) reportCommand() *cobra.Command {
	var (
		f   commonFlags
		top int
	)
	cmd := &cobra.Command{
		Use:   "report <pedigree.json>",
		Short: "Run every analysis and print a combined report",
		Long: `Run QC, chronology (when birth dates are present), cycle detection,
inbreeding, lineage depth and descendant summaries concurrently.

An analysis that cannot run on this pedigree, such as inbreeding on a
pedigree with duplicate ids, is listed under failures; the rest of the
report is still produced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.analyze(cmd, args[0], &f, nil, pipeline.AllAnalyses...)
			if err != nil {
				return err
			}
			if f.json {
				return pedio.WriteResult(a.result, c.out)
			}
			printReport(c.out, a.result, top)
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().IntVar(&top, "top", 5, "rows listed per table")
	return cmd
}

func printReport(w io.Writer, r *pipeline.Result, top int) {
	section := func(print func()) {
		print()
		fmt.Fprintln(w)
	}

	if r.QC != nil {
		section(func() { printQCReport(w, r.QC, top) })
	}
	if r.Chronology != nil {
		section(func() { printChronology(w, r.Chronology) })
	}
	if r.Cycles != nil {
		section(func() { printCycles(w, r.Cycles) })
	}
	if r.Inbreeding != nil {
		section(func() {
			printInbreeding(w, inbreedingOutput{
				Summary: r.Inbreeding.Summary(),
				Result:  r.Inbreeding,
				Cached:  r.CacheInfo.InbreedingHit,
			}, top)
		})
	}
	if r.Lineage != nil {
		section(func() { printLineage(w, r.Lineage) })
	}
	if r.Descendants != nil {
		section(func() { printDescendants(w, r.Descendants, top) })
	}

	for _, fail := range r.Failures {
		printError(w, "%s: %s", fail.Analysis, fail.Message)
	}
	printDetail(w, "run %s · %d individuals · %s", r.RunID, r.Individuals, r.Stats.Duration.Round(time.Millisecond))
}
