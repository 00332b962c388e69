package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	pedio "github.com/matzehuels/pedigraph/pkg/io"
	"github.com/matzehuels/pedigraph/pkg/pipeline"
)

func (c *CLI) lineageCommand() *cobra.Command {
	var (
		f                   commonFlags
		deepestSample, deepestCap int
		threshold, sample   int
		maxDepth            int
		seed                uint64
	)
	cmd := &cobra.Command{
		Use:   "lineage <pedigree.json>",
		Short: "Measure ancestry depth",
		Long: `Report the deepest ancestry among a random sample of non-founders and the
distribution of ancestry depth across the population.

Depth is 0 for founders and one more than the deeper parent otherwise.
Populations above --threshold are sampled; the histogram is then scaled to
the population size.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tune := func(o *pipeline.Options) {
				override(cmd, "deepest-sample", &o.DeepestSample, deepestSample)
				override(cmd, "deepest-cap", &o.DeepestCap, deepestCap)
				override(cmd, "threshold", &o.DistributionThreshold, threshold)
				override(cmd, "sample", &o.DistributionSample, sample)
				override(cmd, "max-depth", &o.MaxDepth, maxDepth)
				override(cmd, "seed", &o.Seed, seed)
			}
			a, err := c.analyze(cmd, args[0], &f, tune, pipeline.AnalysisLineage)
			if err != nil {
				return err
			}
			if f.json {
				return pedio.WriteResult(a.result.Lineage, c.out)
			}
			printLineage(c.out, a.result.Lineage)
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().IntVar(&deepestSample, "deepest-sample", 200, "non-founders sampled for the deepest ancestry")
	cmd.Flags().IntVar(&deepestCap, "deepest-cap", 100, "cap on the reported deepest depth")
	cmd.Flags().IntVar(&threshold, "threshold", 1_000_000, "population size above which the histogram is sampled")
	cmd.Flags().IntVar(&sample, "sample", 10_000, "individuals sampled for the histogram")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 20, "histogram length; deeper values share the last bucket")
	cmd.Flags().Uint64Var(&seed, "seed", pipeline.DefaultSeed, "sampler seed")
	return cmd
}

func printLineage(w io.Writer, l *pipeline.Lineage) {
	printTitle(w, "Lineage depth")
	if l.Deepest.ID == "" {
		printInfo(w, "No individual has a recorded parent")
	} else {
		printKeyValue(w, "Deepest sampled", fmt.Sprintf("%s (%d generations)", l.Deepest.ID, l.Deepest.Depth))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, renderHistogram(l.Distribution, 40))
}
