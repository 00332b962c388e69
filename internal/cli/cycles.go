package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	pedio "github.com/matzehuels/pedigraph/pkg/io"
	"github.com/matzehuels/pedigraph/pkg/pedigree/cycle"
	"github.com/matzehuels/pedigraph/pkg/pipeline"
)

func (c *CLI) cyclesCommand() *cobra.Command {
	var f commonFlags
	cmd := &cobra.Command{
		Use:   "cycles <pedigree.json>",
		Short: "Find individuals that are their own ancestors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.analyze(cmd, args[0], &f, nil, pipeline.AnalysisCycles)
			if err != nil {
				return err
			}
			if f.json {
				return pedio.WriteResult(a.result.Cycles, c.out)
			}
			printCycles(c.out, a.result.Cycles)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func printCycles(w io.Writer, r *cycle.Result) {
	printTitle(w, "Ancestry cycles")
	if !r.HasCycles() {
		printSuccess(w, "Pedigree is acyclic")
		return
	}
	printWarning(w, "%d cycles found", r.Count)
	for _, cyc := range r.Cycles[:min(len(r.Cycles), maxListed)] {
		printDetail(w, "%s", strings.Join(cyc, " "+iconArrow+" "))
	}
	if len(r.Cycles) > maxListed {
		printDetail(w, "… and %d more", len(r.Cycles)-maxListed)
	}
}
