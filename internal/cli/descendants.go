package cli

import (
	"cmp"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	pedio "github.com/matzehuels/pedigraph/pkg/io"
	"github.com/matzehuels/pedigraph/pkg/pedigree/descendants"
	"github.com/matzehuels/pedigraph/pkg/pipeline"
)

// generationColumns is the number of per-generation columns shown in text
// output.
const generationColumns = 4

func (c *CLI) descendantsCommand() *cobra.Command {
	var (
		f        commonFlags
		role     string
		lines    string
		maxDepth int
		top      int
	)
	cmd := &cobra.Command{
		Use:   "descendants <pedigree.json>",
		Short: "Count descendants of every sire or dam",
		Long: `Count, for every individual used as a sire (or dam with --role dam), its
descendants per generation. Each descendant is counted once, at the first
generation it is reached.

By default only the chosen role is followed below the first generation
(sire lines or dam lines); --lines any follows both parents.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tune := func(o *pipeline.Options) {
				override(cmd, "role", &o.Role, role)
				override(cmd, "lines", &o.Lines, lines)
				override(cmd, "max-depth", &o.DescendantDepth, maxDepth)
			}
			a, err := c.analyze(cmd, args[0], &f, tune, pipeline.AnalysisDescendants)
			if err != nil {
				return err
			}
			if f.json {
				return pedio.WriteResult(a.result.Descendants, c.out)
			}
			printDescendants(c.out, a.result.Descendants, top)
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&role, "role", "sire", "parent role: sire or dam")
	cmd.Flags().StringVar(&lines, "lines", "same", "lines followed: same or any")
	cmd.Flags().IntVar(&maxDepth, "max-depth", descendants.DefaultMaxDepth, "generations expanded")
	cmd.Flags().IntVar(&top, "top", 10, "number of parents with the most descendants to list (0 for all)")
	return cmd
}

func printDescendants(w io.Writer, r *descendants.Result, top int) {
	printTitle(w, fmt.Sprintf("Descendants by %s", r.Role))
	if len(r.Summaries) == 0 {
		printInfo(w, "No individual is used as a %s", r.Role)
		return
	}

	ranked := slices.Clone(r.Summaries)
	slices.SortStableFunc(ranked, func(a, b descendants.Summary) int { return cmp.Compare(b.Total, a.Total) })
	if top > 0 {
		ranked = ranked[:min(top, len(ranked))]
	}

	gens := min(generationColumns, r.MaxDepth)
	headers := []string{titleCase(r.Role.String()), "Total"}
	for g := 1; g <= gens; g++ {
		headers = append(headers, fmt.Sprintf("Gen %d", g))
	}
	rows := make([][]string, 0, len(ranked))
	for _, s := range ranked {
		row := []string{s.Parent, fmt.Sprint(s.Total)}
		for g := range gens {
			row = append(row, fmt.Sprint(s.PerGeneration[g]))
		}
		rows = append(rows, row)
	}
	fmt.Fprintln(w, renderTable(headers, rows))
	if len(ranked) < len(r.Summaries) {
		printDetail(w, "%d of %d %ss shown", len(ranked), len(r.Summaries), r.Role)
	}
}

// titleCase upper-cases the first letter of an ASCII word.
func titleCase(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
