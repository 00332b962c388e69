package cli

import (
	"cmp"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pedigraph/pkg/errors"
	pedio "github.com/matzehuels/pedigraph/pkg/io"
	"github.com/matzehuels/pedigraph/pkg/pedigree/qc"
	"github.com/matzehuels/pedigraph/pkg/pipeline"
)

func (c *CLI) qcCommand() *cobra.Command {
	var (
		f   commonFlags
		top int
	)
	cmd := &cobra.Command{
		Use:   "qc <pedigree.json>",
		Short: "Report record counts and validation anomalies",
		Long: `Count founders, parent completeness and progeny, and list anomalies:
duplicate ids, parents referenced but absent, self-parenting, ids used as
both sire and dam and, when sex is recorded, sex/role mismatches.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.analyze(cmd, args[0], &f, nil, pipeline.AnalysisQC)
			if err != nil {
				return err
			}
			if f.json {
				return pedio.WriteResult(a.result.QC, c.out)
			}
			printQCReport(c.out, a.result.QC, top)
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().IntVar(&top, "top", 10, "number of most prolific sires and dams to list")
	return cmd
}

func printQCReport(w io.Writer, r *qc.Report, top int) {
	printTitle(w, "Pedigree QC")
	printKeyValue(w, "Individuals", r.Total)
	printKeyValue(w, "Founders", r.Founders)
	printKeyValue(w, "Both parents known", r.WithBothParents)
	printKeyValue(w, "Only sire known", r.OnlySire)
	printKeyValue(w, "Only dam known", r.OnlyDam)
	printKeyValue(w, "Unique sires / dams", fmt.Sprintf("%d / %d", r.UniqueSires, r.UniqueDams))
	printKeyValue(w, "With / without progeny", fmt.Sprintf("%d / %d", r.IndividualsWithProgeny, r.IndividualsWithoutProgeny))
	printKeyValue(w, "Founder sires / dams", fmt.Sprintf("%d / %d", r.FounderSires, r.FounderDams))
	printKeyValue(w, "Founders without progeny", r.FounderNoProgeny)

	anomalies := r.SelfParentCount + len(r.DuplicateIDs) + len(r.MissingSires) + len(r.MissingDams) + len(r.DualRoleIDs)
	if r.Sex != nil {
		anomalies += r.Sex.SireMismatchCount + r.Sex.DamMismatchCount
	}
	fmt.Fprintln(w)
	if anomalies == 0 {
		printSuccess(w, "No anomalies found")
	} else {
		printWarning(w, "%d anomalies found", anomalies)
		if r.SelfParentCount > 0 {
			printKeyValue(w, "Self-parent records", r.SelfParentCount)
		}
		printIDs(w, "Duplicate ids", r.DuplicateIDs)
		printIDs(w, "Missing sires", r.MissingSires)
		printIDs(w, "Missing dams", r.MissingDams)
		printIDs(w, "Dual-role ids", r.DualRoleIDs)
		if r.Sex != nil {
			printIDs(w, "Sires not male", r.Sex.SireMismatchIDs)
			printIDs(w, "Dams not female", r.Sex.DamMismatchIDs)
		}
	}

	if top > 0 && (len(r.SireProgeny) > 0 || len(r.DamProgeny) > 0) {
		fmt.Fprintln(w)
		printTitle(w, "Most prolific parents")
		fmt.Fprintln(w, renderTable([]string{"Sire", "Progeny", "Dam", "Progeny"}, progenyRows(r, top)))
	}
}

// progenyRows pairs the top sires and dams by progeny count side by side.
func progenyRows(r *qc.Report, top int) [][]string {
	sires, dams := topProgeny(r.SireProgeny, top), topProgeny(r.DamProgeny, top)
	rows := make([][]string, max(len(sires), len(dams)))
	for i := range rows {
		rows[i] = []string{"", "", "", ""}
		if i < len(sires) {
			rows[i][0], rows[i][1] = sires[i].ID, fmt.Sprint(sires[i].Count)
		}
		if i < len(dams) {
			rows[i][2], rows[i][3] = dams[i].ID, fmt.Sprint(dams[i].Count)
		}
	}
	return rows
}

// topProgeny returns the n largest counts; ties keep first-appearance order.
func topProgeny(counts []qc.ProgenyCount, n int) []qc.ProgenyCount {
	sorted := slices.Clone(counts)
	slices.SortStableFunc(sorted, func(a, b qc.ProgenyCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return sorted[:min(n, len(sorted))]
}

func (c *CLI) chronologyCommand() *cobra.Command {
	var f commonFlags
	cmd := &cobra.Command{
		Use:   "chronology <pedigree.json>",
		Short: "Check that offspring are born after their parents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.analyze(cmd, args[0], &f, nil, pipeline.AnalysisChronology)
			if err != nil {
				return err
			}
			if a.result.Chronology == nil {
				return errors.New(errors.ErrCodeInvalidInput, "pedigree has no birth_dates column")
			}
			if f.json {
				return pedio.WriteResult(a.result.Chronology, c.out)
			}
			printChronology(c.out, a.result.Chronology)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func printChronology(w io.Writer, ch *qc.Chronology) {
	printTitle(w, "Birth-date chronology")
	if ch.Count == 0 {
		printSuccess(w, "All offspring are younger than their parents")
		return
	}
	printWarning(w, "%d records born on or before a parent", ch.Count)
	printKeyValue(w, "Sire violations", ch.InvalidSireCount)
	printKeyValue(w, "Dam violations", ch.InvalidDamCount)

	rows := make([][]string, 0, min(len(ch.Violations), maxListed))
	for _, v := range ch.Violations[:min(len(ch.Violations), maxListed)] {
		rows = append(rows, []string{v.Offspring, v.Sire, v.Dam})
	}
	fmt.Fprintln(w, renderTable([]string{"Offspring", "Sire", "Dam"}, rows))
	if len(ch.Violations) > maxListed {
		printDetail(w, "… and %d more (use --json for the full list)", len(ch.Violations)-maxListed)
	}
}
