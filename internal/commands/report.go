package commands

import (
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/report"
)

func newReportCommand(g *globalFlags) *cobra.Command {
	var asCSV bool

	cmd := &cobra.Command{
		Use:   "report <report-id> [series...]",
		Short: "Show a report, drilled down to a series",
		Long: "Show a report's top-level series. Naming series after the report ID\n" +
			"descends into them, e.g. `tally report 3 Expenses Food`.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("report ID %q: %w", args[0], err)
			}
			return withSession(cmd, g, func(ctx context.Context, e *env, s *session) error {
				d, err := s.LoadReport(ctx, id)
				if err != nil {
					return err
				}
				if len(args) > 1 {
					if d, err = s.SelectSeries(args[1:]); err != nil {
						return fmt.Errorf("%s: %w", strings.Join(args[1:], " > "), err)
					}
				}
				if asCSV {
					return writeDrillCSV(cmd, d)
				}
				printDrill(e, d)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asCSV, "csv", false, "write CSV instead of a table")
	return cmd
}

func breadcrumbTrail(d report.Drill) string {
	var labels []string
	for _, c := range d.Breadcrumbs() {
		labels = append(labels, c.Label)
	}
	return strings.Join(labels, " > ")
}

func printDrill(e *env, d report.Drill) {
	v := d.View()
	e.out.Header(breadcrumbTrail(d))
	if v.Subtitle != "" {
		e.out.Muted(v.Subtitle)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-24s", "")
	for _, l := range v.Labels {
		fmt.Fprintf(&b, "  %12s", truncate(l, 12))
	}
	fmt.Fprintf(&b, "  %12s", "Total")
	e.out.Line("%s", b.String())

	totals := d.Totals()
	for _, ns := range v.Series {
		b.Reset()
		fmt.Fprintf(&b, "%-24s", truncate(ns.Name, 24))
		for i := range v.Labels {
			var x float64
			if i < len(ns.Values) {
				x = ns.Values[i]
			}
			fmt.Fprintf(&b, "  %12.2f", x)
		}
		fmt.Fprintf(&b, "  %12.2f", totals[ns.Name])
		e.out.Line("%s", b.String())
	}
	if len(v.Series) == 0 {
		e.out.Muted("no series")
	}
	if v.Units != "" {
		e.out.Muted("Units: " + v.Units)
	}
}

func writeDrillCSV(cmd *cobra.Command, d report.Drill) error {
	cw := csv.NewWriter(cmd.OutOrStdout())
	if err := cw.Write(append(append([]string{"series"}, d.Tabulation.Labels...), "total")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	totals := d.Totals()
	for _, name := range d.Names() {
		row := []string{name}
		for _, v := range d.Flattened[name] {
			row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
		}
		row = append(row, strconv.FormatFloat(totals[name], 'f', -1, 64))
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
