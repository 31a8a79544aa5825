package cmd

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ByLCY/roster/config"
	"github.com/ByLCY/roster/layout"
)

type inspectCommandParams struct {
	job string
}

func init() {
	var params inspectCommandParams

	inspectCommand := &cobra.Command{
		Use:   "inspect",
		Short: "Show the page geometry and column widths of a job",
		PreRunE: func(_ *cobra.Command, _ []string) error {
			if params.job == "" {
				return fmt.Errorf("missing --job")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return doInspect(params, cmd.OutOrStdout())
		},
	}
	addJobFlag(inspectCommand.Flags(), &params.job)
	RootCommand.AddCommand(inspectCommand)
}

func doInspect(params inspectCommandParams, out io.Writer) error {
	job, err := config.Load(params.job)
	if err != nil {
		return err
	}
	widths, err := layout.ComputeWidths(job.ColumnSpecs(), job.Page.TableWidth)
	if err != nil {
		return err
	}
	geom := job.Page.Geometry()

	fmt.Fprintf(out, "Job: %s\n", job.Name)
	fmt.Fprintf(out, "Title: %s\n\n", job.Meta.Title)

	page := generateTableWithKeys(out, "setting", "value")
	page.AppendBulk([][]string{
		{"page", formatPt(job.Page.PageWidth) + " x " + formatPt(job.Page.PageHeight)},
		{"title baseline", formatPt(job.Page.TitleBaselineY())},
		{"table top", formatPt(geom.TopOfTableY)},
		{"table width", formatPt(geom.TableWidth)},
		{"printable width", formatPt(job.Page.PrintableWidth())},
		{"bottom margin", formatPt(geom.PageBottomMargin)},
		{"usable height", formatPt(geom.UsableHeight())},
		{"rows per page (min height)", strconv.Itoa(int(math.Floor(geom.UsableHeight() / geom.RowMinHeight)))},
	})
	page.Render()
	fmt.Fprintln(out)

	columns := generateTableWithKeys(out, "#", "header", "field", "weight", "width")
	for i, col := range job.Columns {
		columns.Append([]string{
			strconv.Itoa(i + 1),
			col.Header,
			col.Field,
			strconv.FormatFloat(col.Weight, 'g', -1, 64),
			formatPt(widths[i]),
		})
	}
	columns.SetFooter([]string{"", "", "", "total", formatPt(sum(widths))})
	columns.Render()
	return nil
}

func generateTableWithKeys(writer io.Writer, keys ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(writer)
	aligns := make([]int, 0, len(keys))
	for range keys {
		aligns = append(aligns, tablewriter.ALIGN_LEFT)
	}
	table.SetHeader(keys)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetColumnAlignment(aligns)
	table.SetRowLine(false)
	table.SetAutoWrapText(false)
	return table
}

func formatPt(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64) + "pt"
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}
