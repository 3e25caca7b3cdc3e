package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gurnulezaran/Blinkit-Data-Analysis/internal/exporter"
	"github.com/gurnulezaran/Blinkit-Data-Analysis/pkg/contracts/domain"
)

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newSummaryCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print the KPIs and the location by fat content table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dashboard, err := c.service.Dashboard(cmd.Context(), c.filterRequest(cmd))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if c.jsonOut {
				return writeJSON(out, dashboard)
			}
			return printSummary(out, dashboard)
		},
	}
}

func printSummary(out io.Writer, d domain.Dashboard) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Total Sales\t%s\n", d.Display.TotalSales)
	fmt.Fprintf(tw, "Average Sales\t%s\n", d.Display.AverageSales)
	fmt.Fprintf(tw, "No. of Items\t%s\n", d.Display.ItemCount)
	fmt.Fprintf(tw, "Average Rating\t%s\n", d.Display.AverageRating)
	fmt.Fprintln(tw)

	fmt.Fprintf(tw, "Location\t%s\n", strings.Join(d.Tiers.Columns, "\t"))
	for _, row := range d.Tiers.Rows {
		cells := make([]string, 0, len(d.Tiers.Columns))
		for _, col := range d.Tiers.Columns {
			cell, _ := row.Cell(col)
			if cell.Present() {
				cells = append(cells, exporter.FormatCurrency(cell.Sum))
			} else {
				cells = append(cells, "-")
			}
		}
		fmt.Fprintf(tw, "%s\t%s\n", row.Location, strings.Join(cells, "\t"))
	}
	if err := d.Tiers.Err(); err != nil {
		fmt.Fprintf(tw, "\nwarning: %v\n", err)
	}
	return tw.Flush()
}

func newChartCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:       "chart NAME",
		Short:     "Print the data behind one dashboard chart",
		Args:      cobra.ExactArgs(1),
		ValidArgs: domain.ChartNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			chart, err := c.service.Chart(cmd.Context(), args[0], c.filterRequest(cmd))
			if err != nil {
				return fmt.Errorf("%w (available: %s)", err, strings.Join(domain.ChartNames, ", "))
			}
			out := cmd.OutOrStdout()
			if c.jsonOut {
				return writeJSON(out, chart)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, chart.Title)
			if chart.NoData {
				fmt.Fprintln(tw, "no data for this filter")
			}
			for _, series := range chart.Series {
				if len(chart.Series) > 1 {
					fmt.Fprintf(tw, "[%s]\n", series.Name)
				}
				for _, p := range series.Points {
					value := exporter.FormatCurrency(p.Value)
					if p.Missing {
						value = "-"
					}
					fmt.Fprintf(tw, "%s\t%s\n", p.Label, value)
				}
			}
			return tw.Flush()
		},
	}
}

func newOptionsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List the item types, outlet sizes and years in the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.service.Options(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if c.jsonOut {
				return writeJSON(out, opts)
			}
			fmt.Fprintf(out, "Item types:   %s\n", strings.Join(opts.ItemTypes, ", "))
			fmt.Fprintf(out, "Outlet sizes: %s\n", strings.Join(opts.OutletSizes, ", "))
			fmt.Fprintf(out, "Years:        %d-%d\n", opts.Years.Min, opts.Years.Max)
			return nil
		},
	}
}

func newExportCmd(c *cli) *cobra.Command {
	var (
		formatName string
		outPath    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered rows as CSV or XLSX",
		Long: `Write the rows matching the filter flags, with the dataset's original
columns in file order. --out - writes to standard output. --out-dir writes
filtered_data.<format> into that directory instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := exporter.ParseFormat(formatName)
			if err != nil {
				return err
			}
			if outPath == "" {
				outPath = format.FileName()
			}

			req := c.filterRequest(cmd)
			if c.exportDir != "" {
				path, err := c.service.SaveExport(cmd.Context(), req, format)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
				return nil
			}

			if outPath == "-" {
				return c.service.Export(cmd.Context(), req, format, cmd.OutOrStdout())
			}

			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", outPath, err)
			}
			if err := c.service.Export(cmd.Context(), req, format, f); err != nil {
				f.Close()
				os.Remove(outPath)
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to close %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatName, "format", "f", string(exporter.FormatCSV), "export format: csv or xlsx")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default filtered_data.<format>)")
	cmd.Flags().StringVar(&c.exportDir, "out-dir", "", "directory to write filtered_data.<format> into")
	cmd.MarkFlagsMutuallyExclusive("out", "out-dir")
	return cmd
}
