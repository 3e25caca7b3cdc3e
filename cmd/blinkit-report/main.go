// Command blinkit-report prints dashboard figures for a Blinkit sales
// dataset and exports filtered rows, without starting the web server.
//
//	blinkit-report summary --data blinkit_data.csv --outlet-size Small,Medium
//	blinkit-report export --format xlsx --out small.xlsx --outlet-size Small
//	blinkit-report export --out-dir exports --item-type Dairy
//	blinkit-report options
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gurnulezaran/Blinkit-Data-Analysis/internal/config"
	"github.com/gurnulezaran/Blinkit-Data-Analysis/internal/dataprocessing"
	"github.com/gurnulezaran/Blinkit-Data-Analysis/internal/exporter"
	"github.com/gurnulezaran/Blinkit-Data-Analysis/internal/files"
	"github.com/gurnulezaran/Blinkit-Data-Analysis/internal/infrastructure"
	"github.com/gurnulezaran/Blinkit-Data-Analysis/internal/services"
	"github.com/gurnulezaran/Blinkit-Data-Analysis/internal/validation"
	"github.com/gurnulezaran/Blinkit-Data-Analysis/pkg/contracts"
	api "github.com/gurnulezaran/Blinkit-Data-Analysis/pkg/contracts/api/v1"
)

// cli holds the state shared by every subcommand.
type cli struct {
	dataPath string
	logLevel string
	jsonOut  bool

	itemTypes   []string
	outletSizes []string
	yearMin     int
	yearMax     int

	exportDir string

	logger  *slog.Logger
	service *services.DashboardService
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	defaults := config.Default()
	if env := os.Getenv("BLINKIT_DATASET_FILE"); env != "" {
		defaults.Dataset.Path = env
	}

	root := &cobra.Command{
		Use:           "blinkit-report",
		Short:         "Blinkit sales dashboard figures from the command line",
		Version:       contracts.GetFullVersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			return c.setup(cmd)
		},
	}

	root.SetVersionTemplate("{{.Version}}\n")

	flags := root.PersistentFlags()
	flags.StringVarP(&c.dataPath, "data", "d", defaults.Dataset.Path, "dataset file (CSV or XLSX) or a directory holding one")
	flags.StringVar(&c.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	flags.BoolVar(&c.jsonOut, "json", false, "print JSON instead of text")
	flags.StringSliceVar(&c.itemTypes, "item-type", nil, "item types to include (default all)")
	flags.StringSliceVar(&c.outletSizes, "outlet-size", nil, "outlet sizes to include (default all)")
	flags.IntVar(&c.yearMin, "year-min", 0, "earliest outlet establishment year")
	flags.IntVar(&c.yearMax, "year-max", 0, "latest outlet establishment year")

	root.AddCommand(
		newSummaryCmd(c),
		newExportCmd(c),
		newOptionsCmd(c),
		newChartCmd(c),
	)
	return root
}

// setup builds the logger, checks the dataset and output paths and loads
// the dataset.
func (c *cli) setup(cmd *cobra.Command) error {
	logger, err := infrastructure.NewLogger(config.LoggingConfig{
		Level:  c.logLevel,
		Output: "console",
	}, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	c.logger = logger

	path, err := files.ResolveDatasetPath(c.dataPath)
	if err != nil {
		return err
	}
	fileValidator := validation.NewFileValidator(logger)
	if err := fileValidator.ValidateDatasetFile(path); err != nil {
		return err
	}

	var subsetExporter *exporter.SubsetExporter
	if c.exportDir != "" {
		if err := fileValidator.ValidateOutputDirectory(c.exportDir); err != nil {
			return err
		}
		subsetExporter = exporter.NewSubsetExporter(c.exportDir, logger)
	}

	c.service = services.NewDashboardService(dataprocessing.NewLoader(logger), subsetExporter, nil, logger)
	if _, err := c.service.LoadFile(cmd.Context(), path, services.OriginFile); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// filterRequest turns the filter flags into a request. Flags left unset
// fall back to the select-everything default.
func (c *cli) filterRequest(cmd *cobra.Command) api.FilterRequest {
	var req api.FilterRequest
	flags := cmd.Flags()

	if flags.Changed("item-type") {
		req.ItemTypes = nonNil(c.itemTypes)
	}
	if flags.Changed("outlet-size") {
		req.OutletSizes = nonNil(c.outletSizes)
	}
	if flags.Changed("year-min") {
		v := c.yearMin
		req.YearMin = &v
	}
	if flags.Changed("year-max") {
		v := c.yearMax
		req.YearMax = &v
	}
	return req
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
