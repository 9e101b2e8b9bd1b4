// Package main provides the CLI entry point for fasttab.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/firstat/fasttab/internal/config"
	"github.com/firstat/fasttab/internal/console"
	"github.com/firstat/fasttab/internal/logging"
	"github.com/firstat/fasttab/internal/web"
	"github.com/firstat/fasttab/pkg/fasttab"
	"github.com/firstat/fasttab/pkg/fasttab/models"
	"github.com/firstat/fasttab/pkg/fasttab/parser"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	logLevel  string
	logFormat string
	envFile   string

	previewRows int

	oneWay       []string
	demographic  []string
	multiChoice  []string
	outDir       string
	percentages  bool
	charts       bool
	chartType    string
	missingLabel string
	sheetName    string
	cellRange    string

	addr string

	cfg    *config.Config
	logger zerolog.Logger
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fasttab",
		Short: "Tabulate survey responses from Excel files",
		Long: `fasttab reads a spreadsheet of survey responses and produces one-way
frequency tables, two-way cross-tabulations and multiple-choice option
counts, each exported as its own xlsx workbook.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default from FASTTAB_LOG_LEVEL or info)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: console, json (default from FASTTAB_LOG_FORMAT or console)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "Optional .env file with FASTTAB_* settings")

	inspectCmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show the columns and first rows of a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}
	inspectCmd.Flags().IntVar(&previewRows, "rows", console.DefaultPreviewRows, "Number of rows to preview")
	addLoadFlags(inspectCmd)

	runCmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Tabulate the selected columns and write the result workbooks",
		Args:  cobra.ExactArgs(1),
		RunE:  runTabulate,
	}
	runCmd.Flags().StringSliceVar(&oneWay, "one-way", nil, "Columns for one-way frequency tables (also the cross-tab targets)")
	runCmd.Flags().StringSliceVar(&demographic, "demographic", nil, "Columns crossed with every one-way column")
	runCmd.Flags().StringSliceVar(&multiChoice, "multi", nil, "Multiple-choice columns holding comma-delimited options")
	runCmd.Flags().StringVar(&outDir, "out-dir", "", "Directory for the result workbooks (default from FASTTAB_OUT_DIR or .)")
	runCmd.Flags().BoolVar(&percentages, "percent", false, "Add a percentage column to one-way tables")
	runCmd.Flags().BoolVar(&charts, "charts", false, "Add charts to one-way and multiple-choice sheets")
	runCmd.Flags().StringVar(&chartType, "chart-type", "column", "Chart kind for --charts: column, bar, pie, line")
	runCmd.Flags().StringVar(&missingLabel, "missing-label", "", "Label for empty cells (default from FASTTAB_MISSING_LABEL or Missing)")
	addLoadFlags(runCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the local web UI",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from FASTTAB_ADDR or :8501)")

	rootCmd.AddCommand(inspectCmd, runCmd, serveCmd)
	return rootCmd
}

func addLoadFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&sheetName, "sheet", "", "Worksheet to read (default: first sheet)")
	cmd.Flags().StringVar(&cellRange, "range", "", "Cell range to read, e.g. A1:F200 or Data!A1:F200")
}

// setup loads configuration and builds the logger. Flags override
// configured values when set.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(envFile)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		if !logging.ValidFormat(logFormat) {
			return fmt.Errorf("invalid log format: %s (must be console or json)", logFormat)
		}
		cfg.Log.Format = logFormat
	}
	if cmd.Flags().Changed("out-dir") {
		cfg.Output.Dir = outDir
	}
	if cmd.Flags().Changed("missing-label") {
		cfg.Output.MissingLabel = missingLabel
	}
	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr = addr
	}

	logger = logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	return nil
}

func loadOptions() parser.Options {
	return parser.Options{
		Sheet: sheetName,
		Range: cellRange,
	}
}

func processOptions() (fasttab.Options, error) {
	opts := fasttab.DefaultOptions()
	opts.Labels.Missing = cfg.Output.MissingLabel
	opts.Percentages = percentages
	opts.Charts = charts
	kind, ok := models.ParseChartType(chartType)
	if !ok {
		return opts, fmt.Errorf("unknown chart type %q: use column, bar, pie or line", chartType)
	}
	opts.ChartType = kind
	opts.Logger = logger
	return opts, nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	table, err := parser.LoadFile(args[0], loadOptions())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	console.Preview(out, table, previewRows)
	console.Columns(out, table)
	return nil
}

func runTabulate(cmd *cobra.Command, args []string) error {
	sel := fasttab.Selection{
		OneWay:      oneWay,
		Demographic: demographic,
		MultiChoice: multiChoice,
	}
	if sel.Empty() {
		return errors.New("nothing selected: use --one-way, --demographic or --multi")
	}
	opts, err := processOptions()
	if err != nil {
		return err
	}

	table, err := parser.LoadFile(args[0], loadOptions())
	if err != nil {
		return err
	}
	logger.Info().
		Str("file", table.SourceName).
		Str("sheet", table.SheetName).
		Int("rows", table.Len()).
		Msg("table loaded")

	result := fasttab.Process(table, sel, opts)
	outputs := result.Outputs()
	if len(outputs) == 0 && len(result.Errors()) == 0 {
		return errors.New("nothing to tabulate: cross-tabulation needs --one-way columns")
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	paths := make(map[fasttab.Kind]string, len(outputs))
	for _, out := range outputs {
		path := filepath.Join(cfg.Output.Dir, out.Workbook.FileName)
		if err := os.WriteFile(path, out.Workbook.Data, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		paths[out.Kind] = path
		logger.Debug().Str("path", path).Msg("workbook written")
	}

	console.Summary(cmd.OutOrStdout(), result, paths)

	if len(outputs) == 0 {
		return errors.Join(result.Errors()...)
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	opts, err := processOptions()
	if err != nil {
		return err
	}
	srv, err := web.NewServer(web.Options{
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		SessionTTL:     cfg.Server.SessionTTL,
		Process:        opts,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Start(ctx, cfg.Server.Addr)
}
