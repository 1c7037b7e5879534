package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"mazescore/adapters/excel"
	"mazescore/adapters/render"
	"mazescore/domain/core"
	"mazescore/domain/strategy"
	"mazescore/internal"
	"mazescore/internal/analysis"
	"mazescore/internal/cohort"
	"mazescore/internal/config"
	"mazescore/internal/errors"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// app holds what every command needs
type app struct {
	cfg    *config.Config
	logger *internal.Logger
	color  bool
}

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	a := &app{
		cfg:    cfg,
		logger: internal.NewLogger(cfg.LogLevel),
		color:  colorEnabled(os.Stdout),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func colorEnabled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "mazescore",
		Short:         "Score maze sessions by rule shift phase and choice strategy",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(a),
		newBatchCmd(a),
		newColumnsCmd(a),
	)
	return rootCmd
}

func newAnalyzeCmd(a *app) *cobra.Command {
	var format string
	var xlsxPath string
	var sheet string

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Count choices and strategies per rule shift phase",
		Long: `Analyze one FED maze session export (.csv or .xlsx).

Only events within one hour of the first timestamp are counted. The report has
two tables: total counts of every event category, and per-phase counts with
trials to criterion and strategy percentages.

Example: mazescore analyze mouse12.csv --format markdown --xlsx mouse12_scores.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(a, cmd.OutOrStdout(), args[0], format, xlsxPath, sheet)
		},
	}

	cmd.Flags().StringVar(&format, "format", a.cfg.Output.Format, "Output format: text|markdown|html|json")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Also write both tables to this workbook")
	cmd.Flags().StringVar(&sheet, "sheet", a.cfg.Data.Sheet, "Workbook sheet to read (default: first sheet)")
	return cmd
}

func newBatchCmd(a *app) *cobra.Command {
	var concurrency int
	var format string

	cmd := &cobra.Command{
		Use:   "batch [files...]",
		Short: "Analyze many sessions and summarize phases across them",
		Long: `Analyze several session exports concurrently and summarize each phase
across sessions (trials to criterion, percent correct, strategy percentages).

A file that fails to load or analyze is reported and skipped. The command
fails only when every file fails.

Example: mazescore batch data/*.csv --concurrency 8 --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd.Context(), a, cmd.OutOrStdout(), args, concurrency, format)
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", a.cfg.Batch.Concurrency, "Sessions analyzed at once")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text|markdown|json")
	return cmd
}

func newColumnsCmd(a *app) *cobra.Command {
	var sheet string

	cmd := &cobra.Command{
		Use:   "columns [file]",
		Short: "Show which columns the analysis reads from a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runColumns(a, cmd.OutOrStdout(), args[0], sheet)
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", a.cfg.Data.Sheet, "Workbook sheet to read (default: first sheet)")
	return cmd
}

func runAnalyze(a *app, w io.Writer, path, format, xlsxPath, sheet string) error {
	opts := render.Options{
		Source: filepath.Base(path),
		RunID:  core.NewRunID(),
		Color:  a.color,
	}
	renderer, err := render.ForFormat(format, opts)
	if err != nil {
		return errors.WithCode(errors.CodeInvalidInput, err)
	}

	table, err := excel.NewLoader(sheet, a.cfg.Columns, a.logger).Load(path)
	if err != nil {
		return errors.Wrapf(err, "failed to load %s", path)
	}

	res, err := analysis.NewAnalyzer(a.cfg.Columns, a.logger).Analyze(table)
	if err != nil {
		return errors.Wrapf(err, "failed to analyze %s", path)
	}
	a.logger.Info("run %s: %s, %d phases", opts.RunID, opts.Source, len(res.Phases.Phases))

	if err := renderer.Render(w, res); err != nil {
		return errors.Wrap(err, "failed to write report")
	}

	if xlsxPath != "" {
		if err := excel.WriteResult(xlsxPath, res); err != nil {
			return errors.Wrapf(err, "failed to export %s", xlsxPath)
		}
		a.logger.Info("wrote %s", xlsxPath)
	}
	return nil
}

func runBatch(ctx context.Context, a *app, w io.Writer, paths []string, concurrency int, format string) error {
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "text", "markdown", "md", "json":
	default:
		return errors.InvalidInput(fmt.Sprintf("unknown batch format %q (want text, markdown or json)", format))
	}

	loader := excel.NewLoader(a.cfg.Data.Sheet, a.cfg.Columns, a.logger)
	runner := cohort.NewRunner(analysis.NewAnalyzer(a.cfg.Columns, a.logger), loader.Load, concurrency, a.logger)

	report, err := runner.Run(ctx, paths)
	if err != nil {
		return errors.Wrap(err, "batch cancelled")
	}

	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return errors.Wrap(err, "failed to write report")
		}
	} else {
		title := fmt.Sprintf("Cohort of %d sessions", len(report.Sessions))
		frames := []strategy.Frame{cohort.SessionsFrame(report), cohort.SummaryFrame(report.Summary)}
		if err := render.WriteFrames(w, format, title, frames, a.color); err != nil {
			return errors.Wrap(err, "failed to write report")
		}
	}

	if report.Failed == len(paths) {
		return errors.New(errors.CodeInvalidInput, fmt.Sprintf("all %d sessions failed", len(paths)))
	}
	return nil
}

func runColumns(a *app, w io.Writer, path, sheet string) error {
	table, err := excel.NewLoader(sheet, a.cfg.Columns, a.logger).Load(path)
	if err != nil {
		return errors.Wrapf(err, "failed to load %s", path)
	}

	resolved, err := analysis.NewAnalyzer(a.cfg.Columns, a.logger).ResolveColumns(table)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ROLE\tPOSITION\tHEADER")
	for _, b := range resolved.Describe(table.Columns) {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", b.Role, b.Position, b.Header)
	}
	if resolved.EventsByAlias {
		fmt.Fprintf(tw, "\nevents column matched by header %q\n", a.cfg.Columns.EventsAlias)
	}
	return tw.Flush()
}
