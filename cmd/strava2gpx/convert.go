package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"strava2gpx/internal/activity"
	"strava2gpx/internal/config"
	"strava2gpx/internal/convert"
	"strava2gpx/internal/deps"
	"strava2gpx/internal/export"
	"strava2gpx/internal/gpsbabel"
	"strava2gpx/internal/history"
	"strava2gpx/internal/logging"
)

type convertOptions struct {
	input     string
	output    string
	types     []string
	year      int
	listTypes bool
	overwrite bool
	verbose   bool
}

func (o *convertOptions) validate() error {
	if o.listTypes {
		if o.output != "" || len(o.types) > 0 || o.year != 0 || o.overwrite {
			return errors.New("--list-types cannot be combined with output or filter flags")
		}
	}
	return nil
}

func runConvert(cmd *cobra.Command, ctx *commandContext, opts *convertOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	logger, err := newCommandLogger(cmd, cfg, opts.verbose)
	if err != nil {
		return err
	}

	reader, err := export.Open(opts.input)
	if err != nil {
		return err
	}
	defer reader.Close()

	records, err := readIndex(reader, cfg.Export.IndexFile, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.listTypes {
		printActivityTypes(out, records)
		return nil
	}

	outputDir := strings.TrimSpace(opts.output)
	if outputDir == "" {
		outputDir = cfg.Paths.OutputDir
	}
	if outputDir == "" {
		return errors.New("output directory is required (pass --output or set paths.output_dir)")
	}
	outputDir, err = config.ExpandPath(outputDir)
	if err != nil {
		return err
	}

	matches := activity.Filter(records, activity.Criteria{Types: opts.types, Year: opts.year})
	logger.Info("activity index loaded",
		slog.Int("total", len(records)),
		slog.Int("matched", len(matches)))
	logFilteredOut(logger, records, matches)

	if needsConverter(matches) {
		if err := requireConverter(cfg); err != nil {
			return err
		}
	}

	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return errors.New("another strava2gpx run is already in progress")
	}
	defer func() {
		_ = lock.Unlock()
	}()

	var ledger convert.Ledger
	if cfg.History.Enabled {
		store, err := history.Open(cfg.HistoryDBPath())
		if err != nil {
			logger.Warn("conversion history unavailable", slog.Any("error", err))
		} else {
			defer store.Close()
			ledger = store
		}
	}

	client, err := gpsbabel.New(cfg.Converter.Binary, cfg.Converter.Timeout)
	if err != nil {
		return err
	}

	dispatcher, err := convert.New(convert.Options{
		Reader:     reader,
		Converter:  client,
		Ledger:     ledger,
		OutputDir:  outputDir,
		StagingDir: cfg.Paths.StagingDir,
		Overwrite:  opts.overwrite || cfg.Converter.OverwriteExisting,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	summary, err := dispatcher.Run(cmd.Context(), matches)
	if err != nil {
		return err
	}

	printSummary(out, summary, len(matches))
	if !summary.Ok() {
		return fmt.Errorf("%d of %d activities failed to convert", summary.Failed, len(matches))
	}
	return nil
}

func newCommandLogger(cmd *cobra.Command, cfg *config.Config, verbose bool) (*slog.Logger, error) {
	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	return logging.New(logging.Options{
		Level:  level,
		Format: cfg.Logging.Format,
		Writer: cmd.ErrOrStderr(),
	})
}

func readIndex(reader export.Reader, indexFile string, logger *slog.Logger) ([]activity.Record, error) {
	rc, err := reader.Open(indexFile)
	if err != nil {
		if errors.Is(err, export.ErrMissingEntry) {
			return nil, fmt.Errorf("export does not contain %s", indexFile)
		}
		return nil, err
	}
	defer rc.Close()
	return activity.ParseIndex(rc, logger)
}

// needsConverter reports whether any matched activity requires gpsbabel.
// Exports holding only GPX tracks convert without it.
func needsConverter(records []activity.Record) bool {
	for _, rec := range records {
		if !rec.HasTrack() {
			continue
		}
		name := strings.TrimSuffix(rec.SourceFile, ".gz")
		if _, err := gpsbabel.FormatTag(path.Ext(name)); err == nil {
			return true
		}
	}
	return false
}

func requireConverter(cfg *config.Config) error {
	for _, status := range deps.CheckBinaries([]deps.Requirement{deps.Converter(cfg.Converter.Binary)}) {
		if !status.Available {
			return fmt.Errorf("%s is not available: %s", status.Name, status.Detail)
		}
	}
	return nil
}

func logFilteredOut(logger *slog.Logger, records, matches []activity.Record) {
	if len(matches) == len(records) {
		return
	}
	matched := make(map[string]struct{}, len(matches))
	for _, rec := range matches {
		matched[rec.ID] = struct{}{}
	}
	for _, rec := range records {
		if _, ok := matched[rec.ID]; ok {
			continue
		}
		logger.Debug("activity filtered out",
			slog.String(logging.FieldActivityID, rec.ID),
			slog.String("type", rec.Type),
			slog.Int("year", rec.Date.Year()))
	}
}

// printActivityTypes lists the distinct types, one per line when piped so
// the output stays scriptable, as a table on a terminal.
func printActivityTypes(out io.Writer, records []activity.Record) {
	types := activity.Types(records)
	if len(types) == 0 {
		fmt.Fprintln(out, "No activities found in the export index.")
		return
	}
	if isTerminal(out) {
		rows := make([][]string, 0, len(types))
		for _, t := range types {
			rows = append(rows, []string{t})
		}
		fmt.Fprintln(out, renderTable([]string{"Activity Type"}, rows, []columnAlignment{alignLeft}))
		return
	}
	for _, t := range types {
		fmt.Fprintln(out, t)
	}
}

func printSummary(out io.Writer, summary convert.Summary, matched int) {
	fmt.Fprintf(out, "Converted %d, skipped %d, failed %d (of %d matched activities)\n",
		summary.Converted, summary.Skipped, summary.Failed, matched)

	if len(summary.Failures) == 0 {
		return
	}
	rows := make([][]string, 0, len(summary.Failures))
	for _, failure := range summary.Failures {
		rows = append(rows, []string{failure.ActivityID, failure.SourceFile, failure.Reason})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Activity", "Source", "Reason"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft},
	))
}
