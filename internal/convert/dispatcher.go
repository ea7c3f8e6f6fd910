package convert

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"strava2gpx/internal/activity"
	"strava2gpx/internal/export"
	"strava2gpx/internal/fileutil"
	"strava2gpx/internal/gpsbabel"
	"strava2gpx/internal/history"
	"strava2gpx/internal/logging"
)

// TrackConverter is the slice of the gpsbabel client the dispatcher needs.
type TrackConverter interface {
	Convert(ctx context.Context, formatTag, inputPath, outputPath string) error
}

// Ledger records dispatch outcomes. A nil ledger disables recording.
type Ledger interface {
	Record(ctx context.Context, entry *history.Entry) error
}

// Failure describes one activity that could not be converted.
type Failure struct {
	ActivityID string
	SourceFile string
	Reason     string
}

// Summary aggregates the outcome of a dispatch run.
type Summary struct {
	RunID     string
	Converted int
	Skipped   int
	Failed    int
	Failures  []Failure
}

// Ok reports whether the run completed without per-file failures.
func (s Summary) Ok() bool {
	return s.Failed == 0
}

// Options configures a Dispatcher.
type Options struct {
	Reader     export.Reader
	Converter  TrackConverter
	Ledger     Ledger
	OutputDir  string
	StagingDir string
	// Overwrite re-converts activities whose output file already exists.
	Overwrite bool
	Logger    *slog.Logger
}

// Dispatcher converts activity records one at a time.
type Dispatcher struct {
	reader     export.Reader
	converter  TrackConverter
	ledger     Ledger
	outputDir  string
	stagingDir string
	overwrite  bool
	logger     *slog.Logger
}

// New validates options and constructs a Dispatcher.
func New(opts Options) (*Dispatcher, error) {
	if opts.Reader == nil {
		return nil, errors.New("export reader is required")
	}
	if opts.Converter == nil {
		return nil, errors.New("track converter is required")
	}
	if strings.TrimSpace(opts.OutputDir) == "" {
		return nil, errors.New("output directory is required")
	}
	if strings.TrimSpace(opts.StagingDir) == "" {
		return nil, errors.New("staging directory is required")
	}
	return &Dispatcher{
		reader:     opts.Reader,
		converter:  opts.Converter,
		ledger:     opts.Ledger,
		outputDir:  opts.OutputDir,
		stagingDir: opts.StagingDir,
		overwrite:  opts.Overwrite,
		logger:     logging.WithComponent(opts.Logger, "dispatcher"),
	}, nil
}

// Run converts every record in order and returns the summary. Only
// structural problems (unusable output or staging directory, cancellation)
// produce an error; per-activity problems end up in the summary.
func (d *Dispatcher) Run(ctx context.Context, records []activity.Record) (Summary, error) {
	summary := Summary{RunID: uuid.NewString()}

	if err := os.MkdirAll(d.outputDir, 0o755); err != nil {
		return summary, fmt.Errorf("create output directory %q: %w", d.outputDir, err)
	}
	staging := filepath.Join(d.stagingDir, "run-"+summary.RunID)
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return summary, fmt.Errorf("create staging directory %q: %w", staging, err)
	}
	defer os.RemoveAll(staging)

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		d.dispatch(ctx, rec, staging, &summary)
	}

	d.logger.Info("conversion run finished",
		slog.String("run_id", summary.RunID),
		slog.Int("converted", summary.Converted),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", summary.Failed))
	return summary, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, rec activity.Record, staging string, summary *Summary) {
	if !rec.HasTrack() {
		d.skip(ctx, rec, "", summary, "no GPS track recorded")
		return
	}

	outPath := filepath.Join(d.outputDir, OutputName(rec))
	if !d.overwrite {
		if _, err := os.Stat(outPath); err == nil {
			d.skip(ctx, rec, outPath, summary, "output file already exists")
			return
		}
	}

	staged, err := d.materialize(rec, staging)
	if err != nil {
		if errors.Is(err, export.ErrMissingEntry) {
			d.skip(ctx, rec, "", summary, "source file missing from export")
			return
		}
		d.fail(ctx, rec, outPath, summary, err.Error())
		return
	}

	if strings.EqualFold(filepath.Ext(staged), ".gz") {
		unwrapped := strings.TrimSuffix(staged, filepath.Ext(staged))
		if err := fileutil.Gunzip(staged, unwrapped); err != nil {
			d.fail(ctx, rec, outPath, summary, fmt.Sprintf("decompress track: %v", err))
			return
		}
		staged = unwrapped
	}

	ext := strings.ToLower(filepath.Ext(staged))
	switch ext {
	case ".gpx":
		// Already the target format: pass it through untouched.
		if err := fileutil.CopyFile(staged, outPath); err != nil {
			d.fail(ctx, rec, outPath, summary, fmt.Sprintf("copy gpx: %v", err))
			return
		}
	case ".fit", ".tcx":
		tag, err := gpsbabel.FormatTag(ext)
		if err != nil {
			d.fail(ctx, rec, outPath, summary, err.Error())
			return
		}
		if ext == ".tcx" {
			// gpsbabel rejects TCX lines with stray surrounding whitespace.
			if err := normalizeWhitespace(staged); err != nil {
				d.fail(ctx, rec, outPath, summary, fmt.Sprintf("normalize tcx: %v", err))
				return
			}
		}
		if err := d.converter.Convert(ctx, tag, staged, outPath); err != nil {
			d.fail(ctx, rec, outPath, summary, err.Error())
			return
		}
	default:
		d.fail(ctx, rec, outPath, summary, fmt.Sprintf("unsupported track format %q", ext))
		return
	}

	summary.Converted++
	d.logger.Info("converted activity",
		slog.String(logging.FieldActivityID, rec.ID),
		slog.String("type", rec.Type),
		slog.String("output", outPath))
	d.record(ctx, rec, outPath, history.OutcomeConverted, "", summary.RunID)
}

// materialize copies the record's source file out of the export into the
// staging directory and returns the staged path.
func (d *Dispatcher) materialize(rec activity.Record, staging string) (string, error) {
	src, err := d.reader.Open(rec.SourceFile)
	if err != nil {
		return "", err
	}
	defer src.Close()

	staged := filepath.Join(staging, rec.ID+"_"+path.Base(rec.SourceFile))
	if err := fileutil.WriteFrom(src, staged); err != nil {
		return "", fmt.Errorf("stage track file: %w", err)
	}
	return staged, nil
}

func (d *Dispatcher) skip(ctx context.Context, rec activity.Record, outPath string, summary *Summary, reason string) {
	summary.Skipped++
	d.logger.Warn("skipping activity",
		slog.String(logging.FieldActivityID, rec.ID),
		slog.String("type", rec.Type),
		slog.String("reason", reason))
	d.record(ctx, rec, outPath, history.OutcomeSkipped, reason, summary.RunID)
}

func (d *Dispatcher) fail(ctx context.Context, rec activity.Record, outPath string, summary *Summary, reason string) {
	summary.Failed++
	summary.Failures = append(summary.Failures, Failure{
		ActivityID: rec.ID,
		SourceFile: rec.SourceFile,
		Reason:     reason,
	})
	d.logger.Error("conversion failed",
		slog.String(logging.FieldActivityID, rec.ID),
		slog.String("source_file", rec.SourceFile),
		slog.String("reason", reason))
	d.record(ctx, rec, outPath, history.OutcomeFailed, reason, summary.RunID)
}

func (d *Dispatcher) record(ctx context.Context, rec activity.Record, outPath string, outcome history.Outcome, detail, runID string) {
	if d.ledger == nil {
		return
	}
	entry := &history.Entry{
		RunID:        runID,
		ActivityID:   rec.ID,
		ActivityType: rec.Type,
		ActivityDate: rec.Date,
		SourceFile:   rec.SourceFile,
		OutputFile:   outPath,
		Outcome:      outcome,
		Detail:       detail,
	}
	if outcome != history.OutcomeConverted {
		entry.OutputFile = ""
	}
	if err := d.ledger.Record(ctx, entry); err != nil {
		d.logger.Warn("failed to record ledger entry",
			slog.String(logging.FieldActivityID, rec.ID),
			slog.Any("error", err))
	}
}

// normalizeWhitespace rewrites the file with surrounding whitespace trimmed
// from every line.
func normalizeWhitespace(filePath string) error {
	in, err := os.Open(filePath)
	if err != nil {
		return err
	}

	tmp := filePath + ".trim"
	out, err := os.Create(tmp)
	if err != nil {
		_ = in.Close()
		return err
	}

	writer := bufio.NewWriter(out)
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		if _, err := writer.WriteString(strings.TrimSpace(scanner.Text()) + "\n"); err != nil {
			_ = in.Close()
			_ = out.Close()
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		_ = in.Close()
		_ = out.Close()
		return err
	}
	if err := writer.Flush(); err != nil {
		_ = in.Close()
		_ = out.Close()
		return err
	}
	_ = in.Close()
	if err := out.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, filePath)
}
