// Package rewrite runs the import rewrite over source files: read, parse,
// transform, print. Files are processed on a bounded worker pool and every
// file gets its own result.
package rewrite

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/sheinsight/lockmodule/pkg/lockmodule"
	"github.com/sheinsight/lockmodule/pkg/observability"
	"github.com/sheinsight/lockmodule/pkg/uast"
	"github.com/sheinsight/lockmodule/pkg/uast/pkg/node"
)

const spanFile = "lockmodule.rewrite.file"

// Options configures a Runner.
type Options struct {
	// Config supplies the rewrite payload for every file. Nil disables the rewrite.
	Config lockmodule.ConfigSource

	// Logger receives per-file diagnostics. Nil discards them.
	Logger *slog.Logger

	// Tracer starts one span per file. Nil uses a no-op tracer.
	Tracer trace.Tracer

	// Metrics records per-file outcomes. Nil disables recording.
	Metrics *observability.RunMetrics

	// Workers bounds the number of files processed at once. Zero means NumCPU.
	Workers int

	// MaxFileSize skips larger files. Zero means no limit.
	MaxFileSize uint64

	// Write replaces changed files on disk.
	Write bool
}

// FileResult is the outcome for one file.
type FileResult struct {
	Err      error         `json:"-" yaml:"-"`
	Path     string        `json:"path" yaml:"path"`
	Language string        `json:"language,omitempty" yaml:"language,omitempty"`
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"`
	Original []byte        `json:"-" yaml:"-"`
	Output   []byte        `json:"-" yaml:"-"`
	Edits    []uast.Edit   `json:"edits,omitempty" yaml:"edits,omitempty"`
	Size     int           `json:"size" yaml:"size"`
	Duration time.Duration `json:"duration_ns" yaml:"duration"`
	Changed  bool          `json:"changed" yaml:"changed"`
	Skipped  bool          `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Written  bool          `json:"written,omitempty" yaml:"written,omitempty"`
}

// Status returns the metrics label for the result.
func (res *FileResult) Status() string {
	switch {
	case res.Skipped:
		return observability.StatusSkipped
	case res.Err != nil:
		return observability.StatusError
	case res.Changed:
		return observability.StatusChanged
	default:
		return observability.StatusUnchanged
	}
}

// Runner transforms files. It is safe for concurrent use.
type Runner struct {
	parser *uast.Parser
	opts   Options
}

// NewRunner creates a Runner.
func NewRunner(opts Options) (*Runner, error) {
	parser, err := uast.NewParser()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize parser: %w", err)
	}

	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	if opts.Tracer == nil {
		opts.Tracer = nooptrace.NewTracerProvider().Tracer("")
	}

	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}

	return &Runner{parser: parser, opts: opts}, nil
}

// Run transforms every file in paths and returns one result per path, in
// input order. Per-file failures are recorded on the results; the returned
// error is only set when ctx is cancelled.
func (runner *Runner) Run(ctx context.Context, paths []string) ([]FileResult, error) {
	results := make([]FileResult, len(paths))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(runner.opts.Workers)

	for idx, path := range paths {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			results[idx] = runner.processFile(groupCtx, path)

			return nil
		})
	}

	err := group.Wait()
	if err != nil {
		return results, fmt.Errorf("rewrite cancelled: %w", err)
	}

	return results, nil
}

func (runner *Runner) processFile(ctx context.Context, path string) FileResult {
	content, err := ReadFile(path, runner.opts.MaxFileSize)
	if err != nil {
		res := FileResult{Path: path, Err: err, Error: err.Error(), Skipped: errors.Is(err, ErrFileTooLarge)}
		runner.record(ctx, &res)

		return res
	}

	res := runner.Process(ctx, path, content)
	if res.Err != nil || !res.Changed || !runner.opts.Write {
		return res
	}

	err = WriteFile(path, res.Output)
	if err != nil {
		res.Err = err
		res.Error = err.Error()
		runner.opts.Logger.ErrorContext(ctx, "write failed", "path", path, "error", err)

		return res
	}

	res.Written = true

	return res
}

// Process transforms content, whose grammar is chosen from filename. The file
// system is not touched.
func (runner *Runner) Process(ctx context.Context, filename string, content []byte) (res FileResult) {
	ctx, span := runner.opts.Tracer.Start(ctx, spanFile, trace.WithAttributes(
		attribute.String("file.path", filename),
		attribute.Int("file.size", len(content)),
	))
	defer span.End()

	start := time.Now()
	res = FileResult{Path: filename, Size: len(content), Original: content}

	defer func() {
		res.Duration = time.Since(start)
		runner.record(ctx, &res)
	}()

	program, err := runner.parser.Parse(ctx, filename, content)
	if err != nil {
		res.Language = runner.parser.GetLanguage(filename, content)
		res.Err = err
		res.Error = err.Error()
		res.Skipped = errors.Is(err, uast.ErrUnsupportedLanguage)

		return res
	}

	res.Language = program.Prop(node.PropLanguage)

	lockmodule.Transform(program, runner.opts.Config)

	out, edits, err := uast.Print(content, program)
	if err != nil {
		res.Err = err
		res.Error = err.Error()

		return res
	}

	res.Output = out
	res.Edits = edits
	res.Changed = !bytes.Equal(content, out)

	span.SetAttributes(attribute.Int("lockmodule.edits", len(edits)))

	return res
}

func (runner *Runner) record(ctx context.Context, res *FileResult) {
	runner.opts.Metrics.RecordFile(res.Status(), len(res.Edits), res.Size, res.Duration)

	span := trace.SpanFromContext(ctx)

	switch {
	case res.Skipped:
		runner.opts.Logger.WarnContext(ctx, "file skipped", "path", res.Path, "reason", res.Error)
	case res.Err != nil:
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, res.Error)
		runner.opts.Logger.ErrorContext(ctx, "file failed", "path", res.Path, "error", res.Err)
	default:
		runner.opts.Logger.DebugContext(ctx, "file processed",
			"path", res.Path,
			"language", res.Language,
			"edits", len(res.Edits),
			"duration", res.Duration,
		)
	}
}
