package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"histogen/internal/config"
	apierrors "histogen/internal/errors"
	"histogen/internal/exporter"
	"histogen/internal/infrastructure"
	"histogen/internal/input"
	"histogen/internal/saf"
	"histogen/pkg/contracts/domain"
)

// Metric source labels. Paths are not used as labels.
const (
	sourceFile   = "file"
	sourceStream = "stream"
)

// ObserverFactory builds the parse observer for one input. It is called once
// per parse, so observers with state need not be safe for concurrent use.
type ObserverFactory func(source string) saf.Observer

// ConversionResult describes one converted input.
type ConversionResult struct {
	Input      string        `json:"input"`
	Output     string        `json:"output"`
	Format     string        `json:"format"`
	Histograms int           `json:"histograms"`
	Rows       int           `json:"rows"`
	Bytes      int64         `json:"bytes"`
	Duration   time.Duration `json:"duration"`
}

// HistogramService parses SAF inputs and exports their tables.
type HistogramService struct {
	paths     *config.Paths
	exporter  *exporter.Exporter
	workers   int
	observers ObserverFactory
	tracer    trace.Tracer
	metrics   *infrastructure.ConversionMetrics
	logger    *slog.Logger
}

// Option configures a HistogramService.
type Option func(*HistogramService)

// WithWorkers bounds how many files ConvertAll converts at once.
func WithWorkers(n int) Option {
	return func(s *HistogramService) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithObservers installs a per-parse observer factory.
func WithObservers(f ObserverFactory) Option {
	return func(s *HistogramService) { s.observers = f }
}

// WithTracer replaces the global tracer.
func WithTracer(t trace.Tracer) Option {
	return func(s *HistogramService) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithMetrics records conversions on m.
func WithMetrics(m *infrastructure.ConversionMetrics) Option {
	return func(s *HistogramService) { s.metrics = m }
}

// NewHistogramService creates a histogram service writing into paths.OutputDir.
func NewHistogramService(paths *config.Paths, exp *exporter.Exporter, logger *slog.Logger, opts ...Option) *HistogramService {
	if logger == nil {
		logger = slog.Default()
	}

	s := &HistogramService{
		paths:    paths,
		exporter: exp,
		workers:  config.DefaultWorkers,
		tracer:   otel.Tracer(infrastructure.InstrumentationName),
		logger:   logger.With(slog.String("service", "histogram")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ParseReader parses one SAF stream. source names the stream in logs and
// spans only.
func (s *HistogramService) ParseReader(ctx context.Context, r io.Reader, source string) (*domain.Table, error) {
	return s.parse(ctx, r, source, sourceStream)
}

// ParseFile opens path, decompressing it if needed, and parses it. A file
// that cannot be opened fails with an InputUnavailable parse error.
func (s *HistogramService) ParseFile(ctx context.Context, path string) (*domain.Table, error) {
	src, err := input.Open(path)
	if err != nil {
		perr := &saf.ParseError{
			Kind: saf.KindInputUnavailable,
			Msg:  fmt.Sprintf("cannot open %s", path),
			Err:  err,
		}
		s.metrics.RecordParse(ctx, sourceFile, 0, 0, 0, string(perr.Kind))
		s.logger.WarnContext(ctx, "Input unavailable",
			slog.String("input", path),
			slog.String("error", err.Error()))
		return nil, perr
	}
	defer src.Close()

	s.logger.DebugContext(ctx, "Opened input",
		slog.String("input", path),
		slog.String("compression", src.Compression.String()))

	return s.parse(ctx, src, path, sourceFile)
}

func (s *HistogramService) parse(ctx context.Context, r io.Reader, source, kind string) (*domain.Table, error) {
	ctx, span := s.tracer.Start(ctx, "histogen.parse", trace.WithAttributes(
		attribute.String("histogen.source", source),
		attribute.String("histogen.source_kind", kind),
	))
	defer span.End()

	var opts []saf.Option
	if s.observers != nil {
		opts = append(opts, saf.WithObserver(s.observers(source)))
	}

	start := time.Now()
	table, err := saf.NewParser(opts...).Parse(ctx, r)
	elapsed := time.Since(start)

	if err != nil {
		s.metrics.RecordParse(ctx, kind, 0, 0, elapsed, string(saf.KindOf(err)))
		infrastructure.RecordError(ctx, err)
		s.logger.WarnContext(ctx, "SAF parse failed",
			slog.String("input", source),
			slog.String("error", err.Error()))
		return nil, err
	}

	histograms := table.Histograms()
	s.metrics.RecordParse(ctx, kind, histograms, table.Len(), elapsed, "")
	span.SetAttributes(
		attribute.Int("histogen.histograms", histograms),
		attribute.Int("histogen.rows", table.Len()),
	)
	s.logger.InfoContext(ctx, "SAF parsed",
		slog.String("input", source),
		slog.Int("histograms", histograms),
		slog.Int("rows", table.Len()),
		slog.Duration("duration", elapsed))

	return table, nil
}

// Export encodes table to w and returns the number of bytes written.
func (s *HistogramService) Export(ctx context.Context, w io.Writer, format exporter.Format, table *domain.Table) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "histogen.export", trace.WithAttributes(
		attribute.String("histogen.format", string(format)),
	))
	defer span.End()

	cw := &countingWriter{w: w}
	if err := s.exporter.Write(cw, format, table); err != nil {
		infrastructure.RecordError(ctx, err)
		return cw.n, fmt.Errorf("export %s: %w", format, err)
	}
	s.metrics.RecordExport(ctx, string(format), cw.n)
	return cw.n, nil
}

// ConvertFile parses path and writes its table into the output directory as
// <basename>.<format>.
func (s *HistogramService) ConvertFile(ctx context.Context, path string, format exporter.Format) (*ConversionResult, error) {
	start := time.Now()

	table, err := s.ParseFile(ctx, path)
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "histogen.write_file", trace.WithAttributes(
		attribute.String("histogen.format", string(format)),
	))
	defer span.End()

	out, size, err := s.exporter.WriteFile(path, format, table)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, apierrors.NewStorageError(fmt.Sprintf("write table for %s", path), err).
			WithContext("format", string(format))
	}
	s.metrics.RecordExport(ctx, string(format), size)

	result := &ConversionResult{
		Input:      path,
		Output:     out,
		Format:     string(format),
		Histograms: table.Histograms(),
		Rows:       table.Len(),
		Bytes:      size,
		Duration:   time.Since(start),
	}

	s.logger.InfoContext(ctx, "Table written",
		slog.String("input", path),
		slog.String("output", out),
		slog.Int64("bytes", size))

	return result, nil
}

// ConvertAll converts every path, at most workers at a time. Results keep
// the order of paths. The first failure cancels the remaining conversions;
// outputs already written are kept.
func (s *HistogramService) ConvertAll(ctx context.Context, paths []string, format exporter.Format) ([]ConversionResult, error) {
	if len(paths) == 0 {
		return nil, ErrNoInputs
	}
	if err := s.checkOutputs(paths, format); err != nil {
		return nil, err
	}

	results := make([]ConversionResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, path := range paths {
		g.Go(func() error {
			res, err := s.ConvertFile(gctx, path, format)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = *res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// checkOutputs rejects inputs that would overwrite each other's output.
func (s *HistogramService) checkOutputs(paths []string, format exporter.Format) error {
	seen := make(map[string]string, len(paths))
	for _, p := range paths {
		out := s.paths.GetOutputPath(p, format.Extension())
		if prev, ok := seen[out]; ok {
			return apierrors.NewAppError(apierrors.ErrTypeValidation,
				fmt.Sprintf("%s and %s both write %s", prev, p, out), ErrDuplicateOutput)
		}
		seen[out] = p
	}
	return nil
}

// Summaries parses r and condenses each histogram into one summary.
func (s *HistogramService) Summaries(ctx context.Context, r io.Reader, source string) ([]domain.HistogramSummary, error) {
	table, err := s.ParseReader(ctx, r, source)
	if err != nil {
		return nil, err
	}
	return domain.Summarize(table), nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
