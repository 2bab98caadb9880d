package saf

import (
	"fmt"
	"io"
	"log/slog"

	"histogen/pkg/contracts/domain"
)

// Observer receives trace points from a parse. Observers are purely
// observational: they cannot change control flow or error classification.
type Observer interface {
	BlockEntered(line int, block Block, recordID int)
	BlockExited(line int, block Block, recordID int)
	RowEmitted(line int, row domain.BinObservation)
	ParseFailed(err *ParseError)
	ParseCompleted(records, rows int)
}

// NopObserver ignores every trace point. Embed it to implement only some.
type NopObserver struct{}

func (NopObserver) BlockEntered(int, Block, int) {}
func (NopObserver) BlockExited(int, Block, int) {}
func (NopObserver) RowEmitted(int, domain.BinObservation) {}
func (NopObserver) ParseFailed(*ParseError) {}
func (NopObserver) ParseCompleted(int, int) {}

// MultiObserver fans trace points out to several observers in order.
type MultiObserver []Observer

func (m MultiObserver) BlockEntered(line int, block Block, recordID int) {
	for _, o := range m {
		o.BlockEntered(line, block, recordID)
	}
}

func (m MultiObserver) BlockExited(line int, block Block, recordID int) {
	for _, o := range m {
		o.BlockExited(line, block, recordID)
	}
}

func (m MultiObserver) RowEmitted(line int, row domain.BinObservation) {
	for _, o := range m {
		o.RowEmitted(line, row)
	}
}

func (m MultiObserver) ParseFailed(err *ParseError) {
	for _, o := range m {
		o.ParseFailed(err)
	}
}

func (m MultiObserver) ParseCompleted(records, rows int) {
	for _, o := range m {
		o.ParseCompleted(records, rows)
	}
}

// LogObserver writes a line-by-line trace through slog at debug level.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates a trace observer. A nil logger uses slog.Default().
func NewLogObserver(logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{logger: logger.With(slog.String("component", "saf_parser"))}
}

func (o *LogObserver) BlockEntered(line int, block Block, recordID int) {
	o.logger.Debug("Entered block",
		slog.String("block", block.String()),
		slog.Int("line", line),
		slog.Int("histogram_id", recordID))
}

func (o *LogObserver) BlockExited(line int, block Block, recordID int) {
	o.logger.Debug("Exited block",
		slog.String("block", block.String()),
		slog.Int("line", line),
		slog.Int("histogram_id", recordID))
}

func (o *LogObserver) RowEmitted(line int, row domain.BinObservation) {
	o.logger.Debug("Row emitted",
		slog.Int("line", line),
		slog.Int("histogram_id", row.ID),
		slog.String("name", row.Name),
		slog.Float64("bin_min", row.BinMin),
		slog.Float64("bin_max", row.BinMax),
		slog.Float64("value", row.Value),
		slog.Bool("underflow", row.IsUnderflow),
		slog.Bool("overflow", row.IsOverflow))
}

func (o *LogObserver) ParseFailed(err *ParseError) {
	o.logger.Error("SAF parse failed",
		slog.String("kind", string(err.Kind)),
		slog.Int("line", err.Line),
		slog.Int("histogram_id", err.RecordID),
		slog.String("error", err.Error()))
}

func (o *LogObserver) ParseCompleted(records, rows int) {
	o.logger.Info("SAF parse complete",
		slog.Int("histograms", records),
		slog.Int("rows", rows))
}

// ProgressObserver prints one dot per finished histogram and a closing
// summary count.
type ProgressObserver struct {
	NopObserver
	w io.Writer
}

// NewProgressObserver creates a progress observer writing to w.
func NewProgressObserver(w io.Writer) *ProgressObserver {
	return &ProgressObserver{w: w}
}

func (o *ProgressObserver) BlockExited(_ int, block Block, _ int) {
	if block == BlockHisto {
		fmt.Fprint(o.w, ".")
	}
}

func (o *ProgressObserver) ParseFailed(err *ParseError) {
	fmt.Fprintln(o.w)
}

func (o *ProgressObserver) ParseCompleted(records, rows int) {
	fmt.Fprintf(o.w, "\n%d histograms, %d rows\n", records, rows)
}
