package http

import (
	"context"
	"io"

	"histogen/internal/exporter"
	"histogen/pkg/contracts/domain"
)

// HistogramServiceInterface is the part of services.HistogramService the
// HTTP layer needs.
type HistogramServiceInterface interface {
	ParseReader(ctx context.Context, r io.Reader, source string) (*domain.Table, error)
	Export(ctx context.Context, w io.Writer, format exporter.Format, table *domain.Table) (int64, error)
	Summaries(ctx context.Context, r io.Reader, source string) ([]domain.HistogramSummary, error)
}
