package exporter

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"histogen/internal/config"
	"histogen/pkg/contracts/domain"
)

// Format is an output table format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// Formats lists the supported formats.
var Formats = []Format{FormatCSV, FormatXLSX, FormatJSON}

// ParseFormat resolves a format name, case-insensitively. Empty means CSV.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatCSV, nil
	}
	f := Format(strings.ToLower(strings.TrimPrefix(s, ".")))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported output format %q (want csv, xlsx or json)", s)
}

// Extension returns the file extension without the dot.
func (f Format) Extension() string {
	return string(f)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatJSON:
		return "application/json"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Options configures table export behavior
type Options struct {
	// BOM prefixes CSV output with a UTF-8 byte order mark.
	BOM bool
}

// Exporter writes tables to writers or into the output directory.
type Exporter struct {
	paths *config.Paths
	opts  Options
}

// NewExporter creates a new exporter instance
func NewExporter(paths *config.Paths, opts Options) *Exporter {
	return &Exporter{paths: paths, opts: opts}
}

// Write encodes t to w in the given format.
func (e *Exporter) Write(w io.Writer, format Format, t *domain.Table) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, t, e.opts.BOM)
	case FormatXLSX:
		return WriteXLSX(w, t)
	case FormatJSON:
		return WriteJSON(w, t)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// WriteFile writes t into the output directory under the base name of
// inputPath. It returns the written path and its size. A failed write
// leaves no partial file behind.
func (e *Exporter) WriteFile(inputPath string, format Format, t *domain.Table) (string, int64, error) {
	fullPath := e.paths.GetOutputPath(inputPath, format.Extension())

	slog.Debug("Writing table file",
		slog.String("input", inputPath),
		slog.String("full_path", fullPath),
		slog.String("format", string(format)),
		slog.Int("record_count", t.Len()))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create file: %w", err)
	}

	cw := &countingWriter{w: bufio.NewWriter(file)}
	werr := e.Write(cw, format, t)
	if werr == nil {
		werr = cw.w.Flush()
	}
	cerr := file.Close()
	if werr == nil {
		werr = cerr
	}
	if werr != nil {
		os.Remove(fullPath)
		return "", 0, fmt.Errorf("failed to write %s: %w", fullPath, werr)
	}

	return fullPath, cw.n, nil
}

type countingWriter struct {
	w *bufio.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
