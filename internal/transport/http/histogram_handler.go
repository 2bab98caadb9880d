package http

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "histogen/internal/errors"
	"histogen/internal/exporter"
	"histogen/internal/input"
	"histogen/internal/middleware"
	"histogen/internal/saf"
	"histogen/pkg/contracts/domain"
)

// Response headers describing the parsed table.
const (
	HeaderHistograms  = "X-Histogen-Histograms"
	HeaderRows        = "X-Histogen-Rows"
	HeaderCompression = "X-Histogen-Compression"
)

// requestSource names request bodies in logs and spans.
const requestSource = "request"

// ParseQuery are the query parameters of POST /parse.
type ParseQuery struct {
	Format string `json:"format" validate:"omitempty,oneof=csv xlsx json"`
	// Download asks for a Content-Disposition attachment.
	Download bool `json:"download"`
}

// SummaryResponse is the body of POST /summary.
type SummaryResponse struct {
	Histograms int                       `json:"histograms"`
	Rows       int                       `json:"rows"`
	Summaries  []domain.HistogramSummary `json:"summaries"`
}

// HistogramHandler converts SAF request bodies into tables.
type HistogramHandler struct {
	service      HistogramServiceInterface
	validator    *middleware.Validator
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewHistogramHandler creates a new histogram handler
func NewHistogramHandler(service HistogramServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *HistogramHandler {
	return &HistogramHandler{
		service:      service,
		validator:    middleware.NewValidator(),
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("component", "histogram_handler")),
	}
}

// Routes returns the histogram routes
func (h *HistogramHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/parse", h.Parse)
	r.Post("/summary", h.Summary)
	return r
}

// Parse handles POST /histograms/parse?format=json|csv|xlsx. JSON is the
// default when no format is given.
// The body is a SAF document, optionally gzip, bzip2, xz or zstd compressed.
func (h *HistogramHandler) Parse(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	format, err := exporter.ParseFormat(query.Format)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.UnsupportedFormatError(query.Format, formatNames()))
		return
	}

	body, compression, err := h.openBody(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defer body.Close()

	table, err := h.service.ParseReader(r.Context(), body, requestSource)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	// Encode fully before writing headers so export failures can still be
	// reported as problem documents.
	var buf bytes.Buffer
	if _, err := h.service.Export(r.Context(), &buf, format, table); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ExportError(string(format), err))
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set(HeaderHistograms, strconv.Itoa(table.Histograms()))
	w.Header().Set(HeaderRows, strconv.Itoa(table.Len()))
	w.Header().Set(HeaderCompression, compression.String())
	if query.Download {
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="histograms.%s"`, format.Extension()))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to write response",
			slog.String("error", err.Error()))
	}
}

// Summary handles POST /histograms/summary.
func (h *HistogramHandler) Summary(w http.ResponseWriter, r *http.Request) {
	body, _, err := h.openBody(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defer body.Close()

	summaries, err := h.service.Summaries(r.Context(), body, requestSource)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	resp := SummaryResponse{Histograms: len(summaries), Summaries: summaries}
	for _, s := range summaries {
		resp.Rows += s.Rows
	}
	render.JSON(w, r, resp)
}

func (h *HistogramHandler) parseQuery(r *http.Request) (ParseQuery, error) {
	q := r.URL.Query()
	query := ParseQuery{Format: strings.ToLower(q.Get("format"))}
	if query.Format == "" {
		query.Format = string(exporter.FormatJSON)
	}

	if raw := q.Get("download"); raw != "" {
		download, err := strconv.ParseBool(raw)
		if err != nil {
			return query, apierrors.ErrValidation("download", "download must be a boolean")
		}
		query.Download = download
	}

	if err := h.validator.ValidateStruct(query); err != nil {
		return query, err
	}
	return query, nil
}

// openBody wraps the request body in a decompressing reader. Decoder setup
// failures and empty bodies are input errors.
func (h *HistogramHandler) openBody(r *http.Request) (io.ReadCloser, input.Compression, error) {
	if r.Body == nil || r.Body == http.NoBody || r.ContentLength == 0 {
		return nil, input.CompressionNone, apierrors.ErrEmptyBody
	}

	rc, compression, err := input.NewReader(r.Body)
	if err != nil {
		return nil, compression, &saf.ParseError{
			Kind: saf.KindInputUnavailable,
			Msg:  "cannot decode request body",
			Err:  err,
		}
	}

	h.logger.DebugContext(r.Context(), "Request body opened",
		slog.String("compression", compression.String()),
		slog.Int64("content_length", r.ContentLength))

	return rc, compression, nil
}

func formatNames() []string {
	names := make([]string, len(exporter.Formats))
	for i, f := range exporter.Formats {
		names[i] = string(f)
	}
	return names
}
