package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"histogen/internal/infrastructure"
	"histogen/internal/saf"
	"histogen/internal/shared/testutil"
)

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got), w.Body.String())
	return got
}

func TestErrorHandler_ErrorToProblem(t *testing.T) {
	parseErr := &saf.ParseError{Kind: saf.KindMalformedStatistics, Line: 12, RecordID: 2, Msg: "expected two columns"}

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantExt    map[string]interface{}
	}{
		{
			name:       "parse error",
			err:        parseErr,
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeParseFailed,
			wantExt:    map[string]interface{}{"kind": "MalformedStatistics", "line": 12, "histogram_id": 2},
		},
		{
			name:       "wrapped parse error",
			err:        fmt.Errorf("parse body: %w", parseErr),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeParseFailed,
		},
		{
			name:       "input unavailable",
			err:        &saf.ParseError{Kind: saf.KindInputUnavailable, Msg: "unexpected EOF"},
			wantStatus: http.StatusBadRequest,
			wantType:   TypeInputUnavailable,
			wantExt:    map[string]interface{}{"kind": "InputUnavailable"},
		},
		{
			name:       "body too large inside parse error",
			err:        &saf.ParseError{Kind: saf.KindInputUnavailable, Line: 3, Err: &http.MaxBytesError{Limit: 1024}},
			wantStatus: http.StatusRequestEntityTooLarge,
			wantType:   TypePayloadTooLarge,
			wantExt:    map[string]interface{}{"max_bytes": int64(1024)},
		},
		{
			name:       "canceled parse",
			err:        &saf.ParseError{Kind: saf.KindInputUnavailable, Err: context.Canceled},
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "deadline",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "api error",
			err:        UnsupportedFormatError("pdf", []string{"csv", "xlsx", "json"}),
			wantStatus: http.StatusNotAcceptable,
			wantType:   TypeNotAcceptable,
			wantExt:    map[string]interface{}{"error_code": "UNSUPPORTED_FORMAT"},
		},
		{
			name:       "app validation error",
			err:        NewAppValidationError("bad format"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
			wantExt:    map[string]interface{}{"error_type": "VALIDATION"},
		},
		{
			name:       "app storage error",
			err:        NewStorageError("write", errors.New("disk full")).WithContext("format", "csv"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeExportFailed,
			wantExt:    map[string]interface{}{"format": "csv"},
		},
		{
			name:       "missing file",
			err:        fmt.Errorf("open: %w", fs.ErrNotExist),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
		},
		{
			name:       "unknown",
			err:        errors.New("something odd"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	logger, _ := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)
	r := httptest.NewRequest(http.MethodPost, "/api/v1/histograms/parse", nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem := h.ErrorToProblem(tt.err, r)
			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, "/api/v1/histograms/parse", problem.Instance)
			for k, v := range tt.wantExt {
				assert.Equal(t, v, problem.Extensions[k], k)
			}
		})
	}
}

func TestErrorHandler_ParseErrorWithoutLine(t *testing.T) {
	h := NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), false)
	r := httptest.NewRequest(http.MethodPost, "/", nil)

	problem := h.ErrorToProblem(&saf.ParseError{Kind: saf.KindInputUnavailable}, r)
	assert.NotContains(t, problem.Extensions, "line")
	assert.NotContains(t, problem.Extensions, "histogram_id")
}

func TestErrorHandler_HandleError(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, true)

	r := httptest.NewRequest(http.MethodPost, "/api/v1/histograms/parse", nil)
	r = r.WithContext(infrastructure.WithTraceID(r.Context(), "trace-1"))
	w := httptest.NewRecorder()

	h.HandleError(w, r, &saf.ParseError{Kind: saf.KindOutOfOrderSection, Line: 3, RecordID: 1})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	got := decodeProblem(t, w)
	assert.Equal(t, "trace-1", got["trace_id"])
	assert.Equal(t, "OutOfOrderSection", got["kind"])
	assert.Equal(t, float64(3), got["line"])
	assert.NotContains(t, got, "stack", "client errors carry no stack")

	testutil.AssertLogContains(t, logs, slog.LevelWarn, "request failed")
	assert.True(t, logs.ContainsAttr("component", "error_handler"))
	assert.True(t, logs.ContainsAttr("status", int64(http.StatusUnprocessableEntity)))
}

func TestErrorHandler_HandleErrorServerSide(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, true)
	w := httptest.NewRecorder()

	h.HandleError(w, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, decodeProblem(t, w), "stack")
	testutil.AssertLogContains(t, logs, slog.LevelError, "request failed")
}

func TestErrorHandler_HandleErrorNil(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	w := httptest.NewRecorder()

	NewErrorHandler(logger, false).HandleError(w, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Zero(t, w.Body.Len())
	assert.Zero(t, logs.Count())
}

func TestErrorHandler_NotFoundAndMethodNotAllowed(t *testing.T) {
	h := NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), false)

	w := httptest.NewRecorder()
	h.NotFound(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, TypeNotFound, decodeProblem(t, w)["type"])

	w = httptest.NewRecorder()
	h.MethodNotAllowed(w, httptest.NewRequest(http.MethodDelete, "/api/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "Method DELETE is not allowed for this endpoint", decodeProblem(t, w)["detail"])
}

func TestErrorHandler_Middleware(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)

	panicking := h.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("exporter exploded")
	}))

	w := httptest.NewRecorder()
	require.NotPanics(t, func() {
		panicking.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	got := decodeProblem(t, w)
	assert.NotContains(t, got, "panic")
	testutil.AssertLogContains(t, logs, slog.LevelError, "panic recovered")

	ok := h.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.JSON(w, r, http.StatusCreated, map[string]string{"status": "ok"})
	}))
	w = httptest.NewRecorder()
	ok.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
