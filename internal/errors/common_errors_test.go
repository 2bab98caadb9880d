package errors

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewAppValidationError("format must be csv"),
			want: "[VALIDATION] format must be csv",
		},
		{
			name: "with cause",
			err:  NewInputError("open input", io.ErrUnexpectedEOF),
			want: "[INPUT] open input: unexpected EOF",
		},
		{
			name: "not found",
			err:  NewNotFoundError("input file"),
			want: "[NOT_FOUND] input file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Constructors(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		err  *AppError
		want ErrorType
	}{
		{NewParsingError("parse", cause), ErrTypeParsing},
		{NewInputError("input", cause), ErrTypeInput},
		{NewStorageError("write", cause), ErrTypeStorage},
		{NewConfigError("config", cause), ErrTypeConfig},
		{NewAppValidationError("bad"), ErrTypeValidation},
		{NewNotFoundError("thing"), ErrTypeNotFound},
	}

	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Type)
			assert.NotNil(t, tt.err.Context)
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	err := fmt.Errorf("convert: %w", NewStorageError("write csv", io.ErrShortWrite))

	assert.ErrorIs(t, err, io.ErrShortWrite)

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, ErrTypeStorage, appErr.Type)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewParsingError("parse", nil).
		WithContext("source", "a.saf").
		WithContext("rows", 4)

	assert.Equal(t, "a.saf", err.Context["source"])
	assert.Equal(t, 4, err.Context["rows"])

	bare := &AppError{Type: ErrTypeInput}
	bare.WithContext("path", "-")
	assert.Equal(t, "-", bare.Context["path"])
}
