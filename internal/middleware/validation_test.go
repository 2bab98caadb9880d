package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "histogen/internal/errors"
)

type parseQuery struct {
	Format string `json:"format" validate:"omitempty,oneof=csv xlsx json"`
	Limit  int    `json:"limit" validate:"gte=0,lte=100"`
	Source string `json:"source" validate:"required"`
}

func TestValidator_ValidateStruct(t *testing.T) {
	v := NewValidator()

	require.NoError(t, v.ValidateStruct(parseQuery{Format: "xlsx", Source: "a.saf"}))
	require.NoError(t, v.ValidateStruct(parseQuery{Source: "a.saf"}))

	err := v.ValidateStruct(parseQuery{Format: "pdf", Limit: 500})
	require.Error(t, err)

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "VALIDATION_FAILED", apiErr.ErrorCode)

	details, ok := apiErr.Details.(apierrors.ValidationErrors)
	require.True(t, ok)
	assert.Equal(t, []apierrors.ValidationError{
		{Field: "format", Message: "format must be one of: csv, xlsx, json"},
		{Field: "limit", Message: "limit must be at most 100"},
		{Field: "source", Message: "source is required"},
	}, details.Errors)
}

func TestValidator_NotAStruct(t *testing.T) {
	err := NewValidator().ValidateStruct("nope")
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_REQUEST", apiErr.ErrorCode)
}
