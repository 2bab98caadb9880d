package services

import "errors"

// Conversion errors
var (
	ErrNoInputs        = errors.New("no input files given")
	ErrDuplicateOutput = errors.New("inputs map to the same output file")
)
