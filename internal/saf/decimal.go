package saf

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// snapTolerance is the distance from zero below which a bin edge is zero.
const snapTolerance = 1e-10

// decimalDigits is the number of fractional digits kept in scientific notation.
const decimalDigits = 6

// Round6 rounds x to six fractional digits in scientific notation, the
// precision every decimal column of the table is carried at.
func Round6(x float64) float64 {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return x
	}
	v, err := strconv.ParseFloat(strconv.FormatFloat(x, 'E', decimalDigits, 64), 64)
	if err != nil || v == 0 {
		// v == 0 also drops the sign of -0
		return 0
	}
	return v
}

func snap(x float64) float64 {
	if math.Abs(x) < snapTolerance {
		return 0
	}
	return x
}

func parseDecimal(tok string) (float64, error) {
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a decimal number", tok)
	}
	return v, nil
}

func parseInteger(tok string) (int64, error) {
	v, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", tok)
	}
	return v, nil
}

// leadingFields returns the first n whitespace-separated tokens of text.
func leadingFields(text string, n int) ([]string, error) {
	toks := strings.Fields(text)
	if len(toks) < n {
		return nil, fmt.Errorf("expected %d whitespace-separated values, found %d in %q", n, len(toks), strings.TrimSpace(text))
	}
	return toks[:n], nil
}

// decimalDifference parses "left right ..." and returns round6(left - right).
func decimalDifference(text string) (float64, error) {
	toks, err := leadingFields(text, 2)
	if err != nil {
		return 0, err
	}
	left, err := parseDecimal(toks[0])
	if err != nil {
		return 0, err
	}
	right, err := parseDecimal(toks[1])
	if err != nil {
		return 0, err
	}
	return Round6(left - right), nil
}

// integerDifference parses "left right ..." and returns left - right exactly.
func integerDifference(text string) (int64, error) {
	toks, err := leadingFields(text, 2)
	if err != nil {
		return 0, err
	}
	left, err := parseInteger(toks[0])
	if err != nil {
		return 0, err
	}
	right, err := parseInteger(toks[1])
	if err != nil {
		return 0, err
	}
	diff := left - right
	if (right > 0 && diff > left) || (right < 0 && diff < left) {
		return 0, fmt.Errorf("integer difference %d - %d overflows", left, right)
	}
	return diff, nil
}
