package saf

import (
	"fmt"
	"strings"

	"histogen/pkg/contracts/domain"
)

// fieldExtractor fills record fields from one content line of a block.
type fieldExtractor func(r *record, text string) error

// descriptionFields maps a Description line position to its extractor.
// nil entries are reserved layout lines (comment headers in SAF files).
var descriptionFields = []fieldExtractor{
	extractName,    // 0 - "name"
	nil,            // 1 - reserved
	extractBinning, // 2 - nbins xmin xmax
	nil,            // 3 - reserved
	extractRegion,  // 4 - region
}

var descriptionLineNames = []string{"name", "", "binning", "", "region"}

// statisticsFields maps a Statistics line position to its extractor.
// Every line holds a "left right" pair and stores left - right.
var statisticsFields = []fieldExtractor{
	integerStat(func(s *domain.HistogramStatistics, v int64) { s.NEvents = v }),          // 0 - nevents
	decimalStat(func(s *domain.HistogramStatistics, v float64) { s.NormEwEvents = v }),   // 1 - normalized weighted events
	integerStat(func(s *domain.HistogramStatistics, v int64) { s.NEntries = v }),         // 2 - nentries
	decimalStat(func(s *domain.HistogramStatistics, v float64) { s.NormEwEntries = v }),  // 3 - normalized weighted entries
	decimalStat(func(s *domain.HistogramStatistics, v float64) { s.SumWeightsSq = v }),   // 4 - sum of squared weights
	decimalStat(func(s *domain.HistogramStatistics, v float64) { s.SumValWeight = v }),   // 5 - sum of value*weight
	decimalStat(func(s *domain.HistogramStatistics, v float64) { s.SumValSqWeight = v }), // 6 - sum of value^2*weight
}

func errMissingLine(pos int, field string) error {
	return fmt.Errorf("block closed before line %d (%s)", pos, field)
}

func extractName(r *record, text string) error {
	start := strings.IndexByte(text, '"')
	if start < 0 {
		return fmt.Errorf("no quoted histogram name in %q", strings.TrimSpace(text))
	}
	end := strings.IndexByte(text[start+1:], '"')
	if end < 0 {
		return fmt.Errorf("unterminated histogram name in %q", strings.TrimSpace(text))
	}
	r.info.Name = text[start+1 : start+1+end]
	return nil
}

func extractBinning(r *record, text string) error {
	toks, err := leadingFields(text, 3)
	if err != nil {
		return err
	}
	nbins, err := parseInteger(toks[0])
	if err != nil {
		return fmt.Errorf("nbins: %w", err)
	}
	if nbins < 1 {
		return fmt.Errorf("nbins must be at least 1, got %d", nbins)
	}
	xmin, err := parseDecimal(toks[1])
	if err != nil {
		return fmt.Errorf("xmin: %w", err)
	}
	xmax, err := parseDecimal(toks[2])
	if err != nil {
		return fmt.Errorf("xmax: %w", err)
	}

	r.info.NBins = int(nbins)
	r.info.XMin = Round6(xmin)
	r.info.XMax = Round6(xmax)
	if r.info.XMax <= r.info.XMin {
		return fmt.Errorf("xmax %g must be greater than xmin %g", r.info.XMax, r.info.XMin)
	}
	return nil
}

func extractRegion(r *record, text string) error {
	toks, err := leadingFields(text, 1)
	if err != nil {
		return fmt.Errorf("region: %w", err)
	}
	r.info.Region = toks[0]
	return nil
}

func integerStat(set func(*domain.HistogramStatistics, int64)) fieldExtractor {
	return func(r *record, text string) error {
		v, err := integerDifference(text)
		if err != nil {
			return err
		}
		set(&r.stats, v)
		return nil
	}
}

func decimalStat(set func(*domain.HistogramStatistics, float64)) fieldExtractor {
	return func(r *record, text string) error {
		v, err := decimalDifference(text)
		if err != nil {
			return err
		}
		set(&r.stats, v)
		return nil
	}
}

// extractDescription dispatches Description line pos. Positions without an
// extractor, including everything past the table, are ignored.
func extractDescription(r *record, pos int, text string) error {
	if pos >= len(descriptionFields) || descriptionFields[pos] == nil {
		return nil
	}
	if err := descriptionFields[pos](r, text); err != nil {
		return err
	}
	r.descriptionSeen[pos] = true
	return nil
}

// extractStatistics dispatches Statistics line pos; lines past 6 are ignored.
func extractStatistics(r *record, pos int, text string) error {
	if pos >= len(statisticsFields) {
		return nil
	}
	if err := statisticsFields[pos](r, text); err != nil {
		return err
	}
	r.statisticsLines = pos + 1
	return nil
}

// extractData turns Data line pos into a row.
func extractData(r *record, pos int, text string) (domain.BinObservation, error) {
	value, err := decimalDifference(text)
	if err != nil {
		return domain.BinObservation{}, err
	}
	r.rows++
	return r.observation(pos, value), nil
}
