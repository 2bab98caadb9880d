package saf

import (
	"fmt"
	"math"

	"histogen/pkg/contracts/domain"
)

// record accumulates one <Histo> block.
type record struct {
	info  domain.HistogramInfo
	stats domain.HistogramStatistics

	// descriptionSeen[i] is set once Description line i has been extracted.
	descriptionSeen    []bool
	descriptionStarted bool
	described          bool

	statisticsLines   int
	statisticsStarted bool
	statisticsDone    bool

	dataStarted bool
	rows        int

	binWidth float64
}

func newRecord(id int) *record {
	return &record{
		info:            domain.HistogramInfo{ID: id},
		descriptionSeen: make([]bool, len(descriptionFields)),
	}
}

// canOpen checks that a section may start given what the record has seen.
// Line and RecordID of the returned error are filled in by the caller.
func (r *record) canOpen(b Block) *ParseError {
	switch b {
	case BlockHisto:
		return &ParseError{Kind: KindUnexpectedStructuralMarker, Msg: "<Histo> inside an open <Histo> block"}
	case BlockDescription:
		if r.descriptionStarted {
			return &ParseError{Kind: KindUnexpectedStructuralMarker, Msg: "second <Description> block"}
		}
	case BlockStatistics:
		if r.statisticsStarted {
			return &ParseError{Kind: KindUnexpectedStructuralMarker, Msg: "second <Statistics> block"}
		}
		if r.dataStarted {
			return &ParseError{Kind: KindOutOfOrderSection, Msg: "<Statistics> after <Data>"}
		}
	case BlockData:
		if r.dataStarted {
			return &ParseError{Kind: KindUnexpectedStructuralMarker, Msg: "second <Data> block"}
		}
		if !r.described {
			return &ParseError{Kind: KindOutOfOrderSection, Msg: "<Data> before <Description> is complete"}
		}
	}
	return nil
}

func (r *record) open(b Block) {
	switch b {
	case BlockDescription:
		r.descriptionStarted = true
	case BlockStatistics:
		r.statisticsStarted = true
	case BlockData:
		r.dataStarted = true
	}
}

// close finalizes a section. Description and Statistics are frozen here.
func (r *record) close(b Block) error {
	switch b {
	case BlockDescription:
		return r.freezeDescription()
	case BlockStatistics:
		if r.statisticsLines < len(statisticsFields) {
			return fmt.Errorf("expected %d statistics lines, found %d", len(statisticsFields), r.statisticsLines)
		}
		r.statisticsDone = true
	}
	return nil
}

// freezeDescription validates the collected Description fields and derives
// the bin width. No Description field changes after this call.
func (r *record) freezeDescription() error {
	for i, extract := range descriptionFields {
		if extract != nil && !r.descriptionSeen[i] {
			return errMissingLine(i, descriptionLineNames[i])
		}
	}
	r.binWidth = (r.info.XMax - r.info.XMin) / float64(r.info.NBins)
	r.described = true
	return nil
}

// observation builds the row for Data line i.
func (r *record) observation(i int, value float64) domain.BinObservation {
	obs := domain.BinObservation{
		HistogramInfo:       r.info,
		HistogramStatistics: r.stats,
		Value:               value,
		IsUnderflow:         i == 0,
		IsOverflow:          i > r.info.NBins,
	}

	switch {
	case obs.IsUnderflow:
		obs.BinMin = math.Inf(-1)
		obs.BinMax = r.info.XMin
	case obs.IsOverflow:
		obs.BinMin = r.info.XMax
		obs.BinMax = math.Inf(1)
	default:
		obs.BinMin = r.info.XMin + r.binWidth*float64(i-1)
		obs.BinMax = obs.BinMin + r.binWidth
	}

	obs.BinMin = snap(obs.BinMin)
	obs.BinMax = snap(obs.BinMax)
	return obs
}
