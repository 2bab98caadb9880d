package saf

import "fmt"

// state is the tagged variant carried through the scanner loop:
// outsideState | recordState | sectionState. Each variant decides the
// transition for one classified line.
type state interface {
	next(run *parseRun, ln Line) (state, error)
	// recordID is the histogram being assembled, 0 outside any histogram.
	recordID() int
}

// outsideState is the initial state: between histograms, in the header or
// footer. Content lines are ignored.
type outsideState struct{}

func (outsideState) recordID() int { return 0 }

func (s outsideState) next(run *parseRun, ln Line) (state, error) {
	if !ln.IsMarker() {
		return s, nil
	}
	if ln.Block == BlockHisto && !ln.Closing {
		run.lastID++
		rec := newRecord(run.lastID)
		run.observer.BlockEntered(ln.Number, BlockHisto, rec.info.ID)
		return recordState{rec: rec}, nil
	}
	return nil, newParseError(KindUnexpectedStructuralMarker, ln.Number, 0,
		"%s outside any <Histo> block", ln.Marker())
}

// recordState is inside a <Histo> block but outside any of its sections.
type recordState struct {
	rec *record
}

func (s recordState) recordID() int { return s.rec.info.ID }

func (s recordState) next(run *parseRun, ln Line) (state, error) {
	if !ln.IsMarker() {
		return s, nil
	}
	id := s.rec.info.ID

	if ln.Closing {
		if ln.Block != BlockHisto {
			return nil, newParseError(KindUnexpectedStructuralMarker, ln.Number, id,
				"%s without matching %s", ln.Marker(), ln.Block.Tag(false))
		}
		run.observer.BlockExited(ln.Number, BlockHisto, id)
		return outsideState{}, nil
	}

	if err := s.rec.canOpen(ln.Block); err != nil {
		err.Line = ln.Number
		err.RecordID = id
		return nil, err
	}
	s.rec.open(ln.Block)
	run.observer.BlockEntered(ln.Number, ln.Block, id)
	return sectionState{rec: s.rec, block: ln.Block}, nil
}

// sectionState is inside a Description, Statistics or Data section.
type sectionState struct {
	rec   *record
	block Block
}

func (s sectionState) recordID() int { return s.rec.info.ID }

func (s sectionState) next(run *parseRun, ln Line) (state, error) {
	id := s.rec.info.ID

	if !ln.IsMarker() {
		if err := run.extract(s.rec, s.block, ln); err != nil {
			return nil, &ParseError{
				Kind:     malformedKind(s.block),
				Line:     ln.Number,
				RecordID: id,
				Msg:      fmt.Sprintf("content line %d of %s", ln.Local, s.block.Tag(false)),
				Err:      err,
			}
		}
		return s, nil
	}

	if !ln.Closing || ln.Block != s.block {
		return nil, newParseError(KindUnexpectedStructuralMarker, ln.Number, id,
			"%s while %s is open", ln.Marker(), s.block.Tag(false))
	}

	if err := s.rec.close(s.block); err != nil {
		return nil, &ParseError{
			Kind:     malformedKind(s.block),
			Line:     ln.Number,
			RecordID: id,
			Msg:      fmt.Sprintf("incomplete %s block", s.block.Tag(false)),
			Err:      err,
		}
	}
	run.observer.BlockExited(ln.Number, s.block, id)
	return recordState{rec: s.rec}, nil
}
