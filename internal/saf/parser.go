package saf

import (
	"context"
	"errors"
	"io"

	"histogen/pkg/contracts/domain"
)

// Parser converts SAF streams into tidy tables. A Parser holds only
// configuration; every Parse call owns its own ID counter and rows, so one
// Parser may be reused and shared across goroutines.
type Parser struct {
	observer Observer
}

// Option configures a Parser.
type Option func(*Parser)

// WithObserver installs an observer for the trace points of every parse.
func WithObserver(o Observer) Option {
	return func(p *Parser) {
		if o != nil {
			p.observer = o
		}
	}
}

// NewParser creates a parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{observer: NopObserver{}}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse reads r to the end and returns its table. The context is checked
// between line reads. On any error the returned table is nil.
func Parse(ctx context.Context, r io.Reader, opts ...Option) (*domain.Table, error) {
	return NewParser(opts...).Parse(ctx, r)
}

// Parse reads r to the end and returns its table.
func (p *Parser) Parse(ctx context.Context, r io.Reader) (*domain.Table, error) {
	run := &parseRun{observer: p.observer, rows: []domain.BinObservation{}}
	table, err := run.parse(ctx, r)
	if err != nil {
		var perr *ParseError
		if !errors.As(err, &perr) {
			perr = &ParseError{Kind: KindInputUnavailable, Msg: "reading SAF input", Err: err}
		}
		p.observer.ParseFailed(perr)
		return nil, perr
	}
	p.observer.ParseCompleted(run.lastID, table.Len())
	return table, nil
}

// parseRun is the mutable state of a single Parse call.
type parseRun struct {
	observer Observer
	lastID   int
	rows     []domain.BinObservation
}

func (run *parseRun) parse(ctx context.Context, r io.Reader) (*domain.Table, error) {
	if r == nil {
		return nil, &ParseError{Kind: KindInputUnavailable, Msg: "nil reader"}
	}

	scanner := NewLineScanner(ctx, r)
	var st state = outsideState{}
	for scanner.Scan() {
		next, err := st.next(run, scanner.Line())
		if err != nil {
			return nil, err
		}
		st = next
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{
			Kind:     KindInputUnavailable,
			Line:     scanner.Lines() + 1,
			RecordID: st.recordID(),
			Msg:      "reading SAF input",
			Err:      err,
		}
	}

	if id := st.recordID(); id != 0 {
		return nil, newParseError(KindUnexpectedStructuralMarker, scanner.Lines(), id,
			"end of input inside an open <Histo> block")
	}

	return &domain.Table{Rows: run.rows}, nil
}

// extract routes a content line to the extractor of its block. Data lines
// append a row.
func (run *parseRun) extract(rec *record, block Block, ln Line) error {
	switch block {
	case BlockDescription:
		return extractDescription(rec, ln.Local, ln.Text)
	case BlockStatistics:
		return extractStatistics(rec, ln.Local, ln.Text)
	case BlockData:
		row, err := extractData(rec, ln.Local, ln.Text)
		if err != nil {
			return err
		}
		run.rows = append(run.rows, row)
		run.observer.RowEmitted(ln.Number, row)
	}
	return nil
}
