package saf

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
)

// Block identifies one of the nested SAF blocks.
type Block int

const (
	BlockNone Block = iota
	BlockHisto
	BlockDescription
	BlockStatistics
	BlockData
)

var blockNames = []string{
	"content",     // 0 - BlockNone
	"Histo",       // 1 - BlockHisto
	"Description", // 2 - BlockDescription
	"Statistics",  // 3 - BlockStatistics
	"Data",        // 4 - BlockData
}

// String returns the block's tag name.
func (b Block) String() string {
	if int(b) < len(blockNames) {
		return blockNames[b]
	}
	return "unknown"
}

// Tag returns the marker text for entering (closing=false) or leaving the block.
func (b Block) Tag(closing bool) string {
	if closing {
		return "</" + b.String() + ">"
	}
	return "<" + b.String() + ">"
}

// markers is checked in order; closing tags come first so that a line holding
// both an opening and a closing tag is treated as the closing one.
var markers = []struct {
	tag     string
	block   Block
	closing bool
}{
	{"</Histo>", BlockHisto, true},
	{"</Description>", BlockDescription, true},
	{"</Statistics>", BlockStatistics, true},
	{"</Data>", BlockData, true},
	{"<Histo>", BlockHisto, false},
	{"<Description>", BlockDescription, false},
	{"<Statistics>", BlockStatistics, false},
	{"<Data>", BlockData, false},
}

// Line is one classified input line.
type Line struct {
	// Number is the 1-based physical line number.
	Number int
	Text   string
	// Block is BlockNone for content lines.
	Block   Block
	Closing bool
	// Local is the 0-based position of a content line since the last
	// opening marker. It is meaningless for marker lines.
	Local int
}

// IsMarker reports whether the line is a structural marker.
func (l Line) IsMarker() bool {
	return l.Block != BlockNone
}

// Marker returns the marker text of the line, or "" for content lines.
func (l Line) Marker() string {
	if !l.IsMarker() {
		return ""
	}
	return l.Block.Tag(l.Closing)
}

// classify matches a line against the fixed marker set by substring containment.
func classify(text string) (Block, bool) {
	for _, m := range markers {
		if strings.Contains(text, m.tag) {
			return m.block, m.closing
		}
	}
	return BlockNone, false
}

// LineScanner reads a SAF stream one line at a time. It never buffers more
// than the current line and imposes no line-length limit.
type LineScanner struct {
	ctx    context.Context
	r      *bufio.Reader
	line   Line
	number int
	local  int
	err    error
	done   bool
}

// NewLineScanner returns a scanner reading from r. The context is checked
// before every line read.
func NewLineScanner(ctx context.Context, r io.Reader) *LineScanner {
	if ctx == nil {
		ctx = context.Background()
	}
	return &LineScanner{ctx: ctx, r: bufio.NewReader(r)}
}

// Scan advances to the next line. It returns false at end of input or on error.
func (s *LineScanner) Scan() bool {
	if s.done {
		return false
	}
	if err := s.ctx.Err(); err != nil {
		s.err = err
		s.done = true
		return false
	}

	text, err := s.r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		s.err = err
		s.done = true
		return false
	}
	if errors.Is(err, io.EOF) {
		s.done = true
		if text == "" {
			return false
		}
	}

	s.number++
	text = strings.TrimRight(text, "\r\n")
	block, closing := classify(text)
	s.line = Line{Number: s.number, Text: text, Block: block, Closing: closing}

	switch {
	case block != BlockNone && !closing:
		s.local = 0
	case block == BlockNone:
		s.line.Local = s.local
		s.local++
	}
	return true
}

// Line returns the most recent line produced by Scan.
func (s *LineScanner) Line() Line {
	return s.line
}

// Lines returns the number of lines read so far.
func (s *LineScanner) Lines() int {
	return s.number
}

// Err returns the first non-EOF error encountered by the scanner.
func (s *LineScanner) Err() error {
	return s.err
}
