// Package saf translates MadAnalysis5 SAF histogram files into a tidy table
// of per-bin observations.
//
// # Format
//
// A SAF file is XML-like but not well formed. Each histogram is a block:
//
//	<Histo>
//	  <Description>
//	    "ptj1"
//	    # nbins   xmin           xmax
//	      20      0.000000e+00   1.000000e+03
//	    # Defined regions
//	      MySelection    # Region nr. 1
//	  </Description>
//	  <Statistics>
//	      10000  0   # nevents
//	      ...        (7 lines, each "left right")
//	  </Statistics>
//	  <Data>
//	      0.000000e+00  0.000000e+00   # underflow
//	      ...                          # nbins regular bins
//	      0.000000e+00  0.000000e+00   # overflow
//	  </Data>
//	</Histo>
//
// Markers are detected by substring match, and fields inside Description and
// Statistics are identified by their line position within the block, not by
// any tag. Both properties are part of the format.
//
// # Architecture
//
// The package is organized into two layers:
//
// 1. LineScanner: classifies each input line as a structural marker or as
// content, tagging content with its position inside the current block.
//
// 2. Parser: a state machine (outside / in record / in section) that routes
// content lines to positional extractors and emits one
// domain.BinObservation per Data line.
//
// # Usage
//
//	table, err := saf.Parse(ctx, f, saf.WithObserver(saf.NewLogObserver(logger)))
//	if err != nil {
//	    var perr *saf.ParseError
//	    if errors.As(err, &perr) {
//	        log.Printf("%s at line %d", perr.Kind, perr.Line)
//	    }
//	}
//
// # Error Handling
//
// Parsing is fail-fast: the first malformed line, out-of-order section or
// nesting violation aborts the parse and no table is returned. Every error is
// a *ParseError carrying its ErrorKind, the 1-based input line and the ID of
// the histogram being assembled.
//
// # Numeric Conventions
//
// Decimal values (value, xmin, xmax and the decimal statistics) are rounded
// to six fractional digits in scientific notation, the %.6E convention of
// the tidy table. Bin edges within 1e-10 of zero are snapped to zero.
package saf
