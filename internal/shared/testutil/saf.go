package testutil

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// MinimalSAF is a single two-bin histogram. It parses to four rows:
// underflow 0, [0,1) 4, [1,2) 6 and overflow 0.
const MinimalSAF = `<SAFheader>
</SAFheader>
<Histo>
  <Description>
    "Test"
    # nbins xmin xmax
    2 0.0 2.0
    # Defined regions
    SR
  </Description>
  <Statistics>
    100 0
    1.5 0.0
    90 0
    1.2 0.0
    0.3 0
    0.4 0
    0.1 0
  </Statistics>
  <Data>
    0.0 0.0
    5.0 1.0
    6.0 0.0
    0.0 0.0
  </Data>
</Histo>
`

// DefaultStats are the seven Statistics lines of MinimalSAF.
var DefaultStats = []string{"100 0", "1.5 0.0", "90 0", "1.2 0.0", "0.3 0", "0.4 0", "0.1 0"}

// Histo describes one <Histo> block. Empty Stats falls back to DefaultStats.
type Histo struct {
	Name    string
	Binning string
	Region  string
	Stats   []string
	Data    []string
}

// String renders the block in the layout the SAF writer produces.
func (h Histo) String() string {
	stats := h.Stats
	if len(stats) == 0 {
		stats = DefaultStats
	}

	var b strings.Builder
	b.WriteString("<Histo>\n  <Description>\n")
	fmt.Fprintf(&b, "    %q\n    # nbins xmin xmax\n    %s\n    # Defined regions\n    %s\n", h.Name, h.Binning, h.Region)
	b.WriteString("  </Description>\n  <Statistics>\n")
	for _, s := range stats {
		b.WriteString("    " + s + "\n")
	}
	b.WriteString("  </Statistics>\n  <Data>\n")
	for _, d := range h.Data {
		b.WriteString("    " + d + "\n")
	}
	b.WriteString("  </Data>\n</Histo>\n")
	return b.String()
}

// Document wraps histos in a SAF header.
func Document(histos ...Histo) string {
	var b strings.Builder
	b.WriteString("<SAFheader>\n</SAFheader>\n")
	for _, h := range histos {
		b.WriteString(h.String())
	}
	return b.String()
}

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t testing.TB, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// Gzip compresses data in memory.
func Gzip(t testing.TB, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatalf("gzip: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}
