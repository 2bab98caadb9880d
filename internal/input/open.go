package input

import (
	"fmt"
	"io"
	"os"
)

// StdinName is the path that selects standard input.
const StdinName = "-"

// Source is an opened SAF input.
type Source struct {
	io.Reader
	Path        string
	Compression Compression

	closers []io.Closer
}

// Close releases the decoder and the underlying file, in that order.
func (s *Source) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	s.closers = nil
	return first
}

// Open opens path for reading, transparently decompressing gzip, bzip2, xz
// and zstd content. The path "-" reads standard input.
func Open(path string) (*Source, error) {
	var f io.ReadCloser
	if path == StdinName {
		f = io.NopCloser(os.Stdin)
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open input file: %w", err)
		}
		f = file
	}

	rc, c, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &Source{
		Reader:      rc,
		Path:        path,
		Compression: c,
		closers:     []io.Closer{rc, f},
	}, nil
}
