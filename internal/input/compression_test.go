package input

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
	"go.uber.org/goleak"
)

const payload = "<Histo>\n  <Description>\n    \"Test\"\n  </Description>\n</Histo>\n"

func compress(t *testing.T, c Compression, data string) []byte {
	t.Helper()
	var buf bytes.Buffer
	var w io.WriteCloser
	var err error

	switch c {
	case CompressionGzip:
		w = gzip.NewWriter(&buf)
	case CompressionXZ:
		w, err = xz.NewWriter(&buf)
	case CompressionZstd:
		w, err = zstd.NewWriter(&buf)
	default:
		return []byte(data)
	}
	require.NoError(t, err)
	_, err = w.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name   string
		header []byte
		want   Compression
	}{
		{name: "gzip", header: []byte{0x1f, 0x8b, 0x08}, want: CompressionGzip},
		{name: "bzip2", header: []byte("BZh91AY"), want: CompressionBzip2},
		{name: "xz", header: []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}, want: CompressionXZ},
		{name: "zstd", header: []byte{0x28, 0xb5, 0x2f, 0xfd, 0x04}, want: CompressionZstd},
		{name: "plain SAF", header: []byte("<SAFheader>"), want: CompressionNone},
		{name: "short", header: []byte{0x1f}, want: CompressionNone},
		{name: "empty", header: nil, want: CompressionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.header))
		})
	}
}

func TestNewReader_RoundTrip(t *testing.T) {
	defer goleak.VerifyNone(t)

	for _, c := range []Compression{CompressionNone, CompressionGzip, CompressionXZ, CompressionZstd} {
		t.Run(c.String(), func(t *testing.T) {
			rc, got, err := NewReader(bytes.NewReader(compress(t, c, payload)))
			require.NoError(t, err)
			defer rc.Close()

			assert.Equal(t, c, got)
			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			assert.Equal(t, payload, string(data))
		})
	}
}

func TestNewReader_ShortInput(t *testing.T) {
	rc, c, err := NewReader(bytes.NewReader([]byte("ab")))
	require.NoError(t, err)
	assert.Equal(t, CompressionNone, c)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "ab", string(data))
}

func TestNewReader_CorruptGzip(t *testing.T) {
	_, c, err := NewReader(bytes.NewReader([]byte{0x1f, 0x8b, 0x00, 0x00}))
	assert.Error(t, err)
	assert.Equal(t, CompressionGzip, c)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "histos.saf.gz")
	require.NoError(t, os.WriteFile(path, compress(t, CompressionGzip, payload), 0o644))

	src, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, CompressionGzip, src.Compression)
	assert.Equal(t, path, src.Path)

	data, err := io.ReadAll(src)
	require.NoError(t, err)
	assert.Equal(t, payload, string(data))
	assert.NoError(t, src.Close())
	assert.NoError(t, src.Close(), "second close is a no-op")
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.saf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
