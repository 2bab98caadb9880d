package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"histogen/internal/config"
	"histogen/internal/input"
)

// ErrNoSAFFiles is returned when a directory or pattern names no SAF input.
var ErrNoSAFFiles = errors.New("no SAF files found")

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
	IsDir   bool
}

// Discovery resolves command line inputs to SAF files
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance. Relative paths are
// resolved against basePath.
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// IsSAFName reports whether name looks like a SAF file, optionally
// compressed: example.saf, example.saf.gz, example.SAF.xz.
func IsSAFName(name string) bool {
	lower := strings.ToLower(name)
	for _, suffix := range config.CompressionSuffixes {
		if strings.HasSuffix(lower, suffix) {
			lower = strings.TrimSuffix(lower, suffix)
			break
		}
	}
	return strings.HasSuffix(lower, ".saf") && len(lower) > len(".saf")
}

func (d *Discovery) resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}

// FindSAFFiles lists the SAF files directly inside dir, sorted by name.
func (d *Discovery) FindSAFFiles(dir string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !IsSAFName(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	// os.ReadDir already sorts by name
	return files, nil
}

// FindFilesByPattern finds regular files matching a glob pattern. "**"
// matches any number of directories.
func (d *Discovery) FindFilesByPattern(pattern string) ([]FileInfo, error) {
	matches, err := doublestar.FilepathGlob(d.resolve(pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
	}

	var files []FileInfo
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, FileInfo{
			Path:    match,
			Name:    filepath.Base(match),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// ExpandInputs turns command line arguments into input paths. Directories
// expand to the SAF files they contain and glob patterns to their matches.
// Standard input and plain paths pass through unchanged, so a missing file
// is reported by the parser like any other unreadable input.
func (d *Discovery) ExpandInputs(args []string) ([]string, error) {
	var inputs []string
	for _, arg := range args {
		if arg == input.StdinName {
			inputs = append(inputs, arg)
			continue
		}

		var found []FileInfo
		var err error
		switch {
		case hasMeta(arg):
			found, err = d.FindFilesByPattern(arg)
		case isDir(d.resolve(arg)):
			found, err = d.FindSAFFiles(arg)
		default:
			inputs = append(inputs, d.resolve(arg))
			continue
		}
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("%s: %w", arg, ErrNoSAFFiles)
		}
		for _, f := range found {
			inputs = append(inputs, f.Path)
		}
	}
	return inputs, nil
}

func hasMeta(path string) bool {
	return strings.ContainsAny(path, `*?[{`)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
