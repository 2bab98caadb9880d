package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Paths contains all the application paths
type Paths struct {
	ExecutableDir string
	OutputDir     string
	LogsDir       string
	LogFile       string
}

// CompressionSuffixes are the file suffixes of compressed SAF inputs. They
// are stripped before the .saf extension when naming outputs.
var CompressionSuffixes = []string{".gz", ".bz2", ".xz", ".zst"}

// NewPaths resolves the output directory and log file to absolute paths.
// Relative output directories are taken from the working directory, relative
// log files from the executable directory.
func NewPaths(outputDir, logFile string) (*Paths, error) {
	exeDir, err := executableDir()
	if err != nil {
		return nil, err
	}

	if outputDir == "" {
		outputDir = "."
	}
	outAbs, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory: %w", err)
	}

	if logFile == "" {
		logFile = DefaultLogFile
	}
	if !filepath.IsAbs(logFile) {
		logFile = filepath.Join(exeDir, logFile)
	}

	return &Paths{
		ExecutableDir: exeDir,
		OutputDir:     outAbs,
		LogsDir:       filepath.Dir(logFile),
		LogFile:       logFile,
	}, nil
}

// executableDir returns the directory of the running binary with symlinks resolved.
func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %v", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}
	return filepath.Dir(exe), nil
}

// EnsureDirectories creates the output directory if it doesn't exist
func (p *Paths) EnsureDirectories() error {
	if err := os.MkdirAll(p.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %v", p.OutputDir, err)
	}
	slog.Default().Debug("Ensured directory exists",
		slog.String("directory", p.OutputDir))
	return nil
}

// GetOutputPath returns the output file for inputPath, named after the
// input's base name with the given extension.
func (p *Paths) GetOutputPath(inputPath, ext string) string {
	return filepath.Join(p.OutputDir, OutputBaseName(inputPath)+"."+strings.TrimPrefix(ext, "."))
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// OutputBaseName strips directories, compression suffixes and a trailing
// .saf from inputPath. Standard input is named "stdin".
func OutputBaseName(inputPath string) string {
	if inputPath == "" || inputPath == "-" {
		return "stdin"
	}
	base := filepath.Base(inputPath)
	for _, suffix := range CompressionSuffixes {
		if strings.HasSuffix(strings.ToLower(base), suffix) {
			base = base[:len(base)-len(suffix)]
			break
		}
	}
	if strings.EqualFold(filepath.Ext(base), ".saf") {
		base = base[:len(base)-len(".saf")]
	}
	if base == "" {
		return "histograms"
	}
	return base
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs detailed path resolution information for debugging
func (p *Paths) LogPathResolution() {
	slog.Default().Debug("Path resolution summary",
		slog.Group("directories",
			slog.String("executable", p.ExecutableDir),
			slog.String("output", p.OutputDir),
			slog.String("logs", p.LogsDir),
		),
		slog.String("log_file", p.LogFile))
}
