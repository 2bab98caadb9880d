// Command histogen converts SAF histogram files into tidy per-bin tables.
//
//	histogen [flags] file.saf [file.saf.gz ...]
//
// Each input is written to <outdir>/<basename>.<format>. Directories expand
// to the SAF files they contain and glob patterns to their matches. The path
// "-" reads standard input and writes stdin.<format>.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"histogen/internal/config"
	apierrors "histogen/internal/errors"
	"histogen/internal/exporter"
	"histogen/internal/files"
	"histogen/internal/infrastructure"
	"histogen/internal/saf"
	"histogen/internal/services"
	"histogen/pkg/contracts"
)

// Exit codes
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type options struct {
	outDir     string
	format     string
	configFile string
	verbose    bool
	terse      bool
	version    bool
	inputs     []string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func newFlagSet(opts *options, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(contracts.ProgramName, flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.outDir, "o", "", "directory for generated tables (default is the current dir)")
	fs.StringVar(&opts.outDir, "outdir", "", "directory for generated tables (default is the current dir)")
	fs.StringVar(&opts.format, "format", "", "output format: csv, xlsx or json (default csv)")
	fs.StringVar(&opts.configFile, "config", "", "path to a YAML config file")
	fs.BoolVar(&opts.verbose, "verbose", false, "log every parser trace point")
	fs.BoolVar(&opts.terse, "t", false, "print progress dots and a summary per file")
	fs.BoolVar(&opts.terse, "terse", false, "print progress dots and a summary per file")
	fs.BoolVar(&opts.version, "v", false, "print the version and exit")
	fs.BoolVar(&opts.version, "version", false, "print the version and exit")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: %s [flags] file.saf [file.saf ...]\n", contracts.ProgramName)
		fs.PrintDefaults()
	}
	return fs
}

// parseArgs accepts flags before, between and after the input paths.
func parseArgs(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := newFlagSet(opts, stderr)

	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			break
		}
		opts.inputs = append(opts.inputs, args[0])
		args = args[1:]
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if opts.version {
		fmt.Fprintln(stdout, contracts.GetVersionString())
		return exitOK
	}
	if len(opts.inputs) == 0 {
		fmt.Fprintf(stderr, "%s: no input files\n", contracts.ProgramName)
		newFlagSet(&options{}, stderr).Usage()
		return exitUsage
	}

	if err := convert(ctx, opts, stderr); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", contracts.ProgramName, err)
		return exitError
	}
	return exitOK
}

// loadConfig applies the command line on top of the file and environment.
func loadConfig(opts *options) (*config.Config, exporter.Format, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, "", apierrors.NewConfigError("cannot load configuration", err)
	}

	if opts.outDir != "" {
		cfg.Output.Dir = opts.outDir
	}
	if opts.format != "" {
		cfg.Output.Format = opts.format
	}
	format, err := exporter.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, "", apierrors.NewConfigError("invalid output format", err)
	}

	// The CLI is silent by default; --verbose opens the parser trace.
	switch {
	case opts.verbose:
		cfg.Logging.Level = "debug"
	case cfg.Logging.Level == config.DefaultLogLevel:
		cfg.Logging.Level = "warn"
	}

	// Interleaved progress dots are unreadable.
	if opts.terse {
		cfg.Output.Workers = 1
	}
	return cfg, format, nil
}

func convert(ctx context.Context, opts *options, stderr io.Writer) error {
	cfg, format, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, err := infrastructure.NewLogger(cfg.Logging, stderr)
	if err != nil {
		return apierrors.NewConfigError("cannot initialize logger", err)
	}
	defer infrastructure.CloseLogFile()

	paths, err := cfg.Paths()
	if err != nil {
		return apierrors.NewConfigError("cannot resolve paths", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return apierrors.NewStorageError("cannot create output directory", err)
	}

	otelCfg := infrastructure.OTelConfigFrom(cfg.Telemetry)
	otelCfg.EnableMetrics = false
	otelCfg.TraceOutput = stderr
	providers, err := infrastructure.InitializeOTel(otelCfg, logger)
	if err != nil {
		return apierrors.NewConfigError("cannot initialize telemetry", err)
	}
	defer func() {
		if err := providers.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	svc := services.NewHistogramService(paths,
		exporter.NewExporter(paths, exporter.Options{BOM: cfg.Output.BOM}),
		logger,
		services.WithWorkers(cfg.Output.Workers),
		services.WithTracer(providers.Tracer),
		services.WithObservers(observerFactory(opts, logger, stderr)),
	)

	inputs, err := files.NewDiscovery(".").ExpandInputs(opts.inputs)
	if err != nil {
		return apierrors.NewInputError("cannot resolve inputs", err)
	}
	logger.Debug("Resolved inputs", slog.Any("inputs", inputs))

	results, err := svc.ConvertAll(ctx, inputs, format)
	if err != nil {
		return err
	}

	if opts.terse {
		for _, res := range results {
			fmt.Fprintf(stderr, "wrote %s\n", res.Output)
		}
	}
	return nil
}

// observerFactory builds the per-input trace sinks chosen on the command line.
func observerFactory(opts *options, logger *slog.Logger, stderr io.Writer) services.ObserverFactory {
	if !opts.verbose && !opts.terse {
		return nil
	}
	return func(source string) saf.Observer {
		var observers saf.MultiObserver
		if opts.verbose {
			observers = append(observers, saf.NewLogObserver(logger.With(slog.String("source", source))))
		}
		if opts.terse {
			observers = append(observers, saf.NewProgressObserver(stderr))
		}
		return observers
	}
}
