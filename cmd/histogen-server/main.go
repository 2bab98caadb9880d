// Command histogen-server serves the SAF conversion API over HTTP.
package main

import (
	"flag"
	"log/slog"
	"os"

	"histogen/internal/app"
	"histogen/internal/config"
	"histogen/internal/infrastructure"
)

func main() {
	configFile := flag.String("config", "", "path to a YAML config file (default searches histogen.yaml, config.yaml)")
	port := flag.Int("port", 0, "listen port, overriding the config")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	application, err := app.NewApplication(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
