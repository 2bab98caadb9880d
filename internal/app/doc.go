// Package app wires the histogen HTTP service together: configuration,
// OpenTelemetry providers, the histogram and health services, the chi
// router and the http.Server.
//
// # Initialization Flow
//
//	1. Resolve paths and create the output directory
//	2. Initialize OpenTelemetry (tracing and the Prometheus registry)
//	3. Create the conversion metrics and services
//	4. Build the router and middleware chain
//	5. Create the http.Server from the server config
//
// # Usage
//
//	application, err := app.NewApplication(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	return application.Run()
//
// # Graceful Shutdown
//
// Run blocks until SIGINT or SIGTERM, then drains in-flight requests
// within Server.ShutdownTimeout and flushes the telemetry providers.
// Initialization errors are returned; the package never calls os.Exit.
package app
