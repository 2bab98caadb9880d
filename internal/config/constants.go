package config

// Application constants
const (
	AppName = "histogen"

	DefaultLogLevel     = "info"
	DefaultLogFormat    = "json"
	DefaultLogFile      = "logs/histogen.log"
	DefaultOutputFormat = "csv"
	DefaultWorkers      = 4

	DefaultRateLimit    = 20 // requests per second
	DefaultBurstSize    = 10
	DefaultMaxBodyBytes = 256 << 20 // 256MB

	APIBasePath     = "/api/v1"
	HealthEndpoint  = "/api/health"
	VersionEndpoint = "/api/version"
	MetricsEndpoint = "/metrics"
)
