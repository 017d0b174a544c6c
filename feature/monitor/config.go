package monitor

// Config holds configuration for the failure reporter.
type Config struct {
	// URL is the push URL template; empty disables reporting.
	URL string `mapstructure:"url" default:""`
	// TimeoutSeconds bounds the ping request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"10"`
}
