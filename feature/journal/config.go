package journal

// Config holds configuration for the run journal.
type Config struct {
	// Enabled turns the journal on; it uses the database section.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Keep is the number of runs retained; older runs are pruned.
	Keep int `mapstructure:"keep" default:"200"`
}
