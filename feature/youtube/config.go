package youtube

// Config holds configuration for the YouTube connection.
type Config struct {
	// ClientSecretsFile is the OAuth client downloaded from the Google console.
	ClientSecretsFile string `mapstructure:"client_secrets_file" default:"client_secret.json"`
	// CredentialsFile is where the user token is stored.
	CredentialsFile string `mapstructure:"credentials_file" default:"credentials.json"`
	// RedirectURL is the OAuth redirect URL registered for the client.
	RedirectURL string `mapstructure:"redirect_url" default:"http://localhost:8080/oauth2callback"`
	// StreamID is the ingest stream new broadcasts are bound to.
	StreamID string `mapstructure:"stream_id" default:""`
	// Endpoint overrides the API root.
	Endpoint string `mapstructure:"endpoint" default:""`
	// Broadcast holds the technical settings of new broadcasts.
	Broadcast BroadcastSettings `mapstructure:"broadcast"`
}

// BroadcastSettings are applied to every broadcast on creation.
type BroadcastSettings struct {
	EnableAutoStart bool `mapstructure:"enable_auto_start" default:"true"`
	EnableAutoStop  bool `mapstructure:"enable_auto_stop" default:"true"`
	EnableDvr       bool `mapstructure:"enable_dvr" default:"true"`
	RecordFromStart bool `mapstructure:"record_from_start" default:"true"`
	// LatencyPreference is one of normal, low, ultraLow.
	LatencyPreference string `mapstructure:"latency_preference" default:"normal"`
	MadeForKids       bool   `mapstructure:"made_for_kids" default:"false"`
}
