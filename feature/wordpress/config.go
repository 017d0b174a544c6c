package wordpress

import "strings"

// Config holds configuration for the WordPress connection.
type Config struct {
	// URL is the site root.
	URL string `mapstructure:"url" default:""`
	// User is the account the application password belongs to.
	User string `mapstructure:"user" default:""`
	// AppPassword is an application password of User.
	AppPassword string `mapstructure:"app_password" default:""`
	// TimeoutSeconds bounds every request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// APIURL returns the root of the wp/v2 REST namespace.
func (c Config) APIURL() string {
	return strings.TrimRight(c.URL, "/") + "/wp-json/wp/v2"
}

// Configured reports whether a site and credentials are set.
func (c Config) Configured() bool {
	return c.URL != "" && c.User != "" && c.AppPassword != ""
}
