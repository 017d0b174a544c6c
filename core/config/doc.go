// Package config provides configuration management for livestream-sync.
//
// It utilizes Viper for loading configuration from a .env file, an optional
// JSON or YAML config file and environment variables prefixed with CTLA_.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - ChurchTools: instance, token, event window and attachment names
//   - YouTube: OAuth files, ingest stream and broadcast settings
//   - WordPress and Homepage: the generated homepage listing
//   - Facts and Templates: how event facts and texts map to broadcasts and posts
//   - Thumbnails: thumbnail rules and the thumbnail cache backend
//   - Monitor, Journal, Database, Storage, Log and Server
//
// Slices and maps such as homepage pages or thumbnail rules can only be set
// in the config file.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".", "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
