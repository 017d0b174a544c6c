package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"livestream-sync/core/database"
	"livestream-sync/core/event"
	"livestream-sync/core/logger"
	"livestream-sync/core/server"
	"livestream-sync/core/storage"
	"livestream-sync/feature/churchtools"
	"livestream-sync/feature/homepage"
	"livestream-sync/feature/journal"
	"livestream-sync/feature/monitor"
	"livestream-sync/feature/thumbnail"
	"livestream-sync/feature/wordpress"
	"livestream-sync/feature/youtube"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. CTLA_CHURCHTOOLS_TOKEN.
const EnvPrefix = "CTLA"

// DefaultConfigFile is read from the config directory when no file is given.
const DefaultConfigFile = "ctla_config.json"

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// ChurchTools holds the calendar instance and attachment names.
	ChurchTools churchtools.Config `mapstructure:"churchtools"`
	// YouTube holds OAuth files and broadcast settings.
	YouTube youtube.Config `mapstructure:"youtube"`
	// WordPress holds the homepage site credentials.
	WordPress wordpress.Config `mapstructure:"wordpress"`
	// Homepage holds the homepage listing.
	Homepage homepage.Config `mapstructure:"homepage"`
	// Thumbnails holds thumbnail rules and the thumbnail cache backend.
	Thumbnails thumbnail.Config `mapstructure:"thumbnails"`
	// Monitor holds the optional push monitor.
	Monitor monitor.Config `mapstructure:"monitor"`
	// Journal holds the optional run journal.
	Journal journal.Config `mapstructure:"journal"`
	// Facts maps event facts to stream behavior.
	Facts event.FactsConfig `mapstructure:"facts"`
	// Templates holds broadcast and post templates.
	Templates event.TemplateConfig `mapstructure:"templates"`
	// Database holds configuration for the journal database.
	Database database.Config `mapstructure:"database"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Server holds the OAuth redirect listener.
	Server server.Config `mapstructure:"server"`
	// Timezone is the IANA zone event times are rendered in.
	Timezone string `mapstructure:"timezone" default:"Europe/Berlin"`
}

// LoadConfig loads configuration from the .env file in path, an optional
// config file and environment variables, in increasing precedence.
// An empty configFile selects DefaultConfigFile in path if it exists.
func LoadConfig(path, configFile string) (*Config, error) {
	// 1. Load .env file if it exists
	envPath := filepath.Join(path, ".env")

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	if configFile == "" {
		candidate := filepath.Join(path, DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
		}
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	// Map environment variables to nested keys (e.g. CTLA_CHURCHTOOLS_TOKEN -> churchtools.token)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// viper lower-cases map keys
	for i := range config.Homepage.Pages {
		config.Homepage.Pages[i].Template = strings.ToLower(config.Homepage.Pages[i].Template)
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		switch field.Type.Kind() {
		case reflect.Struct:
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		case reflect.Map:
			// only the config file can provide maps
			continue
		case reflect.Slice:
			// lists of scalars may come from the environment as "1,2,3"
			if field.Type.Elem().Kind() == reflect.Struct {
				continue
			}
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}

// ValidationError collects every configuration problem found by Validate.
type ValidationError struct {
	Problems []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Error()
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() []error {
	return e.Problems
}

// Validate checks everything a sync run needs before it touches a remote
// system. All problems are reported at once.
func (c *Config) Validate() error {
	var problems []error

	if !c.ChurchTools.Configured() {
		problems = append(problems, &event.ConfigError{
			Key: "churchtools.instance",
			Err: errors.New("instance and token are required"),
		})
	}

	loc, err := c.Location()
	if err != nil {
		problems = append(problems, err)
	}

	if err := c.Facts.Validate(); err != nil {
		problems = append(problems, err)
	}
	if _, err := event.NewRenderer(c.Templates, loc); err != nil {
		problems = append(problems, err)
	}

	if c.Homepage.Enabled {
		if err := c.Homepage.Validate(); err != nil {
			problems = append(problems, err)
		}
		if !c.WordPress.Configured() {
			problems = append(problems, &event.ConfigError{
				Key: "wordpress.url",
				Err: errors.New("homepage publishing needs url, user and app_password"),
			})
		}
	}

	switch c.Thumbnails.Backend {
	case "", "file", "s3":
	default:
		problems = append(problems, &event.ConfigError{
			Key:      "thumbnails.backend",
			Value:    c.Thumbnails.Backend,
			Accepted: []string{"file", "s3"},
			Err:      fmt.Errorf("unknown backend %q", c.Thumbnails.Backend),
		})
	}
	if c.Thumbnails.Backend == "s3" && !c.Storage.Enabled() {
		problems = append(problems, &event.ConfigError{
			Key: "storage.access_key",
			Err: errors.New("thumbnail cache backend s3 needs storage credentials"),
		})
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// Location loads the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, &event.ConfigError{Key: "timezone", Value: c.Timezone, Err: err}
	}
	return loc, nil
}
