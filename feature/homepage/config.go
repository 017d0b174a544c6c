package homepage

import (
	"errors"
	"fmt"
	"sort"

	"livestream-sync/core/event"
)

// Config holds configuration for the homepage listing.
type Config struct {
	// Enabled turns homepage publishing on.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// LeadMinutes is how long before its start an event is advertised.
	LeadMinutes int `mapstructure:"lead_minutes" default:"60"`
	// ParallelDisplay allows the lead windows of events to overlap.
	ParallelDisplay bool `mapstructure:"parallel_display" default:"false"`
	// Tag names the region markers.
	Tag string `mapstructure:"tag" default:"ct-livestreams"`
	// BakeryMode stores the region inside a WPBakery raw HTML block.
	BakeryMode bool `mapstructure:"bakery_mode" default:"false"`
	// Pages assigns a template to each page id.
	Pages []PageConfig `mapstructure:"pages"`
	// Templates are text/template strings keyed by name.
	Templates map[string]string `mapstructure:"templates"`
}

// PageConfig binds a page to a template.
type PageConfig struct {
	ID       int    `mapstructure:"id"`
	Template string `mapstructure:"template"`
}

// Validate checks that every page references an existing template and that
// all templates parse.
func (c Config) Validate() error {
	var errs []error
	for _, p := range c.Pages {
		if _, ok := c.Templates[p.Template]; !ok {
			errs = append(errs, &event.ConfigError{
				Key:      fmt.Sprintf("homepage.pages[%d].template", p.ID),
				Value:    p.Template,
				Accepted: c.templateNames(),
				Err:      fmt.Errorf("unknown template %q", p.Template),
			})
		}
	}
	for name, text := range c.Templates {
		if _, err := event.ParseTemplate("homepage.templates."+name, text); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Tag == "" {
		errs = append(errs, &event.ConfigError{Key: "homepage.tag", Err: errors.New("must not be empty")})
	}
	return errors.Join(errs...)
}

func (c Config) templateNames() []string {
	names := make([]string, 0, len(c.Templates))
	for name := range c.Templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merger returns the region merger selected by the configuration.
func (c Config) Merger() Merger {
	if c.BakeryMode {
		return NewBakeryMerger(c.Tag)
	}
	return TagMerger{Tag: c.Tag}
}
