package event

import (
	"fmt"
	"strings"
	"text/template"
	"time"
)

// TemplateConfig holds the text templates used for broadcasts and posts.
// Templates are text/template strings over a flat map, e.g. "{{.title}} {{.speaker_s}}".
type TemplateConfig struct {
	DateFormat           string `mapstructure:"dateformat" json:"dateformat" default:"02.01.2006 15:04"`
	SpeakerShort         string `mapstructure:"speaker_short" json:"speaker_short" default:" mit {{.name}}"`
	SpeakerLong          string `mapstructure:"speaker_long" json:"speaker_long" default:"Predigt: {{.name}}"`
	BroadcastTitle       string `mapstructure:"broadcast_title" json:"broadcast_title" default:"{{.title}}{{.speaker_s}}"`
	BroadcastDescription string `mapstructure:"broadcast_description" json:"broadcast_description" default:"{{.note}}\n\n{{.speaker_l}}"`
	PostTitle            string `mapstructure:"post_title" json:"post_title"`
	PostContent          string `mapstructure:"post_content" json:"post_content" default:"{{.note}}\n\n{{.link}}"`
}

// Renderer projects events through the configured templates.
type Renderer struct {
	location *time.Location
	layout   string

	speakerShort *template.Template
	speakerLong  *template.Template
	title        *template.Template
	description  *template.Template
	postTitle    *template.Template
	postContent  *template.Template
}

// NewRenderer parses every template. A parse failure is a ConfigError.
func NewRenderer(cfg TemplateConfig, location *time.Location) (*Renderer, error) {
	if location == nil {
		location = time.Local
	}
	r := &Renderer{location: location, layout: cfg.DateFormat}
	if r.layout == "" {
		r.layout = "02.01.2006 15:04"
	}

	postTitle := cfg.PostTitle
	if postTitle == "" {
		postTitle = cfg.BroadcastTitle
	}

	var err error
	parse := func(name, text string) *template.Template {
		if err != nil {
			return nil
		}
		var t *template.Template
		t, err = ParseTemplate(name, text)
		return t
	}
	r.speakerShort = parse("speaker_short", cfg.SpeakerShort)
	r.speakerLong = parse("speaker_long", cfg.SpeakerLong)
	r.title = parse("broadcast_title", cfg.BroadcastTitle)
	r.description = parse("broadcast_description", cfg.BroadcastDescription)
	r.postTitle = parse("post_title", postTitle)
	r.postContent = parse("post_content", cfg.PostContent)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ParseTemplate parses a template whose missing keys render empty.
func ParseTemplate(name, text string) (*template.Template, error) {
	t, err := template.New(name).Option("missingkey=zero").Parse(text)
	if err != nil {
		return nil, &ConfigError{Key: name, Value: text, Err: err}
	}
	return t, nil
}

// Execute renders t over vars and trims surrounding whitespace.
func Execute(t *template.Template, vars map[string]string) (string, error) {
	s, err := execute(t, vars)
	return strings.TrimSpace(s), err
}

func execute(t *template.Template, vars map[string]string) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, vars); err != nil {
		return "", fmt.Errorf("render template %s: %w", t.Name(), err)
	}
	return sb.String(), nil
}

// Location returns the timezone used for formatting.
func (r *Renderer) Location() *time.Location {
	return r.location
}

// Vars returns the substitution variables of an event.
func (r *Renderer) Vars(e *Event) (map[string]string, error) {
	vars := map[string]string{
		"title":     e.Title,
		"note":      e.Note,
		"start":     e.StartTime.In(r.location).Format(r.layout),
		"end":       e.EndTime.In(r.location).Format(r.layout),
		"speaker_s": "",
		"speaker_l": "",
		"link":      "",
	}
	if e.Speaker != "" {
		speaker := map[string]string{"name": e.Speaker}
		// not trimmed: the short form usually starts with a separator
		var err error
		if vars["speaker_s"], err = execute(r.speakerShort, speaker); err != nil {
			return nil, err
		}
		if vars["speaker_l"], err = execute(r.speakerLong, speaker); err != nil {
			return nil, err
		}
	}
	if e.StreamLink != nil {
		vars["link"] = e.StreamLink.URL
	}
	return vars, nil
}

// BroadcastSpec renders the desired broadcast of an event.
func (r *Renderer) BroadcastSpec(e *Event) (BroadcastSpec, error) {
	vars, err := r.Vars(e)
	if err != nil {
		return BroadcastSpec{}, err
	}
	title, err := Execute(r.title, vars)
	if err != nil {
		return BroadcastSpec{}, err
	}
	description, err := Execute(r.description, vars)
	if err != nil {
		return BroadcastSpec{}, err
	}
	return BroadcastSpec{
		Title:       title,
		Description: description,
		Start:       e.StartTime,
		End:         e.EndTime,
		Privacy:     e.Facts.Visibility,
	}, nil
}

// PostText renders the title and content of the post of an event.
func (r *Renderer) PostText(e *Event) (title, content string, err error) {
	vars, err := r.Vars(e)
	if err != nil {
		return "", "", err
	}
	if title, err = Execute(r.postTitle, vars); err != nil {
		return "", "", err
	}
	if content, err = Execute(r.postContent, vars); err != nil {
		return "", "", err
	}
	return title, content, nil
}
