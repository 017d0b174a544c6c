package homepage

import (
	"net/url"
	"sort"
	"strings"
	"text/template"
	"time"

	"livestream-sync/core/event"
)

// Renderer projects the homepage events through the configured templates.
type Renderer struct {
	templates map[string]*template.Template
	lead      time.Duration
	parallel  bool
	layout    string
	location  *time.Location
}

// NewRenderer parses the templates of cfg. layout and location format the
// datetime variable.
func NewRenderer(cfg Config, layout string, location *time.Location) (*Renderer, error) {
	if location == nil {
		location = time.Local
	}
	r := &Renderer{
		templates: make(map[string]*template.Template, len(cfg.Templates)),
		lead:      time.Duration(cfg.LeadMinutes) * time.Minute,
		parallel:  cfg.ParallelDisplay,
		layout:    layout,
		location:  location,
	}
	for name, text := range cfg.Templates {
		t, err := event.ParseTemplate("homepage.templates."+name, text)
		if err != nil {
			return nil, err
		}
		r.templates[name] = t
	}
	return r, nil
}

// item is one advertised event.
type item struct {
	ev  *event.Event
	pre time.Time
}

// items selects the events shown on the homepage in start order and
// computes when each one starts being advertised. Without parallel
// display an event is not advertised before the previous one has ended.
func (r *Renderer) items(events []*event.Event) []item {
	var selected []*event.Event
	for _, ev := range events {
		if ev.Facts.ShowOnHomepage && ev.StreamLink != nil && !ev.Canceled {
			selected = append(selected, ev)
		}
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].StartTime.Before(selected[j].StartTime)
	})

	items := make([]item, 0, len(selected))
	for i, ev := range selected {
		pre := ev.StartTime.Add(-r.lead)
		if !r.parallel && i > 0 {
			if prevEnd := selected[i-1].EndTime; pre.Before(prevEnd) {
				pre = prevEnd
			}
		}
		items = append(items, item{ev: ev, pre: pre})
	}
	return items
}

func (r *Renderer) vars(it item) map[string]string {
	link := it.ev.StreamLink.URL
	return map[string]string{
		"title":             it.ev.Title,
		"pre_iso":           it.pre.In(r.location).Format(time.RFC3339),
		"start_iso":         it.ev.StartTime.In(r.location).Format(time.RFC3339),
		"end_iso":           it.ev.EndTime.In(r.location).Format(time.RFC3339),
		"datetime":          it.ev.StartTime.In(r.location).Format(r.layout),
		"video_link":        link,
		"video_link_quoted": url.QueryEscape(link),
	}
}

// Render renders the listing for every template. Blocks of the individual
// events are separated by newlines.
func (r *Renderer) Render(events []*event.Event) (map[string]string, error) {
	items := r.items(events)
	out := make(map[string]string, len(r.templates))
	for name, t := range r.templates {
		blocks := make([]string, 0, len(items))
		for _, it := range items {
			block, err := event.Execute(t, r.vars(it))
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, block)
		}
		out[name] = strings.Join(blocks, "\n")
	}
	return out, nil
}
