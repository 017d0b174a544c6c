package reconcile

import (
	"fmt"
	"strings"
)

// ActionType represents the type of a remote mutation.
type ActionType string

const (
	// ActionCreateBroadcast creates a broadcast.
	ActionCreateBroadcast ActionType = "create_broadcast"
	// ActionBindIngest binds a new broadcast to the ingest stream.
	ActionBindIngest ActionType = "bind_ingest"
	// ActionAttachStreamLink attaches the stream link to the event.
	ActionAttachStreamLink ActionType = "attach_stream_link"
	// ActionUpdateBroadcast sends a partial broadcast update.
	ActionUpdateBroadcast ActionType = "update_broadcast"
	// ActionSetThumbnail uploads a thumbnail.
	ActionSetThumbnail ActionType = "set_thumbnail"
	// ActionDeleteBroadcast deletes a broadcast.
	ActionDeleteBroadcast ActionType = "delete_broadcast"
	// ActionDeleteStreamLink removes the stream link from the event.
	ActionDeleteStreamLink ActionType = "delete_stream_link"
	// ActionCreatePost creates a post.
	ActionCreatePost ActionType = "create_post"
	// ActionAttachPostLink attaches the post link to the event.
	ActionAttachPostLink ActionType = "attach_post_link"
	// ActionUpdatePost sends a partial post update.
	ActionUpdatePost ActionType = "update_post"
	// ActionDeletePost deletes a post.
	ActionDeletePost ActionType = "delete_post"
	// ActionDeletePostLink removes the post link from the event.
	ActionDeletePostLink ActionType = "delete_post_link"
)

// Kind groups action types into create, update and delete.
func (t ActionType) Kind() string {
	s := string(t)
	switch {
	case strings.HasPrefix(s, "create_"), strings.HasPrefix(s, "attach_"), t == ActionBindIngest:
		return "create"
	case strings.HasPrefix(s, "delete_"):
		return "delete"
	default:
		return "update"
	}
}

// Action is one remote mutation taken (or, in a dry run, planned) for an event.
type Action struct {
	// Type specifies the mutation.
	Type ActionType `json:"type"`
	// Target is the remote id the action applies to, if known.
	Target string `json:"target,omitempty"`
	// Fields lists the fields sent by update actions.
	Fields []string `json:"fields,omitempty"`
	// Reason explains why the action is needed.
	Reason string `json:"reason,omitempty"`
}

func (a Action) String() string {
	s := string(a.Type)
	if a.Target != "" {
		s += " " + a.Target
	}
	if len(a.Fields) > 0 {
		s += " [" + strings.Join(a.Fields, ",") + "]"
	}
	return s
}

// Outcome is the result of reconciling one event.
type Outcome struct {
	EventID int      `json:"event_id"`
	Title   string   `json:"title"`
	Skipped bool     `json:"skipped"`
	Actions []Action `json:"actions"`
}

func (o *Outcome) record(a Action) {
	o.Actions = append(o.Actions, a)
}

// Has reports whether any action of the given kind was taken.
func (o Outcome) Has(kind string) bool {
	for _, a := range o.Actions {
		if a.Type.Kind() == kind {
			return true
		}
	}
	return false
}

// Result classifies the outcome for the run statistics.
func (o Outcome) Result() string {
	switch {
	case o.Skipped:
		return "skipped"
	case o.Has("create"):
		return "new"
	case o.Has("update"):
		return "updated"
	case o.Has("delete"):
		return "deleted"
	default:
		return "unchanged"
	}
}

// Stats provides aggregate counts for a run.
type Stats struct {
	// Total is the number of events considered.
	Total int `json:"total"`
	// New counts events for which something was created.
	New int `json:"new"`
	// Updated counts events with at least one update and no creation.
	Updated int `json:"updated"`
	// Deleted counts events whose only changes were deletions.
	Deleted int `json:"deleted"`
	// Skipped counts ignored events.
	Skipped int `json:"skipped"`
	// Failed counts events whose reconciliation returned an error.
	Failed int `json:"failed"`
}

// Observe counts an outcome. err is the reconciliation error, if any.
func (s *Stats) Observe(o Outcome, err error) {
	s.Total++
	if err != nil {
		s.Failed++
		return
	}
	switch o.Result() {
	case "skipped":
		s.Skipped++
	case "new":
		s.New++
	case "updated":
		s.Updated++
	case "deleted":
		s.Deleted++
	}
}

func (s Stats) String() string {
	return fmt.Sprintf("%d events: %d new, %d updated, %d deleted, %d skipped, %d failed",
		s.Total, s.New, s.Updated, s.Deleted, s.Skipped, s.Failed)
}
