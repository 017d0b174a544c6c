package event

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Behavior expresses whether a stream should exist for an event.
type Behavior int

const (
	// BehaviorSuppress removes any stream and post for the event.
	BehaviorSuppress Behavior = iota
	// BehaviorCreate makes sure a stream exists and is up to date.
	BehaviorCreate
	// BehaviorIgnore leaves the event untouched.
	BehaviorIgnore
)

func (b Behavior) String() string {
	switch b {
	case BehaviorCreate:
		return "create"
	case BehaviorIgnore:
		return "ignore"
	default:
		return "suppress"
	}
}

// Visibility is the privacy status of a broadcast.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityUnlisted Visibility = "unlisted"
	VisibilityPrivate  Visibility = "private"
)

// FactSet is the typed intent derived from an event's raw facts.
type FactSet struct {
	Behavior              Behavior
	Visibility            Visibility
	IncludeLinkInCalendar bool
	ShowOnHomepage        bool
	CreatePost            bool
}

// LinkKind is the type of an attachment stored on a calendar event.
type LinkKind string

const (
	LinkKindLink LinkKind = "link"
	LinkKindFile LinkKind = "file"
)

// ExternalLink is an attachment stored by the calendar system.
type ExternalLink struct {
	ID          int
	Kind        LinkKind
	DisplayName string
	URL         string
}

// LifeCycle is the coarse remote state of a broadcast.
type LifeCycle string

const (
	LifeCycleCreated  LifeCycle = "created"
	LifeCycleReady    LifeCycle = "ready"
	LifeCycleTesting  LifeCycle = "testing"
	LifeCycleLive     LifeCycle = "live"
	LifeCycleComplete LifeCycle = "complete"
	LifeCycleRevoked  LifeCycle = "revoked"
)

// Broadcast is a snapshot of a remote broadcast.
type Broadcast struct {
	ID             string
	Title          string
	Description    string
	ScheduledStart time.Time
	ScheduledEnd   time.Time
	Privacy        Visibility
	LifeCycle      LifeCycle
}

// Deletable reports whether deleting the broadcast cannot truncate a
// recording, i.e. it never went past created/ready.
func (b Broadcast) Deletable() bool {
	return b.LifeCycle == LifeCycleCreated || b.LifeCycle == LifeCycleReady || b.LifeCycle == ""
}

// URL returns the canonical watch URL of the broadcast.
func (b Broadcast) URL() string {
	return StreamURL(b.ID)
}

// Apply returns a copy of b with every non-nil patch field set.
func (b Broadcast) Apply(p BroadcastPatch) Broadcast {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	if p.ScheduledStart != nil {
		b.ScheduledStart = *p.ScheduledStart
	}
	if p.ScheduledEnd != nil {
		b.ScheduledEnd = *p.ScheduledEnd
	}
	if p.Privacy != nil {
		b.Privacy = *p.Privacy
	}
	return b
}

// BroadcastSpec is the desired state of a broadcast.
type BroadcastSpec struct {
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	Privacy     Visibility
}

// BroadcastPatch carries the fields of a partial broadcast update.
type BroadcastPatch struct {
	Title          *string
	Description    *string
	ScheduledStart *time.Time
	ScheduledEnd   *time.Time
	Privacy        *Visibility
}

// IsEmpty reports whether the patch changes nothing.
func (p BroadcastPatch) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// Fields lists the names of the fields set in the patch.
func (p BroadcastPatch) Fields() []string {
	var fields []string
	if p.Title != nil {
		fields = append(fields, "title")
	}
	if p.Description != nil {
		fields = append(fields, "description")
	}
	if p.ScheduledStart != nil {
		fields = append(fields, "scheduled_start")
	}
	if p.ScheduledEnd != nil {
		fields = append(fields, "scheduled_end")
	}
	if p.Privacy != nil {
		fields = append(fields, "privacy")
	}
	return fields
}

// TouchesSnippet reports whether the patch changes snippet fields
// (everything except privacy).
func (p BroadcastPatch) TouchesSnippet() bool {
	return p.Title != nil || p.Description != nil || p.ScheduledStart != nil || p.ScheduledEnd != nil
}

// Post is a snapshot of a calendar-system post.
type Post struct {
	ID              int
	Title           string
	Content         string
	PublicationDate time.Time
	Visibility      string
	CommentsActive  bool
}

// Apply returns a copy of p with every non-nil patch field set.
func (p Post) Apply(patch PostPatch) Post {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	if patch.PublicationDate != nil {
		p.PublicationDate = *patch.PublicationDate
	}
	if patch.Visibility != nil {
		p.Visibility = *patch.Visibility
	}
	if patch.CommentsActive != nil {
		p.CommentsActive = *patch.CommentsActive
	}
	return p
}

// PostSpec is the desired state of a post.
type PostSpec struct {
	GroupID         int
	Title           string
	Content         string
	PublicationDate time.Time
	Visibility      string
	CommentsActive  bool
}

// PostPatch carries the fields of a partial post update.
type PostPatch struct {
	Title           *string
	Content         *string
	PublicationDate *time.Time
	Visibility      *string
	CommentsActive  *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p PostPatch) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// Fields lists the names of the fields set in the patch.
func (p PostPatch) Fields() []string {
	var fields []string
	if p.Title != nil {
		fields = append(fields, "title")
	}
	if p.Content != nil {
		fields = append(fields, "content")
	}
	if p.PublicationDate != nil {
		fields = append(fields, "publication_date")
	}
	if p.Visibility != nil {
		fields = append(fields, "visibility")
	}
	if p.CommentsActive != nil {
		fields = append(fields, "comments_active")
	}
	return fields
}

// Event is one calendar event together with its interpreted facts and the
// remote state attached during a run.
type Event struct {
	ID            int
	CategoryID    int
	AppointmentID int

	StartTime time.Time
	EndTime   time.Time

	Title    string
	Note     string
	Speaker  string
	Canceled bool

	Facts FactSet

	StreamLink        *ExternalLink
	PostLink          *ExternalLink
	ThumbnailOverride *ExternalLink

	Broadcast *Broadcast
}

// WantsStream reports whether a broadcast should exist for the event.
// Canceled events never want one.
func (e *Event) WantsStream() bool {
	return e.Facts.Behavior == BehaviorCreate && !e.Canceled
}

// Ignored reports whether the event must be left untouched.
func (e *Event) Ignored() bool {
	return e.Facts.Behavior == BehaviorIgnore
}

// VideoID extracts the broadcast id from the stream link, if any.
func (e *Event) VideoID() (string, bool) {
	if e.StreamLink == nil {
		return "", false
	}
	return VideoID(e.StreamLink.URL)
}

// PostID extracts the post id from the last path segment of the post link.
func (e *Event) PostID() (int, error) {
	if e.PostLink == nil {
		return 0, &DataShapeError{What: "post link", Value: "", Reason: "no post link attached"}
	}
	url := strings.TrimRight(e.PostLink.URL, "/")
	segment := url[strings.LastIndex(url, "/")+1:]
	id, err := strconv.Atoi(segment)
	if err != nil || id <= 0 {
		return 0, &DataShapeError{What: "post link", Value: e.PostLink.URL, Reason: "no numeric post id in last path segment"}
	}
	return id, nil
}

func (e *Event) String() string {
	return fmt.Sprintf("%q (%s)", e.Title, e.StartTime.Format("2006-01-02 15:04"))
}
