package reconcile

import (
	"context"
	"io"

	"livestream-sync/core/event"
)

// EventSource loads the events of the reconciliation window.
type EventSource interface {
	// UpcomingEvents returns the events in fetch order with schedule,
	// descriptive fields and managed attachments populated. Facts are
	// interpreted by the caller.
	UpcomingEvents(ctx context.Context) ([]*event.Event, error)

	// Facts returns the raw fact name/value pairs of an event.
	Facts(ctx context.Context, eventID int) (map[string]string, error)
}

// Calendar is the write side of the calendar system used by the engine.
type Calendar interface {
	// AttachLink attaches a link attachment named name to the event.
	AttachLink(ctx context.Context, eventID int, name, url string) (*event.ExternalLink, error)
	// DeleteLink removes an attachment by id.
	DeleteLink(ctx context.Context, linkID int) error

	// CreatePost creates a post and returns its id.
	CreatePost(ctx context.Context, spec event.PostSpec) (int, error)
	// GetPost fetches the current state of a post.
	GetPost(ctx context.Context, postID int) (event.Post, error)
	// UpdatePost sends the fields set in patch.
	UpdatePost(ctx context.Context, postID int, patch event.PostPatch) error
	// DeletePost removes a post.
	DeletePost(ctx context.Context, postID int) error
	// PostURL is the URL stored in the post link attachment.
	PostURL(postID int) string
}

// BroadcastPlatform is the broadcast side used by the matcher and engine.
type BroadcastPlatform interface {
	// ListActiveAndUpcoming returns every broadcast that has not ended.
	ListActiveAndUpcoming(ctx context.Context) ([]event.Broadcast, error)
	// Get looks up a single broadcast in any lifecycle state. It returns
	// nil without error when the broadcast does not exist.
	Get(ctx context.Context, id string) (*event.Broadcast, error)

	// Create creates a broadcast with the given desired state.
	Create(ctx context.Context, spec event.BroadcastSpec) (event.Broadcast, error)
	// BindIngest binds the broadcast to an ingest stream.
	BindIngest(ctx context.Context, broadcastID, streamID string) error
	// Update sends the fields set in patch. current is the snapshot the
	// patch was computed against.
	Update(ctx context.Context, current event.Broadcast, patch event.BroadcastPatch) error
	// SetThumbnail uploads a thumbnail image.
	SetThumbnail(ctx context.Context, broadcastID string, image io.Reader) error
	// Delete removes a broadcast.
	Delete(ctx context.Context, id string) error
}

// ThumbnailCache remembers the thumbnail last applied per video id.
type ThumbnailCache interface {
	Get(videoID string) (string, bool)
	Set(videoID, uri string)
}

// ThumbnailLoader opens the image behind a thumbnail URI.
type ThumbnailLoader interface {
	Open(ctx context.Context, uri string) (io.ReadCloser, error)
}
