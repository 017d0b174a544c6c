package reconcile

import (
	"time"

	"livestream-sync/core/event"
)

// DiffBroadcast returns the fields of desired that differ from current.
// Times are compared at second precision since the platform drops sub-seconds.
func DiffBroadcast(current event.Broadcast, desired event.BroadcastSpec) event.BroadcastPatch {
	var p event.BroadcastPatch
	if current.Title != desired.Title {
		p.Title = &desired.Title
	}
	if current.Description != desired.Description {
		p.Description = &desired.Description
	}
	if !sameSecond(current.ScheduledStart, desired.Start) {
		p.ScheduledStart = &desired.Start
	}
	if !desired.End.IsZero() && !sameSecond(current.ScheduledEnd, desired.End) {
		p.ScheduledEnd = &desired.End
	}
	if current.Privacy != desired.Privacy {
		p.Privacy = &desired.Privacy
	}
	return p
}

// DiffPost returns the fields of desired that differ from current.
func DiffPost(current event.Post, desired event.PostSpec) event.PostPatch {
	var p event.PostPatch
	if current.Title != desired.Title {
		p.Title = &desired.Title
	}
	if current.Content != desired.Content {
		p.Content = &desired.Content
	}
	if !sameSecond(current.PublicationDate, desired.PublicationDate) {
		p.PublicationDate = &desired.PublicationDate
	}
	if current.Visibility != desired.Visibility {
		p.Visibility = &desired.Visibility
	}
	if current.CommentsActive != desired.CommentsActive {
		p.CommentsActive = &desired.CommentsActive
	}
	return p
}

func sameSecond(a, b time.Time) bool {
	return a.Truncate(time.Second).Equal(b.Truncate(time.Second))
}
