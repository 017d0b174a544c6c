package reconcile

import (
	"context"
	"fmt"

	"livestream-sync/core/event"
)

// BroadcastIndex is the pre-fetched active/upcoming broadcasts keyed by id.
type BroadcastIndex map[string]event.Broadcast

// NewBroadcastIndex indexes a broadcast list. The first occurrence of an id wins.
func NewBroadcastIndex(broadcasts []event.Broadcast) BroadcastIndex {
	idx := make(BroadcastIndex, len(broadcasts))
	for _, b := range broadcasts {
		if _, exists := idx[b.ID]; !exists {
			idx[b.ID] = b
		}
	}
	return idx
}

// LookupFunc fetches a single broadcast by id, nil if it does not exist.
type LookupFunc func(ctx context.Context, id string) (*event.Broadcast, error)

// MatchBroadcast returns the broadcast the event's stream link points at.
// An event without a parseable stream link has no broadcast. The index is
// searched first; on a miss one point lookup covers ended broadcasts.
// A lookup error is returned so the event fails instead of getting a
// duplicate broadcast.
func MatchBroadcast(ctx context.Context, ev *event.Event, index BroadcastIndex, lookup LookupFunc) (*event.Broadcast, error) {
	id, ok := ev.VideoID()
	if !ok {
		return nil, nil
	}

	if b, ok := index[id]; ok {
		return &b, nil
	}

	b, err := lookup(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lookup broadcast %s: %w", id, err)
	}
	return b, nil
}
