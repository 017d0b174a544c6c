package mocks

import (
	"context"
	"io"

	"livestream-sync/core/event"

	"github.com/stretchr/testify/mock"
)

// EventSource is a mock implementation of reconcile.EventSource
type EventSource struct {
	mock.Mock
}

func (m *EventSource) UpcomingEvents(ctx context.Context) ([]*event.Event, error) {
	args := m.Called(ctx)
	if evs, ok := args.Get(0).([]*event.Event); ok {
		return evs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *EventSource) Facts(ctx context.Context, eventID int) (map[string]string, error) {
	args := m.Called(ctx, eventID)
	if facts, ok := args.Get(0).(map[string]string); ok {
		return facts, args.Error(1)
	}
	return nil, args.Error(1)
}

// Calendar is a mock implementation of reconcile.Calendar
type Calendar struct {
	mock.Mock
}

func (m *Calendar) AttachLink(ctx context.Context, eventID int, name, url string) (*event.ExternalLink, error) {
	args := m.Called(ctx, eventID, name, url)
	if link, ok := args.Get(0).(*event.ExternalLink); ok {
		return link, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Calendar) DeleteLink(ctx context.Context, linkID int) error {
	args := m.Called(ctx, linkID)
	return args.Error(0)
}

func (m *Calendar) CreatePost(ctx context.Context, spec event.PostSpec) (int, error) {
	args := m.Called(ctx, spec)
	return args.Int(0), args.Error(1)
}

func (m *Calendar) GetPost(ctx context.Context, postID int) (event.Post, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).(event.Post), args.Error(1)
}

func (m *Calendar) UpdatePost(ctx context.Context, postID int, patch event.PostPatch) error {
	args := m.Called(ctx, postID, patch)
	return args.Error(0)
}

func (m *Calendar) DeletePost(ctx context.Context, postID int) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}

func (m *Calendar) PostURL(postID int) string {
	args := m.Called(postID)
	return args.String(0)
}

// BroadcastPlatform is a mock implementation of reconcile.BroadcastPlatform
type BroadcastPlatform struct {
	mock.Mock
}

func (m *BroadcastPlatform) ListActiveAndUpcoming(ctx context.Context) ([]event.Broadcast, error) {
	args := m.Called(ctx)
	if bs, ok := args.Get(0).([]event.Broadcast); ok {
		return bs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *BroadcastPlatform) Get(ctx context.Context, id string) (*event.Broadcast, error) {
	args := m.Called(ctx, id)
	if b, ok := args.Get(0).(*event.Broadcast); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *BroadcastPlatform) Create(ctx context.Context, spec event.BroadcastSpec) (event.Broadcast, error) {
	args := m.Called(ctx, spec)
	return args.Get(0).(event.Broadcast), args.Error(1)
}

func (m *BroadcastPlatform) BindIngest(ctx context.Context, broadcastID, streamID string) error {
	args := m.Called(ctx, broadcastID, streamID)
	return args.Error(0)
}

func (m *BroadcastPlatform) Update(ctx context.Context, current event.Broadcast, patch event.BroadcastPatch) error {
	args := m.Called(ctx, current, patch)
	return args.Error(0)
}

func (m *BroadcastPlatform) SetThumbnail(ctx context.Context, broadcastID string, image io.Reader) error {
	args := m.Called(ctx, broadcastID, image)
	return args.Error(0)
}

func (m *BroadcastPlatform) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ThumbnailLoader is a mock implementation of reconcile.ThumbnailLoader
type ThumbnailLoader struct {
	mock.Mock
}

func (m *ThumbnailLoader) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	args := m.Called(ctx, uri)
	if rc, ok := args.Get(0).(io.ReadCloser); ok {
		return rc, args.Error(1)
	}
	return nil, args.Error(1)
}
