package event

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcast_Apply(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	orig := Broadcast{ID: "abc", Title: "Old", Description: "desc", ScheduledStart: start, Privacy: VisibilityPrivate}

	title := "New"
	public := VisibilityPublic
	got := orig.Apply(BroadcastPatch{Title: &title, Privacy: &public})

	assert.Equal(t, "New", got.Title)
	assert.Equal(t, VisibilityPublic, got.Privacy)
	assert.Equal(t, "desc", got.Description)
	assert.Equal(t, start, got.ScheduledStart)
	assert.Equal(t, "Old", orig.Title, "original snapshot must not change")
}

func TestBroadcastPatch_Fields(t *testing.T) {
	assert.True(t, BroadcastPatch{}.IsEmpty())

	desc := "d"
	p := BroadcastPatch{Description: &desc}
	assert.False(t, p.IsEmpty())
	assert.Equal(t, []string{"description"}, p.Fields())
	assert.True(t, p.TouchesSnippet())

	v := VisibilityUnlisted
	assert.False(t, BroadcastPatch{Privacy: &v}.TouchesSnippet())
}

func TestBroadcast_Deletable(t *testing.T) {
	tests := []struct {
		lc   LifeCycle
		want bool
	}{
		{LifeCycleCreated, true},
		{LifeCycleReady, true},
		{LifeCycleTesting, false},
		{LifeCycleLive, false},
		{LifeCycleComplete, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.lc), func(t *testing.T) {
			assert.Equal(t, tt.want, Broadcast{LifeCycle: tt.lc}.Deletable())
		})
	}
}

func TestPost_Apply(t *testing.T) {
	orig := Post{ID: 3, Title: "a", Content: "b", CommentsActive: true}
	off := false
	content := "c"

	got := orig.Apply(PostPatch{Content: &content, CommentsActive: &off})
	assert.Equal(t, "a", got.Title)
	assert.Equal(t, "c", got.Content)
	assert.False(t, got.CommentsActive)
	assert.True(t, orig.CommentsActive)
	assert.Equal(t, []string{"content", "comments_active"}, PostPatch{Content: &content, CommentsActive: &off}.Fields())
}

func TestEvent_WantsStream(t *testing.T) {
	e := &Event{Facts: FactSet{Behavior: BehaviorCreate}}
	assert.True(t, e.WantsStream())

	e.Canceled = true
	assert.False(t, e.WantsStream())

	e = &Event{Facts: FactSet{Behavior: BehaviorIgnore}}
	assert.False(t, e.WantsStream())
	assert.True(t, e.Ignored())
}

func TestEvent_PostID(t *testing.T) {
	e := &Event{PostLink: &ExternalLink{URL: "https://example.church.tools/posts/123"}}
	id, err := e.PostID()
	require.NoError(t, err)
	assert.Equal(t, 123, id)

	e.PostLink.URL = "https://example.church.tools/posts/123/"
	id, err = e.PostID()
	require.NoError(t, err)
	assert.Equal(t, 123, id)

	e.PostLink.URL = "https://example.church.tools/posts/abc"
	_, err = e.PostID()
	var shapeErr *DataShapeError
	assert.True(t, errors.As(err, &shapeErr))

	_, err = (&Event{}).PostID()
	assert.Error(t, err)
}
