package youtube

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"livestream-sync/core/event"
	"livestream-sync/core/rest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

type apiCall struct {
	Method string
	Path   string
	Query  map[string][]string
	Body   map[string]any
}

// fakeAPI emulates the live broadcast endpoints.
type fakeAPI struct {
	*httptest.Server
	mu    sync.Mutex
	calls []apiCall
}

func broadcastJSON(id, title, lifeCycle string) map[string]any {
	return map[string]any{
		"id": id,
		"snippet": map[string]any{
			"title":              title,
			"description":        "desc",
			"scheduledStartTime": "2026-03-01T09:00:00Z",
			"scheduledEndTime":   "2026-03-01T10:30:00Z",
		},
		"status": map[string]any{"privacyStatus": "public", "lifeCycleStatus": lifeCycle},
	}
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := apiCall{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query()}
		if strings.Contains(r.Header.Get("Content-Type"), "json") {
			_ = json.NewDecoder(r.Body).Decode(&call.Body)
		} else {
			_, _ = io.Copy(io.Discard, r.Body)
		}
		f.mu.Lock()
		f.calls = append(f.calls, call)
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		q := r.URL.Query()
		write := func(v any) { _ = json.NewEncoder(w).Encode(v) }

		switch {
		case strings.HasSuffix(r.URL.Path, "/thumbnails/set"):
			write(map[string]any{"items": []any{}})
		case strings.HasSuffix(r.URL.Path, "/liveBroadcasts/bind"):
			write(broadcastJSON(q.Get("id"), "bound", "ready"))
		case strings.HasSuffix(r.URL.Path, "/liveBroadcasts"):
			switch r.Method {
			case http.MethodGet:
				switch {
				case q.Get("id") == "abcdefghijk":
					write(map[string]any{"items": []any{broadcastJSON("abcdefghijk", "Gottesdienst", "complete")}})
				case q.Get("id") != "":
					write(map[string]any{"items": []any{}})
				case q.Get("broadcastStatus") == "active":
					broken := broadcastJSON("broken00001", "Kaputt", "live")
					broken["snippet"].(map[string]any)["scheduledStartTime"] = "not-a-time"
					write(map[string]any{"items": []any{
						broadcastJSON("live0000001", "Live", "liveStarting"),
						broken,
					}})
				case q.Get("broadcastStatus") == "upcoming" && q.Get("pageToken") == "":
					write(map[string]any{
						"items":         []any{broadcastJSON("abcdefghijk", "Gottesdienst", "ready")},
						"nextPageToken": "p2",
					})
				case q.Get("broadcastStatus") == "upcoming":
					write(map[string]any{"items": []any{
						broadcastJSON("bcdefghijkl", "Andacht", "created"),
						broadcastJSON("live0000001", "Live", "live"),
					}})
				}
			case http.MethodPost:
				created := broadcastJSON("newbroadcas", "", "created")
				created["snippet"] = call.Body["snippet"]
				created["status"] = map[string]any{"privacyStatus": "unlisted", "lifeCycleStatus": "created"}
				write(created)
			case http.MethodPut:
				write(call.Body)
			case http.MethodDelete:
				if q.Get("id") == "gone0000000" {
					w.WriteHeader(http.StatusNotFound)
					write(map[string]any{"error": map[string]any{"code": 404, "message": "Broadcast not found"}})
					return
				}
				w.WriteHeader(http.StatusNoContent)
			}
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeAPI) last(method string) apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].Method == method {
			return f.calls[i]
		}
	}
	return apiCall{}
}

func parts(c apiCall) string {
	return strings.Join(c.Query["part"], ",")
}

func newTestClient(t *testing.T, f *fakeAPI) *Client {
	t.Helper()
	c, err := NewClient(context.Background(), Config{
		Endpoint: f.URL + "/",
		Broadcast: BroadcastSettings{
			EnableAutoStart:   true,
			EnableDvr:         true,
			LatencyPreference: "low",
		},
	}, nil, option.WithHTTPClient(f.Client()))
	require.NoError(t, err)
	return c
}

func TestClient_ListActiveAndUpcoming(t *testing.T) {
	f := newFakeAPI(t)
	c := newTestClient(t, f)

	got, err := c.ListActiveAndUpcoming(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3, "pages are followed and duplicates dropped")

	ids := []string{got[0].ID, got[1].ID, got[2].ID}
	assert.Equal(t, []string{"live0000001", "abcdefghijk", "bcdefghijkl"}, ids)
	assert.Equal(t, event.LifeCycleLive, got[0].LifeCycle)
	assert.Equal(t, event.LifeCycleReady, got[1].LifeCycle)
	assert.Equal(t, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), got[1].ScheduledStart)
	assert.Equal(t, event.VisibilityPublic, got[1].Privacy)
}

func TestClient_ListActiveAndUpcomingSkipsMalformedBroadcasts(t *testing.T) {
	f := newFakeAPI(t)
	c := newTestClient(t, f)

	got, err := c.ListActiveAndUpcoming(context.Background())
	require.NoError(t, err)
	for _, b := range got {
		assert.NotEqual(t, "broken00001", b.ID)
	}
	assert.Len(t, got, 3)
}

func TestToBroadcast_MalformedTime(t *testing.T) {
	_, err := toBroadcast(&youtube.LiveBroadcast{
		Id:      "broken00001",
		Snippet: &youtube.LiveBroadcastSnippet{ScheduledStartTime: "not-a-time"},
	})

	var shapeErr *event.DataShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.ErrorContains(t, err, "broken00001")
}

func TestClient_Get(t *testing.T) {
	f := newFakeAPI(t)
	c := newTestClient(t, f)

	b, err := c.Get(context.Background(), "abcdefghijk")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, event.LifeCycleComplete, b.LifeCycle)
	assert.False(t, b.Deletable())

	b, err = c.Get(context.Background(), "doesnotexst")
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestClient_Create(t *testing.T) {
	f := newFakeAPI(t)
	c := newTestClient(t, f)

	b, err := c.Create(context.Background(), event.BroadcastSpec{
		Title:   "Gottesdienst",
		Start:   time.Date(2026, 3, 1, 10, 0, 0, 0, time.FixedZone("CET", 3600)),
		Privacy: event.VisibilityUnlisted,
	})
	require.NoError(t, err)
	assert.Equal(t, "newbroadcas", b.ID)
	assert.Equal(t, "Gottesdienst", b.Title)
	assert.Equal(t, event.VisibilityUnlisted, b.Privacy)

	call := f.last(http.MethodPost)
	assert.Contains(t, parts(call), "contentDetails")
	snippet := call.Body["snippet"].(map[string]any)
	assert.Equal(t, "2026-03-01T09:00:00Z", snippet["scheduledStartTime"])
	assert.NotContains(t, snippet, "scheduledEndTime")
	details := call.Body["contentDetails"].(map[string]any)
	assert.Equal(t, true, details["enableAutoStart"])
	assert.Equal(t, false, details["enableAutoStop"], "false settings are sent explicitly")
	assert.Equal(t, "low", details["latencyPreference"])
	status := call.Body["status"].(map[string]any)
	assert.Equal(t, "unlisted", status["privacyStatus"])
	assert.Equal(t, false, status["selfDeclaredMadeForKids"])
}

func TestClient_BindIngest(t *testing.T) {
	f := newFakeAPI(t)
	c := newTestClient(t, f)

	require.NoError(t, c.BindIngest(context.Background(), "abcdefghijk", "stream-1"))
	call := f.last(http.MethodPost)
	assert.True(t, strings.HasSuffix(call.Path, "/liveBroadcasts/bind"))
	assert.Equal(t, []string{"abcdefghijk"}, call.Query["id"])
	assert.Equal(t, []string{"stream-1"}, call.Query["streamId"])
}

func TestClient_UpdateSendsOnlyTouchedParts(t *testing.T) {
	f := newFakeAPI(t)
	c := newTestClient(t, f)
	current := event.Broadcast{
		ID:             "abcdefghijk",
		Title:          "Alt",
		Description:    "desc",
		ScheduledStart: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		Privacy:        event.VisibilityPublic,
	}

	title := "Neu"
	require.NoError(t, c.Update(context.Background(), current, event.BroadcastPatch{Title: &title}))
	call := f.last(http.MethodPut)
	assert.Equal(t, "snippet", parts(call))
	snippet := call.Body["snippet"].(map[string]any)
	assert.Equal(t, "Neu", snippet["title"])
	assert.Equal(t, "desc", snippet["description"], "unchanged snippet fields are resent")
	assert.Equal(t, "2026-03-01T09:00:00Z", snippet["scheduledStartTime"])
	assert.NotContains(t, call.Body, "status")

	privacy := event.VisibilityPrivate
	require.NoError(t, c.Update(context.Background(), current, event.BroadcastPatch{Privacy: &privacy}))
	call = f.last(http.MethodPut)
	assert.Equal(t, "status", parts(call))
	assert.Equal(t, "private", call.Body["status"].(map[string]any)["privacyStatus"])

	f.mu.Lock()
	before := len(f.calls)
	f.mu.Unlock()
	require.NoError(t, c.Update(context.Background(), current, event.BroadcastPatch{}))
	f.mu.Lock()
	assert.Len(t, f.calls, before, "empty patch makes no call")
	f.mu.Unlock()
}

func TestClient_SetThumbnail(t *testing.T) {
	f := newFakeAPI(t)
	c := newTestClient(t, f)

	require.NoError(t, c.SetThumbnail(context.Background(), "abcdefghijk", strings.NewReader("\x89PNG fake")))
	call := f.last(http.MethodPost)
	assert.True(t, strings.HasSuffix(call.Path, "/thumbnails/set"))
	assert.Equal(t, []string{"abcdefghijk"}, call.Query["videoId"])
}

func TestClient_DeleteRemoteError(t *testing.T) {
	f := newFakeAPI(t)
	c := newTestClient(t, f)

	require.NoError(t, c.Delete(context.Background(), "abcdefghijk"))

	err := c.Delete(context.Background(), "gone0000000")
	var re *rest.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "youtube", re.System)
	assert.Equal(t, http.StatusNotFound, re.Status)
	assert.Equal(t, "Broadcast not found", re.Body)
	assert.True(t, rest.IsNotFound(err))
}

func TestLifeCycle(t *testing.T) {
	assert.Equal(t, event.LifeCycleTesting, lifeCycle("testStarting"))
	assert.Equal(t, event.LifeCycleLive, lifeCycle("liveStarting"))
	assert.Equal(t, event.LifeCycleRevoked, lifeCycle("revoked"))
}
