package youtube

import (
	"errors"
	"fmt"
	"time"

	"livestream-sync/core/event"
	"livestream-sync/core/rest"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/youtube/v3"
)

func toBroadcast(lb *youtube.LiveBroadcast) (event.Broadcast, error) {
	b := event.Broadcast{ID: lb.Id}
	if s := lb.Snippet; s != nil {
		b.Title = s.Title
		b.Description = s.Description
		var err error
		if b.ScheduledStart, err = parseTime("scheduledStartTime", s.ScheduledStartTime); err != nil {
			return event.Broadcast{}, fmt.Errorf("broadcast %s: %w", lb.Id, err)
		}
		if b.ScheduledEnd, err = parseTime("scheduledEndTime", s.ScheduledEndTime); err != nil {
			return event.Broadcast{}, fmt.Errorf("broadcast %s: %w", lb.Id, err)
		}
	}
	if st := lb.Status; st != nil {
		b.Privacy = event.Visibility(st.PrivacyStatus)
		b.LifeCycle = lifeCycle(st.LifeCycleStatus)
	}
	return b, nil
}

func parseTime(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, &event.DataShapeError{What: field, Value: value, Reason: "not an RFC 3339 timestamp"}
	}
	return t, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// lifeCycle folds the transitional states into the state they lead to.
func lifeCycle(status string) event.LifeCycle {
	switch status {
	case "testStarting":
		return event.LifeCycleTesting
	case "liveStarting":
		return event.LifeCycleLive
	default:
		return event.LifeCycle(status)
	}
}

func snippet(title, description string, start, end time.Time) *youtube.LiveBroadcastSnippet {
	return &youtube.LiveBroadcastSnippet{
		Title:              title,
		Description:        description,
		ScheduledStartTime: formatTime(start),
		ScheduledEndTime:   formatTime(end),
		// an emptied description has to be sent explicitly
		ForceSendFields: []string{"Description"},
	}
}

func (s BroadcastSettings) contentDetails() *youtube.LiveBroadcastContentDetails {
	return &youtube.LiveBroadcastContentDetails{
		EnableAutoStart:   s.EnableAutoStart,
		EnableAutoStop:    s.EnableAutoStop,
		EnableDvr:         s.EnableDvr,
		RecordFromStart:   s.RecordFromStart,
		LatencyPreference: s.LatencyPreference,
		ForceSendFields:   []string{"EnableAutoStart", "EnableAutoStop", "EnableDvr", "RecordFromStart"},
	}
}

func (s BroadcastSettings) status(privacy event.Visibility) *youtube.LiveBroadcastStatus {
	return &youtube.LiveBroadcastStatus{
		PrivacyStatus:           string(privacy),
		SelfDeclaredMadeForKids: s.MadeForKids,
		ForceSendFields:         []string{"SelfDeclaredMadeForKids"},
	}
}

// remoteError converts an API failure into a RemoteError.
func remoteError(method, endpoint string, err error) error {
	re := &rest.RemoteError{System: "youtube", Method: method, Endpoint: endpoint, Err: err}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		re.Status = gerr.Code
		re.Body = gerr.Message
		if re.Body == "" {
			re.Body = gerr.Body
		}
	}
	return re
}
