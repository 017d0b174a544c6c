package reconcile

import (
	"context"
	"errors"
	"testing"

	"livestream-sync/core/event"
	"livestream-sync/core/reconcile/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testFacts() event.FactsConfig {
	return event.FactsConfig{
		Behavior: event.BehaviorFact{
			Name: "Livestream", YesValue: "Ja", NoValue: "Nein", IgnoreValue: "Ignorieren", Default: "Nein",
		},
		Visibility: event.VisibilityFact{
			Name: "Sichtbarkeit", VisibleValue: "öffentlich", UnlistedValue: "nicht gelistet",
			PrivateValue: "privat", Default: "öffentlich",
		},
	}
}

type recordingObserver struct {
	started  []int
	finished []int
	failed   []int
}

func (o *recordingObserver) EventStarted(ev *event.Event) {
	o.started = append(o.started, ev.ID)
}

func (o *recordingObserver) EventFinished(ev *event.Event, outcome Outcome, err error) {
	o.finished = append(o.finished, ev.ID)
	if err != nil {
		o.failed = append(o.failed, ev.ID)
	}
}

func TestRunner_Run(t *testing.T) {
	f := newFixture(t, Options{})
	source := &mocks.EventSource{}
	ctx := context.Background()

	upToDateEvent := newEvent(event.BehaviorSuppress)
	upToDateEvent.ID = 1
	upToDateEvent.StreamLink = &event.ExternalLink{ID: 11, URL: "https://youtu.be/abc"}

	ignored := newEvent(event.BehaviorSuppress)
	ignored.ID = 2
	ignored.StreamLink = &event.ExternalLink{ID: 21, URL: "https://youtu.be/untouched"}

	failing := newEvent(event.BehaviorSuppress)
	failing.ID = 3
	failing.StreamLink = &event.ExternalLink{ID: 31, URL: "https://youtu.be/gone"}

	source.On("UpcomingEvents", ctx).Return([]*event.Event{upToDateEvent, ignored, failing}, nil)
	source.On("Facts", ctx, 1).Return(map[string]string{"Livestream": "Ja"}, nil)
	source.On("Facts", ctx, 2).Return(map[string]string{"Livestream": "Ignorieren"}, nil)
	source.On("Facts", ctx, 3).Return(map[string]string{"Livestream": "Ja"}, nil)

	f.platform.On("ListActiveAndUpcoming", ctx).Return([]event.Broadcast{*upToDate("abc", event.LifeCycleReady)}, nil)
	f.platform.On("Get", ctx, "gone").Return(nil, nil)
	f.calendar.On("DeleteLink", ctx, 31).Return(nil)
	f.platform.On("Create", ctx, mock.Anything).Return(event.Broadcast{}, errors.New("quota exceeded"))

	runner := NewRunner(source, f.platform, f.engine, testFacts(), nil)
	obs := &recordingObserver{}
	runner.Observe(obs)

	report, err := runner.Run(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEventsFailed))

	assert.Equal(t, Stats{Total: 3, Skipped: 1, Failed: 1}, report.Stats)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, 3, report.Failures[0].EventID)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, []int{1, 2, 3}, obs.started)
	assert.Equal(t, []int{3}, obs.failed)

	f.platform.AssertNotCalled(t, "Get", mock.Anything, "untouched")
	assert.Nil(t, ignored.Broadcast)
	require.NotNil(t, upToDateEvent.Broadcast)
	assert.Equal(t, "abc", upToDateEvent.Broadcast.ID)
}

func TestRunner_ConfigErrorAbortsBeforeMutation(t *testing.T) {
	f := newFixture(t, Options{})
	source := &mocks.EventSource{}
	ctx := context.Background()

	source.On("UpcomingEvents", ctx).Return([]*event.Event{newEvent(event.BehaviorSuppress)}, nil)
	source.On("Facts", ctx, 1).Return(map[string]string{"Sichtbarkeit": "geheim"}, nil)

	runner := NewRunner(source, f.platform, f.engine, testFacts(), nil)
	_, err := runner.Run(ctx)

	var cfgErr *event.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Empty(t, f.platform.Calls)
	assert.Empty(t, f.calendar.Calls)
}

func TestRunner_CategoryFilter(t *testing.T) {
	f := newFixture(t, Options{})
	source := &mocks.EventSource{}
	ctx := context.Background()

	a := newEvent(event.BehaviorSuppress)
	a.CategoryID = 30
	b := newEvent(event.BehaviorSuppress)
	b.ID = 2
	b.CategoryID = 12

	source.On("UpcomingEvents", ctx).Return([]*event.Event{a, b}, nil)
	source.On("Facts", ctx, 1).Return(map[string]string{}, nil)
	f.platform.On("ListActiveAndUpcoming", ctx).Return([]event.Broadcast{}, nil)

	runner := NewRunner(source, f.platform, f.engine, testFacts(), nil)
	runner.Categories = []int{30}

	report, err := runner.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Stats.Total)
	require.Len(t, report.Events, 1)
	assert.Equal(t, 30, report.Events[0].CategoryID)
	source.AssertNotCalled(t, "Facts", ctx, 2)
}

func TestRunner_FactsFailureFailsOnlyThatEvent(t *testing.T) {
	f := newFixture(t, Options{})
	source := &mocks.EventSource{}
	ctx := context.Background()

	quiet := newEvent(event.BehaviorSuppress)
	unreadable := newEvent(event.BehaviorSuppress)
	unreadable.ID = 2

	source.On("UpcomingEvents", ctx).Return([]*event.Event{quiet, unreadable}, nil)
	source.On("Facts", ctx, 1).Return(map[string]string{"Livestream": "Nein"}, nil)
	source.On("Facts", ctx, 2).Return(nil, errors.New("503 from churchtools"))
	f.platform.On("ListActiveAndUpcoming", ctx).Return([]event.Broadcast{}, nil)

	runner := NewRunner(source, f.platform, f.engine, testFacts(), nil)
	obs := &recordingObserver{}
	runner.Observe(obs)

	report, err := runner.Run(ctx)
	require.ErrorIs(t, err, ErrEventsFailed)

	assert.Equal(t, 2, report.Stats.Total)
	assert.Equal(t, 1, report.Stats.Failed)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, 2, report.Failures[0].EventID)
	assert.ErrorContains(t, report.Failures[0].Err, "503 from churchtools")
	assert.Equal(t, []int{1, 2}, obs.started)
	assert.Equal(t, []int{2}, obs.failed)
}
