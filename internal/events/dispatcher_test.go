package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestPublishInvokesEveryHandler(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	d := NewInMemoryDispatcher(zap.New(core))

	var seen []string
	d.Subscribe(EventGrievanceEscalated, func(_ context.Context, e Event) error {
		seen = append(seen, "first:"+e.GrievanceID)
		return errors.New("boom")
	})
	d.Subscribe(EventGrievanceEscalated, func(_ context.Context, e Event) error {
		seen = append(seen, "second:"+e.GrievanceID)
		return nil
	})
	d.Subscribe(EventGrievanceCreated, func(context.Context, Event) error {
		seen = append(seen, "unrelated")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventGrievanceEscalated, GrievanceID: "g1"})
	require.NoError(t, err)

	assert.Equal(t, []string{"first:g1", "second:g1"}, seen)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "event handler failed", logs.All()[0].Message)
}
