package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubjectFor(t *testing.T) {
	assert.Equal(t, "awaz.complaints.created", subjectFor(EventComplaintCreated))
	assert.Equal(t, "awaz.complaints.status_changed", subjectFor(EventComplaintStatusChanged))
}

func TestLocalEventBus_FansOutUntilCancelled(t *testing.T) {
	bus := NewEventBus(nil)
	first, cancelFirst, err := bus.Subscribe()
	require.NoError(t, err)
	second, cancelSecond, err := bus.Subscribe()
	require.NoError(t, err)
	defer cancelSecond()

	bus.Publish(context.Background(), Event{Type: EventComplaintHidden, ComplaintID: 1})
	for _, ch := range []<-chan Event{first, second} {
		event := nextEvent(t, ch)
		assert.Equal(t, EventComplaintHidden, event.Type)
		assert.False(t, event.At.IsZero())
	}

	cancelFirst()
	cancelFirst()
	bus.Publish(context.Background(), Event{Type: EventComplaintUnhidden, ComplaintID: 1})
	assert.Equal(t, EventComplaintUnhidden, nextEvent(t, second).Type)
	select {
	case event := <-first:
		t.Fatalf("cancelled subscriber received %s", event.Type)
	default:
	}
}

func TestLocalEventBus_DropsForSlowSubscriber(t *testing.T) {
	bus := NewEventBus(nil)
	ch, cancel, err := bus.Subscribe()
	require.NoError(t, err)
	defer cancel()

	for i := 0; i < 100; i++ {
		bus.Publish(context.Background(), Event{Type: EventComplaintCreated, ComplaintID: uint(i)})
	}
	assert.Equal(t, 64, len(ch))
}
