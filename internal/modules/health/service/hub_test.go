package service

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishToSubscriber(t *testing.T) {
	h := NewHub()
	ch, unsubscribe := h.Subscribe()
	defer unsubscribe()

	h.Publish(Event{Type: EventClose, NetPct: 0.6, Reason: "target"})

	data := <-ch
	var ev Event
	require.NoError(t, sonic.Unmarshal(data, &ev))
	assert.Equal(t, EventClose, ev.Type)
	assert.Equal(t, "target", ev.Reason)
}

func TestHub_SlowSubscriberDropped(t *testing.T) {
	h := NewHub()
	slow, _ := h.Subscribe()
	fast, unsubscribe := h.Subscribe()
	defer unsubscribe()

	for i := 0; i < subscriberBuffer+1; i++ {
		h.Publish(Event{Type: EventCycle})
		<-fast
	}

	assert.Equal(t, 1, h.Subscribers())
	n := 0
	for range slow {
		n++
	}
	assert.Equal(t, subscriberBuffer, n, "buffered events are still delivered before close")
}

func TestHub_UnsubscribeIdempotent(t *testing.T) {
	h := NewHub()
	_, unsubscribe := h.Subscribe()
	unsubscribe()
	unsubscribe()
	assert.Zero(t, h.Subscribers())
	h.Publish(Event{Type: EventCycle})
}
