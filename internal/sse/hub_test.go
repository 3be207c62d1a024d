package sse

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForClientCount(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if hub.ClientCount() == want {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("client count never reached %d, got %d", want, hub.ClientCount())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func receiveEvent(t *testing.T, ch chan Event) Event {
	t.Helper()
	select {
	case evt := <-ch:
		return evt
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	a := hub.Register(nil)
	b := hub.Register(nil)
	waitForClientCount(t, hub, 2)

	hub.Broadcast("crop_planted", map[string]string{"crop_id": "crop-1"})

	evtA := receiveEvent(t, a.EventChannel)
	evtB := receiveEvent(t, b.EventChannel)

	assert.Equal(t, "crop_planted", evtA.Type)
	assert.Equal(t, "crop_planted", evtB.Type)
	assert.NotEmpty(t, evtA.ID)
	assert.NotZero(t, evtA.Timestamp)
}

func TestHub_FilterLimitsEventTypes(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	weatherOnly := hub.Register([]string{"weather_changed"})
	everything := hub.Register(nil)
	waitForClientCount(t, hub, 2)

	hub.Broadcast("crop_planted", nil)
	hub.Broadcast("weather_changed", nil)

	// The unfiltered client sees both, in order.
	assert.Equal(t, "crop_planted", receiveEvent(t, everything.EventChannel).Type)
	assert.Equal(t, "weather_changed", receiveEvent(t, everything.EventChannel).Type)

	// The filtered client only ever sees weather.
	evt := receiveEvent(t, weatherOnly.EventChannel)
	assert.Equal(t, "weather_changed", evt.Type)
	select {
	case extra := <-weatherOnly.EventChannel:
		t.Fatalf("filtered client received unexpected event %q", extra.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterClosesChannel(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	client := hub.Register(nil)
	waitForClientCount(t, hub, 1)

	hub.Unregister(client.ID)
	waitForClientCount(t, hub, 0)

	_, open := <-client.EventChannel
	assert.False(t, open)
}

func TestHub_StopClosesAllClientChannels(t *testing.T) {
	hub := NewHub()
	hub.Start()

	a := hub.Register(nil)
	b := hub.Register(nil)
	waitForClientCount(t, hub, 2)

	hub.Stop()

	_, openA := <-a.EventChannel
	_, openB := <-b.EventChannel
	assert.False(t, openA)
	assert.False(t, openB)
	assert.Zero(t, hub.ClientCount())
}

func TestHub_SlowClientDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	client := hub.Register(nil)
	waitForClientCount(t, hub, 1)

	// Overfill the client buffer; the hub must keep running.
	for i := 0; i < ClientEventBuffer+20; i++ {
		hub.Broadcast("crop_planted", nil)
	}

	hub.Broadcast("weather_changed", nil)
	waitForClientCount(t, hub, 1)

	drained := 0
	for {
		select {
		case <-client.EventChannel:
			drained++
		case <-time.After(100 * time.Millisecond):
			assert.LessOrEqual(t, drained, ClientEventBuffer+1)
			return
		}
	}
}

func TestFormatSSEMessage(t *testing.T) {
	evt := Event{
		ID:        "evt-1",
		Type:      "seed_purchased",
		Timestamp: 1700000000,
		Payload:   map[string]string{"seed_name": "Carrot"},
	}

	msg, err := FormatSSEMessage(evt)
	require.NoError(t, err)

	text := string(msg)
	assert.True(t, strings.HasPrefix(text, "id: evt-1\n"))
	assert.Contains(t, text, "event: seed_purchased\n")
	assert.True(t, strings.HasSuffix(text, "\n\n"))

	dataLine := ""
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "data: ") {
			dataLine = strings.TrimPrefix(line, "data: ")
		}
	}
	require.NotEmpty(t, dataLine)

	var decoded Event
	require.NoError(t, json.Unmarshal([]byte(dataLine), &decoded))
	assert.Equal(t, "seed_purchased", decoded.Type)
}
