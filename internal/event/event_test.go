package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growallgarden/server/internal/domain"
)

func TestMemoryBus_PublishDelivers(t *testing.T) {
	// Arrange
	bus := NewMemoryBus()
	var received []Event
	bus.Subscribe(CropHarvested, func(_ context.Context, e Event) error {
		received = append(received, e)
		return nil
	})

	// Act
	err := bus.Publish(context.Background(), NewCropHarvestedEvent("p1", "c1", "Carrot", 5, nil, false))

	// Assert
	require.NoError(t, err)
	require.Len(t, received, 1)
	payload, ok := received[0].Payload.(domain.CropHarvestedPayload)
	require.True(t, ok)
	assert.Equal(t, "p1", payload.PlayerID)
	assert.Equal(t, 5, payload.MoneyGained)
}

func TestMemoryBus_PublishNoSubscribers(t *testing.T) {
	bus := NewMemoryBus()

	err := bus.Publish(context.Background(), NewStockRestockedEvent(3, time.Now()))

	assert.NoError(t, err)
}

func TestMemoryBus_HandlerErrorsAggregate(t *testing.T) {
	// Arrange
	bus := NewMemoryBus()
	calls := 0
	bus.Subscribe(WeatherChanged, func(_ context.Context, _ Event) error {
		calls++
		return errors.New("boom")
	})
	bus.Subscribe(WeatherChanged, func(_ context.Context, _ Event) error {
		calls++
		return nil
	})

	// Act
	err := bus.Publish(context.Background(), NewWeatherChangedEvent("Rain", "global", "", time.Now().Add(5*time.Minute)))

	// Assert: every handler still runs, failure is reported
	assert.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestNewWeatherChangedEvent_ClearHasNoExpiry(t *testing.T) {
	e := NewWeatherChangedEvent(domain.WeatherClear, "global", "", time.Time{})

	payload, ok := e.Payload.(domain.WeatherChangedPayload)
	require.True(t, ok)
	assert.Zero(t, payload.EndsAt)
}
