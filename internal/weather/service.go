package weather

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/growallgarden/server/internal/catalog"
	"github.com/growallgarden/server/internal/domain"
	"github.com/growallgarden/server/internal/event"
	"github.com/growallgarden/server/internal/logger"
	"github.com/growallgarden/server/internal/repository"
)

// Service defines the weather engine business logic. At most one weather
// event is active at a time; a new trigger replaces the current one.
type Service interface {
	// Current returns the active event, or nil under clear skies. Expired
	// events are deactivated lazily on read.
	Current(ctx context.Context) (*domain.WeatherEvent, error)

	// Trigger starts a new weather event, ending whatever was active.
	// Triggering "Clear" ends the active event without starting one and
	// returns a nil event.
	Trigger(ctx context.Context, weatherType string, scope domain.WeatherScope, roomID string, byAdmin bool) (*domain.WeatherEvent, error)
}

type service struct {
	weatherRepo repository.Weather
	bus         event.Bus
	duration    time.Duration
	now         func() time.Time

	// serializes trigger transitions so deactivate+create never interleave
	mu sync.Mutex
}

// NewService creates a new weather service
func NewService(weatherRepo repository.Weather, bus event.Bus, duration time.Duration) Service {
	return &service{
		weatherRepo: weatherRepo,
		bus:         bus,
		duration:    duration,
		now:         time.Now,
	}
}

func (s *service) Current(ctx context.Context) (*domain.WeatherEvent, error) {
	active, err := s.weatherRepo.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get active weather: %w", err)
	}
	if active == nil {
		return nil, nil
	}

	if active.Expired(s.now()) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, err := s.weatherRepo.DeactivateAll(ctx); err != nil {
			return nil, fmt.Errorf("failed to deactivate expired weather: %w", err)
		}
		logger.FromContext(ctx).Info("Weather expired", "weatherType", active.WeatherType)
		return nil, nil
	}
	return active, nil
}

func (s *service) Trigger(ctx context.Context, weatherType string, scope domain.WeatherScope, roomID string, byAdmin bool) (*domain.WeatherEvent, error) {
	log := logger.FromContext(ctx)

	normalized, ok := catalog.NormalizeWeather(weatherType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownWeather, weatherType)
	}
	if scope == "" {
		scope = domain.ScopeGlobal
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.weatherRepo.DeactivateAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to deactivate weather: %w", err)
	}

	if normalized == domain.WeatherClear {
		log.Info("Weather cleared", "byAdmin", byAdmin)
		if err := s.bus.Publish(ctx, event.NewWeatherChangedEvent(domain.WeatherClear, string(scope), roomID, time.Time{})); err != nil {
			log.Warn("Failed to publish weather event", "error", err)
		}
		return nil, nil
	}

	evt := &domain.WeatherEvent{
		ID:               uuid.New().String(),
		WeatherType:      normalized,
		Scope:            scope,
		RoomID:           roomID,
		StartedAt:        s.now(),
		DurationSeconds:  int(s.duration.Seconds()),
		Active:           true,
		TriggeredByAdmin: byAdmin,
	}
	if err := s.weatherRepo.Create(ctx, evt); err != nil {
		return nil, fmt.Errorf("failed to create weather event: %w", err)
	}

	log.Info("Weather triggered", "weatherType", normalized, "scope", scope, "endsAt", evt.EndsAt(), "byAdmin", byAdmin)
	if err := s.bus.Publish(ctx, event.NewWeatherChangedEvent(normalized, string(scope), roomID, evt.EndsAt())); err != nil {
		log.Warn("Failed to publish weather event", "error", err)
	}
	return evt, nil
}
