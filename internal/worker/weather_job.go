package worker

import (
	"context"
	"fmt"

	"github.com/growallgarden/server/internal/logger"
	"github.com/growallgarden/server/internal/weather"
)

// WeatherSweepJob forces the lazy weather expiry check so an expired event is
// deactivated promptly even when nobody reads the weather endpoint.
type WeatherSweepJob struct {
	weatherSvc weather.Service
}

// NewWeatherSweepJob creates a weather expiry sweep job
func NewWeatherSweepJob(weatherSvc weather.Service) *WeatherSweepJob {
	return &WeatherSweepJob{weatherSvc: weatherSvc}
}

// Process runs one expiry sweep
func (j *WeatherSweepJob) Process(ctx context.Context) error {
	if _, err := j.weatherSvc.Current(ctx); err != nil {
		logger.FromContext(ctx).Error(LogMsgWeatherSweepFailed, "error", err)
		return fmt.Errorf("weather sweep: %w", err)
	}
	return nil
}
