package plot

import (
	"time"

	"github.com/growallgarden/server/internal/domain"
)

// Ready reports whether a crop can be harvested at now. Readiness is derived
// from the clock and the persisted growth stage, never stored: a crop is ready
// once its full growth time has elapsed since planting and the growth tick has
// advanced it to its final stage.
func Ready(c *domain.Crop, growthTimeSeconds int, now time.Time) bool {
	elapsed := now.Sub(c.PlantedAt)
	return elapsed >= time.Duration(growthTimeSeconds)*time.Second &&
		c.GrowthStage >= c.MaxGrowthStage
}

// ReadyAt returns the earliest instant the crop can become ready.
func ReadyAt(c *domain.Crop, growthTimeSeconds int) time.Time {
	return c.PlantedAt.Add(time.Duration(growthTimeSeconds) * time.Second)
}

// StageForElapsed maps time since planting onto a growth stage. Stages advance
// linearly across the growth time and clamp at maxStage.
func StageForElapsed(elapsed time.Duration, growthTimeSeconds, maxStage int) int {
	if growthTimeSeconds <= 0 {
		return maxStage
	}
	growth := time.Duration(growthTimeSeconds) * time.Second
	if elapsed >= growth {
		return maxStage
	}
	if elapsed < 0 {
		return 0
	}
	stage := int(int64(elapsed) * int64(maxStage) / int64(growth))
	return stage
}
