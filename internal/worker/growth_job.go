package worker

import (
	"context"
	"fmt"

	"github.com/growallgarden/server/internal/logger"
	"github.com/growallgarden/server/internal/plot"
)

// GrowthJob advances growing crops to the stage their elapsed time implies.
// Scheduled at the growth tick interval.
type GrowthJob struct {
	plotSvc plot.Service
}

// NewGrowthJob creates a growth tick job
func NewGrowthJob(plotSvc plot.Service) *GrowthJob {
	return &GrowthJob{plotSvc: plotSvc}
}

// Process runs one growth tick
func (j *GrowthJob) Process(ctx context.Context) error {
	advanced, err := j.plotSvc.AdvanceGrowth(ctx)
	if err != nil {
		logger.FromContext(ctx).Error(LogMsgGrowthTickFailed, "error", err)
		return fmt.Errorf("growth tick: %w", err)
	}
	if advanced > 0 {
		logger.FromContext(ctx).Debug(LogMsgGrowthTickCompleted, "crops_advanced", advanced)
	}
	return nil
}
