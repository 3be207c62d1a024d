package worker

import (
	"context"
	"fmt"

	"github.com/growallgarden/server/internal/logger"
	"github.com/growallgarden/server/internal/shop"
)

// RestockJob refills overdue shop stock rows. The shop also restocks lazily
// on read; this job keeps the schedule honest while nobody is browsing.
type RestockJob struct {
	shopSvc shop.Service
}

// NewRestockJob creates a restock job
func NewRestockJob(shopSvc shop.Service) *RestockJob {
	return &RestockJob{shopSvc: shopSvc}
}

// Process runs one restock pass
func (j *RestockJob) Process(ctx context.Context) error {
	refilled, err := j.shopSvc.Restock(ctx)
	if err != nil {
		logger.FromContext(ctx).Error(LogMsgRestockFailed, "error", err)
		return fmt.Errorf("restock pass: %w", err)
	}
	if refilled > 0 {
		logger.FromContext(ctx).Debug(LogMsgRestockCompleted, "seeds_refilled", refilled)
	}
	return nil
}
