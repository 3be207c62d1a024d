package worker

// LogMsgWorkerJobFailed is logged when a worker fails to process a job
const LogMsgWorkerJobFailed = "Worker job failed"

// Log messages for the garden maintenance jobs
const (
	LogMsgGrowthTickCompleted = "Growth tick completed"
	LogMsgGrowthTickFailed    = "Growth tick failed"
	LogMsgRestockCompleted    = "Restock pass completed"
	LogMsgRestockFailed       = "Restock pass failed"
	LogMsgWeatherSweepFailed  = "Weather expiry sweep failed"
)
