package metrics

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Business metric names
const (
	MetricNameSeedsPurchased  = "seeds_purchased_total"
	MetricNameCropsPlanted    = "crops_planted_total"
	MetricNameCropsHarvested  = "crops_harvested_total"
	MetricNameWeatherTriggers = "weather_triggers_total"
	MetricNameShopRestocks    = "shop_restocks_total"
	MetricNameMoneyEarned     = "money_earned_total"
	MetricNameMoneySpent      = "money_spent_total"
)

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Business metric help text
const (
	HelpTextSeedsPurchased  = "Total number of seeds purchased from the shop"
	HelpTextCropsPlanted    = "Total number of crops planted"
	HelpTextCropsHarvested  = "Total number of crops harvested"
	HelpTextWeatherTriggers = "Total number of weather events triggered"
	HelpTextShopRestocks    = "Total number of shop restock passes"
	HelpTextMoneyEarned     = "Total sheckles earned from harvests"
	HelpTextMoneySpent      = "Total sheckles spent in the shop"
)

// Common label names used across metrics
const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelType    = "type"
	LabelSeed    = "seed"
	LabelWeather = "weather"
)

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// Debug log messages
const (
	LogMsgUnexpectedPayload = "Event payload has unexpected type"
	LogMsgMetricsRecorded   = "Metrics recorded for event"
)
