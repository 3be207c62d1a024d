package domain

import "time"

// WeatherScope bounds which crops a weather event mutates.
type WeatherScope string

const (
	// ScopeGlobal applies the event to every planted crop.
	ScopeGlobal WeatherScope = "global"
	// ScopeLocal applies the event to crops of players in one room.
	ScopeLocal WeatherScope = "local"
)

// WeatherClear is the sentinel type that ends the active event without
// creating a new one.
const WeatherClear = "Clear"

// DefaultWeatherDurationSeconds is how long a triggered event lasts.
const DefaultWeatherDurationSeconds = 300

// WeatherEvent is a shared weather phenomenon. At most one event is active
// system-wide; expiry is derived from started_at+duration at read time rather
// than flipped by a background timer.
type WeatherEvent struct {
	ID               string       `json:"id"`
	WeatherType      string       `json:"weather_type"`
	Scope            WeatherScope `json:"scope"`
	RoomID           string       `json:"room_id,omitempty"`
	StartedAt        time.Time    `json:"started_at"`
	DurationSeconds  int          `json:"duration_seconds"`
	Active           bool         `json:"active"`
	TriggeredByAdmin bool         `json:"triggered_by_admin"`
}

// EndsAt returns the instant the event naturally expires.
func (e *WeatherEvent) EndsAt() time.Time {
	return e.StartedAt.Add(time.Duration(e.DurationSeconds) * time.Second)
}

// Expired reports whether the event has naturally ended as of now.
func (e *WeatherEvent) Expired(now time.Time) bool {
	return !now.Before(e.EndsAt())
}
