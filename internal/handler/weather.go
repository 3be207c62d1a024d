package handler

import (
	"fmt"
	"net/http"

	"github.com/growallgarden/server/internal/domain"
	"github.com/growallgarden/server/internal/logger"
	"github.com/growallgarden/server/internal/player"
	"github.com/growallgarden/server/internal/weather"
)

// TriggerWeatherRequest represents the request to start a weather event.
// The caller must be an admin.
type TriggerWeatherRequest struct {
	PlayerID    string `json:"player_id" validate:"required"`
	WeatherType string `json:"weather_type" validate:"required,weathertype"`
	Scope       string `json:"scope" validate:"omitempty,oneof=global local"`
	RoomID      string `json:"room_id" validate:"omitempty"`
}

// WeatherResponse represents the weather state returned to clients. Event is
// nil under clear skies.
type WeatherResponse struct {
	Active bool                 `json:"active"`
	Event  *domain.WeatherEvent `json:"event,omitempty"`
}

// WeatherHandler handles weather-related HTTP requests
type WeatherHandler struct {
	weatherSvc weather.Service
	playerSvc  player.Service
}

// NewWeatherHandler creates a new weather handler
func NewWeatherHandler(weatherSvc weather.Service, playerSvc player.Service) *WeatherHandler {
	return &WeatherHandler{
		weatherSvc: weatherSvc,
		playerSvc:  playerSvc,
	}
}

// Current handles the weather lookup endpoint
// @Summary Get current weather
// @Description Returns the active weather event, or clear skies if none is active
// @Tags weather
// @Produce json
// @Success 200 {object} WeatherResponse "Current weather state"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /weather [get]
func (h *WeatherHandler) Current(w http.ResponseWriter, r *http.Request) {
	evt, err := h.weatherSvc.Current(r.Context())
	if err != nil {
		respondServiceError(w, r, "Get weather", err)
		return
	}

	respondJSON(w, http.StatusOK, WeatherResponse{Active: evt != nil, Event: evt})
}

// Trigger handles the weather trigger endpoint
// @Summary Trigger a weather event
// @Description Starts a new weather event, replacing whatever was active; "Clear" ends the active event. Admin only.
// @Tags weather
// @Accept json
// @Produce json
// @Param request body TriggerWeatherRequest true "Trigger request"
// @Success 200 {object} WeatherResponse "New weather state"
// @Failure 400 {object} ErrorResponse "Unknown weather type"
// @Failure 403 {object} ErrorResponse "Caller is not an admin"
// @Failure 404 {object} ErrorResponse "Player not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /weather/trigger [post]
func (h *WeatherHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req TriggerWeatherRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Trigger weather"); err != nil {
		return
	}

	caller, err := h.playerSvc.Get(r.Context(), req.PlayerID)
	if err != nil {
		respondServiceError(w, r, "Trigger weather", err)
		return
	}
	if !caller.IsAdmin {
		respondServiceError(w, r, "Trigger weather",
			fmt.Errorf("%w: player %s", domain.ErrUnauthorized, caller.Username))
		return
	}

	log.Info("Weather trigger received", "weatherType", req.WeatherType, "scope", req.Scope, "playerID", req.PlayerID)

	evt, err := h.weatherSvc.Trigger(r.Context(), req.WeatherType, domain.WeatherScope(req.Scope), req.RoomID, true)
	if err != nil {
		respondServiceError(w, r, "Trigger weather", err)
		return
	}

	respondJSON(w, http.StatusOK, WeatherResponse{Active: evt != nil, Event: evt})
}
