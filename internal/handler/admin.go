package handler

import (
	"fmt"
	"net/http"

	"github.com/growallgarden/server/internal/admin"
	"github.com/growallgarden/server/internal/logger"
)

// Admin command request types. Every command carries the caller's player ID;
// the service rejects callers without the admin flag.

// GiveSeedsRequest credits seeds to a player by username and seed name
type GiveSeedsRequest struct {
	AdminID  string `json:"admin_id" validate:"required"`
	Username string `json:"username" validate:"required,max=50"`
	SeedName string `json:"seed_name" validate:"required,max=100"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

// GiveShecklesRequest adjusts a player's balance by a delta
type GiveShecklesRequest struct {
	AdminID  string `json:"admin_id" validate:"required"`
	Username string `json:"username" validate:"required,max=50"`
	Amount   int    `json:"amount" validate:"required"`
}

// ResetBalanceRequest puts a player back on the starting balance
type ResetBalanceRequest struct {
	AdminID  string `json:"admin_id" validate:"required"`
	Username string `json:"username" validate:"required,max=50"`
}

// SetWeatherRequest force-triggers a weather event
type SetWeatherRequest struct {
	AdminID     string `json:"admin_id" validate:"required"`
	WeatherType string `json:"weather_type" validate:"required,weathertype"`
}

// ClearPlantsRequest removes every crop a player has planted
type ClearPlantsRequest struct {
	AdminID  string `json:"admin_id" validate:"required"`
	Username string `json:"username" validate:"required,max=50"`
}

// RestockShopRequest refills every shop row to max
type RestockShopRequest struct {
	AdminID string `json:"admin_id" validate:"required"`
}

// MutatePlantRequest stamps a mutation onto a crop
type MutatePlantRequest struct {
	AdminID  string `json:"admin_id" validate:"required"`
	CropID   string `json:"crop_id" validate:"required"`
	Mutation string `json:"mutation" validate:"required,max=50"`
}

// CountResponse reports how many entities an admin command affected
type CountResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// AdminHandler handles admin command HTTP requests
type AdminHandler struct {
	adminSvc admin.Service
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminSvc admin.Service) *AdminHandler {
	return &AdminHandler{
		adminSvc: adminSvc,
	}
}

// GiveSeeds handles the seed grant command
// @Summary Give seeds to a player
// @Description Credits seeds to a player's inventory by username and seed name
// @Tags admin
// @Accept json
// @Produce json
// @Param request body GiveSeedsRequest true "Grant request"
// @Success 200 {object} SuccessResponse "Seeds granted"
// @Failure 403 {object} ErrorResponse "Caller is not an admin"
// @Failure 404 {object} ErrorResponse "Player or seed not found"
// @Router /admin/give-seeds [post]
func (h *AdminHandler) GiveSeeds(w http.ResponseWriter, r *http.Request) {
	var req GiveSeedsRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Give seeds"); err != nil {
		return
	}

	if err := h.adminSvc.GiveSeeds(r.Context(), req.AdminID, req.Username, req.SeedName, req.Quantity); err != nil {
		respondServiceError(w, r, "Give seeds", err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{
		Message: fmt.Sprintf("Gave %d %s seeds to %s", req.Quantity, req.SeedName, req.Username),
	})
}

// GiveSheckles handles the balance adjustment command
// @Summary Give sheckles to a player
// @Description Adjusts a player's balance by the given amount, which may be negative
// @Tags admin
// @Accept json
// @Produce json
// @Param request body GiveShecklesRequest true "Adjustment request"
// @Success 200 {object} SuccessResponse "Balance adjusted"
// @Failure 400 {object} ErrorResponse "Adjustment would make the balance negative"
// @Failure 403 {object} ErrorResponse "Caller is not an admin"
// @Router /admin/give-sheckles [post]
func (h *AdminHandler) GiveSheckles(w http.ResponseWriter, r *http.Request) {
	var req GiveShecklesRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Give sheckles"); err != nil {
		return
	}

	if err := h.adminSvc.GiveSheckles(r.Context(), req.AdminID, req.Username, req.Amount); err != nil {
		respondServiceError(w, r, "Give sheckles", err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{
		Message: fmt.Sprintf("Adjusted %s's balance by %d", req.Username, req.Amount),
	})
}

// ResetBalance handles the balance reset command
// @Summary Reset a player's balance
// @Description Puts a player back on the starting balance
// @Tags admin
// @Accept json
// @Produce json
// @Param request body ResetBalanceRequest true "Reset request"
// @Success 200 {object} SuccessResponse "Balance reset"
// @Failure 403 {object} ErrorResponse "Caller is not an admin"
// @Router /admin/reset-balance [post]
func (h *AdminHandler) ResetBalance(w http.ResponseWriter, r *http.Request) {
	var req ResetBalanceRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Reset balance"); err != nil {
		return
	}

	if err := h.adminSvc.ResetBalance(r.Context(), req.AdminID, req.Username); err != nil {
		respondServiceError(w, r, "Reset balance", err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{
		Message: fmt.Sprintf("Reset %s's balance", req.Username),
	})
}

// SetWeather handles the forced weather command
// @Summary Force a weather event
// @Description Triggers a weather event regardless of schedule; "Clear" ends the active event
// @Tags admin
// @Accept json
// @Produce json
// @Param request body SetWeatherRequest true "Weather request"
// @Success 200 {object} WeatherResponse "New weather state"
// @Failure 400 {object} ErrorResponse "Unknown weather type"
// @Failure 403 {object} ErrorResponse "Caller is not an admin"
// @Router /admin/set-weather [post]
func (h *AdminHandler) SetWeather(w http.ResponseWriter, r *http.Request) {
	var req SetWeatherRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Set weather"); err != nil {
		return
	}

	evt, err := h.adminSvc.SetWeather(r.Context(), req.AdminID, req.WeatherType)
	if err != nil {
		respondServiceError(w, r, "Set weather", err)
		return
	}

	respondJSON(w, http.StatusOK, WeatherResponse{Active: evt != nil, Event: evt})
}

// ClearPlants handles the plant clearing command
// @Summary Clear a player's plants
// @Description Removes every crop a player has planted
// @Tags admin
// @Accept json
// @Produce json
// @Param request body ClearPlantsRequest true "Clear request"
// @Success 200 {object} CountResponse "Crops removed"
// @Failure 403 {object} ErrorResponse "Caller is not an admin"
// @Router /admin/clear-plants [post]
func (h *AdminHandler) ClearPlants(w http.ResponseWriter, r *http.Request) {
	var req ClearPlantsRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Clear plants"); err != nil {
		return
	}

	removed, err := h.adminSvc.ClearPlants(r.Context(), req.AdminID, req.Username)
	if err != nil {
		respondServiceError(w, r, "Clear plants", err)
		return
	}

	respondJSON(w, http.StatusOK, CountResponse{
		Message: fmt.Sprintf("Cleared %s's plants", req.Username),
		Count:   removed,
	})
}

// RestockShop handles the forced restock command
// @Summary Force a shop restock
// @Description Refills every shop row to its seed's max stock regardless of schedule
// @Tags admin
// @Accept json
// @Produce json
// @Param request body RestockShopRequest true "Restock request"
// @Success 200 {object} CountResponse "Rows refilled"
// @Failure 403 {object} ErrorResponse "Caller is not an admin"
// @Router /admin/restock [post]
func (h *AdminHandler) RestockShop(w http.ResponseWriter, r *http.Request) {
	var req RestockShopRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Restock shop"); err != nil {
		return
	}

	refilled, err := h.adminSvc.RestockShop(r.Context(), req.AdminID)
	if err != nil {
		respondServiceError(w, r, "Restock shop", err)
		return
	}

	respondJSON(w, http.StatusOK, CountResponse{Message: "Shop restocked", Count: refilled})
}

// MutatePlant handles the forced mutation command
// @Summary Mutate a crop
// @Description Stamps a mutation onto a crop, honoring combination rules
// @Tags admin
// @Accept json
// @Produce json
// @Param request body MutatePlantRequest true "Mutation request"
// @Success 200 {object} domain.Crop "Updated crop"
// @Failure 400 {object} ErrorResponse "Unknown mutation"
// @Failure 403 {object} ErrorResponse "Caller is not an admin"
// @Failure 404 {object} ErrorResponse "Crop not found"
// @Router /admin/mutate-plant [post]
func (h *AdminHandler) MutatePlant(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req MutatePlantRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Mutate plant"); err != nil {
		return
	}

	crop, err := h.adminSvc.MutatePlant(r.Context(), req.AdminID, req.CropID, req.Mutation)
	if err != nil {
		respondServiceError(w, r, "Mutate plant", err)
		return
	}

	log.Info("Plant mutated", "cropID", crop.ID, "mutations", crop.Mutations)
	respondJSON(w, http.StatusOK, crop)
}

// TallyPlants handles the plant census command
// @Summary Tally all plants
// @Description Counts all planted crops across every farm
// @Tags admin
// @Produce json
// @Param admin_id query string true "Admin player ID"
// @Success 200 {object} CountResponse "Total planted crops"
// @Failure 403 {object} ErrorResponse "Caller is not an admin"
// @Router /admin/tally-plants [get]
func (h *AdminHandler) TallyPlants(w http.ResponseWriter, r *http.Request) {
	adminID, ok := GetQueryParam(r, w, "admin_id")
	if !ok {
		return
	}

	count, err := h.adminSvc.TallyPlants(r.Context(), adminID)
	if err != nil {
		respondServiceError(w, r, "Tally plants", err)
		return
	}

	respondJSON(w, http.StatusOK, CountResponse{Message: "Planted crops counted", Count: count})
}
