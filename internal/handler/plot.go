package handler

import (
	"net/http"

	"github.com/growallgarden/server/internal/logger"
	"github.com/growallgarden/server/internal/plot"
)

// PlantSeedRequest represents the request to plant a seed on the farm grid
type PlantSeedRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
	SeedID   string `json:"seed_id" validate:"required"`
	X        int    `json:"x" validate:"gte=0"`
	Y        int    `json:"y" validate:"gte=0"`
}

// HarvestCropRequest represents the request to harvest a planted crop
type HarvestCropRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
	CropID   string `json:"crop_id" validate:"required"`
}

// PlotHandler handles farm plot HTTP requests
type PlotHandler struct {
	plotSvc plot.Service
}

// NewPlotHandler creates a new plot handler
func NewPlotHandler(plotSvc plot.Service) *PlotHandler {
	return &PlotHandler{
		plotSvc: plotSvc,
	}
}

// Plant handles the planting endpoint
// @Summary Plant a seed
// @Description Sows one seed from the player's inventory at grid cell (x, y)
// @Tags plot
// @Accept json
// @Produce json
// @Param request body PlantSeedRequest true "Plant request"
// @Success 201 {object} domain.Crop "Crop planted"
// @Failure 400 {object} ErrorResponse "Cell occupied, outside the grid, or no seeds held"
// @Failure 404 {object} ErrorResponse "Player or seed not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /plot/plant [post]
func (h *PlotHandler) Plant(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req PlantSeedRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Plant seed"); err != nil {
		return
	}

	log.Info("Plant request received", "playerID", req.PlayerID, "seedID", req.SeedID, "x", req.X, "y", req.Y)

	crop, err := h.plotSvc.Plant(r.Context(), req.PlayerID, req.SeedID, req.X, req.Y)
	if err != nil {
		respondServiceError(w, r, "Plant seed", err)
		return
	}

	log.Info("Plant successful", "cropID", crop.ID, "mutations", crop.Mutations)
	respondJSON(w, http.StatusCreated, crop)
}

// ListCrops handles the crop listing endpoint
// @Summary List a player's crops
// @Description Returns the player's planted crops with derived readiness and current sell value
// @Tags plot
// @Produce json
// @Param player_id query string true "Player ID"
// @Success 200 {object} DataResponse "Planted crops"
// @Failure 400 {object} ErrorResponse "Missing player_id"
// @Router /plot [get]
func (h *PlotHandler) ListCrops(w http.ResponseWriter, r *http.Request) {
	playerID, ok := GetQueryParam(r, w, "player_id")
	if !ok {
		return
	}

	crops, err := h.plotSvc.ListCrops(r.Context(), playerID)
	if err != nil {
		respondServiceError(w, r, "List crops", err)
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{Data: crops})
}

// Harvest handles the harvest endpoint
// @Summary Harvest a crop
// @Description Settles a ready crop: credits its sell value and either removes it or resets it for the next multi-harvest cycle
// @Tags plot
// @Accept json
// @Produce json
// @Param request body HarvestCropRequest true "Harvest request"
// @Success 200 {object} domain.HarvestResult "Harvest settled"
// @Failure 400 {object} ErrorResponse "Crop not ready"
// @Failure 403 {object} ErrorResponse "Crop belongs to another player"
// @Failure 404 {object} ErrorResponse "Crop not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /plot/harvest [post]
func (h *PlotHandler) Harvest(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req HarvestCropRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Harvest crop"); err != nil {
		return
	}

	log.Info("Harvest request received", "playerID", req.PlayerID, "cropID", req.CropID)

	result, err := h.plotSvc.Harvest(r.Context(), req.PlayerID, req.CropID)
	if err != nil {
		respondServiceError(w, r, "Harvest crop", err)
		return
	}

	log.Info("Harvest successful",
		"cropID", result.CropID,
		"seed", result.SeedName,
		"moneyGained", result.MoneyGained,
		"regrowing", result.Regrowing)

	respondJSON(w, http.StatusOK, result)
}
