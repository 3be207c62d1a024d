package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/growallgarden/server/internal/domain"
	"github.com/growallgarden/server/internal/logger"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// Helper functions for responding

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// Get a buffer from the pool to reduce allocations
	buf := getBuffer()
	defer putBuffer(buf)

	// Encode to the buffer first
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		// Log the error - we can't write to response at this point since headers are sent
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	// Write the buffer to the response
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs a failed service call and writes the mapped
// user-facing error response.
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	logger.FromContext(r.Context()).Error(opName+" failed", "error", err)
	status, userMsg := mapServiceErrorToUserMessage(err)
	respondError(w, status, userMsg)
}

// User-facing error messages for service errors
// These messages are derived from domain errors and provide helpful guidance to users
const (
	// Generic messages
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUnknownError        = "Unknown error"
	ErrMsgAuthFailedError     = "Authentication failed. Please check your API key."
	ErrMsgResourceNotFoundErr = "Resource not found."

	// Player and room messages
	ErrMsgPlayerNotFoundError = "Player not found"
	ErrMsgRoomNotFoundError   = "Room not found. Check the room code"
	ErrMsgNotAdminError       = "Admin privileges required"

	// Catalog messages
	ErrMsgSeedNotFoundError     = "Seed not found"
	ErrMsgMutationNotFoundError = "Unknown mutation"
	ErrMsgUnknownWeatherError   = "Unknown weather type"

	// Shop messages
	ErrMsgOutOfStockError        = "That seed is out of stock. Wait for the next restock"
	ErrMsgNotEnoughMoneyError    = "Not enough sheckles"
	ErrMsgNotObtainableError     = "That seed cannot be purchased"
	ErrMsgInsufficientSeedsError = "Not enough seeds in inventory"

	// Plot messages
	ErrMsgInvalidPositionError  = "Position is outside the farm grid"
	ErrMsgPositionOccupiedError = "Something is already planted there"
	ErrMsgCropNotFoundError     = "Crop not found"
	ErrMsgNotReadyError         = "Crop is not ready to harvest yet"
	ErrMsgNotOwnerError         = "That crop belongs to another player"
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP responses
// This function converts internal service errors to appropriate HTTP status codes and messages
// that users can understand and act upon.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	// Check for specific domain errors
	switch {
	case errors.Is(err, domain.ErrPlayerNotFound):
		return http.StatusNotFound, ErrMsgPlayerNotFoundError
	case errors.Is(err, domain.ErrRoomNotFound):
		return http.StatusNotFound, ErrMsgRoomNotFoundError
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden, ErrMsgNotAdminError
	case errors.Is(err, domain.ErrSeedNotFound):
		return http.StatusNotFound, ErrMsgSeedNotFoundError
	case errors.Is(err, domain.ErrMutationNotFound):
		return http.StatusBadRequest, ErrMsgMutationNotFoundError
	case errors.Is(err, domain.ErrUnknownWeather):
		return http.StatusBadRequest, ErrMsgUnknownWeatherError
	case errors.Is(err, domain.ErrOutOfStock):
		return http.StatusBadRequest, ErrMsgOutOfStockError
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusBadRequest, ErrMsgNotEnoughMoneyError
	case errors.Is(err, domain.ErrNotObtainable):
		return http.StatusBadRequest, ErrMsgNotObtainableError
	case errors.Is(err, domain.ErrInsufficientQuantity):
		return http.StatusBadRequest, ErrMsgInsufficientSeedsError
	case errors.Is(err, domain.ErrNoSeedInInventory):
		return http.StatusBadRequest, ErrMsgInsufficientSeedsError
	case errors.Is(err, domain.ErrInvalidPosition):
		return http.StatusBadRequest, ErrMsgInvalidPositionError
	case errors.Is(err, domain.ErrPositionOccupied):
		return http.StatusBadRequest, ErrMsgPositionOccupiedError
	case errors.Is(err, domain.ErrCropNotFound):
		return http.StatusNotFound, ErrMsgCropNotFoundError
	case errors.Is(err, domain.ErrNotReady):
		return http.StatusBadRequest, ErrMsgNotReadyError
	case errors.Is(err, domain.ErrNotOwner):
		return http.StatusForbidden, ErrMsgNotOwnerError
	case errors.Is(err, domain.ErrDatabaseError):
		return http.StatusInternalServerError, ErrMsgGenericServerError
	}

	// For wrapped errors with domain errors as the base, try unwrapping
	unwrapped := errors.Unwrap(err)
	if unwrapped != nil && unwrapped != err {
		// Recursively check the unwrapped error
		return mapServiceErrorToUserMessage(unwrapped)
	}

	// Short unrecognized messages pass through; long ones are likely driver
	// noise and get the generic message instead.
	errMsg := err.Error()
	if errMsg != "" && len(errMsg) < 200 {
		return http.StatusInternalServerError, errMsg
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
