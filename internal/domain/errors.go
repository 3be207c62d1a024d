package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Player errors
	ErrMsgPlayerNotFound = "player not found"
	ErrMsgUnauthorized   = "admin privileges required"

	// Catalog errors
	ErrMsgSeedNotFound     = "seed not found"
	ErrMsgMutationNotFound = "mutation not found"
	ErrMsgUnknownWeather   = "unknown weather type"

	// Inventory errors
	ErrMsgInsufficientQuantity = "insufficient quantity"
	ErrMsgNoSeedInInventory    = "seed not in inventory"

	// Shop errors
	ErrMsgOutOfStock        = "seed is out of stock"
	ErrMsgInsufficientFunds = "insufficient funds"
	ErrMsgNotObtainable     = "seed is not obtainable"

	// Plot errors
	ErrMsgInvalidPosition  = "position outside the farm grid"
	ErrMsgPositionOccupied = "position already occupied"
	ErrMsgCropNotFound     = "crop not found"
	ErrMsgNotReady         = "crop is not ready to harvest"
	ErrMsgNotOwner         = "crop belongs to another player"

	// Room errors
	ErrMsgRoomNotFound = "room not found"

	// Validation errors (used for partial matches)
	ErrMsgInvalidQuantity = "quantity"

	// Database/System errors
	ErrMsgDatabaseError = "database error"
	ErrMsgTxClosed      = "tx is closed"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Player errors
	ErrPlayerNotFound = errors.New(ErrMsgPlayerNotFound)
	ErrUnauthorized   = errors.New(ErrMsgUnauthorized)

	// Catalog errors
	ErrSeedNotFound     = errors.New(ErrMsgSeedNotFound)
	ErrMutationNotFound = errors.New(ErrMsgMutationNotFound)
	ErrUnknownWeather   = errors.New(ErrMsgUnknownWeather)

	// Inventory errors
	ErrInsufficientQuantity = errors.New(ErrMsgInsufficientQuantity)
	ErrNoSeedInInventory    = errors.New(ErrMsgNoSeedInInventory)

	// Shop errors
	ErrOutOfStock        = errors.New(ErrMsgOutOfStock)
	ErrInsufficientFunds = errors.New(ErrMsgInsufficientFunds)
	ErrNotObtainable     = errors.New(ErrMsgNotObtainable)

	// Plot errors
	ErrInvalidPosition  = errors.New(ErrMsgInvalidPosition)
	ErrPositionOccupied = errors.New(ErrMsgPositionOccupied)
	ErrCropNotFound     = errors.New(ErrMsgCropNotFound)
	ErrNotReady         = errors.New(ErrMsgNotReady)
	ErrNotOwner         = errors.New(ErrMsgNotOwner)

	// Room errors
	ErrRoomNotFound = errors.New(ErrMsgRoomNotFound)

	// Database/System errors
	// Infrastructure failures are reported through this error so callers can
	// distinguish retryable collaborator faults from business-rule violations.
	ErrDatabaseError = errors.New(ErrMsgDatabaseError)
)
