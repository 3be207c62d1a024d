package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// HTTP status messages
	ErrMsgMethodNotAllowed      = "Method not allowed"
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Query parameter error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"

	// Shop operation error messages
	ErrMsgPurchaseFailed  = "Failed to purchase seed"
	ErrMsgGetStockFailed  = "Failed to get shop stock"
	ErrMsgRestockFailed   = "Failed to restock shop"
	ErrMsgGetSeedsFailed  = "Failed to get seed catalog"

	// Plot operation error messages
	ErrMsgPlantFailed    = "Failed to plant seed"
	ErrMsgHarvestFailed  = "Failed to harvest crop"
	ErrMsgGetCropsFailed = "Failed to get crops"

	// Player operation error messages
	ErrMsgRegisterFailed     = "Failed to register player"
	ErrMsgGetPlayerFailed    = "Failed to get player"
	ErrMsgGetInventoryFailed = "Failed to get inventory"
	ErrMsgRoomFailed         = "Failed to manage room"

	// Weather operation error messages
	ErrMsgGetWeatherFailed     = "Failed to get weather"
	ErrMsgTriggerWeatherFailed = "Failed to trigger weather"

	// Admin error messages
	ErrMsgAdminCommandFailed = "Failed to run admin command"
)
