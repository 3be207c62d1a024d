package handler

import (
	"net/http"

	"github.com/growallgarden/server/internal/logger"
	"github.com/growallgarden/server/internal/player"
)

// RegisterPlayerRequest represents the request to register or fetch a player
type RegisterPlayerRequest struct {
	Username string `json:"username" validate:"required,max=50,excludesall= "`
}

// CreateRoomRequest represents the request to create a shared garden room
type CreateRoomRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
}

// JoinRoomRequest represents the request to join a room by code
type JoinRoomRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
	Code     string `json:"code" validate:"required,max=10"`
}

// PlayerHandler handles player and room HTTP requests
type PlayerHandler struct {
	playerSvc player.Service
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(playerSvc player.Service) *PlayerHandler {
	return &PlayerHandler{
		playerSvc: playerSvc,
	}
}

// Register handles the player registration endpoint
// @Summary Register a player
// @Description Returns the player with the given username, creating one with the starting balance on first sight
// @Tags player
// @Accept json
// @Produce json
// @Param request body RegisterPlayerRequest true "Registration request"
// @Success 200 {object} domain.Player "Player registered"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /player/register [post]
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req RegisterPlayerRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Register player"); err != nil {
		return
	}

	p, err := h.playerSvc.Register(r.Context(), req.Username)
	if err != nil {
		respondServiceError(w, r, "Register player", err)
		return
	}

	log.Info("Player registration handled", "playerID", p.ID, "username", p.Username)
	respondJSON(w, http.StatusOK, p)
}

// Get handles the player lookup endpoint
// @Summary Get a player
// @Description Returns a player by ID with their current balance
// @Tags player
// @Produce json
// @Param player_id query string true "Player ID"
// @Success 200 {object} domain.Player "Player found"
// @Failure 404 {object} ErrorResponse "Player not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /player [get]
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	playerID, ok := GetQueryParam(r, w, "player_id")
	if !ok {
		return
	}

	p, err := h.playerSvc.Get(r.Context(), playerID)
	if err != nil {
		respondServiceError(w, r, "Get player", err)
		return
	}

	respondJSON(w, http.StatusOK, p)
}

// ListPlayers handles the player roster endpoint
// @Summary List players
// @Description Lists every registered player
// @Tags player
// @Produce json
// @Success 200 {object} DataResponse "All registered players"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /players [get]
func (h *PlayerHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.playerSvc.List(r.Context())
	if err != nil {
		respondServiceError(w, r, "List players", err)
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{Data: players})
}

// CreateRoom handles the room creation endpoint
// @Summary Create a room
// @Description Creates a shared garden room owned by the player and moves them into it
// @Tags player
// @Accept json
// @Produce json
// @Param request body CreateRoomRequest true "Room creation request"
// @Success 201 {object} domain.Room "Room created"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 404 {object} ErrorResponse "Player not found"
// @Router /rooms [post]
func (h *PlayerHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Create room"); err != nil {
		return
	}

	room, err := h.playerSvc.CreateRoom(r.Context(), req.PlayerID)
	if err != nil {
		respondServiceError(w, r, "Create room", err)
		return
	}

	respondJSON(w, http.StatusCreated, room)
}

// JoinRoom handles the room join endpoint
// @Summary Join a room
// @Description Moves the player into the room with the given code
// @Tags player
// @Accept json
// @Produce json
// @Param request body JoinRoomRequest true "Room join request"
// @Success 200 {object} domain.Room "Room joined"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 404 {object} ErrorResponse "Room not found"
// @Router /rooms/join [post]
func (h *PlayerHandler) JoinRoom(w http.ResponseWriter, r *http.Request) {
	var req JoinRoomRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Join room"); err != nil {
		return
	}

	room, err := h.playerSvc.JoinRoom(r.Context(), req.PlayerID, req.Code)
	if err != nil {
		respondServiceError(w, r, "Join room", err)
		return
	}

	respondJSON(w, http.StatusOK, room)
}

// ListRoomPlayers handles the room roster endpoint
// @Summary List room players
// @Description Lists the players currently in a room
// @Tags player
// @Produce json
// @Param room_id query string true "Room ID"
// @Success 200 {object} DataResponse "Players in the room"
// @Failure 400 {object} ErrorResponse "Missing room_id"
// @Router /rooms/players [get]
func (h *PlayerHandler) ListRoomPlayers(w http.ResponseWriter, r *http.Request) {
	roomID, ok := GetQueryParam(r, w, "room_id")
	if !ok {
		return
	}

	players, err := h.playerSvc.ListRoomPlayers(r.Context(), roomID)
	if err != nil {
		respondServiceError(w, r, "List room players", err)
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{Data: players})
}
