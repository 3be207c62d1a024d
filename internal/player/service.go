package player

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/growallgarden/server/internal/domain"
	"github.com/growallgarden/server/internal/logger"
	"github.com/growallgarden/server/internal/repository"
	"github.com/growallgarden/server/internal/utils"
)

const roomCodeLength = 6

const roomCodeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Service defines the player and room business logic
type Service interface {
	// Register returns the player with the given username, creating one with
	// the starting balance on first sight.
	Register(ctx context.Context, username string) (*domain.Player, error)

	Get(ctx context.Context, playerID string) (*domain.Player, error)
	List(ctx context.Context) ([]domain.Player, error)

	// CreateRoom creates a shared garden room owned by the player and moves
	// them into it.
	CreateRoom(ctx context.Context, playerID string) (*domain.Room, error)

	// JoinRoom moves the player into the room with the given code.
	JoinRoom(ctx context.Context, playerID, code string) (*domain.Room, error)

	ListRoomPlayers(ctx context.Context, roomID string) ([]domain.Player, error)
}

type service struct {
	playerRepo repository.Player
}

// NewService creates a new player service
func NewService(playerRepo repository.Player) Service {
	return &service{
		playerRepo: playerRepo,
	}
}

func (s *service) Register(ctx context.Context, username string) (*domain.Player, error) {
	log := logger.FromContext(ctx)

	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is empty", domain.ErrPlayerNotFound)
	}

	existing, err := s.playerRepo.GetByUsername(ctx, username)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrPlayerNotFound) {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	newPlayer := &domain.Player{
		ID:       uuid.New().String(),
		Username: username,
		Money:    domain.StartingBalance,
	}
	if err := s.playerRepo.Create(ctx, newPlayer); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	log.Info("Player registered", "playerID", newPlayer.ID, "username", username)
	return newPlayer, nil
}

func (s *service) Get(ctx context.Context, playerID string) (*domain.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return player, nil
}

func (s *service) List(ctx context.Context) ([]domain.Player, error) {
	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return players, nil
}

func (s *service) CreateRoom(ctx context.Context, playerID string) (*domain.Room, error) {
	log := logger.FromContext(ctx)

	if _, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	room := &domain.Room{
		ID:        uuid.New().String(),
		Code:      generateRoomCode(),
		CreatedBy: playerID,
	}
	if err := s.playerRepo.CreateRoom(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	if err := s.playerRepo.SetRoom(ctx, playerID, room.ID); err != nil {
		return nil, fmt.Errorf("failed to set room: %w", err)
	}

	log.Info("Room created", "roomID", room.ID, "code", room.Code, "playerID", playerID)
	return room, nil
}

func (s *service) JoinRoom(ctx context.Context, playerID, code string) (*domain.Room, error) {
	log := logger.FromContext(ctx)

	if _, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	room, err := s.playerRepo.GetRoomByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if err := s.playerRepo.SetRoom(ctx, playerID, room.ID); err != nil {
		return nil, fmt.Errorf("failed to set room: %w", err)
	}

	log.Info("Player joined room", "playerID", playerID, "roomID", room.ID)
	return room, nil
}

func (s *service) ListRoomPlayers(ctx context.Context, roomID string) ([]domain.Player, error) {
	players, err := s.playerRepo.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list room players: %w", err)
	}
	return players, nil
}

func generateRoomCode() string {
	b := make([]byte, roomCodeLength)
	for i := range b {
		b[i] = roomCodeCharset[utils.RandomInt(0, len(roomCodeCharset)-1)]
	}
	return string(b)
}
