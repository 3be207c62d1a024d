package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/growallgarden/server/internal/domain"
)

// PlayerRepository implements repository.Player for PostgreSQL
type PlayerRepository struct {
	db *pgxpool.Pool
}

// NewPlayerRepository creates a new PlayerRepository
func NewPlayerRepository(db *pgxpool.Pool) *PlayerRepository {
	return &PlayerRepository{db: db}
}

const playerColumns = `player_id, username, money, is_admin, COALESCE(room_id::text, ''), level, xp`

func scanPlayer(row pgx.Row) (*domain.Player, error) {
	var p domain.Player
	err := row.Scan(&p.ID, &p.Username, &p.Money, &p.IsAdmin, &p.RoomID, &p.Level, &p.XP)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new player row
func (r *PlayerRepository) Create(ctx context.Context, player *domain.Player) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO players (player_id, username, money, is_admin) VALUES ($1, $2, $3, $4)`,
		player.ID, player.Username, player.Money, player.IsAdmin)
	if err != nil {
		return fmt.Errorf("failed to insert player: %w", err)
	}
	return nil
}

// GetByID retrieves a player by ID
func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (*domain.Player, error) {
	player, err := scanPlayer(r.db.QueryRow(ctx,
		`SELECT `+playerColumns+` FROM players WHERE player_id = $1`, playerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return player, nil
}

// GetByUsername retrieves a player by username
func (r *PlayerRepository) GetByUsername(ctx context.Context, username string) (*domain.Player, error) {
	player, err := scanPlayer(r.db.QueryRow(ctx,
		`SELECT `+playerColumns+` FROM players WHERE username = $1`, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player by username: %w", err)
	}
	return player, nil
}

// List retrieves all players
func (r *PlayerRepository) List(ctx context.Context) ([]domain.Player, error) {
	return r.list(ctx, `SELECT `+playerColumns+` FROM players ORDER BY username`)
}

// ListByRoom retrieves all players in a room
func (r *PlayerRepository) ListByRoom(ctx context.Context, roomID string) ([]domain.Player, error) {
	return r.list(ctx, `SELECT `+playerColumns+` FROM players WHERE room_id = $1 ORDER BY username`, roomID)
}

func (r *PlayerRepository) list(ctx context.Context, query string, args ...any) ([]domain.Player, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var players []domain.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

// SetBalance overwrites a player's balance
func (r *PlayerRepository) SetBalance(ctx context.Context, playerID string, amount int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE players SET money = $2, updated_at = NOW() WHERE player_id = $1`,
		playerID, amount)
	if err != nil {
		return fmt.Errorf("failed to set balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPlayerNotFound
	}
	return nil
}

// AdjustBalance applies a delta, refusing to take the balance negative
func (r *PlayerRepository) AdjustBalance(ctx context.Context, playerID string, delta int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE players SET money = money + $2, updated_at = NOW()
		 WHERE player_id = $1 AND money + $2 >= 0`,
		playerID, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing player from a rejected debit
		if _, err := r.GetByID(ctx, playerID); err != nil {
			return err
		}
		return domain.ErrInsufficientFunds
	}
	return nil
}

// SetRoom moves a player into a room
func (r *PlayerRepository) SetRoom(ctx context.Context, playerID, roomID string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE players SET room_id = $2, updated_at = NOW() WHERE player_id = $1`,
		playerID, roomID)
	if err != nil {
		return fmt.Errorf("failed to set room: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPlayerNotFound
	}
	return nil
}

// CreateRoom inserts a new room row
func (r *PlayerRepository) CreateRoom(ctx context.Context, room *domain.Room) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO rooms (room_id, code, created_by) VALUES ($1, $2, $3)`,
		room.ID, room.Code, room.CreatedBy)
	if err != nil {
		return fmt.Errorf("failed to insert room: %w", err)
	}
	return nil
}

// GetRoomByCode retrieves a room by its join code
func (r *PlayerRepository) GetRoomByCode(ctx context.Context, code string) (*domain.Room, error) {
	var room domain.Room
	err := r.db.QueryRow(ctx,
		`SELECT room_id, code, COALESCE(created_by::text, '') FROM rooms WHERE code = $1`, code).
		Scan(&room.ID, &room.Code, &room.CreatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return &room, nil
}
