package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/growallgarden/server/internal/domain"
)

// WeatherRepository implements repository.Weather for PostgreSQL
type WeatherRepository struct {
	db *pgxpool.Pool
}

// NewWeatherRepository creates a new WeatherRepository
func NewWeatherRepository(db *pgxpool.Pool) *WeatherRepository {
	return &WeatherRepository{db: db}
}

// GetActive returns the most recent active event, or nil under clear skies
func (r *WeatherRepository) GetActive(ctx context.Context) (*domain.WeatherEvent, error) {
	var e domain.WeatherEvent
	err := r.db.QueryRow(ctx,
		`SELECT event_id, weather_type, scope, COALESCE(room_id::text, ''),
		        started_at, duration_seconds, is_active, triggered_by_admin
		 FROM weather_events
		 WHERE is_active
		 ORDER BY started_at DESC
		 LIMIT 1`).
		Scan(&e.ID, &e.WeatherType, &e.Scope, &e.RoomID,
			&e.StartedAt, &e.DurationSeconds, &e.Active, &e.TriggeredByAdmin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active weather: %w", err)
	}
	return &e, nil
}

// Create inserts a new weather event
func (r *WeatherRepository) Create(ctx context.Context, event *domain.WeatherEvent) error {
	var roomID any
	if event.RoomID != "" {
		roomID = event.RoomID
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO weather_events (event_id, weather_type, scope, room_id,
		                             started_at, duration_seconds, is_active, triggered_by_admin)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		event.ID, event.WeatherType, event.Scope, roomID,
		event.StartedAt, event.DurationSeconds, event.Active, event.TriggeredByAdmin)
	if err != nil {
		return fmt.Errorf("failed to insert weather event: %w", err)
	}
	return nil
}

// DeactivateAll clears every active flag, returning how many rows changed
func (r *WeatherRepository) DeactivateAll(ctx context.Context) (int, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE weather_events SET is_active = FALSE WHERE is_active`)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate weather events: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
