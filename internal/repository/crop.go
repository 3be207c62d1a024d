package repository

import (
	"context"
	"time"

	"github.com/growallgarden/server/internal/domain"
)

// Crop defines the interface for crop persistence
type Crop interface {
	GetByID(ctx context.Context, cropID string) (*domain.Crop, error)
	ListByPlayer(ctx context.Context, playerID string) ([]domain.Crop, error)

	// ListAll and ListByRoom feed weather mutation propagation.
	ListAll(ctx context.Context) ([]domain.Crop, error)
	ListByRoom(ctx context.Context, roomID string) ([]domain.Crop, error)

	// ListGrowing returns crops below their max growth stage together with
	// their seed's growth time, for the growth tick.
	ListGrowing(ctx context.Context) ([]domain.CropGrowth, error)

	SetGrowthStage(ctx context.Context, cropID string, stage int) error
	SetMutations(ctx context.Context, cropID string, mutations []string) error

	DeleteByPlayer(ctx context.Context, playerID string) (int, error)
	CountAll(ctx context.Context) (int, error)

	BeginTx(ctx context.Context) (CropTx, error)
}

// CropTx is the transaction scope for planting and harvesting.
type CropTx interface {
	Tx

	// DebitInventory fails with domain.ErrInsufficientQuantity when the
	// player holds fewer than qty of the seed.
	DebitInventory(ctx context.Context, playerID, seedID string, qty int) error

	// CreateCrop fails with domain.ErrPositionOccupied when the cell is
	// already planted.
	CreateCrop(ctx context.Context, crop *domain.Crop) error

	// GetCropForUpdate locks the crop row for the duration of the
	// transaction so concurrent harvests of the same crop serialize.
	GetCropForUpdate(ctx context.Context, cropID string) (*domain.Crop, error)

	CreditBalance(ctx context.Context, playerID string, amount int) error
	DeleteCrop(ctx context.Context, cropID string) error
	ResetCrop(ctx context.Context, cropID string, plantedAt time.Time, growthStage, harvestRemaining int) error
}
