package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/growallgarden/server/internal/domain"
)

// MockInventoryRepository
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) GetQuantity(ctx context.Context, playerID, seedID string) (int, error) {
	args := m.Called(ctx, playerID, seedID)
	return args.Int(0), args.Error(1)
}

func (m *MockInventoryRepository) ListByPlayer(ctx context.Context, playerID string) ([]domain.InventoryView, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InventoryView), args.Error(1)
}

func (m *MockInventoryRepository) Credit(ctx context.Context, playerID, seedID string, qty int) error {
	args := m.Called(ctx, playerID, seedID, qty)
	return args.Error(0)
}

func (m *MockInventoryRepository) Debit(ctx context.Context, playerID, seedID string, qty int) error {
	args := m.Called(ctx, playerID, seedID, qty)
	return args.Error(0)
}

func (m *MockInventoryRepository) DeleteByPlayer(ctx context.Context, playerID string) error {
	args := m.Called(ctx, playerID)
	return args.Error(0)
}

// MockPlayerGetter stubs the player lookup the service performs before
// touching the ledger.
type MockPlayerGetter struct {
	mock.Mock
}

func (m *MockPlayerGetter) Create(ctx context.Context, player *domain.Player) error {
	args := m.Called(ctx, player)
	return args.Error(0)
}

func (m *MockPlayerGetter) GetByID(ctx context.Context, playerID string) (*domain.Player, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Player), args.Error(1)
}

func (m *MockPlayerGetter) GetByUsername(ctx context.Context, username string) (*domain.Player, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Player), args.Error(1)
}

func (m *MockPlayerGetter) List(ctx context.Context) ([]domain.Player, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Player), args.Error(1)
}

func (m *MockPlayerGetter) ListByRoom(ctx context.Context, roomID string) ([]domain.Player, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Player), args.Error(1)
}

func (m *MockPlayerGetter) SetBalance(ctx context.Context, playerID string, amount int) error {
	args := m.Called(ctx, playerID, amount)
	return args.Error(0)
}

func (m *MockPlayerGetter) AdjustBalance(ctx context.Context, playerID string, delta int) error {
	args := m.Called(ctx, playerID, delta)
	return args.Error(0)
}

func (m *MockPlayerGetter) SetRoom(ctx context.Context, playerID, roomID string) error {
	args := m.Called(ctx, playerID, roomID)
	return args.Error(0)
}

func (m *MockPlayerGetter) CreateRoom(ctx context.Context, room *domain.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *MockPlayerGetter) GetRoomByCode(ctx context.Context, code string) (*domain.Room, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}

func TestGetInventory_ListsHeldSeeds(t *testing.T) {
	invRepo := new(MockInventoryRepository)
	playerRepo := new(MockPlayerGetter)

	playerRepo.On("GetByID", mock.Anything, "player-1").Return(&domain.Player{ID: "player-1"}, nil)
	entries := []domain.InventoryView{
		{
			InventoryEntry: domain.InventoryEntry{PlayerID: "player-1", SeedID: "seed-carrot", Quantity: 3},
			SeedName:       "Carrot",
		},
	}
	invRepo.On("ListByPlayer", mock.Anything, "player-1").Return(entries, nil)

	svc := NewService(invRepo, playerRepo)
	got, err := svc.GetInventory(context.Background(), "player-1")

	assert.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestGetInventory_UnknownPlayer(t *testing.T) {
	invRepo := new(MockInventoryRepository)
	playerRepo := new(MockPlayerGetter)

	playerRepo.On("GetByID", mock.Anything, "player-x").Return(nil, domain.ErrPlayerNotFound)

	svc := NewService(invRepo, playerRepo)
	_, err := svc.GetInventory(context.Background(), "player-x")

	assert.ErrorIs(t, err, domain.ErrPlayerNotFound)
	invRepo.AssertNotCalled(t, "ListByPlayer", mock.Anything, mock.Anything)
}

func TestGrant_CreditsLedger(t *testing.T) {
	invRepo := new(MockInventoryRepository)
	playerRepo := new(MockPlayerGetter)

	playerRepo.On("GetByID", mock.Anything, "player-1").Return(&domain.Player{ID: "player-1"}, nil)
	invRepo.On("Credit", mock.Anything, "player-1", "seed-carrot", 5).Return(nil)

	svc := NewService(invRepo, playerRepo)
	err := svc.Grant(context.Background(), "player-1", "seed-carrot", 5)

	assert.NoError(t, err)
	invRepo.AssertExpectations(t)
}

func TestGrant_RejectsNonPositiveQuantity(t *testing.T) {
	invRepo := new(MockInventoryRepository)
	svc := NewService(invRepo, new(MockPlayerGetter))

	assert.ErrorIs(t, svc.Grant(context.Background(), "player-1", "seed-carrot", 0), domain.ErrInsufficientQuantity)
	assert.ErrorIs(t, svc.Grant(context.Background(), "player-1", "seed-carrot", -1), domain.ErrInsufficientQuantity)
	invRepo.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGrant_UnknownPlayer(t *testing.T) {
	invRepo := new(MockInventoryRepository)
	playerRepo := new(MockPlayerGetter)

	playerRepo.On("GetByID", mock.Anything, "player-x").Return(nil, domain.ErrPlayerNotFound)

	svc := NewService(invRepo, playerRepo)
	err := svc.Grant(context.Background(), "player-x", "seed-carrot", 1)

	assert.ErrorIs(t, err, domain.ErrPlayerNotFound)
	invRepo.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
