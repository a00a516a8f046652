package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GisoInvest/giso-invest-auth-backend/internal/models"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ListPortfolios(ctx context.Context, userUID string) ([]*models.Portfolio, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Portfolio), args.Error(1)
}
func (m *RepoMock) GetPortfolio(ctx context.Context, userUID, id string) (*models.Portfolio, error) {
	args := m.Called(ctx, userUID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Portfolio), args.Error(1)
}
func (m *RepoMock) GetSharedPortfolio(ctx context.Context, shareID string) (*models.Portfolio, error) {
	args := m.Called(ctx, shareID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Portfolio), args.Error(1)
}
func (m *RepoMock) CreatePortfolio(ctx context.Context, p models.Portfolio) error {
	return m.Called(ctx, p).Error(0)
}
func (m *RepoMock) UpdatePortfolio(ctx context.Context, p models.Portfolio) error {
	return m.Called(ctx, p).Error(0)
}
func (m *RepoMock) RemovePortfolio(ctx context.Context, userUID, id string) error {
	return m.Called(ctx, userUID, id).Error(0)
}
func (m *RepoMock) ImportPortfolios(ctx context.Context, items []models.Portfolio) (repository.ImportCounts, error) {
	args := m.Called(ctx, items)
	return args.Get(0).(repository.ImportCounts), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestPortfolioService_Create(t *testing.T) {
	repo := new(RepoMock)
	repo.On("CreatePortfolio", mock.Anything, mock.MatchedBy(func(p models.Portfolio) bool {
		return p.UserUID == "uid-1" &&
			p.Name == "UK Portfolio" &&
			p.ShareID != "" &&
			!p.IsPublic &&
			// Статистика пересчитана из пакетов сделок
			p.TotalValue == 100 && p.TotalProperties == 2 && p.AvgROI == 10
	})).Return(nil).Once()

	svc := NewPortfolioService(repo, new(CacheMock), newNoopLogger())

	portfolio, err := svc.Create(context.Background(), "uid-1", models.DummyPortfolio{
		Name:         strPtr("  UK Portfolio  "),
		DealPackages: json.RawMessage(`[{"totalValue": 100, "properties": [{"roi": 5}, {"roi": 15}]}]`),
	})
	require.NoError(t, err)
	assert.Equal(t, "UK Portfolio", portfolio.Name)

	repo.AssertExpectations(t)
}

func TestPortfolioService_Create_NameRequired(t *testing.T) {
	svc := NewPortfolioService(new(RepoMock), new(CacheMock), newNoopLogger())

	_, err := svc.Create(context.Background(), "uid-1", models.DummyPortfolio{})
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = svc.Create(context.Background(), "uid-1", models.DummyPortfolio{Name: strPtr("   ")})
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestPortfolioService_Update_InvalidatesSharedCache(t *testing.T) {
	stored := &models.Portfolio{
		ID:      "portfolio_1",
		UserUID: "uid-1",
		Name:    "UK Portfolio",
		ShareID: "share_abc",
	}

	repo := new(RepoMock)
	repo.On("GetPortfolio", mock.Anything, "uid-1", "portfolio_1").Return(stored, nil).Once()
	repo.On("UpdatePortfolio", mock.Anything, mock.MatchedBy(func(p models.Portfolio) bool {
		return p.IsPublic
	})).Return(nil).Once()

	cache := new(CacheMock)
	cache.On("Invalidate", "portfolio:share:share_abc").Return(nil).Once()

	svc := NewPortfolioService(repo, cache, newNoopLogger())

	portfolio, err := svc.Update(context.Background(), "uid-1", "portfolio_1", models.DummyPortfolio{
		IsPublic: boolPtr(true),
	})
	require.NoError(t, err)
	assert.True(t, portfolio.IsPublic)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestPortfolioService_Shared(t *testing.T) {
	shared := &models.Portfolio{
		ID:       "portfolio_1",
		Name:     "Public Portfolio",
		ShareID:  "share_abc",
		IsPublic: true,
	}

	t.Run("промах кеша идёт в хранилище и кеширует результат", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetSharedPortfolio", mock.Anything, "share_abc").Return(shared, nil).Once()

		cache := new(CacheMock)
		cache.On("Get", "portfolio:share:share_abc", mock.Anything).Return(false, nil).Once()
		cache.On("Set", "portfolio:share:share_abc", shared, time.Hour).Return(nil).Once()

		svc := NewPortfolioService(repo, cache, newNoopLogger())

		got, err := svc.Shared(context.Background(), "share_abc")
		require.NoError(t, err)
		assert.Equal(t, "Public Portfolio", got.Name)

		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("непубличный портфель неотличим от несуществующего", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetSharedPortfolio", mock.Anything, "share_private").
			Return(nil, repository.ErrNotFound).Once()

		cache := new(CacheMock)
		cache.On("Get", "portfolio:share:share_private", mock.Anything).Return(false, nil).Once()

		svc := NewPortfolioService(repo, cache, newNoopLogger())

		_, err := svc.Shared(context.Background(), "share_private")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("ошибка кеша не ломает запрос", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetSharedPortfolio", mock.Anything, "share_abc").Return(shared, nil).Once()

		cache := new(CacheMock)
		cache.On("Get", "portfolio:share:share_abc", mock.Anything).
			Return(false, assert.AnError).Once()
		cache.On("Set", "portfolio:share:share_abc", shared, time.Hour).
			Return(assert.AnError).Once()

		svc := NewPortfolioService(repo, cache, newNoopLogger())

		got, err := svc.Shared(context.Background(), "share_abc")
		require.NoError(t, err)
		assert.Equal(t, "Public Portfolio", got.Name)
	})
}

func TestPortfolioService_Import(t *testing.T) {
	t.Run("успешный импорт", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("CreatePortfolio", mock.Anything, mock.MatchedBy(func(p models.Portfolio) bool {
			return p.ID == "portfolio_1" && p.UserUID == "uid-1"
		})).Return(nil).Once()

		svc := NewPortfolioService(repo, new(CacheMock), newNoopLogger())

		portfolio, err := svc.Import(context.Background(), "uid-1", models.ImportPortfolio{
			ID:   "portfolio_1",
			Name: "Imported",
		})
		require.NoError(t, err)
		assert.Equal(t, "Imported", portfolio.Name)
	})

	t.Run("повторный импорт того же ID", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("CreatePortfolio", mock.Anything, mock.Anything).
			Return(repository.ErrAlreadyExists).Once()

		svc := NewPortfolioService(repo, new(CacheMock), newNoopLogger())

		_, err := svc.Import(context.Background(), "uid-1", models.ImportPortfolio{
			ID:   "portfolio_1",
			Name: "Imported",
		})
		assert.ErrorIs(t, err, ErrPortfolioExists)
	})

	t.Run("запись без обязательных полей", func(t *testing.T) {
		svc := NewPortfolioService(new(RepoMock), new(CacheMock), newNoopLogger())

		_, err := svc.Import(context.Background(), "uid-1", models.ImportPortfolio{ID: "portfolio_1"})
		assert.ErrorIs(t, err, ErrInvalidPayload)
	})
}

func TestPortfolioService_Migrate(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ImportPortfolios", mock.Anything, mock.MatchedBy(func(items []models.Portfolio) bool {
		return len(items) == 1
	})).Return(repository.ImportCounts{Imported: 1}, nil).Once()

	svc := NewPortfolioService(repo, new(CacheMock), newNoopLogger())

	imported, skipped, err := svc.Migrate(context.Background(), "uid-1", []models.ImportPortfolio{
		{ID: "portfolio_1", Name: "Valid"},
		{ID: "portfolio_2"}, // без имени
	})
	require.NoError(t, err)
	assert.Equal(t, 1, imported)
	assert.Equal(t, 1, skipped)
}
