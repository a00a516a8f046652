package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GisoInvest/giso-invest-auth-backend/internal/models"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ListProperties(ctx context.Context, userUID string) ([]*models.Property, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Property), args.Error(1)
}
func (m *RepoMock) ListPortfolios(ctx context.Context, userUID string) ([]*models.Portfolio, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Portfolio), args.Error(1)
}
func (m *RepoMock) CountReports(ctx context.Context, userUID string) (int, error) {
	args := m.Called(ctx, userUID)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ImportAll(ctx context.Context, properties []models.Property,
	portfolios []models.Portfolio, reports []models.Report,
) (repository.ImportCounts, repository.ImportCounts, repository.ImportCounts, error) {
	args := m.Called(ctx, properties, portfolios, reports)
	return args.Get(0).(repository.ImportCounts),
		args.Get(1).(repository.ImportCounts),
		args.Get(2).(repository.ImportCounts),
		args.Error(3)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestDataService_Migrate(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ImportAll", mock.Anything,
		mock.MatchedBy(func(items []models.Property) bool { return len(items) == 1 }),
		mock.MatchedBy(func(items []models.Portfolio) bool { return len(items) == 1 }),
		mock.MatchedBy(func(items []models.Report) bool { return len(items) == 0 }),
	).Return(
		repository.ImportCounts{Imported: 1},
		repository.ImportCounts{Skipped: 1},
		repository.ImportCounts{},
		nil,
	).Once()

	svc := NewDataService(repo, newNoopLogger())

	results, err := svc.Migrate(context.Background(), "uid-1", MigratePayload{
		Properties: []models.ImportProperty{
			{ID: "property_1", Address: "12 Baker Street"},
			{ID: "property_2"}, // без адреса
		},
		Portfolios: []models.ImportPortfolio{
			{ID: "portfolio_1", Name: "UK Portfolio"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, EntityResult{Imported: 1, Skipped: 1}, results.Properties)
	assert.Equal(t, EntityResult{Imported: 0, Skipped: 1}, results.Portfolios)
	assert.Equal(t, EntityResult{}, results.Reports)

	repo.AssertExpectations(t)
}

func TestDataService_Migrate_RepoError(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ImportAll", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(repository.ImportCounts{}, repository.ImportCounts{}, repository.ImportCounts{}, assert.AnError).Once()

	svc := NewDataService(repo, newNoopLogger())

	_, err := svc.Migrate(context.Background(), "uid-1", MigratePayload{
		Properties: []models.ImportProperty{{ID: "property_1", Address: "12 Baker Street"}},
	})
	assert.Error(t, err)
}

func TestDataService_UserStats(t *testing.T) {
	price1, price2 := 100000.0, 200000.0
	roi1, roi2 := 6.0, 10.0

	repo := new(RepoMock)
	repo.On("ListProperties", mock.Anything, "uid-1").Return([]*models.Property{
		{ID: "property_1", Price: &price1, ROI: &roi1},
		{ID: "property_2", Price: &price2, ROI: &roi2},
		{ID: "property_3"}, // без цены и ROI
	}, nil).Once()
	repo.On("ListPortfolios", mock.Anything, "uid-1").Return([]*models.Portfolio{
		{ID: "portfolio_1", DealPackages: json.RawMessage(`[{}, {}]`)},
		{ID: "portfolio_2"},
	}, nil).Once()
	repo.On("CountReports", mock.Anything, "uid-1").Return(4, nil).Once()

	svc := NewDataService(repo, newNoopLogger())

	stats, err := svc.UserStats(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.PropertyCount)
	assert.Equal(t, 2, stats.PortfolioCount)
	assert.Equal(t, 4, stats.ReportCount)
	assert.Equal(t, 2, stats.DealPackageCount)
	assert.Equal(t, 300000.0, stats.TotalValue)
	assert.InDelta(t, 8.0, stats.AvgROI, 0.0001)

	repo.AssertExpectations(t)
}
