package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GisoInvest/giso-invest-auth-backend/internal/lib/trial"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/models"
)

func testUser(username, email string) models.User {
	now := time.Now().UTC()
	return models.User{
		Username:           username,
		Email:              email,
		PasswordHash:       "hashedpassword",
		TrialStartDate:     now,
		TrialEndDate:       now.AddDate(0, 0, trial.Days),
		TrialActive:        true,
		SubscriptionPlan:   trial.PlanTrial,
		SubscriptionStatus: trial.StatusTrialActive,
		CreatedAt:          now,
	}
}

func TestStorage_RegisterUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	uid, err := storage.RegisterUser(ctx, testUser("testuser", "test@example.com"))
	require.NoError(t, err)
	require.NotEmpty(t, uid)

	// Повторное имя пользователя
	_, err = storage.RegisterUser(ctx, testUser("testuser", "other@example.com"))
	assert.ErrorIs(t, err, ErrUsernameTaken)

	// Повторная почта
	_, err = storage.RegisterUser(ctx, testUser("otheruser", "test@example.com"))
	assert.ErrorIs(t, err, ErrEmailTaken)

	got, err := storage.GetUser(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "testuser", got.Username)
	assert.Equal(t, trial.StatusTrialActive, got.SubscriptionStatus)
	assert.True(t, got.TrialActive)
}

func TestStorage_GetUserByUsernameOrEmail(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "testuser", "test@example.com")

	byName, err := storage.GetUserByUsernameOrEmail(ctx, "testuser")
	require.NoError(t, err)
	assert.Equal(t, uid, byName.UID)

	byEmail, err := storage.GetUserByUsernameOrEmail(ctx, "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, uid, byEmail.UID)

	_, err = storage.GetUserByUsernameOrEmail(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_UpdateSubscription(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "testuser", "test@example.com")

	user, err := storage.GetUser(ctx, uid)
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Second)
	end := now.AddDate(0, 0, 30)
	user.SubscriptionPlan = trial.PlanProfessional
	user.SubscriptionStatus = trial.StatusActive
	user.TrialActive = false
	user.SubscriptionStartDate = &now
	user.SubscriptionEndDate = &end
	user.LastPaymentDate = &now
	user.NextBillingDate = &end

	require.NoError(t, storage.UpdateSubscription(ctx, user))

	got, err := storage.GetUser(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, trial.PlanProfessional, got.SubscriptionPlan)
	assert.Equal(t, trial.StatusActive, got.SubscriptionStatus)
	assert.False(t, got.TrialActive)
	require.NotNil(t, got.NextBillingDate)
	assert.WithinDuration(t, end, *got.NextBillingDate, time.Second)
}

func TestStorage_PropertyOwnership(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	owner := factory.CreateUser(t, "owner", "owner@example.com")
	stranger := factory.CreateUser(t, "stranger", "stranger@example.com")

	factory.CreateProperty(t, owner, "property_1", "12 Baker Street")

	// Владелец видит объект
	got, err := storage.GetProperty(ctx, owner, "property_1")
	require.NoError(t, err)
	assert.Equal(t, "12 Baker Street", got.Address)

	// Чужой объект неотличим от несуществующего
	_, err = storage.GetProperty(ctx, stranger, "property_1")
	assert.ErrorIs(t, err, ErrNotFound)

	err = storage.RemoveProperty(ctx, stranger, "property_1")
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := storage.ListProperties(ctx, stranger)
	require.NoError(t, err)
	assert.Empty(t, list)

	// Удаление владельцем проходит
	require.NoError(t, storage.RemoveProperty(ctx, owner, "property_1"))
	_, err = storage.GetProperty(ctx, owner, "property_1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_ImportProperties_Idempotent(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "testuser", "test@example.com")

	now := time.Now().UTC()
	items := []models.Property{
		{ID: "property_1", UserUID: uid, Address: "12 Baker Street", CreatedAt: now, UpdatedAt: now},
		{ID: "property_2", UserUID: uid, Address: "14 Baker Street", CreatedAt: now, UpdatedAt: now},
	}

	counts, err := storage.ImportProperties(ctx, items)
	require.NoError(t, err)
	assert.Equal(t, ImportCounts{Imported: 2, Skipped: 0}, counts)

	// Повторный импорт не создаёт дубликатов
	counts, err = storage.ImportProperties(ctx, items)
	require.NoError(t, err)
	assert.Equal(t, ImportCounts{Imported: 0, Skipped: 2}, counts)

	list, err := storage.ListProperties(ctx, uid)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestStorage_ImportAll(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "testuser", "test@example.com")

	now := time.Now().UTC()
	properties := []models.Property{
		{ID: "property_1", UserUID: uid, Address: "12 Baker Street", CreatedAt: now, UpdatedAt: now},
	}
	portfolios := []models.Portfolio{
		{ID: "portfolio_1", UserUID: uid, Name: "UK Portfolio", CreatedAt: now, UpdatedAt: now, ShareID: "share_1"},
	}
	reports := []models.Report{
		{ID: "report_1", UserUID: uid, Title: "Q1 Analysis", GeneratedAt: now, ReportType: "investment_analysis"},
	}

	propCounts, portCounts, repCounts, err := storage.ImportAll(ctx, properties, portfolios, reports)
	require.NoError(t, err)
	assert.Equal(t, ImportCounts{Imported: 1}, propCounts)
	assert.Equal(t, ImportCounts{Imported: 1}, portCounts)
	assert.Equal(t, ImportCounts{Imported: 1}, repCounts)

	// Повторный вызов полностью идемпотентен
	propCounts, portCounts, repCounts, err = storage.ImportAll(ctx, properties, portfolios, reports)
	require.NoError(t, err)
	assert.Equal(t, ImportCounts{Skipped: 1}, propCounts)
	assert.Equal(t, ImportCounts{Skipped: 1}, portCounts)
	assert.Equal(t, ImportCounts{Skipped: 1}, repCounts)

	count, err := storage.CountReports(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStorage_GetSharedPortfolio(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "testuser", "test@example.com")

	factory.CreatePortfolio(t, uid, "portfolio_pub", "Public", "share_pub", true)
	factory.CreatePortfolio(t, uid, "portfolio_priv", "Private", "share_priv", false)

	got, err := storage.GetSharedPortfolio(ctx, "share_pub")
	require.NoError(t, err)
	assert.Equal(t, "Public", got.Name)

	// Непубличный портфель по ссылке не отдаётся
	_, err = storage.GetSharedPortfolio(ctx, "share_priv")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = storage.GetSharedPortfolio(ctx, "share_ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_CreatePortfolio_Duplicate(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "testuser", "test@example.com")

	factory.CreatePortfolio(t, uid, "portfolio_1", "UK Portfolio", "share_1", false)

	now := time.Now().UTC()
	err := storage.CreatePortfolio(ctx, models.Portfolio{
		ID:        "portfolio_1",
		UserUID:   uid,
		Name:      "Duplicate",
		CreatedAt: now,
		UpdatedAt: now,
		ShareID:   "share_2",
	})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}
