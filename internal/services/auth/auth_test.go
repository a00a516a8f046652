package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GisoInvest/giso-invest-auth-backend/internal/lib/jwt"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/lib/password"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/lib/trial"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/models"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/storage/repository"
)

type UsersMock struct{ mock.Mock }

func (m *UsersMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}
func (m *UsersMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *UsersMock) GetUserByUsernameOrEmail(ctx context.Context, identifier string) (*models.User, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *UsersMock) UpdateLastLogin(ctx context.Context, userUID string, at time.Time) error {
	return m.Called(ctx, userUID, at).Error(0)
}
func (m *UsersMock) UpdateProfile(ctx context.Context, userUID, username, email string) error {
	return m.Called(ctx, userUID, username, email).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestAuthService_Register(t *testing.T) {
	users := new(UsersMock)
	users.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Username == "testuser" &&
			u.Email == "test@example.com" &&
			u.SubscriptionPlan == trial.PlanTrial &&
			u.SubscriptionStatus == trial.StatusTrialActive &&
			u.TrialActive &&
			u.TrialEndDate.Sub(u.TrialStartDate) == time.Duration(trial.Days)*24*time.Hour
	})).Return("uid-1", nil).Once()

	svc := NewAuthService(users, jwt.NewJWTMaker("secret", time.Hour), newNoopLogger())

	user, token, err := svc.Register(context.Background(), "testuser", "test@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", user.UID)
	assert.NotEmpty(t, token)
	assert.NotNil(t, user.LastLogin)
	// Хэш пароля проверяется исходным паролем
	assert.NoError(t, password.CompareHash(user.PasswordHash, "password123"))

	users.AssertExpectations(t)
}

func TestAuthService_Register_UsernameTaken(t *testing.T) {
	users := new(UsersMock)
	users.On("RegisterUser", mock.Anything, mock.Anything).
		Return("", repository.ErrUsernameTaken).Once()

	svc := NewAuthService(users, jwt.NewJWTMaker("secret", time.Hour), newNoopLogger())

	_, _, err := svc.Register(context.Background(), "testuser", "test@example.com", "password123")
	assert.ErrorIs(t, err, repository.ErrUsernameTaken)
}

func TestAuthService_Login(t *testing.T) {
	hashed, err := password.GetHash("password123")
	require.NoError(t, err)

	stored := &models.User{
		UID:          "uid-1",
		Username:     "testuser",
		Email:        "test@example.com",
		PasswordHash: hashed,
	}

	tests := []struct {
		name       string
		identifier string
		password   string
		setupMock  func(m *UsersMock)
		wantErr    error
	}{
		{
			name:       "успешный вход по имени",
			identifier: "testuser",
			password:   "password123",
			setupMock: func(m *UsersMock) {
				m.On("GetUserByUsernameOrEmail", mock.Anything, "testuser").Return(stored, nil).Once()
				m.On("UpdateLastLogin", mock.Anything, "uid-1", mock.Anything).Return(nil).Once()
			},
		},
		{
			name:       "неверный пароль",
			identifier: "testuser",
			password:   "wrongpassword",
			setupMock: func(m *UsersMock) {
				m.On("GetUserByUsernameOrEmail", mock.Anything, "testuser").Return(stored, nil).Once()
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:       "пользователь не найден",
			identifier: "ghost",
			password:   "password123",
			setupMock: func(m *UsersMock) {
				m.On("GetUserByUsernameOrEmail", mock.Anything, "ghost").
					Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UsersMock)
			tt.setupMock(users)

			svc := NewAuthService(users, jwt.NewJWTMaker("secret", time.Hour), newNoopLogger())
			user, token, err := svc.Login(context.Background(), tt.identifier, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "uid-1", user.UID)
				assert.NotEmpty(t, token)
			}
			users.AssertExpectations(t)
		})
	}
}

func TestAuthService_UpdateProfile_KeepsEmptyFields(t *testing.T) {
	users := new(UsersMock)
	users.On("GetUser", mock.Anything, "uid-1").Return(&models.User{
		UID:      "uid-1",
		Username: "olduser",
		Email:    "old@example.com",
	}, nil).Once()
	users.On("UpdateProfile", mock.Anything, "uid-1", "olduser", "new@example.com").Return(nil).Once()

	svc := NewAuthService(users, jwt.NewJWTMaker("secret", time.Hour), newNoopLogger())

	user, err := svc.UpdateProfile(context.Background(), "uid-1", "", "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, "olduser", user.Username)
	assert.Equal(t, "new@example.com", user.Email)

	users.AssertExpectations(t)
}
