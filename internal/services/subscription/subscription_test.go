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

	"github.com/GisoInvest/giso-invest-auth-backend/internal/lib/trial"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/models"
)

type UsersMock struct{ mock.Mock }

func (m *UsersMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *UsersMock) UpdateTrialState(ctx context.Context, userUID string, daysUsed int,
	status string, paymentRequired bool, checkedAt time.Time) error {
	return m.Called(ctx, userUID, daysUsed, status, paymentRequired, checkedAt).Error(0)
}
func (m *UsersMock) UpdateSubscription(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func trialUser(start time.Time) *models.User {
	return &models.User{
		UID:                "uid-1",
		Username:           "testuser",
		Email:              "test@example.com",
		TrialStartDate:     start,
		TrialEndDate:       start.AddDate(0, 0, trial.Days),
		TrialActive:        true,
		SubscriptionPlan:   trial.PlanTrial,
		SubscriptionStatus: trial.StatusTrialActive,
	}
}

func TestSubscriptionService_Status_ActiveTrial(t *testing.T) {
	users := new(UsersMock)
	users.On("GetUser", mock.Anything, "uid-1").
		Return(trialUser(time.Now().UTC().Add(-24*time.Hour)), nil).Once()
	users.On("UpdateTrialState", mock.Anything, "uid-1", mock.Anything,
		trial.StatusTrialActive, false, mock.Anything).Return(nil).Once()

	svc := NewSubscriptionService(users, newNoopLogger())

	user, res, err := svc.Status(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.True(t, res.IsActive)
	assert.False(t, res.PaymentRequired)
	assert.Equal(t, trial.StatusTrialActive, user.SubscriptionStatus)

	users.AssertExpectations(t)
}

func TestSubscriptionService_Status_ExpiresUnpaidTrial(t *testing.T) {
	users := new(UsersMock)
	// Пробный период начался 10 дней назад и не оплачен
	users.On("GetUser", mock.Anything, "uid-1").
		Return(trialUser(time.Now().UTC().AddDate(0, 0, -10)), nil).Once()
	users.On("UpdateTrialState", mock.Anything, "uid-1", trial.Days,
		trial.StatusTrialExpired, true, mock.Anything).Return(nil).Once()

	svc := NewSubscriptionService(users, newNoopLogger())

	user, res, err := svc.Status(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.True(t, res.IsExpired)
	assert.True(t, res.PaymentRequired)
	assert.Equal(t, trial.StatusTrialExpired, user.SubscriptionStatus)
	assert.NotNil(t, user.LastTrialCheck)

	users.AssertExpectations(t)
}

func TestSubscriptionService_Status_PaidUserKeepsAccess(t *testing.T) {
	paid := trialUser(time.Now().UTC().AddDate(0, 0, -30))
	paid.TrialActive = false
	paid.SubscriptionPlan = trial.PlanProfessional
	paid.SubscriptionStatus = trial.StatusActive

	users := new(UsersMock)
	users.On("GetUser", mock.Anything, "uid-1").Return(paid, nil).Once()
	users.On("UpdateTrialState", mock.Anything, "uid-1", trial.Days,
		trial.StatusActive, false, mock.Anything).Return(nil).Once()

	svc := NewSubscriptionService(users, newNoopLogger())

	user, res, err := svc.Status(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.True(t, res.HasPaid)
	assert.True(t, res.CanAccess)
	assert.Equal(t, trial.StatusActive, user.SubscriptionStatus)
}

func TestSubscriptionService_Create(t *testing.T) {
	tests := []struct {
		name      string
		plan      string
		setupMock func(m *UsersMock)
		wantErr   error
	}{
		{
			name: "оформление professional",
			plan: trial.PlanProfessional,
			setupMock: func(m *UsersMock) {
				m.On("GetUser", mock.Anything, "uid-1").
					Return(trialUser(time.Now().UTC()), nil).Once()
				m.On("UpdateSubscription", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
					return u.SubscriptionPlan == trial.PlanProfessional &&
						u.SubscriptionStatus == trial.StatusActive &&
						!u.TrialActive &&
						u.SubscriptionEndDate != nil &&
						u.SubscriptionEndDate.Sub(*u.SubscriptionStartDate) == 30*24*time.Hour
				})).Return(nil).Once()
			},
		},
		{
			name:      "недопустимый план",
			plan:      "premium",
			setupMock: func(_ *UsersMock) {},
			wantErr:   ErrInvalidPlan,
		},
		{
			name:      "free не является платным планом",
			plan:      trial.PlanFree,
			setupMock: func(_ *UsersMock) {},
			wantErr:   ErrInvalidPlan,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UsersMock)
			tt.setupMock(users)

			svc := NewSubscriptionService(users, newNoopLogger())
			user, err := svc.Create(context.Background(), "uid-1", tt.plan, "pm_123")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.plan, user.SubscriptionPlan)
				assert.False(t, user.PaymentRequired)
			}
			users.AssertExpectations(t)
		})
	}
}

func TestSubscriptionService_Cancel(t *testing.T) {
	active := trialUser(time.Now().UTC())
	active.SubscriptionPlan = trial.PlanStarter
	active.SubscriptionStatus = trial.StatusActive

	users := new(UsersMock)
	users.On("GetUser", mock.Anything, "uid-1").Return(active, nil).Once()
	users.On("UpdateSubscription", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.SubscriptionPlan == trial.PlanFree &&
			u.SubscriptionStatus == trial.StatusCancelled &&
			u.NextBillingDate == nil
	})).Return(nil).Once()

	svc := NewSubscriptionService(users, newNoopLogger())

	user, err := svc.Cancel(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, trial.StatusCancelled, user.SubscriptionStatus)

	users.AssertExpectations(t)
}

func TestSubscriptionService_Cancel_WithoutActiveSubscription(t *testing.T) {
	users := new(UsersMock)
	users.On("GetUser", mock.Anything, "uid-1").
		Return(trialUser(time.Now().UTC()), nil).Once()

	svc := NewSubscriptionService(users, newNoopLogger())

	_, err := svc.Cancel(context.Background(), "uid-1")
	assert.ErrorIs(t, err, ErrNoActiveSubscription)
}

func TestSubscriptionService_Upgrade(t *testing.T) {
	billingEnd := time.Now().UTC().AddDate(0, 0, 20)

	tests := []struct {
		name        string
		currentPlan string
		newPlan     string
		wantErr     error
	}{
		{"starter -> enterprise", trial.PlanStarter, trial.PlanEnterprise, nil},
		{"даунгрейд запрещён", trial.PlanEnterprise, trial.PlanStarter, ErrPlanDowngrade},
		{"повтор текущего плана запрещён", trial.PlanStarter, trial.PlanStarter, ErrPlanDowngrade},
		{"план вне иерархии", trial.PlanStarter, "vip", ErrInvalidPlan},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := trialUser(time.Now().UTC())
			current.SubscriptionPlan = tt.currentPlan
			current.SubscriptionStatus = trial.StatusActive
			current.NextBillingDate = &billingEnd

			users := new(UsersMock)
			if tt.wantErr != ErrInvalidPlan {
				users.On("GetUser", mock.Anything, "uid-1").Return(current, nil).Once()
			}
			if tt.wantErr == nil {
				users.On("UpdateSubscription", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
					// Даты биллинга при апгрейде не сдвигаются
					return u.SubscriptionPlan == tt.newPlan && u.NextBillingDate.Equal(billingEnd)
				})).Return(nil).Once()
			}

			svc := NewSubscriptionService(users, newNoopLogger())
			user, err := svc.Upgrade(context.Background(), "uid-1", tt.newPlan)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.newPlan, user.SubscriptionPlan)
			}
			users.AssertExpectations(t)
		})
	}
}

func TestSubscriptionService_Reactivate(t *testing.T) {
	cancelled := trialUser(time.Now().UTC())
	cancelled.SubscriptionPlan = trial.PlanFree
	cancelled.SubscriptionStatus = trial.StatusCancelled

	users := new(UsersMock)
	users.On("GetUser", mock.Anything, "uid-1").Return(cancelled, nil).Once()
	users.On("UpdateSubscription", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.SubscriptionPlan == trial.PlanStarter &&
			u.SubscriptionStatus == trial.StatusActive &&
			// Пробный период повторно не выдаётся
			!u.TrialActive
	})).Return(nil).Once()

	svc := NewSubscriptionService(users, newNoopLogger())

	user, err := svc.Reactivate(context.Background(), "uid-1", trial.PlanStarter)
	require.NoError(t, err)
	assert.Equal(t, trial.StatusActive, user.SubscriptionStatus)

	users.AssertExpectations(t)
}

func TestSubscriptionService_Reactivate_NotCancelled(t *testing.T) {
	users := new(UsersMock)
	users.On("GetUser", mock.Anything, "uid-1").
		Return(trialUser(time.Now().UTC()), nil).Once()

	svc := NewSubscriptionService(users, newNoopLogger())

	_, err := svc.Reactivate(context.Background(), "uid-1", trial.PlanStarter)
	assert.ErrorIs(t, err, ErrNotCancelled)
}

func TestSubscriptionService_BillingHistory(t *testing.T) {
	start := time.Now().UTC().AddDate(0, 0, -5)

	paid := trialUser(start)
	paid.SubscriptionPlan = trial.PlanProfessional
	paid.SubscriptionStatus = trial.StatusActive
	paid.SubscriptionStartDate = &start

	users := new(UsersMock)
	users.On("GetUser", mock.Anything, "uid-1").Return(paid, nil).Once()

	svc := NewSubscriptionService(users, newNoopLogger())

	history, err := svc.BillingHistory(context.Background(), "uid-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 99.00, history[0].Amount)
	assert.Equal(t, "paid", history[0].Status)
	assert.Contains(t, history[0].ID, "inv_")
}

func TestSubscriptionService_BillingHistory_TrialUserEmpty(t *testing.T) {
	users := new(UsersMock)
	users.On("GetUser", mock.Anything, "uid-1").
		Return(trialUser(time.Now().UTC()), nil).Once()

	svc := NewSubscriptionService(users, newNoopLogger())

	history, err := svc.BillingHistory(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Empty(t, history)
}
