package status

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/GisoInvest/giso-invest-auth-backend/internal/http/middlewarectx"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/lib/trial"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/models"
)

// MockService реализует интерфейс status.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Status(ctx context.Context, userUID string) (*models.User, trial.Result, error) {
	args := m.Called(ctx, userUID)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Get(1).(trial.Result), args.Error(2)
	}
	return nil, args.Get(1).(trial.Result), args.Error(2)
}

func TestStatusHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "активный пробный период",
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				user := &models.User{
					UID:                "uid-1",
					SubscriptionPlan:   trial.PlanTrial,
					SubscriptionStatus: trial.StatusTrialActive,
					TrialStartDate:     start,
					TrialEndDate:       start.AddDate(0, 0, trial.Days),
				}
				m.On("Status", mock.Anything, "uid-1").
					Return(user, trial.Result{IsActive: true, DaysRemaining: 5, CanAccess: true}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"is_trial_active":true`,
		},
		{
			name:    "истёкший пробный период",
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				user := &models.User{
					UID:                "uid-1",
					SubscriptionPlan:   trial.PlanTrial,
					SubscriptionStatus: trial.StatusTrialExpired,
					TrialStartDate:     start,
					TrialEndDate:       start.AddDate(0, 0, trial.Days),
				}
				m.On("Status", mock.Anything, "uid-1").
					Return(user, trial.Result{IsExpired: true, PaymentRequired: true}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"subscription_status":"trial_expired"`,
		},
		{
			name:           "запрос без идентификатора пользователя",
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:    "ошибка сервиса",
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("Status", mock.Anything, "uid-1").
					Return(nil, trial.Result{}, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"failed to get subscription status"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/subscription/status", nil)
			if tt.userUID != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, tt.userUID))
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
