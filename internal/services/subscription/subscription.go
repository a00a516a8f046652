// Package services содержит бизнес-логику пробного периода и подписки:
// пересчёт статуса, оформление, отмену, апгрейд и историю платежей.
package services

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/GisoInvest/giso-invest-auth-backend/internal/lib/trial"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/models"
)

// Ошибки бизнес-правил подписки.
var (
	// ErrInvalidPlan возвращается на тариф вне иерархии платных планов.
	ErrInvalidPlan = errors.New("invalid plan selected")
	// ErrNoActiveSubscription возвращается при отмене без активной подписки.
	ErrNoActiveSubscription = errors.New("no active subscription to cancel")
	// ErrPlanDowngrade возвращается при попытке перейти на план не выше текущего.
	ErrPlanDowngrade = errors.New("can only upgrade to a higher plan")
	// ErrNotCancelled возвращается при реактивации подписки не в статусе cancelled.
	ErrNotCancelled = errors.New("no cancelled subscription to reactivate")
)

// billingPeriodDays — длительность платёжного периода подписки.
const billingPeriodDays = 30

// planAmounts — стоимость тарифов в месяц.
var planAmounts = map[string]float64{
	trial.PlanStarter:      49.00,
	trial.PlanProfessional: 99.00,
	trial.PlanEnterprise:   199.00,
}

// UserRepository определяет методы хранилища, нужные сервису подписок.
type UserRepository interface {
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// UpdateTrialState сохраняет пересчитанный статус пробного периода.
	UpdateTrialState(ctx context.Context, userUID string, daysUsed int,
		status string, paymentRequired bool, checkedAt time.Time) error
	// UpdateSubscription сохраняет поля тарифа и платёжные даты.
	UpdateSubscription(ctx context.Context, user *models.User) error
}

// SubscriptionService реализует машину состояний пробного периода и подписки.
type SubscriptionService struct {
	users UserRepository
	log   *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(users UserRepository, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		users: users,
		log:   log,
	}
}

// Status пересчитывает состояние пробного периода на текущий момент и
// синхронизирует денормализованный кэш в базе. Вызов идемпотентен:
// повторный запрос с тем же состоянием ничего не меняет.
func (s *SubscriptionService) Status(ctx context.Context, userUID string) (*models.User, trial.Result, error) {
	const op = "services.subscription.Status"

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, trial.Result{}, err
	}

	now := time.Now().UTC()
	res := trial.Calculate(now, user.TrialStartDate, user.TrialEndDate,
		user.TrialActive, user.SubscriptionPlan, user.SubscriptionStatus)

	status := user.SubscriptionStatus
	if res.IsExpired && !res.HasPaid && status == trial.StatusTrialActive {
		status = trial.StatusTrialExpired
	}

	if err := s.users.UpdateTrialState(ctx, userUID, res.DaysUsed, status, res.PaymentRequired, now); err != nil {
		return nil, trial.Result{}, fmt.Errorf("%s: %w", op, err)
	}

	user.SubscriptionStatus = status
	user.TrialDaysUsed = res.DaysUsed
	user.PaymentRequired = res.PaymentRequired
	user.LastTrialCheck = &now
	return user, res, nil
}

// Create оформляет платную подписку: платёж считается успешным, тариф
// становится активным, пробный период отключается.
func (s *SubscriptionService) Create(ctx context.Context, userUID, plan, paymentMethodID string) (*models.User, error) {
	const op = "services.subscription.Create"

	if !trial.IsPaid(plan) {
		return nil, ErrInvalidPlan
	}

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	end := now.AddDate(0, 0, billingPeriodDays)
	user.SubscriptionPlan = plan
	user.SubscriptionStatus = trial.StatusActive
	user.SubscriptionStartDate = &now
	user.SubscriptionEndDate = &end
	user.LastPaymentDate = &now
	user.NextBillingDate = &end
	user.TrialActive = false
	user.PaymentRequired = false

	if err := s.users.UpdateSubscription(ctx, user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("subscription created",
		slog.String("uid", userUID),
		slog.String("plan", plan),
		slog.String("payment_method", paymentMethodID))
	return user, nil
}

// Cancel отменяет активную подписку. Пользователь переводится на план free,
// повторный пробный период не начинается.
func (s *SubscriptionService) Cancel(ctx context.Context, userUID string) (*models.User, error) {
	const op = "services.subscription.Cancel"

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if user.SubscriptionStatus != trial.StatusActive {
		return nil, ErrNoActiveSubscription
	}

	now := time.Now().UTC()
	user.SubscriptionPlan = trial.PlanFree
	user.SubscriptionStatus = trial.StatusCancelled
	user.SubscriptionEndDate = &now
	user.NextBillingDate = nil
	user.PaymentRequired = false

	if err := s.users.UpdateSubscription(ctx, user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("subscription cancelled", slog.String("uid", userUID))
	return user, nil
}

// Upgrade переводит активную подписку на план строго выше текущего.
// Даты биллинга при апгрейде не сдвигаются.
func (s *SubscriptionService) Upgrade(ctx context.Context, userUID, newPlan string) (*models.User, error) {
	const op = "services.subscription.Upgrade"

	if !trial.IsPaid(newPlan) {
		return nil, ErrInvalidPlan
	}

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if !trial.CanUpgrade(user.SubscriptionPlan, newPlan) {
		return nil, ErrPlanDowngrade
	}

	user.SubscriptionPlan = newPlan
	if err := s.users.UpdateSubscription(ctx, user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("subscription upgraded",
		slog.String("uid", userUID), slog.String("plan", newPlan))
	return user, nil
}

// Reactivate возобновляет отменённую подписку на выбранном платном тарифе
// с новым платёжным периодом. Пробный период повторно не выдаётся.
func (s *SubscriptionService) Reactivate(ctx context.Context, userUID, plan string) (*models.User, error) {
	const op = "services.subscription.Reactivate"

	if !trial.IsPaid(plan) {
		return nil, ErrInvalidPlan
	}

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if user.SubscriptionStatus != trial.StatusCancelled {
		return nil, ErrNotCancelled
	}

	now := time.Now().UTC()
	end := now.AddDate(0, 0, billingPeriodDays)
	user.SubscriptionPlan = plan
	user.SubscriptionStatus = trial.StatusActive
	user.SubscriptionStartDate = &now
	user.SubscriptionEndDate = &end
	user.LastPaymentDate = &now
	user.NextBillingDate = &end
	user.PaymentRequired = false

	if err := s.users.UpdateSubscription(ctx, user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("subscription reactivated",
		slog.String("uid", userUID), slog.String("plan", plan))
	return user, nil
}

// BillingHistory возвращает историю платежей пользователя. Пока платёжный
// провайдер не подключён, история синтезируется из текущего тарифа.
func (s *SubscriptionService) BillingHistory(ctx context.Context, userUID string) ([]models.BillingRecord, error) {
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}

	if !trial.IsPaid(user.SubscriptionPlan) {
		return []models.BillingRecord{}, nil
	}

	return []models.BillingRecord{
		{
			ID:     "inv_" + newInvoiceID(),
			Date:   user.SubscriptionStartDate,
			Amount: planAmounts[user.SubscriptionPlan],
			Status: "paid",
			Plan:   user.SubscriptionPlan,
		},
	}, nil
}

func newInvoiceID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])[:16]
}
