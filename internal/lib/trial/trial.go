// Package trial реализует расчёт состояния пробного периода и подписки пользователя.
//
// Calculate — чистая функция от текущего времени, границ пробного периода
// и состояния тарифа. Повторный вызов с теми же аргументами всегда даёт
// одинаковый результат: никаких скрытых счётчиков здесь нет, производные
// поля в базе — лишь денормализованный кэш.
package trial

import "time"

// Days — длительность пробного периода в днях.
const Days = 7

// Тарифные планы.
const (
	PlanTrial        = "trial"
	PlanFree         = "free"
	PlanStarter      = "starter"
	PlanProfessional = "professional"
	PlanEnterprise   = "enterprise"
)

// Статусы подписки.
const (
	StatusTrialActive  = "trial_active"
	StatusTrialExpired = "trial_expired"
	StatusActive       = "active"
	StatusCancelled    = "cancelled"
)

// planRank задаёт иерархию платных планов. Планы вне иерархии имеют ранг 0.
var planRank = map[string]int{
	PlanStarter:      1,
	PlanProfessional: 2,
	PlanEnterprise:   3,
}

// Result описывает рассчитанное состояние пробного периода и права доступа.
type Result struct {
	IsActive        bool   `json:"is_active"`        // Пробный период ещё идёт
	IsExpired       bool   `json:"is_expired"`       // Пробный период закончился
	DaysRemaining   int    `json:"days_remaining"`   // Полных дней до конца, не меньше 0
	HoursRemaining  int    `json:"hours_remaining"`  // Полных часов до конца, не меньше 0
	DaysUsed        int    `json:"days_used"`        // Использовано дней пробного периода
	Status          string `json:"status"`           // "active" либо "expired"
	HasPaid         bool   `json:"has_paid"`         // Есть активная оплаченная подписка
	CanAccess       bool   `json:"can_access"`       // Доступ к приложению разрешён
	PaymentRequired bool   `json:"payment_required"` // Пробный период истёк и оплаты нет
}

// Calculate рассчитывает состояние пробного периода и права доступа на момент now.
//
// trialActive — флаг учётной записи: пробный период не отключён вручную
// (сбрасывается при оформлении платной подписки).
func Calculate(now, trialStart, trialEnd time.Time, trialActive bool, plan, status string) Result {
	expired := now.After(trialEnd)
	hasPaid := status == StatusActive && IsPaid(plan)
	onTrial := !expired && trialActive

	daysRemaining := 0
	hoursRemaining := 0
	if !expired {
		remaining := trialEnd.Sub(now)
		daysRemaining = int(remaining.Hours() / 24)
		hoursRemaining = int(remaining.Hours())
	}

	statusStr := "expired"
	if onTrial {
		statusStr = "active"
	}

	return Result{
		IsActive:        onTrial,
		IsExpired:       expired,
		DaysRemaining:   daysRemaining,
		HoursRemaining:  hoursRemaining,
		DaysUsed:        Days - daysRemaining,
		Status:          statusStr,
		HasPaid:         hasPaid,
		CanAccess:       onTrial || hasPaid,
		PaymentRequired: expired && !hasPaid,
	}
}

// IsPaid сообщает, является ли план платным (входит в иерархию тарифов).
func IsPaid(plan string) bool {
	return planRank[plan] > 0
}

// Rank возвращает положение плана в иерархии тарифов, 0 — план вне иерархии.
func Rank(plan string) int {
	return planRank[plan]
}

// CanUpgrade сообщает, допустим ли переход с плана current на план next.
// Разрешён только строгий рост ранга: даунгрейд и повтор того же плана запрещены.
func CanUpgrade(current, next string) bool {
	return planRank[next] > planRank[current]
}
