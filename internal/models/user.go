// Package models содержит доменные структуры учётной записи, объектов
// недвижимости, портфелей и отчётов, а также вспомогательные типы для
// приёма данных из JSON-запросов.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
//
// Поля пробного периода и подписки — денормализованный кэш: источником
// истины служит чистый расчёт в пакете trial, кэш обновляется при каждом
// запросе статуса.
type User struct {
	UID                   string     `json:"id"`                      // Уникальный идентификатор пользователя
	Username              string     `json:"username"`                // Имя пользователя (уникальное)
	Email                 string     `json:"email"`                   // Электронная почта (уникальная)
	PasswordHash          string     `json:"-"`                       // Хэш пароля, наружу не отдаётся
	TrialStartDate        time.Time  `json:"trial_start_date"`        // Начало пробного периода
	TrialEndDate          time.Time  `json:"trial_end_date"`          // Конец пробного периода (start + 7 дней)
	TrialDaysUsed         int        `json:"trial_days_used"`         // Использовано дней пробного периода
	TrialActive           bool       `json:"trial_active"`            // Пробный период не отключён
	SubscriptionPlan      string     `json:"subscription_plan"`       // trial | free | starter | professional | enterprise
	SubscriptionStatus    string     `json:"subscription_status"`     // trial_active | trial_expired | active | cancelled
	PaymentRequired       bool       `json:"payment_required"`        // Производное: пробный период истёк и оплаты нет
	SubscriptionStartDate *time.Time `json:"subscription_start_date"` // Начало платной подписки
	SubscriptionEndDate   *time.Time `json:"subscription_end_date"`   // Конец платной подписки
	LastPaymentDate       *time.Time `json:"last_payment_date"`       // Дата последнего платежа
	NextBillingDate       *time.Time `json:"next_billing_date"`       // Дата следующего списания
	LastTrialCheck        *time.Time `json:"-"`                       // Время последнего пересчёта статуса
	CreatedAt             time.Time  `json:"created_at"`              // Дата регистрации
	LastLogin             *time.Time `json:"last_login"`              // Дата последнего входа
}

// BillingRecord описывает одну запись истории платежей пользователя.
type BillingRecord struct {
	ID     string     `json:"id"`
	Date   *time.Time `json:"date"`
	Amount float64    `json:"amount"`
	Status string     `json:"status"`
	Plan   string     `json:"plan"`
}
