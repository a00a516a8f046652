package models

import (
	"encoding/json"
	"time"
)

// Property представляет проанализированный объект недвижимости пользователя.
//
// Поля Details и Analysis — непрозрачные JSON-документы: сервер не
// валидирует их структуру, форма полностью на стороне клиента.
type Property struct {
	ID           string          `json:"id"`
	UserUID      string          `json:"user_id"`
	Address      string          `json:"address"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Price        *float64        `json:"price"`
	MonthlyRent  *float64        `json:"monthly_rent"`
	Bedrooms     *int            `json:"bedrooms"`
	Bathrooms    *int            `json:"bathrooms"`
	PropertyType *string         `json:"property_type"`
	Strategy     *string         `json:"strategy"`
	ROI          *float64        `json:"roi"`
	Details      json.RawMessage `json:"details"`
	Analysis     json.RawMessage `json:"analysis"`
}

// DummyProperty используется для приёма данных объекта из JSON-запроса.
// Указатели позволяют отличать отсутствующее поле от нулевого значения
// при частичном обновлении.
type DummyProperty struct {
	Address      *string         `json:"address"`
	Price        *float64        `json:"price"`
	MonthlyRent  *float64        `json:"monthly_rent"`
	Bedrooms     *int            `json:"bedrooms"`
	Bathrooms    *int            `json:"bathrooms"`
	PropertyType *string         `json:"property_type"`
	Strategy     *string         `json:"strategy"`
	ROI          *float64        `json:"roi"`
	Details      json.RawMessage `json:"details"`
	Analysis     json.RawMessage `json:"analysis"`
}

// ImportProperty — запись импорта объекта из клиентского хранилища.
// Даты приходят строками и парсятся вручную, некорректные значения
// заменяются текущим временем.
type ImportProperty struct {
	ID           string          `json:"id"`
	Address      string          `json:"address"`
	Price        *float64        `json:"price"`
	MonthlyRent  *float64        `json:"monthly_rent"`
	Bedrooms     *int            `json:"bedrooms"`
	Bathrooms    *int            `json:"bathrooms"`
	PropertyType *string         `json:"property_type"`
	Strategy     *string         `json:"strategy"`
	ROI          *float64        `json:"roi"`
	Details      json.RawMessage `json:"details"`
	Analysis     json.RawMessage `json:"analysis"`
	CreatedAt    string          `json:"created_at"`
	UpdatedAt    string          `json:"updated_at"`
}

// Valid сообщает, содержит ли запись обязательные идентификационные поля.
func (p ImportProperty) Valid() bool {
	return p.ID != "" && p.Address != ""
}

// ToProperty конвертирует запись импорта в доменную модель, подставляя
// владельца и разбирая даты. now используется как запасное значение
// для нечитаемых таймстемпов.
func (p ImportProperty) ToProperty(userUID string, now time.Time) Property {
	return Property{
		ID:           p.ID,
		UserUID:      userUID,
		Address:      p.Address,
		CreatedAt:    ParseTimeOr(p.CreatedAt, now),
		UpdatedAt:    ParseTimeOr(p.UpdatedAt, now),
		Price:        p.Price,
		MonthlyRent:  p.MonthlyRent,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		PropertyType: p.PropertyType,
		Strategy:     p.Strategy,
		ROI:          p.ROI,
		Details:      p.Details,
		Analysis:     p.Analysis,
	}
}

// ParseTimeOr разбирает таймстемп в формате RFC3339 и возвращает fallback,
// если строка пуста или не читается.
func ParseTimeOr(value string, fallback time.Time) time.Time {
	if value == "" {
		return fallback
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return fallback
	}
	return t
}
