package models

import (
	"encoding/json"
	"time"
)

// Portfolio представляет портфель сделок пользователя.
//
// DealPackages хранится как непрозрачный JSON-документ, форма на стороне
// клиента. Поля TotalValue, TotalProperties и AvgROI — производная
// статистика: любой записи пакетов сделок предшествует пересчёт через
// CalculateStats, сохранённые значения никогда не считаются источником истины.
type Portfolio struct {
	ID              string          `json:"id"`
	UserUID         string          `json:"user_id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	TotalValue      float64         `json:"total_value"`
	TotalProperties int             `json:"total_properties"`
	AvgROI          float64         `json:"avg_roi"`
	ShareID         string          `json:"share_id"`
	IsPublic        bool            `json:"is_public"`
	DealPackages    json.RawMessage `json:"deal_packages"`
}

// dealPackage — минимальная проекция пакета сделок для расчёта статистики.
// Остальные поля документа игнорируются и сохраняются как есть.
type dealPackage struct {
	TotalValue float64 `json:"totalValue"`
	Properties []struct {
		ROI *float64 `json:"roi"`
	} `json:"properties"`
}

// CalculateStats пересчитывает производную статистику портфеля из текущего
// содержимого DealPackages. Нечитаемый документ обнуляет статистику.
func (p *Portfolio) CalculateStats() {
	p.TotalValue = 0
	p.TotalProperties = 0
	p.AvgROI = 0

	if len(p.DealPackages) == 0 {
		return
	}

	var packages []dealPackage
	if err := json.Unmarshal(p.DealPackages, &packages); err != nil {
		return
	}

	var totalROI float64
	var roiCount int
	for _, pkg := range packages {
		p.TotalValue += pkg.TotalValue
		p.TotalProperties += len(pkg.Properties)
		for _, prop := range pkg.Properties {
			if prop.ROI != nil {
				totalROI += *prop.ROI
				roiCount++
			}
		}
	}
	if roiCount > 0 {
		p.AvgROI = totalROI / float64(roiCount)
	}
}

// DealPackageCount возвращает число пакетов сделок в документе DealPackages.
// Нечитаемый документ считается пустым.
func (p *Portfolio) DealPackageCount() int {
	if len(p.DealPackages) == 0 {
		return 0
	}
	var packages []json.RawMessage
	if err := json.Unmarshal(p.DealPackages, &packages); err != nil {
		return 0
	}
	return len(packages)
}

// DummyPortfolio используется для приёма данных портфеля из JSON-запроса.
type DummyPortfolio struct {
	Name         *string         `json:"name"`
	Description  *string         `json:"description"`
	IsPublic     *bool           `json:"is_public"`
	DealPackages json.RawMessage `json:"deal_packages"`
}

// ImportPortfolio — запись импорта портфеля из клиентского хранилища.
type ImportPortfolio struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	ShareID      string          `json:"share_id"`
	IsPublic     bool            `json:"is_public"`
	DealPackages json.RawMessage `json:"deal_packages"`
	CreatedAt    string          `json:"created_at"`
	UpdatedAt    string          `json:"updated_at"`
}

// Valid сообщает, содержит ли запись обязательные идентификационные поля.
func (p ImportPortfolio) Valid() bool {
	return p.ID != "" && p.Name != ""
}

// ToPortfolio конвертирует запись импорта в доменную модель, подставляя
// владельца, разбирая даты и пересчитывая статистику.
func (p ImportPortfolio) ToPortfolio(userUID string, now time.Time) Portfolio {
	portfolio := Portfolio{
		ID:           p.ID,
		UserUID:      userUID,
		Name:         p.Name,
		Description:  p.Description,
		CreatedAt:    ParseTimeOr(p.CreatedAt, now),
		UpdatedAt:    ParseTimeOr(p.UpdatedAt, now),
		ShareID:      p.ShareID,
		IsPublic:     p.IsPublic,
		DealPackages: p.DealPackages,
	}
	portfolio.CalculateStats()
	return portfolio
}
