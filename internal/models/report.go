package models

import (
	"encoding/json"
	"time"
)

// Report представляет сгенерированный пользователем отчёт.
//
// Content и Properties — непрозрачные JSON-документы. PropertyCount и
// AvgROI — производная статистика, пересчитываемая при каждой записи
// Properties через CalculateStats.
type Report struct {
	ID            string          `json:"id"`
	UserUID       string          `json:"user_id"`
	Title         string          `json:"title"`
	GeneratedAt   time.Time       `json:"generated_at"`
	ReportType    string          `json:"report_type"`
	Content       json.RawMessage `json:"content"`
	Properties    json.RawMessage `json:"properties"`
	PropertyCount int             `json:"property_count"`
	AvgROI        float64         `json:"avg_roi"`
}

// reportProperty — минимальная проекция объекта отчёта для расчёта статистики.
type reportProperty struct {
	ROI *float64 `json:"roi"`
}

// CalculateStats пересчитывает количество объектов и средний ROI из
// текущего содержимого Properties. Нечитаемый документ обнуляет статистику.
func (r *Report) CalculateStats() {
	r.PropertyCount = 0
	r.AvgROI = 0

	if len(r.Properties) == 0 {
		return
	}

	var props []reportProperty
	if err := json.Unmarshal(r.Properties, &props); err != nil {
		return
	}

	r.PropertyCount = len(props)

	var totalROI float64
	var roiCount int
	for _, prop := range props {
		if prop.ROI != nil {
			totalROI += *prop.ROI
			roiCount++
		}
	}
	if roiCount > 0 {
		r.AvgROI = totalROI / float64(roiCount)
	}
}

// DummyReport используется для приёма данных отчёта из JSON-запроса.
type DummyReport struct {
	Title      string          `json:"title" validate:"required"`
	ReportType string          `json:"report_type"`
	Content    json.RawMessage `json:"content"`
	Properties json.RawMessage `json:"properties"`
}

// ImportReport — запись импорта отчёта из клиентского хранилища.
type ImportReport struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	ReportType  string          `json:"report_type"`
	Content     json.RawMessage `json:"content"`
	Properties  json.RawMessage `json:"properties"`
	GeneratedAt string          `json:"generated_at"`
}

// Valid сообщает, содержит ли запись обязательные идентификационные поля.
func (r ImportReport) Valid() bool {
	return r.ID != "" && r.Title != ""
}

// ToReport конвертирует запись импорта в доменную модель, подставляя
// владельца, разбирая даты и пересчитывая статистику.
func (r ImportReport) ToReport(userUID string, now time.Time) Report {
	reportType := r.ReportType
	if reportType == "" {
		reportType = "investment_analysis"
	}
	report := Report{
		ID:          r.ID,
		UserUID:     userUID,
		Title:       r.Title,
		GeneratedAt: ParseTimeOr(r.GeneratedAt, now),
		ReportType:  reportType,
		Content:     r.Content,
		Properties:  r.Properties,
	}
	report.CalculateStats()
	return report
}
