package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReport_CalculateStats(t *testing.T) {
	r := Report{Properties: json.RawMessage(`[{"roi": 6}, {"roi": 10}, {}]`)}
	r.CalculateStats()

	assert.Equal(t, 3, r.PropertyCount)
	assert.InDelta(t, 8.0, r.AvgROI, 0.0001)
}

func TestImportReport_ToReport(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	record := ImportReport{
		ID:          "report_abc",
		Title:       "Q2 Analysis",
		GeneratedAt: "not-a-date",
		Properties:  json.RawMessage(`[{"roi": 12}]`),
	}
	report := record.ToReport("uid-1", now)

	assert.Equal(t, "uid-1", report.UserUID)
	// Нечитаемая дата заменяется текущим временем
	assert.Equal(t, now, report.GeneratedAt)
	assert.Equal(t, "investment_analysis", report.ReportType)
	assert.Equal(t, 1, report.PropertyCount)
}

func TestImportRecords_Valid(t *testing.T) {
	assert.False(t, ImportProperty{ID: "property_1"}.Valid())
	assert.False(t, ImportProperty{Address: "1 Main St"}.Valid())
	assert.True(t, ImportProperty{ID: "property_1", Address: "1 Main St"}.Valid())

	assert.False(t, ImportPortfolio{ID: "portfolio_1"}.Valid())
	assert.True(t, ImportPortfolio{ID: "portfolio_1", Name: "My Portfolio"}.Valid())

	assert.False(t, ImportReport{Title: "Report"}.Valid())
	assert.True(t, ImportReport{ID: "report_1", Title: "Report"}.Valid())
}
