// Package services содержит бизнес-логику комбинированных операций над
// данными пользователя: миграцию всех сущностей одним запросом и сводную
// статистику.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/GisoInvest/giso-invest-auth-backend/internal/models"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/storage/repository"
)

// UserDataRepository определяет методы хранилища, нужные комбинированным операциям.
type UserDataRepository interface {
	// ListProperties возвращает все объекты владельца.
	ListProperties(ctx context.Context, userUID string) ([]*models.Property, error)
	// ListPortfolios возвращает все портфели владельца.
	ListPortfolios(ctx context.Context, userUID string) ([]*models.Portfolio, error)
	// CountReports возвращает число отчётов владельца.
	CountReports(ctx context.Context, userUID string) (int, error)
	// ImportAll вставляет объекты, портфели и отчёты в одной транзакции.
	ImportAll(ctx context.Context, properties []models.Property,
		portfolios []models.Portfolio, reports []models.Report,
	) (propCounts, portCounts, repCounts repository.ImportCounts, err error)
}

// MigratePayload — тело комбинированного запроса миграции. Отсутствующие
// секции трактуются как пустые списки.
type MigratePayload struct {
	Properties []models.ImportProperty  `json:"properties"`
	Portfolios []models.ImportPortfolio `json:"portfolios"`
	Reports    []models.ImportReport    `json:"reports"`
}

// EntityResult — итог миграции одной сущности.
type EntityResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// MigrateResults — итог комбинированной миграции по всем сущностям.
type MigrateResults struct {
	Properties EntityResult `json:"properties"`
	Portfolios EntityResult `json:"portfolios"`
	Reports    EntityResult `json:"reports"`
}

// Stats — сводная статистика по данным пользователя.
type Stats struct {
	PropertyCount    int     `json:"property_count"`
	PortfolioCount   int     `json:"portfolio_count"`
	ReportCount      int     `json:"report_count"`
	DealPackageCount int     `json:"deal_package_count"`
	TotalValue       float64 `json:"total_value"`
	AvgROI           float64 `json:"avg_roi"`
}

// DataService реализует комбинированные операции над данными пользователя.
type DataService struct {
	repo UserDataRepository
	log  *slog.Logger
}

// NewDataService создает новый экземпляр DataService.
func NewDataService(repo UserDataRepository, log *slog.Logger) *DataService {
	return &DataService{
		repo: repo,
		log:  log,
	}
}

// Migrate выполняет идемпотентный импорт всех сущностей пользователя одной
// транзакцией: либо фиксируются все вставки запроса, либо ни одной. Записи
// без обязательных полей и дубликаты считаются пропущенными.
func (s *DataService) Migrate(ctx context.Context, userUID string, payload MigratePayload) (MigrateResults, error) {
	now := time.Now().UTC()
	var results MigrateResults

	properties := make([]models.Property, 0, len(payload.Properties))
	for _, record := range payload.Properties {
		if !record.Valid() {
			results.Properties.Skipped++
			continue
		}
		properties = append(properties, record.ToProperty(userUID, now))
	}

	portfolios := make([]models.Portfolio, 0, len(payload.Portfolios))
	for _, record := range payload.Portfolios {
		if !record.Valid() {
			results.Portfolios.Skipped++
			continue
		}
		portfolios = append(portfolios, record.ToPortfolio(userUID, now))
	}

	reports := make([]models.Report, 0, len(payload.Reports))
	for _, record := range payload.Reports {
		if !record.Valid() {
			results.Reports.Skipped++
			continue
		}
		reports = append(reports, record.ToReport(userUID, now))
	}

	propCounts, portCounts, repCounts, err := s.repo.ImportAll(ctx, properties, portfolios, reports)
	if err != nil {
		return MigrateResults{}, err
	}

	results.Properties.Imported = propCounts.Imported
	results.Properties.Skipped += propCounts.Skipped
	results.Portfolios.Imported = portCounts.Imported
	results.Portfolios.Skipped += portCounts.Skipped
	results.Reports.Imported = repCounts.Imported
	results.Reports.Skipped += repCounts.Skipped

	s.log.Info("migrated user data",
		slog.Int("properties_imported", results.Properties.Imported),
		slog.Int("portfolios_imported", results.Portfolios.Imported),
		slog.Int("reports_imported", results.Reports.Imported))
	return results, nil
}

// UserStats собирает сводную статистику: количество сущностей, суммарную
// стоимость объектов и средний ROI по объектам с заполненным значением.
func (s *DataService) UserStats(ctx context.Context, userUID string) (Stats, error) {
	properties, err := s.repo.ListProperties(ctx, userUID)
	if err != nil {
		return Stats{}, err
	}
	portfolios, err := s.repo.ListPortfolios(ctx, userUID)
	if err != nil {
		return Stats{}, err
	}
	reportCount, err := s.repo.CountReports(ctx, userUID)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{
		PropertyCount:  len(properties),
		PortfolioCount: len(portfolios),
		ReportCount:    reportCount,
	}

	var totalROI float64
	var roiCount int
	for _, p := range properties {
		if p.Price != nil {
			stats.TotalValue += *p.Price
		}
		if p.ROI != nil {
			totalROI += *p.ROI
			roiCount++
		}
	}
	if roiCount > 0 {
		stats.AvgROI = totalROI / float64(roiCount)
	}

	for _, p := range portfolios {
		stats.DealPackageCount += p.DealPackageCount()
	}
	return stats, nil
}
