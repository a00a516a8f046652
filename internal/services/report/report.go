// Package services содержит бизнес-логику отчётов: создание, чтение,
// удаление и идемпотентный импорт из клиентского хранилища.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/GisoInvest/giso-invest-auth-backend/internal/lib/entityid"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/models"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/storage/repository"
)

// defaultReportType подставляется, когда тип отчёта не указан.
const defaultReportType = "investment_analysis"

// ReportRepository определяет методы хранилища отчётов.
type ReportRepository interface {
	// ListReports возвращает все отчёты владельца.
	ListReports(ctx context.Context, userUID string) ([]*models.Report, error)
	// GetReport возвращает отчёт владельца по ID.
	GetReport(ctx context.Context, userUID, id string) (*models.Report, error)
	// CreateReport сохраняет новый отчёт.
	CreateReport(ctx context.Context, r models.Report) error
	// RemoveReport удаляет отчёт владельца по ID.
	RemoveReport(ctx context.Context, userUID, id string) error
	// ImportReports вставляет пакет отчётов, пропуская дубликаты.
	ImportReports(ctx context.Context, items []models.Report) (repository.ImportCounts, error)
}

// ReportService реализует бизнес-логику отчётов.
type ReportService struct {
	repo ReportRepository
	log  *slog.Logger
}

// NewReportService создает новый экземпляр ReportService.
func NewReportService(repo ReportRepository, log *slog.Logger) *ReportService {
	return &ReportService{
		repo: repo,
		log:  log,
	}
}

// List возвращает все отчёты владельца.
func (s *ReportService) List(ctx context.Context, userUID string) ([]*models.Report, error) {
	return s.repo.ListReports(ctx, userUID)
}

// Read возвращает отчёт владельца по ID.
func (s *ReportService) Read(ctx context.Context, userUID, id string) (*models.Report, error) {
	return s.repo.GetReport(ctx, userUID, id)
}

// Create сохраняет новый отчёт владельца. Статистика по объектам отчёта
// рассчитывается на сервере из переданного документа.
func (s *ReportService) Create(ctx context.Context, userUID string, req models.DummyReport) (*models.Report, error) {
	reportType := req.ReportType
	if reportType == "" {
		reportType = defaultReportType
	}

	report := models.Report{
		ID:          entityid.New("report"),
		UserUID:     userUID,
		Title:       req.Title,
		GeneratedAt: time.Now().UTC(),
		ReportType:  reportType,
		Content:     req.Content,
		Properties:  req.Properties,
	}
	report.CalculateStats()

	if err := s.repo.CreateReport(ctx, report); err != nil {
		return nil, err
	}

	s.log.Info("created report", slog.String("id", report.ID))
	return &report, nil
}

// Remove удаляет отчёт владельца по ID.
func (s *ReportService) Remove(ctx context.Context, userUID, id string) error {
	if err := s.repo.RemoveReport(ctx, userUID, id); err != nil {
		return err
	}
	s.log.Info("removed report", slog.String("id", id))
	return nil
}

// Migrate выполняет идемпотентный импорт отчётов из клиентского хранилища.
func (s *ReportService) Migrate(ctx context.Context, userUID string, payload []models.ImportReport) (imported, skipped int, err error) {
	now := time.Now().UTC()
	items := make([]models.Report, 0, len(payload))
	for _, record := range payload {
		if !record.Valid() {
			skipped++
			continue
		}
		items = append(items, record.ToReport(userUID, now))
	}

	counts, err := s.repo.ImportReports(ctx, items)
	if err != nil {
		return 0, 0, err
	}

	s.log.Info("migrated reports",
		slog.Int("imported", counts.Imported),
		slog.Int("skipped", skipped+counts.Skipped))
	return counts.Imported, skipped + counts.Skipped, nil
}
