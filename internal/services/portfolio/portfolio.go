// Package services содержит бизнес-логику портфелей сделок: CRUD в пределах
// владельца, публичный доступ по ссылке с кешированием и идемпотентный импорт.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/GisoInvest/giso-invest-auth-backend/internal/lib/entityid"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/models"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/storage/repository"
)

// Ошибки бизнес-правил портфелей.
var (
	// ErrNameRequired возвращается при создании портфеля без имени.
	ErrNameRequired = errors.New("portfolio name is required")
	// ErrInvalidPayload возвращается на запись импорта без обязательных полей.
	ErrInvalidPayload = errors.New("invalid portfolio data")
	// ErrPortfolioExists возвращается при одиночном импорте уже существующего портфеля.
	ErrPortfolioExists = errors.New("portfolio already exists")
)

// sharedCacheTTL — время жизни публичного портфеля в кеше.
const sharedCacheTTL = time.Hour

// PortfolioRepository определяет методы хранилища портфелей.
type PortfolioRepository interface {
	// ListPortfolios возвращает все портфели владельца.
	ListPortfolios(ctx context.Context, userUID string) ([]*models.Portfolio, error)
	// GetPortfolio возвращает портфель владельца по ID.
	GetPortfolio(ctx context.Context, userUID, id string) (*models.Portfolio, error)
	// GetSharedPortfolio возвращает публичный портфель по ссылке.
	GetSharedPortfolio(ctx context.Context, shareID string) (*models.Portfolio, error)
	// CreatePortfolio сохраняет новый портфель.
	CreatePortfolio(ctx context.Context, p models.Portfolio) error
	// UpdatePortfolio обновляет существующий портфель владельца.
	UpdatePortfolio(ctx context.Context, p models.Portfolio) error
	// RemovePortfolio удаляет портфель владельца по ID.
	RemovePortfolio(ctx context.Context, userUID, id string) error
	// ImportPortfolios вставляет пакет портфелей, пропуская дубликаты.
	ImportPortfolios(ctx context.Context, items []models.Portfolio) (repository.ImportCounts, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// PortfolioService реализует бизнес-логику портфелей, включая кеширование
// публичных ссылок.
type PortfolioService struct {
	repo  PortfolioRepository
	cache Cache
	log   *slog.Logger
}

// NewPortfolioService создает новый экземпляр PortfolioService.
func NewPortfolioService(repo PortfolioRepository, cache Cache, log *slog.Logger) *PortfolioService {
	return &PortfolioService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// List возвращает все портфели владельца.
func (s *PortfolioService) List(ctx context.Context, userUID string) ([]*models.Portfolio, error) {
	return s.repo.ListPortfolios(ctx, userUID)
}

// Read возвращает портфель владельца по ID.
func (s *PortfolioService) Read(ctx context.Context, userUID, id string) (*models.Portfolio, error) {
	return s.repo.GetPortfolio(ctx, userUID, id)
}

// Create сохраняет новый портфель владельца. Идентификатор и публичная
// ссылка генерируются на сервере, портфель создаётся непубличным.
func (s *PortfolioService) Create(ctx context.Context, userUID string, req models.DummyPortfolio) (*models.Portfolio, error) {
	name := ""
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
	}
	if name == "" {
		return nil, ErrNameRequired
	}
	description := ""
	if req.Description != nil {
		description = strings.TrimSpace(*req.Description)
	}

	now := time.Now().UTC()
	portfolio := models.Portfolio{
		ID:           entityid.New("portfolio"),
		UserUID:      userUID,
		Name:         name,
		Description:  description,
		CreatedAt:    now,
		UpdatedAt:    now,
		ShareID:      entityid.New("share"),
		IsPublic:     false,
		DealPackages: req.DealPackages,
	}
	portfolio.CalculateStats()

	if err := s.repo.CreatePortfolio(ctx, portfolio); err != nil {
		return nil, err
	}

	s.log.Info("created portfolio", slog.String("id", portfolio.ID))
	return &portfolio, nil
}

// Update применяет частичное обновление к портфелю владельца. Запись пакетов
// сделок всегда сопровождается пересчётом статистики, публикация без ссылки
// генерирует её.
func (s *PortfolioService) Update(ctx context.Context, userUID, id string, req models.DummyPortfolio) (*models.Portfolio, error) {
	portfolio, err := s.repo.GetPortfolio(ctx, userUID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		portfolio.Name = name
	}
	if req.Description != nil {
		portfolio.Description = strings.TrimSpace(*req.Description)
	}
	if req.IsPublic != nil {
		portfolio.IsPublic = *req.IsPublic
		if portfolio.IsPublic && portfolio.ShareID == "" {
			portfolio.ShareID = entityid.New("share")
		}
	}
	if req.DealPackages != nil {
		portfolio.DealPackages = req.DealPackages
		portfolio.CalculateStats()
	}
	portfolio.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdatePortfolio(ctx, *portfolio); err != nil {
		return nil, err
	}
	s.invalidateShared(portfolio.ShareID)
	return portfolio, nil
}

// Remove удаляет портфель владельца по ID и инвалидирует кеш публичной ссылки.
func (s *PortfolioService) Remove(ctx context.Context, userUID, id string) error {
	portfolio, err := s.repo.GetPortfolio(ctx, userUID, id)
	if err != nil {
		return err
	}
	if err := s.repo.RemovePortfolio(ctx, userUID, id); err != nil {
		return err
	}
	s.invalidateShared(portfolio.ShareID)
	s.log.Info("removed portfolio", slog.String("id", id))
	return nil
}

// Shared возвращает публичный портфель по ссылке без аутентификации,
// используя кеш или репозиторий. Непубличные портфели неотличимы
// от несуществующих.
func (s *PortfolioService) Shared(ctx context.Context, shareID string) (*models.Portfolio, error) {
	var cached *models.Portfolio
	cacheKey := sharedCacheKey(shareID)
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read shared portfolio from cache",
			slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return cached, nil
	}

	portfolio, err := s.repo.GetSharedPortfolio(ctx, shareID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, portfolio, sharedCacheTTL); err != nil {
		s.log.Warn("failed to cache shared portfolio",
			slog.String("key", cacheKey), slog.Any("err", err))
	}
	return portfolio, nil
}

// Import выполняет одиночный импорт портфеля из клиентского хранилища.
// Уже существующий портфель с тем же ID — конфликт, а не перезапись.
func (s *PortfolioService) Import(ctx context.Context, userUID string, payload models.ImportPortfolio) (*models.Portfolio, error) {
	if !payload.Valid() {
		return nil, ErrInvalidPayload
	}

	portfolio := payload.ToPortfolio(userUID, time.Now().UTC())
	if err := s.repo.CreatePortfolio(ctx, portfolio); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrPortfolioExists
		}
		return nil, err
	}

	s.log.Info("imported portfolio", slog.String("id", portfolio.ID))
	return &portfolio, nil
}

// Migrate выполняет идемпотентный импорт портфелей из клиентского хранилища.
func (s *PortfolioService) Migrate(ctx context.Context, userUID string, payload []models.ImportPortfolio) (imported, skipped int, err error) {
	now := time.Now().UTC()
	items := make([]models.Portfolio, 0, len(payload))
	for _, record := range payload {
		if !record.Valid() {
			skipped++
			continue
		}
		items = append(items, record.ToPortfolio(userUID, now))
	}

	counts, err := s.repo.ImportPortfolios(ctx, items)
	if err != nil {
		return 0, 0, err
	}

	s.log.Info("migrated portfolios",
		slog.Int("imported", counts.Imported),
		slog.Int("skipped", skipped+counts.Skipped))
	return counts.Imported, skipped + counts.Skipped, nil
}

func (s *PortfolioService) invalidateShared(shareID string) {
	if shareID == "" {
		return
	}
	cacheKey := sharedCacheKey(shareID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate shared portfolio cache",
			slog.String("key", cacheKey), slog.Any("err", err))
	}
}

func sharedCacheKey(shareID string) string {
	return fmt.Sprintf("portfolio:share:%s", shareID)
}
