// Package services содержит бизнес-логику работы с объектами недвижимости:
// CRUD в пределах владельца и идемпотентный импорт из клиентского хранилища.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/GisoInvest/giso-invest-auth-backend/internal/lib/entityid"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/models"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/storage/repository"
)

// ErrAddressRequired возвращается при создании объекта без адреса.
var ErrAddressRequired = errors.New("address is required")

// PropertyRepository определяет методы хранилища объектов недвижимости.
type PropertyRepository interface {
	// ListProperties возвращает все объекты владельца.
	ListProperties(ctx context.Context, userUID string) ([]*models.Property, error)
	// GetProperty возвращает объект владельца по ID.
	GetProperty(ctx context.Context, userUID, id string) (*models.Property, error)
	// CreateProperty сохраняет новый объект.
	CreateProperty(ctx context.Context, p models.Property) error
	// UpdateProperty обновляет существующий объект владельца.
	UpdateProperty(ctx context.Context, p models.Property) error
	// RemoveProperty удаляет объект владельца по ID.
	RemoveProperty(ctx context.Context, userUID, id string) error
	// ImportProperties вставляет пакет объектов, пропуская дубликаты.
	ImportProperties(ctx context.Context, items []models.Property) (repository.ImportCounts, error)
}

// PropertyService реализует бизнес-логику объектов недвижимости.
type PropertyService struct {
	repo PropertyRepository
	log  *slog.Logger
}

// NewPropertyService создает новый экземпляр PropertyService.
func NewPropertyService(repo PropertyRepository, log *slog.Logger) *PropertyService {
	return &PropertyService{
		repo: repo,
		log:  log,
	}
}

// List возвращает все объекты владельца.
func (s *PropertyService) List(ctx context.Context, userUID string) ([]*models.Property, error) {
	return s.repo.ListProperties(ctx, userUID)
}

// Read возвращает объект владельца по ID.
func (s *PropertyService) Read(ctx context.Context, userUID, id string) (*models.Property, error) {
	return s.repo.GetProperty(ctx, userUID, id)
}

// Create сохраняет новый объект недвижимости владельца и возвращает его.
// Идентификатор генерируется на сервере, переданный клиентом игнорируется.
func (s *PropertyService) Create(ctx context.Context, userUID string, req models.DummyProperty) (*models.Property, error) {
	if req.Address == nil || *req.Address == "" {
		return nil, ErrAddressRequired
	}

	now := time.Now().UTC()
	property := models.Property{
		ID:           entityid.New("property"),
		UserUID:      userUID,
		Address:      *req.Address,
		CreatedAt:    now,
		UpdatedAt:    now,
		Price:        req.Price,
		MonthlyRent:  req.MonthlyRent,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		PropertyType: req.PropertyType,
		Strategy:     req.Strategy,
		ROI:          req.ROI,
		Details:      req.Details,
		Analysis:     req.Analysis,
	}

	if err := s.repo.CreateProperty(ctx, property); err != nil {
		return nil, err
	}

	s.log.Info("created property", slog.String("id", property.ID))
	return &property, nil
}

// Update применяет частичное обновление к объекту владельца: переданные
// поля перезаписываются, отсутствующие остаются как есть.
func (s *PropertyService) Update(ctx context.Context, userUID, id string, req models.DummyProperty) (*models.Property, error) {
	property, err := s.repo.GetProperty(ctx, userUID, id)
	if err != nil {
		return nil, err
	}

	if req.Address != nil {
		property.Address = *req.Address
	}
	if req.Price != nil {
		property.Price = req.Price
	}
	if req.MonthlyRent != nil {
		property.MonthlyRent = req.MonthlyRent
	}
	if req.Bedrooms != nil {
		property.Bedrooms = req.Bedrooms
	}
	if req.Bathrooms != nil {
		property.Bathrooms = req.Bathrooms
	}
	if req.PropertyType != nil {
		property.PropertyType = req.PropertyType
	}
	if req.Strategy != nil {
		property.Strategy = req.Strategy
	}
	if req.ROI != nil {
		property.ROI = req.ROI
	}
	if req.Details != nil {
		property.Details = req.Details
	}
	if req.Analysis != nil {
		property.Analysis = req.Analysis
	}
	property.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateProperty(ctx, *property); err != nil {
		return nil, err
	}
	return property, nil
}

// Remove удаляет объект владельца по ID.
func (s *PropertyService) Remove(ctx context.Context, userUID, id string) error {
	if err := s.repo.RemoveProperty(ctx, userUID, id); err != nil {
		return err
	}
	s.log.Info("removed property", slog.String("id", id))
	return nil
}

// Migrate выполняет идемпотентный импорт объектов из клиентского хранилища.
// Записи без обязательных полей и дубликаты считаются пропущенными, владелец
// всегда берётся из токена.
func (s *PropertyService) Migrate(ctx context.Context, userUID string, payload []models.ImportProperty) (imported, skipped int, err error) {
	now := time.Now().UTC()
	items := make([]models.Property, 0, len(payload))
	for _, record := range payload {
		if !record.Valid() {
			skipped++
			continue
		}
		items = append(items, record.ToProperty(userUID, now))
	}

	counts, err := s.repo.ImportProperties(ctx, items)
	if err != nil {
		return 0, 0, err
	}

	s.log.Info("migrated properties",
		slog.Int("imported", counts.Imported),
		slog.Int("skipped", skipped+counts.Skipped))
	return counts.Imported, skipped + counts.Skipped, nil
}
