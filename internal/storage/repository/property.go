package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/GisoInvest/giso-invest-auth-backend/internal/models"
)

const propertyColumns = `id, user_id, address, created_at, updated_at, price, monthly_rent,
			      bedrooms, bathrooms, property_type, strategy, roi, details, analysis`

// jsonArg подготавливает непрозрачный JSON-документ к записи: пустой документ
// сохраняется как NULL. Строковое представление нужно, чтобы драйвер не
// принял срез байт за bytea.
func jsonArg(v json.RawMessage) any {
	if len(v) == 0 {
		return nil
	}
	return string(v)
}

// ListProperties возвращает все объекты недвижимости владельца.
func (s *Storage) ListProperties(ctx context.Context, userUID string) ([]*models.Property, error) {
	const op = "storage.ListProperties"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + propertyColumns + `
			  FROM properties
			  WHERE user_id = $1
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetProperty возвращает объект по ID, ограничиваясь записями владельца.
// Чужой или неизвестный ID даёт ErrNotFound.
func (s *Storage) GetProperty(ctx context.Context, userUID, id string) (*models.Property, error) {
	const op = "storage.GetProperty"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + propertyColumns + `
			  FROM properties
			  WHERE id = $1 AND user_id = $2`
	row := s.DB.QueryRowContext(ctx, query, id, userUID)
	p, err := scanProperty(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// CreateProperty вставляет новый объект недвижимости.
func (s *Storage) CreateProperty(ctx context.Context, p models.Property) error {
	const op = "storage.CreateProperty"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO properties (` + propertyColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := s.DB.ExecContext(ctx, query,
		p.ID, p.UserUID, p.Address, p.CreatedAt, p.UpdatedAt, p.Price, p.MonthlyRent,
		p.Bedrooms, p.Bathrooms, p.PropertyType, p.Strategy, p.ROI,
		jsonArg(p.Details), jsonArg(p.Analysis))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%s: %w", op, ErrAlreadyExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateProperty перезаписывает поля объекта владельца.
func (s *Storage) UpdateProperty(ctx context.Context, p models.Property) error {
	const op = "storage.UpdateProperty"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE properties
			  SET address = $1, updated_at = $2, price = $3, monthly_rent = $4,
			      bedrooms = $5, bathrooms = $6, property_type = $7, strategy = $8,
			      roi = $9, details = $10, analysis = $11
			  WHERE id = $12 AND user_id = $13`
	result, err := s.DB.ExecContext(ctx, query,
		p.Address, p.UpdatedAt, p.Price, p.MonthlyRent, p.Bedrooms, p.Bathrooms,
		p.PropertyType, p.Strategy, p.ROI, jsonArg(p.Details), jsonArg(p.Analysis),
		p.ID, p.UserUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// RemoveProperty удаляет объект владельца по ID.
func (s *Storage) RemoveProperty(ctx context.Context, userUID, id string) error {
	const op = "storage.RemoveProperty"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM properties WHERE id = $1 AND user_id = $2`
	result, err := s.DB.ExecContext(ctx, query, id, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

func scanProperty(row rowScanner) (*models.Property, error) {
	p := &models.Property{}
	if err := row.Scan(&p.ID, &p.UserUID, &p.Address, &p.CreatedAt, &p.UpdatedAt,
		&p.Price, &p.MonthlyRent, &p.Bedrooms, &p.Bathrooms, &p.PropertyType,
		&p.Strategy, &p.ROI, &p.Details, &p.Analysis); err != nil {
		return nil, err
	}
	return p, nil
}
