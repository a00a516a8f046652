package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/GisoInvest/giso-invest-auth-backend/internal/models"
)

const portfolioColumns = `id, user_id, name, description, created_at, updated_at, total_value,
			      total_properties, avg_roi, share_id, is_public, deal_packages`

// ListPortfolios возвращает все портфели владельца.
func (s *Storage) ListPortfolios(ctx context.Context, userUID string) ([]*models.Portfolio, error) {
	const op = "storage.ListPortfolios"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + portfolioColumns + `
			  FROM portfolios
			  WHERE user_id = $1
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Portfolio
	for rows.Next() {
		p, err := scanPortfolio(rows)
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

// GetPortfolio возвращает портфель по ID, ограничиваясь записями владельца.
func (s *Storage) GetPortfolio(ctx context.Context, userUID, id string) (*models.Portfolio, error) {
	const op = "storage.GetPortfolio"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + portfolioColumns + `
			  FROM portfolios
			  WHERE id = $1 AND user_id = $2`
	row := s.DB.QueryRowContext(ctx, query, id, userUID)
	p, err := scanPortfolio(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// GetSharedPortfolio возвращает портфель по публичному share_id.
// Непубличные портфели не видны независимо от владельца.
func (s *Storage) GetSharedPortfolio(ctx context.Context, shareID string) (*models.Portfolio, error) {
	const op = "storage.GetSharedPortfolio"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + portfolioColumns + `
			  FROM portfolios
			  WHERE share_id = $1 AND is_public = TRUE`
	row := s.DB.QueryRowContext(ctx, query, shareID)
	p, err := scanPortfolio(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// CreatePortfolio вставляет новый портфель.
func (s *Storage) CreatePortfolio(ctx context.Context, p models.Portfolio) error {
	const op = "storage.CreatePortfolio"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO portfolios (` + portfolioColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := s.DB.ExecContext(ctx, query,
		p.ID, p.UserUID, p.Name, p.Description, p.CreatedAt, p.UpdatedAt,
		p.TotalValue, p.TotalProperties, p.AvgROI, nullString(p.ShareID), p.IsPublic,
		jsonArg(p.DealPackages))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%s: %w", op, ErrAlreadyExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdatePortfolio перезаписывает поля портфеля владельца, включая
// пересчитанную статистику.
func (s *Storage) UpdatePortfolio(ctx context.Context, p models.Portfolio) error {
	const op = "storage.UpdatePortfolio"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE portfolios
			  SET name = $1, description = $2, updated_at = $3, total_value = $4,
			      total_properties = $5, avg_roi = $6, share_id = $7, is_public = $8,
			      deal_packages = $9
			  WHERE id = $10 AND user_id = $11`
	result, err := s.DB.ExecContext(ctx, query,
		p.Name, p.Description, p.UpdatedAt, p.TotalValue, p.TotalProperties, p.AvgROI,
		nullString(p.ShareID), p.IsPublic, jsonArg(p.DealPackages), p.ID, p.UserUID)
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

// RemovePortfolio удаляет портфель владельца по ID.
func (s *Storage) RemovePortfolio(ctx context.Context, userUID, id string) error {
	const op = "storage.RemovePortfolio"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM portfolios WHERE id = $1 AND user_id = $2`
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

// nullString сохраняет пустую строку как NULL, чтобы не нарушать
// частичный индекс уникальности share_id.
func nullString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func scanPortfolio(row rowScanner) (*models.Portfolio, error) {
	p := &models.Portfolio{}
	var description, shareID sql.NullString
	if err := row.Scan(&p.ID, &p.UserUID, &p.Name, &description, &p.CreatedAt, &p.UpdatedAt,
		&p.TotalValue, &p.TotalProperties, &p.AvgROI, &shareID, &p.IsPublic,
		&p.DealPackages); err != nil {
		return nil, err
	}
	p.Description = description.String
	p.ShareID = shareID.String
	return p, nil
}
