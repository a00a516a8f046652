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

const reportColumns = `id, user_id, title, generated_at, report_type, content, properties,
			      property_count, avg_roi`

// ListReports возвращает все отчёты владельца.
func (s *Storage) ListReports(ctx context.Context, userUID string) ([]*models.Report, error) {
	const op = "storage.ListReports"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + reportColumns + `
			  FROM reports
			  WHERE user_id = $1
			  ORDER BY generated_at`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetReport возвращает отчёт по ID, ограничиваясь записями владельца.
func (s *Storage) GetReport(ctx context.Context, userUID, id string) (*models.Report, error) {
	const op = "storage.GetReport"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + reportColumns + `
			  FROM reports
			  WHERE id = $1 AND user_id = $2`
	row := s.DB.QueryRowContext(ctx, query, id, userUID)
	r, err := scanReport(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return r, nil
}

// CreateReport вставляет новый отчёт.
func (s *Storage) CreateReport(ctx context.Context, r models.Report) error {
	const op = "storage.CreateReport"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO reports (` + reportColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := s.DB.ExecContext(ctx, query,
		r.ID, r.UserUID, r.Title, r.GeneratedAt, r.ReportType,
		jsonArg(r.Content), jsonArg(r.Properties), r.PropertyCount, r.AvgROI)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%s: %w", op, ErrAlreadyExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RemoveReport удаляет отчёт владельца по ID.
func (s *Storage) RemoveReport(ctx context.Context, userUID, id string) error {
	const op = "storage.RemoveReport"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM reports WHERE id = $1 AND user_id = $2`
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

// CountReports возвращает количество отчётов владельца.
func (s *Storage) CountReports(ctx context.Context, userUID string) (int, error) {
	const op = "storage.CountReports"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reports WHERE user_id = $1`, userUID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

func scanReport(row rowScanner) (*models.Report, error) {
	r := &models.Report{}
	if err := row.Scan(&r.ID, &r.UserUID, &r.Title, &r.GeneratedAt, &r.ReportType,
		&r.Content, &r.Properties, &r.PropertyCount, &r.AvgROI); err != nil {
		return nil, err
	}
	return r, nil
}
