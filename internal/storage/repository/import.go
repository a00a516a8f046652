package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/GisoInvest/giso-invest-auth-backend/internal/models"
)

// ImportCounts — итог пакетной вставки одной сущности.
type ImportCounts struct {
	Imported int
	Skipped  int
}

// ImportProperties вставляет пакет объектов недвижимости в одной транзакции.
// Дубликаты (id, user_id) пропускаются через ON CONFLICT DO NOTHING.
func (s *Storage) ImportProperties(ctx context.Context, items []models.Property) (ImportCounts, error) {
	const op = "storage.ImportProperties"

	var counts ImportCounts
	err := s.inTx(ctx, op, func(tx *sql.Tx) error {
		var err error
		counts, err = importPropertiesTx(ctx, tx, items)
		return err
	})
	return counts, err
}

// ImportPortfolios вставляет пакет портфелей в одной транзакции.
func (s *Storage) ImportPortfolios(ctx context.Context, items []models.Portfolio) (ImportCounts, error) {
	const op = "storage.ImportPortfolios"

	var counts ImportCounts
	err := s.inTx(ctx, op, func(tx *sql.Tx) error {
		var err error
		counts, err = importPortfoliosTx(ctx, tx, items)
		return err
	})
	return counts, err
}

// ImportReports вставляет пакет отчётов в одной транзакции.
func (s *Storage) ImportReports(ctx context.Context, items []models.Report) (ImportCounts, error) {
	const op = "storage.ImportReports"

	var counts ImportCounts
	err := s.inTx(ctx, op, func(tx *sql.Tx) error {
		var err error
		counts, err = importReportsTx(ctx, tx, items)
		return err
	})
	return counts, err
}

// ImportAll вставляет объекты, портфели и отчёты в одной общей транзакции:
// либо фиксируются все вставки запроса, либо ни одной.
func (s *Storage) ImportAll(ctx context.Context,
	properties []models.Property, portfolios []models.Portfolio, reports []models.Report,
) (propCounts, portCounts, repCounts ImportCounts, err error) {
	const op = "storage.ImportAll"

	err = s.inTx(ctx, op, func(tx *sql.Tx) error {
		var err error
		if propCounts, err = importPropertiesTx(ctx, tx, properties); err != nil {
			return err
		}
		if portCounts, err = importPortfoliosTx(ctx, tx, portfolios); err != nil {
			return err
		}
		repCounts, err = importReportsTx(ctx, tx, reports)
		return err
	})
	return propCounts, portCounts, repCounts, err
}

// inTx выполняет fn внутри транзакции и откатывает её при любой ошибке.
func (s *Storage) inTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func importPropertiesTx(ctx context.Context, tx *sql.Tx, items []models.Property) (ImportCounts, error) {
	query := `INSERT INTO properties (` + propertyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id, user_id) DO NOTHING`

	var counts ImportCounts
	for _, p := range items {
		result, err := tx.ExecContext(ctx, query,
			p.ID, p.UserUID, p.Address, p.CreatedAt, p.UpdatedAt,
			p.Price, p.MonthlyRent, p.Bedrooms, p.Bathrooms, p.PropertyType,
			p.Strategy, p.ROI, jsonArg(p.Details), jsonArg(p.Analysis))
		if err != nil {
			return ImportCounts{}, err
		}
		if err := tallyInsert(result, &counts); err != nil {
			return ImportCounts{}, err
		}
	}
	return counts, nil
}

func importPortfoliosTx(ctx context.Context, tx *sql.Tx, items []models.Portfolio) (ImportCounts, error) {
	query := `INSERT INTO portfolios (` + portfolioColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id, user_id) DO NOTHING`

	var counts ImportCounts
	for _, p := range items {
		result, err := tx.ExecContext(ctx, query,
			p.ID, p.UserUID, p.Name, p.Description, p.CreatedAt, p.UpdatedAt,
			p.TotalValue, p.TotalProperties, p.AvgROI, nullString(p.ShareID), p.IsPublic,
			jsonArg(p.DealPackages))
		if err != nil {
			return ImportCounts{}, err
		}
		if err := tallyInsert(result, &counts); err != nil {
			return ImportCounts{}, err
		}
	}
	return counts, nil
}

func importReportsTx(ctx context.Context, tx *sql.Tx, items []models.Report) (ImportCounts, error) {
	query := `INSERT INTO reports (` + reportColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id, user_id) DO NOTHING`

	var counts ImportCounts
	for _, r := range items {
		result, err := tx.ExecContext(ctx, query,
			r.ID, r.UserUID, r.Title, r.GeneratedAt, r.ReportType,
			jsonArg(r.Content), jsonArg(r.Properties), r.PropertyCount, r.AvgROI)
		if err != nil {
			return ImportCounts{}, err
		}
		if err := tallyInsert(result, &counts); err != nil {
			return ImportCounts{}, err
		}
	}
	return counts, nil
}

func tallyInsert(result sql.Result, counts *ImportCounts) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		counts.Skipped++
	} else {
		counts.Imported++
	}
	return nil
}
