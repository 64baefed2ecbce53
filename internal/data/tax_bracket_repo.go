package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/flashbackfa/entreprise-api/internal/data/pgxutil"
	"github.com/flashbackfa/entreprise-api/internal/domain/model"
)

const taxBracketListQuery = `
	SELECT id, min, max, rate
	FROM tax_brackets
	ORDER BY min ASC`

// TaxBracketRepo provides database operations for the tax scale.
type TaxBracketRepo struct {
	DB *sql.DB
}

// NewTaxBracketRepo creates a new TaxBracketRepo.
func NewTaxBracketRepo(db *sql.DB) *TaxBracketRepo {
	return &TaxBracketRepo{DB: db}
}

// List returns the stored scale in ascending order.
func (r *TaxBracketRepo) List(ctx context.Context) ([]model.TaxBracket, error) {
	var out []model.TaxBracket
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, taxBracketListQuery)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.TaxBracket])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list tax brackets: %w", err)
	}
	return out, nil
}

// Replace swaps the whole scale in one transaction so simulations never see a
// half-written scale.
func (r *TaxBracketRepo) Replace(ctx context.Context, brackets []model.TaxBracket) ([]model.TaxBracket, error) {
	var out []model.TaxBracket
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{
		Fn: func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, `DELETE FROM tax_brackets`); err != nil {
				return fmt.Errorf("clear tax brackets: %w", err)
			}
			for _, b := range brackets {
				if _, err := tx.Exec(ctx, `
					INSERT INTO tax_brackets (min, max, rate) VALUES ($1, $2, $3)`,
					b.Min, b.Max, b.Rate,
				); err != nil {
					return fmt.Errorf("insert tax bracket: %w", err)
				}
			}
			rows, err := tx.Query(ctx, taxBracketListQuery)
			if err != nil {
				return err
			}
			defer rows.Close()
			out, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.TaxBracket])
			return err
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to replace tax brackets: %w", err)
	}
	return out, nil
}
