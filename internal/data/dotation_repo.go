package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/flashbackfa/entreprise-api/internal/data/pgxutil"
	"github.com/flashbackfa/entreprise-api/internal/domain/model"
)

// ErrDotationReportNotFound is returned when a dotation report is not found.
var ErrDotationReportNotFound = errors.New("dotation report not found")

const dotationColumns = `id, enterprise_id, week_start, lines, total_salary, created_by, created_at`

const (
	dotationGetByIDQuery = `
		SELECT ` + dotationColumns + `
		FROM dotation_reports
		WHERE id = $1`

	dotationListQuery = `
		SELECT ` + dotationColumns + `
		FROM dotation_reports
		WHERE enterprise_id = $1
		ORDER BY week_start DESC, created_at DESC
		LIMIT $2 OFFSET $3`
)

// DotationRepo provides database operations for dotation reports.
// Lines are stored as a JSONB document alongside the computed totals.
type DotationRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewDotationRepo creates a new DotationRepo with real time provider.
func NewDotationRepo(db *sql.DB) *DotationRepo {
	return &DotationRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewDotationRepoWithTimeProvider creates a new DotationRepo with a custom time provider (useful for tests).
func NewDotationRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *DotationRepo {
	return &DotationRepo{DB: db, timeProvider: tp}
}

// Create inserts a new dotation report.
func (r *DotationRepo) Create(ctx context.Context, report *model.DotationReport) (*model.DotationReport, error) {
	if report == nil {
		return nil, errors.New("dotation report is required")
	}

	lines, err := json.Marshal(report.Lines)
	if err != nil {
		return nil, fmt.Errorf("encode dotation lines: %w", err)
	}

	var out model.DotationReport
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qerr := conn.Query(ctx, `
			INSERT INTO dotation_reports (
				enterprise_id, week_start, lines, total_salary, created_by, created_at
			) VALUES (
				$1, $2, $3, $4, $5, $6
			) RETURNING `+dotationColumns,
			report.EnterpriseID,
			report.WeekStart.UTC(),
			lines,
			report.TotalSalary,
			report.CreatedBy,
			r.timeProvider.Now().UTC(),
		)
		if qerr != nil {
			return qerr
		}
		defer rows.Close()
		out, qerr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.DotationReport])
		return qerr
	}); err != nil {
		return nil, fmt.Errorf("failed to create dotation report: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a dotation report by ID.
func (r *DotationRepo) GetByID(ctx context.Context, id string) (*model.DotationReport, error) {
	var out model.DotationReport
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, dotationGetByIDQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.DotationReport])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDotationReportNotFound
		}
		return nil, fmt.Errorf("failed to get dotation report by ID: %w", err)
	}
	return &out, nil
}

// ListByEnterprise retrieves an enterprise's reports with pagination, newest week first.
func (r *DotationRepo) ListByEnterprise(
	ctx context.Context,
	enterpriseID string,
	limit, offset int,
) ([]model.DotationReport, error) {
	if enterpriseID == "" {
		return nil, ErrEnterpriseIDRequired
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var rowsOut []model.DotationReport
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, dotationListQuery, enterpriseID, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.DotationReport])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list dotation reports: %w", err)
	}
	return rowsOut, nil
}
