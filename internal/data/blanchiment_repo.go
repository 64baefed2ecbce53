package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/flashbackfa/entreprise-api/internal/data/pgxutil"
	"github.com/flashbackfa/entreprise-api/internal/domain/model"
)

// ErrBlanchimentOperationNotFound is returned when an operation is not found.
var ErrBlanchimentOperationNotFound = errors.New("blanchiment operation not found")

// ErrBlanchimentAlreadyReviewed is returned when an operation has already left
// the pending status.
var ErrBlanchimentAlreadyReviewed = errors.New("blanchiment operation already reviewed")

const blanchimentColumns = `id, enterprise_id, employee_id, employee_name, amount,
	       perc_enterprise, perc_group, status, created_at, updated_at`

const (
	blanchimentGetByIDQuery = `
		SELECT ` + blanchimentColumns + `
		FROM blanchiment_operations
		WHERE id = $1`

	blanchimentListQuery = `
		SELECT ` + blanchimentColumns + `
		FROM blanchiment_operations
		WHERE enterprise_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	blanchimentTotalsQuery = `
		SELECT
			COUNT(*)                                                   AS operations,
			COALESCE(SUM(amount), 0)                                   AS total_amount,
			COALESCE(SUM(amount * perc_enterprise / 100), 0)           AS enterprise_share,
			COALESCE(SUM(amount * perc_group / 100), 0)                AS group_share
		FROM blanchiment_operations
		WHERE enterprise_id = $1 AND status = 'validated'`
)

// BlanchimentRepo provides database operations for blanchiment operations.
type BlanchimentRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewBlanchimentRepo creates a new BlanchimentRepo with real time provider.
func NewBlanchimentRepo(db *sql.DB) *BlanchimentRepo {
	return &BlanchimentRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewBlanchimentRepoWithTimeProvider creates a new BlanchimentRepo with a custom time provider (useful for tests).
func NewBlanchimentRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *BlanchimentRepo {
	return &BlanchimentRepo{DB: db, timeProvider: tp}
}

// Create inserts a new operation.
func (r *BlanchimentRepo) Create(ctx context.Context, op *model.BlanchimentOperation) (*model.BlanchimentOperation, error) {
	if op == nil {
		return nil, errors.New("blanchiment operation is required")
	}

	status := op.Status
	if status == "" {
		status = model.BlanchimentPending
	}

	var out model.BlanchimentOperation
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO blanchiment_operations (
				enterprise_id, employee_id, employee_name, amount, perc_enterprise, perc_group, status, created_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8
			) RETURNING `+blanchimentColumns,
			op.EnterpriseID,
			op.EmployeeID,
			op.EmployeeName,
			op.Amount,
			op.PercEnterprise,
			op.PercGroup,
			status,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.BlanchimentOperation])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to create blanchiment operation: %w", err)
	}
	return &out, nil
}

// GetByID retrieves an operation by ID.
func (r *BlanchimentRepo) GetByID(ctx context.Context, id string) (*model.BlanchimentOperation, error) {
	var out model.BlanchimentOperation
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, blanchimentGetByIDQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.BlanchimentOperation])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBlanchimentOperationNotFound
		}
		return nil, fmt.Errorf("failed to get blanchiment operation by ID: %w", err)
	}
	return &out, nil
}

// ListByEnterprise retrieves an enterprise's operations with pagination, newest first.
func (r *BlanchimentRepo) ListByEnterprise(
	ctx context.Context,
	enterpriseID string,
	limit, offset int,
) ([]model.BlanchimentOperation, error) {
	if enterpriseID == "" {
		return nil, ErrEnterpriseIDRequired
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var rowsOut []model.BlanchimentOperation
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, blanchimentListQuery, enterpriseID, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.BlanchimentOperation])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list blanchiment operations: %w", err)
	}
	return rowsOut, nil
}

// UpdateStatus moves a pending operation to a new review status. Operations
// already reviewed stay as they are.
func (r *BlanchimentRepo) UpdateStatus(
	ctx context.Context,
	id string,
	status model.BlanchimentStatus,
) (*model.BlanchimentOperation, error) {
	if !status.Valid() {
		return nil, errors.New("unsupported blanchiment status")
	}

	var out model.BlanchimentOperation
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE blanchiment_operations
			SET status = $1, updated_at = $2
			WHERE id = $3 AND status = $4
			RETURNING `+blanchimentColumns,
			status,
			r.timeProvider.Now().UTC(),
			id,
			model.BlanchimentPending,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.BlanchimentOperation])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Zero rows means either a missing operation or one already
			// reviewed; tell them apart for the caller.
			if _, getErr := r.GetByID(ctx, id); getErr == nil {
				return nil, ErrBlanchimentAlreadyReviewed
			}
			return nil, ErrBlanchimentOperationNotFound
		}
		return nil, fmt.Errorf("failed to update blanchiment operation status: %w", err)
	}
	return &out, nil
}

// Totals aggregates validated operations for one enterprise.
func (r *BlanchimentRepo) Totals(ctx context.Context, enterpriseID string) (*model.BlanchimentTotals, error) {
	out := model.BlanchimentTotals{EnterpriseID: enterpriseID}
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, blanchimentTotalsQuery, enterpriseID).Scan(
			&out.Operations,
			&out.TotalAmount,
			&out.EnterpriseShare,
			&out.GroupShare,
		)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate blanchiment totals: %w", err)
	}
	return &out, nil
}
