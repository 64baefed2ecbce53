package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/flashbackfa/entreprise-api/internal/data/pgxutil"
	"github.com/flashbackfa/entreprise-api/internal/domain/model"
)

var (
	// ErrEnterpriseNotFound is returned when an enterprise is not found.
	ErrEnterpriseNotFound = errors.New("enterprise not found")
	// ErrEnterpriseExists is returned when the guild already has an enterprise.
	ErrEnterpriseExists = errors.New("enterprise already exists for this guild")
)

const enterpriseColumns = `id, guild_id, name, type, salary_base, run_rate, sale_rate, invoice_rate,
	       blanchiment_enabled, created_at, updated_at`

const (
	enterpriseGetByIDQuery = `
		SELECT ` + enterpriseColumns + `
		FROM enterprises
		WHERE id = $1`

	enterpriseGetByGuildQuery = `
		SELECT ` + enterpriseColumns + `
		FROM enterprises
		WHERE guild_id = $1`

	enterpriseListQuery = `
		SELECT ` + enterpriseColumns + `
		FROM enterprises
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`
)

// EnterpriseRepo provides database operations for enterprises.
type EnterpriseRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewEnterpriseRepo creates a new EnterpriseRepo with real time provider.
func NewEnterpriseRepo(db *sql.DB) *EnterpriseRepo {
	return &EnterpriseRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewEnterpriseRepoWithTimeProvider creates a new EnterpriseRepo with a custom time provider (useful for tests).
func NewEnterpriseRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *EnterpriseRepo {
	return &EnterpriseRepo{DB: db, timeProvider: tp}
}

// Create inserts a new enterprise.
func (r *EnterpriseRepo) Create(ctx context.Context, req *model.CreateEnterpriseRequest) (*model.Enterprise, error) {
	if req == nil {
		return nil, errors.New("create enterprise request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	createdAt := r.timeProvider.Now().UTC()
	var out model.Enterprise
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO enterprises (
				guild_id, name, type, salary_base, run_rate, sale_rate, invoice_rate, created_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8
			) RETURNING `+enterpriseColumns,
			strings.TrimSpace(req.GuildID),
			strings.TrimSpace(req.Name),
			strings.TrimSpace(req.Type),
			req.SalaryBase,
			req.RunRate,
			req.SaleRate,
			req.InvoiceRate,
			createdAt,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Enterprise])
		return err
	}); err != nil {
		return nil, r.mapWriteErr(err, false)
	}
	return &out, nil
}

// GetByID retrieves an enterprise by ID.
func (r *EnterpriseRepo) GetByID(ctx context.Context, id string) (*model.Enterprise, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	return r.getByQuery(ctx, enterpriseGetByIDQuery, "failed to get enterprise by ID", id)
}

// GetByGuildID retrieves the enterprise attached to a guild.
func (r *EnterpriseRepo) GetByGuildID(ctx context.Context, guildID string) (*model.Enterprise, error) {
	return r.getByQuery(ctx, enterpriseGetByGuildQuery, "failed to get enterprise by guild ID", guildID)
}

// List retrieves enterprises with pagination.
func (r *EnterpriseRepo) List(ctx context.Context, limit, offset int) ([]*model.Enterprise, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var rowsOut []model.Enterprise
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, enterpriseListQuery, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Enterprise])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list enterprises: %w", err)
	}

	res := make([]*model.Enterprise, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Update updates fields of an enterprise.
func (r *EnterpriseRepo) Update(
	ctx context.Context,
	id string,
	req model.UpdateEnterpriseRequest,
) (*model.Enterprise, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Enterprise
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		setClause, args := r.buildUpdateClause(req)
		if setClause == "" {
			rows, err := conn.Query(ctx, enterpriseGetByIDQuery, id)
			if err != nil {
				return err
			}
			defer rows.Close()
			var e error
			out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Enterprise])
			return e
		}
		args = append(args, id)
		query := "UPDATE enterprises SET " + setClause + " WHERE id = $" + strconv.Itoa(
			len(args),
		) + " RETURNING " + enterpriseColumns
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Enterprise])
		return e
	})
	if err != nil {
		return nil, r.mapWriteErr(err, true)
	}
	return &out, nil
}

// buildUpdateClause builds the SQL SET clause and args for updating an enterprise.
func (r *EnterpriseRepo) buildUpdateClause(req model.UpdateEnterpriseRequest) (string, []any) {
	setParts := make([]string, 0, 8)
	args := make([]any, 0, 9)
	nextIdx := func() int { return len(args) + 1 }

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Name))
	}
	if req.Type != nil {
		setParts = append(setParts, fmt.Sprintf("type = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Type))
	}
	if req.SalaryBase != nil {
		setParts = append(setParts, fmt.Sprintf("salary_base = $%d", nextIdx()))
		args = append(args, *req.SalaryBase)
	}
	if req.RunRate != nil {
		setParts = append(setParts, fmt.Sprintf("run_rate = $%d", nextIdx()))
		args = append(args, *req.RunRate)
	}
	if req.SaleRate != nil {
		setParts = append(setParts, fmt.Sprintf("sale_rate = $%d", nextIdx()))
		args = append(args, *req.SaleRate)
	}
	if req.InvoiceRate != nil {
		setParts = append(setParts, fmt.Sprintf("invoice_rate = $%d", nextIdx()))
		args = append(args, *req.InvoiceRate)
	}
	if req.BlanchimentEnabled != nil {
		setParts = append(setParts, fmt.Sprintf("blanchiment_enabled = $%d", nextIdx()))
		args = append(args, *req.BlanchimentEnabled)
	}

	if len(setParts) == 0 {
		return "", nil
	}
	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())
	return strings.Join(setParts, ", "), args
}

// Delete deletes an enterprise by ID.
func (r *EnterpriseRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM enterprises WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete enterprise: %w", err)
	}
	return rows > 0, nil
}

// getByQuery executes a query and returns a single enterprise.
func (r *EnterpriseRepo) getByQuery(
	ctx context.Context,
	q string,
	errMsg string,
	args ...any,
) (*model.Enterprise, error) {
	var out model.Enterprise
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Enterprise])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEnterpriseNotFound
		}
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	return &out, nil
}

func (r *EnterpriseRepo) mapWriteErr(err error, includeNotFound bool) error {
	if err == nil {
		return nil
	}
	if includeNotFound && errors.Is(err, pgx.ErrNoRows) {
		return ErrEnterpriseNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrEnterpriseExists
	}
	return err
}
