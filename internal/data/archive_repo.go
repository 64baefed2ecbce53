package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/flashbackfa/entreprise-api/internal/data/database"
	"github.com/flashbackfa/entreprise-api/internal/data/pgxutil"
	"github.com/flashbackfa/entreprise-api/internal/domain/model"
)

// ErrArchiveNotFound is returned when an archive is not found.
var ErrArchiveNotFound = errors.New("archive not found")

const archiveGetByIDQuery = `
	SELECT id, enterprise_id, kind, payload, created_by, created_at
	FROM archives
	WHERE id = $1`

// ArchiveRepo provides database operations for report archives. Archives are
// append-only; there is no update or delete.
type ArchiveRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewArchiveRepo creates a new ArchiveRepo with real time provider.
func NewArchiveRepo(db *sql.DB) *ArchiveRepo {
	return &ArchiveRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewArchiveRepoWithTimeProvider creates a new ArchiveRepo with a custom time provider (useful for tests).
func NewArchiveRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ArchiveRepo {
	return &ArchiveRepo{DB: db, timeProvider: tp}
}

// Create inserts a new archive.
func (r *ArchiveRepo) Create(ctx context.Context, archive *model.Archive) (*model.Archive, error) {
	if archive == nil {
		return nil, errors.New("archive is required")
	}

	var out model.Archive
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO archives (
				enterprise_id, kind, payload, created_by, created_at
			) VALUES (
				$1, $2, $3, $4, $5
			) RETURNING id, enterprise_id, kind, payload, created_by, created_at`,
			archive.EnterpriseID,
			archive.Kind,
			[]byte(archive.Payload),
			archive.CreatedBy,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Archive])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to create archive: %w", err)
	}
	return &out, nil
}

// GetByID retrieves an archive by ID.
func (r *ArchiveRepo) GetByID(ctx context.Context, id string) (*model.Archive, error) {
	var out model.Archive
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, archiveGetByIDQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Archive])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrArchiveNotFound
		}
		return nil, fmt.Errorf("failed to get archive by ID: %w", err)
	}
	return &out, nil
}

// List retrieves archives matching the options, newest first. The JMESPath
// filter in opts is applied by the service layer, not here.
func (r *ArchiveRepo) List(ctx context.Context, opts model.ArchiveListOptions) ([]model.Archive, error) {
	queryOpts := r.buildArchiveQueryOptions(opts)
	query, args := database.BuildListQuery(queryOpts)

	var rowsOut []model.Archive
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Archive])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list archives: %w", err)
	}
	return rowsOut, nil
}

// buildArchiveQueryOptions builds query options for archive listing.
func (r *ArchiveRepo) buildArchiveQueryOptions(opts model.ArchiveListOptions) *database.ListQueryOptions {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	queryOpts := []database.ListQueryOption{
		database.WithColumns("id", "enterprise_id", "kind", "payload", "created_by", "created_at"),
		database.WithLimit(limit),
		database.WithOffset(offset),
		database.WithOrderBy("created_at", "DESC"),
	}

	if strings.TrimSpace(opts.EnterpriseID) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("enterprise_id", database.Equal, strings.TrimSpace(opts.EnterpriseID)),
		))
	}
	if strings.TrimSpace(opts.Kind) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("kind", database.Equal, strings.TrimSpace(opts.Kind)),
		))
	}

	return database.NewListQueryOptions("archives", queryOpts...)
}
