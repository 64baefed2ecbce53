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

// ErrDocumentNotFound is returned when a document is not found.
var ErrDocumentNotFound = errors.New("document not found")

const documentColumns = `id, enterprise_id, owner_id, name, content_type, size_bytes, storage_key, created_at`

const (
	documentGetByIDQuery = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE id = $1`

	documentListByEnterpriseQuery = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE enterprise_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	documentListByOwnerQuery = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
)

// DocumentRepo provides database operations for the document registry.
type DocumentRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewDocumentRepo creates a new DocumentRepo with real time provider.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewDocumentRepoWithTimeProvider creates a new DocumentRepo with a custom time provider (useful for tests).
func NewDocumentRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *DocumentRepo {
	return &DocumentRepo{DB: db, timeProvider: tp}
}

// Create inserts a new document record.
func (r *DocumentRepo) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	if doc == nil {
		return nil, errors.New("document is required")
	}

	var out model.Document
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO documents (
				enterprise_id, owner_id, name, content_type, size_bytes, storage_key, created_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7
			) RETURNING `+documentColumns,
			doc.EnterpriseID,
			doc.OwnerID,
			doc.Name,
			doc.ContentType,
			doc.SizeBytes,
			doc.StorageKey,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Document])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a document by ID.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*model.Document, error) {
	var out model.Document
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, documentGetByIDQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Document])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get document by ID: %w", err)
	}
	return &out, nil
}

// ListByEnterprise retrieves an enterprise's documents with pagination, newest first.
func (r *DocumentRepo) ListByEnterprise(
	ctx context.Context,
	enterpriseID string,
	limit, offset int,
) ([]model.Document, error) {
	return r.list(ctx, documentListByEnterpriseQuery, enterpriseID, limit, offset)
}

// ListByOwner retrieves one user's documents with pagination, newest first.
func (r *DocumentRepo) ListByOwner(
	ctx context.Context,
	ownerID string,
	limit, offset int,
) ([]model.Document, error) {
	return r.list(ctx, documentListByOwnerQuery, ownerID, limit, offset)
}

func (r *DocumentRepo) list(ctx context.Context, query, key string, limit, offset int) ([]model.Document, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var rowsOut []model.Document
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, key, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Document])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return rowsOut, nil
}

// Delete deletes a document by ID.
func (r *DocumentRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete document: %w", err)
	}
	return rows > 0, nil
}
