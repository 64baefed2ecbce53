//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Archive is an immutable snapshot of a validated report (dotation sheet,
// blanchiment batch, tax declaration). The payload is stored as-is; archives
// are never updated, only created and read.
type Archive struct {
	ID           string          `json:"id"            db:"id"`
	EnterpriseID string          `json:"enterprise_id" db:"enterprise_id"`
	Kind         string          `json:"kind"          db:"kind"`
	Payload      json.RawMessage `json:"payload"       db:"payload"`
	CreatedBy    string          `json:"created_by"    db:"created_by"`
	CreatedAt    time.Time       `json:"created_at"    db:"created_at"`
}

// CreateArchiveRequest represents parameters to snapshot a report.
type CreateArchiveRequest struct {
	EnterpriseID string          `json:"enterprise_id"`
	Kind         string          `json:"kind"`
	Payload      json.RawMessage `json:"payload"`
}

// Validate checks required fields and that the payload is well-formed JSON.
func (r *CreateArchiveRequest) Validate() error {
	if strings.TrimSpace(r.EnterpriseID) == "" {
		return errors.New("enterprise_id is required")
	}
	if strings.TrimSpace(r.Kind) == "" {
		return errors.New("kind is required")
	}
	if len(r.Payload) == 0 || !json.Valid(r.Payload) {
		return errors.New("payload must be valid JSON")
	}
	return nil
}

// ArchiveListOptions controls paging and filtering for listing archives.
// Filter, when set, is a JMESPath expression evaluated against each payload;
// rows where it yields a falsy result are dropped.
type ArchiveListOptions struct {
	EnterpriseID string
	Kind         string
	Filter       string
	Limit        int
	Offset       int
}

// Document is metadata for a stored file. Blob mechanics live elsewhere;
// this registry only tracks ownership and the storage key.
type Document struct {
	ID           string    `json:"id"            db:"id"`
	EnterpriseID string    `json:"enterprise_id" db:"enterprise_id"`
	OwnerID      string    `json:"owner_id"      db:"owner_id"`
	Name         string    `json:"name"          db:"name"`
	ContentType  string    `json:"content_type"  db:"content_type"`
	SizeBytes    int64     `json:"size_bytes"    db:"size_bytes"`
	StorageKey   string    `json:"storage_key"   db:"storage_key"`
	CreatedAt    time.Time `json:"created_at"    db:"created_at"`
}

// CreateDocumentRequest represents parameters to register a document.
type CreateDocumentRequest struct {
	EnterpriseID string `json:"enterprise_id"`
	Name         string `json:"name"`
	ContentType  string `json:"content_type"`
	SizeBytes    int64  `json:"size_bytes"`
	StorageKey   string `json:"storage_key"`
}

// Validate checks required fields.
func (r *CreateDocumentRequest) Validate() error {
	if strings.TrimSpace(r.EnterpriseID) == "" {
		return errors.New("enterprise_id is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(r.StorageKey) == "" {
		return errors.New("storage_key is required")
	}
	if r.SizeBytes < 0 {
		return errors.New("size_bytes must not be negative")
	}
	return nil
}
