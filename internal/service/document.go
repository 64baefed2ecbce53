package service

import (
	"context"
	"errors"

	"github.com/flashbackfa/entreprise-api/internal/domain/model"
)

// DocumentRepository persists document metadata.
type DocumentRepository interface {
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)
	GetByID(ctx context.Context, id string) (*model.Document, error)
	ListByEnterprise(ctx context.Context, enterpriseID string, limit, offset int) ([]model.Document, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]model.Document, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// DocumentServiceOptions groups dependencies for DocumentService.
type DocumentServiceOptions struct {
	Documents DocumentRepository
}

// DocumentService manages the document metadata registry.
type DocumentService struct {
	documents DocumentRepository
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(opts DocumentServiceOptions) *DocumentService {
	return &DocumentService{documents: opts.Documents}
}

// Register records a document's metadata after the blob has been stored.
func (s *DocumentService) Register(
	ctx context.Context,
	req *model.CreateDocumentRequest,
	ownerID string,
) (*model.Document, error) {
	if req == nil {
		return nil, errors.New("create document request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if ownerID == "" {
		return nil, errors.New("owner ID is required")
	}

	return s.documents.Create(ctx, &model.Document{
		EnterpriseID: req.EnterpriseID,
		OwnerID:      ownerID,
		Name:         req.Name,
		ContentType:  req.ContentType,
		SizeBytes:    req.SizeBytes,
		StorageKey:   req.StorageKey,
	})
}

// Get fetches one document by ID.
func (s *DocumentService) Get(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, errors.New("document ID is required")
	}
	return s.documents.GetByID(ctx, id)
}

// ListByEnterprise pages through an enterprise's documents, newest first.
func (s *DocumentService) ListByEnterprise(
	ctx context.Context,
	enterpriseID string,
	limit, offset int,
) ([]model.Document, error) {
	if enterpriseID == "" {
		return nil, errors.New("enterprise ID is required")
	}
	limit, offset = clampPage(limit, offset)
	return s.documents.ListByEnterprise(ctx, enterpriseID, limit, offset)
}

// ListByOwner pages through one user's documents, newest first.
func (s *DocumentService) ListByOwner(
	ctx context.Context,
	ownerID string,
	limit, offset int,
) ([]model.Document, error) {
	if ownerID == "" {
		return nil, errors.New("owner ID is required")
	}
	limit, offset = clampPage(limit, offset)
	return s.documents.ListByOwner(ctx, ownerID, limit, offset)
}

// Delete removes a document's metadata. Returns false when nothing matched.
func (s *DocumentService) Delete(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, errors.New("document ID is required")
	}
	return s.documents.Delete(ctx, id)
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
