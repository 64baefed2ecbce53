package service

import (
	"context"
	"errors"

	"github.com/flashbackfa/entreprise-api/internal/domain/model"
)

// EnterpriseRepository persists enterprise settings.
type EnterpriseRepository interface {
	Create(ctx context.Context, req *model.CreateEnterpriseRequest) (*model.Enterprise, error)
	GetByID(ctx context.Context, id string) (*model.Enterprise, error)
	GetByGuildID(ctx context.Context, guildID string) (*model.Enterprise, error)
	List(ctx context.Context, limit, offset int) ([]*model.Enterprise, error)
	Update(ctx context.Context, id string, req model.UpdateEnterpriseRequest) (*model.Enterprise, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// EnterpriseServiceOptions groups dependencies for EnterpriseService.
type EnterpriseServiceOptions struct {
	Enterprises EnterpriseRepository
}

// EnterpriseService orchestrates enterprise CRUD.
type EnterpriseService struct {
	enterprises EnterpriseRepository
}

// NewEnterpriseService constructs a new EnterpriseService.
func NewEnterpriseService(opts EnterpriseServiceOptions) *EnterpriseService {
	return &EnterpriseService{enterprises: opts.Enterprises}
}

// Create registers a new enterprise after validating the request.
func (s *EnterpriseService) Create(ctx context.Context, req *model.CreateEnterpriseRequest) (*model.Enterprise, error) {
	if req == nil {
		return nil, errors.New("create enterprise request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.enterprises.Create(ctx, req)
}

// Update applies partial changes to an enterprise.
func (s *EnterpriseService) Update(ctx context.Context, id string, req model.UpdateEnterpriseRequest) (*model.Enterprise, error) {
	if id == "" {
		return nil, errors.New("enterprise ID is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.enterprises.Update(ctx, id, req)
}

// Delete removes an enterprise. Returns false when nothing matched.
func (s *EnterpriseService) Delete(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, errors.New("enterprise ID is required")
	}
	return s.enterprises.Delete(ctx, id)
}

// GetByID retrieves an enterprise by ID.
func (s *EnterpriseService) GetByID(ctx context.Context, id string) (*model.Enterprise, error) {
	return s.enterprises.GetByID(ctx, id)
}

// GetByGuildID retrieves the enterprise attached to a guild.
func (s *EnterpriseService) GetByGuildID(ctx context.Context, guildID string) (*model.Enterprise, error) {
	if guildID == "" {
		return nil, errors.New("guild ID is required")
	}
	return s.enterprises.GetByGuildID(ctx, guildID)
}

// List returns a page of enterprises.
func (s *EnterpriseService) List(ctx context.Context, limit, offset int) ([]*model.Enterprise, error) {
	limit, offset = clampPage(limit, offset)
	return s.enterprises.List(ctx, limit, offset)
}
