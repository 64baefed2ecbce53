package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/flashbackfa/entreprise-api/internal/domain/model"
)

// BlanchimentRepository persists blanchiment operations.
type BlanchimentRepository interface {
	Create(ctx context.Context, op *model.BlanchimentOperation) (*model.BlanchimentOperation, error)
	GetByID(ctx context.Context, id string) (*model.BlanchimentOperation, error)
	ListByEnterprise(ctx context.Context, enterpriseID string, limit, offset int) ([]model.BlanchimentOperation, error)
	UpdateStatus(ctx context.Context, id string, status model.BlanchimentStatus) (*model.BlanchimentOperation, error)
	Totals(ctx context.Context, enterpriseID string) (*model.BlanchimentTotals, error)
}

// BlanchimentServiceOptions groups dependencies for BlanchimentService.
type BlanchimentServiceOptions struct {
	Operations  BlanchimentRepository
	Enterprises EnterpriseReader
}

// BlanchimentService records and reviews blanchiment operations.
type BlanchimentService struct {
	operations  BlanchimentRepository
	enterprises EnterpriseReader
}

// ErrBlanchimentDisabled is returned when the enterprise has the blanchiment
// scope turned off.
var ErrBlanchimentDisabled = errors.New("blanchiment is disabled for this enterprise")

// NewBlanchimentService constructs a new BlanchimentService.
func NewBlanchimentService(opts BlanchimentServiceOptions) *BlanchimentService {
	return &BlanchimentService{operations: opts.Operations, enterprises: opts.Enterprises}
}

// Record validates and stores a new pending operation. The enterprise must
// have the blanchiment scope enabled.
func (s *BlanchimentService) Record(
	ctx context.Context,
	req *model.CreateBlanchimentRequest,
) (*model.BlanchimentOperation, error) {
	if req == nil {
		return nil, errors.New("create blanchiment request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	enterprise, err := s.enterprises.GetByID(ctx, req.EnterpriseID)
	if err != nil {
		return nil, fmt.Errorf("load enterprise: %w", err)
	}
	if !enterprise.BlanchimentEnabled {
		return nil, ErrBlanchimentDisabled
	}

	op := &model.BlanchimentOperation{
		EnterpriseID:   req.EnterpriseID,
		EmployeeID:     req.EmployeeID,
		EmployeeName:   req.EmployeeName,
		Amount:         req.Amount,
		PercEnterprise: req.PercEnterprise,
		PercGroup:      req.PercGroup,
		Status:         model.BlanchimentPending,
	}
	return s.operations.Create(ctx, op)
}

// Review moves an operation to validated or rejected.
func (s *BlanchimentService) Review(
	ctx context.Context,
	id string,
	status model.BlanchimentStatus,
) (*model.BlanchimentOperation, error) {
	if id == "" {
		return nil, errors.New("operation ID is required")
	}
	if status != model.BlanchimentValidated && status != model.BlanchimentRejected {
		return nil, errors.New("status must be validated or rejected")
	}
	return s.operations.UpdateStatus(ctx, id, status)
}

// List pages through an enterprise's operations, newest first.
func (s *BlanchimentService) List(
	ctx context.Context,
	enterpriseID string,
	limit, offset int,
) ([]model.BlanchimentOperation, error) {
	if enterpriseID == "" {
		return nil, errors.New("enterprise ID is required")
	}
	limit, offset = clampPage(limit, offset)
	return s.operations.ListByEnterprise(ctx, enterpriseID, limit, offset)
}

// Totals aggregates validated operations for one enterprise.
func (s *BlanchimentService) Totals(ctx context.Context, enterpriseID string) (*model.BlanchimentTotals, error) {
	if enterpriseID == "" {
		return nil, errors.New("enterprise ID is required")
	}
	return s.operations.Totals(ctx, enterpriseID)
}
