package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	apperrors "github.com/flashbackfa/entreprise-api/internal/errors"
	"github.com/flashbackfa/entreprise-api/internal/domain/model"
)

// ArchiveRepository persists immutable report snapshots.
type ArchiveRepository interface {
	Create(ctx context.Context, archive *model.Archive) (*model.Archive, error)
	GetByID(ctx context.Context, id string) (*model.Archive, error)
	List(ctx context.Context, opts model.ArchiveListOptions) ([]model.Archive, error)
}

// JMESPathEvaluator abstracts JMESPath operations for testability.
type JMESPathEvaluator interface {
	Validate(expr string) error
	Evaluate(expr string, data any) (any, error)
}

// jmespathLibEvaluator implements JMESPathEvaluator using go-jmespath.
type jmespathLibEvaluator struct{}

func (j jmespathLibEvaluator) Validate(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	_, err := jmespath.Compile(expr)
	return err
}

func (j jmespathLibEvaluator) Evaluate(expr string, data any) (any, error) {
	return jmespath.Search(expr, data)
}

// ArchiveServiceOptions groups dependencies for ArchiveService.
type ArchiveServiceOptions struct {
	Archives  ArchiveRepository
	Evaluator JMESPathEvaluator // optional; defaults to the library evaluator
}

// ArchiveService snapshots validated reports and searches them with
// operator-supplied JMESPath expressions.
type ArchiveService struct {
	archives ArchiveRepository
	jems     JMESPathEvaluator
}

// NewArchiveService constructs a new ArchiveService.
func NewArchiveService(opts ArchiveServiceOptions) *ArchiveService {
	jems := opts.Evaluator
	if jems == nil {
		jems = jmespathLibEvaluator{}
	}
	return &ArchiveService{archives: opts.Archives, jems: jems}
}

// Snapshot stores an immutable copy of a validated report.
func (s *ArchiveService) Snapshot(
	ctx context.Context,
	req *model.CreateArchiveRequest,
	createdBy string,
) (*model.Archive, error) {
	if req == nil {
		return nil, errors.New("create archive request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	return s.archives.Create(ctx, &model.Archive{
		EnterpriseID: req.EnterpriseID,
		Kind:         req.Kind,
		Payload:      req.Payload,
		CreatedBy:    createdBy,
	})
}

// Get fetches one archive by ID.
func (s *ArchiveService) Get(ctx context.Context, id string) (*model.Archive, error) {
	if id == "" {
		return nil, errors.New("archive ID is required")
	}
	return s.archives.GetByID(ctx, id)
}

// Search lists archives, applying the optional JMESPath filter against each
// payload. An invalid expression is a validation error, surfaced before any
// database work.
func (s *ArchiveService) Search(ctx context.Context, opts model.ArchiveListOptions) ([]model.Archive, error) {
	if opts.Limit <= 0 || opts.Limit > 200 {
		opts.Limit = 50
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}

	filter := strings.TrimSpace(opts.Filter)
	if filter != "" {
		if err := s.jems.Validate(filter); err != nil {
			return nil, apperrors.Validation(fmt.Sprintf("invalid filter expression: %v", err))
		}
	}

	archives, err := s.archives.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list archives: %w", err)
	}
	if filter == "" {
		return archives, nil
	}

	matched := make([]model.Archive, 0, len(archives))
	for _, a := range archives {
		var payload any
		if unmarshalErr := json.Unmarshal(a.Payload, &payload); unmarshalErr != nil {
			// A stored payload that no longer parses is skipped, not fatal.
			continue
		}
		result, evalErr := s.jems.Evaluate(filter, payload)
		if evalErr != nil {
			continue
		}
		if truthy(result) {
			matched = append(matched, a)
		}
	}
	return matched, nil
}

// truthy mirrors JMESPath truthiness: false, null, empty strings, empty
// collections, and zero numbers do not match.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}
