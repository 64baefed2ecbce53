package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/flashbackfa/entreprise-api/internal/data"
	"github.com/flashbackfa/entreprise-api/internal/domain/model"
	"github.com/flashbackfa/entreprise-api/internal/service"
)

// BlanchimentServiceInterface is the subset of the blanchiment service the handlers need.
type BlanchimentServiceInterface interface {
	Record(ctx context.Context, req *model.CreateBlanchimentRequest) (*model.BlanchimentOperation, error)
	Review(ctx context.Context, id string, status model.BlanchimentStatus) (*model.BlanchimentOperation, error)
	List(ctx context.Context, enterpriseID string, limit, offset int) ([]model.BlanchimentOperation, error)
	Totals(ctx context.Context, enterpriseID string) (*model.BlanchimentTotals, error)
}

// BlanchimentHandlers bundles the blanchiment tracking endpoints.
type BlanchimentHandlers struct {
	Svc BlanchimentServiceInterface
}

// Record handles POST /api/blanchiment.
func (h *BlanchimentHandlers) Record(w http.ResponseWriter, r *http.Request) {
	var req model.CreateBlanchimentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	op, err := h.Svc.Record(r.Context(), &req)
	if err != nil {
		writeBlanchimentError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, op)
}

type reviewRequest struct {
	Status string `json:"status"`
}

// Review handles POST /api/blanchiment/{id}/review, moving a pending
// operation to validated or rejected.
func (h *BlanchimentHandlers) Review(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	status, ok := model.ParseBlanchimentStatus(req.Status)
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "validation_failed",
			Err:     errors.New("status must be validated or rejected"),
		})
		return
	}

	op, err := h.Svc.Review(r.Context(), r.PathValue("id"), status)
	if err != nil {
		writeBlanchimentError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, op)
}

// List handles GET /api/enterprises/{id}/blanchiment.
func (h *BlanchimentHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 20, 100)
	ops, err := h.Svc.List(r.Context(), r.PathValue("id"), limit, offset)
	if err != nil {
		writeBlanchimentError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"operations": ops,
		"limit":      limit,
		"offset":     offset,
	})
}

// Totals handles GET /api/enterprises/{id}/blanchiment/totals.
func (h *BlanchimentHandlers) Totals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.Svc.Totals(r.Context(), r.PathValue("id"))
	if err != nil {
		writeBlanchimentError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, totals)
}

func writeBlanchimentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrBlanchimentDisabled):
		WriteError(w, ErrorParams{Code: http.StatusForbidden, ErrCode: "blanchiment_disabled", Err: err})
	case errors.Is(err, data.ErrBlanchimentAlreadyReviewed):
		WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "conflict", Err: err})
	case errors.Is(err, data.ErrBlanchimentOperationNotFound), errors.Is(err, data.ErrEnterpriseNotFound):
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: err})
	case errors.Is(err, data.ErrEnterpriseIDRequired), isValidationError(err):
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
	default:
		WriteAppError(w, err, ErrorParams{ErrCode: "internal_error", Err: errors.New("internal error")})
	}
}
