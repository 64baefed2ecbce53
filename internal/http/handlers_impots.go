package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/flashbackfa/entreprise-api/internal/domain/model"
)

// ImpotsServiceInterface is the subset of the impots service the handlers need.
type ImpotsServiceInterface interface {
	Simulate(ctx context.Context, profit int64) (*model.TaxSimulation, error)
	ListBrackets(ctx context.Context) ([]model.TaxBracket, error)
	ReplaceBrackets(ctx context.Context, brackets []model.TaxBracket) ([]model.TaxBracket, error)
}

// ImpotsHandlers bundles the tax scale and simulation endpoints.
type ImpotsHandlers struct {
	Svc ImpotsServiceInterface
}

// ListBrackets handles GET /api/impots/brackets.
func (h *ImpotsHandlers) ListBrackets(w http.ResponseWriter, r *http.Request) {
	brackets, err := h.Svc.ListBrackets(r.Context())
	if err != nil {
		writeImpotsError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"brackets": brackets})
}

type replaceBracketsRequest struct {
	Brackets []model.TaxBracket `json:"brackets"`
}

// ReplaceBrackets handles PUT /api/impots/brackets. The scale is replaced
// wholesale after validation; there is no per-bracket edit.
func (h *ImpotsHandlers) ReplaceBrackets(w http.ResponseWriter, r *http.Request) {
	var req replaceBracketsRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	brackets, err := h.Svc.ReplaceBrackets(r.Context(), req.Brackets)
	if err != nil {
		writeImpotsError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"brackets": brackets})
}

type simulateRequest struct {
	Profit int64 `json:"profit"`
}

// Simulate handles POST /api/impots/simulate.
func (h *ImpotsHandlers) Simulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	sim, err := h.Svc.Simulate(r.Context(), req.Profit)
	if err != nil {
		writeImpotsError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, sim)
}

func writeImpotsError(w http.ResponseWriter, err error) {
	if isValidationError(err) {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		return
	}
	WriteAppError(w, err, ErrorParams{ErrCode: "internal_error", Err: errors.New("internal error")})
}
