package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/flashbackfa/entreprise-api/internal/data"
	"github.com/flashbackfa/entreprise-api/internal/domain/model"
)

// EnterpriseServiceInterface is the subset of the enterprise service the handlers need.
type EnterpriseServiceInterface interface {
	Create(ctx context.Context, req *model.CreateEnterpriseRequest) (*model.Enterprise, error)
	Update(ctx context.Context, id string, req model.UpdateEnterpriseRequest) (*model.Enterprise, error)
	Delete(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*model.Enterprise, error)
	GetByGuildID(ctx context.Context, guildID string) (*model.Enterprise, error)
	List(ctx context.Context, limit, offset int) ([]*model.Enterprise, error)
}

// EnterpriseHandlers bundles the enterprise CRUD endpoints.
type EnterpriseHandlers struct {
	Svc EnterpriseServiceInterface
}

// Create handles POST /api/enterprises.
func (h *EnterpriseHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateEnterpriseRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	enterprise, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		writeEnterpriseError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, enterprise)
}

// Get handles GET /api/enterprises/{id}.
func (h *EnterpriseHandlers) Get(w http.ResponseWriter, r *http.Request) {
	enterprise, err := h.Svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeEnterpriseError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, enterprise)
}

// GetByGuild handles GET /api/enterprises/by-guild/{guildID}.
func (h *EnterpriseHandlers) GetByGuild(w http.ResponseWriter, r *http.Request) {
	enterprise, err := h.Svc.GetByGuildID(r.Context(), r.PathValue("guildID"))
	if err != nil {
		writeEnterpriseError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, enterprise)
}

// List handles GET /api/enterprises.
func (h *EnterpriseHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 20, 100)
	enterprises, err := h.Svc.List(r.Context(), limit, offset)
	if err != nil {
		writeEnterpriseError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"enterprises": enterprises,
		"limit":       limit,
		"offset":      offset,
	})
}

// Update handles PATCH /api/enterprises/{id}.
func (h *EnterpriseHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateEnterpriseRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	enterprise, err := h.Svc.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeEnterpriseError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, enterprise)
}

// Delete handles DELETE /api/enterprises/{id}.
func (h *EnterpriseHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.Svc.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		writeEnterpriseError(w, err)
		return
	}
	if !deleted {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "not_found",
			Err:     data.ErrEnterpriseNotFound,
		})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeEnterpriseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, data.ErrEnterpriseNotFound):
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: err})
	case errors.Is(err, data.ErrEnterpriseExists):
		WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "conflict", Err: err})
	case isValidationError(err):
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
	default:
		WriteAppError(w, err, ErrorParams{ErrCode: "internal_error", Err: errors.New("internal error")})
	}
}
