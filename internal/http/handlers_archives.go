package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/flashbackfa/entreprise-api/internal/data"
	"github.com/flashbackfa/entreprise-api/internal/domain/model"
)

// ArchiveServiceInterface is the subset of the archive service the handlers need.
type ArchiveServiceInterface interface {
	Snapshot(ctx context.Context, req *model.CreateArchiveRequest, createdBy string) (*model.Archive, error)
	Get(ctx context.Context, id string) (*model.Archive, error)
	Search(ctx context.Context, opts model.ArchiveListOptions) ([]model.Archive, error)
}

// ArchiveHandlers bundles the archive snapshot and search endpoints.
type ArchiveHandlers struct {
	Svc ArchiveServiceInterface
}

// Snapshot handles POST /api/archives.
func (h *ArchiveHandlers) Snapshot(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		writeUnauthenticated(w)
		return
	}

	var req model.CreateArchiveRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	archive, err := h.Svc.Snapshot(r.Context(), &req, session.UserID)
	if err != nil {
		writeArchiveError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, archive)
}

// Get handles GET /api/archives/{id}.
func (h *ArchiveHandlers) Get(w http.ResponseWriter, r *http.Request) {
	archive, err := h.Svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeArchiveError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, archive)
}

// Search handles GET /api/archives. Query params: enterprise_id, kind,
// filter (a JMESPath expression evaluated against each payload), limit,
// offset.
func (h *ArchiveHandlers) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, offset := ParseLimitOffset(r, 50, 200)

	archives, err := h.Svc.Search(r.Context(), model.ArchiveListOptions{
		EnterpriseID: q.Get("enterprise_id"),
		Kind:         q.Get("kind"),
		Filter:       q.Get("filter"),
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		writeArchiveError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"archives": archives,
		"limit":    limit,
		"offset":   offset,
	})
}

func writeArchiveError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, data.ErrArchiveNotFound):
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: err})
	case isValidationError(err):
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
	default:
		WriteAppError(w, err, ErrorParams{ErrCode: "internal_error", Err: errors.New("internal error")})
	}
}
