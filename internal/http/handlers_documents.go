package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/flashbackfa/entreprise-api/internal/data"
	domainauth "github.com/flashbackfa/entreprise-api/internal/domain/auth"
	"github.com/flashbackfa/entreprise-api/internal/domain/authz"
	"github.com/flashbackfa/entreprise-api/internal/domain/model"
)

// DocumentServiceInterface is the subset of the document service the handlers need.
type DocumentServiceInterface interface {
	Register(ctx context.Context, req *model.CreateDocumentRequest, ownerID string) (*model.Document, error)
	Get(ctx context.Context, id string) (*model.Document, error)
	ListByEnterprise(ctx context.Context, enterpriseID string, limit, offset int) ([]model.Document, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]model.Document, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// DocumentHandlers bundles the document registry endpoints.
type DocumentHandlers struct {
	Svc    DocumentServiceInterface
	Matrix *authz.Matrix
}

// Register handles POST /api/documents. The caller becomes the owner.
func (h *DocumentHandlers) Register(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		writeUnauthenticated(w)
		return
	}

	var req model.CreateDocumentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	doc, err := h.Svc.Register(r.Context(), &req, session.UserID)
	if err != nil {
		writeDocumentError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, doc)
}

// Get handles GET /api/documents/{id}. Owners always see their own documents;
// anyone else needs the comptabilite capability.
func (h *DocumentHandlers) Get(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		writeUnauthenticated(w)
		return
	}

	doc, err := h.Svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDocumentError(w, err)
		return
	}
	if !h.canManage(session, doc) {
		writeDocumentForbidden(w)
		return
	}
	WriteJSON(w, http.StatusOK, doc)
}

// ListMine handles GET /api/documents/mine.
func (h *DocumentHandlers) ListMine(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		writeUnauthenticated(w)
		return
	}

	limit, offset := ParseLimitOffset(r, 20, 100)
	docs, err := h.Svc.ListByOwner(r.Context(), session.UserID, limit, offset)
	if err != nil {
		writeDocumentError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"documents": docs,
		"limit":     limit,
		"offset":    offset,
	})
}

// ListByEnterprise handles GET /api/enterprises/{id}/documents.
func (h *DocumentHandlers) ListByEnterprise(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 20, 100)
	docs, err := h.Svc.ListByEnterprise(r.Context(), r.PathValue("id"), limit, offset)
	if err != nil {
		writeDocumentError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"documents": docs,
		"limit":     limit,
		"offset":    offset,
	})
}

// Delete handles DELETE /api/documents/{id}, with the same owner-or-capability
// rule as Get.
func (h *DocumentHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		writeUnauthenticated(w)
		return
	}

	doc, err := h.Svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDocumentError(w, err)
		return
	}
	if !h.canManage(session, doc) {
		writeDocumentForbidden(w)
		return
	}

	deleted, err := h.Svc.Delete(r.Context(), doc.ID)
	if err != nil {
		writeDocumentError(w, err)
		return
	}
	if !deleted {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: data.ErrDocumentNotFound})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DocumentHandlers) canManage(session *domainauth.Session, doc *model.Document) bool {
	if doc.OwnerID == session.UserID {
		return true
	}
	return h.Matrix.HasCapability(session.Role, authz.CapComptabilite)
}

func writeDocumentForbidden(w http.ResponseWriter) {
	WriteError(w, ErrorParams{
		Code:    http.StatusForbidden,
		ErrCode: "insufficient_permissions",
		Err:     errors.New("insufficient permissions"),
	})
}

func writeDocumentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, data.ErrDocumentNotFound):
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: err})
	case isValidationError(err):
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
	default:
		WriteAppError(w, err, ErrorParams{ErrCode: "internal_error", Err: errors.New("internal error")})
	}
}
