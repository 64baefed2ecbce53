package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/flashbackfa/entreprise-api/internal/data"
	"github.com/flashbackfa/entreprise-api/internal/domain/model"
	"github.com/flashbackfa/entreprise-api/internal/service"
)

// DotationServiceInterface is the subset of the dotation service the handlers need.
type DotationServiceInterface interface {
	CreateReport(ctx context.Context, req *model.CreateDotationReportRequest, createdBy string) (*model.DotationReport, error)
	GetReport(ctx context.Context, id string) (*model.DotationReport, error)
	ListReports(ctx context.Context, enterpriseID string, limit, offset int) ([]model.DotationReport, error)
}

// DotationHandlers bundles the weekly dotation sheet endpoints.
type DotationHandlers struct {
	Svc DotationServiceInterface
}

// Create handles POST /api/dotations. Salaries are computed server-side from
// the enterprise rates; anything the client sends in the salary field is
// discarded.
func (h *DotationHandlers) Create(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		writeUnauthenticated(w)
		return
	}

	var req model.CreateDotationReportRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	report, err := h.Svc.CreateReport(r.Context(), &req, session.UserID)
	if err != nil {
		writeDotationError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, report)
}

// Get handles GET /api/dotations/{id}.
func (h *DotationHandlers) Get(w http.ResponseWriter, r *http.Request) {
	report, err := h.Svc.GetReport(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDotationError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, report)
}

// List handles GET /api/enterprises/{id}/dotations.
func (h *DotationHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 20, 100)
	reports, err := h.Svc.ListReports(r.Context(), r.PathValue("id"), limit, offset)
	if err != nil {
		writeDotationError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"reports": reports,
		"limit":   limit,
		"offset":  offset,
	})
}

// MyLines handles GET /api/dotations/{id}/my-lines: the salaires view, where
// an employee reads only their own lines from a sheet regardless of who else
// is on it.
func (h *DotationHandlers) MyLines(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		writeUnauthenticated(w)
		return
	}

	report, err := h.Svc.GetReport(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDotationError(w, err)
		return
	}

	lines := service.EmployeeLines(report, session.UserID)
	var total int64
	for _, line := range lines {
		total += line.Salary
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"report_id":    report.ID,
		"week_start":   report.WeekStart,
		"lines":        lines,
		"total_salary": total,
	})
}

func writeDotationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, data.ErrDotationReportNotFound), errors.Is(err, data.ErrEnterpriseNotFound):
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: err})
	case errors.Is(err, data.ErrEnterpriseIDRequired), isValidationError(err):
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
	default:
		WriteAppError(w, err, ErrorParams{ErrCode: "internal_error", Err: errors.New("internal error")})
	}
}

func writeUnauthenticated(w http.ResponseWriter) {
	WriteError(w, ErrorParams{
		Code:    http.StatusUnauthorized,
		ErrCode: "authentication_required",
		Err:     errors.New("authentication required"),
	})
}
