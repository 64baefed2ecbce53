package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/flashbackfa/entreprise-api/internal/domain/auth"
	"github.com/flashbackfa/entreprise-api/internal/domain/authz"
	"github.com/flashbackfa/entreprise-api/internal/domain/model"
)

type stubEnterpriseService struct{}

func (stubEnterpriseService) Create(context.Context, *model.CreateEnterpriseRequest) (*model.Enterprise, error) {
	return &model.Enterprise{ID: "ent-1"}, nil
}

func (stubEnterpriseService) Update(context.Context, string, model.UpdateEnterpriseRequest) (*model.Enterprise, error) {
	return &model.Enterprise{ID: "ent-1"}, nil
}
func (stubEnterpriseService) Delete(context.Context, string) (bool, error) { return true, nil }
func (stubEnterpriseService) GetByID(context.Context, string) (*model.Enterprise, error) {
	return &model.Enterprise{ID: "ent-1", Name: "Bennys"}, nil
}

func (stubEnterpriseService) GetByGuildID(context.Context, string) (*model.Enterprise, error) {
	return &model.Enterprise{ID: "ent-1"}, nil
}

func (stubEnterpriseService) List(context.Context, int, int) ([]*model.Enterprise, error) {
	return []*model.Enterprise{{ID: "ent-1"}}, nil
}

type stubDotationService struct {
	report *model.DotationReport
}

func (s stubDotationService) CreateReport(context.Context, *model.CreateDotationReportRequest, string) (*model.DotationReport, error) {
	return s.report, nil
}

func (s stubDotationService) GetReport(context.Context, string) (*model.DotationReport, error) {
	return s.report, nil
}

func (s stubDotationService) ListReports(context.Context, string, int, int) ([]model.DotationReport, error) {
	return []model.DotationReport{*s.report}, nil
}

type stubImpotsService struct{}

func (stubImpotsService) Simulate(context.Context, int64) (*model.TaxSimulation, error) {
	return &model.TaxSimulation{}, nil
}
func (stubImpotsService) ListBrackets(context.Context) ([]model.TaxBracket, error) { return nil, nil }
func (stubImpotsService) ReplaceBrackets(context.Context, []model.TaxBracket) ([]model.TaxBracket, error) {
	return nil, nil
}

type stubBlanchimentService struct{}

func (stubBlanchimentService) Record(context.Context, *model.CreateBlanchimentRequest) (*model.BlanchimentOperation, error) {
	return &model.BlanchimentOperation{}, nil
}

func (stubBlanchimentService) Review(context.Context, string, model.BlanchimentStatus) (*model.BlanchimentOperation, error) {
	return &model.BlanchimentOperation{}, nil
}

func (stubBlanchimentService) List(context.Context, string, int, int) ([]model.BlanchimentOperation, error) {
	return nil, nil
}

func (stubBlanchimentService) Totals(context.Context, string) (*model.BlanchimentTotals, error) {
	return &model.BlanchimentTotals{}, nil
}

type stubArchiveService struct{}

func (stubArchiveService) Snapshot(context.Context, *model.CreateArchiveRequest, string) (*model.Archive, error) {
	return &model.Archive{}, nil
}
func (stubArchiveService) Get(context.Context, string) (*model.Archive, error) {
	return &model.Archive{}, nil
}

func (stubArchiveService) Search(context.Context, model.ArchiveListOptions) ([]model.Archive, error) {
	return nil, nil
}

type stubDocumentService struct{}

func (stubDocumentService) Register(context.Context, *model.CreateDocumentRequest, string) (*model.Document, error) {
	return &model.Document{ID: "doc-1"}, nil
}

func (stubDocumentService) Get(context.Context, string) (*model.Document, error) {
	return &model.Document{ID: "doc-1", OwnerID: "user-employee"}, nil
}

func (stubDocumentService) ListByEnterprise(context.Context, string, int, int) ([]model.Document, error) {
	return nil, nil
}

func (stubDocumentService) ListByOwner(context.Context, string, int, int) ([]model.Document, error) {
	return nil, nil
}
func (stubDocumentService) Delete(context.Context, string) (bool, error) { return true, nil }

func newTestRouter(t *testing.T) (http.Handler, *fakeAuthService) {
	t.Helper()

	sessions := map[string]*domainauth.Session{}
	for _, role := range []domainauth.Role{
		domainauth.RoleEmployee, domainauth.RoleCoPatron, domainauth.RolePatron,
		domainauth.RoleDot, domainauth.RoleStaff, domainauth.RoleSuperadmin,
	} {
		id := "sess-" + string(role)
		sessions[id] = &domainauth.Session{
			ID:        id,
			UserID:    "user-" + string(role),
			Username:  string(role),
			Role:      role,
			RoleLevel: role.Level(),
			ExpiresAt: time.Now().Add(time.Hour),
		}
	}
	auth := &fakeAuthService{sessions: sessions}

	report := &model.DotationReport{
		ID:           "rep-1",
		EnterpriseID: "ent-1",
		Lines: []model.DotationLine{
			{EmployeeID: "user-employee", EmployeeName: "employee", Salary: 700},
			{EmployeeID: "user-patron", EmployeeName: "patron", Salary: 900},
		},
		TotalSalary: 1600,
	}

	router := NewRouter(RouterServices{
		Auth:        auth,
		Enterprises: stubEnterpriseService{},
		Dotations:   stubDotationService{report: report},
		Impots:      stubImpotsService{},
		Blanchiment: stubBlanchimentService{},
		Archives:    stubArchiveService{},
		Documents:   stubDocumentService{},
		Matrix:      authz.NewDefaultMatrix(),
		CallbackURL: "http://localhost:8080/auth/callback",
	})
	return router, auth
}

func doRequest(router http.Handler, method, path, sessionID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: "session_id", Value: sessionID})
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doRequest(router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_CapabilityGating(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name    string
		method  string
		path    string
		session string
		want    int
	}{
		{"anonymous enterprise list", http.MethodGet, "/api/enterprises", "", http.StatusUnauthorized},
		{"employee can see dashboard data", http.MethodGet, "/api/enterprises/ent-1", "sess-employee", http.StatusOK},
		{"employee cannot read dotations", http.MethodGet, "/api/dotations/rep-1", "sess-employee", http.StatusForbidden},
		{"patron reads dotations", http.MethodGet, "/api/dotations/rep-1", "sess-patron", http.StatusOK},
		{"dot lacks blanchiment", http.MethodGet, "/api/enterprises/ent-1/blanchiment", "sess-dot", http.StatusForbidden},
		{"dot holds impots", http.MethodGet, "/api/impots/brackets", "sess-dot", http.StatusOK},
		{"patron cannot replace tax scale", http.MethodPut, "/api/impots/brackets", "sess-patron", http.StatusForbidden},
		{"co_patron cannot manage enterprises", http.MethodDelete, "/api/enterprises/ent-1", "sess-co_patron", http.StatusForbidden},
		{"staff manages enterprises", http.MethodDelete, "/api/enterprises/ent-1", "sess-staff", http.StatusNoContent},
		{"employee lists own documents", http.MethodGet, "/api/documents/mine", "sess-employee", http.StatusOK},
		{"employee cannot list enterprise documents", http.MethodGet, "/api/enterprises/ent-1/documents", "sess-employee", http.StatusForbidden},
		{"superadmin reads archives", http.MethodGet, "/api/archives", "sess-superadmin", http.StatusOK},
		{"employee lacks archives", http.MethodGet, "/api/archives", "sess-employee", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(router, tt.method, tt.path, tt.session)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRouter_MyLinesReturnsOnlyOwnLines(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodGet, "/api/dotations/rep-1/my-lines", "sess-employee")
	assert.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `"user-employee"`)
	assert.NotContains(t, body, `"user-patron"`)
	assert.Contains(t, body, `"total_salary":700`)
}

func TestRouter_DocumentOwnerRule(t *testing.T) {
	router, _ := newTestRouter(t)

	// The stub document is owned by user-employee.
	rec := doRequest(router, http.MethodGet, "/api/documents/doc-1", "sess-employee")
	assert.Equal(t, http.StatusOK, rec.Code)

	// co_patron is not the owner but holds comptabilite.
	rec = doRequest(router, http.MethodGet, "/api/documents/doc-1", "sess-co_patron")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_UnknownRouteIs404(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doRequest(router, http.MethodGet, "/api/nope", "sess-superadmin")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
