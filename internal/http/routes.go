package httpx

import (
	"log/slog"
	"net/http"

	"github.com/flashbackfa/entreprise-api/internal/domain/authz"
	"github.com/flashbackfa/entreprise-api/internal/observability/metrics"
)

// RouterServices groups everything the router wires together.
type RouterServices struct {
	Auth        AuthServiceInterface
	Enterprises EnterpriseServiceInterface
	Dotations   DotationServiceInterface
	Impots      ImpotsServiceInterface
	Blanchiment BlanchimentServiceInterface
	Archives    ArchiveServiceInterface
	Documents   DocumentServiceInterface

	Matrix  *authz.Matrix
	Metrics *metrics.Metrics
	Logger  *slog.Logger

	CookieDomain string
	CallbackURL  string

	// AuthRatePerSecond/AuthRateBurst throttle the login endpoints per IP.
	// Zero values fall back to 2 req/s with a burst of 5.
	AuthRatePerSecond float64
	AuthRateBurst     int
}

// NewRouter builds the HTTP handler tree. Every business route is gated by
// the capability matrix; unknown roles and unmapped capabilities are denied.
func NewRouter(svcs RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:          svcs.Auth,
		Matrix:       svcs.Matrix,
		Metrics:      svcs.Metrics,
		CookieDomain: svcs.CookieDomain,
		CallbackURL:  svcs.CallbackURL,
		Logger:       svcs.Logger,
	}
	enterpriseHandlers := &EnterpriseHandlers{Svc: svcs.Enterprises}
	dotationHandlers := &DotationHandlers{Svc: svcs.Dotations}
	impotsHandlers := &ImpotsHandlers{Svc: svcs.Impots}
	blanchimentHandlers := &BlanchimentHandlers{Svc: svcs.Blanchiment}
	archiveHandlers := &ArchiveHandlers{Svc: svcs.Archives}
	documentHandlers := &DocumentHandlers{Svc: svcs.Documents, Matrix: svcs.Matrix}

	perSecond := svcs.AuthRatePerSecond
	if perSecond <= 0 {
		perSecond = 2
	}
	burst := svcs.AuthRateBurst
	if burst <= 0 {
		burst = 5
	}
	authLimiter := NewRateLimiter(perSecond, burst)

	mux.HandleFunc("GET /healthz", healthHandler)
	mux.HandleFunc("HEAD /healthz", healthHandler)
	if svcs.Metrics != nil {
		mux.Handle("GET /metrics", svcs.Metrics.Handler())
	}

	// Auth flow. Login and callback are rate limited; status and refresh
	// resolve the session themselves so they stay reachable pre-login.
	mux.Handle("GET /auth/login", authLimiter.Middleware(http.HandlerFunc(authHandlers.Login)))
	mux.Handle("GET /auth/callback", authLimiter.Middleware(http.HandlerFunc(authHandlers.Callback)))
	mux.HandleFunc("POST /auth/logout", authHandlers.Logout)
	mux.HandleFunc("GET /auth/status", authHandlers.Status)
	mux.HandleFunc("POST /auth/refresh", authHandlers.Refresh)

	requireCap := func(capability authz.Capability, handler http.HandlerFunc) http.Handler {
		return RequireCapability(svcs.Auth, svcs.Matrix, capability)(handler)
	}

	// Enterprises. Reads need the dashboard capability, writes company_config.
	mux.Handle("GET /api/enterprises", requireCap(authz.CapDashboard, enterpriseHandlers.List))
	mux.Handle("POST /api/enterprises", requireCap(authz.CapCompanyConfig, enterpriseHandlers.Create))
	mux.Handle("GET /api/enterprises/{id}", requireCap(authz.CapDashboard, enterpriseHandlers.Get))
	mux.Handle("PATCH /api/enterprises/{id}", requireCap(authz.CapCompanyConfig, enterpriseHandlers.Update))
	mux.Handle("DELETE /api/enterprises/{id}", requireCap(authz.CapCompanyConfig, enterpriseHandlers.Delete))
	mux.Handle("GET /api/enterprises/by-guild/{guildID}", requireCap(authz.CapDashboard, enterpriseHandlers.GetByGuild))

	// Dotations.
	mux.Handle("POST /api/dotations", requireCap(authz.CapDotations, dotationHandlers.Create))
	mux.Handle("GET /api/dotations/{id}", requireCap(authz.CapDotations, dotationHandlers.Get))
	mux.Handle("GET /api/enterprises/{id}/dotations", requireCap(authz.CapDotations, dotationHandlers.List))
	// The salaires view is readable by plain employees, scoped to their own lines.
	mux.Handle("GET /api/dotations/{id}/my-lines", requireCap(authz.CapSalaires, dotationHandlers.MyLines))

	// Impots.
	mux.Handle("GET /api/impots/brackets", requireCap(authz.CapImpots, impotsHandlers.ListBrackets))
	mux.Handle("PUT /api/impots/brackets", requireCap(authz.CapConfigStaff, impotsHandlers.ReplaceBrackets))
	mux.Handle("POST /api/impots/simulate", requireCap(authz.CapImpots, impotsHandlers.Simulate))

	// Blanchiment.
	mux.Handle("POST /api/blanchiment", requireCap(authz.CapBlanchiment, blanchimentHandlers.Record))
	mux.Handle("POST /api/blanchiment/{id}/review", requireCap(authz.CapBlanchiment, blanchimentHandlers.Review))
	mux.Handle("GET /api/enterprises/{id}/blanchiment", requireCap(authz.CapBlanchiment, blanchimentHandlers.List))
	mux.Handle("GET /api/enterprises/{id}/blanchiment/totals", requireCap(authz.CapBlanchiment, blanchimentHandlers.Totals))

	// Archives.
	mux.Handle("POST /api/archives", requireCap(authz.CapArchives, archiveHandlers.Snapshot))
	mux.Handle("GET /api/archives", requireCap(authz.CapArchives, archiveHandlers.Search))
	mux.Handle("GET /api/archives/{id}", requireCap(authz.CapArchives, archiveHandlers.Get))

	// Documents.
	mux.Handle("POST /api/documents", requireCap(authz.CapDocuments, documentHandlers.Register))
	mux.Handle("GET /api/documents/mine", requireCap(authz.CapDocuments, documentHandlers.ListMine))
	mux.Handle("GET /api/documents/{id}", requireCap(authz.CapDocuments, documentHandlers.Get))
	mux.Handle("DELETE /api/documents/{id}", requireCap(authz.CapDocuments, documentHandlers.Delete))
	mux.Handle("GET /api/enterprises/{id}/documents", requireCap(authz.CapComptabilite, documentHandlers.ListByEnterprise))

	var handler http.Handler = mux
	if svcs.Metrics != nil {
		handler = svcs.Metrics.Instrument(handler)
	}
	logger := svcs.Logger
	if logger == nil {
		logger = slog.Default()
	}
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler
}
