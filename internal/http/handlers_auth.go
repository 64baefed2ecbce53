package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/flashbackfa/entreprise-api/internal/domain/auth"
	"github.com/flashbackfa/entreprise-api/internal/domain/authz"
	"github.com/flashbackfa/entreprise-api/internal/observability/metrics"
	"github.com/flashbackfa/entreprise-api/internal/service"
)

const (
	oauthStateCookie    = "oauth_state"
	postLoginCookie     = "post_login_redirect"
	sessionCookie       = "session_id"
	oauthCookieMaxAge   = 600
	sessionCookieMaxAge = 7 * 24 * 3600
)

// AuthServiceInterface is the subset of the auth service the handlers need.
type AuthServiceInterface interface {
	BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	CompleteLogin(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error)
	RefreshRole(ctx context.Context, sessionID string) (*domainauth.Session, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandlers bundles the authentication endpoints.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	Matrix       *authz.Matrix
	Metrics      *metrics.Metrics
	CookieDomain string
	CallbackURL  string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Login starts the OAuth flow and redirects the browser to Discord.
// An optional redirect_uri query param (relative path only) is remembered
// for after the callback.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	postLogin := safeRedirectPath(r.URL.Query().Get("redirect_uri"))

	result, err := h.Svc.BeginLogin(r.Context(), h.CallbackURL)
	if err != nil {
		h.logger().Error("begin login", slog.Any("error", err))
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "login_failed", Err: err})
		return
	}

	h.setOAuthCookies(w, r, result.State, postLogin)
	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// Callback completes the OAuth flow: the state query param must match the
// state cookie set by Login, then the code is exchanged for a session.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_callback",
			Err:     errors.New("code and state are required"),
		})
		return
	}

	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != state {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "state_mismatch",
			Err:     errors.New("state parameter does not match"),
		})
		return
	}

	result, err := h.Svc.CompleteLogin(r.Context(), service.CompleteLoginInput{Code: code, State: state})
	if h.Metrics != nil {
		h.Metrics.RecordLogin(err)
	}
	if err != nil {
		h.logger().Error("complete login", slog.Any("error", err))
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "login_failed", Err: err})
		return
	}
	if h.Metrics != nil {
		h.Metrics.RecordRoleResolution(string(result.Session.Role))
	}

	h.setSessionCookie(w, r, result.Session)
	h.clearCookie(w, r, oauthStateCookie)

	redirectTo := "/"
	if c, cookieErr := r.Cookie(postLoginCookie); cookieErr == nil {
		redirectTo = safeRedirectPath(c.Value)
	}
	h.clearCookie(w, r, postLoginCookie)

	http.Redirect(w, r, redirectTo, http.StatusFound)
}

// Logout deletes the server-side session and clears the cookie.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if logoutErr := h.Svc.Logout(r.Context(), c.Value); logoutErr != nil {
			h.logger().Warn("logout", slog.Any("error", logoutErr))
		}
	}
	h.clearCookie(w, r, sessionCookie)
	WriteJSON(w, http.StatusOK, map[string]bool{"logged_out": true})
}

// statusUser is the identity portion of the Status payload.
type statusUser struct {
	ID        string                  `json:"id"`
	Username  string                  `json:"username"`
	AvatarURL string                  `json:"avatar_url,omitempty"`
	Role      domainauth.Role         `json:"role"`
	RoleLevel int                     `json:"role_level"`
	Audit     []domainauth.GuildAudit `json:"audit,omitempty"`
}

// Status reports whether the caller is authenticated and, if so, the resolved
// identity plus the capability set the SPA uses to gate its UI.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromRequest(r, h.Svc)
	if session == nil {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user": statusUser{
			ID:        session.UserID,
			Username:  session.Username,
			AvatarURL: session.AvatarURL,
			Role:      session.Role,
			RoleLevel: session.RoleLevel,
			Audit:     session.Audit,
		},
		"capabilities": h.Matrix.Capabilities(session.Role),
		"expires_at":   session.ExpiresAt.Format(time.RFC3339),
	})
}

// Refresh re-runs role resolution for the current session, picking up guild
// role changes without a full re-login.
func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	session, err := h.Svc.RefreshRole(r.Context(), c.Value)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "refresh_failed", Err: err})
		return
	}
	if h.Metrics != nil {
		h.Metrics.RecordRoleResolution(string(session.Role))
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"user": statusUser{
			ID:        session.UserID,
			Username:  session.Username,
			AvatarURL: session.AvatarURL,
			Role:      session.Role,
			RoleLevel: session.RoleLevel,
			Audit:     session.Audit,
		},
		"capabilities": h.Matrix.Capabilities(session.Role),
	})
}

func (h *AuthHandlers) setOAuthCookies(w http.ResponseWriter, r *http.Request, state, postLogin string) {
	secure := isSecureRequest(r)
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		Domain:   h.CookieDomain,
		MaxAge:   oauthCookieMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     postLoginCookie,
		Value:    postLogin,
		Path:     "/",
		Domain:   h.CookieDomain,
		MaxAge:   oauthCookieMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, session domainauth.Session) {
	maxAge := sessionCookieMaxAge
	if until := time.Until(session.ExpiresAt); until > 0 && int(until.Seconds()) < maxAge {
		maxAge = int(until.Seconds())
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    session.ID,
		Path:     "/",
		Domain:   h.CookieDomain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	})
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
