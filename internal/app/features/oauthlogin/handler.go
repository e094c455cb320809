// internal/app/features/oauthlogin/handler.go
package oauthlogin

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"
	"time"

	loginstore "github.com/dalemusser/scholarhub/internal/app/store/logins"
	"github.com/dalemusser/scholarhub/internal/app/store/oauthstate"
	userstore "github.com/dalemusser/scholarhub/internal/app/store/users"
	"github.com/dalemusser/scholarhub/internal/app/system/auditlog"
	"github.com/dalemusser/scholarhub/internal/app/system/auth"
	"github.com/dalemusser/scholarhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// stateTTL bounds how long a user may sit on the consent screen.
const stateTTL = 10 * time.Minute

// Handler runs the OAuth sign-in flow for every configured provider.
type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	States     *oauthstate.Store
	Users      *userstore.Store
	Logins     *loginstore.Store
	Providers  map[string]*Provider

	AdminEmail string
	Domain     string // institution email domain, e.g. "minsu.edu.ph"
	LoginPath  string // where failures are sent, e.g. "/login"

	now func() time.Time
}

// NewHandler creates a sign-in handler for the given providers.
func NewHandler(
	sessionMgr *auth.SessionManager,
	audit *auditlog.Logger,
	states *oauthstate.Store,
	users *userstore.Store,
	logins *loginstore.Store,
	adminEmail, domain string,
	logger *zap.Logger,
	providers ...*Provider,
) *Handler {
	h := &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		AuditLog:   audit,
		States:     states,
		Users:      users,
		Logins:     logins,
		Providers:  map[string]*Provider{},
		AdminEmail: adminEmail,
		Domain:     domain,
		LoginPath:  "/login",
		now:        time.Now,
	}
	for _, p := range providers {
		if p != nil {
			h.Providers[p.Name] = p
		}
	}
	return h
}

func (h *Handler) provider(r *http.Request) (*Provider, bool) {
	p, ok := h.Providers[chi.URLParam(r, "provider")]
	if !ok || !p.Configured() {
		return nil, false
	}
	return p, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, h.LoginPath+"?error="+url.QueryEscape(code), http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/{provider}                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeLogin redirects to the provider's consent screen.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	p, ok := h.provider(r)
	if !ok {
		h.Log.Warn("sign-in provider not configured", zap.String("provider", chi.URLParam(r, "provider")))
		h.fail(w, r, "provider_not_configured")
		return
	}

	state, err := generateState()
	if err != nil {
		h.Log.Error("failed to generate OAuth state", zap.Error(err))
		h.fail(w, r, "internal")
		return
	}
	returnURL := query.Get(r, "return")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.States.Save(ctx, state, p.Name, returnURL, h.now().UTC().Add(stateTTL)); err != nil {
		h.Log.Error("failed to save OAuth state", zap.Error(err))
		h.fail(w, r, "internal")
		return
	}

	dest := p.Config.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
	h.Log.Debug("initiating OAuth flow",
		zap.String("provider", p.Name),
		zap.String("return_url", returnURL))
	http.Redirect(w, r, dest, http.StatusTemporaryRedirect)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/{provider}/callback                                                |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeCallback completes the flow: state check, code exchange, profile
// fetch, sign-in gate, user upsert and session.
func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := h.provider(r)
	if !ok {
		h.fail(w, r, "provider_not_configured")
		return
	}

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("OAuth error from provider",
			zap.String("provider", p.Name),
			zap.String("error", errParam),
			zap.String("description", r.URL.Query().Get("error_description")))
		h.AuditLog.LoginFailed(ctx, r, p.Name, "provider_denied")
		h.fail(w, r, "provider_denied")
		return
	}

	state := r.URL.Query().Get("state")
	if state == "" {
		h.fail(w, r, "invalid_state")
		return
	}

	sctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	returnURL, valid, err := h.States.Validate(sctx, state, p.Name)
	cancel()
	if err != nil {
		h.Log.Error("failed to validate OAuth state", zap.Error(err))
		h.fail(w, r, "internal")
		return
	}
	if !valid {
		h.Log.Warn("invalid or expired OAuth state", zap.String("provider", p.Name))
		h.AuditLog.LoginFailed(ctx, r, p.Name, "invalid_state")
		h.fail(w, r, "invalid_state")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.fail(w, r, "invalid_code")
		return
	}

	token, err := p.Config.Exchange(ctx, code)
	if err != nil {
		h.Log.Error("failed to exchange OAuth code", zap.String("provider", p.Name), zap.Error(err))
		h.AuditLog.LoginFailed(ctx, r, p.Name, "token_exchange")
		h.fail(w, r, "token_exchange")
		return
	}

	prof, err := p.Profile(ctx, p.Config.Client(ctx, token), token)
	if err != nil || prof.Subject == "" {
		h.Log.Error("failed to fetch user info", zap.String("provider", p.Name), zap.Error(err))
		h.AuditLog.LoginFailed(ctx, r, p.Name, "user_info")
		h.fail(w, r, "user_info")
		return
	}

	if p.Tenant != "" && !strings.EqualFold(prof.TenantID, p.Tenant) {
		h.Log.Warn("sign-in refused from foreign tenant",
			zap.String("provider", p.Name),
			zap.String("tenant", prof.TenantID),
			zap.String("email", prof.Email))
		if err := h.SessionMgr.SignOut(w, r); err != nil {
			h.Log.Warn("clear session after refused sign-in", zap.Error(err))
		}
		h.AuditLog.LoginRejected(ctx, r, p.Name, prof.Email)
		h.fail(w, r, "tenant_not_allowed")
		return
	}

	role, allowed := Classify(prof.Email, h.AdminEmail, h.Domain)
	if !allowed {
		h.Log.Info("sign-in refused by domain gate",
			zap.String("provider", p.Name),
			zap.String("email", prof.Email))
		if err := h.SessionMgr.SignOut(w, r); err != nil {
			h.Log.Warn("clear session after refused sign-in", zap.Error(err))
		}
		h.AuditLog.LoginRejected(ctx, r, p.Name, prof.Email)
		h.fail(w, r, "domain_not_allowed")
		return
	}

	uid := p.Name + ":" + prof.Subject
	uctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	u, err := h.Users.UpsertOnSignIn(uctx, userstore.SignInProfile{
		UID:         uid,
		Email:       prof.Email,
		DisplayName: prof.Name,
		PhotoURL:    prof.Picture,
		Provider:    p.Name,
		Role:        role,
	}, h.now())
	if err != nil {
		h.Log.Error("failed to upsert user on sign-in", zap.String("user_id", uid), zap.Error(err))
		h.fail(w, r, "internal")
		return
	}

	if err := h.SessionMgr.SignIn(w, r, u.UID); err != nil {
		h.Log.Error("save session failed", zap.String("user_id", u.UID), zap.Error(err))
		h.fail(w, r, "session")
		return
	}

	if h.Logins != nil {
		if err := h.Logins.CreateFrom(uctx, r, u.UID, p.Name); err != nil {
			h.Log.Warn("failed to record login", zap.String("user_id", u.UID), zap.Error(err))
		}
	}
	h.AuditLog.LoginSuccess(ctx, r, u.UID, p.Name, u.Role)
	h.Log.Info("user signed in",
		zap.String("user_id", u.UID),
		zap.String("provider", p.Name),
		zap.String("role", u.Role))

	fallback := "/dashboard"
	if u.Role == auth.RoleAdmin {
		fallback = "/admin"
	}
	http.Redirect(w, r, urlutil.SafeReturn(returnURL, "", fallback), http.StatusSeeOther)
}

// generateState creates a cryptographically secure random state string.
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
