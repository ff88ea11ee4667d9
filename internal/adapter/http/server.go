// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"embed"
	"html/template"
	"net/http"

	"authgate/internal/app"
	"authgate/internal/logger"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

//go:embed templates/*.html
var templateFS embed.FS

// OIDCConfig carries the provider wiring for SSO login. A zero value means
// SSO is disabled.
type OIDCConfig struct {
	Enabled      bool
	Provider     *oidc.Provider
	OAuth2Config *oauth2.Config
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	auth     *app.AuthService
	sessions *app.SessionManager
	oidc     OIDCConfig
	log      *logger.Logger
	tmpl     *template.Template
}

// New creates a Server wired to the given application services.
func New(auth *app.AuthService, sessions *app.SessionManager, oidcCfg OIDCConfig, log *logger.Logger) *Server {
	return &Server{
		auth:     auth,
		sessions: sessions,
		oidc:     oidcCfg,
		log:      log,
		tmpl:     template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	mux.Handle("GET /{$}", s.requireAuthenticated(http.HandlerFunc(s.handleHome)))
	mux.Handle("GET /login", s.requireAnonymous(http.HandlerFunc(s.handleLoginForm)))
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("GET /logout", s.handleLogout)
	mux.HandleFunc("GET /register", s.handleRegisterForm)
	mux.HandleFunc("POST /register", s.handleRegister)

	mux.HandleFunc("GET /auth/sso/login", s.handleSSOLogin)
	mux.HandleFunc("GET /auth/sso/callback", s.handleSSOCallback)

	return s.loggingMiddleware(mux)
}
