package adapthttp

import (
	"net/http"

	"pourover/internal/app"

	"github.com/facebookincubator/go-belt/tool/logger"
)

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	recipes     *app.RecipeService
	brew        *app.BrewService
	authSvc     *app.AuthService
	oidcConfig  *OIDCConfig
	webDir      string
	disableAuth bool
	log         logger.Logger
}

// New creates a Server wired to the given application services.
func New(rs *app.RecipeService, bs *app.BrewService, as *app.AuthService, webDir string) *Server {
	return &Server{
		recipes:    rs,
		brew:       bs,
		authSvc:    as,
		oidcConfig: &OIDCConfig{},
		webDir:     webDir,
		log:        logger.Default(),
	}
}

// WithoutAuth turns off the login requirement on write endpoints.
func (s *Server) WithoutAuth() *Server {
	s.disableAuth = true
	return s
}

// WithOIDC enables single sign-on through the given provider.
func (s *Server) WithOIDC(cfg *OIDCConfig) *Server {
	if cfg != nil {
		s.oidcConfig = cfg
	}
	return s
}

// WithLogger sets the logger that request loggers derive from.
func (s *Server) WithLogger(l logger.Logger) *Server {
	if l != nil {
		s.log = l
	}
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	api.HandleFunc("/recipes", s.handleRecipes)
	api.HandleFunc("/recipes/import", s.handleRecipeImport)
	api.HandleFunc("/recipes/{id}", s.handleRecipe)
	api.HandleFunc("/recipes/{id}/target", s.handleRecipeTarget)
	api.HandleFunc("/recipes/{id}/scaled", s.handleRecipeScaled)
	api.HandleFunc("/recipes/{id}/chart", s.handleRecipeChart)
	api.HandleFunc("/recipes/{id}/export", s.handleRecipeExport)

	api.HandleFunc("/auth/login", s.handleLogin)
	api.HandleFunc("/auth/logout", s.handleLogout)
	api.HandleFunc("/auth/setup", s.handleSetupUser)
	api.HandleFunc("/auth/me", s.requireAuth(s.handleMe))
	api.HandleFunc("/auth/config", s.handleConfig)
	api.HandleFunc("/auth/sso/login", s.handleSSOLogin)
	api.HandleFunc("/auth/sso/callback", s.handleSSOCallback)

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))
	root.Handle("/", spaFromDisk(s.webDir))

	return s.loggingMiddleware(withNoCache(root))
}
