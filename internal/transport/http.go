package transport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/rpggio/pmdash/internal/domain/preference"
	"github.com/rpggio/pmdash/internal/domain/project"
	"github.com/rpggio/pmdash/internal/domain/session"
	"github.com/rpggio/pmdash/internal/metrics"
)

// ProjectService defines project operations needed by the HTTP API.
type ProjectService interface {
	List(ctx context.Context, ownerID string) ([]project.Project, error)
	Create(ctx context.Context, ownerID string, req project.CreateRequest) (*project.Project, error)
	Update(ctx context.Context, ownerID, id string, patch project.Patch) (*project.Project, error)
	Delete(ctx context.Context, ownerID, id string) error
	Summary(ctx context.Context, ownerID string) (project.Summary, error)
}

// PreferenceService defines preference operations needed by the HTTP API.
type PreferenceService interface {
	Get(ctx context.Context, ownerID string) (preference.Preferences, error)
	Save(ctx context.Context, ownerID string, prefs preference.Preferences) (preference.Preferences, error)
}

// IdentityService defines account operations needed by the HTTP API.
type IdentityService interface {
	ActorResolver
	CreateUser(ctx context.Context, req session.SignUpRequest) (*session.Actor, error)
	SignIn(ctx context.Context, email, password string) (*session.Session, error)
	UpdateUser(ctx context.Context, actorID string, update session.ProfileUpdate) (*session.Actor, error)
	SignOut(ctx context.Context, token string) error
}

// Config wires the router.
type Config struct {
	Projects    ProjectService
	Preferences PreferenceService
	Identity    IdentityService
	Metrics     *metrics.Metrics
	Logger      *slog.Logger
	// AnonKey guards the unauthenticated account endpoints when set.
	AnonKey string
	// BasePath mounts the API under a prefix, e.g. "/functions/v1".
	BasePath string
	// MCP is served at /mcp when set.
	MCP http.Handler
}

// Server holds the HTTP handlers.
type Server struct {
	projects    ProjectService
	preferences PreferenceService
	identity    IdentityService
	metrics     *metrics.Metrics
	logger      *slog.Logger
	now         func() time.Time
}

// NewServer creates an HTTP router with middleware.
func NewServer(cfg Config) *chi.Mux {
	srv := &Server{
		projects:    cfg.Projects,
		preferences: cfg.Preferences,
		identity:    cfg.Identity,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
		now:         time.Now,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(cfg.Logger, cfg.Metrics))
	r.Use(Recoverer(cfg.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))

	api := chi.NewRouter()
	api.Get("/health", srv.handleHealth)

	api.Group(func(r chi.Router) {
		r.Use(AnonKeyMiddleware(cfg.AnonKey, cfg.Metrics))
		r.Post("/signup", srv.handleSignUp)
		r.Post("/auth/v1/token", srv.handleToken)
	})

	api.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Identity, cfg.Metrics))

		r.Get("/auth/v1/user", srv.handleGetUser)
		r.Put("/auth/v1/user", srv.handleUpdateUser)
		r.Post("/auth/v1/logout", srv.handleLogout)

		r.Get("/projects", srv.handleListProjects)
		r.Post("/projects", srv.handleCreateProject)
		r.Get("/projects/summary", srv.handleProjectSummary)
		r.Put("/projects/{id}", srv.handleUpdateProject)
		r.Delete("/projects/{id}", srv.handleDeleteProject)

		r.Get("/user/preferences", srv.handleGetPreferences)
		r.Post("/user/preferences", srv.handleSavePreferences)
	})

	if cfg.BasePath != "" && cfg.BasePath != "/" {
		r.Mount(cfg.BasePath, api)
	} else {
		r.Mount("/", api)
	}

	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}
	if cfg.MCP != nil {
		r.Handle("/mcp", cfg.MCP)
		r.Handle("/mcp/*", cfg.MCP)
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": s.now().UTC().Format(time.RFC3339),
	})
}

// internalError logs err and writes the generic 500 message for op.
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if s.logger != nil {
		s.logger.Error("request failed",
			slog.String("op", op),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
	writeError(w, http.StatusInternalServerError, "Internal server error while "+op)
}

// mustActor returns the actor set by AuthMiddleware.
func mustActor(w http.ResponseWriter, r *http.Request) (*session.Actor, bool) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not authenticated")
		return nil, false
	}
	return actor, true
}
