package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/pmdash/internal/domain/preference"
	"github.com/rpggio/pmdash/internal/domain/project"
	"github.com/rpggio/pmdash/internal/domain/session"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	List(ctx context.Context, ownerID string) ([]project.Project, error)
	Create(ctx context.Context, ownerID string, req project.CreateRequest) (*project.Project, error)
	Update(ctx context.Context, ownerID, id string, patch project.Patch) (*project.Project, error)
	Delete(ctx context.Context, ownerID, id string) error
	Summary(ctx context.Context, ownerID string) (project.Summary, error)
}

// PreferenceService defines preference operations needed by MCP.
type PreferenceService interface {
	Get(ctx context.Context, ownerID string) (preference.Preferences, error)
	Save(ctx context.Context, ownerID string, prefs preference.Preferences) (preference.Preferences, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects    ProjectService
	Preferences PreferenceService
}

// Config contains server configuration.
type Config struct {
	Services    Services
	Resolver    ActorResolver
	AuthEnabled bool
	// DefaultActor owns all calls when auth is disabled.
	DefaultActor session.Actor
	Logger       *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "pmdash",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	if cfg.AuthEnabled {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	} else {
		server.AddReceivingMiddleware(noAuthMiddleware(cfg.DefaultActor))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}
