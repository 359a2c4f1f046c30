package testserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/pmdash/internal/domain/preference"
	"github.com/rpggio/pmdash/internal/domain/project"
	"github.com/rpggio/pmdash/internal/domain/session"
	"github.com/rpggio/pmdash/internal/identity"
	"github.com/rpggio/pmdash/internal/kv"
	"github.com/rpggio/pmdash/internal/mcp"
	"github.com/rpggio/pmdash/internal/metrics"
	"github.com/rpggio/pmdash/internal/sqlite"
	"github.com/rpggio/pmdash/internal/transport"
)

// AnonKey is the public key the test server expects on account endpoints.
const AnonKey = "test-anon-key"

type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	Identity *identity.Service
}

// New starts the full API against a private in-memory database.
func New(t *testing.T) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	store := sqlite.NewKVStore(db)
	projectSvc := project.NewService(kv.NewProjectRepository(store), nil)
	preferenceSvc := preference.NewService(kv.NewPreferenceRepository(store), nil)
	identitySvc := identity.NewService(sqlite.NewUserRepository(db), "test-secret", time.Hour, nil)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects:    projectSvc,
			Preferences: preferenceSvc,
		},
		Resolver:    identitySvc,
		AuthEnabled: true,
	})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{Stateless: true},
	)

	server := httptest.NewServer(transport.NewServer(transport.Config{
		Projects:    projectSvc,
		Preferences: preferenceSvc,
		Identity:    identitySvc,
		Metrics:     metrics.New(),
		AnonKey:     AnonKey,
		MCP:         mcpHandler,
	}))

	ts := &TestServer{
		Server:   server,
		DB:       db,
		Identity: identitySvc,
	}

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

// URL returns the base URL of the running server.
func (ts *TestServer) URL() string {
	return ts.Server.URL
}

// AddUser registers an account directly with the identity service.
func (ts *TestServer) AddUser(t *testing.T, email, password, name string) *session.Actor {
	t.Helper()
	actor, err := ts.Identity.CreateUser(context.Background(), session.SignUpRequest{
		Email:    email,
		Password: password,
		Name:     name,
	})
	require.NoError(t, err)
	return actor
}

// Token signs in and returns a bearer token.
func (ts *TestServer) Token(t *testing.T, email, password string) string {
	t.Helper()
	sess, err := ts.Identity.SignIn(context.Background(), email, password)
	require.NoError(t, err)
	return sess.AccessToken
}
