package transport_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/pmdash/internal/domain/preference"
	"github.com/rpggio/pmdash/internal/domain/project"
	"github.com/rpggio/pmdash/internal/domain/session"
	"github.com/rpggio/pmdash/internal/identity"
	"github.com/rpggio/pmdash/internal/kv"
	"github.com/rpggio/pmdash/internal/metrics"
	"github.com/rpggio/pmdash/internal/sqlite"
	"github.com/rpggio/pmdash/internal/transport"
)

type apiHarness struct {
	server *httptest.Server
	ids    *identity.Service
}

func newHarness(t *testing.T, anonKey string) *apiHarness {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	store := sqlite.NewKVStore(db)
	ids := identity.NewService(sqlite.NewUserRepository(db), "test-secret", time.Hour, nil)

	router := transport.NewServer(transport.Config{
		Projects:    project.NewService(kv.NewProjectRepository(store), nil),
		Preferences: preference.NewService(kv.NewPreferenceRepository(store), nil),
		Identity:    ids,
		Metrics:     metrics.New(),
		AnonKey:     anonKey,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &apiHarness{server: srv, ids: ids}
}

func (h *apiHarness) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, h.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	if resp.ContentLength != 0 && resp.Header.Get("Content-Type") == "application/json" {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp.StatusCode, out
}

func (h *apiHarness) signIn(t *testing.T, email, name string) string {
	t.Helper()
	_, err := h.ids.CreateUser(context.Background(), session.SignUpRequest{Email: email, Password: "secret1", Name: name})
	require.NoError(t, err)
	sess, err := h.ids.SignIn(context.Background(), email, "secret1")
	require.NoError(t, err)
	return sess.AccessToken
}

func TestHealth(t *testing.T) {
	h := newHarness(t, "")
	status, body := h.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "healthy", body["status"])
	_, err := time.Parse(time.RFC3339, body["timestamp"].(string))
	require.NoError(t, err)
}

func TestProjectsRequireAuth(t *testing.T) {
	h := newHarness(t, "")

	status, body := h.do(t, http.MethodGet, "/projects", "", nil)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "No token provided", body["error"])

	status, body = h.do(t, http.MethodGet, "/projects", "garbage", nil)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "Invalid token", body["error"])
}

func TestSignUpAndToken(t *testing.T) {
	h := newHarness(t, "anon")

	status, _ := h.do(t, http.MethodPost, "/signup", "", map[string]string{"email": "a@example.com", "password": "secret1", "name": "Ann"})
	require.Equal(t, http.StatusUnauthorized, status)

	status, body := h.do(t, http.MethodPost, "/signup", "anon", map[string]string{"email": "a@example.com"})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, identity.ErrMissingFields.Error(), body["error"])

	status, body = h.do(t, http.MethodPost, "/signup", "anon", map[string]string{"email": "A@Example.com", "password": "secret1", "name": " Ann "})
	require.Equal(t, http.StatusOK, status)
	user := body["user"].(map[string]any)
	require.Equal(t, "a@example.com", user["email"])
	require.Equal(t, "Ann", user["name"])

	status, body = h.do(t, http.MethodPost, "/signup", "anon", map[string]string{"email": "a@example.com", "password": "secret1", "name": "Ann"})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "A user with this email address has already been registered", body["error"])

	status, body = h.do(t, http.MethodPost, "/auth/v1/token", "anon", map[string]string{"email": "a@example.com", "password": "wrong1"})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "Invalid login credentials", body["error"])

	status, body = h.do(t, http.MethodPost, "/auth/v1/token", "anon", map[string]string{"email": "a@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, status)
	token := body["access_token"].(string)
	require.NotEmpty(t, token)
	require.Equal(t, "bearer", body["token_type"])

	status, body = h.do(t, http.MethodGet, "/auth/v1/user", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "a@example.com", body["user"].(map[string]any)["email"])

	status, body = h.do(t, http.MethodPut, "/auth/v1/user", token, map[string]string{"name": "Annie"})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Annie", body["user"].(map[string]any)["name"])

	status, _ = h.do(t, http.MethodPost, "/auth/v1/logout", token, nil)
	require.Equal(t, http.StatusOK, status)
}

func TestProjectLifecycle(t *testing.T) {
	h := newHarness(t, "")
	token := h.signIn(t, "pm@example.com", "Pat Morgan")

	status, body := h.do(t, http.MethodGet, "/projects", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.Empty(t, body["projects"])

	status, body = h.do(t, http.MethodPost, "/projects", token, map[string]any{
		"name":     "Website Redesign",
		"status":   "In Progress",
		"priority": "High",
		"dueDate":  "2030-02-15",
	})
	require.Equal(t, http.StatusOK, status)
	created := body["project"].(map[string]any)
	id := created["id"].(string)
	require.Regexp(t, `^proj_`, id)
	require.EqualValues(t, 0, created["progress"])
	assignee := created["assignee"].(map[string]any)
	require.Equal(t, "Pat Morgan", assignee["name"])
	require.Equal(t, "PM", assignee["initials"])

	status, body = h.do(t, http.MethodPost, "/projects", token, map[string]any{"name": "Bad", "status": "Done"})
	require.Equal(t, http.StatusBadRequest, status)
	require.Contains(t, body["error"], "unknown status")

	status, body = h.do(t, http.MethodPut, "/projects/"+id, token, map[string]any{"progress": 40})
	require.Equal(t, http.StatusOK, status)
	updated := body["project"].(map[string]any)
	require.EqualValues(t, 40, updated["progress"])
	require.Equal(t, "Website Redesign", updated["name"])

	status, body = h.do(t, http.MethodPut, "/projects/proj_missing", token, map[string]any{"progress": 40})
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "Project not found", body["error"])

	status, body = h.do(t, http.MethodGet, "/projects/summary", token, nil)
	require.Equal(t, http.StatusOK, status)
	summary := body["summary"].(map[string]any)
	require.EqualValues(t, 1, summary["total"])
	require.EqualValues(t, 40, summary["averageProgress"])

	status, body = h.do(t, http.MethodDelete, "/projects/"+id, token, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, body["success"])

	status, body = h.do(t, http.MethodDelete, "/projects/"+id, token, nil)
	require.Equal(t, http.StatusOK, status)

	status, body = h.do(t, http.MethodGet, "/projects", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.Empty(t, body["projects"])
}

func TestProjectsAreScopedToActor(t *testing.T) {
	h := newHarness(t, "")
	alice := h.signIn(t, "alice@example.com", "Alice")
	bob := h.signIn(t, "bob@example.com", "Bob")

	status, body := h.do(t, http.MethodPost, "/projects", alice, map[string]any{"name": "Private"})
	require.Equal(t, http.StatusOK, status)
	id := body["project"].(map[string]any)["id"].(string)

	_, body = h.do(t, http.MethodGet, "/projects", bob, nil)
	require.Empty(t, body["projects"])

	status, _ = h.do(t, http.MethodPut, "/projects/"+id, bob, map[string]any{"name": "Stolen"})
	require.Equal(t, http.StatusNotFound, status)

	_, body = h.do(t, http.MethodGet, "/projects", alice, nil)
	require.Len(t, body["projects"], 1)
}

func TestPreferences(t *testing.T) {
	h := newHarness(t, "")
	token := h.signIn(t, "p@example.com", "Pref User")

	status, body := h.do(t, http.MethodGet, "/user/preferences", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "system", body["preferences"].(map[string]any)["theme"])

	status, _ = h.do(t, http.MethodPost, "/user/preferences", token, map[string]any{"theme": "dark", "sidebar": "collapsed"})
	require.Equal(t, http.StatusOK, status)

	_, body = h.do(t, http.MethodGet, "/user/preferences", token, nil)
	prefs := body["preferences"].(map[string]any)
	require.Equal(t, "dark", prefs["theme"])
	require.Equal(t, "collapsed", prefs["sidebar"])

	status, _ = h.do(t, http.MethodPost, "/user/preferences", token, map[string]any{"theme": "neon"})
	require.Equal(t, http.StatusBadRequest, status)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newHarness(t, "")
	h.do(t, http.MethodGet, "/health", "", nil)

	resp, err := http.Get(h.server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

type failingSignUp struct {
	*identity.Service
}

func (failingSignUp) CreateUser(context.Context, session.SignUpRequest) (*session.Actor, error) {
	return nil, errors.New("disk full")
}

func TestSignUpInternalError(t *testing.T) {
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	store := sqlite.NewKVStore(db)
	router := transport.NewServer(transport.Config{
		Projects:    project.NewService(kv.NewProjectRepository(store), nil),
		Preferences: preference.NewService(kv.NewPreferenceRepository(store), nil),
		Identity:    failingSignUp{identity.NewService(sqlite.NewUserRepository(db), "test-secret", time.Hour, nil)},
	})

	body := `{"email":"a@example.com","password":"secret1","name":"Ann"}`
	req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Internal server error while signing up", resp["error"])
	require.NotContains(t, rec.Body.String(), "disk full")
}
