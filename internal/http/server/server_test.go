package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"vortexgames/internal/audit"
	"vortexgames/internal/config"
	dbpkg "vortexgames/internal/db"
	"vortexgames/internal/db/dbtest"
	"vortexgames/internal/metrics"
	"vortexgames/internal/session"
)

const cookieName = "vortex.sid"

type harness struct {
	t       *testing.T
	store   *dbpkg.Store
	audit   *audit.Logger
	handler fasthttp.RequestHandler
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWithSessions(t, session.NewMemoryStore(time.Hour))
}

func newHarnessWithSessions(t *testing.T, sessions session.Store) *harness {
	t.Helper()
	store := dbtest.NewStore(t)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	logger := audit.New(store, audit.Hooks{
		Failed: func(e audit.Entry, err error) { t.Errorf("audit %s: %v", e.Action, err) },
	})
	t.Cleanup(logger.Wait)

	cfg := &config.Config{SessionCookie: cookieName, SessionTTL: time.Hour}
	h := New(Dependencies{
		Config:   cfg,
		Store:    store,
		Sessions: sessions,
		Audit:    logger,
		Metrics:  m,
		Gatherer: reg,
		Static:   fstest.MapFS{"index.html": {Data: []byte("<h1>VortexGames Console</h1>")}},
	})
	return &harness{t: t, store: store, audit: logger, handler: h}
}

type reqOpt func(req *fasthttp.Request)

func withCookie(token string) reqOpt {
	return func(req *fasthttp.Request) { req.Header.SetCookie(cookieName, token) }
}

func withAPIKey(key string) reqOpt {
	return func(req *fasthttp.Request) { req.Header.Set("x-api-key", key) }
}

func withRawBody(body string) reqOpt {
	return func(req *fasthttp.Request) { req.SetBodyString(body) }
}

func (h *harness) do(method, uri string, body any, opts ...reqOpt) *fasthttp.RequestCtx {
	h.t.Helper()
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(h.t, err)
		req.Header.SetContentType("application/json")
		req.SetBody(b)
	}
	for _, o := range opts {
		o(&req)
	}
	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	h.handler(ctx)
	return ctx
}

func decode[T any](t *testing.T, ctx *fasthttp.RequestCtx) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &v), string(ctx.Response.Body()))
	return v
}

// login returns the session token issued for username.
func (h *harness) login(username, password string) string {
	h.t.Helper()
	ctx := h.do("POST", "/auth/login", map[string]string{"username": username, "password": password})
	require.Equal(h.t, fasthttp.StatusOK, ctx.Response.StatusCode())
	res := decode[map[string]any](h.t, ctx)
	require.Equal(h.t, true, res["success"], res)

	var c fasthttp.Cookie
	c.SetKey(cookieName)
	require.True(h.t, ctx.Response.Header.Cookie(&c), "session cookie not set")
	assert.True(h.t, c.HTTPOnly())
	assert.Equal(h.t, "/", string(c.Path()))
	return string(c.Value())
}

func (h *harness) logs() []dbpkg.SystemLog {
	h.t.Helper()
	h.audit.Wait()
	logs, err := h.store.RecentLogs(context.Background(), dbpkg.RecentLogLimit)
	require.NoError(h.t, err)
	return logs
}

func countAction(logs []dbpkg.SystemLog, action string) int {
	n := 0
	for _, l := range logs {
		if l.Action == action {
			n++
		}
	}
	return n
}

func seedGames(t *testing.T, store *dbpkg.Store, titles ...string) []uint {
	t.Helper()
	ids := make([]uint, 0, len(titles))
	for _, title := range titles {
		g, err := store.CreateGame(context.Background(), dbpkg.GameFields{Title: title, Platform: "PC", Price: 9.99, Rating: 4.5})
		require.NoError(t, err)
		ids = append(ids, g.ID)
	}
	return ids
}

func TestLoginSuccessAndFailureAreAudited(t *testing.T) {
	h := newHarness(t)
	dbtest.MustUser(t, h.store, "alice", "pw", dbpkg.RoleUser)

	ctx := h.do("POST", "/auth/login", map[string]string{"username": "alice", "password": "pw"})
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.JSONEq(t, `{"success":true,"role":"user"}`, string(ctx.Response.Body()))

	logs := h.logs()
	require.Equal(t, 1, countAction(logs, audit.ActionLoginSuccess))
	assert.Contains(t, logs[0].Details, "alice")
	assert.Equal(t, "alice", logs[0].Meta["actor"])

	ctx = h.do("POST", "/auth/login", map[string]string{"username": "alice", "password": "wrong"})
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	res := decode[map[string]any](t, ctx)
	assert.Equal(t, false, res["success"])
	assert.NotEmpty(t, res["message"])

	logs = h.logs()
	assert.Equal(t, 1, countAction(logs, audit.ActionLoginFail))
	assert.Equal(t, 1, countAction(logs, audit.ActionLoginSuccess))
	assert.Equal(t, "Failed login attempt for alice", logs[0].Details)
}

func TestLoginRejectsMalformedBody(t *testing.T) {
	h := newHarness(t)
	ctx := h.do("POST", "/auth/login", nil, withRawBody("{not json"))
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
	assert.Empty(t, h.logs())
}

func TestMeAndLogout(t *testing.T) {
	h := newHarness(t)
	dbtest.MustUser(t, h.store, "alice", "pw", dbpkg.RoleUser)

	ctx := h.do("GET", "/auth/me", nil)
	assert.JSONEq(t, `{"loggedIn":false}`, string(ctx.Response.Body()))

	token := h.login("alice", "pw")

	ctx = h.do("GET", "/auth/me", nil, withCookie(token))
	me := decode[struct {
		LoggedIn bool           `json:"loggedIn"`
		User     map[string]any `json:"user"`
	}](t, ctx)
	assert.True(t, me.LoggedIn)
	assert.Equal(t, "alice", me.User["username"])
	assert.Equal(t, "user", me.User["role"])
	assert.NotContains(t, me.User, "password")

	ctx = h.do("GET", "/auth/logout", nil, withCookie(token))
	assert.JSONEq(t, `{"success":true}`, string(ctx.Response.Body()))

	ctx = h.do("GET", "/auth/me", nil, withCookie(token))
	assert.JSONEq(t, `{"loggedIn":false}`, string(ctx.Response.Body()))

	// Logging out without a session still succeeds and is not audited.
	ctx = h.do("GET", "/auth/logout", nil)
	assert.JSONEq(t, `{"success":true}`, string(ctx.Response.Body()))
	assert.Equal(t, 1, countAction(h.logs(), audit.ActionLogout))
}

func TestCatalogRequiresAPIKey(t *testing.T) {
	h := newHarness(t)
	alice := dbtest.MustUser(t, h.store, "alice", "pw", dbpkg.RoleUser)
	seedGames(t, h.store, "Portal", "Hades", "Celeste")
	key, err := h.store.CreateAPIKey(context.Background(), alice.ID, "ci")
	require.NoError(t, err)

	ctx := h.do("GET", "/api/v1/games", nil)
	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())

	ctx = h.do("GET", "/api/v1/games", nil, withAPIKey("vtx-unknown"))
	assert.Equal(t, fasthttp.StatusForbidden, ctx.Response.StatusCode())

	ctx = h.do("GET", "/api/v1/games", nil, withAPIKey(key.Key))
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	res := decode[struct {
		Meta struct {
			Platform string `json:"platform"`
			Total    int    `json:"total"`
		} `json:"meta"`
		Data []dbpkg.Game `json:"data"`
	}](t, ctx)
	assert.Equal(t, "VortexGames API", res.Meta.Platform)
	assert.Equal(t, 3, res.Meta.Total)
	assert.Len(t, res.Data, res.Meta.Total)
}

func TestCatalogSearch(t *testing.T) {
	h := newHarness(t)
	alice := dbtest.MustUser(t, h.store, "alice", "pw", dbpkg.RoleUser)
	seedGames(t, h.store, "Portal", "Portal 2", "Hades")
	key, err := h.store.CreateAPIKey(context.Background(), alice.ID, "ci")
	require.NoError(t, err)

	ctx := h.do("GET", "/api/v1/games/search?q=Portal", nil, withAPIKey(key.Key))
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	res := decode[struct {
		Meta map[string]any `json:"meta"`
		Data []dbpkg.Game   `json:"data"`
	}](t, ctx)
	assert.Equal(t, map[string]any{"query": "Portal"}, res.Meta)
	assert.Len(t, res.Data, 2)
}

func TestKeySelfService(t *testing.T) {
	h := newHarness(t)
	dbtest.MustUser(t, h.store, "alice", "pw", dbpkg.RoleUser)
	dbtest.MustUser(t, h.store, "bob", "pw", dbpkg.RoleUser)

	ctx := h.do("GET", "/api/my-keys", nil)
	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
	assert.JSONEq(t, `[]`, string(ctx.Response.Body()))

	ctx = h.do("POST", "/api/create-key", map[string]string{"label": "x"})
	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())

	alice := h.login("alice", "pw")
	for i := 0; i < 2; i++ {
		ctx = h.do("POST", "/api/create-key", map[string]string{"label": "prod"}, withCookie(alice))
		require.JSONEq(t, `{"success":true}`, string(ctx.Response.Body()))
	}

	ctx = h.do("GET", "/api/my-keys", nil, withCookie(alice))
	keys := decode[[]dbpkg.APIKey](t, ctx)
	require.Len(t, keys, 2)
	assert.NotEqual(t, keys[0].Key, keys[1].Key)
	for _, k := range keys {
		assert.True(t, strings.HasPrefix(k.Key, "vtx-"), k.Key)
		assert.Len(t, k.Key, len("vtx-")+8)
		assert.Equal(t, "prod", k.KeyLabel)
	}
	assert.Greater(t, keys[0].ID, keys[1].ID, "newest key first")

	// Bob cannot revoke Alice's key, though the call reports success.
	bob := h.login("bob", "pw")
	ctx = h.do("DELETE", fmt.Sprintf("/api/revoke-key/%d", keys[0].ID), nil, withCookie(bob))
	assert.JSONEq(t, `{"success":true}`, string(ctx.Response.Body()))

	ctx = h.do("GET", "/api/my-keys", nil, withCookie(alice))
	assert.Len(t, decode[[]dbpkg.APIKey](t, ctx), 2)

	ctx = h.do("DELETE", fmt.Sprintf("/api/revoke-key/%d", keys[0].ID), nil, withCookie(alice))
	assert.JSONEq(t, `{"success":true}`, string(ctx.Response.Body()))

	ctx = h.do("GET", "/api/my-keys", nil, withCookie(alice))
	remaining := decode[[]dbpkg.APIKey](t, ctx)
	require.Len(t, remaining, 1)
	assert.Equal(t, keys[1].ID, remaining[0].ID)

	logs := h.logs()
	assert.Equal(t, 2, countAction(logs, audit.ActionKeyGenerate))
	assert.Equal(t, 2, countAction(logs, audit.ActionKeyRevoke))

	ctx = h.do("DELETE", "/api/revoke-key/abc", nil, withCookie(alice))
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
}

func TestAdminGate(t *testing.T) {
	h := newHarness(t)
	dbtest.MustUser(t, h.store, "alice", "pw", dbpkg.RoleUser)
	user := h.login("alice", "pw")

	paths := []struct{ method, path string }{
		{"GET", "/api/admin/stats"},
		{"GET", "/api/admin/games"},
		{"POST", "/api/admin/games"},
		{"PUT", "/api/admin/games/1"},
		{"DELETE", "/api/admin/games/1"},
		{"GET", "/api/admin/users"},
		{"DELETE", "/api/admin/users/1"},
		{"GET", "/api/admin/logs"},
	}
	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			ctx := h.do(p.method, p.path, nil)
			assert.Equal(t, fasthttp.StatusForbidden, ctx.Response.StatusCode())

			ctx = h.do(p.method, p.path, nil, withCookie(user))
			assert.Equal(t, fasthttp.StatusForbidden, ctx.Response.StatusCode())
			assert.JSONEq(t, `{"message":"Admin only"}`, string(ctx.Response.Body()))
		})
	}
}

func TestAdminGameLifecycle(t *testing.T) {
	h := newHarness(t)
	dbtest.MustUser(t, h.store, "root", "secret", dbpkg.RoleAdmin)
	admin := h.login("root", "secret")

	ctx := h.do("POST", "/api/admin/games", dbpkg.GameFields{Title: "Hades", Developer: "Supergiant", Platform: "PC", Price: 24.99, Rating: 9.3}, withCookie(admin))
	require.JSONEq(t, `{"success":true}`, string(ctx.Response.Body()))
	ctx = h.do("POST", "/api/admin/games", dbpkg.GameFields{Title: "Celeste"}, withCookie(admin))
	require.JSONEq(t, `{"success":true}`, string(ctx.Response.Body()))

	ctx = h.do("GET", "/api/admin/games", nil, withCookie(admin))
	games := decode[[]dbpkg.Game](t, ctx)
	require.Len(t, games, 2)
	assert.Equal(t, "Celeste", games[0].Title, "newest first")
	hades := games[1]

	ctx = h.do("PUT", fmt.Sprintf("/api/admin/games/%d", hades.ID), dbpkg.GameFields{Title: "Hades II", Platform: "PC"}, withCookie(admin))
	require.JSONEq(t, `{"success":true}`, string(ctx.Response.Body()))

	ctx = h.do("GET", "/api/admin/games", nil, withCookie(admin))
	games = decode[[]dbpkg.Game](t, ctx)
	assert.Equal(t, "Hades II", games[1].Title)
	assert.Empty(t, games[1].Developer, "update overwrites every field")

	path := fmt.Sprintf("/api/admin/games/%d", hades.ID)
	for i := 0; i < 2; i++ {
		ctx = h.do("DELETE", path, nil, withCookie(admin))
		assert.JSONEq(t, `{"success":true}`, string(ctx.Response.Body()))
	}

	ctx = h.do("GET", "/api/admin/games", nil, withCookie(admin))
	for _, g := range decode[[]dbpkg.Game](t, ctx) {
		assert.NotEqual(t, hades.ID, g.ID)
	}

	logs := h.logs()
	assert.Equal(t, 2, countAction(logs, audit.ActionGameAdd))
	assert.Equal(t, 1, countAction(logs, audit.ActionGameEdit))
	assert.Equal(t, 2, countAction(logs, audit.ActionGameDelete))
	for _, l := range logs {
		switch l.Action {
		case audit.ActionGameEdit:
			assert.Equal(t, fmt.Sprintf("Admin root updated game ID: %d", hades.ID), l.Details)
		case audit.ActionGameDelete:
			assert.Equal(t, fmt.Sprintf("Admin deleted game ID: %d", hades.ID), l.Details)
		}
	}

	ctx = h.do("PUT", "/api/admin/games/x", dbpkg.GameFields{}, withCookie(admin))
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
	ctx = h.do("POST", "/api/admin/games", nil, withCookie(admin), withRawBody("nope"))
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
}

func TestAdminUsersStatsAndBan(t *testing.T) {
	h := newHarness(t)
	dbtest.MustUser(t, h.store, "root", "secret", dbpkg.RoleAdmin)
	alice := dbtest.MustUser(t, h.store, "alice", "pw", dbpkg.RoleUser)
	dbtest.MustUser(t, h.store, "bob", "pw", dbpkg.RoleUser)
	_, err := h.store.CreateAPIKey(context.Background(), alice.ID, "a")
	require.NoError(t, err)
	seedGames(t, h.store, "Portal")

	admin := h.login("root", "secret")

	ctx := h.do("GET", "/api/admin/stats", nil, withCookie(admin))
	assert.JSONEq(t, `{"users":2,"keys":1,"games":1}`, string(ctx.Response.Body()))

	ctx = h.do("GET", "/api/admin/users", nil, withCookie(admin))
	users := decode[[]map[string]any](t, ctx)
	require.Len(t, users, 2)
	for _, u := range users {
		assert.Equal(t, "user", u["role"])
		assert.NotContains(t, u, "password")
	}

	ctx = h.do("DELETE", fmt.Sprintf("/api/admin/users/%d", alice.ID), nil, withCookie(admin))
	assert.JSONEq(t, `{"success":true}`, string(ctx.Response.Body()))

	// The banned user's key is left behind.
	ctx = h.do("GET", "/api/admin/stats", nil, withCookie(admin))
	assert.JSONEq(t, `{"users":1,"keys":1,"games":1}`, string(ctx.Response.Body()))

	logs := h.logs()
	require.Equal(t, 1, countAction(logs, audit.ActionUserBan))
	for _, l := range logs {
		if l.Action == audit.ActionUserBan {
			assert.Equal(t, fmt.Sprintf("Admin banned user ID: %d", alice.ID), l.Details)
			assert.Equal(t, "root", l.Meta["actor"])
		}
	}
}

func TestAdminLogsNewestFiftyDescending(t *testing.T) {
	h := newHarness(t)
	dbtest.MustUser(t, h.store, "root", "secret", dbpkg.RoleAdmin)
	for i := 0; i < 60; i++ {
		require.NoError(t, h.store.AppendLog(context.Background(), &dbpkg.SystemLog{Action: "TEST", Details: fmt.Sprint(i)}))
	}
	admin := h.login("root", "secret")
	h.audit.Wait()

	ctx := h.do("GET", "/api/admin/logs", nil, withCookie(admin))
	logs := decode[[]dbpkg.SystemLog](t, ctx)
	require.Len(t, logs, dbpkg.RecentLogLimit)
	for i := 1; i < len(logs); i++ {
		assert.Greater(t, logs[i-1].ID, logs[i].ID)
	}
	assert.Equal(t, audit.ActionLoginSuccess, logs[0].Action)
}

func TestHealthzMetricsAndStatic(t *testing.T) {
	h := newHarness(t)
	alice := dbtest.MustUser(t, h.store, "alice", "pw", dbpkg.RoleUser)
	key, err := h.store.CreateAPIKey(context.Background(), alice.ID, "scraper")
	require.NoError(t, err)

	ctx := h.do("GET", "/healthz", nil)
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "ok", string(ctx.Response.Body()))

	ctx = h.do("GET", "/metrics", nil)
	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())

	ctx = h.do("GET", "/metrics?name=vortexgames_http_requests_total", nil, withAPIKey(key.Key))
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	body := string(ctx.Response.Body())
	assert.Contains(t, body, "vortexgames_http_requests_total")
	assert.Contains(t, body, `route="/healthz"`)
	assert.NotContains(t, body, "vortexgames_http_request_duration_seconds")

	ctx = h.do("GET", "/", nil)
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Body()), "VortexGames Console")
}

type failingDestroy struct {
	*session.MemoryStore
}

func (failingDestroy) Destroy(context.Context, string) error {
	return errors.New("session backend unavailable")
}

func TestLoginReplacesPreviousSession(t *testing.T) {
	h := newHarness(t)
	dbtest.MustUser(t, h.store, "alice", "pw", dbpkg.RoleUser)
	first := h.login("alice", "pw")

	ctx := h.do("POST", "/auth/login", map[string]string{"username": "alice", "password": "pw"}, withCookie(first))
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	var c fasthttp.Cookie
	c.SetKey(cookieName)
	require.True(t, ctx.Response.Header.Cookie(&c))
	second := string(c.Value())
	require.NotEqual(t, first, second)

	ctx = h.do("GET", "/auth/me", nil, withCookie(first))
	assert.JSONEq(t, `{"loggedIn":false}`, string(ctx.Response.Body()))

	ctx = h.do("GET", "/auth/me", nil, withCookie(second))
	assert.Equal(t, true, decode[map[string]any](t, ctx)["loggedIn"])
}

func TestLogoutNotAuditedWhenDestroyFails(t *testing.T) {
	h := newHarnessWithSessions(t, failingDestroy{session.NewMemoryStore(time.Hour)})
	dbtest.MustUser(t, h.store, "alice", "pw", dbpkg.RoleUser)
	token := h.login("alice", "pw")

	ctx := h.do("GET", "/auth/logout", nil, withCookie(token))
	assert.Equal(t, fasthttp.StatusInternalServerError, ctx.Response.StatusCode())
	assert.JSONEq(t, `{"success":false,"message":"internal error"}`, string(ctx.Response.Body()))

	logs := h.logs()
	assert.Equal(t, 0, countAction(logs, audit.ActionLogout))
	assert.Equal(t, 1, countAction(logs, audit.ActionLoginSuccess))
}

func TestStoreFailures(t *testing.T) {
	h := newHarness(t)
	dbtest.MustUser(t, h.store, "root", "secret", dbpkg.RoleAdmin)
	admin := h.login("root", "secret")
	h.audit.Wait()
	require.NoError(t, h.store.Close())

	t.Run("update game reports the store error", func(t *testing.T) {
		ctx := h.do("PUT", "/api/admin/games/1", dbpkg.GameFields{Title: "Hades"}, withCookie(admin))
		assert.Equal(t, fasthttp.StatusInternalServerError, ctx.Response.StatusCode())
		res := decode[map[string]any](t, ctx)
		msg, _ := res["message"].(string)
		assert.Contains(t, msg, "database is closed")
		assert.NotEqual(t, "internal error", msg)
	})

	t.Run("login answers 500", func(t *testing.T) {
		ctx := h.do("POST", "/auth/login", map[string]string{"username": "root", "password": "secret"})
		assert.Equal(t, fasthttp.StatusInternalServerError, ctx.Response.StatusCode())
		assert.JSONEq(t, `{"success":false,"message":"internal error"}`, string(ctx.Response.Body()))
	})
}

func TestInFlightRequestSurvivesShutdown(t *testing.T) {
	h := newHarness(t)
	alice := dbtest.MustUser(t, h.store, "alice", "pw", dbpkg.RoleUser)
	seedGames(t, h.store, "Portal", "Hades")
	key, err := h.store.CreateAPIKey(context.Background(), alice.ID, "ci")
	require.NoError(t, err)

	started := make(chan struct{})
	srv := &fasthttp.Server{
		// Hold the request until shutdown has begun, then serve it.
		Handler: func(ctx *fasthttp.RequestCtx) {
			close(started)
			<-ctx.Done()
			h.handler(ctx)
		},
	}
	ln := fasthttputil.NewInmemoryListener()
	go srv.Serve(ln)

	client := &fasthttp.Client{
		Dial: func(string) (net.Conn, error) { return ln.Dial() },
	}

	type result struct {
		status int
		body   []byte
		err    error
	}
	done := make(chan result, 1)
	go func() {
		req := fasthttp.AcquireRequest()
		resp := fasthttp.AcquireResponse()
		defer fasthttp.ReleaseRequest(req)
		defer fasthttp.ReleaseResponse(resp)
		req.SetRequestURI("http://vortex.test/api/v1/games")
		req.Header.Set("x-api-key", key.Key)
		err := client.DoTimeout(req, resp, 5*time.Second)
		done <- result{status: resp.StatusCode(), body: append([]byte(nil), resp.Body()...), err: err}
	}()

	<-started
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.ShutdownWithContext(shutdownCtx))

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, fasthttp.StatusOK, res.status, string(res.body))
	assert.Contains(t, string(res.body), `"total":2`)
}
