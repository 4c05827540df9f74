// Package server assembles the route table and middleware chain.
package server

import (
	"io/fs"

	"github.com/fasthttp/router"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/valyala/fasthttp"

	"vortexgames/internal/audit"
	"vortexgames/internal/config"
	dbpkg "vortexgames/internal/db"
	"vortexgames/internal/http/handlers"
	appmw "vortexgames/internal/http/middleware"
	"vortexgames/internal/metrics"
	"vortexgames/internal/session"
)

// Dependencies holds everything the handlers and middleware need.
type Dependencies struct {
	Config   *config.Config
	Store    *dbpkg.Store
	Sessions session.Store
	Audit    *audit.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	// Static is served for any path no route matches. Nil disables it.
	Static fs.FS
}

// New builds the request handler: request logging, then metrics, then
// session loading, then the router.
func New(deps Dependencies) fasthttp.RequestHandler {
	r := router.New()
	r.SaveMatchedRoutePath = true

	store := deps.Store
	cfg := deps.Config
	keyGate := appmw.RequireAPIKey(store)
	admin := appmw.RequireAdmin

	r.GET("/healthz", handlers.Healthz(store))
	r.GET("/metrics", keyGate(handlers.PrometheusMetrics(deps.Gatherer)))

	r.POST("/auth/login", handlers.Login(store, deps.Sessions, deps.Audit, cfg))
	r.GET("/auth/me", handlers.Me())
	r.GET("/auth/logout", handlers.Logout(deps.Sessions, deps.Audit, cfg))

	r.GET("/api/my-keys", handlers.MyKeys(store))
	r.POST("/api/create-key", handlers.CreateKey(store, deps.Audit))
	r.DELETE("/api/revoke-key/{id}", handlers.RevokeKey(store, deps.Audit))

	r.GET("/api/v1/games", keyGate(handlers.ListGames(store)))
	r.GET("/api/v1/games/search", keyGate(handlers.SearchGames(store)))

	r.GET("/api/admin/stats", admin(handlers.AdminStats(store)))
	r.GET("/api/admin/games", admin(handlers.AdminListGames(store)))
	r.POST("/api/admin/games", admin(handlers.AdminCreateGame(store, deps.Audit)))
	r.PUT("/api/admin/games/{id}", admin(handlers.AdminUpdateGame(store, deps.Audit)))
	r.DELETE("/api/admin/games/{id}", admin(handlers.AdminDeleteGame(store, deps.Audit)))
	r.GET("/api/admin/users", admin(handlers.AdminListUsers(store)))
	r.DELETE("/api/admin/users/{id}", admin(handlers.AdminBanUser(store, deps.Audit)))
	r.GET("/api/admin/logs", admin(handlers.AdminLogs(store)))

	if deps.Static != nil {
		static := &fasthttp.FS{
			FS:             deps.Static,
			Root:           "",
			AllowEmptyRoot: true,
			IndexNames:     []string{"index.html"},
		}
		r.NotFound = static.NewRequestHandler()
	}

	h := appmw.Session(deps.Sessions, cfg.SessionCookie)(r.Handler)
	h = appmw.Metrics(deps.Metrics)(h)
	return appmw.RequestLogger(h)
}
