package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"

	"vortexgames/internal/audit"
	"vortexgames/internal/config"
	dbpkg "vortexgames/internal/db"
	httpctx "vortexgames/internal/http/ctx"
	"vortexgames/internal/session"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login checks the credentials and starts a session. A wrong username or
// password is a normal 200 answer with success=false.
func Login(store *dbpkg.Store, sessions session.Store, logger *audit.Logger, cfg *config.Config) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		var req loginRequest
		if !decodeBody(ctx, &req) {
			return
		}

		user, err := store.FindUserByCredentials(httpctx.Context(ctx), req.Username, req.Password)
		if errors.Is(err, dbpkg.ErrNotFound) {
			logger.Log(entry(ctx, audit.ActionLoginFail, req.Username,
				fmt.Sprintf("Failed login attempt for %s", req.Username)))
			jsonResponse(ctx, fasthttp.StatusOK, map[string]any{
				"success": false,
				"message": "Wrong username or password",
			})
			return
		}
		if err != nil {
			internalError(ctx, "login", err)
			return
		}

		// A client logging in again gives up its previous session.
		if prev, ok := httpctx.SessionTokenFromCtx(ctx); ok {
			if err := sessions.Destroy(httpctx.Context(ctx), prev); err != nil {
				internalError(ctx, "destroy previous session", err)
				return
			}
		}

		token, err := sessions.Create(httpctx.Context(ctx), *user)
		if err != nil {
			internalError(ctx, "create session", err)
			return
		}
		setSessionCookie(ctx, cfg, token)

		logger.Log(entry(ctx, audit.ActionLoginSuccess, user.Username,
			fmt.Sprintf("User %s logged in", user.Username)))
		jsonResponse(ctx, fasthttp.StatusOK, map[string]any{"success": true, "role": user.Role})
	}
}

// Me reports the current session user without side effects.
func Me() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := httpctx.UserFromCtx(ctx)
		if !ok {
			jsonResponse(ctx, fasthttp.StatusOK, map[string]any{"loggedIn": false})
			return
		}
		jsonResponse(ctx, fasthttp.StatusOK, map[string]any{"loggedIn": true, "user": user})
	}
}

// Logout ends the current session if there is one. It succeeds unless the
// session backend fails.
func Logout(sessions session.Store, logger *audit.Logger, cfg *config.Config) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		if token, ok := httpctx.SessionTokenFromCtx(ctx); ok {
			if err := sessions.Destroy(httpctx.Context(ctx), token); err != nil {
				internalError(ctx, "destroy session", err)
				return
			}
		}
		if user, ok := httpctx.UserFromCtx(ctx); ok {
			logger.Log(entry(ctx, audit.ActionLogout, user.Username,
				fmt.Sprintf("User %s logged out", user.Username)))
		}
		clearSessionCookie(ctx, cfg)
		success(ctx)
	}
}

func setSessionCookie(ctx *fasthttp.RequestCtx, cfg *config.Config, token string) {
	var c fasthttp.Cookie
	c.SetKey(cfg.SessionCookie)
	c.SetValue(token)
	c.SetPath("/")
	c.SetHTTPOnly(true)
	c.SetSameSite(fasthttp.CookieSameSiteLaxMode)
	if cfg.SessionTTL > 0 {
		c.SetMaxAge(int(cfg.SessionTTL / time.Second))
	}
	ctx.Response.Header.SetCookie(&c)
}

func clearSessionCookie(ctx *fasthttp.RequestCtx, cfg *config.Config) {
	var c fasthttp.Cookie
	c.SetKey(cfg.SessionCookie)
	c.SetValue("")
	c.SetPath("/")
	c.SetHTTPOnly(true)
	c.SetMaxAge(-1)
	ctx.Response.Header.SetCookie(&c)
}
