package ctx

import (
	"context"

	"github.com/valyala/fasthttp"

	dbpkg "vortexgames/internal/db"
)

const (
	UserKey         = "user"
	APIKeyKey       = "apiKey"
	SessionTokenKey = "sessionToken"
)

// SetSession records the logged-in user snapshot and its session token.
func SetSession(ctx *fasthttp.RequestCtx, user *dbpkg.User, token string) {
	ctx.SetUserValue(UserKey, user)
	ctx.SetUserValue(SessionTokenKey, token)
}

func SessionTokenFromCtx(ctx *fasthttp.RequestCtx) (string, bool) {
	v := ctx.UserValue(SessionTokenKey)
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func UserFromCtx(ctx *fasthttp.RequestCtx) (*dbpkg.User, bool) {
	v := ctx.UserValue(UserKey)
	if v == nil {
		return nil, false
	}
	u, ok := v.(*dbpkg.User)
	return u, ok && u != nil
}

func SetAPIKey(ctx *fasthttp.RequestCtx, apiKey *dbpkg.APIKey) {
	ctx.SetUserValue(APIKeyKey, apiKey)
}

func APIKeyFromCtx(ctx *fasthttp.RequestCtx) (*dbpkg.APIKey, bool) {
	v := ctx.UserValue(APIKeyKey)
	if v == nil {
		return nil, false
	}
	ak, ok := v.(*dbpkg.APIKey)
	return ak, ok
}

// RemoteIP returns the client address without the port.
func RemoteIP(ctx *fasthttp.RequestCtx) string {
	return ctx.RemoteIP().String()
}

// Context returns a context for store and session calls made while serving
// ctx. fasthttp closes RequestCtx.Done() as soon as server shutdown begins,
// so the returned context drops cancellation to let in-flight requests
// finish. Request values stay reachable.
func Context(ctx *fasthttp.RequestCtx) context.Context {
	return context.WithoutCancel(ctx)
}
