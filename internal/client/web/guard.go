package web

import (
	"github.com/dmitrijs2005/admindash/internal/client/services"
	"github.com/valyala/fasthttp"
)

// AuthState is the read side of the auth service the guard needs.
type AuthState interface {
	State() services.State
	CurrentUser() (services.User, bool)
}

const loadingBody = "Loading…"

// Guard gates next behind an authenticated session. While the startup check
// is pending it answers 503 with Retry-After instead of redirecting. Without
// a session it redirects to /login and the attempted path is dropped.
func Guard(auth AuthState) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			if auth.State() == services.StateUnknown {
				ctx.Response.Header.Set(fasthttp.HeaderRetryAfter, "1")
				ctx.SetContentType("text/plain; charset=utf-8")
				ctx.SetStatusCode(fasthttp.StatusServiceUnavailable)
				ctx.SetBodyString(loadingBody)
				return
			}

			user, ok := auth.CurrentUser()
			if !ok {
				redirect(ctx, "/login", fasthttp.StatusFound)
				return
			}

			ctx.SetUserValue(userValueUser, user)
			next(ctx)
		}
	}
}

// userFrom returns the user stored by Guard.
func userFrom(ctx *fasthttp.RequestCtx) (services.User, bool) {
	u, ok := ctx.UserValue(userValueUser).(services.User)
	return u, ok
}

func redirect(ctx *fasthttp.RequestCtx, location string, status int) {
	ctx.Response.Header.Set(fasthttp.HeaderLocation, location)
	ctx.SetStatusCode(status)
}
