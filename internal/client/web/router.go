package web

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
)

// Pages lists the guarded dashboard pages, path to title.
var Pages = []struct{ Path, Title string }{
	{"/dashboard", "Dashboard"},
	{"/data-management/overview", "Data Overview"},
	{"/data-management/analytics", "Analytics"},
	{"/user-table/all-users", "All Users"},
	{"/user-table/inactive", "Inactive Users"},
	{"/admin-table/admins", "Admins"},
	{"/admin-table/permissions", "Permissions"},
	{"/settings", "Settings"},
	{"/branches", "Branch Manager"},
}

func NewRouter(h *Handlers, guard func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/login", h.LoginPage)
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)
	r.POST("/auth/reset-password", h.ResetPassword)
	r.GET("/api/session", h.Session)

	// Guarded routes
	r.GET("/", guard(h.Home))
	for _, p := range Pages {
		r.GET(p.Path, guard(h.Page(p.Path, p.Title)))
	}
	r.GET("/api/me", guard(h.Me))

	r.GET("/api/tenants", guard(h.ListTenants))
	r.GET("/api/branches", guard(h.ListBranches))
	r.POST("/api/branches", guard(h.CreateBranch))
	r.PUT("/api/branches/{id}", guard(h.UpdateBranch))
	r.DELETE("/api/branches/{id}", guard(h.DeleteBranch))

	return r
}
