package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"time"

	"github.com/dmitrijs2005/admindash/internal/client/client"
	"github.com/dmitrijs2005/admindash/internal/client/services"
	"github.com/dmitrijs2005/admindash/internal/common"
	"github.com/dmitrijs2005/admindash/internal/logging"
	"github.com/valyala/fasthttp"
)

// Authenticator is the part of the auth service the handlers drive.
type Authenticator interface {
	AuthState
	Login(ctx context.Context, username, password string) services.Result
	Logout(ctx context.Context)
	ResetPassword(ctx context.Context, username, oldPassword, newPassword string) services.Result
}

// BranchManager is the part of the branch service the handlers drive.
type BranchManager interface {
	Tenants(ctx context.Context) ([]client.Tenant, error)
	Branches(ctx context.Context) ([]client.Branch, error)
	Save(ctx context.Context, id, tenantID string, in client.BranchInput) error
	Delete(ctx context.Context, id string) error
}

type Handlers struct {
	auth     Authenticator
	branches BranchManager
	logger   logging.Logger
	timeout  time.Duration
}

func NewHandlers(auth Authenticator, branches BranchManager, logger logging.Logger, timeout time.Duration) *Handlers {
	return &Handlers{
		auth:     auth,
		branches: branches,
		logger:   logger.With("module", "web"),
		timeout:  timeout,
	}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type resetRequest struct {
	Username    string `json:"username"`
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// Page is the descriptor answered by every dashboard page route.
type Page struct {
	Path  string        `json:"path"`
	Title string        `json:"title"`
	User  services.User `json:"user"`
}

type sessionView struct {
	State string         `json:"state"`
	User  *services.User `json:"user,omitempty"`
}

const loginForm = `<!doctype html>
<html><head><meta charset="utf-8"><title>Sign in</title></head>
<body>
<form method="post" action="/login">
%s<input name="username" placeholder="Username" required>
<input name="password" type="password" placeholder="Password" required>
<button type="submit">Sign in</button>
</form>
</body></html>
`

func renderLogin(ctx *fasthttp.RequestCtx, status int, errMsg string) {
	var alert string
	if errMsg != "" {
		alert = fmt.Sprintf("<p role=\"alert\">%s</p>\n", html.EscapeString(errMsg))
	}
	ctx.SetContentType("text/html; charset=utf-8")
	ctx.SetStatusCode(status)
	ctx.SetBodyString(fmt.Sprintf(loginForm, alert))
}

func isJSON(ctx *fasthttp.RequestCtx) bool {
	return bytes.HasPrefix(ctx.Request.Header.ContentType(), []byte("application/json"))
}

// LoginPage serves the sign-in form, or sends a signed-in user on to the
// dashboard.
func (h *Handlers) LoginPage(ctx *fasthttp.RequestCtx) {
	if _, ok := h.auth.CurrentUser(); ok {
		redirect(ctx, "/dashboard", fasthttp.StatusFound)
		return
	}
	renderLogin(ctx, fasthttp.StatusOK, "")
}

// Login accepts a JSON or form credential. JSON callers get the Result; form
// callers are redirected on success and shown the form again on failure.
func (h *Handlers) Login(ctx *fasthttp.RequestCtx) {
	var cred credentials
	if isJSON(ctx) {
		if err := json.Unmarshal(ctx.PostBody(), &cred); err != nil {
			respondJSON(ctx, fasthttp.StatusBadRequest, services.Result{Error: "invalid payload"})
			return
		}
	} else {
		cred.Username = string(ctx.PostArgs().Peek("username"))
		cred.Password = string(ctx.PostArgs().Peek("password"))
	}

	stdCtx, cancel := requestContext(ctx, h.timeout)
	defer cancel()

	res := h.auth.Login(stdCtx, cred.Username, cred.Password)

	if !isJSON(ctx) {
		if res.Success {
			redirect(ctx, "/dashboard", fasthttp.StatusSeeOther)
			return
		}
		renderLogin(ctx, failureStatus(res, fasthttp.StatusUnauthorized), res.Error)
		return
	}

	status := fasthttp.StatusOK
	if !res.Success {
		status = failureStatus(res, fasthttp.StatusUnauthorized)
	}
	respondJSON(ctx, status, res)
}

// failureStatus maps a failed Result to an HTTP status. Upstream
// unavailability is a gateway error, not a rejection of the caller.
func failureStatus(res services.Result, rejected int) int {
	switch res.Error {
	case services.MsgServiceUnreachable:
		return fasthttp.StatusBadGateway
	case services.MsgCredentialsRequired, services.MsgResetFieldsRequired:
		return fasthttp.StatusBadRequest
	default:
		return rejected
	}
}

func (h *Handlers) Logout(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := requestContext(ctx, h.timeout)
	defer cancel()

	h.auth.Logout(stdCtx)
	redirect(ctx, "/login", fasthttp.StatusSeeOther)
}

func (h *Handlers) ResetPassword(ctx *fasthttp.RequestCtx) {
	var req resetRequest
	if isJSON(ctx) {
		if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
			respondJSON(ctx, fasthttp.StatusBadRequest, services.Result{Error: "invalid payload"})
			return
		}
	} else {
		req.Username = string(ctx.PostArgs().Peek("username"))
		req.OldPassword = string(ctx.PostArgs().Peek("oldPassword"))
		req.NewPassword = string(ctx.PostArgs().Peek("newPassword"))
	}

	stdCtx, cancel := requestContext(ctx, h.timeout)
	defer cancel()

	res := h.auth.ResetPassword(stdCtx, req.Username, req.OldPassword, req.NewPassword)
	status := fasthttp.StatusOK
	if !res.Success {
		status = failureStatus(res, fasthttp.StatusBadRequest)
	}
	respondJSON(ctx, status, res)
}

// Session reports the auth state without requiring a session.
func (h *Handlers) Session(ctx *fasthttp.RequestCtx) {
	view := sessionView{State: h.auth.State().String()}
	if u, ok := h.auth.CurrentUser(); ok {
		view.User = &u
	}
	respondJSON(ctx, fasthttp.StatusOK, view)
}

func (h *Handlers) Me(ctx *fasthttp.RequestCtx) {
	u, _ := userFrom(ctx)
	respondJSON(ctx, fasthttp.StatusOK, u)
}

func (h *Handlers) Home(ctx *fasthttp.RequestCtx) {
	redirect(ctx, "/dashboard", fasthttp.StatusFound)
}

// Page returns a handler answering the descriptor of one dashboard page.
func (h *Handlers) Page(path, title string) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		u, _ := userFrom(ctx)
		respondJSON(ctx, fasthttp.StatusOK, Page{Path: path, Title: title, User: u})
	}
}

type branchRequest struct {
	TenantID string `json:"tenantId"`
	Name     string `json:"name"`
	Address  string `json:"address"`
}

func (h *Handlers) ListTenants(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := requestContext(ctx, h.timeout)
	defer cancel()

	tenants, err := h.branches.Tenants(stdCtx)
	if err != nil {
		h.logger.Warn(stdCtx, "list tenants failed", "error", err)
		respondError(ctx, err)
		return
	}
	if tenants == nil {
		tenants = []client.Tenant{}
	}
	respondJSON(ctx, fasthttp.StatusOK, tenants)
}

func (h *Handlers) ListBranches(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := requestContext(ctx, h.timeout)
	defer cancel()

	branches, err := h.branches.Branches(stdCtx)
	if err != nil {
		h.logger.Warn(stdCtx, "list branches failed", "error", err)
		respondError(ctx, err)
		return
	}
	if branches == nil {
		branches = []client.Branch{}
	}
	respondJSON(ctx, fasthttp.StatusOK, branches)
}

// CreateBranch handles POST /api/branches with the tenant in the body.
func (h *Handlers) CreateBranch(ctx *fasthttp.RequestCtx) {
	h.saveBranch(ctx, "", fasthttp.StatusCreated)
}

// UpdateBranch handles PUT /api/branches/{id}.
func (h *Handlers) UpdateBranch(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	h.saveBranch(ctx, id, fasthttp.StatusNoContent)
}

func (h *Handlers) saveBranch(ctx *fasthttp.RequestCtx, id string, okStatus int) {
	var req branchRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		respondError(ctx, fmt.Errorf("%w: invalid payload", common.ErrorValidation))
		return
	}

	stdCtx, cancel := requestContext(ctx, h.timeout)
	defer cancel()

	err := h.branches.Save(stdCtx, id, req.TenantID, client.BranchInput{Name: req.Name, Address: req.Address})
	if err != nil {
		h.logger.Warn(stdCtx, "save branch failed", "id", id, "error", err)
		respondError(ctx, err)
		return
	}
	ctx.SetStatusCode(okStatus)
}

func (h *Handlers) DeleteBranch(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)

	stdCtx, cancel := requestContext(ctx, h.timeout)
	defer cancel()

	if err := h.branches.Delete(stdCtx, id); err != nil {
		h.logger.Warn(stdCtx, "delete branch failed", "id", id, "error", err)
		respondError(ctx, err)
		return
	}
	ctx.SetStatusCode(fasthttp.StatusNoContent)
}
