package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/admindash/internal/common"
	"github.com/dmitrijs2005/admindash/internal/netx"
)

// TokenSource returns the bearer token to attach, if any.
type TokenSource func() (string, bool)

// HTTPClient implements AuthClient and DirectoryClient over HTTP/JSON.
type HTTPClient struct {
	authURL string
	apiURL  string
	hc      *http.Client
	tokens  TokenSource
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.hc = hc }
}

// WithTokenSource attaches a bearer token to directory requests.
func WithTokenSource(ts TokenSource) Option {
	return func(c *HTTPClient) { c.tokens = ts }
}

// NewHTTPClient builds a client for the auth service at authURL and the
// directory service at apiURL. Every call is bounded by timeout.
func NewHTTPClient(authURL, apiURL string, timeout time.Duration, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		authURL: strings.TrimRight(authURL, "/"),
		apiURL:  strings.TrimRight(apiURL, "/"),
		hc:      &http.Client{Timeout: timeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login posts the credential. A 2xx body that is not a JSON object yields an
// empty LoginResponse; callers treat it as "no token".
func (c *HTTPClient) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	status, body, err := netx.DoJSON(ctx, c.hc, http.MethodPost, c.authURL+"/auth/login", "",
		loginRequest{Username: username, Password: password})
	if err != nil {
		return nil, c.mapError(err)
	}

	if status < 200 || status > 299 {
		return nil, &RejectedError{Status: status, Message: extractMessage(body)}
	}

	var resp LoginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return &LoginResponse{}, nil
	}
	return &resp, nil
}

// ResetPassword returns the text of a 200 response. Any other status is a
// *RejectedError whose Message is the body when it is a string.
func (c *HTTPClient) ResetPassword(ctx context.Context, req ResetPasswordRequest) (string, error) {
	status, body, err := netx.DoJSON(ctx, c.hc, http.MethodPost, c.authURL+"/auth/reset-password", "", req)
	if err != nil {
		return "", c.mapError(err)
	}

	text, _ := bodyText(body)
	if status != http.StatusOK {
		return "", &RejectedError{Status: status, Message: text}
	}
	return text, nil
}

func (c *HTTPClient) ListTenants(ctx context.Context) ([]Tenant, error) {
	var out []Tenant
	if err := c.directory(ctx, http.MethodGet, "/api/tenants", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ListBranches(ctx context.Context) ([]Branch, error) {
	var out []Branch
	if err := c.directory(ctx, http.MethodGet, "/api/branches", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreateBranch(ctx context.Context, tenantID string, in BranchInput) error {
	return c.directory(ctx, http.MethodPost, "/api/branches/tenant/"+url.PathEscape(tenantID), in, nil)
}

func (c *HTTPClient) UpdateBranch(ctx context.Context, id string, in BranchInput) error {
	return c.directory(ctx, http.MethodPut, "/api/branches/"+url.PathEscape(id), in, nil)
}

func (c *HTTPClient) DeleteBranch(ctx context.Context, id string) error {
	return c.directory(ctx, http.MethodDelete, "/api/branches/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) directory(ctx context.Context, method, path string, in, out any) error {
	var bearer string
	if c.tokens != nil {
		bearer, _ = c.tokens()
	}

	status, body, err := netx.DoJSON(ctx, c.hc, method, c.apiURL+path, bearer, in)
	if err != nil {
		return c.mapError(err)
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrUnauthorized
	case status == http.StatusNotFound:
		return common.ErrorNotFound
	case status < 200 || status > 299:
		return &RejectedError{Status: status, Message: extractMessage(body)}
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *HTTPClient) mapError(err error) error {
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}
