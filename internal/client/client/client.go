package client

import (
	"context"
)

// AuthClient talks to the remote authentication service.
type AuthClient interface {
	Login(ctx context.Context, username, password string) (*LoginResponse, error)
	ResetPassword(ctx context.Context, req ResetPasswordRequest) (string, error)
}

// DirectoryClient talks to the tenant/branch service.
type DirectoryClient interface {
	ListTenants(ctx context.Context) ([]Tenant, error)
	ListBranches(ctx context.Context) ([]Branch, error)
	CreateBranch(ctx context.Context, tenantID string, in BranchInput) error
	UpdateBranch(ctx context.Context, id string, in BranchInput) error
	DeleteBranch(ctx context.Context, id string) error
}

// LoginResponse is the body of a successful login. Permit is an opaque value
// some deployments return next to the token.
type LoginResponse struct {
	Token  string `json:"token"`
	Permit string `json:"permit,omitempty"`
}

type ResetPasswordRequest struct {
	Username    string `json:"username"`
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type Tenant struct {
	TenantID   string `json:"tenantId"`
	TenantName string `json:"tenantName"`
}

type Branch struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Address string  `json:"address,omitempty"`
	Tenant  *Tenant `json:"tenant,omitempty"`
}

type BranchInput struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}
