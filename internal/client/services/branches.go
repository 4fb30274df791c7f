package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/admindash/internal/client/client"
	"github.com/dmitrijs2005/admindash/internal/common"
)

var (
	ErrTenantRequired = fmt.Errorf("%w: tenant is required for a new branch", common.ErrorValidation)
	ErrNameRequired   = fmt.Errorf("%w: branch name is required", common.ErrorValidation)
)

// BranchService manages tenants' branches on the directory service.
type BranchService struct {
	dir client.DirectoryClient
}

func NewBranchService(dir client.DirectoryClient) *BranchService {
	return &BranchService{dir: dir}
}

func (s *BranchService) Tenants(ctx context.Context) ([]client.Tenant, error) {
	tenants, err := s.dir.ListTenants(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	return tenants, nil
}

func (s *BranchService) Branches(ctx context.Context) ([]client.Branch, error) {
	branches, err := s.dir.ListBranches(ctx)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	return branches, nil
}

// Save creates the branch under tenantID when id is empty and updates it by
// id otherwise.
func (s *BranchService) Save(ctx context.Context, id, tenantID string, in client.BranchInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	if in.Name == "" {
		return ErrNameRequired
	}

	if id != "" {
		if err := s.dir.UpdateBranch(ctx, id, in); err != nil {
			return fmt.Errorf("update branch %s: %w", id, err)
		}
		return nil
	}

	if tenantID == "" {
		return ErrTenantRequired
	}
	if err := s.dir.CreateBranch(ctx, tenantID, in); err != nil {
		return fmt.Errorf("create branch: %w", err)
	}
	return nil
}

func (s *BranchService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("branch id is required")
	}
	if err := s.dir.DeleteBranch(ctx, id); err != nil {
		return fmt.Errorf("delete branch %s: %w", id, err)
	}
	return nil
}
