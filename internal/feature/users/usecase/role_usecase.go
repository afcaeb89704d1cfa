package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"memberflow_backend/internal/domain/entity"
	"memberflow_backend/internal/shared/apperrors"
	"memberflow_backend/internal/shared/crud"
)

// RoleStore is the persistence surface the role usecase needs.
type RoleStore interface {
	crud.Store[*entity.Role]
	FindByName(ctx context.Context, name string) (*entity.Role, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	AppendPermission(ctx context.Context, role *entity.Role, p *entity.Permission) error
	RemovePermission(ctx context.Context, role *entity.Role, p *entity.Permission) error
}

// PermissionFinder resolves permissions for linking to roles.
type PermissionFinder interface {
	FindByID(ctx context.Context, id uint) (*entity.Permission, error)
}

// RoleUsecase manages roles and the role↔permission relation. Linking and
// unlinking are idempotent: a redundant request logs a warning and returns
// the role unchanged.
type RoleUsecase struct {
	svc         *crud.Service[*entity.Role]
	store       RoleStore
	permissions PermissionFinder
}

func NewRoleUsecase(store RoleStore, permissions PermissionFinder) *RoleUsecase {
	uc := &RoleUsecase{store: store, permissions: permissions}
	uc.svc = crud.NewService[*entity.Role](store,
		crud.WithValidator(func(r *entity.Role) error {
			if strings.TrimSpace(r.Name) == "" {
				return fmt.Errorf("%w: role name is required", apperrors.ErrInvalidData)
			}
			return nil
		}),
		crud.WithExists(func(ctx context.Context, r *entity.Role) (bool, error) {
			if r.GetID() != 0 {
				return store.ExistsByID(ctx, r.GetID())
			}
			return store.ExistsByName(ctx, r.Name)
		}),
	)
	return uc
}

func (uc *RoleUsecase) Save(ctx context.Context, r *entity.Role) (*entity.Role, error) {
	return uc.svc.Save(ctx, r)
}

func (uc *RoleUsecase) Update(ctx context.Context, r *entity.Role) (*entity.Role, error) {
	return uc.svc.Update(ctx, r)
}

func (uc *RoleUsecase) FindByID(ctx context.Context, id uint) (*entity.Role, error) {
	return uc.svc.FindByID(ctx, id)
}

func (uc *RoleUsecase) FindAll(ctx context.Context) ([]*entity.Role, error) {
	return uc.svc.FindAll(ctx)
}

func (uc *RoleUsecase) FindByName(ctx context.Context, name string) (*entity.Role, error) {
	return uc.store.FindByName(ctx, name)
}

func (uc *RoleUsecase) DeleteByID(ctx context.Context, id uint) error {
	return uc.svc.DeleteByID(ctx, id)
}

// AddPermissionToRole links the permission to the role. Already linked is
// not an error.
func (uc *RoleUsecase) AddPermissionToRole(ctx context.Context, roleID, permissionID uint) (*entity.Role, error) {
	role, err := uc.svc.FindByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if hasPermission(role, permissionID) {
		slog.Warn("permission already assigned to role", "role_id", roleID, "permission_id", permissionID)
		return role, nil
	}
	p, err := uc.permissions.FindByID(ctx, permissionID)
	if err != nil {
		return nil, err
	}
	if err := uc.store.AppendPermission(ctx, role, p); err != nil {
		return nil, err
	}
	return uc.svc.FindByID(ctx, roleID)
}

// RemovePermissionFromRole unlinks the permission from the role. Not linked
// is not an error.
func (uc *RoleUsecase) RemovePermissionFromRole(ctx context.Context, roleID, permissionID uint) (*entity.Role, error) {
	role, err := uc.svc.FindByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if !hasPermission(role, permissionID) {
		slog.Warn("permission not assigned to role", "role_id", roleID, "permission_id", permissionID)
		return role, nil
	}
	p, err := uc.permissions.FindByID(ctx, permissionID)
	if err != nil {
		return nil, err
	}
	if err := uc.store.RemovePermission(ctx, role, p); err != nil {
		return nil, err
	}
	return uc.svc.FindByID(ctx, roleID)
}

func hasPermission(role *entity.Role, permissionID uint) bool {
	for _, p := range role.Permissions {
		if p.ID == permissionID {
			return true
		}
	}
	return false
}
