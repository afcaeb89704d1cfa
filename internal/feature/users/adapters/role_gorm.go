package adapters

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"memberflow_backend/internal/domain/entity"
	"memberflow_backend/internal/platform/gormstore"
	"memberflow_backend/internal/shared/apperrors"
)

// RoleGorm persists Role entities together with their permission links.
type RoleGorm struct {
	*gormstore.Store[entity.Role]
}

func NewRoleGorm(conn *gorm.DB) *RoleGorm {
	return &RoleGorm{Store: gormstore.New[entity.Role](conn, "Permissions")}
}

// FindByName retrieves a role by its unique name.
func (r *RoleGorm) FindByName(ctx context.Context, name string) (*entity.Role, error) {
	var role entity.Role
	err := r.DB(ctx).Preload("Permissions").Where("name = ?", name).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: role %s", apperrors.ErrEntityNotFound, name)
		}
		return nil, err
	}
	return &role, nil
}

// ExistsByName reports whether a role with the given name exists.
func (r *RoleGorm) ExistsByName(ctx context.Context, name string) (bool, error) {
	var n int64
	err := r.DB(ctx).Model(&entity.Role{}).Where("name = ?", name).Count(&n).Error
	return n > 0, err
}

// AppendPermission links a permission to the role in the join table.
func (r *RoleGorm) AppendPermission(ctx context.Context, role *entity.Role, p *entity.Permission) error {
	return r.DB(ctx).Model(role).Association("Permissions").Append(p)
}

// RemovePermission unlinks a permission from the role.
func (r *RoleGorm) RemovePermission(ctx context.Context, role *entity.Role, p *entity.Permission) error {
	return r.DB(ctx).Model(role).Association("Permissions").Delete(p)
}

// PermissionGorm persists Permission entities.
type PermissionGorm struct {
	*gormstore.Store[entity.Permission]
}

func NewPermissionGorm(conn *gorm.DB) *PermissionGorm {
	return &PermissionGorm{Store: gormstore.New[entity.Permission](conn)}
}

// ExistsByName reports whether a permission with the given name exists.
func (r *PermissionGorm) ExistsByName(ctx context.Context, name entity.PermissionName) (bool, error) {
	var n int64
	err := r.DB(ctx).Model(&entity.Permission{}).Where("name = ?", name).Count(&n).Error
	return n > 0, err
}

// FindByName retrieves a permission by its unique name.
func (r *PermissionGorm) FindByName(ctx context.Context, name entity.PermissionName) (*entity.Permission, error) {
	var p entity.Permission
	err := r.DB(ctx).Where("name = ?", name).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: permission %s", apperrors.ErrEntityNotFound, name)
		}
		return nil, err
	}
	return &p, nil
}
