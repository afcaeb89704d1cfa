// Package adapters provides the GORM-backed stores for the user management
// feature.
package adapters

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"memberflow_backend/internal/domain/entity"
	"memberflow_backend/internal/platform/gormstore"
	"memberflow_backend/internal/shared/apperrors"
)

// UserGorm persists User entities. It embeds the generic store and adds the
// email-keyed queries the user usecase needs.
type UserGorm struct {
	*gormstore.Store[entity.User]
}

// NewUserGorm creates the user store with its role and notification
// collections preloaded.
func NewUserGorm(conn *gorm.DB) *UserGorm {
	return &UserGorm{Store: gormstore.New[entity.User](conn, "Role", "Notifications", "Invoices")}
}

// Create inserts the user, mapping a MySQL duplicate-key error (1062) on the
// unique email index to the duplicate-entity kind.
func (r *UserGorm) Create(ctx context.Context, u *entity.User) error {
	if err := r.Store.Create(ctx, u); err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return fmt.Errorf("%w: email %s", apperrors.ErrDuplicateEntity, u.Email)
		}
		return err
	}
	return nil
}

// FindByEmail retrieves a user by email address.
func (r *UserGorm) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u entity.User
	err := r.DB(ctx).Preload("Role").Where("email = ?", email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: email %s", apperrors.ErrEntityNotFound, email)
		}
		return nil, err
	}
	return &u, nil
}

// ExistsByEmail reports whether a user with the given email exists.
func (r *UserGorm) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	err := r.DB(ctx).Model(&entity.User{}).Where("email = ?", email).Count(&n).Error
	return n > 0, err
}

// FindAllByRoleName returns all users holding the named role.
func (r *UserGorm) FindAllByRoleName(ctx context.Context, roleName string) ([]*entity.User, error) {
	var out []*entity.User
	err := r.DB(ctx).
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("roles.name = ?", roleName).
		Preload("Role").
		Find(&out).Error
	return out, err
}

// ClearNotifications removes every notification link for the user.
func (r *UserGorm) ClearNotifications(ctx context.Context, u *entity.User) error {
	return r.DB(ctx).Model(u).Association("Notifications").Clear()
}

// DeleteAdminByUserID removes the admin row backed by this user, if any.
// Student and teacher profiles carry their own teardown and are handled by
// their usecases before the user row is deleted.
func (r *UserGorm) DeleteAdminByUserID(ctx context.Context, userID uint) error {
	return r.DB(ctx).Where("user_id = ?", userID).Delete(&entity.Admin{}).Error
}
