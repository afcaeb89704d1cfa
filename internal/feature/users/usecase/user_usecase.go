// Package usecase implements the business rules of the user management
// feature: accounts, roles and permissions, member and instructor profiles,
// and notification delivery.
package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"memberflow_backend/internal/domain/entity"
	"memberflow_backend/internal/shared/apperrors"
	"memberflow_backend/internal/shared/crud"
)

// UserStore is the persistence surface the user usecase needs.
type UserStore interface {
	crud.Store[*entity.User]
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindAllByRoleName(ctx context.Context, roleName string) ([]*entity.User, error)
	ClearNotifications(ctx context.Context, u *entity.User) error
	DeleteAdminByUserID(ctx context.Context, userID uint) error
}

// RoleFinder resolves roles by name for assignment.
type RoleFinder interface {
	FindByName(ctx context.Context, name string) (*entity.Role, error)
}

// StudentTeardown removes the student profile backed by a user, including its
// history, attendance and group links. A user without a student profile is
// not an error.
type StudentTeardown interface {
	DeleteByUserID(ctx context.Context, userID uint) error
}

// TeacherTeardown removes the teacher profile backed by a user. It fails when
// the teacher still leads training groups.
type TeacherTeardown interface {
	DeleteByUserID(ctx context.Context, userID uint) error
}

// InvoiceTeardown removes every invoice of a user together with its lines and
// payment.
type InvoiceTeardown interface {
	DeleteAllByUserID(ctx context.Context, userID uint) error
}

// Transactor runs a function as one atomic unit of work.
type Transactor interface {
	Transact(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserUsecase manages user accounts and orchestrates the multi-entity
// teardown a user deletion requires.
type UserUsecase struct {
	svc      *crud.Service[*entity.User]
	store    UserStore
	roles    RoleFinder
	students StudentTeardown
	teachers TeacherTeardown
	invoices InvoiceTeardown
	tx       Transactor
}

// NewUserUsecase wires the user usecase. Duplicate detection runs on the
// email business key for unsaved users.
func NewUserUsecase(store UserStore, roles RoleFinder, students StudentTeardown, teachers TeacherTeardown, invoices InvoiceTeardown, tx Transactor) *UserUsecase {
	uc := &UserUsecase{store: store, roles: roles, students: students, teachers: teachers, invoices: invoices, tx: tx}
	uc.svc = crud.NewService[*entity.User](store,
		crud.WithValidator(validateUser),
		crud.WithExists(func(ctx context.Context, u *entity.User) (bool, error) {
			if u.GetID() != 0 {
				return store.ExistsByID(ctx, u.GetID())
			}
			return store.ExistsByEmail(ctx, u.Email)
		}),
	)
	return uc
}

func validateUser(u *entity.User) error {
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("%w: user name is required", apperrors.ErrInvalidData)
	}
	if strings.TrimSpace(u.Email) == "" || !strings.Contains(u.Email, "@") {
		return fmt.Errorf("%w: invalid email %q", apperrors.ErrInvalidData, u.Email)
	}
	return nil
}

// Save registers a new user. The password is stored as a bcrypt hash and the
// register date and status receive defaults when unset.
func (uc *UserUsecase) Save(ctx context.Context, u *entity.User) (*entity.User, error) {
	if u == nil {
		return nil, fmt.Errorf("%w: user cannot be nil", apperrors.ErrInvalidArgument)
	}
	if u.Password == "" {
		return nil, fmt.Errorf("%w: password is required", apperrors.ErrInvalidData)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	u.Password = string(hashed)
	if u.RegisterDate.IsZero() {
		u.RegisterDate = time.Now()
	}
	if u.Status == "" {
		u.Status = entity.StatusActive
	}
	return uc.svc.Save(ctx, u)
}

// Update merges an existing user. The password field is written as given, so
// callers must pass the stored hash unless they mean to replace it.
func (uc *UserUsecase) Update(ctx context.Context, u *entity.User) (*entity.User, error) {
	return uc.svc.Update(ctx, u)
}

func (uc *UserUsecase) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	return uc.svc.FindByID(ctx, id)
}

func (uc *UserUsecase) FindAll(ctx context.Context) ([]*entity.User, error) {
	return uc.svc.FindAll(ctx)
}

func (uc *UserUsecase) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return uc.store.FindByEmail(ctx, email)
}

func (uc *UserUsecase) FindAllByRoleName(ctx context.Context, roleName string) ([]*entity.User, error) {
	return uc.store.FindAllByRoleName(ctx, roleName)
}

// AssignRole replaces the user's role with the named one.
func (uc *UserUsecase) AssignRole(ctx context.Context, userID uint, roleName string) (*entity.User, error) {
	u, err := uc.svc.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	role, err := uc.roles.FindByName(ctx, roleName)
	if err != nil {
		return nil, err
	}
	u.RoleID = role.ID
	u.Role = role
	if err := uc.store.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// DeleteByID removes a user and everything hanging off it: the student or
// teacher profile, the admin row, all invoices and the notification links.
// The whole teardown runs in one transaction.
func (uc *UserUsecase) DeleteByID(ctx context.Context, id uint) error {
	u, err := uc.svc.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return uc.tx.Transact(ctx, func(ctx context.Context) error {
		if err := uc.students.DeleteByUserID(ctx, id); err != nil {
			return err
		}
		if err := uc.teachers.DeleteByUserID(ctx, id); err != nil {
			return err
		}
		if err := uc.store.DeleteAdminByUserID(ctx, id); err != nil {
			return err
		}
		if err := uc.invoices.DeleteAllByUserID(ctx, id); err != nil {
			return err
		}
		if err := uc.store.ClearNotifications(ctx, u); err != nil {
			return err
		}
		return uc.store.DeleteByID(ctx, id)
	})
}
