// Package adapters provides the GORM-backed stores for the classes feature:
// memberships, training groups, sessions and attendance.
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

// MembershipGorm persists Membership entities.
type MembershipGorm struct {
	*gormstore.Store[entity.Membership]
}

func NewMembershipGorm(conn *gorm.DB) *MembershipGorm {
	return &MembershipGorm{Store: gormstore.New[entity.Membership](conn, "Students")}
}

// ExistsByType reports whether a membership of the given tier exists.
func (r *MembershipGorm) ExistsByType(ctx context.Context, t entity.MembershipType) (bool, error) {
	var n int64
	err := r.DB(ctx).Model(&entity.Membership{}).Where("type = ?", t).Count(&n).Error
	return n > 0, err
}

// FindByType retrieves the membership of the given tier.
func (r *MembershipGorm) FindByType(ctx context.Context, t entity.MembershipType) (*entity.Membership, error) {
	var m entity.Membership
	err := r.DB(ctx).Preload("Students").Where("type = ?", t).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: membership type %s", apperrors.ErrEntityNotFound, t)
		}
		return nil, err
	}
	return &m, nil
}

// CountStudents counts the students currently assigned this membership.
func (r *MembershipGorm) CountStudents(ctx context.Context, membershipID uint) (int64, error) {
	var n int64
	err := r.DB(ctx).Model(&entity.Student{}).Where("membership_id = ?", membershipID).Count(&n).Error
	return n, err
}
