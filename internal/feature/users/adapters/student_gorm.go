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

// StudentGorm persists Student entities with their user, membership and
// training-group associations.
type StudentGorm struct {
	*gormstore.Store[entity.Student]
}

func NewStudentGorm(conn *gorm.DB) *StudentGorm {
	return &StudentGorm{Store: gormstore.New[entity.Student](conn, "User", "Membership", "TrainingGroups", "Histories")}
}

// FindByDNI retrieves a student by national identity document.
func (r *StudentGorm) FindByDNI(ctx context.Context, dni string) (*entity.Student, error) {
	var s entity.Student
	err := r.DB(ctx).Preload("User").Preload("Membership").Where("dni = ?", dni).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: dni %s", apperrors.ErrEntityNotFound, dni)
		}
		return nil, err
	}
	return &s, nil
}

// ExistsByDNI reports whether a student with the given DNI exists.
func (r *StudentGorm) ExistsByDNI(ctx context.Context, dni string) (bool, error) {
	var n int64
	err := r.DB(ctx).Model(&entity.Student{}).Where("dni = ?", dni).Count(&n).Error
	return n > 0, err
}

// FindByUserID retrieves the student backed by the given user, if any.
func (r *StudentGorm) FindByUserID(ctx context.Context, userID uint) (*entity.Student, error) {
	var s entity.Student
	err := r.DB(ctx).Where("user_id = ?", userID).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: student for user %d", apperrors.ErrEntityNotFound, userID)
		}
		return nil, err
	}
	return &s, nil
}

// CountByMembershipID counts the students currently assigned to a membership.
func (r *StudentGorm) CountByMembershipID(ctx context.Context, membershipID uint) (int64, error) {
	var n int64
	err := r.DB(ctx).Model(&entity.Student{}).Where("membership_id = ?", membershipID).Count(&n).Error
	return n, err
}

// ClearGroups removes every training-group link for the student.
func (r *StudentGorm) ClearGroups(ctx context.Context, s *entity.Student) error {
	return r.DB(ctx).Model(s).Association("TrainingGroups").Clear()
}

// RemoveGroup unlinks a single training group from the student.
func (r *StudentGorm) RemoveGroup(ctx context.Context, s *entity.Student, g *entity.TrainingGroup) error {
	return r.DB(ctx).Model(s).Association("TrainingGroups").Delete(g)
}

// DeleteHistoriesByStudentID removes all progress history rows of a student.
func (r *StudentGorm) DeleteHistoriesByStudentID(ctx context.Context, studentID uint) error {
	return r.DB(ctx).Where("student_id = ?", studentID).Delete(&entity.StudentHistory{}).Error
}

// DeleteAssistancesByStudentID removes all attendance rows of a student.
func (r *StudentGorm) DeleteAssistancesByStudentID(ctx context.Context, studentID uint) error {
	return r.DB(ctx).Where("student_id = ?", studentID).Delete(&entity.Assistance{}).Error
}

// TeacherGorm persists Teacher entities.
type TeacherGorm struct {
	*gormstore.Store[entity.Teacher]
}

func NewTeacherGorm(conn *gorm.DB) *TeacherGorm {
	return &TeacherGorm{Store: gormstore.New[entity.Teacher](conn, "User", "TrainingGroups")}
}

// CountGroupsByTeacherID counts the training groups led by a teacher.
func (r *TeacherGorm) CountGroupsByTeacherID(ctx context.Context, teacherID uint) (int64, error) {
	var n int64
	err := r.DB(ctx).Model(&entity.TrainingGroup{}).Where("teacher_id = ?", teacherID).Count(&n).Error
	return n, err
}

// FindByUserID retrieves the teacher backed by the given user, if any.
func (r *TeacherGorm) FindByUserID(ctx context.Context, userID uint) (*entity.Teacher, error) {
	var t entity.Teacher
	err := r.DB(ctx).Where("user_id = ?", userID).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: teacher for user %d", apperrors.ErrEntityNotFound, userID)
		}
		return nil, err
	}
	return &t, nil
}

// AdminGorm persists Admin entities.
type AdminGorm struct {
	*gormstore.Store[entity.Admin]
}

func NewAdminGorm(conn *gorm.DB) *AdminGorm {
	return &AdminGorm{Store: gormstore.New[entity.Admin](conn, "User")}
}

// StudentHistoryGorm persists StudentHistory entities.
type StudentHistoryGorm struct {
	*gormstore.Store[entity.StudentHistory]
}

func NewStudentHistoryGorm(conn *gorm.DB) *StudentHistoryGorm {
	return &StudentHistoryGorm{Store: gormstore.New[entity.StudentHistory](conn)}
}

// FindAllByStudentID returns the history rows of one student, oldest first.
func (r *StudentHistoryGorm) FindAllByStudentID(ctx context.Context, studentID uint) ([]*entity.StudentHistory, error) {
	var out []*entity.StudentHistory
	err := r.DB(ctx).Where("student_id = ?", studentID).Order("event_date asc").Find(&out).Error
	return out, err
}
