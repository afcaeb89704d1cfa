package adapters

import (
	"context"

	"gorm.io/gorm"

	"memberflow_backend/internal/domain/entity"
	"memberflow_backend/internal/platform/gormstore"
)

// TrainingGroupGorm persists TrainingGroup entities and the owning side of
// the group↔student relation.
type TrainingGroupGorm struct {
	*gormstore.Store[entity.TrainingGroup]
}

func NewTrainingGroupGorm(conn *gorm.DB) *TrainingGroupGorm {
	return &TrainingGroupGorm{Store: gormstore.New[entity.TrainingGroup](conn, "Teacher", "Students", "Sessions")}
}

// AppendStudent links a student into the group.
func (r *TrainingGroupGorm) AppendStudent(ctx context.Context, g *entity.TrainingGroup, s *entity.Student) error {
	return r.DB(ctx).Model(g).Association("Students").Append(s)
}

// RemoveStudent unlinks a student from the group.
func (r *TrainingGroupGorm) RemoveStudent(ctx context.Context, g *entity.TrainingGroup, s *entity.Student) error {
	return r.DB(ctx).Model(g).Association("Students").Delete(s)
}

// ClearStudents removes every student link of the group.
func (r *TrainingGroupGorm) ClearStudents(ctx context.Context, g *entity.TrainingGroup) error {
	return r.DB(ctx).Model(g).Association("Students").Clear()
}

// FindAllByTeacherID returns the groups led by one teacher.
func (r *TrainingGroupGorm) FindAllByTeacherID(ctx context.Context, teacherID uint) ([]*entity.TrainingGroup, error) {
	var out []*entity.TrainingGroup
	err := r.DB(ctx).Preload("Students").Preload("Sessions").
		Where("teacher_id = ?", teacherID).Find(&out).Error
	return out, err
}
