package adapters

import (
	"context"

	"gorm.io/gorm"

	"memberflow_backend/internal/domain/entity"
	"memberflow_backend/internal/platform/gormstore"
)

// TrainingSessionGorm persists TrainingSession entities.
type TrainingSessionGorm struct {
	*gormstore.Store[entity.TrainingSession]
}

func NewTrainingSessionGorm(conn *gorm.DB) *TrainingSessionGorm {
	return &TrainingSessionGorm{Store: gormstore.New[entity.TrainingSession](conn, "Assistances")}
}

// CreateBatch inserts a run of sessions in one statement.
func (r *TrainingSessionGorm) CreateBatch(ctx context.Context, sessions []*entity.TrainingSession) error {
	return r.DB(ctx).Create(&sessions).Error
}

// FindAllByGroupID returns all sessions of one group ordered by date.
func (r *TrainingSessionGorm) FindAllByGroupID(ctx context.Context, groupID uint) ([]*entity.TrainingSession, error) {
	var out []*entity.TrainingSession
	err := r.DB(ctx).Where("training_group_id = ?", groupID).Order("date asc").Find(&out).Error
	return out, err
}

// DeleteByGroupID removes every session of a group.
func (r *TrainingSessionGorm) DeleteByGroupID(ctx context.Context, groupID uint) error {
	return r.DB(ctx).Where("training_group_id = ?", groupID).Delete(&entity.TrainingSession{}).Error
}

// AssistanceGorm persists Assistance entities.
type AssistanceGorm struct {
	*gormstore.Store[entity.Assistance]
}

func NewAssistanceGorm(conn *gorm.DB) *AssistanceGorm {
	return &AssistanceGorm{Store: gormstore.New[entity.Assistance](conn)}
}

// ExistsByStudentAndSession reports whether a student is already marked
// present at a session.
func (r *AssistanceGorm) ExistsByStudentAndSession(ctx context.Context, studentID, sessionID uint) (bool, error) {
	var n int64
	err := r.DB(ctx).Model(&entity.Assistance{}).
		Where("student_id = ? AND training_session_id = ?", studentID, sessionID).
		Count(&n).Error
	return n > 0, err
}

// FindAllBySessionID returns the attendance rows of one session.
func (r *AssistanceGorm) FindAllBySessionID(ctx context.Context, sessionID uint) ([]*entity.Assistance, error) {
	var out []*entity.Assistance
	err := r.DB(ctx).Where("training_session_id = ?", sessionID).Find(&out).Error
	return out, err
}

// DeleteBySessionID removes every attendance row of a session.
func (r *AssistanceGorm) DeleteBySessionID(ctx context.Context, sessionID uint) error {
	return r.DB(ctx).Where("training_session_id = ?", sessionID).Delete(&entity.Assistance{}).Error
}

// DeleteByGroupID removes every attendance row of every session of a group.
func (r *AssistanceGorm) DeleteByGroupID(ctx context.Context, groupID uint) error {
	return r.DB(ctx).
		Where("training_session_id IN (?)",
			r.DB(ctx).Model(&entity.TrainingSession{}).Select("id").Where("training_group_id = ?", groupID)).
		Delete(&entity.Assistance{}).Error
}
