package usecase

import (
	"context"
	"fmt"
	"time"

	"memberflow_backend/internal/domain/entity"
	"memberflow_backend/internal/shared/apperrors"
	"memberflow_backend/internal/shared/crud"
)

// StudentHistoryStore is the persistence surface the history usecase needs.
type StudentHistoryStore interface {
	crud.Store[*entity.StudentHistory]
	FindAllByStudentID(ctx context.Context, studentID uint) ([]*entity.StudentHistory, error)
}

// StudentChecker verifies a student exists before a history row is attached.
type StudentChecker interface {
	ExistsByID(ctx context.Context, id uint) (bool, error)
}

// StudentHistoryUsecase manages the dated event records of students.
type StudentHistoryUsecase struct {
	svc      *crud.Service[*entity.StudentHistory]
	store    StudentHistoryStore
	students StudentChecker
}

func NewStudentHistoryUsecase(store StudentHistoryStore, students StudentChecker) *StudentHistoryUsecase {
	uc := &StudentHistoryUsecase{store: store, students: students}
	uc.svc = crud.NewService[*entity.StudentHistory](store,
		crud.WithValidator(func(h *entity.StudentHistory) error {
			if h.StudentID == 0 {
				return fmt.Errorf("%w: history must reference a student", apperrors.ErrInvalidData)
			}
			if h.EventType == "" {
				return fmt.Errorf("%w: history event type is required", apperrors.ErrInvalidData)
			}
			return nil
		}),
	)
	return uc
}

// Save records a history event for an existing student. The event date
// defaults to now.
func (uc *StudentHistoryUsecase) Save(ctx context.Context, h *entity.StudentHistory) (*entity.StudentHistory, error) {
	if h == nil {
		return nil, fmt.Errorf("%w: history cannot be nil", apperrors.ErrInvalidArgument)
	}
	ok, err := uc.students.ExistsByID(ctx, h.StudentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: student id=%d", apperrors.ErrEntityNotFound, h.StudentID)
	}
	if h.EventDate.IsZero() {
		h.EventDate = time.Now()
	}
	return uc.svc.Save(ctx, h)
}

func (uc *StudentHistoryUsecase) FindByID(ctx context.Context, id uint) (*entity.StudentHistory, error) {
	return uc.svc.FindByID(ctx, id)
}

func (uc *StudentHistoryUsecase) FindAllByStudentID(ctx context.Context, studentID uint) ([]*entity.StudentHistory, error) {
	return uc.store.FindAllByStudentID(ctx, studentID)
}

func (uc *StudentHistoryUsecase) DeleteByID(ctx context.Context, id uint) error {
	return uc.svc.DeleteByID(ctx, id)
}
