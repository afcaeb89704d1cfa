package usecase

import (
	"context"
	"fmt"
	"time"

	"memberflow_backend/internal/domain/entity"
	"memberflow_backend/internal/shared/apperrors"
	"memberflow_backend/internal/shared/crud"
)

// AssistanceStore is the persistence surface the attendance usecase needs.
type AssistanceStore interface {
	crud.Store[*entity.Assistance]
	ExistsByStudentAndSession(ctx context.Context, studentID, sessionID uint) (bool, error)
	FindAllBySessionID(ctx context.Context, sessionID uint) ([]*entity.Assistance, error)
}

// SessionChecker verifies a session exists before attendance is recorded.
type SessionChecker interface {
	ExistsByID(ctx context.Context, id uint) (bool, error)
}

// AssistanceUsecase records student attendance. A student is marked present
// at a session at most once.
type AssistanceUsecase struct {
	svc      *crud.Service[*entity.Assistance]
	store    AssistanceStore
	sessions SessionChecker
}

func NewAssistanceUsecase(store AssistanceStore, sessions SessionChecker) *AssistanceUsecase {
	uc := &AssistanceUsecase{store: store, sessions: sessions}
	uc.svc = crud.NewService[*entity.Assistance](store,
		crud.WithValidator(func(a *entity.Assistance) error {
			if a.StudentID == 0 {
				return fmt.Errorf("%w: assistance must reference a student", apperrors.ErrInvalidData)
			}
			if a.TrainingSessionID == 0 {
				return fmt.Errorf("%w: assistance must reference a session", apperrors.ErrInvalidData)
			}
			return nil
		}),
		crud.WithExists(func(ctx context.Context, a *entity.Assistance) (bool, error) {
			if a.GetID() != 0 {
				return store.ExistsByID(ctx, a.GetID())
			}
			return store.ExistsByStudentAndSession(ctx, a.StudentID, a.TrainingSessionID)
		}),
	)
	return uc
}

// Save marks a student present at an existing session. The date defaults to
// now.
func (uc *AssistanceUsecase) Save(ctx context.Context, a *entity.Assistance) (*entity.Assistance, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: assistance cannot be nil", apperrors.ErrInvalidArgument)
	}
	ok, err := uc.sessions.ExistsByID(ctx, a.TrainingSessionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: training session id=%d", apperrors.ErrEntityNotFound, a.TrainingSessionID)
	}
	if a.Date.IsZero() {
		a.Date = time.Now()
	}
	return uc.svc.Save(ctx, a)
}

func (uc *AssistanceUsecase) FindByID(ctx context.Context, id uint) (*entity.Assistance, error) {
	return uc.svc.FindByID(ctx, id)
}

func (uc *AssistanceUsecase) FindAllBySessionID(ctx context.Context, sessionID uint) ([]*entity.Assistance, error) {
	return uc.store.FindAllBySessionID(ctx, sessionID)
}

func (uc *AssistanceUsecase) DeleteByID(ctx context.Context, id uint) error {
	return uc.svc.DeleteByID(ctx, id)
}
