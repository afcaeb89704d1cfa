package usecase

import (
	"context"
	"errors"
	"fmt"

	"memberflow_backend/internal/domain/entity"
	"memberflow_backend/internal/shared/apperrors"
	"memberflow_backend/internal/shared/crud"
)

// TeacherStore is the persistence surface the teacher usecase needs.
type TeacherStore interface {
	crud.Store[*entity.Teacher]
	FindByUserID(ctx context.Context, userID uint) (*entity.Teacher, error)
	CountGroupsByTeacherID(ctx context.Context, teacherID uint) (int64, error)
}

// TeacherUsecase manages instructor profiles. A teacher who still leads
// training groups cannot be deleted.
type TeacherUsecase struct {
	svc   *crud.Service[*entity.Teacher]
	store TeacherStore
}

func NewTeacherUsecase(store TeacherStore) *TeacherUsecase {
	uc := &TeacherUsecase{store: store}
	uc.svc = crud.NewService[*entity.Teacher](store,
		crud.WithValidator(func(t *entity.Teacher) error {
			if t.UserID == 0 {
				return fmt.Errorf("%w: teacher must reference a user", apperrors.ErrInvalidData)
			}
			return nil
		}),
	)
	return uc
}

func (uc *TeacherUsecase) Save(ctx context.Context, t *entity.Teacher) (*entity.Teacher, error) {
	return uc.svc.Save(ctx, t)
}

func (uc *TeacherUsecase) Update(ctx context.Context, t *entity.Teacher) (*entity.Teacher, error) {
	return uc.svc.Update(ctx, t)
}

func (uc *TeacherUsecase) FindByID(ctx context.Context, id uint) (*entity.Teacher, error) {
	return uc.svc.FindByID(ctx, id)
}

func (uc *TeacherUsecase) FindAll(ctx context.Context) ([]*entity.Teacher, error) {
	return uc.svc.FindAll(ctx)
}

// DeleteByID removes a teacher, refusing while any training group still
// references them.
func (uc *TeacherUsecase) DeleteByID(ctx context.Context, id uint) error {
	n, err := uc.store.CountGroupsByTeacherID(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: teacher id=%d still leads %d training groups", apperrors.ErrInvalidData, id, n)
	}
	return uc.svc.DeleteByID(ctx, id)
}

// DeleteByUserID removes the teacher profile backed by the given user, if
// one exists. Called from the user teardown.
func (uc *TeacherUsecase) DeleteByUserID(ctx context.Context, userID uint) error {
	t, err := uc.store.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrEntityNotFound) {
			return nil
		}
		return err
	}
	return uc.DeleteByID(ctx, t.ID)
}
