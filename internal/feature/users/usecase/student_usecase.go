package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"memberflow_backend/internal/domain/entity"
	"memberflow_backend/internal/shared/apperrors"
	"memberflow_backend/internal/shared/crud"
)

// StudentStore is the persistence surface the student usecase needs.
type StudentStore interface {
	crud.Store[*entity.Student]
	FindByDNI(ctx context.Context, dni string) (*entity.Student, error)
	ExistsByDNI(ctx context.Context, dni string) (bool, error)
	FindByUserID(ctx context.Context, userID uint) (*entity.Student, error)
	CountByMembershipID(ctx context.Context, membershipID uint) (int64, error)
	ClearGroups(ctx context.Context, s *entity.Student) error
	RemoveGroup(ctx context.Context, s *entity.Student, g *entity.TrainingGroup) error
	DeleteHistoriesByStudentID(ctx context.Context, studentID uint) error
	DeleteAssistancesByStudentID(ctx context.Context, studentID uint) error
}

// MembershipChecker verifies a membership exists before it is assigned.
type MembershipChecker interface {
	ExistsByID(ctx context.Context, id uint) (bool, error)
}

// StudentUsecase manages student profiles, their membership assignment and
// the student side of the group↔student relation.
type StudentUsecase struct {
	svc         *crud.Service[*entity.Student]
	store       StudentStore
	memberships MembershipChecker
	tx          Transactor
}

// NewStudentUsecase wires the student usecase. Duplicate detection runs on
// the DNI business key for unsaved students.
func NewStudentUsecase(store StudentStore, memberships MembershipChecker, tx Transactor) *StudentUsecase {
	uc := &StudentUsecase{store: store, memberships: memberships, tx: tx}
	uc.svc = crud.NewService[*entity.Student](store,
		crud.WithValidator(func(s *entity.Student) error {
			if strings.TrimSpace(s.DNI) == "" {
				return fmt.Errorf("%w: student dni is required", apperrors.ErrInvalidData)
			}
			if s.UserID == 0 {
				return fmt.Errorf("%w: student must reference a user", apperrors.ErrInvalidData)
			}
			if s.Birthdate.IsZero() {
				return fmt.Errorf("%w: student birthdate is required", apperrors.ErrInvalidData)
			}
			return nil
		}),
		crud.WithExists(func(ctx context.Context, s *entity.Student) (bool, error) {
			if s.GetID() != 0 {
				return store.ExistsByID(ctx, s.GetID())
			}
			return store.ExistsByDNI(ctx, s.DNI)
		}),
	)
	return uc
}

func (uc *StudentUsecase) Save(ctx context.Context, s *entity.Student) (*entity.Student, error) {
	return uc.svc.Save(ctx, s)
}

func (uc *StudentUsecase) Update(ctx context.Context, s *entity.Student) (*entity.Student, error) {
	return uc.svc.Update(ctx, s)
}

func (uc *StudentUsecase) FindByID(ctx context.Context, id uint) (*entity.Student, error) {
	return uc.svc.FindByID(ctx, id)
}

func (uc *StudentUsecase) FindAll(ctx context.Context) ([]*entity.Student, error) {
	return uc.svc.FindAll(ctx)
}

func (uc *StudentUsecase) FindByDNI(ctx context.Context, dni string) (*entity.Student, error) {
	return uc.store.FindByDNI(ctx, dni)
}

// AssignMembership attaches the membership to the student.
func (uc *StudentUsecase) AssignMembership(ctx context.Context, studentID, membershipID uint) (*entity.Student, error) {
	s, err := uc.svc.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	ok, err := uc.memberships.ExistsByID(ctx, membershipID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: membership id=%d", apperrors.ErrEntityNotFound, membershipID)
	}
	s.MembershipID = &membershipID
	if err := uc.store.Update(ctx, s); err != nil {
		return nil, err
	}
	return uc.svc.FindByID(ctx, studentID)
}

// RemoveMembership detaches the student's membership. A student without one
// is left as is.
func (uc *StudentUsecase) RemoveMembership(ctx context.Context, studentID uint) (*entity.Student, error) {
	s, err := uc.svc.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if s.MembershipID == nil {
		slog.Warn("student has no membership to remove", "student_id", studentID)
		return s, nil
	}
	s.MembershipID = nil
	s.Membership = nil
	if err := uc.store.Update(ctx, s); err != nil {
		return nil, err
	}
	return uc.svc.FindByID(ctx, studentID)
}

// RemoveGroupFromStudent unlinks the group from the student's side of the
// relation. Not linked is not an error.
func (uc *StudentUsecase) RemoveGroupFromStudent(ctx context.Context, studentID, groupID uint) (*entity.Student, error) {
	s, err := uc.svc.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	linked := false
	for _, g := range s.TrainingGroups {
		if g.ID == groupID {
			linked = true
			break
		}
	}
	if !linked {
		slog.Warn("student not enrolled in group", "student_id", studentID, "group_id", groupID)
		return s, nil
	}
	if err := uc.store.RemoveGroup(ctx, s, &entity.TrainingGroup{ID: groupID}); err != nil {
		return nil, err
	}
	return uc.svc.FindByID(ctx, studentID)
}

// DeleteByID removes a student together with its history, attendance and
// group links, in one transaction.
func (uc *StudentUsecase) DeleteByID(ctx context.Context, id uint) error {
	s, err := uc.svc.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return uc.tx.Transact(ctx, func(ctx context.Context) error {
		return uc.teardown(ctx, s)
	})
}

// DeleteByUserID removes the student profile backed by the given user, if
// one exists. Called from the user teardown, already inside its transaction.
func (uc *StudentUsecase) DeleteByUserID(ctx context.Context, userID uint) error {
	s, err := uc.store.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrEntityNotFound) {
			return nil
		}
		return err
	}
	return uc.teardown(ctx, s)
}

func (uc *StudentUsecase) teardown(ctx context.Context, s *entity.Student) error {
	if err := uc.store.DeleteHistoriesByStudentID(ctx, s.ID); err != nil {
		return err
	}
	if err := uc.store.DeleteAssistancesByStudentID(ctx, s.ID); err != nil {
		return err
	}
	if err := uc.store.ClearGroups(ctx, s); err != nil {
		return err
	}
	return uc.store.DeleteByID(ctx, s.ID)
}
