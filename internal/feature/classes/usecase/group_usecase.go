package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"memberflow_backend/internal/domain/entity"
	"memberflow_backend/internal/shared/apperrors"
	"memberflow_backend/internal/shared/crud"
)

// TrainingGroupStore is the persistence surface the group usecase needs.
type TrainingGroupStore interface {
	crud.Store[*entity.TrainingGroup]
	AppendStudent(ctx context.Context, g *entity.TrainingGroup, s *entity.Student) error
	RemoveStudent(ctx context.Context, g *entity.TrainingGroup, s *entity.Student) error
	ClearStudents(ctx context.Context, g *entity.TrainingGroup) error
	FindAllByTeacherID(ctx context.Context, teacherID uint) ([]*entity.TrainingGroup, error)
}

// SessionSweeper removes the sessions owned by a group during teardown.
type SessionSweeper interface {
	DeleteByGroupID(ctx context.Context, groupID uint) error
}

// AssistanceSweeper removes attendance rows during group or session teardown.
type AssistanceSweeper interface {
	DeleteBySessionID(ctx context.Context, sessionID uint) error
	DeleteByGroupID(ctx context.Context, groupID uint) error
}

// StudentFinder resolves students for enrollment.
type StudentFinder interface {
	FindByID(ctx context.Context, id uint) (*entity.Student, error)
}

// TeacherChecker verifies a teacher exists before a group is created.
type TeacherChecker interface {
	ExistsByID(ctx context.Context, id uint) (bool, error)
}

// Transactor runs a function as one atomic unit of work.
type Transactor interface {
	Transact(ctx context.Context, fn func(ctx context.Context) error) error
}

// TrainingGroupUsecase manages class groups, the owning side of the
// group↔student relation, and the group teardown protocol.
type TrainingGroupUsecase struct {
	svc         *crud.Service[*entity.TrainingGroup]
	store       TrainingGroupStore
	sessions    SessionSweeper
	assistances AssistanceSweeper
	students    StudentFinder
	teachers    TeacherChecker
	tx          Transactor
}

func NewTrainingGroupUsecase(store TrainingGroupStore, sessions SessionSweeper, assistances AssistanceSweeper, students StudentFinder, teachers TeacherChecker, tx Transactor) *TrainingGroupUsecase {
	uc := &TrainingGroupUsecase{store: store, sessions: sessions, assistances: assistances, students: students, teachers: teachers, tx: tx}
	uc.svc = crud.NewService[*entity.TrainingGroup](store,
		crud.WithValidator(func(g *entity.TrainingGroup) error {
			if strings.TrimSpace(g.Name) == "" {
				return fmt.Errorf("%w: group name is required", apperrors.ErrInvalidData)
			}
			if g.TeacherID == 0 {
				return fmt.Errorf("%w: group must reference a teacher", apperrors.ErrInvalidData)
			}
			if g.Schedule.IsZero() {
				return fmt.Errorf("%w: group schedule is required", apperrors.ErrInvalidData)
			}
			return nil
		}),
	)
	return uc
}

// Save stores a new group after verifying its teacher exists.
func (uc *TrainingGroupUsecase) Save(ctx context.Context, g *entity.TrainingGroup) (*entity.TrainingGroup, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: group cannot be nil", apperrors.ErrInvalidArgument)
	}
	if g.TeacherID != 0 {
		ok, err := uc.teachers.ExistsByID(ctx, g.TeacherID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: teacher id=%d", apperrors.ErrEntityNotFound, g.TeacherID)
		}
	}
	return uc.svc.Save(ctx, g)
}

func (uc *TrainingGroupUsecase) Update(ctx context.Context, g *entity.TrainingGroup) (*entity.TrainingGroup, error) {
	return uc.svc.Update(ctx, g)
}

func (uc *TrainingGroupUsecase) FindByID(ctx context.Context, id uint) (*entity.TrainingGroup, error) {
	return uc.svc.FindByID(ctx, id)
}

func (uc *TrainingGroupUsecase) FindAll(ctx context.Context) ([]*entity.TrainingGroup, error) {
	return uc.svc.FindAll(ctx)
}

func (uc *TrainingGroupUsecase) FindAllByTeacherID(ctx context.Context, teacherID uint) ([]*entity.TrainingGroup, error) {
	return uc.store.FindAllByTeacherID(ctx, teacherID)
}

// AddStudentToGroup enrolls the student in the group. Already enrolled is
// not an error.
func (uc *TrainingGroupUsecase) AddStudentToGroup(ctx context.Context, groupID, studentID uint) (*entity.TrainingGroup, error) {
	g, err := uc.svc.FindByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if hasStudent(g, studentID) {
		slog.Warn("student already enrolled in group", "group_id", groupID, "student_id", studentID)
		return g, nil
	}
	s, err := uc.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if err := uc.store.AppendStudent(ctx, g, s); err != nil {
		return nil, err
	}
	return uc.svc.FindByID(ctx, groupID)
}

// RemoveStudentFromGroup withdraws the student from the group. Not enrolled
// is not an error.
func (uc *TrainingGroupUsecase) RemoveStudentFromGroup(ctx context.Context, groupID, studentID uint) (*entity.TrainingGroup, error) {
	g, err := uc.svc.FindByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !hasStudent(g, studentID) {
		slog.Warn("student not enrolled in group", "group_id", groupID, "student_id", studentID)
		return g, nil
	}
	if err := uc.store.RemoveStudent(ctx, g, &entity.Student{ID: studentID}); err != nil {
		return nil, err
	}
	return uc.svc.FindByID(ctx, groupID)
}

// DeleteByID tears a group down in one transaction: attendance rows of its
// sessions first, then the sessions, then the student links, then the group
// row itself.
func (uc *TrainingGroupUsecase) DeleteByID(ctx context.Context, id uint) error {
	g, err := uc.svc.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return uc.tx.Transact(ctx, func(ctx context.Context) error {
		if err := uc.assistances.DeleteByGroupID(ctx, id); err != nil {
			return err
		}
		if err := uc.sessions.DeleteByGroupID(ctx, id); err != nil {
			return err
		}
		if err := uc.store.ClearStudents(ctx, g); err != nil {
			return err
		}
		return uc.store.DeleteByID(ctx, id)
	})
}

func hasStudent(g *entity.TrainingGroup, studentID uint) bool {
	for _, s := range g.Students {
		if s.ID == studentID {
			return true
		}
	}
	return false
}
