package usecase

import (
	"context"
	"fmt"
	"time"

	"memberflow_backend/internal/domain/entity"
	"memberflow_backend/internal/shared/apperrors"
	"memberflow_backend/internal/shared/crud"
)

// TrainingSessionStore is the persistence surface the session usecase needs.
type TrainingSessionStore interface {
	crud.Store[*entity.TrainingSession]
	CreateBatch(ctx context.Context, sessions []*entity.TrainingSession) error
	FindAllByGroupID(ctx context.Context, groupID uint) ([]*entity.TrainingSession, error)
	DeleteByGroupID(ctx context.Context, groupID uint) error
}

// GroupChecker verifies a group exists before sessions are scheduled for it.
type GroupChecker interface {
	ExistsByID(ctx context.Context, id uint) (bool, error)
}

// TrainingSessionUsecase manages scheduled class occurrences, including the
// recurring weekly generation used when a group is set up.
type TrainingSessionUsecase struct {
	svc         *crud.Service[*entity.TrainingSession]
	store       TrainingSessionStore
	groups      GroupChecker
	assistances AssistanceSweeper
	tx          Transactor
}

func NewTrainingSessionUsecase(store TrainingSessionStore, groups GroupChecker, assistances AssistanceSweeper, tx Transactor) *TrainingSessionUsecase {
	uc := &TrainingSessionUsecase{store: store, groups: groups, assistances: assistances, tx: tx}
	uc.svc = crud.NewService[*entity.TrainingSession](store,
		crud.WithValidator(func(s *entity.TrainingSession) error {
			if s.TrainingGroupID == 0 {
				return fmt.Errorf("%w: session must reference a group", apperrors.ErrInvalidData)
			}
			if s.Date.IsZero() {
				return fmt.Errorf("%w: session date is required", apperrors.ErrInvalidData)
			}
			return nil
		}),
	)
	return uc
}

// Save schedules a single session for an existing group. The status defaults
// to ACTIVE.
func (uc *TrainingSessionUsecase) Save(ctx context.Context, s *entity.TrainingSession) (*entity.TrainingSession, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: session cannot be nil", apperrors.ErrInvalidArgument)
	}
	if err := uc.checkGroup(ctx, s.TrainingGroupID); err != nil {
		return nil, err
	}
	if s.Status == "" {
		s.Status = entity.StatusActive
	}
	return uc.svc.Save(ctx, s)
}

func (uc *TrainingSessionUsecase) Update(ctx context.Context, s *entity.TrainingSession) (*entity.TrainingSession, error) {
	return uc.svc.Update(ctx, s)
}

func (uc *TrainingSessionUsecase) FindByID(ctx context.Context, id uint) (*entity.TrainingSession, error) {
	return uc.svc.FindByID(ctx, id)
}

func (uc *TrainingSessionUsecase) FindAll(ctx context.Context) ([]*entity.TrainingSession, error) {
	return uc.svc.FindAll(ctx)
}

func (uc *TrainingSessionUsecase) FindAllByGroupID(ctx context.Context, groupID uint) ([]*entity.TrainingSession, error) {
	return uc.store.FindAllByGroupID(ctx, groupID)
}

// GenerateRecurringSessions schedules a weekly run of sessions for a group:
// four per month starting at startDate, all ACTIVE. The whole run is written
// in one transaction.
func (uc *TrainingSessionUsecase) GenerateRecurringSessions(ctx context.Context, groupID uint, startDate time.Time, months int) ([]*entity.TrainingSession, error) {
	if months <= 0 {
		return nil, fmt.Errorf("%w: months must be positive", apperrors.ErrInvalidData)
	}
	if startDate.IsZero() {
		return nil, fmt.Errorf("%w: start date is required", apperrors.ErrInvalidData)
	}
	if err := uc.checkGroup(ctx, groupID); err != nil {
		return nil, err
	}

	total := months * 4
	sessions := make([]*entity.TrainingSession, 0, total)
	for i := 0; i < total; i++ {
		sessions = append(sessions, &entity.TrainingSession{
			TrainingGroupID: groupID,
			Date:            startDate.AddDate(0, 0, 7*i),
			Status:          entity.StatusActive,
		})
	}

	err := uc.tx.Transact(ctx, func(ctx context.Context) error {
		return uc.store.CreateBatch(ctx, sessions)
	})
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// DeleteByID removes a session and its attendance rows in one transaction.
func (uc *TrainingSessionUsecase) DeleteByID(ctx context.Context, id uint) error {
	if _, err := uc.svc.FindByID(ctx, id); err != nil {
		return err
	}
	return uc.tx.Transact(ctx, func(ctx context.Context) error {
		if err := uc.assistances.DeleteBySessionID(ctx, id); err != nil {
			return err
		}
		return uc.store.DeleteByID(ctx, id)
	})
}

// DeleteAllAssistancesBySession clears the attendance of one session without
// touching the session itself.
func (uc *TrainingSessionUsecase) DeleteAllAssistancesBySession(ctx context.Context, sessionID uint) error {
	if _, err := uc.svc.FindByID(ctx, sessionID); err != nil {
		return err
	}
	return uc.assistances.DeleteBySessionID(ctx, sessionID)
}

func (uc *TrainingSessionUsecase) checkGroup(ctx context.Context, groupID uint) error {
	if groupID == 0 {
		return fmt.Errorf("%w: session must reference a group", apperrors.ErrInvalidData)
	}
	ok, err := uc.groups.ExistsByID(ctx, groupID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: training group id=%d", apperrors.ErrEntityNotFound, groupID)
	}
	return nil
}
