package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"memberflow_backend/internal/domain/entity"
	"memberflow_backend/internal/feature/classes/adapters"
	useradapters "memberflow_backend/internal/feature/users/adapters"
	"memberflow_backend/internal/platform/db"
	"memberflow_backend/internal/shared/apperrors"
)

type classesFixture struct {
	ctx  context.Context
	conn *gorm.DB

	memberships *MembershipUsecase
	groups      *TrainingGroupUsecase
	sessions    *TrainingSessionUsecase
	assistances *AssistanceUsecase

	sessionStore    *adapters.TrainingSessionGorm
	assistanceStore *adapters.AssistanceGorm
	studentStore    *useradapters.StudentGorm

	teacher *entity.Teacher
	student *entity.Student
}

// setupClasses builds the classes feature on an in-memory database with one
// teacher and one student seeded.
func setupClasses(t *testing.T) *classesFixture {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))

	membershipStore := adapters.NewMembershipGorm(conn)
	groupStore := adapters.NewTrainingGroupGorm(conn)
	sessionStore := adapters.NewTrainingSessionGorm(conn)
	assistanceStore := adapters.NewAssistanceGorm(conn)
	studentStore := useradapters.NewStudentGorm(conn)
	teacherStore := useradapters.NewTeacherGorm(conn)
	tx := db.NewTransactor(conn)

	f := &classesFixture{
		ctx:             context.Background(),
		conn:            conn,
		memberships:     NewMembershipUsecase(membershipStore),
		sessionStore:    sessionStore,
		assistanceStore: assistanceStore,
		studentStore:    studentStore,
	}
	f.groups = NewTrainingGroupUsecase(groupStore, sessionStore, assistanceStore, studentStore, teacherStore, tx)
	f.sessions = NewTrainingSessionUsecase(sessionStore, groupStore, assistanceStore, tx)
	f.assistances = NewAssistanceUsecase(assistanceStore, sessionStore)

	role := &entity.Role{Name: "TEACHER"}
	require.NoError(t, conn.Create(role).Error)

	teacherUser := &entity.User{
		Name: "Marta", Surname: "Ruiz", Email: "marta@example.com",
		Password: "hashed", Status: entity.StatusActive,
		RegisterDate: time.Now(), RoleID: role.ID,
	}
	require.NoError(t, conn.Create(teacherUser).Error)
	f.teacher = &entity.Teacher{UserID: teacherUser.ID, Discipline: "Karate"}
	require.NoError(t, conn.Create(f.teacher).Error)

	studentUser := &entity.User{
		Name: "Pablo", Surname: "Lopez", Email: "pablo@example.com",
		Password: "hashed", Status: entity.StatusActive,
		RegisterDate: time.Now(), RoleID: role.ID,
	}
	require.NoError(t, conn.Create(studentUser).Error)
	f.student = &entity.Student{
		UserID: studentUser.ID, DNI: "12345678A",
		Birthdate: time.Date(2010, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, conn.Create(f.student).Error)

	return f
}

func (f *classesFixture) newGroup(t *testing.T) *entity.TrainingGroup {
	t.Helper()
	g, err := f.groups.Save(f.ctx, &entity.TrainingGroup{
		TeacherID: f.teacher.ID,
		Name:      "Karate kids",
		Level:     "Beginner",
		Schedule:  time.Date(2026, 1, 12, 17, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return g
}

func TestMembershipUsecase(t *testing.T) {
	window := func() (time.Time, time.Time) {
		start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(1, 0, 0)
	}

	t.Run("save defaults status", func(t *testing.T) {
		f := setupClasses(t)
		start, end := window()

		m, err := f.memberships.Save(f.ctx, &entity.Membership{
			Type: entity.MembershipBasic, StartDate: start, EndDate: end,
		})

		require.NoError(t, err)
		assert.Equal(t, entity.StatusActive, m.Status)
	})

	t.Run("one membership per tier", func(t *testing.T) {
		f := setupClasses(t)
		start, end := window()
		_, err := f.memberships.Save(f.ctx, &entity.Membership{
			Type: entity.MembershipPremium, StartDate: start, EndDate: end,
		})
		require.NoError(t, err)

		_, err = f.memberships.Save(f.ctx, &entity.Membership{
			Type: entity.MembershipPremium, StartDate: start, EndDate: end,
		})

		assert.ErrorIs(t, err, apperrors.ErrDuplicateEntity)
	})

	t.Run("validation", func(t *testing.T) {
		f := setupClasses(t)
		start, end := window()

		_, err := f.memberships.Save(f.ctx, &entity.Membership{
			Type: "GOLD", StartDate: start, EndDate: end,
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidData)

		_, err = f.memberships.Save(f.ctx, &entity.Membership{
			Type: entity.MembershipBasic, StartDate: end, EndDate: start,
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidData)
	})

	t.Run("delete refused while students hold it", func(t *testing.T) {
		f := setupClasses(t)
		start, end := window()
		m, err := f.memberships.Save(f.ctx, &entity.Membership{
			Type: entity.MembershipNoLimit, StartDate: start, EndDate: end,
		})
		require.NoError(t, err)
		require.NoError(t, f.conn.Model(f.student).Update("membership_id", m.ID).Error)

		err = f.memberships.DeleteByID(f.ctx, m.ID)
		assert.ErrorIs(t, err, apperrors.ErrInvalidData)

		require.NoError(t, f.conn.Model(f.student).Update("membership_id", nil).Error)
		assert.NoError(t, f.memberships.DeleteByID(f.ctx, m.ID))
	})
}

func TestTrainingGroupUsecase_Save(t *testing.T) {
	t.Run("unknown teacher", func(t *testing.T) {
		f := setupClasses(t)

		_, err := f.groups.Save(f.ctx, &entity.TrainingGroup{
			TeacherID: 9999, Name: "Ghost group", Schedule: time.Now(),
		})

		assert.ErrorIs(t, err, apperrors.ErrEntityNotFound)
	})

	t.Run("missing schedule", func(t *testing.T) {
		f := setupClasses(t)

		_, err := f.groups.Save(f.ctx, &entity.TrainingGroup{
			TeacherID: f.teacher.ID, Name: "No schedule",
		})

		assert.ErrorIs(t, err, apperrors.ErrInvalidData)
	})
}

func TestTrainingGroupUsecase_Enrollment(t *testing.T) {
	t.Run("add and remove", func(t *testing.T) {
		f := setupClasses(t)
		g := f.newGroup(t)

		g, err := f.groups.AddStudentToGroup(f.ctx, g.ID, f.student.ID)
		require.NoError(t, err)
		require.Len(t, g.Students, 1)

		g, err = f.groups.RemoveStudentFromGroup(f.ctx, g.ID, f.student.ID)
		require.NoError(t, err)
		assert.Empty(t, g.Students)
	})

	t.Run("enrolling twice is not an error", func(t *testing.T) {
		f := setupClasses(t)
		g := f.newGroup(t)
		_, err := f.groups.AddStudentToGroup(f.ctx, g.ID, f.student.ID)
		require.NoError(t, err)

		g, err = f.groups.AddStudentToGroup(f.ctx, g.ID, f.student.ID)

		require.NoError(t, err)
		assert.Len(t, g.Students, 1)
	})

	t.Run("withdrawing a non-member is not an error", func(t *testing.T) {
		f := setupClasses(t)
		g := f.newGroup(t)

		got, err := f.groups.RemoveStudentFromGroup(f.ctx, g.ID, f.student.ID)

		require.NoError(t, err)
		assert.Empty(t, got.Students)
	})

	t.Run("unknown student", func(t *testing.T) {
		f := setupClasses(t)
		g := f.newGroup(t)

		_, err := f.groups.AddStudentToGroup(f.ctx, g.ID, 9999)

		assert.ErrorIs(t, err, apperrors.ErrEntityNotFound)
	})
}

func TestTrainingGroupUsecase_DeleteByID(t *testing.T) {
	f := setupClasses(t)
	g := f.newGroup(t)
	_, err := f.groups.AddStudentToGroup(f.ctx, g.ID, f.student.ID)
	require.NoError(t, err)
	sessions, err := f.sessions.GenerateRecurringSessions(f.ctx, g.ID, time.Date(2026, 2, 2, 17, 0, 0, 0, time.UTC), 1)
	require.NoError(t, err)
	_, err = f.assistances.Save(f.ctx, &entity.Assistance{
		StudentID: f.student.ID, TrainingSessionID: sessions[0].ID,
	})
	require.NoError(t, err)

	require.NoError(t, f.groups.DeleteByID(f.ctx, g.ID))

	_, err = f.groups.FindByID(f.ctx, g.ID)
	assert.ErrorIs(t, err, apperrors.ErrEntityNotFound)
	remaining, err := f.sessionStore.FindAllByGroupID(f.ctx, g.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
	marked, err := f.assistanceStore.FindAllBySessionID(f.ctx, sessions[0].ID)
	require.NoError(t, err)
	assert.Empty(t, marked)
	// the enrolled student survives the teardown
	s, err := f.studentStore.FindByID(f.ctx, f.student.ID)
	require.NoError(t, err)
	assert.Empty(t, s.TrainingGroups)
}

func TestTrainingSessionUsecase_GenerateRecurringSessions(t *testing.T) {
	t.Run("four weekly sessions per month", func(t *testing.T) {
		f := setupClasses(t)
		g := f.newGroup(t)
		start := time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC)

		sessions, err := f.sessions.GenerateRecurringSessions(f.ctx, g.ID, start, 3)

		require.NoError(t, err)
		require.Len(t, sessions, 12)
		for i, s := range sessions {
			assert.Equal(t, entity.StatusActive, s.Status)
			assert.Equal(t, start.AddDate(0, 0, 7*i), s.Date)
			assert.NotZero(t, s.ID)
		}
		stored, err := f.sessionStore.FindAllByGroupID(f.ctx, g.ID)
		require.NoError(t, err)
		assert.Len(t, stored, 12)
	})

	t.Run("months must be positive", func(t *testing.T) {
		f := setupClasses(t)
		g := f.newGroup(t)

		_, err := f.sessions.GenerateRecurringSessions(f.ctx, g.ID, time.Now(), 0)

		assert.ErrorIs(t, err, apperrors.ErrInvalidData)
	})

	t.Run("unknown group", func(t *testing.T) {
		f := setupClasses(t)

		_, err := f.sessions.GenerateRecurringSessions(f.ctx, 9999, time.Now(), 1)

		assert.ErrorIs(t, err, apperrors.ErrEntityNotFound)
	})
}

func TestTrainingSessionUsecase_DeleteByID(t *testing.T) {
	f := setupClasses(t)
	g := f.newGroup(t)
	s, err := f.sessions.Save(f.ctx, &entity.TrainingSession{
		TrainingGroupID: g.ID, Date: time.Date(2026, 4, 6, 17, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	_, err = f.assistances.Save(f.ctx, &entity.Assistance{
		StudentID: f.student.ID, TrainingSessionID: s.ID,
	})
	require.NoError(t, err)

	require.NoError(t, f.sessions.DeleteByID(f.ctx, s.ID))

	_, err = f.sessions.FindByID(f.ctx, s.ID)
	assert.ErrorIs(t, err, apperrors.ErrEntityNotFound)
	marked, err := f.assistanceStore.FindAllBySessionID(f.ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, marked)
}

func TestAssistanceUsecase_Save(t *testing.T) {
	t.Run("marks presence with a default date", func(t *testing.T) {
		f := setupClasses(t)
		g := f.newGroup(t)
		s, err := f.sessions.Save(f.ctx, &entity.TrainingSession{
			TrainingGroupID: g.ID, Date: time.Now(),
		})
		require.NoError(t, err)

		a, err := f.assistances.Save(f.ctx, &entity.Assistance{
			StudentID: f.student.ID, TrainingSessionID: s.ID,
		})

		require.NoError(t, err)
		assert.False(t, a.Date.IsZero())
	})

	t.Run("a student is marked present at most once", func(t *testing.T) {
		f := setupClasses(t)
		g := f.newGroup(t)
		s, err := f.sessions.Save(f.ctx, &entity.TrainingSession{
			TrainingGroupID: g.ID, Date: time.Now(),
		})
		require.NoError(t, err)
		_, err = f.assistances.Save(f.ctx, &entity.Assistance{
			StudentID: f.student.ID, TrainingSessionID: s.ID,
		})
		require.NoError(t, err)

		_, err = f.assistances.Save(f.ctx, &entity.Assistance{
			StudentID: f.student.ID, TrainingSessionID: s.ID,
		})

		assert.ErrorIs(t, err, apperrors.ErrDuplicateEntity)
	})

	t.Run("unknown session", func(t *testing.T) {
		f := setupClasses(t)

		_, err := f.assistances.Save(f.ctx, &entity.Assistance{
			StudentID: f.student.ID, TrainingSessionID: 9999,
		})

		assert.ErrorIs(t, err, apperrors.ErrEntityNotFound)
	})
}
