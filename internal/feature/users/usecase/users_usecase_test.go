package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"memberflow_backend/internal/domain/entity"
	classadapters "memberflow_backend/internal/feature/classes/adapters"
	financeadapters "memberflow_backend/internal/feature/finance/adapters"
	financeuc "memberflow_backend/internal/feature/finance/usecase"
	"memberflow_backend/internal/feature/users/adapters"
	"memberflow_backend/internal/platform/db"
	"memberflow_backend/internal/shared/apperrors"
)

type usersFixture struct {
	ctx  context.Context
	conn *gorm.DB

	users         *UserUsecase
	roles         *RoleUsecase
	permissions   *PermissionUsecase
	students      *StudentUsecase
	teachers      *TeacherUsecase
	notifications *NotificationUsecase
	histories     *StudentHistoryUsecase
	invoices      *financeuc.InvoiceUsecase
	payments      *financeuc.PaymentUsecase

	role *entity.Role
}

// setupUsers wires the user management feature on an in-memory database the
// same way the server does, finance teardown included.
func setupUsers(t *testing.T) *usersFixture {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))

	userStore := adapters.NewUserGorm(conn)
	roleStore := adapters.NewRoleGorm(conn)
	permStore := adapters.NewPermissionGorm(conn)
	studentStore := adapters.NewStudentGorm(conn)
	teacherStore := adapters.NewTeacherGorm(conn)
	historyStore := adapters.NewStudentHistoryGorm(conn)
	notificationStore := adapters.NewNotificationGorm(conn)
	membershipStore := classadapters.NewMembershipGorm(conn)
	invoiceStore := financeadapters.NewInvoiceGorm(conn)
	lineStore := financeadapters.NewInvoiceLineGorm(conn)
	paymentStore := financeadapters.NewPaymentGorm(conn)
	tx := db.NewTransactor(conn)

	f := &usersFixture{
		ctx:           context.Background(),
		conn:          conn,
		roles:         NewRoleUsecase(roleStore, permStore),
		permissions:   NewPermissionUsecase(permStore),
		students:      NewStudentUsecase(studentStore, membershipStore, tx),
		teachers:      NewTeacherUsecase(teacherStore),
		histories:     NewStudentHistoryUsecase(historyStore, studentStore),
		invoices:      financeuc.NewInvoiceUsecase(invoiceStore, lineStore, paymentStore, userStore, tx),
		payments:      financeuc.NewPaymentUsecase(paymentStore, invoiceStore, tx),
	}
	f.notifications = NewNotificationUsecase(notificationStore, userStore)
	f.users = NewUserUsecase(userStore, roleStore, f.students, f.teachers, f.invoices, tx)

	f.role = &entity.Role{Name: "STUDENT"}
	require.NoError(t, conn.Create(f.role).Error)

	return f
}

func (f *usersFixture) newUser(t *testing.T, email string) *entity.User {
	t.Helper()
	u, err := f.users.Save(f.ctx, &entity.User{
		Name: "Ana", Surname: "Perez", Email: email,
		Password: "secret123", RoleID: f.role.ID,
	})
	require.NoError(t, err)
	return u
}

func TestUserUsecase_Save(t *testing.T) {
	t.Run("hashes the password and applies defaults", func(t *testing.T) {
		f := setupUsers(t)

		u := f.newUser(t, "ana@example.com")

		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("secret123")))
		assert.Equal(t, entity.StatusActive, u.Status)
		assert.False(t, u.RegisterDate.IsZero())
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := setupUsers(t)
		f.newUser(t, "ana@example.com")

		_, err := f.users.Save(f.ctx, &entity.User{
			Name: "Other", Surname: "Person", Email: "ana@example.com",
			Password: "secret123", RoleID: f.role.ID,
		})

		assert.ErrorIs(t, err, apperrors.ErrDuplicateEntity)
	})

	t.Run("validation", func(t *testing.T) {
		f := setupUsers(t)

		_, err := f.users.Save(f.ctx, &entity.User{Name: "Ana", Email: "ana@example.com", RoleID: f.role.ID})
		assert.ErrorIs(t, err, apperrors.ErrInvalidData) // no password

		_, err = f.users.Save(f.ctx, &entity.User{Name: "Ana", Email: "not-an-email", Password: "x", RoleID: f.role.ID})
		assert.ErrorIs(t, err, apperrors.ErrInvalidData)
	})
}

func TestUserUsecase_AssignRole(t *testing.T) {
	f := setupUsers(t)
	admin := &entity.Role{Name: "ADMIN"}
	require.NoError(t, f.conn.Create(admin).Error)
	u := f.newUser(t, "ana@example.com")

	t.Run("replaces the role", func(t *testing.T) {
		got, err := f.users.AssignRole(f.ctx, u.ID, "ADMIN")

		require.NoError(t, err)
		assert.Equal(t, admin.ID, got.RoleID)
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := f.users.AssignRole(f.ctx, u.ID, "JANITOR")

		assert.ErrorIs(t, err, apperrors.ErrEntityNotFound)
	})
}

func TestUserUsecase_DeleteByID(t *testing.T) {
	f := setupUsers(t)
	u := f.newUser(t, "ana@example.com")

	s, err := f.students.Save(f.ctx, &entity.Student{
		UserID: u.ID, DNI: "11111111B",
		Birthdate: time.Date(2008, 3, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	_, err = f.histories.Save(f.ctx, &entity.StudentHistory{
		StudentID: s.ID, EventType: "PROMOTION", Description: "Yellow belt",
	})
	require.NoError(t, err)

	inv, err := f.invoices.Save(f.ctx, &entity.Invoice{
		UserID: u.ID,
		Lines:  []*entity.InvoiceLine{{ProductServiceID: 1, Quantity: 1, UnitPrice: 30}},
	})
	require.NoError(t, err)
	_, err = f.payments.Save(f.ctx, &entity.Payment{
		InvoiceID: inv.ID, Amount: 30, PaymentMethod: entity.PaymentCash,
	})
	require.NoError(t, err)

	n, err := f.notifications.Save(f.ctx, &entity.Notification{Title: "Welcome", Message: "Hello"})
	require.NoError(t, err)
	_, err = f.notifications.AddNotificationToUser(f.ctx, n.ID, u.ID)
	require.NoError(t, err)

	require.NoError(t, f.users.DeleteByID(f.ctx, u.ID))

	_, err = f.users.FindByID(f.ctx, u.ID)
	assert.ErrorIs(t, err, apperrors.ErrEntityNotFound)
	_, err = f.students.FindByID(f.ctx, s.ID)
	assert.ErrorIs(t, err, apperrors.ErrEntityNotFound)

	var histories int64
	require.NoError(t, f.conn.Model(&entity.StudentHistory{}).Count(&histories).Error)
	assert.Zero(t, histories)

	invoices, err := f.invoices.FindAllByUserID(f.ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, invoices)
	var payments int64
	require.NoError(t, f.conn.Model(&entity.Payment{}).Count(&payments).Error)
	assert.Zero(t, payments)

	// the notification itself survives, only the delivery link goes
	got, err := f.notifications.FindByID(f.ctx, n.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Users)
}

func TestRoleUsecase_Permissions(t *testing.T) {
	setup := func(t *testing.T) (*usersFixture, *entity.Role, *entity.Permission) {
		f := setupUsers(t)
		r, err := f.roles.Save(f.ctx, &entity.Role{Name: "COACH"})
		require.NoError(t, err)
		p, err := f.permissions.Save(f.ctx, &entity.Permission{Name: entity.PermissionManageStudents})
		require.NoError(t, err)
		return f, r, p
	}

	t.Run("link and unlink", func(t *testing.T) {
		f, r, p := setup(t)

		r, err := f.roles.AddPermissionToRole(f.ctx, r.ID, p.ID)
		require.NoError(t, err)
		require.Len(t, r.Permissions, 1)

		r, err = f.roles.RemovePermissionFromRole(f.ctx, r.ID, p.ID)
		require.NoError(t, err)
		assert.Empty(t, r.Permissions)
	})

	t.Run("linking twice is not an error", func(t *testing.T) {
		f, r, p := setup(t)
		_, err := f.roles.AddPermissionToRole(f.ctx, r.ID, p.ID)
		require.NoError(t, err)

		r, err = f.roles.AddPermissionToRole(f.ctx, r.ID, p.ID)

		require.NoError(t, err)
		assert.Len(t, r.Permissions, 1)
	})

	t.Run("unlinking an unassigned permission is not an error", func(t *testing.T) {
		f, r, p := setup(t)

		r, err := f.roles.RemovePermissionFromRole(f.ctx, r.ID, p.ID)

		require.NoError(t, err)
		assert.Empty(t, r.Permissions)
	})

	t.Run("unknown permission", func(t *testing.T) {
		f, r, _ := setup(t)

		_, err := f.roles.AddPermissionToRole(f.ctx, r.ID, 9999)

		assert.ErrorIs(t, err, apperrors.ErrEntityNotFound)
	})

	t.Run("duplicate role name", func(t *testing.T) {
		f, _, _ := setup(t)

		_, err := f.roles.Save(f.ctx, &entity.Role{Name: "COACH"})

		assert.ErrorIs(t, err, apperrors.ErrDuplicateEntity)
	})
}

func TestStudentUsecase(t *testing.T) {
	newStudent := func(t *testing.T, f *usersFixture, email, dni string) *entity.Student {
		t.Helper()
		u := f.newUser(t, email)
		s, err := f.students.Save(f.ctx, &entity.Student{
			UserID: u.ID, DNI: dni,
			Birthdate: time.Date(2009, 7, 20, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		return s
	}

	t.Run("duplicate dni", func(t *testing.T) {
		f := setupUsers(t)
		newStudent(t, f, "one@example.com", "22222222C")
		u := f.newUser(t, "two@example.com")

		_, err := f.students.Save(f.ctx, &entity.Student{
			UserID: u.ID, DNI: "22222222C",
			Birthdate: time.Date(2009, 7, 20, 0, 0, 0, 0, time.UTC),
		})

		assert.ErrorIs(t, err, apperrors.ErrDuplicateEntity)
	})

	t.Run("assign and remove membership", func(t *testing.T) {
		f := setupUsers(t)
		s := newStudent(t, f, "ana@example.com", "33333333D")
		m := &entity.Membership{
			Type:      entity.MembershipBasic,
			StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
			Status:    entity.StatusActive,
		}
		require.NoError(t, f.conn.Create(m).Error)

		s, err := f.students.AssignMembership(f.ctx, s.ID, m.ID)
		require.NoError(t, err)
		require.NotNil(t, s.MembershipID)
		assert.Equal(t, m.ID, *s.MembershipID)

		s, err = f.students.RemoveMembership(f.ctx, s.ID)
		require.NoError(t, err)
		assert.Nil(t, s.MembershipID)
	})

	t.Run("removing an absent membership is not an error", func(t *testing.T) {
		f := setupUsers(t)
		s := newStudent(t, f, "ana@example.com", "44444444E")

		got, err := f.students.RemoveMembership(f.ctx, s.ID)

		require.NoError(t, err)
		assert.Nil(t, got.MembershipID)
	})

	t.Run("unknown membership", func(t *testing.T) {
		f := setupUsers(t)
		s := newStudent(t, f, "ana@example.com", "55555555F")

		_, err := f.students.AssignMembership(f.ctx, s.ID, 9999)

		assert.ErrorIs(t, err, apperrors.ErrEntityNotFound)
	})
}

func TestTeacherUsecase_DeleteByID(t *testing.T) {
	f := setupUsers(t)
	u := f.newUser(t, "coach@example.com")
	teacher, err := f.teachers.Save(f.ctx, &entity.Teacher{UserID: u.ID, Discipline: "Judo"})
	require.NoError(t, err)
	group := &entity.TrainingGroup{
		TeacherID: teacher.ID, Name: "Judo adults",
		Schedule: time.Date(2026, 1, 8, 19, 0, 0, 0, time.UTC),
	}
	require.NoError(t, f.conn.Create(group).Error)

	err = f.teachers.DeleteByID(f.ctx, teacher.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidData)

	require.NoError(t, f.conn.Delete(group).Error)
	assert.NoError(t, f.teachers.DeleteByID(f.ctx, teacher.ID))
}

func TestNotificationUsecase(t *testing.T) {
	t.Run("save defaults", func(t *testing.T) {
		f := setupUsers(t)

		n, err := f.notifications.Save(f.ctx, &entity.Notification{Title: "Closed", Message: "Holiday"})

		require.NoError(t, err)
		assert.Equal(t, entity.StatusNotSent, n.Status)
		assert.False(t, n.ShippingDate.IsZero())
	})

	t.Run("delivering twice is not an error", func(t *testing.T) {
		f := setupUsers(t)
		u := f.newUser(t, "ana@example.com")
		n, err := f.notifications.Save(f.ctx, &entity.Notification{Title: "Hi", Message: "There"})
		require.NoError(t, err)
		_, err = f.notifications.AddNotificationToUser(f.ctx, n.ID, u.ID)
		require.NoError(t, err)

		n, err = f.notifications.AddNotificationToUser(f.ctx, n.ID, u.ID)

		require.NoError(t, err)
		assert.Len(t, n.Users, 1)
	})

	t.Run("delete unlinks its recipients", func(t *testing.T) {
		f := setupUsers(t)
		u := f.newUser(t, "ana@example.com")
		n, err := f.notifications.Save(f.ctx, &entity.Notification{Title: "Hi", Message: "There"})
		require.NoError(t, err)
		_, err = f.notifications.AddNotificationToUser(f.ctx, n.ID, u.ID)
		require.NoError(t, err)

		require.NoError(t, f.notifications.DeleteByID(f.ctx, n.ID))

		inbox, err := f.notifications.FindAllByUserID(f.ctx, u.ID)
		require.NoError(t, err)
		assert.Empty(t, inbox)
		// the recipient account is untouched
		_, err = f.users.FindByID(f.ctx, u.ID)
		assert.NoError(t, err)
	})
}

func TestStudentHistoryUsecase_Save(t *testing.T) {
	t.Run("defaults the event date", func(t *testing.T) {
		f := setupUsers(t)
		u := f.newUser(t, "ana@example.com")
		s, err := f.students.Save(f.ctx, &entity.Student{
			UserID: u.ID, DNI: "66666666G",
			Birthdate: time.Date(2010, 2, 2, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)

		h, err := f.histories.Save(f.ctx, &entity.StudentHistory{
			StudentID: s.ID, EventType: "INJURY", Description: "Sprained ankle",
		})

		require.NoError(t, err)
		assert.False(t, h.EventDate.IsZero())
	})

	t.Run("unknown student", func(t *testing.T) {
		f := setupUsers(t)

		_, err := f.histories.Save(f.ctx, &entity.StudentHistory{StudentID: 9999, EventType: "NOTE"})

		assert.ErrorIs(t, err, apperrors.ErrEntityNotFound)
	})
}
