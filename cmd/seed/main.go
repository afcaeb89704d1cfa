// Command seed loads the baseline reference data a fresh deployment needs:
// the role and permission sets, the membership tiers, the VAT rates and an
// initial administrator account. With SEED_DEMO set it also loads a small
// demo data set for local development.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"memberflow_backend/internal/domain/entity"
	usersadapters "memberflow_backend/internal/feature/users/adapters"
	"memberflow_backend/internal/platform/db"
	"memberflow_backend/internal/shared/apperrors"

	classadapters "memberflow_backend/internal/feature/classes/adapters"
	financeadapters "memberflow_backend/internal/feature/finance/adapters"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using process environment")
	}

	conn := db.OpenDB()
	ctx := context.Background()

	roleStore := usersadapters.NewRoleGorm(conn)
	permissionStore := usersadapters.NewPermissionGorm(conn)
	userStore := usersadapters.NewUserGorm(conn)
	membershipStore := classadapters.NewMembershipGorm(conn)
	ivaTypeStore := financeadapters.NewIVATypeGorm(conn)

	permissions := map[entity.PermissionName]*entity.Permission{}
	for _, name := range []entity.PermissionName{
		entity.PermissionFullAccess,
		entity.PermissionManageStudents,
		entity.PermissionViewOwnData,
	} {
		p := &entity.Permission{Name: name}
		exists, err := permissionStore.ExistsByName(ctx, name)
		if err != nil {
			log.Fatal(err)
		}
		if exists {
			if p, err = permissionStore.FindByName(ctx, name); err != nil {
				log.Fatal(err)
			}
		} else if err := permissionStore.Create(ctx, p); err != nil {
			log.Fatal(err)
		}
		permissions[name] = p
	}

	roles := map[string][]entity.PermissionName{
		"ADMIN":   {entity.PermissionFullAccess},
		"TEACHER": {entity.PermissionManageStudents, entity.PermissionViewOwnData},
		"STUDENT": {entity.PermissionViewOwnData},
	}
	for name, grants := range roles {
		exists, err := roleStore.ExistsByName(ctx, name)
		if err != nil {
			log.Fatal(err)
		}
		if exists {
			continue
		}
		role := &entity.Role{Name: name}
		for _, g := range grants {
			role.Permissions = append(role.Permissions, permissions[g])
		}
		if err := roleStore.Create(ctx, role); err != nil {
			log.Fatal(err)
		}
		slog.Info("seeded role", "name", name)
	}

	now := time.Now()
	for _, t := range []entity.MembershipType{
		entity.MembershipBasic,
		entity.MembershipAdvanced,
		entity.MembershipPremium,
		entity.MembershipNoLimit,
	} {
		exists, err := membershipStore.ExistsByType(ctx, t)
		if err != nil {
			log.Fatal(err)
		}
		if exists {
			continue
		}
		m := &entity.Membership{
			Type:      t,
			StartDate: now,
			EndDate:   now.AddDate(1, 0, 0),
			Status:    entity.StatusActive,
		}
		if err := membershipStore.Create(ctx, m); err != nil {
			log.Fatal(err)
		}
		slog.Info("seeded membership", "type", t)
	}

	for _, rate := range []entity.IVAType{
		{Percentage: 0, Description: "Exempt"},
		{Percentage: 10, Description: "Reduced"},
		{Percentage: 21, Description: "General"},
	} {
		exists, err := ivaTypeStore.ExistsByPercentage(ctx, rate.Percentage)
		if err != nil {
			log.Fatal(err)
		}
		if exists {
			continue
		}
		r := rate
		if err := ivaTypeStore.Create(ctx, &r); err != nil {
			log.Fatal(err)
		}
		slog.Info("seeded vat rate", "percentage", rate.Percentage)
	}

	seedAdmin(ctx, userStore, roleStore)

	if os.Getenv("SEED_DEMO") != "" {
		seedDemo(ctx, conn)
	}
}

// seedDemo loads a small demo data set: a teacher and a student with their
// profiles, a training group with a month of weekly sessions, a catalog item
// and a first invoice. Skipped entirely when the demo accounts already exist.
func seedDemo(ctx context.Context, conn *gorm.DB) {
	userStore := usersadapters.NewUserGorm(conn)
	roleStore := usersadapters.NewRoleGorm(conn)
	studentStore := usersadapters.NewStudentGorm(conn)
	teacherStore := usersadapters.NewTeacherGorm(conn)
	membershipStore := classadapters.NewMembershipGorm(conn)
	groupStore := classadapters.NewTrainingGroupGorm(conn)
	sessionStore := classadapters.NewTrainingSessionGorm(conn)
	productStore := financeadapters.NewProductServiceGorm(conn)
	ivaTypeStore := financeadapters.NewIVATypeGorm(conn)
	invoiceStore := financeadapters.NewInvoiceGorm(conn)

	const teacherEmail = "teacher@memberflow.local"
	const studentEmail = "student@memberflow.local"

	if _, err := userStore.FindByEmail(ctx, teacherEmail); err == nil {
		slog.Info("demo data already present")
		return
	} else if !errors.Is(err, apperrors.ErrEntityNotFound) {
		log.Fatal(err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("changeme"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}

	teacherRole, err := roleStore.FindByName(ctx, "TEACHER")
	if err != nil {
		log.Fatal(err)
	}
	teacherUser := &entity.User{
		Name: "Demo", Surname: "Teacher", Email: teacherEmail,
		Password: string(hashed), Status: entity.StatusActive,
		RegisterDate: time.Now(), RoleID: teacherRole.ID,
	}
	if err := userStore.Create(ctx, teacherUser); err != nil {
		log.Fatal(err)
	}
	teacher := &entity.Teacher{UserID: teacherUser.ID, Discipline: "Karate"}
	if err := teacherStore.Create(ctx, teacher); err != nil {
		log.Fatal(err)
	}

	studentRole, err := roleStore.FindByName(ctx, "STUDENT")
	if err != nil {
		log.Fatal(err)
	}
	studentUser := &entity.User{
		Name: "Demo", Surname: "Student", Email: studentEmail,
		Password: string(hashed), Status: entity.StatusActive,
		RegisterDate: time.Now(), RoleID: studentRole.ID,
	}
	if err := userStore.Create(ctx, studentUser); err != nil {
		log.Fatal(err)
	}
	basic, err := membershipStore.FindByType(ctx, entity.MembershipBasic)
	if err != nil {
		log.Fatal(err)
	}
	student := &entity.Student{
		UserID: studentUser.ID, DNI: "00000000X",
		Birthdate:    time.Date(2010, 1, 15, 0, 0, 0, 0, time.UTC),
		Belt:         "White",
		MembershipID: &basic.ID,
	}
	if err := studentStore.Create(ctx, student); err != nil {
		log.Fatal(err)
	}

	schedule := time.Now().AddDate(0, 0, 7).Truncate(time.Hour)
	group := &entity.TrainingGroup{
		TeacherID: teacher.ID, Name: "Karate beginners",
		Level: "Beginner", Schedule: schedule,
	}
	if err := groupStore.Create(ctx, group); err != nil {
		log.Fatal(err)
	}
	if err := groupStore.AppendStudent(ctx, group, student); err != nil {
		log.Fatal(err)
	}
	sessions := make([]*entity.TrainingSession, 0, 4)
	for i := 0; i < 4; i++ {
		sessions = append(sessions, &entity.TrainingSession{
			TrainingGroupID: group.ID,
			Date:            schedule.AddDate(0, 0, 7*i),
			Status:          entity.StatusActive,
		})
	}
	if err := sessionStore.CreateBatch(ctx, sessions); err != nil {
		log.Fatal(err)
	}

	var general *entity.IVAType
	rates, err := ivaTypeStore.FindAll(ctx)
	if err != nil {
		log.Fatal(err)
	}
	for _, r := range rates {
		if r.Percentage == 21 {
			general = r
			break
		}
	}
	if general == nil {
		log.Fatal("vat rate 21% missing, run the baseline seed first")
	}
	product := &entity.ProductService{
		IVATypeID: general.ID, Name: "Monthly fee",
		Description: "Monthly training fee", Price: 39.90,
		Type: "SERVICE", Status: entity.StatusActive,
	}
	if err := productStore.Create(ctx, product); err != nil {
		log.Fatal(err)
	}

	invoice := &entity.Invoice{
		UserID: studentUser.ID,
		Date:   time.Now(),
		Total:  39.90,
		Status: entity.StatusNotPaid,
		Lines: []*entity.InvoiceLine{{
			ProductServiceID: product.ID,
			Description:      product.Name,
			Quantity:         1,
			UnitPrice:        product.Price,
			Subtotal:         product.Price,
		}},
	}
	if err := invoiceStore.Create(ctx, invoice); err != nil {
		log.Fatal(err)
	}

	slog.Info("seeded demo data",
		"teacher", teacherEmail, "student", studentEmail,
		"group", group.Name, "sessions", len(sessions), "invoice_id", invoice.ID)
}

// seedAdmin creates the initial administrator from ADMIN_EMAIL and
// ADMIN_PASSWORD, skipping when the account already exists.
func seedAdmin(ctx context.Context, userStore *usersadapters.UserGorm, roleStore *usersadapters.RoleGorm) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		slog.Warn("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin account")
		return
	}

	if _, err := userStore.FindByEmail(ctx, email); err == nil {
		slog.Info("admin account already exists", "email", email)
		return
	} else if !errors.Is(err, apperrors.ErrEntityNotFound) {
		log.Fatal(err)
	}

	role, err := roleStore.FindByName(ctx, "ADMIN")
	if err != nil {
		log.Fatal(err)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}
	admin := &entity.User{
		Name:         "Admin",
		Surname:      "Admin",
		Email:        email,
		Password:     string(hashed),
		Status:       entity.StatusActive,
		RegisterDate: time.Now(),
		RoleID:       role.ID,
	}
	if err := userStore.Create(ctx, admin); err != nil {
		log.Fatal(err)
	}
	slog.Info("seeded admin account", "email", email)
}
