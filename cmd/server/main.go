package main

import (
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"memberflow_backend/internal/app/router"
	authhandler "memberflow_backend/internal/feature/auth/transport/handler"
	authusecase "memberflow_backend/internal/feature/auth/usecase"
	classadapters "memberflow_backend/internal/feature/classes/adapters"
	classhandler "memberflow_backend/internal/feature/classes/transport/handler"
	classusecase "memberflow_backend/internal/feature/classes/usecase"
	financeadapters "memberflow_backend/internal/feature/finance/adapters"
	financehandler "memberflow_backend/internal/feature/finance/transport/handler"
	financeusecase "memberflow_backend/internal/feature/finance/usecase"
	usersadapters "memberflow_backend/internal/feature/users/adapters"
	usershandler "memberflow_backend/internal/feature/users/transport/handler"
	usersusecase "memberflow_backend/internal/feature/users/usecase"
	"memberflow_backend/internal/platform/db"
	jwtmw "memberflow_backend/internal/platform/jwt"
	platformredis "memberflow_backend/internal/platform/redis"
	"memberflow_backend/internal/platform/session"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using process environment")
	}

	conn := db.OpenDB()
	tx := db.NewTransactor(conn)

	var rdb *redisv9.Client
	if tmp, err := platformredis.NewClient(); err != nil {
		log.Fatal("redis is required for refresh sessions: ", err)
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close redis client", "error", err)
			}
		}()
	}

	// Stores
	userStore := usersadapters.NewUserGorm(conn)
	roleStore := usersadapters.NewRoleGorm(conn)
	permissionStore := usersadapters.NewPermissionGorm(conn)
	studentStore := usersadapters.NewStudentGorm(conn)
	teacherStore := usersadapters.NewTeacherGorm(conn)
	adminStore := usersadapters.NewAdminGorm(conn)
	historyStore := usersadapters.NewStudentHistoryGorm(conn)
	notificationStore := usersadapters.NewNotificationGorm(conn)

	membershipStore := classadapters.NewMembershipGorm(conn)
	groupStore := classadapters.NewTrainingGroupGorm(conn)
	sessionStore := classadapters.NewTrainingSessionGorm(conn)
	assistanceStore := classadapters.NewAssistanceGorm(conn)

	invoiceStore := financeadapters.NewInvoiceGorm(conn)
	lineStore := financeadapters.NewInvoiceLineGorm(conn)
	paymentStore := financeadapters.NewPaymentGorm(conn)
	productStore := financeadapters.NewProductServiceGorm(conn)
	ivaTypeStore := financeadapters.NewIVATypeGorm(conn)

	sessionRepo := session.NewSessionRedis(rdb, "session")

	// Usecases
	invoiceUC := financeusecase.NewInvoiceUsecase(invoiceStore, lineStore, paymentStore, userStore, tx)
	lineUC := financeusecase.NewInvoiceLineUsecase(lineStore, invoiceStore, productStore, invoiceUC, tx)
	paymentUC := financeusecase.NewPaymentUsecase(paymentStore, invoiceStore, tx)
	productUC := financeusecase.NewProductServiceUsecase(productStore, ivaTypeStore)
	ivaTypeUC := financeusecase.NewIVATypeUsecase(ivaTypeStore, productStore)

	studentUC := usersusecase.NewStudentUsecase(studentStore, membershipStore, tx)
	teacherUC := usersusecase.NewTeacherUsecase(teacherStore)
	userUC := usersusecase.NewUserUsecase(userStore, roleStore, studentUC, teacherUC, invoiceUC, tx)
	roleUC := usersusecase.NewRoleUsecase(roleStore, permissionStore)
	permissionUC := usersusecase.NewPermissionUsecase(permissionStore)
	adminUC := usersusecase.NewAdminUsecase(adminStore)
	historyUC := usersusecase.NewStudentHistoryUsecase(historyStore, studentStore)
	notificationUC := usersusecase.NewNotificationUsecase(notificationStore, userStore)

	membershipUC := classusecase.NewMembershipUsecase(membershipStore)
	groupUC := classusecase.NewTrainingGroupUsecase(groupStore, sessionStore, assistanceStore, studentStore, teacherStore, tx)
	sessionUC := classusecase.NewTrainingSessionUsecase(sessionStore, groupStore, assistanceStore, tx)
	assistanceUC := classusecase.NewAssistanceUsecase(assistanceStore, sessionStore)

	jwtGen := jwtmw.NewGenerator(os.Getenv(jwtmw.EnvKeyJWTSecret), time.Hour)
	authUC := authusecase.NewAuthUsecase(userStore, sessionRepo, jwtGen)

	// Handlers
	handlers := router.Handlers{
		Auth:          authhandler.NewAuthHandler(authUC),
		Users:         usershandler.NewUserHandler(userUC),
		Roles:         usershandler.NewRoleHandler(roleUC, permissionUC),
		Members:       usershandler.NewMemberHandler(studentUC, teacherUC, adminUC, historyUC),
		Notifications: usershandler.NewNotificationHandler(notificationUC),
		Classes:       classhandler.NewClassHandler(membershipUC, groupUC, sessionUC, assistanceUC),
		Finance:       financehandler.NewFinanceHandler(invoiceUC, lineUC, paymentUC),
		Catalog:       financehandler.NewCatalogHandler(productUC, ivaTypeUC),
	}

	r := router.NewRouter(handlers)

	if os.Getenv(jwtmw.EnvKeyJWTSecret) == "" {
		slog.Warn("JWT_SECRET is not set, set a strong secret in production")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
