// Package db opens the GORM connection, runs migrations and provides the
// scoped-transaction support shared by every store.
package db

import (
	"context"
	"fmt"
	"log"
	"os"

	gmysql "gorm.io/driver/mysql"
	gpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"memberflow_backend/internal/domain/entity"
)

// OpenDB connects to the configured database and migrates the schema.
// DB_DRIVER selects mysql (default) or postgres.
func OpenDB() *gorm.DB {
	driver := os.Getenv("DB_DRIVER")
	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASSWORD")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	name := os.Getenv("DB_NAME")

	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			host, user, pass, name, port)
		dialector = gpostgres.Open(dsn)
	default:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
			user, pass, host, port, name)
		dialector = gmysql.Open(dsn)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	if err := Migrate(conn); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	return conn
}

// Migrate creates or updates the schema for the full entity set.
func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&entity.Role{},
		&entity.Permission{},
		&entity.User{},
		&entity.Membership{},
		&entity.Student{},
		&entity.StudentHistory{},
		&entity.Teacher{},
		&entity.Admin{},
		&entity.TrainingGroup{},
		&entity.TrainingSession{},
		&entity.Assistance{},
		&entity.Notification{},
		&entity.IVAType{},
		&entity.ProductService{},
		&entity.Invoice{},
		&entity.InvoiceLine{},
		&entity.Payment{},
	)
}

type txKey struct{}

// WithTx returns a context carrying the given transaction handle.
func WithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// FromContext returns the transaction handle carried by ctx, or fallback when
// the call is not running inside a transaction.
func FromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback
}

// Transactor runs a function inside one atomic unit of work. Stores pick the
// transaction handle out of the context, so every store call made within fn
// joins the same transaction and rolls back together on error.
type Transactor struct {
	db *gorm.DB
}

// NewTransactor creates a Transactor over the given connection.
func NewTransactor(conn *gorm.DB) *Transactor {
	return &Transactor{db: conn}
}

// Transact executes fn within a database transaction. Any error returned by
// fn rolls the whole unit of work back.
func (t *Transactor) Transact(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(WithTx(ctx, tx))
	})
}
