// Package entity defines the persisted domain model. The member, class and
// finance aggregates reference each other freely, so all entities live in one
// package.
package entity

import "time"

// User represents a registered account. Exactly one of Student, Teacher or
// Admin may reference it as its 1:1 specialization.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`

	Name    string `gorm:"size:50;not null"`
	Surname string `gorm:"size:50;not null"`

	// PhoneNumber is the user's contact phone.
	PhoneNumber string `gorm:"size:30"`

	// Email is used for authentication and must be unique across all users.
	Email string `gorm:"uniqueIndex;size:100;not null"`

	// Password is the bcrypt hash of the user's password.
	// Plaintext passwords are never stored.
	Password string `gorm:"size:255;not null"`

	// Status is the account lifecycle status (ACTIVE, SUSPENDED, ...).
	Status Status `gorm:"size:20;not null"`

	// RegisterDate is when the account was registered.
	RegisterDate time.Time `gorm:"not null"`

	Address string `gorm:"size:100"`

	// RoleID references the user's role. Every user has exactly one role.
	RoleID uint  `gorm:"not null"`
	Role   *Role `gorm:"foreignKey:RoleID"`

	// Notifications is the inverse side of the notification↔user relation.
	Notifications []*Notification `gorm:"many2many:notifications_users"`

	// Invoices are the invoices issued to this user.
	Invoices []*Invoice `gorm:"foreignKey:UserID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetID returns the user's identity.
func (u *User) GetID() uint { return u.ID }
