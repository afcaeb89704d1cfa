package entity

import "time"

// Notification is a message shipped to a set of users.
type Notification struct {
	ID uint `gorm:"primaryKey"`

	Title        string    `gorm:"size:200;not null"`
	Message      string    `gorm:"type:text"`
	ShippingDate time.Time `gorm:"not null"`
	Type         string    `gorm:"size:100"`
	Status       Status    `gorm:"size:50"`

	// Users is the owning side of the notification↔user relation.
	Users []*User `gorm:"many2many:notifications_users"`
}

func (n *Notification) GetID() uint { return n.ID }
