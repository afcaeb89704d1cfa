package entity

import "time"

// Membership is a membership tier with its validity window. The type is
// unique: the system keeps one membership row per tier.
type Membership struct {
	ID uint `gorm:"primaryKey"`

	Type      MembershipType `gorm:"uniqueIndex;size:50;not null"`
	StartDate time.Time      `gorm:"not null"`
	EndDate   time.Time      `gorm:"not null"`
	Status    Status         `gorm:"size:20;not null"`

	// Students holds the students currently assigned this membership.
	Students []*Student `gorm:"foreignKey:MembershipID"`
}

func (m *Membership) GetID() uint { return m.ID }

// TrainingGroup is a class group run by one teacher on a weekly schedule.
// Its sessions are owned and removed with the group.
type TrainingGroup struct {
	ID uint `gorm:"primaryKey"`

	TeacherID uint     `gorm:"not null"`
	Teacher   *Teacher `gorm:"foreignKey:TeacherID"`

	Name     string    `gorm:"size:45;not null"`
	Level    string    `gorm:"size:45"`
	Schedule time.Time `gorm:"not null"`

	Sessions []*TrainingSession `gorm:"foreignKey:TrainingGroupID"`

	// Students is the owning side of the group↔student relation.
	Students []*Student `gorm:"many2many:students_groups"`
}

func (g *TrainingGroup) GetID() uint { return g.ID }

// TrainingSession is one dated occurrence of a group's class. Its assistance
// records are owned and removed with the session.
type TrainingSession struct {
	ID uint `gorm:"primaryKey"`

	TrainingGroupID uint           `gorm:"not null"`
	TrainingGroup   *TrainingGroup `gorm:"foreignKey:TrainingGroupID"`

	Date   time.Time `gorm:"not null"`
	Status Status    `gorm:"size:20;not null"`

	Assistances []*Assistance `gorm:"foreignKey:TrainingSessionID"`
}

func (s *TrainingSession) GetID() uint { return s.ID }

// Assistance is one attendance record: a student present at a session.
type Assistance struct {
	ID uint `gorm:"primaryKey"`

	StudentID uint     `gorm:"not null"`
	Student   *Student `gorm:"foreignKey:StudentID"`

	TrainingSessionID uint             `gorm:"not null"`
	TrainingSession   *TrainingSession `gorm:"foreignKey:TrainingSessionID"`

	Date time.Time `gorm:"not null"`
}

func (a *Assistance) GetID() uint { return a.ID }
