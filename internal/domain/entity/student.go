package entity

import "time"

// Student is the member specialization of a User. It carries the gym-specific
// progress data and links the student to membership, groups, attendance and
// history records.
type Student struct {
	ID uint `gorm:"primaryKey"`

	// UserID references the backing account, exactly one student per user.
	UserID uint  `gorm:"uniqueIndex;not null"`
	User   *User `gorm:"foreignKey:UserID"`

	// DNI is the national identity document number, unique per student.
	DNI string `gorm:"column:dni;uniqueIndex;size:10;not null"`

	Birthdate     time.Time `gorm:"not null"`
	Belt          string    `gorm:"size:20"`
	Progress      string    `gorm:"type:text"`
	MedicalReport string    `gorm:"size:500"`
	ParentName    string    `gorm:"size:50"`

	// MembershipID is nil while the student has no membership assigned.
	MembershipID *uint
	Membership   *Membership `gorm:"foreignKey:MembershipID"`

	Histories   []*StudentHistory `gorm:"foreignKey:StudentID"`
	Assistances []*Assistance     `gorm:"foreignKey:StudentID"`

	// TrainingGroups is the inverse side of the group↔student relation.
	TrainingGroups []*TrainingGroup `gorm:"many2many:students_groups"`
}

func (s *Student) GetID() uint { return s.ID }

// StudentHistory is one dated event in a student's record (promotions,
// injuries, notes).
type StudentHistory struct {
	ID        uint     `gorm:"primaryKey"`
	StudentID uint     `gorm:"not null"`
	Student   *Student `gorm:"foreignKey:StudentID"`

	EventDate   time.Time
	EventType   string `gorm:"size:100"`
	Description string `gorm:"size:255"`
}

func (h *StudentHistory) GetID() uint { return h.ID }

// Teacher is the instructor specialization of a User.
type Teacher struct {
	ID uint `gorm:"primaryKey"`

	UserID uint  `gorm:"uniqueIndex;not null"`
	User   *User `gorm:"foreignKey:UserID"`

	Discipline string `gorm:"size:50"`

	// TrainingGroups are the groups this teacher runs. A teacher cannot be
	// deleted while any remain.
	TrainingGroups []*TrainingGroup `gorm:"foreignKey:TeacherID"`
}

func (t *Teacher) GetID() uint { return t.ID }

// Admin is the administrator specialization of a User.
type Admin struct {
	ID uint `gorm:"primaryKey"`

	UserID uint  `gorm:"uniqueIndex;not null"`
	User   *User `gorm:"foreignKey:UserID"`
}

func (a *Admin) GetID() uint { return a.ID }
