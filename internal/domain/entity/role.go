package entity

// Role groups permissions under a unique name (ADMIN, TEACHER, STUDENT).
type Role struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;size:45;not null"`

	// Permissions is the owning side of the role↔permission relation.
	Permissions []*Permission `gorm:"many2many:roles_permissions"`
}

func (r *Role) GetID() uint { return r.ID }

// Permission is a grantable capability, unique per name.
type Permission struct {
	ID   uint           `gorm:"primaryKey"`
	Name PermissionName `gorm:"uniqueIndex;size:45;not null"`

	// Roles is the inverse side of the role↔permission relation.
	Roles []*Role `gorm:"many2many:roles_permissions"`
}

func (p *Permission) GetID() uint { return p.ID }
