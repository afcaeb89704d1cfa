package entity

// Status is the lifecycle status shared by users, invoices, sessions,
// notifications, memberships and catalog products.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusInactive  Status = "INACTIVE"
	StatusSuspended Status = "SUSPENDED"
	StatusDeleted   Status = "DELETED"
	StatusPaid      Status = "PAID"
	StatusNotPaid   Status = "NOT_PAID"
	StatusSent      Status = "SENT"
	StatusNotSent   Status = "NOT_SENT"
	StatusPending   Status = "PENDING"
)

// MembershipType identifies a membership tier. At most one membership row
// exists per type.
type MembershipType string

const (
	MembershipBasic    MembershipType = "BASIC"
	MembershipAdvanced MembershipType = "ADVANCED"
	MembershipPremium  MembershipType = "PREMIUM"
	MembershipNoLimit  MembershipType = "NO_LIMIT"
)

// PaymentMethod identifies how a payment was made.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "CASH"
	PaymentCreditCard   PaymentMethod = "CREDIT_CARD"
	PaymentBankTransfer PaymentMethod = "BANK_TRANSFER"
)

// PermissionName identifies a grantable permission.
type PermissionName string

const (
	PermissionFullAccess     PermissionName = "FULL_ACCESS"
	PermissionManageStudents PermissionName = "MANAGE_STUDENTS"
	PermissionViewOwnData    PermissionName = "VIEW_OWN_DATA"
)
