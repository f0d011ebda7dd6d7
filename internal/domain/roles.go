package domain

// StaffRole is a role carried in a staff token
type StaffRole string

const (
	RoleAdmin  StaffRole = "admin"
	RoleStaff  StaffRole = "staff"
	RoleSystem StaffRole = "system"
)
