package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
	RoleAdmin   UserRole = "admin"
)

// Valid reports whether the role is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// University identifies one of the two affiliated universities. Opportunities
// may additionally target UniversityAll.
type University string

const (
	UniversityAKTU University = "aktu"
	UniversityLU   University = "lu"
	UniversityAll  University = "all"
)

// ValidScope reports whether the value names a concrete university.
func (u University) ValidScope() bool {
	return u == UniversityAKTU || u == UniversityLU
}

// User represents an application user stored in the users table. University is
// nil for teachers and admins.
type User struct {
	ID           string      `db:"id" json:"id"`
	Name         string      `db:"name" json:"name"`
	Email        string      `db:"email" json:"email"`
	PasswordHash string      `db:"password_hash" json:"-"`
	Role         UserRole    `db:"role" json:"role"`
	University   *University `db:"university" json:"university,omitempty"`
	IsApproved   bool        `db:"is_approved" json:"is_approved"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
}

// UserFilter captures filtering criteria for the admin user listing.
type UserFilter struct {
	Role       *UserRole
	IsApproved *bool
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
