package models

import "time"

// UserRole represents the roles known to the admission API.
type UserRole string

const (
	RoleStudent    UserRole = "student"
	RoleAdmin      UserRole = "admin"
	RoleStaff      UserRole = "staff"
	RoleSuperAdmin UserRole = "super_admin"
)

// Roles lists every assignable role.
var Roles = []UserRole{RoleStudent, RoleAdmin, RoleStaff, RoleSuperAdmin}

// IsAdministrator reports whether the role may use the console.
func (r UserRole) IsAdministrator() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// User is an account of the admission system.
type User struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Role        UserRole   `json:"role"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// LoginRequest carries console credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned by POST /auth/login.
type LoginResponse struct {
	Data struct {
		User  User   `json:"user"`
		Token string `json:"token"`
	} `json:"data"`
}

// SessionStatus summarises the persisted session for the renderer.
type SessionStatus struct {
	Authenticated bool  `json:"authenticated"`
	IsAdmin       bool  `json:"is_admin"`
	TokenExpired  bool  `json:"token_expired"`
	User          *User `json:"user,omitempty"`
}
