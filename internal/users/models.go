// Package users manages accounts, credentials and login tokens.
package users

import (
	"pragati/internal/auth"
	"pragati/internal/docstore"
)

// User is an account. The username doubles as the record reference, so the
// shared store gives uniqueness and name lookup for free.
type User struct {
	docstore.Meta
	Username     string `json:"username" validate:"required,min=3,max=64"`
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty" validate:"omitempty,email"`
	Phone        string `json:"phone,omitempty"`
	District     string `json:"district,omitempty"`
	Role         string `json:"role,omitempty" validate:"omitempty,oneof=L1_MASTER_ADMIN L2_EXEC_ADMIN L3_CITIZEN"`
	Active       bool   `json:"isActive"`
	PasswordHash string `json:"passwordHash,omitempty"`
}

// Ref returns the username.
func (u *User) Ref() string { return u.Username }

// Sanitized returns a copy safe to put on the wire.
func (u *User) Sanitized() *User {
	c := *u
	c.PasswordHash = ""
	return &c
}

// IsAdmin reports whether the user holds either admin role.
func (u *User) IsAdmin() bool {
	return u.Role == auth.RoleMasterAdmin || u.Role == auth.RoleExecAdmin
}
