package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleViewer    = "viewer"
	RoleResponder = "responder"
	RoleAdmin     = "admin"
	RoleOwner     = "owner"
)

var roleRank = map[string]int{
	RoleViewer:    1,
	RoleResponder: 2,
	RoleAdmin:     3,
	RoleOwner:     4,
}

// ValidRole reports whether role is one of the organization roles.
func ValidRole(role string) bool {
	_, ok := roleRank[role]
	return ok
}

// RoleAtLeast reports whether role grants at least the privileges of min.
func RoleAtLeast(role, min string) bool {
	r, ok := roleRank[role]
	if !ok {
		return false
	}
	return r >= roleRank[min]
}

type User struct {
	ID             uuid.UUID  `json:"id"`
	OrganizationID *uuid.UUID `json:"organization_id,omitempty"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	PasswordHash   string     `json:"-"`
	Role           string     `json:"role"`
	IsSystemAdmin  bool       `json:"is_system_admin"`
	Active         bool       `json:"active"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type UserFilter struct {
	Search string
	Role   string
	PageRequest
}

// UserUpdate holds the mutable user fields; nil means unchanged.
type UserUpdate struct {
	Name   *string
	Role   *string
	Active *bool
}

// Session is the result of a successful login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}
