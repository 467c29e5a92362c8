package models

import "github.com/google/uuid"

// Actor is the authenticated principal behind a request.
type Actor struct {
	UserID         uuid.UUID
	OrganizationID uuid.UUID
	Email          string
	Role           string
	IsSystemAdmin  bool
	IPAddress      string
	UserAgent      string
}

// HasOrganization reports whether the actor is bound to a tenant.
func (a Actor) HasOrganization() bool {
	return a.OrganizationID != uuid.Nil
}
