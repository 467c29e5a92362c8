package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	OrganizationStatusActive    = "active"
	OrganizationStatusSuspended = "suspended"
)

type Organization struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	ContactEmail string    `json:"contact_email"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (o *Organization) IsActive() bool {
	return o.Status == OrganizationStatusActive
}

// OrganizationFilter narrows the system-admin organization listing.
type OrganizationFilter struct {
	Search string
	Status string
	PageRequest
}

// ProvisionRequest describes a new tenant with its first owner account.
type ProvisionRequest struct {
	Name          string
	Slug          string
	ContactEmail  string
	Plan          string
	AdminEmail    string
	AdminName     string
	AdminPassword string
}

// PlatformStats summarizes the whole installation.
type PlatformStats struct {
	OrganizationsTotal  int `json:"organizations_total"`
	OrganizationsActive int `json:"organizations_active"`
	UsersTotal          int `json:"users_total"`
	IncidentsTotal      int `json:"incidents_total"`
	IncidentsOpen       int `json:"incidents_open"`
}
