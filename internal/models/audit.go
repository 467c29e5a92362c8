package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	AuditCategoryAuth          = "auth"
	AuditCategoryIncident      = "incident"
	AuditCategoryAsset         = "asset"
	AuditCategoryRunbook       = "runbook"
	AuditCategoryExercise      = "exercise"
	AuditCategoryCommunication = "communication"
	AuditCategoryTemplate      = "template"
	AuditCategoryUser          = "user"
	AuditCategoryOrganization  = "organization"
	AuditCategoryLicense       = "license"
	AuditCategoryTag           = "tag"
	AuditCategoryDropdown      = "dropdown"
	AuditCategorySystem        = "system"
	AuditCategoryOther         = "other"
)

var auditCategories = map[string]string{
	"auth":              AuditCategoryAuth,
	"incident":          AuditCategoryIncident,
	"asset":             AuditCategoryAsset,
	"runbook":           AuditCategoryRunbook,
	"runbook_execution": AuditCategoryRunbook,
	"exercise":          AuditCategoryExercise,
	"communication":     AuditCategoryCommunication,
	"template":          AuditCategoryTemplate,
	"user":              AuditCategoryUser,
	"organization":      AuditCategoryOrganization,
	"license":           AuditCategoryLicense,
	"tag":               AuditCategoryTag,
	"dropdown":          AuditCategoryDropdown,
	"system":            AuditCategorySystem,
}

// AuditCategoryFor derives the category from the "resource.verb" action name.
func AuditCategoryFor(action string) string {
	prefix, _, _ := strings.Cut(action, ".")
	if c, ok := auditCategories[prefix]; ok {
		return c
	}
	return AuditCategoryOther
}

// AuditLog is an immutable record of a security relevant action.
type AuditLog struct {
	ID             int64          `json:"id"`
	OrganizationID *uuid.UUID     `json:"organization_id,omitempty"`
	ActorID        *uuid.UUID     `json:"actor_id,omitempty"`
	ActorEmail     string         `json:"actor_email"`
	Action         string         `json:"action"`
	Category       string         `json:"category"`
	ResourceType   string         `json:"resource_type"`
	ResourceID     string         `json:"resource_id"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	IPAddress      string         `json:"ip_address"`
	UserAgent      string         `json:"user_agent"`
	CreatedAt      time.Time      `json:"created_at"`
}

type AuditFilter struct {
	OrganizationID *uuid.UUID
	Category       string
	Action         string
	ActorID        *uuid.UUID
	ResourceType   string
	From           *time.Time
	To             *time.Time
	PageRequest
}
