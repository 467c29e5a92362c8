package v1

import (
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/irdesk/internal/models"
)

// LoginRequest DTO for password login
// @Description DTO for password login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// IncidentRequest DTO for creating and updating an incident
// @Description DTO for creating and updating an incident
type IncidentRequest struct {
	Title       string      `json:"title" validate:"required,min=3,max=255"`
	Description string      `json:"description,omitempty"`
	Severity    string      `json:"severity" validate:"required,oneof=low medium high critical"`
	Category    string      `json:"category,omitempty" validate:"max=100"`
	AssigneeID  *uuid.UUID  `json:"assignee_id,omitempty"`
	Tags        []string    `json:"tags,omitempty" validate:"max=20,dive,min=1,max=50"`
	AssetIDs    []uuid.UUID `json:"asset_ids,omitempty"`
	DetectedAt  *time.Time  `json:"detected_at,omitempty"`
}

// IncidentStatusRequest DTO for moving an incident through its lifecycle
// @Description DTO for moving an incident through its lifecycle
type IncidentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=open investigating contained eradicated recovered closed"`
}

// AssetRequest DTO for creating and updating an asset
// @Description DTO for creating and updating an asset
type AssetRequest struct {
	Name        string   `json:"name" validate:"required,min=2,max=255"`
	Type        string   `json:"type" validate:"required,oneof=server workstation network application database cloud other"`
	Criticality string   `json:"criticality,omitempty" validate:"omitempty,oneof=low medium high critical"`
	Owner       string   `json:"owner,omitempty" validate:"max=255"`
	Hostname    string   `json:"hostname,omitempty" validate:"omitempty,hostname_rfc1123"`
	IPAddress   string   `json:"ip_address,omitempty" validate:"omitempty,ip"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty" validate:"max=20,dive,min=1,max=50"`
}

// UpdateOrganizationRequest DTO for tenant settings
// @Description DTO for tenant settings
type UpdateOrganizationRequest struct {
	Name         string `json:"name" validate:"required,min=2,max=255"`
	ContactEmail string `json:"contact_email,omitempty" validate:"omitempty,email"`
}

// CreateUserRequest DTO for inviting a user into the organization
// @Description DTO for inviting a user into the organization
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,max=255"`
	Role     string `json:"role" validate:"required,oneof=viewer responder admin owner"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// UpdateUserRequest DTO for a partial user update
// @Description DTO for a partial user update
type UpdateUserRequest struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Role   *string `json:"role,omitempty" validate:"omitempty,oneof=viewer responder admin owner"`
	Active *bool   `json:"active,omitempty"`
}

// ResetPasswordRequest DTO for an administrative password reset
// @Description DTO for an administrative password reset
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// TagRequest DTO for creating and updating a tag
// @Description DTO for creating and updating a tag
type TagRequest struct {
	Name  string `json:"name" validate:"required,max=50"`
	Color string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

type DropdownOptionRequest struct {
	Value string `json:"value" validate:"required,max=100"`
	Label string `json:"label,omitempty" validate:"max=255"`
}

// DropdownRequest DTO replacing the options of a dropdown
// @Description DTO replacing the options of a dropdown
type DropdownRequest struct {
	Label   string                  `json:"label,omitempty" validate:"max=255"`
	Options []DropdownOptionRequest `json:"options" validate:"required,dive"`
}

// TemplateRequest DTO for creating and updating a communication template
// @Description DTO for creating and updating a communication template
type TemplateRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Category string `json:"category" validate:"required,oneof=notification status_update executive regulatory customer"`
	Subject  string `json:"subject" validate:"max=255"`
	Body     string `json:"body" validate:"required"`
}

// PreviewRequest DTO selecting the data a template is rendered with
// @Description DTO selecting the data a template is rendered with
type PreviewRequest struct {
	IncidentID *uuid.UUID        `json:"incident_id,omitempty"`
	Variables  map[string]string `json:"variables,omitempty"`
}

// SendCommunicationRequest DTO for sending a rendered template
// @Description DTO for sending a rendered template
type SendCommunicationRequest struct {
	TemplateID uuid.UUID         `json:"template_id" validate:"required"`
	IncidentID *uuid.UUID        `json:"incident_id,omitempty"`
	Channel    string            `json:"channel" validate:"required,max=50"`
	Recipients []string          `json:"recipients" validate:"required,min=1,dive,required,max=320"`
	Variables  map[string]string `json:"variables,omitempty"`
}

// SendCommunicationResponse DTO returned once a communication is queued
// @Description DTO returned once a communication is queued
type SendCommunicationResponse struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

type RunbookStepRequest struct {
	ID               string `json:"id,omitempty" validate:"max=64"`
	Phase            string `json:"phase" validate:"required,oneof=detection containment eradication recovery post_incident"`
	Order            int    `json:"order" validate:"gte=0"`
	Title            string `json:"title" validate:"required,max=255"`
	Instructions     string `json:"instructions,omitempty"`
	EstimatedMinutes int    `json:"estimated_minutes,omitempty" validate:"gte=0"`
}

// RunbookRequest DTO for creating and updating a runbook
// @Description DTO for creating and updating a runbook
type RunbookRequest struct {
	Name             string               `json:"name" validate:"required,min=2,max=255"`
	Description      string               `json:"description,omitempty"`
	IncidentCategory string               `json:"incident_category,omitempty" validate:"max=100"`
	Steps            []RunbookStepRequest `json:"steps" validate:"dive"`
}

// StartExecutionRequest DTO for starting a runbook execution
// @Description DTO for starting a runbook execution
type StartExecutionRequest struct {
	IncidentID *uuid.UUID `json:"incident_id,omitempty"`
}

// StepActionRequest DTO for completing or skipping a step
// @Description DTO for completing or skipping a step
type StepActionRequest struct {
	Notes string `json:"notes,omitempty" validate:"max=2000"`
}

// ExecutionResponse DTO of an execution with its phase progress
// @Description DTO of an execution with its phase progress
type ExecutionResponse struct {
	*models.RunbookExecution
	Progress models.ExecutionProgress `json:"progress"`
}

// ExerciseRequest DTO for creating and updating an exercise
// @Description DTO for creating and updating an exercise
type ExerciseRequest struct {
	Title        string      `json:"title" validate:"required,min=2,max=255"`
	Scenario     string      `json:"scenario,omitempty"`
	Type         string      `json:"type" validate:"required,oneof=tabletop simulation live"`
	RunbookID    *uuid.UUID  `json:"runbook_id,omitempty"`
	Participants []uuid.UUID `json:"participants,omitempty"`
	ScheduledAt  time.Time   `json:"scheduled_at" validate:"required"`
}

// CompleteExerciseRequest DTO recording the findings of an exercise
// @Description DTO recording the findings of an exercise
type CompleteExerciseRequest struct {
	Findings string `json:"findings,omitempty"`
}

// ProvisionOrganizationRequest DTO for provisioning a tenant
// @Description DTO for provisioning a tenant
type ProvisionOrganizationRequest struct {
	Name          string `json:"name" validate:"required,min=2,max=255"`
	Slug          string `json:"slug" validate:"required,max=63,slug"`
	ContactEmail  string `json:"contact_email,omitempty" validate:"omitempty,email"`
	Plan          string `json:"plan,omitempty" validate:"omitempty,oneof=trial standard enterprise"`
	AdminEmail    string `json:"admin_email" validate:"required,email"`
	AdminName     string `json:"admin_name" validate:"required,max=255"`
	AdminPassword string `json:"admin_password" validate:"required,min=8,max=72"`
}

// OrganizationStatusRequest DTO for suspending or reactivating a tenant
// @Description DTO for suspending or reactivating a tenant
type OrganizationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active suspended"`
}

// UpdateLicenseRequest DTO for a partial license update
// @Description DTO for a partial license update
type UpdateLicenseRequest struct {
	Plan        *string    `json:"plan,omitempty" validate:"omitempty,oneof=trial standard enterprise"`
	MaxUsers    *int       `json:"max_users,omitempty" validate:"omitempty,gte=0"`
	MaxAssets   *int       `json:"max_assets,omitempty" validate:"omitempty,gte=0"`
	MaxRunbooks *int       `json:"max_runbooks,omitempty" validate:"omitempty,gte=0"`
	Features    []string   `json:"features,omitempty" validate:"omitempty,dive,oneof=exercises api_access"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}
