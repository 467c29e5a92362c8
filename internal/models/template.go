package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	TemplateCategoryNotification = "notification"
	TemplateCategoryStatusUpdate = "status_update"
	TemplateCategoryExecutive    = "executive"
	TemplateCategoryRegulatory   = "regulatory"
	TemplateCategoryCustomer     = "customer"
)

// Template is a reusable communication with {{namespace.field}} placeholders.
type Template struct {
	ID             uuid.UUID  `json:"id"`
	OrganizationID uuid.UUID  `json:"organization_id"`
	Name           string     `json:"name"`
	Category       string     `json:"category"`
	Subject        string     `json:"subject"`
	Body           string     `json:"body"`
	Variables      []string   `json:"variables"`
	CreatedBy      *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type TemplateFilter struct {
	Category string
	Search   string
	PageRequest
}

// RenderRequest selects the data a template is rendered against.
type RenderRequest struct {
	IncidentID *uuid.UUID
	Variables  map[string]string
}

type RenderedTemplate struct {
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
	Missing []string `json:"missing"`
}

// SendRequest asks for a template to be rendered and delivered.
type SendRequest struct {
	TemplateID uuid.UUID
	IncidentID *uuid.UUID
	Channel    string
	Recipients []string
	Variables  map[string]string
}
