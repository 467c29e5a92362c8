package models

import (
	"time"

	"github.com/google/uuid"
)

// Tag is an organization-scoped label for incidents and assets.
type Tag struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Name           string    `json:"name"`
	Color          string    `json:"color"`
	CreatedAt      time.Time `json:"created_at"`
}
