package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	AssetTypeServer      = "server"
	AssetTypeWorkstation = "workstation"
	AssetTypeNetwork     = "network"
	AssetTypeApplication = "application"
	AssetTypeDatabase    = "database"
	AssetTypeCloud       = "cloud"
	AssetTypeOther       = "other"
)

type Asset struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Name           string    `json:"name"`
	Type           string    `json:"type"`
	Criticality    string    `json:"criticality"`
	Owner          string    `json:"owner"`
	Hostname       string    `json:"hostname"`
	IPAddress      string    `json:"ip_address"`
	Description    string    `json:"description"`
	Tags           []string  `json:"tags"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type AssetFilter struct {
	Type        string
	Criticality string
	Search      string
	PageRequest
}
