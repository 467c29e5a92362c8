package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type DropdownOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Dropdown is a named, ordered list of selectable options owned by an organization.
type Dropdown struct {
	ID             uuid.UUID        `json:"id"`
	OrganizationID uuid.UUID        `json:"organization_id"`
	Key            string           `json:"key"`
	Label          string           `json:"label"`
	Options        []DropdownOption `json:"options"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// NormalizeOptions trims options, fills empty labels with the value and rejects
// empty or duplicate values. Order is preserved.
func NormalizeOptions(options []DropdownOption) ([]DropdownOption, error) {
	seen := make(map[string]struct{}, len(options))
	out := make([]DropdownOption, 0, len(options))
	for i, opt := range options {
		opt.Value = strings.TrimSpace(opt.Value)
		opt.Label = strings.TrimSpace(opt.Label)
		if opt.Value == "" {
			return nil, fmt.Errorf("option %d has an empty value: %w", i, ErrValidation)
		}
		if _, dup := seen[opt.Value]; dup {
			return nil, fmt.Errorf("duplicate option value %q: %w", opt.Value, ErrValidation)
		}
		seen[opt.Value] = struct{}{}
		if opt.Label == "" {
			opt.Label = opt.Value
		}
		out = append(out, opt)
	}
	return out, nil
}

// DefaultDropdowns are seeded into every new organization.
func DefaultDropdowns() []Dropdown {
	return []Dropdown{
		{
			Key:   "incident_category",
			Label: "Incident category",
			Options: []DropdownOption{
				{Value: "malware", Label: "Malware"},
				{Value: "phishing", Label: "Phishing"},
				{Value: "data_breach", Label: "Data breach"},
				{Value: "unauthorized_access", Label: "Unauthorized access"},
				{Value: "denial_of_service", Label: "Denial of service"},
				{Value: "other", Label: "Other"},
			},
		},
		{
			Key:   "asset_type",
			Label: "Asset type",
			Options: []DropdownOption{
				{Value: AssetTypeServer, Label: "Server"},
				{Value: AssetTypeWorkstation, Label: "Workstation"},
				{Value: AssetTypeNetwork, Label: "Network device"},
				{Value: AssetTypeApplication, Label: "Application"},
				{Value: AssetTypeDatabase, Label: "Database"},
				{Value: AssetTypeCloud, Label: "Cloud resource"},
				{Value: AssetTypeOther, Label: "Other"},
			},
		},
		{
			Key:   "communication_channel",
			Label: "Communication channel",
			Options: []DropdownOption{
				{Value: "email", Label: "Email"},
				{Value: "sms", Label: "SMS"},
				{Value: "slack", Label: "Slack"},
				{Value: "status_page", Label: "Status page"},
			},
		},
	}
}
