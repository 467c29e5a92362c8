package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

const (
	IncidentStatusOpen          = "open"
	IncidentStatusInvestigating = "investigating"
	IncidentStatusContained     = "contained"
	IncidentStatusEradicated    = "eradicated"
	IncidentStatusRecovered     = "recovered"
	IncidentStatusClosed        = "closed"
)

// incidentFlow is the forward order of the response lifecycle.
var incidentFlow = []string{
	IncidentStatusOpen,
	IncidentStatusInvestigating,
	IncidentStatusContained,
	IncidentStatusEradicated,
	IncidentStatusRecovered,
	IncidentStatusClosed,
}

// IncidentStatuses returns the lifecycle statuses in order.
func IncidentStatuses() []string {
	return append([]string(nil), incidentFlow...)
}

func incidentStatusIndex(status string) int {
	for i, s := range incidentFlow {
		if s == status {
			return i
		}
	}
	return -1
}

// CanTransitionIncident reports whether an incident may move from one status to another.
// Statuses only move forward, except that a closed incident can be reopened into investigating.
func CanTransitionIncident(from, to string) bool {
	fi, ti := incidentStatusIndex(from), incidentStatusIndex(to)
	if fi < 0 || ti < 0 || fi == ti {
		return false
	}
	if from == IncidentStatusClosed {
		return to == IncidentStatusInvestigating
	}
	return ti > fi
}

type Incident struct {
	ID             uuid.UUID   `json:"id"`
	OrganizationID uuid.UUID   `json:"organization_id"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Severity       string      `json:"severity"`
	Status         string      `json:"status"`
	Category       string      `json:"category"`
	AssigneeID     *uuid.UUID  `json:"assignee_id,omitempty"`
	ReportedBy     *uuid.UUID  `json:"reported_by,omitempty"`
	Tags           []string    `json:"tags"`
	AssetIDs       []uuid.UUID `json:"asset_ids"`
	DetectedAt     *time.Time  `json:"detected_at,omitempty"`
	ResolvedAt     *time.Time  `json:"resolved_at,omitempty"`
	ClosedAt       *time.Time  `json:"closed_at,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// ApplyStatus moves the incident to status, stamping resolution and closure times.
func (i *Incident) ApplyStatus(status string, now time.Time) error {
	if !CanTransitionIncident(i.Status, status) {
		return ErrInvalidTransition
	}
	if i.Status == IncidentStatusClosed {
		i.ClosedAt = nil
	}
	i.Status = status
	ri := incidentStatusIndex(IncidentStatusRecovered)
	switch idx := incidentStatusIndex(status); {
	case idx >= ri && i.ResolvedAt == nil:
		i.ResolvedAt = &now
	case idx < ri:
		i.ResolvedAt = nil
	}
	if status == IncidentStatusClosed {
		i.ClosedAt = &now
	}
	return nil
}

type IncidentFilter struct {
	Status     string
	Severity   string
	Category   string
	AssigneeID *uuid.UUID
	Tag        string
	Search     string
	PageRequest
}

type IncidentStats struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	BySeverity map[string]int `json:"by_severity"`
}
