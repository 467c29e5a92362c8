package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	ExerciseTypeTabletop   = "tabletop"
	ExerciseTypeSimulation = "simulation"
	ExerciseTypeLive       = "live"
)

const (
	ExerciseStatusPlanned    = "planned"
	ExerciseStatusInProgress = "in_progress"
	ExerciseStatusCompleted  = "completed"
	ExerciseStatusCancelled  = "cancelled"
)

// Exercise is a scheduled response drill.
type Exercise struct {
	ID             uuid.UUID   `json:"id"`
	OrganizationID uuid.UUID   `json:"organization_id"`
	Title          string      `json:"title"`
	Scenario       string      `json:"scenario"`
	Type           string      `json:"type"`
	Status         string      `json:"status"`
	RunbookID      *uuid.UUID  `json:"runbook_id,omitempty"`
	Participants   []uuid.UUID `json:"participants"`
	ScheduledAt    time.Time   `json:"scheduled_at"`
	StartedAt      *time.Time  `json:"started_at,omitempty"`
	CompletedAt    *time.Time  `json:"completed_at,omitempty"`
	Findings       string      `json:"findings"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

func (e *Exercise) Start(now time.Time) error {
	if e.Status != ExerciseStatusPlanned {
		return fmt.Errorf("cannot start %s exercise: %w", e.Status, ErrInvalidTransition)
	}
	e.Status = ExerciseStatusInProgress
	e.StartedAt = &now
	return nil
}

func (e *Exercise) Complete(findings string, now time.Time) error {
	if e.Status != ExerciseStatusInProgress {
		return fmt.Errorf("cannot complete %s exercise: %w", e.Status, ErrInvalidTransition)
	}
	e.Status = ExerciseStatusCompleted
	e.CompletedAt = &now
	e.Findings = findings
	return nil
}

func (e *Exercise) Cancel() error {
	if e.Status != ExerciseStatusPlanned && e.Status != ExerciseStatusInProgress {
		return fmt.Errorf("cannot cancel %s exercise: %w", e.Status, ErrInvalidTransition)
	}
	e.Status = ExerciseStatusCancelled
	return nil
}

type ExerciseFilter struct {
	Status string
	Type   string
	PageRequest
}
