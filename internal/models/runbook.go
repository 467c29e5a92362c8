package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	PhaseDetection    = "detection"
	PhaseContainment  = "containment"
	PhaseEradication  = "eradication"
	PhaseRecovery     = "recovery"
	PhasePostIncident = "post_incident"
)

var phaseOrder = []string{PhaseDetection, PhaseContainment, PhaseEradication, PhaseRecovery, PhasePostIncident}

// Phases returns the response phases in execution order.
func Phases() []string {
	return append([]string(nil), phaseOrder...)
}

func phaseIndex(phase string) int {
	for i, p := range phaseOrder {
		if p == phase {
			return i
		}
	}
	return -1
}

type RunbookStep struct {
	ID               string `json:"id"`
	Phase            string `json:"phase"`
	Order            int    `json:"order"`
	Title            string `json:"title"`
	Instructions     string `json:"instructions"`
	EstimatedMinutes int    `json:"estimated_minutes"`
}

type Runbook struct {
	ID               uuid.UUID     `json:"id"`
	OrganizationID   uuid.UUID     `json:"organization_id"`
	Name             string        `json:"name"`
	Description      string        `json:"description"`
	IncidentCategory string        `json:"incident_category"`
	Steps            []RunbookStep `json:"steps"`
	CreatedBy        *uuid.UUID    `json:"created_by,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// NormalizeSteps validates phases, assigns missing step ids and sorts the steps
// by phase and then by their declared order. Orders are renumbered from 1 within a phase.
func (r *Runbook) NormalizeSteps() error {
	seen := make(map[string]struct{}, len(r.Steps))
	for i := range r.Steps {
		s := &r.Steps[i]
		s.Phase = strings.TrimSpace(s.Phase)
		if phaseIndex(s.Phase) < 0 {
			return fmt.Errorf("step %q has unknown phase %q: %w", s.Title, s.Phase, ErrValidation)
		}
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("duplicate step id %q: %w", s.ID, ErrValidation)
		}
		seen[s.ID] = struct{}{}
	}
	sort.SliceStable(r.Steps, func(a, b int) bool {
		pa, pb := phaseIndex(r.Steps[a].Phase), phaseIndex(r.Steps[b].Phase)
		if pa != pb {
			return pa < pb
		}
		return r.Steps[a].Order < r.Steps[b].Order
	})
	n := 0
	for i := range r.Steps {
		if i == 0 || r.Steps[i].Phase != r.Steps[i-1].Phase {
			n = 0
		}
		n++
		r.Steps[i].Order = n
	}
	return nil
}

type RunbookFilter struct {
	IncidentCategory string
	Search           string
	PageRequest
}

const (
	ExecutionStatusRunning   = "running"
	ExecutionStatusPaused    = "paused"
	ExecutionStatusCompleted = "completed"
	ExecutionStatusAborted   = "aborted"
)

// StepProgress records what happened to one runbook step during an execution.
type StepProgress struct {
	StepID      string     `json:"step_id"`
	Phase       string     `json:"phase"`
	Title       string     `json:"title"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CompletedBy *uuid.UUID `json:"completed_by,omitempty"`
	Skipped     bool       `json:"skipped"`
	Notes       string     `json:"notes,omitempty"`
}

func (p StepProgress) Done() bool {
	return p.CompletedAt != nil
}

// RunbookExecution tracks a run of a runbook against an incident.
// PausedMillis accumulates finished pauses; an ongoing pause is measured from PausedAt.
type RunbookExecution struct {
	ID             uuid.UUID      `json:"id"`
	OrganizationID uuid.UUID      `json:"organization_id"`
	RunbookID      uuid.UUID      `json:"runbook_id"`
	IncidentID     *uuid.UUID     `json:"incident_id,omitempty"`
	StartedBy      *uuid.UUID     `json:"started_by,omitempty"`
	Status         string         `json:"status"`
	Steps          []StepProgress `json:"steps"`
	StartedAt      time.Time      `json:"started_at"`
	PausedAt       *time.Time     `json:"paused_at,omitempty"`
	PausedMillis   int64          `json:"paused_millis"`
	FinishedAt     *time.Time     `json:"finished_at,omitempty"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// NewRunbookExecution snapshots the runbook steps into a running execution.
func NewRunbookExecution(rb *Runbook, incidentID, startedBy *uuid.UUID, now time.Time) *RunbookExecution {
	steps := make([]StepProgress, len(rb.Steps))
	for i, s := range rb.Steps {
		steps[i] = StepProgress{StepID: s.ID, Phase: s.Phase, Title: s.Title}
	}
	return &RunbookExecution{
		OrganizationID: rb.OrganizationID,
		RunbookID:      rb.ID,
		IncidentID:     incidentID,
		StartedBy:      startedBy,
		Status:         ExecutionStatusRunning,
		Steps:          steps,
		StartedAt:      now,
	}
}

func (e *RunbookExecution) finished() bool {
	return e.Status == ExecutionStatusCompleted || e.Status == ExecutionStatusAborted
}

func (e *RunbookExecution) Pause(now time.Time) error {
	if e.Status != ExecutionStatusRunning {
		return fmt.Errorf("cannot pause %s execution: %w", e.Status, ErrInvalidState)
	}
	e.Status = ExecutionStatusPaused
	e.PausedAt = &now
	return nil
}

func (e *RunbookExecution) Resume(now time.Time) error {
	if e.Status != ExecutionStatusPaused {
		return fmt.Errorf("cannot resume %s execution: %w", e.Status, ErrInvalidState)
	}
	e.closePause(now)
	e.Status = ExecutionStatusRunning
	return nil
}

func (e *RunbookExecution) Abort(now time.Time) error {
	if e.finished() {
		return fmt.Errorf("cannot abort %s execution: %w", e.Status, ErrInvalidState)
	}
	e.closePause(now)
	e.Status = ExecutionStatusAborted
	e.FinishedAt = &now
	return nil
}

func (e *RunbookExecution) closePause(now time.Time) {
	if e.PausedAt == nil {
		return
	}
	if d := now.Sub(*e.PausedAt); d > 0 {
		e.PausedMillis += d.Milliseconds()
	}
	e.PausedAt = nil
}

// CompleteStep marks a pending step done, or skipped. The execution completes
// once no pending steps remain.
func (e *RunbookExecution) CompleteStep(stepID string, by *uuid.UUID, notes string, skipped bool, now time.Time) error {
	if e.Status != ExecutionStatusRunning {
		return fmt.Errorf("cannot update steps of %s execution: %w", e.Status, ErrInvalidState)
	}
	idx := -1
	for i := range e.Steps {
		if e.Steps[i].StepID == stepID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("step %s: %w", stepID, ErrNotFound)
	}
	step := &e.Steps[idx]
	if step.Done() {
		return fmt.Errorf("step %s already finished: %w", stepID, ErrInvalidState)
	}
	step.CompletedAt = &now
	step.CompletedBy = by
	step.Notes = notes
	step.Skipped = skipped

	for _, s := range e.Steps {
		if !s.Done() {
			return nil
		}
	}
	e.Status = ExecutionStatusCompleted
	e.FinishedAt = &now
	return nil
}

// Elapsed is the active run time, excluding pauses.
func (e *RunbookExecution) Elapsed(now time.Time) time.Duration {
	end := now
	if e.FinishedAt != nil {
		end = *e.FinishedAt
	}
	paused := time.Duration(e.PausedMillis) * time.Millisecond
	if e.PausedAt != nil && end.After(*e.PausedAt) {
		paused += end.Sub(*e.PausedAt)
	}
	d := end.Sub(e.StartedAt) - paused
	if d < 0 {
		return 0
	}
	return d
}

type PhaseProgress struct {
	Phase     string         `json:"phase"`
	Total     int            `json:"total"`
	Completed int            `json:"completed"`
	Skipped   int            `json:"skipped"`
	Steps     []StepProgress `json:"steps"`
}

type ExecutionProgress struct {
	Phases         []PhaseProgress `json:"phases"`
	CurrentPhase   string          `json:"current_phase,omitempty"`
	TotalSteps     int             `json:"total_steps"`
	DoneSteps      int             `json:"done_steps"`
	Percent        int             `json:"percent"`
	ElapsedSeconds int64           `json:"elapsed_seconds"`
}

// Progress groups steps by phase. Phases without steps are omitted. The current
// phase is the first one that still has pending steps.
func (e *RunbookExecution) Progress(now time.Time) ExecutionProgress {
	var out ExecutionProgress
	for _, phase := range phaseOrder {
		pp := PhaseProgress{Phase: phase}
		for _, s := range e.Steps {
			if s.Phase != phase {
				continue
			}
			pp.Total++
			pp.Steps = append(pp.Steps, s)
			if s.Done() {
				out.DoneSteps++
				if s.Skipped {
					pp.Skipped++
				} else {
					pp.Completed++
				}
			}
		}
		if pp.Total == 0 {
			continue
		}
		if out.CurrentPhase == "" && pp.Completed+pp.Skipped < pp.Total {
			out.CurrentPhase = phase
		}
		out.TotalSteps += pp.Total
		out.Phases = append(out.Phases, pp)
	}
	if out.TotalSteps > 0 {
		out.Percent = out.DoneSteps * 100 / out.TotalSteps
	}
	out.ElapsedSeconds = int64(e.Elapsed(now) / time.Second)
	return out
}
