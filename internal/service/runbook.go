package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/irdesk/internal/models"
	"github.com/sirupsen/logrus"
)

// RunbookRepository persists runbooks and their executions.
type RunbookRepository interface {
	Create(ctx context.Context, runbook *models.Runbook) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Runbook, error)
	Update(ctx context.Context, runbook *models.Runbook) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	List(ctx context.Context, orgID uuid.UUID, filter models.RunbookFilter) ([]*models.Runbook, int, error)

	CreateExecution(ctx context.Context, execution *models.RunbookExecution) error
	GetExecution(ctx context.Context, orgID, id uuid.UUID) (*models.RunbookExecution, error)
	UpdateExecution(ctx context.Context, execution *models.RunbookExecution) error
	ListExecutions(ctx context.Context, orgID, runbookID uuid.UUID) ([]*models.RunbookExecution, error)
}

// RunbookService manages runbooks and tracks their execution step by step.
type RunbookService interface {
	CreateRunbook(ctx context.Context, orgID uuid.UUID, runbook *models.Runbook) error
	GetRunbook(ctx context.Context, orgID, id uuid.UUID) (*models.Runbook, error)
	ListRunbooks(ctx context.Context, orgID uuid.UUID, filter models.RunbookFilter) (models.Page[*models.Runbook], error)
	UpdateRunbook(ctx context.Context, orgID uuid.UUID, runbook *models.Runbook) (*models.Runbook, error)
	DeleteRunbook(ctx context.Context, orgID, id uuid.UUID) error

	StartExecution(ctx context.Context, orgID, runbookID uuid.UUID, incidentID *uuid.UUID) (*models.RunbookExecution, error)
	GetExecution(ctx context.Context, orgID, id uuid.UUID) (*models.RunbookExecution, error)
	ListExecutions(ctx context.Context, orgID, runbookID uuid.UUID) ([]*models.RunbookExecution, error)
	CompleteStep(ctx context.Context, orgID, executionID uuid.UUID, stepID, notes string) (*models.RunbookExecution, error)
	SkipStep(ctx context.Context, orgID, executionID uuid.UUID, stepID, notes string) (*models.RunbookExecution, error)
	PauseExecution(ctx context.Context, orgID, executionID uuid.UUID) (*models.RunbookExecution, error)
	ResumeExecution(ctx context.Context, orgID, executionID uuid.UUID) (*models.RunbookExecution, error)
	AbortExecution(ctx context.Context, orgID, executionID uuid.UUID) (*models.RunbookExecution, error)
}

type runbookService struct {
	repo      RunbookRepository
	incidents IncidentRepository
	licenses  LicenseService
	audit     AuditService
	logger    *logrus.Logger
	now       Clock
}

func NewRunbookService(repo RunbookRepository, incidents IncidentRepository, licenses LicenseService, audit AuditService, logger *logrus.Logger) RunbookService {
	return &runbookService{
		repo:      repo,
		incidents: incidents,
		licenses:  licenses,
		audit:     audit,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *runbookService) CreateRunbook(ctx context.Context, orgID uuid.UUID, runbook *models.Runbook) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":         "runbook",
		"method":          "CreateRunbook",
		"organization_id": orgID,
		"name":            runbook.Name,
	})
	log.Info("Attempting to create a new runbook")

	if err := s.licenses.CheckLimit(ctx, orgID, models.ResourceRunbooks); err != nil {
		log.WithError(err).Warn("Runbook limit check failed")
		return err
	}
	if err := runbook.NormalizeSteps(); err != nil {
		log.WithError(err).Warn("Invalid runbook steps")
		return fmt.Errorf("service: invalid runbook: %w", err)
	}
	runbook.OrganizationID = orgID
	runbook.CreatedBy = actorID(ctx)

	if err := s.repo.Create(ctx, runbook); err != nil {
		logFailure(log, err, "Failed to create runbook in repository")
		return fmt.Errorf("service: could not create runbook: %w", err)
	}

	s.audit.Record(ctx, &models.AuditLog{
		OrganizationID: orgPtr(orgID),
		Action:         "runbook.create",
		ResourceType:   "runbook",
		ResourceID:     runbook.ID.String(),
		Metadata:       map[string]any{"name": runbook.Name, "steps": len(runbook.Steps)},
	})
	log.WithField("runbook_id", runbook.ID).Info("Runbook created successfully")
	return nil
}

func (s *runbookService) GetRunbook(ctx context.Context, orgID, id uuid.UUID) (*models.Runbook, error) {
	runbook, err := s.repo.GetByID(ctx, orgID, id)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"service":    "runbook",
			"method":     "GetRunbook",
			"runbook_id": id,
		}).WithError(err).Warn("Failed to get runbook from repository")
		return nil, fmt.Errorf("service: could not get runbook: %w", err)
	}
	return runbook, nil
}

func (s *runbookService) ListRunbooks(ctx context.Context, orgID uuid.UUID, filter models.RunbookFilter) (models.Page[*models.Runbook], error) {
	filter.PageRequest = filter.PageRequest.Normalize()
	runbooks, total, err := s.repo.List(ctx, orgID, filter)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"service": "runbook",
			"method":  "ListRunbooks",
		}).WithError(err).Error("Failed to list runbooks from repository")
		return models.Page[*models.Runbook]{}, fmt.Errorf("service: could not list runbooks: %w", err)
	}
	return models.NewPage(runbooks, total, filter.PageRequest), nil
}

// UpdateRunbook replaces the runbook definition. Running executions keep the
// steps they were started with.
func (s *runbookService) UpdateRunbook(ctx context.Context, orgID uuid.UUID, runbook *models.Runbook) (*models.Runbook, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":    "runbook",
		"method":     "UpdateRunbook",
		"runbook_id": runbook.ID,
	})
	log.Info("Attempting to update runbook")

	existing, err := s.repo.GetByID(ctx, orgID, runbook.ID)
	if err != nil {
		log.WithError(err).Warn("Attempted to update a non-existent runbook")
		return nil, fmt.Errorf("service: runbook with id %s not found for update: %w", runbook.ID, err)
	}
	existing.Name = runbook.Name
	existing.Description = runbook.Description
	existing.IncidentCategory = runbook.IncidentCategory
	existing.Steps = runbook.Steps
	if err := existing.NormalizeSteps(); err != nil {
		log.WithError(err).Warn("Invalid runbook steps")
		return nil, fmt.Errorf("service: invalid runbook: %w", err)
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		logFailure(log, err, "Failed to update runbook in repository")
		return nil, fmt.Errorf("service: could not update runbook: %w", err)
	}

	s.audit.Record(ctx, &models.AuditLog{
		OrganizationID: orgPtr(orgID),
		Action:         "runbook.update",
		ResourceType:   "runbook",
		ResourceID:     existing.ID.String(),
	})
	log.Info("Runbook updated successfully")
	return existing, nil
}

func (s *runbookService) DeleteRunbook(ctx context.Context, orgID, id uuid.UUID) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":    "runbook",
		"method":     "DeleteRunbook",
		"runbook_id": id,
	})
	if err := s.repo.Delete(ctx, orgID, id); err != nil {
		logFailure(log, err, "Failed to delete runbook in repository")
		return fmt.Errorf("service: could not delete runbook: %w", err)
	}

	s.audit.Record(ctx, &models.AuditLog{
		OrganizationID: orgPtr(orgID),
		Action:         "runbook.delete",
		ResourceType:   "runbook",
		ResourceID:     id.String(),
	})
	log.Info("Runbook deleted successfully")
	return nil
}

// StartExecution snapshots the runbook steps into a new running execution.
func (s *runbookService) StartExecution(ctx context.Context, orgID, runbookID uuid.UUID, incidentID *uuid.UUID) (*models.RunbookExecution, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":    "runbook",
		"method":     "StartExecution",
		"runbook_id": runbookID,
	})
	log.Info("Attempting to start runbook execution")

	runbook, err := s.GetRunbook(ctx, orgID, runbookID)
	if err != nil {
		return nil, err
	}
	if len(runbook.Steps) == 0 {
		log.Warn("Refusing to execute a runbook without steps")
		return nil, fmt.Errorf("service: runbook has no steps: %w", models.ErrValidation)
	}
	if incidentID != nil {
		if _, err := s.incidents.GetByID(ctx, orgID, *incidentID); err != nil {
			log.WithError(err).Warn("Execution references an unknown incident")
			return nil, fmt.Errorf("service: could not get incident: %w", err)
		}
	}

	execution := models.NewRunbookExecution(runbook, incidentID, actorID(ctx), s.now().UTC())
	if err := s.repo.CreateExecution(ctx, execution); err != nil {
		logFailure(log, err, "Failed to create runbook execution in repository")
		return nil, fmt.Errorf("service: could not start runbook execution: %w", err)
	}

	meta := map[string]any{"runbook_id": runbookID.String()}
	if incidentID != nil {
		meta["incident_id"] = incidentID.String()
	}
	s.audit.Record(ctx, &models.AuditLog{
		OrganizationID: orgPtr(orgID),
		Action:         "runbook_execution.start",
		ResourceType:   "runbook_execution",
		ResourceID:     execution.ID.String(),
		Metadata:       meta,
	})
	log.WithField("execution_id", execution.ID).Info("Runbook execution started")
	return execution, nil
}

func (s *runbookService) GetExecution(ctx context.Context, orgID, id uuid.UUID) (*models.RunbookExecution, error) {
	execution, err := s.repo.GetExecution(ctx, orgID, id)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"service":      "runbook",
			"method":       "GetExecution",
			"execution_id": id,
		}).WithError(err).Warn("Failed to get runbook execution from repository")
		return nil, fmt.Errorf("service: could not get runbook execution: %w", err)
	}
	return execution, nil
}

func (s *runbookService) ListExecutions(ctx context.Context, orgID, runbookID uuid.UUID) ([]*models.RunbookExecution, error) {
	if _, err := s.GetRunbook(ctx, orgID, runbookID); err != nil {
		return nil, err
	}
	executions, err := s.repo.ListExecutions(ctx, orgID, runbookID)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"service":    "runbook",
			"method":     "ListExecutions",
			"runbook_id": runbookID,
		}).WithError(err).Error("Failed to list runbook executions from repository")
		return nil, fmt.Errorf("service: could not list runbook executions: %w", err)
	}
	return executions, nil
}

func (s *runbookService) CompleteStep(ctx context.Context, orgID, executionID uuid.UUID, stepID, notes string) (*models.RunbookExecution, error) {
	return s.mutate(ctx, orgID, executionID, "complete_step", map[string]any{"step_id": stepID},
		func(e *models.RunbookExecution, now time.Time) error {
			return e.CompleteStep(stepID, actorID(ctx), notes, false, now)
		})
}

func (s *runbookService) SkipStep(ctx context.Context, orgID, executionID uuid.UUID, stepID, notes string) (*models.RunbookExecution, error) {
	return s.mutate(ctx, orgID, executionID, "skip_step", map[string]any{"step_id": stepID},
		func(e *models.RunbookExecution, now time.Time) error {
			return e.CompleteStep(stepID, actorID(ctx), notes, true, now)
		})
}

func (s *runbookService) PauseExecution(ctx context.Context, orgID, executionID uuid.UUID) (*models.RunbookExecution, error) {
	return s.mutate(ctx, orgID, executionID, "pause", nil, (*models.RunbookExecution).Pause)
}

func (s *runbookService) ResumeExecution(ctx context.Context, orgID, executionID uuid.UUID) (*models.RunbookExecution, error) {
	return s.mutate(ctx, orgID, executionID, "resume", nil, (*models.RunbookExecution).Resume)
}

func (s *runbookService) AbortExecution(ctx context.Context, orgID, executionID uuid.UUID) (*models.RunbookExecution, error) {
	return s.mutate(ctx, orgID, executionID, "abort", nil, (*models.RunbookExecution).Abort)
}

// mutate loads an execution, applies one state change and stores it. The change
// is replayed on a fresh copy when another writer got there first.
func (s *runbookService) mutate(
	ctx context.Context,
	orgID, executionID uuid.UUID,
	verb string,
	meta map[string]any,
	apply func(*models.RunbookExecution, time.Time) error,
) (*models.RunbookExecution, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":      "runbook",
		"method":       "mutate",
		"action":       verb,
		"execution_id": executionID,
	})

	var (
		execution *models.RunbookExecution
		previous  string
		now       time.Time
	)
	err := retryStale(log, func() error {
		var err error
		execution, err = s.GetExecution(ctx, orgID, executionID)
		if err != nil {
			return err
		}
		previous = execution.Status
		now = s.now().UTC()
		if err := apply(execution, now); err != nil {
			log.WithError(err).Warn("Rejected runbook execution change")
			return fmt.Errorf("service: could not %s runbook execution: %w", verb, err)
		}
		if err := s.repo.UpdateExecution(ctx, execution); err != nil {
			logFailure(log, err, "Failed to update runbook execution in repository")
			return fmt.Errorf("service: could not update runbook execution: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if meta == nil {
		meta = map[string]any{}
	}
	meta["status"] = execution.Status
	s.audit.Record(ctx, &models.AuditLog{
		OrganizationID: orgPtr(orgID),
		Action:         "runbook_execution." + verb,
		ResourceType:   "runbook_execution",
		ResourceID:     execution.ID.String(),
		Metadata:       meta,
	})
	if previous != models.ExecutionStatusCompleted && execution.Status == models.ExecutionStatusCompleted {
		s.audit.Record(ctx, &models.AuditLog{
			OrganizationID: orgPtr(orgID),
			Action:         "runbook_execution.complete",
			ResourceType:   "runbook_execution",
			ResourceID:     execution.ID.String(),
			Metadata:       map[string]any{"elapsed_seconds": int64(execution.Elapsed(now) / time.Second)},
		})
	}
	log.WithField("status", execution.Status).Info("Runbook execution updated")
	return execution, nil
}
