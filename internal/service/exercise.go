package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/irdesk/internal/models"
	"github.com/sirupsen/logrus"
)

type ExerciseRepository interface {
	Create(ctx context.Context, exercise *models.Exercise) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Exercise, error)
	Update(ctx context.Context, exercise *models.Exercise) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	List(ctx context.Context, orgID uuid.UUID, filter models.ExerciseFilter) ([]*models.Exercise, int, error)
}

// ExerciseService schedules and runs response drills. Every operation requires
// the exercises license feature.
type ExerciseService interface {
	CreateExercise(ctx context.Context, orgID uuid.UUID, exercise *models.Exercise) error
	GetExercise(ctx context.Context, orgID, id uuid.UUID) (*models.Exercise, error)
	ListExercises(ctx context.Context, orgID uuid.UUID, filter models.ExerciseFilter) (models.Page[*models.Exercise], error)
	UpdateExercise(ctx context.Context, orgID uuid.UUID, exercise *models.Exercise) (*models.Exercise, error)
	DeleteExercise(ctx context.Context, orgID, id uuid.UUID) error
	StartExercise(ctx context.Context, orgID, id uuid.UUID) (*models.Exercise, error)
	CompleteExercise(ctx context.Context, orgID, id uuid.UUID, findings string) (*models.Exercise, error)
	CancelExercise(ctx context.Context, orgID, id uuid.UUID) (*models.Exercise, error)
}

type exerciseService struct {
	repo     ExerciseRepository
	runbooks RunbookRepository
	users    UserRepository
	licenses LicenseService
	audit    AuditService
	logger   *logrus.Logger
	now      Clock
}

func NewExerciseService(
	repo ExerciseRepository,
	runbooks RunbookRepository,
	users UserRepository,
	licenses LicenseService,
	audit AuditService,
	logger *logrus.Logger,
) ExerciseService {
	return &exerciseService{
		repo:     repo,
		runbooks: runbooks,
		users:    users,
		licenses: licenses,
		audit:    audit,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *exerciseService) requireFeature(ctx context.Context, orgID uuid.UUID) error {
	return s.licenses.RequireFeature(ctx, orgID, models.FeatureExercises)
}

func (s *exerciseService) CreateExercise(ctx context.Context, orgID uuid.UUID, exercise *models.Exercise) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":         "exercise",
		"method":          "CreateExercise",
		"organization_id": orgID,
		"title":           exercise.Title,
	})
	log.Info("Attempting to create a new exercise")

	if err := s.requireFeature(ctx, orgID); err != nil {
		log.WithError(err).Warn("Exercises are not licensed")
		return err
	}
	if exercise.RunbookID != nil {
		if _, err := s.runbooks.GetByID(ctx, orgID, *exercise.RunbookID); err != nil {
			log.WithError(err).Warn("Exercise references an unknown runbook")
			return fmt.Errorf("service: could not get runbook: %w", err)
		}
	}
	if err := s.checkParticipants(ctx, orgID, exercise.Participants); err != nil {
		log.WithError(err).Warn("Exercise participants rejected")
		return err
	}
	exercise.OrganizationID = orgID
	exercise.Status = models.ExerciseStatusPlanned
	if exercise.Participants == nil {
		exercise.Participants = []uuid.UUID{}
	}

	if err := s.repo.Create(ctx, exercise); err != nil {
		logFailure(log, err, "Failed to create exercise in repository")
		return fmt.Errorf("service: could not create exercise: %w", err)
	}

	s.audit.Record(ctx, &models.AuditLog{
		OrganizationID: orgPtr(orgID),
		Action:         "exercise.create",
		ResourceType:   "exercise",
		ResourceID:     exercise.ID.String(),
		Metadata:       map[string]any{"title": exercise.Title, "type": exercise.Type},
	})
	log.WithField("exercise_id", exercise.ID).Info("Exercise created successfully")
	return nil
}

func (s *exerciseService) GetExercise(ctx context.Context, orgID, id uuid.UUID) (*models.Exercise, error) {
	if err := s.requireFeature(ctx, orgID); err != nil {
		return nil, err
	}
	exercise, err := s.repo.GetByID(ctx, orgID, id)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"service":     "exercise",
			"method":      "GetExercise",
			"exercise_id": id,
		}).WithError(err).Warn("Failed to get exercise from repository")
		return nil, fmt.Errorf("service: could not get exercise: %w", err)
	}
	return exercise, nil
}

func (s *exerciseService) ListExercises(ctx context.Context, orgID uuid.UUID, filter models.ExerciseFilter) (models.Page[*models.Exercise], error) {
	if err := s.requireFeature(ctx, orgID); err != nil {
		return models.Page[*models.Exercise]{}, err
	}
	filter.PageRequest = filter.PageRequest.Normalize()
	exercises, total, err := s.repo.List(ctx, orgID, filter)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"service": "exercise",
			"method":  "ListExercises",
		}).WithError(err).Error("Failed to list exercises from repository")
		return models.Page[*models.Exercise]{}, fmt.Errorf("service: could not list exercises: %w", err)
	}
	return models.NewPage(exercises, total, filter.PageRequest), nil
}

// UpdateExercise edits the plan of an exercise that has not finished yet.
func (s *exerciseService) UpdateExercise(ctx context.Context, orgID uuid.UUID, exercise *models.Exercise) (*models.Exercise, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "exercise",
		"method":      "UpdateExercise",
		"exercise_id": exercise.ID,
	})

	existing, err := s.GetExercise(ctx, orgID, exercise.ID)
	if err != nil {
		return nil, err
	}
	if existing.Status == models.ExerciseStatusCompleted || existing.Status == models.ExerciseStatusCancelled {
		log.Warn("Attempted to edit a finished exercise")
		return nil, fmt.Errorf("service: cannot edit %s exercise: %w", existing.Status, models.ErrInvalidState)
	}
	if exercise.RunbookID != nil {
		if _, err := s.runbooks.GetByID(ctx, orgID, *exercise.RunbookID); err != nil {
			log.WithError(err).Warn("Exercise references an unknown runbook")
			return nil, fmt.Errorf("service: could not get runbook: %w", err)
		}
	}
	if err := s.checkParticipants(ctx, orgID, exercise.Participants); err != nil {
		log.WithError(err).Warn("Exercise participants rejected")
		return nil, err
	}
	existing.Title = exercise.Title
	existing.Scenario = exercise.Scenario
	existing.Type = exercise.Type
	existing.RunbookID = exercise.RunbookID
	existing.ScheduledAt = exercise.ScheduledAt
	if exercise.Participants != nil {
		existing.Participants = exercise.Participants
	}

	return existing, s.save(ctx, log, existing, "exercise.update")
}

func (s *exerciseService) checkParticipants(ctx context.Context, orgID uuid.UUID, participants []uuid.UUID) error {
	for _, id := range participants {
		if err := checkMember(ctx, s.users, orgID, id, "participant"); err != nil {
			return err
		}
	}
	return nil
}

func (s *exerciseService) DeleteExercise(ctx context.Context, orgID, id uuid.UUID) error {
	if err := s.requireFeature(ctx, orgID); err != nil {
		return err
	}
	log := s.logger.WithFields(logrus.Fields{
		"service":     "exercise",
		"method":      "DeleteExercise",
		"exercise_id": id,
	})
	if err := s.repo.Delete(ctx, orgID, id); err != nil {
		logFailure(log, err, "Failed to delete exercise in repository")
		return fmt.Errorf("service: could not delete exercise: %w", err)
	}
	s.audit.Record(ctx, &models.AuditLog{
		OrganizationID: orgPtr(orgID),
		Action:         "exercise.delete",
		ResourceType:   "exercise",
		ResourceID:     id.String(),
	})
	return nil
}

func (s *exerciseService) StartExercise(ctx context.Context, orgID, id uuid.UUID) (*models.Exercise, error) {
	return s.transition(ctx, orgID, id, "exercise.start", func(e *models.Exercise) error {
		return e.Start(s.now().UTC())
	})
}

func (s *exerciseService) CompleteExercise(ctx context.Context, orgID, id uuid.UUID, findings string) (*models.Exercise, error) {
	return s.transition(ctx, orgID, id, "exercise.complete", func(e *models.Exercise) error {
		return e.Complete(findings, s.now().UTC())
	})
}

func (s *exerciseService) CancelExercise(ctx context.Context, orgID, id uuid.UUID) (*models.Exercise, error) {
	return s.transition(ctx, orgID, id, "exercise.cancel", (*models.Exercise).Cancel)
}

func (s *exerciseService) transition(ctx context.Context, orgID, id uuid.UUID, action string, apply func(*models.Exercise) error) (*models.Exercise, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "exercise",
		"method":      "transition",
		"action":      action,
		"exercise_id": id,
	})

	exercise, err := s.GetExercise(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(exercise); err != nil {
		log.WithError(err).Warn("Rejected exercise transition")
		return nil, fmt.Errorf("service: could not change exercise status: %w", err)
	}
	return exercise, s.save(ctx, log, exercise, action)
}

func (s *exerciseService) save(ctx context.Context, log *logrus.Entry, exercise *models.Exercise, action string) error {
	if err := s.repo.Update(ctx, exercise); err != nil {
		logFailure(log, err, "Failed to update exercise in repository")
		return fmt.Errorf("service: could not update exercise: %w", err)
	}
	s.audit.Record(ctx, &models.AuditLog{
		OrganizationID: orgPtr(exercise.OrganizationID),
		Action:         action,
		ResourceType:   "exercise",
		ResourceID:     exercise.ID.String(),
		Metadata:       map[string]any{"status": exercise.Status},
	})
	log.WithField("status", exercise.Status).Info("Exercise updated successfully")
	return nil
}
