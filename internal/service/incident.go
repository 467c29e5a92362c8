package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/irdesk/internal/models"
	"github.com/sirupsen/logrus"
)

// IncidentRepository defines incident persistence and its cache.
type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Incident, error)
	Update(ctx context.Context, incident *models.Incident) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	List(ctx context.Context, orgID uuid.UUID, filter models.IncidentFilter) ([]*models.Incident, int, error)
	Stats(ctx context.Context, orgID uuid.UUID) (*models.IncidentStats, error)
	GetIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	SetIncidentCache(ctx context.Context, incident *models.Incident) error
	InvalidateIncidentCache(ctx context.Context, id uuid.UUID) error
}

// IncidentService defines incident management business logic.
type IncidentService interface {
	CreateIncident(ctx context.Context, orgID uuid.UUID, incident *models.Incident) error
	GetIncident(ctx context.Context, orgID, id uuid.UUID) (*models.Incident, error)
	ListIncidents(ctx context.Context, orgID uuid.UUID, filter models.IncidentFilter) (models.Page[*models.Incident], error)
	UpdateIncident(ctx context.Context, orgID uuid.UUID, incident *models.Incident) (*models.Incident, error)
	ChangeStatus(ctx context.Context, orgID, id uuid.UUID, status string) (*models.Incident, error)
	DeleteIncident(ctx context.Context, orgID, id uuid.UUID) error
	GetStats(ctx context.Context, orgID uuid.UUID) (*models.IncidentStats, error)
}

type incidentService struct {
	repo   IncidentRepository
	users  UserRepository
	assets AssetRepository
	audit  AuditService
	logger *logrus.Logger
	now    Clock
}

func NewIncidentService(
	repo IncidentRepository,
	users UserRepository,
	assets AssetRepository,
	audit AuditService,
	logger *logrus.Logger,
) IncidentService {
	return &incidentService{repo: repo, users: users, assets: assets, audit: audit, logger: logger, now: time.Now}
}

// CreateIncident creates an open incident reported by the current actor.
func (s *incidentService) CreateIncident(ctx context.Context, orgID uuid.UUID, incident *models.Incident) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":         "incident",
		"method":          "CreateIncident",
		"organization_id": orgID,
		"title":           incident.Title,
	})
	log.Info("Attempting to create a new incident")

	if err := s.checkReferences(ctx, orgID, incident); err != nil {
		log.WithError(err).Warn("Incident references rejected")
		return err
	}

	incident.OrganizationID = orgID
	incident.Status = models.IncidentStatusOpen
	incident.ReportedBy = actorID(ctx)
	incident.Tags = normalizeTags(incident.Tags)
	if incident.AssetIDs == nil {
		incident.AssetIDs = []uuid.UUID{}
	}
	if incident.DetectedAt == nil {
		now := s.now()
		incident.DetectedAt = &now
	}

	if err := s.repo.Create(ctx, incident); err != nil {
		log.WithError(err).Error("Failed to create incident in repository")
		return fmt.Errorf("service: could not create incident: %w", err)
	}

	s.audit.Record(ctx, &models.AuditLog{
		OrganizationID: orgPtr(orgID),
		Action:         "incident.create",
		ResourceType:   "incident",
		ResourceID:     incident.ID.String(),
		Metadata:       map[string]any{"title": incident.Title, "severity": incident.Severity},
	})
	log.WithField("incident_id", incident.ID).Info("Incident created successfully")
	return nil
}

// GetIncident reads through the Redis cache. A cached incident of another
// organization is treated as not found.
func (s *incidentService) GetIncident(ctx context.Context, orgID, id uuid.UUID) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "GetIncident",
		"incident_id": id,
	})
	log.Info("Fetching incident by ID")

	cached, err := s.repo.GetIncidentFromCache(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to read incident from cache")
	}
	if cached != nil {
		if cached.OrganizationID != orgID {
			return nil, fmt.Errorf("service: could not get incident: %w", models.ErrNotFound)
		}
		log.Debug("Incident served from cache")
		return cached, nil
	}

	incident, err := s.repo.GetByID(ctx, orgID, id)
	if err != nil {
		log.WithError(err).Warn("Failed to get incident from repository")
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}
	if err := s.repo.SetIncidentCache(ctx, incident); err != nil {
		log.WithError(err).Warn("Failed to cache incident")
	}

	log.Info("Incident fetched successfully")
	return incident, nil
}

func (s *incidentService) ListIncidents(ctx context.Context, orgID uuid.UUID, filter models.IncidentFilter) (models.Page[*models.Incident], error) {
	filter.PageRequest = filter.PageRequest.Normalize()
	log := s.logger.WithFields(logrus.Fields{
		"service":   "incident",
		"method":    "ListIncidents",
		"page":      filter.Page,
		"page_size": filter.PageSize,
	})
	log.Info("Listing incidents")

	incidents, total, err := s.repo.List(ctx, orgID, filter)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from repository")
		return models.Page[*models.Incident]{}, fmt.Errorf("service: could not list incidents: %w", err)
	}

	log.WithField("count", len(incidents)).Info("Incidents listed successfully")
	return models.NewPage(incidents, total, filter.PageRequest), nil
}

// UpdateIncident replaces the editable fields. Status changes go through ChangeStatus.
func (s *incidentService) UpdateIncident(ctx context.Context, orgID uuid.UUID, incident *models.Incident) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "UpdateIncident",
		"incident_id": incident.ID,
	})
	log.Info("Attempting to update incident")

	if err := s.checkReferences(ctx, orgID, incident); err != nil {
		log.WithError(err).Warn("Incident references rejected")
		return nil, err
	}

	var existing *models.Incident
	err := retryStale(log, func() error {
		var err error
		existing, err = s.repo.GetByID(ctx, orgID, incident.ID)
		if err != nil {
			log.WithError(err).Warn("Attempted to update a non-existent incident")
			return fmt.Errorf("service: incident with id %s not found for update: %w", incident.ID, err)
		}

		existing.Title = incident.Title
		existing.Description = incident.Description
		existing.Severity = incident.Severity
		existing.Category = incident.Category
		existing.AssigneeID = incident.AssigneeID
		existing.Tags = normalizeTags(incident.Tags)
		if incident.AssetIDs != nil {
			existing.AssetIDs = incident.AssetIDs
		}
		if incident.DetectedAt != nil {
			existing.DetectedAt = incident.DetectedAt
		}

		if err := s.repo.Update(ctx, existing); err != nil {
			logFailure(log, err, "Failed to update incident in repository")
			return fmt.Errorf("service: could not update incident: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, log, existing.ID)

	s.audit.Record(ctx, &models.AuditLog{
		OrganizationID: orgPtr(orgID),
		Action:         "incident.update",
		ResourceType:   "incident",
		ResourceID:     existing.ID.String(),
		Metadata:       map[string]any{"severity": existing.Severity},
	})
	log.Info("Incident updated successfully")
	return existing, nil
}

func (s *incidentService) ChangeStatus(ctx context.Context, orgID, id uuid.UUID, status string) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "ChangeStatus",
		"incident_id": id,
		"status":      status,
	})
	log.Info("Attempting to change incident status")

	var (
		incident *models.Incident
		from     string
	)
	err := retryStale(log, func() error {
		var err error
		incident, err = s.repo.GetByID(ctx, orgID, id)
		if err != nil {
			log.WithError(err).Warn("Attempted to change status of a non-existent incident")
			return fmt.Errorf("service: incident with id %s not found for status change: %w", id, err)
		}
		from = incident.Status
		if err := incident.ApplyStatus(status, s.now()); err != nil {
			log.WithField("from", from).Warn("Rejected incident status transition")
			return fmt.Errorf("service: cannot move incident from %s to %s: %w", from, status, err)
		}

		if err := s.repo.Update(ctx, incident); err != nil {
			logFailure(log, err, "Failed to update incident status in repository")
			return fmt.Errorf("service: could not change incident status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, log, id)

	s.audit.Record(ctx, &models.AuditLog{
		OrganizationID: orgPtr(orgID),
		Action:         "incident.status_change",
		ResourceType:   "incident",
		ResourceID:     id.String(),
		Metadata:       map[string]any{"from": from, "to": status},
	})
	log.Info("Incident status changed successfully")
	return incident, nil
}

func (s *incidentService) DeleteIncident(ctx context.Context, orgID, id uuid.UUID) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "DeleteIncident",
		"incident_id": id,
	})
	log.Info("Attempting to delete incident")

	if err := s.repo.Delete(ctx, orgID, id); err != nil {
		logFailure(log, err, "Failed to delete incident in repository")
		return fmt.Errorf("service: could not delete incident: %w", err)
	}
	s.invalidate(ctx, log, id)

	s.audit.Record(ctx, &models.AuditLog{
		OrganizationID: orgPtr(orgID),
		Action:         "incident.delete",
		ResourceType:   "incident",
		ResourceID:     id.String(),
	})
	log.Info("Incident deleted successfully")
	return nil
}

func (s *incidentService) GetStats(ctx context.Context, orgID uuid.UUID) (*models.IncidentStats, error) {
	stats, err := s.repo.Stats(ctx, orgID)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"service":         "incident",
			"method":          "GetStats",
			"organization_id": orgID,
		}).WithError(err).Error("Failed to get incident stats")
		return nil, fmt.Errorf("service: could not get incident stats: %w", err)
	}
	return stats, nil
}

// checkReferences rejects an assignee or assets from outside orgID.
func (s *incidentService) checkReferences(ctx context.Context, orgID uuid.UUID, incident *models.Incident) error {
	if incident.AssigneeID != nil {
		if err := checkMember(ctx, s.users, orgID, *incident.AssigneeID, "assignee"); err != nil {
			return err
		}
	}
	return checkAssets(ctx, s.assets, orgID, incident.AssetIDs)
}

func (s *incidentService) invalidate(ctx context.Context, log *logrus.Entry, id uuid.UUID) {
	if err := s.repo.InvalidateIncidentCache(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}
}

// normalizeTags lowercases, trims and de-duplicates tag names, keeping order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
