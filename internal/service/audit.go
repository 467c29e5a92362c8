package service

import (
	"context"
	"fmt"

	"github.com/shenikar/irdesk/internal/models"
	"github.com/sirupsen/logrus"
)

// AuditRepository persists audit entries.
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, filter models.AuditFilter) ([]*models.AuditLog, int, error)
}

// AuditService records and lists audit trails.
type AuditService interface {
	Record(ctx context.Context, entry *models.AuditLog)
	List(ctx context.Context, filter models.AuditFilter) (models.Page[*models.AuditLog], error)
}

type auditService struct {
	repo   AuditRepository
	logger *logrus.Logger
}

func NewAuditService(repo AuditRepository, logger *logrus.Logger) AuditService {
	return &auditService{repo: repo, logger: logger}
}

// Record fills the actor and category from ctx and stores the entry.
// A storage failure is logged and never surfaced to the caller.
func (s *auditService) Record(ctx context.Context, entry *models.AuditLog) {
	actor := actorFrom(ctx)
	if entry.ActorID == nil {
		entry.ActorID = actorID(ctx)
	}
	if entry.ActorEmail == "" {
		entry.ActorEmail = actor.Email
	}
	if entry.IPAddress == "" {
		entry.IPAddress = actor.IPAddress
	}
	if entry.UserAgent == "" {
		entry.UserAgent = actor.UserAgent
	}
	entry.Category = models.AuditCategoryFor(entry.Action)

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.WithFields(logrus.Fields{
			"service": "audit",
			"method":  "Record",
			"action":  entry.Action,
		}).WithError(err).Error("Failed to write audit entry")
	}
}

func (s *auditService) List(ctx context.Context, filter models.AuditFilter) (models.Page[*models.AuditLog], error) {
	filter.PageRequest = filter.PageRequest.Normalize()
	log := s.logger.WithFields(logrus.Fields{
		"service":  "audit",
		"method":   "List",
		"category": filter.Category,
		"page":     filter.Page,
	})
	log.Info("Listing audit logs")

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		log.WithError(err).Error("Failed to list audit logs from repository")
		return models.Page[*models.AuditLog]{}, fmt.Errorf("service: could not list audit logs: %w", err)
	}
	return models.NewPage(entries, total, filter.PageRequest), nil
}
