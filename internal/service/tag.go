package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shenikar/irdesk/internal/models"
	"github.com/sirupsen/logrus"
)

type TagRepository interface {
	Create(ctx context.Context, tag *models.Tag) error
	List(ctx context.Context, orgID uuid.UUID) ([]*models.Tag, error)
	Update(ctx context.Context, tag *models.Tag) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

type TagService interface {
	CreateTag(ctx context.Context, orgID uuid.UUID, tag *models.Tag) error
	ListTags(ctx context.Context, orgID uuid.UUID) ([]*models.Tag, error)
	UpdateTag(ctx context.Context, orgID uuid.UUID, tag *models.Tag) error
	DeleteTag(ctx context.Context, orgID, id uuid.UUID) error
}

type tagService struct {
	repo   TagRepository
	audit  AuditService
	logger *logrus.Logger
}

func NewTagService(repo TagRepository, audit AuditService, logger *logrus.Logger) TagService {
	return &tagService{repo: repo, audit: audit, logger: logger}
}

// CreateTag stores a tag; names are unique per organization, case-insensitively.
func (s *tagService) CreateTag(ctx context.Context, orgID uuid.UUID, tag *models.Tag) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "tag",
		"method":  "CreateTag",
		"name":    tag.Name,
	})
	tag.OrganizationID = orgID
	tag.Name = strings.ToLower(strings.TrimSpace(tag.Name))
	if err := s.repo.Create(ctx, tag); err != nil {
		logFailure(log, err, "Failed to create tag in repository")
		return fmt.Errorf("service: could not create tag: %w", err)
	}

	s.audit.Record(ctx, &models.AuditLog{
		OrganizationID: orgPtr(orgID),
		Action:         "tag.create",
		ResourceType:   "tag",
		ResourceID:     tag.ID.String(),
		Metadata:       map[string]any{"name": tag.Name},
	})
	log.Info("Tag created successfully")
	return nil
}

func (s *tagService) ListTags(ctx context.Context, orgID uuid.UUID) ([]*models.Tag, error) {
	tags, err := s.repo.List(ctx, orgID)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"service": "tag",
			"method":  "ListTags",
		}).WithError(err).Error("Failed to list tags from repository")
		return nil, fmt.Errorf("service: could not list tags: %w", err)
	}
	return tags, nil
}

func (s *tagService) UpdateTag(ctx context.Context, orgID uuid.UUID, tag *models.Tag) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "tag",
		"method":  "UpdateTag",
		"tag_id":  tag.ID,
	})
	tag.OrganizationID = orgID
	tag.Name = strings.ToLower(strings.TrimSpace(tag.Name))
	if err := s.repo.Update(ctx, tag); err != nil {
		logFailure(log, err, "Failed to update tag in repository")
		return fmt.Errorf("service: could not update tag: %w", err)
	}

	s.audit.Record(ctx, &models.AuditLog{
		OrganizationID: orgPtr(orgID),
		Action:         "tag.update",
		ResourceType:   "tag",
		ResourceID:     tag.ID.String(),
		Metadata:       map[string]any{"name": tag.Name},
	})
	return nil
}

func (s *tagService) DeleteTag(ctx context.Context, orgID, id uuid.UUID) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "tag",
		"method":  "DeleteTag",
		"tag_id":  id,
	})
	if err := s.repo.Delete(ctx, orgID, id); err != nil {
		logFailure(log, err, "Failed to delete tag in repository")
		return fmt.Errorf("service: could not delete tag: %w", err)
	}

	s.audit.Record(ctx, &models.AuditLog{
		OrganizationID: orgPtr(orgID),
		Action:         "tag.delete",
		ResourceType:   "tag",
		ResourceID:     id.String(),
	})
	return nil
}
