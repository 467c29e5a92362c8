package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shenikar/irdesk/internal/models"
	"github.com/sirupsen/logrus"
)

type DropdownRepository interface {
	List(ctx context.Context, orgID uuid.UUID) ([]*models.Dropdown, error)
	GetByKey(ctx context.Context, orgID uuid.UUID, key string) (*models.Dropdown, error)
	Upsert(ctx context.Context, dropdown *models.Dropdown) error
	Delete(ctx context.Context, orgID uuid.UUID, key string) error
}

type DropdownService interface {
	ListDropdowns(ctx context.Context, orgID uuid.UUID) ([]*models.Dropdown, error)
	GetDropdown(ctx context.Context, orgID uuid.UUID, key string) (*models.Dropdown, error)
	SaveDropdown(ctx context.Context, orgID uuid.UUID, dropdown *models.Dropdown) error
	DeleteDropdown(ctx context.Context, orgID uuid.UUID, key string) error
}

type dropdownService struct {
	repo   DropdownRepository
	audit  AuditService
	logger *logrus.Logger
}

func NewDropdownService(repo DropdownRepository, audit AuditService, logger *logrus.Logger) DropdownService {
	return &dropdownService{repo: repo, audit: audit, logger: logger}
}

func (s *dropdownService) ListDropdowns(ctx context.Context, orgID uuid.UUID) ([]*models.Dropdown, error) {
	dropdowns, err := s.repo.List(ctx, orgID)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"service": "dropdown",
			"method":  "ListDropdowns",
		}).WithError(err).Error("Failed to list dropdowns from repository")
		return nil, fmt.Errorf("service: could not list dropdowns: %w", err)
	}
	return dropdowns, nil
}

func (s *dropdownService) GetDropdown(ctx context.Context, orgID uuid.UUID, key string) (*models.Dropdown, error) {
	dropdown, err := s.repo.GetByKey(ctx, orgID, key)
	if err != nil {
		return nil, fmt.Errorf("service: could not get dropdown %q: %w", key, err)
	}
	return dropdown, nil
}

// SaveDropdown replaces the options of the dropdown identified by its key,
// creating the dropdown if needed.
func (s *dropdownService) SaveDropdown(ctx context.Context, orgID uuid.UUID, dropdown *models.Dropdown) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "dropdown",
		"method":  "SaveDropdown",
		"key":     dropdown.Key,
	})

	options, err := models.NormalizeOptions(dropdown.Options)
	if err != nil {
		log.WithError(err).Warn("Rejected dropdown options")
		return fmt.Errorf("service: invalid dropdown options: %w", err)
	}
	dropdown.OrganizationID = orgID
	dropdown.Key = strings.ToLower(strings.TrimSpace(dropdown.Key))
	dropdown.Options = options
	if dropdown.Label == "" {
		dropdown.Label = dropdown.Key
	}

	if err := s.repo.Upsert(ctx, dropdown); err != nil {
		log.WithError(err).Error("Failed to save dropdown in repository")
		return fmt.Errorf("service: could not save dropdown: %w", err)
	}

	s.audit.Record(ctx, &models.AuditLog{
		OrganizationID: orgPtr(orgID),
		Action:         "dropdown.save",
		ResourceType:   "dropdown",
		ResourceID:     dropdown.Key,
		Metadata:       map[string]any{"options": len(options)},
	})
	log.Info("Dropdown saved successfully")
	return nil
}

func (s *dropdownService) DeleteDropdown(ctx context.Context, orgID uuid.UUID, key string) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "dropdown",
		"method":  "DeleteDropdown",
		"key":     key,
	})
	if err := s.repo.Delete(ctx, orgID, key); err != nil {
		logFailure(log, err, "Failed to delete dropdown in repository")
		return fmt.Errorf("service: could not delete dropdown: %w", err)
	}

	s.audit.Record(ctx, &models.AuditLog{
		OrganizationID: orgPtr(orgID),
		Action:         "dropdown.delete",
		ResourceType:   "dropdown",
		ResourceID:     key,
	})
	return nil
}
