package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/irdesk/internal/models"
	"github.com/shenikar/irdesk/internal/templating"
	"github.com/shenikar/irdesk/internal/webhook"
	"github.com/sirupsen/logrus"
)

type TemplateRepository interface {
	Create(ctx context.Context, tmpl *models.Template) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Template, error)
	Update(ctx context.Context, tmpl *models.Template) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	List(ctx context.Context, orgID uuid.UUID, filter models.TemplateFilter) ([]*models.Template, int, error)
}

// TemplateService manages communication templates and sends rendered messages.
type TemplateService interface {
	CreateTemplate(ctx context.Context, orgID uuid.UUID, tmpl *models.Template) error
	GetTemplate(ctx context.Context, orgID, id uuid.UUID) (*models.Template, error)
	ListTemplates(ctx context.Context, orgID uuid.UUID, filter models.TemplateFilter) (models.Page[*models.Template], error)
	UpdateTemplate(ctx context.Context, orgID uuid.UUID, tmpl *models.Template) (*models.Template, error)
	DeleteTemplate(ctx context.Context, orgID, id uuid.UUID) error
	Preview(ctx context.Context, orgID, id uuid.UUID, req models.RenderRequest) (*models.RenderedTemplate, error)
	Send(ctx context.Context, orgID uuid.UUID, req models.SendRequest) (uuid.UUID, error)
}

type templateService struct {
	repo      TemplateRepository
	incidents IncidentRepository
	orgs      OrganizationRepository
	users     UserRepository
	publisher webhook.Publisher
	audit     AuditService
	logger    *logrus.Logger
	now       Clock
}

func NewTemplateService(
	repo TemplateRepository,
	incidents IncidentRepository,
	orgs OrganizationRepository,
	users UserRepository,
	publisher webhook.Publisher,
	audit AuditService,
	logger *logrus.Logger,
) TemplateService {
	return &templateService{
		repo:      repo,
		incidents: incidents,
		orgs:      orgs,
		users:     users,
		publisher: publisher,
		audit:     audit,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *templateService) CreateTemplate(ctx context.Context, orgID uuid.UUID, tmpl *models.Template) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "template",
		"method":  "CreateTemplate",
		"name":    tmpl.Name,
	})
	log.Info("Attempting to create a new template")

	tmpl.OrganizationID = orgID
	tmpl.CreatedBy = actorID(ctx)
	tmpl.Variables = templating.Variables(tmpl.Subject, tmpl.Body)
	if err := s.repo.Create(ctx, tmpl); err != nil {
		logFailure(log, err, "Failed to create template in repository")
		return fmt.Errorf("service: could not create template: %w", err)
	}

	s.audit.Record(ctx, &models.AuditLog{
		OrganizationID: orgPtr(orgID),
		Action:         "template.create",
		ResourceType:   "template",
		ResourceID:     tmpl.ID.String(),
		Metadata:       map[string]any{"name": tmpl.Name, "category": tmpl.Category},
	})
	log.WithField("template_id", tmpl.ID).Info("Template created successfully")
	return nil
}

func (s *templateService) GetTemplate(ctx context.Context, orgID, id uuid.UUID) (*models.Template, error) {
	tmpl, err := s.repo.GetByID(ctx, orgID, id)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"service":     "template",
			"method":      "GetTemplate",
			"template_id": id,
		}).WithError(err).Warn("Failed to get template from repository")
		return nil, fmt.Errorf("service: could not get template: %w", err)
	}
	return tmpl, nil
}

func (s *templateService) ListTemplates(ctx context.Context, orgID uuid.UUID, filter models.TemplateFilter) (models.Page[*models.Template], error) {
	filter.PageRequest = filter.PageRequest.Normalize()
	templates, total, err := s.repo.List(ctx, orgID, filter)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"service": "template",
			"method":  "ListTemplates",
		}).WithError(err).Error("Failed to list templates from repository")
		return models.Page[*models.Template]{}, fmt.Errorf("service: could not list templates: %w", err)
	}
	return models.NewPage(templates, total, filter.PageRequest), nil
}

func (s *templateService) UpdateTemplate(ctx context.Context, orgID uuid.UUID, tmpl *models.Template) (*models.Template, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "template",
		"method":      "UpdateTemplate",
		"template_id": tmpl.ID,
	})
	log.Info("Attempting to update template")

	existing, err := s.repo.GetByID(ctx, orgID, tmpl.ID)
	if err != nil {
		log.WithError(err).Warn("Attempted to update a non-existent template")
		return nil, fmt.Errorf("service: template with id %s not found for update: %w", tmpl.ID, err)
	}
	existing.Name = tmpl.Name
	existing.Category = tmpl.Category
	existing.Subject = tmpl.Subject
	existing.Body = tmpl.Body
	existing.Variables = templating.Variables(existing.Subject, existing.Body)

	if err := s.repo.Update(ctx, existing); err != nil {
		logFailure(log, err, "Failed to update template in repository")
		return nil, fmt.Errorf("service: could not update template: %w", err)
	}

	s.audit.Record(ctx, &models.AuditLog{
		OrganizationID: orgPtr(orgID),
		Action:         "template.update",
		ResourceType:   "template",
		ResourceID:     existing.ID.String(),
	})
	log.Info("Template updated successfully")
	return existing, nil
}

func (s *templateService) DeleteTemplate(ctx context.Context, orgID, id uuid.UUID) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "template",
		"method":      "DeleteTemplate",
		"template_id": id,
	})
	if err := s.repo.Delete(ctx, orgID, id); err != nil {
		logFailure(log, err, "Failed to delete template in repository")
		return fmt.Errorf("service: could not delete template: %w", err)
	}

	s.audit.Record(ctx, &models.AuditLog{
		OrganizationID: orgPtr(orgID),
		Action:         "template.delete",
		ResourceType:   "template",
		ResourceID:     id.String(),
	})
	return nil
}

// Preview renders the template; unresolved placeholders are listed but not an error.
func (s *templateService) Preview(ctx context.Context, orgID, id uuid.UUID, req models.RenderRequest) (*models.RenderedTemplate, error) {
	tmpl, err := s.GetTemplate(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, orgID, tmpl, req)
}

// Send renders the template and queues it for delivery. Any unresolved
// placeholder rejects the send with ErrMissingVariables.
func (s *templateService) Send(ctx context.Context, orgID uuid.UUID, req models.SendRequest) (uuid.UUID, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "template",
		"method":      "Send",
		"template_id": req.TemplateID,
		"channel":     req.Channel,
	})
	log.Info("Attempting to send communication")

	tmpl, err := s.GetTemplate(ctx, orgID, req.TemplateID)
	if err != nil {
		return uuid.Nil, err
	}
	rendered, err := s.render(ctx, orgID, tmpl, models.RenderRequest{IncidentID: req.IncidentID, Variables: req.Variables})
	if err != nil {
		return uuid.Nil, err
	}
	if len(rendered.Missing) > 0 {
		log.WithField("missing", rendered.Missing).Warn("Refusing to send communication with unresolved placeholders")
		return uuid.Nil, fmt.Errorf("service: %s: %w", strings.Join(rendered.Missing, ", "), models.ErrMissingVariables)
	}

	event := webhook.Event{
		ID:             uuid.New(),
		OrganizationID: orgID,
		TemplateID:     tmpl.ID,
		IncidentID:     req.IncidentID,
		Channel:        req.Channel,
		Recipients:     req.Recipients,
		Subject:        rendered.Subject,
		Body:           rendered.Body,
		RequestedBy:    actorFrom(ctx).Email,
		Timestamp:      s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.WithError(err).Error("Failed to publish communication event")
		return uuid.Nil, fmt.Errorf("service: could not queue communication: %w", err)
	}

	meta := map[string]any{
		"template_id": tmpl.ID.String(),
		"channel":     req.Channel,
		"recipients":  len(req.Recipients),
	}
	if req.IncidentID != nil {
		meta["incident_id"] = req.IncidentID.String()
	}
	s.audit.Record(ctx, &models.AuditLog{
		OrganizationID: orgPtr(orgID),
		Action:         "communication.send",
		ResourceType:   "communication",
		ResourceID:     event.ID.String(),
		Metadata:       meta,
	})
	log.WithField("event_id", event.ID).Info("Communication queued successfully")
	return event.ID, nil
}

func (s *templateService) render(ctx context.Context, orgID uuid.UUID, tmpl *models.Template, req models.RenderRequest) (*models.RenderedTemplate, error) {
	vars, err := s.buildVars(ctx, orgID, req)
	if err != nil {
		return nil, err
	}
	subject := templating.Render(tmpl.Subject, vars)
	body := templating.Render(tmpl.Body, vars)

	missing := make([]string, 0, len(subject.Missing)+len(body.Missing))
	seen := make(map[string]struct{})
	for _, m := range append(subject.Missing, body.Missing...) {
		if _, dup := seen[m]; !dup {
			seen[m] = struct{}{}
			missing = append(missing, m)
		}
	}
	return &models.RenderedTemplate{Subject: subject.Text, Body: body.Text, Missing: missing}, nil
}

// buildVars collects the organization, incident, sender, date and custom namespaces.
func (s *templateService) buildVars(ctx context.Context, orgID uuid.UUID, req models.RenderRequest) (templating.Vars, error) {
	vars := templating.Vars{}
	now := s.now().UTC()
	vars.Set("date", "today", now.Format(time.DateOnly))
	vars.Set("date", "now", now.Format(time.RFC3339))

	org, err := s.orgs.GetByID(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("service: could not load organization: %w", err)
	}
	vars.SetAll("organization", map[string]string{
		"name":          org.Name,
		"slug":          org.Slug,
		"contact_email": org.ContactEmail,
	})

	if req.IncidentID != nil {
		inc, err := s.incidents.GetByID(ctx, orgID, *req.IncidentID)
		if err != nil {
			return nil, fmt.Errorf("service: could not load incident: %w", err)
		}
		vars.SetAll("incident", incidentVars(inc))
	}

	if uid := actorID(ctx); uid != nil {
		if user, err := s.users.GetByID(ctx, *uid); err == nil {
			vars.SetAll("user", map[string]string{"name": user.Name, "email": user.Email, "role": user.Role})
		}
	}

	vars.SetAll("custom", req.Variables)
	return vars, nil
}

func incidentVars(inc *models.Incident) map[string]string {
	v := map[string]string{
		"id":          inc.ID.String(),
		"reference":   strings.ToUpper(inc.ID.String()[:8]),
		"title":       inc.Title,
		"description": inc.Description,
		"severity":    inc.Severity,
		"status":      inc.Status,
		"category":    inc.Category,
		"tags":        strings.Join(inc.Tags, ", "),
		"created_at":  inc.CreatedAt.UTC().Format(time.RFC3339),
	}
	if inc.DetectedAt != nil {
		v["detected_at"] = inc.DetectedAt.UTC().Format(time.RFC3339)
	}
	if inc.ResolvedAt != nil {
		v["resolved_at"] = inc.ResolvedAt.UTC().Format(time.RFC3339)
	}
	return v
}
