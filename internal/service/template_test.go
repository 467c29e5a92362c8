package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shenikar/irdesk/internal/models"
	"github.com/shenikar/irdesk/internal/service/mocks"
	"github.com/shenikar/irdesk/internal/webhook"
	webhook_mocks "github.com/shenikar/irdesk/internal/webhook/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type templateMocks struct {
	repo      *mocks.MockTemplateRepository
	incidents *mocks.MockIncidentRepository
	orgs      *mocks.MockOrganizationRepository
	users     *mocks.MockUserRepository
	publisher *webhook_mocks.MockPublisher
	audit     *mocks.MockAuditService
}

func newTestTemplateService(t *testing.T) (*templateService, templateMocks) {
	ctrl := gomock.NewController(t)
	m := templateMocks{
		repo:      mocks.NewMockTemplateRepository(ctrl),
		incidents: mocks.NewMockIncidentRepository(ctrl),
		orgs:      mocks.NewMockOrganizationRepository(ctrl),
		users:     mocks.NewMockUserRepository(ctrl),
		publisher: webhook_mocks.NewMockPublisher(ctrl),
		audit:     mocks.NewMockAuditService(ctrl),
	}
	svc := NewTemplateService(m.repo, m.incidents, m.orgs, m.users, m.publisher, m.audit, newTestLogger()).(*templateService)
	svc.now = fixedClock
	return svc, m
}

func TestCreateTemplate_DerivesVariables(t *testing.T) {
	svc, m := newTestTemplateService(t)
	orgID := uuid.New()
	ctx, actor := actorContext(orgID, models.RoleAdmin)
	tmpl := &models.Template{
		Name:    "Initial notification",
		Subject: "[{{incident.severity}}] {{incident.title}}",
		Body:    "Hello {{custom.recipient|team}}, {{incident.title}} at {{organization.name}}.",
	}

	m.repo.EXPECT().Create(ctx, tmpl).Return(nil)
	m.audit.EXPECT().Record(ctx, auditAction("template.create"))

	require.NoError(t, svc.CreateTemplate(ctx, orgID, tmpl))
	assert.Equal(t, []string{"incident.severity", "incident.title", "custom.recipient", "organization.name"}, tmpl.Variables)
	require.NotNil(t, tmpl.CreatedBy)
	assert.Equal(t, actor.UserID, *tmpl.CreatedBy)
}

func TestPreview_RendersNamespaces(t *testing.T) {
	svc, m := newTestTemplateService(t)
	orgID := uuid.New()
	ctx, actor := actorContext(orgID, models.RoleResponder)
	incident := &models.Incident{
		ID:             uuid.MustParse("3f2a9c1e-0000-4000-8000-000000000001"),
		OrganizationID: orgID,
		Title:          "Credential stuffing",
		Severity:       models.SeverityHigh,
		Status:         models.IncidentStatusContained,
	}
	tmpl := &models.Template{
		ID:      uuid.New(),
		Subject: "{{incident.reference}}: {{incident.title}}",
		Body:    "{{organization.name}} / {{user.name}} / {{date.today}} / {{custom.eta|soon}} / {{incident.assignee}}",
	}

	m.repo.EXPECT().GetByID(ctx, orgID, tmpl.ID).Return(tmpl, nil)
	m.orgs.EXPECT().GetByID(ctx, orgID).Return(&models.Organization{ID: orgID, Name: "Acme"}, nil)
	m.incidents.EXPECT().GetByID(ctx, orgID, incident.ID).Return(incident, nil)
	m.users.EXPECT().GetByID(ctx, actor.UserID).Return(&models.User{Name: "Rita Responder"}, nil)

	got, err := svc.Preview(ctx, orgID, tmpl.ID, models.RenderRequest{IncidentID: &incident.ID})

	require.NoError(t, err)
	assert.Equal(t, "3F2A9C1E: Credential stuffing", got.Subject)
	assert.Equal(t, "Acme / Rita Responder / 2024-03-01 / soon / {{incident.assignee}}", got.Body)
	assert.Equal(t, []string{"incident.assignee"}, got.Missing)
}

func TestSend_RejectsMissingVariables(t *testing.T) {
	svc, m := newTestTemplateService(t)
	orgID := uuid.New()
	ctx := context.Background()
	tmpl := &models.Template{ID: uuid.New(), Subject: "Update", Body: "ETA {{custom.eta}}"}

	m.repo.EXPECT().GetByID(ctx, orgID, tmpl.ID).Return(tmpl, nil)
	m.orgs.EXPECT().GetByID(ctx, orgID).Return(&models.Organization{ID: orgID}, nil)
	m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)
	m.audit.EXPECT().Record(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.Send(ctx, orgID, models.SendRequest{TemplateID: tmpl.ID, Channel: "email", Recipients: []string{"a@b.c"}})

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrMissingVariables)
	assert.Contains(t, err.Error(), "custom.eta")
}

func TestSend_PublishesRenderedEvent(t *testing.T) {
	svc, m := newTestTemplateService(t)
	orgID := uuid.New()
	ctx := context.Background()
	tmpl := &models.Template{ID: uuid.New(), Subject: "Update from {{organization.name}}", Body: "ETA {{custom.eta}}"}

	m.repo.EXPECT().GetByID(ctx, orgID, tmpl.ID).Return(tmpl, nil)
	m.orgs.EXPECT().GetByID(ctx, orgID).Return(&models.Organization{ID: orgID, Name: "Acme"}, nil)

	var published webhook.Event
	m.publisher.EXPECT().
		Publish(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, e webhook.Event) error {
			published = e
			return nil
		})
	m.audit.EXPECT().Record(ctx, auditAction("communication.send"))

	id, err := svc.Send(ctx, orgID, models.SendRequest{
		TemplateID: tmpl.ID,
		Channel:    "email",
		Recipients: []string{"ciso@acme.test"},
		Variables:  map[string]string{"eta": "2 hours"},
	})

	require.NoError(t, err)
	assert.Equal(t, published.ID, id)
	assert.Equal(t, "Update from Acme", published.Subject)
	assert.Equal(t, "ETA 2 hours", published.Body)
	assert.Equal(t, orgID, published.OrganizationID)
	assert.Equal(t, []string{"ciso@acme.test"}, published.Recipients)
	assert.Equal(t, fixedNow, published.Timestamp)
}

func TestSend_PublishFailure(t *testing.T) {
	svc, m := newTestTemplateService(t)
	orgID := uuid.New()
	ctx := context.Background()
	tmpl := &models.Template{ID: uuid.New(), Subject: "s", Body: "b"}

	m.repo.EXPECT().GetByID(ctx, orgID, tmpl.ID).Return(tmpl, nil)
	m.orgs.EXPECT().GetByID(ctx, orgID).Return(&models.Organization{ID: orgID}, nil)
	m.publisher.EXPECT().Publish(ctx, gomock.Any()).Return(errors.New("redis down"))
	m.audit.EXPECT().Record(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.Send(ctx, orgID, models.SendRequest{TemplateID: tmpl.ID})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not queue communication")
}

func TestPreview_UnknownIncident(t *testing.T) {
	svc, m := newTestTemplateService(t)
	orgID := uuid.New()
	ctx := context.Background()
	tmpl := &models.Template{ID: uuid.New()}
	incidentID := uuid.New()

	m.repo.EXPECT().GetByID(ctx, orgID, tmpl.ID).Return(tmpl, nil)
	m.orgs.EXPECT().GetByID(ctx, orgID).Return(&models.Organization{ID: orgID}, nil)
	m.incidents.EXPECT().GetByID(ctx, orgID, incidentID).Return(nil, models.ErrNotFound)

	_, err := svc.Preview(ctx, orgID, tmpl.ID, models.RenderRequest{IncidentID: &incidentID})

	assert.ErrorIs(t, err, models.ErrNotFound)
}
