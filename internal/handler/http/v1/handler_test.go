package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shenikar/irdesk/internal/auth"
	"github.com/shenikar/irdesk/internal/config"
	"github.com/shenikar/irdesk/internal/models"
	"github.com/shenikar/irdesk/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testAPIKey = "test-api-key"

type testMocks struct {
	auth          *mocks.MockAuthService
	users         *mocks.MockUserService
	organizations *mocks.MockOrganizationService
	licenses      *mocks.MockLicenseService
	audit         *mocks.MockAuditService
	incidents     *mocks.MockIncidentService
	assets        *mocks.MockAssetService
	tags          *mocks.MockTagService
	dropdowns     *mocks.MockDropdownService
	templates     *mocks.MockTemplateService
	runbooks      *mocks.MockRunbookService
	exercises     *mocks.MockExerciseService
}

type fakeLimiter struct {
	allow bool
	err   error
	keys  []string
}

func (f *fakeLimiter) Allow(_ context.Context, key string) (bool, error) {
	f.keys = append(f.keys, key)
	return f.allow, f.err
}

type testEnv struct {
	handler *Handler
	mocks   testMocks
	router  *gin.Engine
	tokens  *auth.TokenManager
	limiter *fakeLimiter
	orgID   uuid.UUID
	// resolve stands in for the account lookup done on every bearer request.
	resolve func(models.Actor) (models.Actor, error)
}

// newTestEnv wires a Handler to mocked services behind a gin test router.
func newTestEnv(t *testing.T) *testEnv {
	ctrl := gomock.NewController(t)
	m := testMocks{
		auth:          mocks.NewMockAuthService(ctrl),
		users:         mocks.NewMockUserService(ctrl),
		organizations: mocks.NewMockOrganizationService(ctrl),
		licenses:      mocks.NewMockLicenseService(ctrl),
		audit:         mocks.NewMockAuditService(ctrl),
		incidents:     mocks.NewMockIncidentService(ctrl),
		assets:        mocks.NewMockAssetService(ctrl),
		tags:          mocks.NewMockTagService(ctrl),
		dropdowns:     mocks.NewMockDropdownService(ctrl),
		templates:     mocks.NewMockTemplateService(ctrl),
		runbooks:      mocks.NewMockRunbookService(ctrl),
		exercises:     mocks.NewMockExerciseService(ctrl),
	}
	services := Services{
		Auth:          m.auth,
		Users:         m.users,
		Organizations: m.organizations,
		Licenses:      m.licenses,
		Audit:         m.audit,
		Incidents:     m.incidents,
		Assets:        m.assets,
		Tags:          m.tags,
		Dropdowns:     m.dropdowns,
		Templates:     m.templates,
		Runbooks:      m.runbooks,
		Exercises:     m.exercises,
	}

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	cfg := &config.Config{APIKeys: []string{testAPIKey}}
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	limiter := &fakeLimiter{allow: true}

	handler := NewHandler(services, tokens, limiter, logger, cfg)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"))

	env := &testEnv{
		handler: handler,
		mocks:   m,
		router:  router,
		tokens:  tokens,
		limiter: limiter,
		orgID:   uuid.New(),
		resolve: func(a models.Actor) (models.Actor, error) { return a, nil },
	}
	m.auth.EXPECT().ResolveActor(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, a models.Actor) (models.Actor, error) { return env.resolve(a) }).
		AnyTimes()
	return env
}

// bearer issues a token for a member of the test organization with the given role.
func (e *testEnv) bearer(t *testing.T, role string) map[string]string {
	orgID := e.orgID
	token, _, err := e.tokens.Generate(&models.User{
		ID:             uuid.New(),
		OrganizationID: &orgID,
		Email:          role + "@example.com",
		Role:           role,
	})
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}

func (e *testEnv) systemAdminBearer(t *testing.T) map[string]string {
	token, _, err := e.tokens.Generate(&models.User{ID: uuid.New(), Email: "root@example.com", IsSystemAdmin: true})
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}

// makeRequest performs an HTTP request against the router.
func makeRequest(router *gin.Engine, method, url string, body io.Reader, headers ...map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		for key, value := range h {
			req.Header.Set(key, value)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func jsonBody(t *testing.T, v any) io.Reader {
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)

	w := makeRequest(env.router, http.MethodGet, "/api/v1/system/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestNewValidator_Slug(t *testing.T) {
	type payload struct {
		Slug string `validate:"slug"`
	}
	var v *validator.Validate
	require.NotPanics(t, func() { v = newValidator() })

	assert.NoError(t, v.Struct(payload{Slug: "acme-corp"}))
	assert.Error(t, v.Struct(payload{Slug: "Acme Corp"}))
	assert.Error(t, v.Struct(payload{Slug: "acme--corp"}))
}

func TestAuthenticate(t *testing.T) {
	env := newTestEnv(t)

	t.Run("missing credentials", func(t *testing.T) {
		w := makeRequest(env.router, http.MethodGet, "/api/v1/incidents", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "authentication required")
	})

	t.Run("malformed token", func(t *testing.T) {
		w := makeRequest(env.router, http.MethodGet, "/api/v1/incidents", nil, map[string]string{"Authorization": "Bearer nope"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid or expired token")
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := auth.NewTokenManager("other-secret", time.Hour)
		token, _, err := other.Generate(&models.User{ID: uuid.New(), Role: models.RoleAdmin})
		require.NoError(t, err)

		w := makeRequest(env.router, http.MethodGet, "/api/v1/incidents", nil, map[string]string{"Authorization": "Bearer " + token})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid API key", func(t *testing.T) {
		w := makeRequest(env.router, http.MethodGet, "/api/v1/system-admin/stats", nil, map[string]string{"X-API-Key": "wrong"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid API key")
	})
}

func TestAuthenticate_DeactivatedUser(t *testing.T) {
	env := newTestEnv(t)
	env.resolve = func(models.Actor) (models.Actor, error) { return models.Actor{}, models.ErrInvalidCredentials }
	env.mocks.incidents.EXPECT().ListIncidents(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(env.router, http.MethodGet, "/api/v1/incidents", nil, env.bearer(t, models.RoleAdmin))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "account is disabled or removed")
}

func TestAuthenticate_RoleComesFromStoredUser(t *testing.T) {
	env := newTestEnv(t)
	env.resolve = func(a models.Actor) (models.Actor, error) {
		a.Role = models.RoleViewer
		return a, nil
	}
	env.mocks.incidents.EXPECT().DeleteIncident(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(env.router, http.MethodDelete, "/api/v1/incidents/"+uuid.NewString(), nil, env.bearer(t, models.RoleOwner))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "requires admin role")
}

func TestAuthenticate_ResolveFailure(t *testing.T) {
	env := newTestEnv(t)
	env.resolve = func(models.Actor) (models.Actor, error) { return models.Actor{}, errors.New("redis and postgres down") }

	w := makeRequest(env.router, http.MethodGet, "/api/v1/incidents", nil, env.bearer(t, models.RoleAdmin))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAPIKey_ActsAsSystemAdmin(t *testing.T) {
	env := newTestEnv(t)
	stats := &models.PlatformStats{OrganizationsTotal: 3, OrganizationsActive: 2}
	env.mocks.organizations.EXPECT().PlatformStats(gomock.Any()).Return(stats, nil)

	w := makeRequest(env.router, http.MethodGet, "/api/v1/system-admin/stats", nil, map[string]string{"X-API-Key": testAPIKey})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, decode[models.PlatformStats](t, w).OrganizationsTotal)
}

func TestAPIKey_HasNoTenantAccess(t *testing.T) {
	env := newTestEnv(t)

	w := makeRequest(env.router, http.MethodGet, "/api/v1/incidents", nil, map[string]string{"X-API-Key": testAPIKey})

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSystemAdmin_RejectsTenantAdmin(t *testing.T) {
	env := newTestEnv(t)

	w := makeRequest(env.router, http.MethodGet, "/api/v1/system-admin/organizations", nil, env.bearer(t, models.RoleOwner))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRole(t *testing.T) {
	env := newTestEnv(t)
	env.mocks.incidents.EXPECT().CreateIncident(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	env.mocks.incidents.EXPECT().DeleteIncident(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	body := IncidentRequest{Title: "Ransomware", Severity: models.SeverityHigh}
	w := makeRequest(env.router, http.MethodPost, "/api/v1/incidents", jsonBody(t, body), env.bearer(t, models.RoleViewer))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = makeRequest(env.router, http.MethodDelete, "/api/v1/incidents/"+uuid.NewString(), nil, env.bearer(t, models.RoleResponder))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "requires admin role")
}

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t)
	session := &models.Session{Token: "jwt", ExpiresAt: time.Now().Add(time.Hour), User: &models.User{Email: "analyst@example.com"}}

	env.mocks.auth.EXPECT().
		Login(gomock.Any(), "analyst@example.com", "s3cret-pass").
		DoAndReturn(func(ctx context.Context, _, _ string) (*models.Session, error) {
			actor, ok := auth.ActorFromContext(ctx)
			require.True(t, ok)
			assert.NotEmpty(t, actor.IPAddress)
			return session, nil
		})

	w := makeRequest(env.router, http.MethodPost, "/api/v1/auth/login",
		jsonBody(t, LoginRequest{Email: "analyst@example.com", Password: "s3cret-pass"}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jwt", decode[models.Session](t, w).Token)
	assert.Len(t, env.limiter.keys, 1)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.mocks.auth.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("service: %w", models.ErrInvalidCredentials))

	w := makeRequest(env.router, http.MethodPost, "/api/v1/auth/login",
		jsonBody(t, LoginRequest{Email: "analyst@example.com", Password: "bad"}))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"invalid credentials"}`, w.Body.String())
}

func TestLogin_RateLimited(t *testing.T) {
	env := newTestEnv(t)
	env.limiter.allow = false
	env.mocks.auth.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(env.router, http.MethodPost, "/api/v1/auth/login",
		jsonBody(t, LoginRequest{Email: "analyst@example.com", Password: "pass"}))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestLogin_LimiterErrorFailsOpen(t *testing.T) {
	env := newTestEnv(t)
	env.limiter.err = errors.New("redis down")
	env.mocks.auth.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Return(&models.Session{Token: "jwt"}, nil)

	w := makeRequest(env.router, http.MethodPost, "/api/v1/auth/login",
		jsonBody(t, LoginRequest{Email: "analyst@example.com", Password: "pass"}))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMe_APIKey(t *testing.T) {
	env := newTestEnv(t)
	env.mocks.auth.EXPECT().Me(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(env.router, http.MethodGet, "/api/v1/auth/me", nil, map[string]string{"X-API-Key": testAPIKey})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_system_admin":true`)
}

func TestCreateIncident_Success(t *testing.T) {
	env := newTestEnv(t)
	incidentID := uuid.New()
	reqBody := IncidentRequest{
		Title:       "Phishing campaign",
		Description: "Credential harvesting emails",
		Severity:    models.SeverityHigh,
		Tags:        []string{"phishing"},
	}

	env.mocks.incidents.EXPECT().
		CreateIncident(gomock.Any(), env.orgID, gomock.Any()).
		DoAndReturn(func(ctx context.Context, orgID uuid.UUID, inc *models.Incident) error {
			actor, ok := auth.ActorFromContext(ctx)
			require.True(t, ok)
			assert.Equal(t, models.RoleResponder, actor.Role)
			assert.Equal(t, reqBody.Title, inc.Title)
			inc.ID = incidentID
			inc.OrganizationID = orgID
			inc.Status = models.IncidentStatusOpen
			return nil
		})

	w := makeRequest(env.router, http.MethodPost, "/api/v1/incidents", jsonBody(t, reqBody), env.bearer(t, models.RoleResponder))

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decode[models.Incident](t, w)
	assert.Equal(t, incidentID, resp.ID)
	assert.Equal(t, models.IncidentStatusOpen, resp.Status)
}

func TestCreateIncident_InvalidJSON(t *testing.T) {
	env := newTestEnv(t)
	env.mocks.incidents.EXPECT().CreateIncident(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(env.router, http.MethodPost, "/api/v1/incidents", bytes.NewBufferString(`{"title": "test"`), env.bearer(t, models.RoleAdmin))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestCreateIncident_ValidationError(t *testing.T) {
	env := newTestEnv(t)
	env.mocks.incidents.EXPECT().CreateIncident(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	reqBody := IncidentRequest{Title: "Outage", Severity: "catastrophic"}
	w := makeRequest(env.router, http.MethodPost, "/api/v1/incidents", jsonBody(t, reqBody), env.bearer(t, models.RoleAdmin))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Severity")
}

func TestListIncidents_Pagination(t *testing.T) {
	env := newTestEnv(t)
	assignee := uuid.New()
	items := []*models.Incident{{ID: uuid.New(), Title: "A"}, {ID: uuid.New(), Title: "B"}}

	env.mocks.incidents.EXPECT().
		ListIncidents(gomock.Any(), env.orgID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, f models.IncidentFilter) (models.Page[*models.Incident], error) {
			assert.Equal(t, models.IncidentStatusOpen, f.Status)
			assert.Equal(t, "malware", f.Tag)
			require.NotNil(t, f.AssigneeID)
			assert.Equal(t, assignee, *f.AssigneeID)
			assert.Equal(t, 2, f.Page)
			assert.Equal(t, 2, f.PageSize)
			return models.NewPage(items, 5, f.PageRequest), nil
		})

	url := fmt.Sprintf("/api/v1/incidents?status=open&tag=%%20Malware&assignee_id=%s&page=2&pageSize=2", assignee)
	w := makeRequest(env.router, http.MethodGet, url, nil, env.bearer(t, models.RoleViewer))

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[PageResponse[*models.Incident]](t, w)
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, 5, resp.Total)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Equal(t, 2, resp.Page)
}

func TestListIncidents_EmptyPageRendersArray(t *testing.T) {
	env := newTestEnv(t)
	env.mocks.incidents.EXPECT().ListIncidents(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(models.NewPage[*models.Incident](nil, 0, models.PageRequest{Page: 1, PageSize: 20}), nil)

	w := makeRequest(env.router, http.MethodGet, "/api/v1/incidents", nil, env.bearer(t, models.RoleViewer))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[],"page":1,"pageSize":20,"total":0,"totalPages":1}`, w.Body.String())
}

func TestListIncidents_InvalidAssignee(t *testing.T) {
	env := newTestEnv(t)
	env.mocks.incidents.EXPECT().ListIncidents(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(env.router, http.MethodGet, "/api/v1/incidents?assignee_id=bob", nil, env.bearer(t, models.RoleViewer))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetIncident(t *testing.T) {
	env := newTestEnv(t)
	incidentID := uuid.New()

	t.Run("invalid id", func(t *testing.T) {
		w := makeRequest(env.router, http.MethodGet, "/api/v1/incidents/not-a-uuid", nil, env.bearer(t, models.RoleViewer))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid incident ID")
	})

	t.Run("not found", func(t *testing.T) {
		env.mocks.incidents.EXPECT().GetIncident(gomock.Any(), env.orgID, incidentID).
			Return(nil, fmt.Errorf("service: could not get incident: %w", models.ErrNotFound))

		w := makeRequest(env.router, http.MethodGet, "/api/v1/incidents/"+incidentID.String(), nil, env.bearer(t, models.RoleViewer))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"not found"}`, w.Body.String())
	})

	t.Run("backend failure is not leaked", func(t *testing.T) {
		env.mocks.incidents.EXPECT().GetIncident(gomock.Any(), env.orgID, incidentID).
			Return(nil, errors.New("pq: connection refused"))

		w := makeRequest(env.router, http.MethodGet, "/api/v1/incidents/"+incidentID.String(), nil, env.bearer(t, models.RoleViewer))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
	})
}

func TestChangeIncidentStatus(t *testing.T) {
	env := newTestEnv(t)
	incidentID := uuid.New()

	env.mocks.incidents.EXPECT().ChangeStatus(gomock.Any(), env.orgID, incidentID, models.IncidentStatusOpen).
		Return(nil, fmt.Errorf("service: %w", models.ErrInvalidTransition))
	w := makeRequest(env.router, http.MethodPatch, "/api/v1/incidents/"+incidentID.String()+"/status",
		jsonBody(t, IncidentStatusRequest{Status: models.IncidentStatusOpen}), env.bearer(t, models.RoleResponder))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = makeRequest(env.router, http.MethodPatch, "/api/v1/incidents/"+incidentID.String()+"/status",
		jsonBody(t, IncidentStatusRequest{Status: "resolved"}), env.bearer(t, models.RoleResponder))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteIncident_Admin(t *testing.T) {
	env := newTestEnv(t)
	incidentID := uuid.New()
	env.mocks.incidents.EXPECT().DeleteIncident(gomock.Any(), env.orgID, incidentID).Return(nil)

	w := makeRequest(env.router, http.MethodDelete, "/api/v1/incidents/"+incidentID.String(), nil, env.bearer(t, models.RoleAdmin))

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestIncidentStats(t *testing.T) {
	env := newTestEnv(t)
	env.mocks.incidents.EXPECT().GetStats(gomock.Any(), env.orgID).
		Return(&models.IncidentStats{Total: 4, ByStatus: map[string]int{"open": 4}}, nil)

	w := makeRequest(env.router, http.MethodGet, "/api/v1/incidents/stats", nil, env.bearer(t, models.RoleViewer))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4, decode[models.IncidentStats](t, w).Total)
}

func TestCreateAsset_LicenseLimit(t *testing.T) {
	env := newTestEnv(t)
	env.mocks.assets.EXPECT().CreateAsset(gomock.Any(), env.orgID, gomock.Any()).
		Return(fmt.Errorf("service: assets: %w", models.ErrLicenseLimit))

	body := AssetRequest{Name: "db-01", Type: models.AssetTypeDatabase, IPAddress: "10.0.0.5"}
	w := makeRequest(env.router, http.MethodPost, "/api/v1/assets", jsonBody(t, body), env.bearer(t, models.RoleResponder))

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.JSONEq(t, `{"error":"license limit reached"}`, w.Body.String())
}

func TestCreateAsset_InvalidIP(t *testing.T) {
	env := newTestEnv(t)
	env.mocks.assets.EXPECT().CreateAsset(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	body := AssetRequest{Name: "db-01", Type: models.AssetTypeDatabase, IPAddress: "10.0.0.500"}
	w := makeRequest(env.router, http.MethodPost, "/api/v1/assets", jsonBody(t, body), env.bearer(t, models.RoleResponder))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaveDropdown(t *testing.T) {
	env := newTestEnv(t)
	env.mocks.dropdowns.EXPECT().SaveDropdown(gomock.Any(), env.orgID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, d *models.Dropdown) error {
			assert.Equal(t, "severity", d.Key)
			assert.Equal(t, []models.DropdownOption{{Value: "p1", Label: "Sev 1"}, {Value: "p2"}}, d.Options)
			return nil
		})

	body := DropdownRequest{Label: "Severity", Options: []DropdownOptionRequest{{Value: "p1", Label: "Sev 1"}, {Value: "p2"}}}
	w := makeRequest(env.router, http.MethodPut, "/api/v1/organization/dropdowns/severity", jsonBody(t, body), env.bearer(t, models.RoleAdmin))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSaveDropdown_DuplicateValues(t *testing.T) {
	env := newTestEnv(t)
	env.mocks.dropdowns.EXPECT().SaveDropdown(gomock.Any(), env.orgID, gomock.Any()).
		Return(fmt.Errorf("service: invalid dropdown options: duplicate option %q: %w", "p1", models.ErrValidation))

	body := DropdownRequest{Options: []DropdownOptionRequest{{Value: "p1"}, {Value: "p1"}}}
	w := makeRequest(env.router, http.MethodPut, "/api/v1/organization/dropdowns/severity", jsonBody(t, body), env.bearer(t, models.RoleAdmin))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decode[map[string]string](t, w)
	assert.Equal(t, "validation failed", resp["error"])
	assert.Contains(t, resp["details"], "duplicate option")
}

func TestCreateTag_Conflict(t *testing.T) {
	env := newTestEnv(t)
	env.mocks.tags.EXPECT().CreateTag(gomock.Any(), env.orgID, gomock.Any()).
		Return(fmt.Errorf("service: could not create tag: %w", models.ErrConflict))

	w := makeRequest(env.router, http.MethodPost, "/api/v1/organization/tags",
		jsonBody(t, TagRequest{Name: "malware", Color: "#ff0000"}), env.bearer(t, models.RoleAdmin))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestListOrganizationAuditLogs_ScopedToTenant(t *testing.T) {
	env := newTestEnv(t)
	env.mocks.audit.EXPECT().List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f models.AuditFilter) (models.Page[*models.AuditLog], error) {
			require.NotNil(t, f.OrganizationID)
			assert.Equal(t, env.orgID, *f.OrganizationID)
			assert.Equal(t, "incident", f.Category)
			require.NotNil(t, f.From)
			assert.Equal(t, 2024, f.From.Year())
			return models.NewPage[*models.AuditLog](nil, 0, f.PageRequest), nil
		})

	w := makeRequest(env.router, http.MethodGet,
		"/api/v1/organization/audit-logs?category=incident&from=2024-01-01T00:00:00Z&organization_id="+uuid.NewString(),
		nil, env.bearer(t, models.RoleAdmin))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListOrganizationAuditLogs_InvalidTime(t *testing.T) {
	env := newTestEnv(t)
	env.mocks.audit.EXPECT().List(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(env.router, http.MethodGet, "/api/v1/organization/audit-logs?to=yesterday", nil, env.bearer(t, models.RoleAdmin))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPreviewTemplate_WithoutBody(t *testing.T) {
	env := newTestEnv(t)
	templateID := uuid.New()
	env.mocks.templates.EXPECT().Preview(gomock.Any(), env.orgID, templateID, models.RenderRequest{}).
		Return(&models.RenderedTemplate{Subject: "Hello", Body: "{{incident.title}}", Missing: []string{"incident.title"}}, nil)

	w := makeRequest(env.router, http.MethodPost, "/api/v1/communications/templates/"+templateID.String()+"/preview", nil, env.bearer(t, models.RoleResponder))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"incident.title"}, decode[models.RenderedTemplate](t, w).Missing)
}

func TestSendCommunication(t *testing.T) {
	env := newTestEnv(t)
	templateID := uuid.New()
	messageID := uuid.New()
	body := SendCommunicationRequest{TemplateID: templateID, Channel: "email", Recipients: []string{"ciso@example.com"}}

	env.mocks.templates.EXPECT().Send(gomock.Any(), env.orgID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, req models.SendRequest) (uuid.UUID, error) {
			assert.Equal(t, templateID, req.TemplateID)
			assert.Equal(t, []string{"ciso@example.com"}, req.Recipients)
			return messageID, nil
		})

	w := makeRequest(env.router, http.MethodPost, "/api/v1/communications/send", jsonBody(t, body), env.bearer(t, models.RoleResponder))

	assert.Equal(t, http.StatusAccepted, w.Code)
	resp := decode[SendCommunicationResponse](t, w)
	assert.Equal(t, messageID, resp.ID)
	assert.Equal(t, "queued", resp.Status)
}

func TestSendCommunication_MissingVariables(t *testing.T) {
	env := newTestEnv(t)
	env.mocks.templates.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(uuid.Nil, fmt.Errorf("service: %s: %w", "incident.title, custom.eta", models.ErrMissingVariables))

	body := SendCommunicationRequest{TemplateID: uuid.New(), Channel: "email", Recipients: []string{"ciso@example.com"}}
	w := makeRequest(env.router, http.MethodPost, "/api/v1/communications/send", jsonBody(t, body), env.bearer(t, models.RoleResponder))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decode[map[string]string](t, w)
	assert.Equal(t, "unresolved template variables", resp["error"])
	assert.Equal(t, "incident.title, custom.eta: unresolved template variables", resp["details"])
}

func TestSendCommunication_RequiresRecipients(t *testing.T) {
	env := newTestEnv(t)
	env.mocks.templates.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	body := SendCommunicationRequest{TemplateID: uuid.New(), Channel: "email"}
	w := makeRequest(env.router, http.MethodPost, "/api/v1/communications/send", jsonBody(t, body), env.bearer(t, models.RoleResponder))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func testExecution(now time.Time) *models.RunbookExecution {
	rb := &models.Runbook{
		ID:             uuid.New(),
		OrganizationID: uuid.New(),
		Steps: []models.RunbookStep{
			{ID: "s1", Phase: models.PhaseDetection, Title: "Triage"},
			{ID: "s2", Phase: models.PhaseContainment, Title: "Isolate host"},
		},
	}
	e := models.NewRunbookExecution(rb, nil, nil, now)
	e.ID = uuid.New()
	return e
}

func TestGetExecution_IncludesProgress(t *testing.T) {
	env := newTestEnv(t)
	started := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	env.handler.now = func() time.Time { return started.Add(90 * time.Second) }
	execution := testExecution(started)
	require.NoError(t, execution.CompleteStep("s1", nil, "", false, started.Add(time.Minute)))

	env.mocks.runbooks.EXPECT().GetExecution(gomock.Any(), env.orgID, execution.ID).Return(execution, nil)

	w := makeRequest(env.router, http.MethodGet, "/api/v1/runbook-executions/"+execution.ID.String(), nil, env.bearer(t, models.RoleViewer))

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[struct {
		Status   string                   `json:"status"`
		Progress models.ExecutionProgress `json:"progress"`
	}](t, w)
	assert.Equal(t, models.ExecutionStatusRunning, resp.Status)
	assert.Equal(t, 50, resp.Progress.Percent)
	assert.Equal(t, models.PhaseContainment, resp.Progress.CurrentPhase)
	assert.Equal(t, int64(90), resp.Progress.ElapsedSeconds)
}

func TestCompleteStep_PassesNotes(t *testing.T) {
	env := newTestEnv(t)
	execution := testExecution(time.Now())

	env.mocks.runbooks.EXPECT().CompleteStep(gomock.Any(), env.orgID, execution.ID, "s1", "host isolated").
		Return(execution, nil)

	w := makeRequest(env.router, http.MethodPost,
		"/api/v1/runbook-executions/"+execution.ID.String()+"/steps/s1/complete",
		jsonBody(t, StepActionRequest{Notes: "host isolated"}), env.bearer(t, models.RoleResponder))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPauseExecution_InvalidState(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.New()
	env.mocks.runbooks.EXPECT().PauseExecution(gomock.Any(), env.orgID, id).
		Return(nil, fmt.Errorf("service: %w", models.ErrInvalidState))

	w := makeRequest(env.router, http.MethodPost, "/api/v1/runbook-executions/"+id.String()+"/pause", nil, env.bearer(t, models.RoleResponder))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateExercise_FeatureNotLicensed(t *testing.T) {
	env := newTestEnv(t)
	env.mocks.exercises.EXPECT().CreateExercise(gomock.Any(), env.orgID, gomock.Any()).
		Return(fmt.Errorf("service: exercises: %w", models.ErrFeatureNotLicensed))

	body := ExerciseRequest{Title: "Ransomware tabletop", Type: models.ExerciseTypeTabletop, ScheduledAt: time.Now().Add(24 * time.Hour)}
	w := makeRequest(env.router, http.MethodPost, "/api/v1/exercises", jsonBody(t, body), env.bearer(t, models.RoleAdmin))

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
}

func TestCompleteExercise(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.New()
	env.mocks.exercises.EXPECT().CompleteExercise(gomock.Any(), env.orgID, id, "Escalation path unclear").
		Return(&models.Exercise{ID: id, Status: models.ExerciseStatusCompleted}, nil)

	w := makeRequest(env.router, http.MethodPost, "/api/v1/exercises/"+id.String()+"/complete",
		jsonBody(t, CompleteExerciseRequest{Findings: "Escalation path unclear"}), env.bearer(t, models.RoleResponder))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ExerciseStatusCompleted, decode[models.Exercise](t, w).Status)
}

func TestProvisionOrganization(t *testing.T) {
	env := newTestEnv(t)
	body := ProvisionOrganizationRequest{
		Name:          "Acme Corp",
		Slug:          "acme-corp",
		Plan:          models.PlanStandard,
		AdminEmail:    "owner@acme.test",
		AdminName:     "Owner",
		AdminPassword: "correct-horse",
	}

	env.mocks.organizations.EXPECT().Provision(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req models.ProvisionRequest) (*models.Organization, error) {
			assert.Equal(t, "acme-corp", req.Slug)
			assert.Equal(t, "owner@acme.test", req.AdminEmail)
			return &models.Organization{ID: uuid.New(), Name: req.Name, Slug: req.Slug, Status: models.OrganizationStatusActive}, nil
		})

	w := makeRequest(env.router, http.MethodPost, "/api/v1/system-admin/organizations", jsonBody(t, body), env.systemAdminBearer(t))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "acme-corp", decode[models.Organization](t, w).Slug)
}

func TestProvisionOrganization_InvalidSlug(t *testing.T) {
	env := newTestEnv(t)
	env.mocks.organizations.EXPECT().Provision(gomock.Any(), gomock.Any()).Times(0)

	for _, slug := range []string{"Acme", "acme_corp", "-acme", "acme--corp"} {
		body := ProvisionOrganizationRequest{
			Name:          "Acme",
			Slug:          slug,
			AdminEmail:    "owner@acme.test",
			AdminName:     "Owner",
			AdminPassword: "correct-horse",
		}
		w := makeRequest(env.router, http.MethodPost, "/api/v1/system-admin/organizations", jsonBody(t, body), map[string]string{"X-API-Key": testAPIKey})
		assert.Equal(t, http.StatusBadRequest, w.Code, slug)
	}
}

func TestSetOrganizationStatus(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.New()
	env.mocks.organizations.EXPECT().SetStatus(gomock.Any(), id, models.OrganizationStatusSuspended).Return(nil)

	w := makeRequest(env.router, http.MethodPatch, "/api/v1/system-admin/organizations/"+id.String()+"/status",
		jsonBody(t, OrganizationStatusRequest{Status: models.OrganizationStatusSuspended}), map[string]string{"X-API-Key": testAPIKey})

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestUpdateLicense(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.New()
	maxUsers := 100
	env.mocks.licenses.EXPECT().UpdateLicense(gomock.Any(), id, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, u models.LicenseUpdate) (*models.License, error) {
			require.NotNil(t, u.MaxUsers)
			assert.Equal(t, 100, *u.MaxUsers)
			assert.Nil(t, u.Plan)
			return &models.License{OrganizationID: id, MaxUsers: 100}, nil
		})

	w := makeRequest(env.router, http.MethodPut, "/api/v1/system-admin/organizations/"+id.String()+"/license",
		jsonBody(t, UpdateLicenseRequest{MaxUsers: &maxUsers}), map[string]string{"X-API-Key": testAPIKey})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListPlatformAuditLogs_OrganizationFilter(t *testing.T) {
	env := newTestEnv(t)
	org := uuid.New()
	env.mocks.audit.EXPECT().List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f models.AuditFilter) (models.Page[*models.AuditLog], error) {
			require.NotNil(t, f.OrganizationID)
			assert.Equal(t, org, *f.OrganizationID)
			return models.NewPage([]*models.AuditLog{{ID: 1, Action: "organization.provision"}}, 1, f.PageRequest), nil
		})

	w := makeRequest(env.router, http.MethodGet, "/api/v1/system-admin/audit-logs?organization_id="+org.String(), nil, map[string]string{"X-API-Key": testAPIKey})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[PageResponse[*models.AuditLog]](t, w).Data, 1)
}

func TestCreateUser_Forbidden(t *testing.T) {
	env := newTestEnv(t)
	env.mocks.users.EXPECT().CreateUser(gomock.Any(), env.orgID, gomock.Any(), "long-enough-pw").
		Return(fmt.Errorf("service: only owners can create owners: %w", models.ErrForbidden))

	body := CreateUserRequest{Email: "new@example.com", Name: "New", Role: models.RoleOwner, Password: "long-enough-pw"}
	w := makeRequest(env.router, http.MethodPost, "/api/v1/organization/users", jsonBody(t, body), env.bearer(t, models.RoleAdmin))

	assert.Equal(t, http.StatusForbidden, w.Code)
}
