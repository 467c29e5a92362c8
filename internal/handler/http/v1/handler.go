package v1

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shenikar/irdesk/internal/auth"
	"github.com/shenikar/irdesk/internal/config"
	"github.com/shenikar/irdesk/internal/models"
	"github.com/shenikar/irdesk/internal/service"
	"github.com/sirupsen/logrus"
)

// Services groups the business services the API exposes.
type Services struct {
	Auth          service.AuthService
	Users         service.UserService
	Organizations service.OrganizationService
	Licenses      service.LicenseService
	Audit         service.AuditService
	Incidents     service.IncidentService
	Assets        service.AssetService
	Tags          service.TagService
	Dropdowns     service.DropdownService
	Templates     service.TemplateService
	Runbooks      service.RunbookService
	Exercises     service.ExerciseService
}

// TokenParser turns a bearer token into the actor it was issued for.
type TokenParser interface {
	Parse(token string) (models.Actor, error)
}

// RateLimiter counts hits per key.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type Handler struct {
	services Services
	tokens   TokenParser
	limiter  RateLimiter
	logger   *logrus.Logger
	validate *validator.Validate
	cfg      *config.Config
	now      func() time.Time
}

func NewHandler(services Services, tokens TokenParser, limiter RateLimiter, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		services: services,
		tokens:   tokens,
		limiter:  limiter,
		logger:   logger,
		validate: newValidator(),
		cfg:      cfg,
		now:      time.Now,
	}
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func newValidator() *validator.Validate {
	v := validator.New()
	err := v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}
	return v
}

func (h *Handler) log(c *gin.Context, method string) *logrus.Entry {
	fields := logrus.Fields{"handler": "v1", "method": method}
	if actor, ok := auth.ActorFromContext(c.Request.Context()); ok {
		if actor.HasOrganization() {
			fields["organization_id"] = actor.OrganizationID
		}
		if actor.UserID != uuid.Nil {
			fields["user_id"] = actor.UserID
		}
	}
	return h.logger.WithFields(fields)
}

// bind decodes and validates the JSON body, answering 400 on failure.
func (h *Handler) bind(c *gin.Context, log *logrus.Entry, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func parseID(c *gin.Context, param, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + what + " ID"})
		return uuid.Nil, false
	}
	return id, true
}

// parseOptionalUUID reads an optional uuid query parameter.
func parseOptionalUUID(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return nil, false
	}
	return &id, true
}

// parseOptionalTime reads an optional RFC 3339 query parameter.
func parseOptionalTime(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + ", expected RFC 3339"})
		return nil, false
	}
	return &t, true
}

func pageRequest(c *gin.Context) models.PageRequest {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(models.DefaultPageSize)))
	return models.PageRequest{Page: page, PageSize: pageSize}.Normalize()
}

// PageResponse is the envelope of every paginated listing.
type PageResponse[T any] struct {
	Data       []T `json:"data"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func newPageResponse[T any](p models.Page[T]) PageResponse[T] {
	data := p.Items
	if data == nil {
		data = make([]T, 0)
	}
	return PageResponse[T]{
		Data:       data,
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      p.Total,
		TotalPages: p.TotalPages(),
	}
}

var errorStatuses = []struct {
	target error
	status int
}{
	{models.ErrNotFound, http.StatusNotFound},
	{models.ErrConflict, http.StatusConflict},
	{models.ErrForbidden, http.StatusForbidden},
	{models.ErrOrganizationSuspended, http.StatusForbidden},
	{models.ErrLicenseLimit, http.StatusPaymentRequired},
	{models.ErrLicenseExpired, http.StatusPaymentRequired},
	{models.ErrFeatureNotLicensed, http.StatusPaymentRequired},
	{models.ErrInvalidTransition, http.StatusConflict},
	{models.ErrInvalidState, http.StatusConflict},
	{models.ErrValidation, http.StatusUnprocessableEntity},
	{models.ErrMissingVariables, http.StatusUnprocessableEntity},
	{models.ErrInvalidCredentials, http.StatusUnauthorized},
}

// respondError maps a service error to its status code. Only the sentinel text is
// exposed, plus the error detail for unprocessable input.
func (h *Handler) respondError(c *gin.Context, log *logrus.Entry, err error, msg string) {
	for _, e := range errorStatuses {
		if !errors.Is(err, e.target) {
			continue
		}
		log.WithError(err).Warn(msg)
		body := gin.H{"error": e.target.Error()}
		if e.status == http.StatusUnprocessableEntity {
			body["details"] = strings.TrimPrefix(err.Error(), "service: ")
		}
		c.JSON(e.status, body)
		return
	}
	log.WithError(err).Error(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
