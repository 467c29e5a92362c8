package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/irdesk/internal/models"
	"github.com/sirupsen/logrus"
)

// @Summary List organizations
// @Tags System admin
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Number of items per page" default(20)
// @Param status query string false "active or suspended"
// @Param search query string false "Search in name and slug"
// @Success 200 {object} PageResponse[models.Organization]
// @Failure 403 {object} map[string]string "System administrator required"
// @Router /system-admin/organizations [get]
func (h *Handler) listOrganizations(c *gin.Context) {
	log := h.log(c, "listOrganizations")
	filter := models.OrganizationFilter{
		Search:      c.Query("search"),
		Status:      c.Query("status"),
		PageRequest: pageRequest(c),
	}
	page, err := h.services.Organizations.ListOrganizations(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, log, err, "Failed to list organizations from service")
		return
	}
	c.JSON(http.StatusOK, newPageResponse(page))
}

// @Summary Provision an organization
// @Description Create a tenant with its license, owner account and default dropdowns in one transaction.
// @Tags System admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param organization body ProvisionOrganizationRequest true "Tenant"
// @Success 201 {object} models.Organization
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 409 {object} map[string]string "Slug or admin email already in use"
// @Router /system-admin/organizations [post]
func (h *Handler) provisionOrganization(c *gin.Context) {
	log := h.log(c, "provisionOrganization")
	var input ProvisionOrganizationRequest
	if !h.bind(c, log, &input) {
		return
	}

	org, err := h.services.Organizations.Provision(c.Request.Context(), ProvisionRequestToModel(input))
	if err != nil {
		h.respondError(c, log, err, "Failed to provision organization in service")
		return
	}
	c.JSON(http.StatusCreated, org)
}

// @Summary Get an organization
// @Tags System admin
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param id path string true "Organization ID"
// @Success 200 {object} models.Organization
// @Failure 404 {object} map[string]string "Organization not found"
// @Router /system-admin/organizations/{id} [get]
func (h *Handler) getOrganizationByID(c *gin.Context) {
	id, ok := parseID(c, "id", "organization")
	if !ok {
		return
	}
	log := h.log(c, "getOrganizationByID").WithField("id", id)

	org, err := h.services.Organizations.GetOrganization(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err, "Failed to get organization from service")
		return
	}
	c.JSON(http.StatusOK, org)
}

// @Summary Update an organization
// @Tags System admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param id path string true "Organization ID"
// @Param organization body UpdateOrganizationRequest true "Organization settings"
// @Success 200 {object} models.Organization
// @Failure 404 {object} map[string]string "Organization not found"
// @Router /system-admin/organizations/{id} [put]
func (h *Handler) updateOrganizationByID(c *gin.Context) {
	id, ok := parseID(c, "id", "organization")
	if !ok {
		return
	}
	log := h.log(c, "updateOrganizationByID").WithField("id", id)

	var input UpdateOrganizationRequest
	if !h.bind(c, log, &input) {
		return
	}
	h.saveOrganization(c, log, id, input)
}

func (h *Handler) saveOrganization(c *gin.Context, log *logrus.Entry, id uuid.UUID, input UpdateOrganizationRequest) {
	org, err := h.services.Organizations.UpdateOrganization(c.Request.Context(), &models.Organization{
		ID:           id,
		Name:         input.Name,
		ContactEmail: input.ContactEmail,
	})
	if err != nil {
		h.respondError(c, log, err, "Failed to update organization in service")
		return
	}
	c.JSON(http.StatusOK, org)
}

// @Summary Suspend or reactivate an organization
// @Description Members of a suspended organization cannot log in.
// @Tags System admin
// @Accept json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param id path string true "Organization ID"
// @Param status body OrganizationStatusRequest true "Target status"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Organization not found"
// @Router /system-admin/organizations/{id}/status [patch]
func (h *Handler) setOrganizationStatus(c *gin.Context) {
	id, ok := parseID(c, "id", "organization")
	if !ok {
		return
	}
	log := h.log(c, "setOrganizationStatus").WithField("id", id)

	var input OrganizationStatusRequest
	if !h.bind(c, log, &input) {
		return
	}
	if err := h.services.Organizations.SetStatus(c.Request.Context(), id, input.Status); err != nil {
		h.respondError(c, log, err, "Failed to set organization status in service")
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Get an organization license
// @Tags System admin
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param id path string true "Organization ID"
// @Success 200 {object} models.LicenseUsage
// @Failure 404 {object} map[string]string "Organization not found"
// @Router /system-admin/organizations/{id}/license [get]
func (h *Handler) getLicense(c *gin.Context) {
	id, ok := parseID(c, "id", "organization")
	if !ok {
		return
	}
	log := h.log(c, "getLicense").WithField("id", id)

	usage, err := h.services.Licenses.GetUsage(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err, "Failed to get license from service")
		return
	}
	c.JSON(http.StatusOK, usage)
}

// @Summary Update an organization license
// @Description Changing the plan resets limits and features to the plan defaults before explicit overrides apply.
// @Tags System admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param id path string true "Organization ID"
// @Param license body UpdateLicenseRequest true "License changes"
// @Success 200 {object} models.License
// @Failure 404 {object} map[string]string "Organization not found"
// @Router /system-admin/organizations/{id}/license [put]
func (h *Handler) updateLicense(c *gin.Context) {
	id, ok := parseID(c, "id", "organization")
	if !ok {
		return
	}
	log := h.log(c, "updateLicense").WithField("id", id)

	var input UpdateLicenseRequest
	if !h.bind(c, log, &input) {
		return
	}
	license, err := h.services.Licenses.UpdateLicense(c.Request.Context(), id, LicenseRequestToUpdate(input))
	if err != nil {
		h.respondError(c, log, err, "Failed to update license in service")
		return
	}
	c.JSON(http.StatusOK, license)
}

// @Summary Platform statistics
// @Tags System admin
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Success 200 {object} models.PlatformStats
// @Router /system-admin/stats [get]
func (h *Handler) getPlatformStats(c *gin.Context) {
	log := h.log(c, "getPlatformStats")
	stats, err := h.services.Organizations.PlatformStats(c.Request.Context())
	if err != nil {
		h.respondError(c, log, err, "Failed to get platform stats from service")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary Cross-tenant audit logs
// @Tags System admin
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param organization_id query string false "Restrict to one organization"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Number of items per page" default(20)
// @Param category query string false "Category"
// @Param action query string false "Action"
// @Param actor_id query string false "Acting user"
// @Param resource_type query string false "Resource type"
// @Param from query string false "From (RFC 3339, inclusive)"
// @Param to query string false "To (RFC 3339, exclusive)"
// @Success 200 {object} PageResponse[models.AuditLog]
// @Router /system-admin/audit-logs [get]
func (h *Handler) listPlatformAuditLogs(c *gin.Context) {
	log := h.log(c, "listPlatformAuditLogs")
	filter, ok := auditFilter(c)
	if !ok {
		return
	}
	org, ok := parseOptionalUUID(c, "organization_id")
	if !ok {
		return
	}
	filter.OrganizationID = org
	h.listAuditLogs(c, log, filter)
}

func auditFilter(c *gin.Context) (models.AuditFilter, bool) {
	actor, ok := parseOptionalUUID(c, "actor_id")
	if !ok {
		return models.AuditFilter{}, false
	}
	from, ok := parseOptionalTime(c, "from")
	if !ok {
		return models.AuditFilter{}, false
	}
	to, ok := parseOptionalTime(c, "to")
	if !ok {
		return models.AuditFilter{}, false
	}
	return models.AuditFilter{
		Category:     c.Query("category"),
		Action:       c.Query("action"),
		ActorID:      actor,
		ResourceType: c.Query("resource_type"),
		From:         from,
		To:           to,
		PageRequest:  pageRequest(c),
	}, true
}

func (h *Handler) listAuditLogs(c *gin.Context, log *logrus.Entry, filter models.AuditFilter) {
	page, err := h.services.Audit.List(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, log, err, "Failed to list audit logs from service")
		return
	}
	c.JSON(http.StatusOK, newPageResponse(page))
}
