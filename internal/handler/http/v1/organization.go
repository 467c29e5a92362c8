package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/irdesk/internal/models"
)

// @Summary Get the current organization
// @Tags Organization
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Organization
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /organization [get]
func (h *Handler) getOrganization(c *gin.Context) {
	log := h.log(c, "getOrganization")
	org, err := h.services.Organizations.GetOrganization(c.Request.Context(), orgID(c))
	if err != nil {
		h.respondError(c, log, err, "Failed to get organization from service")
		return
	}
	c.JSON(http.StatusOK, org)
}

// @Summary Update the current organization
// @Tags Organization
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param organization body UpdateOrganizationRequest true "Organization settings"
// @Success 200 {object} models.Organization
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /organization [put]
func (h *Handler) updateOrganization(c *gin.Context) {
	log := h.log(c, "updateOrganization")
	var input UpdateOrganizationRequest
	if !h.bind(c, log, &input) {
		return
	}
	h.saveOrganization(c, log, orgID(c), input)
}

// @Summary Get the organization license
// @Description License terms with current usage of each limited resource.
// @Tags Organization
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.LicenseUsage
// @Router /organization/license [get]
func (h *Handler) getOrganizationLicense(c *gin.Context) {
	log := h.log(c, "getOrganizationLicense")
	usage, err := h.services.Licenses.GetUsage(c.Request.Context(), orgID(c))
	if err != nil {
		h.respondError(c, log, err, "Failed to get license usage from service")
		return
	}
	c.JSON(http.StatusOK, usage)
}

// @Summary Create a user
// @Description Add a user to the organization. Subject to the license user limit.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body CreateUserRequest true "User"
// @Success 201 {object} models.User
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 402 {object} map[string]string "License limit reached"
// @Failure 409 {object} map[string]string "Email already in use"
// @Router /organization/users [post]
func (h *Handler) createUser(c *gin.Context) {
	log := h.log(c, "createUser")
	var input CreateUserRequest
	if !h.bind(c, log, &input) {
		return
	}

	user := CreateUserRequestToModel(input)
	if err := h.services.Users.CreateUser(c.Request.Context(), orgID(c), user, input.Password); err != nil {
		h.respondError(c, log, err, "Failed to create user in service")
		return
	}
	c.JSON(http.StatusCreated, user)
}

// @Summary List users
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Number of items per page" default(20)
// @Param role query string false "Role filter"
// @Param search query string false "Search in name and email"
// @Success 200 {object} PageResponse[models.User]
// @Router /organization/users [get]
func (h *Handler) listUsers(c *gin.Context) {
	log := h.log(c, "listUsers")
	filter := models.UserFilter{
		Search:      c.Query("search"),
		Role:        c.Query("role"),
		PageRequest: pageRequest(c),
	}
	page, err := h.services.Users.ListUsers(c.Request.Context(), orgID(c), filter)
	if err != nil {
		h.respondError(c, log, err, "Failed to list users from service")
		return
	}
	c.JSON(http.StatusOK, newPageResponse(page))
}

// @Summary Get a user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} map[string]string "User not found"
// @Router /organization/users/{id} [get]
func (h *Handler) getUser(c *gin.Context) {
	id, ok := parseID(c, "id", "user")
	if !ok {
		return
	}
	log := h.log(c, "getUser").WithField("id", id)

	user, err := h.services.Users.GetUser(c.Request.Context(), orgID(c), id)
	if err != nil {
		h.respondError(c, log, err, "Failed to get user from service")
		return
	}
	c.JSON(http.StatusOK, user)
}

// @Summary Update a user
// @Description Change name, role or active flag. Only owners may change owners.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param user body UpdateUserRequest true "Fields to change"
// @Success 200 {object} models.User
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "User not found"
// @Router /organization/users/{id} [put]
func (h *Handler) updateUser(c *gin.Context) {
	id, ok := parseID(c, "id", "user")
	if !ok {
		return
	}
	log := h.log(c, "updateUser").WithField("id", id)

	var input UpdateUserRequest
	if !h.bind(c, log, &input) {
		return
	}

	user, err := h.services.Users.UpdateUser(c.Request.Context(), orgID(c), id, UpdateUserRequestToModel(input))
	if err != nil {
		h.respondError(c, log, err, "Failed to update user in service")
		return
	}
	c.JSON(http.StatusOK, user)
}

// @Summary Deactivate a user
// @Tags Users
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "User not found"
// @Router /organization/users/{id} [delete]
func (h *Handler) deactivateUser(c *gin.Context) {
	id, ok := parseID(c, "id", "user")
	if !ok {
		return
	}
	log := h.log(c, "deactivateUser").WithField("id", id)

	if err := h.services.Users.DeactivateUser(c.Request.Context(), orgID(c), id); err != nil {
		h.respondError(c, log, err, "Failed to deactivate user in service")
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Reset a user's password
// @Tags Users
// @Accept json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param password body ResetPasswordRequest true "New password"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "User not found"
// @Router /organization/users/{id}/password [post]
func (h *Handler) resetUserPassword(c *gin.Context) {
	id, ok := parseID(c, "id", "user")
	if !ok {
		return
	}
	log := h.log(c, "resetUserPassword").WithField("id", id)

	var input ResetPasswordRequest
	if !h.bind(c, log, &input) {
		return
	}
	if err := h.services.Users.ResetPassword(c.Request.Context(), orgID(c), id, input.Password); err != nil {
		h.respondError(c, log, err, "Failed to reset password in service")
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary List tags
// @Tags Tags
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Tag
// @Router /organization/tags [get]
func (h *Handler) listTags(c *gin.Context) {
	log := h.log(c, "listTags")
	tags, err := h.services.Tags.ListTags(c.Request.Context(), orgID(c))
	if err != nil {
		h.respondError(c, log, err, "Failed to list tags from service")
		return
	}
	c.JSON(http.StatusOK, tags)
}

// @Summary Create a tag
// @Tags Tags
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tag body TagRequest true "Tag"
// @Success 201 {object} models.Tag
// @Failure 409 {object} map[string]string "Tag already exists"
// @Router /organization/tags [post]
func (h *Handler) createTag(c *gin.Context) {
	log := h.log(c, "createTag")
	var input TagRequest
	if !h.bind(c, log, &input) {
		return
	}

	tag := &models.Tag{Name: input.Name, Color: input.Color}
	if err := h.services.Tags.CreateTag(c.Request.Context(), orgID(c), tag); err != nil {
		h.respondError(c, log, err, "Failed to create tag in service")
		return
	}
	c.JSON(http.StatusCreated, tag)
}

// @Summary Update a tag
// @Tags Tags
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tag ID"
// @Param tag body TagRequest true "Tag"
// @Success 200 {object} models.Tag
// @Failure 404 {object} map[string]string "Tag not found"
// @Failure 409 {object} map[string]string "Tag already exists"
// @Router /organization/tags/{id} [put]
func (h *Handler) updateTag(c *gin.Context) {
	id, ok := parseID(c, "id", "tag")
	if !ok {
		return
	}
	log := h.log(c, "updateTag").WithField("id", id)

	var input TagRequest
	if !h.bind(c, log, &input) {
		return
	}

	tag := &models.Tag{ID: id, Name: input.Name, Color: input.Color}
	if err := h.services.Tags.UpdateTag(c.Request.Context(), orgID(c), tag); err != nil {
		h.respondError(c, log, err, "Failed to update tag in service")
		return
	}
	c.JSON(http.StatusOK, tag)
}

// @Summary Delete a tag
// @Tags Tags
// @Security BearerAuth
// @Param id path string true "Tag ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Tag not found"
// @Router /organization/tags/{id} [delete]
func (h *Handler) deleteTag(c *gin.Context) {
	id, ok := parseID(c, "id", "tag")
	if !ok {
		return
	}
	log := h.log(c, "deleteTag").WithField("id", id)

	if err := h.services.Tags.DeleteTag(c.Request.Context(), orgID(c), id); err != nil {
		h.respondError(c, log, err, "Failed to delete tag in service")
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary List dropdowns
// @Tags Dropdowns
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Dropdown
// @Router /organization/dropdowns [get]
func (h *Handler) listDropdowns(c *gin.Context) {
	log := h.log(c, "listDropdowns")
	dropdowns, err := h.services.Dropdowns.ListDropdowns(c.Request.Context(), orgID(c))
	if err != nil {
		h.respondError(c, log, err, "Failed to list dropdowns from service")
		return
	}
	c.JSON(http.StatusOK, dropdowns)
}

// @Summary Get a dropdown
// @Tags Dropdowns
// @Produce json
// @Security BearerAuth
// @Param key path string true "Dropdown key"
// @Success 200 {object} models.Dropdown
// @Failure 404 {object} map[string]string "Dropdown not found"
// @Router /organization/dropdowns/{key} [get]
func (h *Handler) getDropdown(c *gin.Context) {
	key := c.Param("key")
	log := h.log(c, "getDropdown").WithField("key", key)

	dropdown, err := h.services.Dropdowns.GetDropdown(c.Request.Context(), orgID(c), key)
	if err != nil {
		h.respondError(c, log, err, "Failed to get dropdown from service")
		return
	}
	c.JSON(http.StatusOK, dropdown)
}

// @Summary Save dropdown options
// @Description Create or replace the options of a dropdown. Values must be unique; order is kept.
// @Tags Dropdowns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param key path string true "Dropdown key"
// @Param dropdown body DropdownRequest true "Dropdown options"
// @Success 200 {object} models.Dropdown
// @Failure 422 {object} map[string]string "Invalid options"
// @Router /organization/dropdowns/{key} [put]
func (h *Handler) saveDropdown(c *gin.Context) {
	key := c.Param("key")
	log := h.log(c, "saveDropdown").WithField("key", key)

	var input DropdownRequest
	if !h.bind(c, log, &input) {
		return
	}

	dropdown := DropdownRequestToModel(key, input)
	if err := h.services.Dropdowns.SaveDropdown(c.Request.Context(), orgID(c), dropdown); err != nil {
		h.respondError(c, log, err, "Failed to save dropdown in service")
		return
	}
	c.JSON(http.StatusOK, dropdown)
}

// @Summary Delete a dropdown
// @Tags Dropdowns
// @Security BearerAuth
// @Param key path string true "Dropdown key"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Dropdown not found"
// @Router /organization/dropdowns/{key} [delete]
func (h *Handler) deleteDropdown(c *gin.Context) {
	key := c.Param("key")
	log := h.log(c, "deleteDropdown").WithField("key", key)

	if err := h.services.Dropdowns.DeleteDropdown(c.Request.Context(), orgID(c), key); err != nil {
		h.respondError(c, log, err, "Failed to delete dropdown in service")
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary List audit logs
// @Description Audit trail of the organization, newest first.
// @Tags Audit
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Number of items per page" default(20)
// @Param category query string false "Category"
// @Param action query string false "Action, e.g. incident.create"
// @Param actor_id query string false "Acting user"
// @Param resource_type query string false "Resource type"
// @Param from query string false "From (RFC 3339, inclusive)"
// @Param to query string false "To (RFC 3339, exclusive)"
// @Success 200 {object} PageResponse[models.AuditLog]
// @Failure 400 {object} map[string]string "Invalid filter"
// @Router /organization/audit-logs [get]
func (h *Handler) listOrganizationAuditLogs(c *gin.Context) {
	log := h.log(c, "listOrganizationAuditLogs")
	filter, ok := auditFilter(c)
	if !ok {
		return
	}
	id := orgID(c)
	filter.OrganizationID = &id
	h.listAuditLogs(c, log, filter)
}
