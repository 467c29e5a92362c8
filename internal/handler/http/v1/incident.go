package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/irdesk/internal/models"
)

// @Summary Create a new incident
// @Description Open a new incident in the caller's organization.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param incident body IncidentRequest true "Incident creation request"
// @Success 201 {object} models.Incident
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [post]
func (h *Handler) createIncident(c *gin.Context) {
	log := h.log(c, "createIncident")
	var input IncidentRequest
	if !h.bind(c, log, &input) {
		return
	}

	model := IncidentRequestToModel(input)
	if err := h.services.Incidents.CreateIncident(c.Request.Context(), orgID(c), model); err != nil {
		h.respondError(c, log, err, "Failed to create incident in service")
		return
	}
	c.JSON(http.StatusCreated, model)
}

// @Summary Get a list of incidents
// @Description Get a paginated, filtered list of incidents.
// @Tags Incidents
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Number of items per page" default(20)
// @Param status query string false "Status filter"
// @Param severity query string false "Severity filter"
// @Param category query string false "Category filter"
// @Param assignee_id query string false "Assignee filter"
// @Param tag query string false "Tag filter"
// @Param search query string false "Search in title and description"
// @Success 200 {object} PageResponse[models.Incident]
// @Failure 400 {object} map[string]string "Invalid filter"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [get]
func (h *Handler) listIncidents(c *gin.Context) {
	log := h.log(c, "listIncidents")
	assignee, ok := parseOptionalUUID(c, "assignee_id")
	if !ok {
		return
	}
	filter := models.IncidentFilter{
		Status:      c.Query("status"),
		Severity:    c.Query("severity"),
		Category:    c.Query("category"),
		AssigneeID:  assignee,
		Tag:         strings.ToLower(strings.TrimSpace(c.Query("tag"))),
		Search:      c.Query("search"),
		PageRequest: pageRequest(c),
	}

	page, err := h.services.Incidents.ListIncidents(c.Request.Context(), orgID(c), filter)
	if err != nil {
		h.respondError(c, log, err, "Failed to list incidents from service")
		return
	}
	c.JSON(http.StatusOK, newPageResponse(page))
}

// @Summary Get incident by ID
// @Description Get a single incident by its ID.
// @Tags Incidents
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} models.Incident
// @Failure 400 {object} map[string]string "Invalid incident ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id} [get]
func (h *Handler) getIncident(c *gin.Context) {
	id, ok := parseID(c, "id", "incident")
	if !ok {
		return
	}
	log := h.log(c, "getIncident").WithField("id", id)

	incident, err := h.services.Incidents.GetIncident(c.Request.Context(), orgID(c), id)
	if err != nil {
		h.respondError(c, log, err, "Failed to get incident from service")
		return
	}
	c.JSON(http.StatusOK, incident)
}

// @Summary Update an existing incident
// @Description Replace the editable fields of an incident. Status changes go through the status endpoint.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Param incident body IncidentRequest true "Incident update request"
// @Success 200 {object} models.Incident
// @Failure 400 {object} map[string]string "Invalid incident ID or request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id} [put]
func (h *Handler) updateIncident(c *gin.Context) {
	id, ok := parseID(c, "id", "incident")
	if !ok {
		return
	}
	log := h.log(c, "updateIncident").WithField("id", id)

	var input IncidentRequest
	if !h.bind(c, log, &input) {
		return
	}

	model := IncidentRequestToModel(input)
	model.ID = id
	updated, err := h.services.Incidents.UpdateIncident(c.Request.Context(), orgID(c), model)
	if err != nil {
		h.respondError(c, log, err, "Failed to update incident in service")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// @Summary Change incident status
// @Description Move an incident along its response lifecycle.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Param status body IncidentStatusRequest true "Target status"
// @Success 200 {object} models.Incident
// @Failure 400 {object} map[string]string "Invalid incident ID or request body"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 409 {object} map[string]string "Transition not allowed"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id}/status [patch]
func (h *Handler) changeIncidentStatus(c *gin.Context) {
	id, ok := parseID(c, "id", "incident")
	if !ok {
		return
	}
	log := h.log(c, "changeIncidentStatus").WithField("id", id)

	var input IncidentStatusRequest
	if !h.bind(c, log, &input) {
		return
	}

	incident, err := h.services.Incidents.ChangeStatus(c.Request.Context(), orgID(c), id, input.Status)
	if err != nil {
		h.respondError(c, log, err, "Failed to change incident status in service")
		return
	}
	c.JSON(http.StatusOK, incident)
}

// @Summary Delete an incident
// @Description Permanently delete an incident. Requires admin role.
// @Tags Incidents
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid incident ID"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id} [delete]
func (h *Handler) deleteIncident(c *gin.Context) {
	id, ok := parseID(c, "id", "incident")
	if !ok {
		return
	}
	log := h.log(c, "deleteIncident").WithField("id", id)

	if err := h.services.Incidents.DeleteIncident(c.Request.Context(), orgID(c), id); err != nil {
		h.respondError(c, log, err, "Failed to delete incident in service")
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Get incident statistics
// @Description Count the organization's incidents by status and severity.
// @Tags Incidents
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.IncidentStats
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/stats [get]
func (h *Handler) getIncidentStats(c *gin.Context) {
	log := h.log(c, "getIncidentStats")

	stats, err := h.services.Incidents.GetStats(c.Request.Context(), orgID(c))
	if err != nil {
		h.respondError(c, log, err, "Failed to get stats from service")
		return
	}
	c.JSON(http.StatusOK, stats)
}
