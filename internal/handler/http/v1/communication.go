package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/irdesk/internal/models"
)

// @Summary Create a communication template
// @Description Placeholders of the form {{namespace.field}} are extracted from subject and body.
// @Tags Communications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param template body TemplateRequest true "Template"
// @Success 201 {object} models.Template
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 409 {object} map[string]string "Template name already exists"
// @Router /communications/templates [post]
func (h *Handler) createTemplate(c *gin.Context) {
	log := h.log(c, "createTemplate")
	var input TemplateRequest
	if !h.bind(c, log, &input) {
		return
	}

	tmpl := TemplateRequestToModel(input)
	if err := h.services.Templates.CreateTemplate(c.Request.Context(), orgID(c), tmpl); err != nil {
		h.respondError(c, log, err, "Failed to create template in service")
		return
	}
	c.JSON(http.StatusCreated, tmpl)
}

// @Summary List communication templates
// @Tags Communications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Number of items per page" default(20)
// @Param category query string false "Category"
// @Param search query string false "Search in name and subject"
// @Success 200 {object} PageResponse[models.Template]
// @Router /communications/templates [get]
func (h *Handler) listTemplates(c *gin.Context) {
	log := h.log(c, "listTemplates")
	filter := models.TemplateFilter{
		Category:    c.Query("category"),
		Search:      c.Query("search"),
		PageRequest: pageRequest(c),
	}
	page, err := h.services.Templates.ListTemplates(c.Request.Context(), orgID(c), filter)
	if err != nil {
		h.respondError(c, log, err, "Failed to list templates from service")
		return
	}
	c.JSON(http.StatusOK, newPageResponse(page))
}

// @Summary Get a communication template
// @Tags Communications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Template ID"
// @Success 200 {object} models.Template
// @Failure 404 {object} map[string]string "Template not found"
// @Router /communications/templates/{id} [get]
func (h *Handler) getTemplate(c *gin.Context) {
	id, ok := parseID(c, "id", "template")
	if !ok {
		return
	}
	log := h.log(c, "getTemplate").WithField("id", id)

	tmpl, err := h.services.Templates.GetTemplate(c.Request.Context(), orgID(c), id)
	if err != nil {
		h.respondError(c, log, err, "Failed to get template from service")
		return
	}
	c.JSON(http.StatusOK, tmpl)
}

// @Summary Update a communication template
// @Tags Communications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Template ID"
// @Param template body TemplateRequest true "Template"
// @Success 200 {object} models.Template
// @Failure 404 {object} map[string]string "Template not found"
// @Router /communications/templates/{id} [put]
func (h *Handler) updateTemplate(c *gin.Context) {
	id, ok := parseID(c, "id", "template")
	if !ok {
		return
	}
	log := h.log(c, "updateTemplate").WithField("id", id)

	var input TemplateRequest
	if !h.bind(c, log, &input) {
		return
	}

	tmpl := TemplateRequestToModel(input)
	tmpl.ID = id
	updated, err := h.services.Templates.UpdateTemplate(c.Request.Context(), orgID(c), tmpl)
	if err != nil {
		h.respondError(c, log, err, "Failed to update template in service")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// @Summary Delete a communication template
// @Tags Communications
// @Security BearerAuth
// @Param id path string true "Template ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Template not found"
// @Router /communications/templates/{id} [delete]
func (h *Handler) deleteTemplate(c *gin.Context) {
	id, ok := parseID(c, "id", "template")
	if !ok {
		return
	}
	log := h.log(c, "deleteTemplate").WithField("id", id)

	if err := h.services.Templates.DeleteTemplate(c.Request.Context(), orgID(c), id); err != nil {
		h.respondError(c, log, err, "Failed to delete template in service")
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Preview a template
// @Description Render a template against an incident and custom variables. Unresolved placeholders are kept verbatim and listed in missing.
// @Tags Communications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Template ID"
// @Param preview body PreviewRequest false "Render data"
// @Success 200 {object} models.RenderedTemplate
// @Failure 404 {object} map[string]string "Template or incident not found"
// @Router /communications/templates/{id}/preview [post]
func (h *Handler) previewTemplate(c *gin.Context) {
	id, ok := parseID(c, "id", "template")
	if !ok {
		return
	}
	log := h.log(c, "previewTemplate").WithField("id", id)

	var input PreviewRequest
	if c.Request.ContentLength != 0 && !h.bind(c, log, &input) {
		return
	}

	rendered, err := h.services.Templates.Preview(c.Request.Context(), orgID(c), id, models.RenderRequest{
		IncidentID: input.IncidentID,
		Variables:  input.Variables,
	})
	if err != nil {
		h.respondError(c, log, err, "Failed to preview template in service")
		return
	}
	c.JSON(http.StatusOK, rendered)
}

// @Summary Send a communication
// @Description Render a template and queue it for delivery. Rejected when any placeholder stays unresolved.
// @Tags Communications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param communication body SendCommunicationRequest true "Communication"
// @Success 202 {object} SendCommunicationResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 404 {object} map[string]string "Template or incident not found"
// @Failure 422 {object} map[string]string "Unresolved template variables"
// @Router /communications/send [post]
func (h *Handler) sendCommunication(c *gin.Context) {
	log := h.log(c, "sendCommunication")
	var input SendCommunicationRequest
	if !h.bind(c, log, &input) {
		return
	}

	id, err := h.services.Templates.Send(c.Request.Context(), orgID(c), SendRequestToModel(input))
	if err != nil {
		h.respondError(c, log, err, "Failed to send communication in service")
		return
	}
	c.JSON(http.StatusAccepted, SendCommunicationResponse{ID: id, Status: "queued"})
}
