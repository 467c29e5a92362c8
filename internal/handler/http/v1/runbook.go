package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/irdesk/internal/models"
)

// @Summary Create a runbook
// @Description Steps are ordered by phase, then by their order field. Subject to the license runbook limit.
// @Tags Runbooks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param runbook body RunbookRequest true "Runbook"
// @Success 201 {object} models.Runbook
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 402 {object} map[string]string "License limit reached"
// @Failure 422 {object} map[string]string "Invalid steps"
// @Router /runbooks [post]
func (h *Handler) createRunbook(c *gin.Context) {
	log := h.log(c, "createRunbook")
	var input RunbookRequest
	if !h.bind(c, log, &input) {
		return
	}

	runbook := RunbookRequestToModel(input)
	if err := h.services.Runbooks.CreateRunbook(c.Request.Context(), orgID(c), runbook); err != nil {
		h.respondError(c, log, err, "Failed to create runbook in service")
		return
	}
	c.JSON(http.StatusCreated, runbook)
}

// @Summary List runbooks
// @Tags Runbooks
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Number of items per page" default(20)
// @Param incident_category query string false "Incident category"
// @Param search query string false "Search in name and description"
// @Success 200 {object} PageResponse[models.Runbook]
// @Router /runbooks [get]
func (h *Handler) listRunbooks(c *gin.Context) {
	log := h.log(c, "listRunbooks")
	filter := models.RunbookFilter{
		IncidentCategory: c.Query("incident_category"),
		Search:           c.Query("search"),
		PageRequest:      pageRequest(c),
	}
	page, err := h.services.Runbooks.ListRunbooks(c.Request.Context(), orgID(c), filter)
	if err != nil {
		h.respondError(c, log, err, "Failed to list runbooks from service")
		return
	}
	c.JSON(http.StatusOK, newPageResponse(page))
}

// @Summary Get a runbook
// @Tags Runbooks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Runbook ID"
// @Success 200 {object} models.Runbook
// @Failure 404 {object} map[string]string "Runbook not found"
// @Router /runbooks/{id} [get]
func (h *Handler) getRunbook(c *gin.Context) {
	id, ok := parseID(c, "id", "runbook")
	if !ok {
		return
	}
	log := h.log(c, "getRunbook").WithField("id", id)

	runbook, err := h.services.Runbooks.GetRunbook(c.Request.Context(), orgID(c), id)
	if err != nil {
		h.respondError(c, log, err, "Failed to get runbook from service")
		return
	}
	c.JSON(http.StatusOK, runbook)
}

// @Summary Update a runbook
// @Description Running executions keep the steps they started with.
// @Tags Runbooks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Runbook ID"
// @Param runbook body RunbookRequest true "Runbook"
// @Success 200 {object} models.Runbook
// @Failure 404 {object} map[string]string "Runbook not found"
// @Router /runbooks/{id} [put]
func (h *Handler) updateRunbook(c *gin.Context) {
	id, ok := parseID(c, "id", "runbook")
	if !ok {
		return
	}
	log := h.log(c, "updateRunbook").WithField("id", id)

	var input RunbookRequest
	if !h.bind(c, log, &input) {
		return
	}

	runbook := RunbookRequestToModel(input)
	runbook.ID = id
	updated, err := h.services.Runbooks.UpdateRunbook(c.Request.Context(), orgID(c), runbook)
	if err != nil {
		h.respondError(c, log, err, "Failed to update runbook in service")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// @Summary Delete a runbook
// @Tags Runbooks
// @Security BearerAuth
// @Param id path string true "Runbook ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Runbook not found"
// @Router /runbooks/{id} [delete]
func (h *Handler) deleteRunbook(c *gin.Context) {
	id, ok := parseID(c, "id", "runbook")
	if !ok {
		return
	}
	log := h.log(c, "deleteRunbook").WithField("id", id)

	if err := h.services.Runbooks.DeleteRunbook(c.Request.Context(), orgID(c), id); err != nil {
		h.respondError(c, log, err, "Failed to delete runbook in service")
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Start a runbook execution
// @Tags Runbooks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Runbook ID"
// @Param execution body StartExecutionRequest false "Incident the execution responds to"
// @Success 201 {object} ExecutionResponse
// @Failure 404 {object} map[string]string "Runbook or incident not found"
// @Failure 422 {object} map[string]string "Runbook has no steps"
// @Router /runbooks/{id}/executions [post]
func (h *Handler) startExecution(c *gin.Context) {
	id, ok := parseID(c, "id", "runbook")
	if !ok {
		return
	}
	log := h.log(c, "startExecution").WithField("runbook_id", id)

	var input StartExecutionRequest
	if c.Request.ContentLength != 0 && !h.bind(c, log, &input) {
		return
	}

	execution, err := h.services.Runbooks.StartExecution(c.Request.Context(), orgID(c), id, input.IncidentID)
	if err != nil {
		h.respondError(c, log, err, "Failed to start execution in service")
		return
	}
	c.JSON(http.StatusCreated, h.ExecutionToResponse(execution))
}

// @Summary List executions of a runbook
// @Tags Runbooks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Runbook ID"
// @Success 200 {array} ExecutionResponse
// @Router /runbooks/{id}/executions [get]
func (h *Handler) listExecutions(c *gin.Context) {
	id, ok := parseID(c, "id", "runbook")
	if !ok {
		return
	}
	log := h.log(c, "listExecutions").WithField("runbook_id", id)

	executions, err := h.services.Runbooks.ListExecutions(c.Request.Context(), orgID(c), id)
	if err != nil {
		h.respondError(c, log, err, "Failed to list executions from service")
		return
	}
	c.JSON(http.StatusOK, h.ExecutionsToResponses(executions))
}

// @Summary Get a runbook execution
// @Description Execution state with progress grouped by phase and elapsed time excluding pauses.
// @Tags Runbook executions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Execution ID"
// @Success 200 {object} ExecutionResponse
// @Failure 404 {object} map[string]string "Execution not found"
// @Router /runbook-executions/{id} [get]
func (h *Handler) getExecution(c *gin.Context) {
	id, ok := parseID(c, "id", "execution")
	if !ok {
		return
	}
	log := h.log(c, "getExecution").WithField("id", id)

	execution, err := h.services.Runbooks.GetExecution(c.Request.Context(), orgID(c), id)
	if err != nil {
		h.respondError(c, log, err, "Failed to get execution from service")
		return
	}
	c.JSON(http.StatusOK, h.ExecutionToResponse(execution))
}

type stepAction func(c *gin.Context, executionID uuid.UUID, stepID, notes string) (*models.RunbookExecution, error)

func (h *Handler) stepHandler(method string, action stepAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id", "execution")
		if !ok {
			return
		}
		stepID := c.Param("stepId")
		log := h.log(c, method).WithField("id", id).WithField("step_id", stepID)

		var input StepActionRequest
		if c.Request.ContentLength != 0 && !h.bind(c, log, &input) {
			return
		}

		execution, err := action(c, id, stepID, input.Notes)
		if err != nil {
			h.respondError(c, log, err, "Failed to update step in service")
			return
		}
		c.JSON(http.StatusOK, h.ExecutionToResponse(execution))
	}
}

// @Summary Complete a step
// @Description Completing the last pending step completes the execution.
// @Tags Runbook executions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Execution ID"
// @Param stepId path string true "Step ID"
// @Param step body StepActionRequest false "Notes"
// @Success 200 {object} ExecutionResponse
// @Failure 404 {object} map[string]string "Execution or step not found"
// @Failure 409 {object} map[string]string "Execution is not running or step already done"
// @Router /runbook-executions/{id}/steps/{stepId}/complete [post]
func (h *Handler) completeStep(c *gin.Context) {
	h.stepHandler("completeStep", func(c *gin.Context, id uuid.UUID, stepID, notes string) (*models.RunbookExecution, error) {
		return h.services.Runbooks.CompleteStep(c.Request.Context(), orgID(c), id, stepID, notes)
	})(c)
}

// @Summary Skip a step
// @Tags Runbook executions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Execution ID"
// @Param stepId path string true "Step ID"
// @Param step body StepActionRequest false "Reason"
// @Success 200 {object} ExecutionResponse
// @Failure 404 {object} map[string]string "Execution or step not found"
// @Failure 409 {object} map[string]string "Execution is not running or step already done"
// @Router /runbook-executions/{id}/steps/{stepId}/skip [post]
func (h *Handler) skipStep(c *gin.Context) {
	h.stepHandler("skipStep", func(c *gin.Context, id uuid.UUID, stepID, notes string) (*models.RunbookExecution, error) {
		return h.services.Runbooks.SkipStep(c.Request.Context(), orgID(c), id, stepID, notes)
	})(c)
}

type executionAction func(c *gin.Context, executionID uuid.UUID) (*models.RunbookExecution, error)

func (h *Handler) executionHandler(method string, action executionAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id", "execution")
		if !ok {
			return
		}
		log := h.log(c, method).WithField("id", id)

		execution, err := action(c, id)
		if err != nil {
			h.respondError(c, log, err, "Failed to change execution state in service")
			return
		}
		c.JSON(http.StatusOK, h.ExecutionToResponse(execution))
	}
}

// @Summary Pause an execution
// @Tags Runbook executions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Execution ID"
// @Success 200 {object} ExecutionResponse
// @Failure 409 {object} map[string]string "Execution is not running"
// @Router /runbook-executions/{id}/pause [post]
func (h *Handler) pauseExecution(c *gin.Context) {
	h.executionHandler("pauseExecution", func(c *gin.Context, id uuid.UUID) (*models.RunbookExecution, error) {
		return h.services.Runbooks.PauseExecution(c.Request.Context(), orgID(c), id)
	})(c)
}

// @Summary Resume an execution
// @Tags Runbook executions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Execution ID"
// @Success 200 {object} ExecutionResponse
// @Failure 409 {object} map[string]string "Execution is not paused"
// @Router /runbook-executions/{id}/resume [post]
func (h *Handler) resumeExecution(c *gin.Context) {
	h.executionHandler("resumeExecution", func(c *gin.Context, id uuid.UUID) (*models.RunbookExecution, error) {
		return h.services.Runbooks.ResumeExecution(c.Request.Context(), orgID(c), id)
	})(c)
}

// @Summary Abort an execution
// @Tags Runbook executions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Execution ID"
// @Success 200 {object} ExecutionResponse
// @Failure 409 {object} map[string]string "Execution already finished"
// @Router /runbook-executions/{id}/abort [post]
func (h *Handler) abortExecution(c *gin.Context) {
	h.executionHandler("abortExecution", func(c *gin.Context, id uuid.UUID) (*models.RunbookExecution, error) {
		return h.services.Runbooks.AbortExecution(c.Request.Context(), orgID(c), id)
	})(c)
}
