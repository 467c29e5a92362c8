package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/irdesk/internal/models"
)

// @Summary Schedule an exercise
// @Description Requires the exercises license feature.
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exercise body ExerciseRequest true "Exercise"
// @Success 201 {object} models.Exercise
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 402 {object} map[string]string "Feature not licensed"
// @Router /exercises [post]
func (h *Handler) createExercise(c *gin.Context) {
	log := h.log(c, "createExercise")
	var input ExerciseRequest
	if !h.bind(c, log, &input) {
		return
	}

	exercise := ExerciseRequestToModel(input)
	if err := h.services.Exercises.CreateExercise(c.Request.Context(), orgID(c), exercise); err != nil {
		h.respondError(c, log, err, "Failed to create exercise in service")
		return
	}
	c.JSON(http.StatusCreated, exercise)
}

// @Summary List exercises
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Number of items per page" default(20)
// @Param status query string false "Status"
// @Param type query string false "Exercise type"
// @Success 200 {object} PageResponse[models.Exercise]
// @Failure 402 {object} map[string]string "Feature not licensed"
// @Router /exercises [get]
func (h *Handler) listExercises(c *gin.Context) {
	log := h.log(c, "listExercises")
	filter := models.ExerciseFilter{
		Status:      c.Query("status"),
		Type:        c.Query("type"),
		PageRequest: pageRequest(c),
	}
	page, err := h.services.Exercises.ListExercises(c.Request.Context(), orgID(c), filter)
	if err != nil {
		h.respondError(c, log, err, "Failed to list exercises from service")
		return
	}
	c.JSON(http.StatusOK, newPageResponse(page))
}

// @Summary Get an exercise
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Success 200 {object} models.Exercise
// @Failure 404 {object} map[string]string "Exercise not found"
// @Router /exercises/{id} [get]
func (h *Handler) getExercise(c *gin.Context) {
	id, ok := parseID(c, "id", "exercise")
	if !ok {
		return
	}
	log := h.log(c, "getExercise").WithField("id", id)

	exercise, err := h.services.Exercises.GetExercise(c.Request.Context(), orgID(c), id)
	if err != nil {
		h.respondError(c, log, err, "Failed to get exercise from service")
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// @Summary Update an exercise
// @Description Finished exercises cannot be edited.
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Param exercise body ExerciseRequest true "Exercise"
// @Success 200 {object} models.Exercise
// @Failure 404 {object} map[string]string "Exercise not found"
// @Failure 409 {object} map[string]string "Exercise already finished"
// @Router /exercises/{id} [put]
func (h *Handler) updateExercise(c *gin.Context) {
	id, ok := parseID(c, "id", "exercise")
	if !ok {
		return
	}
	log := h.log(c, "updateExercise").WithField("id", id)

	var input ExerciseRequest
	if !h.bind(c, log, &input) {
		return
	}

	exercise := ExerciseRequestToModel(input)
	exercise.ID = id
	updated, err := h.services.Exercises.UpdateExercise(c.Request.Context(), orgID(c), exercise)
	if err != nil {
		h.respondError(c, log, err, "Failed to update exercise in service")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// @Summary Delete an exercise
// @Tags Exercises
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Exercise not found"
// @Router /exercises/{id} [delete]
func (h *Handler) deleteExercise(c *gin.Context) {
	id, ok := parseID(c, "id", "exercise")
	if !ok {
		return
	}
	log := h.log(c, "deleteExercise").WithField("id", id)

	if err := h.services.Exercises.DeleteExercise(c.Request.Context(), orgID(c), id); err != nil {
		h.respondError(c, log, err, "Failed to delete exercise in service")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) exerciseTransition(c *gin.Context, method string, apply func(id uuid.UUID) (*models.Exercise, error)) {
	id, ok := parseID(c, "id", "exercise")
	if !ok {
		return
	}
	log := h.log(c, method).WithField("id", id)

	exercise, err := apply(id)
	if err != nil {
		h.respondError(c, log, err, "Failed to change exercise status in service")
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// @Summary Start an exercise
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Success 200 {object} models.Exercise
// @Failure 409 {object} map[string]string "Exercise is not planned"
// @Router /exercises/{id}/start [post]
func (h *Handler) startExercise(c *gin.Context) {
	h.exerciseTransition(c, "startExercise", func(id uuid.UUID) (*models.Exercise, error) {
		return h.services.Exercises.StartExercise(c.Request.Context(), orgID(c), id)
	})
}

// @Summary Complete an exercise
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Param findings body CompleteExerciseRequest false "Lessons learned"
// @Success 200 {object} models.Exercise
// @Failure 409 {object} map[string]string "Exercise is not in progress"
// @Router /exercises/{id}/complete [post]
func (h *Handler) completeExercise(c *gin.Context) {
	var input CompleteExerciseRequest
	if c.Request.ContentLength != 0 && !h.bind(c, h.log(c, "completeExercise"), &input) {
		return
	}
	h.exerciseTransition(c, "completeExercise", func(id uuid.UUID) (*models.Exercise, error) {
		return h.services.Exercises.CompleteExercise(c.Request.Context(), orgID(c), id, input.Findings)
	})
}

// @Summary Cancel an exercise
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Success 200 {object} models.Exercise
// @Failure 409 {object} map[string]string "Exercise already finished"
// @Router /exercises/{id}/cancel [post]
func (h *Handler) cancelExercise(c *gin.Context) {
	h.exerciseTransition(c, "cancelExercise", func(id uuid.UUID) (*models.Exercise, error) {
		return h.services.Exercises.CancelExercise(c.Request.Context(), orgID(c), id)
	})
}
