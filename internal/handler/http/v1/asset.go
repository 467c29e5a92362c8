package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/irdesk/internal/models"
)

// @Summary Register an asset
// @Description Add an asset to the inventory. Subject to the license asset limit.
// @Tags Assets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param asset body AssetRequest true "Asset"
// @Success 201 {object} models.Asset
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 402 {object} map[string]string "License limit reached"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /assets [post]
func (h *Handler) createAsset(c *gin.Context) {
	log := h.log(c, "createAsset")
	var input AssetRequest
	if !h.bind(c, log, &input) {
		return
	}

	model := AssetRequestToModel(input)
	if err := h.services.Assets.CreateAsset(c.Request.Context(), orgID(c), model); err != nil {
		h.respondError(c, log, err, "Failed to create asset in service")
		return
	}
	c.JSON(http.StatusCreated, model)
}

// @Summary List assets
// @Tags Assets
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Number of items per page" default(20)
// @Param type query string false "Asset type"
// @Param criticality query string false "Criticality"
// @Param search query string false "Search in name, hostname and IP"
// @Success 200 {object} PageResponse[models.Asset]
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /assets [get]
func (h *Handler) listAssets(c *gin.Context) {
	log := h.log(c, "listAssets")
	filter := models.AssetFilter{
		Type:        c.Query("type"),
		Criticality: c.Query("criticality"),
		Search:      c.Query("search"),
		PageRequest: pageRequest(c),
	}

	page, err := h.services.Assets.ListAssets(c.Request.Context(), orgID(c), filter)
	if err != nil {
		h.respondError(c, log, err, "Failed to list assets from service")
		return
	}
	c.JSON(http.StatusOK, newPageResponse(page))
}

// @Summary Get asset by ID
// @Tags Assets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Asset ID"
// @Success 200 {object} models.Asset
// @Failure 400 {object} map[string]string "Invalid asset ID"
// @Failure 404 {object} map[string]string "Asset not found"
// @Router /assets/{id} [get]
func (h *Handler) getAsset(c *gin.Context) {
	id, ok := parseID(c, "id", "asset")
	if !ok {
		return
	}
	log := h.log(c, "getAsset").WithField("id", id)

	asset, err := h.services.Assets.GetAsset(c.Request.Context(), orgID(c), id)
	if err != nil {
		h.respondError(c, log, err, "Failed to get asset from service")
		return
	}
	c.JSON(http.StatusOK, asset)
}

// @Summary Update an asset
// @Tags Assets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Asset ID"
// @Param asset body AssetRequest true "Asset"
// @Success 200 {object} models.Asset
// @Failure 400 {object} map[string]string "Invalid asset ID or request body"
// @Failure 404 {object} map[string]string "Asset not found"
// @Router /assets/{id} [put]
func (h *Handler) updateAsset(c *gin.Context) {
	id, ok := parseID(c, "id", "asset")
	if !ok {
		return
	}
	log := h.log(c, "updateAsset").WithField("id", id)

	var input AssetRequest
	if !h.bind(c, log, &input) {
		return
	}

	model := AssetRequestToModel(input)
	model.ID = id
	updated, err := h.services.Assets.UpdateAsset(c.Request.Context(), orgID(c), model)
	if err != nil {
		h.respondError(c, log, err, "Failed to update asset in service")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// @Summary Delete an asset
// @Tags Assets
// @Security BearerAuth
// @Param id path string true "Asset ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Asset not found"
// @Router /assets/{id} [delete]
func (h *Handler) deleteAsset(c *gin.Context) {
	id, ok := parseID(c, "id", "asset")
	if !ok {
		return
	}
	log := h.log(c, "deleteAsset").WithField("id", id)

	if err := h.services.Assets.DeleteAsset(c.Request.Context(), orgID(c), id); err != nil {
		h.respondError(c, log, err, "Failed to delete asset in service")
		return
	}
	c.Status(http.StatusNoContent)
}
