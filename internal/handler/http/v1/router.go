package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/shenikar/irdesk/internal/models"
)

// RegisterRoutes registers every API v1 route on api.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/system/health", h.healthCheck)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", h.RateLimitLogin(), h.login)
		authGroup.GET("/me", h.Authenticate(), h.me)
	}

	responder := h.RequireRole(models.RoleResponder)
	admin := h.RequireRole(models.RoleAdmin)

	tenant := api.Group("", h.Authenticate(), h.RequireOrganization(), h.RequireRole(models.RoleViewer))

	incidents := tenant.Group("/incidents")
	{
		incidents.POST("", responder, h.createIncident)
		incidents.GET("", h.listIncidents)
		incidents.GET("/stats", h.getIncidentStats)
		incidents.GET("/:id", h.getIncident)
		incidents.PUT("/:id", responder, h.updateIncident)
		incidents.PATCH("/:id/status", responder, h.changeIncidentStatus)
		incidents.DELETE("/:id", admin, h.deleteIncident)
	}

	assets := tenant.Group("/assets")
	{
		assets.POST("", responder, h.createAsset)
		assets.GET("", h.listAssets)
		assets.GET("/:id", h.getAsset)
		assets.PUT("/:id", responder, h.updateAsset)
		assets.DELETE("/:id", admin, h.deleteAsset)
	}

	org := tenant.Group("/organization")
	{
		org.GET("", h.getOrganization)
		org.PUT("", admin, h.updateOrganization)
		org.GET("/license", h.getOrganizationLicense)
		org.GET("/audit-logs", admin, h.listOrganizationAuditLogs)

		users := org.Group("/users", admin)
		users.POST("", h.createUser)
		users.GET("", h.listUsers)
		users.GET("/:id", h.getUser)
		users.PUT("/:id", h.updateUser)
		users.DELETE("/:id", h.deactivateUser)
		users.POST("/:id/password", h.resetUserPassword)

		org.GET("/tags", h.listTags)
		org.POST("/tags", admin, h.createTag)
		org.PUT("/tags/:id", admin, h.updateTag)
		org.DELETE("/tags/:id", admin, h.deleteTag)

		org.GET("/dropdowns", h.listDropdowns)
		org.GET("/dropdowns/:key", h.getDropdown)
		org.PUT("/dropdowns/:key", admin, h.saveDropdown)
		org.DELETE("/dropdowns/:key", admin, h.deleteDropdown)
	}

	comms := tenant.Group("/communications")
	{
		comms.GET("/templates", h.listTemplates)
		comms.POST("/templates", admin, h.createTemplate)
		comms.GET("/templates/:id", h.getTemplate)
		comms.PUT("/templates/:id", admin, h.updateTemplate)
		comms.DELETE("/templates/:id", admin, h.deleteTemplate)
		comms.POST("/templates/:id/preview", responder, h.previewTemplate)
		comms.POST("/send", responder, h.sendCommunication)
	}

	runbooks := tenant.Group("/runbooks")
	{
		runbooks.POST("", admin, h.createRunbook)
		runbooks.GET("", h.listRunbooks)
		runbooks.GET("/:id", h.getRunbook)
		runbooks.PUT("/:id", admin, h.updateRunbook)
		runbooks.DELETE("/:id", admin, h.deleteRunbook)
		runbooks.POST("/:id/executions", responder, h.startExecution)
		runbooks.GET("/:id/executions", h.listExecutions)
	}

	executions := tenant.Group("/runbook-executions")
	{
		executions.GET("/:id", h.getExecution)
		executions.POST("/:id/steps/:stepId/complete", responder, h.completeStep)
		executions.POST("/:id/steps/:stepId/skip", responder, h.skipStep)
		executions.POST("/:id/pause", responder, h.pauseExecution)
		executions.POST("/:id/resume", responder, h.resumeExecution)
		executions.POST("/:id/abort", responder, h.abortExecution)
	}

	exercises := tenant.Group("/exercises")
	{
		exercises.POST("", admin, h.createExercise)
		exercises.GET("", h.listExercises)
		exercises.GET("/:id", h.getExercise)
		exercises.PUT("/:id", admin, h.updateExercise)
		exercises.DELETE("/:id", admin, h.deleteExercise)
		exercises.POST("/:id/start", responder, h.startExercise)
		exercises.POST("/:id/complete", responder, h.completeExercise)
		exercises.POST("/:id/cancel", responder, h.cancelExercise)
	}

	system := api.Group("/system-admin", h.Authenticate(), h.RequireSystemAdmin())
	{
		system.GET("/stats", h.getPlatformStats)
		system.GET("/audit-logs", h.listPlatformAuditLogs)
		system.GET("/organizations", h.listOrganizations)
		system.POST("/organizations", h.provisionOrganization)
		system.GET("/organizations/:id", h.getOrganizationByID)
		system.PUT("/organizations/:id", h.updateOrganizationByID)
		system.PATCH("/organizations/:id/status", h.setOrganizationStatus)
		system.GET("/organizations/:id/license", h.getLicense)
		system.PUT("/organizations/:id/license", h.updateLicense)
	}
}
