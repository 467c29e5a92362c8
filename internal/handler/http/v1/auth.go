package v1

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/irdesk/internal/auth"
	"github.com/shenikar/irdesk/internal/models"
)

const apiKeyActorEmail = "api-key"

var (
	errMissingCredentials = errors.New("missing credentials")
	errInvalidAPIKey      = errors.New("invalid API key")
)

// Authenticate accepts either an X-API-Key from API_KEYS, which acts as a system
// administrator, or a bearer JWT. Bearer actors take their role and status from the
// stored account. The resolved actor is stored in the request context.
func (h *Handler) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := h.authenticate(c)
		if err != nil {
			h.logger.WithField("path", c.FullPath()).WithError(err).Warn("Authentication failed")
			msg := "invalid or expired token"
			switch {
			case errors.Is(err, errMissingCredentials):
				msg = "authentication required"
			case errors.Is(err, errInvalidAPIKey):
				msg = "invalid API key"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		if actor.UserID != uuid.Nil {
			actor, err = h.services.Auth.ResolveActor(c.Request.Context(), actor)
			if err != nil {
				if errors.Is(err, models.ErrInvalidCredentials) {
					h.logger.WithField("path", c.FullPath()).WithError(err).Warn("Token user is no longer active")
					c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "account is disabled or removed"})
					return
				}
				h.logger.WithField("path", c.FullPath()).WithError(err).Error("Failed to resolve token user")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
				return
			}
		}

		actor.IPAddress = c.ClientIP()
		actor.UserAgent = c.Request.UserAgent()
		c.Request = c.Request.WithContext(auth.WithActor(c.Request.Context(), actor))
		c.Next()
	}
}

func (h *Handler) authenticate(c *gin.Context) (models.Actor, error) {
	if apiKey := c.GetHeader("X-API-Key"); apiKey != "" {
		if !h.validAPIKey(apiKey) {
			return models.Actor{}, errInvalidAPIKey
		}
		return models.Actor{Email: apiKeyActorEmail, IsSystemAdmin: true}, nil
	}

	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return models.Actor{}, errMissingCredentials
	}
	return h.tokens.Parse(strings.TrimPrefix(authHeader, "Bearer "))
}

func (h *Handler) validAPIKey(apiKey string) bool {
	for _, key := range h.cfg.APIKeys {
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) == 1 {
			return true
		}
	}
	return false
}

func currentActor(c *gin.Context) models.Actor {
	actor, _ := auth.ActorFromContext(c.Request.Context())
	return actor
}

// orgID is the tenant of the current actor. Routes using it sit behind RequireOrganization.
func orgID(c *gin.Context) uuid.UUID {
	return currentActor(c).OrganizationID
}

// RequireOrganization rejects actors that are not members of a tenant.
func (h *Handler) RequireOrganization() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentActor(c).HasOrganization() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "organization membership required"})
			return
		}
		c.Next()
	}
}

// RequireRole rejects tenant members below min.
func (h *Handler) RequireRole(min string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !models.RoleAtLeast(currentActor(c).Role, min) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "requires " + min + " role"})
			return
		}
		c.Next()
	}
}

func (h *Handler) RequireSystemAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentActor(c).IsSystemAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "system administrator required"})
			return
		}
		c.Next()
	}
}

// RateLimitLogin throttles login attempts per client IP. Limiter errors let the request through.
func (h *Handler) RateLimitLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.limiter == nil {
			c.Next()
			return
		}
		ip := c.ClientIP()
		allowed, err := h.limiter.Allow(c.Request.Context(), ip)
		if err != nil {
			h.logger.WithField("client_ip", ip).WithError(err).Warn("Login rate limiter unavailable")
			c.Next()
			return
		}
		if !allowed {
			h.logger.WithField("client_ip", ip).Warn("Login rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

// @Summary Log in
// @Description Exchange email and password for a JWT.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} models.Session
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Failure 403 {object} map[string]string "Organization suspended"
// @Failure 429 {object} map[string]string "Too many attempts"
// @Router /auth/login [post]
func (h *Handler) login(c *gin.Context) {
	log := h.log(c, "login")
	var input LoginRequest
	if !h.bind(c, log, &input) {
		return
	}

	ctx := auth.WithActor(c.Request.Context(), models.Actor{
		Email:     input.Email,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	session, err := h.services.Auth.Login(ctx, input.Email, input.Password)
	if err != nil {
		h.respondError(c, log, err, "Login failed")
		return
	}
	c.JSON(http.StatusOK, session)
}

// @Summary Current user
// @Description Get the authenticated user.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User not found"
// @Router /auth/me [get]
func (h *Handler) me(c *gin.Context) {
	log := h.log(c, "me")
	actor := currentActor(c)
	if actor.UserID == uuid.Nil {
		c.JSON(http.StatusOK, gin.H{"email": apiKeyActorEmail, "is_system_admin": true})
		return
	}
	user, err := h.services.Auth.Me(c.Request.Context(), actor.UserID)
	if err != nil {
		h.respondError(c, log, err, "Failed to get current user")
		return
	}
	c.JSON(http.StatusOK, user)
}
