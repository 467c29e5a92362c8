package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/irdesk/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Generate(user *models.User) (string, time.Time, error)
}

// AuthService authenticates users.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Me(ctx context.Context, userID uuid.UUID) (*models.User, error)
	ResolveActor(ctx context.Context, actor models.Actor) (models.Actor, error)
}

type authService struct {
	users  UserRepository
	orgs   OrganizationRepository
	tokens TokenIssuer
	audit  AuditService
	logger *logrus.Logger
}

func NewAuthService(users UserRepository, orgs OrganizationRepository, tokens TokenIssuer, audit AuditService, logger *logrus.Logger) AuthService {
	return &authService{users: users, orgs: orgs, tokens: tokens, audit: audit, logger: logger}
}

// Login checks the password and issues a token. Unknown email, wrong password and
// inactive accounts all surface as ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	log := s.logger.WithFields(logrus.Fields{
		"service": "auth",
		"method":  "Login",
		"email":   email,
	})
	log.Info("Login attempt")

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			log.WithError(err).Error("Failed to look up user")
			return nil, fmt.Errorf("service: could not log in: %w", err)
		}
		s.recordFailure(ctx, nil, nil, email, "unknown_email")
		return nil, models.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.recordFailure(ctx, user.OrganizationID, &user.ID, email, "bad_password")
		return nil, models.ErrInvalidCredentials
	}
	if !user.Active {
		s.recordFailure(ctx, user.OrganizationID, &user.ID, email, "inactive")
		return nil, models.ErrInvalidCredentials
	}

	if user.OrganizationID != nil {
		org, err := s.orgs.GetByID(ctx, *user.OrganizationID)
		if err != nil {
			log.WithError(err).Error("Failed to load user organization")
			return nil, fmt.Errorf("service: could not log in: %w", err)
		}
		if !org.IsActive() {
			s.recordFailure(ctx, user.OrganizationID, &user.ID, email, "organization_suspended")
			return nil, models.ErrOrganizationSuspended
		}
	}

	token, expiresAt, err := s.tokens.Generate(user)
	if err != nil {
		log.WithError(err).Error("Failed to issue token")
		return nil, fmt.Errorf("service: could not issue token: %w", err)
	}
	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		log.WithError(err).Warn("Failed to update last login")
	}

	s.audit.Record(ctx, &models.AuditLog{
		OrganizationID: user.OrganizationID,
		ActorID:        &user.ID,
		ActorEmail:     user.Email,
		Action:         "auth.login",
		ResourceType:   "user",
		ResourceID:     user.ID.String(),
	})
	log.WithField("user_id", user.ID).Info("Login succeeded")
	return &models.Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *authService) recordFailure(ctx context.Context, orgID, userID *uuid.UUID, email, reason string) {
	s.logger.WithFields(logrus.Fields{
		"service": "auth",
		"method":  "Login",
		"email":   email,
		"reason":  reason,
	}).Warn("Login failed")
	entry := &models.AuditLog{
		OrganizationID: orgID,
		ActorID:        userID,
		ActorEmail:     email,
		Action:         "auth.login_failed",
		ResourceType:   "user",
		Metadata:       map[string]any{"reason": reason},
	}
	if userID != nil {
		entry.ResourceID = userID.String()
	}
	s.audit.Record(ctx, entry)
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: could not get current user: %w", err)
	}
	return user, nil
}

// ResolveActor refreshes a token actor from the stored account, so deactivation
// and role changes apply to tokens that are already issued. A removed or
// inactive account yields ErrInvalidCredentials.
func (s *authService) ResolveActor(ctx context.Context, actor models.Actor) (models.Actor, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "auth",
		"method":  "ResolveActor",
		"user_id": actor.UserID,
	})

	user, err := s.loadUser(ctx, log, actor.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			log.Warn("Token issued for a removed user")
			return models.Actor{}, models.ErrInvalidCredentials
		}
		log.WithError(err).Error("Failed to load token user")
		return models.Actor{}, fmt.Errorf("service: could not resolve actor: %w", err)
	}
	if !user.Active {
		log.Warn("Token presented by an inactive user")
		return models.Actor{}, models.ErrInvalidCredentials
	}

	actor.Email = user.Email
	actor.Role = user.Role
	actor.IsSystemAdmin = user.IsSystemAdmin
	actor.OrganizationID = uuid.Nil
	if user.OrganizationID != nil {
		actor.OrganizationID = *user.OrganizationID
	}
	return actor, nil
}

// loadUser reads through the Redis user cache. Cache errors only degrade to a database read.
func (s *authService) loadUser(ctx context.Context, log *logrus.Entry, id uuid.UUID) (*models.User, error) {
	cached, err := s.users.GetUserFromCache(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to read user cache")
	}
	if cached != nil {
		return cached, nil
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetUserCache(ctx, user); err != nil {
		log.WithError(err).Warn("Failed to cache user")
	}
	return user, nil
}
