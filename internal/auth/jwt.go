package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shenikar/irdesk/internal/models"
)

var errMissingSecret = errors.New("jwt secret is not set")

// Claims are the JWT claims issued at login.
type Claims struct {
	OrganizationID string `json:"org_id,omitempty"`
	Email          string `json:"email"`
	Role           string `json:"role,omitempty"`
	SystemAdmin    bool   `json:"system_admin,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Generate signs a token for user and returns it with its expiry.
func (m *TokenManager) Generate(user *models.User) (string, time.Time, error) {
	if len(m.secret) == 0 {
		return "", time.Time{}, errMissingSecret
	}

	now := m.now()
	expiresAt := now.Add(m.ttl)
	claims := Claims{
		Email:       user.Email,
		Role:        user.Role,
		SystemAdmin: user.IsSystemAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	if user.OrganizationID != nil {
		claims.OrganizationID = user.OrganizationID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse verifies tokenString and converts its claims to an Actor.
func (m *TokenManager) Parse(tokenString string) (models.Actor, error) {
	if len(m.secret) == 0 {
		return models.Actor{}, errMissingSecret
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil {
		return models.Actor{}, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return models.Actor{}, jwt.ErrTokenInvalidClaims
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return models.Actor{}, fmt.Errorf("invalid subject: %w", jwt.ErrTokenInvalidClaims)
	}
	actor := models.Actor{
		UserID:        userID,
		Email:         claims.Email,
		Role:          claims.Role,
		IsSystemAdmin: claims.SystemAdmin,
	}
	if claims.OrganizationID != "" {
		orgID, err := uuid.Parse(claims.OrganizationID)
		if err != nil {
			return models.Actor{}, fmt.Errorf("invalid org_id: %w", jwt.ErrTokenInvalidClaims)
		}
		actor.OrganizationID = orgID
	}
	return actor, nil
}
