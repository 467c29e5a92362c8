package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/irdesk/internal/auth"
	"github.com/shenikar/irdesk/internal/models"
	"github.com/sirupsen/logrus"
)

// Clock returns the current time; services take one so tests can pin it.
type Clock func() time.Time

func actorFrom(ctx context.Context) models.Actor {
	actor, _ := auth.ActorFromContext(ctx)
	return actor
}

// actorID returns the acting user's id, or nil for anonymous and API-key callers.
func actorID(ctx context.Context) *uuid.UUID {
	actor := actorFrom(ctx)
	if actor.UserID == uuid.Nil {
		return nil
	}
	id := actor.UserID
	return &id
}

func orgPtr(id uuid.UUID) *uuid.UUID {
	return &id
}

// isClientError reports errors caused by the request rather than by the backend,
// which are logged at warn level.
func isClientError(err error) bool {
	for _, target := range []error{
		models.ErrNotFound,
		models.ErrConflict,
		models.ErrForbidden,
		models.ErrValidation,
		models.ErrInvalidTransition,
		models.ErrInvalidState,
		models.ErrLicenseLimit,
		models.ErrLicenseExpired,
		models.ErrFeatureNotLicensed,
		models.ErrMissingVariables,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// logFailure logs client errors at warn level and everything else at error level.
func logFailure(log *logrus.Entry, err error, msg string) {
	if isClientError(err) {
		log.WithError(err).Warn(msg)
		return
	}
	log.WithError(err).Error(msg)
}

// writeAttempts bounds how often a read-modify-write is replayed after losing a race.
const writeAttempts = 3

// retryStale runs fn until it returns anything other than ErrConflict or the
// attempts run out. fn must reload the record it writes.
func retryStale(log *logrus.Entry, fn func() error) error {
	var err error
	for attempt := 1; attempt <= writeAttempts; attempt++ {
		if err = fn(); !errors.Is(err, models.ErrConflict) {
			return err
		}
		log.WithField("attempt", attempt).Warn("Concurrent modification detected")
	}
	return err
}

// checkMember fails with ErrValidation unless id is a user of orgID.
func checkMember(ctx context.Context, users UserRepository, orgID, id uuid.UUID, field string) error {
	if _, err := users.Get(ctx, orgID, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("service: %s %s is not a member of the organization: %w", field, id, models.ErrValidation)
		}
		return fmt.Errorf("service: could not look up %s %s: %w", field, id, err)
	}
	return nil
}

// checkAssets fails with ErrValidation unless every id is an asset of orgID.
func checkAssets(ctx context.Context, assets AssetRepository, orgID uuid.UUID, ids []uuid.UUID) error {
	for _, id := range ids {
		if _, err := assets.GetByID(ctx, orgID, id); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return fmt.Errorf("service: asset %s does not belong to the organization: %w", id, models.ErrValidation)
			}
			return fmt.Errorf("service: could not look up asset %s: %w", id, err)
		}
	}
	return nil
}
