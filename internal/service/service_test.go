package service

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/irdesk/internal/auth"
	"github.com/shenikar/irdesk/internal/models"
	"github.com/sirupsen/logrus"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// actorContext returns a context authenticated as a fresh user of orgID.
func actorContext(orgID uuid.UUID, role string) (context.Context, models.Actor) {
	actor := models.Actor{
		UserID:         uuid.New(),
		OrganizationID: orgID,
		Email:          "analyst@example.com",
		Role:           role,
		IPAddress:      "10.0.0.1",
		UserAgent:      "test",
	}
	return auth.WithActor(context.Background(), actor), actor
}

// auditAction matches an audit entry by its action.
type auditAction string

func (a auditAction) Matches(x any) bool {
	entry, ok := x.(*models.AuditLog)
	return ok && entry.Action == string(a)
}

func (a auditAction) String() string {
	return "audit entry " + string(a)
}
