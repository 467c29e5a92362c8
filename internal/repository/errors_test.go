package repository

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shenikar/irdesk/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestWrapErr(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{name: "no rows", err: pgx.ErrNoRows, target: models.ErrNotFound},
		{name: "unique violation", err: &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "tags_organization_id_name_key"}, target: models.ErrConflict},
		{name: "foreign key violation", err: &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, target: models.ErrValidation},
		{name: "check violation", err: &pgconn.PgError{Code: pgerrcode.CheckViolation}, target: models.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := wrapErr("failed to do it", tt.err)
			assert.ErrorIs(t, err, tt.target)
			assert.Contains(t, err.Error(), "failed to do it")
		})
	}
}

func TestWrapErr_PassesThroughOtherErrors(t *testing.T) {
	boom := errors.New("connection reset")

	err := wrapErr("failed to list", boom)

	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, models.ErrNotFound)
}

func TestExpectAffected(t *testing.T) {
	id := uuid.New()

	err := expectAffected(pgconn.NewCommandTag("DELETE 0"), "tag", id)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Contains(t, err.Error(), id.String())

	assert.NoError(t, expectAffected(pgconn.NewCommandTag("DELETE 1"), "tag", id))
}

func TestStaleWrite(t *testing.T) {
	err := staleWrite("failed to update incident", pgx.ErrNoRows)
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.NotErrorIs(t, err, models.ErrNotFound)

	err = staleWrite("failed to update incident", &pgconn.PgError{Code: pgerrcode.CheckViolation})
	assert.ErrorIs(t, err, models.ErrValidation)

	boom := errors.New("connection reset")
	assert.ErrorIs(t, staleWrite("failed to update incident", boom), boom)
}
