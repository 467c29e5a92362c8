package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shenikar/irdesk/internal/models"
)

// wrapErr annotates err with msg and translates well known database errors
// into the domain sentinels the service and handler layers match on.
func wrapErr(msg string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", msg, models.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%s: %s already exists: %w", msg, pgErr.ConstraintName, models.ErrConflict)
		case pgerrcode.ForeignKeyViolation, pgerrcode.CheckViolation, pgerrcode.InvalidTextRepresentation:
			return fmt.Errorf("%s: %s: %w", msg, pgErr.Message, models.ErrValidation)
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// expectAffected turns an update or delete that matched no row into ErrNotFound.
func expectAffected(tag pgconn.CommandTag, what string, id fmt.Stringer) error {
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s with id %s not found: %w", what, id, models.ErrNotFound)
	}
	return nil
}

// staleWrite is wrapErr for updates guarded by the row's updated_at. A guarded
// update that matched no row lost a race with another writer and yields ErrConflict.
func staleWrite(msg string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: modified concurrently: %w", msg, models.ErrConflict)
	}
	return wrapErr(msg, err)
}
