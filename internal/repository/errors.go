package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNoRows is returned when a lookup finds nothing or a conditional update
// matches no row because its precondition no longer holds.
var ErrNoRows = pgx.ErrNoRows

// ErrDuplicate is returned when an insert or update violates a uniqueness
// constraint.
var ErrDuplicate = errors.New("duplicate record")

const uniqueViolation = "23505"

func translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}
