package base

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// ErrConstraint нарушение ограничения целостности (внешний ключ, NOT NULL, CHECK)
var ErrConstraint = errors.New("constraint violation")

const (
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// Classify оборачивает ошибки нарушения ограничений в ErrConstraint.
// Остальные ошибки возвращаются без изменений.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: referenced object does not exist (%s)", ErrConstraint, pgErr.ConstraintName)
		case pgNotNullViolation:
			return fmt.Errorf("%w: column %s must not be null", ErrConstraint, pgErr.ColumnName)
		case pgCheckViolation:
			return fmt.Errorf("%w: check %s failed", ErrConstraint, pgErr.ConstraintName)
		}
		return err
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && liteErr.Code == sqlite3.ErrConstraint {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%w: referenced object does not exist", ErrConstraint)
		case sqlite3.ErrConstraintNotNull:
			return fmt.Errorf("%w: %s", ErrConstraint, liteErr.Error())
		case sqlite3.ErrConstraintCheck:
			return fmt.Errorf("%w: %s", ErrConstraint, liteErr.Error())
		}
	}

	return err
}
