// ABOUTME: Maps SQLite driver errors onto CRM error kinds
// ABOUTME: Unique violations become validation errors, everything else a storage error
package db

import (
	"database/sql"
	"errors"

	"github.com/harperreed/crmcore/crmerr"
	"github.com/mattn/go-sqlite3"
)

func mapError(op string, err error) error {
	if err == nil {
		return nil
	}

	var se sqlite3.Error
	if errors.As(err, &se) {
		switch se.ExtendedCode {
		case sqlite3.ErrConstraintUnique:
			return crmerr.Validation("email", "is already in use")
		case sqlite3.ErrConstraintCheck:
			return crmerr.Validation("", "constraint failed: %v", se)
		}
	}
	return crmerr.Storage(op, err)
}

// rowError converts a single-row lookup error, treating no rows as NotFound.
func rowError(kind, id, op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return crmerr.NotFound(kind, id)
	}
	return mapError(op, err)
}

// affected turns a zero-row write into NotFound.
func affected(kind, id, op string, res sql.Result, err error) error {
	if err != nil {
		return mapError(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return crmerr.Storage(op, err)
	}
	if n == 0 {
		return crmerr.NotFound(kind, id)
	}
	return nil
}
