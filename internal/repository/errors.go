package repository

import (
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrDuplicate is returned when a write collides with a unique column.
	ErrDuplicate = errors.New("duplicate record")
	// ErrReferenced is returned when a write breaks a foreign key: either the
	// row points at something missing, or something still points at the row.
	ErrReferenced = errors.New("referenced record constraint")
)

func classify(err error) error {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	// ON DELETE RESTRICT fires as a trigger constraint rather than a
	// foreign key one.
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY, sqlite3.SQLITE_CONSTRAINT_TRIGGER:
		return fmt.Errorf("%w: %v", ErrReferenced, err)
	}
	return err
}
