package database

import (
	"errors"
	"fmt"
	"strings"

	"entgo.io/ent/dialect/sql/sqlgraph"
	"github.com/FlagBrew/local-dex/internal/models"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE || liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return sqlgraph.IsUniqueConstraintError(err)
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1451 || myErr.Number == 1452
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
	}
	return sqlgraph.IsForeignKeyConstraintError(err)
}

// typeWriteError maps constraint violations raised while writing a type.
func typeWriteError(err error) error {
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %v", models.ErrDuplicateType, err)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: %v", models.ErrTypeInUse, err)
	}
	return err
}

// isPokedexViolation tells whether a unique violation hit the pokedex number
// index. Only the constraint name is inspected: mysql quotes the offending
// value in its message, and a name could spell out anything.
func isPokedexViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName == pokedexIndex
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		i := strings.LastIndex(myErr.Message, " for key ")
		return i >= 0 && strings.Contains(myErr.Message[i:], pokedexIndex)
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		// sqlite names the columns, never the values.
		return strings.Contains(liteErr.Error(), pokemonTable+"."+colPokedex)
	}
	return strings.Contains(err.Error(), pokedexIndex)
}

// pokemonWriteError maps constraint violations raised while writing p.
func pokemonWriteError(p *models.Pokemon, err error) error {
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		if isPokedexViolation(err) {
			return fmt.Errorf("%w: %v", models.ErrDuplicatePokedexNumber, err)
		}
		return fmt.Errorf("%w: %v", models.ErrDuplicateName, err)
	case isForeignKeyViolation(err):
		if strings.Contains(err.Error(), "secondary") && p.SecondaryTypeID != nil {
			return &models.ReferenceError{Field: colSecondaryType, TypeID: *p.SecondaryTypeID}
		}
		return &models.ReferenceError{Field: colPrimaryType, TypeID: p.PrimaryTypeID}
	}
	return err
}
