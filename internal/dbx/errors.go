package dbx

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

// Postgres SQLSTATE codes mapped to domain errors.
const (
	codeUniqueViolation   = "23505"
	codeNotNullViolation  = "23502"
	codeCheckViolation    = "23514"
	codeInvalidTextRepr   = "22P02"
	codeForeignKeyViolate = "23503"
)

// Column check constraints as Postgres names them in the migrations.
var constraintFields = map[string]string{
	"users_username_check": "username",
	"users_email_check":    "email",
	"tasks_title_check":    "title",
	"tasks_status_check":   "status",
	"tasks_priority_check": "priority",
}

// violatedField names the column behind a not-null or check violation, or
// returns "" when it cannot be told without exposing schema names.
func violatedField(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	return constraintFields[pgErr.ConstraintName]
}

// Classify wraps a driver error as "db error: ..." and attaches the matching
// common sentinel so callers can use errors.Is / errors.As.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("db error: %w", err)
	}

	switch pgErr.Code {
	case codeUniqueViolation:
		return fmt.Errorf("db error: %w: %w", common.ErrDuplicate, err)
	case codeInvalidTextRepr:
		return fmt.Errorf("db error: %w: %w", common.ErrMalformedID, err)
	case codeForeignKeyViolate:
		return fmt.Errorf("db error: %w: %w", common.ErrorNotFound, err)
	case codeNotNullViolation, codeCheckViolation:
		verr := &common.ValidationError{}
		if field := violatedField(pgErr); field != "" {
			verr.Add(field, fmt.Sprintf("Invalid value for %s", field))
		} else {
			verr.Add("", "Invalid value")
		}
		return verr
	}
	return fmt.Errorf("db error: %w", err)
}
