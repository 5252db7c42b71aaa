package sqlerr

import (
	"database/sql"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/deppfellow/recipe-catalog/internal/errs"
)

// ErrCode reports the Code of the first *Error in err's chain, or Other.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return MapCode(pgErr.Code)
	}
	return Other
}

// ConvertPgError converts a raw Postgres error into an *Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// actions is the suffix of the machine code for each constraint category.
var actions = map[Code]string{
	ForeignKeyViolation: "NOT_FOUND",
	UniqueViolation:     "ALREADY_EXISTS",
	NotNullViolation:    "REQUIRED",
	CheckViolation:      "INVALID",
}

var titleCaser = cases.Title(language.English)

// HandleError converts a low-level database error into an *errs.HTTPError.
// Constraint failures become 400s with a code like INGREDIENT_ALREADY_EXISTS,
// a missing row becomes 404 and anything else a 500.
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return constraintError(ConvertPgError(pgErr))
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	return errs.NewInternalServerError()
}

func constraintError(sqlErr *Error) error {
	action, ok := actions[sqlErr.Code]
	if !ok {
		return errs.NewInternalServerError()
	}

	entity := singular(sqlErr.TableName)
	if entity == "" {
		entity = "record"
	}
	code := strings.ToUpper(entity) + "_" + action
	column := strings.ToLower(sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		referenced := entity
		if strings.HasSuffix(column, "_id") {
			referenced = strings.TrimSuffix(column, "_id")
		}
		msg := "The referenced " + humanize(referenced) + " does not exist"
		return errs.NewBadRequestError(msg, false, &code, nil, nil)

	case UniqueViolation:
		if column == "" {
			column = extractColumnForUniqueViolation(sqlErr.ConstraintName)
		}
		identifier := "identifier"
		var fieldErrors []errs.FieldError
		if column != "" {
			identifier = strings.ToLower(humanize(column))
			fieldErrors = []errs.FieldError{{Field: column, Error: "already exists"}}
		}
		name := humanize(entity)
		msg := article(name) + " " + name + " with this " + identifier + " already exists"
		return errs.NewBadRequestError(msg, true, &code, fieldErrors, nil)

	case NotNullViolation:
		field := humanize(column)
		if field == "" {
			field = "field"
		}
		var fieldErrors []errs.FieldError
		if column != "" {
			fieldErrors = []errs.FieldError{{Field: column, Error: "is required"}}
		}
		return errs.NewBadRequestError("The "+field+" is required", true, &code, fieldErrors, nil)

	default: // CheckViolation
		msg := "One or more values do not meet required conditions"
		if column == "" {
			column = checkedColumn(sqlErr.ConstraintName, sqlErr.TableName)
		}
		if column != "" {
			msg = "The " + humanize(column) + " value does not meet required conditions"
		}
		return errs.NewBadRequestError(msg, true, &code, nil, nil)
	}
}

func singular(table string) string {
	if len(table) > 1 && strings.HasSuffix(table, "s") {
		return table[:len(table)-1]
	}
	return table
}

func humanize(text string) string {
	return titleCaser.String(strings.ReplaceAll(text, "_", " "))
}

func article(word string) string {
	if word != "" && strings.ContainsRune("AEIOUaeiou", rune(word[0])) {
		return "An"
	}
	return "A"
}

var constraintColumnRe = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)

// extractColumnForUniqueViolation understands "unique_<table>_<column>"
// and "<table>_<column>_key" constraint names.
func extractColumnForUniqueViolation(constraintName string) string {
	if strings.HasPrefix(constraintName, "unique_") {
		if parts := strings.Split(constraintName, "_"); len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}

	if matches := constraintColumnRe.FindStringSubmatch(constraintName); len(matches) > 1 {
		return matches[1]
	}
	return ""
}

// checkedColumn reads the column out of "<table>_<column>_check", the name
// Postgres gives inline CHECK constraints such as reviews_rating_check.
func checkedColumn(constraintName, table string) string {
	column := strings.TrimSuffix(constraintName, "_check")
	if column == constraintName {
		return ""
	}
	return strings.TrimPrefix(column, table+"_")
}
