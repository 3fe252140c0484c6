package repository

import (
	"errors"
	"strings"

	"devconnector/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, pgUniqueViolation)
}

// wrapWriteError maps a failed insert or update to an AppError. field and
// message describe the conflict reported for a unique violation.
func wrapWriteError(err error, field, message string) error {
	if isUniqueConstraintError(err) {
		return models.NewConflictError(field, message)
	}
	return models.NewInternalError(err)
}
