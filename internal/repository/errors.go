package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/hotel-yunuen/service-reservation/internal/platform/domain"
)

// Postgres SQLSTATE codes the repositories translate.
const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
)

// translateError maps driver errors onto domain errors. message is used for
// constraint violations.
func translateError(err error, message string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation, pgExclusionViolation:
			return domain.NewConflictError(message)
		}
	}
	return err
}

// notFound turns gorm.ErrRecordNotFound into a NotFound domain error.
func notFound(err error, entity, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NewNotFoundError(entity, id)
	}
	return err
}

func offset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}
