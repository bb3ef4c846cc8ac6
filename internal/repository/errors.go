package repository

import (
	"errors"
	"fmt"

	"course_hub/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// isUniqueViolation は postgres の 23505 と GORM の ErrDuplicatedKey を判定します。
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// translate はドライバのエラーをアプリケーションのエラーに変換します。
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, model.ErrNotFound)
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, model.ErrConflict)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
