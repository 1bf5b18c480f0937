package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/puddle/v2"

	"github.com/heartmarshall/instant-voices/internal/domain"
)

// SQLSTATE codes and classes the voice store cares about.
const (
	codeNotNullViolation = "23502"
	codeCheckViolation   = "23514"
	classConnection      = "08"
	classOperator        = "57"
)

// MapError wraps a pgx error with the entity and key it concerns and
// translates it to a domain sentinel where one applies. Context errors
// keep their identity so callers can tell a timeout from a failure.
func MapError(err error, entity, key string) error {
	if err == nil {
		return nil
	}
	prefix := entity + " " + key

	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%s: %w", prefix, err)
	case errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("%s: %w", prefix, domain.ErrNotFound)
	case isUnavailable(err):
		return fmt.Errorf("%s: %w: %w", prefix, domain.ErrUnavailable, err)
	}

	if code := sqlState(err); code == codeNotNullViolation || code == codeCheckViolation {
		return fmt.Errorf("%s: %w", prefix, domain.ErrValidation)
	}
	return fmt.Errorf("%s: %w", prefix, err)
}

func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUnavailable reports whether err means the database cannot be reached.
func isUnavailable(err error) bool {
	if errors.Is(err, puddle.ErrClosedPool) {
		return true
	}

	var connErr *pgconn.ConnectError
	var netErr net.Error
	if errors.As(err, &connErr) || errors.As(err, &netErr) {
		return true
	}

	code := sqlState(err)
	return strings.HasPrefix(code, classConnection) || strings.HasPrefix(code, classOperator)
}
