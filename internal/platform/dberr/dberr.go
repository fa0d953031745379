// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/khatmah/internal/platform/apperr"
)

// SQLSTATE codes mapped to CONFLICT.
const (
	foreignKeyViolation = "23503"
	uniqueViolation     = "23505"
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
//
// Missing rows become NOT_FOUND for the named resource. Foreign key and
// unique violations become CONFLICT. Anything else is INTERNAL with the
// action recorded in the cause for the server log.
func Wrap(err error, resource, action string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch pgError.Code {
		case foreignKeyViolation:
			conflict := apperr.Conflict(resource + " references a missing record")
			conflict.Cause = err
			return conflict
		case uniqueViolation:
			conflict := apperr.Conflict(resource + " already exists")
			conflict.Cause = err
			return conflict
		}
	}

	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}
