// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/khatmah/internal/platform/apperr"
	"github.com/taibuivan/khatmah/internal/platform/dberr"
)

func TestWrap(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "Plan", "get_plan"))

	notFound := dberr.Wrap(pgx.ErrNoRows, "Plan", "get_plan")
	assert.True(t, apperr.IsNotFound(notFound))
	assert.Equal(t, "Plan not found", notFound.Error())

	conflict := dberr.Wrap(&pgconn.PgError{Code: "23503"}, "Link", "insert_link")
	assert.True(t, apperr.HasCode(conflict, apperr.CodeConflict))

	duplicate := dberr.Wrap(&pgconn.PgError{Code: "23505"}, "Link", "insert_link")
	assert.True(t, apperr.HasCode(duplicate, apperr.CodeConflict))
	assert.Equal(t, "Link already exists", duplicate.Error())

	internal := dberr.Wrap(errors.New("broken pipe"), "Plan", "upsert_plan")
	assert.True(t, apperr.HasCode(internal, apperr.CodeInternal))
	assert.Contains(t, apperr.As(internal).Cause.Error(), "upsert_plan")
}
