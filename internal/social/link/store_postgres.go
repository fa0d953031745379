// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package link

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/khatmah/internal/platform/apperr"
	"github.com/taibuivan/khatmah/internal/platform/database/schema"
	"github.com/taibuivan/khatmah/internal/platform/dberr"
)

// lockNamespace prefixes advisory lock keys so they cannot collide with
// locks taken on other tables.
const lockNamespace = "users.link:"

// querier is the subset of pgxpool.Pool and pgx.Tx used by reads.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// database is the subset of pgxpool.Pool the directory needs.
type database interface {
	querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresDirectory implements [Directory] on the users.link table.
type PostgresDirectory struct {
	db database
}

// NewPostgresDirectory creates the link directory.
func NewPostgresDirectory(pool *pgxpool.Pool) *PostgresDirectory {
	return &PostgresDirectory{db: pool}
}

// AreLinked implements [Directory].
func (directory *PostgresDirectory) AreLinked(context context.Context, a, b string) (bool, error) {
	first, second := Order(a, b)
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)`,
		schema.UserLink.Table, schema.UserLink.UserA, schema.UserLink.UserB)

	var linked bool
	if err := directory.db.QueryRow(context, query, first, second).Scan(&linked); err != nil {
		return false, dberr.Wrap(err, "Link", "postgres_link_exists_failed")
	}
	return linked, nil
}

// PartnerOf implements [Directory].
func (directory *PostgresDirectory) PartnerOf(context context.Context, userID string) (string, bool, error) {
	found, err := directory.find(context, directory.db, userID)
	if apperr.IsNotFound(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return found.Other(userID), true, nil
}

// Link implements [Directory].
//
// Both readers are locked for the rest of the transaction before their
// existing partnerships are checked, so two concurrent links sharing a reader
// run one after the other and the second sees the first.
func (directory *PostgresDirectory) Link(context context.Context, a, b string) (*Link, error) {
	if err := ValidatePair(a, b); err != nil {
		return nil, err
	}
	first, second := Order(a, b)

	var created *Link
	err := pgx.BeginFunc(context, directory.db, func(tx pgx.Tx) error {
		if err := lockReaders(context, tx, first, second); err != nil {
			return err
		}

		for _, userID := range []string{first, second} {
			existing, err := directory.find(context, tx, userID)
			if err == nil {
				if existing.UserA == first && existing.UserB == second {
					created = existing
					return nil
				}
				return apperr.Conflict("Reader is already linked with someone else")
			}
			if !apperr.IsNotFound(err) {
				return err
			}
		}

		query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s`,
			schema.UserLink.Table, schema.UserLink.UserA, schema.UserLink.UserB, schema.UserLink.CreatedAt)

		created = &Link{UserA: first, UserB: second}
		if err := tx.QueryRow(context, query, first, second).Scan(&created.CreatedAt); err != nil {
			return dberr.Wrap(err, "Link", "postgres_link_insert_failed")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Unlink implements [Directory].
func (directory *PostgresDirectory) Unlink(context context.Context, userID string) (*Link, error) {
	query := fmt.Sprintf(`
		DELETE FROM %[1]s
		WHERE %[2]s = $1 OR %[3]s = $1
		RETURNING %[2]s, %[3]s, %[4]s`,
		schema.UserLink.Table, schema.UserLink.UserA, schema.UserLink.UserB, schema.UserLink.CreatedAt)

	removed := &Link{}
	err := directory.db.QueryRow(context, query, userID).Scan(&removed.UserA, &removed.UserB, &removed.CreatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "Link", "postgres_link_delete_failed")
	}
	return removed, nil
}

// lockReaders takes a transaction-scoped advisory lock per reader. Keys are
// taken in pair order so two transactions never wait on each other crosswise.
func lockReaders(context context.Context, tx pgx.Tx, first, second string) error {
	for _, userID := range []string{first, second} {
		if _, err := tx.Exec(context, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, lockNamespace+userID); err != nil {
			return dberr.Wrap(err, "Link", "postgres_link_lock_failed")
		}
	}
	return nil
}

func (directory *PostgresDirectory) find(context context.Context, db querier, userID string) (*Link, error) {
	query := fmt.Sprintf(`
		SELECT %[2]s, %[3]s, %[4]s
		FROM %[1]s
		WHERE %[2]s = $1 OR %[3]s = $1`,
		schema.UserLink.Table, schema.UserLink.UserA, schema.UserLink.UserB, schema.UserLink.CreatedAt)

	found := &Link{}
	err := db.QueryRow(context, query, userID).Scan(&found.UserA, &found.UserB, &found.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Link")
	}
	if err != nil {
		return nil, dberr.Wrap(err, "Link", "postgres_link_find_failed")
	}
	return found, nil
}
