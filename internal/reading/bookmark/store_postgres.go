// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package bookmark

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/khatmah/internal/platform/database/schema"
	"github.com/taibuivan/khatmah/internal/platform/dberr"
)

// PostgresRepository implements [Repository] on the reading.bookmark table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates the durable bookmark store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// FindByOwner implements [Repository].
func (repository *PostgresRepository) FindByOwner(context context.Context, ownerID string) (*Bookmark, error) {
	table := schema.ReadingBookmark
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		table.OwnerID, table.UnitNumber, table.UnitName, table.PositionInUnit, table.AbsolutePage, table.UpdatedAt,
		table.Table,
		table.OwnerID,
	)

	bookmark := &Bookmark{}
	err := repository.pool.QueryRow(context, query, ownerID).Scan(
		&bookmark.OwnerID,
		&bookmark.UnitNumber,
		&bookmark.UnitName,
		&bookmark.PositionInUnit,
		&bookmark.AbsolutePage,
		&bookmark.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "Bookmark", "postgres_bookmark_find_failed")
	}

	bookmark.UpdatedAt = bookmark.UpdatedAt.UTC()
	return bookmark, nil
}

/*
Upsert writes the whole record. The WHERE clause on the conflict branch keeps
a newer row written by another device from being overwritten by a stale push.
*/
func (repository *PostgresRepository) Upsert(context context.Context, bookmark *Bookmark) error {
	table := schema.ReadingBookmark
	query := fmt.Sprintf(`
		INSERT INTO %[1]s AS stored (%[2]s, %[3]s, %[4]s, %[5]s, %[6]s, %[7]s)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (%[2]s) DO UPDATE SET
			%[3]s = EXCLUDED.%[3]s,
			%[4]s = EXCLUDED.%[4]s,
			%[5]s = EXCLUDED.%[5]s,
			%[6]s = EXCLUDED.%[6]s,
			%[7]s = EXCLUDED.%[7]s
		WHERE stored.%[7]s <= EXCLUDED.%[7]s`,
		table.Table,
		table.OwnerID, table.UnitNumber, table.UnitName, table.PositionInUnit, table.AbsolutePage, table.UpdatedAt,
	)

	_, err := repository.pool.Exec(context, query,
		bookmark.OwnerID,
		bookmark.UnitNumber,
		bookmark.UnitName,
		bookmark.PositionInUnit,
		bookmark.AbsolutePage,
		bookmark.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "Bookmark", "postgres_bookmark_upsert_failed")
	}
	return nil
}
