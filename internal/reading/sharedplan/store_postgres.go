// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sharedplan

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/khatmah/internal/platform/database/schema"
	"github.com/taibuivan/khatmah/internal/platform/dberr"
)

// PostgresRepository implements [Repository] on the reading.sharedplan table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates the durable shared plan store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// FindByPair implements [Repository].
func (repository *PostgresRepository) FindByPair(context context.Context, pairID string) (*SharedPlan, error) {
	table := schema.ReadingSharedPlan
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		table.ID, table.PairID, table.UserA, table.UserB, table.StartDate, table.EndDate, table.Status,
		table.CurrentUnit, table.CurrentPositionInUnit, table.CurrentAbsolutePage,
		table.CreatedBy, table.UpdatedBy, table.CreatedAt, table.UpdatedAt,
		table.Table,
		table.PairID,
	)

	shared := &SharedPlan{}
	err := repository.pool.QueryRow(context, query, pairID).Scan(
		&shared.ID,
		&shared.PairID,
		&shared.UserA,
		&shared.UserB,
		&shared.StartDate,
		&shared.EndDate,
		&shared.Status,
		&shared.UnitNumber,
		&shared.PositionInUnit,
		&shared.AbsolutePage,
		&shared.CreatedBy,
		&shared.UpdatedBy,
		&shared.CreatedAt,
		&shared.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "SharedPlan", "postgres_sharedplan_find_failed")
	}

	shared.StartDate = shared.StartDate.UTC()
	shared.EndDate = shared.EndDate.UTC()
	shared.CreatedAt = shared.CreatedAt.UTC()
	shared.UpdatedAt = shared.UpdatedAt.UTC()
	return shared, nil
}

// Upsert implements [Repository]. The last write to arrive wins, whatever its
// timestamp.
func (repository *PostgresRepository) Upsert(context context.Context, shared *SharedPlan) error {
	table := schema.ReadingSharedPlan
	query := fmt.Sprintf(`
		INSERT INTO %[1]s (%[2]s, %[3]s, %[4]s, %[5]s, %[6]s, %[7]s, %[8]s, %[9]s, %[10]s, %[11]s, %[12]s, %[13]s, %[14]s, %[15]s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (%[3]s) DO UPDATE SET
			%[2]s = EXCLUDED.%[2]s,
			%[6]s = EXCLUDED.%[6]s,
			%[7]s = EXCLUDED.%[7]s,
			%[8]s = EXCLUDED.%[8]s,
			%[9]s = EXCLUDED.%[9]s,
			%[10]s = EXCLUDED.%[10]s,
			%[11]s = EXCLUDED.%[11]s,
			%[12]s = EXCLUDED.%[12]s,
			%[13]s = EXCLUDED.%[13]s,
			%[14]s = EXCLUDED.%[14]s,
			%[15]s = EXCLUDED.%[15]s`,
		table.Table,
		table.ID, table.PairID, table.UserA, table.UserB, table.StartDate, table.EndDate, table.Status,
		table.CurrentUnit, table.CurrentPositionInUnit, table.CurrentAbsolutePage,
		table.CreatedBy, table.UpdatedBy, table.CreatedAt, table.UpdatedAt,
	)

	_, err := repository.pool.Exec(context, query,
		shared.ID,
		shared.PairID,
		shared.UserA,
		shared.UserB,
		shared.StartDate,
		shared.EndDate,
		shared.Status,
		shared.UnitNumber,
		shared.PositionInUnit,
		shared.AbsolutePage,
		shared.CreatedBy,
		shared.UpdatedBy,
		shared.CreatedAt,
		shared.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "SharedPlan", "postgres_sharedplan_upsert_failed")
	}
	return nil
}

// Delete implements [Repository].
func (repository *PostgresRepository) Delete(context context.Context, pairID string, asOf time.Time) error {
	table := schema.ReadingSharedPlan
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s <= $2`,
		table.Table, table.PairID, table.UpdatedAt)

	if _, err := repository.pool.Exec(context, query, pairID, asOf); err != nil {
		return dberr.Wrap(err, "SharedPlan", "postgres_sharedplan_delete_failed")
	}
	return nil
}
