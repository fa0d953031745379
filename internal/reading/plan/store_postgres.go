// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package plan

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/khatmah/internal/platform/database/schema"
	"github.com/taibuivan/khatmah/internal/platform/dberr"
)

// PostgresRepository implements [Repository] on the reading.plan table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates the durable plan store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// FindByOwner implements [Repository].
func (repository *PostgresRepository) FindByOwner(context context.Context, ownerID string) (*Plan, error) {
	table := schema.ReadingPlan
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		table.ID, table.OwnerID, table.StartDate, table.EndDate, table.Status,
		table.CurrentUnit, table.CurrentPositionInUnit, table.CurrentAbsolutePage,
		table.CreatedAt, table.UpdatedAt,
		table.Table,
		table.OwnerID,
	)

	plan := &Plan{}
	err := repository.pool.QueryRow(context, query, ownerID).Scan(
		&plan.ID,
		&plan.OwnerID,
		&plan.StartDate,
		&plan.EndDate,
		&plan.Status,
		&plan.UnitNumber,
		&plan.PositionInUnit,
		&plan.AbsolutePage,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "Plan", "postgres_plan_find_failed")
	}

	plan.StartDate = plan.StartDate.UTC()
	plan.EndDate = plan.EndDate.UTC()
	plan.CreatedAt = plan.CreatedAt.UTC()
	plan.UpdatedAt = plan.UpdatedAt.UTC()
	return plan, nil
}

// Upsert implements [Repository]. A newer stored row is left untouched.
func (repository *PostgresRepository) Upsert(context context.Context, plan *Plan) error {
	table := schema.ReadingPlan
	query := fmt.Sprintf(`
		INSERT INTO %[1]s AS stored (%[2]s, %[3]s, %[4]s, %[5]s, %[6]s, %[7]s, %[8]s, %[9]s, %[10]s, %[11]s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (%[3]s) DO UPDATE SET
			%[2]s = EXCLUDED.%[2]s,
			%[4]s = EXCLUDED.%[4]s,
			%[5]s = EXCLUDED.%[5]s,
			%[6]s = EXCLUDED.%[6]s,
			%[7]s = EXCLUDED.%[7]s,
			%[8]s = EXCLUDED.%[8]s,
			%[9]s = EXCLUDED.%[9]s,
			%[10]s = EXCLUDED.%[10]s,
			%[11]s = EXCLUDED.%[11]s
		WHERE stored.%[11]s <= EXCLUDED.%[11]s`,
		table.Table,
		table.ID, table.OwnerID, table.StartDate, table.EndDate, table.Status,
		table.CurrentUnit, table.CurrentPositionInUnit, table.CurrentAbsolutePage,
		table.CreatedAt, table.UpdatedAt,
	)

	_, err := repository.pool.Exec(context, query,
		plan.ID,
		plan.OwnerID,
		plan.StartDate,
		plan.EndDate,
		plan.Status,
		plan.UnitNumber,
		plan.PositionInUnit,
		plan.AbsolutePage,
		plan.CreatedAt,
		plan.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "Plan", "postgres_plan_upsert_failed")
	}
	return nil
}

// Delete implements [Repository]. Deleting a missing plan is not an error.
func (repository *PostgresRepository) Delete(context context.Context, ownerID string, asOf time.Time) error {
	table := schema.ReadingPlan
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s <= $2`,
		table.Table, table.OwnerID, table.UpdatedAt)

	if _, err := repository.pool.Exec(context, query, ownerID, asOf); err != nil {
		return dberr.Wrap(err, "Plan", "postgres_plan_delete_failed")
	}
	return nil
}
