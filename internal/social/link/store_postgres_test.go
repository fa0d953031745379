// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package link

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/khatmah/internal/platform/apperr"
)

var linkedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// row is a canned pgx.Row.
type row struct {
	link *Link
	err  error
}

func (r row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) == 1 {
		*dest[0].(*time.Time) = linkedAt
		return nil
	}
	*dest[0].(*string) = r.link.UserA
	*dest[1].(*string) = r.link.UserB
	*dest[2].(*time.Time) = r.link.CreatedAt
	return nil
}

// recordingTx logs the statements a transaction runs, in order.
type recordingTx struct {
	pgx.Tx
	links     []Link
	log       []string
	committed bool
}

func (tx *recordingTx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if strings.Contains(sql, "pg_advisory_xact_lock") {
		tx.log = append(tx.log, "lock "+args[0].(string))
	}
	return pgconn.CommandTag{}, nil
}

func (tx *recordingTx) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	if strings.Contains(sql, "INSERT") {
		tx.log = append(tx.log, "insert")
		return row{}
	}

	userID := args[0].(string)
	tx.log = append(tx.log, "find "+userID)
	for i := range tx.links {
		if tx.links[i].UserA == userID || tx.links[i].UserB == userID {
			return row{link: &tx.links[i]}
		}
	}
	return row{err: pgx.ErrNoRows}
}

func (tx *recordingTx) Commit(context.Context) error {
	tx.committed = true
	return nil
}

func (tx *recordingTx) Rollback(context.Context) error { return nil }

// recordingDB hands out a single recordingTx.
type recordingDB struct {
	tx *recordingTx
}

func (db *recordingDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return db.tx.QueryRow(ctx, sql, args...)
}

func (db *recordingDB) Begin(context.Context) (pgx.Tx, error) { return db.tx, nil }

func newRecordingDirectory(existing ...Link) (*PostgresDirectory, *recordingTx) {
	tx := &recordingTx{links: existing}
	return &PostgresDirectory{db: &recordingDB{tx: tx}}, tx
}

func TestLink_LocksBothReadersBeforeChecking(t *testing.T) {
	directory, tx := newRecordingDirectory()

	created, err := directory.Link(context.Background(), "bob", "alice")
	require.NoError(t, err)

	assert.Equal(t, &Link{UserA: "alice", UserB: "bob", CreatedAt: linkedAt}, created)
	assert.Equal(t, []string{
		"lock users.link:alice",
		"lock users.link:bob",
		"find alice",
		"find bob",
		"insert",
	}, tx.log)
	assert.True(t, tx.committed)
}

func TestLink_ReaderLinkedInOtherColumn(t *testing.T) {
	// carol is userb of her link and would be usera of the new one.
	directory, tx := newRecordingDirectory(Link{UserA: "alice", UserB: "carol", CreatedAt: linkedAt})

	_, err := directory.Link(context.Background(), "carol", "dave")
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))

	assert.Equal(t, []string{
		"lock users.link:carol",
		"lock users.link:dave",
		"find carol",
	}, tx.log)
	assert.False(t, tx.committed)
}

func TestLink_SamePairIsIdempotent(t *testing.T) {
	existing := Link{UserA: "alice", UserB: "bob", CreatedAt: linkedAt.Add(-time.Hour)}
	directory, tx := newRecordingDirectory(existing)

	found, err := directory.Link(context.Background(), "alice", "bob")
	require.NoError(t, err)

	assert.Equal(t, &existing, found)
	assert.NotContains(t, tx.log, "insert")
}
