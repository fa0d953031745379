// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sharedplan_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/khatmah/internal/platform/apperr"
	"github.com/taibuivan/khatmah/internal/reading/plan"
	"github.com/taibuivan/khatmah/internal/reading/readingtest"
	"github.com/taibuivan/khatmah/internal/reading/sharedplan"
	"github.com/taibuivan/khatmah/internal/social/link"
)

type memoryRepository struct {
	mu        sync.Mutex
	rows      map[string]sharedplan.SharedPlan
	failWrite bool
}

func (r *memoryRepository) FindByPair(_ context.Context, pairID string) (*sharedplan.SharedPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[pairID]
	if !ok {
		return nil, apperr.NotFound("SharedPlan")
	}
	return &row, nil
}

func (r *memoryRepository) Upsert(_ context.Context, shared *sharedplan.SharedPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWrite {
		return errors.New("connection refused")
	}
	r.rows[shared.PairID] = *shared
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, pairID string, asOf time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWrite {
		return errors.New("connection refused")
	}
	if stored, ok := r.rows[pairID]; ok && !stored.UpdatedAt.After(asOf) {
		delete(r.rows, pairID)
	}
	return nil
}

func (r *memoryRepository) setFailWrite(fail bool) {
	r.mu.Lock()
	r.failWrite = fail
	r.mu.Unlock()
}

func (r *memoryRepository) row(pairID string) (sharedplan.SharedPlan, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[pairID]
	return row, ok
}

// partners is an in-memory link directory.
type partners struct {
	pairs map[string]string
	err   error
}

func (p *partners) AreLinked(_ context.Context, a, b string) (bool, error) {
	if p.err != nil {
		return false, p.err
	}
	return p.pairs[a] == b, nil
}

func (p *partners) PartnerOf(_ context.Context, userID string) (string, bool, error) {
	if p.err != nil {
		return "", false, p.err
	}
	partner, ok := p.pairs[userID]
	return partner, ok, nil
}

type fixture struct {
	env        *readingtest.Env
	repository *memoryRepository
	partners   *partners
	service    *sharedplan.Service
}

func newFixture() *fixture {
	env := readingtest.NewEnv()
	repository := &memoryRepository{rows: make(map[string]sharedplan.SharedPlan)}
	directory := &partners{pairs: map[string]string{"alice": "bob", "bob": "alice"}}

	return &fixture{
		env:        env,
		repository: repository,
		partners:   directory,
		service:    sharedplan.NewService(env.Cache, repository, directory, env.Writer, env.Stamper, env.Logger),
	}
}

func progressAt(page int) plan.Progress {
	return plan.Progress{UnitNumber: 2, PositionInUnit: page, AbsolutePage: page}
}

func TestCreate_RequiresLink(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.service.Create(ctx, "alice", "carol", 30)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	_, err = f.service.Create(ctx, "alice", "alice", 30)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = f.service.Create(ctx, "alice", "bob", 0)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

func TestCreate_DirectoryFailure(t *testing.T) {
	f := newFixture()
	f.partners.err = errors.New("connection refused")

	_, err := f.service.Create(context.Background(), "alice", "bob", 30)
	require.Error(t, err)
	assert.False(t, apperr.HasCode(err, apperr.CodeForbidden))
}

func TestCreate_OrdersPair(t *testing.T) {
	f := newFixture()

	view, err := f.service.Create(context.Background(), "bob", "alice", 30)
	require.NoError(t, err)

	assert.Equal(t, link.PairKey("alice", "bob"), view.PairID)
	assert.Equal(t, "alice", view.UserA)
	assert.Equal(t, "bob", view.UserB)
	assert.Equal(t, "bob", view.CreatedBy)
	assert.Equal(t, plan.StartProgress, view.Progress)
	assert.Equal(t, 21, view.Pacing.DailyQuota)

	f.env.Writer.Wait()
	row, ok := f.repository.row(view.PairID)
	require.True(t, ok)
	assert.Equal(t, view.ID, row.ID)
}

func TestRecordProgress_LastArrivalWins(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.service.Create(ctx, "alice", "bob", 30)
	require.NoError(t, err)

	_, err = f.service.RecordProgress(ctx, "alice", progressAt(100))
	require.NoError(t, err)
	_, err = f.service.RecordProgress(ctx, "bob", progressAt(150))
	require.NoError(t, err)

	for _, participant := range []string{"alice", "bob"} {
		view, err := f.service.Active(ctx, participant)
		require.NoError(t, err)
		assert.Equal(t, 150, view.AbsolutePage, participant)
		assert.Equal(t, "bob", view.UpdatedBy)
	}

	// An earlier page still overwrites.
	_, err = f.service.RecordProgress(ctx, "alice", progressAt(120))
	require.NoError(t, err)

	view, err := f.service.Active(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 120, view.AbsolutePage)

	f.env.Writer.Wait()
	row, _ := f.repository.row(link.PairKey("alice", "bob"))
	assert.Equal(t, 120, row.AbsolutePage)
	assert.Equal(t, "alice", row.UpdatedBy)
}

func TestRecordProgress_Noops(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// No shared plan yet.
	updated, err := f.service.RecordProgress(ctx, "alice", progressAt(10))
	require.NoError(t, err)
	assert.Nil(t, updated)

	// No partner.
	updated, err = f.service.RecordProgress(ctx, "carol", progressAt(10))
	require.NoError(t, err)
	assert.Nil(t, updated)

	// Directory unreachable.
	_, err = f.service.Create(ctx, "alice", "bob", 30)
	require.NoError(t, err)
	f.partners.err = errors.New("connection refused")
	updated, err = f.service.RecordProgress(ctx, "alice", progressAt(10))
	require.NoError(t, err)
	assert.Nil(t, updated)

	f.env.Writer.Wait()
}

func TestRecordProgress_LastPageFinishes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.service.Create(ctx, "alice", "bob", 30)
	require.NoError(t, err)

	finished, err := f.service.RecordProgress(ctx, "bob", plan.Progress{UnitNumber: 114, PositionInUnit: 6, AbsolutePage: 604})
	require.NoError(t, err)
	assert.Equal(t, plan.StatusFinished, finished.Status)

	after, err := f.service.RecordProgress(ctx, "alice", progressAt(5))
	require.NoError(t, err)
	assert.Nil(t, after)
	f.env.Writer.Wait()
}

func TestDelete_RemovesForBoth(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	view, err := f.service.Create(ctx, "alice", "bob", 30)
	require.NoError(t, err)

	assert.True(t, apperr.IsNotFound(f.service.Delete(ctx, "carol", view.ID)))
	assert.True(t, apperr.IsNotFound(f.service.Delete(ctx, "bob", "other-id")))

	require.NoError(t, f.service.Delete(ctx, "bob", view.ID))
	f.env.Writer.Wait()

	_, err = f.service.Active(ctx, "alice")
	assert.True(t, apperr.IsNotFound(err))
	_, ok := f.repository.row(view.PairID)
	assert.False(t, ok)
}

// A replacement plan that never reached the durable tier still buries the
// plan it superseded there once it is deleted.
func TestDelete_RemovesSupersededDurablePlan(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.service.Create(ctx, "alice", "bob", 30)
	require.NoError(t, err)
	f.env.Writer.Wait()

	f.repository.setFailWrite(true)
	second, err := f.service.Create(ctx, "bob", "alice", 60)
	require.NoError(t, err)
	require.NoError(t, f.service.Delete(ctx, "alice", second.ID))
	f.env.Writer.Wait()

	row, ok := f.repository.row(first.PairID)
	require.True(t, ok)
	require.Equal(t, first.ID, row.ID)

	f.repository.setFailWrite(false)
	winner, err := f.service.Sync(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, winner.Deleted())

	_, ok = f.repository.row(first.PairID)
	assert.False(t, ok)

	other := readingtest.NewEnv()
	device := sharedplan.NewService(other.Cache, f.repository, f.partners, other.Writer, f.env.Stamper, other.Logger)
	_, err = device.Active(ctx, "alice")
	assert.True(t, apperr.IsNotFound(err))
}

func TestActive_RestoresFromDurable(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.service.Create(ctx, "alice", "bob", 30)
	require.NoError(t, err)
	f.env.Writer.Wait()

	other := readingtest.NewEnv()
	device := sharedplan.NewService(other.Cache, f.repository, f.partners, other.Writer, f.env.Stamper, other.Logger)

	view, err := device.Active(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, created.ID, view.ID)
	other.Writer.Wait()

	winner, err := device.Sync(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, winner.ID)

	none, err := device.Sync(ctx, "carol")
	require.NoError(t, err)
	assert.Nil(t, none)
}
