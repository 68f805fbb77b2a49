package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tauroid/csv-dataflow/internal/relation"
	"github.com/tauroid/csv-dataflow/internal/sop"
)

func TestPut_InsertsSnapshot(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	snap, inserted, err := s.Put(ctx, createTestInput(scenarioCSV), createTestResult(t, scenarioCSV))
	require.NoError(t, err)

	assert.True(t, inserted)
	assert.Equal(t, "00000000-0000-7000-8000-000000000001", snap.ID)
	assert.Equal(t, int64(1), snap.Seq)
	assert.Equal(t, 1, snap.Rows)
	assert.Len(t, snap.InputKey, 64)
	assert.Len(t, snap.Fingerprint, 64)
	require.Len(t, snap.Files, 1)
	assert.Equal(t, "people.csv", snap.Files[0].Path)
	assert.Equal(t, FileHash([]byte(scenarioCSV)), snap.Files[0].ContentHash)
}

func TestPut_SameInputIsIdempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	in := createTestInput(scenarioCSV)

	first, inserted, err := s.Put(ctx, in, createTestResult(t, scenarioCSV))
	require.NoError(t, err)
	require.True(t, inserted)

	second, inserted, err := s.Put(ctx, in, createTestResult(t, scenarioCSV))
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Seq, second.Seq)

	snaps, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, snaps, 1)
}

func TestGet_RoundTripsResult(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	res := createTestResult(t, scenarioCSV)

	put, _, err := s.Put(ctx, createTestInput(scenarioCSV), res)
	require.NoError(t, err)

	got, err := s.Get(ctx, put.ID)
	require.NoError(t, err)

	assert.Equal(t, put.Fingerprint, got.Fingerprint)
	assert.Equal(t, put.Files, got.Files)
	assert.True(t, sop.Equal(res.Source, got.Result.Source))
	assert.True(t, sop.Equal(res.Target, got.Result.Target))
	assert.True(t, relation.Equal[sop.NoData](res.Relation, got.Result.Relation))

	fp, err := fingerprint(got.Result)
	require.NoError(t, err)
	assert.Equal(t, put.Fingerprint, fp, "decoded result hashes the same")
}

func TestGet_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLookup(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	in := createTestInput(scenarioCSV)

	_, ok, err := s.Lookup(ctx, in.Key())
	require.NoError(t, err)
	assert.False(t, ok)

	put, _, err := s.Put(ctx, in, createTestResult(t, scenarioCSV))
	require.NoError(t, err)

	got, ok, err := s.Lookup(ctx, in.Key())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, put.ID, got.ID)
	assert.NotNil(t, got.Result)
}

func TestList_OrderedBySeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	empty, err := s.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	other := "name,option,,code/x,code/y\nAlice,no,,1,2\n"
	_, _, err = s.Put(ctx, createTestInput(scenarioCSV), createTestResult(t, scenarioCSV))
	require.NoError(t, err)
	_, _, err = s.Put(ctx, createTestInput(other), createTestResult(t, other))
	require.NoError(t, err)

	snaps, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, int64(1), snaps[0].Seq)
	assert.Equal(t, int64(2), snaps[1].Seq)
	assert.Nil(t, snaps[0].Result, "listings do not load results")
	assert.Len(t, snaps[1].Files, 1)
	assert.NotEqual(t, snaps[0].Fingerprint, snaps[1].Fingerprint)
}

func TestDelete(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	put, _, err := s.Put(ctx, createTestInput(scenarioCSV), createTestResult(t, scenarioCSV))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, put.ID))
	assert.ErrorIs(t, s.Delete(ctx, put.ID), ErrNotFound)

	var files int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM snapshot_files").Scan(&files))
	assert.Equal(t, 0, files, "file records cascade")
}
