package testutil_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tauroid/csv-dataflow/internal/ingest"
	"github.com/tauroid/csv-dataflow/internal/store"
	"github.com/tauroid/csv-dataflow/internal/testutil"
)

var clockCSVs = []string{
	"name,option,,code/x,code/y\nBob,yes,,5,7\n",
	"name,option,,code/x,code/y\nAlice,no,,1,2\n",
	"name,option,,code/x,code/y\nCarol,,,3,\n",
}

// putAll stores one snapshot per CSV in a fresh in-memory store and returns
// its listing.
func putAll(t *testing.T, clock *testutil.DeterministicClock, csvs []string) []store.Snapshot {
	t.Helper()
	ctx := context.Background()

	s, err := store.Open(":memory:",
		store.WithIDGenerator(testutil.NewSequentialIDGenerator()),
		store.WithClock(clock),
	)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	in, err := ingest.New(testutil.PersonType(), testutil.CodeType(), ingest.Options{})
	require.NoError(t, err)

	for _, csv := range csvs {
		res, err := in.Read("people.csv", strings.NewReader(csv))
		require.NoError(t, err)
		_, inserted, err := s.Put(ctx, store.Input{
			Types:      []byte(testutil.TypesCUE),
			SourceType: "Person",
			TargetType: "Coded",
			Files:      []store.FileInput{{Path: "people.csv", Content: []byte(csv)}},
		}, res)
		require.NoError(t, err)
		require.True(t, inserted)
	}

	snaps, err := s.List(ctx)
	require.NoError(t, err)
	return snaps
}

func TestDeterministicClock_OrdersSnapshots(t *testing.T) {
	clock := testutil.NewDeterministicClock()
	assert.Equal(t, int64(0), clock.Current())

	snaps := putAll(t, clock, clockCSVs)
	require.Len(t, snaps, 3)
	for i, snap := range snaps {
		assert.Equal(t, int64(i+1), snap.Seq)
	}
	assert.Equal(t, "00000000-0000-7000-8000-000000000001", snaps[0].ID)
	assert.Equal(t, int64(3), clock.Current())
}

func TestDeterministicClock_ListingsRepeatAcrossRuns(t *testing.T) {
	first := putAll(t, testutil.NewDeterministicClock(), clockCSVs)
	second := putAll(t, testutil.NewDeterministicClock(), clockCSVs)
	assert.Equal(t, first, second)
}

func TestDeterministicClock_ConcurrentNextIsUnique(t *testing.T) {
	clock := testutil.NewDeterministicClock()
	const workers, calls = 8, 50

	var mu sync.Mutex
	seen := make(map[int64]bool)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range calls {
				seq := clock.Next()
				mu.Lock()
				seen[seq] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*calls)
	assert.Equal(t, int64(workers*calls), clock.Current())
}
