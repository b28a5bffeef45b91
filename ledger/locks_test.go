package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockTable_OverlappingSetsSerialize(t *testing.T) {
	lt := newLockTable()
	var (
		mu      sync.Mutex
		inside  int
		maxSeen int
		wg      sync.WaitGroup
	)
	sets := [][]string{{"a", "b"}, {"b", "c"}, {"c", "a"}, {"a", "b", "c"}}
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(keys []string) {
			defer wg.Done()
			release, err := lt.acquire(context.Background(), keys)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			inside--
			mu.Unlock()
			release()
		}(sets[i%len(sets)])
	}
	wg.Wait()
	// every pair of sets overlaps, so no two holders can coexist.
	assert.Equal(t, 1, maxSeen)
	assert.Empty(t, lt.entries)
}

func TestLockTable_DisjointSetsDoNotBlock(t *testing.T) {
	lt := newLockTable()
	release, err := lt.acquire(context.Background(), []string{"x"})
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	other, err := lt.acquire(ctx, []string{"y", "z"})
	require.NoError(t, err)
	other()
}

func TestSortedUnique(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, sortedUnique([]string{"c", "a", "b", "a", "c"}))
	assert.Empty(t, sortedUnique(nil))
}
