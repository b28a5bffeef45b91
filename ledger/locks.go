package ledger

import (
	"context"
	"sort"
	"sync"
)

// lockTable hands out per key mutexes. Callers acquire every key of a
// transaction in sorted order, so two transactions can never wait on each other
// in a cycle.
type lockTable struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	ch   chan struct{}
	refs int
}

func newLockTable() *lockTable {
	return &lockTable{entries: make(map[string]*lockEntry)}
}

func (t *lockTable) ref(key string) *lockEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[key]
	if !ok {
		e = &lockEntry{ch: make(chan struct{}, 1)}
		t.entries[key] = e
	}
	e.refs++
	return e
}

func (t *lockTable) unref(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.entries[key]; ok {
		e.refs--
		if e.refs == 0 {
			delete(t.entries, key)
		}
	}
}

// acquire blocks until all keys are held or ctx is done. The returned release
// function frees them.
func (t *lockTable) acquire(ctx context.Context, keys []string) (func(), error) {
	keys = sortedUnique(keys)
	held := make([]string, 0, len(keys))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			k := held[i]
			t.mu.Lock()
			e := t.entries[k]
			t.mu.Unlock()
			<-e.ch
			t.unref(k)
		}
	}
	for _, k := range keys {
		e := t.ref(k)
		select {
		case e.ch <- struct{}{}:
			held = append(held, k)
		case <-ctx.Done():
			t.unref(k)
			release()
			return nil, ctx.Err()
		}
	}
	return release, nil
}

func sortedUnique(keys []string) []string {
	out := append([]string(nil), keys...)
	sort.Strings(out)
	n := 0
	for i, k := range out {
		if i == 0 || k != out[n-1] {
			out[n] = k
			n++
		}
	}
	return out[:n]
}
