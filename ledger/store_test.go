package ledger

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStoreWithClient(client, "test")
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestStores(t *testing.T) {
	redisStore, _ := newRedisTestStore(t)
	stores := map[string]Store{
		"memory": NewMemStore(),
		"redis":  redisStore,
	}
	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, ok, err := s.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok)

			b := newBatch()
			b.Sets[accountKey(alice)] = "10"
			b.Sets[accountKey(bob)] = "20"
			b.Sets["\x01plain"] = "x"
			b.Events = []Event{
				{Seq: 1, TxDigest: "d1", Index: 0, Type: "A", Sender: alice, Timestamp: 5, Fields: map[string]string{"k": "v"}},
				{Seq: 2, TxDigest: "d1", Index: 1, Type: "B", Sender: alice, Timestamp: 5, Fields: map[string]string{}},
			}
			require.NoError(t, s.Apply(ctx, b))

			v, ok, err := s.Get(ctx, accountKey(bob))
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "20", v)

			var sum uint64
			require.NoError(t, s.Scan(ctx, prefixAccount, func(_, v string) error {
				n, err := parseUint(v)
				sum += n
				return err
			}))
			assert.Equal(t, uint64(30), sum)

			del := newBatch()
			del.Deletes = []string{"\x01plain"}
			del.Events = []Event{{Seq: 3, TxDigest: "d2", Type: "C", Sender: bob, Fields: map[string]string{}}}
			require.NoError(t, s.Apply(ctx, del))
			_, ok, err = s.Get(ctx, "\x01plain")
			require.NoError(t, err)
			assert.False(t, ok)

			n, err := s.EventCount(ctx)
			require.NoError(t, err)
			assert.Equal(t, uint64(3), n)

			page, err := s.LoadEvents(ctx, 2, 5)
			require.NoError(t, err)
			require.Len(t, page, 2)
			assert.Equal(t, "B", page[0].Type)
			assert.Equal(t, uint64(3), page[1].Seq)

			first, err := s.LoadEvents(ctx, 0, 1)
			require.NoError(t, err)
			require.Len(t, first, 1)
			assert.Equal(t, "v", first[0].Fields["k"])

			none, err := s.LoadEvents(ctx, 10, 5)
			require.NoError(t, err)
			assert.Empty(t, none)
		})
	}
}

func TestRedisStore_LedgerRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := newRedisTestStore(t)
	l, _ := newTestLedger(t, s)
	require.NoError(t, l.Mint(ctx, alice, 300))
	id := initDAO(t, l, alice, 120)

	reopened, _ := newTestLedger(t, s)
	held, err := reopened.CustodyBalance(ctx, id, "treasury")
	require.NoError(t, err)
	assert.Equal(t, uint64(120), held)
	total, err := reopened.TotalHeld(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(300), total)
	assert.Equal(t, uint64(1), reopened.LastSeq())
}

func TestRedisStore_Unavailable(t *testing.T) {
	s, mr := newRedisTestStore(t)
	mr.Close()
	_, _, err := s.Get(context.Background(), "k")
	assert.Error(t, err)
}
