package ledger

import (
	"context"
	"strconv"

	"labshare_dao/sdk"
)

// Batch is everything one commit writes. Stores apply it all or nothing.
type Batch struct {
	Sets    map[string]string
	Deletes []string
	Events  []Event
}

func newBatch() *Batch {
	return &Batch{Sets: make(map[string]string)}
}

// Store persists contract state, runtime cells and the event log.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Apply(ctx context.Context, b *Batch) error
	// LoadEvents returns up to limit events with Seq >= from, in order.
	LoadEvents(ctx context.Context, from uint64, limit int) ([]Event, error)
	EventCount(ctx context.Context) (uint64, error)
	// Scan visits every key with the prefix. Order is unspecified.
	Scan(ctx context.Context, prefix string, fn func(key, value string) error) error
	Close() error
}

// Runtime keys live above 0xf0 so they never collide with contract keys.
const (
	prefixAccount = "\xf1"
	prefixCustody = "\xf2"
	keySupply     = "\xf3supply"
	keyTxSeq      = "\xf3txseq"
)

func accountKey(a sdk.Address) string { return prefixAccount + string(a) }

func custodyKey(id sdk.ObjectID, slot string) string {
	return prefixCustody + string(id[:]) + slot
}

func getUint(ctx context.Context, s Store, key string) (uint64, error) {
	v, ok, err := s.Get(ctx, key)
	if err != nil || !ok || v == "" {
		return 0, err
	}
	return parseUint(v)
}

func parseUint(v string) (uint64, error) {
	return strconv.ParseUint(v, 10, 64)
}

func fmtUint(n uint64) string { return strconv.FormatUint(n, 10) }
