package indexer

import (
	"context"
	"fmt"
	"sort"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"labshare_dao/ledger"
	"labshare_dao/metrics"
)

const replayPage = 500

// Source is the part of the ledger the indexer reads from.
type Source interface {
	Events(ctx context.Context, from uint64, limit int) ([]ledger.Event, error)
	Subscribe(buffer int) (<-chan ledger.Event, func())
}

type Options struct {
	DedupCacheSize int
	BufferSize     int
	Logger         *zap.Logger
}

// Indexer folds the ledger event stream into dashboard views. Delivery is at
// least once: replays and live events overlap, and duplicates are dropped by
// (tx digest, event index) and by sequence.
type Indexer struct {
	src    Source
	log    *zap.Logger
	buffer int
	seen   *lru.Cache[ledger.EventKey, struct{}]

	mu         sync.RWMutex
	lastSeq    uint64
	counts     map[string]uint64
	daos       map[string]*DAOView
	escrows    map[string]*EscrowView
	markets    map[string]*MarketView
	incentives IncentivesView
}

func New(src Source, opts Options) (*Indexer, error) {
	if opts.DedupCacheSize <= 0 {
		opts.DedupCacheSize = 10000
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = 1024
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	seen, err := lru.New[ledger.EventKey, struct{}](opts.DedupCacheSize)
	if err != nil {
		return nil, fmt.Errorf("dedup cache: %w", err)
	}
	return &Indexer{
		src:     src,
		log:     opts.Logger.Named("indexer"),
		buffer:  opts.BufferSize,
		seen:    seen,
		counts:  make(map[string]uint64),
		daos:    make(map[string]*DAOView),
		escrows: make(map[string]*EscrowView),
		markets: make(map[string]*MarketView),
		incentives: IncentivesView{
			Pools:     make(map[string]PoolView),
			Royalties: make(map[string]RoyaltyView),
		},
	}, nil
}

// Run subscribes, replays history and then follows the live stream until ctx
// is done. A dropped subscription is re-established with another replay.
func (ix *Indexer) Run(ctx context.Context) error {
	for {
		ch, cancel := ix.src.Subscribe(ix.buffer)
		if err := ix.CatchUp(ctx); err != nil {
			cancel()
			return err
		}
		dropped, err := ix.follow(ctx, ch)
		cancel()
		if !dropped {
			return err
		}
		ix.log.Warn("event subscription dropped, replaying", zap.Uint64("last_seq", ix.LastSeq()))
	}
}

func (ix *Indexer) follow(ctx context.Context, ch <-chan ledger.Event) (bool, error) {
	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case ev, ok := <-ch:
			if !ok {
				return true, nil
			}
			if ev.Seq > ix.LastSeq()+1 {
				if err := ix.CatchUp(ctx); err != nil {
					return false, err
				}
			}
			ix.Apply(ev)
		}
	}
}

// CatchUp pages through the committed log from the last applied sequence.
func (ix *Indexer) CatchUp(ctx context.Context) error {
	for {
		page, err := ix.src.Events(ctx, ix.LastSeq()+1, replayPage)
		if err != nil {
			return fmt.Errorf("replay events: %w", err)
		}
		for _, ev := range page {
			ix.Apply(ev)
		}
		if len(page) < replayPage {
			return nil
		}
	}
}

// Apply folds one event into the views. It reports false for duplicates.
func (ix *Indexer) Apply(ev ledger.Event) bool {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	key := ev.Key()
	if (ev.Seq != 0 && ev.Seq <= ix.lastSeq) || ix.seen.Contains(key) {
		metrics.IndexerDuplicatesTotal.Inc()
		ix.log.Debug("duplicate event skipped",
			zap.String("tx", ev.TxDigest),
			zap.Int("index", ev.Index),
			zap.Uint64("seq", ev.Seq),
		)
		return false
	}
	ix.seen.Add(key, struct{}{})
	if ev.Seq > ix.lastSeq {
		ix.lastSeq = ev.Seq
		metrics.IndexerLastSeq.Set(float64(ev.Seq))
	}
	ix.counts[ev.Type]++
	metrics.IndexerEventsTotal.WithLabelValues(ev.Type).Inc()
	ix.project(ev)
	return true
}

func (ix *Indexer) LastSeq() uint64 {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.lastSeq
}

// Counts returns the number of applied events per type.
func (ix *Indexer) Counts() map[string]uint64 {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	out := make(map[string]uint64, len(ix.counts))
	for k, v := range ix.counts {
		out[k] = v
	}
	return out
}

func (ix *Indexer) DAO(id string) (DAOView, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	d, ok := ix.daos[id]
	if !ok {
		return DAOView{}, false
	}
	out := *d
	out.OpenAlerts = make(map[uint64]AlertView, len(d.OpenAlerts))
	for k, v := range d.OpenAlerts {
		out.OpenAlerts[k] = v
	}
	return out, true
}

func (ix *Indexer) Escrow(id string) (EscrowView, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	e, ok := ix.escrows[id]
	if !ok {
		return EscrowView{}, false
	}
	return *e, true
}

func (ix *Indexer) Market(id string) (MarketView, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	m, ok := ix.markets[id]
	if !ok {
		return MarketView{}, false
	}
	return *m, true
}

func (ix *Indexer) Incentives() IncentivesView {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	out := ix.incentives
	out.Registries = append([]string(nil), ix.incentives.Registries...)
	sort.Strings(out.Registries)
	out.Pools = make(map[string]PoolView, len(ix.incentives.Pools))
	for k, v := range ix.incentives.Pools {
		out.Pools[k] = v
	}
	out.Royalties = make(map[string]RoyaltyView, len(ix.incentives.Royalties))
	for k, v := range ix.incentives.Royalties {
		out.Royalties[k] = v
	}
	return out
}
