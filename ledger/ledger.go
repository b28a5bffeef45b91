package ledger

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"labshare_dao/contract"
	"labshare_dao/metrics"
	"labshare_dao/sdk"
)

// Options configures a Ledger. Zero values pick an in-memory store, the wall
// clock and a no-op logger.
type Options struct {
	Store         Store
	Clock         clock.Clock
	Logger        *zap.Logger
	FaucetEnabled bool
}

// Allocation is a genesis account balance.
type Allocation struct {
	Address sdk.Address
	Amount  uint64
}

// Ledger executes contract transactions with object level serializability.
// Transactions naming disjoint objects run in parallel; the commit itself is a
// short critical section that orders events.
type Ledger struct {
	store  Store
	clock  clock.Clock
	log    *zap.Logger
	faucet bool

	locks *lockTable
	hub   *hub

	txSeq atomic.Uint64

	commitMu     sync.RWMutex
	eventSeq     uint64
	committedSeq uint64

	tsMu   sync.Mutex
	lastTS int64
}

func New(ctx context.Context, opts Options) (*Ledger, error) {
	if opts.Store == nil {
		opts.Store = NewMemStore()
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	l := &Ledger{
		store:  opts.Store,
		clock:  opts.Clock,
		log:    opts.Logger.Named("ledger"),
		faucet: opts.FaucetEnabled,
		locks:  newLockTable(),
		hub:    newHub(),
	}
	count, err := l.store.EventCount(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load event count")
	}
	seq, err := getUint(ctx, l.store, keyTxSeq)
	if err != nil {
		return nil, errors.Wrap(err, "load tx sequence")
	}
	l.eventSeq = count
	l.committedSeq = seq
	l.txSeq.Store(seq)
	l.log.Info("ledger opened", zap.Uint64("events", count), zap.Uint64("tx_seq", seq))
	return l, nil
}

// now hands out transaction timestamps that never go backwards.
func (l *Ledger) now() int64 {
	l.tsMu.Lock()
	defer l.tsMu.Unlock()
	ts := l.clock.Now().UnixMilli()
	if ts < l.lastTS {
		ts = l.lastTS
	}
	l.lastTS = ts
	return ts
}

func objectLockKey(id sdk.ObjectID) string { return "o" + string(id[:]) }
func accountLockKey(a sdk.Address) string  { return "a" + string(a) }

// Execute runs one transaction. Contract aborts come back as an unsuccessful
// result; the error return is reserved for infrastructure failures.
func (l *Ledger) Execute(ctx context.Context, req TxRequest) (*TxResult, error) {
	start := time.Now()
	if !req.Sender.IsValid() {
		return nil, errors.Wrapf(ErrInvalidSender, "%q", req.Sender)
	}
	ep, ok := contract.Lookup(req.Action)
	if !ok {
		return nil, errors.Wrap(ErrUnknownAction, req.Action)
	}
	if ep.ReadOnly {
		return nil, errors.Wrapf(ErrReadOnly, "%s is a getter", req.Action)
	}

	keys := make([]string, 0, len(req.Objects)+1)
	for _, id := range req.Objects {
		keys = append(keys, objectLockKey(id))
	}
	keys = append(keys, accountLockKey(req.Sender))
	release, err := l.locks.acquire(ctx, keys)
	if err != nil {
		return nil, errors.Wrap(err, "acquire object locks")
	}
	defer release()
	metrics.LedgerLockWait.Observe(time.Since(start).Seconds())

	seq := l.txSeq.Add(1)
	digest := txDigest(&req, seq)
	res := &TxResult{
		Digest:    encodeDigest(digest),
		Timestamp: l.now(),
	}
	env := sdk.Env{
		Sender:    req.Sender,
		TxDigest:  res.Digest,
		Timestamp: res.Timestamp,
		Intents:   req.Intents,
	}
	rt := newTxRuntime(ctx, l.store, env, digest, req.Objects)

	ret, abort, err := invoke(rt, ep.Fn, req.Payload)
	if err != nil {
		l.observe(req.Action, "error", start)
		l.log.Error("transaction failed", zap.String("action", req.Action), zap.String("digest", res.Digest), zap.Error(err))
		return nil, err
	}
	if abort != nil {
		res.Abort = abort
		l.observe(req.Action, "abort", start)
		l.log.Debug("transaction aborted",
			zap.String("action", req.Action),
			zap.String("digest", res.Digest),
			zap.String("module", abort.Module),
			zap.Uint64("code", abort.Code),
			zap.String("message", abort.Message),
		)
		return res, nil
	}

	events, err := l.commit(ctx, rt, seq, res)
	if err != nil {
		l.observe(req.Action, "error", start)
		l.log.Error("commit failed", zap.String("action", req.Action), zap.String("digest", res.Digest), zap.Error(err))
		return nil, err
	}
	res.Success = true
	res.Ret = ret
	res.Created = rt.created
	res.Events = events
	l.observe(req.Action, "ok", start)
	l.log.Debug("transaction committed",
		zap.String("action", req.Action),
		zap.String("digest", res.Digest),
		zap.Int("events", len(events)),
		zap.Int("created", len(rt.created)),
	)
	return res, nil
}

func (l *Ledger) observe(action, result string, start time.Time) {
	metrics.LedgerTxTotal.WithLabelValues(action, result).Inc()
	metrics.LedgerTxDuration.WithLabelValues(action).Observe(time.Since(start).Seconds())
}

func (l *Ledger) commit(ctx context.Context, rt *txRuntime, seq uint64, res *TxResult) ([]Event, error) {
	l.commitMu.Lock()
	defer l.commitMu.Unlock()

	b, err := rt.batch(ctx, l.store)
	if err != nil {
		return nil, err
	}
	events := buildEvents(rt.lines, res.Digest, rt.env.Sender, res.Timestamp)
	for i := range events {
		events[i].Seq = l.eventSeq + uint64(i) + 1
	}
	b.Events = events
	committed := l.committedSeq
	if seq > committed {
		committed = seq
		b.Sets[keyTxSeq] = fmtUint(seq)
	}
	if err := l.store.Apply(ctx, b); err != nil {
		return nil, errors.Wrap(err, "apply batch")
	}
	l.eventSeq += uint64(len(events))
	l.committedSeq = committed
	for _, ev := range events {
		metrics.LedgerEventsTotal.WithLabelValues(ev.Type).Inc()
	}
	if dropped := l.hub.publish(events); dropped > 0 {
		metrics.LedgerSubscribersDropped.Add(float64(dropped))
		l.log.Warn("dropped slow event subscribers", zap.Int("count", dropped))
	}
	return events, nil
}

// invoke runs the handler and converts panics into aborts. A transaction that
// leaves value in flight is aborted as well.
func invoke(rt *txRuntime, fn contract.Handler, payload string) (ret string, abort *sdk.AbortError, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		ret = ""
		switch v := r.(type) {
		case *sdk.AbortError:
			abort = v
		case storeFailure:
			err = v.err
		default:
			abort = &sdk.AbortError{Module: "sdk", Message: fmt.Sprintf("panic: %v", v)}
		}
	}()
	c := sdk.NewCtx(rt)
	p := payload
	out := fn(c, &p)
	if !c.Settled() {
		sdk.Abort(fmt.Sprintf("transaction left %d unsettled", c.Unsettled()))
	}
	if out != nil {
		ret = *out
	}
	return ret, nil, nil
}

// Query runs a getter against committed state. No commit can interleave with
// it, so multi-key reads are consistent.
func (l *Ledger) Query(ctx context.Context, req QueryRequest) (string, error) {
	ep, ok := contract.Lookup(req.Action)
	if !ok {
		return "", errors.Wrap(ErrUnknownAction, req.Action)
	}
	if !ep.ReadOnly {
		return "", errors.Wrapf(ErrReadOnly, "%s mutates state", req.Action)
	}
	l.commitMu.RLock()
	defer l.commitMu.RUnlock()

	env := sdk.Env{
		Sender:    sdk.Address("0x" + strings.Repeat("0", 2*sdk.AddressLen)),
		Timestamp: l.clock.Now().UnixMilli(),
		ReadOnly:  true,
	}
	rt := newTxRuntime(ctx, l.store, env, [32]byte{}, req.Objects)
	ret, abort, err := invoke(rt, ep.Fn, req.Payload)
	if err != nil {
		return "", err
	}
	if abort != nil {
		return "", abort
	}
	return ret, nil
}

// Mint credits new supply to addr. It backs the development faucet.
func (l *Ledger) Mint(ctx context.Context, addr sdk.Address, amount uint64) error {
	if !l.faucet {
		return ErrFaucetDisabled
	}
	return l.mint(ctx, addr, amount)
}

// Genesis funds the initial accounts once. It is a no-op on a ledger that
// already has supply.
func (l *Ledger) Genesis(ctx context.Context, allocs []Allocation) error {
	supply, err := l.Supply(ctx)
	if err != nil {
		return err
	}
	if supply > 0 {
		l.log.Info("genesis skipped, ledger already has supply", zap.Uint64("supply", supply))
		return nil
	}
	for _, a := range allocs {
		if err := l.mint(ctx, a.Address, a.Amount); err != nil {
			return errors.Wrapf(err, "genesis %s", a.Address)
		}
	}
	l.log.Info("genesis applied", zap.Int("accounts", len(allocs)))
	return nil
}

func (l *Ledger) mint(ctx context.Context, addr sdk.Address, amount uint64) error {
	if !addr.IsValid() {
		return errors.Wrapf(ErrInvalidSender, "%q", addr)
	}
	if amount == 0 {
		return nil
	}
	release, err := l.locks.acquire(ctx, []string{accountLockKey(addr)})
	if err != nil {
		return errors.Wrap(err, "acquire account lock")
	}
	defer release()

	l.commitMu.Lock()
	defer l.commitMu.Unlock()
	bal, err := getUint(ctx, l.store, accountKey(addr))
	if err != nil {
		return errors.Wrap(err, "load account")
	}
	supply, err := getUint(ctx, l.store, keySupply)
	if err != nil {
		return errors.Wrap(err, "load supply")
	}
	if supply+amount < supply {
		return errors.New("supply overflow")
	}
	b := newBatch()
	b.Sets[accountKey(addr)] = fmtUint(bal + amount)
	b.Sets[keySupply] = fmtUint(supply + amount)
	if err := l.store.Apply(ctx, b); err != nil {
		return errors.Wrap(err, "apply mint")
	}
	l.log.Debug("minted", zap.String("address", addr.String()), zap.Uint64("amount", amount))
	return nil
}

// Balance returns the spendable account balance of addr.
func (l *Ledger) Balance(ctx context.Context, addr sdk.Address) (uint64, error) {
	return getUint(ctx, l.store, accountKey(addr))
}

// CustodyBalance returns the value held in an object's custody cell.
func (l *Ledger) CustodyBalance(ctx context.Context, id sdk.ObjectID, slot string) (uint64, error) {
	return getUint(ctx, l.store, custodyKey(id, slot))
}

// Supply is the total ever minted.
func (l *Ledger) Supply(ctx context.Context) (uint64, error) {
	return getUint(ctx, l.store, keySupply)
}

// TotalHeld sums every account and custody cell. It equals Supply on a
// consistent ledger.
func (l *Ledger) TotalHeld(ctx context.Context) (uint64, error) {
	l.commitMu.RLock()
	defer l.commitMu.RUnlock()
	var total uint64
	add := func(_, v string) error {
		n, err := parseUint(v)
		if err != nil {
			return err
		}
		total += n
		return nil
	}
	if err := l.store.Scan(ctx, prefixAccount, add); err != nil {
		return 0, errors.Wrap(err, "scan accounts")
	}
	if err := l.store.Scan(ctx, prefixCustody, add); err != nil {
		return 0, errors.Wrap(err, "scan custody")
	}
	return total, nil
}

// Events pages the committed log starting at sequence from.
func (l *Ledger) Events(ctx context.Context, from uint64, limit int) ([]Event, error) {
	return l.store.LoadEvents(ctx, from, limit)
}

// LastSeq is the sequence of the newest committed event.
func (l *Ledger) LastSeq() uint64 {
	l.commitMu.RLock()
	defer l.commitMu.RUnlock()
	return l.eventSeq
}

// Subscribe streams events committed after the call. The channel is closed
// when the subscriber falls more than buffer events behind or cancel is
// called.
func (l *Ledger) Subscribe(buffer int) (<-chan Event, func()) {
	return l.hub.subscribe(buffer)
}

// Clock exposes the ledger clock, mostly for tests driving a mock.
func (l *Ledger) Clock() clock.Clock { return l.clock }

func (l *Ledger) Close() error {
	l.hub.close()
	return l.store.Close()
}
