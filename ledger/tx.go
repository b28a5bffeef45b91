package ledger

import (
	"context"

	"github.com/pkg/errors"

	"labshare_dao/contract"
	"labshare_dao/sdk"
)

// storeFailure carries an infrastructure error out of a contract call. It is
// re-raised as a Go error by Execute instead of becoming an abort.
type storeFailure struct{ err error }

// txRuntime is the private overlay a transaction runs against. Nothing reaches
// the store until the ledger commits it.
type txRuntime struct {
	ctx    context.Context
	store  Store
	env    sdk.Env
	digest [32]byte

	named   map[sdk.ObjectID]bool
	writes  map[string]*string
	custody map[string]uint64
	debits  map[sdk.Address]uint64
	credits map[sdk.Address]uint64
	lines   []string
	created []sdk.ObjectID
}

func newTxRuntime(ctx context.Context, store Store, env sdk.Env, digest [32]byte, objects []sdk.ObjectID) *txRuntime {
	rt := &txRuntime{
		ctx:     ctx,
		store:   store,
		env:     env,
		digest:  digest,
		named:   make(map[sdk.ObjectID]bool, len(objects)),
		writes:  make(map[string]*string),
		custody: make(map[string]uint64),
		debits:  make(map[sdk.Address]uint64),
		credits: make(map[sdk.Address]uint64),
	}
	for _, id := range objects {
		rt.named[id] = true
	}
	return rt
}

func (rt *txRuntime) Env() sdk.Env { return rt.env }

func (rt *txRuntime) mustWrite(what string) {
	if rt.env.ReadOnly {
		sdk.Abort(what + " not allowed in a query")
	}
}

func (rt *txRuntime) mustNamed(id sdk.ObjectID) {
	if !rt.named[id] {
		sdk.Abort("object not named by transaction: " + id.String())
	}
}

func (rt *txRuntime) checkKey(key string) {
	owner, ok := contract.KeyOwner(key)
	if !ok {
		sdk.Abort("reserved or malformed state key")
	}
	rt.mustNamed(owner)
}

func (rt *txRuntime) load(key string) (string, bool) {
	v, ok, err := rt.store.Get(rt.ctx, key)
	if err != nil {
		panic(storeFailure{errors.Wrap(err, "load state")})
	}
	return v, ok
}

func (rt *txRuntime) loadUint(key string) uint64 {
	n, err := getUint(rt.ctx, rt.store, key)
	if err != nil {
		panic(storeFailure{errors.Wrapf(err, "load counter")})
	}
	return n
}

func (rt *txRuntime) Get(key string) *string {
	rt.checkKey(key)
	if v, ok := rt.writes[key]; ok {
		return v
	}
	v, ok := rt.load(key)
	if !ok {
		return nil
	}
	return &v
}

func (rt *txRuntime) Set(key, value string) {
	rt.mustWrite("state write")
	rt.checkKey(key)
	rt.writes[key] = &value
}

func (rt *txRuntime) Delete(key string) {
	rt.mustWrite("state delete")
	rt.checkKey(key)
	rt.writes[key] = nil
}

func (rt *txRuntime) Emit(line string) {
	rt.mustWrite("event emission")
	rt.lines = append(rt.lines, line)
}

func (rt *txRuntime) NewObjectID() sdk.ObjectID {
	rt.mustWrite("object creation")
	id := deriveObjectID(rt.digest, uint64(len(rt.created)))
	rt.named[id] = true
	rt.created = append(rt.created, id)
	return id
}

func (rt *txRuntime) CustodyValue(id sdk.ObjectID, slot string) uint64 {
	rt.mustNamed(id)
	key := custodyKey(id, slot)
	if v, ok := rt.custody[key]; ok {
		return v
	}
	return rt.loadUint(key)
}

func (rt *txRuntime) SetCustody(id sdk.ObjectID, slot string, amount uint64) {
	rt.mustWrite("custody movement")
	rt.mustNamed(id)
	rt.custody[custodyKey(id, slot)] = amount
}

// Debit only ever touches the sender, whose account is locked for the whole
// transaction.
func (rt *txRuntime) Debit(addr sdk.Address, amount uint64) bool {
	rt.mustWrite("account debit")
	if addr != rt.env.Sender {
		sdk.Abort("only the sender's account can be debited")
	}
	avail := rt.loadUint(accountKey(addr)) + rt.credits[addr]
	if avail < rt.debits[addr]+amount {
		return false
	}
	rt.debits[addr] += amount
	return true
}

func (rt *txRuntime) Credit(addr sdk.Address, amount uint64) {
	rt.mustWrite("account credit")
	if !addr.IsValid() {
		sdk.Abort("invalid recipient address")
	}
	if rt.credits[addr]+amount < amount {
		sdk.Abort("credit overflow")
	}
	rt.credits[addr] += amount
}

// batch renders the overlay into a store batch. Account entries are applied as
// deltas against the committed balance, so it must run inside the commit
// section.
func (rt *txRuntime) batch(ctx context.Context, store Store) (*Batch, error) {
	b := newBatch()
	for k, v := range rt.writes {
		if v == nil {
			b.Deletes = append(b.Deletes, k)
			continue
		}
		b.Sets[k] = *v
	}
	for k, v := range rt.custody {
		if v == 0 {
			b.Deletes = append(b.Deletes, k)
			continue
		}
		b.Sets[k] = fmtUint(v)
	}
	touched := make(map[sdk.Address]struct{}, len(rt.debits)+len(rt.credits))
	for a := range rt.debits {
		touched[a] = struct{}{}
	}
	for a := range rt.credits {
		touched[a] = struct{}{}
	}
	for a := range touched {
		key := accountKey(a)
		cur, err := getUint(ctx, store, key)
		if err != nil {
			return nil, errors.Wrapf(err, "load account %s", a)
		}
		next := cur + rt.credits[a]
		if next < cur || next < rt.debits[a] {
			return nil, errors.Errorf("account %s would go out of range", a)
		}
		next -= rt.debits[a]
		if next == 0 {
			b.Deletes = append(b.Deletes, key)
			continue
		}
		b.Sets[key] = fmtUint(next)
	}
	return b, nil
}
