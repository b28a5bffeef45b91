package sdk

import "fmt"

// Balance is value in flight inside one transaction. It can only be split and
// joined; it leaves the transaction by being joined into a Vault or transferred.
type Balance struct {
	ctx   *Ctx
	value uint64
}

// Value returns the amount held.
func (b *Balance) Value() uint64 {
	if b == nil {
		return 0
	}
	return b.value
}

// Split carves amount out of b into a new balance.
func (b *Balance) Split(amount uint64) *Balance {
	if amount > b.value {
		Abort(fmt.Sprintf("balance split %d exceeds value %d", amount, b.value))
	}
	b.value -= amount
	return &Balance{ctx: b.ctx, value: amount}
}

// Join moves all of other into b and returns the new value.
func (b *Balance) Join(other *Balance) uint64 {
	if other == nil || other.value == 0 {
		return b.value
	}
	other.mustOwn(b.ctx)
	if b.value+other.value < b.value {
		Abort("balance overflow")
	}
	b.value += other.value
	other.value = 0
	return b.value
}

func (b *Balance) mustOwn(c *Ctx) {
	if b.ctx != c {
		Abort("balance belongs to another transaction")
	}
}

// Vault is a custody cell embedded in a shared object, e.g. an escrow's funds.
type Vault struct {
	ctx  *Ctx
	id   ObjectID
	slot string
}

// Value returns the amount currently held in custody.
func (v Vault) Value() uint64 {
	return v.ctx.rt.CustodyValue(v.id, v.slot)
}

// Join deposits the whole balance into custody.
func (v Vault) Join(b *Balance) uint64 {
	cur := v.Value()
	if b == nil || b.value == 0 {
		return cur
	}
	b.mustOwn(v.ctx)
	if cur+b.value < cur {
		Abort("vault overflow")
	}
	cur += b.value
	v.ctx.rt.SetCustody(v.id, v.slot, cur)
	v.ctx.consumed += b.value
	b.value = 0
	return cur
}

// Split takes amount out of custody as an in-flight balance.
func (v Vault) Split(amount uint64) *Balance {
	cur := v.Value()
	if amount > cur {
		Abort(fmt.Sprintf("vault split %d exceeds value %d", amount, cur))
	}
	v.ctx.rt.SetCustody(v.id, v.slot, cur-amount)
	v.ctx.created += amount
	return &Balance{ctx: v.ctx, value: amount}
}

// WithdrawAll empties the vault.
func (v Vault) WithdrawAll() *Balance {
	return v.Split(v.Value())
}
