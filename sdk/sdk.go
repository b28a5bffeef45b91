package sdk

import (
	"fmt"
	"strconv"
)

// Intent is a capability the signer attaches to a transaction, e.g. transfer.allow.
type Intent struct {
	Type string            `json:"type"`
	Args map[string]string `json:"args"`
}

// Env describes the transaction a contract call runs inside.
type Env struct {
	Sender    Address
	TxDigest  string
	Timestamp int64 // unix milliseconds, monotonic across transactions
	Intents   []Intent
	ReadOnly  bool
}

// Runtime is implemented by the ledger. Contracts never see it directly; they go
// through Ctx which adds value accounting on top.
type Runtime interface {
	Env() Env
	Get(key string) *string
	Set(key, value string)
	Delete(key string)
	Emit(line string)
	NewObjectID() ObjectID
	CustodyValue(id ObjectID, slot string) uint64
	SetCustody(id ObjectID, slot string, amount uint64)
	Debit(addr Address, amount uint64) bool
	Credit(addr Address, amount uint64)
}

// AbortError is the structured failure a transaction reports back to the caller.
type AbortError struct {
	Module  string `json:"module"`
	Code    uint64 `json:"code"`
	Message string `json:"message"`
}

func (e *AbortError) Error() string {
	return e.Module + ":" + strconv.FormatUint(e.Code, 10) + ": " + e.Message
}

// Abort stops execution immediately; the runtime discards every change the transaction made.
// Example payload: sdk.Abort("object not found")
func Abort(msg string) {
	panic(&AbortError{Module: "sdk", Message: msg})
}

// AbortCode aborts with a module scoped error code so clients can branch on it.
// Example payload: sdk.AbortCode("escrow", 1, "total amount must be positive")
func AbortCode(module string, code uint64, msg string) {
	panic(&AbortError{Module: module, Code: code, Message: msg})
}

// Ctx is the handle a contract entrypoint receives for one transaction.
type Ctx struct {
	rt       Runtime
	env      Env
	created  uint64
	consumed uint64
	drawn    uint64
}

// NewCtx binds a runtime to a fresh accounting context.
func NewCtx(rt Runtime) *Ctx {
	return &Ctx{rt: rt, env: rt.Env()}
}

// Sender is the signer of the transaction.
func (c *Ctx) Sender() Address { return c.env.Sender }

// Now returns the transaction timestamp in milliseconds.
func (c *Ctx) Now() int64 { return c.env.Timestamp }

// Digest returns the transaction digest.
func (c *Ctx) Digest() string { return c.env.TxDigest }

// Intents returns the intents the signer attached.
func (c *Ctx) Intents() []Intent { return c.env.Intents }

// ReadOnly reports whether this is a query rather than a transaction.
func (c *Ctx) ReadOnly() bool { return c.env.ReadOnly }

// StateGet returns nil for missing keys.
func (c *Ctx) StateGet(key string) *string { return c.rt.Get(key) }

// StateSet stores a key/value string pair.
func (c *Ctx) StateSet(key, value string) { c.rt.Set(key, value) }

// StateDelete removes the key entirely.
func (c *Ctx) StateDelete(key string) { c.rt.Delete(key) }

// Log appends an event line to the transaction's event list.
func (c *Ctx) Log(line string) { c.rt.Emit(line) }

// NewObjectID allocates a fresh object identity derived from the transaction digest.
func (c *Ctx) NewObjectID() ObjectID { return c.rt.NewObjectID() }

// Settled reports whether every unit of value created during the transaction
// ended up in a vault or an account.
func (c *Ctx) Settled() bool { return c.created == c.consumed }

// Unsettled returns the value still in flight, for diagnostics.
func (c *Ctx) Unsettled() uint64 { return c.created - c.consumed }

// Draw pulls value from the sender's account within the transfer.allow limit.
// Example payload: ctx.Draw(1000)
func (c *Ctx) Draw(amount uint64) *Balance {
	if amount == 0 {
		return c.Zero()
	}
	ta := FirstTransferAllow(c.env.Intents)
	if ta == nil {
		Abort("no valid transfer intent provided")
	}
	if ta.Token != AssetLab {
		Abort("intent token must be " + AssetLab.String())
	}
	if c.drawn+amount < c.drawn || c.drawn+amount > ta.Limit {
		Abort(fmt.Sprintf("transfer.allow limit %d exceeded", ta.Limit))
	}
	if !c.rt.Debit(c.env.Sender, amount) {
		Abort("insufficient account balance")
	}
	c.drawn += amount
	c.created += amount
	return &Balance{ctx: c, value: amount}
}

// Transfer sends the whole balance to an account and empties it.
// Example payload: ctx.Transfer(beneficiary, payment)
func (c *Ctx) Transfer(to Address, b *Balance) {
	if b == nil || b.value == 0 {
		return
	}
	b.mustOwn(c)
	c.rt.Credit(to, b.value)
	c.consumed += b.value
	b.value = 0
}

// Zero returns an empty balance, handy as an accumulator.
func (c *Ctx) Zero() *Balance {
	return &Balance{ctx: c}
}

// Vault opens the custody cell stored under an object.
func (c *Ctx) Vault(id ObjectID, slot string) Vault {
	return Vault{ctx: c, id: id, slot: slot}
}
