package ledger

import (
	"errors"

	"labshare_dao/sdk"
)

var (
	// ErrUnknownAction is returned for actions missing from the contract registry.
	ErrUnknownAction = errors.New("unknown action")
	// ErrReadOnly is returned when a getter is submitted as a transaction or a
	// mutating action is sent as a query.
	ErrReadOnly = errors.New("action kind does not match request kind")
	// ErrInvalidSender rejects malformed signer addresses.
	ErrInvalidSender = errors.New("invalid sender address")
	// ErrFaucetDisabled is returned by Mint unless the faucet is switched on.
	ErrFaucetDisabled = errors.New("faucet disabled")
)

// TxRequest is a signed call into a contract entrypoint. Objects lists every
// shared object the transaction may touch besides those it creates.
type TxRequest struct {
	Sender  sdk.Address
	Action  string
	Objects []sdk.ObjectID
	Payload string
	Intents []sdk.Intent
}

// TxResult reports a processed transaction. Aborted transactions are still
// results: Success is false and Abort carries module and code.
type TxResult struct {
	Digest    string
	Success   bool
	Ret       string
	Abort     *sdk.AbortError
	Timestamp int64
	Created   []sdk.ObjectID
	Events    []Event
}

// Event is one committed contract event. (TxDigest, Index) identifies it
// uniquely; Seq orders the global log.
type Event struct {
	Seq       uint64
	TxDigest  string
	Index     int
	Type      string
	Sender    sdk.Address
	Timestamp int64
	Fields    map[string]string
}

// Key returns the dedup key indexers use.
func (e Event) Key() EventKey {
	return EventKey{TxDigest: e.TxDigest, Index: e.Index}
}

// EventKey is the (transaction digest, event index) pair.
type EventKey struct {
	TxDigest string
	Index    int
}

// QueryRequest is a read-only getter call.
type QueryRequest struct {
	Action  string
	Objects []sdk.ObjectID
	Payload string
}
