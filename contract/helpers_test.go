package contract_test

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labshare_dao/ledger"
	"labshare_dao/sdk"
)

// t0 is the wall clock every test starts at, in unix milliseconds.
const t0 int64 = 1_700_000_000_000

const startingBalance = 200_000

func account(n byte) sdk.Address {
	return sdk.Address(fmt.Sprintf("0x%064x", n))
}

var (
	admin       = account(0xad)
	member2     = account(0x02)
	someoneelse = account(0x05)
	outsider    = account(0x0f)
)

type contractTest struct {
	ledger *ledger.Ledger
	clock  *clock.Mock
}

// SetupContractTest starts a fresh in-memory ledger and funds the usual cast.
func SetupContractTest(t *testing.T) *contractTest {
	t.Helper()
	mock := clock.NewMock()
	mock.Set(time.UnixMilli(t0))
	l, err := ledger.New(context.Background(), ledger.Options{Clock: mock, FaucetEnabled: true})
	require.NoError(t, err)
	for _, a := range []sdk.Address{admin, member2, someoneelse, outsider} {
		require.NoError(t, l.Mint(context.Background(), a, startingBalance))
	}
	return &contractTest{ledger: l, clock: mock}
}

// At moves the ledger clock to an absolute time in milliseconds.
func (ct *contractTest) At(ms int64) {
	ct.clock.Set(time.UnixMilli(ms))
}

// CallContract executes an action and asserts it succeeded or aborted as expected.
// draw attaches a transfer.allow intent when positive.
func CallContract(t *testing.T, ct *contractTest, action string, objects []sdk.ObjectID, payload string, draw uint64, sender sdk.Address, expectedResult bool) *ledger.TxResult {
	t.Helper()
	req := ledger.TxRequest{
		Sender:  sender,
		Action:  action,
		Objects: objects,
		Payload: payload,
	}
	if draw > 0 {
		req.Intents = []sdk.Intent{sdk.TransferIntent(draw)}
	}
	res, err := ct.ledger.Execute(context.Background(), req)
	require.NoError(t, err, action)

	if expectedResult {
		require.True(t, res.Success, "%s failed with %v", action, res.Abort)
	} else {
		require.False(t, res.Success, "%s did not fail (as expected)", action)
	}
	return res
}

// ExpectAbort runs a call that must abort with the given module and code.
func ExpectAbort(t *testing.T, ct *contractTest, action string, objects []sdk.ObjectID, payload string, draw uint64, sender sdk.Address, module string, code uint64) {
	t.Helper()
	res := CallContract(t, ct, action, objects, payload, draw, sender, false)
	require.NotNil(t, res.Abort)
	assert.Equal(t, module, res.Abort.Module, res.Abort.Message)
	assert.Equal(t, code, res.Abort.Code, res.Abort.Message)
}

// Query runs a getter and decodes its JSON result into out.
func Query(t *testing.T, ct *contractTest, action string, objects []sdk.ObjectID, payload string, out any) {
	t.Helper()
	raw, err := ct.ledger.Query(context.Background(), ledger.QueryRequest{Action: action, Objects: objects, Payload: payload})
	require.NoError(t, err, action)
	require.NoError(t, json.Unmarshal([]byte(raw), out), raw)
}

func createdID(t *testing.T, res *ledger.TxResult) sdk.ObjectID {
	t.Helper()
	require.NotEmpty(t, res.Created, "no object created")
	return res.Created[0]
}

func ids(objs ...sdk.ObjectID) []sdk.ObjectID { return objs }

// Payload joins fields with the pipe separator every entrypoint expects.
func Payload(parts ...any) string {
	s := make([]string, len(parts))
	for i, p := range parts {
		s[i] = fmt.Sprint(p)
	}
	return strings.Join(s, "|")
}

func balanceOf(t *testing.T, ct *contractTest, a sdk.Address) uint64 {
	t.Helper()
	bal, err := ct.ledger.Balance(context.Background(), a)
	require.NoError(t, err)
	return bal
}

func custodyOf(t *testing.T, ct *contractTest, id sdk.ObjectID, slot string) uint64 {
	t.Helper()
	bal, err := ct.ledger.CustodyBalance(context.Background(), id, slot)
	require.NoError(t, err)
	return bal
}

// eventsOf filters the events of one result by type.
func eventsOf(res *ledger.TxResult, typ string) []ledger.Event {
	var out []ledger.Event
	for _, ev := range res.Events {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

// assertConserved checks that value held in accounts and vaults equals minted supply.
func assertConserved(t *testing.T, ct *contractTest) {
	t.Helper()
	supply, err := ct.ledger.Supply(context.Background())
	require.NoError(t, err)
	held, err := ct.ledger.TotalHeld(context.Background())
	require.NoError(t, err)
	assert.Equal(t, supply, held, "value was created or destroyed")
}

// =============================================================================
// Fixtures
// =============================================================================

// setupDAO creates a DAO owned by admin with member2 seated as a regular member.
func setupDAO(t *testing.T, ct *contractTest) sdk.ObjectID {
	t.Helper()
	res := CallContract(t, ct, "dao.initialize", nil, Payload("LabDAO", "cold chain", 0), 0, admin, true)
	dao := createdID(t, res)
	CallContract(t, ct, "dao.add_member", ids(dao), Payload(dao, member2, "Dr. Rivera"), 0, admin, true)
	return dao
}

type proposalView struct {
	ID            uint64  `json:"id"`
	Type          string  `json:"type"`
	VotingEndTime int64   `json:"voting_end_time"`
	Executed      bool    `json:"executed"`
	Approved      bool    `json:"approved"`
	YesVotes      uint64  `json:"yes_votes"`
	NoVotes       uint64  `json:"no_votes"`
	VoterCount    uint64  `json:"voter_count"`
	AlertSensorID *uint64 `json:"alert_sensor_id"`
	AlertValue    *int64  `json:"alert_value"`
}

func getProposal(t *testing.T, ct *contractTest, dao sdk.ObjectID, id uint64) proposalView {
	t.Helper()
	var p proposalView
	Query(t, ct, "dao.proposal", ids(dao), Payload(dao, id), &p)
	return p
}
