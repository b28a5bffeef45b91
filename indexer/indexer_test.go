package indexer

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labshare_dao/ledger"
	"labshare_dao/sdk"
)

var admin = sdk.Address(fmt.Sprintf("0x%064x", 0xad))

func newLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	mock := clock.NewMock()
	mock.Set(time.UnixMilli(1_700_000_000_000))
	l, err := ledger.New(context.Background(), ledger.Options{Clock: mock, FaucetEnabled: true})
	require.NoError(t, err)
	require.NoError(t, l.Mint(context.Background(), admin, 1_000))
	return l
}

func exec(t *testing.T, l *ledger.Ledger, action string, objects []sdk.ObjectID, payload string, draw uint64) *ledger.TxResult {
	t.Helper()
	req := ledger.TxRequest{Sender: admin, Action: action, Objects: objects, Payload: payload}
	if draw > 0 {
		req.Intents = []sdk.Intent{sdk.TransferIntent(draw)}
	}
	res, err := l.Execute(context.Background(), req)
	require.NoError(t, err)
	require.True(t, res.Success, "%s: %v", action, res.Abort)
	return res
}

// seedDAO creates a DAO, tops up the treasury and raises one alert.
func seedDAO(t *testing.T, l *ledger.Ledger) sdk.ObjectID {
	t.Helper()
	id := exec(t, l, "dao.initialize", nil, "LabDAO|freezers|100", 100).Created[0]
	objs := []sdk.ObjectID{id}
	exec(t, l, "dao.add_funds", objs, id.String()+"|50", 50)
	exec(t, l, "dao.submit_data", objs, id.String()+"|0|ab|f3|-50", 0)
	return id
}

func TestApply_DedupesRedelivery(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)
	seedDAO(t, l)

	ix, err := New(l, Options{DedupCacheSize: 16})
	require.NoError(t, err)
	require.NoError(t, ix.CatchUp(ctx))
	applied := ix.Counts()

	events, err := l.Events(ctx, 1, 100)
	require.NoError(t, err)
	for _, ev := range events {
		assert.False(t, ix.Apply(ev), "seq %d applied twice", ev.Seq)
	}
	// same key without a sequence is caught by the cache.
	replay := events[0]
	replay.Seq = 0
	assert.False(t, ix.Apply(replay))

	assert.Equal(t, applied, ix.Counts())
	assert.Equal(t, uint64(len(events)), ix.LastSeq())
}

func TestViews_DAO(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)
	id := seedDAO(t, l)

	ix, err := New(l, Options{})
	require.NoError(t, err)
	require.NoError(t, ix.CatchUp(ctx))

	d, ok := ix.DAO(id.String())
	require.True(t, ok)
	assert.Equal(t, "LabDAO", d.Name)
	assert.Equal(t, uint64(1), d.Members)
	assert.Equal(t, uint64(150), d.TreasuryIn)
	assert.Equal(t, uint64(150), d.Treasury)
	assert.Equal(t, uint64(1), d.DataRecords)
	assert.Equal(t, uint64(1), d.Alerts)
	assert.Equal(t, uint64(1), d.Proposals)
	require.Len(t, d.OpenAlerts, 1)
	for _, a := range d.OpenAlerts {
		assert.Equal(t, int64(-50), a.Value)
		assert.Equal(t, int64(-90), a.Min)
		assert.Equal(t, int64(-60), a.Max)
	}

	_, ok = ix.DAO("0xmissing")
	assert.False(t, ok)
	assert.Equal(t, uint64(1), ix.Counts()["AlertTriggered"])
}

func TestViews_EscrowAndMarket(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)
	beneficiary := fmt.Sprintf("0x%064x", 0xbe)

	e := exec(t, l, "escrow.initialize", nil, "|"+beneficiary+"|300|", 0).Created[0]
	eo := []sdk.ObjectID{e}
	exec(t, l, "escrow.deposit_funds", eo, e.String()+"|300", 300)
	exec(t, l, "escrow.define_milestone", eo, e.String()+"|prototype|300|0|", 0)
	exec(t, l, "escrow.cancel", eo, e.String(), 0)

	m := exec(t, l, "market.initialize", nil, "Core|shared instruments|0", 0).Created[0]
	exec(t, l, "market.list_service", []sdk.ObjectID{m}, m.String()+"|NMR hour|600MHz|0|20||", 0)

	ix, err := New(l, Options{})
	require.NoError(t, err)
	require.NoError(t, ix.CatchUp(ctx))

	ev, ok := ix.Escrow(e.String())
	require.True(t, ok)
	assert.Equal(t, "cancelled", ev.Status)
	assert.Equal(t, uint64(300), ev.Deposited)
	assert.Equal(t, uint64(300), ev.Refunded)
	assert.Equal(t, uint64(1), ev.Milestones)

	mv, ok := ix.Market(m.String())
	require.True(t, ok)
	assert.Equal(t, uint64(250), mv.FeeBps)
	assert.Equal(t, uint64(1), mv.Listings)
	assert.Equal(t, uint64(1), mv.ActiveListings)
}

func TestRun_FollowsLiveEventsAndStops(t *testing.T) {
	l := newLedger(t)
	id := seedDAO(t, l)

	ix, err := New(l, Options{BufferSize: 4})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ix.Run(ctx) }()

	require.Eventually(t, func() bool { return ix.LastSeq() == l.LastSeq() }, time.Second, 5*time.Millisecond)

	// more commits than the buffer holds forces a drop and a replay.
	for i := 0; i < 10; i++ {
		exec(t, l, "dao.add_funds", []sdk.ObjectID{id}, id.String()+"|1", 1)
	}
	require.Eventually(t, func() bool { return ix.LastSeq() == l.LastSeq() }, time.Second, 5*time.Millisecond)

	d, ok := ix.DAO(id.String())
	require.True(t, ok)
	assert.Equal(t, uint64(160), d.TreasuryIn)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("indexer did not stop")
	}
}
