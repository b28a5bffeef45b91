package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labshare_dao/sdk"
)

func TestTxRequest_DecodeNormalizesInput(t *testing.T) {
	raw := `{"sender":"0xA1","action":"dao.add_funds","objects":["0x2"],"payload":"0x2|5",
		"intents":[{"type":"transfer.allow","args":{"limit":"5","token":"lab"}}],"extra":{"ignored":[1,2]}}`
	var req TxRequest
	require.NoError(t, req.UnmarshalJSON([]byte(raw)))

	assert.Equal(t, alice, req.Sender)
	assert.Equal(t, "dao.add_funds", req.Action)
	require.Len(t, req.Objects, 1)
	assert.Equal(t, sdk.ObjectID{31: 2}, req.Objects[0])
	require.Len(t, req.Intents, 1)
	assert.Equal(t, "5", req.Intents[0].Args["limit"])
}

func TestTxRequest_RejectsBadObjectID(t *testing.T) {
	var req TxRequest
	err := req.UnmarshalJSON([]byte(`{"sender":"0x1","action":"a","objects":["zz"]}`))
	assert.Error(t, err)
}

func TestTxResult_JSON(t *testing.T) {
	res := TxResult{
		Digest:    "abc",
		Abort:     &sdk.AbortError{Module: "escrow", Code: 5, Message: "same party"},
		Timestamp: 7,
		Created:   []sdk.ObjectID{{31: 9}},
		Events:    []Event{{Seq: 1, TxDigest: "abc", Type: "X", Fields: map[string]string{"a": "b"}}},
	}
	raw, err := res.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"abort":{"module":"escrow","code":5,"message":"same party"}`)

	var back TxResult
	require.NoError(t, back.UnmarshalJSON(raw))
	assert.Equal(t, res, back)

	ok := TxResult{Digest: "d", Success: true, Ret: "1"}
	raw, err = ok.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"abort":null`)
}

func TestEvents_ParseLine(t *testing.T) {
	typ, fields := parseEventLine("VoteCast|dao:0x1|vote:true|stray")
	assert.Equal(t, "VoteCast", typ)
	assert.Equal(t, "0x1", fields["dao"])
	assert.Equal(t, "true", fields["vote"])
	assert.Equal(t, "stray", fields["_2"])

	typ, fields = parseEventLine("Bare")
	assert.Equal(t, "Bare", typ)
	assert.Empty(t, fields)
}

func TestEncodeEvents(t *testing.T) {
	in := []Event{{Seq: 4, TxDigest: "t", Index: 2, Type: "Y", Sender: bob, Fields: map[string]string{}}}
	raw, err := EncodeEvents(in)
	require.NoError(t, err)
	out, err := DecodeEvents(raw)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
