package sdk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const alice = Address("0x00000000000000000000000000000000000000000000000000000000000a11ce")

func abortOf(t *testing.T, fn func()) *AbortError {
	t.Helper()
	var got *AbortError
	func() {
		defer func() {
			if r := recover(); r != nil {
				var ok bool
				got, ok = r.(*AbortError)
				require.True(t, ok, "unexpected panic %v", r)
			}
		}()
		fn()
	}()
	return got
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Address
		ok    bool
	}{
		{name: "canonical", input: string(alice), want: alice, ok: true},
		{name: "short form", input: "0xA11CE", want: alice, ok: true},
		{name: "no prefix", input: "a11ce", want: alice, ok: true},
		{name: "empty", input: "", ok: false},
		{name: "not hex", input: "0xzz", ok: false},
		{name: "too long", input: "0x" + string(make([]byte, 65)), ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAddress(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
				assert.True(t, got.IsValid())
				assert.Len(t, got.Bytes(), AddressLen)
			}
		})
	}
	assert.False(t, Address("hive:alice").IsValid())
}

func TestObjectIDRoundTrip(t *testing.T) {
	id, ok := ParseObjectID("0x1")
	require.True(t, ok)
	assert.Equal(t, PackageObjectID, id)
	again, ok := ParseObjectID(id.String())
	require.True(t, ok)
	assert.Equal(t, id, again)
	assert.False(t, id.IsZero())
	assert.True(t, ObjectID{}.IsZero())
	_, ok = ParseObjectID("0xnothex")
	assert.False(t, ok)
}

func TestDrawRequiresIntent(t *testing.T) {
	rt := NewMockRuntime(alice, 1)
	rt.Accounts[alice] = 100
	ctx := NewCtx(rt)

	err := abortOf(t, func() { ctx.Draw(10) })
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "no valid transfer intent")

	rt.EnvValue.Intents = []Intent{TransferIntent(50)}
	ctx = NewCtx(rt)
	b := ctx.Draw(30)
	assert.EqualValues(t, 30, b.Value())
	err = abortOf(t, func() { ctx.Draw(30) })
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "limit")
	assert.False(t, ctx.Settled())
	ctx.Transfer(alice, b)
	assert.True(t, ctx.Settled())
	assert.EqualValues(t, 100, rt.Accounts[alice])
}

func TestDrawInsufficientAccount(t *testing.T) {
	rt := NewMockRuntime(alice, 1)
	rt.EnvValue.Intents = []Intent{TransferIntent(1000)}
	rt.Accounts[alice] = 5
	ctx := NewCtx(rt)
	err := abortOf(t, func() { ctx.Draw(6) })
	require.NotNil(t, err)
	assert.Equal(t, "insufficient account balance", err.Message)
}

func TestVaultConservesValue(t *testing.T) {
	rt := NewMockRuntime(alice, 1)
	rt.EnvValue.Intents = []Intent{TransferIntent(1000)}
	rt.Accounts[alice] = 1000
	ctx := NewCtx(rt)
	vault := ctx.Vault(PackageObjectID, "funds")

	in := ctx.Draw(700)
	part := in.Split(200)
	assert.EqualValues(t, 500, in.Value())
	vault.Join(in)
	vault.Join(part)
	assert.EqualValues(t, 700, vault.Value())
	assert.True(t, ctx.Settled())

	out := vault.Split(250)
	assert.False(t, ctx.Settled())
	acc := ctx.Zero()
	acc.Join(out)
	acc.Join(vault.Split(50))
	ctx.Transfer(alice, acc)
	assert.True(t, ctx.Settled())
	assert.EqualValues(t, 400, vault.Value())
	assert.EqualValues(t, 1000, rt.Total())

	err := abortOf(t, func() { vault.Split(401) })
	require.NotNil(t, err)
	assert.Equal(t, "sdk", err.Module)
}

func TestAbortErrorFormat(t *testing.T) {
	err := abortOf(t, func() { AbortCode("escrow", 6, "deposit exceeds total") })
	require.NotNil(t, err)
	assert.Equal(t, "escrow:6: deposit exceeds total", err.Error())
}
