package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labshare_dao/sdk"
)

func TestParseObjectList(t *testing.T) {
	ids, err := parseObjectList(" 0x1, ,0x02 ")
	require.NoError(t, err)
	assert.Equal(t, []sdk.ObjectID{{31: 1}, {31: 2}}, ids)

	ids, err = parseObjectList("")
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = parseObjectList("0x1,nope")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, Version+"\n", out.String())
}

func TestCallCommand_CreatesDAO(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("LOG_LEVEL", "error")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"call", "dao.initialize", "LabDAO|cli|0", "--sender", "0xa1"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), `"success":true`)
	assert.Contains(t, out.String(), `"type":"DAOInitialized"`)
}
