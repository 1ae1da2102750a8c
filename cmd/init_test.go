package cmd

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestInitCmdWritesConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	cmd := baseRootCmd()
	cmd.AddCommand(newInitCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"init"})

	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(configFileName)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(data, &doc))

	assert.Contains(t, doc, "run")
	assert.Contains(t, doc, "output")
	assert.Contains(t, doc, "log")
}

func TestInitCmdRefusesToOverwrite(t *testing.T) {
	t.Chdir(t.TempDir())

	require.NoError(t, os.WriteFile(configFileName, []byte("version: 1\n"), 0o600))

	cmd := baseRootCmd()
	cmd.AddCommand(newInitCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"init"})

	require.Error(t, cmd.Execute())
}
