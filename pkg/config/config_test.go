package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
server:
  address: ":9000"
storage:
  path: /tmp/sets.db
accounts:
  - name: my-google-account
    type: stackdriver
    project: my-project
    jsonPath: /secrets/key.json
  - name: other-google-account
    project: other-project
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", c.Server.Address)
	assert.Equal(t, "/tmp/sets.db", c.Storage.Path)
	assert.Equal(t, DefaultQueryLimit, c.Query.Limit)
	require.Len(t, c.Accounts, 2)
	assert.Equal(t, AccountConfig{Name: "my-google-account", Type: "stackdriver", Project: "my-project", JSONPath: "/secrets/key.json"}, c.Accounts[0])
	assert.Equal(t, "stackdriver", c.Accounts[1].Type, "type defaults to stackdriver")
	assert.Len(t, c.AccountsOfType("stackdriver"), 2)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, DefaultServerAddress, c.Server.Address)
	assert.Equal(t, DefaultStoragePath, c.Storage.Path)
	assert.NoError(t, c.Validate())
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown field", "serverz: {}"},
		{"missing name", "accounts: [{project: p}]"},
		{"duplicate name", "accounts: [{name: a, project: p}, {name: a, project: q}]"},
		{"missing project", "accounts: [{name: a}]"},
		{"unsupported type", "accounts: [{name: a, type: graphite, project: p}]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}
