package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDefinition = `{
	"baseUrl": "http://api.test/v1",
	"dataFile": "data.json",
	"actions": [
		{"action": "GetAll", "url": "/users", "method": "GET", "query": "$"},
		{"action": "GetOne", "url": "/users/{id}", "method": "GET", "query": "$[?(@.id == {id})]"}
	]
}`

func TestLoadAPIConfigJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "api.json", validDefinition)

	api, err := LoadAPIConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://api.test/v1", api.BaseURL)
	assert.Equal(t, "data.json", api.DataFile)
	require.Len(t, api.Actions, 2)
	assert.Equal(t, OpGetAll, api.Actions[0].Op)
	assert.Equal(t, "$[?(@.id == {id})]", api.Actions[1].Query)
}

func TestLoadAPIConfigYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "api.yaml", `
baseUrl: http://api.test/v1
dataFile: data.json
actions:
  - action: Delete
    url: /users/{id}
    method: DELETE
    query: "$[?(@.id == {id})]"
`)

	api, err := LoadAPIConfig(path)
	require.NoError(t, err)
	require.Len(t, api.Actions, 1)
	assert.Equal(t, OpDelete, api.Actions[0].Op)
}

func TestLoadAPIConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "missing baseUrl",
			body: `{"dataFile":"d.json","actions":[]}`,
		},
		{
			name: "missing dataFile",
			body: `{"baseUrl":"http://x","actions":[]}`,
		},
		{
			name: "unknown action kind",
			body: `{"baseUrl":"http://x","dataFile":"d.json","actions":[{"action":"Upsert","url":"/a","method":"PUT"}]}`,
		},
		{
			name: "action missing method",
			body: `{"baseUrl":"http://x","dataFile":"d.json","actions":[{"action":"GetAll","url":"/a"}]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "api.json", tt.body)
			_, err := LoadAPIConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadAPIConfigMissingFile(t *testing.T) {
	_, err := LoadAPIConfig("/nonexistent/api.json")
	assert.Error(t, err)
}

func TestOpHelpers(t *testing.T) {
	for _, op := range []Op{OpCreate, OpGetAll, OpGetOne, OpGetMany, OpMerge, OpUpdate, OpDelete} {
		assert.True(t, op.Valid(), "op %s", op)
	}
	assert.False(t, Op("Upsert").Valid())

	assert.True(t, OpCreate.Writes())
	assert.True(t, OpDelete.Writes())
	assert.False(t, OpGetAll.Writes())
	assert.False(t, OpGetMany.Writes())
}
