package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { fixturesFormat = "yaml" })

	err := rootCmd.Execute()
	return out.String(), err
}

func TestFixturesJSON(t *testing.T) {
	out, err := runCLI(t, "fixtures", "--format", "json")
	require.NoError(t, err)

	var catalog map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &catalog))
	assert.Contains(t, catalog, "code_scanner")

	user := catalog["user"].(map[string]interface{})
	assert.Equal(t, "ai@intellibridge.com", user["email"])

	snippets := catalog["snippets"].([]interface{})
	assert.NotEmpty(t, snippets[0].(map[string]interface{})["content"])
}

func TestFixturesYAML(t *testing.T) {
	out, err := runCLI(t, "fixtures")
	require.NoError(t, err)

	var catalog map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &catalog))
	assert.Contains(t, catalog, "security_analyzer")
}

func TestFixturesUnknownFormat(t *testing.T) {
	_, err := runCLI(t, "fixtures", "-f", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}
