package onion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadConfigFileYaml(t *testing.T) {
	path := writeFile(t, t.TempDir(), "app.yml", `
app:
  name: My App
  port: 8080
  tags:
    - web
    - api
debug: true
`)

	m, err := readConfigFile(path)
	require.NoError(t, err)

	app, ok := m["app"].(map[string]any)
	require.True(t, ok, "app should be a nested mapping")
	assert.Equal(t, "My App", app["name"])
	assert.Equal(t, 8080, app["port"])
	assert.Equal(t, []any{"web", "api"}, app["tags"])
	assert.Equal(t, true, m["debug"])
}

func TestReadConfigFileJson(t *testing.T) {
	path := writeFile(t, t.TempDir(), "app.json", `{"app": {"name": "My App", "port": 8080}}`)

	m, err := readConfigFile(path)
	require.NoError(t, err)

	app, ok := m["app"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "My App", app["name"])
	assert.Equal(t, float64(8080), app["port"], "encoding/json numbers decode as float64")
}

func TestReadConfigFileMalformedYaml(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.yml", "app:\n  name: [unclosed\n")

	_, err := readConfigFile(path)
	require.Error(t, err)

	var parseErr ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, path, parseErr.Path)
	assert.Equal(t, "yaml", parseErr.Format)
	assert.NotNil(t, parseErr.Unwrap())
}

func TestReadConfigFileMalformedJson(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.json", `{"app": `)

	_, err := readConfigFile(path)

	var parseErr ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "json", parseErr.Format)
}

func TestReadConfigFileEmpty(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"empty.yml", "empty.json"} {
		path := writeFile(t, dir, name, "")
		m, err := readConfigFile(path)
		require.NoError(t, err, name)
		assert.Empty(t, m, name)
	}
}
