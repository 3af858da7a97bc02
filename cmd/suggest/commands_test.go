package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knowledge-engine/suggester/internal/search"
)

const catalogJSON = `[
	{"name": "Green Wood", "description": "A green textured wood plank"},
	{"name": "Red Brick", "description": "A red clay brick"}
]`

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return logger.WithField("test", "cli")
}

func writeCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(catalogJSON), 0644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCommand(testLogger())
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestQueryCommand_Table(t *testing.T) {
	out, err := run(t, "query", "--catalog", writeCatalog(t), "green")
	require.NoError(t, err)

	assert.Contains(t, out, "SCORE")
	assert.Contains(t, out, "12")
	assert.Contains(t, out, "Green Wood")
	assert.NotContains(t, out, "Red Brick")
}

func TestQueryCommand_JSON(t *testing.T) {
	out, err := run(t, "query", "--catalog", writeCatalog(t), "--json", "gree", "brick")
	require.NoError(t, err)

	var results []search.Suggestion
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "Red Brick", results[0].Name)
}

func TestQueryCommand_NoResults(t *testing.T) {
	out, err := run(t, "query", "--catalog", writeCatalog(t), "a")
	require.NoError(t, err)
	assert.Contains(t, out, `No suggestions for "a"`)
}

func TestQueryCommand_MissingArgs(t *testing.T) {
	_, err := run(t, "query")
	assert.Error(t, err)
}

func TestImportThenQuery(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, "import", "--badger-dir", dir, writeCatalog(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 entries")

	out, err = run(t, "query", "--source", "badger", "--badger-dir", dir, "--json", "greenn")
	require.NoError(t, err)

	var results []search.Suggestion
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, 6, results[0].Score)
}
