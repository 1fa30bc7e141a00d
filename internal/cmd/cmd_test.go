package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tujuhre12/togglelist/internal/items"
	"gopkg.in/yaml.v3"
)

func testStore() *items.Store {
	return items.NewStore(
		&items.Item{ID: "a", Label: "i"},
		&items.Item{ID: "b", Label: "9", IsActive: true},
	)
}

func TestPrintItems(t *testing.T) {
	t.Parallel()

	t.Run("text", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, printItems(&buf, testStore(), "text"))
		assert.Equal(t, "0\ti\n1\t9\n", buf.String())
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, printItems(&buf, testStore(), "json"))

		var out []itemOutput
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
		require.Len(t, out, 2)
		assert.Equal(t, itemOutput{Index: 1, ID: "b", Label: "9", IsActive: true}, out[1])
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, printItems(&buf, testStore(), "yaml"))

		var out []itemOutput
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &out))
		require.Len(t, out, 2)
		assert.Equal(t, "i", out[0].Label)
	})

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()
		err := printItems(&bytes.Buffer{}, testStore(), "xml")
		assert.ErrorContains(t, err, "unsupported format")
	})
}

func TestParseValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, float64(4), parseValue("4"))
	assert.Equal(t, true, parseValue("true"))
	assert.Equal(t, "localhost:9090", parseValue("localhost:9090"))
	assert.Equal(t, "quoted", parseValue(`"quoted"`))
}

func TestPrintLogLine(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	printLogLine(logger, `{"time":"2025-08-01T10:00:00Z","level":"DEBUG","msg":"Item toggled","index":3,"active":true,"source":{"function":"f","file":"tui.go","line":12}}`)
	printLogLine(logger, "not json")

	out := buf.String()
	assert.Contains(t, out, "Item toggled")
	assert.Contains(t, out, "index=3")
	assert.Contains(t, out, "active=true")
	assert.Contains(t, out, "source=tui.go:12")
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestConfigSetCommand(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"config", "set", "overscan", "6"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "Set overscan")

	data, err := os.ReadFile(filepath.Join(dir, "togglelist.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"overscan": 6}`, string(data))
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		_ = rootCmd.PersistentFlags().Set("cwd", "")
	})
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestConfigSetCommandCwd(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	parent := t.TempDir()
	t.Chdir(parent)
	project := filepath.Join(parent, "proj")
	require.NoError(t, os.Mkdir(project, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(project, "togglelist.json"), []byte(`{"overscan": 3}`), 0o644))

	out, err := runRoot(t, "config", "set", "--cwd", "proj", "count", "5")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(project, "togglelist.json"))

	data, err := os.ReadFile(filepath.Join(project, "togglelist.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"overscan": 3, "count": 5}`, string(data))
}

func TestConfigSetCommandValidation(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "togglelist.json")

	_, err := runRoot(t, "config", "set", "--", "count", "-5")
	require.Error(t, err)
	assert.NoFileExists(t, path)

	require.NoError(t, os.WriteFile(path, []byte(`{"item_size": 0}`), 0o644))
	_, err = runRoot(t, "config", "set", "item_size", "2")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"item_size": 2}`, string(data))
}
