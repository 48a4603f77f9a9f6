package main_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	main "github.com/fwojciec/blogboost/cmd/blogboost"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blogboost.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestYAMLLoader(t *testing.T) {
	t.Parallel()

	t.Run("reads top-level and command sections", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `
log_level: debug
enhance:
  store-url: http://localhost:8000/api
  references: 4
  delay: 1500ms
  temperature: 0.3
  dry_run: true
`)
		cli := &main.CLI{}
		parser := newTestParser(t, cli, kong.Configuration(main.YAMLLoader))

		_, err := parser.Parse([]string{"--config", path, "enhance"})
		require.NoError(t, err)

		assert.Equal(t, "debug", cli.LogLevel)
		assert.Equal(t, "http://localhost:8000/api", cli.Enhance.StoreURL)
		assert.Equal(t, 4, cli.Enhance.References)
		assert.Equal(t, 1500*time.Millisecond, cli.Enhance.Delay)
		assert.InDelta(t, 0.3, cli.Enhance.Temperature, 0.0001)
		assert.True(t, cli.Enhance.DryRun)
	})

	t.Run("command line wins over the file", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "enhance:\n  references: 4\n")
		cli := &main.CLI{}
		parser := newTestParser(t, cli, kong.Configuration(main.YAMLLoader))

		_, err := parser.Parse([]string{"--config", path, "enhance", "--references", "6"})
		require.NoError(t, err)

		assert.Equal(t, 6, cli.Enhance.References)
	})

	t.Run("returns error for malformed yaml", func(t *testing.T) {
		t.Parallel()

		_, err := main.YAMLLoader(strings.NewReader("enhance: [unclosed"))

		require.Error(t, err)
	})

	t.Run("accepts empty file", func(t *testing.T) {
		t.Parallel()

		_, err := main.YAMLLoader(strings.NewReader(""))

		require.NoError(t, err)
	})
}
