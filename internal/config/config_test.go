package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		// Given: an empty config file
		path := writeConfig(t, "log-level: info\n")

		// When: it is loaded
		conf, err := Load(path)

		// Then: every section has its defaults
		require.NoError(t, err)
		assert.Equal(t, "ws://localhost:8080/ws/", conf.Server.URL)
		assert.Equal(t, 10*time.Second, conf.Server.HandshakeTimeout)
		assert.Equal(t, uint64(5), conf.Server.DialRetries)
		assert.Equal(t, 7, conf.Match.Size)
		assert.Empty(t, conf.Match.Watch)
		assert.Equal(t, 2*time.Second, conf.Session.DoneDelay)
		assert.Empty(t, conf.Session.AutoPlay)
		assert.False(t, conf.Redis.Enabled)
		assert.Equal(t, 6379, conf.Redis.Port)
		assert.Equal(t, 168*time.Hour, conf.Redis.TTL)
	})

	t.Run("File values", func(t *testing.T) {
		path := writeConfig(t, `
log-level: debug
server:
  url: ws://hex.example.com/ws/
  dial-retries: 2
match:
  red: ab
  blue: human
  size: 11
  watch: "false"
session:
  done-delay: -1s
  auto-play: random
  headless: true
redis:
  enabled: true
  host: redis
  ttl: 1h
`)

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "ws://hex.example.com/ws/", conf.Server.URL)
		assert.Equal(t, uint64(2), conf.Server.DialRetries)
		assert.Equal(t, "ab", conf.Match.Red)
		assert.Equal(t, 11, conf.Match.Size)
		assert.Equal(t, "false", conf.Match.Watch)
		assert.Equal(t, -time.Second, conf.Session.DoneDelay)
		assert.Equal(t, "random", conf.Session.AutoPlay)
		assert.True(t, conf.Session.Headless)
		assert.True(t, conf.Redis.Enabled)
		assert.Equal(t, "redis", conf.Redis.Host)
		assert.Equal(t, time.Hour, conf.Redis.TTL)
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		path := writeConfig(t, "server:\n  url: ws://from-file/ws/\n")
		t.Setenv("HEX_SERVER_URL", "ws://from-env/ws/")
		t.Setenv("HEX_AUTO_PLAY", "first-empty")

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "ws://from-env/ws/", conf.Server.URL)
		assert.Equal(t, "first-empty", conf.Session.AutoPlay)
	})

	t.Run("Environment only", func(t *testing.T) {
		t.Setenv("HEX_SIZE", "9")

		conf, err := Load("")

		require.NoError(t, err)
		assert.Equal(t, 9, conf.Match.Size)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))

		require.Error(t, err)
		assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "absent.yml")) })
	})
}

func TestMatch_Query(t *testing.T) {
	match := Match{Red: "human", Blue: "mcts", Size: 11, NumGames: 3, Watch: "false"}

	query := match.Query()

	assert.Equal(t, "blue=mcts&numgames=3&red=human&size=11&watch=false", query.Encode())
}
