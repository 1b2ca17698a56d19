// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	gerrors "github.com/tochemey/mailhub/errors"
	"github.com/tochemey/mailhub/log"
	"github.com/tochemey/mailhub/router"
	"github.com/tochemey/mailhub/wire"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const sample = `
hub:
  parallelism: 8
  workerIdleTimeout: 2s
  logLevel: debug
  metrics: true
server:
  host: 127.0.0.1
  port: 8080
  apiPort: 8081
  loops: 2
  shutdownTimeout: 1s
  limits:
    bufferSize: 8192
    maxURILength: 2048
    maxHeaderLength: 2048
    maxBodyLength: 65536
router:
  kind: consistent-hash
  workers: 3
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mailhub.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func noEnv(string) (string, bool) { return "", false }

func TestDefault(t *testing.T) {
	config := Default()
	require.NoError(t, config.Validate())
	assert.Equal(t, 4567, config.Server.Port)
	assert.Equal(t, wire.DefaultLimits(), config.Server.Limits)
	assert.Equal(t, log.InfoLevel, config.LogLevel())
	assert.Equal(t, router.RoundRobinKind, config.RouterKind())
	assert.Equal(t, ":4567", config.ListenAddr())
	assert.Equal(t, ":4568", config.APIAddr())
}

func TestParse(t *testing.T) {
	t.Run("With every section", func(t *testing.T) {
		config, err := Parse(strings.NewReader(sample))
		require.NoError(t, err)
		require.NoError(t, config.Validate())

		assert.Equal(t, 8, config.Hub.Parallelism)
		assert.Equal(t, 2*time.Second, config.Hub.WorkerIdleTimeout)
		assert.Equal(t, log.DebugLevel, config.LogLevel())
		assert.True(t, config.Hub.Metrics)
		assert.Equal(t, "127.0.0.1:8080", config.ListenAddr())
		assert.Equal(t, "127.0.0.1:8081", config.APIAddr())
		assert.Equal(t, 2, config.Server.Loops)
		assert.Equal(t, time.Second, config.Server.ShutdownTimeout)
		assert.Equal(t, wire.Limits{BufferSize: 8192, MaxURILength: 2048, MaxHeaderLength: 2048, MaxBodyLength: 65536}, config.Server.Limits)
		assert.Equal(t, router.ConsistentHashKind, config.RouterKind())
		assert.Equal(t, 3, config.Router.Workers)
		assert.Len(t, config.HubOptions(log.DiscardLogger), 4)
		assert.Len(t, config.ServerOptions(log.DiscardLogger), 4)
	})
	t.Run("With a partial document", func(t *testing.T) {
		config, err := Parse(strings.NewReader("server:\n  port: 9000\n"))
		require.NoError(t, err)
		assert.Equal(t, 9000, config.Server.Port)
		assert.Equal(t, Default().Hub, config.Hub)
	})
	t.Run("With an empty document", func(t *testing.T) {
		config, err := Parse(strings.NewReader(""))
		require.NoError(t, err)
		assert.Equal(t, Default(), config)
	})
	t.Run("With an unknown field", func(t *testing.T) {
		_, err := Parse(strings.NewReader("server:\n  prot: 9000\n"))
		require.ErrorIs(t, err, gerrors.ErrInvalidConfig)
	})
}

func TestValidate(t *testing.T) {
	config := Default()
	config.Hub.Parallelism = -1
	config.Hub.LogLevel = "loud"
	config.Server.Port = 70000
	config.Server.Limits.MaxURILength = config.Server.Limits.BufferSize
	config.Router.Kind = "fastest"
	config.Router.Workers = 0

	err := config.Validate()
	require.ErrorIs(t, err, gerrors.ErrInvalidConfig)
	for _, fragment := range []string{"parallelism", "log level", "port", "limits", "router kind", "workers"} {
		assert.Contains(t, err.Error(), fragment)
	}

	t.Run("With the same port twice", func(t *testing.T) {
		config := Default()
		config.Server.APIPort = config.Server.Port
		err := config.Validate()
		require.ErrorIs(t, err, gerrors.ErrInvalidConfig)
		assert.Contains(t, err.Error(), "must differ")
	})
}

func TestApplyEnv(t *testing.T) {
	t.Run("With overrides", func(t *testing.T) {
		env := map[string]string{
			"MAILHUB_SERVER_PORT":             "5000",
			"MAILHUB_SERVER_HOST":             " 10.0.0.1 ",
			"MAILHUB_HUB_LOG_LEVEL":           "warn",
			"MAILHUB_HUB_METRICS":             "true",
			"MAILHUB_ROUTER_WORKERS":          "9",
			"MAILHUB_SERVER_LOOPS":            "3",
			"MAILHUB_HUB_PARALLELISM":         "2",
			"MAILHUB_ROUTER_KIND":             "random",
			"MAILHUB_SERVER_SHUTDOWN_TIMEOUT": "250ms",
			"MAILHUB_SERVER_API_PORT":         "5001",
			"MAILHUB_SERVER_MAX_BODY_LENGTH":  "2048",
		}
		config := Default()
		require.NoError(t, config.ApplyEnv(func(key string) (string, bool) {
			value, ok := env[key]
			return value, ok
		}))

		assert.Equal(t, "10.0.0.1:5000", config.ListenAddr())
		assert.Equal(t, "10.0.0.1:5001", config.APIAddr())
		assert.EqualValues(t, 2048, config.Server.Limits.BodyLimit())
		assert.Equal(t, log.WarningLevel, config.LogLevel())
		assert.True(t, config.Hub.Metrics)
		assert.Equal(t, 9, config.Router.Workers)
		assert.Equal(t, 3, config.Server.Loops)
		assert.Equal(t, 2, config.Hub.Parallelism)
		assert.Equal(t, router.RandomKind, config.RouterKind())
		assert.Equal(t, 250*time.Millisecond, config.Server.ShutdownTimeout)
	})
	t.Run("With malformed values", func(t *testing.T) {
		env := map[string]string{
			"MAILHUB_SERVER_PORT": "http",
			"MAILHUB_HUB_METRICS": "maybe",
		}
		config := Default()
		err := config.ApplyEnv(func(key string) (string, bool) {
			value, ok := env[key]
			return value, ok
		})
		require.ErrorIs(t, err, gerrors.ErrInvalidConfig)
		assert.Contains(t, err.Error(), "MAILHUB_SERVER_PORT")
		assert.Contains(t, err.Error(), "MAILHUB_HUB_METRICS")
		assert.Equal(t, DefaultPort, config.Server.Port)
	})
	t.Run("With nothing set", func(t *testing.T) {
		config := Default()
		require.NoError(t, config.ApplyEnv(noEnv))
		assert.Equal(t, Default(), config)
	})
}

func TestLoad(t *testing.T) {
	t.Run("With a valid file", func(t *testing.T) {
		config, err := Load(writeConfig(t, sample))
		require.NoError(t, err)
		assert.Equal(t, 8080, config.Server.Port)
	})
	t.Run("With the port from the environment", func(t *testing.T) {
		t.Setenv("MAILHUB_SERVER_PORT", "6000")
		config, err := Load(writeConfig(t, sample))
		require.NoError(t, err)
		assert.Equal(t, 6000, config.Server.Port)
	})
	t.Run("With an invalid file", func(t *testing.T) {
		_, err := Load(writeConfig(t, "router:\n  workers: -2\n"))
		require.ErrorIs(t, err, gerrors.ErrInvalidConfig)
	})
	t.Run("With a missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})
}

func TestAdvertisedAddr(t *testing.T) {
	t.Run("With an explicit host", func(t *testing.T) {
		config := Default()
		config.Server.Host = "127.0.0.1"
		addr, err := config.AdvertisedAddr()
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:4567", addr)
	})
	t.Run("With no host", func(t *testing.T) {
		addr, err := Default().AdvertisedAddr()
		if err != nil {
			t.Skipf("no usable interface: %v", err)
		}
		assert.NotContains(t, addr, "0.0.0.0")
		assert.True(t, strings.HasSuffix(addr, ":4567"))
	})
}
