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

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travisjeffery/go-dynaport"
	"go.uber.org/goleak"

	"github.com/tochemey/mailhub/box"
	"github.com/tochemey/mailhub/client"
	"github.com/tochemey/mailhub/config"
	"github.com/tochemey/mailhub/log"
	"github.com/tochemey/mailhub/wire"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testConfig() *config.Config {
	ports := dynaport.Get(2)
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = ports[0]
	cfg.Server.APIPort = ports[1]
	cfg.Server.ShutdownTimeout = time.Second
	cfg.Router.Workers = 2
	return cfg
}

func newClient(t *testing.T, addr string) *client.Client {
	t.Helper()
	c, err := client.New([]string{addr}, client.WithTimeout(2*time.Second), client.WithBackoff(10*time.Millisecond, 50*time.Millisecond))
	require.NoError(t, err)
	return c
}

func TestDaemon(t *testing.T) {
	cfg := testConfig()
	d := newDaemon(cfg, log.DiscardLogger)
	require.NoError(t, d.start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		require.NoError(t, d.stop(ctx))
	})

	ctx := context.Background()

	t.Run("With a request routed to the echo pool", func(t *testing.T) {
		api := newClient(t, cfg.APIAddr())
		workers := make(map[any]struct{})
		for range 2 {
			resp, err := api.Post(ctx, "/echo/items", box.Map{"n": 1})
			require.NoError(t, err)
			require.Equal(t, wire.StatusOK, resp.Status)

			body, ok := resp.Body.(box.Map)
			require.True(t, ok)
			assert.Equal(t, "POST", body["method"])
			assert.Equal(t, "/echo/items", body["path"])
			assert.Equal(t, box.Map{"n": json.Number("1")}, body["body"])
			workers[body["worker"]] = struct{}{}
		}
		assert.Len(t, workers, 2)
	})
	t.Run("With an unrouted path", func(t *testing.T) {
		resp, err := newClient(t, cfg.APIAddr()).Get(ctx, "/missing")
		require.NoError(t, err)
		assert.Equal(t, wire.StatusNotFound, resp.Status)
	})
	t.Run("With a message posted to the gateway", func(t *testing.T) {
		gateway := newClient(t, cfg.ListenAddr())
		require.NoError(t, gateway.Send(ctx, echoName, box.Map{"hello": "world"}))

		err := gateway.Send(ctx, "nobody", "hello")
		var statusErr *client.StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, wire.StatusNotFound, statusErr.Status)
	})
	t.Run("With the echo pool bound by name", func(t *testing.T) {
		addr, ok := d.hub.Lookup(echoName)
		require.True(t, ok)
		assert.True(t, addr.Equals(d.echo))
	})
}

func TestDaemonPortInUse(t *testing.T) {
	cfg := testConfig()
	listener, err := net.Listen("tcp", cfg.ListenAddr())
	require.NoError(t, err)
	defer listener.Close()

	d := newDaemon(cfg, log.DiscardLogger)
	require.Error(t, d.start(context.Background()))
}

func TestServe(t *testing.T) {
	t.Run("With a configuration file", func(t *testing.T) {
		cfg := testConfig()
		path := filepath.Join(t.TempDir(), "hubd.yaml")
		content := fmt.Sprintf("server:\n  host: 127.0.0.1\n  port: %d\n  apiPort: %d\n  shutdownTimeout: 1s\nhub:\n  logLevel: error\n",
			cfg.Server.Port, cfg.Server.APIPort)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- serve(ctx, path, io.Discard) }()

		api := newClient(t, cfg.APIAddr())
		require.Eventually(t, func() bool {
			resp, err := api.Get(context.Background(), "/echo")
			return err == nil && resp.Status == wire.StatusOK
		}, 5*time.Second, 50*time.Millisecond)

		cancel()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(10 * time.Second):
			t.Fatal("serve did not return")
		}
	})
	t.Run("With an invalid configuration file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "hubd.yaml")
		require.NoError(t, os.WriteFile(path, []byte("router:\n  workers: 0\n"), 0o600))
		require.Error(t, serve(context.Background(), path, io.Discard))
	})
	t.Run("With a missing configuration file", func(t *testing.T) {
		err := serve(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"), io.Discard)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
	t.Run("With the environment only", func(t *testing.T) {
		t.Setenv("MAILHUB_SERVER_PORT", "none")
		require.Error(t, serve(context.Background(), "", io.Discard))
	})
	t.Run("With the serve command registered", func(t *testing.T) {
		cmd, _, err := rootCmd.Find([]string{"serve"})
		require.NoError(t, err)
		assert.Equal(t, serveCmd, cmd)
		assert.NotNil(t, cmd.Flags().Lookup("config"))
	})
}
