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
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/tochemey/mailhub/actor"
	"github.com/tochemey/mailhub/address"
	"github.com/tochemey/mailhub/config"
	"github.com/tochemey/mailhub/internal/lib"
	"github.com/tochemey/mailhub/log"
	"github.com/tochemey/mailhub/router"
	"github.com/tochemey/mailhub/server"
)

// echoName is the name the echo pool is bound to.
const echoName = "echo"

var configPath string

// serveCmd starts the hub, the gateway and the echo handlers
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the hub with its gateway and the echo handlers",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, configPath, cmd.OutOrStdout())
	},
}

func init() {
	serveCmd.Flags().StringVarP(&configPath, "config", "c", "", "path of the YAML configuration file")
	rootCmd.AddCommand(serveCmd)
}

// serve runs the daemon until ctx is done. Without a path the defaults
// overridden by the environment are used and no file is watched.
func serve(ctx context.Context, path string, out io.Writer) error {
	logger := log.NewZap(log.InfoLevel, out)

	cfg := config.Default()
	var watcher *config.Watcher
	if path == "" {
		if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
	} else {
		if !lib.FileExists(path) {
			return fmt.Errorf("configuration file %s not found", path)
		}
		var err error
		if watcher, err = config.NewWatcher(path, logger); err != nil {
			return err
		}
		cfg = watcher.Config()
	}
	logger.SetLevel(cfg.LogLevel())

	d := newDaemon(cfg, logger)
	if err := d.start(ctx); err != nil {
		return err
	}

	if watcher != nil {
		watcher.OnChange(func(previous, current *config.Config) {
			if previous.LogLevel() != current.LogLevel() {
				logger.Infof("log level changed to %s", current.LogLevel().String())
				logger.SetLevel(current.LogLevel())
			}
		})
		if err := watcher.Start(); err != nil {
			logger.Warnf("configuration changes will not be picked up: %v", err)
			watcher = nil
		}
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 2*cfg.Server.ShutdownTimeout)
	defer cancel()

	var err error
	if watcher != nil {
		err = multierr.Append(err, watcher.Stop())
	}
	err = multierr.Append(err, d.stop(stopCtx))
	_ = logger.Flush()
	return err
}

// daemon wires the hub, the echo pool and the two HTTP front ends.
type daemon struct {
	config  *config.Config
	logger  log.Logger
	hub     *actor.Hub
	gateway *server.Gateway
	api     *server.HTTPServer
	echo    *address.Address
}

func newDaemon(cfg *config.Config, logger log.Logger) *daemon {
	hub := actor.NewHub(cfg.HubOptions(logger)...)
	return &daemon{
		config:  cfg,
		logger:  logger,
		hub:     hub,
		gateway: server.NewGateway(hub, cfg.ListenAddr(), cfg.ServerOptions(logger)...),
		api:     server.NewHTTPServer(hub, cfg.APIAddr(), cfg.ServerOptions(logger)...),
	}
}

func (d *daemon) start(ctx context.Context) error {
	if err := d.hub.Start(ctx); err != nil {
		return err
	}

	echo, err := d.spawnEcho()
	if err != nil {
		return multierr.Append(err, d.hub.Stop(ctx))
	}
	d.echo = echo

	if err := d.api.RegisterHandler("/echo(/.*)?", echo); err != nil {
		return multierr.Append(err, d.hub.Stop(ctx))
	}

	if err := d.gateway.Start(ctx); err != nil {
		return multierr.Append(err, d.hub.Stop(ctx))
	}

	if err := d.api.Start(ctx); err != nil {
		return multierr.Combine(err, d.gateway.Stop(ctx), d.hub.Stop(ctx))
	}

	advertised, err := d.config.AdvertisedAddr()
	if err != nil {
		advertised = d.gateway.Addr().String()
	}
	d.logger.Infof("gateway listening on %s (advertised %s), handlers on %s",
		d.gateway.Addr().String(), advertised, d.api.Addr().String())
	return nil
}

// spawnEcho starts the echo workers behind a delegator bound to echoName.
func (d *daemon) spawnEcho() (*address.Address, error) {
	workers := make([]*address.Address, 0, d.config.Router.Workers)
	for range d.config.Router.Workers {
		worker, err := d.hub.SpawnFunc(echo)
		if err != nil {
			return nil, err
		}
		workers = append(workers, worker.Address())
	}

	strategy, err := router.NewStrategy(d.config.RouterKind(), workers...)
	if err != nil {
		return nil, err
	}

	delegator, err := d.hub.Spawn(router.NewDelegator(strategy))
	if err != nil {
		return nil, err
	}

	addr, err := d.hub.AllocateNamed(delegator, echoName)
	if err != nil {
		return nil, err
	}

	if err := d.hub.StartActor(addr); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", echoName, err)
	}
	return addr, nil
}

func (d *daemon) stop(ctx context.Context) error {
	return multierr.Combine(
		d.api.Stop(ctx),
		d.gateway.Stop(ctx),
		d.hub.Stop(ctx),
	)
}
