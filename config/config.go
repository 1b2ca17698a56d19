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

// Package config loads the configuration of a hubd process from a YAML file
// and the environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tochemey/mailhub/actor"
	gerrors "github.com/tochemey/mailhub/errors"
	"github.com/tochemey/mailhub/internal/tcp"
	"github.com/tochemey/mailhub/internal/validation"
	"github.com/tochemey/mailhub/log"
	"github.com/tochemey/mailhub/router"
	"github.com/tochemey/mailhub/server"
	"github.com/tochemey/mailhub/wire"
)

const (
	// DefaultPort is the port the gateway listens on when none is configured.
	DefaultPort = server.DefaultGatewayPort
	// DefaultAPIPort is the port of the handler server when none is
	// configured.
	DefaultAPIPort = DefaultPort + 1
)

// Config is the configuration of a hubd process.
type Config struct {
	Hub    Hub    `yaml:"hub"`
	Server Server `yaml:"server"`
	Router Router `yaml:"router"`
}

// Hub configures the actor hub.
type Hub struct {
	// Parallelism bounds the callbacks running at once. Zero means GOMAXPROCS.
	Parallelism       int           `yaml:"parallelism"`
	WorkerIdleTimeout time.Duration `yaml:"workerIdleTimeout"`
	LogLevel          string        `yaml:"logLevel"`
	Metrics           bool          `yaml:"metrics"`
}

// Server configures the HTTP gateway.
type Server struct {
	// Host is the interface to bind. Empty binds every interface.
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// APIPort is the port of the HTTP server routing requests to handlers.
	APIPort         int           `yaml:"apiPort"`
	Loops           int           `yaml:"loops"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	Limits          wire.Limits   `yaml:"limits"`
}

// Router configures the pool of handlers served behind the gateway.
type Router struct {
	Kind    string `yaml:"kind"`
	Workers int    `yaml:"workers"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Hub: Hub{
			WorkerIdleTimeout: time.Second,
			LogLevel:          log.InfoLevel.String(),
		},
		Server: Server{
			Port:            DefaultPort,
			APIPort:         DefaultAPIPort,
			Loops:           server.DefaultLoops,
			ShutdownTimeout: server.DefaultShutdownTimeout,
			Limits:          wire.DefaultLimits(),
		},
		Router: Router{
			Kind:    router.RoundRobinKind.String(),
			Workers: 4,
		},
	}
}

// Load reads the YAML file at path over the defaults, applies the
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	if err := config.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Parse decodes YAML from src over the defaults. Unknown fields are
// rejected. The result is not validated.
func Parse(src io.Reader) (*Config, error) {
	config := Default()
	decoder := yaml.NewDecoder(src)
	decoder.KnownFields(true)
	if err := decoder.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return nil, gerrors.NewErrInvalidConfig(err)
	}
	return config, nil
}

// Validate checks every section and reports all the violations at once.
func (c *Config) Validate() error {
	_, levelErr := log.ParseLevel(c.Hub.LogLevel)
	_, kindErr := router.ParseKind(c.Router.Kind)
	limitsErr := c.Server.Limits.Validate()

	err := validation.New(validation.AllErrors()).
		AddAssertion(c.Hub.Parallelism >= 0, "hub parallelism must not be negative").
		AddAssertion(c.Hub.WorkerIdleTimeout > 0, "hub worker idle timeout must be positive").
		AddAssertion(levelErr == nil, fmt.Sprintf("invalid hub log level %q", c.Hub.LogLevel)).
		AddValidator(validation.NewPortValidator("server port", c.Server.Port)).
		AddValidator(validation.NewPortValidator("server api port", c.Server.APIPort)).
		AddAssertion(c.Server.Port == 0 || c.Server.Port != c.Server.APIPort, "server port and api port must differ").
		AddAssertion(c.Server.Loops > 0, "server loops must be positive").
		AddAssertion(c.Server.ShutdownTimeout > 0, "server shutdown timeout must be positive").
		AddAssertion(limitsErr == nil, fmt.Sprintf("invalid server limits: %v", limitsErr)).
		AddAssertion(kindErr == nil, fmt.Sprintf("invalid router kind %q", c.Router.Kind)).
		AddAssertion(c.Router.Workers > 0, "router workers must be positive").
		Validate()
	if err != nil {
		return gerrors.NewErrInvalidConfig(err)
	}
	return nil
}

// ListenAddr returns the host:port the gateway binds.
func (c *Config) ListenAddr() string {
	return tcp.JoinHostPort(c.Server.Host, c.Server.Port)
}

// APIAddr returns the host:port the handler server binds.
func (c *Config) APIAddr() string {
	return tcp.JoinHostPort(c.Server.Host, c.Server.APIPort)
}

// AdvertisedAddr returns the host:port clients should use. An empty or
// unspecified host is replaced with an address of a host interface.
func (c *Config) AdvertisedAddr() (string, error) {
	host := c.Server.Host
	if host == "" {
		host = "0.0.0.0"
	}

	ip, err := tcp.GetBindIP(tcp.JoinHostPort(host, c.Server.Port))
	if err != nil {
		return "", err
	}
	return tcp.JoinHostPort(ip, c.Server.Port), nil
}

// LogLevel returns the configured log level, InfoLevel when invalid.
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Hub.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// RouterKind returns the configured routing strategy, round-robin when
// invalid.
func (c *Config) RouterKind() router.Kind {
	kind, err := router.ParseKind(c.Router.Kind)
	if err != nil {
		return router.RoundRobinKind
	}
	return kind
}

// HubOptions returns the hub options matching the configuration.
func (c *Config) HubOptions(logger log.Logger) []actor.Option {
	opts := []actor.Option{
		actor.WithLogger(logger),
		actor.WithParallelism(c.Hub.Parallelism),
		actor.WithWorkerIdleTimeout(c.Hub.WorkerIdleTimeout),
	}
	if c.Hub.Metrics {
		opts = append(opts, actor.WithMetric())
	}
	return opts
}

// ServerOptions returns the server options matching the configuration.
func (c *Config) ServerOptions(logger log.Logger) []server.Option {
	return []server.Option{
		server.WithLogger(logger),
		server.WithLimits(c.Server.Limits),
		server.WithLoops(c.Server.Loops),
		server.WithShutdownTimeout(c.Server.ShutdownTimeout),
	}
}
