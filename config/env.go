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
	"fmt"
	"strconv"
	"strings"
	"time"

	gerrors "github.com/tochemey/mailhub/errors"
)

// EnvPrefix prefixes the environment variables overriding the file.
const EnvPrefix = "MAILHUB_"

// LookupFunc looks up an environment variable, as os.LookupEnv does.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides the configuration with the MAILHUB_* variables found by
// lookup, for instance MAILHUB_SERVER_PORT or MAILHUB_HUB_LOG_LEVEL.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	env := envReader{lookup: lookup}

	env.string("HUB_LOG_LEVEL", &c.Hub.LogLevel)
	env.int("HUB_PARALLELISM", &c.Hub.Parallelism)
	env.duration("HUB_WORKER_IDLE_TIMEOUT", &c.Hub.WorkerIdleTimeout)
	env.bool("HUB_METRICS", &c.Hub.Metrics)

	env.string("SERVER_HOST", &c.Server.Host)
	env.int("SERVER_PORT", &c.Server.Port)
	env.int("SERVER_API_PORT", &c.Server.APIPort)
	env.int("SERVER_LOOPS", &c.Server.Loops)
	env.duration("SERVER_SHUTDOWN_TIMEOUT", &c.Server.ShutdownTimeout)
	env.int("SERVER_BUFFER_SIZE", &c.Server.Limits.BufferSize)
	env.int("SERVER_MAX_URI_LENGTH", &c.Server.Limits.MaxURILength)
	env.int("SERVER_MAX_HEADER_LENGTH", &c.Server.Limits.MaxHeaderLength)
	env.int("SERVER_MAX_BODY_LENGTH", &c.Server.Limits.MaxBodyLength)

	env.string("ROUTER_KIND", &c.Router.Kind)
	env.int("ROUTER_WORKERS", &c.Router.Workers)

	if len(env.errs) > 0 {
		return gerrors.NewErrInvalidConfig(fmt.Errorf("invalid environment: %s", strings.Join(env.errs, "; ")))
	}
	return nil
}

type envReader struct {
	lookup LookupFunc
	errs   []string
}

func (e *envReader) get(key string) (string, bool) {
	value, ok := e.lookup(EnvPrefix + key)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(value), true
}

func (e *envReader) fail(key, value string, err error) {
	e.errs = append(e.errs, fmt.Sprintf("%s%s=%q: %v", EnvPrefix, key, value, err))
}

func (e *envReader) string(key string, target *string) {
	if value, ok := e.get(key); ok {
		*target = value
	}
}

func (e *envReader) int(key string, target *int) {
	value, ok := e.get(key)
	if !ok {
		return
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		e.fail(key, value, err)
		return
	}
	*target = parsed
}

func (e *envReader) bool(key string, target *bool) {
	value, ok := e.get(key)
	if !ok {
		return
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		e.fail(key, value, err)
		return
	}
	*target = parsed
}

func (e *envReader) duration(key string, target *time.Duration) {
	value, ok := e.get(key)
	if !ok {
		return
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		e.fail(key, value, err)
		return
	}
	*target = parsed
}
