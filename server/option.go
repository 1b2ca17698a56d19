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

package server

import (
	"time"

	"github.com/tochemey/mailhub/log"
	"github.com/tochemey/mailhub/wire"
)

const (
	// DefaultLoops is the number of accept loops a server runs.
	DefaultLoops = 1
	// DefaultShutdownTimeout bounds how long Stop waits for live connections.
	DefaultShutdownTimeout = 5 * time.Second
	// DefaultServerName is sent in the Server header of HTTP responses.
	DefaultServerName = "mailhub"
)

type settings struct {
	logger          log.Logger
	limits          wire.Limits
	loops           int
	shutdownTimeout time.Duration
	name            string
	reusePort       bool
}

func defaultSettings() *settings {
	return &settings{
		logger:          log.DefaultLogger,
		limits:          wire.DefaultLimits(),
		loops:           DefaultLoops,
		shutdownTimeout: DefaultShutdownTimeout,
		name:            DefaultServerName,
	}
}

func newSettings(opts ...Option) *settings {
	s := defaultSettings()
	for _, opt := range opts {
		opt.Apply(s)
	}
	return s
}

// Option configures a server.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(*settings)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*settings)

// Apply applies the options to the settings.
func (f OptionFunc) Apply(s *settings) {
	f(s)
}

// WithLogger sets the server logger.
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	})
}

// WithLimits sets the buffer and line limits used to parse requests.
// Invalid limits are ignored.
func WithLimits(limits wire.Limits) Option {
	return OptionFunc(func(s *settings) {
		if limits.Validate() == nil {
			s.limits = limits
		}
	})
}

// WithLoops sets the number of concurrent accept loops.
func WithLoops(loops int) Option {
	return OptionFunc(func(s *settings) {
		if loops > 0 {
			s.loops = loops
		}
	})
}

// WithShutdownTimeout sets how long Stop waits for live connections to
// finish before closing them.
func WithShutdownTimeout(timeout time.Duration) Option {
	return OptionFunc(func(s *settings) {
		if timeout > 0 {
			s.shutdownTimeout = timeout
		}
	})
}

// WithServerName sets the value of the Server response header.
func WithServerName(name string) Option {
	return OptionFunc(func(s *settings) {
		if name != "" {
			s.name = name
		}
	})
}

// WithReusePort enables SO_REUSEPORT on the listener where the platform
// supports it.
func WithReusePort() Option {
	return OptionFunc(func(s *settings) {
		s.reusePort = true
	})
}
