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

package actor

import (
	"time"

	"github.com/tochemey/mailhub/log"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(hub *Hub)
}

// enforce compilation error
var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Hub)

// Apply applies the Hub's option
func (f OptionFunc) Apply(hub *Hub) {
	f(hub)
}

// WithLogger sets the hub logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(hub *Hub) {
		hub.logger = logger
	})
}

// WithParallelism sets how many callbacks may run at the same time across the
// whole hub. Callbacks parked in a blocking primitive do not count.
func WithParallelism(parallelism int) Option {
	return OptionFunc(func(hub *Hub) {
		hub.parallelism = parallelism
	})
}

// WithWorkerIdleTimeout sets how long an idle worker goroutine is kept.
func WithWorkerIdleTimeout(timeout time.Duration) Option {
	return OptionFunc(func(hub *Hub) {
		hub.workerIdleTimeout = timeout
	})
}

// WithFatalHandler replaces the function invoked when a callback faults.
// The default handler flushes the logger and exits the process with the
// given code.
func WithFatalHandler(handler FatalHandler) Option {
	return OptionFunc(func(hub *Hub) {
		hub.fatalHandler = handler
	})
}

// WithMetric enables the OpenTelemetry instruments of the hub. They are
// registered against the global meter provider when the hub starts.
func WithMetric() Option {
	return OptionFunc(func(hub *Hub) {
		hub.metricEnabled = true
	})
}
