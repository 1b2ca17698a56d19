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

package client

import (
	"time"

	"github.com/tochemey/mailhub/wire"
)

// Option is the interface that applies a Client option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(*Client)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Client)

// Apply applies the Client's option
func (f OptionFunc) Apply(c *Client) {
	f(c)
}

// WithBalancerStrategy sets the Client balancer strategy
func WithBalancerStrategy(strategy BalancerStrategy) Option {
	return OptionFunc(func(c *Client) {
		c.strategy = strategy
	})
}

// WithRetries sets how many times a failed dial is retried with backoff.
func WithRetries(retries int) Option {
	return OptionFunc(func(c *Client) {
		if retries >= 0 {
			c.retries = retries
		}
	})
}

// WithBackoff sets the initial and maximum delay between dial attempts.
func WithBackoff(initial, maximum time.Duration) Option {
	return OptionFunc(func(c *Client) {
		if initial > 0 && maximum >= initial {
			c.initialDelay = initial
			c.maxDelay = maximum
		}
	})
}

// WithTimeout bounds a whole exchange, dial included.
func WithTimeout(timeout time.Duration) Option {
	return OptionFunc(func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	})
}

// WithLimits sets the buffer and line limits of the connections.
func WithLimits(limits wire.Limits) Option {
	return OptionFunc(func(c *Client) {
		if limits.Validate() == nil {
			c.limits = limits
		}
	})
}

// WithUserAgent sets the User-Agent header of the requests.
func WithUserAgent(agent string) Option {
	return OptionFunc(func(c *Client) {
		c.userAgent = agent
	})
}
