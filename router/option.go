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

package router

import "github.com/tochemey/mailhub/actor"

// Validator decides whether a message may be routed. A rejected message is
// dropped.
type Validator func(msg *actor.Message) bool

type settings struct {
	validate Validator
}

func newSettings(opts []Option) *settings {
	config := &settings{validate: func(*actor.Message) bool { return true }}
	for _, opt := range opts {
		opt.Apply(config)
	}
	return config
}

// Option is the interface that applies a routing behavior option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(config *settings)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(config *settings)

// Apply applies the options
func (f OptionFunc) Apply(config *settings) {
	f(config)
}

// WithValidator sets the hook run on every message before it is routed.
func WithValidator(validate Validator) Option {
	return OptionFunc(func(config *settings) {
		if validate != nil {
			config.validate = validate
		}
	})
}
