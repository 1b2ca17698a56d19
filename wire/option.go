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

package wire

// options holds the settings shared by readers and writers.
type options struct {
	limits Limits
	buf    []byte
}

func newOptions(opts []Option) *options {
	config := &options{limits: DefaultLimits()}
	for _, opt := range opts {
		opt.Apply(config)
	}
	config.limits = config.limits.orDefault()
	if len(config.buf) == 0 {
		config.buf = make([]byte, config.limits.BufferSize)
	}
	return config
}

// Option is the interface that applies a reader or writer option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(config *options)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(config *options)

// Apply applies the options
func (f OptionFunc) Apply(config *options) {
	f(config)
}

// WithLimits sets the limits. The buffer is sized after them unless one is
// supplied with WithBuffer.
func WithLimits(limits Limits) Option {
	return OptionFunc(func(config *options) {
		config.limits = limits
	})
}

// WithBuffer makes the reader or writer work on buf, typically taken from a
// pool. The buffer must not be shared with another reader or writer.
func WithBuffer(buf []byte) Option {
	return OptionFunc(func(config *options) {
		config.buf = buf[:cap(buf)]
	})
}
