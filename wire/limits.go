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

import (
	"fmt"

	"github.com/tochemey/mailhub/internal/validation"
)

const (
	// DefaultBufferSize is the size of the buffer owned by a reader or a writer.
	DefaultBufferSize = 4096
	// DefaultMaxURILength bounds the scan for the end of the request URI.
	DefaultMaxURILength = 1024
	// DefaultMaxHeaderLength bounds the scan for the end of a header line.
	DefaultMaxHeaderLength = 1024
	// DefaultMaxBodyLength bounds the bytes of a body read into memory.
	DefaultMaxBodyLength = 1 << 20
)

// Limits bounds the memory and the scans of a connection.
type Limits struct {
	BufferSize      int `yaml:"bufferSize"`
	MaxURILength    int `yaml:"maxURILength"`
	MaxHeaderLength int `yaml:"maxHeaderLength"`
	// MaxBodyLength bounds a parsed body. Zero means DefaultMaxBodyLength.
	MaxBodyLength int `yaml:"maxBodyLength"`
}

// DefaultLimits returns the default limits.
func DefaultLimits() Limits {
	return Limits{
		BufferSize:      DefaultBufferSize,
		MaxURILength:    DefaultMaxURILength,
		MaxHeaderLength: DefaultMaxHeaderLength,
		MaxBodyLength:   DefaultMaxBodyLength,
	}
}

// BodyLimit returns the body bound in effect.
func (l Limits) BodyLimit() int64 {
	if l.MaxBodyLength <= 0 {
		return DefaultMaxBodyLength
	}
	return int64(l.MaxBodyLength)
}

// Validate checks that the scans fit in the buffer: a URI or a header line
// plus its terminator must be readable without growing the buffer.
func (l Limits) Validate() error {
	return validation.New(validation.AllErrors()).
		AddAssertion(l.BufferSize >= 16, fmt.Sprintf("buffer size %d is too small", l.BufferSize)).
		AddAssertion(l.MaxURILength > 0, "max URI length must be positive").
		AddAssertion(l.MaxHeaderLength > 0, "max header length must be positive").
		AddAssertion(l.MaxBodyLength >= 0, "max body length must not be negative").
		AddAssertion(l.MaxURILength < l.BufferSize, "max URI length must be smaller than the buffer size").
		AddAssertion(l.MaxHeaderLength+1 < l.BufferSize, "max header length must be smaller than the buffer size").
		Validate()
}

// orDefault replaces unset fields with their default.
func (l Limits) orDefault() Limits {
	if l.BufferSize <= 0 {
		l.BufferSize = DefaultBufferSize
	}
	if l.MaxURILength <= 0 {
		l.MaxURILength = DefaultMaxURILength
	}
	if l.MaxHeaderLength <= 0 {
		l.MaxHeaderLength = DefaultMaxHeaderLength
	}
	if l.MaxBodyLength <= 0 {
		l.MaxBodyLength = DefaultMaxBodyLength
	}
	return l
}
