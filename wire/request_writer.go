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
	"io"
)

// RequestWriter writes requests.
type RequestWriter struct {
	*Writer
}

// NewRequestWriter creates a RequestWriter over dst.
func NewRequestWriter(dst io.Writer, opts ...Option) *RequestWriter {
	return &RequestWriter{Writer: NewWriter(dst, opts...)}
}

// WriteMethod writes the method token followed by a space.
func (w *RequestWriter) WriteMethod(method Method) error {
	if !method.IsValid() {
		return fmt.Errorf("cannot write method %s", method)
	}
	_ = w.WriteString(method.String())
	return w.WriteSpace()
}

// WriteURI writes the request URI followed by a space.
func (w *RequestWriter) WriteURI(uri string) error {
	_ = w.WriteString(uri)
	return w.WriteSpace()
}

// WriteVersion writes the version token and ends the request line.
func (w *RequestWriter) WriteVersion(version Version) error {
	_ = w.Writer.WriteVersion(version)
	return w.WriteLF()
}
