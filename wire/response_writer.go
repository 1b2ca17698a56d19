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
	"io"
	"strconv"
)

// ResponseWriter writes responses.
type ResponseWriter struct {
	*Writer
}

// NewResponseWriter creates a ResponseWriter over dst.
func NewResponseWriter(dst io.Writer, opts ...Option) *ResponseWriter {
	return &ResponseWriter{Writer: NewWriter(dst, opts...)}
}

// WriteVersion writes the version token followed by a space.
func (w *ResponseWriter) WriteVersion(version Version) error {
	_ = w.Writer.WriteVersion(version)
	return w.WriteSpace()
}

// WriteStatus writes the status code and its reason phrase, ending the
// status line.
func (w *ResponseWriter) WriteStatus(status Status) error {
	_ = w.WriteString(strconv.Itoa(status.Code()))
	_ = w.WriteSpace()
	_ = w.WriteString(status.Text())
	return w.WriteLF()
}
