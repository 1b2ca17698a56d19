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
	"sync"
)

// Writer serializes the parts shared by requests and responses into a
// fixed-size buffer flushed to its destination whenever it fills up. Writes
// larger than the buffer are split across as many flushes as needed.
//
// Errors are sticky: once the destination fails every later call returns
// the same error. A Writer is not safe for concurrent use.
type Writer struct {
	dst io.Writer
	buf []byte
	n   int
	err error

	closeOnce *sync.Once
	closeErr  error
}

var (
	_ io.Writer     = (*Writer)(nil)
	_ io.ByteWriter = (*Writer)(nil)
)

// NewWriter creates a Writer over dst.
func NewWriter(dst io.Writer, opts ...Option) *Writer {
	config := newOptions(opts)
	return &Writer{
		dst:       dst,
		buf:       config.buf,
		closeOnce: new(sync.Once),
	}
}

// Buffered returns the number of bytes waiting for the next flush.
func (w *Writer) Buffered() int {
	return w.n
}

// WriteSpace writes a single space.
func (w *Writer) WriteSpace() error {
	return w.WriteByte(' ')
}

// WriteLF writes a CRLF line terminator.
func (w *Writer) WriteLF() error {
	return w.WriteString("\r\n")
}

// WriteVersion writes the version token. Unknown versions are written as
// HTTP/1.0.
func (w *Writer) WriteVersion(version Version) error {
	return w.WriteString(version.String())
}

// WriteHeader writes a complete header line.
func (w *Writer) WriteHeader(name, value string) error {
	_ = w.WriteString(name)
	_ = w.WriteString(": ")
	_ = w.WriteString(value)
	return w.WriteLF()
}

// StartBody writes the empty line ending the header section.
func (w *Writer) StartBody() error {
	return w.WriteLF()
}

// WriteBody writes body bytes.
func (w *Writer) WriteBody(p []byte) error {
	_, err := w.Write(p)
	return err
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	written := 0
	for len(p) > 0 {
		if w.err != nil {
			return written, w.err
		}
		if w.n == len(w.buf) {
			if err := w.Flush(); err != nil {
				return written, err
			}
		}
		c := copy(w.buf[w.n:], p)
		w.n += c
		written += c
		p = p[c:]
	}
	return written, w.err
}

// WriteString writes s.
func (w *Writer) WriteString(s string) error {
	for len(s) > 0 {
		if w.err != nil {
			return w.err
		}
		if w.n == len(w.buf) {
			if err := w.Flush(); err != nil {
				return err
			}
		}
		c := copy(w.buf[w.n:], s)
		w.n += c
		s = s[c:]
	}
	return w.err
}

// WriteByte implements io.ByteWriter.
func (w *Writer) WriteByte(c byte) error {
	if w.err != nil {
		return w.err
	}
	if w.n == len(w.buf) {
		if err := w.Flush(); err != nil {
			return err
		}
	}
	w.buf[w.n] = c
	w.n++
	return nil
}

// Flush writes the buffered bytes to the destination.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	if w.n == 0 {
		return nil
	}

	written, err := w.dst.Write(w.buf[:w.n])
	if err == nil && written < w.n {
		err = io.ErrShortWrite
	}
	if err != nil {
		w.err = err
		return err
	}
	w.n = 0
	return nil
}

// Close flushes the pending bytes then closes the destination when it is an
// io.Closer. The destination is closed even when the flush fails.
func (w *Writer) Close() error {
	w.closeOnce.Do(func() {
		err := w.Flush()
		if closer, ok := w.dst.(io.Closer); ok {
			if closeErr := closer.Close(); err == nil {
				err = closeErr
			}
		}
		w.closeErr = err
	})
	return w.closeErr
}

// Reset closes the current destination and makes the writer write to dst
// with an empty buffer.
func (w *Writer) Reset(dst io.Writer) error {
	err := w.Close()
	w.dst = dst
	w.n = 0
	w.err = nil
	w.closeOnce = new(sync.Once)
	w.closeErr = nil
	return err
}
