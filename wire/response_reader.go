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

import "io"

// ResponseReader reads the status line of a response followed by its
// headers and body.
type ResponseReader struct {
	*Reader
}

// NewResponseReader creates a ResponseReader over src.
func NewResponseReader(src io.Reader, opts ...Option) *ResponseReader {
	return &ResponseReader{Reader: NewReader(src, opts...)}
}

// ReadVersion parses the version token and the space following it.
func (r *ResponseReader) ReadVersion() Version {
	version := r.Reader.ReadVersion()
	if version == VersionError || !r.ReadSpace() {
		return VersionError
	}
	return version
}

// ReadStatus parses the status code and skips the reason phrase up to the
// header section.
func (r *ResponseReader) ReadStatus() (Status, error) {
	status, err := r.Reader.ReadStatus()
	if err != nil {
		return status, err
	}

	end := r.indexByte('\n', r.limits.MaxHeaderLength+2)
	if end < 0 {
		return status, r.framingError("unterminated status line")
	}
	r.pos += end + 1
	return status, nil
}
