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
	"bytes"
	"io"
)

// minMethodLength is the shortest prefix that can hold a method token and
// its trailing space.
const minMethodLength = 6

var methodPrefixes = [...]struct {
	token  []byte
	method Method
}{
	{[]byte("GET "), MethodGet},
	{[]byte("PUT "), MethodPut},
	{[]byte("POST "), MethodPost},
	{[]byte("HEAD "), MethodHead},
	{[]byte("DELETE "), MethodDelete},
	{[]byte("TRACE "), MethodTrace},
	{[]byte("CONNECT "), MethodConnect},
}

// RequestReader reads the request line of an incoming request followed by
// its headers and body.
type RequestReader struct {
	*Reader
}

// NewRequestReader creates a RequestReader over src.
func NewRequestReader(src io.Reader, opts ...Option) *RequestReader {
	return &RequestReader{Reader: NewReader(src, opts...)}
}

// ReadMethod matches the method token and the space following it. It returns
// MethodError when the source yields fewer bytes than the shortest request
// line prefix and MethodUnknown for an unrecognized verb.
func (r *RequestReader) ReadMethod() Method {
	if r.fill(len("CONNECT ")) < minMethodLength {
		return MethodError
	}

	head := r.buf[r.pos:r.limit]
	for _, prefix := range methodPrefixes {
		if head[0] == prefix.token[0] && bytes.HasPrefix(head, prefix.token) {
			r.pos += len(prefix.token)
			return prefix.method
		}
	}
	return MethodUnknown
}

// ReadURI copies the request URI into target and consumes the space that
// ends it. It returns the number of bytes copied, or -1 when no space is
// found within the maximum URI length.
func (r *RequestReader) ReadURI(target []byte) int {
	end := r.indexByte(' ', r.limits.MaxURILength+1)
	if end < 0 {
		return -1
	}

	n := copy(target, r.buf[r.pos:r.pos+end])
	r.pos += end + 1
	return n
}

// ReadVersion parses the version token and the CRLF ending the request
// line.
func (r *RequestReader) ReadVersion() Version {
	version := r.Reader.ReadVersion()
	if version == VersionError {
		return VersionError
	}
	if !r.ReadLF() {
		return VersionError
	}
	return version
}
