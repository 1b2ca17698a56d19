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
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/tochemey/mailhub/errors"
)

// source is an in-memory connection recording whether it was closed.
type source struct {
	io.Reader
	closed int
}

func (s *source) Close() error {
	s.closed++
	return nil
}

func newSource(text string, oneByte bool) *source {
	var r io.Reader = strings.NewReader(text)
	if oneByte {
		r = iotest.OneByteReader(r)
	}
	return &source{Reader: r}
}

func readHeaders(t *testing.T, r *Reader) []string {
	t.Helper()
	var headers []string
	target := make([]byte, 1024)
	for {
		n := r.ReadHeaderField(target)
		require.NotEqual(t, -1, n, "unterminated header")
		if n == 0 {
			return headers
		}
		headers = append(headers, string(target[:n]))
	}
}

func TestRequestReader(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		method  Method
		uri     string
		version Version
		headers []string
		body    string
	}{
		{
			name:    "two headers and an ascii body",
			input:   "GET /foo HTTP/1.0\r\nUser-Agent: mailhub/0.1\r\nContent-Length: 10\r\n\r\n0123456789",
			method:  MethodGet,
			uri:     "/foo",
			version: VersionOneZero,
			headers: []string{"User-Agent: mailhub/0.1", "Content-Length: 10"},
			body:    "0123456789",
		},
		{
			name:    "one header and a unicode body",
			input:   "POST / HTTP/1.0\r\nUser-Agent: mailhub/0.1\r\n\r\næøå",
			method:  MethodPost,
			uri:     "/",
			version: VersionOneZero,
			headers: []string{"User-Agent: mailhub/0.1"},
			body:    "æøå",
		},
		{
			name:    "three headers and no body",
			input:   "POST /foo/bar?baz=1 HTTP/1.1\r\nUser-Agent: mailhub/0.1\r\nX-Stuff: Magic!\r\nCookie: XYZ\r\n\r\n",
			method:  MethodPost,
			uri:     "/foo/bar?baz=1",
			version: VersionOneOne,
			headers: []string{"User-Agent: mailhub/0.1", "X-Stuff: Magic!", "Cookie: XYZ"},
		},
		{
			name:    "no headers at all",
			input:   "DELETE /jobs/1 HTTP/1.0\r\n\r\n",
			method:  MethodDelete,
			uri:     "/jobs/1",
			version: VersionOneZero,
		},
		{
			name:    "connect",
			input:   "CONNECT host:80 HTTP/1.1\r\n\r\n",
			method:  MethodConnect,
			uri:     "host:80",
			version: VersionOneOne,
		},
	}

	for _, oneByte := range []bool{false, true} {
		for _, tc := range testCases {
			name := "With " + tc.name
			if oneByte {
				name += " arriving byte by byte"
			}
			t.Run(name, func(t *testing.T) {
				src := newSource(tc.input, oneByte)
				r := NewRequestReader(src)

				require.Equal(t, tc.method, r.ReadMethod())
				uri := make([]byte, DefaultMaxURILength)
				n := r.ReadURI(uri)
				require.Positive(t, n)
				require.Equal(t, tc.uri, string(uri[:n]))
				require.Equal(t, tc.version, r.ReadVersion())
				require.Equal(t, tc.headers, readHeaders(t, r.Reader))

				body := r.StreamBody()
				content, err := io.ReadAll(body)
				require.NoError(t, err)
				require.Equal(t, tc.body, string(content))

				require.NoError(t, body.Close())
				require.NoError(t, r.Close())
				require.Equal(t, 1, src.closed)
			})
		}
	}

	t.Run("With truncated request line", func(t *testing.T) {
		for _, input := range []string{"", "GET", "POST "} {
			r := NewRequestReader(newSource(input, false))
			assert.Equal(t, MethodError, r.ReadMethod(), "input %q", input)
		}
	})
	t.Run("With unrecognized verb", func(t *testing.T) {
		r := NewRequestReader(newSource("PATCH /foo HTTP/1.0\r\n\r\n", false))
		require.Equal(t, MethodUnknown, r.ReadMethod())
	})
	t.Run("With URI longer than the limit", func(t *testing.T) {
		limits := Limits{BufferSize: 64, MaxURILength: 16, MaxHeaderLength: 32}
		require.NoError(t, limits.Validate())

		r := NewRequestReader(newSource("GET /"+strings.Repeat("a", 40)+" HTTP/1.0\r\n\r\n", true), WithLimits(limits))
		require.Equal(t, MethodGet, r.ReadMethod())
		require.Equal(t, -1, r.ReadURI(make([]byte, 64)))
	})
	t.Run("With URI at the limit", func(t *testing.T) {
		limits := Limits{BufferSize: 64, MaxURILength: 16, MaxHeaderLength: 32}
		uri := "/" + strings.Repeat("a", 15)

		r := NewRequestReader(newSource("GET "+uri+" HTTP/1.0\r\n\r\n", true), WithLimits(limits))
		require.Equal(t, MethodGet, r.ReadMethod())
		target := make([]byte, 64)
		n := r.ReadURI(target)
		require.Equal(t, uri, string(target[:n]))
		require.Equal(t, VersionOneZero, r.ReadVersion())
	})
	t.Run("With malformed versions", func(t *testing.T) {
		r := NewRequestReader(newSource("GET / HTTP/1.7\r\n", false))
		r.ReadMethod()
		r.ReadURI(make([]byte, 16))
		require.Equal(t, VersionUnknown, r.ReadVersion())

		r = NewRequestReader(newSource("GET / HTTP/2.0\r\n", false))
		r.ReadMethod()
		r.ReadURI(make([]byte, 16))
		require.Equal(t, VersionError, r.ReadVersion())

		r = NewRequestReader(newSource("GET / HTTP/1.0\n", false))
		r.ReadMethod()
		r.ReadURI(make([]byte, 16))
		require.Equal(t, VersionError, r.ReadVersion())
	})
}

func TestReaderHeaderField(t *testing.T) {
	t.Run("With header longer than the limit", func(t *testing.T) {
		limits := Limits{BufferSize: 64, MaxURILength: 16, MaxHeaderLength: 16}
		r := NewReader(newSource("X-Long: "+strings.Repeat("v", 30)+"\r\n\r\n", true), WithLimits(limits))
		require.Equal(t, -1, r.ReadHeaderField(make([]byte, 64)))
	})
	t.Run("With header at the limit", func(t *testing.T) {
		limits := Limits{BufferSize: 64, MaxURILength: 16, MaxHeaderLength: 16}
		line := "X-Fits: " + strings.Repeat("v", 8)
		r := NewReader(newSource(line+"\r\n\r\n", true), WithLimits(limits))
		target := make([]byte, 64)
		n := r.ReadHeaderField(target)
		require.Equal(t, line, string(target[:n]))
		require.Zero(t, r.ReadHeaderField(target))
	})
	t.Run("With target shorter than the line", func(t *testing.T) {
		r := NewReader(newSource("Server: mailhub\r\nX-Next: 1\r\n\r\n", false))
		target := make([]byte, 6)
		require.Equal(t, 6, r.ReadHeaderField(target))
		require.Equal(t, "Server", string(target))
		require.Equal(t, 6, r.ReadHeaderField(target))
		require.Equal(t, "X-Next", string(target))
		require.Zero(t, r.ReadHeaderField(target))
	})
	t.Run("With bare line feed", func(t *testing.T) {
		r := NewReader(newSource("Server: mailhub\n\r\n", false))
		require.Equal(t, -1, r.ReadHeaderField(make([]byte, 64)))
	})
	t.Run("With stream ending in the headers", func(t *testing.T) {
		r := NewReader(newSource("Server: mail", false))
		require.Equal(t, -1, r.ReadHeaderField(make([]byte, 64)))
	})
}

func TestResponseReader(t *testing.T) {
	large := strings.Repeat("z", 206577)
	testCases := []struct {
		name    string
		input   string
		version Version
		status  Status
		headers int
		body    string
	}{
		{"a few headers and an ascii body", "HTTP/1.0 200 OK\r\nServer: mailhub\r\nContent-Length: 10\r\n\r\n0123456789", VersionOneZero, StatusOK, 2, "0123456789"},
		{"no headers and a unicode body", "HTTP/1.0 200 OK\r\n\r\naoeaa-æøå", VersionOneZero, StatusOK, 0, "aoeaa-æøå"},
		{"one header and no body", "HTTP/1.0 404 Not Found\r\nServer: mailhub\r\n\r\n", VersionOneZero, StatusNotFound, 1, ""},
		{"no header and no body", "HTTP/1.1 404 Not Found\r\n\r\n", VersionOneOne, StatusNotFound, 0, ""},
		{"one header and a large odd-sized body", "HTTP/1.0 200 OK\r\nServer: mailhub\r\n\r\n" + large, VersionOneZero, StatusOK, 1, large},
	}

	for _, tc := range testCases {
		t.Run("With "+tc.name, func(t *testing.T) {
			src := newSource(tc.input, false)
			r := NewResponseReader(src)

			require.Equal(t, tc.version, r.ReadVersion())
			status, err := r.ReadStatus()
			require.NoError(t, err)
			require.Equal(t, tc.status, status)
			require.Len(t, readHeaders(t, r.Reader), tc.headers)

			var body bytes.Buffer
			target := make([]byte, 1024)
			for {
				n := r.ReadBody(target)
				if n < 0 {
					break
				}
				body.Write(target[:n])
			}
			require.Equal(t, tc.body, body.String())
			require.NoError(t, r.Close())
			require.Equal(t, 1, src.closed)
		})
	}

	t.Run("With unsupported status code", func(t *testing.T) {
		r := NewResponseReader(newSource("HTTP/1.0 799 Whatever\r\n\r\n", false))
		require.Equal(t, VersionOneZero, r.ReadVersion())
		_, err := r.ReadStatus()
		require.ErrorIs(t, err, gerrors.ErrUnsupportedStatus)

		var unsupported *gerrors.UnsupportedStatusError
		require.True(t, errors.As(err, &unsupported))
		require.Equal(t, [3]byte{'7', '9', '9'}, unsupported.Digits)
		require.Contains(t, err.Error(), "799")
	})
	t.Run("With every supported status code", func(t *testing.T) {
		for status := StatusOK; status <= StatusInternalError; status++ {
			r := NewReader(newSource(status.String(), false))
			parsed, err := r.ReadStatus()
			require.NoError(t, err)
			require.Equal(t, status, parsed)
		}
	})
	t.Run("With truncated status", func(t *testing.T) {
		r := NewReader(newSource("20", false))
		_, err := r.ReadStatus()
		require.ErrorIs(t, err, gerrors.ErrFraming)
	})
	t.Run("With missing space after the version", func(t *testing.T) {
		r := NewResponseReader(newSource("HTTP/1.0\r\n", false))
		require.Equal(t, VersionError, r.ReadVersion())
	})
}

func TestReaderReset(t *testing.T) {
	first := newSource("HTTP/1.0 200 OK\r\n\r\n", false)
	r := NewResponseReader(first)
	require.Equal(t, VersionOneZero, r.ReadVersion())

	second := newSource("HTTP/1.1 201 Created\r\n\r\n", false)
	require.NoError(t, r.Reset(second))
	require.Equal(t, 1, first.closed)
	require.Zero(t, r.Buffered())

	require.Equal(t, VersionOneOne, r.ReadVersion())
	status, err := r.ReadStatus()
	require.NoError(t, err)
	require.Equal(t, StatusCreated, status)
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
	require.Equal(t, 1, second.closed)
}

func TestReadBodyAt(t *testing.T) {
	r := NewReader(newSource("abcdef", false))
	target := make([]byte, 8)
	require.Equal(t, 3, r.ReadBodyAt(target, 2, 3))
	require.Equal(t, "abc", string(target[2:5]))
	require.Equal(t, -1, r.ReadBodyAt(target, 6, 4))
	require.Zero(t, r.ReadBodyAt(target, 0, 0))
	require.Equal(t, 3, r.ReadBody(target))
	require.Equal(t, -1, r.ReadBody(target))
}
