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
	"sync"

	gerrors "github.com/tochemey/mailhub/errors"
)

// maxConsecutiveEmptyReads guards against sources returning (0, nil) forever.
const maxConsecutiveEmptyReads = 100

// Reader parses the parts shared by requests and responses out of a
// fixed-size buffer refilled from its source on demand.
//
// A Reader is not safe for concurrent use.
type Reader struct {
	src    io.Reader
	buf    []byte
	pos    int
	limit  int
	err    error
	limits Limits

	closeOnce *sync.Once
	closeErr  error
}

// NewReader creates a Reader over src.
func NewReader(src io.Reader, opts ...Option) *Reader {
	config := newOptions(opts)
	return &Reader{
		src:       src,
		buf:       config.buf,
		limits:    config.limits,
		closeOnce: new(sync.Once),
	}
}

// Buffered returns the number of bytes read from the source and not yet
// consumed.
func (r *Reader) Buffered() int {
	return r.limit - r.pos
}

// Err returns the first error returned by the source, if any.
func (r *Reader) Err() error {
	return r.err
}

// ReadHeaderField copies the next header line, without its terminator, into
// target and returns the number of bytes copied. A line longer than target is
// truncated but consumed entirely. It returns 0 when the empty line ending the
// header section is next and -1 when no line terminator is found within the
// maximum header length.
func (r *Reader) ReadHeaderField(target []byte) int {
	if r.fill(2) < 2 {
		return -1
	}

	if r.buf[r.pos] == '\r' && r.buf[r.pos+1] == '\n' {
		r.pos += 2
		return 0
	}

	end := r.indexByte('\n', r.limits.MaxHeaderLength+2)
	if end < 1 || r.buf[r.pos+end-1] != '\r' {
		return -1
	}

	n := copy(target, r.buf[r.pos:r.pos+end-1])
	r.pos += end + 1
	return n
}

// ReadStatus parses the three digits of a status code. A code outside the
// supported set yields an *errors.UnsupportedStatusError naming the digits.
func (r *Reader) ReadStatus() (Status, error) {
	if r.fill(3) < 3 {
		return StatusInternalError, r.framingError("truncated status code")
	}

	digits := [3]byte{r.buf[r.pos], r.buf[r.pos+1], r.buf[r.pos+2]}
	r.pos += 3

	d0, d1, d2 := digits[0]-'0', digits[1]-'0', digits[2]-'0'
	unsupported := &gerrors.UnsupportedStatusError{Digits: digits}
	if d1 != 0 {
		return StatusInternalError, unsupported
	}

	switch d0 {
	case 2:
		switch d2 {
		case 0:
			return StatusOK, nil
		case 1:
			return StatusCreated, nil
		case 2:
			return StatusAccepted, nil
		case 4:
			return StatusNoContent, nil
		}
	case 3:
		if d2 == 2 {
			return StatusFound, nil
		}
	case 4:
		switch d2 {
		case 0:
			return StatusBadRequest, nil
		case 1:
			return StatusUnauthorized, nil
		case 3:
			return StatusForbidden, nil
		case 4:
			return StatusNotFound, nil
		case 5:
			return StatusMethodNotAllowed, nil
		case 6:
			return StatusNotAcceptable, nil
		case 8:
			return StatusRequestTimeout, nil
		case 9:
			return StatusConflict, nil
		}
	case 5:
		if d2 == 0 {
			return StatusInternalError, nil
		}
	}
	return StatusInternalError, unsupported
}

var versionPrefix = []byte("HTTP/1.")

// ReadVersion parses the HTTP/1.x token.
func (r *Reader) ReadVersion() Version {
	if r.fill(len(versionPrefix)+1) < len(versionPrefix)+1 {
		return VersionError
	}

	if !bytes.HasPrefix(r.buf[r.pos:r.limit], versionPrefix) {
		return VersionError
	}

	minor := r.buf[r.pos+len(versionPrefix)]
	r.pos += len(versionPrefix) + 1
	switch minor {
	case '0':
		return VersionOneZero
	case '1':
		return VersionOneOne
	default:
		return VersionUnknown
	}
}

// ReadSpace consumes a single space.
func (r *Reader) ReadSpace() bool {
	if r.fill(1) < 1 || r.buf[r.pos] != ' ' {
		return false
	}
	r.pos++
	return true
}

// ReadLF consumes a CRLF line terminator.
func (r *Reader) ReadLF() bool {
	if r.fill(2) < 2 || r.buf[r.pos] != '\r' || r.buf[r.pos+1] != '\n' {
		return false
	}
	r.pos += 2
	return true
}

// ReadBody copies buffered body bytes into target, refilling the buffer from
// the source when it is empty. It returns -1 once the source is exhausted.
func (r *Reader) ReadBody(target []byte) int {
	return r.ReadBodyAt(target, 0, len(target))
}

// ReadBodyAt is ReadBody writing at most length bytes at target[offset:].
func (r *Reader) ReadBodyAt(target []byte, offset, length int) int {
	if offset < 0 || length < 0 || offset+length > len(target) {
		return -1
	}
	if length == 0 {
		return 0
	}

	if r.fill(1) < 1 {
		return -1
	}
	n := copy(target[offset:offset+length], r.buf[r.pos:r.limit])
	r.pos += n
	return n
}

// StreamBody returns the rest of the input as a stream. Closing the stream
// closes the reader and its source.
func (r *Reader) StreamBody() io.ReadCloser {
	return &bodyStream{reader: r}
}

// Close closes the source when it is an io.Closer. It is safe to call Close
// more than once.
func (r *Reader) Close() error {
	r.closeOnce.Do(func() {
		if closer, ok := r.src.(io.Closer); ok {
			r.closeErr = closer.Close()
		}
	})
	return r.closeErr
}

// Reset closes the current source and makes the reader read from src with an
// empty buffer.
func (r *Reader) Reset(src io.Reader) error {
	err := r.Close()
	r.src = src
	r.pos, r.limit = 0, 0
	r.err = nil
	r.closeOnce = new(sync.Once)
	r.closeErr = nil
	return err
}

// fill makes at least n bytes available unless the source is exhausted or n
// exceeds the buffer. It returns the number of available bytes.
func (r *Reader) fill(n int) int {
	empty := 0
	for r.limit-r.pos < n && r.err == nil {
		if r.pos > 0 {
			r.limit = copy(r.buf, r.buf[r.pos:r.limit])
			r.pos = 0
		}
		if r.limit == len(r.buf) {
			break
		}

		read, err := r.src.Read(r.buf[r.limit:])
		r.limit += read
		if err != nil {
			r.err = err
			break
		}

		if read == 0 {
			if empty++; empty >= maxConsecutiveEmptyReads {
				r.err = io.ErrNoProgress
			}
			continue
		}
		empty = 0
	}
	return r.limit - r.pos
}

// indexByte returns the offset from the read position of the first c found
// within the next window bytes, refilling as needed, or -1.
func (r *Reader) indexByte(c byte, window int) int {
	searched := 0
	for {
		available := r.limit - r.pos
		if available > window {
			available = window
		}
		if i := bytes.IndexByte(r.buf[r.pos+searched:r.pos+available], c); i >= 0 {
			return searched + i
		}

		searched = available
		if searched >= window || r.fill(searched+1) <= searched {
			return -1
		}
	}
}

func (r *Reader) framingError(reason string) error {
	if r.err != nil && !errors.Is(r.err, io.EOF) {
		return errors.Join(gerrors.ErrFraming, errors.New(reason), r.err)
	}
	return errors.Join(gerrors.ErrFraming, errors.New(reason))
}

// bodyStream adapts the body reading of a Reader to io.ReadCloser.
type bodyStream struct {
	reader *Reader
}

func (s *bodyStream) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n := s.reader.ReadBody(p)
	if n < 0 {
		if err := s.reader.err; err != nil && !errors.Is(err, io.EOF) {
			return 0, err
		}
		return 0, io.EOF
	}
	return n, nil
}

func (s *bodyStream) Close() error {
	return s.reader.Close()
}
