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

package server

import (
	"errors"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/tochemey/mailhub/actor"
	"github.com/tochemey/mailhub/box"
	gerrors "github.com/tochemey/mailhub/errors"
	"github.com/tochemey/mailhub/log"
	"github.com/tochemey/mailhub/wire"
)

// lingerTimeout bounds the wait for the peer to close once the response is
// written.
const lingerTimeout = 500 * time.Millisecond

// upperHalf owns one connection. Its start reads and dispatches the request;
// the reply it then receives is written as the response, after which the
// connection is closed and the actor retired.
type upperHalf struct {
	frontend *frontend
	conn     net.Conn
	logger   log.Logger

	readBuf  []byte
	writeBuf []byte
	line     []byte
	reader   *wire.RequestReader
	writer   *wire.ResponseWriter

	done bool
}

var _ actor.Starter = (*upperHalf)(nil)

func newUpperHalf(f *frontend, conn net.Conn) *upperHalf {
	limits := f.settings.limits
	x := &upperHalf{
		frontend: f,
		conn:     conn,
		logger:   f.settings.logger.With("connection", connID(conn)),
		readBuf:  f.buffers.Get(),
		writeBuf: f.buffers.Get(),
		line:     f.buffers.Get(),
	}
	x.reader = wire.NewRequestReader(conn, wire.WithLimits(limits), wire.WithBuffer(x.readBuf))
	x.writer = wire.NewResponseWriter(conn, wire.WithLimits(limits), wire.WithBuffer(x.writeBuf))
	return x
}

func (x *upperHalf) Start(ctx *actor.Context) error {
	req, err := actor.Await(ctx, x.readRequest)
	if err != nil {
		var reqErr *requestError
		if errors.As(err, &reqErr) {
			x.logger.Debugf("rejecting request with %s: %s", reqErr.status, reqErr.reason)
			x.respond(ctx, NewResponse(reqErr.status, errorBody(reqErr.reason)))
			return nil
		}
		x.logger.Debugf("dropping connection: %v", err)
		x.finish(ctx)
		return nil
	}

	x.logger.Debugf("%s %s", req.Method, req.URI)
	if resp := x.frontend.dispatch(ctx, req); resp != nil {
		x.respond(ctx, resp)
	}
	return nil
}

func (x *upperHalf) React(ctx *actor.Context, msg *actor.Message) error {
	if x.done {
		ctx.Unhandled()
		return nil
	}
	x.respond(ctx, responseOf(msg.Payload()))
	return nil
}

// responseOf turns the reply of a handler into a response.
func responseOf(payload any) *Response {
	switch p := payload.(type) {
	case *Response:
		if p == nil {
			return NewResponse(wire.StatusNoContent, nil)
		}
		return p
	case Response:
		return &p
	case error:
		return NewResponse(wire.StatusInternalError, errorBody(p.Error()))
	default:
		return NewResponse(wire.StatusOK, p)
	}
}

func (x *upperHalf) readRequest() (*Request, error) {
	r := x.reader
	method := r.ReadMethod()
	switch method {
	case wire.MethodError:
		return nil, errors.Join(gerrors.ErrFraming, io.ErrUnexpectedEOF, r.Err())
	case wire.MethodUnknown:
		return nil, &requestError{status: wire.StatusMethodNotAllowed, reason: "unsupported request method"}
	}

	n := r.ReadURI(x.line)
	if n <= 0 {
		return nil, badRequest("missing or oversized request URI")
	}
	uri := string(x.line[:n])

	version := r.ReadVersion()
	if version == wire.VersionError || version == wire.VersionUnknown {
		return nil, badRequest("illegal HTTP protocol version declaration")
	}

	header := make(Header)
	for {
		n := r.ReadHeaderField(x.line)
		if n == 0 {
			break
		}
		if n < 0 {
			return nil, badRequest("malformed header section")
		}
		name, value, ok := strings.Cut(string(x.line[:n]), ":")
		if !ok || name == "" {
			return nil, badRequest("malformed header field")
		}
		header.Set(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	body, err := x.readBody(method, header)
	if err != nil {
		return nil, err
	}

	return &Request{
		Method:  method,
		URI:     uri,
		Version: version,
		Header:  header,
		Body:    body,
	}, nil
}

// readBody parses the body delimited by Content-Length. Without it only
// POST and PUT carry a body, which then extends to the end of the input.
// Bodies larger than the configured limit are rejected.
func (x *upperHalf) readBody(method wire.Method, header Header) (any, error) {
	limit := x.frontend.settings.limits.BodyLimit()
	var src io.Reader = x.reader.StreamBody()
	if value := header.Get("Content-Length"); value != "" {
		length, err := strconv.ParseInt(value, 10, 64)
		if err != nil || length < 0 {
			return nil, badRequest("invalid Content-Length")
		}
		if length == 0 {
			return nil, nil
		}
		if length > limit {
			return nil, badRequest("request body too large")
		}
		src = io.LimitReader(src, length)
	} else if method != wire.MethodPost && method != wire.MethodPut {
		return nil, nil
	}

	body, err := box.ParseLimited(src, limit)
	switch {
	case err == nil:
		return body, nil
	case errors.Is(err, gerrors.ErrMalformedInput):
		return nil, badRequest("malformed request body")
	case errors.Is(err, gerrors.ErrBodyTooLarge):
		return nil, badRequest("request body too large")
	default:
		return nil, err
	}
}

func (x *upperHalf) respond(ctx *actor.Context, resp *Response) {
	x.done = true
	if _, err := actor.Await(ctx, func() (struct{}, error) {
		err := x.writeResponse(resp)
		x.linger()
		return struct{}{}, err
	}); err != nil {
		x.logger.Debugf("failed to write response: %v", err)
	}
	x.finish(ctx)
}

func (x *upperHalf) writeResponse(resp *Response) error {
	status := resp.Status
	var payload []byte
	if resp.Body != nil {
		serialized, err := box.Serialize(resp.Body)
		if err != nil {
			status = wire.StatusInternalError
			serialized, _ = box.Serialize(errorBody(err.Error()))
		}
		payload = serialized
	}

	w := x.writer
	_ = w.WriteVersion(wire.VersionOneZero)
	_ = w.WriteStatus(status)
	_ = w.WriteHeader("Server", x.frontend.settings.name)
	_ = w.WriteHeader("Content-Length", strconv.Itoa(len(payload)))
	if len(payload) > 0 {
		_ = w.WriteHeader("Content-Type", box.ContentType)
	}
	_ = w.StartBody()
	_ = w.WriteBody(payload)
	return w.Flush()
}

// linger half-closes the connection and discards the input left unread so
// that closing it does not reset the response in flight.
func (x *upperHalf) linger() {
	closer, ok := x.conn.(interface{ CloseWrite() error })
	if !ok || closer.CloseWrite() != nil {
		return
	}
	_ = x.conn.SetReadDeadline(time.Now().Add(lingerTimeout))
	_, _ = io.Copy(io.Discard, x.conn)
}

// finish closes the connection, recycles the buffers and frees the address
// of the actor.
func (x *upperHalf) finish(ctx *actor.Context) {
	x.done = true
	_ = x.writer.Close()
	_ = x.reader.Close()

	buffers := x.frontend.buffers
	buffers.Put(x.readBuf)
	buffers.Put(x.writeBuf)
	buffers.Put(x.line)
	x.readBuf, x.writeBuf, x.line = nil, nil, nil

	ctx.Actor().Retire()
}
