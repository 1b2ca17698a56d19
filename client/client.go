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

// Package client sends HTTP/1.0 requests to the servers of a hub, one
// connection per request.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/flowchartsman/retry"

	"github.com/tochemey/mailhub/box"
	gerrors "github.com/tochemey/mailhub/errors"
	"github.com/tochemey/mailhub/wire"
)

const (
	// DefaultRetries is the number of dial retries.
	DefaultRetries = 3
	// DefaultTimeout bounds an exchange.
	DefaultTimeout = 10 * time.Second
	// DefaultUserAgent is sent in the User-Agent header.
	DefaultUserAgent = "mailhub-client"
)

// Response is a response read by the Client.
type Response struct {
	Status wire.Status
	// Header holds the header fields keyed by their name as sent.
	Header map[string]string
	// Body is the parsed JSON body, nil when the response has none.
	Body any
}

// StatusError is returned by Send when the gateway does not accept the
// message.
type StatusError struct {
	Status wire.Status
	Body   any
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %s", e.Status)
}

// Client sends requests to a pool of nodes. Every exchange uses a fresh
// connection which the server closes after responding. A Client is safe for
// concurrent use.
type Client struct {
	nodes        []*Node
	strategy     BalancerStrategy
	balancer     Balancer
	retries      int
	initialDelay time.Duration
	maxDelay     time.Duration
	timeout      time.Duration
	limits       wire.Limits
	userAgent    string
	dialer       net.Dialer
}

// New creates a Client for the given host:port addresses.
func New(addresses []string, opts ...Option) (*Client, error) {
	if len(addresses) == 0 {
		return nil, errors.New("at least one node address is required")
	}

	nodes := make([]*Node, 0, len(addresses))
	for _, addr := range addresses {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			return nil, fmt.Errorf("invalid node address %q: %w", addr, err)
		}
		nodes = append(nodes, NewNode(addr))
	}

	client := &Client{
		nodes:        nodes,
		strategy:     RoundRobinStrategy,
		retries:      DefaultRetries,
		initialDelay: 50 * time.Millisecond,
		maxDelay:     time.Second,
		timeout:      DefaultTimeout,
		limits:       wire.DefaultLimits(),
		userAgent:    DefaultUserAgent,
	}

	for _, opt := range opts {
		opt.Apply(client)
	}

	client.balancer = newBalancer(client.strategy)
	client.balancer.Set(client.nodes...)
	return client, nil
}

// Nodes returns the nodes of the pool.
func (x *Client) Nodes() []*Node {
	return x.nodes
}

// Get sends a GET request.
func (x *Client) Get(ctx context.Context, uri string) (*Response, error) {
	return x.Do(ctx, wire.MethodGet, uri, nil)
}

// Post sends a POST request with body serialized as JSON.
func (x *Client) Post(ctx context.Context, uri string, body any) (*Response, error) {
	return x.Do(ctx, wire.MethodPost, uri, body)
}

// Send posts payload to the gateway for delivery to the actor named by
// recipient, in its externalized form or as a bare name.
func (x *Client) Send(ctx context.Context, recipient string, payload any) error {
	if recipient == "" {
		return gerrors.ErrRecipientRequired
	}

	uri := recipient
	if !strings.HasPrefix(uri, "/") {
		uri = "/" + uri
	}

	resp, err := x.Post(ctx, uri, payload)
	if err != nil {
		return err
	}
	if resp.Status != wire.StatusAccepted {
		return &StatusError{Status: resp.Status, Body: resp.Body}
	}
	return nil
}

// Do sends a request with body serialized as JSON, a nil body sending none,
// and reads the response.
func (x *Client) Do(ctx context.Context, method wire.Method, uri string, body any) (*Response, error) {
	if !method.IsValid() {
		return nil, fmt.Errorf("invalid method %s", method)
	}

	var payload []byte
	if body != nil {
		serialized, err := box.Serialize(body)
		if err != nil {
			return nil, err
		}
		payload = serialized
	}

	node := x.balancer.Next()
	if node == nil {
		return nil, errors.New("no node available")
	}
	node.acquire()
	defer node.release()

	ctx, cancel := context.WithTimeout(ctx, x.timeout)
	defer cancel()

	conn, err := x.dial(ctx, node.Address())
	if err != nil {
		return nil, err
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	writer := wire.NewRequestWriter(conn, wire.WithLimits(x.limits))
	reader := wire.NewResponseReader(conn, wire.WithLimits(x.limits))
	defer reader.Close()

	if err := x.writeRequest(writer, node.Address(), method, uri, payload); err != nil {
		return nil, err
	}
	return x.readResponse(reader)
}

func (x *Client) dial(ctx context.Context, addr string) (net.Conn, error) {
	var conn net.Conn
	retrier := retry.NewRetrier(x.retries+1, x.initialDelay, x.maxDelay)
	err := retrier.RunContext(ctx, func(ctx context.Context) error {
		var err error
		conn, err = x.dialer.DialContext(ctx, "tcp", addr)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	return conn, nil
}

func (x *Client) writeRequest(w *wire.RequestWriter, host string, method wire.Method, uri string, payload []byte) error {
	if err := w.WriteMethod(method); err != nil {
		return err
	}
	_ = w.WriteURI(uri)
	_ = w.WriteVersion(wire.VersionOneZero)
	_ = w.WriteHeader("Host", host)
	_ = w.WriteHeader("User-Agent", x.userAgent)
	if payload != nil {
		_ = w.WriteHeader("Content-Type", box.ContentType)
	}
	if payload != nil || method == wire.MethodPost || method == wire.MethodPut {
		_ = w.WriteHeader("Content-Length", strconv.Itoa(len(payload)))
	}
	_ = w.StartBody()
	_ = w.WriteBody(payload)
	return w.Flush()
}

func (x *Client) readResponse(r *wire.ResponseReader) (*Response, error) {
	if version := r.ReadVersion(); version == wire.VersionError {
		return nil, readError(r, "malformed status line")
	}

	status, err := r.ReadStatus()
	if err != nil {
		return nil, err
	}

	header := make(map[string]string)
	line := make([]byte, x.limits.MaxHeaderLength)
	for {
		n := r.ReadHeaderField(line)
		if n == 0 {
			break
		}
		if n < 0 {
			return nil, readError(r, "malformed header section")
		}
		name, value, ok := strings.Cut(string(line[:n]), ":")
		if !ok {
			return nil, readError(r, "malformed header field")
		}
		header[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}

	var src io.Reader = r.StreamBody()
	if value, ok := header["Content-Length"]; ok {
		length, err := strconv.ParseInt(value, 10, 64)
		if err != nil || length < 0 {
			return nil, readError(r, "invalid Content-Length")
		}
		if length > x.limits.BodyLimit() {
			return nil, readError(r, "response body too large")
		}
		src = io.LimitReader(src, length)
	}

	body, err := box.ParseLimited(src, x.limits.BodyLimit())
	if err != nil {
		return nil, err
	}
	return &Response{Status: status, Header: header, Body: body}, nil
}

func readError(r *wire.ResponseReader, reason string) error {
	return errors.Join(gerrors.ErrFraming, errors.New(reason), r.Err())
}
