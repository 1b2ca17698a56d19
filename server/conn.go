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
	"net"
	"sync"

	"github.com/google/uuid"
)

// conn is an accepted connection tracked by its TCPServer until closed.
type conn struct {
	net.Conn
	id       string
	server   *TCPServer
	once     sync.Once
	closeErr error
}

func newConn(raw net.Conn, server *TCPServer) *conn {
	return &conn{
		Conn:   raw,
		id:     uuid.NewString(),
		server: server,
	}
}

// ID returns the identifier used to correlate the log entries of the
// connection.
func (c *conn) ID() string {
	return c.id
}

// CloseWrite shuts down the writing side of the connection when the
// underlying connection supports it.
func (c *conn) CloseWrite() error {
	if closer, ok := c.Conn.(interface{ CloseWrite() error }); ok {
		return closer.CloseWrite()
	}
	return nil
}

// Close closes the underlying connection once and stops tracking it.
func (c *conn) Close() error {
	c.once.Do(func() {
		c.closeErr = c.Conn.Close()
		c.server.untrack(c)
	})
	return c.closeErr
}

// connID returns the identifier of c when it was accepted by a TCPServer.
func connID(c net.Conn) string {
	if tracked, ok := c.(*conn); ok {
		return tracked.id
	}
	return c.RemoteAddr().String()
}
