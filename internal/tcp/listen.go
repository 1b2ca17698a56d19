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

package tcp

import (
	"context"
	"net"
)

// ListenConfig carries the socket options applied to a listener before it
// is bound.
type ListenConfig struct {
	// ReusePort enables SO_REUSEPORT so several listeners share the port.
	ReusePort bool
	// DeferAccept enables TCP_DEFER_ACCEPT: connections are handed over
	// once the client has sent data.
	DeferAccept bool
}

// Listen opens a TCP listener on address with the configured socket
// options. Options unsupported by the platform are ignored.
func (c *ListenConfig) Listen(ctx context.Context, address string) (net.Listener, error) {
	network := "tcp"
	if addr, err := net.ResolveTCPAddr("tcp", address); err == nil {
		network = "tcp4"
		if IsIPv6Addr(addr) {
			network = "tcp6"
		}
	}

	lc := net.ListenConfig{Control: applyListenSocketOptions(c)}
	return lc.Listen(ctx, network, address)
}
