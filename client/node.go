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

package client

import "go.uber.org/atomic"

// Node is a server the Client sends requests to.
type Node struct {
	address  string
	inflight atomic.Int64
}

// NewNode creates an instance of Node for a host:port address.
func NewNode(address string) *Node {
	return &Node{address: address}
}

// Address returns the host:port of the node.
func (n *Node) Address() string {
	return n.address
}

// Load returns the number of requests in flight on the node.
func (n *Node) Load() int64 {
	return n.inflight.Load()
}

func (n *Node) acquire() {
	n.inflight.Inc()
}

func (n *Node) release() {
	n.inflight.Dec()
}
