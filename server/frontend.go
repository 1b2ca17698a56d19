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

	"github.com/tochemey/mailhub/actor"
	"github.com/tochemey/mailhub/internal/bufferpool"
)

// dispatchFunc routes a parsed request. It returns the response to write
// right away, or nil when the response is the reply of another actor.
type dispatchFunc func(ctx *actor.Context, req *Request) *Response

// frontend owns the TCPServer of an HTTP-speaking server and spawns an
// upper half actor for every accepted connection.
type frontend struct {
	*TCPServer

	hub      *actor.Hub
	settings *settings
	buffers  *bufferpool.BufferPool
	dispatch dispatchFunc
}

func newFrontend(hub *actor.Hub, addr string, dispatch dispatchFunc, opts ...Option) *frontend {
	config := newSettings(opts...)
	f := &frontend{
		hub:      hub,
		settings: config,
		buffers:  bufferpool.New(config.limits.BufferSize),
		dispatch: dispatch,
	}
	f.TCPServer = NewTCPServer(hub, addr, ChannelStrategyFunc(f.accept), opts...)
	return f
}

func (f *frontend) accept(conn net.Conn) (*actor.Actor, error) {
	return f.hub.Spawn(newUpperHalf(f, conn))
}
