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
	"fmt"
	"strings"

	"github.com/tochemey/mailhub/actor"
	"github.com/tochemey/mailhub/address"
	"github.com/tochemey/mailhub/box"
	gerrors "github.com/tochemey/mailhub/errors"
	"github.com/tochemey/mailhub/wire"
)

// DefaultGatewayPort is the port the gateway of hubd listens on by default.
const DefaultGatewayPort = 4567

// Gateway exposes the address space of a hub over HTTP. A POST or PUT to
// /<name> or /+<id> delivers the JSON body as a message to the addressed
// actor and is answered with 202 Accepted. The message has no sender.
type Gateway struct {
	*frontend
}

// NewGateway creates a Gateway listening on addr once started.
func NewGateway(hub *actor.Hub, addr string, opts ...Option) *Gateway {
	g := &Gateway{}
	g.frontend = newFrontend(hub, addr, g.dispatch, opts...)
	return g
}

// Resolve maps a request path to the address it names.
func (g *Gateway) Resolve(path string) (*address.Address, bool) {
	target := strings.TrimPrefix(path, "/")
	if target == "" {
		return nil, false
	}

	if strings.HasPrefix(target, address.UniquePrefix) {
		addr, err := address.Parse(target)
		if err != nil {
			return nil, false
		}
		return addr, true
	}
	return g.hub.Lookup(target)
}

func (g *Gateway) dispatch(_ *actor.Context, req *Request) *Response {
	if req.Method != wire.MethodPost && req.Method != wire.MethodPut {
		return NewResponse(wire.StatusMethodNotAllowed, errorBody("messages are posted with POST or PUT"))
	}

	path := req.Path()
	recipient, ok := g.Resolve(path)
	if !ok {
		return NewResponse(wire.StatusNotFound, errorBody("no such actor "+path))
	}

	if err := g.hub.Send(actor.NewMessage(req.Body), recipient); err != nil {
		if errors.Is(err, gerrors.ErrAddressNotFound) || errors.Is(err, gerrors.ErrActorRetired) {
			return NewResponse(wire.StatusNotFound, errorBody("no such actor "+path))
		}
		return NewResponse(wire.StatusInternalError, errorBody(err.Error()))
	}

	return NewResponse(wire.StatusAccepted, box.Map{
		"status":    "accepted",
		"recipient": recipient.String(),
		"message":   fmt.Sprintf("message to %s accepted", recipient),
	})
}
