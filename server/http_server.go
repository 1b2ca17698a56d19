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
	"regexp"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/tochemey/mailhub/actor"
	"github.com/tochemey/mailhub/address"
	gerrors "github.com/tochemey/mailhub/errors"
	"github.com/tochemey/mailhub/wire"
)

// route binds a path pattern and a set of methods to a handler.
type route struct {
	pattern *regexp.Regexp
	handler *address.Address
	methods mapset.Set[wire.Method]
}

func (r *route) matches(method wire.Method, path string) bool {
	return r.methods.Contains(method) && r.pattern.MatchString(path)
}

// HTTPServer serves HTTP requests on behalf of handler actors. Every
// connection is owned by an upper half actor that parses the request and
// sends a *Request to the handler of the first matching route. The reply of
// the handler is written as the response.
type HTTPServer struct {
	*frontend

	mu     sync.RWMutex
	routes []*route
}

// NewHTTPServer creates an HTTPServer listening on addr once started.
func NewHTTPServer(hub *actor.Hub, addr string, opts ...Option) *HTTPServer {
	s := &HTTPServer{}
	s.frontend = newFrontend(hub, addr, s.dispatch, opts...)
	return s
}

// RegisterHandler routes the requests whose path fully matches pattern and
// whose method is one of methods to handler. Without methods the route
// accepts every method. Routes are matched in registration order.
func (s *HTTPServer) RegisterHandler(pattern string, handler *address.Address, methods ...wire.Method) error {
	if handler == nil || handler.IsNoSender() {
		return gerrors.ErrRecipientRequired
	}

	compiled, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return fmt.Errorf("invalid route pattern %q: %w", pattern, err)
	}

	set := mapset.NewSet[wire.Method]()
	for _, method := range methods {
		if !method.IsValid() {
			return fmt.Errorf("invalid route method %s", method)
		}
		set.Add(method)
	}
	if set.Cardinality() == 0 {
		set.Append(wire.MethodGet, wire.MethodPost, wire.MethodPut, wire.MethodHead,
			wire.MethodDelete, wire.MethodTrace, wire.MethodConnect)
	}

	s.mu.Lock()
	s.routes = append(s.routes, &route{pattern: compiled, handler: handler, methods: set})
	s.mu.Unlock()
	return nil
}

// FindHandler returns the handler of the first route matching method and
// path.
func (s *HTTPServer) FindHandler(method wire.Method, path string) (*address.Address, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.routes {
		if r.matches(method, path) {
			return r.handler, true
		}
	}
	return nil, false
}

func (s *HTTPServer) dispatch(ctx *actor.Context, req *Request) *Response {
	path := req.Path()
	handler, ok := s.FindHandler(req.Method, path)
	if !ok {
		return NewResponse(wire.StatusNotFound, errorBody("no handler for path "+path))
	}

	if err := ctx.Send(actor.NewMessage(req), handler); err != nil {
		if errors.Is(err, gerrors.ErrAddressNotFound) || errors.Is(err, gerrors.ErrActorRetired) {
			return NewResponse(wire.StatusNotFound, errorBody("no handler for path "+path))
		}
		return NewResponse(wire.StatusInternalError, errorBody(err.Error()))
	}
	return nil
}
