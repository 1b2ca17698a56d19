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
	"net/url"
	"strings"

	"github.com/tochemey/mailhub/box"
	"github.com/tochemey/mailhub/wire"
)

// Header holds request header fields keyed by their lower-cased name.
type Header map[string]string

// Get returns the value of the named field, matched case-insensitively.
func (h Header) Get(name string) string {
	return h[strings.ToLower(name)]
}

// Set stores a field, replacing any previous value.
func (h Header) Set(name, value string) {
	h[strings.ToLower(name)] = value
}

// Request is the message an HTTPServer sends to the handler of a route.
// Replies to it, with the request's reply-to as recipient, become the HTTP
// response.
type Request struct {
	Method  wire.Method
	URI     string
	Version wire.Version
	Header  Header
	// Body is the parsed JSON body, nil when the request has none.
	Body any
}

// Path returns the URI without its query.
func (r *Request) Path() string {
	path, _, _ := strings.Cut(r.URI, "?")
	return path
}

// Query returns the parsed query of the URI. Malformed pairs are dropped.
func (r *Request) Query() url.Values {
	_, query, _ := strings.Cut(r.URI, "?")
	values, _ := url.ParseQuery(query)
	return values
}

// Response is the reply a handler sends to set the status of the HTTP
// response. Replying with any other payload yields 200 OK with the payload
// as body.
type Response struct {
	Status wire.Status
	Body   any
}

// NewResponse creates a Response.
func NewResponse(status wire.Status, body any) *Response {
	return &Response{Status: status, Body: body}
}

// errorBody is the JSON body of the responses produced by the servers.
func errorBody(reason string) box.Map {
	return box.Map{"error": reason}
}

// requestError is a request the upper half rejects with status.
type requestError struct {
	status wire.Status
	reason string
}

func (e *requestError) Error() string {
	return e.reason
}

func badRequest(reason string) error {
	return &requestError{status: wire.StatusBadRequest, reason: reason}
}
