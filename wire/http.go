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

// Package wire implements the incremental readers and writers of the
// HTTP/1.0-like protocol spoken by the servers.
//
// Readers and writers operate on a fixed-size buffer owned by a single
// connection. They are driven by the caller in protocol order and report
// malformed input through sentinel values (MethodError, VersionError, -1
// byte counts) or typed errors rather than panics.
package wire

import "strconv"

// Method is a request method.
type Method int

const (
	MethodGet Method = iota
	MethodPost
	MethodPut
	MethodHead
	MethodDelete
	MethodTrace
	MethodConnect
	// MethodUnknown is returned for a well-formed but unrecognized verb.
	MethodUnknown
	// MethodError is returned when the request line is truncated or unreadable.
	MethodError
)

var methodTokens = [...]string{
	MethodGet:     "GET",
	MethodPost:    "POST",
	MethodPut:     "PUT",
	MethodHead:    "HEAD",
	MethodDelete:  "DELETE",
	MethodTrace:   "TRACE",
	MethodConnect: "CONNECT",
	MethodUnknown: "UNKNOWN",
	MethodError:   "ERROR",
}

// String returns the request line token of the method.
func (m Method) String() string {
	if m < 0 || int(m) >= len(methodTokens) {
		return "Method(" + strconv.Itoa(int(m)) + ")"
	}
	return methodTokens[m]
}

// IsValid reports whether m is a concrete method.
func (m Method) IsValid() bool {
	return m >= MethodGet && m < MethodUnknown
}

// ParseMethod returns the method named by token, or MethodUnknown.
func ParseMethod(token string) Method {
	for m := MethodGet; m < MethodUnknown; m++ {
		if methodTokens[m] == token {
			return m
		}
	}
	return MethodUnknown
}

// Version is a protocol version.
type Version int

const (
	VersionOneZero Version = iota
	VersionOneOne
	// VersionUnknown is returned when the minor version is not 0 or 1.
	VersionUnknown
	// VersionError is returned when the version token is missing or malformed.
	VersionError
)

// String returns the version token. Unknown and erroneous versions are
// written as HTTP/1.0.
func (v Version) String() string {
	if v == VersionOneOne {
		return "HTTP/1.1"
	}
	return "HTTP/1.0"
}

// Status is a response status from the supported set.
type Status int

const (
	StatusOK Status = iota
	StatusCreated
	StatusAccepted
	StatusNoContent
	StatusFound
	StatusBadRequest
	StatusUnauthorized
	StatusForbidden
	StatusNotFound
	StatusMethodNotAllowed
	StatusNotAcceptable
	StatusRequestTimeout
	StatusConflict
	StatusInternalError
)

type statusLine struct {
	code int
	text string
}

var statusLines = [...]statusLine{
	StatusOK:               {200, "OK"},
	StatusCreated:          {201, "Created"},
	StatusAccepted:         {202, "Accepted"},
	StatusNoContent:        {204, "No Content"},
	StatusFound:            {302, "Found"},
	StatusBadRequest:       {400, "Bad Request"},
	StatusUnauthorized:     {401, "Unauthorized"},
	StatusForbidden:        {403, "Forbidden"},
	StatusNotFound:         {404, "Not Found"},
	StatusMethodNotAllowed: {405, "Method Not Allowed"},
	StatusNotAcceptable:    {406, "Not Acceptable"},
	StatusRequestTimeout:   {408, "Request Timeout"},
	StatusConflict:         {409, "Conflict"},
	StatusInternalError:    {500, "Internal Server Error"},
}

// Code returns the three digit code of the status.
func (s Status) Code() int {
	if s < 0 || int(s) >= len(statusLines) {
		return 500
	}
	return statusLines[s].code
}

// Text returns the reason phrase of the status.
func (s Status) Text() string {
	if s < 0 || int(s) >= len(statusLines) {
		return statusLines[StatusInternalError].text
	}
	return statusLines[s].text
}

// String returns the code followed by the reason phrase.
func (s Status) String() string {
	return strconv.Itoa(s.Code()) + " " + s.Text()
}

// StatusFromCode maps a numeric code to its Status. Codes outside the
// supported set map to StatusInternalError and false.
func StatusFromCode(code int) (Status, bool) {
	for s := range statusLines {
		if statusLines[s].code == code {
			return Status(s), true
		}
	}
	return StatusInternalError, false
}
