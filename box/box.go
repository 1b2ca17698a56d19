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

// Package box parses and serializes the structured values carried in request
// and response bodies.
//
// A structured value is one of nil, bool, string, json.Number, []any or
// map[string]any. Numbers are kept as json.Number so that integers survive a
// round trip unchanged.
package box

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	gerrors "github.com/tochemey/mailhub/errors"
)

// ContentType is the media type of serialized values.
const ContentType = "application/json"

var api = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// Map is a structured object.
type Map = map[string]any

// List is a structured array.
type List = []any

// Parse reads src to the end and parses it. Empty input yields a nil value.
func Parse(src io.Reader) (any, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	return ParseBytes(data)
}

// ParseLimited reads at most limit bytes from src and parses them. It fails
// with ErrBodyTooLarge when src holds more.
func ParseLimited(src io.Reader, limit int64) (any, error) {
	data, err := io.ReadAll(io.LimitReader(src, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", gerrors.ErrBodyTooLarge, limit)
	}
	return ParseBytes(data)
}

// ParseBytes parses data. Empty input yields a nil value; anything that is not
// a single JSON value fails with ErrMalformedInput.
func ParseBytes(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	if !api.Valid(data) {
		return nil, gerrors.NewErrMalformedInput(errors.New("invalid JSON document"))
	}

	var value any
	if err := api.Unmarshal(data, &value); err != nil {
		return nil, gerrors.NewErrMalformedInput(err)
	}
	return value, nil
}

// Serialize encodes value. Map keys are sorted so equal values serialize to
// equal bytes.
func Serialize(value any) ([]byte, error) {
	return api.Marshal(value)
}

// Write encodes value into dst.
func Write(dst io.Writer, value any) error {
	data, err := Serialize(value)
	if err != nil {
		return err
	}
	_, err = dst.Write(data)
	return err
}

// Number wraps an integer as a structured number.
func Number(n int64) json.Number {
	return json.Number(strconv.FormatInt(n, 10))
}
