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

package box

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/tochemey/mailhub/errors"
)

func TestParse(t *testing.T) {
	t.Run("With structured values", func(t *testing.T) {
		value, err := Parse(strings.NewReader(`{"name":"mailhub","tags":["a","b"],"count":3,"ratio":0.5,"ok":true,"none":null}`))
		require.NoError(t, err)

		expected := Map{
			"name":  "mailhub",
			"tags":  List{"a", "b"},
			"count": json.Number("3"),
			"ratio": json.Number("0.5"),
			"ok":    true,
			"none":  nil,
		}
		require.Equal(t, expected, value)
	})
	t.Run("With empty input", func(t *testing.T) {
		value, err := ParseBytes([]byte(" \r\n"))
		require.NoError(t, err)
		require.Nil(t, value)
	})
	t.Run("With an empty object and a list", func(t *testing.T) {
		value, err := ParseBytes([]byte(`{}`))
		require.NoError(t, err)
		require.Equal(t, Map{}, value)

		value, err = ParseBytes([]byte(`[1,2]`))
		require.NoError(t, err)
		require.Equal(t, List{Number(1), Number(2)}, value)
	})
	t.Run("With malformed input", func(t *testing.T) {
		for _, input := range []string{`{"a":`, `[1,2]]`, `nope`, `{} {}`} {
			_, err := ParseBytes([]byte(input))
			assert.ErrorIs(t, err, gerrors.ErrMalformedInput, "input %q", input)
		}
	})
	t.Run("With failing source", func(t *testing.T) {
		boom := errors.New("connection reset")
		_, err := Parse(iotest.ErrReader(boom))
		require.ErrorIs(t, err, boom)
	})
}

func TestParseLimited(t *testing.T) {
	t.Run("With a body within the limit", func(t *testing.T) {
		value, err := ParseLimited(strings.NewReader(`{"a":1}`), 7)
		require.NoError(t, err)
		assert.Equal(t, Map{"a": json.Number("1")}, value)
	})
	t.Run("With a body over the limit", func(t *testing.T) {
		_, err := ParseLimited(strings.NewReader(`{"a":12}`), 7)
		require.ErrorIs(t, err, gerrors.ErrBodyTooLarge)
	})
	t.Run("With empty input", func(t *testing.T) {
		value, err := ParseLimited(strings.NewReader(""), 0)
		require.NoError(t, err)
		assert.Nil(t, value)
	})
}

func TestSerialize(t *testing.T) {
	t.Run("With sorted keys and unescaped html", func(t *testing.T) {
		data, err := Serialize(Map{"b": List{Number(1), "<x>"}, "a": true})
		require.NoError(t, err)
		require.Equal(t, `{"a":true,"b":[1,"<x>"]}`, string(data))
	})
	t.Run("With a round trip", func(t *testing.T) {
		original := Map{"id": Number(42), "items": List{"x", Map{"nested": nil}}}
		var sb strings.Builder
		require.NoError(t, Write(&sb, original))

		parsed, err := Parse(strings.NewReader(sb.String()))
		require.NoError(t, err)
		require.Equal(t, original, parsed)
	})
	t.Run("With unsupported value", func(t *testing.T) {
		_, err := Serialize(make(chan int))
		require.Error(t, err)
	})
}
