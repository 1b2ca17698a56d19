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

package address

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/tochemey/mailhub/errors"
)

func TestAddress(t *testing.T) {
	t.Run("With unique address", func(t *testing.T) {
		resident := struct{}{}
		addr := NewUnique(42, resident)
		assert.Equal(t, UniqueKind, addr.Kind())
		assert.Equal(t, "+42", addr.String())
		assert.EqualValues(t, 42, addr.ID())
		assert.Empty(t, addr.Name())
		assert.True(t, addr.IsLocal())
		assert.Equal(t, resident, addr.Resident())
		assert.NoError(t, addr.Validate())
	})
	t.Run("With named address", func(t *testing.T) {
		addr := NewNamed("calculator", nil)
		assert.Equal(t, NamedKind, addr.Kind())
		assert.Equal(t, "/calculator", addr.String())
		assert.Equal(t, "calculator", addr.Name())
		assert.False(t, addr.IsLocal())
		assert.NoError(t, addr.Validate())
	})
	t.Run("With NoSender", func(t *testing.T) {
		assert.True(t, NoSender().IsNoSender())
		assert.Empty(t, NoSender().String())
		var nilAddr *Address
		assert.True(t, nilAddr.IsNoSender())
		assert.Equal(t, NoSenderKind, nilAddr.Kind())
		assert.False(t, nilAddr.Equals(NoSender()))
		assert.Equal(t, "nosender", NoSenderKind.String())
	})
	t.Run("With Equals ignoring residents", func(t *testing.T) {
		local := NewNamed("echo", struct{}{})
		parsed, err := Parse("/echo")
		require.NoError(t, err)
		assert.True(t, local.Equals(parsed))
		assert.False(t, local.Equals(NewNamed("other", nil)))
		assert.False(t, NewUnique(1, nil).Equals(NewUnique(2, nil)))
		assert.True(t, NewUnique(1, nil).Equals(NewUnique(1, struct{}{})))
	})
}

func TestParse(t *testing.T) {
	t.Run("With unique form", func(t *testing.T) {
		addr, err := Parse("+7")
		require.NoError(t, err)
		assert.Equal(t, UniqueKind, addr.Kind())
		assert.EqualValues(t, 7, addr.ID())
		assert.Nil(t, addr.Resident())
	})
	t.Run("With invalid forms", func(t *testing.T) {
		for _, text := range []string{"", "echo", "+", "+abc", "/", "/-bad", "/a b"} {
			_, err := Parse(text)
			assert.Error(t, err, text)
		}
	})
}

func TestValidateName(t *testing.T) {
	t.Run("With legal names", func(t *testing.T) {
		for _, name := range []string{"echo", "calc-1", "svc.users", "A_b"} {
			assert.NoError(t, ValidateName(name), name)
		}
	})
	t.Run("With illegal names", func(t *testing.T) {
		for _, name := range []string{"", "+1", "/echo", "-lead", "with space", strings.Repeat("a", MaxNameLength+1)} {
			err := ValidateName(name)
			assert.ErrorIs(t, err, gerrors.ErrIllegalName, name)
		}
	})
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "/echo", Normalize("echo"))
	assert.Equal(t, "/echo", Normalize("/echo"))
	assert.Equal(t, "+3", Normalize("+3"))
}
