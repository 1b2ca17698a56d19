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

package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	err := errors.New("something went wrong")
	panicErr := NewPanicError(err)
	require.EqualError(t, panicErr, "panic: something went wrong")
	assert.ErrorIs(t, panicErr, err)

	require.ErrorIs(t, NewErrNameTaken("echo"), ErrNameTaken)
	require.EqualError(t, NewErrNameTaken("echo"), "name=(echo) address name is already taken")
	require.ErrorIs(t, NewErrIllegalName("+1", nil), ErrIllegalName)

	reason := errors.New("too long")
	illegal := NewErrIllegalName("x", reason)
	require.ErrorIs(t, illegal, ErrIllegalName)
	require.ErrorIs(t, illegal, reason)

	require.ErrorIs(t, NewErrAddressNotFound("/echo"), ErrAddressNotFound)
	require.ErrorIs(t, NewErrActorRetired("+3"), ErrActorRetired)
	require.ErrorIs(t, NewErrMalformedInput(err), ErrMalformedInput)
	require.ErrorIs(t, NewErrInvalidConfig(err), ErrInvalidConfig)
}

func TestUnsupportedStatusError(t *testing.T) {
	err := &UnsupportedStatusError{Digits: [3]byte{'7', '9', '9'}}
	require.EqualError(t, err, "unsupported status code: 799")
	require.ErrorIs(t, err, ErrUnsupportedStatus)

	var target *UnsupportedStatusError
	require.True(t, errors.As(error(err), &target))
	require.Equal(t, byte('7'), target.Digits[0])
}
