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
	"fmt"
)

var (
	// ErrNameTaken is returned when a named address is requested for a name
	// that is already bound in the hub.
	ErrNameTaken = errors.New("address name is already taken")

	// ErrIllegalName is returned when a requested address name is empty, too long,
	// carries an address sigil or contains characters outside the allowed set.
	ErrIllegalName = errors.New("illegal address name")

	// ErrRecipientRequired is returned when a message is sent without a recipient.
	ErrRecipientRequired = errors.New("recipient address is required")

	// ErrMessageRequired is returned when a nil message is sent.
	ErrMessageRequired = errors.New("message is required")

	// ErrBehaviorRequired is returned when an actor is spawned without a behavior.
	ErrBehaviorRequired = errors.New("actor behavior is required")

	// ErrAddressNotFound is returned when an address cannot be resolved to a live actor.
	ErrAddressNotFound = errors.New("address not found")

	// ErrActorRetired is returned when the resident of an address has been retired.
	ErrActorRetired = errors.New("actor is retired")

	// ErrForeignAddress is returned when an operation requires a hub-allocated address.
	ErrForeignAddress = errors.New("address is not owned by this hub")

	// ErrHubNotStarted is returned when the hub is used before Start.
	ErrHubNotStarted = errors.New("hub has not started")

	// ErrHubStopped is returned when the hub is used after Stop.
	ErrHubStopped = errors.New("hub is stopped")

	// ErrActorAlreadyStarted is returned when start is requested twice for the same actor.
	ErrActorAlreadyStarted = errors.New("actor is already started")

	// ErrNotAwaitable is returned when a blocking primitive is used outside of a callback.
	ErrNotAwaitable = errors.New("blocking primitives are only available inside an actor callback")

	// ErrAwaitInterrupted is returned when a blocking wait is interrupted by the hub shutdown.
	ErrAwaitInterrupted = errors.New("await interrupted")

	// ErrUnsupportedStatus is returned when a status line carries a code outside the closed set.
	ErrUnsupportedStatus = errors.New("unsupported status code")

	// ErrMalformedInput is returned when a message body cannot be parsed.
	ErrMalformedInput = errors.New("malformed input")

	// ErrFraming is returned when the wire framing is broken: a line or URI exceeds
	// its bound or a mandatory terminator is missing.
	ErrFraming = errors.New("framing error")

	// ErrNoHandler is returned when no handler is registered for a request.
	ErrNoHandler = errors.New("no handler registered")

	// ErrInvalidConfig is returned when a configuration fails validation.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrServerNotStarted is returned when a server is stopped before being started.
	ErrServerNotStarted = errors.New("server has not started")

	// ErrBodyTooLarge is returned when a body exceeds its configured bound.
	ErrBodyTooLarge = errors.New("body too large")
)

// NewErrNameTaken formats an ErrNameTaken with the given name.
func NewErrNameTaken(name string) error {
	return fmt.Errorf("name=(%s) %w", name, ErrNameTaken)
}

// NewErrIllegalName formats an ErrIllegalName with the given name and reason.
func NewErrIllegalName(name string, reason error) error {
	if reason == nil {
		return fmt.Errorf("name=(%s) %w", name, ErrIllegalName)
	}
	return fmt.Errorf("name=(%s) %w: %w", name, ErrIllegalName, reason)
}

// NewErrAddressNotFound formats an ErrAddressNotFound with the given address.
func NewErrAddressNotFound(addr string) error {
	return fmt.Errorf("(address=%s) %w", addr, ErrAddressNotFound)
}

// NewErrActorRetired formats an ErrActorRetired with the given address.
func NewErrActorRetired(addr string) error {
	return fmt.Errorf("(address=%s) %w", addr, ErrActorRetired)
}

// NewErrMalformedInput wraps a parser error with ErrMalformedInput.
func NewErrMalformedInput(err error) error {
	return errors.Join(ErrMalformedInput, err)
}

// NewErrInvalidConfig wraps a validation error with ErrInvalidConfig.
func NewErrInvalidConfig(err error) error {
	return errors.Join(ErrInvalidConfig, err)
}

// PanicError defines the panic error
// wrapping the underlying error
type PanicError struct {
	err error
}

// enforce compilation error
var _ error = (*PanicError)(nil)

// NewPanicError creates an instance of PanicError
func NewPanicError(err error) *PanicError {
	return &PanicError{err}
}

// Error implements the standard error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.err)
}

func (e *PanicError) Unwrap() error {
	return e.err
}

// UnsupportedStatusError names the three digits of a status code that
// is not part of the supported set.
type UnsupportedStatusError struct {
	Digits [3]byte
}

// enforce compilation error
var _ error = (*UnsupportedStatusError)(nil)

// Error implements the standard error interface
func (e *UnsupportedStatusError) Error() string {
	return fmt.Sprintf("%s: %c%c%c", ErrUnsupportedStatus.Error(), e.Digits[0], e.Digits[1], e.Digits[2])
}

// Unwrap makes errors.Is(err, ErrUnsupportedStatus) hold.
func (e *UnsupportedStatusError) Unwrap() error {
	return ErrUnsupportedStatus
}
