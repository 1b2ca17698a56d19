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

package actor

import (
	"context"
	"time"

	"go.uber.org/atomic"

	"github.com/tochemey/mailhub/address"
	gerrors "github.com/tochemey/mailhub/errors"
	"github.com/tochemey/mailhub/log"
)

// Context is handed to Start and React. It is only valid for the duration of
// the callback it was created for: the blocking primitives refuse to run once
// the callback has returned.
type Context struct {
	actor   *Actor
	message *Message
	active  atomic.Bool
}

func newContext(actor *Actor, message *Message) *Context {
	ctx := &Context{actor: actor, message: message}
	ctx.active.Store(true)
	return ctx
}

func (c *Context) release() {
	c.active.Store(false)
}

// Self returns the unique address of the running actor.
func (c *Context) Self() *address.Address {
	return c.actor.self
}

// Actor returns the running actor.
func (c *Context) Actor() *Actor {
	return c.actor
}

// Hub returns the hub of the running actor.
func (c *Context) Hub() *Hub {
	return c.actor.hub
}

// Message returns the message being reacted to, or nil inside Start.
func (c *Context) Message() *Message {
	return c.message
}

// Context returns a context.Context canceled when the hub stops.
func (c *Context) Context() context.Context {
	return c.actor.hub.ctx
}

// Logger returns the hub logger annotated with the actor address.
func (c *Context) Logger() log.Logger {
	return c.actor.logger.With("address", c.actor.self.String())
}

// Send delivers msg to the given recipient with the running actor as sender.
// It never blocks.
func (c *Context) Send(msg *Message, to *address.Address) error {
	return c.actor.Send(msg, to)
}

// Forward relays msg to the given recipient keeping its reply-to.
func (c *Context) Forward(msg *Message, to *address.Address) error {
	return c.actor.Forward(msg, to)
}

// Tell sends payload to the given recipient.
func (c *Context) Tell(to *address.Address, payload any) error {
	return c.actor.Send(NewMessage(payload), to)
}

// Reply sends payload to the reply-to address of the message being reacted to.
func (c *Context) Reply(payload any) error {
	if c.message == nil {
		return gerrors.ErrRecipientRequired
	}
	return c.actor.Send(NewMessage(payload), c.message.ReplyTo())
}

// Unhandled records the message being reacted to as a deadletter.
func (c *Context) Unhandled() {
	if c.message != nil {
		c.actor.hub.deadletter(c.message, c.actor.self)
	}
}

// AwaitTimeout sleeps for d without holding a parallelism slot. It returns
// ErrAwaitInterrupted when the hub stops first.
func (c *Context) AwaitTimeout(d time.Duration) error {
	if !c.active.Load() {
		return gerrors.ErrNotAwaitable
	}

	var err error
	c.actor.hub.pool.Block(func() {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-c.actor.hub.ctx.Done():
			err = gerrors.ErrAwaitInterrupted
		}
	})
	return err
}

// AwaitMessage suspends the running callback until the next message for this
// actor arrives and returns it. Messages are handed over in mailbox order and
// none is dropped; they are not reacted to separately. The boolean is false
// when the wait is interrupted by ctx or by the hub stopping, which is an
// ordinary outcome rather than a fault.
func (c *Context) AwaitMessage(ctx context.Context) (*Message, bool) {
	if !c.active.Load() {
		return nil, false
	}

	a := c.actor
	for {
		if msg, ok := a.popMessage(); ok {
			return msg, true
		}

		a.awaiting.Store(true)
		if !a.mailbox.IsEmpty() {
			a.awaiting.Store(false)
			continue
		}

		interrupted := false
		a.hub.pool.Block(func() {
			select {
			case <-a.wake:
			case <-ctx.Done():
				interrupted = true
			case <-a.hub.ctx.Done():
				interrupted = true
			}
		})
		a.awaiting.Store(false)

		if interrupted {
			return nil, false
		}
	}
}

// Await runs fn without holding a parallelism slot and returns its result.
// The error returned by fn is propagated unchanged; a panic in fn is returned
// as a PanicError. Await must only be called from inside Start or React.
func Await[T any](ctx *Context, fn func() (T, error)) (T, error) {
	var (
		result T
		err    error
	)

	if !ctx.active.Load() {
		return result, gerrors.ErrNotAwaitable
	}

	ctx.actor.hub.pool.Block(func() {
		err = guard(func() error {
			var fnErr error
			result, fnErr = fn()
			return fnErr
		})
	})
	return result, err
}
