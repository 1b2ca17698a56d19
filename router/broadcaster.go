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

package router

import (
	"github.com/tochemey/mailhub/actor"
)

// Broadcaster forwards each message to every member returned by its
// MulticastStrategy, keeping the reply-to of the message.
type Broadcaster struct {
	strategy MulticastStrategy
	settings *settings
}

var (
	_ actor.Behavior = (*Broadcaster)(nil)
	_ actor.Starter  = (*Broadcaster)(nil)
)

// NewBroadcaster creates a Broadcaster. A nil strategy forwards to an empty
// pool.
func NewBroadcaster(strategy MulticastStrategy, opts ...Option) *Broadcaster {
	if strategy == nil {
		strategy = NewForwardToAll()
	}
	return &Broadcaster{
		strategy: strategy,
		settings: newSettings(opts),
	}
}

// Strategy returns the routing strategy.
func (x *Broadcaster) Strategy() MulticastStrategy {
	return x.strategy
}

// Start starts the pool of the strategy.
func (x *Broadcaster) Start(ctx *actor.Context) error {
	if err := x.strategy.Start(ctx.Hub()); err != nil {
		ctx.Logger().Warnf("failed to start routees: %v", err)
	}
	return nil
}

// React forwards msg to every recipient.
func (x *Broadcaster) React(ctx *actor.Context, msg *actor.Message) error {
	if !x.settings.validate(msg) {
		ctx.Unhandled()
		return nil
	}

	recipients := x.strategy.Recipients(msg)
	if len(recipients) == 0 {
		ctx.Unhandled()
		return nil
	}

	for _, recipient := range recipients {
		if err := ctx.Forward(msg, recipient); err != nil {
			ctx.Logger().Debugf("failed to broadcast to %s: %v", recipient.String(), err)
		}
	}
	return nil
}
