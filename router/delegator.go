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

// Delegator forwards each message to the single member picked by its
// Strategy. The reply-to of the message is kept so that the member answers
// the original caller rather than the delegator.
type Delegator struct {
	strategy Strategy
	settings *settings
}

var (
	_ actor.Behavior = (*Delegator)(nil)
	_ actor.Starter  = (*Delegator)(nil)
)

// NewDelegator creates a Delegator. A nil strategy is a round-robin over an
// empty pool.
func NewDelegator(strategy Strategy, opts ...Option) *Delegator {
	if strategy == nil {
		strategy = NewRoundRobin()
	}
	return &Delegator{
		strategy: strategy,
		settings: newSettings(opts),
	}
}

// Strategy returns the routing strategy.
func (x *Delegator) Strategy() Strategy {
	return x.strategy
}

// Start starts the pool of the strategy.
func (x *Delegator) Start(ctx *actor.Context) error {
	if err := x.strategy.Start(ctx.Hub()); err != nil {
		ctx.Logger().Warnf("failed to start routees: %v", err)
	}
	return nil
}

// React forwards msg to the recipient picked by the strategy. Messages that
// fail validation or have no recipient are dropped.
func (x *Delegator) React(ctx *actor.Context, msg *actor.Message) error {
	if !x.settings.validate(msg) {
		ctx.Unhandled()
		return nil
	}

	recipient := x.strategy.Recipient(msg)
	if recipient == nil {
		ctx.Unhandled()
		return nil
	}

	if err := ctx.Forward(msg, recipient); err != nil {
		ctx.Logger().Debugf("failed to delegate to %s: %v", recipient.String(), err)
	}
	return nil
}
