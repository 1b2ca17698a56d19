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

// Behavior is what an actor does with its messages. React is invoked once per
// delivered message; invocations on the same actor never overlap.
//
// A non-nil error or a panic escaping React is fatal to the process: the
// hub logs it together with the actor address and exits with
// ExitCodeReactFault.
type Behavior interface {
	React(ctx *Context, msg *Message) error
}

// Starter is implemented by behaviors that need to act when the hub starts
// the actor. Start runs at most once, serialized with React, and only when
// requested with Hub.StartActor.
type Starter interface {
	Start(ctx *Context) error
}

// ReactFunc is a message handling placeholder
type ReactFunc func(ctx *Context, msg *Message) error

// StartFunc defines the start hook of a function based behavior
type StartFunc func(ctx *Context) error

// FuncOption is the interface that applies a FuncBehavior option.
type FuncOption interface {
	// Apply sets the Option value of a FuncBehavior.
	Apply(behavior *FuncBehavior)
}

var _ FuncOption = funcOption(nil)

type funcOption func(behavior *FuncBehavior)

func (f funcOption) Apply(behavior *FuncBehavior) {
	f(behavior)
}

// WithStart defines the StartFunc hook
func WithStart(fn StartFunc) FuncOption {
	return funcOption(func(behavior *FuncBehavior) {
		behavior.start = fn
	})
}

// FuncBehavior is a Behavior made of plain functions.
type FuncBehavior struct {
	react ReactFunc
	start StartFunc
}

var (
	_ Behavior = (*FuncBehavior)(nil)
	_ Starter  = (*FuncBehavior)(nil)
)

// NewFuncBehavior creates a behavior from react and the given options.
func NewFuncBehavior(react ReactFunc, opts ...FuncOption) *FuncBehavior {
	behavior := &FuncBehavior{react: react}
	for _, opt := range opts {
		opt.Apply(behavior)
	}
	return behavior
}

// React implements Behavior.
func (x *FuncBehavior) React(ctx *Context, msg *Message) error {
	if x.react == nil {
		return nil
	}
	return x.react(ctx, msg)
}

// Start implements Starter.
func (x *FuncBehavior) Start(ctx *Context) error {
	if x.start == nil {
		return nil
	}
	return x.start(ctx)
}
