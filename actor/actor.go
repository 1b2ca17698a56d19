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
	"sync"

	"go.uber.org/atomic"

	"github.com/tochemey/mailhub/address"
	"github.com/tochemey/mailhub/internal/queue"
	"github.com/tochemey/mailhub/log"
)

const (
	idle int32 = iota
	busy
)

// throughput is the number of mailbox items an actor handles before giving
// its worker back to the pool.
const throughput = 64

// mailItem is either a message to react to or a start request.
type mailItem struct {
	message *Message
	start   bool
}

// binding attaches an allocated address to its actor. It is the resident of
// every address handed out by a hub and becomes dead when the address is freed.
type binding struct {
	hub   *Hub
	actor *Actor
	live  atomic.Bool
}

func newBinding(hub *Hub, actor *Actor) *binding {
	b := &binding{hub: hub, actor: actor}
	b.live.Store(true)
	return b
}

// Actor is a mailbox together with the behavior reacting to it.
//
// The hub guarantees that Start and React of one actor never run at the same
// time, whatever the number of workers. Messages sent by one sender to one
// actor are reacted to in send order.
type Actor struct {
	hub      *Hub
	behavior Behavior
	logger   log.Logger

	self    *address.Address
	mailbox *queue.Mpsc[mailItem]

	processing atomic.Int32
	startAsked atomic.Bool
	retired    atomic.Bool

	// awaiting and wake implement the hand-off with AwaitMessage.
	awaiting atomic.Bool
	wake     chan struct{}

	// pendingStart is only touched by the goroutine draining the mailbox.
	pendingStart bool

	mu        sync.Mutex
	addresses []*address.Address
}

func newActor(hub *Hub, behavior Behavior) *Actor {
	return &Actor{
		hub:      hub,
		behavior: behavior,
		logger:   hub.logger,
		mailbox:  queue.NewMpsc[mailItem](),
		wake:     make(chan struct{}, 1),
	}
}

// Address returns the unique address of the actor.
func (a *Actor) Address() *address.Address {
	return a.self
}

// Hub returns the hub the actor belongs to.
func (a *Actor) Hub() *Hub {
	return a.hub
}

// Behavior returns the behavior of the actor.
func (a *Actor) Behavior() Behavior {
	return a.behavior
}

// Send delivers msg to the given recipient with this actor as sender. The
// reply-to of the delivered copy defaults to this actor.
func (a *Actor) Send(msg *Message, to *address.Address) error {
	return a.hub.deliver(msg, a.self, to, false)
}

// Forward delivers msg to the given recipient with this actor as sender while
// keeping the reply-to of msg, so the recipient answers the original caller.
func (a *Actor) Forward(msg *Message, to *address.Address) error {
	return a.hub.deliver(msg, a.self, to, true)
}

// Addresses returns the addresses currently bound to the actor.
func (a *Actor) Addresses() []*address.Address {
	a.mu.Lock()
	defer a.mu.Unlock()
	live := make([]*address.Address, 0, len(a.addresses))
	for _, addr := range a.addresses {
		if b := addr.Resident().(*binding); b.live.Load() {
			live = append(live, addr)
		}
	}
	return live
}

// Retire frees every address of the actor. Messages still queued are dropped
// and further sends to any of its addresses fail. Retire is idempotent.
func (a *Actor) Retire() {
	if !a.retired.CompareAndSwap(false, true) {
		return
	}

	a.mu.Lock()
	addresses := a.addresses
	a.addresses = nil
	a.mu.Unlock()

	for _, addr := range addresses {
		a.hub.Free(addr)
	}
	a.logger.Debugf("actor %s retired", a.self.String())
}

// IsRetired reports whether Retire has been called.
func (a *Actor) IsRetired() bool {
	return a.retired.Load()
}

// String returns the unique address of the actor
func (a *Actor) String() string {
	return a.self.String()
}

func (a *Actor) track(addr *address.Address) {
	a.mu.Lock()
	a.addresses = append(a.addresses, addr)
	a.mu.Unlock()
}

// enqueue appends item to the mailbox and makes sure somebody consumes it:
// either the callback parked in AwaitMessage or a drain loop.
func (a *Actor) enqueue(item mailItem) {
	a.mailbox.Push(item)
	if a.awaiting.Load() {
		select {
		case a.wake <- struct{}{}:
		default:
		}
	}
	a.schedule()
}

// schedule starts a drain loop when the actor is idle. Only the transition
// from idle to busy submits work, which is what makes callbacks of one actor
// mutually exclusive.
func (a *Actor) schedule() {
	if !a.processing.CompareAndSwap(idle, busy) {
		return
	}

	if err := a.hub.pool.Submit(a.drain); err != nil {
		a.processing.Store(idle)
		a.logger.Debugf("actor %s not scheduled: %v", a.self.String(), err)
	}
}

func (a *Actor) drain() {
	handled := 0
	for {
		for handled < throughput {
			item, ok := a.mailbox.Pop()
			if !ok {
				break
			}
			a.handle(item)
			handled++

			if a.pendingStart {
				a.pendingStart = false
				a.handle(mailItem{start: true})
			}
		}

		if handled >= throughput {
			// yield the worker, the loop stays busy
			if err := a.hub.pool.Submit(a.drain); err == nil {
				return
			}
			handled = 0
			continue
		}

		a.processing.Store(idle)
		if !a.mailbox.IsEmpty() && a.processing.CompareAndSwap(idle, busy) {
			continue
		}
		return
	}
}

func (a *Actor) handle(item mailItem) {
	if a.retired.Load() {
		if !item.start {
			a.hub.deadletter(item.message, a.self)
		}
		return
	}

	ctx := newContext(a, item.message)
	defer ctx.release()

	if item.start {
		starter, ok := a.behavior.(Starter)
		if !ok {
			return
		}

		if err := guard(func() error { return starter.Start(ctx) }); err != nil {
			a.hub.fatal(a, ExitCodeStartFault, err)
		}
		return
	}

	a.hub.processed(a)
	if err := guard(func() error { return a.behavior.React(ctx, item.message) }); err != nil {
		a.hub.fatal(a, ExitCodeReactFault, err)
	}
}

// popMessage is used by AwaitMessage. A start request found on the way is
// deferred until the running callback returns.
func (a *Actor) popMessage() (*Message, bool) {
	for {
		item, ok := a.mailbox.Pop()
		if !ok {
			return nil, false
		}
		if item.start {
			a.pendingStart = true
			continue
		}
		a.hub.processed(a)
		return item.message, true
	}
}
