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
	"iter"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"

	"github.com/tochemey/mailhub/address"
	gerrors "github.com/tochemey/mailhub/errors"
	imetric "github.com/tochemey/mailhub/internal/metric"
	"github.com/tochemey/mailhub/internal/workerpool"
	"github.com/tochemey/mailhub/internal/xsync"
	"github.com/tochemey/mailhub/log"
)

// Hub owns an address space and the worker pool running the callbacks of its
// actors.
//
// The address table maps the externalized form of every bound address to the
// allocated Address. Allocation and release are serialized; resolution of
// addresses allocated by the hub itself never touches the table since they
// carry a direct reference to their actor.
type Hub struct {
	logger            log.Logger
	parallelism       int
	workerIdleTimeout time.Duration
	fatalHandler      FatalHandler
	metricEnabled     bool

	pool     *workerpool.WorkerPool
	table    *xsync.Map[string, *address.Address]
	sequence *atomic.Uint64

	started *atomic.Bool
	stopped *atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc

	deadletters  *atomic.Int64
	metric       *imetric.HubMetric
	registration metric.Registration
}

// NewHub creates a hub. The hub must be started before messages can be sent.
func NewHub(opts ...Option) *Hub {
	hub := &Hub{
		logger:            log.DefaultLogger,
		parallelism:       runtime.GOMAXPROCS(0),
		workerIdleTimeout: time.Second,
		table:             xsync.NewMap[string, *address.Address](),
		sequence:          atomic.NewUint64(0),
		started:           atomic.NewBool(false),
		stopped:           atomic.NewBool(false),
		deadletters:       atomic.NewInt64(0),
	}

	for _, opt := range opts {
		opt.Apply(hub)
	}

	if hub.fatalHandler == nil {
		hub.fatalHandler = exitProcess(hub.logger)
	}

	hub.ctx, hub.cancel = context.WithCancel(context.Background())
	hub.pool = workerpool.New(
		workerpool.WithParallelism(hub.parallelism),
		workerpool.WithIdleTimeout(hub.workerIdleTimeout),
	)
	return hub
}

// Start makes the hub dispatch messages. Calling Start on a running hub is a
// no-op; a stopped hub cannot be restarted.
func (h *Hub) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if h.stopped.Load() {
		return gerrors.ErrHubStopped
	}

	if !h.started.CompareAndSwap(false, true) {
		return nil
	}

	if h.metricEnabled {
		if err := h.registerMetrics(); err != nil {
			h.started.Store(false)
			return err
		}
	}

	h.pool.Start()
	h.logger.Infof("hub started with parallelism=%d", h.pool.Parallelism())
	return nil
}

// Stop interrupts the blocking primitives of every actor, stops accepting
// messages and waits for running callbacks to return or ctx to be done.
func (h *Hub) Stop(ctx context.Context) error {
	if !h.started.Load() {
		return gerrors.ErrHubNotStarted
	}

	if !h.stopped.CompareAndSwap(false, true) {
		return nil
	}

	h.cancel()
	if h.registration != nil {
		_ = h.registration.Unregister()
	}

	err := h.pool.Stop(ctx)
	h.logger.Infof("hub stopped with %d bound addresses", h.table.Len())
	return err
}

// Logger returns the hub logger.
func (h *Hub) Logger() log.Logger {
	return h.logger
}

// Spawn creates an actor running behavior and allocates its unique address.
func (h *Hub) Spawn(behavior Behavior) (*Actor, error) {
	if behavior == nil {
		return nil, gerrors.ErrBehaviorRequired
	}

	if h.stopped.Load() {
		return nil, gerrors.ErrHubStopped
	}

	actor := newActor(h, behavior)
	h.AllocateUnique(actor)
	return actor, nil
}

// SpawnFunc creates an actor from plain functions.
func (h *Hub) SpawnFunc(react ReactFunc, opts ...FuncOption) (*Actor, error) {
	return h.Spawn(NewFuncBehavior(react, opts...))
}

// AllocateUnique binds a fresh unique address to actor and returns it. The
// sequence number is never reused. An actor owns exactly one unique address:
// calling AllocateUnique again returns the existing one.
func (h *Hub) AllocateUnique(actor *Actor) *address.Address {
	actor.mu.Lock()
	defer actor.mu.Unlock()
	if actor.self != nil {
		return actor.self
	}

	addr := address.NewUnique(h.sequence.Inc(), newBinding(h, actor))
	h.table.Set(addr.String(), addr)
	actor.self = addr
	actor.addresses = append(actor.addresses, addr)
	return addr
}

// AllocateNamed binds name to actor. It fails with ErrIllegalName when the
// name breaks the naming convention and with ErrNameTaken when the name is
// bound already; the existing binding is left untouched.
func (h *Hub) AllocateNamed(actor *Actor, name string) (*address.Address, error) {
	if actor == nil || actor.hub != h {
		return nil, gerrors.ErrForeignAddress
	}

	if err := address.ValidateName(name); err != nil {
		return nil, err
	}

	if actor.IsRetired() {
		return nil, gerrors.NewErrActorRetired(actor.String())
	}

	addr := address.NewNamed(name, newBinding(h, actor))
	if !h.table.SetIfAbsent(addr.String(), addr) {
		return nil, gerrors.NewErrNameTaken(name)
	}

	actor.track(addr)
	if actor.IsRetired() {
		// lost a race with Retire
		h.Free(addr)
		return nil, gerrors.NewErrActorRetired(actor.String())
	}

	h.logger.Debugf("address %s bound to actor %s", addr.String(), actor.String())
	return addr, nil
}

// Free unbinds addr and reports whether a binding was removed. Freeing an
// address allocated by this hub only removes that very binding: once a name
// is freed and allocated again, the old handle cannot free the new one.
// Addresses obtained with address.Parse free whatever is bound to their name.
func (h *Hub) Free(addr *address.Address) bool {
	if addr.IsNoSender() {
		return false
	}

	own, isOwn := h.bindingOf(addr)
	return h.table.DeleteIf(addr.String(), func(bound *address.Address) bool {
		current := bound.Resident().(*binding)
		if isOwn && current != own {
			return false
		}
		current.live.Store(false)
		return true
	})
}

// Lookup resolves a name, given bare or in externalized form.
func (h *Hub) Lookup(name string) (*address.Address, bool) {
	return h.table.Get(address.Normalize(name))
}

// List iterates over the bound addresses. The set of keys is captured when
// iteration begins; each entry is resolved when reached, so addresses freed
// in the meantime are skipped and addresses allocated in the meantime are not
// visited.
func (h *Hub) List() iter.Seq[*address.Address] {
	return func(yield func(*address.Address) bool) {
		for _, key := range h.table.Keys() {
			addr, ok := h.table.Get(key)
			if !ok {
				continue
			}
			if !yield(addr) {
				return
			}
		}
	}
}

// Len returns the number of bound addresses.
func (h *Hub) Len() int {
	return h.table.Len()
}

// Deadletters returns the number of messages that could not be routed or were
// marked unhandled.
func (h *Hub) Deadletters() int64 {
	return h.deadletters.Load()
}

// Send delivers msg to the given recipient from outside any actor: the sender
// is address.NoSender(). It fails fast when the recipient is missing or
// unknown and never blocks.
func (h *Hub) Send(msg *Message, to *address.Address) error {
	return h.deliver(msg, address.NoSender(), to, false)
}

// StartActor schedules the Start callback of the actor bound to addr. Start
// runs at most once per actor; a second request fails with
// ErrActorAlreadyStarted.
func (h *Hub) StartActor(addr *address.Address) error {
	if err := h.checkRunning(); err != nil {
		return err
	}

	actor, err := h.resolve(addr)
	if err != nil {
		return err
	}

	if !actor.startAsked.CompareAndSwap(false, true) {
		return gerrors.ErrActorAlreadyStarted
	}

	actor.enqueue(mailItem{start: true})
	return nil
}

// deliver stamps msg with from and enqueues it. A relayed message keeps its
// reply-to untouched, even when empty.
func (h *Hub) deliver(msg *Message, from, to *address.Address, relay bool) error {
	if to.IsNoSender() {
		return gerrors.ErrRecipientRequired
	}

	if msg == nil {
		return gerrors.ErrMessageRequired
	}

	if err := h.checkRunning(); err != nil {
		return err
	}

	actor, err := h.resolve(to)
	if err != nil {
		h.deadletter(msg, to)
		return err
	}

	envelope := msg.stamp(from)
	if relay {
		envelope = msg.relay(from)
	}

	actor.enqueue(mailItem{message: envelope})
	return nil
}

func (h *Hub) checkRunning() error {
	switch {
	case h.stopped.Load():
		return gerrors.ErrHubStopped
	case !h.started.Load():
		return gerrors.ErrHubNotStarted
	default:
		return nil
	}
}

// resolve finds the actor bound to addr, through the resident when addr was
// allocated by this hub and through the address table otherwise.
func (h *Hub) resolve(addr *address.Address) (*Actor, error) {
	b, ok := h.bindingOf(addr)
	if !ok {
		bound, found := h.table.Get(addr.String())
		if !found {
			return nil, gerrors.NewErrAddressNotFound(addr.String())
		}
		b = bound.Resident().(*binding)
	}

	if !b.live.Load() {
		if b.actor.IsRetired() {
			return nil, gerrors.NewErrActorRetired(addr.String())
		}
		return nil, gerrors.NewErrAddressNotFound(addr.String())
	}
	return b.actor, nil
}

func (h *Hub) bindingOf(addr *address.Address) (*binding, bool) {
	b, ok := addr.Resident().(*binding)
	if !ok || b.hub != h {
		return nil, false
	}
	return b, true
}

func (h *Hub) deadletter(msg *Message, to *address.Address) {
	h.deadletters.Inc()
	if h.metric != nil {
		h.metric.Deadletters().Add(h.ctx, 1)
	}
	if h.logger.Enabled(log.DebugLevel) && msg != nil {
		h.logger.Debugf("deadletter to=%s from=%s payload=%T", to.String(), msg.Sender().String(), msg.Payload())
	}
}

func (h *Hub) processed(*Actor) {
	if h.metric != nil {
		h.metric.ProcessedMessages().Add(h.ctx, 1)
	}
}

func (h *Hub) fatal(actor *Actor, code int, err error) {
	site := "react"
	if code == ExitCodeStartFault {
		site = "start"
	}
	h.logger.With("address", actor.String()).Errorf("actor %s failed in %s: %v", actor.String(), site, err)
	h.fatalHandler(code, err)
}

func (h *Hub) registerMetrics() error {
	meter := imetric.NewProvider().Meter()
	instruments, err := imetric.NewHubMetric(meter)
	if err != nil {
		return err
	}

	registration, err := meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		observer.ObserveInt64(instruments.ActorsCount(), int64(h.table.Len()))
		observer.ObserveInt64(instruments.BlockedWorkers(), int64(h.pool.Blocked()))
		return nil
	}, instruments.ActorsCount(), instruments.BlockedWorkers())
	if err != nil {
		return err
	}

	h.metric = instruments
	h.registration = registration
	return nil
}
