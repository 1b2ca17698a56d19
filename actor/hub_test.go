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
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/mailhub/address"
	gerrors "github.com/tochemey/mailhub/errors"
	"github.com/tochemey/mailhub/log"
)

func TestHubLifecycle(t *testing.T) {
	t.Run("With send before start", func(t *testing.T) {
		hub := NewHub(WithLogger(log.DiscardLogger))
		actor, err := hub.SpawnFunc(nil)
		require.NoError(t, err)
		require.ErrorIs(t, hub.Send(NewMessage("hi"), actor.Address()), gerrors.ErrHubNotStarted)
		require.ErrorIs(t, hub.Stop(context.Background()), gerrors.ErrHubNotStarted)
	})
	t.Run("With send after stop", func(t *testing.T) {
		hub := NewHub(WithLogger(log.DiscardLogger))
		require.NoError(t, hub.Start(context.Background()))
		require.NoError(t, hub.Start(context.Background()))
		actor, err := hub.SpawnFunc(nil)
		require.NoError(t, err)

		require.NoError(t, hub.Stop(context.Background()))
		require.NoError(t, hub.Stop(context.Background()))
		require.ErrorIs(t, hub.Send(NewMessage("hi"), actor.Address()), gerrors.ErrHubStopped)
		require.ErrorIs(t, hub.Start(context.Background()), gerrors.ErrHubStopped)
		_, err = hub.SpawnFunc(nil)
		require.ErrorIs(t, err, gerrors.ErrHubStopped)
	})
	t.Run("With canceled start context", func(t *testing.T) {
		hub := NewHub(WithLogger(log.DiscardLogger))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		require.ErrorIs(t, hub.Start(ctx), context.Canceled)
	})
	t.Run("With nil behavior", func(t *testing.T) {
		hub, _ := newTestHub(t)
		_, err := hub.Spawn(nil)
		require.ErrorIs(t, err, gerrors.ErrBehaviorRequired)
	})
	t.Run("With metrics enabled", func(t *testing.T) {
		hub, _ := newTestHub(t, WithMetric())
		actor, received := collector(t, hub)
		require.NoError(t, hub.Send(NewMessage(1), actor.Address()))
		receive(t, received)
		require.NotNil(t, hub.metric)
	})
	t.Run("With Default hub created once", func(t *testing.T) {
		require.Same(t, Default(), Default())
		require.True(t, Default().started.Load())
	})
}

func TestAddressSpace(t *testing.T) {
	t.Run("With unique addresses never reused", func(t *testing.T) {
		hub, _ := newTestHub(t)
		seen := make(map[string]struct{})
		for range 100 {
			actor, err := hub.SpawnFunc(nil)
			require.NoError(t, err)
			require.Equal(t, address.UniqueKind, actor.Address().Kind())
			_, duplicate := seen[actor.Address().String()]
			require.False(t, duplicate)
			seen[actor.Address().String()] = struct{}{}
			actor.Retire()
		}
	})
	t.Run("With AllocateUnique idempotent", func(t *testing.T) {
		hub, _ := newTestHub(t)
		actor, err := hub.SpawnFunc(nil)
		require.NoError(t, err)
		require.Same(t, actor.Address(), hub.AllocateUnique(actor))
		require.Equal(t, 1, hub.Len())
	})
	t.Run("With name already taken", func(t *testing.T) {
		hub, _ := newTestHub(t)
		first, err := hub.SpawnFunc(nil)
		require.NoError(t, err)
		other, err := hub.SpawnFunc(nil)
		require.NoError(t, err)

		addr, err := hub.AllocateNamed(first, "foo")
		require.NoError(t, err)
		require.Equal(t, "/foo", addr.String())

		_, err = hub.AllocateNamed(other, "foo")
		require.ErrorIs(t, err, gerrors.ErrNameTaken)

		found, ok := hub.Lookup("foo")
		require.True(t, ok)
		require.Same(t, addr, found)
		resolved, err := hub.resolve(found)
		require.NoError(t, err)
		require.Same(t, first, resolved)

		found, ok = hub.Lookup("/foo")
		require.True(t, ok)
		require.Same(t, addr, found)
	})
	t.Run("With illegal names", func(t *testing.T) {
		hub, _ := newTestHub(t)
		actor, err := hub.SpawnFunc(nil)
		require.NoError(t, err)
		for _, name := range []string{"", "+1", "/foo", "bad name"} {
			_, err := hub.AllocateNamed(actor, name)
			require.ErrorIs(t, err, gerrors.ErrIllegalName, name)
		}
		_, err = hub.AllocateNamed(nil, "foo")
		require.ErrorIs(t, err, gerrors.ErrForeignAddress)
	})
	t.Run("With free of unregistered address", func(t *testing.T) {
		hub, _ := newTestHub(t)
		actor, err := hub.SpawnFunc(nil)
		require.NoError(t, err)
		addr, err := hub.AllocateNamed(actor, "kept")
		require.NoError(t, err)

		require.False(t, hub.Free(address.NewNamed("missing", nil)))
		require.False(t, hub.Free(nil))
		require.False(t, hub.Free(address.NoSender()))

		found, ok := hub.Lookup("kept")
		require.True(t, ok)
		require.Same(t, addr, found)
	})
	t.Run("With free idempotent and no residual aliasing", func(t *testing.T) {
		hub, _ := newTestHub(t)
		first, firstReceived := collector(t, hub)
		second, secondReceived := collector(t, hub)

		old, err := hub.AllocateNamed(first, "svc")
		require.NoError(t, err)
		require.True(t, hub.Free(old))
		require.False(t, hub.Free(old))
		require.ErrorIs(t, hub.Send(NewMessage("lost"), old), gerrors.ErrAddressNotFound)

		current, err := hub.AllocateNamed(second, "svc")
		require.NoError(t, err)
		// the stale handle neither reaches nor frees the new owner
		require.ErrorIs(t, hub.Send(NewMessage("lost"), old), gerrors.ErrAddressNotFound)
		require.False(t, hub.Free(old))

		require.NoError(t, hub.Send(NewMessage("hello"), current))
		require.Equal(t, "hello", receive(t, secondReceived).Payload())
		require.Empty(t, firstReceived)
	})
	t.Run("With parsed addresses resolved through the table", func(t *testing.T) {
		hub, _ := newTestHub(t)
		actor, received := collector(t, hub)
		_, err := hub.AllocateNamed(actor, "echo")
		require.NoError(t, err)

		parsed, err := address.Parse("/echo")
		require.NoError(t, err)
		require.NoError(t, hub.Send(NewMessage("named"), parsed))
		require.Equal(t, "named", receive(t, received).Payload())

		parsed, err = address.Parse(actor.Address().String())
		require.NoError(t, err)
		require.NoError(t, hub.Send(NewMessage("unique"), parsed))
		require.Equal(t, "unique", receive(t, received).Payload())

		// an address allocated by another hub is resolved by name
		otherHub, _ := newTestHub(t)
		otherActor, err := otherHub.SpawnFunc(nil)
		require.NoError(t, err)
		foreign, err := otherHub.AllocateNamed(otherActor, "echo")
		require.NoError(t, err)
		require.NoError(t, hub.Send(NewMessage("foreign"), foreign))
		require.Equal(t, "foreign", receive(t, received).Payload())

		parsed, err = address.Parse("/nobody")
		require.NoError(t, err)
		require.ErrorIs(t, hub.Send(NewMessage("x"), parsed), gerrors.ErrAddressNotFound)
		require.EqualValues(t, 1, hub.Deadletters())
	})
	t.Run("With List skipping freed addresses", func(t *testing.T) {
		hub, _ := newTestHub(t)
		actor, err := hub.SpawnFunc(nil)
		require.NoError(t, err)
		a, err := hub.AllocateNamed(actor, "a")
		require.NoError(t, err)
		b, err := hub.AllocateNamed(actor, "b")
		require.NoError(t, err)

		var listed []string
		for addr := range hub.List() {
			listed = append(listed, addr.String())
		}
		require.ElementsMatch(t, []string{actor.Address().String(), "/a", "/b"}, listed)

		visited := 0
		for addr := range hub.List() {
			visited++
			// freeing while iterating removes entries not reached yet
			if !addr.Equals(a) {
				hub.Free(a)
			}
			if !addr.Equals(b) {
				hub.Free(b)
			}
		}
		require.Less(t, visited, 3)
		require.Equal(t, 1, hub.Len())
	})
	t.Run("With List stopped early", func(t *testing.T) {
		hub, _ := newTestHub(t)
		for range 5 {
			_, err := hub.SpawnFunc(nil)
			require.NoError(t, err)
		}
		count := 0
		for range hub.List() {
			count++
			if count == 2 {
				break
			}
		}
		require.Equal(t, 2, count)
	})
	t.Run("With retired actor", func(t *testing.T) {
		hub, _ := newTestHub(t)
		actor, err := hub.SpawnFunc(nil)
		require.NoError(t, err)
		named, err := hub.AllocateNamed(actor, "gone")
		require.NoError(t, err)
		require.Len(t, actor.Addresses(), 2)

		actor.Retire()
		actor.Retire()
		require.True(t, actor.IsRetired())
		require.Empty(t, actor.Addresses())
		require.Zero(t, hub.Len())
		require.ErrorIs(t, hub.Send(NewMessage("x"), actor.Address()), gerrors.ErrActorRetired)
		require.ErrorIs(t, hub.Send(NewMessage("x"), named), gerrors.ErrActorRetired)
		_, err = hub.AllocateNamed(actor, "again")
		require.ErrorIs(t, err, gerrors.ErrActorRetired)
	})
	t.Run("With concurrent allocation of one name", func(t *testing.T) {
		hub, _ := newTestHub(t)
		var winners sync.Map
		var wg sync.WaitGroup
		for range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				actor, err := hub.SpawnFunc(nil)
				if err != nil {
					return
				}
				if _, err := hub.AllocateNamed(actor, "leader"); err == nil {
					winners.Store(actor, struct{}{})
				}
			}()
		}
		wg.Wait()

		count := 0
		winners.Range(func(_, _ any) bool {
			count++
			return true
		})
		require.Equal(t, 1, count)
	})
}

func TestSend(t *testing.T) {
	t.Run("With missing recipient", func(t *testing.T) {
		hub, _ := newTestHub(t)
		require.ErrorIs(t, hub.Send(NewMessage("x"), nil), gerrors.ErrRecipientRequired)
		require.ErrorIs(t, hub.Send(NewMessage("x"), address.NoSender()), gerrors.ErrRecipientRequired)

		actor, _ := collector(t, hub)
		require.ErrorIs(t, hub.Send(nil, actor.Address()), gerrors.ErrMessageRequired)
	})
	t.Run("With sender and reply-to stamping", func(t *testing.T) {
		hub, _ := newTestHub(t)
		recipient, received := collector(t, hub)
		sender, err := hub.SpawnFunc(nil)
		require.NoError(t, err)

		require.NoError(t, hub.Send(NewMessage("outside"), recipient.Address()))
		msg := receive(t, received)
		assert.True(t, msg.Sender().IsNoSender())
		assert.True(t, msg.ReplyTo().IsNoSender())

		original := NewMessage("inside")
		require.NoError(t, sender.Send(original, recipient.Address()))
		msg = receive(t, received)
		assert.True(t, msg.Sender().Equals(sender.Address()))
		assert.True(t, msg.ReplyTo().Equals(sender.Address()))
		// the sent message itself is left untouched
		assert.True(t, original.Sender().IsNoSender())

		relay := address.NewNamed("caller", nil)
		require.NoError(t, sender.Send(NewMessage("relayed").WithReplyTo(relay), recipient.Address()))
		msg = receive(t, received)
		assert.True(t, msg.Sender().Equals(sender.Address()))
		assert.True(t, msg.ReplyTo().Equals(relay))
	})
	t.Run("With per-sender ordering", func(t *testing.T) {
		hub, _ := newTestHub(t, WithParallelism(4))
		recipient, received := collector(t, hub)

		const count = 500
		sender, err := hub.SpawnFunc(func(ctx *Context, msg *Message) error {
			for i := range count {
				if err := ctx.Tell(recipient.Address(), i); err != nil {
					return err
				}
			}
			return nil
		})
		require.NoError(t, err)
		require.NoError(t, hub.Send(NewMessage("go"), sender.Address()))

		for i := range count {
			require.Equal(t, i, receive(t, received).Payload())
		}
	})
	t.Run("With mutual exclusion under concurrent traffic", func(t *testing.T) {
		hub, faults := newTestHub(t, WithParallelism(8))

		var (
			mu       sync.Mutex
			inFlight int
			overlap  bool
			total    int
		)
		done := make(chan struct{})
		const count = 400
		actor, err := hub.SpawnFunc(func(ctx *Context, msg *Message) error {
			mu.Lock()
			inFlight++
			if inFlight > 1 {
				overlap = true
			}
			mu.Unlock()

			time.Sleep(50 * time.Microsecond)

			mu.Lock()
			inFlight--
			total++
			if total == count {
				close(done)
			}
			mu.Unlock()
			return nil
		}, WithStart(func(*Context) error { return nil }))
		require.NoError(t, err)

		var wg sync.WaitGroup
		for g := range 8 {
			wg.Add(1)
			go func(g int) {
				defer wg.Done()
				for i := range count / 8 {
					_ = hub.Send(NewMessage(g*1000+i), actor.Address())
				}
			}(g)
		}
		require.NoError(t, hub.StartActor(actor.Address()))
		wg.Wait()

		select {
		case <-done:
		case <-time.After(10 * time.Second):
			t.Fatal("messages were not all processed")
		}
		require.False(t, overlap)
		require.Empty(t, faults)
	})
	t.Run("With a long mailbox spanning several drain rounds", func(t *testing.T) {
		hub, _ := newTestHub(t, WithParallelism(1))
		recipient, received := collector(t, hub)
		const count = 5 * throughput
		for i := range count {
			require.NoError(t, hub.Send(NewMessage(i), recipient.Address()))
		}
		for i := range count {
			require.Equal(t, i, receive(t, received).Payload())
		}
	})
}

func TestStart(t *testing.T) {
	t.Run("With start at most once and serialized with react", func(t *testing.T) {
		hub, _ := newTestHub(t)
		events := make(chan string, 8)
		actor, err := hub.SpawnFunc(
			func(_ *Context, msg *Message) error {
				events <- msg.Payload().(string)
				return nil
			},
			WithStart(func(ctx *Context) error {
				assert.Nil(t, ctx.Message())
				events <- "start"
				return nil
			}))
		require.NoError(t, err)

		require.NoError(t, hub.StartActor(actor.Address()))
		require.ErrorIs(t, hub.StartActor(actor.Address()), gerrors.ErrActorAlreadyStarted)
		require.NoError(t, hub.Send(NewMessage("after"), actor.Address()))

		require.Equal(t, "start", <-events)
		require.Equal(t, "after", <-events)
		require.Empty(t, events)
	})
	t.Run("With start of an unknown address", func(t *testing.T) {
		hub, _ := newTestHub(t)
		require.ErrorIs(t, hub.StartActor(address.NewNamed("nobody", nil)), gerrors.ErrAddressNotFound)
	})
	t.Run("With behavior without start hook", func(t *testing.T) {
		hub, _ := newTestHub(t)
		actor, received := collector(t, hub)
		require.NoError(t, hub.StartActor(actor.Address()))
		require.NoError(t, hub.Send(NewMessage("x"), actor.Address()))
		require.Equal(t, "x", receive(t, received).Payload())
	})
}

func TestFatalFaults(t *testing.T) {
	t.Run("With react returning an error", func(t *testing.T) {
		hub, faults := newTestHub(t)
		boom := errors.New("boom")
		actor, err := hub.SpawnFunc(func(*Context, *Message) error { return boom })
		require.NoError(t, err)
		require.NoError(t, hub.Send(NewMessage("x"), actor.Address()))

		f := <-faults
		require.Equal(t, ExitCodeReactFault, f.code)
		require.ErrorIs(t, f.err, boom)
	})
	t.Run("With start panicking", func(t *testing.T) {
		hub, faults := newTestHub(t)
		actor, err := hub.SpawnFunc(nil, WithStart(func(*Context) error { panic("start failed") }))
		require.NoError(t, err)
		require.NoError(t, hub.StartActor(actor.Address()))

		f := <-faults
		require.Equal(t, ExitCodeStartFault, f.code)
		var pe *gerrors.PanicError
		require.ErrorAs(t, f.err, &pe)
		require.Contains(t, f.err.Error(), "start failed")
	})
	t.Run("With react panicking with an error", func(t *testing.T) {
		hub, faults := newTestHub(t)
		boom := errors.New("boom")
		actor, err := hub.SpawnFunc(func(*Context, *Message) error { panic(boom) })
		require.NoError(t, err)
		require.NoError(t, hub.Send(NewMessage("x"), actor.Address()))

		f := <-faults
		require.Equal(t, ExitCodeReactFault, f.code)
		require.ErrorIs(t, f.err, boom)
	})
}
