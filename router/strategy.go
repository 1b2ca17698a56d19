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

// Package router provides routing behaviors that fan inbound messages out to
// a pool of worker actors.
package router

import (
	"errors"
	"slices"
	"sync"

	"go.uber.org/multierr"

	"github.com/tochemey/mailhub/actor"
	"github.com/tochemey/mailhub/address"
	gerrors "github.com/tochemey/mailhub/errors"
)

// Strategy picks the single recipient of a message for a Delegator.
type Strategy interface {
	// Recipient returns the address msg should be forwarded to, or nil to
	// drop the message.
	Recipient(msg *actor.Message) *address.Address
	// Start starts every member of the pool exactly once, including the
	// members added after Start.
	Start(hub *actor.Hub) error
}

// MulticastStrategy picks the recipients of a message for a Broadcaster.
type MulticastStrategy interface {
	// Recipients returns the addresses msg should be forwarded to.
	Recipients(msg *actor.Message) []*address.Address
	// Start starts every member of the pool exactly once, including the
	// members added after Start.
	Start(hub *actor.Hub) error
}

// members is the pool of addresses shared by the built-in strategies.
type members struct {
	mu    sync.RWMutex
	addrs []*address.Address
	hub   *actor.Hub
}

func newMembers(addrs []*address.Address) *members {
	pool := &members{addrs: make([]*address.Address, 0, len(addrs))}
	for _, addr := range addrs {
		if !addr.IsNoSender() {
			pool.addrs = append(pool.addrs, addr)
		}
	}
	return pool
}

// Start starts the current members. Only the first call has an effect.
func (m *members) Start(hub *actor.Hub) error {
	m.mu.Lock()
	if m.hub != nil {
		m.mu.Unlock()
		return nil
	}
	m.hub = hub
	snapshot := slices.Clone(m.addrs)
	m.mu.Unlock()

	return startAll(hub, snapshot)
}

// Add appends addrs to the pool. When the pool has already been started the
// new members are started right away.
func (m *members) Add(addrs ...*address.Address) error {
	added := make([]*address.Address, 0, len(addrs))
	for _, addr := range addrs {
		if !addr.IsNoSender() {
			added = append(added, addr)
		}
	}

	m.mu.Lock()
	m.addrs = append(m.addrs, added...)
	hub := m.hub
	m.mu.Unlock()

	if hub == nil {
		return nil
	}
	return startAll(hub, added)
}

// Remove drops addr from the pool and reports whether it was a member.
func (m *members) Remove(addr *address.Address) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	index := slices.IndexFunc(m.addrs, addr.Equals)
	if index < 0 {
		return false
	}
	m.addrs = slices.Delete(m.addrs, index, index+1)
	return true
}

// Members returns a copy of the pool.
func (m *members) Members() []*address.Address {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.addrs)
}

// Len returns the size of the pool.
func (m *members) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.addrs)
}

// startAll starts each address, tolerating actors that were already started
// by someone else.
func startAll(hub *actor.Hub, addrs []*address.Address) error {
	var err error
	for _, addr := range addrs {
		if startErr := hub.StartActor(addr); startErr != nil && !errors.Is(startErr, gerrors.ErrActorAlreadyStarted) {
			err = multierr.Append(err, startErr)
		}
	}
	return err
}
