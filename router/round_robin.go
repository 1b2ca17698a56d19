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
	"go.uber.org/atomic"

	"github.com/tochemey/mailhub/actor"
	"github.com/tochemey/mailhub/address"
)

// RoundRobin rotates over the pool making sure that if there are n members,
// then for n messages routed, each member is picked once. The cursor survives
// changes to the pool.
type RoundRobin struct {
	*members
	next *atomic.Uint64
}

// enforce compilation error
var _ Strategy = (*RoundRobin)(nil)

// NewRoundRobin creates an instance of RoundRobin
func NewRoundRobin(addrs ...*address.Address) *RoundRobin {
	return &RoundRobin{
		members: newMembers(addrs),
		next:    atomic.NewUint64(0),
	}
}

// Recipient returns the next member in turn, or nil when the pool is empty.
func (x *RoundRobin) Recipient(*actor.Message) *address.Address {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if len(x.addrs) == 0 {
		return nil
	}
	n := x.next.Inc()
	return x.addrs[(n-1)%uint64(len(x.addrs))]
}
