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

package client

import (
	"cmp"
	"math/rand/v2"
	"slices"
	"sync"

	"go.uber.org/atomic"
)

// BalancerStrategy defines how the Client spreads requests over its nodes.
type BalancerStrategy int

const (
	// RoundRobinStrategy cycles through the nodes.
	RoundRobinStrategy BalancerStrategy = iota
	// RandomStrategy picks a node at random.
	RandomStrategy
	// LeastLoadStrategy picks the node with the fewest requests in flight.
	LeastLoadStrategy
)

// Balancer locates the node the next request goes to.
type Balancer interface {
	// Set sets the balancer nodes pool
	Set(nodes ...*Node)
	// Next returns the node to use, nil when the pool is empty
	Next() *Node
}

func newBalancer(strategy BalancerStrategy) Balancer {
	switch strategy {
	case RandomStrategy:
		return NewRandom()
	case LeastLoadStrategy:
		return NewLeastLoad()
	default:
		return NewRoundRobin()
	}
}

// RoundRobin implements the round-robin algorithm.
type RoundRobin struct {
	locker sync.RWMutex
	nodes  []*Node
	next   atomic.Uint32
}

var _ Balancer = (*RoundRobin)(nil)

// NewRoundRobin creates an instance of RoundRobin
func NewRoundRobin() *RoundRobin {
	return &RoundRobin{}
}

// Set sets the balancer nodes pool
func (x *RoundRobin) Set(nodes ...*Node) {
	x.locker.Lock()
	x.nodes = nodes
	x.locker.Unlock()
}

// Next returns the next node in the pool
func (x *RoundRobin) Next() *Node {
	x.locker.RLock()
	defer x.locker.RUnlock()
	if len(x.nodes) == 0 {
		return nil
	}
	n := x.next.Inc()
	return x.nodes[(int(n)-1)%len(x.nodes)]
}

// Random picks a node at random.
type Random struct {
	locker sync.RWMutex
	nodes  []*Node
}

var _ Balancer = (*Random)(nil)

// NewRandom creates an instance of Random balancer
func NewRandom() *Random {
	return &Random{}
}

// Set sets the balancer nodes pool
func (x *Random) Set(nodes ...*Node) {
	x.locker.Lock()
	x.nodes = nodes
	x.locker.Unlock()
}

// Next returns a random node of the pool
func (x *Random) Next() *Node {
	x.locker.RLock()
	defer x.locker.RUnlock()
	if len(x.nodes) == 0 {
		return nil
	}
	return x.nodes[rand.IntN(len(x.nodes))] //nolint:gosec
}

// LeastLoad picks the node with the fewest requests in flight. Ties go to
// the node set first.
type LeastLoad struct {
	locker sync.Mutex
	nodes  []*Node
}

var _ Balancer = (*LeastLoad)(nil)

// NewLeastLoad creates an instance of LeastLoad
func NewLeastLoad() *LeastLoad {
	return &LeastLoad{}
}

// Set sets the balancer nodes pool
func (x *LeastLoad) Set(nodes ...*Node) {
	x.locker.Lock()
	x.nodes = nodes
	x.locker.Unlock()
}

// Next returns the least loaded node of the pool
func (x *LeastLoad) Next() *Node {
	x.locker.Lock()
	defer x.locker.Unlock()
	if len(x.nodes) == 0 {
		return nil
	}
	return slices.MinFunc(x.nodes, func(a, b *Node) int {
		return cmp.Compare(a.Load(), b.Load())
	})
}
