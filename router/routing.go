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
	"fmt"
	"strings"

	"github.com/tochemey/mailhub/address"
)

// Kind names a built-in delegation strategy.
type Kind int

const (
	// RoundRobinKind rotates over the pool making sure that if there are n
	// members, then for n messages each member is forwarded one message.
	RoundRobinKind Kind = iota
	// RandomKind selects a member at random for every message.
	RandomKind
	// ConsistentHashKind routes messages with the same key to the same member
	// as long as the pool stays the same.
	ConsistentHashKind
)

// String returns the configuration name of the kind.
func (k Kind) String() string {
	switch k {
	case RoundRobinKind:
		return "round-robin"
	case RandomKind:
		return "random"
	case ConsistentHashKind:
		return "consistent-hash"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind converts a configuration name into a Kind.
func ParseKind(text string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "", "round-robin", "roundrobin":
		return RoundRobinKind, nil
	case "random":
		return RandomKind, nil
	case "consistent-hash", "consistenthash":
		return ConsistentHashKind, nil
	default:
		return RoundRobinKind, fmt.Errorf("unknown routing strategy %q", text)
	}
}

// NewStrategy creates the strategy of the given kind over addrs. The
// consistent hash strategy keys messages by their formatted payload.
func NewStrategy(kind Kind, addrs ...*address.Address) (Strategy, error) {
	switch kind {
	case RoundRobinKind:
		return NewRoundRobin(addrs...), nil
	case RandomKind:
		return NewRandom(addrs...), nil
	case ConsistentHashKind:
		return NewConsistentHash(nil, addrs...), nil
	default:
		return nil, fmt.Errorf("unknown routing strategy %s", kind)
	}
}
